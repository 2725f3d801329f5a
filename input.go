package main

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/rover/ecs"
	"github.com/milk9111/rover/ecs/component"
)

const (
	stickDeadzone = 0.2
	// stickLookScale converts a full right-stick deflection to pointer
	// pixels per frame.
	stickLookScale = 12.0
	arrowLookScale = 6.0
)

// InputSystem maps keyboard, mouse and the first gamepad onto the Input of
// every player entity not driven by an autopilot.
type InputSystem struct {
	cursorX, cursorY int
	primed           bool
	// Captured is true while mouse motion steers the camera.
	Captured bool
}

func NewInputSystem() *InputSystem {
	return &InputSystem{Captured: true}
}

func (i *InputSystem) Update(w *ecs.World, _ float64) {
	if w == nil {
		return
	}

	moveX, moveY := 0.0, 0.0
	if ebiten.IsKeyPressed(ebiten.KeyA) {
		moveX -= 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) {
		moveX += 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyW) {
		moveY += 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) {
		moveY -= 1
	}

	jump := ebiten.IsKeyPressed(ebiten.KeySpace)
	jumpPressed := inpututil.IsKeyJustPressed(ebiten.KeySpace)
	firePressed := inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) || inpututil.IsKeyJustPressed(ebiten.KeyF)
	recenterPressed := inpututil.IsKeyJustPressed(ebiten.KeyR) || inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonMiddle)

	lookX, lookY := i.pointerDelta()
	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		lookX -= arrowLookScale
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		lookX += arrowLookScale
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		lookY += arrowLookScale
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		lookY -= arrowLookScale
	}

	if gamepads := ebiten.GamepadIDs(); len(gamepads) > 0 {
		id := gamepads[0]
		lx := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal)
		ly := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickVertical)
		if math.Hypot(lx, ly) > stickDeadzone {
			moveX = lx
			moveY = -ly
		}

		jump = jump || ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonRightBottom)
		jumpPressed = jumpPressed || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonRightBottom)
		firePressed = firePressed || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonFrontBottomRight)
		recenterPressed = recenterPressed || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonRightStick)

		rx := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisRightStickHorizontal)
		ry := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisRightStickVertical)
		if math.Hypot(rx, ry) > stickDeadzone {
			lookX += rx * stickLookScale
			lookY -= ry * stickLookScale
		}
	}

	ecs.ForEach2(w, component.PlayerTagComponent.Kind(), component.InputComponent.Kind(), func(e ecs.Entity, _ *component.PlayerTag, input *component.Input) {
		if ecs.Has(w, e, component.AutopilotComponent.Kind()) {
			return
		}
		input.Move = mgl64.Vec2{moveX, moveY}
		input.Look = mgl64.Vec2{lookX, lookY}
		input.JumpHeld = jump
		// Edges accumulate until the owning system consumes them.
		input.JumpPressed = input.JumpPressed || jumpPressed
		input.FirePressed = input.FirePressed || firePressed
		input.RecenterPressed = input.RecenterPressed || recenterPressed
	})
}

// pointerDelta returns cursor motion since the previous frame. Screen Y
// grows downward, so moving the mouse up is a positive look.
func (i *InputSystem) pointerDelta() (float64, float64) {
	x, y := ebiten.CursorPosition()
	if !i.primed || !i.Captured {
		i.cursorX, i.cursorY = x, y
		i.primed = true
		return 0, 0
	}
	dx, dy := x-i.cursorX, y-i.cursorY
	i.cursorX, i.cursorY = x, y
	return float64(dx), float64(-dy)
}
