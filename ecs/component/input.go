package component

import "github.com/go-gl/mathgl/mgl64"

// Input stores per-frame input state for an entity. The *Pressed fields are
// edges; the system that acts on one clears it.
type Input struct {
	Move            mgl64.Vec2
	Look            mgl64.Vec2
	JumpPressed     bool
	JumpHeld        bool
	FirePressed     bool
	RecenterPressed bool
}

var InputComponent = NewComponent[Input]()
