package main

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/rover/common"
	"github.com/milk9111/rover/ecs"
	"github.com/milk9111/rover/ecs/component"
	"github.com/milk9111/rover/ecs/system"
	"github.com/milk9111/rover/sandbox"
	"golang.org/x/image/colornames"
)

const pixelsPerMeter = 14.0

// topDownView draws the arena from above: world X to the right, world Z up
// the screen, centred on the rover.
type topDownView struct {
	centre mgl64.Vec3
}

func newTopDownView() *topDownView {
	return &topDownView{}
}

func (v *topDownView) project(p mgl64.Vec3) (float32, float32) {
	x := baseWidth/2 + (p.X()-v.centre.X())*pixelsPerMeter
	y := baseHeight/2 - (p.Z()-v.centre.Z())*pixelsPerMeter
	return float32(x), float32(y)
}

func (v *topDownView) draw(screen *ebiten.Image, sb *sandbox.Sandbox, shots []shot) {
	screen.Fill(colornames.Darkslategray)
	w := sb.World

	if pose, ok := system.WorldPose(w, sb.Arena.Rover); ok {
		v.centre = pose.Position
	}

	v.drawStatic(screen, w.PhysicsWorld())

	for _, sentry := range sb.Arena.Sentries {
		v.drawSentry(screen, w, sentry)
	}
	v.drawRover(screen, w, sb.Arena.Rover)

	if pose, ok := sb.CameraPose(); ok {
		x, y := v.project(pose.Position)
		tx, ty := v.project(pose.Position.Add(common.Horizontal(pose.Forward()).Mul(2)))
		vector.StrokeLine(screen, x, y, tx, ty, 1, colornames.Lightskyblue, true)
		vector.FillCircle(screen, x, y, 4, colornames.Lightskyblue, true)
	}

	for _, s := range shots {
		from := s.event.Position
		to := from.Add(s.event.Direction().Mul(s.event.Speed * s.age))
		x0, y0 := v.project(from)
		x1, y1 := v.project(to)
		vector.StrokeLine(screen, x0, y0, x1, y1, 2, colornames.Orange, true)
	}
}

func (v *topDownView) drawStatic(screen *ebiten.Image, pw *ecs.PhysicsWorld) {
	space := pw.Space()
	if space == nil {
		return
	}
	space.EachShape(func(shape *cp.Shape) {
		if shape.Body() != space.StaticBody {
			return
		}
		bb := shape.BB()
		x0, y0 := v.project(mgl64.Vec3{bb.L, 0, bb.T})
		x1, y1 := v.project(mgl64.Vec3{bb.R, 0, bb.B})
		clr := color.Color(colornames.Dimgray)
		if top, ok := shape.UserData.(float64); ok {
			shade := uint8(common.Clamp(80+top*60, 80, 220))
			clr = color.RGBA{R: shade / 2, G: shade, B: shade / 2, A: 255}
		}
		vector.FillRect(screen, x0, y0, x1-x0, y1-y0, clr, false)
	})
}

func (v *topDownView) drawRover(screen *ebiten.Image, w *ecs.World, rover ecs.Entity) {
	pose, ok := system.WorldPose(w, rover)
	if !ok {
		return
	}
	radius := 0.5
	if pb, ok := ecs.Get(w, rover, component.PhysicsBodyComponent.Kind()); ok && pb.Radius > 0 {
		radius = pb.Radius
	}

	x, y := v.project(pose.Position)
	clr := colornames.Gold
	if loco, ok := ecs.Get(w, rover, component.LocomotionComponent.Kind()); ok && !loco.Grounded {
		clr = colornames.Khaki
	}
	vector.FillCircle(screen, x, y, float32(radius*pixelsPerMeter), clr, true)
	v.heading(screen, pose.Position, pose.Yaw, radius*2, colornames.Black)

	if rig, ok := ecs.Get(w, rover, component.CameraRigComponent.Kind()); ok {
		v.heading(screen, pose.Position, rig.Yaw, radius*3, colornames.Lightskyblue)
	}
	if hc, ok := ecs.Get(w, rover, component.HeadConstraintComponent.Kind()); ok {
		v.heading(screen, pose.Position, pose.Yaw+hc.Yaw, radius*2.5, colornames.Crimson)
	}
}

func (v *topDownView) drawSentry(screen *ebiten.Image, w *ecs.World, sentry ecs.Entity) {
	pose, ok := system.WorldPose(w, sentry)
	if !ok {
		return
	}
	eng, ok := ecs.Get(w, sentry, component.EngagementComponent.Kind())
	if !ok {
		return
	}

	x, y := v.project(pose.Position)
	vector.StrokeCircle(screen, x, y, float32(eng.EngageRadius*pixelsPerMeter), 1, colornames.Indianred, true)
	vector.StrokeCircle(screen, x, y, float32(eng.DisengageRadius*pixelsPerMeter), 1, colornames.Rosybrown, true)

	clr := colornames.Slategray
	if eng.Mode == component.EngagementAttacking {
		clr = colornames.Red
	}
	vector.FillCircle(screen, x, y, 0.6*pixelsPerMeter, clr, true)
	v.heading(screen, pose.Position, eng.HeadYaw, 1.5, colornames.White)
}

func (v *topDownView) heading(screen *ebiten.Image, from mgl64.Vec3, yaw, length float64, clr color.Color) {
	to := from.Add(common.ForwardFromYaw(yaw).Mul(length))
	x0, y0 := v.project(from)
	x1, y1 := v.project(to)
	vector.StrokeLine(screen, x0, y0, x1, y1, 2, clr, true)
}
