package system

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/rover/common"
	"github.com/milk9111/rover/ecs"
	"github.com/milk9111/rover/ecs/component"
	"github.com/rs/zerolog"
)

// LocomotionSystem turns move and jump input into body velocity changes.
// Turning and jump latching happen per frame; probing, driving and vertical
// shaping happen on the fixed tick.
type LocomotionSystem struct {
	gate   gate
	logger zerolog.Logger
	warned warnOnce
}

func NewLocomotionSystem(state component.GameState, logger zerolog.Logger) *LocomotionSystem {
	return &LocomotionSystem{
		gate:   newGate(state, component.GameModeGameplay),
		logger: systemLogger(logger, "locomotion"),
	}
}

// SetEnabled turns the system on or off. Both directions clear transient
// locomotion state.
func (s *LocomotionSystem) SetEnabled(w *ecs.World, enabled bool) {
	if s.gate.setEnabled(enabled) {
		s.reset(w)
	}
}

func (s *LocomotionSystem) running(w *ecs.World) bool {
	run, changed := s.gate.check()
	if changed {
		s.reset(w)
	}
	return run
}

// reset also drops jump presses buffered while inactive.
func (s *LocomotionSystem) reset(w *ecs.World) {
	ecs.ForEach(w, component.LocomotionComponent.Kind(), func(e ecs.Entity, loco *component.Locomotion) {
		loco.Reset()
		if in, ok := ecs.Get(w, e, component.InputComponent.Kind()); ok {
			in.JumpPressed = false
		}
	})
}

func (s *LocomotionSystem) Update(w *ecs.World, dt float64) {
	if w == nil || !s.running(w) {
		return
	}

	ecs.ForEach3(w, component.LocomotionComponent.Kind(), component.InputComponent.Kind(), component.PhysicsBodyComponent.Kind(), func(e ecs.Entity, loco *component.Locomotion, in *component.Input, pb *component.PhysicsBody) {
		if pb.Body == nil {
			s.warned.warn(s.logger, e, "missing physics body")
			return
		}

		loco.Move = in.Move
		loco.JumpHeld = in.JumpHeld
		if in.JumpPressed {
			loco.JumpPending = true
			in.JumpPressed = false
		}

		if dt > 0 && math.Abs(in.Move.X()) > loco.TurnDeadzone {
			yaw := common.WrapAngle(pb.Body.Yaw() + in.Move.X()*loco.TurnSpeed*dt)
			pb.Body.SetYaw(yaw)
			if tr, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
				tr.Yaw = yaw
			}
		}
	})
}

func (s *LocomotionSystem) FixedUpdate(w *ecs.World, dt float64) {
	if w == nil || !s.running(w) {
		return
	}

	ecs.ForEach2(w, component.LocomotionComponent.Kind(), component.PhysicsBodyComponent.Kind(), func(e ecs.Entity, loco *component.Locomotion, pb *component.PhysicsBody) {
		gc, hasCheck := ecs.Get(w, e, component.GroundCheckComponent.Kind())
		switch {
		case pb.Body == nil:
			s.warned.warn(s.logger, e, "missing physics body")
			return
		case !hasCheck:
			s.warned.warn(s.logger, e, "missing ground check anchor")
			return
		case pb.Sensor == nil:
			s.warned.warn(s.logger, e, "missing ground sensor")
			return
		}

		s.step(loco, pb.Body, pb.Sensor, gc, dt)

		if drive, ok := ecs.Get(w, e, component.DrivetrainComponent.Kind()); ok {
			updateDrivetrain(drive, pb.Body, dt)
		}
	})
}

func (s *LocomotionSystem) step(loco *component.Locomotion, body component.Body, sensor component.GroundSensor, gc *component.GroundCheck, dt float64) {
	yaw := body.Yaw()
	origin := body.Position().Add(common.YawRotation(yaw).Rotate(gc.Anchor))
	loco.Grounded = sensor.SenseGround(origin, gc.Distance)

	vel := body.Velocity()
	horizontal := common.Horizontal(vel)
	desired := common.ForwardFromYaw(yaw).Mul(loco.Move.Y() * loco.MoveSpeed)

	authority := 1.0
	if !loco.Grounded {
		authority = common.Clamp01(loco.AirControl)
	}
	target := horizontal.Add(desired.Sub(horizontal).Mul(authority))
	horizontal = common.SmoothDampVec3(horizontal, target, &loco.DriveVelocity, loco.VelocitySmoothing, dt, 0)

	vy := vel.Y()
	if loco.JumpPending && loco.Grounded {
		vy = loco.JumpSpeed
	}
	loco.JumpPending = false

	if g := loco.Glide; g.Enabled && !loco.Grounded && loco.JumpHeld && vy <= g.Threshold {
		vy = common.Lerp(vy, g.Target, common.Clamp01(g.Pull))
	}

	body.SetVelocity(mgl64.Vec3{horizontal.X(), vy, horizontal.Z()})

	if vy < 0 && loco.FallMultiplier != 1 && loco.FallMultiplier > 0 {
		body.AddAcceleration(body.Gravity().Mul(loco.FallMultiplier - 1))
	}
}

func updateDrivetrain(drive *component.Drivetrain, body component.Body, dt float64) {
	vel := common.Horizontal(body.Velocity())
	forward := vel.Dot(common.ForwardFromYaw(body.Yaw()))
	drive.WheelAngle = common.WrapAngle(drive.WheelAngle + forward*drive.WheelSpinRate*dt)

	t := 0.0
	if drive.MaxSpeedForAudio > 0 {
		t = common.Clamp01(vel.Len() / drive.MaxSpeedForAudio)
	}
	drive.EnginePitch = common.Lerp(drive.MinEnginePitch, drive.MaxEnginePitch, t)
	drive.EngineVolume = common.Lerp(drive.MinEngineVolume, drive.MaxEngineVolume, t)
}

// ResetLocomotion clears the transient locomotion state of e.
func ResetLocomotion(w *ecs.World, e ecs.Entity) {
	if loco, ok := ecs.Get(w, e, component.LocomotionComponent.Kind()); ok {
		loco.Reset()
	}
}

func bodyYaw(w *ecs.World, e ecs.Entity) (float64, bool) {
	if pb, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind()); ok && pb.Body != nil {
		return pb.Body.Yaw(), true
	}
	if tr, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
		return tr.Yaw, true
	}
	return 0, false
}
