package system

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/rover/common"
	"github.com/milk9111/rover/ecs"
	"github.com/milk9111/rover/ecs/component"
	"github.com/rs/zerolog"
)

const minRotationTime = 1e-4

// CameraRigSystem accumulates look input into a yaw/pitch pair on Update and
// places the camera behind the head anchor on LateUpdate.
type CameraRigSystem struct {
	gate   gate
	logger zerolog.Logger
	warned warnOnce
}

func NewCameraRigSystem(state component.GameState, logger zerolog.Logger) *CameraRigSystem {
	return &CameraRigSystem{
		gate:   newGate(state, component.GameModeGameplay),
		logger: systemLogger(logger, "camera_rig"),
	}
}

func (s *CameraRigSystem) SetEnabled(w *ecs.World, enabled bool) {
	if s.gate.setEnabled(enabled) {
		s.reset(w)
	}
}

func (s *CameraRigSystem) running(w *ecs.World) bool {
	run, changed := s.gate.check()
	if changed {
		s.reset(w)
	}
	return run
}

// reset makes the next late tick snap instead of smoothing from a stale
// pose, and drops recenter presses buffered while inactive.
func (s *CameraRigSystem) reset(w *ecs.World) {
	ecs.ForEach(w, component.CameraRigComponent.Kind(), func(e ecs.Entity, rig *component.CameraRig) {
		rig.PositionVelocity = mgl64.Vec3{}
		rig.Initialized = false
		if in, ok := ecs.Get(w, e, component.InputComponent.Kind()); ok {
			in.RecenterPressed = false
		}
	})
}

func (s *CameraRigSystem) Update(w *ecs.World, _ float64) {
	if w == nil || !s.running(w) {
		return
	}

	ecs.ForEach(w, component.CameraRigComponent.Kind(), func(e ecs.Entity, rig *component.CameraRig) {
		if in, ok := ecs.Get(w, e, component.InputComponent.Kind()); ok {
			rig.Yaw += in.Look.X() * rig.Sensitivity
			sign := 1.0
			if rig.InvertY {
				sign = -1
			}
			rig.Pitch -= in.Look.Y() * rig.Sensitivity * sign

			if in.RecenterPressed {
				in.RecenterPressed = false
				if !RecenterYawToBody(w, e) {
					s.warned.warn(s.logger, e, "missing body for recenter")
				}
			}
		}
		rig.Pitch = common.Clamp(rig.Pitch, rig.MinPitch, rig.MaxPitch)
	})
}

func (s *CameraRigSystem) LateUpdate(w *ecs.World, dt float64) {
	if w == nil || !s.gate.active {
		return
	}

	ecs.ForEach(w, component.CameraRigComponent.Kind(), func(e ecs.Entity, rig *component.CameraRig) {
		head, ok := WorldPose(w, ecs.Entity(rig.Head))
		if !ok {
			s.warned.warn(s.logger, e, "missing head reference")
			return
		}
		camera := ecs.Entity(rig.Camera)
		if !ecs.IsAlive(w, camera) {
			s.warned.warn(s.logger, e, "missing camera reference")
			return
		}

		desired := head.Position.Add(common.Euler(rig.Pitch, rig.Yaw+rig.BaseYawOffset, 0).Rotate(rig.Offset))
		lookTarget := head.Position.Add(common.Up.Mul(rig.LookHeight))

		if !rig.Initialized {
			rig.Position = desired
			rig.PositionVelocity = mgl64.Vec3{}
			rig.Rotation = common.LookAt(rig.Position, lookTarget)
			rig.Initialized = true
		} else {
			rig.Position = common.SmoothDampVec3(rig.Position, desired, &rig.PositionVelocity, rig.PositionTime, dt, 0)
			blend := common.Clamp01(dt / math.Max(minRotationTime, rig.RotationTime))
			rig.Rotation = common.Slerp(rig.Rotation, common.LookAt(rig.Position, lookTarget), blend)
		}

		writeCameraPose(w, camera, component.CameraPose{Position: rig.Position, Rotation: rig.Rotation})
	})
}

// RecenterYawToBody snaps the camera yaw of e to its body yaw. Pitch is left
// alone and the head re-converges through its own damping.
func RecenterYawToBody(w *ecs.World, e ecs.Entity) bool {
	rig, ok := ecs.Get(w, e, component.CameraRigComponent.Kind())
	if !ok {
		return false
	}
	yaw, ok := bodyYaw(w, e)
	if !ok {
		return false
	}
	rig.Yaw = yaw
	return true
}

func writeCameraPose(w *ecs.World, camera ecs.Entity, pose component.CameraPose) {
	if existing, ok := ecs.Get(w, camera, component.CameraPoseComponent.Kind()); ok {
		*existing = pose
		return
	}
	_ = ecs.Add(w, camera, component.CameraPoseComponent.Kind(), &pose)
}
