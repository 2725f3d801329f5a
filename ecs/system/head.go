package system

import (
	"github.com/milk9111/rover/common"
	"github.com/milk9111/rover/ecs"
	"github.com/milk9111/rover/ecs/component"
	"github.com/rs/zerolog"
)

// HeadConstraintSystem turns a head bone toward the camera direction within
// yaw and pitch limits. It runs late, after the camera rig.
type HeadConstraintSystem struct {
	gate   gate
	logger zerolog.Logger
	warned warnOnce
}

func NewHeadConstraintSystem(state component.GameState, logger zerolog.Logger) *HeadConstraintSystem {
	return &HeadConstraintSystem{
		gate:   newGate(state, component.GameModeGameplay),
		logger: systemLogger(logger, "head"),
	}
}

func (s *HeadConstraintSystem) SetEnabled(w *ecs.World, enabled bool) {
	if s.gate.setEnabled(enabled) {
		s.reset(w)
	}
}

func (s *HeadConstraintSystem) reset(w *ecs.World) {
	ecs.ForEach(w, component.HeadConstraintComponent.Kind(), func(_ ecs.Entity, hc *component.HeadConstraint) {
		hc.YawVelocity = 0
		hc.PitchVelocity = 0
	})
}

func (s *HeadConstraintSystem) Update(*ecs.World, float64) {}

func (s *HeadConstraintSystem) LateUpdate(w *ecs.World, dt float64) {
	if w == nil {
		return
	}
	run, changed := s.gate.check()
	if changed {
		s.reset(w)
	}
	if !run {
		return
	}

	ecs.ForEach2(w, component.HeadConstraintComponent.Kind(), component.CameraRigComponent.Kind(), func(e ecs.Entity, hc *component.HeadConstraint, rig *component.CameraRig) {
		yaw, ok := bodyYaw(w, e)
		if !ok {
			s.warned.warn(s.logger, e, "missing body")
			return
		}
		bone, ok := ecs.Get(w, ecs.Entity(hc.Head), component.HeadBoneComponent.Kind())
		if !ok {
			s.warned.warn(s.logger, e, "missing head reference")
			return
		}

		yawTarget := common.Clamp(common.DeltaAngle(yaw, rig.Yaw), -hc.YawLimit, hc.YawLimit)
		pitchTarget := common.Clamp(rig.Pitch, -hc.PitchLimit, hc.PitchLimit)

		hc.Yaw = common.SmoothDampAngle(hc.Yaw, yawTarget, &hc.YawVelocity, hc.SmoothTime, dt, 0)
		hc.Yaw = common.Clamp(hc.Yaw, -hc.YawLimit, hc.YawLimit)
		hc.Pitch = common.SmoothDampAngle(hc.Pitch, pitchTarget, &hc.PitchVelocity, hc.SmoothTime, dt, 0)
		hc.Pitch = common.Clamp(hc.Pitch, -hc.PitchLimit, hc.PitchLimit)

		bone.Local = common.Euler(hc.Pitch, hc.Yaw, 0).Mul(bone.Rest)
	})
}
