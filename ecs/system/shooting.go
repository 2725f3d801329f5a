package system

import (
	"github.com/milk9111/rover/common"
	"github.com/milk9111/rover/ecs"
	"github.com/milk9111/rover/ecs/component"
	"github.com/rs/zerolog"
)

// ShootingSystem turns a fire press into one FireEvent from the weapon's
// fire point.
type ShootingSystem struct {
	gate   gate
	logger zerolog.Logger
}

func NewShootingSystem(state component.GameState, logger zerolog.Logger) *ShootingSystem {
	return &ShootingSystem{
		gate:   newGate(state, component.GameModeGameplay),
		logger: systemLogger(logger, "shooting"),
	}
}

func (s *ShootingSystem) SetEnabled(w *ecs.World, enabled bool) {
	if s.gate.setEnabled(enabled) {
		s.reset(w)
	}
}

// reset drops presses buffered while inactive so re-enabling never fires
// immediately.
func (s *ShootingSystem) reset(w *ecs.World) {
	ecs.ForEach2(w, component.WeaponComponent.Kind(), component.InputComponent.Kind(), func(_ ecs.Entity, _ *component.Weapon, in *component.Input) {
		in.FirePressed = false
	})
}

func (s *ShootingSystem) Update(w *ecs.World, _ float64) {
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

	ecs.ForEach2(w, component.WeaponComponent.Kind(), component.InputComponent.Kind(), func(e ecs.Entity, weapon *component.Weapon, in *component.Input) {
		if !in.FirePressed {
			return
		}
		in.FirePressed = false

		pose, ok := WorldPose(w, ecs.Entity(weapon.FirePoint))
		if !ok {
			if pose, ok = WorldPose(w, e); !ok {
				return
			}
		}

		yaw, pitch := pose.Yaw, pose.Pitch
		if weapon.AimWithHead {
			if hc, ok := ecs.Get(w, e, component.HeadConstraintComponent.Kind()); ok {
				yaw += hc.Yaw
				pitch += hc.Pitch
			}
		}

		w.Events().Push(ecs.FireEvent{
			Source:      e,
			Position:    pose.Position,
			Orientation: common.Euler(pitch, yaw, 0),
			Speed:       weapon.Speed,
		})
		s.logger.Debug().Stringer("entity", e).Float64("yaw", yaw).Float64("pitch", pitch).Msg("shooting: fire")
	})
}
