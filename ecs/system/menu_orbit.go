package system

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/rover/common"
	"github.com/milk9111/rover/ecs"
	"github.com/milk9111/rover/ecs/component"
	"github.com/rs/zerolog"
)

// menuLookHeight is the base height above the target the menu camera
// looks at.
const menuLookHeight = 1.5

// MenuOrbitSystem sways a camera around its target while the session is in
// the menu.
type MenuOrbitSystem struct {
	gate   gate
	logger zerolog.Logger
	warned warnOnce
}

func NewMenuOrbitSystem(state component.GameState, logger zerolog.Logger) *MenuOrbitSystem {
	return &MenuOrbitSystem{
		gate:   newGate(state, component.GameModeMenu),
		logger: systemLogger(logger, "menu_orbit"),
	}
}

func (s *MenuOrbitSystem) SetEnabled(w *ecs.World, enabled bool) {
	if s.gate.setEnabled(enabled) {
		s.reset(w)
	}
}

func (s *MenuOrbitSystem) reset(w *ecs.World) {
	ecs.ForEach(w, component.MenuOrbitComponent.Kind(), func(_ ecs.Entity, orbit *component.MenuOrbit) {
		orbit.Time = 0
	})
}

func (s *MenuOrbitSystem) Update(*ecs.World, float64) {}

func (s *MenuOrbitSystem) LateUpdate(w *ecs.World, dt float64) {
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

	ecs.ForEach(w, component.MenuOrbitComponent.Kind(), func(e ecs.Entity, orbit *component.MenuOrbit) {
		target, ok := WorldPose(w, ecs.Entity(orbit.Target))
		if !ok {
			s.warned.warn(s.logger, e, "missing orbit target")
			return
		}
		if dt > 0 {
			orbit.Time += dt
		}

		angle := math.Sin(orbit.Time*orbit.Speed+orbit.Phase) * orbit.Amplitude
		back := common.YawRotation(target.Yaw + angle).Rotate(mgl64.Vec3{0, 0, -orbit.Distance})
		position := target.Position.Add(back).Add(common.Up.Mul(orbit.Height))
		look := target.Position.Add(common.Up.Mul(menuLookHeight + orbit.HeightOffset))

		writeCameraPose(w, e, component.CameraPose{
			Position: position,
			Rotation: common.LookAt(position, look),
		})
	})
}
