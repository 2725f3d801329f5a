package system

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/rover/ecs"
	"github.com/milk9111/rover/ecs/component"
	"github.com/rs/zerolog"
)

// RespawnSystem queues a respawn for bodies that fall below their kill
// height and performs pending respawn requests. It runs on the fixed tick
// after the PhysicsSystem.
type RespawnSystem struct {
	logger zerolog.Logger
}

func NewRespawnSystem(logger zerolog.Logger) *RespawnSystem {
	return &RespawnSystem{logger: systemLogger(logger, "respawn")}
}

func (s *RespawnSystem) Update(*ecs.World, float64) {}

func (s *RespawnSystem) FixedUpdate(w *ecs.World, _ float64) {
	if w == nil {
		return
	}

	ecs.ForEach2(w, component.SafeRespawnComponent.Kind(), component.PhysicsBodyComponent.Kind(), func(e ecs.Entity, safe *component.SafeRespawn, pb *component.PhysicsBody) {
		if pb.Body == nil || pb.Body.Position().Y() >= safe.KillHeight {
			return
		}
		if ecs.Has(w, e, component.RespawnRequestComponent.Kind()) {
			return
		}
		_ = ecs.Add(w, e, component.RespawnRequestComponent.Kind(), &component.RespawnRequest{
			Position: safe.Position,
			Yaw:      safe.Yaw,
		})
	})

	ecs.ForEach(w, component.RespawnRequestComponent.Kind(), func(e ecs.Entity, req *component.RespawnRequest) {
		defer ecs.Remove(w, e, component.RespawnRequestComponent.Kind())

		pb, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
		if !ok || pb.Body == nil {
			return
		}
		pb.Body.SetPosition(req.Position)
		pb.Body.SetVelocity(mgl64.Vec3{})
		pb.Body.SetYaw(req.Yaw)

		if tr, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
			tr.Position = req.Position
			tr.Yaw = req.Yaw
		}
		ResetLocomotion(w, e)
		RecenterYawToBody(w, e)

		s.logger.Info().Stringer("entity", e).Msg("respawned")
	})
}
