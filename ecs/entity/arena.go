package entity

import (
	"fmt"

	"github.com/milk9111/rover/ecs"
	"github.com/milk9111/rover/ecs/component"
	"github.com/milk9111/rover/prefabs"
)

// Arena lists the entities LoadArena spawned.
type Arena struct {
	Rover    ecs.Entity
	Camera   ecs.Entity
	Sentries []ecs.Entity
}

// NewPhysicsWorld builds the static geometry of an arena.
func NewPhysicsWorld(spec *prefabs.ArenaSpec) *ecs.PhysicsWorld {
	pw := ecs.NewPhysicsWorld(ecs.PhysicsConfig{
		Gravity:       spec.Physics.Gravity,
		Floor:         spec.Physics.Floor,
		StepTolerance: spec.Physics.StepTolerance,
		Iterations:    spec.Physics.Iterations,
	})
	for _, b := range spec.Walls {
		pw.AddWall(bounds(b))
	}
	for _, p := range spec.Platforms {
		pw.AddPlatform(bounds(p.Bounds), p.Top)
	}
	return pw
}

// LoadArenaToWorld spawns the rover and sentries of spec into w, points every
// sentry at the rover and gives the rover's camera a menu orbit. w must
// already carry the arena's physics world.
func LoadArenaToWorld(w *ecs.World, spec *prefabs.ArenaSpec) (Arena, error) {
	var arena Arena

	rover, err := BuildEntityAt(w, spec.Rover.Prefab, spec.Rover.Position.Vec3(), spec.Rover.Yaw)
	if err != nil {
		return Arena{}, fmt.Errorf("arena: rover: %w", err)
	}
	arena.Rover = rover

	if rig, ok := ecs.Get(w, rover, component.CameraRigComponent.Kind()); ok {
		arena.Camera = ecs.Entity(rig.Camera)
		orbit := spec.MenuOrbit.Component()
		orbit.Target = component.Ref(rover)
		if err := ecs.Add(w, arena.Camera, component.MenuOrbitComponent.Kind(), &orbit); err != nil {
			return Arena{}, fmt.Errorf("arena: menu orbit: %w", err)
		}
	}

	for i, s := range spec.Sentries {
		sentry, err := BuildEntityAt(w, s.Prefab, s.Position.Vec3(), s.Yaw)
		if err != nil {
			return Arena{}, fmt.Errorf("arena: sentry %d: %w", i, err)
		}
		if eng, ok := ecs.Get(w, sentry, component.EngagementComponent.Kind()); ok {
			eng.Target = component.Ref(rover)
		}
		arena.Sentries = append(arena.Sentries, sentry)
	}

	logger := w.Logger()
	logger.Info().Str("arena", spec.Name).Int("sentries", len(arena.Sentries)).Msg("arena loaded")
	return arena, nil
}

func bounds(b prefabs.BoundsSpec) ecs.Bounds {
	return ecs.Bounds{MinX: b.MinX, MinZ: b.MinZ, MaxX: b.MaxX, MaxZ: b.MaxZ}
}
