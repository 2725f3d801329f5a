package system

import (
	"github.com/milk9111/rover/ecs"
	"github.com/milk9111/rover/ecs/component"
)

// PhysicsSystem steps the world's physics collaborator on the fixed tick and
// mirrors body poses into Transforms.
type PhysicsSystem struct{}

func NewPhysicsSystem() *PhysicsSystem {
	return &PhysicsSystem{}
}

func (s *PhysicsSystem) FixedUpdate(w *ecs.World, dt float64) {
	if w == nil {
		return
	}
	if pw := w.PhysicsWorld(); pw != nil {
		pw.Step(dt)
	}
	syncTransforms(w)
}

func (s *PhysicsSystem) Update(w *ecs.World, _ float64) {
	if w == nil {
		return
	}
	syncTransforms(w)
}

func syncTransforms(w *ecs.World) {
	ecs.ForEach2(w, component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, pb *component.PhysicsBody, tr *component.Transform) {
		if pb.Body == nil {
			return
		}
		tr.Position = pb.Body.Position()
		tr.Yaw = pb.Body.Yaw()
	})
}
