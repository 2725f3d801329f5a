package ecs

import (
	"github.com/milk9111/rover/ecs/component"
	"github.com/rs/zerolog"
)

// World owns entities, their components and the event queue.
type World struct {
	entities entityStore
	stores   map[component.ComponentID]componentStore
	events   EventQueue
	logger   zerolog.Logger

	physicsWorld *PhysicsWorld
}

// NewWorld creates an empty world with a disabled logger.
func NewWorld() *World {
	return &World{
		stores: make(map[component.ComponentID]componentStore),
		logger: zerolog.Nop(),
	}
}

// SetLogger replaces the world logger. Systems derive their loggers from it.
func (w *World) SetLogger(l zerolog.Logger) {
	if w == nil {
		return
	}
	w.logger = l
}

// Logger returns the world logger.
func (w *World) Logger() zerolog.Logger {
	if w == nil {
		return zerolog.Nop()
	}
	return w.logger
}

// Events returns the world event queue.
func (w *World) Events() *EventQueue {
	if w == nil {
		return nil
	}
	return &w.events
}

// SetPhysicsWorld attaches a physics world to this ECS world.
func (w *World) SetPhysicsWorld(pw *PhysicsWorld) {
	if w == nil {
		return
	}
	w.physicsWorld = pw
}

// PhysicsWorld returns the attached physics world, if any.
func (w *World) PhysicsWorld() *PhysicsWorld {
	if w == nil {
		return nil
	}
	return w.physicsWorld
}

// CreateEntity allocates a new entity.
func CreateEntity(w *World) Entity {
	return w.entities.create()
}

// DestroyEntity removes every component of e and frees its slot. It returns
// false when e was not alive.
func DestroyEntity(w *World, e Entity) bool {
	if w == nil || !w.entities.isAlive(e) {
		return false
	}
	for _, s := range w.stores {
		s.remove(e)
	}
	return w.entities.destroy(e)
}

// IsAlive reports whether an entity handle is valid.
func IsAlive(w *World, e Entity) bool {
	return w != nil && w.entities.isAlive(e)
}

// Entities returns every live entity.
func Entities(w *World) []Entity {
	if w == nil {
		return nil
	}
	return w.entities.all()
}
