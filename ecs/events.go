package ecs

import "github.com/go-gl/mathgl/mgl64"

// Event is any payload systems hand to the host.
type Event any

// FireEvent asks a projectile spawner to launch from a world pose.
type FireEvent struct {
	Source      Entity
	Position    mgl64.Vec3
	Orientation mgl64.Quat
	Speed       float64
}

// Direction is the launch direction implied by Orientation.
func (f FireEvent) Direction() mgl64.Vec3 {
	return f.Orientation.Rotate(mgl64.Vec3{0, 0, 1})
}

// AttackAnimationEvent reports a change of an actor's attack animation flag.
type AttackAnimationEvent struct {
	Entity Entity
	Active bool
}

// EventQueue is a simple FIFO queue.
type EventQueue struct {
	items []Event
}

// Push adds an event.
func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Len reports the number of pending events.
func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}
