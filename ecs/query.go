package ecs

import (
	"sort"

	"github.com/milk9111/rover/ecs/component"
)

// Query returns the entities holding a component of kind, ordered by slot.
func Query[T any](w *World, kind component.ComponentKind[T]) []Entity {
	s := storeOf(w, kind)
	if s == nil {
		return nil
	}
	out := s.snapshot()
	sort.Slice(out, func(i, j int) bool { return out[i].id() < out[j].id() })
	return out
}

// First returns the lowest-slot entity holding a component of kind.
func First[T any](w *World, kind component.ComponentKind[T]) (Entity, bool) {
	s := storeOf(w, kind)
	if s == nil || s.len() == 0 {
		return 0, false
	}
	best := s.dense[0]
	for _, e := range s.dense[1:] {
		if e.id() < best.id() {
			best = e
		}
	}
	return best, true
}

// Count returns how many entities hold a component of kind.
func Count[T any](w *World, kind component.ComponentKind[T]) int {
	s := storeOf(w, kind)
	if s == nil {
		return 0
	}
	return s.len()
}
