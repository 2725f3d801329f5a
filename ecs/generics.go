package ecs

import "github.com/milk9111/rover/ecs/component"

func storeOf[T any](w *World, kind component.ComponentKind[T]) *sparseSet[T] {
	if w == nil || !kind.Valid() {
		return nil
	}
	s, ok := w.stores[kind.ID()]
	if !ok {
		return nil
	}
	typed, _ := s.(*sparseSet[T])
	return typed
}

// Add attaches value to e, replacing any previous component of that kind.
func Add[T any](w *World, e Entity, kind component.ComponentKind[T], value *T) error {
	if !kind.Valid() {
		return component.ErrInvalidComponentKind
	}
	if value == nil {
		return component.ErrNilComponent
	}
	if !IsAlive(w, e) {
		return component.ErrEntityNotAlive
	}
	s := storeOf(w, kind)
	if s == nil {
		s = newSparseSet[T]()
		w.stores[kind.ID()] = s
	}
	s.set(e, value)
	return nil
}

// Get returns the component of kind stored on e.
func Get[T any](w *World, e Entity, kind component.ComponentKind[T]) (*T, bool) {
	s := storeOf(w, kind)
	if s == nil {
		return nil, false
	}
	return s.get(e)
}

func Has[T any](w *World, e Entity, kind component.ComponentKind[T]) bool {
	s := storeOf(w, kind)
	return s != nil && s.has(e)
}

// Remove detaches the component of kind from e. It returns false when e did
// not have one.
func Remove[T any](w *World, e Entity, kind component.ComponentKind[T]) bool {
	s := storeOf(w, kind)
	return s != nil && s.remove(e)
}

// ForEach calls fn for every entity holding a component of kind. Components
// may be added or removed from fn.
func ForEach[T any](w *World, kind component.ComponentKind[T], fn func(Entity, *T)) {
	s := storeOf(w, kind)
	if s == nil {
		return
	}
	for _, e := range s.snapshot() {
		if v, ok := s.get(e); ok {
			fn(e, v)
		}
	}
}

func ForEach2[A, B any](w *World, ka component.ComponentKind[A], kb component.ComponentKind[B], fn func(Entity, *A, *B)) {
	sb := storeOf(w, kb)
	if sb == nil {
		return
	}
	ForEach(w, ka, func(e Entity, a *A) {
		if b, ok := sb.get(e); ok {
			fn(e, a, b)
		}
	})
}

func ForEach3[A, B, C any](w *World, ka component.ComponentKind[A], kb component.ComponentKind[B], kc component.ComponentKind[C], fn func(Entity, *A, *B, *C)) {
	sc := storeOf(w, kc)
	if sc == nil {
		return
	}
	ForEach2(w, ka, kb, func(e Entity, a *A, b *B) {
		if c, ok := sc.get(e); ok {
			fn(e, a, b, c)
		}
	})
}

func ForEach4[A, B, C, D any](w *World, ka component.ComponentKind[A], kb component.ComponentKind[B], kc component.ComponentKind[C], kd component.ComponentKind[D], fn func(Entity, *A, *B, *C, *D)) {
	sd := storeOf(w, kd)
	if sd == nil {
		return
	}
	ForEach3(w, ka, kb, kc, func(e Entity, a *A, b *B, c *C) {
		if d, ok := sd.get(e); ok {
			fn(e, a, b, c, d)
		}
	})
}
