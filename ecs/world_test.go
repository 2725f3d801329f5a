package ecs

import (
	"errors"
	"testing"

	"github.com/milk9111/rover/ecs/component"
)

func intPtr(i int) *int {
	return &i
}

func stringPtr(s string) *string {
	return &s
}

func toSet(ents []Entity) map[Entity]struct{} {
	m := make(map[Entity]struct{}, len(ents))
	for _, e := range ents {
		m[e] = struct{}{}
	}
	return m
}

func TestEntityLifecycle(t *testing.T) {
	cases := []struct {
		name         string
		create       int
		destroyIndex int // -1 = none
	}{
		{"single", 1, 0},
		{"three_destroy_middle", 3, 1},
		{"none_destroyed", 2, -1},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := NewWorld()
			ents := make([]Entity, 0, c.create)
			for i := 0; i < c.create; i++ {
				ents = append(ents, CreateEntity(w))
			}
			if got := len(Entities(w)); got != c.create {
				t.Fatalf("expected %d entities, got %d", c.create, got)
			}
			if c.destroyIndex < 0 {
				return
			}
			if !DestroyEntity(w, ents[c.destroyIndex]) {
				t.Fatalf("DestroyEntity should return true for alive entity")
			}
			if IsAlive(w, ents[c.destroyIndex]) {
				t.Fatalf("entity should not be alive after destruction")
			}
			if DestroyEntity(w, ents[c.destroyIndex]) {
				t.Fatalf("second destroy should report false")
			}
			if got := len(Entities(w)); got != c.create-1 {
				t.Fatalf("expected %d entities after destroy, got %d", c.create-1, got)
			}
		})
	}
}

func TestRecycledSlotGetsNewGeneration(t *testing.T) {
	w := NewWorld()
	h := component.NewComponent[int]()

	old := CreateEntity(w)
	if err := Add(w, old, h.Kind(), intPtr(1)); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	DestroyEntity(w, old)

	fresh := CreateEntity(w)
	if fresh.id() != old.id() {
		t.Fatalf("expected slot reuse, got %v and %v", old, fresh)
	}
	if fresh == old {
		t.Fatalf("expected a new generation for the reused slot")
	}
	if Has(w, fresh, h.Kind()) {
		t.Fatalf("recycled entity must not inherit components")
	}
	if err := Add(w, old, h.Kind(), intPtr(2)); !errors.Is(err, component.ErrEntityNotAlive) {
		t.Fatalf("expected ErrEntityNotAlive for stale handle, got %v", err)
	}
}

func TestComponents(t *testing.T) {
	w := NewWorld()
	ints := component.NewComponent[int]()
	strs := component.NewComponent[string]()

	e1 := CreateEntity(w)
	e2 := CreateEntity(w)

	tests := []struct {
		name     string
		setup    func() error
		check    func(t *testing.T)
		teardown func() bool
	}{
		{
			name:  "add_int",
			setup: func() error { return Add(w, e1, ints.Kind(), intPtr(10)) },
			check: func(t *testing.T) {
				v, ok := Get(w, e1, ints.Kind())
				if !ok || *v != 10 {
					t.Fatalf("expected 10, got %v ok=%v", v, ok)
				}
				*v = 11
				if again, _ := Get(w, e1, ints.Kind()); *again != 11 {
					t.Fatalf("expected Get to return the stored pointer")
				}
			},
			teardown: func() bool { return Remove(w, e1, ints.Kind()) },
		},
		{
			name: "add_string_to_both",
			setup: func() error {
				if err := Add(w, e1, strs.Kind(), stringPtr("a")); err != nil {
					return err
				}
				return Add(w, e2, strs.Kind(), stringPtr("b"))
			},
			check: func(t *testing.T) {
				if !Has(w, e1, strs.Kind()) || !Has(w, e2, strs.Kind()) {
					t.Fatalf("expected both entities to have string component")
				}
				if got := Count(w, strs.Kind()); got != 2 {
					t.Fatalf("expected count 2, got %d", got)
				}
			},
			teardown: func() bool { return Remove(w, e1, strs.Kind()) },
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.setup(); err != nil {
				t.Fatalf("setup failed: %v", err)
			}
			tc.check(t)
			if !tc.teardown() {
				t.Fatalf("teardown failed for %s", tc.name)
			}
		})
	}

	if err := Add[int](w, e1, ints.Kind(), nil); !errors.Is(err, component.ErrNilComponent) {
		t.Fatalf("expected ErrNilComponent, got %v", err)
	}
	if err := Add(w, e1, component.ComponentKind[int]{}, intPtr(1)); !errors.Is(err, component.ErrInvalidComponentKind) {
		t.Fatalf("expected ErrInvalidComponentKind, got %v", err)
	}
}

func TestForEach(t *testing.T) {
	w := NewWorld()
	h := component.NewComponent[int]()

	e1 := CreateEntity(w)
	e2 := CreateEntity(w)
	e3 := CreateEntity(w)

	if err := Add(w, e1, h.Kind(), intPtr(1)); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if err := Add(w, e3, h.Kind(), intPtr(3)); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	var ents []Entity
	ForEach(w, h.Kind(), func(e Entity, _ *int) {
		ents = append(ents, e)
		Remove(w, e, h.Kind())
	})
	set := toSet(ents)

	if _, ok := set[e1]; !ok {
		t.Fatalf("expected e1 in ForEach result")
	}
	if _, ok := set[e3]; !ok {
		t.Fatalf("expected e3 in ForEach result")
	}
	if _, ok := set[e2]; ok {
		t.Fatalf("did not expect e2 in ForEach result")
	}
	if Count(w, h.Kind()) != 0 {
		t.Fatalf("expected removal during iteration to succeed")
	}
}

func TestForEachN(t *testing.T) {
	tests := []struct {
		name string
		run  func(t *testing.T)
	}{
		{
			name: "intersection",
			run: func(t *testing.T) {
				w := NewWorld()
				e1 := CreateEntity(w)
				e2 := CreateEntity(w)
				e3 := CreateEntity(w)

				ka := component.NewComponentKind[int]()
				kb := component.NewComponentKind[int]()
				kc := component.NewComponentKind[int]()
				kd := component.NewComponentKind[int]()

				for _, add := range []struct {
					e Entity
					k component.ComponentKind[int]
				}{{e1, ka}, {e2, ka}, {e2, kb}, {e2, kc}, {e2, kd}, {e3, kb}, {e3, kc}} {
					if err := Add(w, add.e, add.k, intPtr(1)); err != nil {
						t.Fatal(err)
					}
				}

				var res3, res4 []Entity
				ForEach3(w, ka, kb, kc, func(e Entity, _ *int, _ *int, _ *int) { res3 = append(res3, e) })
				ForEach4(w, ka, kb, kc, kd, func(e Entity, _ *int, _ *int, _ *int, _ *int) { res4 = append(res4, e) })
				if len(res3) != 1 || res3[0] != e2 {
					t.Fatalf("expected only e2 from ForEach3, got %v", res3)
				}
				if len(res4) != 1 || res4[0] != e2 {
					t.Fatalf("expected only e2 from ForEach4, got %v", res4)
				}
			},
		},
		{
			name: "ignores_dead_entities",
			run: func(t *testing.T) {
				w := NewWorld()
				e := CreateEntity(w)

				ka := component.NewComponentKind[int]()
				kb := component.NewComponentKind[string]()
				if err := Add(w, e, ka, intPtr(1)); err != nil {
					t.Fatal(err)
				}
				if err := Add(w, e, kb, stringPtr("x")); err != nil {
					t.Fatal(err)
				}
				if !DestroyEntity(w, e) {
					t.Fatal("failed to destroy entity")
				}

				var res []Entity
				ForEach2(w, ka, kb, func(e Entity, _ *int, _ *string) { res = append(res, e) })
				if len(res) != 0 {
					t.Fatalf("expected empty result after destroy, got %v", res)
				}
			},
		},
		{
			name: "missing_store",
			run: func(t *testing.T) {
				w := NewWorld()
				e := CreateEntity(w)

				ka := component.NewComponentKind[int]()
				kb := component.NewComponentKind[int]()
				if err := Add(w, e, ka, intPtr(1)); err != nil {
					t.Fatal(err)
				}

				called := false
				ForEach2(w, ka, kb, func(Entity, *int, *int) { called = true })
				if called {
					t.Fatalf("expected no callback when a store is missing")
				}
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, tc.run)
	}
}

func TestQueryAndFirst(t *testing.T) {
	w := NewWorld()
	h := component.NewComponent[int]()

	if _, ok := First(w, h.Kind()); ok {
		t.Fatalf("expected no first entity in empty world")
	}

	a := CreateEntity(w)
	b := CreateEntity(w)
	c := CreateEntity(w)
	for _, e := range []Entity{c, a, b} {
		if err := Add(w, e, h.Kind(), intPtr(0)); err != nil {
			t.Fatal(err)
		}
	}

	got := Query(w, h.Kind())
	if len(got) != 3 || got[0] != a || got[1] != b || got[2] != c {
		t.Fatalf("expected slot order [a b c], got %v", got)
	}
	if first, ok := First(w, h.Kind()); !ok || first != a {
		t.Fatalf("expected first to be a, got %v", first)
	}
}
