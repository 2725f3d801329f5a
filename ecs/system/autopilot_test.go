package system

import (
	"testing"

	"github.com/milk9111/rover/ecs"
	"github.com/milk9111/rover/ecs/component"
)

func newAutopilotFixture(t *testing.T, src string) (*ecs.World, *component.Autopilot, *component.Input) {
	t.Helper()
	w := ecs.NewWorld()
	e := ecs.CreateEntity(w)
	ap := &component.Autopilot{Name: "test", Source: []byte(src)}
	in := &component.Input{}
	mustAdd(t, w, e, component.AutopilotComponent.Kind(), ap)
	mustAdd(t, w, e, component.InputComponent.Kind(), in)
	mustAdd(t, w, e, component.TransformComponent.Kind(), &component.Transform{})
	return w, ap, in
}

func TestAutopilotDrivesInput(t *testing.T) {
	w, ap, in := newAutopilotFixture(t, `
math := import("math")
move_x = 3
move_y = 1.0
look_x = math.abs(-2.5)
jump = time < 0.05
`)
	sys := NewAutopilotSystem(w.Logger())

	presses := 0
	for i := 0; i < 5; i++ {
		sys.Update(w, 0.02)
		if in.JumpPressed {
			presses++
			in.JumpPressed = false
		}
	}

	if presses != 1 {
		t.Fatalf("expected one jump edge, got %d", presses)
	}
	if in.JumpHeld {
		t.Fatalf("expected jump released after time passed")
	}
	if in.Move.X() != 1 || in.Move.Y() != 1 {
		t.Fatalf("expected clamped move (1, 1), got %v", in.Move)
	}
	if in.Look.X() != 2.5 {
		t.Fatalf("expected look from math module, got %v", in.Look)
	}
	if !approx(ap.Time, 0.1, 1e-9) {
		t.Fatalf("expected script time 0.1, got %v", ap.Time)
	}
}

func TestAutopilotRecompilesOnSourceChange(t *testing.T) {
	w, ap, in := newAutopilotFixture(t, `move_y = 1.0`)
	sys := NewAutopilotSystem(w.Logger())

	sys.Update(w, 0.02)
	if in.Move.Y() != 1 {
		t.Fatalf("expected forward, got %v", in.Move)
	}

	ap.Source = []byte(`move_y = -0.5`)
	sys.Update(w, 0.02)
	if in.Move.Y() != -0.5 {
		t.Fatalf("expected reverse after reload, got %v", in.Move)
	}
}

func TestAutopilotCompileErrorWarnsOnce(t *testing.T) {
	logger, buf := newTestLogger()
	w, _, in := newAutopilotFixture(t, `move_y = `)
	sys := NewAutopilotSystem(logger)

	for i := 0; i < 3; i++ {
		sys.Update(w, 0.02)
	}

	if n := countLines(buf, "compile"); n != 1 {
		t.Fatalf("expected one compile warning, got %d", n)
	}
	if in.Move.Y() != 0 {
		t.Fatalf("expected input untouched, got %v", in.Move)
	}
}

func TestAutopilotScriptWithoutInputs(t *testing.T) {
	logger, buf := newTestLogger()
	w, _, in := newAutopilotFixture(t, `move_y = 1.0`)
	sys := NewAutopilotSystem(logger)

	for i := 0; i < 3; i++ {
		sys.Update(w, 0.02)
	}

	if in.Move.Y() != 1 {
		t.Fatalf("expected forward from a script that reads no inputs, got %v", in.Move)
	}
	if n := countLines(buf, `"level":"warn"`); n != 0 {
		t.Fatalf("expected no warnings, got %q", buf.String())
	}
}

func TestAutopilotForgetsDestroyedEntities(t *testing.T) {
	w, _, _ := newAutopilotFixture(t, `move_y = yaw`)
	sys := NewAutopilotSystem(w.Logger())

	sys.Update(w, 0.02)
	if len(sys.runtimes) != 1 {
		t.Fatalf("expected one compiled runtime, got %d", len(sys.runtimes))
	}

	for _, e := range ecs.Entities(w) {
		ecs.DestroyEntity(w, e)
	}
	sys.Update(w, 0.02)
	if len(sys.runtimes) != 0 {
		t.Fatalf("expected runtime dropped with its entity, got %d", len(sys.runtimes))
	}
}
