package entity

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/rover/ecs"
	"github.com/milk9111/rover/ecs/component"
	"github.com/milk9111/rover/prefabs"
)

func newWorld() *ecs.World {
	w := ecs.NewWorld()
	w.SetPhysicsWorld(ecs.NewPhysicsWorld(ecs.PhysicsConfig{}))
	return w
}

func useDiskPrefabs(t *testing.T, files map[string]string) {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	old := prefabs.Dir
	prefabs.Dir = dir
	t.Cleanup(func() { prefabs.Dir = old })
}

func TestBuildRover(t *testing.T) {
	w := newWorld()
	rover, err := BuildEntityAt(w, "rover.yaml", mgl64.Vec3{1, 0, 2}, 90)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	pb, ok := ecs.Get(w, rover, component.PhysicsBodyComponent.Kind())
	if !ok || pb.Body == nil || pb.Sensor == nil {
		t.Fatalf("expected physics body with sensor")
	}
	if pb.Body.Position() != (mgl64.Vec3{1, 0, 2}) || pb.Body.Yaw() != 90 {
		t.Fatalf("expected body at spawn, got %v yaw %v", pb.Body.Position(), pb.Body.Yaw())
	}

	rig, ok := ecs.Get(w, rover, component.CameraRigComponent.Kind())
	if !ok {
		t.Fatalf("expected camera rig")
	}
	if rig.Yaw != 90 || !ecs.Has(w, ecs.Entity(rig.Camera), component.CameraTagComponent.Kind()) {
		t.Fatalf("expected rig facing spawn yaw with a tagged camera, got %+v", rig)
	}
	if !ecs.Has(w, ecs.Entity(rig.Head), component.HeadBoneComponent.Kind()) {
		t.Fatalf("expected rig head to carry a head bone")
	}

	hc, ok := ecs.Get(w, rover, component.HeadConstraintComponent.Kind())
	if !ok || hc.Head != rig.Head {
		t.Fatalf("expected head constraint on the rig head")
	}

	weapon, ok := ecs.Get(w, rover, component.WeaponComponent.Kind())
	if !ok {
		t.Fatalf("expected weapon")
	}
	att, ok := ecs.Get(w, ecs.Entity(weapon.FirePoint), component.AttachmentComponent.Kind())
	if !ok || att.Parent != rig.Head || !att.InheritYaw {
		t.Fatalf("expected fire point attached to the head")
	}

	safe, ok := ecs.Get(w, rover, component.SafeRespawnComponent.Kind())
	if !ok || safe.Position != (mgl64.Vec3{1, 0, 2}) || safe.Yaw != 90 || safe.KillHeight != -20 {
		t.Fatalf("expected safe respawn at spawn, got %+v", safe)
	}

	for _, kind := range []bool{
		ecs.Has(w, rover, component.PlayerTagComponent.Kind()),
		ecs.Has(w, rover, component.InputComponent.Kind()),
		ecs.Has(w, rover, component.GroundCheckComponent.Kind()),
		ecs.Has(w, rover, component.LocomotionComponent.Kind()),
		ecs.Has(w, rover, component.DrivetrainComponent.Kind()),
	} {
		if !kind {
			t.Fatalf("expected rover components")
		}
	}
}

func TestBuildSentry(t *testing.T) {
	w := newWorld()
	sentry, err := BuildEntityAt(w, "sentry.yaml", mgl64.Vec3{0, 0, 5}, -90)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	eng, ok := ecs.Get(w, sentry, component.EngagementComponent.Kind())
	if !ok {
		t.Fatalf("expected engagement")
	}
	if eng.HeadYaw != 270 || eng.EngageRadius != 8 || eng.DisengageRadius != 10 || eng.FireInterval != 2 {
		t.Fatalf("unexpected engagement %+v", eng)
	}
	att, ok := ecs.Get(w, ecs.Entity(eng.Head), component.AttachmentComponent.Kind())
	if !ok || att.InheritYaw {
		t.Fatalf("expected a free-turning head")
	}
	if !ecs.Has(w, sentry, component.AttackAnimationComponent.Kind()) {
		t.Fatalf("expected attack animation flag")
	}
}

func TestBuildFailuresLeaveNothing(t *testing.T) {
	t.Run("no_physics_world", func(t *testing.T) {
		w := ecs.NewWorld()
		_, err := BuildEntity(w, "rover.yaml")
		if !errors.Is(err, ErrNoPhysicsWorld) {
			t.Fatalf("expected ErrNoPhysicsWorld, got %v", err)
		}
		if n := len(ecs.Entities(w)); n != 0 {
			t.Fatalf("expected no entities left, got %d", n)
		}
	})

	t.Run("invalid_tuning", func(t *testing.T) {
		useDiskPrefabs(t, map[string]string{"bad.yaml": `
name: bad
components:
  transform: {}
  head: {}
  engagement: {engage_radius: 10, disengage_radius: 5, fire_interval: 1}
`})
		w := newWorld()
		_, err := BuildEntity(w, "bad.yaml")
		if !errors.Is(err, component.ErrInvalidRadii) {
			t.Fatalf("expected ErrInvalidRadii, got %v", err)
		}
		if n := len(ecs.Entities(w)); n != 0 {
			t.Fatalf("expected no entities left, got %d", n)
		}
	})

	t.Run("unknown_component", func(t *testing.T) {
		useDiskPrefabs(t, map[string]string{"odd.yaml": "name: odd\ncomponents: {sprocket: {}}\n"})
		w := newWorld()
		if _, err := BuildEntity(w, "odd.yaml"); err == nil || !strings.Contains(err.Error(), "sprocket") {
			t.Fatalf("expected missing builder error, got %v", err)
		}
	})
}

func TestLoadArenaToWorld(t *testing.T) {
	spec, err := prefabs.LoadArenaSpec("arena.yaml")
	if err != nil {
		t.Fatalf("load arena: %v", err)
	}
	w := ecs.NewWorld()
	w.SetPhysicsWorld(NewPhysicsWorld(spec))

	arena, err := LoadArenaToWorld(w, spec)
	if err != nil {
		t.Fatalf("arena: %v", err)
	}
	if len(arena.Sentries) != len(spec.Sentries) {
		t.Fatalf("expected %d sentries, got %d", len(spec.Sentries), len(arena.Sentries))
	}
	for _, s := range arena.Sentries {
		eng, _ := ecs.Get(w, s, component.EngagementComponent.Kind())
		if ecs.Entity(eng.Target) != arena.Rover {
			t.Fatalf("expected sentry to target the rover")
		}
	}
	orbit, ok := ecs.Get(w, arena.Camera, component.MenuOrbitComponent.Kind())
	if !ok || ecs.Entity(orbit.Target) != arena.Rover {
		t.Fatalf("expected menu orbit around the rover")
	}
	if got := w.PhysicsWorld().SupportHeight(8, 2, 10); got != 1.2 {
		t.Fatalf("expected platform support 1.2, got %v", got)
	}
}

func TestRetuneKeepsState(t *testing.T) {
	w := newWorld()
	rover, err := BuildEntity(w, "rover.yaml")
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	loco, _ := ecs.Get(w, rover, component.LocomotionComponent.Kind())
	loco.Grounded = true
	loco.DriveVelocity = mgl64.Vec3{1, 0, 0}
	rig, _ := ecs.Get(w, rover, component.CameraRigComponent.Kind())
	rig.Pitch = 40

	data, err := prefabs.Load("rover.yaml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	tuned := strings.Replace(string(data), "move_speed: 6", "move_speed: 9", 1)
	tuned = strings.Replace(tuned, "max_pitch: 45", "max_pitch: 30", 1)
	useDiskPrefabs(t, map[string]string{"rover.yaml": tuned})

	if err := Retune(w, "rover.yaml", rover); err != nil {
		t.Fatalf("retune: %v", err)
	}
	if loco.MoveSpeed != 9 || !loco.Grounded || loco.DriveVelocity != (mgl64.Vec3{1, 0, 0}) {
		t.Fatalf("expected new tuning with state kept, got %+v", loco)
	}
	if rig.MaxPitch != 30 || rig.Pitch != 30 || !ecs.IsAlive(w, ecs.Entity(rig.Camera)) {
		t.Fatalf("expected pitch clamped into new range, got %+v", rig)
	}

	broken := strings.Replace(tuned, "min_pitch: -20", "min_pitch: 80", 1)
	useDiskPrefabs(t, map[string]string{"rover.yaml": broken})
	if err := Retune(w, "rover.yaml", rover); !errors.Is(err, component.ErrInvalidPitchRange) {
		t.Fatalf("expected ErrInvalidPitchRange, got %v", err)
	}
	if rig.MinPitch != -20 {
		t.Fatalf("expected previous tuning kept, got %v", rig.MinPitch)
	}
}

func TestReloadScript(t *testing.T) {
	w := newWorld()
	rover, err := BuildEntity(w, "rover.yaml")
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if err := AddAutopilot(w, rover, "idle"); err != nil {
		t.Fatalf("autopilot: %v", err)
	}

	useDiskPrefabs(t, map[string]string{"scripts/idle.tengo": "move_y = 1.0\n"})
	n, err := ReloadScript(w, "scripts/idle.tengo")
	if err != nil || n != 1 {
		t.Fatalf("expected one reload, got %d, %v", n, err)
	}
	ap, _ := ecs.Get(w, rover, component.AutopilotComponent.Kind())
	if string(ap.Source) != "move_y = 1.0\n" {
		t.Fatalf("expected new source, got %q", ap.Source)
	}
}
