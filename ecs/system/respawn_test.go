package system

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/rover/ecs"
	"github.com/milk9111/rover/ecs/component"
)

type respawnFixture struct {
	w    *ecs.World
	e    ecs.Entity
	body *fakeBody
	loco *component.Locomotion
	rig  *component.CameraRig
	tr   *component.Transform
}

func newRespawnFixture(t *testing.T) respawnFixture {
	t.Helper()
	w := ecs.NewWorld()
	f := respawnFixture{
		w:    w,
		e:    ecs.CreateEntity(w),
		body: newFakeBody(),
		loco: &component.Locomotion{JumpPending: true, Grounded: true, DriveVelocity: mgl64.Vec3{1, 0, 1}},
		rig:  &component.CameraRig{Yaw: 200},
		tr:   &component.Transform{},
	}
	mustAdd(t, w, f.e, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{Body: f.body})
	mustAdd(t, w, f.e, component.SafeRespawnComponent.Kind(), &component.SafeRespawn{
		Position:   mgl64.Vec3{0, 2, 0},
		Yaw:        45,
		KillHeight: -10,
	})
	mustAdd(t, w, f.e, component.LocomotionComponent.Kind(), f.loco)
	mustAdd(t, w, f.e, component.CameraRigComponent.Kind(), f.rig)
	mustAdd(t, w, f.e, component.TransformComponent.Kind(), f.tr)
	return f
}

func TestRespawnBelowKillHeight(t *testing.T) {
	f := newRespawnFixture(t)
	f.body.pos = mgl64.Vec3{5, -11, 5}
	f.body.vel = mgl64.Vec3{1, -30, 0}
	f.body.yaw = 270

	NewRespawnSystem(f.w.Logger()).FixedUpdate(f.w, 0.02)

	if f.body.pos != (mgl64.Vec3{0, 2, 0}) || f.body.vel != (mgl64.Vec3{}) || f.body.yaw != 45 {
		t.Fatalf("expected body at safe point, got pos %v vel %v yaw %v", f.body.pos, f.body.vel, f.body.yaw)
	}
	if f.tr.Position != (mgl64.Vec3{0, 2, 0}) || f.tr.Yaw != 45 {
		t.Fatalf("expected transform synced, got %+v", f.tr)
	}
	if f.loco.JumpPending || f.loco.Grounded || f.loco.DriveVelocity != (mgl64.Vec3{}) {
		t.Fatalf("expected locomotion reset, got %+v", f.loco)
	}
	if f.rig.Yaw != 45 {
		t.Fatalf("expected camera yaw recentred, got %v", f.rig.Yaw)
	}
	if ecs.Has(f.w, f.e, component.RespawnRequestComponent.Kind()) {
		t.Fatalf("expected request consumed")
	}
}

func TestRespawnLeavesBodyAboveKillHeight(t *testing.T) {
	f := newRespawnFixture(t)
	f.body.pos = mgl64.Vec3{5, -9, 5}

	NewRespawnSystem(f.w.Logger()).FixedUpdate(f.w, 0.02)

	if f.body.pos != (mgl64.Vec3{5, -9, 5}) || !f.loco.JumpPending {
		t.Fatalf("expected no respawn, got pos %v", f.body.pos)
	}
}

func TestRespawnHonoursExplicitRequest(t *testing.T) {
	f := newRespawnFixture(t)
	mustAdd(t, f.w, f.e, component.RespawnRequestComponent.Kind(), &component.RespawnRequest{
		Position: mgl64.Vec3{3, 1, 3},
		Yaw:      -90,
	})

	NewRespawnSystem(f.w.Logger()).FixedUpdate(f.w, 0.02)

	if f.body.pos != (mgl64.Vec3{3, 1, 3}) || f.body.yaw != -90 {
		t.Fatalf("expected requested pose, got pos %v yaw %v", f.body.pos, f.body.yaw)
	}
}
