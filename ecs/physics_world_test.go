package ecs

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/rover/ecs/component"
)

var _ component.Body = (*PhysicsBody)(nil)
var _ component.GroundSensor = (*PhysicsWorld)(nil)

func stepFor(pw *PhysicsWorld, seconds, dt float64) {
	for t := 0.0; t < seconds; t += dt {
		pw.Step(dt)
	}
}

func TestBodyFallsAndLandsOnFloor(t *testing.T) {
	pw := NewPhysicsWorld(PhysicsConfig{Gravity: -20})
	b := pw.NewBody(mgl64.Vec3{0, 3, 0}, 0.5, 1)

	if pw.SenseGround(b.Position().Add(mgl64.Vec3{0, 0.1, 0}), 0.2) {
		t.Fatalf("expected airborne at spawn height")
	}

	stepFor(pw, 2, 0.02)

	if math.Abs(b.Position().Y()) > 1e-9 {
		t.Fatalf("expected body on floor, got height %v", b.Position().Y())
	}
	if b.Velocity().Y() != 0 {
		t.Fatalf("expected vertical velocity cleared on landing, got %v", b.Velocity().Y())
	}
	if !pw.SenseGround(b.Position().Add(mgl64.Vec3{0, 0.1, 0}), 0.2) {
		t.Fatalf("expected grounded after landing")
	}
}

func TestPlatformSupport(t *testing.T) {
	pw := NewPhysicsWorld(PhysicsConfig{Gravity: -20, StepTolerance: 0.3})
	pw.AddPlatform(Bounds{MinX: -1, MinZ: -1, MaxX: 1, MaxZ: 1}, 2)

	on := pw.NewBody(mgl64.Vec3{0, 2.5, 0}, 0.2, 1)
	off := pw.NewBody(mgl64.Vec3{5, 2.5, 5}, 0.2, 1)
	stepFor(pw, 1, 0.02)

	if math.Abs(on.Position().Y()-2) > 1e-9 {
		t.Fatalf("expected body to rest on platform top, got %v", on.Position().Y())
	}
	if math.Abs(off.Position().Y()) > 1e-9 {
		t.Fatalf("expected body beside platform on floor, got %v", off.Position().Y())
	}
	if got := pw.SupportHeight(0, 0, 1); got != 0 {
		t.Fatalf("expected platform above max height to be ignored, got %v", got)
	}
}

func TestWallBlocksHorizontalMotion(t *testing.T) {
	pw := NewPhysicsWorld(PhysicsConfig{})
	pw.AddWall(Bounds{MinX: 2, MinZ: -5, MaxX: 3, MaxZ: 5})
	b := pw.NewBody(mgl64.Vec3{0, 0, 0}, 0.5, 1)

	for i := 0; i < 100; i++ {
		b.SetVelocity(mgl64.Vec3{5, b.Velocity().Y(), 0})
		pw.Step(0.02)
	}
	if x := b.Position().X(); x > 2 {
		t.Fatalf("expected wall to stop body before x=2, got %v", x)
	}
}

func TestQueuedAccelerationIsConsumed(t *testing.T) {
	pw := NewPhysicsWorld(PhysicsConfig{Gravity: -10})
	b := pw.NewBody(mgl64.Vec3{0, 10, 0}, 0.5, 1)

	b.AddAcceleration(mgl64.Vec3{0, -10, 0})
	pw.Step(0.1)
	if vy := b.Velocity().Y(); math.Abs(vy+2) > 1e-9 {
		t.Fatalf("expected vy -2 after gravity plus extra accel, got %v", vy)
	}
	pw.Step(0.1)
	if vy := b.Velocity().Y(); math.Abs(vy+3) > 1e-9 {
		t.Fatalf("expected extra accel to apply once, got %v", vy)
	}
}
