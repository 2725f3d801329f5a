package system

import (
	"bytes"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/rover/ecs"
	"github.com/milk9111/rover/ecs/component"
	"github.com/rs/zerolog"
)

type fakeBody struct {
	pos     mgl64.Vec3
	vel     mgl64.Vec3
	yaw     float64
	accel   mgl64.Vec3
	gravity mgl64.Vec3
}

func newFakeBody() *fakeBody {
	return &fakeBody{gravity: mgl64.Vec3{0, -20, 0}}
}

func (b *fakeBody) Position() mgl64.Vec3         { return b.pos }
func (b *fakeBody) SetPosition(p mgl64.Vec3)     { b.pos = p }
func (b *fakeBody) Velocity() mgl64.Vec3         { return b.vel }
func (b *fakeBody) SetVelocity(v mgl64.Vec3)     { b.vel = v }
func (b *fakeBody) Yaw() float64                 { return b.yaw }
func (b *fakeBody) SetYaw(deg float64)           { b.yaw = deg }
func (b *fakeBody) AddAcceleration(a mgl64.Vec3) { b.accel = b.accel.Add(a) }
func (b *fakeBody) Gravity() mgl64.Vec3          { return b.gravity }

type fakeSensor struct {
	grounded bool
	origins  []mgl64.Vec3
}

func (p *fakeSensor) SenseGround(origin mgl64.Vec3, _ float64) bool {
	p.origins = append(p.origins, origin)
	return p.grounded
}

func newTestLogger() (zerolog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return zerolog.New(&buf), &buf
}

func countLines(buf *bytes.Buffer, substr string) int {
	n := 0
	for _, line := range strings.Split(buf.String(), "\n") {
		if strings.Contains(line, substr) {
			n++
		}
	}
	return n
}

func mustAdd[T any](t *testing.T, w *ecs.World, e ecs.Entity, kind component.ComponentKind[T], v *T) {
	t.Helper()
	if err := ecs.Add(w, e, kind, v); err != nil {
		t.Fatalf("add component: %v", err)
	}
}

func drainFires(w *ecs.World) []ecs.FireEvent {
	var out []ecs.FireEvent
	for _, evt := range w.Events().Drain() {
		if fire, ok := evt.(ecs.FireEvent); ok {
			out = append(out, fire)
		}
	}
	return out
}

func approx(a, b, eps float64) bool {
	d := a - b
	return d <= eps && d >= -eps
}

// vecNear compares by distance; mgl64's per-component threshold squares
// epsilon when a component is zero.
func vecNear(a, b mgl64.Vec3, eps float64) bool {
	return a.Sub(b).Len() < eps
}
