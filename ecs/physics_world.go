package ecs

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
)

const (
	collisionTypeSolid cp.CollisionType = iota + 1
	collisionTypePlatform
	collisionTypeBody
)

const (
	DefaultGravity       = -20.0
	DefaultStepTolerance = 0.3
	supportQueryRadius   = 1e-3
)

// Bounds is an axis-aligned rectangle on the ground plane (X/Z).
type Bounds struct {
	MinX float64
	MinZ float64
	MaxX float64
	MaxZ float64
}

func (b Bounds) bb() cp.BB {
	return cp.BB{
		L: math.Min(b.MinX, b.MaxX),
		B: math.Min(b.MinZ, b.MaxZ),
		R: math.Max(b.MinX, b.MaxX),
		T: math.Max(b.MinZ, b.MaxZ),
	}
}

// PhysicsConfig tunes a PhysicsWorld.
type PhysicsConfig struct {
	// Gravity is the vertical acceleration, negative for down.
	Gravity float64
	// Floor is the support height everywhere no platform is higher.
	Floor float64
	// StepTolerance is how far above its previous height a body may be
	// lifted onto a platform in one step.
	StepTolerance float64
	Iterations    uint
}

// PhysicsWorld simulates bodies in the horizontal plane with a Chipmunk
// space (world X -> cp X, world Z -> cp Y) and integrates height on a
// separate vertical channel.
type PhysicsWorld struct {
	space         *cp.Space
	gravity       mgl64.Vec3
	floor         float64
	stepTolerance float64
	bodies        []*PhysicsBody
}

// NewPhysicsWorld creates an empty physics world.
func NewPhysicsWorld(cfg PhysicsConfig) *PhysicsWorld {
	if cfg.Gravity == 0 {
		cfg.Gravity = DefaultGravity
	}
	if cfg.StepTolerance <= 0 {
		cfg.StepTolerance = DefaultStepTolerance
	}
	if cfg.Iterations == 0 {
		cfg.Iterations = 10
	}

	space := cp.NewSpace()
	space.Iterations = cfg.Iterations
	space.SetGravity(cp.Vector{})

	return &PhysicsWorld{
		space:         space,
		gravity:       mgl64.Vec3{0, cfg.Gravity, 0},
		floor:         cfg.Floor,
		stepTolerance: cfg.StepTolerance,
	}
}

// Space returns the underlying Chipmunk space.
func (pw *PhysicsWorld) Space() *cp.Space {
	if pw == nil {
		return nil
	}
	return pw.space
}

func (pw *PhysicsWorld) Gravity() mgl64.Vec3 {
	if pw == nil {
		return mgl64.Vec3{}
	}
	return pw.gravity
}

// AddWall adds a solid box that blocks horizontal motion at any height.
func (pw *PhysicsWorld) AddWall(b Bounds) *cp.Shape {
	if pw == nil {
		return nil
	}
	shape := cp.NewBox2(pw.space.StaticBody, b.bb(), 0)
	shape.SetFriction(0)
	shape.SetElasticity(0)
	shape.SetCollisionType(collisionTypeSolid)
	return pw.space.AddShape(shape)
}

// AddPlatform adds a raised walkable area whose surface is at top.
func (pw *PhysicsWorld) AddPlatform(b Bounds, top float64) *cp.Shape {
	if pw == nil {
		return nil
	}
	shape := cp.NewBox2(pw.space.StaticBody, b.bb(), 0)
	shape.SetSensor(true)
	shape.SetCollisionType(collisionTypePlatform)
	shape.UserData = top
	return pw.space.AddShape(shape)
}

// NewBody adds a circular body standing at position.
func (pw *PhysicsWorld) NewBody(position mgl64.Vec3, radius, mass float64) *PhysicsBody {
	if pw == nil {
		return nil
	}
	if radius <= 0 {
		radius = 0.5
	}
	if mass <= 0 {
		mass = 1
	}

	cpBody := cp.NewBody(mass, math.Inf(1))
	cpBody.SetPosition(cp.Vector{X: position.X(), Y: position.Z()})
	shape := cp.NewCircle(cpBody, radius, cp.Vector{})
	shape.SetFriction(0)
	shape.SetElasticity(0)
	shape.SetCollisionType(collisionTypeBody)

	pw.space.AddBody(cpBody)
	pw.space.AddShape(shape)

	b := &PhysicsBody{
		world:  pw,
		body:   cpBody,
		shape:  shape,
		radius: radius,
		height: position.Y(),
	}
	shape.UserData = b
	pw.bodies = append(pw.bodies, b)
	return b
}

// RemoveBody takes b out of the simulation.
func (pw *PhysicsWorld) RemoveBody(b *PhysicsBody) {
	if pw == nil || b == nil {
		return
	}
	for i, other := range pw.bodies {
		if other == b {
			pw.bodies = append(pw.bodies[:i], pw.bodies[i+1:]...)
			break
		}
	}
	pw.space.RemoveShape(b.shape)
	pw.space.RemoveBody(b.body)
}

// Bodies returns the simulated bodies.
func (pw *PhysicsWorld) Bodies() []*PhysicsBody {
	if pw == nil {
		return nil
	}
	return pw.bodies
}

// Step advances the simulation by dt seconds.
func (pw *PhysicsWorld) Step(dt float64) {
	if pw == nil || pw.space == nil || !(dt > 0) {
		return
	}

	for _, b := range pw.bodies {
		v := b.body.Velocity()
		b.body.SetVelocity(v.X+b.accel.X()*dt, v.Y+b.accel.Z()*dt)
		b.vy += (pw.gravity.Y() + b.accel.Y()) * dt
		b.accel = mgl64.Vec3{}
	}

	pw.space.Step(dt)

	for _, b := range pw.bodies {
		prev := b.height
		b.height += b.vy * dt
		p := b.body.Position()
		support := pw.supportHeight(p.X, p.Y, prev+pw.stepTolerance)
		if b.height <= support {
			b.height = support
			if b.vy < 0 {
				b.vy = 0
			}
		}
	}
}

// SenseGround reports whether support lies within distance below origin.
func (pw *PhysicsWorld) SenseGround(origin mgl64.Vec3, distance float64) bool {
	if pw == nil || distance < 0 {
		return false
	}
	support := pw.supportHeight(origin.X(), origin.Z(), origin.Y())
	gap := origin.Y() - support
	return gap >= -supportQueryRadius && gap <= distance
}

// SupportHeight returns the highest walkable surface at (x, z) that is not
// above maxHeight.
func (pw *PhysicsWorld) SupportHeight(x, z, maxHeight float64) float64 {
	if pw == nil {
		return 0
	}
	return pw.supportHeight(x, z, maxHeight)
}

func (pw *PhysicsWorld) supportHeight(x, z, maxHeight float64) float64 {
	best := pw.floor
	point := cp.Vector{X: x, Y: z}
	pw.space.BBQuery(cp.NewBBForCircle(point, supportQueryRadius), cp.SHAPE_FILTER_ALL, func(shape *cp.Shape, _ interface{}) {
		top, ok := shape.UserData.(float64)
		if !ok || top > maxHeight+supportQueryRadius || top <= best {
			return
		}
		if shape.PointQuery(point).Distance <= 0 {
			best = top
		}
	}, nil)
	return best
}

// PhysicsBody is a body simulated by a PhysicsWorld. It satisfies
// component.Body.
type PhysicsBody struct {
	world  *PhysicsWorld
	body   *cp.Body
	shape  *cp.Shape
	radius float64
	height float64
	vy     float64
	yaw    float64
	accel  mgl64.Vec3
}

func (b *PhysicsBody) Position() mgl64.Vec3 {
	p := b.body.Position()
	return mgl64.Vec3{p.X, b.height, p.Y}
}

func (b *PhysicsBody) SetPosition(p mgl64.Vec3) {
	b.body.SetPosition(cp.Vector{X: p.X(), Y: p.Z()})
	b.height = p.Y()
}

func (b *PhysicsBody) Velocity() mgl64.Vec3 {
	v := b.body.Velocity()
	return mgl64.Vec3{v.X, b.vy, v.Y}
}

func (b *PhysicsBody) SetVelocity(v mgl64.Vec3) {
	b.body.SetVelocity(v.X(), v.Z())
	b.vy = v.Y()
}

func (b *PhysicsBody) Yaw() float64 {
	return b.yaw
}

func (b *PhysicsBody) SetYaw(deg float64) {
	b.yaw = deg
}

func (b *PhysicsBody) AddAcceleration(a mgl64.Vec3) {
	b.accel = b.accel.Add(a)
}

func (b *PhysicsBody) Gravity() mgl64.Vec3 {
	return b.world.Gravity()
}

func (b *PhysicsBody) Radius() float64 {
	return b.radius
}
