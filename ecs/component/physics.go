package component

import "github.com/go-gl/mathgl/mgl64"

// Body is a rigid body owned by the physics collaborator. Pitch and roll
// are locked; yaw is authored kinematically.
type Body interface {
	Position() mgl64.Vec3
	SetPosition(p mgl64.Vec3)
	Velocity() mgl64.Vec3
	SetVelocity(v mgl64.Vec3)
	Yaw() float64
	SetYaw(deg float64)
	// AddAcceleration queues an acceleration applied on the next step.
	AddAcceleration(a mgl64.Vec3)
	Gravity() mgl64.Vec3
}

// GroundSensor answers short downward support queries.
type GroundSensor interface {
	SenseGround(origin mgl64.Vec3, distance float64) bool
}

// PhysicsBody links an entity to its body and the sensor used for it.
type PhysicsBody struct {
	Body   Body
	Sensor GroundSensor
	Radius float64
	Mass   float64
}

var PhysicsBodyComponent = NewComponent[PhysicsBody]()

// GroundCheck is the downward ray used to classify grounded/airborne.
// Anchor is a body-local offset rotated by the body yaw.
type GroundCheck struct {
	Anchor   mgl64.Vec3
	Distance float64
}

var GroundCheckComponent = NewComponent[GroundCheck]()
