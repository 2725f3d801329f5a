package component

import "github.com/go-gl/mathgl/mgl64"

// Transform is an entity's world pose. Yaw and Pitch are degrees; positive
// pitch looks down.
type Transform struct {
	Position mgl64.Vec3
	Yaw      float64
	Pitch    float64
}

var TransformComponent = NewComponent[Transform]()
