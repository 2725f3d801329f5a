package component

import "github.com/go-gl/mathgl/mgl64"

// RespawnRequest asks for a body to be teleported to Position with Yaw and
// its transient motion state cleared.
type RespawnRequest struct {
	Position mgl64.Vec3
	Yaw      float64
}

var RespawnRequestComponent = NewComponent[RespawnRequest]()

// SafeRespawn is where an entity returns to when it falls below KillHeight.
type SafeRespawn struct {
	Position   mgl64.Vec3
	Yaw        float64
	KillHeight float64
}

var SafeRespawnComponent = NewComponent[SafeRespawn]()
