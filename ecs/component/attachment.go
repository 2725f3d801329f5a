package component

import "github.com/go-gl/mathgl/mgl64"

// Attachment pins an entity to its parent at Offset in the parent's yaw
// frame.
type Attachment struct {
	Parent     Ref
	Offset     mgl64.Vec3
	InheritYaw bool
	YawOffset  float64
}

var AttachmentComponent = NewComponent[Attachment]()

// Weapon fires from FirePoint when its owner presses fire.
type Weapon struct {
	FirePoint   Ref
	Speed       float64
	AimWithHead bool
}

var WeaponComponent = NewComponent[Weapon]()

// Autopilot drives an entity's Input from a script.
type Autopilot struct {
	Name   string
	Source []byte
	Time   float64
}

var AutopilotComponent = NewComponent[Autopilot]()
