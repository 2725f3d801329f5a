package component

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// CameraRig is the decoupled yaw/pitch accumulator carried by a player
// body. Head is the anchor the camera orbits; Camera receives the pose.
type CameraRig struct {
	Head   Ref
	Camera Ref

	Sensitivity   float64
	InvertY       bool
	MinPitch      float64
	MaxPitch      float64
	Offset        mgl64.Vec3
	PositionTime  float64
	RotationTime  float64
	LookHeight    float64
	BaseYawOffset float64

	Yaw              float64
	Pitch            float64
	Position         mgl64.Vec3
	Rotation         mgl64.Quat
	PositionVelocity mgl64.Vec3
	Initialized      bool
}

func (c *CameraRig) Validate() error {
	if c == nil {
		return nil
	}
	if c.MinPitch > c.MaxPitch {
		return fmt.Errorf("pitch [%v, %v]: %w", c.MinPitch, c.MaxPitch, ErrInvalidPitchRange)
	}
	if c.PositionTime < 0 {
		return fmt.Errorf("position_time %v: %w", c.PositionTime, ErrNegativeTimeConstant)
	}
	if c.RotationTime < 0 {
		return fmt.Errorf("rotation_time %v: %w", c.RotationTime, ErrNegativeTimeConstant)
	}
	return nil
}

var CameraRigComponent = NewComponent[CameraRig]()

// CameraPose is the output pose of a camera entity.
type CameraPose struct {
	Position mgl64.Vec3
	Rotation mgl64.Quat
}

func (p CameraPose) Forward() mgl64.Vec3 {
	return p.Rotation.Rotate(mgl64.Vec3{0, 0, 1})
}

var CameraPoseComponent = NewComponent[CameraPose]()

// MenuOrbit swings a camera around Target while the session is in the menu.
type MenuOrbit struct {
	Target       Ref
	Distance     float64
	Height       float64
	HeightOffset float64
	Amplitude    float64
	Speed        float64
	Phase        float64

	Time float64
}

var MenuOrbitComponent = NewComponent[MenuOrbit]()
