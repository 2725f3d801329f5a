package component

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// HeadConstraint turns a head bone toward the camera within limits. It lives
// on the body that owns the camera rig.
type HeadConstraint struct {
	Head Ref

	YawLimit   float64
	PitchLimit float64
	SmoothTime float64

	Yaw           float64
	Pitch         float64
	YawVelocity   float64
	PitchVelocity float64
}

func (h *HeadConstraint) Validate() error {
	if h == nil {
		return nil
	}
	if h.YawLimit < 0 || h.PitchLimit < 0 {
		return fmt.Errorf("head limits (%v, %v): %w", h.YawLimit, h.PitchLimit, ErrInvalidLimit)
	}
	if h.SmoothTime < 0 {
		return fmt.Errorf("head smooth_time %v: %w", h.SmoothTime, ErrNegativeTimeConstant)
	}
	return nil
}

var HeadConstraintComponent = NewComponent[HeadConstraint]()

// HeadBone is the local rotation of a head relative to its parent. Rest is
// captured at spawn.
type HeadBone struct {
	Rest  mgl64.Quat
	Local mgl64.Quat
}

var HeadBoneComponent = NewComponent[HeadBone]()
