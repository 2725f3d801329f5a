package component

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

type Glide struct {
	Enabled bool
	// Target is the vertical speed the glide pulls toward.
	Target float64
	// Threshold is the vertical speed at or below which gliding starts.
	Threshold float64
	// Pull is the lerp factor applied per fixed tick.
	Pull float64
}

// Locomotion holds rover drive tuning and its transient state.
type Locomotion struct {
	MoveSpeed         float64
	VelocitySmoothing float64
	TurnSpeed         float64
	TurnDeadzone      float64
	AirControl        float64
	JumpSpeed         float64
	FallMultiplier    float64
	Glide             Glide

	Grounded      bool
	JumpPending   bool
	JumpHeld      bool
	Move          mgl64.Vec2
	DriveVelocity mgl64.Vec3
}

// Validate reports tuning that would break the drive.
func (l *Locomotion) Validate() error {
	if l == nil {
		return nil
	}
	if l.VelocitySmoothing < 0 {
		return fmt.Errorf("velocity_smoothing %v: %w", l.VelocitySmoothing, ErrNegativeTimeConstant)
	}
	if l.AirControl < 0 || l.AirControl > 1 {
		return fmt.Errorf("air_control %v: must be within [0, 1]", l.AirControl)
	}
	if l.TurnDeadzone < 0 {
		return fmt.Errorf("turn_deadzone %v: %w", l.TurnDeadzone, ErrInvalidLimit)
	}
	if l.FallMultiplier < 0 {
		return fmt.Errorf("fall_multiplier %v: must not be negative", l.FallMultiplier)
	}
	if l.Glide.Pull < 0 || l.Glide.Pull > 1 {
		return fmt.Errorf("glide pull %v: must be within [0, 1]", l.Glide.Pull)
	}
	return nil
}

// Reset clears transient state. Tuning is kept.
func (l *Locomotion) Reset() {
	if l == nil {
		return
	}
	l.Grounded = false
	l.JumpPending = false
	l.JumpHeld = false
	l.Move = mgl64.Vec2{}
	l.DriveVelocity = mgl64.Vec3{}
}

var LocomotionComponent = NewComponent[Locomotion]()

// Drivetrain holds cosmetic wheel and engine outputs.
type Drivetrain struct {
	WheelSpinRate    float64
	MaxSpeedForAudio float64
	MinEnginePitch   float64
	MaxEnginePitch   float64
	MinEngineVolume  float64
	MaxEngineVolume  float64

	WheelAngle   float64
	EnginePitch  float64
	EngineVolume float64
}

var DrivetrainComponent = NewComponent[Drivetrain]()
