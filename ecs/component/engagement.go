package component

import "fmt"

type EngagementMode int

const (
	EngagementIdle EngagementMode = iota
	EngagementAttacking
)

func (m EngagementMode) String() string {
	if m == EngagementAttacking {
		return "attacking"
	}
	return "idle"
}

// Engagement is the idle/attack classifier of an autonomous sentry.
type Engagement struct {
	Target    Ref
	Head      Ref
	FirePoint Ref

	EngageRadius            float64
	DisengageRadius         float64
	FireInterval            float64
	ProjectileSpeed         float64
	HeadSmoothTime          float64
	HeadMaxYawDeltaPerTick  float64
	TrackOnlyWhileAttacking bool

	Mode            EngagementMode
	FireTimer       float64
	HeadYaw         float64
	HeadYawVelocity float64
}

func (e *Engagement) Validate() error {
	if e == nil {
		return nil
	}
	if e.EngageRadius < 0 || e.DisengageRadius < e.EngageRadius {
		return fmt.Errorf("engage %v disengage %v: %w", e.EngageRadius, e.DisengageRadius, ErrInvalidRadii)
	}
	if !(e.FireInterval > 0) {
		return fmt.Errorf("fire_interval %v: %w", e.FireInterval, ErrInvalidFireInterval)
	}
	if e.HeadSmoothTime < 0 {
		return fmt.Errorf("head_smooth_time %v: %w", e.HeadSmoothTime, ErrNegativeTimeConstant)
	}
	if e.HeadMaxYawDeltaPerTick < 0 {
		return fmt.Errorf("head_max_yaw_delta_per_tick %v: %w", e.HeadMaxYawDeltaPerTick, ErrInvalidLimit)
	}
	return nil
}

var EngagementComponent = NewComponent[Engagement]()

// AttackAnimation mirrors the attack animation flag for a renderer.
type AttackAnimation struct {
	Active bool
}

var AttackAnimationComponent = NewComponent[AttackAnimation]()
