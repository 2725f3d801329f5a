package prefabs

import (
	"fmt"
	"sort"

	"github.com/milk9111/rover/ecs/component"
	"gopkg.in/yaml.v3"
)

type EntityBuildSpec struct {
	Name       string         `yaml:"name"`
	Components map[string]any `yaml:"components"`
}

func LoadEntityBuildSpec(filename string) (EntityBuildSpec, error) {
	return LoadSpec[EntityBuildSpec](filename)
}

func DecodeComponentSpec[T any](raw any) (T, error) {
	var zero T
	if raw == nil {
		return zero, nil
	}
	b, err := yaml.Marshal(raw)
	if err != nil {
		return zero, err
	}
	var out T
	if err := yaml.Unmarshal(b, &out); err != nil {
		return zero, err
	}
	return out, nil
}

type validator interface {
	Validate() error
}

var validators = map[string]func(raw any) (validator, error){
	"locomotion": func(raw any) (validator, error) {
		s, err := DecodeComponentSpec[LocomotionComponentSpec](raw)
		c := s.Component()
		return &c, err
	},
	"camera_rig": func(raw any) (validator, error) {
		s, err := DecodeComponentSpec[CameraRigComponentSpec](raw)
		c := s.Component()
		return &c, err
	},
	"head_constraint": func(raw any) (validator, error) {
		s, err := DecodeComponentSpec[HeadConstraintComponentSpec](raw)
		c := s.Component()
		return &c, err
	},
	"engagement": func(raw any) (validator, error) {
		s, err := DecodeComponentSpec[EngagementComponentSpec](raw)
		c := s.Component()
		return &c, err
	},
}

// Validate decodes every tunable component of spec and checks its
// construction contract. Errors name the offending component.
func (s EntityBuildSpec) Validate() error {
	names := make([]string, 0, len(s.Components))
	for name := range s.Components {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		decode, ok := validators[name]
		if !ok {
			continue
		}
		v, err := decode(s.Components[name])
		if err != nil {
			return fmt.Errorf("prefabs: %s: decode %s: %w", s.Name, name, err)
		}
		if err := v.Validate(); err != nil {
			return fmt.Errorf("prefabs: %s: %s: %w", s.Name, name, err)
		}
	}
	return nil
}

type TransformComponentSpec struct {
	Position Vec3Spec `yaml:"position"`
	Yaw      float64  `yaml:"yaw"`
	Pitch    float64  `yaml:"pitch"`
}

func (s TransformComponentSpec) Component() component.Transform {
	return component.Transform{Position: s.Position.Vec3(), Yaw: s.Yaw, Pitch: s.Pitch}
}

type PhysicsBodyComponentSpec struct {
	Radius float64 `yaml:"radius"`
	Mass   float64 `yaml:"mass"`
}

type GroundCheckComponentSpec struct {
	Anchor   Vec3Spec `yaml:"anchor"`
	Distance float64  `yaml:"distance"`
}

func (s GroundCheckComponentSpec) Component() component.GroundCheck {
	return component.GroundCheck{Anchor: s.Anchor.Vec3(), Distance: s.Distance}
}

type GlideSpec struct {
	Enabled   bool    `yaml:"enabled"`
	Target    float64 `yaml:"target"`
	Threshold float64 `yaml:"threshold"`
	Pull      float64 `yaml:"pull"`
}

type LocomotionComponentSpec struct {
	MoveSpeed         float64   `yaml:"move_speed"`
	VelocitySmoothing float64   `yaml:"velocity_smoothing"`
	TurnSpeed         float64   `yaml:"turn_speed"`
	TurnDeadzone      float64   `yaml:"turn_deadzone"`
	AirControl        float64   `yaml:"air_control"`
	JumpSpeed         float64   `yaml:"jump_speed"`
	FallMultiplier    float64   `yaml:"fall_multiplier"`
	Glide             GlideSpec `yaml:"glide"`
}

func (s LocomotionComponentSpec) Component() component.Locomotion {
	return component.Locomotion{
		MoveSpeed:         s.MoveSpeed,
		VelocitySmoothing: s.VelocitySmoothing,
		TurnSpeed:         s.TurnSpeed,
		TurnDeadzone:      s.TurnDeadzone,
		AirControl:        s.AirControl,
		JumpSpeed:         s.JumpSpeed,
		FallMultiplier:    s.FallMultiplier,
		Glide: component.Glide{
			Enabled:   s.Glide.Enabled,
			Target:    s.Glide.Target,
			Threshold: s.Glide.Threshold,
			Pull:      s.Glide.Pull,
		},
	}
}

type DrivetrainComponentSpec struct {
	WheelSpinRate    float64   `yaml:"wheel_spin_rate"`
	MaxSpeedForAudio float64   `yaml:"max_speed_for_audio"`
	EnginePitch      RangeSpec `yaml:"engine_pitch"`
	EngineVolume     RangeSpec `yaml:"engine_volume"`
}

func (s DrivetrainComponentSpec) Component() component.Drivetrain {
	return component.Drivetrain{
		WheelSpinRate:    s.WheelSpinRate,
		MaxSpeedForAudio: s.MaxSpeedForAudio,
		MinEnginePitch:   s.EnginePitch.Min,
		MaxEnginePitch:   s.EnginePitch.Max,
		MinEngineVolume:  s.EngineVolume.Min,
		MaxEngineVolume:  s.EngineVolume.Max,
		EnginePitch:      s.EnginePitch.Min,
		EngineVolume:     s.EngineVolume.Min,
	}
}

// HeadComponentSpec places the head anchor on its parent.
type HeadComponentSpec struct {
	Offset     Vec3Spec `yaml:"offset"`
	InheritYaw bool     `yaml:"inherit_yaw"`
}

type CameraRigComponentSpec struct {
	LookSensitivity float64  `yaml:"look_sensitivity"`
	InvertY         bool     `yaml:"invert_y"`
	MinPitch        float64  `yaml:"min_pitch"`
	MaxPitch        float64  `yaml:"max_pitch"`
	Offset          Vec3Spec `yaml:"offset"`
	PositionTime    float64  `yaml:"position_time"`
	RotationTime    float64  `yaml:"rotation_time"`
	LookHeight      float64  `yaml:"look_height"`
	BaseYawOffset   float64  `yaml:"base_yaw_offset"`
}

func (s CameraRigComponentSpec) Component() component.CameraRig {
	return component.CameraRig{
		Sensitivity:   s.LookSensitivity,
		InvertY:       s.InvertY,
		MinPitch:      s.MinPitch,
		MaxPitch:      s.MaxPitch,
		Offset:        s.Offset.Vec3(),
		PositionTime:  s.PositionTime,
		RotationTime:  s.RotationTime,
		LookHeight:    s.LookHeight,
		BaseYawOffset: s.BaseYawOffset,
	}
}

type HeadConstraintComponentSpec struct {
	YawLimit   float64 `yaml:"yaw_limit"`
	PitchLimit float64 `yaml:"pitch_limit"`
	SmoothTime float64 `yaml:"smooth_time"`
}

func (s HeadConstraintComponentSpec) Component() component.HeadConstraint {
	return component.HeadConstraint{
		YawLimit:   s.YawLimit,
		PitchLimit: s.PitchLimit,
		SmoothTime: s.SmoothTime,
	}
}

type WeaponComponentSpec struct {
	FirePoint   Vec3Spec `yaml:"fire_point"`
	Speed       float64  `yaml:"speed"`
	AimWithHead bool     `yaml:"aim_with_head"`
}

type EngagementComponentSpec struct {
	EngageRadius            float64  `yaml:"engage_radius"`
	DisengageRadius         float64  `yaml:"disengage_radius"`
	FireInterval            float64  `yaml:"fire_interval"`
	ProjectileSpeed         float64  `yaml:"projectile_speed"`
	HeadSmoothTime          float64  `yaml:"head_smooth_time"`
	HeadMaxYawDeltaPerTick  float64  `yaml:"head_max_yaw_delta_per_tick"`
	TrackOnlyWhileAttacking bool     `yaml:"track_only_while_attacking"`
	FirePoint               Vec3Spec `yaml:"fire_point"`
}

func (s EngagementComponentSpec) Component() component.Engagement {
	return component.Engagement{
		EngageRadius:            s.EngageRadius,
		DisengageRadius:         s.DisengageRadius,
		FireInterval:            s.FireInterval,
		ProjectileSpeed:         s.ProjectileSpeed,
		HeadSmoothTime:          s.HeadSmoothTime,
		HeadMaxYawDeltaPerTick:  s.HeadMaxYawDeltaPerTick,
		TrackOnlyWhileAttacking: s.TrackOnlyWhileAttacking,
	}
}

type SafeRespawnComponentSpec struct {
	KillHeight float64 `yaml:"kill_height"`
}

type AutopilotComponentSpec struct {
	Script string `yaml:"script"`
}

type MenuOrbitComponentSpec struct {
	Distance     float64 `yaml:"distance"`
	Height       float64 `yaml:"height"`
	HeightOffset float64 `yaml:"height_offset"`
	Amplitude    float64 `yaml:"amplitude"`
	Speed        float64 `yaml:"speed"`
	Phase        float64 `yaml:"phase"`
}

func (s MenuOrbitComponentSpec) Component() component.MenuOrbit {
	return component.MenuOrbit{
		Distance:     s.Distance,
		Height:       s.Height,
		HeightOffset: s.HeightOffset,
		Amplitude:    s.Amplitude,
		Speed:        s.Speed,
		Phase:        s.Phase,
	}
}
