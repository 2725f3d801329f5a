package prefabs

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"
)

var ErrEmptyArena = errors.New("prefabs: arena has no spawn")

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

type Vec3Spec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

func (v Vec3Spec) Vec3() mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}

type RangeSpec struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

type BoundsSpec struct {
	MinX float64 `yaml:"min_x"`
	MinZ float64 `yaml:"min_z"`
	MaxX float64 `yaml:"max_x"`
	MaxZ float64 `yaml:"max_z"`
}

type PlatformSpec struct {
	Bounds BoundsSpec `yaml:"bounds"`
	Top    float64    `yaml:"top"`
}

type SpawnSpec struct {
	Prefab   string   `yaml:"prefab"`
	Position Vec3Spec `yaml:"position"`
	Yaw      float64  `yaml:"yaw"`
}

type PhysicsSpec struct {
	Gravity       float64 `yaml:"gravity"`
	Floor         float64 `yaml:"floor"`
	StepTolerance float64 `yaml:"step_tolerance"`
	Iterations    uint    `yaml:"iterations"`
}

// ArenaSpec lays out a sandbox: static geometry, the rover spawn and the
// sentries guarding it.
type ArenaSpec struct {
	Name      string                 `yaml:"name"`
	Physics   PhysicsSpec            `yaml:"physics"`
	Walls     []BoundsSpec           `yaml:"walls"`
	Platforms []PlatformSpec         `yaml:"platforms"`
	Rover     SpawnSpec              `yaml:"rover"`
	Sentries  []SpawnSpec            `yaml:"sentries"`
	MenuOrbit MenuOrbitComponentSpec `yaml:"menu_orbit"`
}

func LoadArenaSpec(filename string) (*ArenaSpec, error) {
	spec, err := LoadSpec[ArenaSpec](filename)
	if err != nil {
		return nil, err
	}
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("prefabs: %s: %w", filename, err)
	}
	return &spec, nil
}

func (a *ArenaSpec) Validate() error {
	if a.Rover.Prefab == "" {
		return ErrEmptyArena
	}
	for i, s := range a.Sentries {
		if s.Prefab == "" {
			return fmt.Errorf("sentry %d: prefab is required", i)
		}
	}
	if a.Physics.StepTolerance < 0 {
		return fmt.Errorf("step_tolerance %v: must not be negative", a.Physics.StepTolerance)
	}
	return nil
}
