package sandbox

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/milk9111/rover/ecs"
	"github.com/milk9111/rover/ecs/component"
	"github.com/milk9111/rover/ecs/entity"
	"github.com/milk9111/rover/ecs/system"
	"github.com/milk9111/rover/prefabs"
	"github.com/rs/zerolog"
)

const DefaultArena = "arena.yaml"

type Options struct {
	Arena         string
	FixedStep     float64
	MaxFixedSteps int
	// Autopilot names a script that drives the rover instead of a human.
	Autopilot string
	Mode      component.GameMode
	// Input runs first every frame and fills the rover's Input.
	Input  ecs.System
	Logger zerolog.Logger
}

type toggler interface {
	SetEnabled(w *ecs.World, enabled bool)
}

// Sandbox is an arena with a rover, its sentries and every system needed to
// run them.
type Sandbox struct {
	World     *ecs.World
	State     *component.ModeState
	Scheduler *ecs.Scheduler
	Arena     entity.Arena

	arenaPath string
	prefabs   map[string][]ecs.Entity
	toggles   []toggler
	paused    bool
	logger    zerolog.Logger

	ticks   int
	fires   int
	attacks int
}

func New(opts Options) (*Sandbox, error) {
	if opts.Arena == "" {
		opts.Arena = DefaultArena
	}
	logger := opts.Logger.With().Str("component", "sandbox").Logger()

	spec, err := prefabs.LoadArenaSpec(opts.Arena)
	if err != nil {
		return nil, fmt.Errorf("sandbox: %w", err)
	}

	w := ecs.NewWorld()
	w.SetLogger(opts.Logger)
	w.SetPhysicsWorld(entity.NewPhysicsWorld(spec))

	arena, err := entity.LoadArenaToWorld(w, spec)
	if err != nil {
		return nil, fmt.Errorf("sandbox: %w", err)
	}
	if opts.Autopilot != "" {
		if err := entity.AddAutopilot(w, arena.Rover, opts.Autopilot); err != nil {
			return nil, fmt.Errorf("sandbox: %w", err)
		}
	}

	state := component.NewModeState(opts.Mode)
	locomotion := system.NewLocomotionSystem(state, opts.Logger)
	cameraRig := system.NewCameraRigSystem(state, opts.Logger)
	head := system.NewHeadConstraintSystem(state, opts.Logger)
	shooting := system.NewShootingSystem(state, opts.Logger)
	engagement := system.NewEngagementSystem(state, opts.Logger)

	var systems []ecs.System
	if opts.Input != nil {
		systems = append(systems, opts.Input)
	}
	systems = append(systems,
		system.NewAutopilotSystem(opts.Logger),
		locomotion,
		system.NewPhysicsSystem(),
		system.NewRespawnSystem(opts.Logger),
		system.NewAttachmentSystem(),
		cameraRig,
		head,
		shooting,
		engagement,
		system.NewMenuOrbitSystem(state, opts.Logger),
	)

	sb := &Sandbox{
		World:     w,
		State:     state,
		Scheduler: ecs.NewScheduler(opts.FixedStep, opts.MaxFixedSteps, systems...),
		Arena:     arena,
		arenaPath: prefabs.Name(opts.Arena),
		prefabs:   make(map[string][]ecs.Entity),
		toggles:   []toggler{locomotion, cameraRig, head, shooting, engagement},
		logger:    logger,
	}
	sb.prefabs[prefabs.Name(spec.Rover.Prefab)] = append(sb.prefabs[prefabs.Name(spec.Rover.Prefab)], arena.Rover)
	for i, s := range spec.Sentries {
		name := prefabs.Name(s.Prefab)
		sb.prefabs[name] = append(sb.prefabs[name], arena.Sentries[i])
	}

	logger.Info().Str("arena", spec.Name).Str("mode", opts.Mode.String()).Msg("sandbox ready")
	return sb, nil
}

// Step advances the sandbox by one frame and returns the events it raised.
func (s *Sandbox) Step(frameDt float64) []ecs.Event {
	s.ticks += s.Scheduler.Step(s.World, frameDt)

	events := s.World.Events().Drain()
	for _, evt := range events {
		switch evt := evt.(type) {
		case ecs.FireEvent:
			s.fires++
			s.logger.Debug().
				Stringer("source", evt.Source).
				Str("position", fmt.Sprintf("%.2f", evt.Position)).
				Float64("speed", evt.Speed).
				Msg("fire")
		case ecs.AttackAnimationEvent:
			if evt.Active {
				s.attacks++
			}
			s.logger.Debug().Stringer("entity", evt.Entity).Bool("active", evt.Active).Msg("attack animation")
		}
	}
	return events
}

// SetMode switches the session mode. Systems outside the new mode reset on
// their next tick.
func (s *Sandbox) SetMode(mode component.GameMode) {
	if s.State.Mode() == mode {
		return
	}
	s.State.Set(mode)
	s.logger.Info().Str("mode", mode.String()).Msg("mode changed")
}

// SetPaused freezes simulated time and disables the gameplay systems, or
// undoes both.
func (s *Sandbox) SetPaused(paused bool) {
	if s.paused == paused {
		return
	}
	s.paused = paused
	scale := 1.0
	if paused {
		scale = 0
	}
	s.Scheduler.SetTimeScale(scale)
	for _, t := range s.toggles {
		t.SetEnabled(s.World, !paused)
	}
	s.logger.Info().Bool("paused", paused).Msg("pause toggled")
}

func (s *Sandbox) Paused() bool {
	return s.paused
}

// Reload applies a changed prefab or script file. Invalid tuning leaves the
// running entities untouched.
func (s *Sandbox) Reload(path string) error {
	name := prefabs.Name(path)
	switch {
	case strings.EqualFold(filepath.Ext(name), ".tengo"):
		n, err := entity.ReloadScript(s.World, name)
		if err != nil {
			return fmt.Errorf("sandbox: %w", err)
		}
		s.logger.Info().Str("script", name).Int("autopilots", n).Msg("script reloaded")
	case name == s.arenaPath:
		s.logger.Warn().Str("arena", name).Msg("arena layout changes apply on restart")
	default:
		entities := s.prefabs[name]
		if len(entities) == 0 {
			return nil
		}
		if err := entity.Retune(s.World, name, entities...); err != nil {
			return fmt.Errorf("sandbox: %w", err)
		}
		s.logger.Info().Str("prefab", name).Int("entities", len(entities)).Msg("prefab retuned")
	}
	return nil
}

// RoverInput returns the Input the host writes to.
func (s *Sandbox) RoverInput() *component.Input {
	in, _ := ecs.Get(s.World, s.Arena.Rover, component.InputComponent.Kind())
	return in
}

func (s *Sandbox) CameraPose() (component.CameraPose, bool) {
	pose, ok := ecs.Get(s.World, s.Arena.Camera, component.CameraPoseComponent.Kind())
	if !ok {
		return component.CameraPose{}, false
	}
	return *pose, true
}

type Stats struct {
	Ticks   int
	Dropped int
	Fires   int
	Attacks int
}

func (s *Sandbox) Stats() Stats {
	return Stats{
		Ticks:   s.ticks,
		Dropped: s.Scheduler.Dropped(),
		Fires:   s.fires,
		Attacks: s.attacks,
	}
}
