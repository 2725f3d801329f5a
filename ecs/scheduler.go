package ecs

import "math"

// System runs once per rendered frame with the wall-clock frame delta.
type System interface {
	Update(w *World, dt float64)
}

// FixedSystem is implemented by systems that also run on the fixed tick.
type FixedSystem interface {
	FixedUpdate(w *World, dt float64)
}

// LateSystem is implemented by systems that run after every Update.
type LateSystem interface {
	LateUpdate(w *World, dt float64)
}

const (
	DefaultFixedStep     = 1.0 / 50
	DefaultMaxFixedSteps = 5
)

// Scheduler runs systems in registration order: all fixed ticks owed for
// the frame, then Update, then LateUpdate.
type Scheduler struct {
	FixedStep     float64
	MaxFixedSteps int

	systems     []System
	accumulator float64
	dropped     int
	timeScale   float64
}

func NewScheduler(fixedStep float64, maxFixedSteps int, systems ...System) *Scheduler {
	if !(fixedStep > 0) {
		fixedStep = DefaultFixedStep
	}
	if maxFixedSteps <= 0 {
		maxFixedSteps = DefaultMaxFixedSteps
	}
	s := &Scheduler{FixedStep: fixedStep, MaxFixedSteps: maxFixedSteps, timeScale: 1}
	for _, system := range systems {
		s.Add(system)
	}
	return s
}

func (s *Scheduler) Add(system System) {
	if system == nil {
		return
	}
	s.systems = append(s.systems, system)
}

func (s *Scheduler) Systems() []System {
	systems := make([]System, 0, len(s.systems))
	return append(systems, s.systems...)
}

// Dropped reports how many fixed ticks were discarded because a frame owed
// more than MaxFixedSteps.
func (s *Scheduler) Dropped() int {
	return s.dropped
}

// SetTimeScale scales every frame delta. Zero freezes simulated time: no
// fixed ticks run and Update/LateUpdate see a zero delta.
func (s *Scheduler) SetTimeScale(scale float64) {
	if !(scale >= 0) || math.IsInf(scale, 0) {
		scale = 1
	}
	s.timeScale = scale
}

func (s *Scheduler) TimeScale() float64 {
	return s.timeScale
}

// Step advances one frame and returns the number of fixed ticks run.
func (s *Scheduler) Step(w *World, frameDt float64) int {
	if s == nil || w == nil {
		return 0
	}
	if !(frameDt > 0) || math.IsInf(frameDt, 0) {
		frameDt = 0
	}
	frameDt *= s.timeScale

	s.accumulator += frameDt
	steps := 0
	for s.accumulator >= s.FixedStep && steps < s.MaxFixedSteps {
		for _, system := range s.systems {
			if fixed, ok := system.(FixedSystem); ok {
				fixed.FixedUpdate(w, s.FixedStep)
			}
		}
		s.accumulator -= s.FixedStep
		steps++
	}
	if s.accumulator >= s.FixedStep {
		owed := int(s.accumulator / s.FixedStep)
		s.dropped += owed
		s.accumulator = math.Mod(s.accumulator, s.FixedStep)
		w.logger.Debug().Int("dropped", owed).Msg("scheduler: fixed steps dropped")
	}

	for _, system := range s.systems {
		system.Update(w, frameDt)
	}
	for _, system := range s.systems {
		if late, ok := system.(LateSystem); ok {
			late.LateUpdate(w, frameDt)
		}
	}
	return steps
}
