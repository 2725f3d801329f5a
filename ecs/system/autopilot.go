package system

import (
	"fmt"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/rover/common"
	"github.com/milk9111/rover/ecs"
	"github.com/milk9111/rover/ecs/component"
	"github.com/rs/zerolog"
)

// Script globals. Inputs are written before every run; outputs are reset to
// their zero value and read back after it. Scripts assign outputs with "=".
var (
	autopilotFloatInputs  = []string{"time", "dt", "x", "y", "z", "yaw"}
	autopilotFloatOutputs = []string{"move_x", "move_y", "look_x", "look_y"}
	autopilotBoolOutputs  = []string{"jump", "fire", "recenter"}
)

type autopilotRuntime struct {
	source   []byte
	compiled *tengo.Compiled
	jump     bool
	fire     bool
	recenter bool
}

// AutopilotSystem drives an entity's Input from a tengo script. It stands in
// for a human at the keyboard in the headless host and tests.
type AutopilotSystem struct {
	logger   zerolog.Logger
	runtimes map[ecs.Entity]*autopilotRuntime
	warned   warnOnce
}

func NewAutopilotSystem(logger zerolog.Logger) *AutopilotSystem {
	return &AutopilotSystem{
		logger:   systemLogger(logger, "autopilot"),
		runtimes: make(map[ecs.Entity]*autopilotRuntime),
	}
}

func (s *AutopilotSystem) Update(w *ecs.World, dt float64) {
	if w == nil {
		return
	}

	ecs.ForEach2(w, component.AutopilotComponent.Kind(), component.InputComponent.Kind(), func(e ecs.Entity, ap *component.Autopilot, in *component.Input) {
		rt, err := s.runtime(e, ap)
		if err != nil {
			s.warned.warn(s.logger, e, err.Error())
			return
		}
		if dt > 0 {
			ap.Time += dt
		}
		if err := s.run(w, e, ap, rt, dt); err != nil {
			s.warned.warn(s.logger, e, fmt.Sprintf("autopilot %s: %v", ap.Name, err))
			return
		}

		c := rt.compiled
		in.Move = mgl64.Vec2{
			common.Clamp(c.Get("move_x").Float(), -1, 1),
			common.Clamp(c.Get("move_y").Float(), -1, 1),
		}
		in.Look = mgl64.Vec2{c.Get("look_x").Float(), c.Get("look_y").Float()}

		jump, fire, recenter := c.Get("jump").Bool(), c.Get("fire").Bool(), c.Get("recenter").Bool()
		in.JumpPressed = in.JumpPressed || (jump && !rt.jump)
		in.JumpHeld = jump
		in.FirePressed = in.FirePressed || (fire && !rt.fire)
		in.RecenterPressed = in.RecenterPressed || (recenter && !rt.recenter)
		rt.jump, rt.fire, rt.recenter = jump, fire, recenter
	})

	s.prune(w)
}

func (s *AutopilotSystem) prune(w *ecs.World) {
	for e := range s.runtimes {
		if !ecs.IsAlive(w, e) || !ecs.Has(w, e, component.AutopilotComponent.Kind()) {
			delete(s.runtimes, e)
		}
	}
}

func (s *AutopilotSystem) run(w *ecs.World, e ecs.Entity, ap *component.Autopilot, rt *autopilotRuntime, dt float64) error {
	pose, _ := WorldPose(w, e)
	grounded := false
	if loco, ok := ecs.Get(w, e, component.LocomotionComponent.Kind()); ok {
		grounded = loco.Grounded
	}

	inputs := map[string]interface{}{
		"time":     ap.Time,
		"dt":       dt,
		"x":        pose.Position.X(),
		"y":        pose.Position.Y(),
		"z":        pose.Position.Z(),
		"yaw":      pose.Yaw,
		"grounded": grounded,
	}
	for _, name := range autopilotFloatOutputs {
		inputs[name] = 0.0
	}
	for _, name := range autopilotBoolOutputs {
		inputs[name] = false
	}
	for name, value := range inputs {
		// Globals a script never references are dropped at compile time.
		if !rt.compiled.IsDefined(name) {
			continue
		}
		if err := rt.compiled.Set(name, value); err != nil {
			return fmt.Errorf("set %s: %w", name, err)
		}
	}
	return rt.compiled.Run()
}

func (s *AutopilotSystem) runtime(e ecs.Entity, ap *component.Autopilot) (*autopilotRuntime, error) {
	if rt, ok := s.runtimes[e]; ok && string(rt.source) == string(ap.Source) {
		return rt, nil
	}

	compiled, err := compileAutopilot(ap.Source)
	if err != nil {
		return nil, fmt.Errorf("autopilot %s: compile: %w", ap.Name, err)
	}
	rt := &autopilotRuntime{source: append([]byte(nil), ap.Source...), compiled: compiled}
	s.runtimes[e] = rt
	s.logger.Debug().Stringer("entity", e).Str("script", ap.Name).Msg("autopilot: compiled")
	return rt, nil
}

func compileAutopilot(src []byte) (*tengo.Compiled, error) {
	script := tengo.NewScript(src)
	for _, name := range autopilotFloatInputs {
		_ = script.Add(name, 0.0)
	}
	_ = script.Add("grounded", false)
	for _, name := range autopilotFloatOutputs {
		_ = script.Add(name, 0.0)
	}
	for _, name := range autopilotBoolOutputs {
		_ = script.Add(name, false)
	}
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))
	return script.Compile()
}
