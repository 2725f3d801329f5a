package system

import (
	"github.com/milk9111/rover/ecs"
	"github.com/milk9111/rover/ecs/component"
	"github.com/rs/zerolog"
)

// gate decides whether a system runs this frame. A system runs while it is
// enabled and the session is in its mode; a nil GameState counts as
// gameplay.
type gate struct {
	state   component.GameState
	mode    component.GameMode
	enabled bool
	active  bool
	primed  bool
}

func newGate(state component.GameState, mode component.GameMode) gate {
	return gate{state: state, mode: mode, enabled: true}
}

func (g *gate) wanted() bool {
	if !g.enabled {
		return false
	}
	mode := component.GameModeGameplay
	if g.state != nil {
		mode = g.state.Mode()
	}
	return mode == g.mode
}

// check reports whether the system should run and whether that answer
// changed since the previous call. The first call only records the answer.
func (g *gate) check() (run, changed bool) {
	run = g.wanted()
	if !g.primed {
		g.primed = true
		g.active = run
		return run, false
	}
	changed = run != g.active
	g.active = run
	return run, changed
}

// setEnabled updates the enabled flag and reports whether the system just
// went inactive.
func (g *gate) setEnabled(enabled bool) bool {
	g.enabled = enabled
	g.primed = true
	if !enabled && g.active {
		g.active = false
		return true
	}
	return false
}

// warnOnce logs a missing reference the first time it is seen for an
// entity.
type warnOnce struct {
	seen map[ecs.Entity]map[string]struct{}
}

func (o *warnOnce) warn(logger zerolog.Logger, e ecs.Entity, reason string) {
	if o.seen == nil {
		o.seen = make(map[ecs.Entity]map[string]struct{})
	}
	reasons := o.seen[e]
	if reasons == nil {
		reasons = make(map[string]struct{})
		o.seen[e] = reasons
	}
	if _, ok := reasons[reason]; ok {
		return
	}
	reasons[reason] = struct{}{}
	logger.Warn().Stringer("entity", e).Msg(reason)
}

func (o *warnOnce) count() int {
	n := 0
	for _, reasons := range o.seen {
		n += len(reasons)
	}
	return n
}

func systemLogger(logger zerolog.Logger, name string) zerolog.Logger {
	return logger.With().Str("system", name).Logger()
}
