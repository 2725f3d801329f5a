package system

import (
	"math"

	"github.com/milk9111/rover/common"
	"github.com/milk9111/rover/ecs"
	"github.com/milk9111/rover/ecs/component"
	"github.com/rs/zerolog"
)

// fireEpsilon absorbs float drift when a timer built from many small dt
// values should land exactly on the interval.
const fireEpsilon = 1e-9

// EngagementSystem runs the idle/attack classifier of sentries: hysteresis
// on target distance, interval firing and head tracking.
type EngagementSystem struct {
	gate   gate
	logger zerolog.Logger
	warned warnOnce
}

func NewEngagementSystem(state component.GameState, logger zerolog.Logger) *EngagementSystem {
	return &EngagementSystem{
		gate:   newGate(state, component.GameModeGameplay),
		logger: systemLogger(logger, "engagement"),
	}
}

// SetEnabled turns the system on or off. Going inactive forces every sentry
// back to idle.
func (s *EngagementSystem) SetEnabled(w *ecs.World, enabled bool) {
	if s.gate.setEnabled(enabled) {
		s.reset(w)
	}
}

func (s *EngagementSystem) reset(w *ecs.World) {
	ecs.ForEach(w, component.EngagementComponent.Kind(), func(e ecs.Entity, eng *component.Engagement) {
		if eng.Mode == component.EngagementAttacking {
			s.exit(w, e, eng)
		}
		eng.Mode = component.EngagementIdle
		eng.FireTimer = 0
		eng.HeadYawVelocity = 0
	})
}

func (s *EngagementSystem) Update(w *ecs.World, dt float64) {
	if w == nil {
		return
	}
	run, changed := s.gate.check()
	if changed {
		s.reset(w)
	}
	if !run {
		return
	}

	ecs.ForEach(w, component.EngagementComponent.Kind(), func(e ecs.Entity, eng *component.Engagement) {
		target, ok := WorldPose(w, ecs.Entity(eng.Target))
		if !ok {
			s.warned.warn(s.logger, e, "missing target reference")
			return
		}
		head, ok := WorldPose(w, ecs.Entity(eng.Head))
		if !ok {
			s.warned.warn(s.logger, e, "missing head reference")
			return
		}
		self, ok := WorldPose(w, e)
		if !ok {
			self = head
		}

		dist := target.Position.Sub(self.Position).Len()
		switch eng.Mode {
		case component.EngagementIdle:
			if dist <= eng.EngageRadius {
				s.enter(w, e, eng)
			}
		case component.EngagementAttacking:
			if dist >= eng.DisengageRadius {
				s.exit(w, e, eng)
			}
		}

		attacking := eng.Mode == component.EngagementAttacking
		if attacking || !eng.TrackOnlyWhileAttacking {
			s.trackHead(w, eng, head, target, dt)
		}
		if attacking {
			s.advanceFire(w, e, eng, dt)
		}
	})
}

func (s *EngagementSystem) enter(w *ecs.World, e ecs.Entity, eng *component.Engagement) {
	eng.Mode = component.EngagementAttacking
	eng.FireTimer = 0
	setAttackAnimation(w, e, true)
	s.logger.Debug().Stringer("entity", e).Msg("engagement: attacking")
}

// exit returns to idle. The head keeps its last yaw.
func (s *EngagementSystem) exit(w *ecs.World, e ecs.Entity, eng *component.Engagement) {
	eng.Mode = component.EngagementIdle
	eng.HeadYawVelocity = 0
	setAttackAnimation(w, e, false)
	s.logger.Debug().Stringer("entity", e).Msg("engagement: idle")
}

func (s *EngagementSystem) trackHead(w *ecs.World, eng *component.Engagement, head, target Pose, dt float64) {
	desired, ok := common.YawOf(target.Position.Sub(head.Position))
	if !ok {
		return
	}

	next := common.SmoothDampAngle(eng.HeadYaw, desired, &eng.HeadYawVelocity, eng.HeadSmoothTime, dt, 0)
	if limit := eng.HeadMaxYawDeltaPerTick; limit > 0 {
		next = eng.HeadYaw + common.Clamp(next-eng.HeadYaw, -limit, limit)
	}
	eng.HeadYaw = common.WrapAngle(next)

	headEntity := ecs.Entity(eng.Head)
	if tr, ok := ecs.Get(w, headEntity, component.TransformComponent.Kind()); ok {
		tr.Yaw = eng.HeadYaw
	}
	if bone, ok := ecs.Get(w, headEntity, component.HeadBoneComponent.Kind()); ok {
		parentYaw := 0.0
		if att, ok := ecs.Get(w, headEntity, component.AttachmentComponent.Kind()); ok {
			if parent, ok := WorldPose(w, ecs.Entity(att.Parent)); ok {
				parentYaw = parent.Yaw
			}
		}
		bone.Local = common.YawRotation(common.DeltaAngle(parentYaw, eng.HeadYaw)).Mul(bone.Rest)
	}
}

func (s *EngagementSystem) advanceFire(w *ecs.World, e ecs.Entity, eng *component.Engagement, dt float64) {
	if !(eng.FireInterval > 0) {
		s.warned.warn(s.logger, e, "non-positive fire interval")
		return
	}
	if dt > 0 {
		eng.FireTimer += dt
	}
	if eng.FireTimer < eng.FireInterval-fireEpsilon {
		return
	}

	s.fire(w, e, eng)
	eng.FireTimer = math.Max(0, eng.FireTimer-eng.FireInterval)
	if eng.FireTimer >= eng.FireInterval {
		eng.FireTimer = math.Mod(eng.FireTimer, eng.FireInterval)
	}
}

func (s *EngagementSystem) fire(w *ecs.World, e ecs.Entity, eng *component.Engagement) {
	pose, ok := WorldPose(w, ecs.Entity(eng.FirePoint))
	if !ok {
		pose, _ = WorldPose(w, ecs.Entity(eng.Head))
	}
	w.Events().Push(ecs.FireEvent{
		Source:      e,
		Position:    pose.Position,
		Orientation: pose.Rotation(),
		Speed:       eng.ProjectileSpeed,
	})
	s.logger.Debug().Stringer("entity", e).Float64("yaw", pose.Yaw).Msg("engagement: fire")
}

func setAttackAnimation(w *ecs.World, e ecs.Entity, active bool) {
	anim, ok := ecs.Get(w, e, component.AttackAnimationComponent.Kind())
	if !ok {
		anim = &component.AttackAnimation{}
		if err := ecs.Add(w, e, component.AttackAnimationComponent.Kind(), anim); err != nil {
			return
		}
	}
	if anim.Active == active {
		return
	}
	anim.Active = active
	w.Events().Push(ecs.AttackAnimationEvent{Entity: e, Active: active})
}
