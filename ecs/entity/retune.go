package entity

import (
	"fmt"
	"math"

	"github.com/milk9111/rover/common"
	"github.com/milk9111/rover/ecs"
	"github.com/milk9111/rover/ecs/component"
	"github.com/milk9111/rover/prefabs"
)

// Retune reloads prefabPath and copies its tuning onto entities. Transient
// state survives. An invalid prefab changes nothing.
func Retune(w *ecs.World, prefabPath string, entities ...ecs.Entity) error {
	spec, err := prefabs.LoadEntityBuildSpec(prefabPath)
	if err != nil {
		return fmt.Errorf("retune: %w", err)
	}
	if err := spec.Validate(); err != nil {
		return fmt.Errorf("retune: %w", err)
	}

	for _, e := range entities {
		if err := retuneEntity(w, e, spec); err != nil {
			return fmt.Errorf("retune %s: %w", e, err)
		}
	}
	return nil
}

func retuneEntity(w *ecs.World, e ecs.Entity, spec prefabs.EntityBuildSpec) error {
	if raw, ok := spec.Components["locomotion"]; ok {
		if loco, ok := ecs.Get(w, e, component.LocomotionComponent.Kind()); ok {
			s, err := prefabs.DecodeComponentSpec[prefabs.LocomotionComponentSpec](raw)
			if err != nil {
				return err
			}
			next := s.Component()
			next.Grounded = loco.Grounded
			next.JumpPending = loco.JumpPending
			next.JumpHeld = loco.JumpHeld
			next.Move = loco.Move
			next.DriveVelocity = loco.DriveVelocity
			*loco = next
		}
	}

	if raw, ok := spec.Components["ground_check"]; ok {
		if gc, ok := ecs.Get(w, e, component.GroundCheckComponent.Kind()); ok {
			s, err := prefabs.DecodeComponentSpec[prefabs.GroundCheckComponentSpec](raw)
			if err != nil {
				return err
			}
			*gc = s.Component()
		}
	}

	if raw, ok := spec.Components["drivetrain"]; ok {
		if drive, ok := ecs.Get(w, e, component.DrivetrainComponent.Kind()); ok {
			s, err := prefabs.DecodeComponentSpec[prefabs.DrivetrainComponentSpec](raw)
			if err != nil {
				return err
			}
			next := s.Component()
			next.WheelAngle = drive.WheelAngle
			next.EnginePitch = drive.EnginePitch
			next.EngineVolume = drive.EngineVolume
			*drive = next
		}
	}

	if raw, ok := spec.Components["camera_rig"]; ok {
		if rig, ok := ecs.Get(w, e, component.CameraRigComponent.Kind()); ok {
			s, err := prefabs.DecodeComponentSpec[prefabs.CameraRigComponentSpec](raw)
			if err != nil {
				return err
			}
			next := s.Component()
			next.Head = rig.Head
			next.Camera = rig.Camera
			next.Yaw = rig.Yaw
			next.Pitch = common.Clamp(rig.Pitch, next.MinPitch, next.MaxPitch)
			next.Position = rig.Position
			next.Rotation = rig.Rotation
			next.PositionVelocity = rig.PositionVelocity
			next.Initialized = rig.Initialized
			*rig = next
		}
	}

	if raw, ok := spec.Components["head_constraint"]; ok {
		if hc, ok := ecs.Get(w, e, component.HeadConstraintComponent.Kind()); ok {
			s, err := prefabs.DecodeComponentSpec[prefabs.HeadConstraintComponentSpec](raw)
			if err != nil {
				return err
			}
			next := s.Component()
			next.Head = hc.Head
			next.Yaw = common.Clamp(hc.Yaw, -next.YawLimit, next.YawLimit)
			next.Pitch = common.Clamp(hc.Pitch, -next.PitchLimit, next.PitchLimit)
			next.YawVelocity = hc.YawVelocity
			next.PitchVelocity = hc.PitchVelocity
			*hc = next
		}
	}

	if raw, ok := spec.Components["engagement"]; ok {
		if eng, ok := ecs.Get(w, e, component.EngagementComponent.Kind()); ok {
			s, err := prefabs.DecodeComponentSpec[prefabs.EngagementComponentSpec](raw)
			if err != nil {
				return err
			}
			next := s.Component()
			next.Target = eng.Target
			next.Head = eng.Head
			next.FirePoint = eng.FirePoint
			next.Mode = eng.Mode
			next.FireTimer = math.Mod(eng.FireTimer, next.FireInterval)
			next.HeadYaw = eng.HeadYaw
			next.HeadYawVelocity = eng.HeadYawVelocity
			*eng = next
		}
	}
	return nil
}

// ReloadScript swaps the source of every autopilot running script. The
// AutopilotSystem recompiles on its next update.
func ReloadScript(w *ecs.World, script string) (int, error) {
	src, err := prefabs.LoadScript(script)
	if err != nil {
		return 0, fmt.Errorf("reload script %s: %w", script, err)
	}
	name := prefabs.ScriptName(script)
	n := 0
	ecs.ForEach(w, component.AutopilotComponent.Kind(), func(_ ecs.Entity, ap *component.Autopilot) {
		if ap.Name != name {
			return
		}
		ap.Source = src
		n++
	})
	return n, nil
}
