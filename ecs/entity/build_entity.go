package entity

import (
	"errors"
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/rover/common"
	"github.com/milk9111/rover/ecs"
	"github.com/milk9111/rover/ecs/component"
	"github.com/milk9111/rover/prefabs"
)

var (
	ErrNoPhysicsWorld = errors.New("entity: world has no physics world")
	ErrNoHead         = errors.New("entity: component needs a head")
	ErrNoTransform    = errors.New("entity: component needs a transform")
)

type buildContext struct {
	PrefabPath string
	Spawn      *component.Transform

	head     ecs.Entity
	children []ecs.Entity
	body     *ecs.PhysicsBody
}

type componentBuildFn func(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error

var componentRegistry = map[string]componentBuildFn{
	"player_tag":      addPlayerTag,
	"sentry_tag":      addSentryTag,
	"transform":       addTransform,
	"input":           addInput,
	"physics_body":    addPhysicsBody,
	"ground_check":    addGroundCheck,
	"locomotion":      addLocomotion,
	"drivetrain":      addDrivetrain,
	"safe_respawn":    addSafeRespawn,
	"head":            addHead,
	"camera_rig":      addCameraRig,
	"head_constraint": addHeadConstraint,
	"weapon":          addWeapon,
	"engagement":      addEngagement,
	"autopilot":       addAutopilot,
}

var componentBuildOrder = []string{
	"player_tag",
	"sentry_tag",
	"transform",
	"input",
	"physics_body",
	"ground_check",
	"locomotion",
	"drivetrain",
	"safe_respawn",
	"head",
	"camera_rig",
	"head_constraint",
	"weapon",
	"engagement",
	"autopilot",
}

func BuildEntity(w *ecs.World, prefabPath string) (ecs.Entity, error) {
	return build(w, prefabPath, &buildContext{PrefabPath: prefabPath})
}

// BuildEntityAt builds a prefab with its transform replaced by the given
// spawn pose.
func BuildEntityAt(w *ecs.World, prefabPath string, position mgl64.Vec3, yaw float64) (ecs.Entity, error) {
	return build(w, prefabPath, &buildContext{
		PrefabPath: prefabPath,
		Spawn:      &component.Transform{Position: position, Yaw: yaw},
	})
}

func build(w *ecs.World, prefabPath string, ctx *buildContext) (ecs.Entity, error) {
	if w == nil {
		return 0, fmt.Errorf("build entity: world is nil")
	}

	spec, err := prefabs.LoadEntityBuildSpec(prefabPath)
	if err != nil {
		return 0, fmt.Errorf("build entity: load %q: %w", prefabPath, err)
	}
	if len(spec.Components) == 0 {
		return 0, fmt.Errorf("build entity: prefab %q does not define components", prefabPath)
	}
	if err := spec.Validate(); err != nil {
		return 0, fmt.Errorf("build entity: %w", err)
	}

	e := ecs.CreateEntity(w)

	names := make([]string, 0, len(spec.Components))
	seen := make(map[string]bool, len(spec.Components))
	for _, name := range componentBuildOrder {
		if _, ok := spec.Components[name]; ok {
			names = append(names, name)
			seen[name] = true
		}
	}
	var rest []string
	for name := range spec.Components {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	names = append(names, rest...)

	for _, name := range names {
		builder, ok := componentRegistry[name]
		if !ok {
			ctx.discard(w, e)
			return 0, fmt.Errorf("build entity: %q: no builder for component %q", prefabPath, name)
		}
		if err := builder(w, e, spec.Components[name], ctx); err != nil {
			ctx.discard(w, e)
			return 0, fmt.Errorf("build entity: %q: add %q: %w", prefabPath, name, err)
		}
	}

	logger := w.Logger()
	logger.Debug().Str("prefab", prefabPath).Stringer("entity", e).Msg("built entity")
	return e, nil
}

func (ctx *buildContext) discard(w *ecs.World, e ecs.Entity) {
	for _, child := range ctx.children {
		ecs.DestroyEntity(w, child)
	}
	if ctx.body != nil {
		w.PhysicsWorld().RemoveBody(ctx.body)
	}
	ecs.DestroyEntity(w, e)
}

func (ctx *buildContext) child(w *ecs.World, name string) ecs.Entity {
	c := ecs.CreateEntity(w)
	ctx.children = append(ctx.children, c)
	_ = ecs.Add(w, c, component.AnchorTagComponent.Kind(), &component.AnchorTag{Name: name})
	return c
}

func transformOf(w *ecs.World, e ecs.Entity) (*component.Transform, error) {
	tr, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok {
		return nil, ErrNoTransform
	}
	return tr, nil
}

func addPlayerTag(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.PlayerTagComponent.Kind(), &component.PlayerTag{})
}

func addSentryTag(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.SentryTagComponent.Kind(), &component.SentryTag{})
}

func addTransform(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.TransformComponentSpec](raw)
	if err != nil {
		return err
	}
	tr := spec.Component()
	if ctx.Spawn != nil {
		tr = *ctx.Spawn
	}
	return ecs.Add(w, e, component.TransformComponent.Kind(), &tr)
}

func addInput(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.InputComponent.Kind(), &component.Input{})
}

func addPhysicsBody(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.PhysicsBodyComponentSpec](raw)
	if err != nil {
		return err
	}
	pw := w.PhysicsWorld()
	if pw == nil {
		return ErrNoPhysicsWorld
	}
	tr, err := transformOf(w, e)
	if err != nil {
		return err
	}

	body := pw.NewBody(tr.Position, spec.Radius, spec.Mass)
	body.SetYaw(tr.Yaw)
	ctx.body = body
	return ecs.Add(w, e, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{
		Body:   body,
		Sensor: pw,
		Radius: body.Radius(),
		Mass:   spec.Mass,
	})
}

func addGroundCheck(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.GroundCheckComponentSpec](raw)
	if err != nil {
		return err
	}
	gc := spec.Component()
	return ecs.Add(w, e, component.GroundCheckComponent.Kind(), &gc)
}

func addLocomotion(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.LocomotionComponentSpec](raw)
	if err != nil {
		return err
	}
	loco := spec.Component()
	return ecs.Add(w, e, component.LocomotionComponent.Kind(), &loco)
}

func addDrivetrain(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.DrivetrainComponentSpec](raw)
	if err != nil {
		return err
	}
	drive := spec.Component()
	return ecs.Add(w, e, component.DrivetrainComponent.Kind(), &drive)
}

func addSafeRespawn(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.SafeRespawnComponentSpec](raw)
	if err != nil {
		return err
	}
	tr, err := transformOf(w, e)
	if err != nil {
		return err
	}
	return ecs.Add(w, e, component.SafeRespawnComponent.Kind(), &component.SafeRespawn{
		Position:   tr.Position,
		Yaw:        tr.Yaw,
		KillHeight: spec.KillHeight,
	})
}

func addHead(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.HeadComponentSpec](raw)
	if err != nil {
		return err
	}
	tr, err := transformOf(w, e)
	if err != nil {
		return err
	}

	head := ctx.child(w, "head")
	if err := ecs.Add(w, head, component.TransformComponent.Kind(), &component.Transform{Yaw: tr.Yaw}); err != nil {
		return err
	}
	if err := ecs.Add(w, head, component.AttachmentComponent.Kind(), &component.Attachment{
		Parent:     component.Ref(e),
		Offset:     spec.Offset.Vec3(),
		InheritYaw: spec.InheritYaw,
	}); err != nil {
		return err
	}
	if err := ecs.Add(w, head, component.HeadBoneComponent.Kind(), &component.HeadBone{
		Rest:  mgl64.QuatIdent(),
		Local: mgl64.QuatIdent(),
	}); err != nil {
		return err
	}
	ctx.head = head
	return nil
}

func addCameraRig(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.CameraRigComponentSpec](raw)
	if err != nil {
		return err
	}
	if !ctx.head.Valid() {
		return ErrNoHead
	}
	tr, err := transformOf(w, e)
	if err != nil {
		return err
	}

	camera, err := NewCamera(w)
	if err != nil {
		return err
	}
	ctx.children = append(ctx.children, camera)

	rig := spec.Component()
	rig.Head = component.Ref(ctx.head)
	rig.Camera = component.Ref(camera)
	rig.Yaw = tr.Yaw
	rig.Pitch = common.Clamp(0, rig.MinPitch, rig.MaxPitch)
	return ecs.Add(w, e, component.CameraRigComponent.Kind(), &rig)
}

func addHeadConstraint(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.HeadConstraintComponentSpec](raw)
	if err != nil {
		return err
	}
	if !ctx.head.Valid() {
		return ErrNoHead
	}
	hc := spec.Component()
	hc.Head = component.Ref(ctx.head)
	return ecs.Add(w, e, component.HeadConstraintComponent.Kind(), &hc)
}

func addWeapon(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.WeaponComponentSpec](raw)
	if err != nil {
		return err
	}
	firePoint, err := newFirePoint(w, e, spec.FirePoint.Vec3(), ctx)
	if err != nil {
		return err
	}
	return ecs.Add(w, e, component.WeaponComponent.Kind(), &component.Weapon{
		FirePoint:   component.Ref(firePoint),
		Speed:       spec.Speed,
		AimWithHead: spec.AimWithHead,
	})
}

func addEngagement(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.EngagementComponentSpec](raw)
	if err != nil {
		return err
	}
	if !ctx.head.Valid() {
		return ErrNoHead
	}
	tr, err := transformOf(w, e)
	if err != nil {
		return err
	}
	firePoint, err := newFirePoint(w, e, spec.FirePoint.Vec3(), ctx)
	if err != nil {
		return err
	}

	eng := spec.Component()
	eng.Head = component.Ref(ctx.head)
	eng.FirePoint = component.Ref(firePoint)
	eng.HeadYaw = common.WrapAngle(tr.Yaw)
	if err := ecs.Add(w, e, component.EngagementComponent.Kind(), &eng); err != nil {
		return err
	}
	return ecs.Add(w, e, component.AttackAnimationComponent.Kind(), &component.AttackAnimation{})
}

func addAutopilot(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.AutopilotComponentSpec](raw)
	if err != nil {
		return err
	}
	return AddAutopilot(w, e, spec.Script)
}

// newFirePoint attaches a fire point to the head when there is one, else to
// the body.
func newFirePoint(w *ecs.World, e ecs.Entity, offset mgl64.Vec3, ctx *buildContext) (ecs.Entity, error) {
	parent := e
	if ctx.head.Valid() {
		parent = ctx.head
	}
	fp := ctx.child(w, "fire_point")
	if err := ecs.Add(w, fp, component.AttachmentComponent.Kind(), &component.Attachment{
		Parent:     component.Ref(parent),
		Offset:     offset,
		InheritYaw: true,
	}); err != nil {
		return 0, err
	}
	return fp, nil
}

// AddAutopilot attaches a scripted driver to e. The entity needs an Input.
func AddAutopilot(w *ecs.World, e ecs.Entity, script string) error {
	src, err := prefabs.LoadScript(script)
	if err != nil {
		return fmt.Errorf("autopilot: load %s: %w", script, err)
	}
	if !ecs.Has(w, e, component.InputComponent.Kind()) {
		if err := ecs.Add(w, e, component.InputComponent.Kind(), &component.Input{}); err != nil {
			return err
		}
	}
	return ecs.Add(w, e, component.AutopilotComponent.Kind(), &component.Autopilot{
		Name:   prefabs.ScriptName(script),
		Source: src,
	})
}
