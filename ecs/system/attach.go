package system

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/rover/common"
	"github.com/milk9111/rover/ecs"
	"github.com/milk9111/rover/ecs/component"
)

const maxAttachmentDepth = 8

// Pose is a resolved world pose.
type Pose struct {
	Position mgl64.Vec3
	Yaw      float64
	Pitch    float64
}

func (p Pose) Rotation() mgl64.Quat {
	return common.Euler(p.Pitch, p.Yaw, 0)
}

// WorldPose resolves e through its attachment chain. Chains deeper than
// maxAttachmentDepth stop at the entity's own Transform.
func WorldPose(w *ecs.World, e ecs.Entity) (Pose, bool) {
	return worldPose(w, e, 0)
}

func worldPose(w *ecs.World, e ecs.Entity, depth int) (Pose, bool) {
	if !ecs.IsAlive(w, e) {
		return Pose{}, false
	}

	var own Pose
	tr, hasTransform := ecs.Get(w, e, component.TransformComponent.Kind())
	if hasTransform {
		own = Pose{Position: tr.Position, Yaw: tr.Yaw, Pitch: tr.Pitch}
	}

	att, attached := ecs.Get(w, e, component.AttachmentComponent.Kind())
	if !attached || depth >= maxAttachmentDepth {
		return own, hasTransform
	}

	parent, ok := worldPose(w, ecs.Entity(att.Parent), depth+1)
	if !ok {
		return own, hasTransform
	}

	pose := own
	pose.Position = parent.Position.Add(common.YawRotation(parent.Yaw).Rotate(att.Offset))
	if att.InheritYaw {
		pose.Yaw = parent.Yaw + att.YawOffset
	}
	return pose, true
}

// AttachmentSystem writes resolved world poses back into the Transform of
// every attached entity so readers that do not walk the chain see them.
type AttachmentSystem struct{}

func NewAttachmentSystem() *AttachmentSystem {
	return &AttachmentSystem{}
}

func (s *AttachmentSystem) Update(w *ecs.World, _ float64) {
	if w == nil {
		return
	}
	for _, e := range ecs.Query(w, component.AttachmentComponent.Kind()) {
		pose, ok := WorldPose(w, e)
		if !ok {
			continue
		}
		tr, ok := ecs.Get(w, e, component.TransformComponent.Kind())
		if !ok {
			tr = &component.Transform{}
			if err := ecs.Add(w, e, component.TransformComponent.Kind(), tr); err != nil {
				continue
			}
		}
		tr.Position = pose.Position
		tr.Yaw = pose.Yaw
		tr.Pitch = pose.Pitch
	}
}
