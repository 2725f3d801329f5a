package entity

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/rover/ecs"
	"github.com/milk9111/rover/ecs/component"
)

// NewCamera creates a camera entity with an identity pose. A CameraRig or
// MenuOrbit moves it.
func NewCamera(w *ecs.World) (ecs.Entity, error) {
	camera := ecs.CreateEntity(w)
	if err := ecs.Add(w, camera, component.CameraTagComponent.Kind(), &component.CameraTag{}); err != nil {
		return 0, fmt.Errorf("camera: add camera tag: %w", err)
	}
	if err := ecs.Add(w, camera, component.CameraPoseComponent.Kind(), &component.CameraPose{
		Rotation: mgl64.QuatIdent(),
	}); err != nil {
		return 0, fmt.Errorf("camera: add pose: %w", err)
	}
	return camera, nil
}
