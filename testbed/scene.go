package testbed

import (
	"fmt"

	"github.com/spaghettifunk/shoreline/engine"
	"github.com/spaghettifunk/shoreline/engine/config"
	"github.com/spaghettifunk/shoreline/engine/core"
	"github.com/spaghettifunk/shoreline/engine/renderer/metadata"
	"github.com/spaghettifunk/shoreline/engine/systems"
)

// loadScene registers the models and lights of the scene section.
func loadScene(sm *systems.SystemManager, app *engine.ApplicationConfig, c *config.Config) ([]metadata.ModelID, error) {
	reg := sm.Registry
	models := make([]metadata.ModelID, 0, len(c.Scene.Models))
	for i, mc := range c.Scene.Models {
		var id metadata.ModelID
		var err error
		if mc.Path != "" {
			id, err = reg.LoadModel(app.AssetPath(mc.Path))
		} else {
			id, err = addPrimitive(sm, mc)
		}
		if err != nil {
			return nil, fmt.Errorf("scene model %d: %w", i, err)
		}

		model, err := reg.Model(id)
		if err != nil {
			return nil, err
		}
		if mc.Name != "" {
			model.Name = mc.Name
		}
		model.Transform.Position = config.Vec3(mc.Position)
		model.Transform.Rotation = config.Vec3(mc.Rotation)
		model.Transform.Scale = config.Vec3(mc.Scale)
		models = append(models, id)
	}

	for i, lc := range c.Scene.Lights {
		light, err := lc.Light(c.Renderer.PointLightCutoff)
		if err != nil {
			return nil, fmt.Errorf("scene light %d: %w", i, err)
		}
		if _, err := reg.AddLight(light); err != nil {
			return nil, err
		}
		if light.Type == metadata.LightTypePoint {
			core.LogDebug("point light %d radius %.2f", i, light.Radius())
		}
	}
	return models, nil
}

func addPrimitive(sm *systems.SystemManager, mc config.ModelConfig) (metadata.ModelID, error) {
	var mesh metadata.MeshID
	switch mc.Primitive {
	case "plane":
		mesh = sm.Primitives.WaterPlane
	case "sphere":
		mesh = sm.Primitives.Sphere
	default:
		return -1, fmt.Errorf("unknown primitive %q", mc.Primitive)
	}
	// 0 is the default material
	return sm.Registry.AddModel(mc.Primitive, mesh, []metadata.MaterialID{0})
}

func loadWaterMap(sm *systems.SystemManager, app *engine.ApplicationConfig, path string) metadata.OptionalTexture {
	if path == "" {
		return metadata.NoTexture()
	}
	id := sm.Registry.LoadTexture2D(app.AssetPath(path))
	if id == metadata.InvalidTextureID {
		core.LogWarn("water map %s is unavailable", path)
	}
	return metadata.SomeTexture(id)
}
