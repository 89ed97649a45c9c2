package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spaghettifunk/shoreline/engine/renderer/metadata"
)

const sceneTOML = `
[application]
name = "Harbour"
width = 1024
height = 768
log_level = "debug"

[renderer]
mode = "deferred"
display = "Refraction"
water_enabled = true
water_height = 1.5
point_light_cutoff = 100.0

[scene.camera]
position = [0.0, 4.0, 12.0]
target = [0.0, 0.0, 0.0]

[scene.water]
normal_map = "textures/water_normal.png"

[[scene.models]]
name = "boat"
path = "models/boat.obj"
position = [1.0, 0.0, -2.0]
rotation = [0.0, 90.0, 0.0]

[[scene.models]]
name = "buoy"
primitive = "sphere"
scale = [0.5, 0.5, 0.5]

[[scene.lights]]
type = "point"
color = [1.0, 0.8, 0.6]
position = [0.0, 3.0, 0.0]
constant = 1.0
linear = 0.09
quadratic = 0.032
`

func TestParse(t *testing.T) {
	c, err := Parse([]byte(sceneTOML))
	if err != nil {
		t.Fatal(err)
	}
	if c.Application.Name != "Harbour" || c.Application.Width != 1024 || c.Application.Height != 768 {
		t.Errorf("application = %+v", c.Application)
	}
	// keys absent from the file keep their defaults
	if c.Application.AssetsDir != "assets" || c.Renderer.WaterSize != 100 {
		t.Errorf("defaults lost: assets %q, water size %f", c.Application.AssetsDir, c.Renderer.WaterSize)
	}
	mode, err := c.Renderer.RenderMode()
	if err != nil || mode != metadata.RenderModeDeferred {
		t.Errorf("mode = %v, %v", mode, err)
	}
	display, err := c.Renderer.DisplayMode()
	if err != nil || display != metadata.DisplayRefraction {
		t.Errorf("display = %v, %v", display, err)
	}
	if len(c.Scene.Models) != 2 {
		t.Fatalf("models = %d, want 2", len(c.Scene.Models))
	}
	if c.Scene.Models[0].Scale != [3]float32{1, 1, 1} {
		t.Errorf("missing scale = %v, want ones", c.Scene.Models[0].Scale)
	}
	if c.Scene.Models[1].Scale != [3]float32{0.5, 0.5, 0.5} {
		t.Errorf("scale = %v", c.Scene.Models[1].Scale)
	}
	if c.Scene.Water.NormalMap != "textures/water_normal.png" || c.Scene.Water.DudvMap != "" {
		t.Errorf("water = %+v", c.Scene.Water)
	}
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"unknown key", "[renderer]\nshadows = true\n"},
		{"bad mode", "[renderer]\nmode = \"raytraced\"\n"},
		{"bad display", "[renderer]\ndisplay = \"wireframe\"\n"},
		{"bad light", "[[scene.lights]]\ntype = \"spot\"\n"},
		{"zero width", "[application]\nwidth = 0\n"},
		{"negative cutoff", "[renderer]\npoint_light_cutoff = -1.0\n"},
		{"model without source", "[[scene.models]]\nname = \"x\"\n"},
		{"model with two sources", "[[scene.models]]\npath = \"a.obj\"\nprimitive = \"quad\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.data)); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("err = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.toml")
	if err := os.WriteFile(path, []byte(sceneTOML), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if c.Renderer.WaterHeight != 1.5 || !c.Renderer.WaterEnabled {
		t.Errorf("renderer = %+v", c.Renderer)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file err = %v", err)
	}
}

func TestLightCutoff(t *testing.T) {
	c, err := Parse([]byte(sceneTOML))
	if err != nil {
		t.Fatal(err)
	}
	light, err := c.Scene.Lights[0].Light(c.Renderer.PointLightCutoff)
	if err != nil {
		t.Fatal(err)
	}
	if light.Type != metadata.LightTypePoint || light.Cutoff() != 100 {
		t.Errorf("light type %v cutoff %f", light.Type, light.Cutoff())
	}
	// a dimmer threshold shrinks the sphere
	dim, _ := c.Scene.Lights[0].Light(metadata.DefaultPointLightCutoff)
	if !(dim.Radius() < light.Radius()) {
		t.Errorf("radius %f with default cutoff, %f with 100", dim.Radius(), light.Radius())
	}
	if light.Direction != (metadata.NewLight(metadata.LightTypePoint, light.Color(), light.Attenuation()).Direction) {
		t.Errorf("unset direction = %v, want the default", light.Direction)
	}
}
