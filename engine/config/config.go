package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pelletier/go-toml/v2"
	"github.com/spaghettifunk/shoreline/engine/renderer/metadata"
)

/**
 * @brief Everything the engine reads from the TOML configuration file.
 */
type Config struct {
	Application ApplicationConfig `toml:"application"`
	Renderer    RendererConfig    `toml:"renderer"`
	Scene       SceneConfig       `toml:"scene"`
}

type ApplicationConfig struct {
	Name string `toml:"name"`
	// Window starting position and size.
	PosX   uint32 `toml:"pos_x"`
	PosY   uint32 `toml:"pos_y"`
	Width  uint32 `toml:"width"`
	Height uint32 `toml:"height"`
	VSync  bool   `toml:"vsync"`
	/** @brief debug, info, warn, error or fatal. */
	LogLevel  string `toml:"log_level"`
	AssetsDir string `toml:"assets_dir"`
	/** @brief Texture decoding workers, 0 uses the CPU count. */
	Workers int `toml:"workers"`
}

type RendererConfig struct {
	/** @brief forward or deferred. */
	Mode string `toml:"mode"`
	/** @brief Attachment shown on screen: output, albedo, normal, position, specular, final, deferred, reflection or refraction. */
	Display      string     `toml:"display"`
	ShaderDir    string     `toml:"shader_dir"`
	ClearColor   [4]float32 `toml:"clear_color"`
	WaterEnabled bool       `toml:"water_enabled"`
	WaterHeight  float32    `toml:"water_height"`
	WaterSize    float32    `toml:"water_size"`
	WaveSpeed    float32    `toml:"wave_speed"`
	/** @brief Brightness threshold sizing the point light spheres. */
	PointLightCutoff float32 `toml:"point_light_cutoff"`
	MaxModels        uint64  `toml:"max_models"`
}

type SceneConfig struct {
	Camera CameraConfig  `toml:"camera"`
	Water  WaterConfig   `toml:"water"`
	Models []ModelConfig `toml:"models"`
	Lights []LightConfig `toml:"lights"`
}

type CameraConfig struct {
	Position [3]float32 `toml:"position"`
	Target   [3]float32 `toml:"target"`
	Orbital  bool       `toml:"orbital"`
	Distance float32    `toml:"distance"`
	FOV      float32    `toml:"fov"`
	Near     float32    `toml:"near"`
	Far      float32    `toml:"far"`
}

type WaterConfig struct {
	NormalMap string `toml:"normal_map"`
	DudvMap   string `toml:"dudv_map"`
}

type ModelConfig struct {
	Name string `toml:"name"`
	Path string `toml:"path"`
	// Built-in mesh instead of a file: plane or sphere.
	Primitive string     `toml:"primitive"`
	Position  [3]float32 `toml:"position"`
	/** @brief Euler angles in degrees. */
	Rotation [3]float32 `toml:"rotation"`
	Scale    [3]float32 `toml:"scale"`
}

type LightConfig struct {
	/** @brief ambient, directional or point. */
	Type      string     `toml:"type"`
	Color     [3]float32 `toml:"color"`
	Direction [3]float32 `toml:"direction"`
	Position  [3]float32 `toml:"position"`
	Constant  float32    `toml:"constant"`
	Linear    float32    `toml:"linear"`
	Quadratic float32    `toml:"quadratic"`
}

var ErrInvalidConfig = errors.New("invalid configuration")

func Default() *Config {
	return &Config{
		Application: ApplicationConfig{
			Name:      "Shoreline",
			PosX:      100,
			PosY:      100,
			Width:     1280,
			Height:    720,
			VSync:     true,
			LogLevel:  "info",
			AssetsDir: "assets",
		},
		Renderer: RendererConfig{
			Mode:             "forward",
			ShaderDir:        "shaders",
			ClearColor:       [4]float32{0.1, 0.1, 0.12, 1},
			WaterHeight:      0,
			WaterSize:        100,
			WaveSpeed:        0.03,
			PointLightCutoff: metadata.DefaultPointLightCutoff,
			MaxModels:        1024,
		},
		Scene: SceneConfig{
			Camera: CameraConfig{
				Position: [3]float32{0, 2, 10},
				Distance: 10,
				FOV:      45,
				Near:     0.1,
				Far:      500,
			},
		},
	}
}

// Load reads the file at path on top of the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse decodes TOML on top of the defaults. Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	c := Default()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(c); err != nil {
		var decodeErr *toml.DecodeError
		if errors.As(err, &decodeErr) {
			row, col := decodeErr.Position()
			return nil, fmt.Errorf("%w: line %d column %d: %s", ErrInvalidConfig, row, col, decodeErr.Error())
		}
		var strictErr *toml.StrictMissingError
		if errors.As(err, &strictErr) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidConfig, strictErr.String())
		}
		return nil, err
	}
	for i := range c.Scene.Models {
		// a zero scale is never meant, it is a missing key
		if c.Scene.Models[i].Scale == ([3]float32{}) {
			c.Scene.Models[i].Scale = [3]float32{1, 1, 1}
		}
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) Validate() error {
	if c.Application.Width == 0 || c.Application.Height == 0 {
		return fmt.Errorf("%w: window size %dx%d", ErrInvalidConfig, c.Application.Width, c.Application.Height)
	}
	if _, err := c.Renderer.RenderMode(); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, err)
	}
	if _, err := c.Renderer.DisplayMode(); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, err)
	}
	if c.Renderer.PointLightCutoff <= 0 {
		return fmt.Errorf("%w: point_light_cutoff must be positive", ErrInvalidConfig)
	}
	for i, m := range c.Scene.Models {
		if (m.Path == "") == (m.Primitive == "") {
			return fmt.Errorf("%w: model %d needs exactly one of path or primitive", ErrInvalidConfig, i)
		}
	}
	for i, l := range c.Scene.Lights {
		if _, err := metadata.ParseLightType(l.Type); err != nil {
			return fmt.Errorf("%w: light %d: %s", ErrInvalidConfig, i, err)
		}
	}
	return nil
}

func (r RendererConfig) RenderMode() (metadata.RenderMode, error) {
	return metadata.ParseRenderMode(r.Mode)
}

func (r RendererConfig) DisplayMode() (metadata.DisplayMode, error) {
	return metadata.ParseDisplayMode(r.Display)
}

// Light builds the light described by the entry, using the given cutoff for point lights.
func (l LightConfig) Light(cutoff float32) (*metadata.Light, error) {
	t, err := metadata.ParseLightType(l.Type)
	if err != nil {
		return nil, err
	}
	light := metadata.NewLight(t, Vec3(l.Color), metadata.Attenuation{
		Constant:  l.Constant,
		Linear:    l.Linear,
		Quadratic: l.Quadratic,
	})
	light.Position = Vec3(l.Position)
	if l.Direction != ([3]float32{}) {
		light.Direction = Vec3(l.Direction).Normalize()
	}
	light.SetCutoff(cutoff)
	return light, nil
}

func Vec3(v [3]float32) mgl32.Vec3 {
	return mgl32.Vec3{v[0], v[1], v[2]}
}

func Vec4(v [4]float32) mgl32.Vec4 {
	return mgl32.Vec4{v[0], v[1], v[2], v[3]}
}
