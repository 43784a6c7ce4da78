// Package config handles demo configuration loading and management.
package config

import (
	"fmt"
	"path/filepath"
	"slices"

	"go.uber.org/multierr"

	"github.com/Faultbox/learngl/internal/engine/texture"
)

// Scenes lists the demo scene names.
var Scenes = []string{"cubes", "model", "asteroids", "skybox", "postfx"}

// Config holds all settings.
type Config struct {
	Window  WindowConfig  `yaml:"window"`
	Camera  CameraConfig  `yaml:"camera"`
	Assets  AssetsConfig  `yaml:"assets"`
	Demo    DemoConfig    `yaml:"demo"`
	Logging LoggingConfig `yaml:"logging"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Fullscreen bool   `yaml:"fullscreen"`
	VSync      bool   `yaml:"vsync"`
	Backend    string `yaml:"backend"` // sdl or glfw
}

// CameraConfig holds the free-look camera start state and tuning.
type CameraConfig struct {
	Position    [3]float32 `yaml:"position"`
	Yaw         float32    `yaml:"yaw"`
	Pitch       float32    `yaml:"pitch"`
	Speed       float32    `yaml:"speed"`
	SprintSpeed float32    `yaml:"sprint_speed"`
	Sensitivity float32    `yaml:"sensitivity"`
	Zoom        float32    `yaml:"zoom"`
	Mode        string     `yaml:"mode"` // fly or orbit, model scene only
}

// AssetsConfig holds asset lookup and texture loading settings.
type AssetsConfig struct {
	Root           string `yaml:"root"`
	ShaderDir      string `yaml:"shader_dir"` // empty uses the embedded shaders
	TextureFailure string `yaml:"texture_failure"`
	FlipTextures   bool   `yaml:"flip_textures"`
	ParallelDecode int    `yaml:"parallel_decode"` // 0 disables prefetch
	HotReload      bool   `yaml:"hot_reload"`
}

// DemoConfig selects and parameterizes the scene.
type DemoConfig struct {
	Scene          string  `yaml:"scene"`
	ModelPath      string  `yaml:"model_path"`
	PlanetPath     string  `yaml:"planet_path"`
	RockPath       string  `yaml:"rock_path"`
	AsteroidCount  int     `yaml:"asteroid_count"`
	AsteroidRadius float32 `yaml:"asteroid_radius"`
	AsteroidOffset float32 `yaml:"asteroid_offset"`
	AsteroidSeed   int64   `yaml:"asteroid_seed"`
	SkyboxDir      string  `yaml:"skybox_dir"`
	DiffuseMap     string  `yaml:"diffuse_map"`
	SpecularMap    string  `yaml:"specular_map"`
	Effect         string  `yaml:"effect"`
	ScreenshotDir  string  `yaml:"screenshot_dir"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	LogFile    string `yaml:"log_file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:   "LearnGL",
			Width:   1280,
			Height:  720,
			VSync:   true,
			Backend: "sdl",
		},
		Camera: CameraConfig{
			Position:    [3]float32{0, 0, 3},
			Yaw:         -90,
			Pitch:       0,
			Speed:       2.5,
			SprintSpeed: 10,
			Sensitivity: 0.1,
			Zoom:        45,
			Mode:        "fly",
		},
		Assets: AssetsConfig{
			Root:           "resources",
			TextureFailure: texture.Placeholder.String(),
			FlipTextures:   true,
			ParallelDecode: 4,
		},
		Demo: DemoConfig{
			Scene:          "cubes",
			ModelPath:      "objects/backpack/backpack.gltf",
			PlanetPath:     "objects/planet/planet.gltf",
			RockPath:       "objects/rock/rock.gltf",
			AsteroidCount:  1000,
			AsteroidRadius: 50,
			AsteroidOffset: 2.5,
			AsteroidSeed:   1,
			SkyboxDir:      "textures/skybox",
			DiffuseMap:     "textures/container2.png",
			SpecularMap:    "textures/container2_specular.png",
			Effect:         "none",
			ScreenshotDir:  "screenshots",
		},
		Logging: LoggingConfig{
			Level:      "info",
			MaxSizeMB:  50,
			MaxBackups: 3,
			MaxAgeDays: 7,
			Compress:   true,
		},
	}
}

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	var err error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		err = multierr.Append(err, fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	if c.Window.Backend != "sdl" && c.Window.Backend != "glfw" {
		err = multierr.Append(err, fmt.Errorf("unknown window backend %q", c.Window.Backend))
	}
	if c.Camera.Mode != "fly" && c.Camera.Mode != "orbit" {
		err = multierr.Append(err, fmt.Errorf("unknown camera mode %q", c.Camera.Mode))
	}
	if _, perr := texture.ParseFailurePolicy(c.Assets.TextureFailure); perr != nil {
		err = multierr.Append(err, perr)
	}
	if c.Assets.ParallelDecode < 0 {
		err = multierr.Append(err, fmt.Errorf("parallel_decode %d must not be negative", c.Assets.ParallelDecode))
	}
	if !slices.Contains(Scenes, c.Demo.Scene) {
		err = multierr.Append(err, fmt.Errorf("unknown scene %q", c.Demo.Scene))
	}
	if c.Demo.AsteroidCount < 0 {
		err = multierr.Append(err, fmt.Errorf("asteroid_count %d must not be negative", c.Demo.AsteroidCount))
	}
	return err
}

// AssetPath resolves p against the asset root unless it is absolute.
func (c *Config) AssetPath(p string) string {
	if p == "" || filepath.IsAbs(p) || c.Assets.Root == "" {
		return p
	}
	return filepath.Join(c.Assets.Root, p)
}
