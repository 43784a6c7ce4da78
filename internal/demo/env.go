package demo

import (
	"embed"
	"fmt"
	"io/fs"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/learngl/internal/assets"
	"github.com/Faultbox/learngl/internal/config"
	"github.com/Faultbox/learngl/internal/engine/camera"
	"github.com/Faultbox/learngl/internal/engine/gpu"
	"github.com/Faultbox/learngl/internal/engine/importer"
	"github.com/Faultbox/learngl/internal/engine/model"
	"github.com/Faultbox/learngl/internal/engine/texture"
)

//go:embed shaders
var embedded embed.FS

// Env holds what scenes share: the GPU, the camera and the loaders.
type Env struct {
	Config *config.Config
	Log    *zap.Logger

	Device gpu.Device
	Ctx    *gpu.Context

	Camera *camera.Fly
	Assets *assets.Manager

	// Textures loads standalone images, flipped per assets.flip_textures.
	Textures *texture.Cache
	// Models loads glTF models with their own unflipped texture cache.
	Models   *model.Loader
	Programs *Programs
}

// NewEnv wires the loaders for cfg on top of ctx. Shader sources come from
// the embedded set, overridden by files in assets.shader_dir.
func NewEnv(cfg *config.Config, ctx *gpu.Context, log *zap.Logger) (*Env, error) {
	dev := ctx.Device()
	if log == nil {
		log = zap.NewNop()
	}
	policy, err := texture.ParseFailurePolicy(cfg.Assets.TextureFailure)
	if err != nil {
		return nil, err
	}

	mgr := assets.NewManager()
	mgr.AddFS(".", os.DirFS("."))
	sub, err := fs.Sub(embedded, "shaders")
	if err != nil {
		return nil, fmt.Errorf("embedded shaders: %w", err)
	}
	mgr.AddFS("embedded", sub)
	if cfg.Assets.ShaderDir != "" {
		if err := mgr.AddDir(cfg.Assets.ShaderDir); err != nil {
			return nil, err
		}
	}

	workers := cfg.Assets.ParallelDecode
	textureOpts := func(flip bool, name string) texture.Options {
		return texture.Options{
			Policy:   policy,
			FlipY:    flip,
			Workers:  workers,
			ReadFile: mgr.ReadFile,
			Log:      log.Named(name),
		}
	}

	env := &Env{
		Config:   cfg,
		Log:      log,
		Device:   dev,
		Ctx:      ctx,
		Camera:   newCamera(cfg.Camera),
		Assets:   mgr,
		Textures: texture.NewCache(dev, textureOpts(cfg.Assets.FlipTextures, "texture")),
		Programs: NewPrograms(mgr, log.Named("shader")),
	}
	env.Models = &model.Loader{
		Importer: importer.GLTF{},
		Textures: texture.NewCache(dev, textureOpts(false, "model.texture")),
		Device:   dev,
		Prefetch: workers > 0,
		Log:      log.Named("model"),
	}
	return env, nil
}

func newCamera(cfg config.CameraConfig) *camera.Fly {
	cam := camera.NewFly(mgl32.Vec3(cfg.Position))
	cam.SetOrientation(cfg.Yaw, cfg.Pitch)
	if cfg.Speed > 0 {
		cam.SetSpeed(cfg.Speed)
	}
	if cfg.Sensitivity > 0 {
		cam.SetSensitivity(cfg.Sensitivity)
	}
	if cfg.Zoom > 0 {
		cam.SetZoom(cfg.Zoom)
	}
	return cam
}

// Close releases the shared GPU resources.
func (e *Env) Close() {
	e.Programs.Close()
	e.Textures.Close()
	e.Models.Textures.Close()
	e.Assets.Close()
}
