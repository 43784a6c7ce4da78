package demo

import (
	"fmt"
	"slices"
	"time"

	"github.com/loov/hrtime"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/learngl/internal/config"
	"github.com/Faultbox/learngl/internal/engine/input"
	"github.com/Faultbox/learngl/internal/engine/renderer"
	"github.com/Faultbox/learngl/internal/engine/shader"
	"github.com/Faultbox/learngl/internal/engine/window"
)

// NewScene creates the scene with the given name.
func NewScene(name string) (Scene, error) {
	switch name {
	case "cubes":
		return NewCubes(), nil
	case "model":
		return NewModelScene(), nil
	case "asteroids":
		return NewAsteroids(), nil
	case "skybox":
		return NewSkybox(), nil
	case "postfx":
		return NewPostFX(NewCubes()), nil
	default:
		return nil, fmt.Errorf("unknown scene %q", name)
	}
}

// nextSceneName returns the scene after name in config.Scenes, wrapping.
func nextSceneName(name string) string {
	i := slices.Index(config.Scenes, name)
	return config.Scenes[(i+1)%len(config.Scenes)]
}

// Runner owns the window and drives the active scene. Esc quits, Tab
// switches to the next scene.
type Runner struct {
	cfg     *config.Config
	log     *zap.Logger
	running bool

	window   window.Window
	renderer *renderer.Renderer
	input    *input.Input
	env      *Env
	scenes   *Manager
	watcher  *shader.Watcher

	scene string
	// failed is a scene whose Enter failed, retried after a shader reload.
	failed string
}

// New creates the window, GL state and the configured scene.
func New(cfg *config.Config, log *zap.Logger) (*Runner, error) {
	log.Info("initializing demo",
		zap.String("scene", cfg.Demo.Scene),
		zap.Int("width", cfg.Window.Width),
		zap.Int("height", cfg.Window.Height),
	)

	r := &Runner{cfg: cfg, log: log, input: input.New()}

	var err error
	r.window, err = window.New(window.Config{
		Title:      cfg.Window.Title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
		Backend:    cfg.Window.Backend,
	}, log.Named("window"))
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// The renderer needs the GL context the window just created
	width, height := r.window.GetSize()
	r.renderer, err = renderer.New(renderer.Config{
		Width:      width,
		Height:     height,
		ClearColor: ClearColor,
		Blend:      true,
	}, log.Named("renderer"))
	if err != nil {
		r.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	r.env, err = NewEnv(cfg, r.renderer.Context(), log.Named("demo"))
	if err != nil {
		r.renderer.Close()
		r.window.Close()
		return nil, err
	}
	r.scenes = NewManager(r.env)

	if cfg.Assets.HotReload && cfg.Assets.ShaderDir != "" {
		r.watcher, err = shader.NewWatcher(cfg.Assets.ShaderDir, log.Named("shader"))
		if err != nil {
			log.Warn("shader hot reload disabled", zap.Error(err))
		}
	}

	if err := r.switchScene(cfg.Demo.Scene); err != nil {
		r.Close()
		return nil, err
	}

	log.Info("demo initialized")
	return r, nil
}

func (r *Runner) switchScene(name string) error {
	s, err := NewScene(name)
	if err != nil {
		return err
	}
	r.scene = name
	r.scenes.Change(s)
	return nil
}

// Run runs the frame loop until the window closes or Esc is pressed.
func (r *Runner) Run() error {
	r.running = true

	start := hrtime.Now()
	last := start
	frames := 0
	fpsTimer := start

	r.log.Info("starting frame loop")

	for r.running {
		now := hrtime.Now()
		dt := float32((now - last).Seconds())
		last = now

		if r.input.Update(r.window) {
			break
		}
		if w, h, ok := r.input.Resized(); ok {
			r.renderer.Resize(w, h)
		}
		if r.input.IsKeyPressed(input.KeyEscape) {
			r.running = false
			break
		}
		if r.input.IsKeyPressed(input.KeyTab) {
			if err := r.switchScene(nextSceneName(r.scene)); err != nil {
				return err
			}
		}
		r.reloadShaders()

		width, height := r.renderer.Size()
		frame := Frame{
			DT:     dt,
			Time:   float32((now - start).Seconds()),
			Input:  r.input,
			Width:  width,
			Height: height,
		}

		if h, ok := r.scenes.Current().(InputHandler); !ok || !h.HandleInput(frame) {
			applyFreeLook(r.env.Camera, r.input, dt, r.cfg.Camera)
		}

		if err := r.scenes.Update(frame); err != nil {
			r.log.Error("scene update failed", zap.String("scene", r.scene), zap.Error(err))
			if r.scenes.Current() == nil {
				r.failed = r.scene
			}
		}

		r.renderer.Begin()
		if err := r.scenes.Render(frame); err != nil {
			r.log.Error("scene render failed", zap.String("scene", r.scene), zap.Error(err))
		}
		draws := r.renderer.End()

		r.window.SwapBuffers()

		frames++
		if elapsed := now - fpsTimer; elapsed >= time.Second {
			r.window.SetTitle(fmt.Sprintf("%s - %s - %d fps - %d draws", r.cfg.Window.Title, r.scene, frames, draws))
			r.log.Debug("fps", zap.Int("count", frames), zap.String("dt", fmt.Sprintf("%.2fms", dt*1000)))
			frames = 0
			fpsTimer = now
		}
	}

	return nil
}

// reloadShaders recompiles programs whose files changed and re-enters a
// scene that failed to start.
func (r *Runner) reloadShaders() {
	if r.watcher == nil {
		return
	}
	changed := r.watcher.Pending()
	if len(changed) == 0 {
		return
	}
	if err := r.env.Programs.Reload(changed); err != nil {
		return
	}
	if r.failed != "" {
		name := r.failed
		r.failed = ""
		if err := r.switchScene(name); err != nil {
			r.log.Error("scene retry failed", zap.String("scene", name), zap.Error(err))
		}
	}
}

// Close releases the scene, the GL resources and the window.
func (r *Runner) Close() error {
	r.log.Info("closing demo")

	var errs error
	if r.scenes != nil {
		errs = multierr.Append(errs, r.scenes.Close())
	}
	if r.watcher != nil {
		errs = multierr.Append(errs, r.watcher.Close())
	}
	if r.env != nil {
		r.env.Close()
	}
	if r.renderer != nil {
		r.renderer.Close()
	}
	if r.window != nil {
		r.window.Close()
	}
	return errs
}
