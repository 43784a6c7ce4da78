package demo

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/learngl/internal/engine/debug"
	"github.com/Faultbox/learngl/internal/engine/framebuffer"
	"github.com/Faultbox/learngl/internal/engine/gpu"
	"github.com/Faultbox/learngl/internal/engine/input"
	"github.com/Faultbox/learngl/internal/engine/model"
	"github.com/Faultbox/learngl/internal/engine/renderer"
	"github.com/Faultbox/learngl/internal/engine/shader"
)

// ClearColor is the background of every scene.
var ClearColor = mgl32.Vec4{0.1, 0.1, 0.1, 1}

// PostFX renders another scene into an offscreen framebuffer and draws it
// to the screen through the selected effect. Number keys pick the effect
// and F1 saves a screenshot of the offscreen image.
type PostFX struct {
	env   *Env
	inner Scene

	fb     *framebuffer.Framebuffer
	screen *shader.Program
	quad   *model.Mesh
	effect int
	shots  *debug.Screenshots
}

// NewPostFX wraps inner.
func NewPostFX(inner Scene) *PostFX {
	return &PostFX{inner: inner}
}

func (s *PostFX) Name() string { return "postfx" }

// Effect returns the active effect.
func (s *PostFX) Effect() Effect {
	return Effects[s.effect]
}

func (s *PostFX) Enter(env *Env) error {
	s.env = env

	idx, err := EffectIndex(env.Config.Demo.Effect)
	if err != nil {
		env.Log.Warn("falling back to no effect", zap.Error(err))
	}
	s.effect = idx

	if err := s.inner.Enter(env); err != nil {
		return err
	}
	if s.screen, err = env.Programs.Load("screen"); err != nil {
		return err
	}
	if s.quad, err = newShape(env.Device, QuadVertices()); err != nil {
		return err
	}
	s.fb, err = framebuffer.New(int32(env.Config.Window.Width), int32(env.Config.Window.Height))
	return err
}

func (s *PostFX) Exit() error {
	if s.quad != nil {
		s.quad.Close()
		s.quad = nil
	}
	if s.fb != nil {
		s.fb.Destroy()
		s.fb = nil
	}
	return s.inner.Exit()
}

// selectEffect applies number key presses: key n selects effect n-1.
func (s *PostFX) selectEffect(in *input.Input) bool {
	for i := range Effects {
		if in.IsKeyPressed(input.DigitKey(i + 1)) {
			s.effect = i
			return true
		}
	}
	return false
}

func (s *PostFX) Update(f Frame) error {
	if s.selectEffect(f.Input) {
		s.env.Log.Info("post effect selected", zap.String("effect", s.Effect().Name))
	}
	var errs error
	if f.Input.IsKeyPressed(input.KeyF1) && s.fb != nil {
		errs = multierr.Append(errs, s.saveScreenshot())
	}
	return multierr.Append(errs, s.inner.Update(f))
}

func (s *PostFX) saveScreenshot() error {
	if s.shots == nil {
		s.shots = debug.NewScreenshots(s.env.Config.Demo.ScreenshotDir, "screenshot")
	}
	name, err := s.shots.Save(s.fb.Snapshot())
	if err != nil {
		return fmt.Errorf("save screenshot: %w", err)
	}
	s.env.Log.Info("screenshot saved", zap.String("file", name))
	return nil
}

func (s *PostFX) Render(f Frame) error {
	ctx := s.env.Ctx
	s.fb.Resize(int32(f.Width), int32(f.Height))

	s.fb.Bind()
	renderer.Clear(ClearColor)
	renderer.SetDepthTest(true)
	if err := s.inner.Render(f); err != nil {
		s.fb.Unbind()
		return err
	}
	s.fb.Unbind()

	renderer.Clear(mgl32.Vec4{1, 1, 1, 1})
	renderer.SetDepthTest(false)
	s.screen.Use(ctx)
	s.screen.SetInt("screenTexture", 0)
	s.Effect().apply(s.screen)
	ctx.BindTexture(0, gpu.Texture2D, s.fb.ColorTexture())
	s.quad.Draw(ctx, s.screen)
	renderer.SetDepthTest(true)
	return nil
}
