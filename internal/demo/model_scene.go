package demo

import (
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/learngl/internal/engine/camera"
	"github.com/Faultbox/learngl/internal/engine/input"
	"github.com/Faultbox/learngl/internal/engine/model"
	"github.com/Faultbox/learngl/internal/engine/shader"
)

// reportModelLoad logs the outcome of a model load and reports whether the
// model has geometry. A model that came back with meshes is usable even
// when some of its textures failed.
func reportModelLoad(log *zap.Logger, path string, m *model.Model, err error, fields ...zap.Field) bool {
	usable := m != nil && len(m.Meshes) > 0
	switch {
	case err == nil:
		log.Info("model loaded", append([]zap.Field{
			zap.String("path", path),
			zap.Int("meshes", len(m.Meshes)),
			zap.Int("vertices", m.VertexCount()),
		}, fields...)...)
	case usable:
		log.Warn("model loaded with missing textures",
			zap.String("path", path),
			zap.Int("meshes", len(m.Meshes)),
			zap.Error(err))
	default:
		// Continue with the empty model
		log.Error("model load failed", zap.String("path", path), zap.Error(err))
	}
	return usable
}

// viewer is a camera the scenes can render from.
type viewer interface {
	Position() mgl32.Vec3
	ViewMatrix() mgl32.Mat4
	Projection(aspect float32) mgl32.Mat4
}

// ModelScene draws one loaded model under the cube scene lights, seen
// through the free-look camera or, in orbit mode, an orbit camera fitted
// to the model.
type ModelScene struct {
	env *Env

	prog     *shader.Program
	model    *model.Model
	lighting Lighting

	orbit *camera.Orbit
}

// NewModelScene creates the scene. Resources are created by Enter.
func NewModelScene() *ModelScene {
	return &ModelScene{}
}

func (s *ModelScene) Name() string { return "model" }

func (s *ModelScene) Enter(env *Env) error {
	s.env = env
	s.lighting = DefaultLighting()

	var err error
	if s.prog, err = env.Programs.Load("lit"); err != nil {
		return err
	}

	path := env.Config.AssetPath(env.Config.Demo.ModelPath)
	s.model, err = env.Models.Load(path)
	reportModelLoad(env.Log, path, s.model, err,
		zap.Int("textures", env.Models.Textures.Len()))

	s.orbit = nil
	if env.Config.Camera.Mode == "orbit" {
		s.orbit = camera.NewOrbit()
		if b := s.model.Bounds(); !b.Empty() {
			s.orbit.FitBounds(b.Min, b.Max)
		}
	}
	return nil
}

func (s *ModelScene) Exit() error {
	if s.model != nil {
		s.model.Close()
		s.model = nil
	}
	return nil
}

// HandleInput drives the orbit camera when it is active.
func (s *ModelScene) HandleInput(f Frame) bool {
	if s.orbit == nil {
		return false
	}
	in := f.Input
	dx, dy := in.MouseOffset()
	s.orbit.HandleDrag(dx, dy)
	s.orbit.HandleZoom(in.Scroll())

	var forward, right, up float32
	if in.IsKeyDown(input.KeyW) {
		forward++
	}
	if in.IsKeyDown(input.KeyS) {
		forward--
	}
	if in.IsKeyDown(input.KeyD) {
		right++
	}
	if in.IsKeyDown(input.KeyA) {
		right--
	}
	if in.IsKeyDown(input.KeyE) {
		up++
	}
	if in.IsKeyDown(input.KeyQ) {
		up--
	}
	s.orbit.HandleMovement(forward, right, up)
	return true
}

func (s *ModelScene) view() viewer {
	if s.orbit != nil {
		return s.orbit
	}
	return s.env.Camera
}

func (s *ModelScene) Update(f Frame) error {
	v := s.view()
	front := s.env.Camera.Front()
	if s.orbit != nil {
		front = s.orbit.Center.Sub(s.orbit.Position()).Normalize()
	}
	s.lighting.Follow(v.Position(), front)
	return nil
}

func (s *ModelScene) Render(f Frame) error {
	ctx := s.env.Ctx
	v := s.view()

	s.prog.Use(ctx)
	s.prog.SetMat4("projection", v.Projection(f.Aspect()))
	s.prog.SetMat4("view", v.ViewMatrix())
	s.prog.SetMat4("model", mgl32.Ident4())
	s.prog.SetVec3("viewPos", v.Position())
	s.lighting.Apply(s.prog)
	s.model.Draw(ctx, s.prog)
	return nil
}
