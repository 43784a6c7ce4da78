package demo

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/learngl/internal/engine/camera"
	"github.com/Faultbox/learngl/internal/engine/model"
	"github.com/Faultbox/learngl/internal/engine/shader"
)

// asteroidFar is the far plane of the asteroid scene, which is much larger
// than the other scenes.
const asteroidFar = 1000

// Asteroids draws a planet circled by a ring of rocks drawn with a single
// instanced call per rock mesh.
type Asteroids struct {
	env *Env

	planetProg  *shader.Program
	rockProg    *shader.Program
	planet      *model.Model
	rock        *model.Model
	planetXform mgl32.Mat4
}

// NewAsteroids creates the scene. Resources are created by Enter.
func NewAsteroids() *Asteroids {
	return &Asteroids{}
}

func (s *Asteroids) Name() string { return "asteroids" }

func (s *Asteroids) Enter(env *Env) error {
	s.env = env
	cfg := env.Config

	var err error
	if s.planetProg, err = env.Programs.Load("textured"); err != nil {
		return err
	}
	if s.rockProg, err = env.Programs.Load("instanced"); err != nil {
		return err
	}

	var errs error
	load := func(p string) *model.Model {
		path := cfg.AssetPath(p)
		m, err := env.Models.Load(path)
		if !reportModelLoad(env.Log, path, m, err) {
			errs = multierr.Append(errs, err)
		}
		return m
	}
	s.planet = load(cfg.Demo.PlanetPath)
	s.rock = load(cfg.Demo.RockPath)
	if errs != nil {
		env.Log.Warn("asteroid scene is missing models", zap.Int("failures", len(multierr.Errors(errs))))
	}

	s.planetXform = mgl32.Translate3D(0, -3, 0).Mul4(mgl32.Scale3D(4, 4, 4))

	field := AsteroidField(FieldConfig{
		Count:  cfg.Demo.AsteroidCount,
		Radius: cfg.Demo.AsteroidRadius,
		Offset: cfg.Demo.AsteroidOffset,
		Seed:   cfg.Demo.AsteroidSeed,
	})
	if len(field) > 0 && len(s.rock.Meshes) > 0 {
		if err := s.rock.SetInstances(field); err != nil {
			return fmt.Errorf("asteroid instances: %w", err)
		}
	}

	env.Camera.SetPosition(mgl32.Vec3{0, 0, cfg.Demo.AsteroidRadius + 5})
	return nil
}

func (s *Asteroids) Exit() error {
	for _, m := range []*model.Model{s.planet, s.rock} {
		if m != nil {
			m.Close()
		}
	}
	s.planet, s.rock = nil, nil
	return nil
}

func (s *Asteroids) Update(f Frame) error { return nil }

func (s *Asteroids) Render(f Frame) error {
	ctx := s.env.Ctx
	cam := s.env.Camera
	proj := mgl32.Perspective(mgl32.DegToRad(cam.Zoom()), f.Aspect(), camera.NearPlane, asteroidFar)
	view := cam.ViewMatrix()

	s.planetProg.Use(ctx)
	s.planetProg.SetMat4("projection", proj)
	s.planetProg.SetMat4("view", view)
	s.planetProg.SetMat4("model", s.planetXform)
	s.planet.Draw(ctx, s.planetProg)

	s.rockProg.Use(ctx)
	s.rockProg.SetMat4("projection", proj)
	s.rockProg.SetMat4("view", view)
	s.rock.DrawInstanced(ctx, s.rockProg)
	return nil
}
