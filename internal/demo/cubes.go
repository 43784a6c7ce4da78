package demo

import (
	"context"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/learngl/internal/engine/model"
	"github.com/Faultbox/learngl/internal/engine/shader"
	"github.com/Faultbox/learngl/internal/engine/texture"
)

// Cubes renders ten textured boxes lit by a directional light, four point
// lights and a flashlight, plus a marker cube per point light.
type Cubes struct {
	env *Env

	lit  *shader.Program
	lamp *shader.Program
	cube *model.Mesh
	bulb *model.Mesh

	lighting   Lighting
	transforms []mgl32.Mat4
	lamps      []mgl32.Mat4
}

// NewCubes creates the scene. Resources are created by Enter.
func NewCubes() *Cubes {
	return &Cubes{}
}

func (s *Cubes) Name() string { return "cubes" }

func (s *Cubes) Enter(env *Env) error {
	s.env = env
	s.lighting = DefaultLighting()
	s.transforms = CubeTransforms()
	s.lamps = LightCubeTransforms(s.lighting.Points)

	var err error
	if s.lit, err = env.Programs.Load("lit"); err != nil {
		return err
	}
	if s.lamp, err = env.Programs.Load("lamp"); err != nil {
		return err
	}

	cfg := env.Config
	diffusePath := cfg.AssetPath(cfg.Demo.DiffuseMap)
	specularPath := cfg.AssetPath(cfg.Demo.SpecularMap)
	if err := env.Textures.Prefetch(context.Background(), []string{diffusePath, specularPath}); err != nil {
		return err
	}

	var textures []*texture.Texture
	for _, t := range []struct {
		path string
		kind texture.Kind
	}{{diffusePath, texture.Diffuse}, {specularPath, texture.Specular}} {
		tex, err := env.Textures.Load(t.path, t.kind)
		if err != nil {
			if env.Textures.Policy() == texture.Abort {
				return err
			}
			continue
		}
		textures = append(textures, tex)
	}

	if s.cube, err = newShape(env.Device, CubeVertices(), textures...); err != nil {
		return err
	}
	if s.bulb, err = newShape(env.Device, CubeVertices()); err != nil {
		return err
	}
	return nil
}

func (s *Cubes) Exit() error {
	for _, m := range []*model.Mesh{s.cube, s.bulb} {
		if m != nil {
			m.Close()
		}
	}
	s.cube, s.bulb = nil, nil
	return nil
}

func (s *Cubes) Update(f Frame) error {
	cam := s.env.Camera
	s.lighting.Follow(cam.Position(), cam.Front())
	return nil
}

func (s *Cubes) Render(f Frame) error {
	ctx := s.env.Ctx
	cam := s.env.Camera
	view := cam.ViewMatrix()
	proj := cam.Projection(f.Aspect())

	s.lit.Use(ctx)
	s.lit.SetMat4("projection", proj)
	s.lit.SetMat4("view", view)
	s.lit.SetVec3("viewPos", cam.Position())
	s.lighting.Apply(s.lit)
	for _, m := range s.transforms {
		s.lit.SetMat4("model", m)
		s.cube.Draw(ctx, s.lit)
	}

	s.lamp.Use(ctx)
	s.lamp.SetMat4("projection", proj)
	s.lamp.SetMat4("view", view)
	for i, m := range s.lamps {
		s.lamp.SetMat4("model", m)
		s.lamp.SetVec3("lightColor", s.lighting.Points[i].Specular)
		s.bulb.Draw(ctx, s.lamp)
	}
	return nil
}
