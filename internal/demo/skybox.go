package demo

import (
	"context"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/learngl/internal/engine/gpu"
	"github.com/Faultbox/learngl/internal/engine/model"
	"github.com/Faultbox/learngl/internal/engine/renderer"
	"github.com/Faultbox/learngl/internal/engine/shader"
)

// skyboxFaceNames are the cubemap face files in GL face order: +X, -X, +Y,
// -Y, +Z, -Z.
var skyboxFaceNames = [6]string{"right.jpg", "left.jpg", "top.jpg", "bottom.jpg", "front.jpg", "back.jpg"}

// SkyboxFaces returns the six face paths inside dir.
func SkyboxFaces(dir string) [6]string {
	var out [6]string
	for i, name := range skyboxFaceNames {
		out[i] = filepath.Join(dir, name)
	}
	return out
}

// Skybox draws a cubemap sky around a cube that mirrors it.
type Skybox struct {
	env *Env

	skyProg    *shader.Program
	mirrorProg *shader.Program
	sky        *model.Mesh
	cube       *model.Mesh
	cubemap    uint32
}

// NewSkybox creates the scene. Resources are created by Enter.
func NewSkybox() *Skybox {
	return &Skybox{}
}

func (s *Skybox) Name() string { return "skybox" }

func (s *Skybox) Enter(env *Env) error {
	s.env = env

	var err error
	if s.skyProg, err = env.Programs.Load("skybox"); err != nil {
		return err
	}
	if s.mirrorProg, err = env.Programs.Load("reflect"); err != nil {
		return err
	}

	faces := SkyboxFaces(env.Config.AssetPath(env.Config.Demo.SkyboxDir))
	if s.cubemap, err = env.Textures.LoadCubemap(context.Background(), faces); err != nil {
		return err
	}
	if s.sky, err = newShape(env.Device, SkyboxVertices()); err != nil {
		return err
	}
	if s.cube, err = newShape(env.Device, CubeVertices()); err != nil {
		return err
	}
	return nil
}

func (s *Skybox) Exit() error {
	for _, m := range []*model.Mesh{s.sky, s.cube} {
		if m != nil {
			m.Close()
		}
	}
	s.sky, s.cube = nil, nil
	// The cubemap belongs to the texture cache
	s.cubemap = 0
	return nil
}

func (s *Skybox) Update(f Frame) error { return nil }

func (s *Skybox) Render(f Frame) error {
	ctx := s.env.Ctx
	cam := s.env.Camera
	view := cam.ViewMatrix()
	proj := cam.Projection(f.Aspect())

	s.mirrorProg.Use(ctx)
	s.mirrorProg.SetMat4("projection", proj)
	s.mirrorProg.SetMat4("view", view)
	s.mirrorProg.SetMat4("model", mgl32.Ident4())
	s.mirrorProg.SetVec3("cameraPos", cam.Position())
	s.mirrorProg.SetInt("skybox", 0)
	ctx.BindTexture(0, gpu.TextureCube, s.cubemap)
	s.cube.Draw(ctx, s.mirrorProg)

	// The sky is drawn last at the far plane so hidden pixels are skipped
	renderer.SetDepthFunc(true)
	s.skyProg.Use(ctx)
	s.skyProg.SetMat4("projection", proj)
	s.skyProg.SetMat4("view", SkyView(view))
	s.skyProg.SetInt("skybox", 0)
	ctx.BindTexture(0, gpu.TextureCube, s.cubemap)
	s.sky.Draw(ctx, s.skyProg)
	renderer.SetDepthFunc(false)
	return nil
}

// SkyView drops the translation from a view matrix so the sky stays
// centered on the camera.
func SkyView(view mgl32.Mat4) mgl32.Mat4 {
	return view.Mat3().Mat4()
}
