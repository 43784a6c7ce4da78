// Package renderer owns the OpenGL function loader and per-frame GL state.
package renderer

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/learngl/internal/engine/gpu"
)

// Config holds renderer configuration.
type Config struct {
	Width  int
	Height int

	ClearColor mgl32.Vec4
	// Blend enables src-alpha blending for the whole frame.
	Blend bool
}

// Renderer initializes OpenGL and tracks the default framebuffer size.
type Renderer struct {
	config Config
	log    *zap.Logger

	device *gpu.GL
	ctx    *gpu.Context
}

// New loads the GL entry points and sets the default state.
// Must be called after the OpenGL context is current.
func New(cfg Config, log *zap.Logger) (*Renderer, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
		zap.String("glsl", gl.GoStr(gl.GetString(gl.SHADING_LANGUAGE_VERSION))),
	)

	r := &Renderer{config: cfg, log: log, device: gpu.NewGL()}
	r.ctx = gpu.NewContext(r.device)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	if cfg.Blend {
		gl.Enable(gl.BLEND)
		gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	}
	c := cfg.ClearColor
	gl.ClearColor(c[0], c[1], c[2], c[3])
	r.Resize(cfg.Width, cfg.Height)

	return r, nil
}

// Context returns the GPU context all draws go through.
func (r *Renderer) Context() *gpu.Context {
	return r.ctx
}

// Device returns the GL device.
func (r *Renderer) Device() gpu.Device {
	return r.device
}

// Resize sets the viewport for the default framebuffer.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	r.log.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Size returns the default framebuffer size.
func (r *Renderer) Size() (int, int) {
	return r.config.Width, r.config.Height
}

// Aspect returns width/height, or 1 for a zero-height framebuffer.
func (r *Renderer) Aspect() float32 {
	if r.config.Height == 0 {
		return 1
	}
	return float32(r.config.Width) / float32(r.config.Height)
}

// Begin starts a frame on the default framebuffer.
func (r *Renderer) Begin() {
	r.ctx.ResetStats()
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.Viewport(0, 0, int32(r.config.Width), int32(r.config.Height))
	Clear(r.config.ClearColor)
}

// End finishes the frame and returns the number of draw calls issued.
func (r *Renderer) End() int {
	return r.ctx.Draws()
}

// Clear clears color, depth and stencil of the bound framebuffer.
func Clear(c mgl32.Vec4) {
	gl.ClearColor(c[0], c[1], c[2], c[3])
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT | gl.STENCIL_BUFFER_BIT)
}

// SetDepthTest toggles depth testing.
func SetDepthTest(on bool) {
	if on {
		gl.Enable(gl.DEPTH_TEST)
	} else {
		gl.Disable(gl.DEPTH_TEST)
	}
}

// SetDepthFunc switches between LESS and LEQUAL, the latter for skyboxes
// drawn at the far plane.
func SetDepthFunc(lequal bool) {
	if lequal {
		gl.DepthFunc(gl.LEQUAL)
	} else {
		gl.DepthFunc(gl.LESS)
	}
}

// Close logs shutdown. GPU objects are owned by the scenes.
func (r *Renderer) Close() {
	r.log.Info("closing renderer")
}
