// Package window creates the OS window and OpenGL context.
package window

import (
	"fmt"
	"runtime"

	"go.uber.org/zap"

	"github.com/Faultbox/learngl/internal/engine/input"
)

func init() {
	// OpenGL calls must be made from the main thread
	runtime.LockOSThread()
}

// Backend names accepted by Config.Backend.
const (
	BackendSDL  = "sdl"
	BackendGLFW = "glfw"
)

// Config holds window configuration.
type Config struct {
	Title      string
	Width      int
	Height     int
	Fullscreen bool
	VSync      bool
	Backend    string
}

// Window is an OS window with a current OpenGL 4.1 core context and a
// captured cursor.
type Window interface {
	input.Source

	SwapBuffers()
	// GetSize returns the framebuffer size in pixels.
	GetSize() (int, int)
	SetTitle(title string)
	Close()
}

// New creates a window using the configured backend. An empty backend means
// SDL.
func New(cfg Config, log *zap.Logger) (Window, error) {
	if log == nil {
		log = zap.NewNop()
	}
	switch cfg.Backend {
	case "", BackendSDL:
		return newSDL(cfg, log)
	case BackendGLFW:
		return newGLFW(cfg, log)
	default:
		return nil, fmt.Errorf("unknown window backend %q", cfg.Backend)
	}
}

func logCreated(log *zap.Logger, backend string, cfg Config) {
	log.Info("window created",
		zap.String("backend", backend),
		zap.String("title", cfg.Title),
		zap.Int("width", cfg.Width),
		zap.Int("height", cfg.Height),
		zap.Bool("fullscreen", cfg.Fullscreen),
		zap.Bool("vsync", cfg.VSync),
	)
}
