package window

import (
	"fmt"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/learngl/internal/engine/input"
)

var sdlKeys = map[sdl.Scancode]input.Key{
	sdl.SCANCODE_ESCAPE: input.KeyEscape,
	sdl.SCANCODE_W:      input.KeyW,
	sdl.SCANCODE_A:      input.KeyA,
	sdl.SCANCODE_S:      input.KeyS,
	sdl.SCANCODE_D:      input.KeyD,
	sdl.SCANCODE_Q:      input.KeyQ,
	sdl.SCANCODE_E:      input.KeyE,
	sdl.SCANCODE_SPACE:  input.KeySpace,
	sdl.SCANCODE_LSHIFT: input.KeyLeftShift,
	sdl.SCANCODE_TAB:    input.KeyTab,
	sdl.SCANCODE_F1:     input.KeyF1,
	sdl.SCANCODE_0:      input.Key0,
	sdl.SCANCODE_1:      input.Key1,
	sdl.SCANCODE_2:      input.Key2,
	sdl.SCANCODE_3:      input.Key3,
	sdl.SCANCODE_4:      input.Key4,
	sdl.SCANCODE_5:      input.Key5,
	sdl.SCANCODE_6:      input.Key6,
	sdl.SCANCODE_7:      input.Key7,
	sdl.SCANCODE_8:      input.Key8,
	sdl.SCANCODE_9:      input.Key9,
}

type sdlWindow struct {
	log       *zap.Logger
	window    *sdl.Window
	glContext sdl.GLContext
}

func newSDL(cfg Config, log *zap.Logger) (*sdlWindow, error) {
	w := &sdlWindow{log: log}

	log.Info("initializing SDL2")
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return nil, fmt.Errorf("SDL_Init failed: %w", err)
	}

	// Attributes must be set before the window exists
	sdl.GLSetAttribute(sdl.GL_CONTEXT_MAJOR_VERSION, 4)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_MINOR_VERSION, 1)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_PROFILE_MASK, sdl.GL_CONTEXT_PROFILE_CORE)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_FLAGS, sdl.GL_CONTEXT_FORWARD_COMPATIBLE_FLAG)
	sdl.GLSetAttribute(sdl.GL_DOUBLEBUFFER, 1)
	sdl.GLSetAttribute(sdl.GL_DEPTH_SIZE, 24)
	sdl.GLSetAttribute(sdl.GL_STENCIL_SIZE, 8)

	flags := uint32(sdl.WINDOW_OPENGL | sdl.WINDOW_RESIZABLE | sdl.WINDOW_ALLOW_HIGHDPI)
	if cfg.Fullscreen {
		flags |= sdl.WINDOW_FULLSCREEN_DESKTOP
	}

	var err error
	w.window, err = sdl.CreateWindow(
		cfg.Title,
		sdl.WINDOWPOS_CENTERED,
		sdl.WINDOWPOS_CENTERED,
		int32(cfg.Width),
		int32(cfg.Height),
		flags,
	)
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("SDL_CreateWindow failed: %w", err)
	}

	w.glContext, err = w.window.GLCreateContext()
	if err != nil {
		w.window.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("SDL_GL_CreateContext failed: %w", err)
	}

	interval := 0
	if cfg.VSync {
		interval = 1
	}
	if err := sdl.GLSetSwapInterval(interval); err != nil {
		log.Warn("failed to set swap interval", zap.Int("interval", interval), zap.Error(err))
	}

	// Free-look needs unbounded relative motion
	sdl.SetRelativeMouseMode(true)

	logCreated(log, BackendSDL, cfg)
	return w, nil
}

// PollEvents drains the SDL queue.
func (w *sdlWindow) PollEvents(fn func(input.Event)) {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			fn(input.Event{Type: input.EventQuit})

		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
				width, height := w.GetSize()
				fn(input.Event{Type: input.EventWindowResize, Width: width, Height: height})
			}

		case *sdl.KeyboardEvent:
			key, ok := sdlKeys[e.Keysym.Scancode]
			if !ok {
				continue
			}
			typ := input.EventKeyDown
			if e.Type == sdl.KEYUP {
				typ = input.EventKeyUp
			}
			fn(input.Event{Type: typ, Key: key})

		case *sdl.MouseMotionEvent:
			fn(input.Event{Type: input.EventMouseMove, DX: float32(e.XRel), DY: float32(e.YRel)})

		case *sdl.MouseButtonEvent:
			typ := input.EventMouseDown
			if e.Type == sdl.MOUSEBUTTONUP {
				typ = input.EventMouseUp
			}
			fn(input.Event{Type: typ, Button: e.Button})

		case *sdl.MouseWheelEvent:
			y := float32(e.Y)
			if e.Direction == sdl.MOUSEWHEEL_FLIPPED {
				y = -y
			}
			fn(input.Event{Type: input.EventScroll, ScrollY: y})
		}
	}
}

func (w *sdlWindow) Close() {
	w.log.Info("closing window")

	if w.glContext != nil {
		sdl.GLDeleteContext(w.glContext)
	}
	if w.window != nil {
		w.window.Destroy()
	}
	sdl.Quit()
}

func (w *sdlWindow) SwapBuffers() {
	w.window.GLSwap()
}

func (w *sdlWindow) GetSize() (int, int) {
	width, height := w.window.GLGetDrawableSize()
	return int(width), int(height)
}

func (w *sdlWindow) SetTitle(title string) {
	w.window.SetTitle(title)
}
