package window

import (
	"fmt"

	"github.com/go-gl/glfw/v3.3/glfw"
	"go.uber.org/zap"

	"github.com/Faultbox/learngl/internal/engine/input"
)

var glfwKeys = map[glfw.Key]input.Key{
	glfw.KeyEscape:    input.KeyEscape,
	glfw.KeyW:         input.KeyW,
	glfw.KeyA:         input.KeyA,
	glfw.KeyS:         input.KeyS,
	glfw.KeyD:         input.KeyD,
	glfw.KeyQ:         input.KeyQ,
	glfw.KeyE:         input.KeyE,
	glfw.KeySpace:     input.KeySpace,
	glfw.KeyLeftShift: input.KeyLeftShift,
	glfw.KeyTab:       input.KeyTab,
	glfw.KeyF1:        input.KeyF1,
	glfw.Key0:         input.Key0,
	glfw.Key1:         input.Key1,
	glfw.Key2:         input.Key2,
	glfw.Key3:         input.Key3,
	glfw.Key4:         input.Key4,
	glfw.Key5:         input.Key5,
	glfw.Key6:         input.Key6,
	glfw.Key7:         input.Key7,
	glfw.Key8:         input.Key8,
	glfw.Key9:         input.Key9,
}

// glfwWindow queues callback events until the next PollEvents.
type glfwWindow struct {
	log    *zap.Logger
	window *glfw.Window
	events []input.Event

	firstMouse   bool
	lastX, lastY float64
}

func newGLFW(cfg Config, log *zap.Logger) (*glfwWindow, error) {
	log.Info("initializing GLFW")
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("glfw init failed: %w", err)
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.DepthBits, 24)

	width, height := cfg.Width, cfg.Height
	var monitor *glfw.Monitor
	if cfg.Fullscreen {
		monitor = glfw.GetPrimaryMonitor()
		if mode := monitor.GetVideoMode(); mode != nil {
			width, height = mode.Width, mode.Height
		}
	}

	win, err := glfw.CreateWindow(width, height, cfg.Title, monitor, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("glfw create window failed: %w", err)
	}
	win.MakeContextCurrent()

	if cfg.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	w := &glfwWindow{log: log, window: win, firstMouse: true}
	win.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
	win.SetKeyCallback(w.onKey)
	win.SetCursorPosCallback(w.onCursor)
	win.SetMouseButtonCallback(w.onMouseButton)
	win.SetScrollCallback(w.onScroll)
	win.SetFramebufferSizeCallback(w.onFramebufferSize)
	win.SetCloseCallback(w.onClose)

	logCreated(log, BackendGLFW, cfg)
	return w, nil
}

func (w *glfwWindow) onKey(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
	k, ok := glfwKeys[key]
	if !ok {
		return
	}
	switch action {
	case glfw.Press, glfw.Repeat:
		w.events = append(w.events, input.Event{Type: input.EventKeyDown, Key: k})
	case glfw.Release:
		w.events = append(w.events, input.Event{Type: input.EventKeyUp, Key: k})
	}
}

func (w *glfwWindow) onCursor(_ *glfw.Window, x, y float64) {
	if w.firstMouse {
		w.lastX, w.lastY = x, y
		w.firstMouse = false
		return
	}
	dx, dy := x-w.lastX, y-w.lastY
	w.lastX, w.lastY = x, y
	w.events = append(w.events, input.Event{Type: input.EventMouseMove, DX: float32(dx), DY: float32(dy)})
}

func (w *glfwWindow) onMouseButton(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
	typ := input.EventMouseDown
	if action == glfw.Release {
		typ = input.EventMouseUp
	}
	w.events = append(w.events, input.Event{Type: typ, Button: uint8(button) + 1})
}

func (w *glfwWindow) onScroll(_ *glfw.Window, _, yoff float64) {
	w.events = append(w.events, input.Event{Type: input.EventScroll, ScrollY: float32(yoff)})
}

func (w *glfwWindow) onFramebufferSize(_ *glfw.Window, width, height int) {
	w.events = append(w.events, input.Event{Type: input.EventWindowResize, Width: width, Height: height})
}

func (w *glfwWindow) onClose(_ *glfw.Window) {
	w.events = append(w.events, input.Event{Type: input.EventQuit})
}

// PollEvents runs the GLFW callbacks and delivers what they queued.
func (w *glfwWindow) PollEvents(fn func(input.Event)) {
	glfw.PollEvents()
	for _, e := range w.events {
		fn(e)
	}
	w.events = w.events[:0]
}

func (w *glfwWindow) Close() {
	w.log.Info("closing window")
	w.window.Destroy()
	glfw.Terminate()
}

func (w *glfwWindow) SwapBuffers() {
	w.window.SwapBuffers()
}

func (w *glfwWindow) GetSize() (int, int) {
	return w.window.GetFramebufferSize()
}

func (w *glfwWindow) SetTitle(title string) {
	w.window.SetTitle(title)
}
