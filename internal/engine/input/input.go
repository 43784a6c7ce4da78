// Package input turns window backend events into per-frame input state.
package input

// Key identifies a keyboard key independent of the window backend.
type Key int

// Keys the demos react to.
const (
	KeyUnknown Key = iota
	KeyEscape
	KeyW
	KeyA
	KeyS
	KeyD
	KeyQ
	KeyE
	KeySpace
	KeyLeftShift
	KeyTab
	KeyF1
	Key0
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9
)

// DigitKey returns the key for digit n (0-9), or KeyUnknown.
func DigitKey(n int) Key {
	if n < 0 || n > 9 {
		return KeyUnknown
	}
	return Key0 + Key(n)
}

// EventType classifies an Event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventKeyUp
	EventMouseMove
	EventMouseDown
	EventMouseUp
	EventScroll
)

// Event is one backend event.
type Event struct {
	Type EventType
	Key  Key

	// Width and Height are the new framebuffer size for EventWindowResize.
	Width  int
	Height int

	// DX and DY are relative mouse motion in window pixels, Y down.
	DX float32
	DY float32

	Button uint8

	// ScrollY is positive when scrolling away from the user.
	ScrollY float32
}

// Source delivers pending backend events.
type Source interface {
	PollEvents(fn func(Event))
}

// Input accumulates one frame of events.
type Input struct {
	events  []Event
	held    map[Key]bool
	pressed map[Key]bool

	mouseDX, mouseDY float32
	scroll           float32

	quit          bool
	resized       bool
	width, height int
}

// New creates an input handler.
func New() *Input {
	return &Input{
		events:  make([]Event, 0, 16),
		held:    make(map[Key]bool),
		pressed: make(map[Key]bool),
	}
}

// Update drains src and rebuilds the per-frame state. It returns true once
// a quit was requested.
func (i *Input) Update(src Source) bool {
	i.events = i.events[:0]
	clear(i.pressed)
	i.mouseDX, i.mouseDY, i.scroll = 0, 0, 0
	i.resized = false

	src.PollEvents(i.handle)
	return i.quit
}

func (i *Input) handle(e Event) {
	i.events = append(i.events, e)
	switch e.Type {
	case EventQuit:
		i.quit = true
	case EventWindowResize:
		i.resized = true
		i.width, i.height = e.Width, e.Height
	case EventKeyDown:
		if !i.held[e.Key] {
			i.pressed[e.Key] = true
		}
		i.held[e.Key] = true
	case EventKeyUp:
		delete(i.held, e.Key)
	case EventMouseMove:
		i.mouseDX += e.DX
		i.mouseDY += e.DY
	case EventScroll:
		i.scroll += e.ScrollY
	}
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}

// IsKeyDown reports whether k is held.
func (i *Input) IsKeyDown(k Key) bool {
	return i.held[k]
}

// IsKeyPressed reports whether k went down during the last Update.
func (i *Input) IsKeyPressed(k Key) bool {
	return i.pressed[k]
}

// MouseOffset returns the mouse movement of the frame with Y pointing up,
// the convention camera look controls expect.
func (i *Input) MouseOffset() (dx, dy float32) {
	return i.mouseDX, -i.mouseDY
}

// Scroll returns the accumulated vertical scroll of the frame.
func (i *Input) Scroll() float32 {
	return i.scroll
}

// Resized returns the latest framebuffer size if it changed this frame.
func (i *Input) Resized() (width, height int, ok bool) {
	return i.width, i.height, i.resized
}

// QuitRequested reports whether a quit event was seen.
func (i *Input) QuitRequested() bool {
	return i.quit
}

// RequestQuit marks the input as quitting, as if the window was closed.
func (i *Input) RequestQuit() {
	i.quit = true
}
