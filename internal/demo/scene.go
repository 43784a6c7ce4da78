// Package demo implements the interactive rendering scenes and the loop
// that drives them.
package demo

import (
	"fmt"

	"github.com/Faultbox/learngl/internal/engine/input"
)

// Frame carries the per-frame values every scene sees.
type Frame struct {
	DT     float32 // seconds since the previous frame
	Time   float32 // seconds since start
	Input  *input.Input
	Width  int
	Height int
}

// Aspect returns Width/Height, or 1 before the first resize.
func (f Frame) Aspect() float32 {
	if f.Height == 0 {
		return 1
	}
	return float32(f.Width) / float32(f.Height)
}

// Scene is one demo.
type Scene interface {
	Name() string

	// Enter creates the GPU resources of the scene.
	Enter(env *Env) error

	// Exit releases everything Enter created.
	Exit() error

	Update(f Frame) error
	Render(f Frame) error
}

// InputHandler is implemented by scenes that drive their own camera. When
// HandleInput returns true the runner skips the free-look controls.
type InputHandler interface {
	HandleInput(f Frame) bool
}

// Manager switches between scenes. Transitions take effect at the start of
// the next Update.
type Manager struct {
	env     *Env
	current Scene
	next    Scene
}

// NewManager creates a scene manager over env.
func NewManager(env *Env) *Manager {
	return &Manager{env: env}
}

// Current returns the active scene.
func (m *Manager) Current() Scene {
	return m.current
}

// Change schedules a scene change.
func (m *Manager) Change(next Scene) {
	m.next = next
}

// Update performs a pending transition and updates the active scene. If the
// new scene fails to enter, the manager is left without a scene.
func (m *Manager) Update(f Frame) error {
	if m.next != nil {
		if err := m.exitCurrent(); err != nil {
			return err
		}
		next := m.next
		m.next = nil
		if err := next.Enter(m.env); err != nil {
			_ = next.Exit()
			return fmt.Errorf("enter scene %s: %w", next.Name(), err)
		}
		m.current = next
	}

	if m.current != nil {
		return m.current.Update(f)
	}
	return nil
}

// Render renders the active scene.
func (m *Manager) Render(f Frame) error {
	if m.current != nil {
		return m.current.Render(f)
	}
	return nil
}

// Close exits the active scene.
func (m *Manager) Close() error {
	m.next = nil
	return m.exitCurrent()
}

func (m *Manager) exitCurrent() error {
	if m.current == nil {
		return nil
	}
	s := m.current
	m.current = nil
	if err := s.Exit(); err != nil {
		return fmt.Errorf("exit scene %s: %w", s.Name(), err)
	}
	return nil
}
