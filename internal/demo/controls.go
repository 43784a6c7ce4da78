package demo

import (
	"github.com/Faultbox/learngl/internal/config"
	"github.com/Faultbox/learngl/internal/engine/camera"
	"github.com/Faultbox/learngl/internal/engine/input"
)

var moveKeys = []struct {
	key input.Key
	dir camera.Direction
}{
	{input.KeyW, camera.Forward},
	{input.KeyS, camera.Backward},
	{input.KeyA, camera.Left},
	{input.KeyD, camera.Right},
}

// applyFreeLook moves and turns the camera from one frame of input. Left
// shift switches to the sprint speed while held.
func applyFreeLook(cam *camera.Fly, in *input.Input, dt float32, cfg config.CameraConfig) {
	if in.IsKeyDown(input.KeyLeftShift) {
		cam.SetSpeed(cfg.SprintSpeed)
	} else {
		cam.SetSpeed(cfg.Speed)
	}
	for _, m := range moveKeys {
		if in.IsKeyDown(m.key) {
			cam.ProcessKeyboard(m.dir, dt)
		}
	}

	if dx, dy := in.MouseOffset(); dx != 0 || dy != 0 {
		cam.ProcessMouseMovement(dx, dy)
	}
	if s := in.Scroll(); s != 0 {
		cam.ProcessMouseScroll(s)
	}
}
