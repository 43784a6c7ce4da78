// Package camera provides the free-look and orbit cameras used by the demos.
package camera

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Direction is a keyboard movement direction.
type Direction int

// Movement directions relative to where the camera looks.
const (
	Forward Direction = iota
	Backward
	Left
	Right
)

// Fly camera defaults and limits, in degrees where angular.
const (
	DefaultYaw         float32 = -90
	DefaultPitch       float32 = 0
	DefaultSpeed       float32 = 2.5
	DefaultSensitivity float32 = 0.1
	DefaultZoom        float32 = 45

	MaxPitch float32 = 89
	MinZoom  float32 = 1
	MaxZoom  float32 = 45

	NearPlane float32 = 0.1
	FarPlane  float32 = 100
)

// Fly is a free-look camera driven by yaw and pitch. The front, right and
// up vectors are always derived from the angles, never integrated.
type Fly struct {
	position mgl32.Vec3
	front    mgl32.Vec3
	up       mgl32.Vec3
	right    mgl32.Vec3
	worldUp  mgl32.Vec3

	yaw         float32
	pitch       float32
	zoom        float32
	speed       float32
	sensitivity float32
}

// NewFly creates a camera at position looking down -Z.
func NewFly(position mgl32.Vec3) *Fly {
	c := &Fly{
		position:    position,
		worldUp:     mgl32.Vec3{0, 1, 0},
		yaw:         DefaultYaw,
		pitch:       DefaultPitch,
		zoom:        DefaultZoom,
		speed:       DefaultSpeed,
		sensitivity: DefaultSensitivity,
	}
	c.updateVectors()
	return c
}

// ProcessKeyboard moves the camera along its front or right vector by
// speed * dt.
func (c *Fly) ProcessKeyboard(dir Direction, dt float32) {
	velocity := c.speed * dt
	switch dir {
	case Forward:
		c.position = c.position.Add(c.front.Mul(velocity))
	case Backward:
		c.position = c.position.Sub(c.front.Mul(velocity))
	case Left:
		c.position = c.position.Sub(c.right.Mul(velocity))
	case Right:
		c.position = c.position.Add(c.right.Mul(velocity))
	}
}

// ProcessMouseMovement turns the camera by a mouse offset. dy is positive
// when the mouse moves up.
func (c *Fly) ProcessMouseMovement(dx, dy float32) {
	c.yaw += dx * c.sensitivity
	c.pitch += dy * c.sensitivity
	c.pitch = mgl32.Clamp(c.pitch, -MaxPitch, MaxPitch)
	c.updateVectors()
}

// ProcessMouseScroll narrows the field of view when dy is positive.
func (c *Fly) ProcessMouseScroll(dy float32) {
	c.zoom = mgl32.Clamp(c.zoom-dy, MinZoom, MaxZoom)
}

// SetSpeed sets the movement speed in units per second.
func (c *Fly) SetSpeed(v float32) {
	c.speed = v
}

// SetSensitivity sets degrees turned per unit of mouse movement.
func (c *Fly) SetSensitivity(v float32) {
	c.sensitivity = v
}

// SetOrientation sets yaw and pitch in degrees. Pitch is clamped.
func (c *Fly) SetOrientation(yaw, pitch float32) {
	c.yaw = yaw
	c.pitch = mgl32.Clamp(pitch, -MaxPitch, MaxPitch)
	c.updateVectors()
}

// SetZoom sets the field of view in degrees. It is clamped.
func (c *Fly) SetZoom(v float32) {
	c.zoom = mgl32.Clamp(v, MinZoom, MaxZoom)
}

// SetPosition moves the camera.
func (c *Fly) SetPosition(p mgl32.Vec3) {
	c.position = p
}

// ViewMatrix returns the look-at transform from the camera position along
// its front vector.
func (c *Fly) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.position, c.position.Add(c.front), c.up)
}

// Projection returns a perspective projection using the current zoom.
func (c *Fly) Projection(aspect float32) mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.zoom), aspect, NearPlane, FarPlane)
}

func (c *Fly) Position() mgl32.Vec3 { return c.position }
func (c *Fly) Front() mgl32.Vec3    { return c.front }
func (c *Fly) Right() mgl32.Vec3    { return c.right }
func (c *Fly) Up() mgl32.Vec3       { return c.up }
func (c *Fly) Yaw() float32         { return c.yaw }
func (c *Fly) Pitch() float32       { return c.pitch }
func (c *Fly) Zoom() float32        { return c.zoom }
func (c *Fly) Speed() float32       { return c.speed }

func (c *Fly) updateVectors() {
	yaw := mgl32.DegToRad(c.yaw)
	pitch := mgl32.DegToRad(c.pitch)
	c.front = mgl32.Vec3{
		math32.Cos(yaw) * math32.Cos(pitch),
		math32.Sin(pitch),
		math32.Sin(yaw) * math32.Cos(pitch),
	}.Normalize()
	c.right = c.front.Cross(c.worldUp).Normalize()
	c.up = c.right.Cross(c.front).Normalize()
}
