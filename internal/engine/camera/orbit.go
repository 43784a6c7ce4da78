package camera

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Orbit circles a center point. Angles are in radians.
type Orbit struct {
	Center mgl32.Vec3

	Distance float32
	Pitch    float32
	Yaw      float32

	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	DragSensitivity float32
	ZoomSensitivity float32

	// Fov is the vertical field of view in degrees.
	Fov float32
}

// NewOrbit creates an orbit camera looking at the origin.
func NewOrbit() *Orbit {
	return &Orbit{
		Distance:        5,
		Pitch:           0.4,
		MinDistance:     0.5,
		MaxDistance:     80,
		MinPitch:        -1.5,
		MaxPitch:        1.5,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
		Fov:             DefaultZoom,
	}
}

// Position returns the eye position.
func (c *Orbit) Position() mgl32.Vec3 {
	cp := math32.Cos(c.Pitch)
	return c.Center.Add(mgl32.Vec3{
		c.Distance * cp * math32.Sin(c.Yaw),
		c.Distance * math32.Sin(c.Pitch),
		c.Distance * cp * math32.Cos(c.Yaw),
	})
}

// ViewMatrix looks from Position at Center.
func (c *Orbit) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position(), c.Center, mgl32.Vec3{0, 1, 0})
}

// Projection returns a perspective projection whose far plane covers the
// orbit.
func (c *Orbit) Projection(aspect float32) mgl32.Mat4 {
	far := c.Distance * 4
	if far < FarPlane {
		far = FarPlane
	}
	return mgl32.Perspective(mgl32.DegToRad(c.Fov), aspect, NearPlane, far)
}

// HandleDrag rotates by a mouse delta.
func (c *Orbit) HandleDrag(dx, dy float32) {
	c.Yaw -= dx * c.DragSensitivity
	c.Pitch = mgl32.Clamp(c.Pitch+dy*c.DragSensitivity, c.MinPitch, c.MaxPitch)
}

// HandleZoom moves closer for positive delta, proportionally to distance.
func (c *Orbit) HandleZoom(delta float32) {
	c.Distance = mgl32.Clamp(c.Distance-delta*c.Distance*c.ZoomSensitivity, c.MinDistance, c.MaxDistance)
}

// HandleMovement pans the center in the ground plane relative to the view.
func (c *Orbit) HandleMovement(forward, right, up float32) {
	speed := c.Distance * 0.01
	sin, cos := math32.Sincos(c.Yaw)
	c.Center[0] += (-sin*forward + cos*right) * speed
	c.Center[2] += (-cos*forward - sin*right) * speed
	c.Center[1] += up * speed
}

// FitBounds centers on a bounding box and backs off far enough to see it.
func (c *Orbit) FitBounds(min, max mgl32.Vec3) {
	c.Center = min.Add(max).Mul(0.5)
	radius := max.Sub(min).Len() / 2
	if radius < 0.01 {
		radius = 0.01
	}
	half := mgl32.DegToRad(c.Fov) / 2
	c.Distance = radius / math32.Sin(half)
	if c.Distance > c.MaxDistance {
		c.MaxDistance = c.Distance * 2
	}
	if c.Distance < c.MinDistance {
		c.MinDistance = c.Distance / 2
	}
	c.Pitch = 0.4
	c.Yaw = 0
}
