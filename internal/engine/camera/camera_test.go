package camera

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

const eps = 1e-5

func TestFlyDefaults(t *testing.T) {
	c := NewFly(mgl32.Vec3{0, 0, 3})

	if !c.Front().ApproxEqualThreshold(mgl32.Vec3{0, 0, -1}, eps) {
		t.Errorf("front = %v, want -Z", c.Front())
	}
	if !c.Right().ApproxEqualThreshold(mgl32.Vec3{1, 0, 0}, eps) {
		t.Errorf("right = %v, want +X", c.Right())
	}
	if !c.Up().ApproxEqualThreshold(mgl32.Vec3{0, 1, 0}, eps) {
		t.Errorf("up = %v, want +Y", c.Up())
	}
	if c.Zoom() != DefaultZoom || c.Speed() != DefaultSpeed {
		t.Errorf("zoom/speed = %v/%v", c.Zoom(), c.Speed())
	}
}

func TestFlyViewMatrix(t *testing.T) {
	c := NewFly(mgl32.Vec3{0, 0, 3})

	want := mgl32.LookAtV(mgl32.Vec3{0, 0, 3}, mgl32.Vec3{0, 0, 2}, mgl32.Vec3{0, 1, 0})
	if got := c.ViewMatrix(); !got.ApproxEqualThreshold(want, eps) {
		t.Errorf("ViewMatrix =\n%v\nwant\n%v", got, want)
	}
}

func TestFlyPitchClamp(t *testing.T) {
	tests := []struct {
		name   string
		deltas []float32
	}{
		{"large up", []float32{10000}},
		{"large down", []float32{-10000}},
		{"accumulated up", []float32{300, 300, 300, 300}},
		{"back and forth", []float32{2000, -5000, 100, 900}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewFly(mgl32.Vec3{})
			for _, dy := range tt.deltas {
				c.ProcessMouseMovement(0, dy)
				if p := c.Pitch(); p > MaxPitch || p < -MaxPitch {
					t.Fatalf("pitch %v escaped [-%v, %v]", p, MaxPitch, MaxPitch)
				}
				if math32.Abs(c.Front().Len()-1) > eps {
					t.Fatalf("front not normalized: %v", c.Front())
				}
			}
		})
	}
}

func TestFlyMouseTurns(t *testing.T) {
	c := NewFly(mgl32.Vec3{})
	// 900 units at 0.1 sensitivity is a quarter turn to the right
	c.ProcessMouseMovement(900, 0)

	if c.Yaw() != 0 {
		t.Errorf("yaw = %v, want 0", c.Yaw())
	}
	if !c.Front().ApproxEqualThreshold(mgl32.Vec3{1, 0, 0}, eps) {
		t.Errorf("front = %v, want +X", c.Front())
	}
	if dot := c.Up().Dot(c.Front()); math32.Abs(dot) > eps {
		t.Errorf("up not orthogonal to front: %v", dot)
	}
}

func TestFlyZoomClamp(t *testing.T) {
	c := NewFly(mgl32.Vec3{})

	c.ProcessMouseScroll(3)
	if c.Zoom() != 42 {
		t.Errorf("zoom = %v, want 42", c.Zoom())
	}
	for i := 0; i < 100; i++ {
		c.ProcessMouseScroll(5)
	}
	if c.Zoom() != MinZoom {
		t.Errorf("zoom = %v, want %v", c.Zoom(), MinZoom)
	}
	c.ProcessMouseScroll(-1000)
	if c.Zoom() != MaxZoom {
		t.Errorf("zoom = %v, want %v", c.Zoom(), MaxZoom)
	}
}

func TestFlyKeyboard(t *testing.T) {
	tests := []struct {
		dir  Direction
		want mgl32.Vec3
	}{
		{Forward, mgl32.Vec3{0, 0, 2}},
		{Backward, mgl32.Vec3{0, 0, 4}},
		{Left, mgl32.Vec3{-1, 0, 3}},
		{Right, mgl32.Vec3{1, 0, 3}},
	}
	for _, tt := range tests {
		c := NewFly(mgl32.Vec3{0, 0, 3})
		c.SetSpeed(2)
		c.ProcessKeyboard(tt.dir, 0.5)
		if !c.Position().ApproxEqualThreshold(tt.want, eps) {
			t.Errorf("direction %d: position = %v, want %v", tt.dir, c.Position(), tt.want)
		}
	}
}

func TestFlySprint(t *testing.T) {
	c := NewFly(mgl32.Vec3{})
	c.SetSpeed(10)
	c.ProcessKeyboard(Forward, 0.1)
	if !c.Position().ApproxEqualThreshold(mgl32.Vec3{0, 0, -1}, eps) {
		t.Errorf("position = %v", c.Position())
	}
}

func TestFlySetters(t *testing.T) {
	c := NewFly(mgl32.Vec3{})
	c.SetOrientation(-90, 120)
	if c.Pitch() != MaxPitch {
		t.Errorf("pitch = %v, want clamped", c.Pitch())
	}
	c.SetZoom(0)
	if c.Zoom() != MinZoom {
		t.Errorf("zoom = %v", c.Zoom())
	}
	c.SetPosition(mgl32.Vec3{1, 2, 3})
	if c.Position() != (mgl32.Vec3{1, 2, 3}) {
		t.Errorf("position = %v", c.Position())
	}
}

func TestOrbitFitBounds(t *testing.T) {
	c := NewOrbit()
	c.FitBounds(mgl32.Vec3{-1, 0, -1}, mgl32.Vec3{1, 2, 1})

	if !c.Center.ApproxEqualThreshold(mgl32.Vec3{0, 1, 0}, eps) {
		t.Errorf("center = %v", c.Center)
	}
	dist := c.Position().Sub(c.Center).Len()
	if math32.Abs(dist-c.Distance) > 1e-3 {
		t.Errorf("eye distance %v, want %v", dist, c.Distance)
	}
	if c.Distance <= 1.7 {
		t.Errorf("distance %v too close to see the box", c.Distance)
	}
}

func TestOrbitClamps(t *testing.T) {
	c := NewOrbit()
	c.HandleDrag(0, 1e6)
	if c.Pitch != c.MaxPitch {
		t.Errorf("pitch = %v, want %v", c.Pitch, c.MaxPitch)
	}
	for i := 0; i < 200; i++ {
		c.HandleZoom(5)
	}
	if c.Distance != c.MinDistance {
		t.Errorf("distance = %v, want %v", c.Distance, c.MinDistance)
	}
}

func TestOrbitMovement(t *testing.T) {
	c := NewOrbit()
	c.Distance = 100
	c.HandleMovement(1, 0, 0)
	// Yaw 0 looks down -Z from +Z
	if !c.Center.ApproxEqualThreshold(mgl32.Vec3{0, 0, -1}, eps) {
		t.Errorf("center = %v", c.Center)
	}
}
