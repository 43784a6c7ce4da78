package demo

import (
	"math/rand/v2"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// FieldConfig shapes an asteroid ring.
type FieldConfig struct {
	Count  int
	Radius float32
	// Offset is the largest random displacement from the ring.
	Offset float32
	Seed   int64
}

var rockAxis = mgl32.Vec3{0.4, 0.6, 0.8}.Normalize()

// AsteroidField returns one model matrix per rock, spread evenly around a
// ring of the given radius with random displacement, scale and rotation.
// The same seed gives the same field.
func AsteroidField(cfg FieldConfig) []mgl32.Mat4 {
	if cfg.Count <= 0 {
		return nil
	}
	rng := rand.New(rand.NewPCG(uint64(cfg.Seed), uint64(cfg.Seed)^0x9e3779b97f4a7c15))
	displace := func() float32 {
		return (rng.Float32()*2 - 1) * cfg.Offset
	}

	out := make([]mgl32.Mat4, cfg.Count)
	for i := range out {
		angle := float32(i) / float32(cfg.Count) * 2 * math32.Pi
		sin, cos := math32.Sincos(angle)

		x := sin*cfg.Radius + displace()
		// Keep the field flatter than it is wide
		y := displace() * 0.4
		z := cos*cfg.Radius + displace()

		scale := rng.Float32()*0.2 + 0.05
		rot := mgl32.DegToRad(rng.Float32() * 360)

		out[i] = mgl32.Translate3D(x, y, z).
			Mul4(mgl32.Scale3D(scale, scale, scale)).
			Mul4(mgl32.HomogRotate3D(rot, rockAxis))
	}
	return out
}
