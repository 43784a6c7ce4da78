package demo

import (
	"fmt"
	"strings"
)

// Effect modes understood by the screen shader.
const (
	modeNone int32 = iota
	modeInvert
	modeGrayscale
	modeKernel
)

// Effect is a full-screen post-processing pass.
type Effect struct {
	Name   string
	Mode   int32
	Kernel [9]float32 // row-major 3x3, used by modeKernel
}

// Effects lists the post effects in number-key order: key 1 selects the
// first.
var Effects = []Effect{
	{Name: "none", Mode: modeNone},
	{Name: "invert", Mode: modeInvert},
	{Name: "grayscale", Mode: modeGrayscale},
	{Name: "sharpen", Mode: modeKernel, Kernel: [9]float32{
		-1, -1, -1,
		-1, 9, -1,
		-1, -1, -1,
	}},
	{Name: "blur", Mode: modeKernel, Kernel: [9]float32{
		1.0 / 16, 2.0 / 16, 1.0 / 16,
		2.0 / 16, 4.0 / 16, 2.0 / 16,
		1.0 / 16, 2.0 / 16, 1.0 / 16,
	}},
	{Name: "edge", Mode: modeKernel, Kernel: [9]float32{
		1, 1, 1,
		1, -8, 1,
		1, 1, 1,
	}},
}

// EffectIndex finds an effect by name.
func EffectIndex(name string) (int, error) {
	for i, e := range Effects {
		if strings.EqualFold(e.Name, name) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown effect %q", name)
}

type effectUniforms interface {
	SetInt(name string, v int32)
	SetFloats(name string, v []float32)
}

func (e Effect) apply(u effectUniforms) {
	u.SetInt("effect", e.Mode)
	if e.Mode == modeKernel {
		u.SetFloats("kernel", e.Kernel[:])
	}
}
