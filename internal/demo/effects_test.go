package demo

import (
	"testing"

	"github.com/chewxy/math32"

	"github.com/Faultbox/learngl/internal/engine/input"
)

func TestEffectKernels(t *testing.T) {
	// Sharpen and blur keep brightness, edge detection removes flat color
	wantSum := map[string]float32{"sharpen": 1, "blur": 1, "edge": 0}
	for _, e := range Effects {
		want, ok := wantSum[e.Name]
		if !ok {
			continue
		}
		if e.Mode != modeKernel {
			t.Errorf("%s should be a kernel effect", e.Name)
		}
		var sum float32
		for _, k := range e.Kernel {
			sum += k
		}
		if math32.Abs(sum-want) > 1e-6 {
			t.Errorf("%s kernel sums to %v, want %v", e.Name, sum, want)
		}
	}
}

func TestEffectIndex(t *testing.T) {
	if i, err := EffectIndex("Blur"); err != nil || Effects[i].Name != "blur" {
		t.Errorf("EffectIndex(Blur) = %d, %v", i, err)
	}
	if i, err := EffectIndex("none"); err != nil || i != 0 {
		t.Errorf("EffectIndex(none) = %d, %v", i, err)
	}
	if _, err := EffectIndex("bloom"); err == nil {
		t.Error("expected error for unknown effect")
	}
}

func TestEffectApply(t *testing.T) {
	r := newRecorder()
	Effects[1].apply(r)
	if r.ints["effect"] != modeInvert {
		t.Errorf("effect = %d", r.ints["effect"])
	}
	if _, ok := r.arrays["kernel"]; ok {
		t.Error("invert should not upload a kernel")
	}

	i, _ := EffectIndex("edge")
	Effects[i].apply(r)
	if r.ints["effect"] != modeKernel || len(r.arrays["kernel"]) != 9 || r.arrays["kernel"][4] != -8 {
		t.Errorf("edge uniforms = %d %v", r.ints["effect"], r.arrays["kernel"])
	}
}

func TestPostFXSelectEffect(t *testing.T) {
	s := NewPostFX(&fakeScene{name: "inner", log: new([]string)})
	in := input.New()

	in.Update(scripted{{Type: input.EventKeyDown, Key: input.Key3}})
	if !s.selectEffect(in) || s.Effect().Name != "grayscale" {
		t.Errorf("key 3 selected %q", s.Effect().Name)
	}

	// Held keys do not reselect
	in.Update(scripted{})
	if s.selectEffect(in) {
		t.Error("no key was pressed this frame")
	}

	in.Update(scripted{{Type: input.EventKeyDown, Key: input.Key9}})
	if s.selectEffect(in) || s.Effect().Name != "grayscale" {
		t.Error("key past the last effect should be ignored")
	}
}
