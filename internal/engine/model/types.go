// Package model builds drawable models from imported scene graphs.
package model

import (
	"errors"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/learngl/internal/engine/gpu"
	"github.com/Faultbox/learngl/internal/engine/texture"
)

// Load failures that leave the returned model empty.
var (
	ErrIncompleteScene = errors.New("model: scene is incomplete")
	ErrNoRootNode      = errors.New("model: scene has no root node")
)

// Vertex is one interleaved mesh vertex.
type Vertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	TexCoord mgl32.Vec2
}

// Vertex attribute slots.
const (
	AttribPosition uint32 = 0
	AttribNormal   uint32 = 1
	AttribTexCoord uint32 = 2

	// AttribInstance is the first of four slots holding a per-instance
	// model matrix.
	AttribInstance uint32 = 3
)

// VertexLayout describes Vertex to the GPU.
var VertexLayout = gpu.Layout{
	Stride: 32,
	Attribs: []gpu.Attrib{
		{Slot: AttribPosition, Size: 3, Offset: 0},
		{Slot: AttribNormal, Size: 3, Offset: 12},
		{Slot: AttribTexCoord, Size: 2, Offset: 24},
	},
}

// Slot binds a texture kind to the sampler uniforms it fills. Textures of a
// kind are numbered from 1 and appended to Uniform, so the second diffuse
// texture goes to "material.texture_diffuse2".
type Slot struct {
	Kind    texture.Kind
	Uniform string
}

// DefaultSlots is the sampler naming the bundled shaders use.
var DefaultSlots = []Slot{
	{Kind: texture.Diffuse, Uniform: "material.texture_diffuse"},
	{Kind: texture.Specular, Uniform: "material.texture_specular"},
}

// Uniforms receives sampler unit assignments while drawing.
type Uniforms interface {
	SetInt(name string, v int32)
}

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// EmptyBounds returns inverted bounds that any point extends.
func EmptyBounds() Bounds {
	return Bounds{
		Min: mgl32.Vec3{1e10, 1e10, 1e10},
		Max: mgl32.Vec3{-1e10, -1e10, -1e10},
	}
}

// Empty reports whether no point has been added.
func (b Bounds) Empty() bool {
	return b.Min[0] > b.Max[0]
}

// Extend grows b to contain p.
func (b *Bounds) Extend(p mgl32.Vec3) {
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] {
			b.Min[i] = p[i]
		}
		if p[i] > b.Max[i] {
			b.Max[i] = p[i]
		}
	}
}

// Union grows b to contain o.
func (b *Bounds) Union(o Bounds) {
	if o.Empty() {
		return
	}
	b.Extend(o.Min)
	b.Extend(o.Max)
}

// Center returns the midpoint of the box.
func (b Bounds) Center() mgl32.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Size returns the edge lengths of the box.
func (b Bounds) Size() mgl32.Vec3 {
	return b.Max.Sub(b.Min)
}
