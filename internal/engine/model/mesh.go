package model

import (
	"fmt"
	"strconv"

	"github.com/Faultbox/learngl/internal/engine/gpu"
	"github.com/Faultbox/learngl/internal/engine/texture"
)

// Mesh is indexed triangle geometry with its textures, uploaded once on
// creation.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
	Textures []*texture.Texture

	// Slots maps texture kinds to sampler uniforms. Nil means DefaultSlots.
	Slots []Slot

	dev     gpu.Device
	buffers gpu.MeshBuffers
	bounds  Bounds
}

// NewMesh validates the geometry and uploads it. Every index must refer to
// an existing vertex.
func NewMesh(dev gpu.Device, vertices []Vertex, indices []uint32, textures []*texture.Texture) (*Mesh, error) {
	if len(vertices) == 0 {
		return nil, fmt.Errorf("mesh has no vertices")
	}
	if len(indices) == 0 {
		return nil, fmt.Errorf("mesh has no indices")
	}
	for _, i := range indices {
		if int(i) >= len(vertices) {
			return nil, fmt.Errorf("index %d out of range for %d vertices", i, len(vertices))
		}
	}

	m := &Mesh{
		Vertices: vertices,
		Indices:  indices,
		Textures: textures,
		dev:      dev,
		bounds:   EmptyBounds(),
	}
	for _, v := range vertices {
		m.bounds.Extend(v.Position)
	}
	if err := m.setup(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Mesh) setup() error {
	b, err := m.dev.CreateMesh(VertexLayout, gpu.Bytes(m.Vertices), m.Indices)
	if err != nil {
		return fmt.Errorf("upload mesh: %w", err)
	}
	m.buffers = b
	return nil
}

// VertexArray returns the vertex array object, or 0 after Close.
func (m *Mesh) VertexArray() uint32 {
	return m.buffers.VAO
}

// Bounds returns the bounding box of the vertices.
func (m *Mesh) Bounds() Bounds {
	return m.bounds
}

// bindTextures binds texture i to unit i and points the matching numbered
// sampler uniform at it. Textures whose kind has no slot are left unbound.
func (m *Mesh) bindTextures(ctx *gpu.Context, u Uniforms) {
	slots := m.Slots
	if slots == nil {
		slots = DefaultSlots
	}
	counts := make(map[texture.Kind]int, len(slots))
	for i, tex := range m.Textures {
		uniform := ""
		for _, s := range slots {
			if s.Kind == tex.Kind {
				uniform = s.Uniform
				break
			}
		}
		if uniform == "" {
			continue
		}
		counts[tex.Kind]++
		ctx.BindTexture(i, gpu.Texture2D, tex.ID)
		u.SetInt(uniform+strconv.Itoa(counts[tex.Kind]), int32(i))
	}
}

// Draw binds the mesh textures and issues one indexed draw. The program
// must already be in use; bindings are left in place afterwards.
func (m *Mesh) Draw(ctx *gpu.Context, u Uniforms) {
	m.bindTextures(ctx, u)
	ctx.BindVertexArray(m.buffers.VAO)
	ctx.DrawElements(m.buffers.IndexCount)
	ctx.BindVertexArray(0)
}

// DrawInstanced is Draw for count instances.
func (m *Mesh) DrawInstanced(ctx *gpu.Context, u Uniforms, count int32) {
	m.bindTextures(ctx, u)
	ctx.BindVertexArray(m.buffers.VAO)
	ctx.DrawElementsInstanced(m.buffers.IndexCount, count)
	ctx.BindVertexArray(0)
}

// Close releases the GPU buffers. Shared textures are owned by their cache.
// Close is idempotent.
func (m *Mesh) Close() {
	if m.buffers.VAO == 0 && m.buffers.VBO == 0 && m.buffers.EBO == 0 {
		return
	}
	m.dev.DeleteMesh(&m.buffers)
}
