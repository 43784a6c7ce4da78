package model

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/learngl/internal/engine/gpu"
)

// Model is the meshes of one loaded file, in scene-graph pre-order.
type Model struct {
	Path string

	// Directory is where relative texture paths are resolved.
	Directory string

	Meshes []*Mesh

	dev       gpu.Device
	instances uint32
	count     int32
}

// Draw draws every mesh in order.
func (m *Model) Draw(ctx *gpu.Context, u Uniforms) {
	for _, mesh := range m.Meshes {
		mesh.Draw(ctx, u)
	}
}

// SetInstances uploads one model matrix per instance and attaches it to
// every mesh at AttribInstance, replacing earlier instance data.
func (m *Model) SetInstances(matrices []mgl32.Mat4) error {
	if len(m.Meshes) == 0 {
		return fmt.Errorf("model %s has no meshes", m.Path)
	}
	vaos := make([]uint32, 0, len(m.Meshes))
	for _, mesh := range m.Meshes {
		vaos = append(vaos, mesh.VertexArray())
	}

	id, err := m.dev.CreateInstanceBuffer(gpu.Bytes(matrices), AttribInstance, vaos)
	if err != nil {
		return fmt.Errorf("upload instances: %w", err)
	}
	if m.instances != 0 {
		m.dev.DeleteBuffer(m.instances)
	}
	m.instances = id
	m.count = int32(len(matrices))
	return nil
}

// Instances returns the number of instances set by SetInstances.
func (m *Model) Instances() int32 {
	return m.count
}

// DrawInstanced draws every mesh once per instance set by SetInstances.
func (m *Model) DrawInstanced(ctx *gpu.Context, u Uniforms) {
	if m.count == 0 {
		return
	}
	for _, mesh := range m.Meshes {
		mesh.DrawInstanced(ctx, u, m.count)
	}
}

// Bounds returns the union of the mesh bounds.
func (m *Model) Bounds() Bounds {
	b := EmptyBounds()
	for _, mesh := range m.Meshes {
		b.Union(mesh.Bounds())
	}
	return b
}

// VertexCount returns the vertex count over all meshes.
func (m *Model) VertexCount() int {
	n := 0
	for _, mesh := range m.Meshes {
		n += len(mesh.Vertices)
	}
	return n
}

// Close releases mesh buffers and instance data. Textures stay alive until
// their cache is closed.
func (m *Model) Close() {
	for _, mesh := range m.Meshes {
		mesh.Close()
	}
	if m.instances != 0 {
		m.dev.DeleteBuffer(m.instances)
		m.instances = 0
		m.count = 0
	}
}
