// Package importer reads model files into a renderer-neutral scene graph.
package importer

import "github.com/Faultbox/learngl/internal/engine/texture"

// Importer parses a model file.
type Importer interface {
	Import(path string) (*Scene, error)
}

// Scene is an imported model. Node.Meshes and MeshRecord.Material index
// into Meshes and Materials.
type Scene struct {
	Root      *Node
	Meshes    []*MeshRecord
	Materials []*Material

	// Incomplete is set when the file parsed but holds no geometry.
	Incomplete bool

	// Skipped counts primitives dropped because they are not triangles.
	Skipped int
}

// Node is one node of the scene graph.
type Node struct {
	Name     string
	Meshes   []int
	Children []*Node
}

// MeshRecord is one triangulated surface.
type MeshRecord struct {
	Name      string
	Positions [][3]float32
	Normals   [][3]float32

	// TexCoords is the first texture coordinate set, or nil.
	TexCoords [][2]float32

	Faces [][3]uint32

	// Material is an index into Scene.Materials, or -1.
	Material int
}

// Material lists the textures a mesh samples, by kind, in slot order.
type Material struct {
	Name     string
	Textures map[texture.Kind][]TextureRef
}

// TextureRef points at an image file relative to the model, or carries the
// encoded image when it is embedded in the model file.
type TextureRef struct {
	Path string

	// Image is the image index within the model file.
	Image    int
	Data     []byte
	MimeType string
}

// Embedded reports whether the image bytes came from the model file.
func (r TextureRef) Embedded() bool {
	return r.Data != nil
}

// Walk visits n and its descendants in pre-order.
func (n *Node) Walk(fn func(n *Node, depth int)) {
	n.walk(fn, 0)
}

func (n *Node) walk(fn func(*Node, int), depth int) {
	fn(n, depth)
	for _, c := range n.Children {
		c.walk(fn, depth+1)
	}
}

// VertexCount returns the total vertex count across meshes.
func (s *Scene) VertexCount() int {
	n := 0
	for _, m := range s.Meshes {
		n += len(m.Positions)
	}
	return n
}

// FaceCount returns the total triangle count across meshes.
func (s *Scene) FaceCount() int {
	n := 0
	for _, m := range s.Meshes {
		n += len(m.Faces)
	}
	return n
}
