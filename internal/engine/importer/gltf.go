package importer

import (
	"encoding/json"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/ext/specular"
	"github.com/qmuntal/gltf/modeler"

	"github.com/Faultbox/learngl/internal/engine/texture"
)

// GLTF imports .gltf and .glb files.
type GLTF struct{}

// Import opens path, loading external buffers relative to it.
func (GLTF) Import(path string) (*Scene, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gltf", ".glb":
	default:
		return nil, errors.Errorf("unsupported model format %q", filepath.Ext(path))
	}

	doc, err := gltf.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read gltf %q", path)
	}
	return FromDocument(doc)
}

// FromDocument converts a decoded glTF document. Each primitive becomes
// one MeshRecord; a node referencing a glTF mesh lists all of its records.
func FromDocument(doc *gltf.Document) (*Scene, error) {
	b := &sceneBuilder{
		doc:      doc,
		scene:    &Scene{},
		records:  make(map[uint32][]int),
		visiting: make(map[uint32]bool),
	}

	for i := range doc.Materials {
		mat, err := b.material(doc.Materials[i])
		if err != nil {
			return nil, errors.Wrapf(err, "material %d", i)
		}
		b.scene.Materials = append(b.scene.Materials, mat)
	}

	for i, mesh := range doc.Meshes {
		for j, prim := range mesh.Primitives {
			rec, err := b.primitive(mesh, prim)
			if err != nil {
				return nil, errors.Wrapf(err, "mesh %d primitive %d", i, j)
			}
			if rec == nil {
				b.scene.Skipped++
				continue
			}
			b.records[uint32(i)] = append(b.records[uint32(i)], len(b.scene.Meshes))
			b.scene.Meshes = append(b.scene.Meshes, rec)
		}
	}
	b.scene.Incomplete = len(doc.Meshes) == 0

	root, err := b.root()
	if err != nil {
		return nil, err
	}
	b.scene.Root = root
	return b.scene, nil
}

type sceneBuilder struct {
	doc      *gltf.Document
	scene    *Scene
	records  map[uint32][]int
	visiting map[uint32]bool
}

// root builds the node tree of the default scene. Several root nodes are
// grouped under an unnamed parent.
func (b *sceneBuilder) root() (*Node, error) {
	if len(b.doc.Scenes) == 0 {
		return nil, nil
	}
	idx := uint32(0)
	if b.doc.Scene != nil {
		idx = *b.doc.Scene
	}
	if int(idx) >= len(b.doc.Scenes) {
		return nil, errors.Errorf("default scene %d out of range", idx)
	}
	sc := b.doc.Scenes[idx]

	var roots []*Node
	for _, n := range sc.Nodes {
		node, err := b.node(n)
		if err != nil {
			return nil, err
		}
		roots = append(roots, node)
	}

	switch len(roots) {
	case 0:
		return nil, nil
	case 1:
		return roots[0], nil
	default:
		return &Node{Name: sc.Name, Children: roots}, nil
	}
}

func (b *sceneBuilder) node(idx uint32) (*Node, error) {
	if int(idx) >= len(b.doc.Nodes) {
		return nil, errors.Errorf("node %d out of range", idx)
	}
	if b.visiting[idx] {
		return nil, errors.Errorf("node %d is its own ancestor", idx)
	}
	b.visiting[idx] = true
	defer delete(b.visiting, idx)

	src := b.doc.Nodes[idx]
	n := &Node{Name: src.Name}
	if src.Mesh != nil {
		n.Meshes = append(n.Meshes, b.records[*src.Mesh]...)
	}
	for _, c := range src.Children {
		child, err := b.node(c)
		if err != nil {
			return nil, err
		}
		n.Children = append(n.Children, child)
	}
	return n, nil
}

func (b *sceneBuilder) accessor(idx uint32) (*gltf.Accessor, error) {
	if int(idx) >= len(b.doc.Accessors) {
		return nil, errors.Errorf("accessor %d out of range", idx)
	}
	return b.doc.Accessors[idx], nil
}

// primitive extracts one primitive. It returns nil for point and line
// primitives.
func (b *sceneBuilder) primitive(mesh *gltf.Mesh, prim *gltf.Primitive) (*MeshRecord, error) {
	switch prim.Mode {
	case gltf.PrimitiveTriangles, gltf.PrimitiveTriangleStrip, gltf.PrimitiveTriangleFan:
	default:
		return nil, nil
	}

	posIdx, ok := prim.Attributes["POSITION"]
	if !ok {
		return nil, errors.New("primitive has no POSITION attribute")
	}
	acr, err := b.accessor(posIdx)
	if err != nil {
		return nil, err
	}
	positions, err := modeler.ReadPosition(b.doc, acr, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read positions")
	}

	rec := &MeshRecord{
		Name:      mesh.Name,
		Positions: positions,
		Material:  -1,
	}
	if prim.Material != nil {
		if int(*prim.Material) >= len(b.doc.Materials) {
			return nil, errors.Errorf("material %d out of range", *prim.Material)
		}
		rec.Material = int(*prim.Material)
	}

	var indices []uint32
	if prim.Indices != nil {
		acr, err := b.accessor(*prim.Indices)
		if err != nil {
			return nil, err
		}
		indices, err = modeler.ReadIndices(b.doc, acr, nil)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read indices")
		}
	} else {
		indices = make([]uint32, len(positions))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}
	for _, i := range indices {
		if int(i) >= len(positions) {
			return nil, errors.Errorf("index %d out of range for %d vertices", i, len(positions))
		}
	}
	rec.Faces = triangulate(prim.Mode, indices)

	if idx, ok := prim.Attributes["NORMAL"]; ok {
		acr, err := b.accessor(idx)
		if err != nil {
			return nil, err
		}
		rec.Normals, err = modeler.ReadNormal(b.doc, acr, nil)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read normals")
		}
		if len(rec.Normals) != len(positions) {
			return nil, errors.Errorf("%d normals for %d vertices", len(rec.Normals), len(positions))
		}
	} else {
		rec.Normals = generateNormals(positions, rec.Faces)
	}

	if idx, ok := prim.Attributes["TEXCOORD_0"]; ok {
		acr, err := b.accessor(idx)
		if err != nil {
			return nil, err
		}
		rec.TexCoords, err = modeler.ReadTextureCoord(b.doc, acr, nil)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read texture coordinates")
		}
		if len(rec.TexCoords) != len(positions) {
			return nil, errors.Errorf("%d texture coordinates for %d vertices", len(rec.TexCoords), len(positions))
		}
	}

	return rec, nil
}

// triangulate turns an index list of the given mode into triangles.
// Trailing indices that do not complete a triangle are dropped.
func triangulate(mode gltf.PrimitiveMode, indices []uint32) [][3]uint32 {
	var faces [][3]uint32
	switch mode {
	case gltf.PrimitiveTriangleStrip:
		for i := 0; i+2 < len(indices); i++ {
			if i%2 == 0 {
				faces = append(faces, [3]uint32{indices[i], indices[i+1], indices[i+2]})
			} else {
				faces = append(faces, [3]uint32{indices[i+1], indices[i], indices[i+2]})
			}
		}
	case gltf.PrimitiveTriangleFan:
		for i := 1; i+1 < len(indices); i++ {
			faces = append(faces, [3]uint32{indices[0], indices[i], indices[i+1]})
		}
	default:
		for i := 0; i+2 < len(indices); i += 3 {
			faces = append(faces, [3]uint32{indices[i], indices[i+1], indices[i+2]})
		}
	}
	return faces
}

// generateNormals averages area-weighted face normals per vertex.
// Vertices used by no face get +Y.
func generateNormals(positions [][3]float32, faces [][3]uint32) [][3]float32 {
	sums := make([]mgl32.Vec3, len(positions))
	for _, f := range faces {
		p0 := mgl32.Vec3(positions[f[0]])
		p1 := mgl32.Vec3(positions[f[1]])
		p2 := mgl32.Vec3(positions[f[2]])
		n := p1.Sub(p0).Cross(p2.Sub(p0))
		for _, i := range f {
			sums[i] = sums[i].Add(n)
		}
	}

	normals := make([][3]float32, len(positions))
	for i, s := range sums {
		if s.Len() < 1e-8 {
			normals[i] = [3]float32{0, 1, 0}
			continue
		}
		normals[i] = s.Normalize()
	}
	return normals
}

func (b *sceneBuilder) material(src *gltf.Material) (*Material, error) {
	mat := &Material{
		Name:     src.Name,
		Textures: make(map[texture.Kind][]TextureRef),
	}

	add := func(kind texture.Kind, info *gltf.TextureInfo) error {
		if info == nil {
			return nil
		}
		ref, err := b.textureRef(info.Index)
		if err != nil {
			return errors.Wrapf(err, "%s texture", kind)
		}
		mat.Textures[kind] = append(mat.Textures[kind], ref)
		return nil
	}

	if pbr := src.PBRMetallicRoughness; pbr != nil {
		if err := add(texture.Diffuse, pbr.BaseColorTexture); err != nil {
			return nil, err
		}
	}

	sg, err := specularGlossiness(src.Extensions)
	if err != nil {
		return nil, err
	}
	if sg != nil {
		if len(mat.Textures[texture.Diffuse]) == 0 {
			if err := add(texture.Diffuse, sg.DiffuseTexture); err != nil {
				return nil, err
			}
		}
		if err := add(texture.Specular, sg.SpecularGlossinessTexture); err != nil {
			return nil, err
		}
	}
	return mat, nil
}

// specularGlossiness returns the KHR_materials_pbrSpecularGlossiness
// extension of a material, or nil.
func specularGlossiness(ext gltf.Extensions) (*specular.PBRSpecularGlossiness, error) {
	v, ok := ext[specular.ExtensionName]
	if !ok {
		return nil, nil
	}
	switch sg := v.(type) {
	case *specular.PBRSpecularGlossiness:
		return sg, nil
	case json.RawMessage:
		out := new(specular.PBRSpecularGlossiness)
		if err := json.Unmarshal(sg, out); err != nil {
			return nil, errors.Wrapf(err, "failed to decode %s", specular.ExtensionName)
		}
		return out, nil
	default:
		return nil, errors.Errorf("unexpected %s value %T", specular.ExtensionName, v)
	}
}

func (b *sceneBuilder) textureRef(idx uint32) (TextureRef, error) {
	if int(idx) >= len(b.doc.Textures) {
		return TextureRef{}, errors.Errorf("texture %d out of range", idx)
	}
	tex := b.doc.Textures[idx]
	if tex.Source == nil {
		return TextureRef{}, errors.Errorf("texture %d has no image", idx)
	}
	imgIdx := *tex.Source
	if int(imgIdx) >= len(b.doc.Images) {
		return TextureRef{}, errors.Errorf("image %d out of range", imgIdx)
	}
	img := b.doc.Images[imgIdx]
	ref := TextureRef{Image: int(imgIdx), MimeType: img.MimeType}

	switch {
	case img.BufferView != nil:
		data, err := b.bufferView(*img.BufferView)
		if err != nil {
			return TextureRef{}, errors.Wrapf(err, "image %d", imgIdx)
		}
		ref.Data = data
	case img.IsEmbeddedResource():
		data, err := img.MarshalData()
		if err != nil {
			return TextureRef{}, errors.Wrapf(err, "image %d", imgIdx)
		}
		ref.Data = data
	default:
		p, err := url.PathUnescape(img.URI)
		if err != nil {
			p = img.URI
		}
		ref.Path = filepath.FromSlash(p)
	}
	return ref, nil
}

func (b *sceneBuilder) bufferView(idx uint32) ([]byte, error) {
	if int(idx) >= len(b.doc.BufferViews) {
		return nil, fmt.Errorf("buffer view %d out of range", idx)
	}
	bv := b.doc.BufferViews[idx]
	if int(bv.Buffer) >= len(b.doc.Buffers) {
		return nil, fmt.Errorf("buffer %d out of range", bv.Buffer)
	}
	data := b.doc.Buffers[bv.Buffer].Data
	end := int(bv.ByteOffset) + int(bv.ByteLength)
	if end > len(data) {
		return nil, fmt.Errorf("buffer view %d exceeds buffer", idx)
	}
	return data[bv.ByteOffset:end], nil
}
