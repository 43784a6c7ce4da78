package importer

import (
	"bytes"
	"encoding/json"
	"image"
	"image/png"
	"path/filepath"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/ext/specular"
	"github.com/qmuntal/gltf/modeler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/learngl/internal/engine/texture"
)

var quadPositions = [][3]float32{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}}

// addQuad appends a one-primitive mesh and returns its index.
func addQuad(doc *gltf.Document, name string, material *uint32, withNormals, withUV bool) uint32 {
	attrs := map[string]uint32{
		"POSITION": modeler.WritePosition(doc, quadPositions),
	}
	if withNormals {
		attrs["NORMAL"] = modeler.WriteNormal(doc, [][3]float32{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}, {0, 0, 1}})
	}
	if withUV {
		attrs["TEXCOORD_0"] = modeler.WriteTextureCoord(doc, [][2]float32{{0, 0}, {1, 0}, {1, 1}, {0, 1}})
	}
	indices := modeler.WriteIndices(doc, []uint32{0, 1, 2, 0, 2, 3})

	doc.Meshes = append(doc.Meshes, &gltf.Mesh{
		Name: name,
		Primitives: []*gltf.Primitive{{
			Indices:    gltf.Index(indices),
			Attributes: attrs,
			Material:   material,
		}},
	})
	return uint32(len(doc.Meshes) - 1)
}

// treeDoc builds:
//
//	root (mesh a)
//	├── left (mesh b)
//	│   └── leaf (mesh a)
//	└── empty
func treeDoc() *gltf.Document {
	doc := gltf.NewDocument()
	a := addQuad(doc, "a", nil, true, true)
	b := addQuad(doc, "b", nil, false, false)

	doc.Nodes = []*gltf.Node{
		{Name: "root", Mesh: gltf.Index(a), Children: []uint32{1, 3}},
		{Name: "left", Mesh: gltf.Index(b), Children: []uint32{2}},
		{Name: "leaf", Mesh: gltf.Index(a)},
		{Name: "empty"},
	}
	doc.Scenes[0].Nodes = []uint32{0}
	return doc
}

func TestFromDocumentTree(t *testing.T) {
	scene, err := FromDocument(treeDoc())
	require.NoError(t, err)
	require.NotNil(t, scene.Root)
	assert.False(t, scene.Incomplete)
	assert.Len(t, scene.Meshes, 2)

	var names []string
	var meshes []int
	scene.Root.Walk(func(n *Node, depth int) {
		names = append(names, n.Name)
		meshes = append(meshes, n.Meshes...)
	})
	assert.Equal(t, []string{"root", "left", "leaf", "empty"}, names)
	assert.Equal(t, []int{0, 1, 0}, meshes)
}

func TestFromDocumentMeshRecord(t *testing.T) {
	scene, err := FromDocument(treeDoc())
	require.NoError(t, err)

	rec := scene.Meshes[0]
	assert.Equal(t, "a", rec.Name)
	assert.Equal(t, quadPositions, rec.Positions)
	assert.Equal(t, [][3]uint32{{0, 1, 2}, {0, 2, 3}}, rec.Faces)
	assert.Len(t, rec.TexCoords, 4)
	assert.Equal(t, -1, rec.Material)
	for _, n := range rec.Normals {
		assert.Equal(t, [3]float32{0, 0, 1}, n)
	}

	assert.Equal(t, 8, scene.VertexCount())
	assert.Equal(t, 4, scene.FaceCount())
}

func TestFromDocumentGeneratesNormals(t *testing.T) {
	scene, err := FromDocument(treeDoc())
	require.NoError(t, err)

	rec := scene.Meshes[1]
	assert.Nil(t, rec.TexCoords)
	require.Len(t, rec.Normals, len(rec.Positions))
	for _, n := range rec.Normals {
		assert.InDelta(t, 0, n[0], 1e-6)
		assert.InDelta(t, 0, n[1], 1e-6)
		assert.InDelta(t, 1, n[2], 1e-6)
	}
}

func TestFromDocumentMultipleRoots(t *testing.T) {
	doc := gltf.NewDocument()
	m := addQuad(doc, "m", nil, true, false)
	doc.Nodes = []*gltf.Node{
		{Name: "first", Mesh: gltf.Index(m)},
		{Name: "second", Mesh: gltf.Index(m)},
	}
	doc.Scenes[0].Nodes = []uint32{0, 1}

	scene, err := FromDocument(doc)
	require.NoError(t, err)
	require.NotNil(t, scene.Root)
	assert.Empty(t, scene.Root.Meshes)
	require.Len(t, scene.Root.Children, 2)
	assert.Equal(t, "first", scene.Root.Children[0].Name)
	assert.Equal(t, "second", scene.Root.Children[1].Name)
}

func TestFromDocumentIncomplete(t *testing.T) {
	doc := gltf.NewDocument()
	doc.Nodes = []*gltf.Node{{Name: "lonely"}}
	doc.Scenes[0].Nodes = []uint32{0}

	scene, err := FromDocument(doc)
	require.NoError(t, err)
	assert.True(t, scene.Incomplete)
	assert.NotNil(t, scene.Root)
}

func TestFromDocumentNoRoot(t *testing.T) {
	doc := gltf.NewDocument()
	addQuad(doc, "orphan", nil, true, false)

	scene, err := FromDocument(doc)
	require.NoError(t, err)
	assert.Nil(t, scene.Root)
}

func TestFromDocumentRejectsCycle(t *testing.T) {
	doc := gltf.NewDocument()
	doc.Nodes = []*gltf.Node{
		{Name: "a", Children: []uint32{1}},
		{Name: "b", Children: []uint32{0}},
	}
	doc.Scenes[0].Nodes = []uint32{0}

	_, err := FromDocument(doc)
	assert.Error(t, err)
}

func TestFromDocumentRejectsBadIndex(t *testing.T) {
	doc := gltf.NewDocument()
	pos := modeler.WritePosition(doc, quadPositions)
	idx := modeler.WriteIndices(doc, []uint32{0, 1, 9})
	doc.Meshes = []*gltf.Mesh{{Primitives: []*gltf.Primitive{{
		Indices:    gltf.Index(idx),
		Attributes: map[string]uint32{"POSITION": pos},
	}}}}

	_, err := FromDocument(doc)
	assert.Error(t, err)
}

func TestFromDocumentNonIndexedAndLines(t *testing.T) {
	doc := gltf.NewDocument()
	pos := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}})
	doc.Meshes = []*gltf.Mesh{{Primitives: []*gltf.Primitive{
		{Attributes: map[string]uint32{"POSITION": pos}},
		{Attributes: map[string]uint32{"POSITION": pos}, Mode: gltf.PrimitiveLines},
	}}}
	doc.Nodes = []*gltf.Node{{Mesh: gltf.Index(0)}}
	doc.Scenes[0].Nodes = []uint32{0}

	scene, err := FromDocument(doc)
	require.NoError(t, err)
	require.Len(t, scene.Meshes, 1)
	assert.Equal(t, 1, scene.Skipped)
	assert.Equal(t, [][3]uint32{{0, 1, 2}}, scene.Meshes[0].Faces)
	assert.Equal(t, []int{0}, scene.Root.Meshes)
}

func TestTriangulate(t *testing.T) {
	idx := []uint32{0, 1, 2, 3, 4}

	assert.Equal(t, [][3]uint32{{0, 1, 2}}, triangulate(gltf.PrimitiveTriangles, idx))
	assert.Equal(t, [][3]uint32{{0, 1, 2}, {2, 1, 3}, {2, 3, 4}}, triangulate(gltf.PrimitiveTriangleStrip, idx))
	assert.Equal(t, [][3]uint32{{0, 1, 2}, {0, 2, 3}, {0, 3, 4}}, triangulate(gltf.PrimitiveTriangleFan, idx))
	assert.Empty(t, triangulate(gltf.PrimitiveTriangleFan, idx[:2]))
}

func TestGenerateNormalsUnusedVertex(t *testing.T) {
	normals := generateNormals([][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 0, -1}, {5, 5, 5}}, [][3]uint32{{0, 1, 2}})
	assert.Equal(t, [3]float32{0, 1, 0}, normals[3])
	assert.InDelta(t, 1, normals[0][1], 1e-6)
}

func materialDoc(t *testing.T) *gltf.Document {
	t.Helper()
	doc := gltf.NewDocument()
	doc.Images = []*gltf.Image{
		{URI: "textures/crate%20diffuse.png"},
		{URI: "textures/crate_specular.png"},
	}
	doc.Textures = []*gltf.Texture{
		{Source: gltf.Index(0)},
		{Source: gltf.Index(1)},
	}
	return doc
}

func TestMaterialBaseColor(t *testing.T) {
	doc := materialDoc(t)
	doc.Materials = []*gltf.Material{{
		Name:                 "crate",
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{BaseColorTexture: &gltf.TextureInfo{Index: 0}},
	}}
	addQuad(doc, "box", gltf.Index(0), true, true)

	scene, err := FromDocument(doc)
	require.NoError(t, err)
	require.Len(t, scene.Materials, 1)

	mat := scene.Materials[0]
	assert.Equal(t, "crate", mat.Name)
	require.Len(t, mat.Textures[texture.Diffuse], 1)
	ref := mat.Textures[texture.Diffuse][0]
	assert.Equal(t, filepath.FromSlash("textures/crate diffuse.png"), ref.Path)
	assert.False(t, ref.Embedded())
	assert.Empty(t, mat.Textures[texture.Specular])
	assert.Equal(t, 0, scene.Meshes[0].Material)
}

func TestMaterialSpecularGlossiness(t *testing.T) {
	sg := &specular.PBRSpecularGlossiness{
		DiffuseTexture:            &gltf.TextureInfo{Index: 0},
		SpecularGlossinessTexture: &gltf.TextureInfo{Index: 1},
	}
	raw, err := json.Marshal(map[string]interface{}{
		"diffuseTexture":            map[string]int{"index": 0},
		"specularGlossinessTexture": map[string]int{"index": 1},
	})
	require.NoError(t, err)

	tests := []struct {
		name string
		ext  interface{}
	}{
		{"decoded", sg},
		{"raw", json.RawMessage(raw)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := materialDoc(t)
			doc.Materials = []*gltf.Material{{
				Extensions: gltf.Extensions{specular.ExtensionName: tt.ext},
			}}

			scene, err := FromDocument(doc)
			require.NoError(t, err)
			mat := scene.Materials[0]
			require.Len(t, mat.Textures[texture.Diffuse], 1)
			require.Len(t, mat.Textures[texture.Specular], 1)
			assert.Equal(t, filepath.FromSlash("textures/crate_specular.png"), mat.Textures[texture.Specular][0].Path)
		})
	}
}

func TestMaterialEmbeddedImage(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 1, 1))))

	doc := gltf.NewDocument()
	img, err := modeler.WriteImage(doc, "embedded", "image/png", bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	doc.Textures = []*gltf.Texture{{Source: gltf.Index(img)}}
	doc.Materials = []*gltf.Material{{
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{BaseColorTexture: &gltf.TextureInfo{Index: 0}},
	}}

	scene, err := FromDocument(doc)
	require.NoError(t, err)
	ref := scene.Materials[0].Textures[texture.Diffuse][0]
	assert.True(t, ref.Embedded())
	assert.Equal(t, buf.Bytes(), ref.Data)
	assert.Equal(t, "image/png", ref.MimeType)
	assert.Equal(t, int(img), ref.Image)
}

func TestMaterialBadTextureIndex(t *testing.T) {
	doc := materialDoc(t)
	doc.Materials = []*gltf.Material{{
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{BaseColorTexture: &gltf.TextureInfo{Index: 7}},
	}}

	_, err := FromDocument(doc)
	assert.Error(t, err)
}

func TestImportBinaryFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tree.glb")
	require.NoError(t, gltf.SaveBinary(treeDoc(), path))

	scene, err := GLTF{}.Import(path)
	require.NoError(t, err)
	assert.Len(t, scene.Meshes, 2)
	assert.Equal(t, "root", scene.Root.Name)
}

func TestImportErrors(t *testing.T) {
	_, err := GLTF{}.Import("model.obj")
	assert.Error(t, err)

	_, err = GLTF{}.Import(filepath.Join(t.TempDir(), "missing.gltf"))
	assert.Error(t, err)
}
