package model

import (
	"context"
	"fmt"
	"path/filepath"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/learngl/internal/engine/gpu"
	"github.com/Faultbox/learngl/internal/engine/importer"
	"github.com/Faultbox/learngl/internal/engine/texture"
)

// Loader turns model files into uploaded Models. Textures go through the
// shared Textures cache so that a path is uploaded once per session.
type Loader struct {
	Importer importer.Importer
	Textures *texture.Cache
	Device   gpu.Device

	// Slots lists the texture kinds collected from materials, in binding
	// order. Nil means DefaultSlots.
	Slots []Slot

	// Prefetch decodes every referenced texture file in parallel before
	// building meshes.
	Prefetch bool

	Log *zap.Logger
}

func (l *Loader) slots() []Slot {
	if l.Slots == nil {
		return DefaultSlots
	}
	return l.Slots
}

func (l *Loader) log() *zap.Logger {
	if l.Log == nil {
		return zap.NewNop()
	}
	return l.Log
}

// Load is LoadContext with a background context.
func (l *Loader) Load(path string) (*Model, error) {
	return l.LoadContext(context.Background(), path)
}

// LoadContext imports path and builds one Mesh per mesh reference found by
// a pre-order walk of the scene graph.
//
// The returned Model is never nil. When the file cannot be imported or the
// scene is incomplete or has no root, it is empty and the error is
// returned. Under the texture.Skip policy failed textures are left out and
// the model is returned together with their combined errors.
func (l *Loader) LoadContext(ctx context.Context, path string) (*Model, error) {
	m := &Model{
		Path:      path,
		Directory: filepath.Dir(path),
		dev:       l.Device,
	}
	log := l.log().With(zap.String("path", path))

	scene, err := l.Importer.Import(path)
	if err != nil {
		log.Error("model import failed", zap.Error(err))
		return m, fmt.Errorf("import %s: %w", path, err)
	}
	if scene.Incomplete {
		log.Error("model scene incomplete")
		return m, fmt.Errorf("%s: %w", path, ErrIncompleteScene)
	}
	if scene.Root == nil {
		log.Error("model scene has no root node")
		return m, fmt.Errorf("%s: %w", path, ErrNoRootNode)
	}

	if l.Prefetch && l.Textures != nil {
		paths := l.texturePaths(m, scene)
		defer l.Textures.DropPrefetched(paths)
		if err := l.Textures.Prefetch(ctx, paths); err != nil {
			return m, err
		}
	}

	b := &builder{loader: l, model: m, scene: scene}
	if err := b.processNode(scene.Root); err != nil {
		m.Close()
		m.Meshes = nil
		log.Error("model load failed", zap.Error(err))
		return m, err
	}

	log.Info("model loaded",
		zap.Int("meshes", len(m.Meshes)),
		zap.Int("vertices", m.VertexCount()),
		zap.Int("skipped_primitives", scene.Skipped))
	if b.textureErrs != nil {
		log.Warn("model loaded with missing textures", zap.Error(b.textureErrs))
	}
	return m, b.textureErrs
}

// texturePaths lists the external texture files the scene's materials use.
func (l *Loader) texturePaths(m *Model, scene *importer.Scene) []string {
	var paths []string
	for _, mat := range scene.Materials {
		for _, slot := range l.slots() {
			for _, ref := range mat.Textures[slot.Kind] {
				if !ref.Embedded() {
					paths = append(paths, filepath.Join(m.Directory, ref.Path))
				}
			}
		}
	}
	return paths
}

type builder struct {
	loader      *Loader
	model       *Model
	scene       *importer.Scene
	textureErrs error
}

func (b *builder) processNode(n *importer.Node) error {
	for _, idx := range n.Meshes {
		if idx < 0 || idx >= len(b.scene.Meshes) {
			return fmt.Errorf("node %q references mesh %d of %d", n.Name, idx, len(b.scene.Meshes))
		}
		mesh, err := b.processMesh(b.scene.Meshes[idx])
		if err != nil {
			return fmt.Errorf("mesh %d (%s): %w", idx, b.scene.Meshes[idx].Name, err)
		}
		b.model.Meshes = append(b.model.Meshes, mesh)
	}
	for _, child := range n.Children {
		if err := b.processNode(child); err != nil {
			return err
		}
	}
	return nil
}

func (b *builder) processMesh(rec *importer.MeshRecord) (*Mesh, error) {
	vertices := make([]Vertex, len(rec.Positions))
	for i := range rec.Positions {
		vertices[i].Position = rec.Positions[i]
		if i < len(rec.Normals) {
			vertices[i].Normal = rec.Normals[i]
		}
		if rec.TexCoords != nil && i < len(rec.TexCoords) {
			vertices[i].TexCoord = rec.TexCoords[i]
		}
	}

	indices := make([]uint32, 0, len(rec.Faces)*3)
	for _, f := range rec.Faces {
		indices = append(indices, f[0], f[1], f[2])
	}

	var textures []*texture.Texture
	if rec.Material >= 0 && rec.Material < len(b.scene.Materials) {
		var err error
		textures, err = b.materialTextures(b.scene.Materials[rec.Material])
		if err != nil {
			return nil, err
		}
	}

	mesh, err := NewMesh(b.loader.Device, vertices, indices, textures)
	if err != nil {
		return nil, err
	}
	mesh.Slots = b.loader.Slots
	return mesh, nil
}

// materialTextures resolves the textures of mat slot by slot.
func (b *builder) materialTextures(mat *importer.Material) ([]*texture.Texture, error) {
	if b.loader.Textures == nil {
		return nil, nil
	}
	var out []*texture.Texture
	for _, slot := range b.loader.slots() {
		for _, ref := range mat.Textures[slot.Kind] {
			tex, err := b.loadTexture(ref, slot.Kind)
			if err != nil {
				if b.loader.Textures.Policy() == texture.Abort {
					return nil, err
				}
				b.textureErrs = multierr.Append(b.textureErrs, err)
				continue
			}
			out = append(out, tex)
		}
	}
	return out, nil
}

func (b *builder) loadTexture(ref importer.TextureRef, kind texture.Kind) (*texture.Texture, error) {
	if ref.Embedded() {
		key := fmt.Sprintf("%s#image%d", b.model.Path, ref.Image)
		return b.loader.Textures.LoadData(key, ref.Data, kind)
	}
	return b.loader.Textures.Load(filepath.Join(b.model.Directory, ref.Path), kind)
}
