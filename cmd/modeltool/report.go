package main

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Faultbox/learngl/internal/engine/importer"
	"github.com/Faultbox/learngl/internal/engine/texture"
)

func printInfo(w io.Writer, path string, scene *importer.Scene) {
	nodes := 0
	if scene.Root != nil {
		scene.Root.Walk(func(*importer.Node, int) { nodes++ })
	}
	fmt.Fprintf(w, "Model:     %s\n", path)
	fmt.Fprintf(w, "Nodes:     %d\n", nodes)
	fmt.Fprintf(w, "Meshes:    %d\n", len(scene.Meshes))
	fmt.Fprintf(w, "Vertices:  %d\n", scene.VertexCount())
	fmt.Fprintf(w, "Faces:     %d\n", scene.FaceCount())
	fmt.Fprintf(w, "Materials: %d\n", len(scene.Materials))
	if scene.Skipped > 0 {
		fmt.Fprintf(w, "Skipped:   %d non-triangle primitives\n", scene.Skipped)
	}
	if scene.Incomplete {
		fmt.Fprintln(w, "Warning:   scene is incomplete")
	}
}

func printTree(w io.Writer, scene *importer.Scene) {
	if scene.Root == nil {
		fmt.Fprintln(w, "(no root node)")
		return
	}
	scene.Root.Walk(func(n *importer.Node, depth int) {
		name := n.Name
		if name == "" {
			name = "(unnamed)"
		}
		fmt.Fprintf(w, "%s%s", strings.Repeat("  ", depth), name)
		for _, mi := range n.Meshes {
			rec := scene.Meshes[mi]
			fmt.Fprintf(w, " [mesh %d: %d verts, %d faces]", mi, len(rec.Positions), len(rec.Faces))
		}
		fmt.Fprintln(w)
	})
}

// printTextures lists every texture reference. With a non-nil read it also
// decodes each file texture and returns the number that failed.
func printTextures(w io.Writer, dir string, scene *importer.Scene, read func(string) ([]byte, error)) int {
	failed := 0
	for i, mat := range scene.Materials {
		fmt.Fprintf(w, "material %d %q\n", i, mat.Name)

		kinds := make([]string, 0, len(mat.Textures))
		for k := range mat.Textures {
			kinds = append(kinds, string(k))
		}
		sort.Strings(kinds)

		for _, k := range kinds {
			for _, ref := range mat.Textures[texture.Kind(k)] {
				if ref.Embedded() {
					fmt.Fprintf(w, "  %-9s embedded image %d (%s, %d bytes)\n", k, ref.Image, ref.MimeType, len(ref.Data))
					continue
				}
				path := filepath.Join(dir, ref.Path)
				status := ""
				if read != nil {
					status = "  ok"
					data, err := read(path)
					if err == nil {
						err = decodeCheck(data, path)
					}
					if err != nil {
						status = "  FAILED: " + err.Error()
						failed++
					}
				}
				fmt.Fprintf(w, "  %-9s %s%s\n", k, path, status)
			}
		}
	}
	return failed
}

func decodeCheck(data []byte, name string) error {
	img, err := texture.Decode(data, name, false)
	if err != nil {
		return err
	}
	return img.Validate()
}

// sceneSummary is the dump view of a scene without raw vertex arrays.
type sceneSummary struct {
	Root      *importer.Node
	Meshes    []meshSummary
	Materials []*importer.Material
}

type meshSummary struct {
	Name     string
	Vertices int
	Faces    int
	HasUVs   bool
	Material int
}

func summarize(scene *importer.Scene) sceneSummary {
	s := sceneSummary{Root: scene.Root, Materials: scene.Materials}
	for _, m := range scene.Meshes {
		s.Meshes = append(s.Meshes, meshSummary{
			Name:     m.Name,
			Vertices: len(m.Positions),
			Faces:    len(m.Faces),
			HasUVs:   m.TexCoords != nil,
			Material: m.Material,
		})
	}
	return s
}
