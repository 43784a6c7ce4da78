// Package shader compiles GLSL programs, sets their uniforms and watches
// shader sources for changes.
package shader

import (
	"fmt"
	"io/fs"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// Sources holds the GLSL text of each stage. Geometry is optional.
type Sources struct {
	Vertex   string
	Fragment string
	Geometry string
}

// Paths names the stage files of a program inside a file system. Geometry
// is optional.
type Paths struct {
	Vertex   string
	Fragment string
	Geometry string
}

// Files lists the non-empty paths.
func (p Paths) Files() []string {
	var out []string
	for _, f := range []string{p.Vertex, p.Fragment, p.Geometry} {
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

// Contains reports whether name is one of the stage files. name may be a
// longer path ending in one of them.
func (p Paths) Contains(name string) bool {
	name = strings.ReplaceAll(name, "\\", "/")
	for _, f := range p.Files() {
		if name == f || strings.HasSuffix(name, "/"+f) {
			return true
		}
	}
	return false
}

// ReadSources loads the stage files of p from fsys.
func ReadSources(fsys fs.FS, p Paths) (Sources, error) {
	var s Sources
	read := func(path string, dst *string) error {
		if path == "" {
			return nil
		}
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("read shader: %w", err)
		}
		*dst = string(data)
		return nil
	}
	if p.Vertex == "" || p.Fragment == "" {
		return s, fmt.Errorf("shader needs vertex and fragment stages")
	}
	if err := read(p.Vertex, &s.Vertex); err != nil {
		return s, err
	}
	if err := read(p.Fragment, &s.Fragment); err != nil {
		return s, err
	}
	if err := read(p.Geometry, &s.Geometry); err != nil {
		return s, err
	}
	return s, nil
}

// CompileProgram compiles the stages in src and links them into a program.
// Errors carry the driver's info log.
func CompileProgram(src Sources) (uint32, error) {
	stages := []struct {
		source string
		kind   uint32
		name   string
	}{
		{src.Vertex, gl.VERTEX_SHADER, "vertex"},
		{src.Fragment, gl.FRAGMENT_SHADER, "fragment"},
		{src.Geometry, gl.GEOMETRY_SHADER, "geometry"},
	}

	program := gl.CreateProgram()
	for _, st := range stages {
		if st.source == "" {
			continue
		}
		sh, err := compileShader(st.source, st.kind, st.name)
		if err != nil {
			gl.DeleteProgram(program)
			return 0, err
		}
		gl.AttachShader(program, sh)
		defer gl.DeleteShader(sh)
	}
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLen)
		log := infoLog(logLen, func(buf *uint8) {
			gl.GetProgramInfoLog(program, logLen, nil, buf)
		})
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("link: %s", log)
	}

	return program, nil
}

func compileShader(source string, shaderType uint32, name string) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csource, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csource, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := infoLog(logLen, func(buf *uint8) {
			gl.GetShaderInfoLog(shader, logLen, nil, buf)
		})
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("%s shader: %s", name, log)
	}

	return shader, nil
}

func infoLog(n int32, get func(*uint8)) string {
	if n <= 0 {
		return "(no info log)"
	}
	buf := make([]byte, n)
	get(&buf[0])
	return strings.TrimRight(string(buf), "\x00\n")
}
