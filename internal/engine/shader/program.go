package shader

import (
	"fmt"
	"io/fs"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/learngl/internal/engine/gpu"
)

// Program is a linked shader program built from files in an fs.FS, with
// cached uniform locations.
type Program struct {
	Name  string
	paths Paths
	fsys  fs.FS

	id        uint32
	locations map[string]int32
}

// Load reads and compiles a program.
func Load(fsys fs.FS, name string, p Paths) (*Program, error) {
	prog := &Program{Name: name, paths: p, fsys: fsys}
	id, err := prog.compile()
	if err != nil {
		return nil, err
	}
	prog.id = id
	prog.locations = make(map[string]int32)
	return prog, nil
}

func (p *Program) compile() (uint32, error) {
	src, err := ReadSources(p.fsys, p.paths)
	if err != nil {
		return 0, fmt.Errorf("shader %s: %w", p.Name, err)
	}
	id, err := CompileProgram(src)
	if err != nil {
		return 0, fmt.Errorf("shader %s: %w", p.Name, err)
	}
	return id, nil
}

// Reload recompiles from the source files. On failure the previous
// program stays in use and the error is returned.
func (p *Program) Reload() error {
	id, err := p.compile()
	if err != nil {
		return err
	}
	gl.DeleteProgram(p.id)
	p.id = id
	p.locations = make(map[string]int32)
	return nil
}

// Paths returns the stage files of the program.
func (p *Program) Paths() Paths {
	return p.paths
}

// ID returns the GL program name.
func (p *Program) ID() uint32 {
	return p.id
}

// Use makes the program current on ctx.
func (p *Program) Use(ctx *gpu.Context) {
	ctx.UseProgram(p.id)
}

// Delete releases the program.
func (p *Program) Delete() {
	if p.id != 0 {
		gl.DeleteProgram(p.id)
		p.id = 0
	}
}

func (p *Program) location(name string) int32 {
	loc, ok := p.locations[name]
	if !ok {
		loc = gl.GetUniformLocation(p.id, gl.Str(name+"\x00"))
		p.locations[name] = loc
	}
	return loc
}

// Uniform setters apply to the program, which must be current. Names the
// program does not use are ignored.

func (p *Program) SetBool(name string, v bool) {
	var i int32
	if v {
		i = 1
	}
	p.SetInt(name, i)
}

func (p *Program) SetInt(name string, v int32) {
	if loc := p.location(name); loc >= 0 {
		gl.Uniform1i(loc, v)
	}
}

func (p *Program) SetFloat(name string, v float32) {
	if loc := p.location(name); loc >= 0 {
		gl.Uniform1f(loc, v)
	}
}

func (p *Program) SetVec2(name string, v mgl32.Vec2) {
	if loc := p.location(name); loc >= 0 {
		gl.Uniform2f(loc, v[0], v[1])
	}
}

func (p *Program) SetVec3(name string, v mgl32.Vec3) {
	if loc := p.location(name); loc >= 0 {
		gl.Uniform3f(loc, v[0], v[1], v[2])
	}
}

func (p *Program) SetMat4(name string, m mgl32.Mat4) {
	if loc := p.location(name); loc >= 0 {
		gl.UniformMatrix4fv(loc, 1, false, &m[0])
	}
}

// SetFloats sets a float array uniform such as a convolution kernel.
func (p *Program) SetFloats(name string, v []float32) {
	if len(v) == 0 {
		return
	}
	if loc := p.location(name); loc >= 0 {
		gl.Uniform1fv(loc, int32(len(v)), &v[0])
	}
}
