package demo

import (
	"io/fs"
	"sort"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/learngl/internal/engine/shader"
)

// reloadable is the part of a program hot reload needs.
type reloadable interface {
	Paths() shader.Paths
	Reload() error
	Delete()
}

// Programs loads shader programs by name and keeps them for hot reload.
type Programs struct {
	fsys  fs.FS
	log   *zap.Logger
	progs map[string]*shader.Program
}

// NewPrograms creates a registry reading sources from fsys.
func NewPrograms(fsys fs.FS, log *zap.Logger) *Programs {
	return &Programs{fsys: fsys, log: log, progs: make(map[string]*shader.Program)}
}

// Load compiles name.vs and name.fs once
// and returns the shared program afterwards.
func (p *Programs) Load(name string) (*shader.Program, error) {
	if prog, ok := p.progs[name]; ok {
		return prog, nil
	}
	prog, err := shader.Load(p.fsys, name, shaderPaths(name))
	if err != nil {
		return nil, err
	}
	p.progs[name] = prog
	p.log.Debug("shader program loaded", zap.String("name", name), zap.Uint32("id", prog.ID()))
	return prog, nil
}

func shaderPaths(name string) shader.Paths {
	return shader.Paths{Vertex: name + ".vs", Fragment: name + ".fs"}
}

// Reload recompiles every program using one of the changed files.
func (p *Programs) Reload(changed []string) error {
	return reloadChanged(p.progs, changed, p.log)
}

// Close deletes every program.
func (p *Programs) Close() {
	for name, prog := range p.progs {
		prog.Delete()
		delete(p.progs, name)
	}
}

// reloadChanged reloads the programs reading any changed file, in name
// order. Failed programs keep their previous binary.
func reloadChanged[P reloadable](progs map[string]P, changed []string, log *zap.Logger) error {
	names := make([]string, 0, len(progs))
	for name := range progs {
		names = append(names, name)
	}
	sort.Strings(names)

	var errs error
	for _, name := range names {
		prog := progs[name]
		if !touches(prog.Paths(), changed) {
			continue
		}
		if err := prog.Reload(); err != nil {
			log.Error("shader reload failed, keeping previous program", zap.String("name", name), zap.Error(err))
			errs = multierr.Append(errs, err)
			continue
		}
		log.Info("shader reloaded", zap.String("name", name))
	}
	return errs
}

func touches(p shader.Paths, changed []string) bool {
	for _, c := range changed {
		if p.Contains(c) {
			return true
		}
	}
	return false
}
