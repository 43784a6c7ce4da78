// Package gputest provides a recording gpu.Device for tests.
package gputest

import (
	"fmt"

	"github.com/Faultbox/learngl/internal/engine/gpu"
)

// Call is one recorded device call.
type Call struct {
	Op    string
	Unit  int
	ID    uint32
	Count int32
}

// Device records calls and hands out sequential GL names.
type Device struct {
	next uint32

	Textures map[uint32]*gpu.Image
	Cubemaps map[uint32][6]*gpu.Image
	Meshes   map[uint32]MeshUpload
	Buffers  map[uint32]InstanceUpload
	Calls    []Call

	// FailTextures makes CreateTexture return an error.
	FailTextures bool
}

// MeshUpload is what CreateMesh received.
type MeshUpload struct {
	Layout   gpu.Layout
	Vertices []byte
	Indices  []uint32
}

// InstanceUpload is what CreateInstanceBuffer received.
type InstanceUpload struct {
	Data []byte
	Slot uint32
	VAOs []uint32
}

// New creates an empty recording device.
func New() *Device {
	return &Device{
		Textures: make(map[uint32]*gpu.Image),
		Cubemaps: make(map[uint32][6]*gpu.Image),
		Meshes:   make(map[uint32]MeshUpload),
		Buffers:  make(map[uint32]InstanceUpload),
	}
}

func (d *Device) name() uint32 {
	d.next++
	return d.next
}

func (d *Device) CreateTexture(img *gpu.Image) (uint32, error) {
	if d.FailTextures {
		return 0, fmt.Errorf("texture upload disabled")
	}
	if err := img.Validate(); err != nil {
		return 0, err
	}
	id := d.name()
	d.Textures[id] = img
	d.Calls = append(d.Calls, Call{Op: "CreateTexture", ID: id})
	return id, nil
}

func (d *Device) CreateCubemap(faces [6]*gpu.Image) (uint32, error) {
	for _, f := range faces {
		if err := f.Validate(); err != nil {
			return 0, err
		}
	}
	id := d.name()
	d.Cubemaps[id] = faces
	d.Calls = append(d.Calls, Call{Op: "CreateCubemap", ID: id})
	return id, nil
}

func (d *Device) DeleteTexture(id uint32) {
	delete(d.Textures, id)
	delete(d.Cubemaps, id)
	d.Calls = append(d.Calls, Call{Op: "DeleteTexture", ID: id})
}

func (d *Device) CreateMesh(layout gpu.Layout, vertices []byte, indices []uint32) (gpu.MeshBuffers, error) {
	if len(vertices) == 0 || len(indices) == 0 {
		return gpu.MeshBuffers{}, fmt.Errorf("empty mesh")
	}
	b := gpu.MeshBuffers{VAO: d.name(), VBO: d.name(), EBO: d.name(), IndexCount: int32(len(indices))}
	d.Meshes[b.VAO] = MeshUpload{
		Layout:   layout,
		Vertices: append([]byte(nil), vertices...),
		Indices:  append([]uint32(nil), indices...),
	}
	d.Calls = append(d.Calls, Call{Op: "CreateMesh", ID: b.VAO, Count: b.IndexCount})
	return b, nil
}

func (d *Device) DeleteMesh(b *gpu.MeshBuffers) {
	delete(d.Meshes, b.VAO)
	d.Calls = append(d.Calls, Call{Op: "DeleteMesh", ID: b.VAO})
	*b = gpu.MeshBuffers{}
}

func (d *Device) CreateInstanceBuffer(matrices []byte, slot uint32, vaos []uint32) (uint32, error) {
	if len(matrices) == 0 || len(matrices)%64 != 0 {
		return 0, fmt.Errorf("bad instance data length %d", len(matrices))
	}
	id := d.name()
	d.Buffers[id] = InstanceUpload{
		Data: append([]byte(nil), matrices...),
		Slot: slot,
		VAOs: append([]uint32(nil), vaos...),
	}
	d.Calls = append(d.Calls, Call{Op: "CreateInstanceBuffer", ID: id})
	return id, nil
}

func (d *Device) DeleteBuffer(id uint32) {
	delete(d.Buffers, id)
	d.Calls = append(d.Calls, Call{Op: "DeleteBuffer", ID: id})
}

func (d *Device) UseProgram(id uint32) {
	d.Calls = append(d.Calls, Call{Op: "UseProgram", ID: id})
}

func (d *Device) BindVertexArray(id uint32) {
	d.Calls = append(d.Calls, Call{Op: "BindVertexArray", ID: id})
}

func (d *Device) BindTexture(unit int, target gpu.Target, id uint32) {
	d.Calls = append(d.Calls, Call{Op: "BindTexture", Unit: unit, ID: id})
}

func (d *Device) DrawElements(count int32) {
	d.Calls = append(d.Calls, Call{Op: "DrawElements", Count: count})
}

func (d *Device) DrawElementsInstanced(count, instances int32) {
	d.Calls = append(d.Calls, Call{Op: "DrawElementsInstanced", Count: count, ID: uint32(instances)})
}

// Ops returns the recorded calls with the given op.
func (d *Device) Ops(op string) []Call {
	var out []Call
	for _, c := range d.Calls {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}
