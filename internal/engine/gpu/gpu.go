// Package gpu puts the OpenGL calls the engine makes behind a Device
// interface and tracks bindings in an explicit Context.
package gpu

import (
	"fmt"
	"unsafe"
)

// Format is the pixel layout of an uploaded texture.
type Format int

// Pixel formats chosen from a decoded image's channel count.
const (
	FormatRed Format = iota + 1
	FormatRGB
	FormatRGBA
)

func (f Format) String() string {
	switch f {
	case FormatRed:
		return "red"
	case FormatRGB:
		return "rgb"
	case FormatRGBA:
		return "rgba"
	default:
		return fmt.Sprintf("format(%d)", int(f))
	}
}

// FormatForChannels maps a channel count to a pixel format (1, 3 or 4).
func FormatForChannels(channels int) (Format, error) {
	switch channels {
	case 1:
		return FormatRed, nil
	case 3:
		return FormatRGB, nil
	case 4:
		return FormatRGBA, nil
	default:
		return 0, fmt.Errorf("unsupported channel count %d", channels)
	}
}

// Image is tightly packed 8-bit pixel data ready for upload.
type Image struct {
	Width    int
	Height   int
	Channels int
	Pix      []byte
}

// Validate checks that Pix holds exactly Width*Height*Channels bytes.
func (img *Image) Validate() error {
	if img == nil {
		return fmt.Errorf("nil image")
	}
	if img.Width <= 0 || img.Height <= 0 {
		return fmt.Errorf("invalid image size %dx%d", img.Width, img.Height)
	}
	if _, err := FormatForChannels(img.Channels); err != nil {
		return err
	}
	if want := img.Width * img.Height * img.Channels; len(img.Pix) != want {
		return fmt.Errorf("pixel data is %d bytes, want %d", len(img.Pix), want)
	}
	return nil
}

// Target selects the texture binding point.
type Target int

// Texture targets.
const (
	Texture2D Target = iota
	TextureCube
)

// Attrib describes one float vertex attribute inside an interleaved buffer.
type Attrib struct {
	Slot   uint32
	Size   int32
	Offset uintptr
}

// Layout is the vertex array layout of an interleaved vertex buffer.
type Layout struct {
	Stride  int32
	Attribs []Attrib
}

// MeshBuffers holds the GL names created for one indexed mesh.
type MeshBuffers struct {
	VAO        uint32
	VBO        uint32
	EBO        uint32
	IndexCount int32
}

// Device is the subset of the GPU API the engine uses. All calls must be
// made from the thread that owns the GL context.
type Device interface {
	CreateTexture(img *Image) (uint32, error)
	CreateCubemap(faces [6]*Image) (uint32, error)
	DeleteTexture(id uint32)

	CreateMesh(layout Layout, vertices []byte, indices []uint32) (MeshBuffers, error)
	DeleteMesh(b *MeshBuffers)

	// CreateInstanceBuffer uploads one mat4 per instance and binds it to
	// the four attribute slots starting at slot of every vertex array in
	// vaos, advancing once per instance.
	CreateInstanceBuffer(matrices []byte, slot uint32, vaos []uint32) (uint32, error)
	DeleteBuffer(id uint32)

	UseProgram(id uint32)
	BindVertexArray(id uint32)
	BindTexture(unit int, target Target, id uint32)
	DrawElements(count int32)
	DrawElementsInstanced(count, instances int32)
}

// Bytes views a slice of plain values as raw bytes for upload.
func Bytes[T any](s []T) []byte {
	if len(s) == 0 {
		return nil
	}
	var zero T
	return unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), len(s)*int(unsafe.Sizeof(zero)))
}
