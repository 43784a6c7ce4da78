package gpu

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// GL implements Device with go-gl. gl.Init must have succeeded first.
type GL struct{}

// NewGL returns the OpenGL device.
func NewGL() *GL {
	return &GL{}
}

func glFormat(f Format) uint32 {
	switch f {
	case FormatRed:
		return gl.RED
	case FormatRGB:
		return gl.RGB
	default:
		return gl.RGBA
	}
}

func glTarget(t Target) uint32 {
	if t == TextureCube {
		return gl.TEXTURE_CUBE_MAP
	}
	return gl.TEXTURE_2D
}

// CreateTexture uploads img as a mipmapped, repeating 2D texture.
func (d *GL) CreateTexture(img *Image) (uint32, error) {
	if err := img.Validate(); err != nil {
		return 0, err
	}
	format, _ := FormatForChannels(img.Channels)
	f := glFormat(format)

	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_2D, id)

	// Rows of RED and RGB data are not 4-byte aligned in general
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, int32(f), int32(img.Width), int32(img.Height), 0, f, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 4)
	gl.GenerateMipmap(gl.TEXTURE_2D)

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)

	gl.BindTexture(gl.TEXTURE_2D, 0)
	return id, nil
}

// CreateCubemap uploads six faces in +X, -X, +Y, -Y, +Z, -Z order.
func (d *GL) CreateCubemap(faces [6]*Image) (uint32, error) {
	for i, img := range faces {
		if err := img.Validate(); err != nil {
			return 0, fmt.Errorf("cubemap face %d: %w", i, err)
		}
	}

	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, id)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	for i, img := range faces {
		format, _ := FormatForChannels(img.Channels)
		f := glFormat(format)
		gl.TexImage2D(gl.TEXTURE_CUBE_MAP_POSITIVE_X+uint32(i), 0, int32(f),
			int32(img.Width), int32(img.Height), 0, f, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	}
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 4)

	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_R, gl.CLAMP_TO_EDGE)

	gl.BindTexture(gl.TEXTURE_CUBE_MAP, 0)
	return id, nil
}

// DeleteTexture releases a texture name. Zero is ignored.
func (d *GL) DeleteTexture(id uint32) {
	if id != 0 {
		gl.DeleteTextures(1, &id)
	}
}

// CreateMesh uploads interleaved vertex data and a uint32 index buffer and
// records the attribute layout in a new vertex array object.
func (d *GL) CreateMesh(layout Layout, vertices []byte, indices []uint32) (MeshBuffers, error) {
	if len(vertices) == 0 {
		return MeshBuffers{}, fmt.Errorf("empty vertex buffer")
	}
	if len(indices) == 0 {
		return MeshBuffers{}, fmt.Errorf("empty index buffer")
	}

	var b MeshBuffers
	gl.GenVertexArrays(1, &b.VAO)
	gl.BindVertexArray(b.VAO)

	gl.GenBuffers(1, &b.VBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, b.VBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices), gl.Ptr(vertices), gl.STATIC_DRAW)

	gl.GenBuffers(1, &b.EBO)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, b.EBO)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, gl.Ptr(indices), gl.STATIC_DRAW)

	for _, a := range layout.Attribs {
		gl.EnableVertexAttribArray(a.Slot)
		gl.VertexAttribPointer(a.Slot, a.Size, gl.FLOAT, false, layout.Stride, gl.PtrOffset(int(a.Offset)))
	}

	// The element buffer binding is part of the VAO, so only the array
	// buffer is unbound.
	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	b.IndexCount = int32(len(indices))
	return b, nil
}

// DeleteMesh releases the buffers and vertex array of b and zeroes it.
func (d *GL) DeleteMesh(b *MeshBuffers) {
	if b.VAO != 0 {
		gl.DeleteVertexArrays(1, &b.VAO)
	}
	if b.VBO != 0 {
		gl.DeleteBuffers(1, &b.VBO)
	}
	if b.EBO != 0 {
		gl.DeleteBuffers(1, &b.EBO)
	}
	*b = MeshBuffers{}
}

// CreateInstanceBuffer uploads instance matrices and wires them into each
// vertex array as a divisor-1 mat4 attribute.
func (d *GL) CreateInstanceBuffer(matrices []byte, slot uint32, vaos []uint32) (uint32, error) {
	const mat4Size = 64
	if len(matrices) == 0 || len(matrices)%mat4Size != 0 {
		return 0, fmt.Errorf("instance data is %d bytes, not a multiple of a mat4", len(matrices))
	}

	var id uint32
	gl.GenBuffers(1, &id)
	gl.BindBuffer(gl.ARRAY_BUFFER, id)
	gl.BufferData(gl.ARRAY_BUFFER, len(matrices), gl.Ptr(matrices), gl.STATIC_DRAW)

	for _, vao := range vaos {
		gl.BindVertexArray(vao)
		for col := uint32(0); col < 4; col++ {
			gl.EnableVertexAttribArray(slot + col)
			gl.VertexAttribPointer(slot+col, 4, gl.FLOAT, false, mat4Size, gl.PtrOffset(int(col)*16))
			gl.VertexAttribDivisor(slot+col, 1)
		}
	}
	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return id, nil
}

// DeleteBuffer releases a buffer name. Zero is ignored.
func (d *GL) DeleteBuffer(id uint32) {
	if id != 0 {
		gl.DeleteBuffers(1, &id)
	}
}

func (d *GL) UseProgram(id uint32) {
	gl.UseProgram(id)
}

func (d *GL) BindVertexArray(id uint32) {
	gl.BindVertexArray(id)
}

func (d *GL) BindTexture(unit int, target Target, id uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
	gl.BindTexture(glTarget(target), id)
}

func (d *GL) DrawElements(count int32) {
	gl.DrawElements(gl.TRIANGLES, count, gl.UNSIGNED_INT, nil)
}

func (d *GL) DrawElementsInstanced(count, instances int32) {
	gl.DrawElementsInstanced(gl.TRIANGLES, count, gl.UNSIGNED_INT, nil, instances)
}
