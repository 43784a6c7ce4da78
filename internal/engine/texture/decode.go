// Package texture decodes image files and uploads them as GPU textures
// through a per-session cache.
package texture

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"github.com/Faultbox/learngl/internal/engine/gpu"
)

// ErrDecode is returned when image data cannot be decoded.
var ErrDecode = errors.New("texture: decode failed")

// Decode turns encoded image data into tightly packed pixels. name is used
// to pick the TGA decoder by extension and for error messages. With flip the
// rows are reversed so the first row is the bottom of the image, which is
// what OpenGL texture coordinates expect.
//
// Grayscale images decode to one channel, opaque images to three and
// everything else to four.
func Decode(data []byte, name string, flip bool) (*gpu.Image, error) {
	var (
		img image.Image
		err error
	)
	if strings.EqualFold(filepath.Ext(name), ".tga") {
		img, err = DecodeTGA(data)
	} else {
		img, _, err = image.Decode(bytes.NewReader(data))
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecode, name, err)
	}
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("%w: %s: empty image", ErrDecode, name)
	}

	return pack(toNRGBA(img), channelCount(img), flip), nil
}

// toNRGBA returns img with straight (non-premultiplied) alpha, which is
// what GL_RGBA uploads expect.
func toNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok {
		return n
	}
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

func channelCount(img image.Image) int {
	switch img.(type) {
	case *image.Gray, *image.Gray16:
		return 1
	}
	if o, ok := img.(interface{ Opaque() bool }); ok && o.Opaque() {
		return 3
	}
	return 4
}

// pack copies the first channels components of every pixel into a
// contiguous buffer, bottom row first when flip is set.
func pack(src *image.NRGBA, channels int, flip bool) *gpu.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	out := &gpu.Image{
		Width:    w,
		Height:   h,
		Channels: channels,
		Pix:      make([]byte, 0, w*h*channels),
	}
	for y := 0; y < h; y++ {
		sy := y
		if flip {
			sy = h - 1 - y
		}
		off := src.PixOffset(b.Min.X, b.Min.Y+sy)
		row := src.Pix[off : off+w*4]
		if channels == 4 {
			out.Pix = append(out.Pix, row...)
			continue
		}
		for x := 0; x < w; x++ {
			out.Pix = append(out.Pix, row[x*4:x*4+channels]...)
		}
	}
	return out
}

// White returns a 1x1 opaque white image.
func White() *gpu.Image {
	return &gpu.Image{Width: 1, Height: 1, Channels: 4, Pix: []byte{255, 255, 255, 255}}
}
