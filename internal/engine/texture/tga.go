package texture

import (
	"fmt"
	"image"
	"image/color"
)

// TGA image types handled by DecodeTGA.
const (
	TGATypeUncompressed = 2  // Uncompressed true-color
	TGATypeRLE          = 10 // RLE compressed true-color
)

// DecodeTGA decodes an uncompressed or RLE true-color TGA file of 24 or 32
// bits per pixel. The result is always top-down.
func DecodeTGA(data []byte) (image.Image, error) {
	if len(data) < 18 {
		return nil, fmt.Errorf("TGA data too short")
	}

	idLength := int(data[0])
	colorMapType := data[1]
	imageType := data[2]
	width := int(data[12]) | int(data[13])<<8
	height := int(data[14]) | int(data[15])<<8
	bpp := int(data[16])
	descriptor := data[17]

	if colorMapType != 0 {
		return nil, fmt.Errorf("color-mapped TGA not supported")
	}
	if imageType != TGATypeUncompressed && imageType != TGATypeRLE {
		return nil, fmt.Errorf("unsupported TGA type %d", imageType)
	}
	if bpp != 24 && bpp != 32 {
		return nil, fmt.Errorf("unsupported TGA bit depth %d", bpp)
	}
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("empty TGA image %dx%d", width, height)
	}

	offset := 18 + idLength
	if offset > len(data) {
		return nil, fmt.Errorf("TGA data truncated")
	}

	w := &tgaWriter{
		img:         image.NewNRGBA(image.Rect(0, 0, width, height)),
		bpp:         bpp / 8,
		topToBottom: descriptor&0x20 != 0,
	}

	var err error
	if imageType == TGATypeUncompressed {
		err = w.raw(data[offset:])
	} else {
		err = w.rle(data[offset:])
	}
	if err != nil {
		return nil, err
	}
	return w.img, nil
}

// tgaWriter stores BGR(A) pixels with straight alpha in file order,
// flipping bottom-up files.
type tgaWriter struct {
	img         *image.NRGBA
	bpp         int
	topToBottom bool
	n           int
}

func (w *tgaWriter) total() int {
	b := w.img.Bounds()
	return b.Dx() * b.Dy()
}

func (w *tgaWriter) pixel(p []byte) color.NRGBA {
	c := color.NRGBA{R: p[2], G: p[1], B: p[0], A: 255}
	if w.bpp == 4 {
		c.A = p[3]
	}
	return c
}

func (w *tgaWriter) put(c color.NRGBA) {
	width := w.img.Bounds().Dx()
	x, y := w.n%width, w.n/width
	if !w.topToBottom {
		y = w.img.Bounds().Dy() - 1 - y
	}
	w.img.SetNRGBA(x, y, c)
	w.n++
}

func (w *tgaWriter) raw(data []byte) error {
	if len(data) < w.total()*w.bpp {
		return fmt.Errorf("TGA pixel data truncated")
	}
	for i := 0; i < w.total(); i++ {
		w.put(w.pixel(data[i*w.bpp:]))
	}
	return nil
}

// rle decodes run-length packets. A truncated stream leaves the remaining
// pixels transparent.
func (w *tgaWriter) rle(data []byte) error {
	i := 0
	for w.n < w.total() && i < len(data) {
		packet := data[i]
		i++
		count := int(packet&0x7F) + 1

		if packet&0x80 != 0 {
			if i+w.bpp > len(data) {
				break
			}
			c := w.pixel(data[i:])
			i += w.bpp
			for j := 0; j < count && w.n < w.total(); j++ {
				w.put(c)
			}
			continue
		}

		for j := 0; j < count && w.n < w.total(); j++ {
			if i+w.bpp > len(data) {
				return nil
			}
			w.put(w.pixel(data[i:]))
			i += w.bpp
		}
	}
	return nil
}
