package main

import (
	"bytes"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/qmuntal/gltf"
)

// packModel writes the glTF file in as a self-contained binary glTF at out.
func packModel(in, out string) (*gltf.Document, error) {
	if !strings.EqualFold(filepath.Ext(out), ".glb") {
		return nil, fmt.Errorf("output %s must end in .glb", out)
	}
	doc, err := gltf.Open(in)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", in, err)
	}
	dir := filepath.Dir(in)
	err = packDocument(doc, func(uri string) ([]byte, error) {
		p, err := url.PathUnescape(uri)
		if err != nil {
			return nil, err
		}
		return os.ReadFile(filepath.Join(dir, filepath.FromSlash(p)))
	})
	if err != nil {
		return nil, err
	}
	if err := gltf.SaveBinary(doc, out); err != nil {
		return nil, fmt.Errorf("save %s: %w", out, err)
	}
	return doc, nil
}

// packDocument moves every buffer and every image referenced by URI into a
// single URI-less buffer 0, which SaveBinary writes as the BIN chunk.
// readImage loads external image files by their URI.
func packDocument(doc *gltf.Document, readImage func(uri string) ([]byte, error)) error {
	var bin []byte
	offsets := make([]uint32, len(doc.Buffers))
	for i, buf := range doc.Buffers {
		if uint32(len(buf.Data)) < buf.ByteLength {
			return fmt.Errorf("buffer %d: have %d of %d bytes", i, len(buf.Data), buf.ByteLength)
		}
		bin = align4(bin)
		offsets[i] = uint32(len(bin))
		bin = append(bin, buf.Data[:buf.ByteLength]...)
	}
	for i, view := range doc.BufferViews {
		if int(view.Buffer) >= len(offsets) {
			return fmt.Errorf("buffer view %d: buffer %d out of range", i, view.Buffer)
		}
		view.ByteOffset += offsets[view.Buffer]
		view.Buffer = 0
	}

	for i, img := range doc.Images {
		if img.BufferView != nil || img.URI == "" {
			continue
		}
		var (
			data []byte
			err  error
		)
		if img.IsEmbeddedResource() {
			data, err = img.MarshalData()
		} else {
			data, err = readImage(img.URI)
		}
		if err != nil {
			return fmt.Errorf("image %d: %w", i, err)
		}
		mime, err := imageMimeType(img, data)
		if err != nil {
			return fmt.Errorf("image %d: %w", i, err)
		}

		bin = align4(bin)
		doc.BufferViews = append(doc.BufferViews, &gltf.BufferView{
			ByteOffset: uint32(len(bin)),
			ByteLength: uint32(len(data)),
		})
		bin = append(bin, data...)
		img.BufferView = gltf.Index(uint32(len(doc.BufferViews) - 1))
		img.MimeType = mime
		img.URI = ""
	}

	doc.Buffers = nil
	if len(bin) > 0 {
		doc.Buffers = []*gltf.Buffer{{ByteLength: uint32(len(bin)), Data: bin}}
	}
	return nil
}

func align4(b []byte) []byte {
	for len(b)%4 != 0 {
		b = append(b, 0)
	}
	return b
}

var (
	pngMagic  = []byte{0x89, 'P', 'N', 'G'}
	jpegMagic = []byte{0xFF, 0xD8, 0xFF}
)

func imageMimeType(img *gltf.Image, data []byte) (string, error) {
	if img.MimeType != "" {
		return img.MimeType, nil
	}
	switch {
	case bytes.HasPrefix(data, pngMagic):
		return "image/png", nil
	case bytes.HasPrefix(data, jpegMagic):
		return "image/jpeg", nil
	}
	return "", fmt.Errorf("%s is neither PNG nor JPEG", img.URI)
}
