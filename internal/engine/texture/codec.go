// Package texture decodes and encodes texture images as tightly packed
// RGBA8 pixels, the layout SurfaceColor textures upload.
package texture

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"

	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
)

// DefaultJPEGQuality matches the quality XNA's SaveAsJpeg uses.
const DefaultJPEGQuality = 100

// ErrEmptyImage is returned for zero-sized images.
var ErrEmptyImage = errors.New("texture: empty image")

// Image is non-premultiplied RGBA8, rows top to bottom.
type Image struct {
	Width  int
	Height int
	Pix    []byte
}

// NewImage allocates a transparent black image.
func NewImage(w, h int) *Image {
	return &Image{Width: w, Height: h, Pix: make([]byte, 4*w*h)}
}

// FromImage converts any image.Image.
func FromImage(src image.Image) *Image {
	b := src.Bounds()
	if n, ok := src.(*image.NRGBA); ok && b.Min == (image.Point{}) && n.Stride == 4*b.Dx() {
		return &Image{Width: b.Dx(), Height: b.Dy(), Pix: n.Pix[:4*b.Dx()*b.Dy()]}
	}
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return &Image{Width: b.Dx(), Height: b.Dy(), Pix: dst.Pix}
}

// NRGBA views the pixels as an image.NRGBA without copying.
func (img *Image) NRGBA() *image.NRGBA {
	return &image.NRGBA{
		Pix:    img.Pix,
		Stride: 4 * img.Width,
		Rect:   image.Rect(0, 0, img.Width, img.Height),
	}
}

// default tables for the package-level entry points
var (
	readStreams  = NewStreams()
	writeStreams = NewStreams()
)

// Decode reads a PNG, JPEG, GIF, BMP or TGA image.
func Decode(r io.Reader) (*Image, error) {
	return ReadImageStream(r, -1, -1, false)
}

// ReadImageStream decodes r through the read stream table. When forceW and
// forceH are both positive the result is scaled to fit inside them keeping
// its aspect ratio; with zoom it is scaled to cover them and the overflow
// is cropped evenly.
func ReadImageStream(r io.Reader, forceW, forceH int, zoom bool) (*Image, error) {
	h := readStreams.Register(r)
	defer readStreams.Unregister(h)

	src, format, err := decode(handleReader{readStreams, h})
	if err != nil {
		return nil, err
	}
	img := FromImage(src)
	if img.Width == 0 || img.Height == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyImage, format)
	}
	if forceW > 0 && forceH > 0 {
		img = fit(img, forceW, forceH, zoom)
	}
	return img, nil
}

func decode(r io.Reader) (image.Image, string, error) {
	br := bufio.NewReader(r)
	magic, _ := br.Peek(8)

	var (
		img    image.Image
		format string
		err    error
	)
	switch {
	case bytes.HasPrefix(magic, []byte("\x89PNG\r\n\x1a\n")):
		format = "png"
		img, err = png.Decode(br)
	case bytes.HasPrefix(magic, []byte{0xFF, 0xD8}):
		format = "jpeg"
		img, err = jpeg.Decode(br)
	case bytes.HasPrefix(magic, []byte("GIF8")):
		format = "gif"
		img, err = gif.Decode(br)
	case bytes.HasPrefix(magic, []byte("BM")):
		format = "bmp"
		img, err = bmp.Decode(br)
	default:
		// TGA has no signature; it is the fallback.
		format = "tga"
		img, err = tga.Decode(br)
	}
	if err != nil {
		return nil, format, fmt.Errorf("texture: decode %s: %w", format, err)
	}
	return img, format, nil
}

// fit scales img into a w by h box.
func fit(img *Image, w, h int, zoom bool) *Image {
	if img.Width == w && img.Height == h {
		return img
	}
	sx := float64(w) / float64(img.Width)
	sy := float64(h) / float64(img.Height)
	scale := min(sx, sy)
	if zoom {
		scale = max(sx, sy)
	}
	sw := max(1, int(float64(img.Width)*scale+0.5))
	sh := max(1, int(float64(img.Height)*scale+0.5))
	scaled := resize(img, sw, sh)
	if !zoom {
		return scaled
	}

	// Crop the centre w by h.
	x0 := (sw - min(w, sw)) / 2
	y0 := (sh - min(h, sh)) / 2
	out := NewImage(min(w, sw), min(h, sh))
	draw.Draw(out.NRGBA(), out.NRGBA().Bounds(), scaled.NRGBA(), image.Pt(x0, y0), draw.Src)
	return out
}

func resize(img *Image, w, h int) *Image {
	if img.Width == w && img.Height == h {
		return img
	}
	out := NewImage(w, h)
	draw.CatmullRom.Scale(out.NRGBA(), out.NRGBA().Bounds(), img.NRGBA(), img.NRGBA().Bounds(), draw.Src, nil)
	return out
}

// EncodePNG writes img as PNG.
func EncodePNG(w io.Writer, img *Image) error {
	return WritePNGStream(w, img, img.Width, img.Height)
}

// EncodeJPEG writes img as JPEG. Alpha is dropped.
func EncodeJPEG(w io.Writer, img *Image, quality int) error {
	return WriteJPEGStream(w, img, img.Width, img.Height, quality)
}

// WritePNGStream writes img scaled to dstW by dstH through the write
// stream table.
func WritePNGStream(w io.Writer, img *Image, dstW, dstH int) error {
	if err := checkEncode(img, dstW, dstH); err != nil {
		return err
	}
	h := writeStreams.Register(w)
	defer writeStreams.Unregister(h)

	if err := png.Encode(handleWriter{writeStreams, h}, resize(img, dstW, dstH).NRGBA()); err != nil {
		return fmt.Errorf("texture: encode png: %w", err)
	}
	return nil
}

// WriteJPEGStream writes img scaled to dstW by dstH through the write
// stream table. Quality is clamped to [1, 100].
func WriteJPEGStream(w io.Writer, img *Image, dstW, dstH, quality int) error {
	if err := checkEncode(img, dstW, dstH); err != nil {
		return err
	}
	h := writeStreams.Register(w)
	defer writeStreams.Unregister(h)

	opts := &jpeg.Options{Quality: max(1, min(quality, 100))}
	if err := jpeg.Encode(handleWriter{writeStreams, h}, resize(img, dstW, dstH).NRGBA(), opts); err != nil {
		return fmt.Errorf("texture: encode jpeg: %w", err)
	}
	return nil
}

func checkEncode(img *Image, w, h int) error {
	if img == nil || img.Width <= 0 || img.Height <= 0 || w <= 0 || h <= 0 {
		return ErrEmptyImage
	}
	if len(img.Pix) != 4*img.Width*img.Height {
		return fmt.Errorf("texture: %d bytes for %dx%d image", len(img.Pix), img.Width, img.Height)
	}
	return nil
}
