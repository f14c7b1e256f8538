package fna3d

import (
	"fmt"
	"io"

	"github.com/Faultbox/fnago/internal/engine/texture"
)

// Texture2DFromStream decodes an image into a single-level SurfaceColor
// texture.
func (d *Device) Texture2DFromStream(r io.Reader) (*Texture2D, error) {
	img, err := texture.Decode(r)
	if err != nil {
		return nil, err
	}
	tex, err := d.CreateTexture2D(SurfaceColor, img.Width, img.Height, 1, false)
	if err != nil {
		return nil, err
	}
	if err := tex.SetData(0, nil, img.Pix); err != nil {
		tex.Dispose()
		return nil, err
	}
	return tex, nil
}

func (t *Texture2D) colorLevel() (*texture.Image, error) {
	if t.format != SurfaceColor {
		return nil, fmt.Errorf("%w: saving %s textures", ErrInvalidData, t.format)
	}
	img := texture.NewImage(t.width, t.height)
	if err := t.GetData(0, nil, img.Pix); err != nil {
		return nil, err
	}
	return img, nil
}

// SaveAsPNG writes level 0 scaled to w by h. Only SurfaceColor textures
// can be saved.
func (t *Texture2D) SaveAsPNG(dst io.Writer, w, h int) error {
	img, err := t.colorLevel()
	if err != nil {
		return err
	}
	return texture.WritePNGStream(dst, img, w, h)
}

// SaveAsJPEG writes level 0 scaled to w by h at the default quality.
func (t *Texture2D) SaveAsJPEG(dst io.Writer, w, h int) error {
	img, err := t.colorLevel()
	if err != nil {
		return err
	}
	return texture.WriteJPEGStream(dst, img, w, h, texture.DefaultJPEGQuality)
}
