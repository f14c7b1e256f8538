package fna3d

import "fmt"

// Texture2D is a 2D texture owned by a Device.
type Texture2D struct {
	dev      *Device
	handle   TextureHandle
	format   SurfaceFormat
	width    int
	height   int
	levels   int
	disposed bool
}

// CreateTexture2D allocates a texture with the given mip level count.
func (d *Device) CreateTexture2D(format SurfaceFormat, w, h, levels int, renderTarget bool) (*Texture2D, error) {
	if err := d.enter(); err != nil {
		return nil, err
	}
	if w <= 0 || h <= 0 || levels <= 0 {
		return nil, fmt.Errorf("%w: texture %dx%d with %d levels", ErrInvalidData, w, h, levels)
	}
	if format.Size() == 0 {
		return nil, fmt.Errorf("%w: unknown surface format %d", ErrInvalidData, format)
	}
	handle, err := d.backend.CreateTexture2D(d.handle, format, w, h, levels, renderTarget)
	if err != nil {
		return nil, fmt.Errorf("creating %s texture: %w", format, err)
	}
	return &Texture2D{
		dev:    d,
		handle: handle,
		format: format,
		width:  w,
		height: h,
		levels: levels,
	}, nil
}

// Handle returns the backend texture.
func (t *Texture2D) Handle() TextureHandle { return t.handle }

// Format returns the texel layout.
func (t *Texture2D) Format() SurfaceFormat { return t.format }

// Size returns the dimensions of level 0.
func (t *Texture2D) Size() (w, h int) { return t.width, t.height }

// LevelCount returns the number of mip levels.
func (t *Texture2D) LevelCount() int { return t.levels }

// LevelSize returns the dimensions of a mip level.
func (t *Texture2D) LevelSize(level int) (w, h int) {
	return max(1, t.width>>level), max(1, t.height>>level)
}

// checkRegion validates a rect and buffer length for level and returns
// the rect, defaulting to the whole level when r is nil.
func (t *Texture2D) checkRegion(level int, r *Rectangle, n int) (Rectangle, error) {
	if t.disposed {
		return Rectangle{}, ErrDisposed
	}
	if level < 0 || level >= t.levels {
		return Rectangle{}, fmt.Errorf("%w: level %d of %d", ErrInvalidData, level, t.levels)
	}
	lw, lh := t.LevelSize(level)
	rect := Rectangle{W: int32(lw), H: int32(lh)}
	if r != nil {
		rect = *r
	}
	if rect.X < 0 || rect.Y < 0 || rect.W <= 0 || rect.H <= 0 ||
		int(rect.X+rect.W) > lw || int(rect.Y+rect.H) > lh {
		return Rectangle{}, fmt.Errorf("%w: rect %+v outside %dx%d level", ErrInvalidData, rect, lw, lh)
	}
	if need := t.format.DataSize(int(rect.W), int(rect.H)); n != need {
		return Rectangle{}, fmt.Errorf("%w: %d bytes for %s %dx%d, need %d",
			ErrInvalidData, n, t.format, rect.W, rect.H, need)
	}
	return rect, nil
}

// SetData uploads texels to a level. A nil rect covers the whole level.
func (t *Texture2D) SetData(level int, r *Rectangle, data []byte) error {
	if err := t.dev.enter(); err != nil {
		return err
	}
	rect, err := t.checkRegion(level, r, len(data))
	if err != nil {
		return err
	}
	t.dev.backend.SetTextureData2D(t.dev.handle, t.handle,
		int(rect.X), int(rect.Y), int(rect.W), int(rect.H), level, data)
	return nil
}

// GetData downloads texels from a level into dst.
func (t *Texture2D) GetData(level int, r *Rectangle, dst []byte) error {
	if err := t.dev.enter(); err != nil {
		return err
	}
	rect, err := t.checkRegion(level, r, len(dst))
	if err != nil {
		return err
	}
	t.dev.backend.TextureData2D(t.dev.handle, t.handle,
		int(rect.X), int(rect.Y), int(rect.W), int(rect.H), level, dst)
	return nil
}

// Dispose releases the texture. Calling it twice is a no-op.
func (t *Texture2D) Dispose() {
	t.dev.guard.Check()
	if t.disposed || t.dev.disposed {
		t.disposed = true
		return
	}
	t.dev.backend.DisposeTexture(t.dev.handle, t.handle)
	t.disposed = true
}

// buffer is the state vertex and index buffers share.
type buffer struct {
	dev      *Device
	handle   BufferHandle
	size     int
	dynamic  bool
	disposed bool
}

func (b *buffer) checkWrite(offset int, data []byte, opts SetDataOptions) error {
	if b.disposed {
		return ErrDisposed
	}
	if offset < 0 || offset+len(data) > b.size {
		return fmt.Errorf("%w: write %d bytes at %d into %d byte buffer", ErrInvalidData, len(data), offset, b.size)
	}
	if opts != SetDataNone && !b.dynamic {
		return fmt.Errorf("%w: SetDataOptions need a dynamic buffer", ErrInvalidData)
	}
	return nil
}

// VertexBuffer holds vertices described by a declaration.
type VertexBuffer struct {
	buffer
	decl VertexDeclaration
}

// CreateVertexBuffer allocates room for count vertices of decl.
func (d *Device) CreateVertexBuffer(decl VertexDeclaration, count int, dynamic bool, usage BufferUsage) (*VertexBuffer, error) {
	if err := d.enter(); err != nil {
		return nil, err
	}
	if decl.Stride <= 0 || count <= 0 {
		return nil, fmt.Errorf("%w: %d vertices of stride %d", ErrInvalidData, count, decl.Stride)
	}
	for _, e := range decl.Elements {
		if e.Offset < 0 || e.Offset+e.Format.Size() > decl.Stride {
			return nil, fmt.Errorf("%w: element at %d overruns stride %d", ErrInvalidData, e.Offset, decl.Stride)
		}
	}
	size := decl.Stride * count
	handle, err := d.backend.GenVertexBuffer(d.handle, dynamic, usage, size)
	if err != nil {
		return nil, fmt.Errorf("creating vertex buffer: %w", err)
	}
	return &VertexBuffer{
		buffer: buffer{dev: d, handle: handle, size: size, dynamic: dynamic},
		decl:   decl,
	}, nil
}

// Handle returns the backend buffer.
func (b *VertexBuffer) Handle() BufferHandle { return b.handle }

// VertexCount returns the capacity in vertices.
func (b *VertexBuffer) VertexCount() int { return b.size / b.decl.Stride }

// SetData writes raw vertex bytes at offset.
func (b *VertexBuffer) SetData(offset int, data []byte, opts SetDataOptions) error {
	if err := b.dev.enter(); err != nil {
		return err
	}
	if err := b.checkWrite(offset, data, opts); err != nil {
		return err
	}
	b.dev.backend.SetVertexBufferData(b.dev.handle, b.handle, offset, data, opts)
	return nil
}

// Dispose releases the buffer. Calling it twice is a no-op.
func (b *VertexBuffer) Dispose() {
	b.dev.guard.Check()
	if !b.disposed && !b.dev.disposed {
		b.dev.backend.DisposeVertexBuffer(b.dev.handle, b.handle)
	}
	b.disposed = true
}

// IndexBuffer holds 16 or 32 bit indices.
type IndexBuffer struct {
	buffer
	elementSize IndexElementSize
}

// CreateIndexBuffer allocates room for count indices.
func (d *Device) CreateIndexBuffer(elementSize IndexElementSize, count int, dynamic bool, usage BufferUsage) (*IndexBuffer, error) {
	if err := d.enter(); err != nil {
		return nil, err
	}
	if count <= 0 {
		return nil, fmt.Errorf("%w: %d indices", ErrInvalidData, count)
	}
	size := elementSize.Size() * count
	handle, err := d.backend.GenIndexBuffer(d.handle, dynamic, usage, size)
	if err != nil {
		return nil, fmt.Errorf("creating index buffer: %w", err)
	}
	return &IndexBuffer{
		buffer:      buffer{dev: d, handle: handle, size: size, dynamic: dynamic},
		elementSize: elementSize,
	}, nil
}

// Handle returns the backend buffer.
func (b *IndexBuffer) Handle() BufferHandle { return b.handle }

// IndexCount returns the capacity in indices.
func (b *IndexBuffer) IndexCount() int { return b.size / b.elementSize.Size() }

// SetData writes raw index bytes at offset.
func (b *IndexBuffer) SetData(offset int, data []byte, opts SetDataOptions) error {
	if err := b.dev.enter(); err != nil {
		return err
	}
	if err := b.checkWrite(offset, data, opts); err != nil {
		return err
	}
	b.dev.backend.SetIndexBufferData(b.dev.handle, b.handle, offset, data, opts)
	return nil
}

// Dispose releases the buffer. Calling it twice is a no-op.
func (b *IndexBuffer) Dispose() {
	b.dev.guard.Check()
	if !b.disposed && !b.dev.disposed {
		b.dev.backend.DisposeIndexBuffer(b.dev.handle, b.handle)
	}
	b.disposed = true
}
