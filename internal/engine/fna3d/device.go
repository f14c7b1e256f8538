package fna3d

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/fnago/internal/threadcheck"
	"github.com/Faultbox/fnago/pkg/math"
)

var (
	// ErrDisposed is returned by calls on a destroyed device or resource.
	ErrDisposed = errors.New("fna3d: object is disposed")

	// ErrInvalidData is returned when an upload or download does not fit
	// the target resource.
	ErrInvalidData = errors.New("fna3d: data does not match resource")
)

// Device is a graphics device bound to one backend device. All methods
// must run on the thread the guard is bound to.
type Device struct {
	backend Backend
	guard   *threadcheck.Guard
	log     *zap.Logger

	handle   DeviceHandle
	params   PresentationParameters
	disposed bool
}

// DeviceOption configures a Device.
type DeviceOption func(*Device)

// WithLogger sets the device logger.
func WithLogger(log *zap.Logger) DeviceOption {
	return func(d *Device) {
		if log != nil {
			d.log = log
		}
	}
}

// NewDevice creates a backend device. The guard may be nil, which
// disables thread checks.
func NewDevice(backend Backend, guard *threadcheck.Guard, params PresentationParameters, debug bool, opts ...DeviceOption) (*Device, error) {
	d := &Device{
		backend: backend,
		guard:   guard,
		log:     zap.NewNop(),
		params:  params,
	}
	for _, opt := range opts {
		opt(d)
	}

	if params.BackBufferWidth <= 0 || params.BackBufferHeight <= 0 {
		return nil, fmt.Errorf("%w: backbuffer %dx%d", ErrInvalidData, params.BackBufferWidth, params.BackBufferHeight)
	}

	guard.Check()
	handle, err := backend.CreateDevice(params, debug)
	if err != nil {
		return nil, fmt.Errorf("creating device: %w", err)
	}
	d.handle = handle

	d.log.Info("graphics device created",
		zap.Int("width", params.BackBufferWidth),
		zap.Int("height", params.BackBufferHeight),
		zap.Stringer("format", params.BackBufferFormat),
		zap.Bool("debug", debug),
	)
	return d, nil
}

// PrepareWindowAttributes runs the backend's pre-window setup.
func PrepareWindowAttributes(backend Backend, guard *threadcheck.Guard) uint32 {
	guard.Check()
	return backend.PrepareWindowAttributes()
}

// Handle returns the backend device handle.
func (d *Device) Handle() DeviceHandle {
	return d.handle
}

// PresentationParameters returns the parameters the device was created
// with.
func (d *Device) PresentationParameters() PresentationParameters {
	return d.params
}

// Dispose destroys the backend device. Calling it twice is a no-op.
func (d *Device) Dispose() {
	d.guard.Check()
	if d.disposed {
		return
	}
	d.backend.DestroyDevice(d.handle)
	d.disposed = true
	d.log.Info("graphics device destroyed")
}

// IsDisposed reports whether Dispose ran.
func (d *Device) IsDisposed() bool {
	return d.disposed
}

// enter is the common prologue of every device call.
func (d *Device) enter() error {
	d.guard.Check()
	if d.disposed {
		return ErrDisposed
	}
	return nil
}

// Present swaps the backbuffer to the window.
func (d *Device) Present(src, dst *Rectangle) error {
	if err := d.enter(); err != nil {
		return err
	}
	d.backend.SwapBuffers(d.handle, src, dst, d.params.DeviceWindowHandle)
	return nil
}

// DrawableSize returns the window's drawable size in pixels.
func (d *Device) DrawableSize() (w, h int) {
	d.guard.Check()
	return d.backend.DrawableSize(d.params.DeviceWindowHandle)
}

// Clear clears the selected buffers.
func (d *Device) Clear(opts ClearOptions, color math.Vec4, depth float32, stencil int32) error {
	if err := d.enter(); err != nil {
		return err
	}
	d.backend.Clear(d.handle, opts, color, depth, stencil)
	return nil
}

// DrawPrimitives draws from the bound vertex buffers without indices.
func (d *Device) DrawPrimitives(prim PrimitiveType, vertexStart, primitiveCount int) error {
	if err := d.enter(); err != nil {
		return err
	}
	if vertexStart < 0 || primitiveCount <= 0 {
		return fmt.Errorf("%w: draw start %d count %d", ErrInvalidData, vertexStart, primitiveCount)
	}
	d.backend.DrawPrimitives(d.handle, prim, vertexStart, primitiveCount)
	return nil
}

// DrawIndexedPrimitives draws with an index buffer.
func (d *Device) DrawIndexedPrimitives(prim PrimitiveType, baseVertex, minVertexIndex, numVertices,
	startIndex, primitiveCount int, indices *IndexBuffer) error {
	if err := d.enter(); err != nil {
		return err
	}
	if indices == nil || indices.disposed {
		return ErrDisposed
	}
	if startIndex < 0 || primitiveCount <= 0 {
		return fmt.Errorf("%w: draw start %d count %d", ErrInvalidData, startIndex, primitiveCount)
	}
	if need := (startIndex + prim.VertexCount(primitiveCount)) * indices.elementSize.Size(); need > indices.size {
		return fmt.Errorf("%w: draw reads %d index bytes of %d", ErrInvalidData, need, indices.size)
	}
	d.backend.DrawIndexedPrimitives(d.handle, prim, baseVertex, minVertexIndex, numVertices,
		startIndex, primitiveCount, indices.handle, indices.elementSize)
	return nil
}

// SetVertexBuffers binds vertex buffers for the next draws.
func (d *Device) SetVertexBuffers(baseVertex int, buffers ...*VertexBuffer) error {
	if err := d.enter(); err != nil {
		return err
	}
	bindings := make([]VertexBufferBinding, len(buffers))
	for i, vb := range buffers {
		if vb == nil || vb.disposed {
			return ErrDisposed
		}
		bindings[i] = VertexBufferBinding{Buffer: vb.handle, Declaration: vb.decl}
	}
	d.backend.ApplyVertexBufferBindings(d.handle, bindings, baseVertex)
	return nil
}

// SetViewport sets the viewport.
func (d *Device) SetViewport(vp Viewport) error {
	if err := d.enter(); err != nil {
		return err
	}
	d.backend.SetViewport(d.handle, vp)
	return nil
}

// SetScissorRect sets the scissor rectangle.
func (d *Device) SetScissorRect(r Rectangle) error {
	if err := d.enter(); err != nil {
		return err
	}
	d.backend.SetScissorRect(d.handle, r)
	return nil
}

// SetBlendFactor sets the constant blend color.
func (d *Device) SetBlendFactor(c Color) error {
	if err := d.enter(); err != nil {
		return err
	}
	d.backend.SetBlendFactor(d.handle, c)
	return nil
}

// BlendFactor returns the constant blend color.
func (d *Device) BlendFactor() (Color, error) {
	if err := d.enter(); err != nil {
		return Color{}, err
	}
	return d.backend.BlendFactor(d.handle), nil
}

// SetTexture binds tex to sampler slot index. A nil texture unbinds.
func (d *Device) SetTexture(index int, tex *Texture2D) error {
	if err := d.enter(); err != nil {
		return err
	}
	textures, _ := d.backend.MaxTextureSlots(d.handle)
	if index < 0 || index >= textures {
		return fmt.Errorf("%w: sampler %d of %d", ErrInvalidData, index, textures)
	}
	var h TextureHandle
	if tex != nil {
		if tex.disposed {
			return ErrDisposed
		}
		h = tex.handle
	}
	d.backend.VerifySampler(d.handle, index, h)
	return nil
}

// BackbufferSize returns the backbuffer dimensions.
func (d *Device) BackbufferSize() (w, h int) {
	d.guard.Check()
	return d.backend.BackbufferSize(d.handle)
}

// SupportsHardwareInstancing reports instanced draw support.
func (d *Device) SupportsHardwareInstancing() bool {
	d.guard.Check()
	return d.backend.SupportsHardwareInstancing(d.handle)
}

// MaxTextureSlots returns the pixel and vertex sampler counts.
func (d *Device) MaxTextureSlots() (textures, vertexTextures int) {
	d.guard.Check()
	return d.backend.MaxTextureSlots(d.handle)
}
