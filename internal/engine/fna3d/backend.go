// Package fna3d is the graphics device boundary. Backend is the native
// driver surface; Device wraps one backend device, checks the calling
// thread on every entry point and validates arguments before they reach
// native code.
package fna3d

import "github.com/Faultbox/fnago/pkg/math"

// Backend is implemented by graphics drivers. Implementations may assume
// they are called from a single thread; Device enforces that when its
// guard is enabled.
type Backend interface {
	// PrepareWindowAttributes configures the windowing system and returns
	// the window flags the driver needs.
	PrepareWindowAttributes() uint32
	DrawableSize(window uintptr) (w, h int)

	CreateDevice(params PresentationParameters, debug bool) (DeviceHandle, error)
	DestroyDevice(dev DeviceHandle)

	// SwapBuffers presents the backbuffer. Nil rectangles mean the whole
	// surface.
	SwapBuffers(dev DeviceHandle, src, dst *Rectangle, window uintptr)

	Clear(dev DeviceHandle, opts ClearOptions, color math.Vec4, depth float32, stencil int32)
	DrawPrimitives(dev DeviceHandle, prim PrimitiveType, vertexStart, primitiveCount int)
	DrawIndexedPrimitives(dev DeviceHandle, prim PrimitiveType, baseVertex, minVertexIndex, numVertices,
		startIndex, primitiveCount int, indices BufferHandle, size IndexElementSize)
	ApplyVertexBufferBindings(dev DeviceHandle, bindings []VertexBufferBinding, baseVertex int)

	SetViewport(dev DeviceHandle, vp Viewport)
	SetScissorRect(dev DeviceHandle, r Rectangle)
	SetBlendFactor(dev DeviceHandle, c Color)
	BlendFactor(dev DeviceHandle) Color
	VerifySampler(dev DeviceHandle, index int, tex TextureHandle)

	BackbufferSize(dev DeviceHandle) (w, h int)
	SupportsHardwareInstancing(dev DeviceHandle) bool
	MaxTextureSlots(dev DeviceHandle) (textures, vertexTextures int)

	CreateTexture2D(dev DeviceHandle, format SurfaceFormat, w, h, levels int, renderTarget bool) (TextureHandle, error)
	SetTextureData2D(dev DeviceHandle, tex TextureHandle, x, y, w, h, level int, data []byte)
	TextureData2D(dev DeviceHandle, tex TextureHandle, x, y, w, h, level int, dst []byte)
	DisposeTexture(dev DeviceHandle, tex TextureHandle)

	GenVertexBuffer(dev DeviceHandle, dynamic bool, usage BufferUsage, size int) (BufferHandle, error)
	SetVertexBufferData(dev DeviceHandle, buf BufferHandle, offset int, data []byte, opts SetDataOptions)
	DisposeVertexBuffer(dev DeviceHandle, buf BufferHandle)

	GenIndexBuffer(dev DeviceHandle, dynamic bool, usage BufferUsage, size int) (BufferHandle, error)
	SetIndexBufferData(dev DeviceHandle, buf BufferHandle, offset int, data []byte, opts SetDataOptions)
	DisposeIndexBuffer(dev DeviceHandle, buf BufferHandle)
}
