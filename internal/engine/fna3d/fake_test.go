package fna3d

import (
	"fmt"

	"github.com/Faultbox/fnago/pkg/math"
)

// fakeBackend records calls and keeps texture and buffer contents in
// memory.
type fakeBackend struct {
	calls    []string
	next     uint64
	textures map[TextureHandle][]byte
	buffers  map[BufferHandle][]byte
	blend    Color
	failNext error
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		textures: make(map[TextureHandle][]byte),
		buffers:  make(map[BufferHandle][]byte),
	}
}

func (f *fakeBackend) record(format string, args ...any) {
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
}

func (f *fakeBackend) take() error {
	err := f.failNext
	f.failNext = nil
	return err
}

func (f *fakeBackend) PrepareWindowAttributes() uint32 {
	f.record("PrepareWindowAttributes")
	return 2
}

func (f *fakeBackend) DrawableSize(window uintptr) (int, int) { return 640, 480 }

func (f *fakeBackend) CreateDevice(params PresentationParameters, debug bool) (DeviceHandle, error) {
	f.record("CreateDevice %dx%d", params.BackBufferWidth, params.BackBufferHeight)
	if err := f.take(); err != nil {
		return 0, err
	}
	f.next++
	return DeviceHandle(f.next), nil
}

func (f *fakeBackend) DestroyDevice(dev DeviceHandle) { f.record("DestroyDevice %d", dev) }

func (f *fakeBackend) SwapBuffers(dev DeviceHandle, src, dst *Rectangle, window uintptr) {
	f.record("SwapBuffers")
}

func (f *fakeBackend) Clear(dev DeviceHandle, opts ClearOptions, color math.Vec4, depth float32, stencil int32) {
	f.record("Clear %d %v", opts, color)
}

func (f *fakeBackend) DrawPrimitives(dev DeviceHandle, prim PrimitiveType, vertexStart, primitiveCount int) {
	f.record("DrawPrimitives %d %d %d", prim, vertexStart, primitiveCount)
}

func (f *fakeBackend) DrawIndexedPrimitives(dev DeviceHandle, prim PrimitiveType, baseVertex, minVertexIndex, numVertices,
	startIndex, primitiveCount int, indices BufferHandle, size IndexElementSize) {
	f.record("DrawIndexedPrimitives %d %d %d", prim, startIndex, primitiveCount)
}

func (f *fakeBackend) ApplyVertexBufferBindings(dev DeviceHandle, bindings []VertexBufferBinding, baseVertex int) {
	f.record("ApplyVertexBufferBindings %d", len(bindings))
}

func (f *fakeBackend) SetViewport(dev DeviceHandle, vp Viewport) { f.record("SetViewport") }
func (f *fakeBackend) SetScissorRect(dev DeviceHandle, r Rectangle) { f.record("SetScissorRect") }
func (f *fakeBackend) SetBlendFactor(dev DeviceHandle, c Color) { f.blend = c }
func (f *fakeBackend) BlendFactor(dev DeviceHandle) Color { return f.blend }
func (f *fakeBackend) BackbufferSize(dev DeviceHandle) (int, int) { return 800, 600 }
func (f *fakeBackend) SupportsHardwareInstancing(dev DeviceHandle) bool { return true }
func (f *fakeBackend) MaxTextureSlots(dev DeviceHandle) (int, int) { return 16, 4 }

func (f *fakeBackend) VerifySampler(dev DeviceHandle, index int, tex TextureHandle) {
	f.record("VerifySampler %d %d", index, tex)
}

func (f *fakeBackend) CreateTexture2D(dev DeviceHandle, format SurfaceFormat, w, h, levels int, renderTarget bool) (TextureHandle, error) {
	if err := f.take(); err != nil {
		return 0, err
	}
	f.next++
	h2 := TextureHandle(f.next)
	f.textures[h2] = make([]byte, format.DataSize(w, h))
	return h2, nil
}

func (f *fakeBackend) SetTextureData2D(dev DeviceHandle, tex TextureHandle, x, y, w, h, level int, data []byte) {
	f.record("SetTextureData2D %d %d,%d %dx%d", tex, x, y, w, h)
	if level == 0 && x == 0 && y == 0 {
		copy(f.textures[tex], data)
	}
}

func (f *fakeBackend) TextureData2D(dev DeviceHandle, tex TextureHandle, x, y, w, h, level int, dst []byte) {
	copy(dst, f.textures[tex])
}

func (f *fakeBackend) DisposeTexture(dev DeviceHandle, tex TextureHandle) {
	f.record("DisposeTexture %d", tex)
	delete(f.textures, tex)
}

func (f *fakeBackend) GenVertexBuffer(dev DeviceHandle, dynamic bool, usage BufferUsage, size int) (BufferHandle, error) {
	return f.genBuffer(size)
}

func (f *fakeBackend) GenIndexBuffer(dev DeviceHandle, dynamic bool, usage BufferUsage, size int) (BufferHandle, error) {
	return f.genBuffer(size)
}

func (f *fakeBackend) genBuffer(size int) (BufferHandle, error) {
	if err := f.take(); err != nil {
		return 0, err
	}
	f.next++
	h := BufferHandle(f.next)
	f.buffers[h] = make([]byte, size)
	return h, nil
}

func (f *fakeBackend) SetVertexBufferData(dev DeviceHandle, buf BufferHandle, offset int, data []byte, opts SetDataOptions) {
	copy(f.buffers[buf][offset:], data)
}

func (f *fakeBackend) SetIndexBufferData(dev DeviceHandle, buf BufferHandle, offset int, data []byte, opts SetDataOptions) {
	copy(f.buffers[buf][offset:], data)
}

func (f *fakeBackend) DisposeVertexBuffer(dev DeviceHandle, buf BufferHandle) {
	f.record("DisposeVertexBuffer %d", buf)
	delete(f.buffers, buf)
}

func (f *fakeBackend) DisposeIndexBuffer(dev DeviceHandle, buf BufferHandle) {
	f.record("DisposeIndexBuffer %d", buf)
	delete(f.buffers, buf)
}
