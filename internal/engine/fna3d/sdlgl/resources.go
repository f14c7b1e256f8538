package sdlgl

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/fnago/internal/engine/fna3d"
)

// glFormat maps a surface format to TexImage2D arguments.
func glFormat(f fna3d.SurfaceFormat) (internal int32, format, xtype uint32, ok bool) {
	switch f {
	case fna3d.SurfaceColor, fna3d.SurfaceColorSrgbEXT:
		return gl.RGBA8, gl.RGBA, gl.UNSIGNED_BYTE, true
	case fna3d.SurfaceColorBgraEXT:
		return gl.RGBA8, gl.BGRA, gl.UNSIGNED_BYTE, true
	case fna3d.SurfaceBgr565:
		return gl.RGB565, gl.RGB, gl.UNSIGNED_SHORT_5_6_5, true
	case fna3d.SurfaceBgra5551:
		return gl.RGB5_A1, gl.BGRA, gl.UNSIGNED_SHORT_1_5_5_5_REV, true
	case fna3d.SurfaceBgra4444:
		return gl.RGBA4, gl.BGRA, gl.UNSIGNED_SHORT_4_4_4_4_REV, true
	case fna3d.SurfaceAlpha8:
		return gl.R8, gl.RED, gl.UNSIGNED_BYTE, true
	case fna3d.SurfaceNormalizedByte2:
		return gl.RG8_SNORM, gl.RG, gl.BYTE, true
	case fna3d.SurfaceNormalizedByte4:
		return gl.RGBA8_SNORM, gl.RGBA, gl.BYTE, true
	case fna3d.SurfaceRgba1010102:
		return gl.RGB10_A2, gl.RGBA, gl.UNSIGNED_INT_2_10_10_10_REV, true
	case fna3d.SurfaceRg32:
		return gl.RG16, gl.RG, gl.UNSIGNED_SHORT, true
	case fna3d.SurfaceRgba64:
		return gl.RGBA16, gl.RGBA, gl.UNSIGNED_SHORT, true
	case fna3d.SurfaceSingle:
		return gl.R32F, gl.RED, gl.FLOAT, true
	case fna3d.SurfaceVector2:
		return gl.RG32F, gl.RG, gl.FLOAT, true
	case fna3d.SurfaceVector4:
		return gl.RGBA32F, gl.RGBA, gl.FLOAT, true
	case fna3d.SurfaceHalfSingle:
		return gl.R16F, gl.RED, gl.HALF_FLOAT, true
	case fna3d.SurfaceHalfVector2:
		return gl.RG16F, gl.RG, gl.HALF_FLOAT, true
	case fna3d.SurfaceHalfVector4, fna3d.SurfaceHdrBlendable:
		return gl.RGBA16F, gl.RGBA, gl.HALF_FLOAT, true
	}
	return 0, 0, 0, false
}

// CreateTexture2D allocates every mip level of a texture.
func (b *Backend) CreateTexture2D(dev fna3d.DeviceHandle, format fna3d.SurfaceFormat, w, h, levels int, renderTarget bool) (fna3d.TextureHandle, error) {
	internal, pixFormat, xtype, ok := glFormat(format)
	if !ok {
		return 0, fmt.Errorf("sdlgl: surface format %s not supported", format)
	}

	var name uint32
	gl.GenTextures(1, &name)
	gl.BindTexture(gl.TEXTURE_2D, name)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	for level := range levels {
		gl.TexImage2D(gl.TEXTURE_2D, int32(level), internal,
			int32(max(1, w>>level)), int32(max(1, h>>level)), 0, pixFormat, xtype, nil)
	}
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAX_LEVEL, int32(levels-1))
	minFilter := int32(gl.LINEAR)
	if levels > 1 {
		minFilter = gl.LINEAR_MIPMAP_LINEAR
	}
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, minFilter)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	h2 := fna3d.TextureHandle(b.nextHandle())
	b.textures[h2] = &glTexture{name: name, format: format, width: w, height: h}
	return h2, nil
}

// SetTextureData2D uploads a region of one level.
func (b *Backend) SetTextureData2D(dev fna3d.DeviceHandle, tex fna3d.TextureHandle, x, y, w, h, level int, data []byte) {
	t, ok := b.textures[tex]
	if !ok || len(data) == 0 {
		return
	}
	_, pixFormat, xtype, _ := glFormat(t.format)
	gl.BindTexture(gl.TEXTURE_2D, t.name)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexSubImage2D(gl.TEXTURE_2D, int32(level), int32(x), int32(y), int32(w), int32(h),
		pixFormat, xtype, gl.Ptr(data))
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

// TextureData2D reads a region of one level. GL 4.1 can only read whole
// levels, so the level is read and the region copied out.
func (b *Backend) TextureData2D(dev fna3d.DeviceHandle, tex fna3d.TextureHandle, x, y, w, h, level int, dst []byte) {
	t, ok := b.textures[tex]
	if !ok || len(dst) == 0 {
		return
	}
	_, pixFormat, xtype, _ := glFormat(t.format)
	lw, lh := max(1, t.width>>level), max(1, t.height>>level)
	texel := t.format.Size()

	full := dst
	if x != 0 || y != 0 || w != lw || h != lh {
		full = make([]byte, lw*lh*texel)
	}
	gl.BindTexture(gl.TEXTURE_2D, t.name)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.GetTexImage(gl.TEXTURE_2D, int32(level), pixFormat, xtype, gl.Ptr(full))
	gl.BindTexture(gl.TEXTURE_2D, 0)

	if &full[0] == &dst[0] {
		return
	}
	row := w * texel
	for r := range h {
		src := ((y+r)*lw + x) * texel
		copy(dst[r*row:(r+1)*row], full[src:src+row])
	}
}

// DisposeTexture deletes a texture.
func (b *Backend) DisposeTexture(dev fna3d.DeviceHandle, tex fna3d.TextureHandle) {
	if t, ok := b.textures[tex]; ok {
		gl.DeleteTextures(1, &t.name)
		delete(b.textures, tex)
	}
}

func (b *Backend) genBuffer(target uint32, dynamic bool, size int) fna3d.BufferHandle {
	var name uint32
	gl.GenBuffers(1, &name)
	gl.BindBuffer(target, name)
	gl.BufferData(target, size, nil, bufferUsage(dynamic))
	gl.BindBuffer(target, 0)

	h := fna3d.BufferHandle(b.nextHandle())
	b.buffers[h] = name
	return h
}

func bufferUsage(dynamic bool) uint32 {
	if dynamic {
		return gl.STREAM_DRAW
	}
	return gl.STATIC_DRAW
}

func (b *Backend) setBufferData(target uint32, buf fna3d.BufferHandle, offset int, data []byte, opts fna3d.SetDataOptions) {
	name, ok := b.buffers[buf]
	if !ok || len(data) == 0 {
		return
	}
	gl.BindBuffer(target, name)
	if opts == fna3d.SetDataDiscard {
		// Orphan the old storage so in-flight draws keep their copy.
		var size int32
		gl.GetBufferParameteriv(target, gl.BUFFER_SIZE, &size)
		gl.BufferData(target, int(size), nil, gl.STREAM_DRAW)
	}
	gl.BufferSubData(target, offset, len(data), gl.Ptr(data))
	gl.BindBuffer(target, 0)
}

func (b *Backend) disposeBuffer(buf fna3d.BufferHandle) {
	if name, ok := b.buffers[buf]; ok {
		gl.DeleteBuffers(1, &name)
		delete(b.buffers, buf)
	}
}

// GenVertexBuffer allocates an array buffer.
func (b *Backend) GenVertexBuffer(dev fna3d.DeviceHandle, dynamic bool, usage fna3d.BufferUsage, size int) (fna3d.BufferHandle, error) {
	return b.genBuffer(gl.ARRAY_BUFFER, dynamic, size), nil
}

// SetVertexBufferData writes into an array buffer.
func (b *Backend) SetVertexBufferData(dev fna3d.DeviceHandle, buf fna3d.BufferHandle, offset int, data []byte, opts fna3d.SetDataOptions) {
	b.setBufferData(gl.ARRAY_BUFFER, buf, offset, data, opts)
}

// DisposeVertexBuffer deletes an array buffer.
func (b *Backend) DisposeVertexBuffer(dev fna3d.DeviceHandle, buf fna3d.BufferHandle) {
	b.disposeBuffer(buf)
}

// GenIndexBuffer allocates an element buffer.
func (b *Backend) GenIndexBuffer(dev fna3d.DeviceHandle, dynamic bool, usage fna3d.BufferUsage, size int) (fna3d.BufferHandle, error) {
	return b.genBuffer(gl.ELEMENT_ARRAY_BUFFER, dynamic, size), nil
}

// SetIndexBufferData writes into an element buffer.
func (b *Backend) SetIndexBufferData(dev fna3d.DeviceHandle, buf fna3d.BufferHandle, offset int, data []byte, opts fna3d.SetDataOptions) {
	b.setBufferData(gl.ELEMENT_ARRAY_BUFFER, buf, offset, data, opts)
}

// DisposeIndexBuffer deletes an element buffer.
func (b *Backend) DisposeIndexBuffer(dev fna3d.DeviceHandle, buf fna3d.BufferHandle) {
	b.disposeBuffer(buf)
}

// whiteTexture creates the 1x1 texture sampled when nothing is bound.
func whiteTexture() uint32 {
	var name uint32
	pixel := []byte{255, 255, 255, 255}
	gl.GenTextures(1, &name)
	gl.BindTexture(gl.TEXTURE_2D, name)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, 1, 1, 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixel))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	return name
}

// compileProgram compiles and links the built-in shaders.
func compileProgram(vertexSrc, fragmentSrc string) (uint32, error) {
	vert, err := compileShader(vertexSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, fmt.Errorf("vertex shader: %w", err)
	}
	defer gl.DeleteShader(vert)

	frag, err := compileShader(fragmentSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		return 0, fmt.Errorf("fragment shader: %w", err)
	}
	defer gl.DeleteShader(frag)

	program := gl.CreateProgram()
	gl.AttachShader(program, vert)
	gl.AttachShader(program, frag)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("link failed: %s", log)
	}
	return program, nil
}

func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)

	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("compile failed: %s", log)
	}
	return shader, nil
}

var _ fna3d.Backend = (*Backend)(nil)
