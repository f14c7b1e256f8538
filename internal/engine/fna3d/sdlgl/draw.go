package sdlgl

import (
	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/fnago/internal/engine/fna3d"
)

// Attribute locations of the built-in program.
const (
	attribPosition = 0
	attribColor    = 1
	attribTexCoord = 2
)

const vertexShader = `
#version 410 core

layout (location = 0) in vec4 aPos;
layout (location = 1) in vec4 aColor;
layout (location = 2) in vec2 aTexCoord;

out vec4 vColor;
out vec2 vTexCoord;

void main() {
	gl_Position = aPos;
	vColor = aColor;
	vTexCoord = aTexCoord;
}
`

const fragmentShader = `
#version 410 core

in vec4 vColor;
in vec2 vTexCoord;
out vec4 FragColor;

uniform sampler2D tex;

void main() {
	FragColor = vColor * texture(tex, vTexCoord);
}
`

// glAttrib maps a vertex element format to glVertexAttribPointer
// arguments.
func glAttrib(f fna3d.VertexElementFormat) (size int32, xtype uint32, normalized bool) {
	switch f {
	case fna3d.ElementSingle:
		return 1, gl.FLOAT, false
	case fna3d.ElementVector2:
		return 2, gl.FLOAT, false
	case fna3d.ElementVector3:
		return 3, gl.FLOAT, false
	case fna3d.ElementVector4:
		return 4, gl.FLOAT, false
	case fna3d.ElementColor:
		return 4, gl.UNSIGNED_BYTE, true
	case fna3d.ElementByte4:
		return 4, gl.UNSIGNED_BYTE, false
	case fna3d.ElementShort2:
		return 2, gl.SHORT, false
	case fna3d.ElementShort4:
		return 4, gl.SHORT, false
	case fna3d.ElementNormalizedShort2:
		return 2, gl.SHORT, true
	case fna3d.ElementNormalizedShort4:
		return 4, gl.SHORT, true
	case fna3d.ElementHalfVector2:
		return 2, gl.HALF_FLOAT, false
	case fna3d.ElementHalfVector4:
		return 4, gl.HALF_FLOAT, false
	}
	return 0, 0, false
}

func glPrimitive(p fna3d.PrimitiveType) uint32 {
	switch p {
	case fna3d.TriangleStrip:
		return gl.TRIANGLE_STRIP
	case fna3d.LineList:
		return gl.LINES
	case fna3d.LineStrip:
		return gl.LINE_STRIP
	case fna3d.PointListEXT:
		return gl.POINTS
	}
	return gl.TRIANGLES
}

func usageLocation(u fna3d.VertexElementUsage, index int) (uint32, bool) {
	if index != 0 {
		return 0, false
	}
	switch u {
	case fna3d.UsagePosition:
		return attribPosition, true
	case fna3d.UsageColor:
		return attribColor, true
	case fna3d.UsageTextureCoordinate:
		return attribTexCoord, true
	}
	return 0, false
}

// ApplyVertexBufferBindings points the built-in attributes at the bound
// buffers. Attributes no binding provides fall back to constant values:
// white color and a zero texture coordinate.
func (b *Backend) ApplyVertexBufferBindings(dev fna3d.DeviceHandle, bindings []fna3d.VertexBufferBinding, baseVertex int) {
	gl.BindVertexArray(b.vao)
	for _, loc := range []uint32{attribPosition, attribColor, attribTexCoord} {
		gl.DisableVertexAttribArray(loc)
	}
	gl.VertexAttrib4f(attribColor, 1, 1, 1, 1)
	gl.VertexAttrib2f(attribTexCoord, 0, 0)

	for _, bind := range bindings {
		name, ok := b.buffers[bind.Buffer]
		if !ok {
			b.log.Warn("binding unknown vertex buffer", zap.Uint64("buffer", uint64(bind.Buffer)))
			continue
		}
		gl.BindBuffer(gl.ARRAY_BUFFER, name)
		stride := bind.Declaration.Stride
		base := (baseVertex + bind.VertexOffset) * stride
		for _, e := range bind.Declaration.Elements {
			loc, ok := usageLocation(e.Usage, e.UsageIndex)
			if !ok {
				continue
			}
			size, xtype, normalized := glAttrib(e.Format)
			if size == 0 {
				continue
			}
			gl.EnableVertexAttribArray(loc)
			gl.VertexAttribPointerWithOffset(loc, size, xtype, normalized, int32(stride), uintptr(base+e.Offset))
			gl.VertexAttribDivisor(loc, uint32(bind.InstanceFrequency))
		}
	}
}

// VerifySampler binds a texture to a unit; handle 0 binds the 1x1 white
// texture.
func (b *Backend) VerifySampler(dev fna3d.DeviceHandle, index int, tex fna3d.TextureHandle) {
	gl.ActiveTexture(gl.TEXTURE0 + uint32(index))
	name := b.white
	if t, ok := b.textures[tex]; ok {
		name = t.name
	}
	gl.BindTexture(gl.TEXTURE_2D, name)
	gl.ActiveTexture(gl.TEXTURE0)
}

// DrawPrimitives draws non-indexed vertices with the built-in program.
func (b *Backend) DrawPrimitives(dev fna3d.DeviceHandle, prim fna3d.PrimitiveType, vertexStart, primitiveCount int) {
	gl.UseProgram(b.program)
	gl.BindVertexArray(b.vao)
	gl.DrawArrays(glPrimitive(prim), int32(vertexStart), int32(prim.VertexCount(primitiveCount)))
}

// DrawIndexedPrimitives draws indexed vertices with the built-in program.
func (b *Backend) DrawIndexedPrimitives(dev fna3d.DeviceHandle, prim fna3d.PrimitiveType, baseVertex, minVertexIndex, numVertices,
	startIndex, primitiveCount int, indices fna3d.BufferHandle, size fna3d.IndexElementSize) {
	name, ok := b.buffers[indices]
	if !ok {
		b.log.Warn("drawing with unknown index buffer", zap.Uint64("buffer", uint64(indices)))
		return
	}
	xtype := uint32(gl.UNSIGNED_SHORT)
	if size == fna3d.IndexThirtyTwoBits {
		xtype = gl.UNSIGNED_INT
	}

	gl.UseProgram(b.program)
	gl.BindVertexArray(b.vao)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, name)
	gl.DrawRangeElementsBaseVertex(
		glPrimitive(prim),
		uint32(minVertexIndex),
		uint32(minVertexIndex+numVertices-1),
		int32(prim.VertexCount(primitiveCount)),
		xtype,
		gl.PtrOffset(startIndex*size.Size()),
		int32(baseVertex),
	)
}
