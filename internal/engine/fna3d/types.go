package fna3d

// DeviceHandle, TextureHandle and BufferHandle are opaque backend objects.
// Zero is never a valid handle.
type (
	DeviceHandle  uint64
	TextureHandle uint64
	BufferHandle  uint64
)

// SurfaceFormat is a texel layout, numbered as in XNA.
type SurfaceFormat int32

const (
	SurfaceColor SurfaceFormat = iota
	SurfaceBgr565
	SurfaceBgra5551
	SurfaceBgra4444
	SurfaceDxt1
	SurfaceDxt3
	SurfaceDxt5
	SurfaceNormalizedByte2
	SurfaceNormalizedByte4
	SurfaceRgba1010102
	SurfaceRg32
	SurfaceRgba64
	SurfaceAlpha8
	SurfaceSingle
	SurfaceVector2
	SurfaceVector4
	SurfaceHalfSingle
	SurfaceHalfVector2
	SurfaceHalfVector4
	SurfaceHdrBlendable
	SurfaceColorBgraEXT
	SurfaceColorSrgbEXT
	SurfaceDxt5SrgbEXT
	SurfaceBc7EXT
	SurfaceBc7SrgbEXT
)

var surfaceNames = [...]string{
	"Color", "Bgr565", "Bgra5551", "Bgra4444", "Dxt1", "Dxt3", "Dxt5",
	"NormalizedByte2", "NormalizedByte4", "Rgba1010102", "Rg32", "Rgba64",
	"Alpha8", "Single", "Vector2", "Vector4", "HalfSingle", "HalfVector2",
	"HalfVector4", "HdrBlendable", "ColorBgraEXT", "ColorSrgbEXT",
	"Dxt5SrgbEXT", "Bc7EXT", "Bc7SrgbEXT",
}

func (f SurfaceFormat) String() string {
	if f >= 0 && int(f) < len(surfaceNames) {
		return surfaceNames[f]
	}
	return "SurfaceFormat(?)"
}

// Compressed reports whether f stores 4x4 texel blocks.
func (f SurfaceFormat) Compressed() bool {
	switch f {
	case SurfaceDxt1, SurfaceDxt3, SurfaceDxt5, SurfaceDxt5SrgbEXT, SurfaceBc7EXT, SurfaceBc7SrgbEXT:
		return true
	}
	return false
}

// Size returns bytes per texel, or bytes per 4x4 block for compressed
// formats. Unknown formats report 0.
func (f SurfaceFormat) Size() int {
	switch f {
	case SurfaceDxt1:
		return 8
	case SurfaceDxt3, SurfaceDxt5, SurfaceDxt5SrgbEXT, SurfaceBc7EXT, SurfaceBc7SrgbEXT:
		return 16
	case SurfaceAlpha8:
		return 1
	case SurfaceBgr565, SurfaceBgra4444, SurfaceBgra5551, SurfaceHalfSingle, SurfaceNormalizedByte2:
		return 2
	case SurfaceColor, SurfaceSingle, SurfaceRg32, SurfaceHalfVector2, SurfaceNormalizedByte4,
		SurfaceRgba1010102, SurfaceColorBgraEXT, SurfaceColorSrgbEXT:
		return 4
	case SurfaceHalfVector4, SurfaceRgba64, SurfaceVector2, SurfaceHdrBlendable:
		return 8
	case SurfaceVector4:
		return 16
	}
	return 0
}

// DataSize returns the bytes needed for a w by h region in format f.
func (f SurfaceFormat) DataSize(w, h int) int {
	if f.Compressed() {
		return ((w + 3) / 4) * ((h + 3) / 4) * f.Size()
	}
	return w * h * f.Size()
}

// DepthFormat is the depth/stencil buffer layout.
type DepthFormat int32

const (
	DepthNone DepthFormat = iota
	Depth16
	Depth24
	Depth24Stencil8
)

// PresentInterval selects vsync behavior.
type PresentInterval int32

const (
	PresentIntervalDefault PresentInterval = iota
	PresentIntervalOne
	PresentIntervalTwo
	PresentIntervalImmediate
)

// PrimitiveType is the topology of a draw call.
type PrimitiveType int32

const (
	TriangleList PrimitiveType = iota
	TriangleStrip
	LineList
	LineStrip
	PointListEXT
)

// VertexCount returns how many vertices primitiveCount primitives consume.
func (p PrimitiveType) VertexCount(primitiveCount int) int {
	switch p {
	case TriangleList:
		return primitiveCount * 3
	case TriangleStrip:
		return primitiveCount + 2
	case LineList:
		return primitiveCount * 2
	case LineStrip:
		return primitiveCount + 1
	case PointListEXT:
		return primitiveCount
	}
	panic("fna3d: unknown primitive type")
}

// ClearOptions selects the buffers Clear touches.
type ClearOptions int32

const (
	ClearTarget      ClearOptions = 1
	ClearDepthBuffer ClearOptions = 2
	ClearStencil     ClearOptions = 4
	ClearAll                      = ClearTarget | ClearDepthBuffer | ClearStencil
)

// IndexElementSize is the width of one index.
type IndexElementSize int32

const (
	IndexSixteenBits IndexElementSize = iota
	IndexThirtyTwoBits
)

// Size returns the index width in bytes.
func (s IndexElementSize) Size() int {
	if s == IndexThirtyTwoBits {
		return 4
	}
	return 2
}

// BufferUsage hints how a buffer is accessed.
type BufferUsage int32

const (
	BufferUsageNone BufferUsage = iota
	BufferUsageWriteOnly
)

// SetDataOptions controls how buffer uploads treat in-flight data.
type SetDataOptions int32

const (
	SetDataNone SetDataOptions = iota
	SetDataDiscard
	SetDataNoOverwrite
)

// VertexElementFormat is the type of one vertex attribute.
type VertexElementFormat int32

const (
	ElementSingle VertexElementFormat = iota
	ElementVector2
	ElementVector3
	ElementVector4
	ElementColor
	ElementByte4
	ElementShort2
	ElementShort4
	ElementNormalizedShort2
	ElementNormalizedShort4
	ElementHalfVector2
	ElementHalfVector4
)

// Size returns the attribute width in bytes.
func (f VertexElementFormat) Size() int {
	switch f {
	case ElementSingle, ElementColor, ElementByte4, ElementShort2,
		ElementNormalizedShort2, ElementHalfVector2:
		return 4
	case ElementVector2, ElementShort4, ElementNormalizedShort4, ElementHalfVector4:
		return 8
	case ElementVector3:
		return 12
	case ElementVector4:
		return 16
	}
	return 0
}

// VertexElementUsage is the semantic of a vertex attribute.
type VertexElementUsage int32

const (
	UsagePosition VertexElementUsage = iota
	UsageColor
	UsageTextureCoordinate
	UsageNormal
	UsageBinormal
	UsageTangent
	UsageBlendIndices
	UsageBlendWeight
	UsageDepth
	UsageFog
	UsagePointSize
	UsageSample
	UsageTessellateFactor
)

// VertexElement places one attribute inside a vertex.
type VertexElement struct {
	Offset     int
	Format     VertexElementFormat
	Usage      VertexElementUsage
	UsageIndex int
}

// VertexDeclaration describes the layout of one vertex.
type VertexDeclaration struct {
	Stride   int
	Elements []VertexElement
}

// VertexBufferBinding attaches a vertex buffer to the input assembler.
type VertexBufferBinding struct {
	Buffer            BufferHandle
	Declaration       VertexDeclaration
	VertexOffset      int
	InstanceFrequency int
}

// Viewport is the render target region and depth range.
type Viewport struct {
	X, Y, W, H         int32
	MinDepth, MaxDepth float32
}

// Rectangle is an integer pixel rectangle.
type Rectangle struct {
	X, Y, W, H int32
}

// Color is 8-bit RGBA.
type Color struct {
	R, G, B, A uint8
}

// PresentationParameters describes the backbuffer a device renders to.
type PresentationParameters struct {
	BackBufferWidth      int
	BackBufferHeight     int
	BackBufferFormat     SurfaceFormat
	MultiSampleCount     int
	DeviceWindowHandle   uintptr
	IsFullScreen         bool
	DepthStencilFormat   DepthFormat
	PresentationInterval PresentInterval
	WindowTitle          string
}
