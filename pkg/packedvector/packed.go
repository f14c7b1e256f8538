// Package packedvector implements the bit-packed vertex and texel formats
// that store floating point channels as IEEE half-precision values.
//
// Every type here is a plain comparable value. Equality, hashing and
// formatting work on the packed bits, never on the decoded floats.
package packedvector

import "github.com/Faultbox/fnago/pkg/math"

// PackedVector is implemented by every packed format. It converts to and
// from the Vec4 interchange type.
type PackedVector interface {
	PackFromVector4(v math.Vec4)
	ToVector4() math.Vec4
}

// Packed exposes the raw packed storage of a format.
type Packed[T uint16 | uint32 | uint64] interface {
	PackedVector
	PackedValue() T
	SetPackedValue(v T)
}
