package packedvector

import "github.com/Faultbox/fnago/pkg/math"

// HalfVector4 packs four floats into 64 bits, X in the lowest lane.
type HalfVector4 struct {
	packed uint64
}

var _ Packed[uint64] = (*HalfVector4)(nil)

// NewHalfVector4 packs x, y, z and w.
func NewHalfVector4(x, y, z, w float32) HalfVector4 {
	return HalfVector4{packed: packHalf4(math.Vec4{X: x, Y: y, Z: z, W: w})}
}

func packHalf4(v math.Vec4) uint64 {
	return uint64(FloatToHalfBits(v.X)) |
		uint64(FloatToHalfBits(v.Y))<<16 |
		uint64(FloatToHalfBits(v.Z))<<32 |
		uint64(FloatToHalfBits(v.W))<<48
}

// PackedValue returns the packed bits.
func (h HalfVector4) PackedValue() uint64 { return h.packed }

// SetPackedValue replaces the packed bits.
func (h *HalfVector4) SetPackedValue(v uint64) { h.packed = v }

// PackFromVector4 packs all four components.
func (h *HalfVector4) PackFromVector4(v math.Vec4) {
	h.packed = packHalf4(v)
}

// ToVector4 unpacks all four components.
func (h HalfVector4) ToVector4() math.Vec4 {
	return math.Vec4{
		X: HalfBitsToFloat(uint16(h.packed)),
		Y: HalfBitsToFloat(uint16(h.packed >> 16)),
		Z: HalfBitsToFloat(uint16(h.packed >> 32)),
		W: HalfBitsToFloat(uint16(h.packed >> 48)),
	}
}

// Equals compares packed bits.
func (h HalfVector4) Equals(other HalfVector4) bool {
	return h.packed == other.packed
}

// Hash returns a hash of the packed bits.
func (h HalfVector4) Hash() uint64 {
	return h.packed
}

// String returns the packed bits as uppercase hexadecimal.
func (h HalfVector4) String() string {
	return hex(h.packed)
}
