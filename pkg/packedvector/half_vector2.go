package packedvector

import "github.com/Faultbox/fnago/pkg/math"

// HalfVector2 packs two floats into 32 bits, X in the low half.
type HalfVector2 struct {
	packed uint32
}

var _ Packed[uint32] = (*HalfVector2)(nil)

// NewHalfVector2 packs x and y.
func NewHalfVector2(x, y float32) HalfVector2 {
	return HalfVector2{packed: packHalf2(x, y)}
}

func packHalf2(x, y float32) uint32 {
	return uint32(FloatToHalfBits(x)) | uint32(FloatToHalfBits(y))<<16
}

// PackedValue returns the packed bits.
func (h HalfVector2) PackedValue() uint32 { return h.packed }

// SetPackedValue replaces the packed bits.
func (h *HalfVector2) SetPackedValue(v uint32) { h.packed = v }

// ToVector2 unpacks both components.
func (h HalfVector2) ToVector2() math.Vec2 {
	return math.Vec2{
		X: HalfBitsToFloat(uint16(h.packed)),
		Y: HalfBitsToFloat(uint16(h.packed >> 16)),
	}
}

// PackFromVector4 packs v.X and v.Y.
func (h *HalfVector2) PackFromVector4(v math.Vec4) {
	h.packed = packHalf2(v.X, v.Y)
}

// ToVector4 returns (x, y, 0, 1).
func (h HalfVector2) ToVector4() math.Vec4 {
	v := h.ToVector2()
	return math.Vec4{X: v.X, Y: v.Y, Z: 0, W: 1}
}

// Equals compares packed bits.
func (h HalfVector2) Equals(other HalfVector2) bool {
	return h.packed == other.packed
}

// Hash returns a hash of the packed bits.
func (h HalfVector2) Hash() uint64 {
	return uint64(h.packed)
}

// String returns the packed bits as uppercase hexadecimal.
func (h HalfVector2) String() string {
	return hex(uint64(h.packed))
}
