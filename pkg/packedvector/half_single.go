package packedvector

import (
	"strconv"
	"strings"

	"github.com/Faultbox/fnago/pkg/math"
)

// HalfSingle packs a single float into 16 bits.
type HalfSingle struct {
	packed uint16
}

var _ Packed[uint16] = (*HalfSingle)(nil)

// NewHalfSingle packs f.
func NewHalfSingle(f float32) HalfSingle {
	return HalfSingle{packed: FloatToHalfBits(f)}
}

// PackedValue returns the packed bits.
func (h HalfSingle) PackedValue() uint16 { return h.packed }

// SetPackedValue replaces the packed bits.
func (h *HalfSingle) SetPackedValue(v uint16) { h.packed = v }

// ToSingle unpacks the stored value.
func (h HalfSingle) ToSingle() float32 {
	return HalfBitsToFloat(h.packed)
}

// PackFromVector4 packs v.X; the other components are ignored.
func (h *HalfSingle) PackFromVector4(v math.Vec4) {
	h.packed = FloatToHalfBits(v.X)
}

// ToVector4 returns (value, 0, 0, 1).
func (h HalfSingle) ToVector4() math.Vec4 {
	return math.Vec4{X: h.ToSingle(), Y: 0, Z: 0, W: 1}
}

// Equals compares packed bits.
func (h HalfSingle) Equals(other HalfSingle) bool {
	return h.packed == other.packed
}

// Hash returns a hash of the packed bits.
func (h HalfSingle) Hash() uint64 {
	return uint64(h.packed)
}

// String returns the packed bits as uppercase hexadecimal.
func (h HalfSingle) String() string {
	return hex(uint64(h.packed))
}

func hex(v uint64) string {
	return strings.ToUpper(strconv.FormatUint(v, 16))
}
