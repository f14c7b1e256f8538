package packedvector

import "github.com/x448/float16"

// FloatToHalfBits narrows f to IEEE 754 binary16 and returns its bit
// pattern. Rounding is to nearest even; magnitudes past the half range
// become signed infinity and NaN payloads keep their high bits with the
// quiet bit set.
func FloatToHalfBits(f float32) uint16 {
	return float16.Fromfloat32(f).Bits()
}

// HalfBitsToFloat widens the binary16 pattern u to a float32. Widening is
// exact for every pattern.
func HalfBitsToFloat(u uint16) float32 {
	return float16.Frombits(u).Float32()
}
