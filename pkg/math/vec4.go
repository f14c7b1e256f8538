package math

// Vec4 is a 4-component vector. Packed formats use it as their common
// interchange type, with X..W mapping to the R..A channels.
type Vec4 struct {
	X, Y, Z, W float32
}

// Vec2 returns the X and Y components.
func (v Vec4) Vec2() Vec2 {
	return Vec2{v.X, v.Y}
}

// Vec3 returns the X, Y and Z components.
func (v Vec4) Vec3() Vec3 {
	return Vec3{v.X, v.Y, v.Z}
}

// MulVec4 multiplies the matrix by a Vec4.
func (m Mat4) MulVec4(v Vec4) Vec4 {
	return Vec4{
		m[0]*v.X + m[4]*v.Y + m[8]*v.Z + m[12]*v.W,
		m[1]*v.X + m[5]*v.Y + m[9]*v.Z + m[13]*v.W,
		m[2]*v.X + m[6]*v.Y + m[10]*v.Z + m[14]*v.W,
		m[3]*v.X + m[7]*v.Y + m[11]*v.Z + m[15]*v.W,
	}
}
