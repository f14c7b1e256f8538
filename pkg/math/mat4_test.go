package math

import (
	"testing"

	"github.com/chewxy/math32"
)

func TestIdentity(t *testing.T) {
	m := Identity()
	// Diagonal should be 1
	if m[0] != 1 || m[5] != 1 || m[10] != 1 || m[15] != 1 {
		t.Error("Identity diagonal should be 1")
	}
	if !m.IsIdentity() {
		t.Error("IsIdentity should be true for Identity()")
	}
}

func TestMulIdentity(t *testing.T) {
	m := Translate(1, 2, 3)
	result := m.Mul(Identity())

	for i := 0; i < 16; i++ {
		if result[i] != m[i] {
			t.Errorf("M * I should equal M, element %d: got %f, want %f", i, result[i], m[i])
		}
	}
}

func TestTranslate(t *testing.T) {
	m := Translate(5, 10, 15)

	// Translation lives in the fourth column (indices 12, 13, 14)
	if got := m.Translation(); got != (Vec3{5, 10, 15}) {
		t.Errorf("Translation() = %v, want (5, 10, 15)", got)
	}
}

func TestMulTranslationsAdd(t *testing.T) {
	m := Translate(1, 0, 0).Mul(Translate(0, 2, 0)).Mul(Translate(0, 0, 3))
	if got := m.Translation(); got != (Vec3{1, 2, 3}) {
		t.Errorf("composed translation = %v, want (1, 2, 3)", got)
	}
}

func TestMulOrder(t *testing.T) {
	// Scale applied first, then translate.
	m := Translate(10, 0, 0).Mul(Scale(2, 2, 2))
	got := m.TransformPoint(Vec3{1, 1, 1})
	want := Vec3{12, 2, 2}
	if got != want {
		t.Errorf("T*S applied to (1,1,1) = %v, want %v", got, want)
	}
}

func TestTransformPoint(t *testing.T) {
	tests := []struct {
		name string
		m    Mat4
		p    Vec3
		want Vec3
	}{
		{"translate", Translate(10, 20, 30), Vec3{1, 2, 3}, Vec3{11, 22, 33}},
		{"scale", Scale(2, 2, 2), Vec3{1, 2, 3}, Vec3{2, 4, 6}},
		{"identity", Identity(), Vec3{4, 5, 6}, Vec3{4, 5, 6}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.m.TransformPoint(tt.p); got != tt.want {
				t.Errorf("TransformPoint: got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRotateY90(t *testing.T) {
	m := RotateY(math32.Pi / 2)
	result := m.TransformPoint(Vec3{1, 0, 0})

	// After 90 degree Y rotation, (1,0,0) should become approximately (0,0,-1)
	if abs(result.X) > 0.001 || abs(result.Y) > 0.001 || abs(result.Z+1) > 0.001 {
		t.Errorf("RotateY 90: got %v, want (0, 0, -1)", result)
	}
}

func TestRotateZ90(t *testing.T) {
	m := RotateZ(math32.Pi / 2)
	result := m.TransformPoint(Vec3{1, 0, 0})

	if abs(result.X) > 0.001 || abs(result.Y-1) > 0.001 {
		t.Errorf("RotateZ 90: got %v, want (0, 1, 0)", result)
	}
}

func TestApproxEqual(t *testing.T) {
	a := Translate(1, 2, 3)
	b := a
	b[12] += 0.0001
	if !a.ApproxEqual(b, 0.001) {
		t.Error("expected matrices within 0.001 to be approximately equal")
	}
	if a.ApproxEqual(b, 0.00001) {
		t.Error("expected matrices to differ at 0.00001")
	}
}

func TestMulVec4(t *testing.T) {
	got := Translate(1, 2, 3).MulVec4(Vec4{1, 1, 1, 1})
	want := Vec4{2, 3, 4, 1}
	if got != want {
		t.Errorf("MulVec4 = %v, want %v", got, want)
	}
	// Directions (w=0) ignore translation.
	got = Translate(1, 2, 3).MulVec4(Vec4{1, 0, 0, 0})
	if got != (Vec4{1, 0, 0, 0}) {
		t.Errorf("MulVec4 direction = %v, want (1,0,0,0)", got)
	}
}

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
