package math

import (
	"testing"

	"github.com/chewxy/math32"
)

func TestVec2Length(t *testing.T) {
	v := Vec2{3, 4}
	got := v.Length()
	want := float32(5)
	if got != want {
		t.Errorf("Vec2.Length() = %v, want %v", got, want)
	}
}

func TestVec3Cross(t *testing.T) {
	x := Vec3{1, 0, 0}
	y := Vec3{0, 1, 0}
	got := x.Cross(y)
	want := Vec3{0, 0, 1}
	if got != want {
		t.Errorf("Vec3.Cross() = %v, want %v", got, want)
	}
}

func TestVec3Normalize(t *testing.T) {
	n := Vec3{3, 0, 4}.Normalize()
	if l := n.Length(); l < 0.999 || l > 1.001 {
		t.Errorf("Vec3.Normalize().Length() = %v, want ~1", l)
	}
	if got := (Vec3{}).Normalize(); got != (Vec3{}) {
		t.Errorf("Vec3{}.Normalize() = %v, want zero", got)
	}
}

func TestVec3Angle(t *testing.T) {
	tests := []struct {
		a, b Vec3
		want float32
	}{
		{Vec3{1, 0, 0}, Vec3{0, 1, 0}, math32.Pi / 2},
		{Vec3{1, 0, 0}, Vec3{2, 0, 0}, 0},
		{Vec3{1, 0, 0}, Vec3{-1, 0, 0}, math32.Pi},
		{Vec3{}, Vec3{1, 0, 0}, 0},
	}
	for _, tt := range tests {
		got := tt.a.Angle(tt.b)
		if math32.Abs(got-tt.want) > 1e-5 {
			t.Errorf("%v.Angle(%v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestVec3MinMax(t *testing.T) {
	a := Vec3{1, 5, -2}
	b := Vec3{3, -1, 0}
	if got := a.Min(b); got != (Vec3{1, -1, -2}) {
		t.Errorf("Min() = %v", got)
	}
	if got := a.Max(b); got != (Vec3{3, 5, 0}) {
		t.Errorf("Max() = %v", got)
	}
}
