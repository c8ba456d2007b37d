package math

import (
	"math"
	"testing"
)

func TestQuatIdentity(t *testing.T) {
	q := QuatIdentity()
	if q.X != 0 || q.Y != 0 || q.Z != 0 || q.W != 1 {
		t.Errorf("Identity quaternion should be (0,0,0,1), got (%v,%v,%v,%v)", q.X, q.Y, q.Z, q.W)
	}
}

func TestQuatNormalize(t *testing.T) {
	q := Quat{X: 1, Y: 2, Z: 3, W: 4}
	n := q.Normalize()

	length := float32(math.Sqrt(float64(n.X*n.X + n.Y*n.Y + n.Z*n.Z + n.W*n.W)))
	if math.Abs(float64(length-1.0)) > 0.0001 {
		t.Errorf("Normalized quaternion length should be 1, got %v", length)
	}
}

func TestQuatFromAxisAngle(t *testing.T) {
	q := QuatFromAxisAngle(Vec3{X: 0, Y: 1, Z: 0}, float32(math.Pi/2))

	expectedW := float32(math.Cos(math.Pi / 4))
	expectedY := float32(math.Sin(math.Pi / 4))

	if math.Abs(float64(q.W-expectedW)) > 0.001 {
		t.Errorf("QuatFromAxisAngle W: expected %v, got %v", expectedW, q.W)
	}
	if math.Abs(float64(q.Y-expectedY)) > 0.001 {
		t.Errorf("QuatFromAxisAngle Y: expected %v, got %v", expectedY, q.Y)
	}
}

func TestQuatFromAxisAngleUnnormalizedAxis(t *testing.T) {
	a := QuatFromAxisAngle(Vec3{X: 0, Y: 0, Z: 5}, 1)
	b := QuatFromAxisAngle(Vec3{X: 0, Y: 0, Z: 1}, 1)

	if math.Abs(float64(a.Z-b.Z)) > 0.0001 || math.Abs(float64(a.W-b.W)) > 0.0001 {
		t.Errorf("axis length should not matter: got %v and %v", a, b)
	}
}

func TestQuatMulIdentity(t *testing.T) {
	q := QuatFromAxisAngle(Vec3{X: 1, Y: 0, Z: 0}, 0.5)
	if got := q.Mul(QuatIdentity()); got != q {
		t.Errorf("q * identity = %v, want %v", got, q)
	}
}

func TestGammaCorrect(t *testing.T) {
	tests := []struct {
		in   float32
		want float64
	}{
		{0, 0},
		{1, 1},
		{0.5, math.Pow(0.5, 1/2.2)},
	}

	for _, tt := range tests {
		got := GammaCorrect(tt.in)
		if math.Abs(float64(got)-tt.want) > 0.0001 {
			t.Errorf("GammaCorrect(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestQuatSlerp(t *testing.T) {
	a := QuatIdentity()
	b := QuatFromAxisAngle(Vec3{Z: 1}, float32(math.Pi/2))

	mid := a.Slerp(b, 0.5)
	want := QuatFromAxisAngle(Vec3{Z: 1}, float32(math.Pi/4))
	if math.Abs(float64(mid.Z-want.Z)) > 1e-4 || math.Abs(float64(mid.W-want.W)) > 1e-4 {
		t.Errorf("expected %+v, got %+v", want, mid)
	}

	if end := a.Slerp(b, 1); math.Abs(float64(end.Dot(b))) < 0.9999 {
		t.Errorf("expected slerp at 1 to reach the target, got %+v", end)
	}

	// The negated target is the same rotation; slerp must take the short arc.
	neg := Quat{X: -b.X, Y: -b.Y, Z: -b.Z, W: -b.W}
	if got := a.Slerp(neg, 0.5); math.Abs(float64(got.Dot(mid))) < 0.9999 {
		t.Errorf("expected the short arc, got %+v", got)
	}
}

func TestVec3Lerp(t *testing.T) {
	got := Vec3{X: 0, Y: 2, Z: -4}.Lerp(Vec3{X: 4, Y: 2, Z: 4}, 0.25)
	if got != (Vec3{X: 1, Y: 2, Z: -2}) {
		t.Errorf("unexpected lerp %+v", got)
	}
}
