package collision

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// rayEpsilon rejects near-parallel rays and hits at or behind the origin.
const rayEpsilon float32 = 1e-7

// Ray is a half-line starting at Origin. Direction need not be normalized; hit distances are
// measured in multiples of it.
type Ray struct {
	Origin    mgl32.Vec3
	Direction mgl32.Vec3
}

// NewRay creates a ray pointing straight down (-Y) from origin.
func NewRay(origin mgl32.Vec3) Ray {
	return Ray{Origin: origin, Direction: mgl32.Vec3{0, -1, 0}}
}

// Intersect runs the Möller-Trumbore test against tri.
//
// Parameters:
//   - tri: the triangle to test
//
// Returns:
//   - float32: the ray parameter of the hit
//   - bool: false when the ray is parallel to the plane, misses the face, or the hit is not in front of the origin
func (r Ray) Intersect(tri Triangle) (float32, bool) {
	edge1 := tri.V1.Sub(tri.V0)
	edge2 := tri.V2.Sub(tri.V0)
	h := r.Direction.Cross(edge2)
	a := edge1.Dot(h)
	if math32.Abs(a) < rayEpsilon {
		return 0, false
	}

	f := 1 / a
	s := r.Origin.Sub(tri.V0)
	u := f * s.Dot(h)
	if u < 0 || u > 1 {
		return 0, false
	}

	q := s.Cross(edge1)
	v := f * r.Direction.Dot(q)
	if v < 0 || u+v > 1 {
		return 0, false
	}

	t := f * edge2.Dot(q)
	if t <= rayEpsilon {
		return 0, false
	}
	return t, true
}

// Cast returns the point where r hits tri.
//
// Parameters:
//   - tri: the triangle to test
//
// Returns:
//   - mgl32.Vec3: the hit point, zero on a miss
//   - bool: whether the ray hit
func (r Ray) Cast(tri Triangle) (mgl32.Vec3, bool) {
	t, ok := r.Intersect(tri)
	if !ok {
		return mgl32.Vec3{}, false
	}
	return r.At(t), true
}

// At returns the point Origin + Direction*t.
func (r Ray) At(t float32) mgl32.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}
