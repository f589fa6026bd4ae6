package common

import (
	"github.com/go-gl/mathgl/mgl32"
)

// parallelDot is how close the dot product of two unit vectors must be to ±1 before
// they are treated as parallel.
const parallelDot float32 = 1 - 1e-6

// QuatFromXYZW builds a quaternion from glTF-ordered (x, y, z, w) components.
//
// Parameters:
//   - q: the quaternion components in x, y, z, w order
//
// Returns:
//   - mgl32.Quat: the quaternion
func QuatFromXYZW(q [4]float32) mgl32.Quat {
	return mgl32.Quat{W: q[3], V: mgl32.Vec3{q[0], q[1], q[2]}}
}

// QuatToXYZW flattens a quaternion into glTF-ordered (x, y, z, w) components.
//
// Parameters:
//   - q: the quaternion to flatten
//
// Returns:
//   - [4]float32: the components in x, y, z, w order
func QuatToXYZW(q mgl32.Quat) [4]float32 {
	return [4]float32{q.V[0], q.V[1], q.V[2], q.W}
}

// QuatNeighborhood returns b, or -b when b lies in the opposite hemisphere of a.
// Both represent the same rotation; the flipped one interpolates along the short arc.
//
// Parameters:
//   - a: the reference quaternion
//   - b: the quaternion to correct
//
// Returns:
//   - mgl32.Quat: b or its negation
func QuatNeighborhood(a, b mgl32.Quat) mgl32.Quat {
	if a.Dot(b) < 0 {
		return b.Scale(-1)
	}
	return b
}

// QuatMix blends a toward b by t along the shortest path and renormalizes the result (nlerp).
// A degenerate (zero-length) blend resolves to the identity rotation.
//
// Parameters:
//   - a: the rotation at t = 0
//   - b: the rotation at t = 1
//   - t: the blend factor
//
// Returns:
//   - mgl32.Quat: the normalized blended rotation
func QuatMix(a, b mgl32.Quat, t float32) mgl32.Quat {
	b = QuatNeighborhood(a, b)
	return a.Scale(1 - t).Add(b.Scale(t)).Normalize()
}

// FromTo returns the shortest-arc rotation that turns direction from onto direction to.
// Zero-length inputs yield the identity. Opposite directions yield a half turn about
// the axis perpendicular to from that OrthogonalAxis selects.
//
// Parameters:
//   - from: the starting direction (need not be normalized)
//   - to: the target direction (need not be normalized)
//
// Returns:
//   - mgl32.Quat: a unit quaternion q such that q.Rotate(from) is parallel to to
func FromTo(from, to mgl32.Vec3) mgl32.Quat {
	if from.LenSqr() < Epsilon || to.LenSqr() < Epsilon {
		return mgl32.QuatIdent()
	}
	f := from.Normalize()
	t := to.Normalize()

	d := f.Dot(t)
	if d >= parallelDot {
		return mgl32.QuatIdent()
	}
	if d <= -parallelDot {
		axis := f.Cross(OrthogonalAxis(f)).Normalize()
		return mgl32.Quat{W: 0, V: axis}
	}

	half := f.Add(t).Normalize()
	return mgl32.Quat{W: f.Dot(half), V: f.Cross(half)}
}

// LookRotation returns the rotation that points +Z along direction while keeping +Y as close
// to up as possible. A zero direction looks down +Z; a direction parallel to up skips the
// roll correction.
//
// Parameters:
//   - direction: the forward direction to face
//   - up: the reference up direction
//
// Returns:
//   - mgl32.Quat: the normalized look rotation
func LookRotation(direction, up mgl32.Vec3) mgl32.Quat {
	f := NormalizeOr(direction, AxisZ)
	u := NormalizeOr(up, AxisY)

	forward := FromTo(AxisZ, f)
	right := u.Cross(f)
	if right.LenSqr() < Epsilon {
		return forward
	}
	u = f.Cross(right.Normalize())

	objectUp := forward.Rotate(AxisY)
	if objectUp.Dot(u) <= -parallelDot {
		// Half turn about the facing direction so that forward is preserved.
		return mgl32.Quat{W: 0, V: f}.Mul(forward).Normalize()
	}
	roll := FromTo(objectUp, u)
	return roll.Mul(forward).Normalize()
}
