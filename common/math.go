package common

import (
	"unsafe"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Epsilon is the squared-length threshold below which a vector is treated as zero-length.
const Epsilon float32 = 1e-12

var (
	// AxisX is the unit vector along +X.
	AxisX = mgl32.Vec3{1, 0, 0}
	// AxisY is the unit vector along +Y, the engine's up axis.
	AxisY = mgl32.Vec3{0, 1, 0}
	// AxisZ is the unit vector along +Z, the engine's forward axis.
	AxisZ = mgl32.Vec3{0, 0, 1}
	// One is the unit scale vector.
	One = mgl32.Vec3{1, 1, 1}
)

// SliceToBytes converts any slice to a byte slice for GPU buffer uploads.
// Uses unsafe pointer operations to create a view into the original data.
// WARNING: The returned slice shares memory with the input - do not modify.
//
// Parameters:
//   - data: source slice of any type
//
// Returns:
//   - []byte: byte slice view of the input data, or nil if input is empty
func SliceToBytes[T any](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	var zero T
	size := unsafe.Sizeof(zero)
	totalBytes := int(size) * len(data)
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), totalBytes)
}

// Clamp limits v to the closed range [lo, hi].
//
// Parameters:
//   - v: the value to clamp
//   - lo: the lower bound
//   - hi: the upper bound
//
// Returns:
//   - float32: v limited to [lo, hi]
func Clamp(v, lo, hi float32) float32 {
	return math32.Max(lo, math32.Min(v, hi))
}

// Lerp linearly interpolates between a and b by t. t is not clamped.
// The a*(1-t) + b*t form returns a and b exactly at t = 0 and t = 1.
//
// Parameters:
//   - a: the value at t = 0
//   - b: the value at t = 1
//   - t: the interpolation factor
//
// Returns:
//   - float32: the interpolated value
func Lerp(a, b, t float32) float32 {
	return a*(1-t) + b*t
}

// LerpVec3 linearly interpolates each component of a toward b by t.
//
// Parameters:
//   - a: the vector at t = 0
//   - b: the vector at t = 1
//   - t: the interpolation factor
//
// Returns:
//   - mgl32.Vec3: the interpolated vector
func LerpVec3(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	return a.Mul(1 - t).Add(b.Mul(t))
}

// MulVec3 multiplies two vectors component-wise.
//
// Parameters:
//   - a: the first vector
//   - b: the second vector
//
// Returns:
//   - mgl32.Vec3: the component-wise product
func MulVec3(a, b mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{a[0] * b[0], a[1] * b[1], a[2] * b[2]}
}

// ReciprocalVec3 returns 1/v per component. Zero components stay zero so that
// inverting a degenerate scale never produces Inf.
//
// Parameters:
//   - v: the vector to invert
//
// Returns:
//   - mgl32.Vec3: the component-wise reciprocal
func ReciprocalVec3(v mgl32.Vec3) mgl32.Vec3 {
	var out mgl32.Vec3
	for i := range v {
		if v[i] != 0 {
			out[i] = 1 / v[i]
		}
	}
	return out
}

// NormalizeOr returns v scaled to unit length, or fallback when v is (nearly) zero-length.
//
// Parameters:
//   - v: the vector to normalize
//   - fallback: the vector returned for degenerate input
//
// Returns:
//   - mgl32.Vec3: the normalized vector or fallback
func NormalizeOr(v, fallback mgl32.Vec3) mgl32.Vec3 {
	lenSq := v.LenSqr()
	if lenSq < Epsilon {
		return fallback
	}
	return v.Mul(1 / math32.Sqrt(lenSq))
}

// OrthogonalAxis returns the cardinal axis along which v has its smallest absolute component.
// Ties prefer X, then Y, then Z, so the choice is deterministic for any input.
//
// Parameters:
//   - v: the vector to find a non-parallel axis for
//
// Returns:
//   - mgl32.Vec3: AxisX, AxisY or AxisZ
func OrthogonalAxis(v mgl32.Vec3) mgl32.Vec3 {
	ax, ay, az := math32.Abs(v[0]), math32.Abs(v[1]), math32.Abs(v[2])
	switch {
	case ax <= ay && ax <= az:
		return AxisX
	case ay <= az:
		return AxisY
	default:
		return AxisZ
	}
}
