package animation

import (
	"github.com/Carmen-Shannon/oxy-ik/common"
	"github.com/go-gl/mathgl/mgl32"
)

// Sampleable is the set of operations a Track needs from its value type.
// Scalar, Vec3 and Quat are the implementations used by the engine.
type Sampleable[T any] interface {
	// Default returns the value a track yields when it cannot be sampled.
	Default() T
	// Add returns the component-wise sum with other.
	Add(other T) T
	// Scale returns the value multiplied by s.
	Scale(s float32) T
	// Lerp interpolates toward other by t.
	Lerp(other T, t float32) T
	// Neighborhood returns other adjusted to interpolate along the short path from the receiver.
	Neighborhood(other T) T
	// AdjustHermite fixes up a raw Hermite result.
	AdjustHermite() T
}

// Scalar is a float32 track value.
type Scalar float32

// Vec3 is a three component track value used for positions and scales.
type Vec3 mgl32.Vec3

// Quat is a rotation track value.
type Quat mgl32.Quat

var (
	_ Sampleable[Scalar] = Scalar(0)
	_ Sampleable[Vec3]   = Vec3{}
	_ Sampleable[Quat]   = Quat{}
)

func (Scalar) Default() Scalar          { return 0 }
func (s Scalar) Add(o Scalar) Scalar    { return s + o }
func (s Scalar) Scale(f float32) Scalar { return s * Scalar(f) }
func (s Scalar) Lerp(o Scalar, t float32) Scalar {
	return Scalar(common.Lerp(float32(s), float32(o), t))
}
func (s Scalar) Neighborhood(o Scalar) Scalar { return o }
func (s Scalar) AdjustHermite() Scalar        { return s }

func (Vec3) Default() Vec3              { return Vec3{} }
func (v Vec3) Add(o Vec3) Vec3          { return Vec3(mgl32.Vec3(v).Add(mgl32.Vec3(o))) }
func (v Vec3) Scale(f float32) Vec3     { return Vec3(mgl32.Vec3(v).Mul(f)) }
func (v Vec3) Neighborhood(o Vec3) Vec3 { return o }
func (v Vec3) AdjustHermite() Vec3      { return v }
func (v Vec3) Lerp(o Vec3, t float32) Vec3 {
	return Vec3(common.LerpVec3(mgl32.Vec3(v), mgl32.Vec3(o), t))
}

// Default returns the identity rotation rather than the zero quaternion.
func (Quat) Default() Quat          { return Quat(mgl32.QuatIdent()) }
func (q Quat) Add(o Quat) Quat      { return Quat(mgl32.Quat(q).Add(mgl32.Quat(o))) }
func (q Quat) Scale(f float32) Quat { return Quat(mgl32.Quat(q).Scale(f)) }
func (q Quat) Lerp(o Quat, t float32) Quat {
	return Quat(common.QuatMix(mgl32.Quat(q), mgl32.Quat(o), t))
}
func (q Quat) Neighborhood(o Quat) Quat {
	return Quat(common.QuatNeighborhood(mgl32.Quat(q), mgl32.Quat(o)))
}

// AdjustHermite renormalizes, since a Hermite blend of unit quaternions is not unit length.
func (q Quat) AdjustHermite() Quat { return Quat(mgl32.Quat(q).Normalize()) }
