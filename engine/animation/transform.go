// Package animation implements keyframe tracks, clips and joint poses for skeletal animation.
package animation

import (
	"github.com/Carmen-Shannon/oxy-ik/common"
	"github.com/go-gl/mathgl/mgl32"
)

// Transform is a decomposed affine transform: translation, rotation and per-axis scale.
// Joints store their local transform in this form so that blending can interpolate each
// component independently.
type Transform struct {
	Translation mgl32.Vec3
	Rotation    mgl32.Quat
	Scale       mgl32.Vec3
}

// IdentityTransform returns the transform with zero translation, identity rotation and unit scale.
//
// Returns:
//   - Transform: the identity transform
func IdentityTransform() Transform {
	return Transform{
		Rotation: mgl32.QuatIdent(),
		Scale:    common.One,
	}
}

// NewTransform creates a Transform from its three components.
//
// Parameters:
//   - translation: the translation component
//   - rotation: the rotation component, expected to be unit length
//   - scale: the per-axis scale component
//
// Returns:
//   - Transform: the assembled transform
func NewTransform(translation mgl32.Vec3, rotation mgl32.Quat, scale mgl32.Vec3) Transform {
	return Transform{Translation: translation, Rotation: rotation, Scale: scale}
}

// Combine returns the transform that applies b first and then t (t * b).
//
// Parameters:
//   - b: the child transform, expressed in t's space
//
// Returns:
//   - Transform: the composed transform
func (t Transform) Combine(b Transform) Transform {
	return Transform{
		Translation: t.Translation.Add(t.Rotation.Rotate(common.MulVec3(t.Scale, b.Translation))),
		Rotation:    t.Rotation.Mul(b.Rotation),
		Scale:       common.MulVec3(t.Scale, b.Scale),
	}
}

// Inverse returns the transform that undoes t. Zero scale components invert to zero.
//
// Returns:
//   - Transform: the inverse transform
func (t Transform) Inverse() Transform {
	invRot := t.Rotation.Inverse()
	invScale := common.ReciprocalVec3(t.Scale)
	return Transform{
		Translation: invRot.Rotate(common.MulVec3(invScale, t.Translation.Mul(-1))),
		Rotation:    invRot,
		Scale:       invScale,
	}
}

// Mix interpolates from t toward b. Translation and scale are lerped, rotation is blended
// along the shortest arc and renormalized.
//
// Parameters:
//   - b: the transform at factor 1
//   - factor: the blend factor
//
// Returns:
//   - Transform: the blended transform
func (t Transform) Mix(b Transform, factor float32) Transform {
	return Transform{
		Translation: common.LerpVec3(t.Translation, b.Translation, factor),
		Rotation:    common.QuatMix(t.Rotation, b.Rotation, factor),
		Scale:       common.LerpVec3(t.Scale, b.Scale, factor),
	}
}

// TransformPoint applies scale, rotation and translation to a point.
func (t Transform) TransformPoint(p mgl32.Vec3) mgl32.Vec3 {
	return t.Translation.Add(t.Rotation.Rotate(common.MulVec3(t.Scale, p)))
}

// Mat4 returns the column-major matrix T * R * S.
//
// Returns:
//   - mgl32.Mat4: the matrix form of t
func (t Transform) Mat4() mgl32.Mat4 {
	tr := mgl32.Translate3D(t.Translation[0], t.Translation[1], t.Translation[2])
	sc := mgl32.Scale3D(t.Scale[0], t.Scale[1], t.Scale[2])
	return tr.Mul4(t.Rotation.Normalize().Mat4()).Mul4(sc)
}

// TransformFromMat4 decomposes an affine matrix without shear into a Transform.
// A negative determinant is folded into the X scale.
//
// Parameters:
//   - m: the column-major matrix to decompose
//
// Returns:
//   - Transform: the decomposed transform
func TransformFromMat4(m mgl32.Mat4) Transform {
	x := m.Col(0).Vec3()
	y := m.Col(1).Vec3()
	z := m.Col(2).Vec3()
	scale := mgl32.Vec3{x.Len(), y.Len(), z.Len()}
	if m.Det() < 0 {
		scale[0] = -scale[0]
	}

	inv := common.ReciprocalVec3(scale)
	rot := mgl32.Mat4FromCols(
		x.Mul(inv[0]).Vec4(0),
		y.Mul(inv[1]).Vec4(0),
		z.Mul(inv[2]).Vec4(0),
		mgl32.Vec4{0, 0, 0, 1},
	)

	return Transform{
		Translation: m.Col(3).Vec3(),
		Rotation:    mgl32.Mat4ToQuat(rot).Normalize(),
		Scale:       scale,
	}
}
