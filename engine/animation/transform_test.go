package animation

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestTransformCombineInverseIsIdentity(t *testing.T) {
	a := NewTransform(mgl32.Vec3{1, 2, 3}, rotY(40).Mul(rotZ(15)), mgl32.Vec3{2, 2, 2})

	id := a.Inverse().Combine(a)
	assertVec3(t, mgl32.Vec3{}, id.Translation)
	assertSameRotation(t, mgl32.QuatIdent(), id.Rotation)
	assertVec3(t, mgl32.Vec3{1, 1, 1}, id.Scale)
}

func TestTransformInverseZeroScale(t *testing.T) {
	a := NewTransform(mgl32.Vec3{1, 0, 0}, mgl32.QuatIdent(), mgl32.Vec3{0, 1, 2})
	inv := a.Inverse()
	assert.Equal(t, mgl32.Vec3{0, 1, 0.5}, inv.Scale)
}

func TestTransformPointMatchesMat4(t *testing.T) {
	a := NewTransform(mgl32.Vec3{4, -1, 2}, rotZ(90), mgl32.Vec3{1, 2, 3})
	p := mgl32.Vec3{1, 1, 1}

	want := a.Mat4().Mul4x1(p.Vec4(1)).Vec3()
	assertVec3(t, want, a.TransformPoint(p))
}

func TestTransformFromMat4RoundTrip(t *testing.T) {
	a := NewTransform(mgl32.Vec3{3, 2, 1}, rotY(-30).Mul(rotZ(60)), mgl32.Vec3{0.5, 2, 1.5})
	b := TransformFromMat4(a.Mat4())

	assertVec3(t, a.Translation, b.Translation)
	assertSameRotation(t, a.Rotation, b.Rotation)
	assertVec3(t, a.Scale, b.Scale)
}

func TestTransformMixEndpoints(t *testing.T) {
	a := NewTransform(mgl32.Vec3{0.1, 0.2, 0.3}, rotY(10), mgl32.Vec3{1, 1, 1})
	b := NewTransform(mgl32.Vec3{7.7, -3.3, 1.9}, rotY(80), mgl32.Vec3{2, 3, 4})

	start := a.Mix(b, 0)
	assert.Equal(t, a.Translation, start.Translation)
	assert.Equal(t, a.Scale, start.Scale)
	assertSameRotation(t, a.Rotation, start.Rotation)

	end := a.Mix(b, 1)
	assert.Equal(t, b.Translation, end.Translation)
	assert.Equal(t, b.Scale, end.Scale)
	assertSameRotation(t, b.Rotation, end.Rotation)

	mid := a.Mix(b, 0.5)
	assertSameRotation(t, rotY(45), mid.Rotation)
	assert.InDelta(t, 1, mid.Rotation.Len(), tolerance)
}
