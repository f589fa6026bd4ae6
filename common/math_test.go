package common

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestCoalesce(t *testing.T) {
	assert.Equal(t, "walk", Coalesce("", "walk", "run"))
	assert.Equal(t, float32(0.2), Coalesce[float32](0, 0.2))
	assert.Equal(t, 0, Coalesce(0, 0))
}

func TestClampAndLerp(t *testing.T) {
	assert.Equal(t, float32(1), Clamp(3, 0, 1))
	assert.Equal(t, float32(0), Clamp(-3, 0, 1))
	assert.Equal(t, float32(0.25), Clamp(0.25, 0, 1))

	assert.Equal(t, float32(2), Lerp(2, 5, 0))
	assert.Equal(t, float32(5), Lerp(2, 5, 1))
	assert.InDelta(t, 3.5, Lerp(2, 5, 0.5), 1e-6)
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, LerpVec3(mgl32.Vec3{}, mgl32.Vec3{2, 4, 6}, 0.5))
}

func TestReciprocalVec3KeepsZero(t *testing.T) {
	assert.Equal(t, mgl32.Vec3{0.5, 0, -0.25}, ReciprocalVec3(mgl32.Vec3{2, 0, -4}))
	assert.Equal(t, mgl32.Vec3{2, 0, -12}, MulVec3(mgl32.Vec3{1, 5, 3}, mgl32.Vec3{2, 0, -4}))
}

func TestNormalizeOr(t *testing.T) {
	assert.Equal(t, AxisY, NormalizeOr(mgl32.Vec3{}, AxisY))
	n := NormalizeOr(mgl32.Vec3{3, 0, 4}, AxisY)
	assert.InDelta(t, 0.6, n[0], 1e-6)
	assert.InDelta(t, 0.8, n[2], 1e-6)
}

func TestOrthogonalAxis(t *testing.T) {
	assert.Equal(t, AxisX, OrthogonalAxis(mgl32.Vec3{0, 1, 0}))
	assert.Equal(t, AxisY, OrthogonalAxis(mgl32.Vec3{1, 0, 1}))
	assert.Equal(t, AxisZ, OrthogonalAxis(mgl32.Vec3{1, 1, 0}))
	assert.Equal(t, AxisX, OrthogonalAxis(mgl32.Vec3{}))
}

func TestSliceToBytes(t *testing.T) {
	assert.Nil(t, SliceToBytes([]float32{}))
	assert.Len(t, SliceToBytes([]mgl32.Mat4{mgl32.Ident4(), mgl32.Ident4()}), 128)
}
