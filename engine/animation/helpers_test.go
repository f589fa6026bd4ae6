package animation

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

const tolerance = 1e-4

func assertVec3(t *testing.T, want, got mgl32.Vec3, msgAndArgs ...any) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], tolerance, msgAndArgs...)
	}
}

// assertSameRotation compares rotations up to quaternion sign.
func assertSameRotation(t *testing.T, want, got mgl32.Quat, msgAndArgs ...any) {
	t.Helper()
	assert.InDelta(t, 1, math32.Abs(want.Normalize().Dot(got.Normalize())), tolerance, msgAndArgs...)
}

func assertMat4(t *testing.T, want, got mgl32.Mat4, msgAndArgs ...any) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], tolerance, msgAndArgs...)
	}
}

func rotY(degrees float32) mgl32.Quat {
	return mgl32.QuatRotate(mgl32.DegToRad(degrees), mgl32.Vec3{0, 1, 0})
}

func rotZ(degrees float32) mgl32.Quat {
	return mgl32.QuatRotate(mgl32.DegToRad(degrees), mgl32.Vec3{0, 0, 1})
}
