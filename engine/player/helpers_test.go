package player

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-ik/engine/animation"
	"github.com/Carmen-Shannon/oxy-ik/engine/collision"
	"github.com/Carmen-Shannon/oxy-ik/engine/ik"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(x, y, z float32) animation.Transform {
	t := animation.IdentityTransform()
	t.Translation = mgl32.Vec3{x, y, z}
	return t
}

// biped is a pelvis two units up with two slightly bent legs whose ankles rest 0.15 above
// the root and toes level with the root.
func biped(t *testing.T) *animation.Skeleton {
	t.Helper()
	joints := []animation.Transform{
		at(0, 0, 0),
		at(0, 2, 0),
		at(0.2, 0, 0), at(0, -1, 0.1), at(0, -0.85, -0.1), at(0, -0.15, 0.3),
		at(-0.2, 0, 0), at(0, -1, 0.1), at(0, -0.85, -0.1), at(0, -0.15, 0.3),
	}
	parents := []int{animation.NoParent, 0, 1, 2, 3, 4, 1, 6, 7, 8}
	names := []string{"root", "pelvis", "hip_l", "knee_l", "ankle_l", "toe_l", "hip_r", "knee_r", "ankle_r", "toe_r"}

	pose, err := animation.NewPoseFromJoints(joints, parents)
	require.NoError(t, err)
	skeleton, err := animation.NewSkeleton(pose, pose, names)
	require.NoError(t, err)
	return skeleton
}

// bobClip lowers and raises the pelvis once per second.
func bobClip() *animation.Clip {
	clip := animation.NewClip("walk")
	track := clip.TransformTrack(1)
	track.Position = animation.NewTrack(animation.InterpolationLinear,
		animation.NewFrame(0, animation.Vec3{0, 2, 0}),
		animation.NewFrame(0.5, animation.Vec3{0, 1.9, 0}),
		animation.NewFrame(1, animation.Vec3{0, 2, 0}),
	)
	clip.RecalculateDuration()
	return clip
}

// strideClip bobs the pelvis like bobClip and holds every leg joint at its rest transform, so
// each sample fully overwrites the previous frame's leg IK.
func strideClip(skeleton *animation.Skeleton) *animation.Clip {
	clip := bobClip()
	rest := skeleton.RestPose()
	for joint := 2; joint < rest.Len(); joint++ {
		local := rest.LocalTransform(joint)
		track := clip.TransformTrack(uint32(joint))
		track.Position = animation.NewTrack(animation.InterpolationLinear,
			animation.NewFrame(0, animation.Vec3(local.Translation)),
			animation.NewFrame(1, animation.Vec3(local.Translation)),
		)
		track.Rotation = animation.NewTrack(animation.InterpolationLinear,
			animation.NewFrame(0, animation.Quat(local.Rotation)),
			animation.NewFrame(1, animation.Quat(local.Rotation)),
		)
	}
	clip.RecalculateDuration()
	return clip
}

func pelvisClip(name string, frames ...animation.Frame[animation.Vec3]) *animation.Clip {
	clip := animation.NewClip(name)
	clip.TransformTrack(1).Position = animation.NewTrack(animation.InterpolationLinear, frames...)
	clip.RecalculateDuration()
	return clip
}

func flatGround() *collision.Ground {
	positions := []mgl32.Vec3{{-50, 0, -50}, {-50, 0, 50}, {50, 0, -50}, {50, 0, 50}}
	return collision.NewGround(collision.MeshToTriangles(positions, []uint32{0, 1, 2, 2, 1, 3}))
}

func demoMotion() animation.Vector3Track {
	return animation.NewTrack(animation.InterpolationLinear,
		animation.NewFrame(0, animation.Vec3{0, 0, 1}),
		animation.NewFrame(1, animation.Vec3{0, 0, 10}),
		animation.NewFrame(3, animation.Vec3{22, 0, 10}),
		animation.NewFrame(4, animation.Vec3{22, 0, 2}),
		animation.NewFrame(6, animation.Vec3{0, 0, 1}),
	)
}

func bipedLegs(t *testing.T, skeleton *animation.Skeleton) []*ik.IkLeg {
	t.Helper()
	left := animation.NewTrack(animation.InterpolationCubic,
		animation.NewFrame(0, animation.Scalar(0)),
		animation.NewFrame(0.4, animation.Scalar(1)),
		animation.NewFrame(0.6, animation.Scalar(1)),
		animation.NewFrame(1, animation.Scalar(0)),
	)
	right := animation.NewTrack(animation.InterpolationCubic,
		animation.NewFrame(0, animation.Scalar(1)),
		animation.NewFrame(0.3, animation.Scalar(0)),
		animation.NewFrame(0.7, animation.Scalar(0)),
		animation.NewFrame(1, animation.Scalar(1)),
	)
	solver := ik.WithSolverOptions(ik.WithNumSteps(64))

	l, err := ik.NewIkLeg(skeleton, "hip_l", "knee_l", "ankle_l", "toe_l", 0.15, ik.WithPinTrack(left), solver)
	require.NoError(t, err)
	r, err := ik.NewIkLeg(skeleton, "hip_r", "knee_r", "ankle_r", "toe_r", 0.15, ik.WithPinTrack(right), solver)
	require.NoError(t, err)
	return []*ik.IkLeg{l, r}
}

func assertFinite(t *testing.T, palette []mgl32.Mat4) {
	t.Helper()
	for i, m := range palette {
		for _, v := range m {
			if math32.IsNaN(v) || math32.IsInf(v, 0) {
				assert.Failf(t, "non-finite palette entry", "joint %d: %v", i, m)
				break
			}
		}
	}
}
