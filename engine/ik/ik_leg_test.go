package ik

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-ik/engine/animation"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// legSkeleton is a root with one leg: hip 0.2 to the side, two unit bones down and a short toe.
func legSkeleton(t *testing.T) *animation.Skeleton {
	t.Helper()
	at := func(x, y, z float32) animation.Transform {
		tr := animation.IdentityTransform()
		tr.Translation = mgl32.Vec3{x, y, z}
		return tr
	}
	pose, err := animation.NewPoseFromJoints(
		[]animation.Transform{at(0, 2, 0), at(0.2, 0, 0), at(0, -1, 0), at(0, -1, 0), at(0, 0, 0.3)},
		[]int{animation.NoParent, 0, 1, 2, 3},
	)
	require.NoError(t, err)
	skeleton, err := animation.NewSkeleton(pose, pose, []string{"root", "hip", "knee", "ankle", "toe"})
	require.NoError(t, err)
	return skeleton
}

func TestNewIkLegResolvesJoints(t *testing.T) {
	leg, err := NewIkLeg(legSkeleton(t), "hip", "knee", "ankle", "toe", 0.2)
	require.NoError(t, err)

	assert.Equal(t, 1, leg.Hip())
	assert.Equal(t, 2, leg.Knee())
	assert.Equal(t, 3, leg.Ankle())
	assert.Equal(t, 4, leg.Toe())
	assert.InDelta(t, 0.2, leg.AnkleToGroundOffset(), 1e-6)
	assert.Equal(t, 3, leg.Solver().Len())
}

func TestNewIkLegMissingJoint(t *testing.T) {
	_, err := NewIkLeg(legSkeleton(t), "hip", "shin", "ankle", "heel", 0)
	require.ErrorIs(t, err, ErrJointNotFound)
	assert.Contains(t, err.Error(), "shin")
	assert.Contains(t, err.Error(), "heel")

	assert.Panics(t, func() {
		MustNewIkLeg(legSkeleton(t), "hip", "knee", "ankle", "missing", 0)
	})
}

func TestNewIkLegBrokenChain(t *testing.T) {
	_, err := NewIkLeg(legSkeleton(t), "hip", "ankle", "knee", "toe", 0)
	assert.ErrorIs(t, err, ErrBrokenChain)
}

func TestIkLegSolvePlacesAnkle(t *testing.T) {
	skeleton := legSkeleton(t)
	leg := MustNewIkLeg(skeleton, "hip", "knee", "ankle", "toe", 0.1,
		WithSolverOptions(WithNumSteps(50), WithThreshold(1e-4)))
	pose := skeleton.RestPose()
	before := pose.Clone()

	model := animation.IdentityTransform()
	model.Translation = mgl32.Vec3{1, 0, -1}
	ground := mgl32.Vec3{1.2, 0.2, -0.6}

	require.NoError(t, leg.Solve(model, pose, ground))

	solved := leg.AdjustedPose()
	ankle := model.Combine(solved.GlobalTransform(leg.Ankle())).Translation
	want := ground.Add(mgl32.Vec3{0, 0.1, 0})
	assert.InDelta(t, 0, ankle.Sub(want).Len(), 1e-2)

	hip := model.Combine(solved.GlobalTransform(leg.Hip())).Translation
	assert.InDelta(t, 0, hip.Sub(mgl32.Vec3{1.2, 2, -1}).Len(), 1e-4)

	assert.Equal(t, before, pose)
	assert.Equal(t, pose.LocalTransform(0), solved.LocalTransform(0))
}

func TestIkLegKeepsThreeLinkChain(t *testing.T) {
	skeleton := legSkeleton(t)
	leg := MustNewIkLeg(skeleton, "hip", "knee", "ankle", "toe", 0,
		WithSolverOptions(WithChainLength(1), WithNumSteps(50)))
	require.Equal(t, 3, leg.Solver().Len())
	assert.Equal(t, 50, leg.Solver().NumSteps())

	var err error
	assert.NotPanics(t, func() {
		err = leg.Solve(animation.IdentityTransform(), skeleton.RestPose(), mgl32.Vec3{0.2, 0.5, 0.5})
	})
	assert.NoError(t, err)
}

func TestIkLegSolveNeedsHipParent(t *testing.T) {
	skeleton := legSkeleton(t)
	leg := MustNewIkLeg(skeleton, "hip", "knee", "ankle", "toe", 0)
	pose := skeleton.RestPose()
	pose.SetParent(leg.Hip(), animation.NoParent)

	assert.ErrorIs(t, leg.Solve(animation.IdentityTransform(), pose, mgl32.Vec3{}), ErrHipWithoutParent)
}

func TestIkLegPinTrack(t *testing.T) {
	pin := animation.NewTrack(animation.InterpolationCubic,
		animation.NewFrame(0, animation.Scalar(0)),
		animation.NewFrame(0.4, animation.Scalar(1)),
		animation.NewFrame(0.6, animation.Scalar(1)),
		animation.NewFrame(1, animation.Scalar(0)),
	)
	leg := MustNewIkLeg(legSkeleton(t), "hip", "knee", "ankle", "toe", 0, WithPinTrack(pin))

	assert.Equal(t, 4, leg.PinTrack().Len())
	assert.InDelta(t, 1, float32(leg.PinTrack().Sample(0.5, true)), 1e-5)
}
