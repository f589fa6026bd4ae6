package ik

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-ik/common"
	"github.com/Carmen-Shannon/oxy-ik/engine/animation"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	// ErrJointNotFound is returned when a leg joint name is missing from the skeleton.
	ErrJointNotFound = errors.New("joint not found")
	// ErrBrokenChain is returned when the knee is not a child of the hip or the ankle is not a child of the knee.
	ErrBrokenChain = errors.New("leg joints do not form a chain")
	// ErrHipWithoutParent is returned by Solve when the hip joint is a root.
	ErrHipWithoutParent = errors.New("hip joint has no parent")
)

// legChainLength is the hip, knee and ankle.
const legChainLength = 3

// IkLeg adjusts a hip, knee and ankle so the ankle reaches a target while the rest of the
// pose is left alone. The solved pose is kept on the leg and read with AdjustedPose.
type IkLeg struct {
	pinTrack            animation.ScalarTrack
	solver              *FabrikSolver
	ikPose              *animation.Pose
	hip                 int
	knee                int
	ankle               int
	toe                 int
	ankleToGroundOffset float32
}

// NewIkLeg resolves the leg's joints by name.
//
// Parameters:
//   - skeleton: the rig the leg belongs to
//   - hip, knee, ankle, toe: joint names; knee must be a child of hip and ankle a child of knee
//   - ankleToGroundOffset: height of the ankle above the sole
//   - options: optional configuration (pin track, solver settings)
//
// Returns:
//   - *IkLeg: the leg
//   - error: ErrJointNotFound or ErrBrokenChain
func NewIkLeg(skeleton *animation.Skeleton, hip, knee, ankle, toe string, ankleToGroundOffset float32, options ...IkLegBuilderOption) (*IkLeg, error) {
	l := &IkLeg{
		ankleToGroundOffset: ankleToGroundOffset,
		ikPose:              skeleton.RestPose(),
	}

	var err error
	for _, j := range []struct {
		name string
		dst  *int
	}{
		{hip, &l.hip},
		{knee, &l.knee},
		{ankle, &l.ankle},
		{toe, &l.toe},
	} {
		idx, ok := skeleton.JointIndex(j.name)
		if !ok {
			err = errors.Join(err, fmt.Errorf("%q: %w", j.name, ErrJointNotFound))
			continue
		}
		*j.dst = idx
	}
	if err != nil {
		return nil, err
	}

	if l.ikPose.Parent(l.knee) != l.hip || l.ikPose.Parent(l.ankle) != l.knee {
		return nil, fmt.Errorf("%s -> %s -> %s: %w", hip, knee, ankle, ErrBrokenChain)
	}

	l.solver = NewFabrikSolver(WithChainLength(legChainLength))
	for _, opt := range options {
		opt(l)
	}
	if l.solver.Len() != legChainLength {
		l.solver.Resize(legChainLength)
	}
	return l, nil
}

// MustNewIkLeg is NewIkLeg that panics on error, for rigs known to be valid.
func MustNewIkLeg(skeleton *animation.Skeleton, hip, knee, ankle, toe string, ankleToGroundOffset float32, options ...IkLegBuilderOption) *IkLeg {
	l, err := NewIkLeg(skeleton, hip, knee, ankle, toe, ankleToGroundOffset, options...)
	if err != nil {
		panic(err)
	}
	return l
}

// Solve copies pose into the leg's adjusted pose and bends hip, knee and ankle so that the
// ankle sits ankleToGroundOffset above ankleTarget.
//
// Parameters:
//   - model: the instance's world transform
//   - pose: the animated pose, left unchanged
//   - ankleTarget: the world-space ground point under the foot
//
// Returns:
//   - error: ErrHipWithoutParent when the hip is a root joint
func (l *IkLeg) Solve(model animation.Transform, pose *animation.Pose, ankleTarget mgl32.Vec3) error {
	hipParent := pose.Parent(l.hip)
	if hipParent == animation.NoParent {
		return ErrHipWithoutParent
	}

	l.ikPose.CopyFrom(pose)
	l.solver.SetLocalTransform(0, model.Combine(pose.GlobalTransform(l.hip)))
	l.solver.SetLocalTransform(1, pose.LocalTransform(l.knee))
	l.solver.SetLocalTransform(2, pose.LocalTransform(l.ankle))

	target := animation.IdentityTransform()
	target.Translation = ankleTarget.Add(common.AxisY.Mul(l.ankleToGroundOffset))
	l.solver.Solve(target)

	parentWorld := model.Combine(pose.GlobalTransform(hipParent))
	l.ikPose.SetLocalTransform(l.hip, parentWorld.Inverse().Combine(l.solver.LocalTransform(0)))
	l.ikPose.SetLocalTransform(l.knee, l.solver.LocalTransform(1))
	l.ikPose.SetLocalTransform(l.ankle, l.solver.LocalTransform(2))
	return nil
}

// AdjustedPose returns the pose produced by the last Solve.
func (l *IkLeg) AdjustedPose() *animation.Pose {
	return l.ikPose
}

// PinTrack returns the track that weights foot planting over a normalized walk cycle.
func (l *IkLeg) PinTrack() animation.ScalarTrack {
	return l.pinTrack
}

// SetPinTrack replaces the pin track.
func (l *IkLeg) SetPinTrack(track animation.ScalarTrack) {
	l.pinTrack = track
}

// Hip returns the hip joint index.
func (l *IkLeg) Hip() int { return l.hip }

// Knee returns the knee joint index.
func (l *IkLeg) Knee() int { return l.knee }

// Ankle returns the ankle joint index.
func (l *IkLeg) Ankle() int { return l.ankle }

// Toe returns the toe joint index.
func (l *IkLeg) Toe() int { return l.toe }

// AnkleToGroundOffset returns the ankle height above the sole.
func (l *IkLeg) AnkleToGroundOffset() float32 { return l.ankleToGroundOffset }

// SetAnkleToGroundOffset changes the ankle height above the sole.
func (l *IkLeg) SetAnkleToGroundOffset(offset float32) {
	l.ankleToGroundOffset = offset
}

// Solver exposes the leg's chain solver.
func (l *IkLeg) Solver() *FabrikSolver {
	return l.solver
}
