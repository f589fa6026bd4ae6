// Package ik provides the FABRIK chain solver and the three-joint leg built on it.
package ik

import (
	"github.com/Carmen-Shannon/oxy-ik/common"
	"github.com/Carmen-Shannon/oxy-ik/engine/animation"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	// DefaultNumSteps is the iteration cap used when no option overrides it.
	DefaultNumSteps = 15
	// DefaultThreshold is the effector-to-goal distance accepted as solved.
	DefaultThreshold float32 = 0.00001
)

// FabrikSolver solves a single joint chain toward a goal position with Forward And Backward
// Reaching Inverse Kinematics. Link 0 holds the chain root in world space; every later link
// is local to the one before it. Only rotations are changed by Solve.
type FabrikSolver struct {
	ikChain    []animation.Transform
	worldChain []mgl32.Vec3
	lengths    []float32
	segments   []mgl32.Vec3
	numSteps   int
	threshold  float32
}

// NewFabrikSolver creates a solver with an empty chain.
//
// Parameters:
//   - options: optional configuration (chain length, iteration cap, threshold)
//
// Returns:
//   - *FabrikSolver: the solver
func NewFabrikSolver(options ...FabrikSolverBuilderOption) *FabrikSolver {
	s := &FabrikSolver{
		numSteps:  DefaultNumSteps,
		threshold: DefaultThreshold,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// Resize sets the number of links. New links start at the identity transform.
//
// Parameters:
//   - n: the link count
func (s *FabrikSolver) Resize(n int) {
	chain := make([]animation.Transform, n)
	for i := range chain {
		if i < len(s.ikChain) {
			chain[i] = s.ikChain[i]
		} else {
			chain[i] = animation.IdentityTransform()
		}
	}
	s.ikChain = chain
	s.worldChain = make([]mgl32.Vec3, n)
	s.lengths = make([]float32, n)
	s.segments = make([]mgl32.Vec3, n)
}

// Len returns the number of links.
func (s *FabrikSolver) Len() int {
	return len(s.ikChain)
}

// NumSteps returns the iteration cap.
func (s *FabrikSolver) NumSteps() int {
	return s.numSteps
}

// Threshold returns the accepted effector-to-goal distance.
func (s *FabrikSolver) Threshold() float32 {
	return s.threshold
}

// LocalTransform returns link i.
func (s *FabrikSolver) LocalTransform(i int) animation.Transform {
	return s.ikChain[i]
}

// SetLocalTransform replaces link i.
func (s *FabrikSolver) SetLocalTransform(i int, t animation.Transform) {
	s.ikChain[i] = t
}

// GlobalTransform composes links 0 through i.
//
// Parameters:
//   - i: the link index
//
// Returns:
//   - animation.Transform: link i in world space
func (s *FabrikSolver) GlobalTransform(i int) animation.Transform {
	result := s.ikChain[i]
	for p := i - 1; p >= 0; p-- {
		result = s.ikChain[p].Combine(result)
	}
	return result
}

// Solve rotates the chain so its last link reaches target's translation.
// The root position and every link length are preserved.
//
// Parameters:
//   - target: the goal; only its translation is used
//
// Returns:
//   - bool: true when the effector ends within the threshold of the goal
func (s *FabrikSolver) Solve(target animation.Transform) bool {
	n := len(s.ikChain)
	if n == 0 {
		return false
	}
	last := n - 1
	thresholdSq := s.threshold * s.threshold

	s.ikChainToWorld()
	goal := target.Translation
	base := s.worldChain[0]

	for i := 0; i < s.numSteps; i++ {
		if goal.Sub(s.worldChain[last]).LenSqr() < thresholdSq {
			s.worldToIKChain()
			return true
		}
		s.iterateBackward(goal)
		s.iterateForward(base)
	}

	s.worldToIKChain()
	effector := s.GlobalTransform(last).Translation
	return goal.Sub(effector).LenSqr() < thresholdSq
}

// ikChainToWorld fills the world positions, link lengths and segment directions.
func (s *FabrikSolver) ikChainToWorld() {
	for i := range s.ikChain {
		s.worldChain[i] = s.GlobalTransform(i).Translation
		if i == 0 {
			s.lengths[0] = 0
			continue
		}
		seg := s.worldChain[i].Sub(s.worldChain[i-1])
		s.lengths[i] = seg.Len()
		s.segments[i-1] = common.NormalizeOr(seg, common.AxisY)
	}
}

// iterateBackward pins the effector to goal and pulls each joint toward its successor.
func (s *FabrikSolver) iterateBackward(goal mgl32.Vec3) {
	last := len(s.worldChain) - 1
	s.worldChain[last] = goal
	for i := last - 1; i >= 0; i-- {
		dir := s.worldChain[i].Sub(s.worldChain[i+1])
		if dir.LenSqr() < common.Epsilon {
			dir = s.segments[i].Mul(-1)
		} else {
			dir = dir.Normalize()
			s.segments[i] = dir.Mul(-1)
		}
		s.worldChain[i] = s.worldChain[i+1].Add(dir.Mul(s.lengths[i+1]))
	}
}

// iterateForward pins the root to base and pushes each joint away from its predecessor.
func (s *FabrikSolver) iterateForward(base mgl32.Vec3) {
	s.worldChain[0] = base
	for i := 1; i < len(s.worldChain); i++ {
		dir := s.worldChain[i].Sub(s.worldChain[i-1])
		if dir.LenSqr() < common.Epsilon {
			dir = s.segments[i-1]
		} else {
			dir = dir.Normalize()
			s.segments[i-1] = dir
		}
		s.worldChain[i] = s.worldChain[i-1].Add(dir.Mul(s.lengths[i]))
	}
}

// worldToIKChain turns each link so its child points at the solved world position.
func (s *FabrikSolver) worldToIKChain() {
	for i := 0; i < len(s.ikChain)-1; i++ {
		world := s.GlobalTransform(i)
		next := s.GlobalTransform(i + 1).Translation
		pos := world.Translation
		invRot := world.Rotation.Inverse()

		toNext := invRot.Rotate(next.Sub(pos))
		toDesired := invRot.Rotate(s.worldChain[i+1].Sub(pos))

		delta := common.FromTo(toNext, toDesired)
		s.ikChain[i].Rotation = s.ikChain[i].Rotation.Mul(delta).Normalize()
	}
}
