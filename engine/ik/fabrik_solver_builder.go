package ik

// FabrikSolverBuilderOption is a functional option for configuring a FabrikSolver.
type FabrikSolverBuilderOption func(*FabrikSolver)

// WithChainLength sizes the chain at construction.
//
// Parameters:
//   - n: the number of links
//
// Returns:
//   - FabrikSolverBuilderOption: option function to apply
func WithChainLength(n int) FabrikSolverBuilderOption {
	return func(s *FabrikSolver) {
		s.Resize(n)
	}
}

// WithNumSteps sets the iteration cap. Values below 1 are ignored.
//
// Parameters:
//   - n: the maximum number of backward/forward passes per Solve
//
// Returns:
//   - FabrikSolverBuilderOption: option function to apply
func WithNumSteps(n int) FabrikSolverBuilderOption {
	return func(s *FabrikSolver) {
		if n > 0 {
			s.numSteps = n
		}
	}
}

// WithThreshold sets the distance at which the effector counts as having reached the goal.
//
// Parameters:
//   - threshold: the accepted distance, must be positive
//
// Returns:
//   - FabrikSolverBuilderOption: option function to apply
func WithThreshold(threshold float32) FabrikSolverBuilderOption {
	return func(s *FabrikSolver) {
		if threshold > 0 {
			s.threshold = threshold
		}
	}
}
