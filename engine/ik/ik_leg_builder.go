package ik

import "github.com/Carmen-Shannon/oxy-ik/engine/animation"

// IkLegBuilderOption is a functional option for configuring an IkLeg.
type IkLegBuilderOption func(*IkLeg)

// WithPinTrack sets the track that weights foot planting over the normalized walk cycle.
//
// Parameters:
//   - track: pin weights in [0, 1] over time in [0, 1]
//
// Returns:
//   - IkLegBuilderOption: option function to apply
func WithPinTrack(track animation.ScalarTrack) IkLegBuilderOption {
	return func(l *IkLeg) {
		l.pinTrack = track
	}
}

// WithSolverOptions applies solver options to the leg's three-link chain. A chain length
// option is overridden since a leg always solves hip, knee and ankle.
//
// Parameters:
//   - options: solver options such as WithNumSteps or WithThreshold
//
// Returns:
//   - IkLegBuilderOption: option function to apply
func WithSolverOptions(options ...FabrikSolverBuilderOption) IkLegBuilderOption {
	return func(l *IkLeg) {
		for _, opt := range options {
			opt(l.solver)
		}
	}
}
