package skinning

const (
	// DefaultMaxJoints is the palette stride used when no option overrides it.
	DefaultMaxJoints uint32 = 128
	// DefaultPaletteBinding is the storage binding of the joint palette buffer.
	DefaultPaletteBinding = 0
	// DefaultInstanceBinding is the storage binding of the instance buffer.
	DefaultInstanceBinding = 1
)

// StagerBuilderOption is a functional option for configuring a Stager.
type StagerBuilderOption func(*stager)

// WithMaxJoints sets the per-instance palette stride. Values of 0 are ignored.
//
// Parameters:
//   - maxJoints: the number of matrices reserved per instance
//
// Returns:
//   - StagerBuilderOption: option function to apply
func WithMaxJoints(maxJoints uint32) StagerBuilderOption {
	return func(s *stager) {
		if maxJoints > 0 {
			s.maxJoints = maxJoints
		}
	}
}

// WithBindings sets the binding indices stamped on staged writes.
//
// Parameters:
//   - palette: the joint palette buffer binding
//   - instance: the instance buffer binding
//
// Returns:
//   - StagerBuilderOption: option function to apply
func WithBindings(palette, instance int) StagerBuilderOption {
	return func(s *stager) {
		s.paletteBinding = palette
		s.instanceBinding = instance
	}
}
