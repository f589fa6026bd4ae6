package animation

// Frame is a single keyframe. In and Out are the incoming and outgoing tangents used by
// cubic interpolation and are ignored by the other modes.
type Frame[T any] struct {
	Time  float32
	Value T
	In    T
	Out   T
}

// NewFrame creates a keyframe with zero tangents.
//
// Parameters:
//   - time: the keyframe time in seconds
//   - value: the keyframe value
//
// Returns:
//   - Frame[T]: the keyframe
func NewFrame[T any](time float32, value T) Frame[T] {
	return Frame[T]{Time: time, Value: value}
}

// NewCubicFrame creates a keyframe with explicit Hermite tangents.
//
// Parameters:
//   - time: the keyframe time in seconds
//   - in: the incoming tangent
//   - value: the keyframe value
//   - out: the outgoing tangent
//
// Returns:
//   - Frame[T]: the keyframe
func NewCubicFrame[T any](time float32, in, value, out T) Frame[T] {
	return Frame[T]{Time: time, Value: value, In: in, Out: out}
}
