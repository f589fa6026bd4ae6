package animation

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownInterpolation is returned when an interpolation name is not recognized.
var ErrUnknownInterpolation = errors.New("unknown interpolation")

// Interpolation selects how a Track produces values between keyframes.
type Interpolation int

const (
	// InterpolationLinear lerps between neighboring keyframes (nlerp for rotations).
	InterpolationLinear Interpolation = iota
	// InterpolationConstant holds the value of the keyframe at or before the sample time.
	InterpolationConstant
	// InterpolationCubic evaluates a cubic Hermite spline through the keyframe tangents.
	InterpolationCubic
)

// String returns the glTF name of the interpolation mode.
func (i Interpolation) String() string {
	switch i {
	case InterpolationConstant:
		return "STEP"
	case InterpolationCubic:
		return "CUBICSPLINE"
	default:
		return "LINEAR"
	}
}

// ParseInterpolation maps a glTF interpolation name, or one of "constant", "linear" and
// "cubic", to an Interpolation. Matching ignores case; the empty string is linear.
//
// Parameters:
//   - name: the interpolation name
//
// Returns:
//   - Interpolation: the parsed mode
//   - error: ErrUnknownInterpolation for any other name
func ParseInterpolation(name string) (Interpolation, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "", "LINEAR":
		return InterpolationLinear, nil
	case "STEP", "CONSTANT":
		return InterpolationConstant, nil
	case "CUBICSPLINE", "CUBIC":
		return InterpolationCubic, nil
	}
	return InterpolationLinear, fmt.Errorf("%q: %w", name, ErrUnknownInterpolation)
}
