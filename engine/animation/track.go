package animation

import (
	"github.com/chewxy/math32"
)

// Track is an ordered keyframe sequence for one value type, sampled with a single
// interpolation mode. Frames must be sorted by ascending time.
type Track[T Sampleable[T]] struct {
	frames        []Frame[T]
	interpolation Interpolation
}

// ScalarTrack animates a single float, such as an IK pin weight.
type ScalarTrack = Track[Scalar]

// Vector3Track animates a position or scale.
type Vector3Track = Track[Vec3]

// QuatTrack animates a rotation.
type QuatTrack = Track[Quat]

// NewTrack creates a track with the given interpolation and keyframes.
//
// Parameters:
//   - interpolation: the interpolation mode
//   - frames: keyframes in ascending time order
//
// Returns:
//   - Track[T]: the track
func NewTrack[T Sampleable[T]](interpolation Interpolation, frames ...Frame[T]) Track[T] {
	return Track[T]{
		frames:        frames,
		interpolation: interpolation,
	}
}

// Len returns the number of keyframes.
func (t Track[T]) Len() int {
	return len(t.frames)
}

// Frame returns the keyframe at index i.
func (t Track[T]) Frame(i int) Frame[T] {
	return t.frames[i]
}

// Frames returns the backing keyframe slice. Callers must not reorder it.
func (t Track[T]) Frames() []Frame[T] {
	return t.frames
}

// Interpolation returns the track's interpolation mode.
func (t Track[T]) Interpolation() Interpolation {
	return t.interpolation
}

// SetInterpolation changes the interpolation mode.
func (t *Track[T]) SetInterpolation(interpolation Interpolation) {
	t.interpolation = interpolation
}

// AddFrame appends a keyframe. The frame's time must not precede the last frame.
func (t *Track[T]) AddFrame(frame Frame[T]) {
	t.frames = append(t.frames, frame)
}

// SetFrames replaces all keyframes.
func (t *Track[T]) SetFrames(frames []Frame[T]) {
	t.frames = frames
}

// StartTime returns the time of the first keyframe, or false for an empty track.
func (t Track[T]) StartTime() (float32, bool) {
	if len(t.frames) == 0 {
		return 0, false
	}
	return t.frames[0].Time, true
}

// EndTime returns the time of the last keyframe, or false for an empty track.
func (t Track[T]) EndTime() (float32, bool) {
	if len(t.frames) == 0 {
		return 0, false
	}
	return t.frames[len(t.frames)-1].Time, true
}

// Sample evaluates the track at the given time.
// Tracks with fewer than two keyframes, or with a non-positive interval around the
// sample time, yield the value type's default.
//
// Parameters:
//   - time: the sample time in seconds
//   - looping: wrap time into the track's range instead of clamping it
//
// Returns:
//   - T: the sampled value
func (t Track[T]) Sample(time float32, looping bool) T {
	switch t.interpolation {
	case InterpolationConstant:
		return t.sampleConstant(time, looping)
	case InterpolationCubic:
		return t.sampleCubic(time, looping)
	default:
		return t.sampleLinear(time, looping)
	}
}

func (t Track[T]) sampleConstant(time float32, looping bool) T {
	var zero T
	n := len(t.frames)
	if !looping && n >= 2 && time >= t.frames[n-1].Time {
		return t.frames[n-1].Value
	}
	i, ok := t.frameIndex(time, looping)
	if !ok {
		return zero.Default()
	}
	return t.frames[i].Value
}

func (t Track[T]) sampleLinear(time float32, looping bool) T {
	var zero T
	i, ok := t.frameIndex(time, looping)
	if !ok {
		return zero.Default()
	}
	this, next := t.frames[i], t.frames[i+1]

	delta := next.Time - this.Time
	if delta <= 0 {
		return zero.Default()
	}
	u := (t.adjustTimeToFitTrack(time, looping) - this.Time) / delta
	return this.Value.Lerp(next.Value, u)
}

func (t Track[T]) sampleCubic(time float32, looping bool) T {
	var zero T
	i, ok := t.frameIndex(time, looping)
	if !ok {
		return zero.Default()
	}
	this, next := t.frames[i], t.frames[i+1]

	delta := next.Time - this.Time
	if delta <= 0 {
		return zero.Default()
	}
	u := (t.adjustTimeToFitTrack(time, looping) - this.Time) / delta

	slope1 := this.Out.Scale(delta)
	slope2 := next.In.Scale(delta)
	return hermite(u, this.Value, slope1, next.Value, slope2)
}

// hermite evaluates the cubic Hermite basis at u in [0, 1].
func hermite[T Sampleable[T]](u float32, p1, s1, p2, s2 T) T {
	uu := u * u
	uuu := uu * u

	h1 := 2*uuu - 3*uu + 1
	h2 := -2*uuu + 3*uu
	h3 := uuu - 2*uu + u
	h4 := uuu - uu

	p2 = p1.Neighborhood(p2)
	return p1.Scale(h1).
		Add(p2.Scale(h2)).
		Add(s1.Scale(h3)).
		Add(s2.Scale(h4)).
		AdjustHermite()
}

// frameIndex returns the index i of the keyframe pair (i, i+1) bracketing time.
func (t Track[T]) frameIndex(time float32, looping bool) (int, bool) {
	n := len(t.frames)
	if n < 2 {
		return 0, false
	}

	if looping {
		time = LoopTime(time, t.frames[0].Time, t.frames[n-1].Time)
	} else {
		if time <= t.frames[0].Time {
			return 0, true
		}
		if time >= t.frames[n-2].Time {
			return n - 2, true
		}
	}

	for i := n - 1; i >= 0; i-- {
		if time >= t.frames[i].Time {
			if i > n-2 {
				return n - 2, true
			}
			return i, true
		}
	}
	return 0, false
}

// adjustTimeToFitTrack maps time into the track's range, wrapping or clamping.
func (t Track[T]) adjustTimeToFitTrack(time float32, looping bool) float32 {
	n := len(t.frames)
	if n <= 1 {
		return 0
	}
	start, end := t.frames[0].Time, t.frames[n-1].Time
	if end-start <= 0 {
		return 0
	}
	if looping {
		return LoopTime(time, start, end)
	}
	return math32.Max(start, math32.Min(time, end))
}

// LoopTime wraps time into [start, end) using floored modulo, so times far outside the
// range and negative times wrap correctly. A non-positive range returns start.
//
// Parameters:
//   - time: the time to wrap
//   - start: the range start
//   - end: the range end
//
// Returns:
//   - float32: the wrapped time
func LoopTime(time, start, end float32) float32 {
	duration := end - start
	if duration <= 0 {
		return start
	}
	local := math32.Mod(time-start, duration)
	if local < 0 {
		local += duration
	}
	wrapped := start + local
	if wrapped >= end {
		return start
	}
	return wrapped
}
