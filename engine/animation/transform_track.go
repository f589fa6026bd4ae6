package animation

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// TransformTrack animates one joint's position, rotation and scale.
type TransformTrack struct {
	// ID is the index of the joint this track drives.
	ID       uint32
	Position Vector3Track
	Rotation QuatTrack
	Scale    Vector3Track
}

// NewTransformTrack creates an empty track bound to the given joint.
//
// Parameters:
//   - id: the joint index
//
// Returns:
//   - *TransformTrack: the empty track
func NewTransformTrack(id uint32) *TransformTrack {
	return &TransformTrack{ID: id}
}

// IsValid reports whether any component track has keyframes.
func (t *TransformTrack) IsValid() bool {
	return t.Position.Len() > 0 || t.Rotation.Len() > 0 || t.Scale.Len() > 0
}

// StartTime returns the earliest first-keyframe time across the non-empty component tracks.
//
// Returns:
//   - float32: the start time, or 0 when all component tracks are empty
func (t *TransformTrack) StartTime() float32 {
	var result float32
	found := false
	visit := func(v float32, ok bool) {
		if ok && (!found || v < result) {
			result, found = v, true
		}
	}
	visit(t.Position.StartTime())
	visit(t.Rotation.StartTime())
	visit(t.Scale.StartTime())
	return result
}

// EndTime returns the latest last-keyframe time across the non-empty component tracks.
//
// Returns:
//   - float32: the end time, or 0 when all component tracks are empty
func (t *TransformTrack) EndTime() float32 {
	var result float32
	found := false
	visit := func(v float32, ok bool) {
		if !ok {
			return
		}
		if !found {
			result, found = v, true
			return
		}
		result = math32.Max(result, v)
	}
	visit(t.Position.EndTime())
	visit(t.Rotation.EndTime())
	visit(t.Scale.EndTime())
	return result
}

// Sample evaluates the track on top of ref. Components whose track has fewer than two
// keyframes keep the value from ref.
//
// Parameters:
//   - ref: the joint's current local transform
//   - time: the sample time in seconds
//   - looping: whether time wraps
//
// Returns:
//   - Transform: the sampled local transform
func (t *TransformTrack) Sample(ref Transform, time float32, looping bool) Transform {
	result := ref
	if t.Position.Len() > 1 {
		result.Translation = mgl32.Vec3(t.Position.Sample(time, looping))
	}
	if t.Rotation.Len() > 1 {
		result.Rotation = mgl32.Quat(t.Rotation.Sample(time, looping))
	}
	if t.Scale.Len() > 1 {
		result.Scale = mgl32.Vec3(t.Scale.Sample(time, looping))
	}
	return result
}
