package animation

import (
	"github.com/chewxy/math32"
)

// Clip is a named set of joint tracks sharing one timeline.
type Clip struct {
	// Name identifies the clip, typically the glTF animation name.
	Name string
	// Looping wraps sample times into the clip range instead of clamping them.
	Looping bool

	tracks    []*TransformTrack
	startTime float32
	endTime   float32
}

// NewClip creates an empty looping clip.
//
// Parameters:
//   - name: the clip name
//
// Returns:
//   - *Clip: the empty clip
func NewClip(name string) *Clip {
	return &Clip{
		Name:    name,
		Looping: true,
	}
}

// Sample writes the clip's pose at time into pose and returns the time actually sampled
// after wrapping or clamping. Each track starts from the joint's current local transform,
// so joints and components without animation keep their values. A clip with zero duration
// leaves pose untouched and returns 0.
//
// Parameters:
//   - pose: the pose to write into
//   - time: the requested time in seconds
//
// Returns:
//   - float32: the adjusted time
func (c *Clip) Sample(pose *Pose, time float32) float32 {
	if c.Duration() == 0 {
		return 0
	}
	time = c.adjustTime(time)

	for _, track := range c.tracks {
		joint := int(track.ID)
		if joint >= pose.Len() {
			continue
		}
		ref := pose.LocalTransform(joint)
		pose.SetLocalTransform(joint, track.Sample(ref, time, c.Looping))
	}
	return time
}

// TransformTrack returns the track for joint id, creating and appending an empty one
// when the clip has none.
//
// Parameters:
//   - id: the joint index
//
// Returns:
//   - *TransformTrack: the joint's track
func (c *Clip) TransformTrack(id uint32) *TransformTrack {
	for _, track := range c.tracks {
		if track.ID == id {
			return track
		}
	}
	track := NewTransformTrack(id)
	c.tracks = append(c.tracks, track)
	return track
}

// AddTrack inserts track, replacing any existing track for the same joint.
// RecalculateDuration must be called once all tracks are in place.
func (c *Clip) AddTrack(track *TransformTrack) {
	for i, existing := range c.tracks {
		if existing.ID == track.ID {
			c.tracks[i] = track
			return
		}
	}
	c.tracks = append(c.tracks, track)
}

// Tracks returns the clip's tracks in insertion order.
func (c *Clip) Tracks() []*TransformTrack {
	return c.tracks
}

// Len returns the number of tracks.
func (c *Clip) Len() int {
	return len(c.tracks)
}

// RecalculateDuration recomputes the clip range from its valid tracks: the earliest
// track start and the latest track end.
func (c *Clip) RecalculateDuration() {
	c.startTime, c.endTime = 0, 0
	first := true
	for _, track := range c.tracks {
		if !track.IsValid() {
			continue
		}
		start, end := track.StartTime(), track.EndTime()
		if first {
			c.startTime, c.endTime = start, end
			first = false
			continue
		}
		c.startTime = math32.Min(c.startTime, start)
		c.endTime = math32.Max(c.endTime, end)
	}
}

// StartTime returns the clip start in seconds.
func (c *Clip) StartTime() float32 {
	return c.startTime
}

// EndTime returns the clip end in seconds.
func (c *Clip) EndTime() float32 {
	return c.endTime
}

// Duration returns EndTime - StartTime.
func (c *Clip) Duration() float32 {
	return c.endTime - c.startTime
}

func (c *Clip) adjustTime(time float32) float32 {
	if c.Looping {
		if c.Duration() <= 0 {
			return 0
		}
		return LoopTime(time, c.startTime, c.endTime)
	}
	return math32.Max(c.startTime, math32.Min(time, c.endTime))
}
