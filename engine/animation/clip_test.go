package animation

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func positionTrack(id uint32, start, end float32) *TransformTrack {
	track := NewTransformTrack(id)
	track.Position = NewTrack(InterpolationLinear,
		NewFrame(start, Vec3{0, 0, 0}),
		NewFrame(end, Vec3{0, 1, 0}),
	)
	return track
}

func TestClipDurationSpansAllTracks(t *testing.T) {
	clip := NewClip("walk")
	clip.AddTrack(positionTrack(0, 0.2, 1.5))
	clip.AddTrack(positionTrack(1, 0.0, 1.3))
	clip.AddTrack(positionTrack(2, 0.5, 1.0))
	clip.RecalculateDuration()

	assert.InDelta(t, 0, clip.StartTime(), tolerance)
	assert.InDelta(t, 1.5, clip.EndTime(), tolerance)
	assert.InDelta(t, 1.5, clip.Duration(), tolerance)
}

func TestClipIgnoresEmptyTracksForDuration(t *testing.T) {
	clip := NewClip("")
	clip.TransformTrack(4)
	clip.AddTrack(positionTrack(1, 0.5, 0.75))
	clip.RecalculateDuration()

	assert.InDelta(t, 0.5, clip.StartTime(), tolerance)
	assert.InDelta(t, 0.75, clip.EndTime(), tolerance)
}

func TestTransformTrackEndTimeIsLatest(t *testing.T) {
	track := positionTrack(0, 0, 1)
	track.Rotation = NewTrack(InterpolationLinear,
		NewFrame(0.5, Quat(mgl32.QuatIdent())),
		NewFrame(2, Quat(rotY(90))),
	)
	assert.InDelta(t, 0, track.StartTime(), tolerance)
	assert.InDelta(t, 2, track.EndTime(), tolerance)
}

func TestClipTransformTrackGetOrCreate(t *testing.T) {
	clip := NewClip("idle")
	a := clip.TransformTrack(3)
	b := clip.TransformTrack(3)
	assert.Same(t, a, b)
	assert.Equal(t, 1, clip.Len())

	replacement := positionTrack(3, 0, 1)
	clip.AddTrack(replacement)
	assert.Equal(t, 1, clip.Len())
	assert.Same(t, replacement, clip.TransformTrack(3))
}

func TestClipSampleWritesOnlyAnimatedComponents(t *testing.T) {
	pose := NewPose(3)
	untouched := NewTransform(mgl32.Vec3{5, 5, 5}, rotZ(30), mgl32.Vec3{2, 2, 2})
	pose.SetLocalTransform(1, untouched)
	pose.SetLocalTransform(0, untouched)

	clip := NewClip("lift")
	clip.Looping = false
	track := positionTrack(0, 0, 1)
	track.Rotation = NewTrack(InterpolationLinear, NewFrame(0, Quat(rotY(90))))
	clip.AddTrack(track)
	clip.AddTrack(positionTrack(7, 0, 1))
	clip.RecalculateDuration()

	got := clip.Sample(pose, 0.5)
	assert.InDelta(t, 0.5, got, tolerance)

	joint0 := pose.LocalTransform(0)
	assertVec3(t, mgl32.Vec3{0, 0.5, 0}, joint0.Translation)
	assertSameRotation(t, untouched.Rotation, joint0.Rotation)
	assertVec3(t, untouched.Scale, joint0.Scale)

	assert.Equal(t, untouched, pose.LocalTransform(1))
}

func TestClipSampleAdjustsTime(t *testing.T) {
	clip := NewClip("cycle")
	clip.AddTrack(positionTrack(0, 0, 1.5))
	clip.RecalculateDuration()
	pose := NewPose(1)

	assert.InDelta(t, 0.5, clip.Sample(pose, 2), tolerance)
	assert.InDelta(t, 1.0, clip.Sample(pose, -0.5), tolerance)

	clip.Looping = false
	assert.InDelta(t, 1.5, clip.Sample(pose, 2), tolerance)
	assert.InDelta(t, 0, clip.Sample(pose, -0.5), tolerance)
}

func TestClipZeroDurationLeavesPose(t *testing.T) {
	clip := NewClip("empty")
	pose := NewPose(2)
	before := pose.Clone()

	require.Zero(t, clip.Duration())
	assert.Zero(t, clip.Sample(pose, 3))
	assert.Equal(t, before, pose)
}

func TestPoseMakeAdditiveSamplesStart(t *testing.T) {
	clip := NewClip("nod")
	clip.AddTrack(positionTrack(0, 0.25, 1))
	clip.RecalculateDuration()

	pose := NewPose(2)
	base := pose.MakeAdditive(clip)
	assertVec3(t, mgl32.Vec3{0, 0, 0}, base.LocalTransform(0).Translation)
	assert.Equal(t, IdentityTransform(), pose.LocalTransform(0))
}
