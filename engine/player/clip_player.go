package player

import (
	"github.com/Carmen-Shannon/oxy-ik/engine/animation"
	"github.com/Carmen-Shannon/oxy-ik/engine/renderer/skinning"
)

// clipPlayer is the implementation of the ClipPlayer interface.
type clipPlayer struct {
	playerBase
	clip     *animation.Clip
	playback float32
}

// ClipPlayer plays a single clip on an instance.
type ClipPlayer interface {
	Player

	// Clip returns the clip being played.
	//
	// Returns:
	//   - *animation.Clip: the clip
	Clip() *animation.Clip

	// SetClip switches to clip, restarting from its start time.
	//
	// Parameters:
	//   - clip: the clip to play
	SetClip(clip *animation.Clip)

	// PlaybackTime returns the clip time sampled by the last Update.
	//
	// Returns:
	//   - float32: the playback time in seconds
	PlaybackTime() float32
}

var _ ClipPlayer = &clipPlayer{}

// NewClipPlayer creates a player for clip.
//
// Parameters:
//   - skeleton: the rig
//   - clip: the clip to play
//   - writer: the skinning sink, may be nil
//   - options: optional configuration (instance slot, model transform)
//
// Returns:
//   - ClipPlayer: the player
//   - error: ErrNilSkeleton or ErrNilClip
func NewClipPlayer(skeleton *animation.Skeleton, clip *animation.Clip, writer skinning.SkinWriter, options ...PlayerBuilderOption) (ClipPlayer, error) {
	if skeleton == nil {
		return nil, ErrNilSkeleton
	}
	if clip == nil {
		return nil, ErrNilClip
	}
	cfg := newPlayerConfig(options)
	return &clipPlayer{
		playerBase: newPlayerBase(skeleton, writer, cfg),
		clip:       clip,
		playback:   clip.StartTime(),
	}, nil
}

func (p *clipPlayer) Update(deltaTime float32) {
	p.playback = p.clip.Sample(p.pose, p.playback+deltaTime)
	p.flush(p.pose)
}

func (p *clipPlayer) Clip() *animation.Clip {
	return p.clip
}

func (p *clipPlayer) SetClip(clip *animation.Clip) {
	if clip == nil {
		return
	}
	p.clip = clip
	p.playback = clip.StartTime()
	p.pose.CopyFrom(p.skeleton.RestPose())
}

func (p *clipPlayer) PlaybackTime() float32 {
	return p.playback
}
