package player

import (
	"github.com/Carmen-Shannon/oxy-ik/common"
	"github.com/Carmen-Shannon/oxy-ik/engine/animation"
	"github.com/Carmen-Shannon/oxy-ik/engine/renderer/skinning"
)

// DefaultBlendPeriod is how long a cross-fade runs in one direction before reversing.
const DefaultBlendPeriod float32 = 2.0

// BlendMode selects how a BlenderPlayer combines its two clips.
type BlendMode int

const (
	// BlendModeCrossFade fades from clip A to clip B and back.
	BlendModeCrossFade BlendMode = iota
	// BlendModeAdditive layers the additive clip's offset from its first frame onto the main clip.
	BlendModeAdditive
)

// blenderPlayer is the implementation of the BlenderPlayer interface.
type blenderPlayer struct {
	playerBase
	mode BlendMode

	// cross-fade
	clipA, clipB *animation.Clip
	timeA, timeB float32
	poseA, poseB *animation.Pose
	blendTime    float32
	blendPeriod  float32
	invertBlend  bool
	blendFactor  float32

	// additive
	main, additive    *animation.Clip
	playback          float32
	additiveTime      float32
	additiveDirection float32
	addPose           *animation.Pose
	additiveBase      *animation.Pose
	layered           *animation.Pose
	rest              *animation.Pose
}

// BlenderPlayer combines two clips, either by cross-fading between them or by layering one
// additively on top of the other.
type BlenderPlayer interface {
	Player

	// Mode returns how the player combines its clips.
	//
	// Returns:
	//   - BlendMode: the blend mode
	Mode() BlendMode

	// BlendFactor returns the weight applied in the last Update: the weight of clip B when
	// cross-fading, or the normalized additive time when layering.
	//
	// Returns:
	//   - float32: a value in [0, 1]
	BlendFactor() float32
}

var _ BlenderPlayer = &blenderPlayer{}

// NewCrossFadePlayer creates a player that fades from a to b over the blend period, then
// back from b to a, repeating.
//
// Parameters:
//   - skeleton: the rig
//   - a, b: the clips to fade between
//   - writer: the skinning sink, may be nil
//   - options: optional configuration (instance slot, model transform, blend period)
//
// Returns:
//   - BlenderPlayer: the player
//   - error: ErrNilSkeleton or ErrNilClip
func NewCrossFadePlayer(skeleton *animation.Skeleton, a, b *animation.Clip, writer skinning.SkinWriter, options ...PlayerBuilderOption) (BlenderPlayer, error) {
	if skeleton == nil {
		return nil, ErrNilSkeleton
	}
	if a == nil || b == nil {
		return nil, ErrNilClip
	}
	cfg := newPlayerConfig(options)
	return &blenderPlayer{
		playerBase:  newPlayerBase(skeleton, writer, cfg),
		mode:        BlendModeCrossFade,
		clipA:       a,
		clipB:       b,
		timeA:       a.StartTime(),
		timeB:       b.StartTime(),
		poseA:       skeleton.RestPose(),
		poseB:       skeleton.RestPose(),
		blendPeriod: cfg.blendPeriod,
	}, nil
}

// NewAdditivePlayer creates a player that loops main and layers additive on top of it.
// The additive clip is played non-looping, sweeping forward and back across its range once
// per second, relative to its pose at its start time.
//
// Parameters:
//   - skeleton: the rig
//   - main: the base clip
//   - additive: the clip whose offset is layered
//   - writer: the skinning sink, may be nil
//   - options: optional configuration (instance slot, model transform)
//
// Returns:
//   - BlenderPlayer: the player
//   - error: ErrNilSkeleton or ErrNilClip
func NewAdditivePlayer(skeleton *animation.Skeleton, main, additive *animation.Clip, writer skinning.SkinWriter, options ...PlayerBuilderOption) (BlenderPlayer, error) {
	if skeleton == nil {
		return nil, ErrNilSkeleton
	}
	if main == nil || additive == nil {
		return nil, ErrNilClip
	}
	cfg := newPlayerConfig(options)
	clamped := *additive
	clamped.Looping = false

	p := &blenderPlayer{
		playerBase:        newPlayerBase(skeleton, writer, cfg),
		mode:              BlendModeAdditive,
		main:              main,
		additive:          &clamped,
		playback:          main.StartTime(),
		additiveDirection: 1,
		addPose:           skeleton.RestPose(),
		layered:           skeleton.RestPose(),
		rest:              skeleton.RestPose(),
	}
	p.additiveBase = p.rest.MakeAdditive(p.additive)
	return p, nil
}

func (p *blenderPlayer) Mode() BlendMode {
	return p.mode
}

func (p *blenderPlayer) BlendFactor() float32 {
	return p.blendFactor
}

func (p *blenderPlayer) Update(deltaTime float32) {
	switch p.mode {
	case BlendModeAdditive:
		p.updateAdditive(deltaTime)
	default:
		p.updateCrossFade(deltaTime)
	}
	p.flush(p.pose)
}

func (p *blenderPlayer) updateCrossFade(deltaTime float32) {
	p.timeA = p.clipA.Sample(p.poseA, p.timeA+deltaTime)
	p.timeB = p.clipB.Sample(p.poseB, p.timeB+deltaTime)

	bt := common.Clamp(p.blendTime, 0, 1)
	if p.invertBlend {
		bt = 1 - bt
	}
	p.blendFactor = bt
	p.pose.Blend(p.poseA, p.poseB, bt, -1)

	p.blendTime += deltaTime
	if p.blendTime > p.blendPeriod {
		p.blendTime = 0
		p.invertBlend = !p.invertBlend
	}
}

func (p *blenderPlayer) updateAdditive(deltaTime float32) {
	p.additiveTime = common.Clamp(p.additiveTime+deltaTime*p.additiveDirection, 0, 1)
	if p.additiveTime == 0 || p.additiveTime == 1 {
		p.additiveDirection = -p.additiveDirection
	}
	p.blendFactor = p.additiveTime

	// Start from rest each frame so joints the main clip does not animate do not
	// accumulate the additive offset.
	p.layered.CopyFrom(p.rest)
	p.playback = p.main.Sample(p.layered, p.playback+deltaTime)

	t := p.additive.StartTime() + p.additive.Duration()*p.additiveTime
	p.additive.Sample(p.addPose, t)
	p.pose.Add(p.layered, p.addPose, p.additiveBase, -1)
}
