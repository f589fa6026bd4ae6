package player

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-ik/common"
	"github.com/Carmen-Shannon/oxy-ik/engine/animation"
	"github.com/Carmen-Shannon/oxy-ik/engine/collision"
	"github.com/Carmen-Shannon/oxy-ik/engine/ik"
	"github.com/Carmen-Shannon/oxy-ik/engine/renderer/skinning"
	"github.com/go-gl/mathgl/mgl32"
)

// legState is the per-frame scratch of one leg.
type legState struct {
	leg *ik.IkLeg

	motion          float32
	worldAnkle      mgl32.Vec3
	predictiveAnkle mgl32.Vec3
	ankleWorld      animation.Transform
	worldToe        mgl32.Vec3
	toeTarget       mgl32.Vec3
	predictiveToe   mgl32.Vec3
	toeRay          collision.Ray
}

// ikLegPlayer is the implementation of the IkLegPlayer interface.
type ikLegPlayer struct {
	playerBase

	clip   *animation.Clip
	ground *collision.Ground
	legs   []*legState
	motion animation.Vector3Track

	// mu guards pending, which SetTuning may write from any goroutine. Update copies it into
	// tuning once per frame.
	mu      *sync.Mutex
	pending Tuning
	tuning  Tuning

	sinkIntoGround float32
	toeLength      float32

	walkingTime float32
	playback    float32
	lastModelY  float32

	scratch *animation.Pose
}

// IkLegPlayer walks an instance along a looping motion track over static ground, playing a
// walk clip and planting its feet with leg IK.
//
// Each Update faces the character along the track, follows the ground height, samples the
// clip, then for every leg casts rays from above the animated ankle and toe. Ankle hits
// within reach become the IK target, blended with the animated ankle by the leg's pin track,
// and the ankle is turned so the toe meets the ground.
type IkLegPlayer interface {
	Player

	// Legs returns the legs in construction order.
	//
	// Returns:
	//   - []*ik.IkLeg: the legs
	Legs() []*ik.IkLeg

	// WalkingTime returns the position on the motion track in seconds.
	//
	// Returns:
	//   - float32: the walk cycle time
	WalkingTime() float32

	// PlaybackTime returns the clip time sampled by the last Update.
	//
	// Returns:
	//   - float32: the playback time in seconds
	PlaybackTime() float32

	// Tuning returns the foot placement constants in use.
	//
	// Returns:
	//   - Tuning: the constants
	Tuning() Tuning

	// SetTuning replaces the foot placement constants from the next Update on. It is safe to
	// call while another goroutine runs Update.
	//
	// Parameters:
	//   - tuning: the constants
	SetTuning(tuning Tuning)
}

var _ IkLegPlayer = &ikLegPlayer{}

// NewIkLegPlayer creates a foot placement player. The character starts at the ground found
// straight below the origin, lowered by the sink offset.
//
// Parameters:
//   - skeleton: the rig
//   - clip: the walk clip
//   - ground: the walkable geometry, shared read-only
//   - legs: the legs to plant, each with its pin track
//   - writer: the skinning sink, may be nil
//   - options: optional configuration (motion track, sink, toe length, tuning, instance)
//
// Returns:
//   - IkLegPlayer: the player
//   - error: ErrNilSkeleton, ErrNilClip, ErrNoLegs, or ik.ErrHipWithoutParent for a root hip
func NewIkLegPlayer(skeleton *animation.Skeleton, clip *animation.Clip, ground *collision.Ground, legs []*ik.IkLeg, writer skinning.SkinWriter, options ...PlayerBuilderOption) (IkLegPlayer, error) {
	if skeleton == nil {
		return nil, ErrNilSkeleton
	}
	if clip == nil {
		return nil, ErrNilClip
	}
	if len(legs) == 0 {
		return nil, ErrNoLegs
	}
	if ground == nil {
		ground = collision.NewGround(nil)
	}

	cfg := newPlayerConfig(options)
	p := &ikLegPlayer{
		playerBase:     newPlayerBase(skeleton, writer, cfg),
		clip:           clip,
		ground:         ground,
		motion:         cfg.motion,
		mu:             &sync.Mutex{},
		pending:        cfg.tuning,
		tuning:         cfg.tuning,
		sinkIntoGround: cfg.sinkIntoGround,
		toeLength:      cfg.toeLength,
		playback:       clip.StartTime(),
	}
	p.scratch = p.pose.Clone()

	for i, leg := range legs {
		if p.pose.Parent(leg.Hip()) == animation.NoParent {
			return nil, fmt.Errorf("leg %d hip %q: %w", i, skeleton.JointName(leg.Hip()), ik.ErrHipWithoutParent)
		}
		p.legs = append(p.legs, &legState{leg: leg})
	}

	p.model.Translation = mgl32.Vec3{}
	if hit, ok := p.ground.Cast(collision.NewRay(mgl32.Vec3{0, p.tuning.RayStartHeight, 0})); ok {
		p.model.Translation = hit
	}
	p.model.Translation[1] -= p.sinkIntoGround
	p.lastModelY = p.model.Translation[1]
	return p, nil
}

func (p *ikLegPlayer) Legs() []*ik.IkLeg {
	out := make([]*ik.IkLeg, len(p.legs))
	for i, l := range p.legs {
		out[i] = l.leg
	}
	return out
}

func (p *ikLegPlayer) WalkingTime() float32 {
	return p.walkingTime
}

func (p *ikLegPlayer) PlaybackTime() float32 {
	return p.playback
}

func (p *ikLegPlayer) Tuning() Tuning {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pending
}

func (p *ikLegPlayer) SetTuning(tuning Tuning) {
	p.mu.Lock()
	p.pending = tuning
	p.mu.Unlock()
}

func (p *ikLegPlayer) Update(deltaTime float32) {
	p.mu.Lock()
	p.tuning = p.pending
	p.mu.Unlock()

	forward := p.walk(deltaTime)
	groundRef := p.bodyGround()

	p.playback = p.clip.Sample(p.pose, p.playback+deltaTime)
	var normalized float32
	if d := p.clip.Duration(); d > 0 {
		normalized = common.Clamp((p.playback-p.clip.StartTime())/d, 0, 1)
	}

	for _, l := range p.legs {
		l.motion = float32(l.leg.PinTrack().Sample(normalized, true))
		groundRef = p.castAnkle(l, groundRef)
	}

	p.model.Translation[1] = common.Lerp(p.lastModelY, groundRef[1], p.rate(p.tuning.GroundRate, deltaTime))
	p.lastModelY = p.model.Translation[1]

	for _, l := range p.legs {
		p.solveLeg(l, forward)
	}
	for _, l := range p.legs {
		p.castToe(l)
	}
	for _, l := range p.legs {
		p.alignAnkle(l)
	}

	p.flush(p.pose)
}

// walk advances along the motion track, turns toward the travel direction and returns the
// character's forward axis.
func (p *ikLegPlayer) walk(deltaTime float32) mgl32.Vec3 {
	p.walkingTime += deltaTime * p.tuning.WalkSpeed
	if p.tuning.WalkCycle > 0 {
		p.walkingTime = animation.LoopTime(p.walkingTime, 0, p.tuning.WalkCycle)
	}

	y := p.model.Translation[1]
	current := mgl32.Vec3(p.motion.Sample(p.walkingTime, true))
	next := mgl32.Vec3(p.motion.Sample(p.walkingTime+p.tuning.LookAhead, true))
	current[1], next[1] = y, y
	p.model.Translation = current

	direction := next.Sub(current)
	if direction.LenSqr() >= common.Epsilon {
		facing := common.LookRotation(direction, common.AxisY)
		if p.model.Rotation.Dot(facing) < 0 {
			facing = facing.Scale(-1)
		}
		p.model.Rotation = common.QuatMix(p.model.Rotation, facing, p.rate(p.tuning.TurnRate, deltaTime))
	}
	return p.model.Rotation.Rotate(common.AxisZ)
}

// bodyGround snaps the root onto the ground below it and returns that as the initial
// ground reference.
func (p *ikLegPlayer) bodyGround() mgl32.Vec3 {
	origin := mgl32.Vec3{p.model.Translation[0], p.tuning.RayStartHeight, p.model.Translation[2]}
	if hit, ok := p.ground.Cast(collision.NewRay(origin)); ok {
		p.model.Translation = hit.Sub(mgl32.Vec3{0, p.sinkIntoGround, 0})
	}
	return p.model.Translation
}

// castAnkle finds the ground under the animated ankle and lowers groundRef to any hit
// below it.
func (p *ikLegPlayer) castAnkle(l *legState, groundRef mgl32.Vec3) mgl32.Vec3 {
	l.worldAnkle = p.model.Combine(p.pose.GlobalTransform(l.leg.Ankle())).Translation
	l.predictiveAnkle = l.worldAnkle

	ray := collision.NewRay(l.worldAnkle.Add(common.AxisY.Mul(p.tuning.AnkleRayLift)))
	reachSq := p.tuning.AnkleRayReach * p.tuning.AnkleRayReach
	p.ground.ForEachHit(ray, func(hit mgl32.Vec3) {
		if hit.Sub(ray.Origin).LenSqr() < reachSq {
			l.worldAnkle = hit
		}
		if hit[1] < groundRef[1] {
			groundRef = hit.Sub(mgl32.Vec3{0, p.sinkIntoGround, 0})
		}
		l.predictiveAnkle = hit
	})
	return groundRef
}

// solveLeg runs the leg IK toward the pin-weighted ankle target, merges the leg into the
// pose and prepares the toe ray.
func (p *ikLegPlayer) solveLeg(l *legState, forward mgl32.Vec3) {
	l.worldAnkle = common.LerpVec3(l.worldAnkle, l.predictiveAnkle, l.motion)

	if err := l.leg.Solve(p.model, p.pose, l.worldAnkle); err == nil {
		p.scratch.CopyFrom(p.pose)
		p.pose.Blend(p.scratch, l.leg.AdjustedPose(), 1, l.leg.Hip())
	}

	l.ankleWorld = p.model.Combine(p.pose.GlobalTransform(l.leg.Ankle()))
	l.worldToe = p.model.Combine(p.pose.GlobalTransform(l.leg.Toe())).Translation
	l.toeTarget = l.worldToe
	l.predictiveToe = l.worldToe

	origin := l.ankleWorld.Translation
	origin[1] = l.worldToe[1]
	l.toeRay = collision.NewRay(origin.Add(forward.Mul(p.toeLength)).Add(common.AxisY))
}

// castToe finds the ground ahead of the foot.
func (p *ikLegPlayer) castToe(l *legState) {
	reachSq := p.tuning.ToeRayReach * p.tuning.ToeRayReach
	p.ground.ForEachHit(l.toeRay, func(hit mgl32.Vec3) {
		if hit.Sub(l.toeRay.Origin).LenSqr() < reachSq {
			l.toeTarget = hit
		}
		l.predictiveToe = hit
	})
}

// alignAnkle turns the ankle so the toe points at the pin-weighted toe target. Targets
// behind the current toe direction are ignored.
func (p *ikLegPlayer) alignAnkle(l *legState) {
	l.toeTarget = common.LerpVec3(l.toeTarget, l.predictiveToe, l.motion)

	toCurrent := l.worldToe.Sub(l.ankleWorld.Translation)
	toDesired := l.toeTarget.Sub(l.ankleWorld.Translation)
	if toCurrent.Dot(toDesired) <= p.tuning.ToeAlignThreshold {
		return
	}

	rotator := common.FromTo(toCurrent, toDesired)
	worldRotated := rotator.Mul(l.ankleWorld.Rotation)
	localRotated := l.ankleWorld.Rotation.Inverse().Mul(worldRotated)

	ankle := l.leg.Ankle()
	local := p.pose.LocalTransform(ankle)
	local.Rotation = local.Rotation.Mul(localRotated).Normalize()
	p.pose.SetLocalTransform(ankle, local)
}

// rate turns a per-second rate into a lerp factor for this frame, capped at 1.
func (p *ikLegPlayer) rate(perSecond, deltaTime float32) float32 {
	return common.Clamp(perSecond*deltaTime, 0, 1)
}
