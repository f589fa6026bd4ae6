// Package player drives skeletal instances frame by frame: it samples clips, applies blending
// or leg IK, and hands the resulting skinning palette to a skinning.SkinWriter.
package player

import (
	"errors"

	"github.com/Carmen-Shannon/oxy-ik/engine/animation"
	"github.com/Carmen-Shannon/oxy-ik/engine/renderer/skinning"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	// ErrNilSkeleton is returned when a player is constructed without a skeleton.
	ErrNilSkeleton = errors.New("player requires a skeleton")
	// ErrNilClip is returned when a required clip is missing.
	ErrNilClip = errors.New("player requires a clip")
	// ErrNoLegs is returned when an IkLegPlayer is constructed without legs.
	ErrNoLegs = errors.New("ik leg player requires at least one leg")
)

// Player is one animated instance. Update is not safe for concurrent use on the same
// Player; distinct players may be updated in parallel.
type Player interface {
	// Update advances the player by deltaTime seconds and writes its skinning output.
	//
	// Parameters:
	//   - deltaTime: elapsed time in seconds since the previous update
	Update(deltaTime float32)

	// Pose returns the player's current pose. It is overwritten by the next Update.
	//
	// Returns:
	//   - *animation.Pose: the current pose
	Pose() *animation.Pose

	// Model returns the instance's world transform.
	//
	// Returns:
	//   - animation.Transform: the world transform
	Model() animation.Transform

	// Instance returns the instance slot the player writes to.
	//
	// Returns:
	//   - uint32: the instance slot
	Instance() uint32
}

// playerBase holds the state shared by every player: the rig, the output sink and the
// instance's pose and world transform.
type playerBase struct {
	skeleton *animation.Skeleton
	writer   skinning.SkinWriter
	instance uint32
	pose     *animation.Pose
	model    animation.Transform
	palette  []mgl32.Mat4
}

func newPlayerBase(skeleton *animation.Skeleton, writer skinning.SkinWriter, cfg *playerConfig) playerBase {
	return playerBase{
		skeleton: skeleton,
		writer:   writer,
		instance: cfg.instance,
		pose:     skeleton.RestPose(),
		model:    cfg.model,
		palette:  make([]mgl32.Mat4, skeleton.Len()),
	}
}

func (b *playerBase) Pose() *animation.Pose {
	return b.pose
}

func (b *playerBase) Model() animation.Transform {
	return b.model
}

func (b *playerBase) Instance() uint32 {
	return b.instance
}

// flush writes the skinning palette for pose and the instance transform. A nil writer
// skips the write.
func (b *playerBase) flush(pose *animation.Pose) {
	b.palette = b.skeleton.SkinPalette(pose, b.palette)
	if b.writer == nil {
		return
	}
	b.writer.WritePalette(b.instance, b.palette)
	b.writer.WriteInstance(b.instance, b.model.Translation, b.model.Rotation)
}
