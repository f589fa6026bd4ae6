package player

import (
	"github.com/Carmen-Shannon/oxy-ik/engine/animation"
)

// playerConfig collects construction options. Each player reads the fields that apply to it.
type playerConfig struct {
	instance       uint32
	model          animation.Transform
	motion         animation.Vector3Track
	sinkIntoGround float32
	toeLength      float32
	tuning         Tuning
	blendPeriod    float32
}

func newPlayerConfig(options []PlayerBuilderOption) *playerConfig {
	cfg := &playerConfig{
		model:          animation.IdentityTransform(),
		sinkIntoGround: DefaultSinkIntoGround,
		toeLength:      DefaultToeLength,
		tuning:         DefaultTuning(),
		blendPeriod:    DefaultBlendPeriod,
	}
	for _, opt := range options {
		opt(cfg)
	}
	return cfg
}

// PlayerBuilderOption is a functional option for configuring a player.
type PlayerBuilderOption func(*playerConfig)

// WithInstance sets the instance slot the player writes to.
//
// Parameters:
//   - instance: the instance slot
//
// Returns:
//   - PlayerBuilderOption: option function to apply
func WithInstance(instance uint32) PlayerBuilderOption {
	return func(c *playerConfig) {
		c.instance = instance
	}
}

// WithModel sets the initial world transform. IkLegPlayer replaces the translation with the
// ground position found at construction.
//
// Parameters:
//   - model: the world transform
//
// Returns:
//   - PlayerBuilderOption: option function to apply
func WithModel(model animation.Transform) PlayerBuilderOption {
	return func(c *playerConfig) {
		c.model = model
	}
}

// WithMotionTrack sets the looping path an IkLegPlayer walks along.
//
// Parameters:
//   - track: world positions over the walk cycle; Y is ignored
//
// Returns:
//   - PlayerBuilderOption: option function to apply
func WithMotionTrack(track animation.Vector3Track) PlayerBuilderOption {
	return func(c *playerConfig) {
		c.motion = track
	}
}

// WithSinkIntoGround sets how far the character root sits below the ground hit.
//
// Parameters:
//   - sink: the downward offset
//
// Returns:
//   - PlayerBuilderOption: option function to apply
func WithSinkIntoGround(sink float32) PlayerBuilderOption {
	return func(c *playerConfig) {
		c.sinkIntoGround = sink
	}
}

// WithToeLength sets how far ahead of the ankle the toe ray is cast.
//
// Parameters:
//   - length: the forward distance from ankle to toe
//
// Returns:
//   - PlayerBuilderOption: option function to apply
func WithToeLength(length float32) PlayerBuilderOption {
	return func(c *playerConfig) {
		c.toeLength = length
	}
}

// WithTuning replaces the foot placement constants.
//
// Parameters:
//   - tuning: the constants
//
// Returns:
//   - PlayerBuilderOption: option function to apply
func WithTuning(tuning Tuning) PlayerBuilderOption {
	return func(c *playerConfig) {
		c.tuning = tuning
	}
}

// WithBlendPeriod sets how long a BlenderPlayer cross-fade holds before it reverses.
// Values of 0 or below are ignored.
//
// Parameters:
//   - seconds: the period in seconds
//
// Returns:
//   - PlayerBuilderOption: option function to apply
func WithBlendPeriod(seconds float32) PlayerBuilderOption {
	return func(c *playerConfig) {
		if seconds > 0 {
			c.blendPeriod = seconds
		}
	}
}
