package player

const (
	// DefaultSinkIntoGround is how far the character root sits below the ground hit.
	DefaultSinkIntoGround float32 = 0.15
	// DefaultToeLength is how far ahead of the ankle the toe ray is cast.
	DefaultToeLength float32 = 0.3
)

// Tuning holds the constants of the foot placement loop.
type Tuning struct {
	// WalkSpeed scales delta time when advancing along the motion track.
	WalkSpeed float32 `toml:"walk_speed"`
	// WalkCycle is the motion track period in seconds.
	WalkCycle float32 `toml:"walk_cycle"`
	// LookAhead is how far ahead on the motion track the facing direction is taken.
	LookAhead float32 `toml:"look_ahead"`
	// TurnRate is the per-second rate at which the character turns toward the travel direction.
	TurnRate float32 `toml:"turn_rate"`
	// RayStartHeight is the height the body ground ray is cast down from.
	RayStartHeight float32 `toml:"ray_start_height"`
	// AnkleRayLift raises the ankle ray origin above the animated ankle.
	AnkleRayLift float32 `toml:"ankle_ray_lift"`
	// AnkleRayReach is the maximum distance from the ankle ray origin at which a hit replaces the ankle.
	AnkleRayReach float32 `toml:"ankle_ray_reach"`
	// ToeRayReach is the maximum distance from the toe ray origin at which a hit becomes the toe target.
	ToeRayReach float32 `toml:"toe_ray_reach"`
	// GroundRate is the per-second rate at which the root height follows the ground reference.
	GroundRate float32 `toml:"ground_rate"`
	// ToeAlignThreshold is the minimum dot product between current and desired toe directions
	// for the ankle to be turned.
	ToeAlignThreshold float32 `toml:"toe_align_threshold"`
}

// DefaultTuning returns the standard foot placement constants.
func DefaultTuning() Tuning {
	return Tuning{
		WalkSpeed:         0.3,
		WalkCycle:         6.0,
		LookAhead:         0.1,
		TurnRate:          10,
		RayStartHeight:    11,
		AnkleRayLift:      2,
		AnkleRayReach:     2.1,
		ToeRayReach:       1.1,
		GroundRate:        10,
		ToeAlignThreshold: 0.00001,
	}
}
