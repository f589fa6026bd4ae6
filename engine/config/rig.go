// Package config reads leg IK rig descriptions from TOML files and turns them into legs,
// tracks and player options.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/Carmen-Shannon/oxy-ik/common"
	"github.com/Carmen-Shannon/oxy-ik/engine/animation"
	"github.com/Carmen-Shannon/oxy-ik/engine/ik"
	"github.com/Carmen-Shannon/oxy-ik/engine/player"
	"github.com/pelletier/go-toml/v2"
)

const (
	// DefaultClip is the walk clip name looked up when the rig names none.
	DefaultClip = "Walking"
	// DefaultAnkleOffset is the ankle height above the ground used for legs that set none.
	DefaultAnkleOffset float32 = 0.2
)

var (
	// ErrIncompleteLeg is returned when a leg omits one of its joint names.
	ErrIncompleteLeg = errors.New("leg is missing a joint name")
	// ErrUnsortedKeys is returned when track keys are not in ascending time order.
	ErrUnsortedKeys = errors.New("keys are not sorted by time")
	// ErrEmptyRig is returned for a rig document with no content, such as a file caught
	// mid-write.
	ErrEmptyRig = errors.New("rig document is empty")
)

// Key1 is one scalar keyframe.
type Key1 struct {
	Time  float32 `toml:"time"`
	Value float32 `toml:"value"`
}

// Key3 is one vector keyframe.
type Key3 struct {
	Time  float32    `toml:"time"`
	Value [3]float32 `toml:"value"`
}

// Leg names the joints of one leg and its pin track.
type Leg struct {
	Hip   string `toml:"hip"`
	Knee  string `toml:"knee"`
	Ankle string `toml:"ankle"`
	Toe   string `toml:"toe"`
	// AnkleOffset is the ankle height kept above the ground.
	AnkleOffset float32 `toml:"ankle_offset"`
	// PinInterpolation is a glTF or short interpolation name for Pin.
	PinInterpolation string `toml:"pin_interpolation"`
	// Pin weights the predicted ground hit against the animated ankle over the normalized clip.
	Pin []Key1 `toml:"pin"`
}

// Rig is the file form of an IK leg player setup.
type Rig struct {
	// Clip is the name of the walk clip.
	Clip           string  `toml:"clip"`
	SinkIntoGround float32 `toml:"sink_into_ground"`
	ToeLength      float32 `toml:"toe_length"`

	SolverSteps     int     `toml:"solver_steps"`
	SolverThreshold float32 `toml:"solver_threshold"`

	MotionInterpolation string `toml:"motion_interpolation"`
	// Motion is the looping path walked by the character; Y is ignored.
	Motion []Key3 `toml:"motion"`

	Legs   []Leg         `toml:"legs"`
	Tuning player.Tuning `toml:"tuning"`
}

// Default returns the two-legged demo rig for a Mixamo-named skeleton.
//
// Returns:
//   - *Rig: the rig, fully resolved
func Default() *Rig {
	r := &Rig{}
	r.Resolve()
	return r
}

func defaultLegs() []Leg {
	return []Leg{
		{
			Hip: "LeftUpLeg", Knee: "LeftLeg", Ankle: "LeftFoot", Toe: "LeftToeBase",
			Pin: []Key1{{0, 0}, {0.4, 1}, {0.6, 1}, {1, 0}},
		},
		{
			Hip: "RightUpLeg", Knee: "RightLeg", Ankle: "RightFoot", Toe: "RightToeBase",
			Pin: []Key1{{0, 1}, {0.3, 0}, {0.7, 0}, {1, 1}},
		},
	}
}

func defaultMotion() []Key3 {
	return []Key3{
		{0, [3]float32{0, 0, 1}},
		{1, [3]float32{0, 0, 10}},
		{3, [3]float32{22, 0, 10}},
		{4, [3]float32{22, 0, 2}},
		{6, [3]float32{0, 0, 1}},
	}
}

// Resolve fills every zero field with its default. Missing legs and motion are replaced
// by the demo ones; legs without a pin track get the demo pin for their side.
func (r *Rig) Resolve() {
	r.Clip = common.Coalesce(r.Clip, DefaultClip)
	r.SinkIntoGround = common.Coalesce(r.SinkIntoGround, player.DefaultSinkIntoGround)
	r.ToeLength = common.Coalesce(r.ToeLength, player.DefaultToeLength)
	r.SolverSteps = common.Coalesce(r.SolverSteps, ik.DefaultNumSteps)
	r.SolverThreshold = common.Coalesce(r.SolverThreshold, ik.DefaultThreshold)

	if len(r.Motion) == 0 {
		r.Motion = defaultMotion()
	}
	r.MotionInterpolation = common.Coalesce(r.MotionInterpolation, animation.InterpolationLinear.String())

	defaults := defaultLegs()
	if len(r.Legs) == 0 {
		r.Legs = defaults
	}
	for i := range r.Legs {
		leg := &r.Legs[i]
		leg.AnkleOffset = common.Coalesce(leg.AnkleOffset, DefaultAnkleOffset)
		if len(leg.Pin) == 0 {
			leg.Pin = defaults[i%len(defaults)].Pin
		}
		leg.PinInterpolation = common.Coalesce(leg.PinInterpolation, animation.InterpolationCubic.String())
	}

	d := player.DefaultTuning()
	t := &r.Tuning
	t.WalkSpeed = common.Coalesce(t.WalkSpeed, d.WalkSpeed)
	t.WalkCycle = common.Coalesce(t.WalkCycle, d.WalkCycle)
	t.LookAhead = common.Coalesce(t.LookAhead, d.LookAhead)
	t.TurnRate = common.Coalesce(t.TurnRate, d.TurnRate)
	t.RayStartHeight = common.Coalesce(t.RayStartHeight, d.RayStartHeight)
	t.AnkleRayLift = common.Coalesce(t.AnkleRayLift, d.AnkleRayLift)
	t.AnkleRayReach = common.Coalesce(t.AnkleRayReach, d.AnkleRayReach)
	t.ToeRayReach = common.Coalesce(t.ToeRayReach, d.ToeRayReach)
	t.GroundRate = common.Coalesce(t.GroundRate, d.GroundRate)
	t.ToeAlignThreshold = common.Coalesce(t.ToeAlignThreshold, d.ToeAlignThreshold)
}

// Validate checks joint names, interpolation names and key order.
//
// Returns:
//   - error: every problem found, joined
func (r *Rig) Validate() error {
	var err error
	if _, e := animation.ParseInterpolation(r.MotionInterpolation); e != nil {
		err = errors.Join(err, fmt.Errorf("motion: %w", e))
	}
	for i := 1; i < len(r.Motion); i++ {
		if r.Motion[i].Time < r.Motion[i-1].Time {
			err = errors.Join(err, fmt.Errorf("motion key %d: %w", i, ErrUnsortedKeys))
			break
		}
	}
	for i, leg := range r.Legs {
		if leg.Hip == "" || leg.Knee == "" || leg.Ankle == "" || leg.Toe == "" {
			err = errors.Join(err, fmt.Errorf("leg %d: %w", i, ErrIncompleteLeg))
		}
		if _, e := animation.ParseInterpolation(leg.PinInterpolation); e != nil {
			err = errors.Join(err, fmt.Errorf("leg %d pin: %w", i, e))
		}
		for k := 1; k < len(leg.Pin); k++ {
			if leg.Pin[k].Time < leg.Pin[k-1].Time {
				err = errors.Join(err, fmt.Errorf("leg %d pin key %d: %w", i, k, ErrUnsortedKeys))
				break
			}
		}
	}
	return err
}

// Parse decodes a TOML rig, resolves defaults and validates it. Unknown keys and blank
// documents are rejected.
//
// Parameters:
//   - data: the TOML document
//
// Returns:
//   - *Rig: the resolved rig
//   - error: ErrEmptyRig, a decode error or a validation error
func Parse(data []byte) (*Rig, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyRig
	}
	var r Rig
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&r); err != nil {
		return nil, fmt.Errorf("decode rig: %w", err)
	}
	r.Resolve()
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return &r, nil
}

// Load reads and parses the rig file at path.
//
// Parameters:
//   - path: the TOML file path
//
// Returns:
//   - *Rig: the resolved rig
//   - error: a read, decode or validation error
func Load(path string) (*Rig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rig: %w", err)
	}
	r, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return r, nil
}

// Marshal encodes the rig as TOML.
func (r *Rig) Marshal() ([]byte, error) {
	return toml.Marshal(r)
}

// MotionTrack builds the motion path track.
//
// Returns:
//   - animation.Vector3Track: the track
//   - error: ErrUnknownInterpolation for a bad interpolation name
func (r *Rig) MotionTrack() (animation.Vector3Track, error) {
	interp, err := animation.ParseInterpolation(r.MotionInterpolation)
	if err != nil {
		return animation.Vector3Track{}, err
	}
	frames := make([]animation.Frame[animation.Vec3], len(r.Motion))
	for i, k := range r.Motion {
		frames[i] = animation.NewFrame(k.Time, animation.Vec3(k.Value))
	}
	return animation.NewTrack(interp, frames...), nil
}

// PinTrack builds the pin track of the leg.
//
// Returns:
//   - animation.ScalarTrack: the track
//   - error: ErrUnknownInterpolation for a bad interpolation name
func (l Leg) PinTrack() (animation.ScalarTrack, error) {
	interp, err := animation.ParseInterpolation(l.PinInterpolation)
	if err != nil {
		return animation.ScalarTrack{}, err
	}
	frames := make([]animation.Frame[animation.Scalar], len(l.Pin))
	for i, k := range l.Pin {
		frames[i] = animation.NewFrame(k.Time, animation.Scalar(k.Value))
	}
	return animation.NewTrack(interp, frames...), nil
}

// BuildLegs resolves every leg against skeleton.
//
// Parameters:
//   - skeleton: the rig's skeleton
//
// Returns:
//   - []*ik.IkLeg: one leg per entry, in file order
//   - error: every leg failure, joined
func (r *Rig) BuildLegs(skeleton *animation.Skeleton) ([]*ik.IkLeg, error) {
	legs := make([]*ik.IkLeg, 0, len(r.Legs))
	var err error
	for i, l := range r.Legs {
		pin, e := l.PinTrack()
		if e != nil {
			err = errors.Join(err, fmt.Errorf("leg %d: %w", i, e))
			continue
		}
		leg, e := ik.NewIkLeg(skeleton, l.Hip, l.Knee, l.Ankle, l.Toe, l.AnkleOffset,
			ik.WithPinTrack(pin),
			ik.WithSolverOptions(ik.WithNumSteps(r.SolverSteps), ik.WithThreshold(r.SolverThreshold)),
		)
		if e != nil {
			err = errors.Join(err, fmt.Errorf("leg %d: %w", i, e))
			continue
		}
		legs = append(legs, leg)
	}
	if err != nil {
		return nil, err
	}
	return legs, nil
}

// PlayerOptions returns the IkLegPlayer options described by the rig.
//
// Returns:
//   - []player.PlayerBuilderOption: motion, sink, toe length and tuning options
//   - error: a motion track error
func (r *Rig) PlayerOptions() ([]player.PlayerBuilderOption, error) {
	motion, err := r.MotionTrack()
	if err != nil {
		return nil, err
	}
	return []player.PlayerBuilderOption{
		player.WithMotionTrack(motion),
		player.WithSinkIntoGround(r.SinkIntoGround),
		player.WithToeLength(r.ToeLength),
		player.WithTuning(r.Tuning),
	}, nil
}
