package loader

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-ik/common"
	"github.com/Carmen-Shannon/oxy-ik/engine/animation"
	"github.com/go-gl/mathgl/mgl32"
)

// gltfAnimationExtractorImpl is the implementation of the gltfAnimationExtractor interface.
type gltfAnimationExtractorImpl struct {
	parser gltfParser
}

// gltfAnimationExtractor converts glTF animations into clips. Track ids are node indices,
// which match the joint indices produced by the skeleton extractor.
type gltfAnimationExtractor interface {
	// ExtractAnimation extracts a single animation by index.
	//
	// Parameters:
	//   - animIndex: the index of the animation in the document
	//
	// Returns:
	//   - *animation.Clip: the looping clip with its duration computed
	//   - error: error if extraction fails
	ExtractAnimation(animIndex int) (*animation.Clip, error)

	// ExtractAllAnimations extracts every animation from the document in order.
	//
	// Returns:
	//   - []*animation.Clip: all extracted clips
	//   - error: error if extraction fails
	ExtractAllAnimations() ([]*animation.Clip, error)
}

var _ gltfAnimationExtractor = &gltfAnimationExtractorImpl{}

// newGLTFAnimationExtractor creates a new animation extractor for a parsed document.
//
// Parameters:
//   - parser: the parser containing a loaded document
//
// Returns:
//   - gltfAnimationExtractor: the animation extractor
func newGLTFAnimationExtractor(parser gltfParser) gltfAnimationExtractor {
	return &gltfAnimationExtractorImpl{parser: parser}
}

func (e *gltfAnimationExtractorImpl) ExtractAnimation(animIndex int) (*animation.Clip, error) {
	doc := e.parser.Document()
	if doc == nil {
		return nil, fmt.Errorf("%w: no document loaded", ErrInvalidGLTF)
	}
	if animIndex < 0 || animIndex >= len(doc.Animations) {
		return nil, fmt.Errorf("animation index %d out of range", animIndex)
	}

	anim := &doc.Animations[animIndex]
	name := anim.Name
	if name == "" {
		name = fmt.Sprintf("animation_%d", animIndex)
	}
	clip := animation.NewClip(name)

	for i := range anim.Channels {
		ch := &anim.Channels[i]

		// Channels without a node target drive extensions we do not read.
		if ch.Target.Node == nil {
			continue
		}
		node := *ch.Target.Node
		if node < 0 || node >= len(doc.Nodes) {
			return nil, fmt.Errorf("%w: animation %q channel %d targets node %d", ErrInvalidGLTF, name, i, node)
		}
		if ch.Sampler < 0 || ch.Sampler >= len(anim.Samplers) {
			return nil, fmt.Errorf("%w: animation %q channel %d: sampler %d", ErrInvalidGLTF, name, i, ch.Sampler)
		}
		sampler := &anim.Samplers[ch.Sampler]

		interp, err := animation.ParseInterpolation(sampler.Interpolation)
		if err != nil {
			return nil, fmt.Errorf("animation %q channel %d: %w", name, i, err)
		}
		times, err := e.parser.ReadFloats(sampler.Input, gltfAccessorTypeScalar)
		if err != nil {
			return nil, fmt.Errorf("animation %q channel %d times: %w", name, i, err)
		}

		track := clip.TransformTrack(uint32(node))
		switch ch.Target.Path {
		case gltfAnimPathTranslation, gltfAnimPathScale:
			values, err := e.parser.ReadFloats(sampler.Output, gltfAccessorTypeVec3)
			if err != nil {
				return nil, fmt.Errorf("animation %q channel %d values: %w", name, i, err)
			}
			frames := buildFrames(times, values, 3, interp, func(v []float32) animation.Vec3 {
				return animation.Vec3(mgl32.Vec3{v[0], v[1], v[2]})
			})
			t := animation.NewTrack(interp, frames...)
			if ch.Target.Path == gltfAnimPathTranslation {
				track.Position = t
			} else {
				track.Scale = t
			}

		case gltfAnimPathRotation:
			values, err := e.parser.ReadFloats(sampler.Output, gltfAccessorTypeVec4)
			if err != nil {
				return nil, fmt.Errorf("animation %q channel %d values: %w", name, i, err)
			}
			frames := buildFrames(times, values, 4, interp, func(v []float32) animation.Quat {
				return animation.Quat(common.QuatFromXYZW([4]float32{v[0], v[1], v[2], v[3]}))
			})
			track.Rotation = animation.NewTrack(interp, frames...)

		default:
			// Morph target weights.
			continue
		}
	}

	clip.RecalculateDuration()
	return clip, nil
}

func (e *gltfAnimationExtractorImpl) ExtractAllAnimations() ([]*animation.Clip, error) {
	doc := e.parser.Document()
	if doc == nil {
		return nil, fmt.Errorf("%w: no document loaded", ErrInvalidGLTF)
	}

	clips := make([]*animation.Clip, len(doc.Animations))
	for i := range doc.Animations {
		clip, err := e.ExtractAnimation(i)
		if err != nil {
			return nil, fmt.Errorf("animation %d: %w", i, err)
		}
		clips[i] = clip
	}
	return clips, nil
}

// buildFrames pairs key times with sampler output. Cubic spline output holds an in-tangent,
// value and out-tangent per key; other modes hold one value per key.
func buildFrames[T any](times, values []float32, width int, interp animation.Interpolation, decode func([]float32) T) []animation.Frame[T] {
	stride := width
	if interp == animation.InterpolationCubic {
		stride = width * 3
	}

	frames := make([]animation.Frame[T], min(len(times), len(values)/stride))
	for i := range frames {
		base := values[i*stride:]
		if interp == animation.InterpolationCubic {
			frames[i] = animation.NewCubicFrame(times[i],
				decode(base[:width]),
				decode(base[width:2*width]),
				decode(base[2*width:3*width]))
			continue
		}
		frames[i] = animation.NewFrame(times[i], decode(base[:width]))
	}
	return frames
}
