package animation

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// NoParent marks a root joint in a Pose's parent table.
const NoParent = -1

var (
	// ErrPoseShape is returned when joint and parent tables disagree in length.
	ErrPoseShape = errors.New("pose joint and parent counts differ")
	// ErrInvalidParent is returned when a parent index is out of range or forms a cycle.
	ErrInvalidParent = errors.New("invalid parent index")
)

// Pose is a joint hierarchy snapshot: one local transform and one parent index per joint.
// The joint count is fixed at construction; the parent table is a forest and need not be
// sorted, although sorted tables (parent < child) take a faster palette path.
type Pose struct {
	joints  []Transform
	parents []int
}

// NewPose creates a pose of size root joints, each holding the identity transform.
//
// Parameters:
//   - size: the number of joints
//
// Returns:
//   - *Pose: the new pose
func NewPose(size int) *Pose {
	p := &Pose{
		joints:  make([]Transform, size),
		parents: make([]int, size),
	}
	for i := range p.joints {
		p.joints[i] = IdentityTransform()
		p.parents[i] = NoParent
	}
	return p
}

// NewPoseFromJoints creates a pose from local transforms and parent indices.
// The slices are copied. Parent indices must be NoParent or a valid joint index and the
// hierarchy must be acyclic.
//
// Parameters:
//   - joints: the local transform of each joint
//   - parents: the parent index of each joint
//
// Returns:
//   - *Pose: the new pose
//   - error: ErrPoseShape or ErrInvalidParent on malformed input
func NewPoseFromJoints(joints []Transform, parents []int) (*Pose, error) {
	if len(joints) != len(parents) {
		return nil, fmt.Errorf("%d joints, %d parents: %w", len(joints), len(parents), ErrPoseShape)
	}
	n := len(parents)
	for i, parent := range parents {
		if parent != NoParent && (parent < 0 || parent >= n) {
			return nil, fmt.Errorf("joint %d has parent %d: %w", i, parent, ErrInvalidParent)
		}
	}
	for i := range parents {
		steps := 0
		for p := parents[i]; p != NoParent; p = parents[p] {
			steps++
			if steps > n {
				return nil, fmt.Errorf("joint %d is part of a parent cycle: %w", i, ErrInvalidParent)
			}
		}
	}

	p := &Pose{
		joints:  make([]Transform, n),
		parents: make([]int, n),
	}
	copy(p.joints, joints)
	copy(p.parents, parents)
	return p, nil
}

// Len returns the number of joints.
func (p *Pose) Len() int {
	return len(p.joints)
}

// LocalTransform returns the local transform of joint i.
func (p *Pose) LocalTransform(i int) Transform {
	return p.joints[i]
}

// SetLocalTransform replaces the local transform of joint i.
func (p *Pose) SetLocalTransform(i int, t Transform) {
	p.joints[i] = t
}

// Parent returns the parent index of joint i, or NoParent.
func (p *Pose) Parent(i int) int {
	return p.parents[i]
}

// SetParent sets the parent of joint i. The caller keeps the hierarchy acyclic.
func (p *Pose) SetParent(i, parent int) {
	p.parents[i] = parent
}

// GlobalTransform composes joint i's local transform with all of its ancestors.
//
// Parameters:
//   - i: the joint index
//
// Returns:
//   - Transform: the joint's model-space transform
func (p *Pose) GlobalTransform(i int) Transform {
	result := p.joints[i]
	for parent := p.parents[i]; parent != NoParent; parent = p.parents[parent] {
		result = p.joints[parent].Combine(result)
	}
	return result
}

// MatrixPalette returns the model-space matrix of every joint.
// Joints are resolved in a single forward pass while each parent precedes its child; from
// the first out-of-order parent on, each joint walks its own chain.
//
// Returns:
//   - []mgl32.Mat4: one matrix per joint
func (p *Pose) MatrixPalette() []mgl32.Mat4 {
	return p.MatrixPaletteInto(nil)
}

// MatrixPaletteInto is MatrixPalette writing into out, which is grown when too short.
//
// Parameters:
//   - out: destination slice, reused when it has enough capacity
//
// Returns:
//   - []mgl32.Mat4: the palette, len == p.Len()
func (p *Pose) MatrixPaletteInto(out []mgl32.Mat4) []mgl32.Mat4 {
	n := len(p.joints)
	if cap(out) < n {
		out = make([]mgl32.Mat4, n)
	}
	out = out[:n]

	globals := make([]Transform, n)
	i := 0
	for ; i < n; i++ {
		parent := p.parents[i]
		if parent >= i {
			break
		}
		if parent == NoParent {
			globals[i] = p.joints[i]
		} else {
			globals[i] = globals[parent].Combine(p.joints[i])
		}
		out[i] = globals[i].Mat4()
	}
	for ; i < n; i++ {
		out[i] = p.GlobalTransform(i).Mat4()
	}
	return out
}

// IsInHierarchy reports whether search is parent or one of parent's descendants.
//
// Parameters:
//   - parent: the subtree root
//   - search: the joint to test
//
// Returns:
//   - bool: true when search lies in parent's subtree
func (p *Pose) IsInHierarchy(parent, search int) bool {
	if search == parent {
		return true
	}
	for next := p.parents[search]; next != NoParent; next = p.parents[next] {
		if next == parent {
			return true
		}
	}
	return false
}

// Blend writes the mix of a and b into p for every joint, or only for joints in the
// subtree of root when root is not negative. a, b and p share one topology.
//
// Parameters:
//   - a: the pose at t = 0
//   - b: the pose at t = 1
//   - t: the blend factor
//   - root: the subtree root, or a negative value for the whole pose
func (p *Pose) Blend(a, b *Pose, t float32, root int) {
	n := min(len(p.joints), len(a.joints), len(b.joints))
	for i := 0; i < n; i++ {
		if root >= 0 && !p.IsInHierarchy(root, i) {
			continue
		}
		p.joints[i] = a.joints[i].Mix(b.joints[i], t)
	}
}

// Add layers the difference between add and base on top of in and stores the result in p,
// for every joint or only root's subtree. Adding base to itself leaves in unchanged.
//
// Parameters:
//   - in: the pose being layered onto
//   - add: the additive pose
//   - base: the reference the additive pose is relative to
//   - root: the subtree root, or a negative value for the whole pose
func (p *Pose) Add(in, add, base *Pose, root int) {
	n := min(len(p.joints), len(in.joints), len(add.joints), len(base.joints))
	for i := 0; i < n; i++ {
		if root >= 0 && !p.IsInHierarchy(root, i) {
			continue
		}
		src, a, b := in.joints[i], add.joints[i], base.joints[i]
		p.joints[i] = Transform{
			Translation: src.Translation.Add(a.Translation.Sub(b.Translation)),
			Rotation:    src.Rotation.Mul(b.Rotation.Inverse().Mul(a.Rotation)).Normalize(),
			Scale:       src.Scale.Add(a.Scale.Sub(b.Scale)),
		}
	}
}

// MakeAdditive returns the base pose for layering clip additively: a copy of p with clip
// sampled at its start time.
//
// Parameters:
//   - clip: the additive clip
//
// Returns:
//   - *Pose: the additive base pose
func (p *Pose) MakeAdditive(clip *Clip) *Pose {
	base := p.Clone()
	clip.Sample(base, clip.StartTime())
	return base
}

// Clone returns an independent copy of p.
func (p *Pose) Clone() *Pose {
	c := &Pose{
		joints:  make([]Transform, len(p.joints)),
		parents: make([]int, len(p.parents)),
	}
	copy(c.joints, p.joints)
	copy(c.parents, p.parents)
	return c
}

// CopyFrom overwrites p with other's joints and parents, reusing p's storage when it fits.
func (p *Pose) CopyFrom(other *Pose) {
	if cap(p.joints) < len(other.joints) {
		p.joints = make([]Transform, len(other.joints))
		p.parents = make([]int, len(other.parents))
	}
	p.joints = p.joints[:len(other.joints)]
	p.parents = p.parents[:len(other.parents)]
	copy(p.joints, other.joints)
	copy(p.parents, other.parents)
}
