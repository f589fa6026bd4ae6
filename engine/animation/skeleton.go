package animation

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrSkeletonShape is returned when the rest pose, bind pose and joint names disagree in size.
var ErrSkeletonShape = errors.New("skeleton rest pose, bind pose and names differ in size")

// Skeleton is the immutable joint layout of a rig: its rest pose, bind pose, joint names and
// the inverse bind matrices derived from the bind pose. One Skeleton is shared by every
// instance of the rig.
type Skeleton struct {
	restPose        *Pose
	bindPose        *Pose
	jointNames      []string
	inverseBindPose []mgl32.Mat4
}

// NewSkeleton copies the given poses and names and precomputes the inverse bind matrices.
//
// Parameters:
//   - rest: the pose instances start from
//   - bind: the pose the mesh was skinned in
//   - names: one name per joint
//
// Returns:
//   - *Skeleton: the skeleton
//   - error: ErrSkeletonShape when the inputs differ in joint count
func NewSkeleton(rest, bind *Pose, names []string) (*Skeleton, error) {
	if rest.Len() != bind.Len() || rest.Len() != len(names) {
		return nil, fmt.Errorf("rest %d, bind %d, names %d: %w",
			rest.Len(), bind.Len(), len(names), ErrSkeletonShape)
	}

	s := &Skeleton{
		restPose:        rest.Clone(),
		bindPose:        bind.Clone(),
		jointNames:      append([]string(nil), names...),
		inverseBindPose: make([]mgl32.Mat4, bind.Len()),
	}
	for i := range s.inverseBindPose {
		s.inverseBindPose[i] = s.bindPose.GlobalTransform(i).Inverse().Mat4()
	}
	return s, nil
}

// Len returns the number of joints.
func (s *Skeleton) Len() int {
	return len(s.jointNames)
}

// RestPose returns a copy of the rest pose for an instance to own.
func (s *Skeleton) RestPose() *Pose {
	return s.restPose.Clone()
}

// BindPose returns a copy of the bind pose.
func (s *Skeleton) BindPose() *Pose {
	return s.bindPose.Clone()
}

// JointName returns the name of joint i.
func (s *Skeleton) JointName(i int) string {
	return s.jointNames[i]
}

// JointIndex looks up a joint by name.
//
// Parameters:
//   - name: the joint name
//
// Returns:
//   - int: the joint index
//   - bool: false when no joint has that name
func (s *Skeleton) JointIndex(name string) (int, bool) {
	for i, n := range s.jointNames {
		if n == name {
			return i, true
		}
	}
	return 0, false
}

// InverseBindPose returns the inverse bind matrices. The slice is shared and must not be modified.
func (s *Skeleton) InverseBindPose() []mgl32.Mat4 {
	return s.inverseBindPose
}

// SkinPalette computes the skinning matrices for pose: each joint's model-space matrix
// multiplied by its inverse bind matrix.
//
// Parameters:
//   - pose: a pose with this skeleton's topology
//   - out: destination slice, reused when it has enough capacity
//
// Returns:
//   - []mgl32.Mat4: one skinning matrix per joint
func (s *Skeleton) SkinPalette(pose *Pose, out []mgl32.Mat4) []mgl32.Mat4 {
	out = pose.MatrixPaletteInto(out)
	n := min(len(out), len(s.inverseBindPose))
	for i := 0; i < n; i++ {
		out[i] = out[i].Mul4(s.inverseBindPose[i])
	}
	return out
}
