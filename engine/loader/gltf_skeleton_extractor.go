package loader

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-ik/common"
	"github.com/Carmen-Shannon/oxy-ik/engine/animation"
	"github.com/go-gl/mathgl/mgl32"
)

// unnamedJoint names joints whose node has no name.
const unnamedJoint = "EMPTY NODE"

// gltfSkeletonExtractorImpl is the implementation of the gltfSkeletonExtractor interface.
type gltfSkeletonExtractorImpl struct {
	parser gltfParser
}

// gltfSkeletonExtractor turns the node hierarchy into a skeleton. Every node becomes the
// joint with the same index, so animation channels can address joints by node index.
type gltfSkeletonExtractor interface {
	// RestPose builds the pose described by the node transforms.
	//
	// Returns:
	//   - *animation.Pose: one joint per node
	//   - error: error if the hierarchy is malformed
	RestPose() (*animation.Pose, error)

	// ExtractSkeleton builds the rest pose, the bind pose from every skin's inverse bind
	// matrices and the joint names.
	//
	// Returns:
	//   - *animation.Skeleton: the skeleton
	//   - error: error if extraction fails
	ExtractSkeleton() (*animation.Skeleton, error)
}

var _ gltfSkeletonExtractor = &gltfSkeletonExtractorImpl{}

func newGLTFSkeletonExtractor(parser gltfParser) gltfSkeletonExtractor {
	return &gltfSkeletonExtractorImpl{parser: parser}
}

func (e *gltfSkeletonExtractorImpl) RestPose() (*animation.Pose, error) {
	doc := e.parser.Document()
	if doc == nil {
		return nil, fmt.Errorf("%w: no document loaded", ErrInvalidGLTF)
	}

	joints := make([]animation.Transform, len(doc.Nodes))
	parents := make([]int, len(doc.Nodes))
	for i := range parents {
		parents[i] = animation.NoParent
	}
	for i := range doc.Nodes {
		node := &doc.Nodes[i]
		joints[i] = gltfNodeTransform(node)
		for _, child := range node.Children {
			if child < 0 || child >= len(doc.Nodes) {
				return nil, fmt.Errorf("%w: node %d has child %d", ErrInvalidGLTF, i, child)
			}
			parents[child] = i
		}
	}

	pose, err := animation.NewPoseFromJoints(joints, parents)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidGLTF, err)
	}
	return pose, nil
}

func (e *gltfSkeletonExtractorImpl) ExtractSkeleton() (*animation.Skeleton, error) {
	rest, err := e.RestPose()
	if err != nil {
		return nil, err
	}
	bind, err := e.bindPose(rest)
	if err != nil {
		return nil, err
	}

	doc := e.parser.Document()
	names := make([]string, len(doc.Nodes))
	for i, node := range doc.Nodes {
		names[i] = common.Coalesce(node.Name, unnamedJoint)
	}
	return animation.NewSkeleton(rest, bind, names)
}

// bindPose starts from the rest pose in world space, replaces skinned joints with the
// inverse of their inverse bind matrix and converts back to local transforms.
func (e *gltfSkeletonExtractorImpl) bindPose(rest *animation.Pose) (*animation.Pose, error) {
	doc := e.parser.Document()

	world := make([]animation.Transform, rest.Len())
	for i := range world {
		world[i] = rest.GlobalTransform(i)
	}

	for s, skin := range doc.Skins {
		if skin.InverseBindMatrices == nil {
			continue
		}
		flat, err := e.parser.ReadFloats(*skin.InverseBindMatrices, gltfAccessorTypeMat4)
		if err != nil {
			return nil, fmt.Errorf("skin %d inverse bind matrices: %w", s, err)
		}
		for j, node := range skin.Joints {
			if node < 0 || node >= len(world) {
				return nil, fmt.Errorf("%w: skin %d joint %d is node %d", ErrInvalidGLTF, s, j, node)
			}
			if (j+1)*16 > len(flat) {
				break
			}
			var ibm mgl32.Mat4
			copy(ibm[:], flat[j*16:(j+1)*16])
			world[node] = animation.TransformFromMat4(ibm.Inv())
		}
	}

	bind := rest.Clone()
	for i := range world {
		local := world[i]
		if parent := bind.Parent(i); parent != animation.NoParent {
			local = world[parent].Inverse().Combine(local)
		}
		bind.SetLocalTransform(i, local)
	}
	return bind, nil
}

// gltfNodeTransform returns the node's local transform from its matrix or TRS fields.
func gltfNodeTransform(node *gltfNode) animation.Transform {
	if node.Matrix != nil {
		return animation.TransformFromMat4(mgl32.Mat4(*node.Matrix))
	}

	t := animation.IdentityTransform()
	if node.Translation != nil {
		t.Translation = mgl32.Vec3(*node.Translation)
	}
	if node.Rotation != nil {
		t.Rotation = common.QuatFromXYZW(*node.Rotation)
	}
	if node.Scale != nil {
		t.Scale = mgl32.Vec3(*node.Scale)
	}
	return t
}
