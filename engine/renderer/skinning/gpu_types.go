package skinning

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-ik/common"
	"github.com/go-gl/mathgl/mgl32"
)

// GPUSkinInstanceSource is the WGSL definition of the SkinInstance struct.
// Matches GPUSkinInstance layout exactly (32 bytes, std430 aligned).
//
//go:embed assets/skin_instance.wgsl
var GPUSkinInstanceSource string

// SkinningShaderSource is the vertex stage that applies the joint palette and the instance
// transform. It expects GPUSkinInstanceSource to be prepended.
//
//go:embed assets/skinning.wgsl
var SkinningShaderSource string

// JointMatrixSize is the byte size of one palette entry (mat4x4<f32>).
const JointMatrixSize = 64

// GPUSkinInstance is the GPU-aligned world placement of one skinned instance.
// Size: 32 bytes (std430 aligned).
type GPUSkinInstance struct {
	Position [3]float32 // offset 0
	_pad0    float32    // offset 12: implicit vec3 pad
	Rotation [4]float32 // offset 16: quaternion x, y, z, w
}

// NewGPUSkinInstance packs a world position and rotation.
//
// Parameters:
//   - position: the instance's world position
//   - rotation: the instance's world rotation
//
// Returns:
//   - GPUSkinInstance: the packed instance
func NewGPUSkinInstance(position mgl32.Vec3, rotation mgl32.Quat) GPUSkinInstance {
	return GPUSkinInstance{
		Position: position,
		Rotation: common.QuatToXYZW(rotation),
	}
}

// Size returns the size of the GPUSkinInstance struct in bytes.
//
// Returns:
//   - int: The size of the struct in bytes.
func (g *GPUSkinInstance) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUSkinInstance struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 32-byte buffer ready for GPU upload.
func (g *GPUSkinInstance) Marshal() []byte {
	buf := make([]byte, 32)
	for i, v := range g.Position {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	for i, v := range g.Rotation {
		binary.LittleEndian.PutUint32(buf[16+i*4:], math.Float32bits(v))
	}
	return buf
}
