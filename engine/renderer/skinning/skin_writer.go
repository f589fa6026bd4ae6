// Package skinning carries animated joint palettes and instance placements from the CPU
// players to the GPU skinning buffers.
package skinning

import (
	"github.com/go-gl/mathgl/mgl32"
)

// SkinWriter receives per-instance skinning output. Players call it once per update.
type SkinWriter interface {
	// WritePalette stores the skinning matrices (model-space joint matrix times inverse bind
	// matrix) for an instance.
	//
	// Parameters:
	//   - instance: the instance slot
	//   - palette: one matrix per joint; the slice may be reused by the caller after return
	WritePalette(instance uint32, palette []mgl32.Mat4)

	// WriteInstance stores an instance's world position and rotation.
	//
	// Parameters:
	//   - instance: the instance slot
	//   - position: world position
	//   - rotation: world rotation
	WriteInstance(instance uint32, position mgl32.Vec3, rotation mgl32.Quat)
}
