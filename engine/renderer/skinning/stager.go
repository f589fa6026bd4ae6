package skinning

import (
	"slices"
	"sync"

	"github.com/Carmen-Shannon/oxy-ik/common"
	"github.com/go-gl/mathgl/mgl32"
)

// stager is the implementation of the Stager interface.
type stager struct {
	mu *sync.Mutex

	maxJoints                       uint32
	paletteBinding, instanceBinding int

	palettes  map[uint32][]mgl32.Mat4
	instances map[uint32]*GPUSkinInstance

	dirtyPalettes, dirtyInstances map[uint32]struct{}

	stagedWriteData []BufferWrite
}

// Stager is a SkinWriter that keeps the latest output of every instance on the CPU and turns
// the instances written since the last drain into BufferWrites for the GPU queue.
//
// Palettes are laid out as maxJoints matrices per instance, so instance i's palette starts at
// byte offset i * maxJoints * JointMatrixSize. Instances use one GPUSkinInstance each.
type Stager interface {
	SkinWriter

	// MaxJoints returns the per-instance palette capacity. Longer palettes are truncated.
	//
	// Returns:
	//   - uint32: the palette stride in matrices
	MaxJoints() uint32

	// Palette returns a copy of the last palette written for instance.
	//
	// Parameters:
	//   - instance: the instance slot
	//
	// Returns:
	//   - []mgl32.Mat4: the palette, or nil when none was written
	Palette(instance uint32) []mgl32.Mat4

	// Instance returns the last placement written for instance.
	//
	// Parameters:
	//   - instance: the instance slot
	//
	// Returns:
	//   - GPUSkinInstance: the packed placement
	//   - bool: false when none was written
	Instance(instance uint32) (GPUSkinInstance, bool)

	// StagedWriteData builds the writes for every instance changed since the previous call
	// and clears the dirty state. Writes are ordered by binding, then instance.
	//
	// Returns:
	//   - []BufferWrite: the pending GPU writes
	StagedWriteData() []BufferWrite
}

var _ Stager = &stager{}

// NewStager creates an empty Stager.
//
// Parameters:
//   - options: optional configuration (joint stride, bindings)
//
// Returns:
//   - Stager: the stager
func NewStager(options ...StagerBuilderOption) Stager {
	s := &stager{
		mu:              &sync.Mutex{},
		maxJoints:       DefaultMaxJoints,
		paletteBinding:  DefaultPaletteBinding,
		instanceBinding: DefaultInstanceBinding,
		palettes:        make(map[uint32][]mgl32.Mat4),
		instances:       make(map[uint32]*GPUSkinInstance),
		dirtyPalettes:   make(map[uint32]struct{}),
		dirtyInstances:  make(map[uint32]struct{}),
		stagedWriteData: make([]BufferWrite, 0, 8),
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

func (s *stager) MaxJoints() uint32 {
	return s.maxJoints
}

func (s *stager) WritePalette(instance uint32, palette []mgl32.Mat4) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := min(len(palette), int(s.maxJoints))
	dst := s.palettes[instance]
	if cap(dst) < n {
		dst = make([]mgl32.Mat4, n)
	}
	dst = dst[:n]
	copy(dst, palette)
	s.palettes[instance] = dst
	s.dirtyPalettes[instance] = struct{}{}
}

func (s *stager) WriteInstance(instance uint32, position mgl32.Vec3, rotation mgl32.Quat) {
	s.mu.Lock()
	defer s.mu.Unlock()

	inst := NewGPUSkinInstance(position, rotation)
	s.instances[instance] = &inst
	s.dirtyInstances[instance] = struct{}{}
}

func (s *stager) Palette(instance uint32) []mgl32.Mat4 {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.palettes[instance]
	if !ok {
		return nil
	}
	return slices.Clone(p)
}

func (s *stager) Instance(instance uint32) (GPUSkinInstance, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	inst, ok := s.instances[instance]
	if !ok {
		return GPUSkinInstance{}, false
	}
	return *inst, true
}

func (s *stager) StagedWriteData() []BufferWrite {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stagedWriteData = s.stagedWriteData[:0]
	stride := uint64(s.maxJoints) * JointMatrixSize
	for _, id := range sortedKeys(s.dirtyPalettes) {
		raw := common.SliceToBytes(s.palettes[id])
		if len(raw) == 0 {
			continue
		}
		buf := make([]byte, len(raw))
		copy(buf, raw)
		s.stagedWriteData = append(s.stagedWriteData, BufferWrite{
			Binding: s.paletteBinding,
			Offset:  uint64(id) * stride,
			Data:    buf,
		})
	}
	for _, id := range sortedKeys(s.dirtyInstances) {
		inst := s.instances[id]
		s.stagedWriteData = append(s.stagedWriteData, BufferWrite{
			Binding: s.instanceBinding,
			Offset:  uint64(id) * uint64(inst.Size()),
			Data:    inst.Marshal(),
		})
	}
	clear(s.dirtyPalettes)
	clear(s.dirtyInstances)

	return slices.Clone(s.stagedWriteData)
}

func sortedKeys(m map[uint32]struct{}) []uint32 {
	keys := make([]uint32, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
