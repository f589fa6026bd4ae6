package skinning

import (
	"errors"
	"fmt"
	"sync"

	"github.com/cogentcore/webgpu/wgpu"
)

// ErrUnknownBinding is returned when a write targets a binding with no buffer.
var ErrUnknownBinding = errors.New("no buffer for binding")

// QueueWriter uploads staged BufferWrites to GPU buffers through a wgpu queue.
type QueueWriter struct {
	mu      sync.Mutex
	queue   *wgpu.Queue
	buffers map[int]*wgpu.Buffer
	owned   []*wgpu.Buffer
}

// NewQueueWriter creates a writer for queue with no buffers attached.
//
// Parameters:
//   - queue: the device queue used for uploads
//
// Returns:
//   - *QueueWriter: the writer
func NewQueueWriter(queue *wgpu.Queue) *QueueWriter {
	return &QueueWriter{
		queue:   queue,
		buffers: make(map[int]*wgpu.Buffer),
	}
}

// SetBuffer attaches buf to binding. The caller keeps ownership of buf.
func (w *QueueWriter) SetBuffer(binding int, buf *wgpu.Buffer) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.buffers[binding] = buf
}

// CreateSkinBuffers allocates storage buffers for the palette and instance bindings of a
// Stager and attaches them to the writer, which then owns them.
//
// Parameters:
//   - device: the device to allocate on
//   - maxInstances: the number of instance slots
//   - maxJoints: the palette stride, matching the Stager's MaxJoints
//   - paletteBinding, instanceBinding: the bindings the Stager stamps on its writes
//
// Returns:
//   - error: an error if either buffer could not be created
func (w *QueueWriter) CreateSkinBuffers(device *wgpu.Device, maxInstances, maxJoints uint32, paletteBinding, instanceBinding int) error {
	instanceSize := (&GPUSkinInstance{}).Size()
	sizes := []struct {
		binding int
		label   string
		size    uint64
	}{
		{paletteBinding, "Skin Palette Buffer", uint64(maxInstances) * uint64(maxJoints) * JointMatrixSize},
		{instanceBinding, "Skin Instance Buffer", uint64(maxInstances) * uint64(instanceSize)},
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	for _, s := range sizes {
		buf, err := device.CreateBuffer(&wgpu.BufferDescriptor{
			Label:            s.label,
			Size:             s.size,
			Usage:            wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst,
			MappedAtCreation: false,
		})
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", s.label, err)
		}
		w.buffers[s.binding] = buf
		w.owned = append(w.owned, buf)
	}
	return nil
}

// WriteBuffers uploads every write. Writes for unattached bindings are skipped and reported.
//
// Parameters:
//   - writes: the staged writes, typically from Stager.StagedWriteData
//
// Returns:
//   - error: ErrUnknownBinding joined for each skipped binding, or nil
func (w *QueueWriter) WriteBuffers(writes []BufferWrite) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	var errs error
	for _, write := range writes {
		buf := w.buffers[write.Binding]
		if buf == nil {
			errs = errors.Join(errs, fmt.Errorf("binding %d: %w", write.Binding, ErrUnknownBinding))
			continue
		}
		w.queue.WriteBuffer(buf, write.Offset, write.Data)
	}
	return errs
}

// Release frees the buffers created by CreateSkinBuffers.
func (w *QueueWriter) Release() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, buf := range w.owned {
		for binding, b := range w.buffers {
			if b == buf {
				delete(w.buffers, binding)
			}
		}
		buf.Release()
	}
	w.owned = nil
}
