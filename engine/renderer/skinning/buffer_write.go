package skinning

// BufferWrite describes a single GPU buffer write targeting a binding at a byte offset.
type BufferWrite struct {
	Binding int
	Offset  uint64
	Data    []byte
}
