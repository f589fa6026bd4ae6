package loader

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrInvalidGLTF is returned for documents that are not glTF 2.x or are malformed.
	ErrInvalidGLTF = errors.New("invalid glTF document")
	// ErrInvalidGLB is returned for a bad GLB container.
	ErrInvalidGLB = errors.New("invalid GLB container")
	// ErrAccessor is returned when an accessor is missing, mistyped or points outside its buffer.
	ErrAccessor = errors.New("invalid accessor")

	errUnsupportedURI = errors.New("unsupported buffer URI")
)

// gltfParserImpl is the implementation of the gltfParser interface.
type gltfParserImpl struct {
	baseDir        string
	document       *gltfDocument
	glbBinaryChunk []byte
}

// gltfParser loads a glTF or GLB document and reads typed accessor data out of its buffers.
type gltfParser interface {
	// Parse loads the file at path. GLB is detected by extension or magic number.
	//
	// Parameters:
	//   - path: path to the .gltf or .glb file
	//
	// Returns:
	//   - error: error if reading or parsing fails
	Parse(path string) error

	// ParseReader parses a document from r. External buffer URIs are resolved against the
	// working directory.
	//
	// Parameters:
	//   - r: reader containing glTF JSON or GLB data
	//   - isGLB: true if the data is in GLB format
	//
	// Returns:
	//   - error: error if parsing fails
	ParseReader(r io.Reader, isGLB bool) error

	// Document returns the parsed document, or nil before a successful parse.
	Document() *gltfDocument

	// ReadFloats reads a FLOAT accessor of the given element type as a flat slice.
	//
	// Parameters:
	//   - accessorIndex: the accessor to read
	//   - elementType: the expected accessor type, such as VEC3
	//
	// Returns:
	//   - []float32: count * components values
	//   - error: ErrAccessor when the accessor does not match or is out of bounds
	ReadFloats(accessorIndex int, elementType string) ([]float32, error)

	// ReadIndices reads an unsigned SCALAR accessor as uint32 values.
	//
	// Parameters:
	//   - accessorIndex: the accessor to read
	//
	// Returns:
	//   - []uint32: the indices
	//   - error: ErrAccessor when the accessor does not match or is out of bounds
	ReadIndices(accessorIndex int) ([]uint32, error)
}

var _ gltfParser = &gltfParserImpl{}

func newGLTFParser() gltfParser {
	return &gltfParserImpl{}
}

func (p *gltfParserImpl) Document() *gltfDocument {
	return p.document
}

func (p *gltfParserImpl) Parse(path string) error {
	p.baseDir = filepath.Dir(path)

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	isGLB := strings.EqualFold(filepath.Ext(path), ".glb") ||
		(len(data) >= 4 && binary.LittleEndian.Uint32(data[:4]) == gltfGLBMagic)
	return p.parse(data, isGLB)
}

func (p *gltfParserImpl) ParseReader(r io.Reader, isGLB bool) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read glTF stream: %w", err)
	}
	return p.parse(data, isGLB)
}

func (p *gltfParserImpl) parse(data []byte, isGLB bool) error {
	jsonData := data
	if isGLB {
		var err error
		if jsonData, p.glbBinaryChunk, err = splitGLB(data); err != nil {
			return err
		}
	}

	var doc gltfDocument
	if err := json.Unmarshal(jsonData, &doc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidGLTF, err)
	}
	if !strings.HasPrefix(doc.Asset.Version, "2.") {
		return fmt.Errorf("%w: version %q", ErrInvalidGLTF, doc.Asset.Version)
	}
	if err := p.loadBuffers(&doc); err != nil {
		return err
	}

	p.document = &doc
	return nil
}

// splitGLB returns the JSON and BIN chunks of a GLB container.
func splitGLB(data []byte) ([]byte, []byte, error) {
	r := bytes.NewReader(data)

	var header gltfGLBHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, nil, fmt.Errorf("%w: header: %v", ErrInvalidGLB, err)
	}
	if header.Magic != gltfGLBMagic {
		return nil, nil, fmt.Errorf("%w: magic %#x", ErrInvalidGLB, header.Magic)
	}
	if header.Version != gltfGLBVersion {
		return nil, nil, fmt.Errorf("%w: version %d", ErrInvalidGLB, header.Version)
	}

	var jsonData, binData []byte
	for {
		var chunk gltfGLBChunkHeader
		if err := binary.Read(r, binary.LittleEndian, &chunk); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, nil, fmt.Errorf("%w: chunk header: %v", ErrInvalidGLB, err)
		}
		if int64(chunk.ChunkLength) > int64(r.Len()) {
			return nil, nil, fmt.Errorf("%w: chunk of %d bytes overruns file", ErrInvalidGLB, chunk.ChunkLength)
		}
		body := make([]byte, chunk.ChunkLength)
		if _, err := io.ReadFull(r, body); err != nil {
			return nil, nil, fmt.Errorf("%w: chunk body: %v", ErrInvalidGLB, err)
		}

		switch chunk.ChunkType {
		case gltfGLBChunkJSON:
			jsonData = body
		case gltfGLBChunkBIN:
			binData = body
		}
	}

	if jsonData == nil {
		return nil, nil, fmt.Errorf("%w: missing JSON chunk", ErrInvalidGLB)
	}
	return jsonData, binData, nil
}

// loadBuffers resolves every buffer's bytes from the GLB chunk, a data URI or a file.
func (p *gltfParserImpl) loadBuffers(doc *gltfDocument) error {
	for i := range doc.Buffers {
		buf := &doc.Buffers[i]

		switch {
		case buf.URI == "" && i == 0 && p.glbBinaryChunk != nil:
			buf.data = p.glbBinaryChunk
		case buf.URI == "":
			return fmt.Errorf("%w: buffer %d has no data", ErrInvalidGLTF, i)
		case strings.HasPrefix(buf.URI, "data:"):
			data, err := decodeDataURI(buf.URI)
			if err != nil {
				return fmt.Errorf("buffer %d: %w", i, err)
			}
			buf.data = data
		default:
			data, err := os.ReadFile(filepath.Join(p.baseDir, buf.URI))
			if err != nil {
				return fmt.Errorf("buffer %d: %w", i, err)
			}
			buf.data = data
		}

		if len(buf.data) < buf.ByteLength {
			return fmt.Errorf("%w: buffer %d holds %d of %d bytes", ErrInvalidGLTF, i, len(buf.data), buf.ByteLength)
		}
	}
	return nil
}

// decodeDataURI decodes data:[<mediatype>];base64,<payload>.
func decodeDataURI(uri string) ([]byte, error) {
	header, payload, ok := strings.Cut(strings.TrimPrefix(uri, "data:"), ",")
	if !ok || !strings.HasSuffix(header, ";base64") {
		return nil, errUnsupportedURI
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errUnsupportedURI, err)
	}
	return data, nil
}

// accessorBytes gathers an accessor's elements into a tightly packed slice.
func (p *gltfParserImpl) accessorBytes(accessorIndex int) (*gltfAccessor, []byte, error) {
	if p.document == nil {
		return nil, nil, fmt.Errorf("%w: no document loaded", ErrAccessor)
	}
	doc := p.document
	if accessorIndex < 0 || accessorIndex >= len(doc.Accessors) {
		return nil, nil, fmt.Errorf("%w: index %d out of range", ErrAccessor, accessorIndex)
	}
	acc := &doc.Accessors[accessorIndex]
	if acc.Sparse != nil {
		return nil, nil, fmt.Errorf("%w: %d is sparse", ErrAccessor, accessorIndex)
	}
	if acc.BufferView == nil || *acc.BufferView < 0 || *acc.BufferView >= len(doc.BufferViews) {
		return nil, nil, fmt.Errorf("%w: %d has no buffer view", ErrAccessor, accessorIndex)
	}
	bv := &doc.BufferViews[*acc.BufferView]
	if bv.Buffer < 0 || bv.Buffer >= len(doc.Buffers) {
		return nil, nil, fmt.Errorf("%w: view %d has no buffer", ErrAccessor, *acc.BufferView)
	}
	data := doc.Buffers[bv.Buffer].data

	elementSize := gltfComponentTypeSize(acc.ComponentType) * gltfAccessorTypeComponentCount(acc.Type)
	if elementSize == 0 {
		return nil, nil, fmt.Errorf("%w: %d has type %s/%d", ErrAccessor, accessorIndex, acc.Type, acc.ComponentType)
	}
	stride := elementSize
	if bv.ByteStride != nil && *bv.ByteStride > 0 {
		stride = *bv.ByteStride
	}

	start := bv.ByteOffset + acc.ByteOffset
	if acc.Count > 0 {
		end := start + (acc.Count-1)*stride + elementSize
		if start < 0 || end > bv.ByteOffset+bv.ByteLength || end > len(data) {
			return nil, nil, fmt.Errorf("%w: %d reads past its buffer view", ErrAccessor, accessorIndex)
		}
	}

	out := make([]byte, acc.Count*elementSize)
	for i := 0; i < acc.Count; i++ {
		src := start + i*stride
		copy(out[i*elementSize:(i+1)*elementSize], data[src:src+elementSize])
	}
	return acc, out, nil
}

func (p *gltfParserImpl) ReadFloats(accessorIndex int, elementType string) ([]float32, error) {
	acc, data, err := p.accessorBytes(accessorIndex)
	if err != nil {
		return nil, err
	}
	if acc.Type != elementType || acc.ComponentType != gltfComponentTypeFloat {
		return nil, fmt.Errorf("%w: %d is %s/%d, want %s FLOAT", ErrAccessor, accessorIndex, acc.Type, acc.ComponentType, elementType)
	}

	out := make([]float32, len(data)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return out, nil
}

func (p *gltfParserImpl) ReadIndices(accessorIndex int) ([]uint32, error) {
	acc, data, err := p.accessorBytes(accessorIndex)
	if err != nil {
		return nil, err
	}
	if acc.Type != gltfAccessorTypeScalar {
		return nil, fmt.Errorf("%w: index accessor %d is %s", ErrAccessor, accessorIndex, acc.Type)
	}

	out := make([]uint32, acc.Count)
	switch acc.ComponentType {
	case gltfComponentTypeUnsignedByte:
		for i := range out {
			out[i] = uint32(data[i])
		}
	case gltfComponentTypeUnsignedShort:
		for i := range out {
			out[i] = uint32(binary.LittleEndian.Uint16(data[i*2:]))
		}
	case gltfComponentTypeUnsignedInt:
		for i := range out {
			out[i] = binary.LittleEndian.Uint32(data[i*4:])
		}
	default:
		return nil, fmt.Errorf("%w: index component type %d", ErrAccessor, acc.ComponentType)
	}
	return out, nil
}

func gltfComponentTypeSize(componentType int) int {
	switch componentType {
	case gltfComponentTypeByte, gltfComponentTypeUnsignedByte:
		return 1
	case gltfComponentTypeShort, gltfComponentTypeUnsignedShort:
		return 2
	case gltfComponentTypeUnsignedInt, gltfComponentTypeFloat:
		return 4
	default:
		return 0
	}
}

func gltfAccessorTypeComponentCount(accessorType string) int {
	switch accessorType {
	case gltfAccessorTypeScalar:
		return 1
	case gltfAccessorTypeVec2:
		return 2
	case gltfAccessorTypeVec3:
		return 3
	case gltfAccessorTypeVec4:
		return 4
	case gltfAccessorTypeMat4:
		return 16
	default:
		return 0
	}
}
