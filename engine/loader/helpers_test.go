package loader

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/require"
)

// testBuffer packs the accessor data of testDocument.
func testBuffer(t *testing.T) []byte {
	t.Helper()

	var buf bytes.Buffer
	write := func(v any) {
		require.NoError(t, binary.Write(&buf, binary.LittleEndian, v))
	}

	// 0: key times
	write([]float32{0, 1})
	// 1: hip translations
	write([]float32{0, 1, 0, 0, 2, 0})
	// 2: cubic rotations, in/value/out per key
	s := float32(0.70710677)
	write([]float32{
		0, 0, 0, 0, 0, 0, 0, 1, 0, 0, 0, 0,
		0, 0, 0, 0, 0, s, 0, s, 0, 0, 0, 0,
	})
	// 3: inverse bind matrices
	ibm0 := mgl32.Translate3D(0, -1, 0)
	ibm1 := mgl32.Translate3D(0, -0.25, 0)
	write(ibm0[:])
	write(ibm1[:])
	// 4: ground quad
	write([]float32{-1, 0, -1, 1, 0, -1, -1, 0, 1, 1, 0, 1})
	// 5: ground indices
	write([]uint16{0, 1, 2, 2, 1, 3})

	require.Equal(t, 316, buf.Len())
	return buf.Bytes()
}

// testDocument is a three joint leg, a ground node and two animations. The buffer is
// embedded as a data URI unless uri is empty.
func testDocument(t *testing.T, uri string) []byte {
	t.Helper()

	view := func(offset, length int) map[string]any {
		return map[string]any{"buffer": 0, "byteOffset": offset, "byteLength": length}
	}
	accessor := func(view, componentType, count int, typ string) map[string]any {
		return map[string]any{"bufferView": view, "componentType": componentType, "count": count, "type": typ}
	}

	buffer := map[string]any{"byteLength": 316}
	if uri != "" {
		buffer["uri"] = uri
	}

	doc := map[string]any{
		"asset":  map[string]any{"version": "2.0"},
		"scene":  0,
		"scenes": []any{map[string]any{"name": "Leg Rig", "nodes": []int{0, 3}}},
		"nodes": []any{
			map[string]any{"name": "Hips", "translation": []float32{0, 1, 0}, "children": []int{1}},
			map[string]any{"name": "Leg", "translation": []float32{0, -0.5, 0}, "children": []int{2}},
			map[string]any{"translation": []float32{0, -0.5, 0}},
			map[string]any{"name": "Ground", "mesh": 0, "translation": []float32{0, -1, 0}},
		},
		"meshes": []any{map[string]any{
			"name":       "floor",
			"primitives": []any{map[string]any{"attributes": map[string]int{"POSITION": 4}, "indices": 5}},
		}},
		"skins": []any{map[string]any{"joints": []int{0, 1}, "inverseBindMatrices": 3}},
		"animations": []any{
			map[string]any{
				"name": "Walk",
				"channels": []any{
					map[string]any{"sampler": 0, "target": map[string]any{"node": 0, "path": "translation"}},
					map[string]any{"sampler": 1, "target": map[string]any{"node": 1, "path": "rotation"}},
				},
				"samplers": []any{
					map[string]any{"input": 0, "output": 1, "interpolation": "LINEAR"},
					map[string]any{"input": 0, "output": 2, "interpolation": "CUBICSPLINE"},
				},
			},
			map[string]any{
				"name": "Hop",
				"channels": []any{
					map[string]any{"sampler": 0, "target": map[string]any{"node": 2, "path": "translation"}},
				},
				"samplers": []any{
					map[string]any{"input": 0, "output": 1, "interpolation": "STEP"},
				},
			},
		},
		"accessors": []any{
			accessor(0, gltfComponentTypeFloat, 2, gltfAccessorTypeScalar),
			accessor(1, gltfComponentTypeFloat, 2, gltfAccessorTypeVec3),
			accessor(2, gltfComponentTypeFloat, 6, gltfAccessorTypeVec4),
			accessor(3, gltfComponentTypeFloat, 2, gltfAccessorTypeMat4),
			accessor(4, gltfComponentTypeFloat, 4, gltfAccessorTypeVec3),
			accessor(5, gltfComponentTypeUnsignedShort, 6, gltfAccessorTypeScalar),
		},
		"bufferViews": []any{
			view(0, 8), view(8, 24), view(32, 96), view(128, 128), view(256, 48), view(304, 12),
		},
		"buffers": []any{buffer},
	}

	data, err := json.Marshal(doc)
	require.NoError(t, err)
	return data
}

// testGLTF returns the document with its buffer embedded as base64.
func testGLTF(t *testing.T) []byte {
	t.Helper()
	uri := "data:application/octet-stream;base64," + base64.StdEncoding.EncodeToString(testBuffer(t))
	return testDocument(t, uri)
}

// testGLB wraps the document and buffer in a GLB container.
func testGLB(t *testing.T) []byte {
	t.Helper()

	jsonChunk := testDocument(t, "")
	for len(jsonChunk)%4 != 0 {
		jsonChunk = append(jsonChunk, ' ')
	}
	binChunk := testBuffer(t)
	for len(binChunk)%4 != 0 {
		binChunk = append(binChunk, 0)
	}

	var out bytes.Buffer
	total := 12 + 8 + len(jsonChunk) + 8 + len(binChunk)
	require.NoError(t, binary.Write(&out, binary.LittleEndian, gltfGLBHeader{
		Magic: gltfGLBMagic, Version: gltfGLBVersion, Length: uint32(total),
	}))
	require.NoError(t, binary.Write(&out, binary.LittleEndian, gltfGLBChunkHeader{
		ChunkLength: uint32(len(jsonChunk)), ChunkType: gltfGLBChunkJSON,
	}))
	out.Write(jsonChunk)
	require.NoError(t, binary.Write(&out, binary.LittleEndian, gltfGLBChunkHeader{
		ChunkLength: uint32(len(binChunk)), ChunkType: gltfGLBChunkBIN,
	}))
	out.Write(binChunk)
	return out.Bytes()
}

func assertVec3(t *testing.T, want, got mgl32.Vec3) {
	t.Helper()
	for i := range want {
		require.InDelta(t, want[i], got[i], 1e-4, "component %d of %v", i, got)
	}
}
