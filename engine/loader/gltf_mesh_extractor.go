package loader

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-ik/engine/animation"
	"github.com/Carmen-Shannon/oxy-ik/engine/collision"
	"github.com/go-gl/mathgl/mgl32"
)

// gltfMeshExtractorImpl is the implementation of the gltfMeshExtractor interface.
type gltfMeshExtractorImpl struct {
	parser gltfParser
}

// gltfMeshExtractor turns mesh geometry into collision triangles.
type gltfMeshExtractor interface {
	// ExtractMesh reads the triangle primitives of one mesh in the mesh's own space.
	// Primitives that are not triangle lists are skipped.
	//
	// Parameters:
	//   - meshIndex: the index of the mesh to extract
	//
	// Returns:
	//   - []mgl32.Vec3: the positions of every primitive, concatenated
	//   - []uint32: triangle-list indices into the positions
	//   - error: error if extraction fails
	ExtractMesh(meshIndex int) ([]mgl32.Vec3, []uint32, error)

	// ExtractTriangles places every node's mesh with the node's global rest transform.
	//
	// Parameters:
	//   - rest: the rest pose, with one joint per node
	//
	// Returns:
	//   - []collision.Triangle: the world-space triangles
	//   - error: error if extraction fails
	ExtractTriangles(rest *animation.Pose) ([]collision.Triangle, error)
}

var _ gltfMeshExtractor = &gltfMeshExtractorImpl{}

// newGLTFMeshExtractor creates a new mesh extractor for a parsed document.
//
// Parameters:
//   - parser: the parser containing a loaded document
//
// Returns:
//   - gltfMeshExtractor: the mesh extractor
func newGLTFMeshExtractor(parser gltfParser) gltfMeshExtractor {
	return &gltfMeshExtractorImpl{parser: parser}
}

func (e *gltfMeshExtractorImpl) ExtractMesh(meshIndex int) ([]mgl32.Vec3, []uint32, error) {
	doc := e.parser.Document()
	if doc == nil {
		return nil, nil, fmt.Errorf("%w: no document loaded", ErrInvalidGLTF)
	}
	if meshIndex < 0 || meshIndex >= len(doc.Meshes) {
		return nil, nil, fmt.Errorf("mesh index %d out of range", meshIndex)
	}

	mesh := &doc.Meshes[meshIndex]
	var positions []mgl32.Vec3
	var indices []uint32
	for p := range mesh.Primitives {
		prim := &mesh.Primitives[p]
		if prim.Mode != nil && *prim.Mode != gltfPrimitiveModeTriangles {
			continue
		}
		posIdx, ok := prim.Attributes["POSITION"]
		if !ok {
			continue
		}

		flat, err := e.parser.ReadFloats(posIdx, gltfAccessorTypeVec3)
		if err != nil {
			return nil, nil, fmt.Errorf("mesh %q primitive %d positions: %w", mesh.Name, p, err)
		}
		base := uint32(len(positions))
		count := len(flat) / 3
		for i := 0; i < count; i++ {
			positions = append(positions, mgl32.Vec3{flat[i*3], flat[i*3+1], flat[i*3+2]})
		}

		if prim.Indices == nil {
			for i := 0; i+2 < count; i += 3 {
				indices = append(indices, base+uint32(i), base+uint32(i+1), base+uint32(i+2))
			}
			continue
		}
		primIndices, err := e.parser.ReadIndices(*prim.Indices)
		if err != nil {
			return nil, nil, fmt.Errorf("mesh %q primitive %d indices: %w", mesh.Name, p, err)
		}
		for _, idx := range primIndices[:len(primIndices)/3*3] {
			indices = append(indices, base+idx)
		}
	}
	return positions, indices, nil
}

func (e *gltfMeshExtractorImpl) ExtractTriangles(rest *animation.Pose) ([]collision.Triangle, error) {
	doc := e.parser.Document()
	if doc == nil {
		return nil, fmt.Errorf("%w: no document loaded", ErrInvalidGLTF)
	}

	var triangles []collision.Triangle
	for n := range doc.Nodes {
		if doc.Nodes[n].Mesh == nil {
			continue
		}
		positions, indices, err := e.ExtractMesh(*doc.Nodes[n].Mesh)
		if err != nil {
			return nil, fmt.Errorf("node %d: %w", n, err)
		}

		world := rest.GlobalTransform(n)
		for i := range positions {
			positions[i] = world.TransformPoint(positions[i])
		}
		triangles = append(triangles, collision.MeshToTriangles(positions, indices)...)
	}
	return triangles, nil
}
