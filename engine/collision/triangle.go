// Package collision holds the static geometry queries used for foot placement.
package collision

import (
	"github.com/Carmen-Shannon/oxy-ik/common"
	"github.com/go-gl/mathgl/mgl32"
)

// Triangle is a single collision face. Normal is derived from the winding of V0, V1, V2.
type Triangle struct {
	V0     mgl32.Vec3
	V1     mgl32.Vec3
	V2     mgl32.Vec3
	Normal mgl32.Vec3
}

// NewTriangle creates a triangle and computes its unit normal. Degenerate triangles get a
// zero normal.
//
// Parameters:
//   - v0, v1, v2: the vertices in counter-clockwise order
//
// Returns:
//   - Triangle: the triangle
func NewTriangle(v0, v1, v2 mgl32.Vec3) Triangle {
	n := v1.Sub(v0).Cross(v2.Sub(v0))
	return Triangle{
		V0:     v0,
		V1:     v1,
		V2:     v2,
		Normal: common.NormalizeOr(n, mgl32.Vec3{}),
	}
}

// Bounds returns the triangle's axis-aligned bounding box.
func (t Triangle) Bounds() AABB {
	return NewAABB(t.V0, t.V1, t.V2)
}

// MeshToTriangles builds triangles from an indexed triangle list. With no indices, the
// positions are read as consecutive triples. Trailing indices that do not complete a
// triangle and triangles referencing missing positions are skipped.
//
// Parameters:
//   - positions: the vertex positions
//   - indices: triangle-list indices into positions, or nil
//
// Returns:
//   - []Triangle: the triangles
func MeshToTriangles(positions []mgl32.Vec3, indices []uint32) []Triangle {
	if indices == nil {
		out := make([]Triangle, 0, len(positions)/3)
		for i := 0; i+2 < len(positions); i += 3 {
			out = append(out, NewTriangle(positions[i], positions[i+1], positions[i+2]))
		}
		return out
	}

	n := uint32(len(positions))
	out := make([]Triangle, 0, len(indices)/3)
	for i := 0; i+2 < len(indices); i += 3 {
		a, b, c := indices[i], indices[i+1], indices[i+2]
		if a >= n || b >= n || c >= n {
			continue
		}
		out = append(out, NewTriangle(positions[a], positions[b], positions[c]))
	}
	return out
}
