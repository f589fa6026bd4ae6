package collision

import (
	"github.com/go-gl/mathgl/mgl32"
)

// boundsMargin pads each triangle's box so the broad phase never rejects a hit the exact
// test would accept.
const boundsMargin float32 = 1e-4

// Ground is an immutable triangle soup queried by ray casts. It is safe for concurrent
// reads once built.
type Ground struct {
	triangles []Triangle
	bounds    []AABB
	total     AABB
}

// NewGround copies triangles and precomputes their bounds.
//
// Parameters:
//   - triangles: the collision faces
//
// Returns:
//   - *Ground: the ground
func NewGround(triangles []Triangle) *Ground {
	g := &Ground{
		triangles: append([]Triangle(nil), triangles...),
		bounds:    make([]AABB, len(triangles)),
	}
	for i, tri := range g.triangles {
		g.bounds[i] = tri.Bounds().Expand(boundsMargin)
		if i == 0 {
			g.total = g.bounds[0]
		} else {
			g.total = g.total.Union(g.bounds[i])
		}
	}
	return g
}

// Triangles returns the collision faces. The slice is shared and must not be modified.
func (g *Ground) Triangles() []Triangle {
	return g.triangles
}

// Bounds returns the box around every triangle.
func (g *Ground) Bounds() AABB {
	return g.total
}

// Len returns the number of triangles.
func (g *Ground) Len() int {
	return len(g.triangles)
}

// ForEachHit calls fn with every point where r hits a triangle, in triangle order.
//
// Parameters:
//   - r: the ray to cast
//   - fn: called once per hit
func (g *Ground) ForEachHit(r Ray, fn func(hit mgl32.Vec3)) {
	if len(g.triangles) == 0 || !g.total.IntersectsRay(r) {
		return
	}
	for i, tri := range g.triangles {
		if !g.bounds[i].IntersectsRay(r) {
			continue
		}
		if hit, ok := r.Cast(tri); ok {
			fn(hit)
		}
	}
}

// Cast returns the hit closest to the ray origin.
//
// Parameters:
//   - r: the ray to cast
//
// Returns:
//   - mgl32.Vec3: the nearest hit point, zero on a miss
//   - bool: whether anything was hit
func (g *Ground) Cast(r Ray) (mgl32.Vec3, bool) {
	var best mgl32.Vec3
	bestT, found := float32(0), false
	if len(g.triangles) == 0 || !g.total.IntersectsRay(r) {
		return best, false
	}
	for i, tri := range g.triangles {
		if !g.bounds[i].IntersectsRay(r) {
			continue
		}
		t, ok := r.Intersect(tri)
		if !ok || (found && t >= bestT) {
			continue
		}
		best, bestT, found = r.At(t), t, true
	}
	return best, found
}
