package collision

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stairs is a 2x2 quad at y=0 and a second quad at y=1 covering x in [1, 3].
func stairs() *Ground {
	positions := []mgl32.Vec3{
		{-1, 0, -1}, {-1, 0, 1}, {1, 0, -1}, {1, 0, 1},
		{1, 1, -1}, {1, 1, 1}, {3, 1, -1}, {3, 1, 1},
	}
	return NewGround(MeshToTriangles(positions, []uint32{0, 1, 2, 2, 1, 3, 4, 5, 6, 6, 5, 7}))
}

func TestGroundCastNearest(t *testing.T) {
	g := stairs()
	require.Equal(t, 4, g.Len())

	hit, ok := g.Cast(NewRay(mgl32.Vec3{0, 11, 0.5}))
	require.True(t, ok)
	assert.InDelta(t, 0, hit[1], 1e-5)

	hit, ok = g.Cast(NewRay(mgl32.Vec3{2, 11, 0}))
	require.True(t, ok)
	assert.InDelta(t, 1, hit[1], 1e-5)

	_, ok = g.Cast(NewRay(mgl32.Vec3{10, 11, 0}))
	assert.False(t, ok)
}

func TestGroundForEachHit(t *testing.T) {
	g := stairs()
	var hits []mgl32.Vec3
	g.ForEachHit(NewRay(mgl32.Vec3{-0.5, 3, 0.2}), func(hit mgl32.Vec3) {
		hits = append(hits, hit)
	})
	require.Len(t, hits, 1)
	assert.InDelta(t, 0, hits[0][1], 1e-5)

	hits = hits[:0]
	g.ForEachHit(NewRay(mgl32.Vec3{-0.5, -3, 0.2}), func(hit mgl32.Vec3) {
		hits = append(hits, hit)
	})
	assert.Empty(t, hits)
}

func TestGroundBounds(t *testing.T) {
	b := stairs().Bounds()
	for i, want := range (mgl32.Vec3{-1, 0, -1}) {
		assert.InDelta(t, want, b.Min[i], 1e-3)
	}
	assert.True(t, b.Contains(mgl32.Vec3{3, 1, 1}))
	assert.False(t, b.Contains(mgl32.Vec3{3.1, 1, 1}))
}

func TestEmptyGround(t *testing.T) {
	g := NewGround(nil)
	_, ok := g.Cast(NewRay(mgl32.Vec3{0, 1, 0}))
	assert.False(t, ok)
}

func TestAABBIntersectsRay(t *testing.T) {
	box := NewAABB(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 1, 1})

	assert.True(t, box.IntersectsRay(NewRay(mgl32.Vec3{0.5, 5, 0.5})))
	assert.False(t, box.IntersectsRay(NewRay(mgl32.Vec3{1.5, 5, 0.5})))
	assert.False(t, box.IntersectsRay(NewRay(mgl32.Vec3{0.5, -1, 0.5})))
	assert.True(t, box.IntersectsRay(Ray{Origin: mgl32.Vec3{-1, -1, -1}, Direction: mgl32.Vec3{1, 1, 1}}))
	assert.True(t, box.IntersectsRay(NewRay(mgl32.Vec3{0.5, 0.5, 0.5})))
}
