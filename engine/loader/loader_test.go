package loader

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/oxy-ik/engine/animation"
	"github.com/Carmen-Shannon/oxy-ik/engine/collision"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func checkAsset(t *testing.T, asset *Asset) {
	t.Helper()

	assert.Equal(t, "Leg Rig", asset.Name)

	skel := asset.Skeleton
	require.NotNil(t, skel)
	require.Equal(t, 4, skel.Len())
	assert.Equal(t, "Hips", skel.JointName(0))
	assert.Equal(t, "Leg", skel.JointName(1))
	assert.Equal(t, unnamedJoint, skel.JointName(2))
	assert.Equal(t, "Ground", skel.JointName(3))

	rest := skel.RestPose()
	assert.Equal(t, animation.NoParent, rest.Parent(0))
	assert.Equal(t, 0, rest.Parent(1))
	assert.Equal(t, 1, rest.Parent(2))
	assert.Equal(t, animation.NoParent, rest.Parent(3))
	assertVec3(t, mgl32.Vec3{0, 0, 0}, rest.GlobalTransform(2).Translation)

	bind := skel.BindPose()
	assertVec3(t, mgl32.Vec3{0, 1, 0}, bind.LocalTransform(0).Translation)
	assertVec3(t, mgl32.Vec3{0, -0.75, 0}, bind.LocalTransform(1).Translation)
	assertVec3(t, mgl32.Vec3{0, -0.25, 0}, bind.LocalTransform(2).Translation)

	require.Len(t, asset.Clips, 2)
	walk := asset.Clip("Walk")
	require.NotNil(t, walk)
	assert.True(t, walk.Looping)
	assert.InDelta(t, 1, walk.Duration(), 1e-6)
	assert.Equal(t, 2, walk.Len())
	assert.Equal(t, animation.InterpolationLinear, walk.TransformTrack(0).Position.Interpolation())
	assert.Equal(t, animation.InterpolationCubic, walk.TransformTrack(1).Rotation.Interpolation())

	pose := skel.RestPose()
	walk.Sample(pose, 0.5)
	assertVec3(t, mgl32.Vec3{0, 1.5, 0}, pose.LocalTransform(0).Translation)
	want := mgl32.QuatRotate(mgl32.DegToRad(45), mgl32.Vec3{0, 1, 0})
	got := pose.LocalTransform(1).Rotation
	assert.InDelta(t, 1, math32.Abs(want.Dot(got)), 1e-4)
	// The leg keeps its rest translation since only its rotation is animated.
	assertVec3(t, mgl32.Vec3{0, -0.5, 0}, pose.LocalTransform(1).Translation)

	hop := asset.Clip("Hop")
	require.NotNil(t, hop)
	assert.Equal(t, animation.InterpolationConstant, hop.TransformTrack(2).Position.Interpolation())
	assert.Nil(t, asset.Clip("Run"))

	require.Len(t, asset.Triangles, 2)
	for _, tri := range asset.Triangles {
		assert.InDelta(t, -1, tri.V0[1], 1e-6)
		assert.InDelta(t, -1, tri.V1[1], 1e-6)
		assert.InDelta(t, -1, tri.V2[1], 1e-6)
	}
	hit, ok := asset.Ground().Cast(collision.NewRay(mgl32.Vec3{0.5, 5, 0.5}))
	require.True(t, ok)
	assert.InDelta(t, -1, hit[1], 1e-5)
}

func TestLoadGLTFFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rig.gltf")
	require.NoError(t, os.WriteFile(path, testGLTF(t), 0o644))

	l := NewLoader(BackendTypeGLTF)
	asset, err := l.Load(path)
	require.NoError(t, err)
	checkAsset(t, asset)

	again, err := l.Load(path)
	require.NoError(t, err)
	assert.Same(t, asset, again)
	assert.Same(t, asset, l.Get(path))
	assert.Len(t, l.Assets(), 1)
}

func TestLoadExternalBuffer(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "rig.bin"), testBuffer(t), 0o644))
	path := filepath.Join(dir, "rig.gltf")
	require.NoError(t, os.WriteFile(path, testDocument(t, "rig.bin"), 0o644))

	asset, err := NewLoader(BackendTypeGLTF).Load(path)
	require.NoError(t, err)
	checkAsset(t, asset)
}

func TestLoadGLB(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rig.glb")
	require.NoError(t, os.WriteFile(path, testGLB(t), 0o644))

	asset, err := NewLoader(BackendTypeGLTF).Load(path)
	require.NoError(t, err)
	checkAsset(t, asset)
}

func TestLoadReader(t *testing.T) {
	l := NewLoader(BackendTypeGLTF)

	asset, err := l.LoadReader("glb", bytes.NewReader(testGLB(t)), true)
	require.NoError(t, err)
	checkAsset(t, asset)

	asset, err = l.LoadReader("json", bytes.NewReader(testGLTF(t)), false)
	require.NoError(t, err)
	checkAsset(t, asset)

	assert.Len(t, l.Assets(), 2)
}

func TestLoadGround(t *testing.T) {
	path := filepath.Join(t.TempDir(), "floor.gltf")
	require.NoError(t, os.WriteFile(path, testGLTF(t), 0o644))

	l := NewLoader(BackendTypeGLTF)
	ground, err := l.LoadGround(path)
	require.NoError(t, err)
	assert.Nil(t, ground.Skeleton)
	assert.Nil(t, ground.Clips)
	assert.Len(t, ground.Triangles, 2)

	// A full load replaces the ground-only entry.
	full, err := l.Load(path)
	require.NoError(t, err)
	require.NotNil(t, full.Skeleton)
	assert.Same(t, full, l.Get(path))
}

func TestWithAsset(t *testing.T) {
	asset := &Asset{Name: "built"}
	l := NewLoader(BackendTypeGLTF, WithAsset("built", asset))
	assert.Same(t, asset, l.Get("built"))
	assert.Nil(t, l.Get("missing"))
}

func TestLoadErrors(t *testing.T) {
	l := NewLoader(BackendTypeGLTF)
	dir := t.TempDir()

	_, err := l.Load(filepath.Join(dir, "rig.fbx"))
	assert.Error(t, err)

	_, err = l.Load(filepath.Join(dir, "missing.gltf"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	old := filepath.Join(dir, "old.gltf")
	require.NoError(t, os.WriteFile(old, []byte(`{"asset":{"version":"1.0"}}`), 0o644))
	_, err = l.Load(old)
	assert.ErrorIs(t, err, ErrInvalidGLTF)

	_, err = l.LoadReader("junk", bytes.NewReader([]byte("not a glb")), true)
	assert.ErrorIs(t, err, ErrInvalidGLB)
	assert.Nil(t, l.Get("junk"))
}

func TestParserAccessorBounds(t *testing.T) {
	p := newGLTFParser()
	require.NoError(t, p.ParseReader(bytes.NewReader(testGLTF(t)), false))

	_, err := p.ReadFloats(1, gltfAccessorTypeVec4)
	assert.ErrorIs(t, err, ErrAccessor)
	_, err = p.ReadFloats(99, gltfAccessorTypeScalar)
	assert.ErrorIs(t, err, ErrAccessor)
	_, err = p.ReadIndices(0)
	assert.ErrorIs(t, err, ErrAccessor)

	p.Document().Accessors[4].Count = 100
	_, err = p.ReadFloats(4, gltfAccessorTypeVec3)
	assert.ErrorIs(t, err, ErrAccessor)

	indices, err := p.ReadIndices(5)
	require.NoError(t, err)
	assert.Equal(t, []uint32{0, 1, 2, 2, 1, 3}, indices)
}
