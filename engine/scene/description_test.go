package scene

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/oxy-examples/engine/shapes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultDescriptionReferenceScene(t *testing.T) {
	d := DefaultDescription()

	assert.Equal(t, "GPU driven rendering", d.Title)
	assert.Equal(t, [3]float32{5, -11, 3}, d.Camera.Eye)
	assert.Equal(t, [3]float32{1.5, 0, 0}, d.Camera.Target)
	assert.Equal(t, ShadingTexture, d.Shading)
	assert.Equal(t, DrawModeSingle, d.DrawMode)

	batches, err := d.Batches()
	require.NoError(t, err)
	require.Len(t, batches, 3)

	registry := shapes.NewMeshRegistry(shapes.WithTessellation(d.GeneratorOptions()...))
	descriptors := shapes.EmitIndirectDescriptors(batches, registry.Offsets())
	assert.Equal(t, []shapes.IndirectDrawDescriptor{
		{IndexCount: 36, InstanceCount: 2, FirstIndex: 0, BaseVertex: 0, FirstInstance: 0},
		{IndexCount: 228, InstanceCount: 1, FirstIndex: 36, BaseVertex: 0, FirstInstance: 2},
		{IndexCount: 2280, InstanceCount: 1, FirstIndex: 264, BaseVertex: 0, FirstInstance: 3},
	}, descriptors)

	// The first cube instance sits at x=3.
	assert.Equal(t, float32(3), batches[0].Transforms[0][12])
	assert.Equal(t, float32(-3), batches[0].Transforms[1][12])
}

func TestParseDescriptionDefaults(t *testing.T) {
	d, err := ParseDescription([]byte(`
camera: {eye: [0, -5, 0], near: 0.5, far: 50}
objects:
  - {mesh: sphere, texture: water}
`))
	require.NoError(t, err)

	assert.Equal(t, [3]float32{0, 0, 1}, d.Camera.Up)
	assert.Equal(t, float32(45), d.Camera.FovDegrees)
	assert.Equal(t, ShadingTexture, d.Shading)
	assert.Equal(t, DrawModeSingle, d.DrawMode)
	assert.Equal(t, Tessellation{Segments: shapes.DefaultSegments, Rings: shapes.DefaultRings}, d.Tessellation)

	objects, err := d.SceneObjects()
	require.NoError(t, err)
	require.Len(t, objects, 1)
	// Missing scale defaults to identity.
	assert.Equal(t, [16]float32{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}, objects[0].Transform)
}

func TestParseDescriptionErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"bad yaml", "camera: ["},
		{"unknown mesh", "camera: {eye: [0,-5,0], near: 1, far: 2}\nobjects: [{mesh: torus, texture: red}]"},
		{"unknown texture", "camera: {eye: [0,-5,0], near: 1, far: 2}\nbatches: [{mesh: cube, texture: purple}]"},
		{"far before near", "camera: {eye: [0,-5,0], near: 2, far: 1}"},
		{"zero near", "camera: {eye: [0,-5,0], near: 0, far: 1}"},
		{"bad shading", "camera: {eye: [0,-5,0], near: 1, far: 2}\nshading: phong"},
		{"bad draw mode", "camera: {eye: [0,-5,0], near: 1, far: 2}\ndraw_mode: many"},
		{"coarse sphere", "camera: {eye: [0,-5,0], near: 1, far: 2}\ntessellation: {segments: 2, rings: 20}"},
		{"eye on target", "camera: {eye: [0,0,0], near: 1, far: 2}"},
		{"too many vertices", "camera: {eye: [0,-5,0], near: 1, far: 2}\ntessellation: {segments: 1000, rings: 1000}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDescription([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestBatchesMergeObjectsIntoDeclared(t *testing.T) {
	d, err := ParseDescription([]byte(`
camera: {eye: [0, -5, 0], near: 1, far: 20}
batches:
  - mesh: cube
    texture: blue
    transforms: [{translation: [1, 0, 0]}]
objects:
  - {mesh: sphere, texture: grass, translation: [0, 2, 0]}
  - {mesh: cube, texture: blue, translation: [2, 0, 0], scale: [2, 2, 2]}
`))
	require.NoError(t, err)
	require.Len(t, d.Declared, 1)
	require.Len(t, d.Objects, 2)

	batches, err := d.Batches()
	require.NoError(t, err)
	require.Len(t, batches, 2)

	assert.Equal(t, shapes.BatchKey{Mesh: shapes.MeshTypeCube, Texture: shapes.TextureTypeBlue}, batches[0].Key())
	require.Len(t, batches[0].Transforms, 2)
	assert.Equal(t, float32(1), batches[0].Transforms[0][12])
	assert.Equal(t, float32(2), batches[0].Transforms[1][12])
	assert.Equal(t, float32(2), batches[0].Transforms[1][0])

	assert.Equal(t, shapes.BatchKey{Mesh: shapes.MeshTypeSphere, Texture: shapes.TextureTypeGrass}, batches[1].Key())
}

func TestBatchesNewKeysFollowDeclaredInFirstSeenOrder(t *testing.T) {
	d, err := ParseDescription([]byte(`
camera: {eye: [0, -5, 0], near: 1, far: 20}
batches:
  - {mesh: cylinder, texture: red, transforms: [{translation: [0, 0, 1]}]}
objects:
  - {mesh: sphere, texture: water}
  - {mesh: cylinder, texture: red, translation: [0, 0, 2]}
  - {mesh: cube, texture: yellow}
  - {mesh: sphere, texture: water, translation: [0, 0, 3]}
`))
	require.NoError(t, err)

	batches, err := d.Batches()
	require.NoError(t, err)
	require.Len(t, batches, 3)

	assert.Equal(t, shapes.BatchKey{Mesh: shapes.MeshTypeCylinder, Texture: shapes.TextureTypeRed}, batches[0].Key())
	assert.Equal(t, shapes.BatchKey{Mesh: shapes.MeshTypeSphere, Texture: shapes.TextureTypeWater}, batches[1].Key())
	assert.Equal(t, shapes.BatchKey{Mesh: shapes.MeshTypeCube, Texture: shapes.TextureTypeYellow}, batches[2].Key())

	require.Len(t, batches[0].Transforms, 2)
	assert.Equal(t, float32(1), batches[0].Transforms[0][14])
	assert.Equal(t, float32(2), batches[0].Transforms[1][14])
	require.Len(t, batches[1].Transforms, 2)
	assert.Equal(t, float32(3), batches[1].Transforms[1][14])
}

func TestValidateVertexBudget(t *testing.T) {
	fits := "camera: {eye: [0,-5,0], near: 1, far: 2}\ntessellation: {segments: 200, rings: 200}"
	_, err := ParseDescription([]byte(fits))
	assert.NoError(t, err)

	tooFine := "camera: {eye: [0,-5,0], near: 1, far: 2}\ntessellation: {segments: 256, rings: 256}"
	_, err = ParseDescription([]byte(tooFine))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "16-bit indices")
}

func TestBatchesRejectDuplicateDeclarations(t *testing.T) {
	d, err := ParseDescription([]byte(`
camera: {eye: [0, -5, 0], near: 1, far: 20}
batches:
  - {mesh: cube, texture: blue}
  - {mesh: cube, texture: blue}
`))
	require.NoError(t, err)

	_, err = d.Batches()
	assert.Error(t, err)
}

func TestBatchesWithoutDeclarationsGroupObjects(t *testing.T) {
	d, err := ParseDescription([]byte(`
camera: {eye: [0, -5, 0], near: 1, far: 20}
objects:
  - {mesh: cylinder, texture: red}
  - {mesh: cube, texture: blue}
  - {mesh: cylinder, texture: red, translation: [0, 0, 3]}
`))
	require.NoError(t, err)

	batches, err := d.Batches()
	require.NoError(t, err)
	require.Len(t, batches, 2)
	assert.Equal(t, shapes.MeshTypeCylinder, batches[0].Mesh)
	assert.Equal(t, uint32(2), batches[0].InstanceCount())
	assert.Equal(t, float32(3), batches[0].Transforms[1][14])
}

func TestLoadDescription(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	require.NoError(t, os.WriteFile(path, defaultSceneYAML, 0o644))

	d, err := LoadDescription(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultDescription(), d)

	_, err = LoadDescription(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestCameraDescriptionOptions(t *testing.T) {
	assert.Len(t, DefaultDescription().Camera.Options(), 5)
}
