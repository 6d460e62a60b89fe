package shapes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMeshType(t *testing.T) {
	for _, mt := range AllMeshTypes() {
		got, err := ParseMeshType(mt.String())
		require.NoError(t, err)
		assert.Equal(t, mt, got)
	}

	got, err := ParseMeshType(" Sphere ")
	require.NoError(t, err)
	assert.Equal(t, MeshTypeSphere, got)

	_, err = ParseMeshType("torus")
	assert.Error(t, err)
	assert.Equal(t, "MeshType(9)", MeshType(9).String())
}

func TestParseTextureType(t *testing.T) {
	for _, tt := range AllTextureTypes() {
		got, err := ParseTextureType(tt.String())
		require.NoError(t, err)
		assert.Equal(t, tt, got)
	}

	_, err := ParseTextureType("lava")
	assert.Error(t, err)
}

func TestTextureTypeIDsAreLayerIndices(t *testing.T) {
	for i, tt := range AllTextureTypes() {
		assert.Equal(t, uint32(i), tt.ID())
	}
}

func TestTextureTypeColor(t *testing.T) {
	water := TextureTypeWater.Color()
	assert.InDelta(t, 1.0/255, water[0], 1e-6)
	assert.InDelta(t, 41.0/255, water[1], 1e-6)
	assert.InDelta(t, 95.0/255, water[2], 1e-6)
	assert.Equal(t, float32(1), water[3])

	assert.Equal(t, [4]uint8{52, 140, 49, 255}, TextureTypeGrass.RGBA())
	assert.Panics(t, func() { TextureType(200).Color() })
}
