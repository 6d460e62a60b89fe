package shapes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPackInstanceData(t *testing.T) {
	batches := GroupIntoBatches(referenceObjects())

	transforms, materials := PackInstanceData(batches)

	require.Len(t, transforms, 16*4)
	require.Len(t, materials, MaterialStride*4)
	assert.Equal(t, []uint32{
		0, TextureTypeBlue.ID(),
		1, TextureTypeBlue.ID(),
		2, TextureTypeRed.ID(),
		3, TextureTypeYellow.ID(),
	}, materials)

	// Instance k of both arrays must describe the same object.
	objects := ObjectsFromBatches(batches)
	for k, o := range objects {
		assert.Equal(t, o.Transform[:], transforms[16*k:16*k+16])
		assert.Equal(t, uint32(k), materials[MaterialStride*k])
		assert.Equal(t, o.Texture.ID(), materials[MaterialStride*k+1])
	}
}

func TestPackInstanceDataSkipsEmptyBatches(t *testing.T) {
	batches := []Batch{
		{Mesh: MeshTypeCube, Texture: TextureTypeGrass},
		{Mesh: MeshTypeSphere, Texture: TextureTypeWater, Transforms: [][16]float32{translation(1, 2, 3)}},
	}
	transforms, materials := PackInstanceData(batches)
	assert.Len(t, transforms, 16)
	assert.Equal(t, []uint32{0, TextureTypeWater.ID()}, materials)
}

func TestPackInstanceColors(t *testing.T) {
	batches := GroupIntoBatches(referenceObjects())
	colors := PackInstanceColors(batches)

	require.Len(t, colors, 4*4)
	blue := TextureTypeBlue.Color()
	yellow := TextureTypeYellow.Color()
	assert.Equal(t, blue[:], colors[0:4])
	assert.Equal(t, blue[:], colors[4:8])
	assert.Equal(t, yellow[:], colors[12:16])
}
