package shapes

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmitIndirectDescriptorsReferenceScene(t *testing.T) {
	registry := NewMeshRegistry()
	batches := GroupIntoBatches(referenceObjects())

	descriptors := EmitIndirectDescriptors(batches, registry.Offsets())

	assert.Equal(t, []IndirectDrawDescriptor{
		{IndexCount: 36, InstanceCount: 2, FirstIndex: 0, BaseVertex: 0, FirstInstance: 0},
		{IndexCount: 228, InstanceCount: 1, FirstIndex: 36, BaseVertex: 0, FirstInstance: 2},
		{IndexCount: 2280, InstanceCount: 1, FirstIndex: 264, BaseVertex: 0, FirstInstance: 3},
	}, descriptors)
}

func TestEmitIndirectDescriptorsPartitionsInstances(t *testing.T) {
	var objects []SceneObject
	for i := 0; i < 37; i++ {
		objects = append(objects, SceneObject{
			Mesh:      AllMeshTypes()[(i*7)%3],
			Texture:   AllTextureTypes()[(i*3)%5],
			Transform: translation(float32(i), 0, 0),
		})
	}
	batches := GroupIntoBatches(objects)
	descriptors := EmitIndirectDescriptors(batches, NewMeshRegistry().Offsets())

	require.Len(t, descriptors, len(batches))
	assert.Equal(t, uint32(0), descriptors[0].FirstInstance)
	for i := 0; i+1 < len(descriptors); i++ {
		assert.Equal(t, descriptors[i].FirstInstance+descriptors[i].InstanceCount, descriptors[i+1].FirstInstance)
	}
	last := descriptors[len(descriptors)-1]
	assert.Equal(t, uint32(len(objects)), last.FirstInstance+last.InstanceCount)
}

func TestEmitIndirectDescriptorsExcludesEmptyBatches(t *testing.T) {
	batches := []Batch{
		{Mesh: MeshTypeCube, Texture: TextureTypeBlue, Transforms: [][16]float32{translation(0, 0, 0)}},
		{Mesh: MeshTypeCylinder, Texture: TextureTypeRed},
		{Mesh: MeshTypeSphere, Texture: TextureTypeYellow, Transforms: [][16]float32{translation(1, 0, 0), translation(2, 0, 0)}},
	}
	descriptors := EmitIndirectDescriptors(batches, NewMeshRegistry().Offsets())

	assert.Equal(t, []IndirectDrawDescriptor{
		{IndexCount: 36, InstanceCount: 1, FirstIndex: 0, FirstInstance: 0},
		{IndexCount: 2280, InstanceCount: 2, FirstIndex: 264, FirstInstance: 1},
	}, descriptors)
}

func TestEmitIndirectDescriptorsPanicsOnUnmergedMesh(t *testing.T) {
	registry := NewMeshRegistry(WithMeshOrder(MeshTypeCube))
	batches := GroupIntoBatches(referenceObjects())
	assert.Panics(t, func() { EmitIndirectDescriptors(batches, registry.Offsets()) })
}

func TestEmitIndirectDescriptorsDeterministic(t *testing.T) {
	offsets := NewMeshRegistry().Offsets()
	first := DescriptorsToBytes(EmitIndirectDescriptors(GroupIntoBatches(referenceObjects()), offsets))
	second := DescriptorsToBytes(EmitIndirectDescriptors(GroupIntoBatches(referenceObjects()), offsets))
	assert.Equal(t, first, second)
}

func TestIndirectDrawDescriptorBytes(t *testing.T) {
	d := IndirectDrawDescriptor{IndexCount: 228, InstanceCount: 1, FirstIndex: 36, BaseVertex: 0, FirstInstance: 2}
	b := d.Bytes()

	require.Len(t, b, IndirectDrawDescriptorSize)
	assert.Equal(t, []byte{228, 0, 0, 0, 1, 0, 0, 0, 36, 0, 0, 0, 0, 0, 0, 0, 2, 0, 0, 0}, b)

	all := DescriptorsToBytes([]IndirectDrawDescriptor{{IndexCount: 1}, d})
	require.Len(t, all, 2*IndirectDrawDescriptorSize)
	assert.Equal(t, b, all[IndirectDrawDescriptorSize:])
	assert.Equal(t, uint32(1), binary.LittleEndian.Uint32(all))
}

func TestGroupDescriptorsByTexture(t *testing.T) {
	objects := []SceneObject{
		{Mesh: MeshTypeSphere, Texture: TextureTypeGrass, Transform: translation(0, 0, 0)},
		{Mesh: MeshTypeCube, Texture: TextureTypeWater, Transform: translation(1, 0, 0)},
		{Mesh: MeshTypeCylinder, Texture: TextureTypeGrass, Transform: translation(2, 0, 0)},
		{Mesh: MeshTypeCube, Texture: TextureTypeWater, Transform: translation(3, 0, 0)},
	}
	batches := append(GroupIntoBatches(objects), Batch{Mesh: MeshTypeSphere, Texture: TextureTypeBlue})
	descriptors := EmitIndirectDescriptors(batches, NewMeshRegistry().Offsets())

	lists := GroupDescriptorsByTexture(batches, descriptors)

	require.Len(t, lists, 2)
	assert.Equal(t, TextureTypeWater, lists[0].Texture)
	assert.Equal(t, []IndirectDrawDescriptor{descriptors[1]}, lists[0].Descriptors)
	assert.Equal(t, TextureTypeGrass, lists[1].Texture)
	assert.Equal(t, []IndirectDrawDescriptor{descriptors[0], descriptors[2]}, lists[1].Descriptors)
	assert.Equal(t, uint32(3), lists[1].Descriptors[1].FirstInstance)

	assert.Panics(t, func() { GroupDescriptorsByTexture(batches, descriptors[:1]) })
}

func TestVertexAndIndexBytes(t *testing.T) {
	vb := VerticesToBytes([]Vertex{{Position: [4]float32{1, 0, 0, 1}, TexCoord: [2]float32{0.5, 0}}})
	require.Len(t, vb, VertexSize)
	assert.Equal(t, []byte{0, 0, 0x80, 0x3f}, vb[0:4])
	assert.Equal(t, []byte{0, 0, 0, 0x3f}, vb[16:20])

	ib := IndicesToBytes([]uint16{1, 2, 3})
	assert.Equal(t, []byte{1, 0, 2, 0, 3, 0, 0, 0}, ib)
	assert.Len(t, IndicesToBytes([]uint16{1, 2}), 4)
}
