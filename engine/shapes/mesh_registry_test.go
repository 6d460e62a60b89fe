package shapes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeshRegistryOffsets(t *testing.T) {
	r := NewMeshRegistry()

	assert.Equal(t, AllMeshTypes(), r.Order())
	assert.Equal(t, uint32(36), r.IndexCount(MeshTypeCube))
	assert.Equal(t, uint32(228), r.IndexCount(MeshTypeCylinder))
	assert.Equal(t, uint32(2280), r.IndexCount(MeshTypeSphere))

	assert.Equal(t, uint32(0), r.IndexOffset(MeshTypeCube))
	assert.Equal(t, uint32(36), r.IndexOffset(MeshTypeCylinder))
	assert.Equal(t, uint32(264), r.IndexOffset(MeshTypeSphere))

	assert.Equal(t, OffsetTable{
		MeshTypeCube:     {FirstIndex: 0, IndexCount: 36},
		MeshTypeCylinder: {FirstIndex: 36, IndexCount: 228},
		MeshTypeSphere:   {FirstIndex: 264, IndexCount: 2280},
	}, r.Offsets())
}

func TestMeshRegistryExplicitOrder(t *testing.T) {
	r := NewMeshRegistry(WithMeshOrder(MeshTypeSphere, MeshTypeCube))

	assert.Equal(t, uint32(0), r.IndexOffset(MeshTypeSphere))
	assert.Equal(t, uint32(2280), r.IndexOffset(MeshTypeCube))
	_, ok := r.Mesh(MeshTypeCylinder)
	assert.False(t, ok)
	assert.Panics(t, func() { r.IndexOffset(MeshTypeCylinder) })
	assert.Panics(t, func() { r.IndexCount(MeshTypeCylinder) })

	merged := r.Merge()
	assert.Equal(t, []MeshType{MeshTypeSphere, MeshTypeCube}, merged.Order)
	assert.Equal(t, r.Offsets(), merged.Offsets)
}

func TestMeshRegistryOrderIsCopied(t *testing.T) {
	r := NewMeshRegistry()
	order := r.Order()
	order[0] = MeshTypeSphere
	assert.Equal(t, MeshTypeCube, r.Order()[0])
}

func TestMeshRegistryTessellation(t *testing.T) {
	r := NewMeshRegistry(
		WithTessellation(WithSegments(8), WithRings(4)),
		WithGeneratorOptions(MeshTypeCylinder, WithSegments(6)),
	)
	assert.Equal(t, uint32(12*6-12), r.IndexCount(MeshTypeCylinder))
	assert.Equal(t, uint32(6*8*3), r.IndexCount(MeshTypeSphere))
}

func TestMeshRegistryWithMesh(t *testing.T) {
	tri := Mesh{Type: MeshTypeCube, Vertices: make([]Vertex, 3), Indices: []uint16{0, 1, 2}}
	r := NewMeshRegistry(WithMesh(tri))
	assert.Equal(t, uint32(3), r.IndexCount(MeshTypeCube))
	assert.Equal(t, uint32(3), r.IndexOffset(MeshTypeCylinder))

	bad := Mesh{Type: MeshTypeCube, Vertices: make([]Vertex, 3), Indices: []uint16{0, 1, 5}}
	assert.Panics(t, func() { NewMeshRegistry(WithMesh(bad)) })
}

func TestMeshRegistryDuplicateOrderPanics(t *testing.T) {
	assert.Panics(t, func() { NewMeshRegistry(WithMeshOrder(MeshTypeCube, MeshTypeCube)) })
}

func TestMergeGeometry(t *testing.T) {
	a := GenerateMesh(MeshTypeCube)
	b := GenerateMesh(MeshTypeCylinder, WithSegments(5))
	c := GenerateMesh(MeshTypeSphere, WithSegments(6), WithRings(3))

	merged := MergeGeometry([]Mesh{a, b, c})

	assert.Len(t, merged.Vertices, len(a.Vertices)+len(b.Vertices)+len(c.Vertices))
	assert.Len(t, merged.Indices, len(a.Indices)+len(b.Indices)+len(c.Indices))
	assert.Equal(t, uint32(0), merged.Offsets[MeshTypeCube].FirstIndex)
	assert.Equal(t, a.IndexCount(), merged.Offsets[MeshTypeCylinder].FirstIndex)
	assert.Equal(t, a.IndexCount()+b.IndexCount(), merged.Offsets[MeshTypeSphere].FirstIndex)

	// Each merged range must resolve to exactly the vertices the source mesh
	// indexes on its own.
	for _, m := range []Mesh{a, b, c} {
		r := merged.Offsets[m.Type]
		require.Equal(t, m.IndexCount(), r.IndexCount)
		for i, idx := range m.Indices {
			got := merged.Vertices[merged.Indices[r.FirstIndex+uint32(i)]]
			require.Equal(t, m.Vertices[idx], got, "mesh %s index %d", m.Type, i)
		}
	}
}

func TestMergeGeometryRejectsOverflow(t *testing.T) {
	big := Mesh{Type: MeshTypeCube, Vertices: make([]Vertex, MaxVertices)}
	one := Mesh{Type: MeshTypeSphere, Vertices: make([]Vertex, 1)}

	assert.NotPanics(t, func() { MergeGeometry([]Mesh{big}) })
	assert.Panics(t, func() { MergeGeometry([]Mesh{big, one}) })
}

func TestMergeGeometryRejectsDuplicateType(t *testing.T) {
	cube := GenerateMesh(MeshTypeCube)
	assert.Panics(t, func() { MergeGeometry([]Mesh{cube, cube}) })
}

func TestOffsetTableRangePanicsOnMissingMesh(t *testing.T) {
	assert.Panics(t, func() { OffsetTable{}.Range(MeshTypeCube) })
}
