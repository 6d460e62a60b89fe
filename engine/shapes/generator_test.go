package shapes

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateMeshCounts(t *testing.T) {
	tests := []struct {
		name     string
		mesh     MeshType
		options  []GeneratorOption
		vertices int
		indices  int
	}{
		{"cube", MeshTypeCube, nil, 8, 36},
		{"cylinder default", MeshTypeCylinder, nil, 40, 228},
		{"cylinder 3 segments", MeshTypeCylinder, []GeneratorOption{WithSegments(3)}, 6, 24},
		{"sphere default", MeshTypeSphere, nil, 20*19 + 2, 2280},
		{"sphere 8x4", MeshTypeSphere, []GeneratorOption{WithSegments(8), WithRings(4)}, 8*3 + 2, 6 * 8 * 3},
		{"sphere 3x2", MeshTypeSphere, []GeneratorOption{WithSegments(3), WithRings(2)}, 5, 18},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := GenerateMesh(tt.mesh, tt.options...)
			assert.Equal(t, tt.mesh, m.Type)
			assert.Len(t, m.Vertices, tt.vertices)
			assert.Len(t, m.Indices, tt.indices)
			assert.NoError(t, ValidateMesh(m))
			assert.Equal(t, tt.vertices, VertexCount(tt.mesh, tt.options...))
		})
	}
}

func TestVertexCountWithoutGenerating(t *testing.T) {
	assert.Equal(t, 1000*999+2, VertexCount(MeshTypeSphere, WithSegments(1000), WithRings(1000)))
	assert.Equal(t, 2000, VertexCount(MeshTypeCylinder, WithSegments(1000)))
	assert.Zero(t, VertexCount(MeshTypeCylinder, WithSegments(2)))
	assert.Zero(t, VertexCount(MeshTypeSphere, WithRings(1)))
	assert.Zero(t, VertexCount(MeshType(42)))
}

func TestGenerateMeshIndicesInRange(t *testing.T) {
	for _, mt := range AllMeshTypes() {
		m := GenerateMesh(mt)
		for _, idx := range m.Indices {
			require.Less(t, int(idx), len(m.Vertices), "mesh %s", mt)
		}
	}
}

func TestGenerateMeshBounds(t *testing.T) {
	for _, mt := range AllMeshTypes() {
		for _, v := range GenerateMesh(mt).Vertices {
			for _, c := range v.Position[:3] {
				assert.LessOrEqual(t, math32.Abs(c), float32(1.0001), "mesh %s", mt)
			}
			assert.Equal(t, float32(1), v.Position[3])
		}
	}
}

// Every triangle of a closed convex mesh centred on the origin must face away
// from the origin when wound counter-clockwise.
func TestGenerateMeshOutwardWinding(t *testing.T) {
	for _, mt := range AllMeshTypes() {
		m := GenerateMesh(mt)
		for i := 0; i < len(m.Indices); i += 3 {
			a := m.Vertices[m.Indices[i]].Position
			b := m.Vertices[m.Indices[i+1]].Position
			c := m.Vertices[m.Indices[i+2]].Position
			e1 := [3]float32{b[0] - a[0], b[1] - a[1], b[2] - a[2]}
			e2 := [3]float32{c[0] - a[0], c[1] - a[1], c[2] - a[2]}
			n := [3]float32{
				e1[1]*e2[2] - e1[2]*e2[1],
				e1[2]*e2[0] - e1[0]*e2[2],
				e1[0]*e2[1] - e1[1]*e2[0],
			}
			centroid := [3]float32{(a[0] + b[0] + c[0]) / 3, (a[1] + b[1] + c[1]) / 3, (a[2] + b[2] + c[2]) / 3}
			dot := n[0]*centroid[0] + n[1]*centroid[1] + n[2]*centroid[2]
			require.Greater(t, dot, float32(0), "mesh %s triangle %d faces inward", mt, i/3)
		}
	}
}

func TestGenerateMeshPanicsOnBadResolution(t *testing.T) {
	assert.Panics(t, func() { GenerateMesh(MeshTypeCylinder, WithSegments(0)) })
	assert.Panics(t, func() { GenerateMesh(MeshTypeSphere, WithRings(0)) })
	assert.Panics(t, func() { GenerateMesh(MeshTypeSphere, WithSegments(2)) })
	assert.Panics(t, func() { GenerateMesh(MeshType(42)) })
	assert.Panics(t, func() { GenerateMesh(MeshTypeSphere, WithSegments(400), WithRings(400)) })
}

func TestGenerateMeshDeterministic(t *testing.T) {
	for _, mt := range AllMeshTypes() {
		assert.Equal(t, GenerateMesh(mt), GenerateMesh(mt))
	}
}

func TestValidateMesh(t *testing.T) {
	m := Mesh{Type: MeshTypeCube, Vertices: make([]Vertex, 3), Indices: []uint16{0, 1, 3}}
	assert.Error(t, ValidateMesh(m))

	m.Indices = []uint16{0, 1}
	assert.Error(t, ValidateMesh(m))

	m.Indices = []uint16{0, 1, 2}
	assert.NoError(t, ValidateMesh(m))
}

func TestMapRange(t *testing.T) {
	v, err := MapRange(5, [2]float32{0, 10}, [2]float32{-1, 1})
	require.NoError(t, err)
	assert.InDelta(t, 0, v, 1e-6)

	v, err = MapRange(10, [2]float32{0, 10}, [2]float32{-math32.Pi, math32.Pi})
	require.NoError(t, err)
	assert.InDelta(t, math32.Pi, v, 1e-6)

	_, err = MapRange(11, [2]float32{0, 10}, [2]float32{0, 1})
	assert.Error(t, err)

	_, err = MapRange(1, [2]float32{10, 0}, [2]float32{0, 1})
	assert.Error(t, err)
}
