package shapes

import (
	"fmt"

	"github.com/chewxy/math32"
)

const (
	// MaxVertices is the largest vertex count addressable by 16-bit indices.
	MaxVertices = 1 << 16

	DefaultSegments = 20
	DefaultRings    = 20
)

type generatorConfig struct {
	segments int
	rings    int
}

// GenerateMesh builds the geometry of the given mesh type. All meshes are centred
// on the origin, span [-1, 1] on every axis and use Z as their long axis. Faces
// wind counter-clockwise when seen from outside.
//
// Tessellation produces:
//   - cube: 8 shared corners, 36 indices
//   - cylinder(n): 2n vertices, 12n-12 indices (n side quads plus two n-gon caps)
//   - sphere(u, v): u(v-1)+2 vertices, 6u(v-1) indices
//
// A malformed resolution or an unknown mesh type is a programming error and panics.
//
// Parameters:
//   - t: the mesh type to generate
//   - options: optional GeneratorOption values controlling tessellation
//
// Returns:
//   - Mesh: the generated vertices and indices
func GenerateMesh(t MeshType, options ...GeneratorOption) Mesh {
	cfg := generatorConfig{segments: DefaultSegments, rings: DefaultRings}
	for _, opt := range options {
		opt(&cfg)
	}

	if n := vertexCount(t, cfg); n > MaxVertices {
		panic(fmt.Sprintf("shapes: %s has %d vertices, more than 16-bit indices can address", t, n))
	}

	var m Mesh
	switch t {
	case MeshTypeCube:
		m = generateCube()
	case MeshTypeCylinder:
		if cfg.segments < 3 {
			panic(fmt.Sprintf("shapes: cylinder needs at least 3 segments, got %d", cfg.segments))
		}
		m = generateCylinder(cfg.segments)
	case MeshTypeSphere:
		if cfg.segments < 3 || cfg.rings < 2 {
			panic(fmt.Sprintf("shapes: sphere needs at least 3 segments and 2 rings, got %d and %d", cfg.segments, cfg.rings))
		}
		m = generateSphere(cfg.segments, cfg.rings)
	default:
		panic(fmt.Sprintf("shapes: unknown mesh type %d", uint8(t)))
	}

	m.Type = t
	return m
}

// VertexCount returns how many vertices GenerateMesh produces for t without building
// the mesh, so tessellation read from files can be checked against MaxVertices first.
// Unknown types and resolutions GenerateMesh would reject count as zero.
//
// Parameters:
//   - t: the mesh type
//   - options: the GeneratorOption values GenerateMesh would receive
//
// Returns:
//   - int: the vertex count
func VertexCount(t MeshType, options ...GeneratorOption) int {
	cfg := generatorConfig{segments: DefaultSegments, rings: DefaultRings}
	for _, opt := range options {
		opt(&cfg)
	}
	return vertexCount(t, cfg)
}

func vertexCount(t MeshType, cfg generatorConfig) int {
	switch t {
	case MeshTypeCube:
		return 8
	case MeshTypeCylinder:
		if cfg.segments < 3 {
			return 0
		}
		return 2 * cfg.segments
	case MeshTypeSphere:
		if cfg.segments < 3 || cfg.rings < 2 {
			return 0
		}
		return cfg.segments*(cfg.rings-1) + 2
	}
	return 0
}

// ValidateMesh checks that every index of the mesh references one of its vertices.
//
// Parameters:
//   - m: the mesh to validate
//
// Returns:
//   - error: error naming the first out-of-range index, or nil
func ValidateMesh(m Mesh) error {
	for i, idx := range m.Indices {
		if int(idx) >= len(m.Vertices) {
			return fmt.Errorf("%s index %d is %d, vertex count is %d", m.Type, i, idx, len(m.Vertices))
		}
	}
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("%s has %d indices, not a triangle list", m.Type, len(m.Indices))
	}
	return nil
}

// MapRange linearly maps value from the interval from onto the interval to.
//
// Parameters:
//   - value: the value to map, must lie within from
//   - from: source interval, from[0] < from[1]
//   - to: destination interval, to[0] < to[1]
//
// Returns:
//   - float32: the mapped value
//   - error: error if either interval is empty or value lies outside from
func MapRange(value float32, from, to [2]float32) (float32, error) {
	if from[1] <= from[0] || to[1] <= to[0] {
		return 0, fmt.Errorf("invalid ranges %v -> %v", from, to)
	}
	if value < from[0] || value > from[1] {
		return 0, fmt.Errorf("value %g outside range %v", value, from)
	}
	t := (value - from[0]) / (from[1] - from[0])
	return to[0] + t*(to[1]-to[0]), nil
}

func mustMapRange(value float32, from, to [2]float32) float32 {
	v, err := MapRange(value, from, to)
	if err != nil {
		panic("shapes: " + err.Error())
	}
	return v
}

// quad appends the two triangles (a, b, c) and (c, d, a).
func quad(indices []uint16, a, b, c, d int) []uint16 {
	return append(indices, uint16(a), uint16(b), uint16(c), uint16(c), uint16(d), uint16(a))
}

func generateCube() Mesh {
	corners := [8][3]float32{
		{-1, 1, -1}, {1, 1, -1}, {-1, -1, -1}, {1, -1, -1},
		{-1, 1, 1}, {1, 1, 1}, {-1, -1, 1}, {1, -1, 1},
	}
	vertices := make([]Vertex, len(corners))
	for i, c := range corners {
		vertices[i] = Vertex{
			Position: [4]float32{c[0], c[1], c[2], 1},
			TexCoord: [2]float32{(c[0] + 1) / 2, (1 - c[1]) / 2},
		}
	}
	indices := []uint16{
		2, 0, 1, 1, 3, 2,
		6, 7, 5, 5, 4, 6,
		0, 4, 5, 5, 1, 0,
		2, 3, 7, 7, 6, 2,
		3, 1, 5, 5, 7, 3,
		2, 6, 4, 4, 0, 2,
	}
	return Mesh{Vertices: vertices, Indices: indices}
}

// generateCylinder builds a closed cylinder from two rings of n shared vertices.
// Ring vertices are shared between the side and the caps, so the caps are
// triangle fans anchored on the first ring vertex.
func generateCylinder(n int) Mesh {
	vertices := make([]Vertex, 0, 2*n)
	for _, z := range [2]float32{-1, 1} {
		for j := 0; j < n; j++ {
			a := 2 * math32.Pi * float32(j) / float32(n)
			vertices = append(vertices, Vertex{
				Position: [4]float32{math32.Cos(a), math32.Sin(a), z, 1},
				TexCoord: [2]float32{float32(j) / float32(n), (1 - z) / 2},
			})
		}
	}

	bottom := func(j int) int { return j % n }
	top := func(j int) int { return n + j%n }

	indices := make([]uint16, 0, 12*n-12)
	for j := 0; j < n; j++ {
		indices = quad(indices, top(j), bottom(j), bottom(j+1), top(j+1))
	}
	for k := 1; k < n-1; k++ {
		indices = append(indices, uint16(top(0)), uint16(top(k)), uint16(top(k+1)))
	}
	for k := 1; k < n-1; k++ {
		indices = append(indices, uint16(bottom(0)), uint16(bottom(k+1)), uint16(bottom(k)))
	}
	return Mesh{Vertices: vertices, Indices: indices}
}

// generateSphere builds a UV sphere with u sectors and v stacks. The poles are
// single vertices (first and last); the v-1 rings between them hold u vertices each.
func generateSphere(u, v int) Mesh {
	vertices := make([]Vertex, 0, u*(v-1)+2)
	vertices = append(vertices, Vertex{Position: [4]float32{0, 0, 1, 1}, TexCoord: [2]float32{0.5, 0}})
	for i := 1; i < v; i++ {
		theta := mustMapRange(float32(i), [2]float32{0, float32(v)}, [2]float32{0, math32.Pi})
		r, z := math32.Sin(theta), math32.Cos(theta)
		for j := 0; j < u; j++ {
			phi := mustMapRange(float32(j), [2]float32{0, float32(u)}, [2]float32{-math32.Pi, math32.Pi})
			vertices = append(vertices, Vertex{
				Position: [4]float32{r * math32.Cos(phi), r * math32.Sin(phi), z, 1},
				TexCoord: [2]float32{float32(j) / float32(u), float32(i) / float32(v)},
			})
		}
	}
	south := len(vertices)
	vertices = append(vertices, Vertex{Position: [4]float32{0, 0, -1, 1}, TexCoord: [2]float32{0.5, 1}})

	ring := func(i, j int) int { return 1 + (i-1)*u + j%u }

	indices := make([]uint16, 0, 6*u*(v-1))
	for j := 0; j < u; j++ {
		indices = append(indices, 0, uint16(ring(1, j)), uint16(ring(1, j+1)))
	}
	for i := 1; i < v-1; i++ {
		for j := 0; j < u; j++ {
			indices = quad(indices, ring(i, j), ring(i+1, j), ring(i+1, j+1), ring(i, j+1))
		}
	}
	for j := 0; j < u; j++ {
		indices = append(indices, uint16(south), uint16(ring(v-1, j+1)), uint16(ring(v-1, j)))
	}
	return Mesh{Vertices: vertices, Indices: indices}
}
