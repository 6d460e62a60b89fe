package shapes

import (
	"encoding/binary"
	"math"
)

// VertexSize is the size in bytes of one Vertex as laid out in the vertex buffer.
const VertexSize = 24

// Vertex is the shared vertex format of every generated mesh: a homogeneous
// position followed by a texture coordinate.
type Vertex struct {
	Position [4]float32
	TexCoord [2]float32
}

// Mesh is the generated geometry of one mesh type. Indices reference Vertices
// only; they are re-based when meshes are merged.
type Mesh struct {
	Type     MeshType
	Vertices []Vertex
	Indices  []uint16
}

// IndexCount returns the number of indices in the mesh.
func (m Mesh) IndexCount() uint32 {
	return uint32(len(m.Indices))
}

// VerticesToBytes serializes vertices into the little-endian layout the vertex
// shaders expect (vec4<f32> position, vec2<f32> uv).
//
// Parameters:
//   - vertices: the vertices to serialize
//
// Returns:
//   - []byte: len(vertices) * VertexSize bytes
func VerticesToBytes(vertices []Vertex) []byte {
	out := make([]byte, len(vertices)*VertexSize)
	for i, v := range vertices {
		b := out[i*VertexSize:]
		for j, f := range v.Position {
			binary.LittleEndian.PutUint32(b[j*4:], math.Float32bits(f))
		}
		for j, f := range v.TexCoord {
			binary.LittleEndian.PutUint32(b[16+j*4:], math.Float32bits(f))
		}
	}
	return out
}

// IndicesToBytes serializes 16-bit indices little-endian. The result is padded
// with zero bytes to a multiple of four so it can be written to a GPU buffer
// directly.
//
// Parameters:
//   - indices: the indices to serialize
//
// Returns:
//   - []byte: the serialized, padded index data
func IndicesToBytes(indices []uint16) []byte {
	size := len(indices) * 2
	out := make([]byte, (size+3)&^3)
	for i, idx := range indices {
		binary.LittleEndian.PutUint16(out[i*2:], idx)
	}
	return out
}
