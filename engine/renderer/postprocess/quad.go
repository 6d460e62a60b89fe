package postprocess

import (
	"github.com/Carmen-Shannon/oxy-examples/common"
	"github.com/chewxy/math32"
)

// UVVertexSize is the byte stride of a UVVertex.
const UVVertexSize = 16

// quadOrigin is the clip-space position that maps to UV (0, 0), the top-left corner.
var quadOrigin = [2]float32{-1, 1}

// UVVertex is a clip-space position with the texture coordinate sampled there.
type UVVertex struct {
	Position [2]float32
	UV       [2]float32
}

// UVFromPosition converts a clip-space position into texture coordinates, with the
// top-left corner of the screen at (0, 0) and the bottom-right at (1, 1).
func UVFromPosition(pos [2]float32) [2]float32 {
	return [2]float32{
		math32.Abs(quadOrigin[0]-pos[0]) / 2,
		math32.Abs(quadOrigin[1]-pos[1]) / 2,
	}
}

// FullscreenQuad returns the two counter-clockwise triangles covering the screen.
func FullscreenQuad() []UVVertex {
	corners := [][2]float32{
		{-1, -1}, {1, -1}, {1, 1},
		{1, 1}, {-1, 1}, {-1, -1},
	}
	quad := make([]UVVertex, len(corners))
	for i, c := range corners {
		quad[i] = UVVertex{Position: c, UV: UVFromPosition(c)}
	}
	return quad
}

// QuadBytes returns the vertex buffer contents of the given vertices.
func QuadBytes(vertices []UVVertex) []byte {
	return common.SliceToBytes(vertices)
}
