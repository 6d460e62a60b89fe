package postprocess

import (
	"encoding/binary"
	"math"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUVFromPosition(t *testing.T) {
	tests := []struct {
		pos  [2]float32
		want [2]float32
	}{
		{[2]float32{-1, 1}, [2]float32{0, 0}},
		{[2]float32{1, 1}, [2]float32{1, 0}},
		{[2]float32{-1, -1}, [2]float32{0, 1}},
		{[2]float32{1, -1}, [2]float32{1, 1}},
		{[2]float32{0, 0}, [2]float32{0.5, 0.5}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, UVFromPosition(tt.pos), "position %v", tt.pos)
	}
}

func TestFullscreenQuad(t *testing.T) {
	quad := FullscreenQuad()
	require.Len(t, quad, 6)

	assert.Equal(t, [2]float32{-1, -1}, quad[0].Position)
	assert.Equal(t, [2]float32{1, -1}, quad[1].Position)
	assert.Equal(t, [2]float32{1, 1}, quad[2].Position)
	assert.Equal(t, quad[2], quad[3])
	assert.Equal(t, [2]float32{-1, 1}, quad[4].Position)
	assert.Equal(t, quad[0], quad[5])

	for _, v := range quad {
		assert.Equal(t, UVFromPosition(v.Position), v.UV)
	}
}

func TestQuadBytesLayout(t *testing.T) {
	assert.Equal(t, uintptr(UVVertexSize), unsafe.Sizeof(UVVertex{}))

	data := QuadBytes(FullscreenQuad())
	require.Len(t, data, 6*UVVertexSize)

	// second vertex: position (1, -1), uv (1, 1)
	read := func(off int) float32 {
		return math.Float32frombits(binary.LittleEndian.Uint32(data[off:]))
	}
	assert.Equal(t, float32(1), read(16))
	assert.Equal(t, float32(-1), read(20))
	assert.Equal(t, float32(1), read(24))
	assert.Equal(t, float32(1), read(28))
}
