package material

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-examples/engine/shapes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, c color.RGBA) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestNewTextureSetSolidFallback(t *testing.T) {
	ts, err := NewTextureSet()
	require.NoError(t, err)

	layers := ts.Layers()
	require.Len(t, layers, len(shapes.AllTextureTypes()))
	for _, tt := range shapes.AllTextureTypes() {
		layer := layers[tt.ID()]
		assert.Equal(t, uint32(DefaultLayerSize), layer.Width)
		assert.Equal(t, uint32(DefaultLayerSize), layer.Height)
		rgba := tt.RGBA()
		assert.Equal(t, rgba[:], layer.Pixels[:4], tt.String())
		assert.NoError(t, layer.Validate())
	}
}

func TestNewTextureSetDecodesIntoSlot(t *testing.T) {
	green := color.RGBA{0, 200, 0, 255}
	ts, err := NewTextureSet(
		WithLayerSize(8, 8),
		WithWorkers(2),
		WithTextureData(shapes.TextureTypeRed, encodePNG(t, green)),
	)
	require.NoError(t, err)

	red := ts.Layer(shapes.TextureTypeRed)
	assert.Equal(t, []byte{0, 200, 0, 255}, red.Pixels[:4])
	assert.Len(t, red.Pixels, 8*8*4)

	w, h := ts.Size()
	assert.Equal(t, uint32(8), w)
	assert.Equal(t, uint32(8), h)
}

func TestNewTextureSetJoinsErrors(t *testing.T) {
	_, err := NewTextureSet(
		WithTextureData(shapes.TextureTypeBlue, []byte("not an image")),
		WithTextureFile(shapes.TextureTypeYellow, "does/not/exist.png"),
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "blue")
	assert.Contains(t, err.Error(), "yellow")
}

func TestNewTextureSetRejectsEmptySize(t *testing.T) {
	_, err := NewTextureSet(WithLayerSize(0, 8))
	assert.Error(t, err)
}

type stopCountingPool struct {
	worker.DynamicWorkerPool
	stops *int
}

func (p stopCountingPool) Stop() {
	*p.stops++
	p.DynamicWorkerPool.Stop()
}

func TestNewTextureSetStopsWorkerPool(t *testing.T) {
	stops := 0
	original := newWorkerPool
	newWorkerPool = func(maxWorkers, queueSize int, idleTimeout time.Duration) worker.DynamicWorkerPool {
		return stopCountingPool{DynamicWorkerPool: original(maxWorkers, queueSize, idleTimeout), stops: &stops}
	}
	t.Cleanup(func() { newWorkerPool = original })

	_, err := NewTextureSet()
	require.NoError(t, err)
	assert.Equal(t, 1, stops)

	_, err = NewTextureSet(WithTextureData(shapes.TextureTypeRed, []byte("not an image")))
	require.Error(t, err)
	assert.Equal(t, 2, stops)
}
