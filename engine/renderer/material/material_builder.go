package material

import (
	"github.com/Carmen-Shannon/oxy-examples/common"
	"github.com/Carmen-Shannon/oxy-examples/engine/shapes"
)

// TextureSetBuilderOption is a functional option applied to a texture set during NewTextureSet.
type TextureSetBuilderOption func(*textureSet)

// WithLayerSize sets the size every layer is scaled to.
//
// Parameters:
//   - width, height: the layer size in texels
//
// Returns:
//   - TextureSetBuilderOption: a function that applies the size to a texture set
func WithLayerSize(width, height uint32) TextureSetBuilderOption {
	return func(ts *textureSet) {
		ts.width = width
		ts.height = height
	}
}

// WithTextureFile loads the layer of t from an image file. An empty path keeps the solid fallback.
//
// Parameters:
//   - t: the texture type the image belongs to
//   - path: PNG or JPEG file path
//
// Returns:
//   - TextureSetBuilderOption: a function that registers the file
func WithTextureFile(t shapes.TextureType, path string) TextureSetBuilderOption {
	return func(ts *textureSet) {
		if path == "" {
			return
		}
		ts.sources[t] = common.TextureSource{Name: t.String(), Path: path}
	}
}

// WithTextureData loads the layer of t from encoded image bytes.
//
// Parameters:
//   - t: the texture type the image belongs to
//   - data: PNG or JPEG bytes
//
// Returns:
//   - TextureSetBuilderOption: a function that registers the image
func WithTextureData(t shapes.TextureType, data []byte) TextureSetBuilderOption {
	return func(ts *textureSet) {
		ts.sources[t] = common.TextureSource{Name: t.String(), Data: data}
	}
}

// WithWorkers sets the maximum number of concurrent decode workers.
func WithWorkers(n int) TextureSetBuilderOption {
	return func(ts *textureSet) {
		if n > 0 {
			ts.workers = n
		}
	}
}
