package postprocess

import (
	_ "embed"

	"github.com/Carmen-Shannon/oxy-examples/common"
	"github.com/Carmen-Shannon/oxy-examples/engine/renderer"
)

//go:embed assets/tint.wgsl
var tintSource string

//go:embed assets/contour.wgsl
var contourSource string

//go:embed assets/final_sample.wgsl
var finalSampleSource string

// DefaultTintColor is the reddish tone used when no tint is given.
var DefaultTintColor = [4]float32{1.0, 0.3, 0.3, 1.0}

// NewTint creates an effect multiplying every pixel by color. A zero color selects
// DefaultTintColor.
//
// Parameters:
//   - color: the RGBA tint
//
// Returns:
//   - Effect: the tint effect
func NewTint(color [4]float32) Effect {
	if color == ([4]float32{}) {
		color = DefaultTintColor
	}
	return &effect{
		kind:   EffectTint,
		source: tintSource,
		params: func(renderer.RenderTarget) []byte {
			return common.SliceToBytes(color[:])
		},
	}
}

// NewContour creates a Sobel edge detection effect. Edges are drawn white on black.
func NewContour() Effect {
	return &effect{
		kind:   EffectContour,
		source: contourSource,
		params: texelSizeParams,
	}
}

// NewFinalSample creates a plain copy of its input, used to bring the last
// intermediate image onto the window surface.
func NewFinalSample() Effect {
	return &effect{
		kind:   EffectFinalSample,
		source: finalSampleSource,
	}
}

// texelSizeParams returns the size of one texel of input in UV units, padded to a vec4.
func texelSizeParams(input renderer.RenderTarget) []byte {
	w, h := input.Size()
	texel := []float32{1 / float32(w), 1 / float32(h), 0, 0}
	return common.SliceToBytes(texel)
}
