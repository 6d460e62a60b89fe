package postprocess

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-examples/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-examples/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floats(data []byte) []float32 {
	out := make([]float32, len(data)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return out
}

func TestEffectTypeString(t *testing.T) {
	assert.Equal(t, "tint", EffectTint.String())
	assert.Equal(t, "contour", EffectContour.String())
	assert.Equal(t, "final_sample", EffectFinalSample.String())
	assert.Equal(t, "effect(9)", EffectType(9).String())
}

func TestTintParams(t *testing.T) {
	def := NewTint([4]float32{}).(*effect)
	assert.Equal(t, EffectTint, def.Type())
	assert.Equal(t, []float32{1.0, 0.3, 0.3, 1.0}, floats(def.params(nil)))

	custom := NewTint([4]float32{0, 0.5, 1, 1}).(*effect)
	assert.Equal(t, []float32{0, 0.5, 1, 1}, floats(custom.params(nil)))
}

func TestContourParams(t *testing.T) {
	e := NewContour().(*effect)
	assert.Equal(t, EffectContour, e.Type())
	assert.Equal(t, []float32{0.25, 0.5, 0, 0}, floats(e.params(sizedTarget{w: 4, h: 2})))
}

func TestFinalSampleHasNoParams(t *testing.T) {
	e := NewFinalSample().(*effect)
	assert.Equal(t, EffectFinalSample, e.Type())
	assert.Nil(t, e.params)
}

func TestEffectPipelines(t *testing.T) {
	tests := []struct {
		effect   Effect
		bindings int
	}{
		{NewTint(DefaultTintColor), 3},
		{NewContour(), 3},
		{NewFinalSample(), 2},
	}
	for _, tt := range tests {
		e := tt.effect.(*effect)
		t.Run(e.kind.String(), func(t *testing.T) {
			ps := e.pipelines()
			require.Len(t, ps, 2)

			surface, offscreen := ps[0], ps[1]
			assert.Equal(t, "postprocess_"+e.kind.String()+"_surface", surface.PipelineKey())
			assert.Equal(t, "postprocess_"+e.kind.String()+"_offscreen", offscreen.PipelineKey())
			assert.False(t, surface.Offscreen())
			assert.True(t, offscreen.Offscreen())
			assert.Equal(t, wgpu.TextureFormatRGBA8Unorm, offscreen.TargetFormat())

			for _, p := range []pipeline.Pipeline{surface, offscreen} {
				assert.False(t, p.DepthTestEnabled())
				assert.False(t, p.DepthWriteEnabled())
				assert.Len(t, p.BindGroupLayoutDescriptor(0).Entries, tt.bindings)
			}
		})
	}
}

func TestEffectVertexLayoutMatchesQuad(t *testing.T) {
	for _, e := range []Effect{NewTint(DefaultTintColor), NewContour(), NewFinalSample()} {
		p := e.(*effect).pipelines()[0]
		vs := p.Shader(shader.ShaderTypeVertex)
		require.NotNil(t, vs)

		layouts := vs.VertexLayouts()
		require.Len(t, layouts, 1)
		assert.Equal(t, uint64(UVVertexSize), layouts[0].ArrayStride)
		assert.Equal(t, "vs_main", vs.EntryPoint())
	}
}

func TestResolveBeforeInitFails(t *testing.T) {
	err := NewTint(DefaultTintColor).Resolve(nil, nil)
	assert.ErrorContains(t, err, "not initialized")
}

func TestInitRequiresInput(t *testing.T) {
	err := NewContour().Init(nil, nil)
	assert.ErrorContains(t, err, "no input")
}
