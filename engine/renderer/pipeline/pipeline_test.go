package pipeline

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-examples/engine/renderer/shader"
)

const tintSource = `
struct VertexInput {
    @location(0) position: vec2<f32>,
    @location(1) uv: vec2<f32>,
};
struct VertexOutput {
    @builtin(position) clip: vec4<f32>,
    @location(0) uv: vec2<f32>,
};
struct Tint { color: vec4<f32>, };

@group(0) @binding(0) var source_texture: texture_2d<f32>;
@group(0) @binding(1) var source_sampler: sampler;
@group(0) @binding(2) var<uniform> tint: Tint;

@vertex
fn vs_main(in: VertexInput) -> VertexOutput {
    var out: VertexOutput;
    out.clip = vec4<f32>(in.position, 0.0, 1.0);
    out.uv = in.uv;
    return out;
}

@fragment
fn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {
    return textureSample(source_texture, source_sampler, in.uv) * tint.color;
}
`

func TestNewPipelineDefaults(t *testing.T) {
	p := NewPipeline("default")

	assert.Equal(t, "default", p.PipelineKey())
	assert.True(t, p.DepthTestEnabled())
	assert.True(t, p.DepthWriteEnabled())
	assert.Equal(t, wgpu.CullModeNone, p.CullMode())
	assert.Equal(t, wgpu.PrimitiveTopologyTriangleList, p.Topology())
	assert.Equal(t, wgpu.FrontFaceCCW, p.FrontFace())
	assert.Equal(t, wgpu.ColorWriteMaskAll, p.WriteMask())
	assert.Nil(t, p.BlendState())
	assert.False(t, p.Offscreen())
	assert.Nil(t, p.RenderPipeline())
	assert.Nil(t, p.BindGroupLayout(0))
	assert.Empty(t, p.BindGroupLayoutDescriptors())
}

func TestNewPipelineOptions(t *testing.T) {
	p := NewPipeline("tint",
		WithShaderSource(tintSource),
		WithCullMode(wgpu.CullModeBack),
		WithFrontFace(wgpu.FrontFaceCW),
		WithTopology(wgpu.PrimitiveTopologyLineList),
		WithDepthTestEnabled(false),
		WithDepthWriteEnabled(false),
		WithWriteMask(wgpu.ColorWriteMaskRed),
		WithBlendState(DefaultBlendState()),
		WithTargetFormat(wgpu.TextureFormatRGBA8Unorm),
	)

	assert.Equal(t, wgpu.CullModeBack, p.CullMode())
	assert.Equal(t, wgpu.FrontFaceCW, p.FrontFace())
	assert.Equal(t, wgpu.PrimitiveTopologyLineList, p.Topology())
	assert.False(t, p.DepthTestEnabled())
	assert.False(t, p.DepthWriteEnabled())
	assert.Equal(t, wgpu.ColorWriteMaskRed, p.WriteMask())
	assert.Equal(t, wgpu.BlendFactorSrcAlpha, p.BlendState().Color.SrcFactor)
	assert.True(t, p.Offscreen())
	assert.Equal(t, wgpu.TextureFormatRGBA8Unorm, p.TargetFormat())

	vs := p.Shader(shader.ShaderTypeVertex)
	fs := p.Shader(shader.ShaderTypeFragment)
	require.NotNil(t, vs)
	require.NotNil(t, fs)
	assert.Equal(t, "tint_vs", vs.Key())
	assert.Equal(t, "vs_main", vs.EntryPoint())
	assert.Equal(t, "fs_main", fs.EntryPoint())
}

func TestPipelineMergesStageLayouts(t *testing.T) {
	p := NewPipeline("tint", WithShaderSource(tintSource))

	desc := p.BindGroupLayoutDescriptor(0)
	require.Len(t, desc.Entries, 3)
	for _, e := range desc.Entries {
		assert.Equal(t, wgpu.ShaderStageVertex|wgpu.ShaderStageFragment, e.Visibility)
	}
	assert.Equal(t, uint64(16), desc.Entries[2].Buffer.MinBindingSize)
}
