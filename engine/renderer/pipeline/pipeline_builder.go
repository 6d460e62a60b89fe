package pipeline

import (
	"github.com/Carmen-Shannon/oxy-examples/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// PipelineBuilderOption configures a pipeline during NewPipeline.
type PipelineBuilderOption func(*pipeline)

// WithShaderFile loads the vertex and fragment stages from one WGSL file that declares
// both a @vertex and a @fragment entry point. The stages are labeled after the
// pipeline key.
//
// Parameters:
//   - path: the WGSL file path
//
// Returns:
//   - PipelineBuilderOption: option function to apply
func WithShaderFile(path string) PipelineBuilderOption {
	return func(p *pipeline) {
		p.vertexShader = shader.NewShader(p.pipelineKey+"_vs", shader.ShaderTypeVertex, path)
		p.fragmentShader = shader.NewShader(p.pipelineKey+"_fs", shader.ShaderTypeFragment, path)
	}
}

// WithShaderSource is WithShaderFile for WGSL held in memory, such as embedded assets.
//
// Parameters:
//   - source: the WGSL source
//
// Returns:
//   - PipelineBuilderOption: option function to apply
func WithShaderSource(source string) PipelineBuilderOption {
	return func(p *pipeline) {
		p.vertexShader = shader.NewShaderFromSource(p.pipelineKey+"_vs", shader.ShaderTypeVertex, source)
		p.fragmentShader = shader.NewShaderFromSource(p.pipelineKey+"_fs", shader.ShaderTypeFragment, source)
	}
}

// WithDepthTestEnabled toggles the less-than depth comparison. Disabled pipelines
// always pass the depth test.
func WithDepthTestEnabled(enabled bool) PipelineBuilderOption {
	return func(p *pipeline) {
		p.depthTestEnabled = enabled
	}
}

// WithDepthWriteEnabled toggles writes to the depth attachment.
func WithDepthWriteEnabled(enabled bool) PipelineBuilderOption {
	return func(p *pipeline) {
		p.depthWriteEnabled = enabled
	}
}

// WithCullMode sets which faces are discarded. Defaults to wgpu.CullModeNone.
func WithCullMode(mode wgpu.CullMode) PipelineBuilderOption {
	return func(p *pipeline) {
		p.cullMode = mode
	}
}

// WithTopology sets the primitive topology. Defaults to triangle lists.
func WithTopology(topology wgpu.PrimitiveTopology) PipelineBuilderOption {
	return func(p *pipeline) {
		p.topology = topology
	}
}

// WithFrontFace sets the winding treated as front facing. Defaults to CCW.
func WithFrontFace(frontFace wgpu.FrontFace) PipelineBuilderOption {
	return func(p *pipeline) {
		p.frontFace = frontFace
	}
}

// WithWriteMask sets the color channels written. Defaults to all.
func WithWriteMask(mask wgpu.ColorWriteMask) PipelineBuilderOption {
	return func(p *pipeline) {
		p.writeMask = mask
	}
}

// WithBlendState sets the color target blend state; nil replaces the target.
//
// Parameters:
//   - state: the blend state, e.g. DefaultBlendState()
//
// Returns:
//   - PipelineBuilderOption: option function to apply
func WithBlendState(state *wgpu.BlendState) PipelineBuilderOption {
	return func(p *pipeline) {
		p.blendState = state
	}
}

// WithTargetFormat marks the pipeline as drawing into single-sampled offscreen targets
// of format instead of the window surface. Offscreen pipelines can only be used inside
// passes opened on a RenderTarget.
//
// Parameters:
//   - format: the color format of the target, normally renderer.RenderTargetFormat
//
// Returns:
//   - PipelineBuilderOption: option function to apply
func WithTargetFormat(format wgpu.TextureFormat) PipelineBuilderOption {
	return func(p *pipeline) {
		p.targetFormat = format
	}
}
