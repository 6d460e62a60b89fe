package postprocess

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-examples/common"
	"github.com/Carmen-Shannon/oxy-examples/engine/renderer"
	"github.com/Carmen-Shannon/oxy-examples/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-examples/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
)

// EffectType identifies the kind of a post-processing effect.
type EffectType uint8

const (
	EffectTint EffectType = iota
	EffectContour
	EffectFinalSample
)

func (t EffectType) String() string {
	switch t {
	case EffectTint:
		return "tint"
	case EffectContour:
		return "contour"
	case EffectFinalSample:
		return "final_sample"
	default:
		return fmt.Sprintf("effect(%d)", uint8(t))
	}
}

// Bindings shared by every effect shader in group 0.
const (
	bindingInput   = 0
	bindingSampler = 1
	bindingParams  = 2
)

// Effect is one full-screen pass that reads the previous image and writes a new one.
type Effect interface {
	// Type returns the kind of the effect.
	Type() EffectType

	// Init prepares the effect to read from input. It registers the effect pipelines on
	// first use and may be called again after the input has been recreated.
	//
	// Parameters:
	//   - r: the renderer owning the GPU device
	//   - input: the render target sampled by the effect
	//
	// Returns:
	//   - error: an error if a pipeline, buffer or bind group could not be created
	Init(r renderer.Renderer, input renderer.RenderTarget) error

	// Resolve encodes the effect pass into the current frame.
	//
	// Parameters:
	//   - r: the renderer the effect was initialized with
	//   - output: the target to write, or nil for the window surface
	//
	// Returns:
	//   - error: an error if the effect is not initialized or the pass could not be encoded
	Resolve(r renderer.Renderer, output renderer.RenderTarget) error

	// Release frees the GPU resources of the effect.
	Release()
}

// effect is the shared implementation behind every EffectType. The variants differ only
// in their shader and the parameters uniform.
type effect struct {
	kind   EffectType
	source string
	// params returns the uniform contents for the given input, or nil when the shader has none.
	params func(input renderer.RenderTarget) []byte

	quad     bind_group_provider.BindGroupProvider
	provider bind_group_provider.BindGroupProvider
	sampled  bool
}

var _ Effect = &effect{}

func (e *effect) Type() EffectType {
	return e.kind
}

// pipelineKey returns the key of the surface or offscreen variant of the effect pipeline.
// Both variants are shared by every effect of the same type.
func (e *effect) pipelineKey(offscreen bool) string {
	if offscreen {
		return "postprocess_" + e.kind.String() + "_offscreen"
	}
	return "postprocess_" + e.kind.String() + "_surface"
}

func (e *effect) pipelines() []pipeline.Pipeline {
	opts := []pipeline.PipelineBuilderOption{
		pipeline.WithShaderSource(e.source),
		pipeline.WithDepthTestEnabled(false),
		pipeline.WithDepthWriteEnabled(false),
		pipeline.WithCullMode(wgpu.CullModeNone),
	}
	return []pipeline.Pipeline{
		pipeline.NewPipeline(e.pipelineKey(false), opts...),
		pipeline.NewPipeline(e.pipelineKey(true), append(opts, pipeline.WithTargetFormat(renderer.RenderTargetFormat))...),
	}
}

func (e *effect) Init(r renderer.Renderer, input renderer.RenderTarget) error {
	if input == nil {
		return fmt.Errorf("%s: no input target", e.kind)
	}
	if err := r.RegisterPipelines(e.pipelines()...); err != nil {
		return fmt.Errorf("%s: %w", e.kind, err)
	}

	if e.quad == nil {
		quad := bind_group_provider.NewBindGroupProvider(e.kind.String() + " quad")
		vertices := FullscreenQuad()
		if err := r.InitMeshBuffers(quad, QuadBytes(vertices), nil, len(vertices), 0, wgpu.IndexFormatUint16); err != nil {
			return fmt.Errorf("%s quad: %w", e.kind, err)
		}
		e.quad = quad
	}
	if e.provider == nil {
		e.provider = bind_group_provider.NewBindGroupProvider(e.kind.String())
	}
	if !e.sampled {
		if err := r.InitSampler(e.provider, bindingSampler, common.SamplerStagingData{}); err != nil {
			return fmt.Errorf("%s sampler: %w", e.kind, err)
		}
		e.sampled = true
	}

	e.provider.SetTexture(bindingInput, nil, input.ColorView())
	if err := r.InitBindGroup(e.provider, e.pipelineKey(true)); err != nil {
		return fmt.Errorf("%s bind group: %w", e.kind, err)
	}

	if e.params != nil {
		r.WriteBuffers([]bind_group_provider.BufferWrite{
			bind_group_provider.Write(e.provider, bindingParams, e.params(input)),
		})
	}
	return nil
}

func (e *effect) Resolve(r renderer.Renderer, output renderer.RenderTarget) error {
	if e.provider == nil || e.provider.BindGroup() == nil {
		return fmt.Errorf("%s: not initialized", e.kind)
	}
	if err := r.BeginPass(output, wgpu.Color{A: 1}); err != nil {
		return fmt.Errorf("%s: %w", e.kind, err)
	}
	defer r.EndPass()

	if err := r.DrawCall(e.pipelineKey(output != nil), e.quad, 1, []bind_group_provider.BindGroupProvider{e.provider}); err != nil {
		return fmt.Errorf("%s: %w", e.kind, err)
	}
	return nil
}

func (e *effect) Release() {
	if e.provider != nil {
		e.provider.Release()
		e.provider = nil
		e.sampled = false
	}
	if e.quad != nil {
		e.quad.Release()
		e.quad = nil
	}
}
