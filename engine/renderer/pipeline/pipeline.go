package pipeline

import (
	"github.com/Carmen-Shannon/oxy-examples/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// pipeline is the implementation of the Pipeline interface.
// It holds the render state used to build the GPU pipeline and, once registered,
// the GPU pipeline and bind group layouts themselves.
type pipeline struct {
	pipelineKey string

	vertexShader, fragmentShader shader.Shader

	renderPipeline   *wgpu.RenderPipeline
	bindGroupLayouts map[int]*wgpu.BindGroupLayout
	layoutDescs      map[int]wgpu.BindGroupLayoutDescriptor

	depthTestEnabled  bool
	depthWriteEnabled bool
	cullMode          wgpu.CullMode
	topology          wgpu.PrimitiveTopology
	frontFace         wgpu.FrontFace
	writeMask         wgpu.ColorWriteMask
	blendState        *wgpu.BlendState
	targetFormat      wgpu.TextureFormat
}

// Pipeline describes a render pipeline: its vertex and fragment shaders and the
// fixed-function state used when the renderer builds it.
type Pipeline interface {
	// PipelineKey returns the unique key associated with this pipeline, used for caching and lookups.
	//
	// Returns:
	//   - string: the unique key for this pipeline
	PipelineKey() string

	// Shader retrieves the shader of the given stage, or nil if not set.
	//
	// Parameters:
	//   - shaderType: the stage to retrieve
	//
	// Returns:
	//   - shader.Shader: the stage's shader or nil
	Shader(shaderType shader.ShaderType) shader.Shader

	// RenderPipeline returns the GPU pipeline, or nil before registration.
	//
	// Returns:
	//   - *wgpu.RenderPipeline: the registered pipeline
	RenderPipeline() *wgpu.RenderPipeline

	// BindGroupLayout returns the GPU layout of one bind group, or nil before registration
	// or if the group is unused.
	//
	// Parameters:
	//   - group: the @group index
	//
	// Returns:
	//   - *wgpu.BindGroupLayout: the layout created at registration
	BindGroupLayout(group int) *wgpu.BindGroupLayout

	// BindGroupLayoutDescriptor returns the merged layout description of one bind group
	// across both stages.
	//
	// Parameters:
	//   - group: the @group index
	//
	// Returns:
	//   - wgpu.BindGroupLayoutDescriptor: the merged descriptor
	BindGroupLayoutDescriptor(group int) wgpu.BindGroupLayoutDescriptor

	// BindGroupLayoutDescriptors returns the merged layout of every bind group used by the pipeline.
	//
	// Returns:
	//   - map[int]wgpu.BindGroupLayoutDescriptor: descriptors keyed by group index
	BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor

	// DepthTestEnabled returns whether fragments are depth tested.
	DepthTestEnabled() bool

	// DepthWriteEnabled returns whether fragments write depth.
	DepthWriteEnabled() bool

	// CullMode returns the face culling mode.
	CullMode() wgpu.CullMode

	// Topology returns the primitive topology.
	Topology() wgpu.PrimitiveTopology

	// FrontFace returns the winding order treated as front facing.
	FrontFace() wgpu.FrontFace

	// WriteMask returns the color write mask of the color target.
	WriteMask() wgpu.ColorWriteMask

	// BlendState returns the blend state of the color target, or nil for no blending.
	BlendState() *wgpu.BlendState

	// TargetFormat returns the color target format. TextureFormatUndefined means the
	// pipeline draws to the window surface with the surface's format and MSAA setting.
	// Any other format marks an offscreen pipeline drawn single-sampled.
	TargetFormat() wgpu.TextureFormat

	// Offscreen reports whether the pipeline draws into an offscreen render target.
	Offscreen() bool

	// SetRenderPipeline stores the GPU objects created when the pipeline is registered.
	//
	// Parameters:
	//   - p: the GPU render pipeline
	//   - layouts: the GPU bind group layouts keyed by group index
	SetRenderPipeline(p *wgpu.RenderPipeline, layouts map[int]*wgpu.BindGroupLayout)

	// Release frees the GPU objects held by the pipeline.
	Release()
}

var _ Pipeline = &pipeline{}

// DefaultBlendState is standard alpha blending.
func DefaultBlendState() *wgpu.BlendState {
	return &wgpu.BlendState{
		Color: wgpu.BlendComponent{
			SrcFactor: wgpu.BlendFactorSrcAlpha,
			DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
			Operation: wgpu.BlendOperationAdd,
		},
		Alpha: wgpu.BlendComponent{
			SrcFactor: wgpu.BlendFactorOne,
			DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
			Operation: wgpu.BlendOperationAdd,
		},
	}
}

// NewPipeline is the entry point to create a new render Pipeline. The defaults are
// depth test and write on, no culling, triangle lists, counter-clockwise front faces,
// no blending and the surface as color target.
//
// Parameters:
//   - pipelineKey: the unique key for this pipeline
//   - opts: a variadic list of PipelineBuilderOption functions to configure the pipeline
//
// Returns:
//   - Pipeline: a new Pipeline instance with the specified configuration
func NewPipeline(pipelineKey string, opts ...PipelineBuilderOption) Pipeline {
	p := &pipeline{
		pipelineKey:       pipelineKey,
		depthTestEnabled:  true,
		depthWriteEnabled: true,
		cullMode:          wgpu.CullModeNone,
		topology:          wgpu.PrimitiveTopologyTriangleList,
		frontFace:         wgpu.FrontFaceCCW,
		writeMask:         wgpu.ColorWriteMaskAll,
		targetFormat:      wgpu.TextureFormatUndefined,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.layoutDescs = shader.MergeBindGroupLayouts(p.vertexShader, p.fragmentShader)
	return p
}

func (p *pipeline) PipelineKey() string {
	return p.pipelineKey
}

func (p *pipeline) Shader(shaderType shader.ShaderType) shader.Shader {
	switch shaderType {
	case shader.ShaderTypeVertex:
		return p.vertexShader
	case shader.ShaderTypeFragment:
		return p.fragmentShader
	default:
		return nil
	}
}

func (p *pipeline) RenderPipeline() *wgpu.RenderPipeline {
	return p.renderPipeline
}

func (p *pipeline) BindGroupLayout(group int) *wgpu.BindGroupLayout {
	return p.bindGroupLayouts[group]
}

func (p *pipeline) BindGroupLayoutDescriptor(group int) wgpu.BindGroupLayoutDescriptor {
	return p.layoutDescs[group]
}

func (p *pipeline) BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor {
	return p.layoutDescs
}

func (p *pipeline) DepthTestEnabled() bool {
	return p.depthTestEnabled
}

func (p *pipeline) DepthWriteEnabled() bool {
	return p.depthWriteEnabled
}

func (p *pipeline) CullMode() wgpu.CullMode {
	return p.cullMode
}

func (p *pipeline) Topology() wgpu.PrimitiveTopology {
	return p.topology
}

func (p *pipeline) FrontFace() wgpu.FrontFace {
	return p.frontFace
}

func (p *pipeline) WriteMask() wgpu.ColorWriteMask {
	return p.writeMask
}

func (p *pipeline) BlendState() *wgpu.BlendState {
	return p.blendState
}

func (p *pipeline) TargetFormat() wgpu.TextureFormat {
	return p.targetFormat
}

func (p *pipeline) Offscreen() bool {
	return p.targetFormat != wgpu.TextureFormatUndefined
}

func (p *pipeline) SetRenderPipeline(rp *wgpu.RenderPipeline, layouts map[int]*wgpu.BindGroupLayout) {
	p.renderPipeline = rp
	p.bindGroupLayouts = layouts
}

func (p *pipeline) Release() {
	for _, l := range p.bindGroupLayouts {
		if l != nil {
			l.Release()
		}
	}
	p.bindGroupLayouts = nil
	if p.renderPipeline != nil {
		p.renderPipeline.Release()
		p.renderPipeline = nil
	}
}
