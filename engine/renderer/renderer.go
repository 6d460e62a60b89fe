package renderer

import (
	"fmt"
	"log"
	"sync"

	"github.com/Carmen-Shannon/oxy-examples/common"
	"github.com/Carmen-Shannon/oxy-examples/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-examples/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
)

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	pipelineCache map[string]pipeline.Pipeline

	backendType RendererBackendType
	backend     RendererBackend

	// Pre-creation config collected from builder options
	forceFallbackAdapter  bool
	indirectFirstInstance bool
	presentMode           PresentMode
	msaa                  MSAASampleCount
}

// Renderer defines the interface for the rendering system.
//
// The Renderer owns the GPU device and window surface, caches pipelines by key and
// turns BindGroupProviders into GPU resources. A frame is encoded as
// BeginFrame, one or more BeginPass / draw / EndPass sequences, EndFrame and Present.
type Renderer interface {
	// Pipeline retrieves the cached Pipeline associated with the given key, or nil.
	//
	// Parameters:
	//   - key: the unique identifier for the Pipeline to retrieve
	//
	// Returns:
	//   - pipeline.Pipeline: the Pipeline associated with the key, or nil if not found
	Pipeline(key string) pipeline.Pipeline

	// RegisterPipelines creates the GPU objects of each pipeline and caches it by PipelineKey.
	// Keys that are already registered are skipped.
	//
	// Parameters:
	//   - pipelines: the Pipelines to register
	//
	// Returns:
	//   - error: an error if pipeline creation fails
	RegisterPipelines(pipelines ...pipeline.Pipeline) error

	// Resize reconfigures the surface for a new window size.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	Resize(width, height int)

	// SurfaceSize returns the current surface size in pixels.
	//
	// Returns:
	//   - int: the width
	//   - int: the height
	SurfaceSize() (int, int)

	// SupportsIndirectFirstInstance reports whether indirect draws may use a non-zero firstInstance.
	// When false, DrawCallIndexedRange must be used to draw batches past the first.
	SupportsIndirectFirstInstance() bool

	// FrameDrawCount returns the number of draw commands encoded in the current or last frame.
	FrameDrawCount() int

	// InitMeshBuffers uploads vertex and index data and stores the buffers on the provider.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the created buffers on
	//   - vertexData: the raw vertex bytes
	//   - indexData: the raw index bytes, empty for non-indexed meshes
	//   - vertexCount: the number of vertices, used by non-indexed draws
	//   - indexCount: the number of indices, used by indexed draws
	//   - indexFormat: the width of one index
	//
	// Returns:
	//   - error: an error if buffer creation fails
	InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, vertexCount, indexCount int, indexFormat wgpu.IndexFormat) error

	// InitStorageBuffer creates a storage buffer holding data at a binding of the provider,
	// replacing any buffer already there.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the buffer on
	//   - binding: the @binding index
	//   - data: the initial contents, which also fix the buffer size
	//
	// Returns:
	//   - error: an error if data is empty or buffer creation fails
	InitStorageBuffer(provider bind_group_provider.BindGroupProvider, binding int, data []byte) error

	// InitIndirectBuffer creates the indirect draw buffer of a provider from encoded
	// 20-byte draw records.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the buffer on
	//   - data: the encoded records
	//
	// Returns:
	//   - error: an error if data is not a whole number of records or creation fails
	InitIndirectBuffer(provider bind_group_provider.BindGroupProvider, data []byte) error

	// InitBindGroup creates the bind group of the provider against the layout that the
	// named pipeline uses at provider.Group(). Textures, samplers and runtime-sized storage
	// buffers must be initialized beforehand; fixed-size buffers are created on demand.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the bind group on
	//   - pipelineKey: the registered pipeline whose layout is used
	//
	// Returns:
	//   - error: an error if the pipeline is unknown or a resource is missing
	InitBindGroup(provider bind_group_provider.BindGroupProvider, pipelineKey string) error

	// InitTextureView uploads one RGBA texture and stores its view at a binding.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the texture view on
	//   - bindingKey: the binding index for this texture
	//   - stagingData: the pixel data and dimensions for the texture
	//
	// Returns:
	//   - error: an error if texture creation fails
	InitTextureView(provider bind_group_provider.BindGroupProvider, bindingKey int, stagingData common.TextureStagingData) error

	// InitTextureArray uploads equally sized RGBA layers into one 2D array texture and
	// stores its texture_2d_array view at a binding. Layer i holds layers[i].
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the texture view on
	//   - bindingKey: the binding index for the array
	//   - layers: the layer images
	//
	// Returns:
	//   - error: an error if the layers are empty, mismatched or creation fails
	InitTextureArray(provider bind_group_provider.BindGroupProvider, bindingKey int, layers []common.TextureStagingData) error

	// InitSampler creates a sampler at a binding. Zero fields default to clamp-to-edge
	// addressing with linear filtering.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the created sampler on
	//   - bindingKey: the binding index for this sampler
	//   - samplerStagingData: the sampler configuration
	//
	// Returns:
	//   - error: an error if sampler creation fails
	InitSampler(provider bind_group_provider.BindGroupProvider, bindingKey int, samplerStagingData common.SamplerStagingData) error

	// CreateRenderTarget creates an offscreen RGBA8 color texture with a Depth24Plus buffer.
	//
	// Parameters:
	//   - label: debug label
	//   - width, height: the target size in pixels
	//
	// Returns:
	//   - RenderTarget: the new target
	//   - error: an error if texture creation fails
	CreateRenderTarget(label string, width, height int) (RenderTarget, error)

	// WriteBuffers writes staged buffer contents to the GPU queue.
	//
	// Parameters:
	//   - writes: the writes to perform in order
	WriteBuffers(writes []bind_group_provider.BufferWrite)

	// WriteIndirectBuffer overwrites the provider's indirect buffer from offset 0.
	WriteIndirectBuffer(provider bind_group_provider.BindGroupProvider, data []byte)

	// BeginFrame acquires the swapchain texture and creates the frame's command encoder.
	//
	// Returns:
	//   - error: an error if the swapchain texture could not be acquired
	BeginFrame() error

	// BeginPass opens a render pass that clears its color attachment to clear.
	// A nil target draws to the window surface with MSAA resolve.
	//
	// Parameters:
	//   - target: the offscreen target, or nil for the surface
	//   - clear: the clear color
	//
	// Returns:
	//   - error: an error if no frame is in progress or a pass is already open
	BeginPass(target RenderTarget, clear wgpu.Color) error

	// DrawCall encodes one instanced draw of the whole mesh, indexed when the mesh
	// has an index buffer.
	//
	// Parameters:
	//   - pipelineKey: the registered pipeline to draw with
	//   - meshProvider: the provider holding the vertex and index buffers
	//   - instanceCount: the number of instances to draw
	//   - bindGroups: providers whose bind groups are set at their Group index
	//
	// Returns:
	//   - error: an error if the pipeline is unknown or the pass is not ready
	DrawCall(pipelineKey string, meshProvider bind_group_provider.BindGroupProvider, instanceCount uint32, bindGroups []bind_group_provider.BindGroupProvider) error

	// DrawCallIndirect encodes one indexed indirect draw reading record index of the
	// indirect provider's buffer.
	DrawCallIndirect(pipelineKey string, meshProvider, indirectProvider bind_group_provider.BindGroupProvider, index int, bindGroups []bind_group_provider.BindGroupProvider) error

	// DrawCallMultiIndirect encodes drawCount indexed indirect draws, reading consecutive
	// 20-byte records from the start of the indirect provider's buffer.
	DrawCallMultiIndirect(pipelineKey string, meshProvider, indirectProvider bind_group_provider.BindGroupProvider, drawCount int, bindGroups []bind_group_provider.BindGroupProvider) error

	// DrawCallIndexedRange encodes a direct indexed draw over an index range. This is the
	// path for devices without indirect-first-instance.
	DrawCallIndexedRange(pipelineKey string, meshProvider bind_group_provider.BindGroupProvider, indexCount, instanceCount, firstIndex uint32, baseVertex int32, firstInstance uint32, bindGroups []bind_group_provider.BindGroupProvider) error

	// EndPass closes the open render pass.
	EndPass()

	// EndFrame closes any open pass, finishes the encoder and submits it.
	// Call Present afterwards to display the frame.
	EndFrame()

	// Present displays the frame submitted by EndFrame.
	Present()

	// Release frees every cached pipeline and the GPU device.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates a new Renderer drawing to the given surface. The default
// configuration is VSync presentation, 4x MSAA, a hardware adapter and the
// indirect-first-instance feature when available.
//
// Parameters:
//   - backendType: the type of rendering backend to use (e.g., WGPU)
//   - surface: the window providing the surface descriptor and size
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: a new instance of Renderer configured with the specified backend and options
func NewRenderer(backendType RendererBackendType, surface Surface, options ...RendererBuilderOption) Renderer {
	r := &renderer{
		mu:                    &sync.Mutex{},
		pipelineCache:         make(map[string]pipeline.Pipeline),
		backendType:           backendType,
		indirectFirstInstance: true,
		presentMode:           PresentModeVSync,
		msaa:                  MSAA4x,
	}

	// Options come first so adapter and device flags are known before the backend is created.
	for _, opt := range options {
		opt(r)
	}

	switch backendType {
	case BackendTypeWGPU:
		fallthrough
	default:
		r.backend = newWGPURendererBackend(surface.SurfaceDescriptor(), r.forceFallbackAdapter, r.msaa, r.indirectFirstInstance)
	}

	r.backend.SetPresentMode(r.presentMode)
	r.backend.ConfigureSurface(surface.Width(), surface.Height())
	return r
}

func (r *renderer) lookup(key string) (pipeline.Pipeline, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.pipelineCache[key]
	if !ok {
		return nil, fmt.Errorf("pipeline %q not found", key)
	}
	return p, nil
}

func (r *renderer) Pipeline(key string) pipeline.Pipeline {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pipelineCache[key]
}

func (r *renderer) RegisterPipelines(pipelines ...pipeline.Pipeline) error {
	for _, p := range pipelines {
		r.mu.Lock()
		_, exists := r.pipelineCache[p.PipelineKey()]
		r.mu.Unlock()
		if exists {
			continue
		}

		if err := r.backend.RegisterRenderPipeline(p); err != nil {
			return fmt.Errorf("failed to register pipeline %s: %w", p.PipelineKey(), err)
		}
		log.Printf("[Renderer] registered pipeline %s", p.PipelineKey())

		r.mu.Lock()
		r.pipelineCache[p.PipelineKey()] = p
		r.mu.Unlock()
	}
	return nil
}

func (r *renderer) Resize(width, height int) {
	r.backend.ConfigureSurface(width, height)
}

func (r *renderer) SurfaceSize() (int, int) {
	return r.backend.SurfaceSize()
}

func (r *renderer) SupportsIndirectFirstInstance() bool {
	return r.backend.SupportsIndirectFirstInstance()
}

func (r *renderer) FrameDrawCount() int {
	return r.backend.FrameDrawCount()
}

func (r *renderer) InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, vertexCount, indexCount int, indexFormat wgpu.IndexFormat) error {
	return r.backend.InitMeshBuffers(provider, vertexData, indexData, vertexCount, indexCount, indexFormat)
}

func (r *renderer) InitStorageBuffer(provider bind_group_provider.BindGroupProvider, binding int, data []byte) error {
	return r.backend.InitStorageBuffer(provider, binding, data, 0)
}

func (r *renderer) InitIndirectBuffer(provider bind_group_provider.BindGroupProvider, data []byte) error {
	return r.backend.InitIndirectBuffer(provider, data)
}

func (r *renderer) InitBindGroup(provider bind_group_provider.BindGroupProvider, pipelineKey string) error {
	p, err := r.lookup(pipelineKey)
	if err != nil {
		return err
	}
	return r.backend.InitBindGroup(provider, p)
}

func (r *renderer) InitTextureView(provider bind_group_provider.BindGroupProvider, bindingKey int, stagingData common.TextureStagingData) error {
	return r.backend.InitTextureView(provider, bindingKey, stagingData)
}

func (r *renderer) InitTextureArray(provider bind_group_provider.BindGroupProvider, bindingKey int, layers []common.TextureStagingData) error {
	return r.backend.InitTextureArray(provider, bindingKey, layers)
}

func (r *renderer) InitSampler(provider bind_group_provider.BindGroupProvider, bindingKey int, samplerStagingData common.SamplerStagingData) error {
	return r.backend.InitSampler(provider, bindingKey, samplerStagingData)
}

func (r *renderer) CreateRenderTarget(label string, width, height int) (RenderTarget, error) {
	return r.backend.CreateRenderTarget(label, width, height)
}

func (r *renderer) WriteBuffers(writes []bind_group_provider.BufferWrite) {
	if len(writes) == 0 {
		return
	}
	r.backend.WriteBuffers(writes)
}

func (r *renderer) WriteIndirectBuffer(provider bind_group_provider.BindGroupProvider, data []byte) {
	r.backend.WriteIndirectBuffer(provider, data)
}

func (r *renderer) BeginFrame() error {
	return r.backend.BeginFrame()
}

func (r *renderer) BeginPass(target RenderTarget, clear wgpu.Color) error {
	return r.backend.BeginPass(target, clear)
}

func (r *renderer) DrawCall(pipelineKey string, meshProvider bind_group_provider.BindGroupProvider, instanceCount uint32, bindGroups []bind_group_provider.BindGroupProvider) error {
	p, err := r.lookup(pipelineKey)
	if err != nil {
		return err
	}
	return r.backend.DrawCall(p, meshProvider, instanceCount, bindGroups)
}

func (r *renderer) DrawCallIndirect(pipelineKey string, meshProvider, indirectProvider bind_group_provider.BindGroupProvider, index int, bindGroups []bind_group_provider.BindGroupProvider) error {
	p, err := r.lookup(pipelineKey)
	if err != nil {
		return err
	}
	return r.backend.DrawCallIndirect(p, meshProvider, indirectProvider, index, bindGroups)
}

func (r *renderer) DrawCallMultiIndirect(pipelineKey string, meshProvider, indirectProvider bind_group_provider.BindGroupProvider, drawCount int, bindGroups []bind_group_provider.BindGroupProvider) error {
	p, err := r.lookup(pipelineKey)
	if err != nil {
		return err
	}
	return r.backend.DrawCallMultiIndirect(p, meshProvider, indirectProvider, drawCount, bindGroups)
}

func (r *renderer) DrawCallIndexedRange(pipelineKey string, meshProvider bind_group_provider.BindGroupProvider, indexCount, instanceCount, firstIndex uint32, baseVertex int32, firstInstance uint32, bindGroups []bind_group_provider.BindGroupProvider) error {
	p, err := r.lookup(pipelineKey)
	if err != nil {
		return err
	}
	return r.backend.DrawCallIndexedRange(p, meshProvider, indexCount, instanceCount, firstIndex, baseVertex, firstInstance, bindGroups)
}

func (r *renderer) EndPass() {
	r.backend.EndPass()
}

func (r *renderer) EndFrame() {
	r.backend.EndFrame()
}

func (r *renderer) Present() {
	r.backend.Present()
}

func (r *renderer) Release() {
	r.mu.Lock()
	for key, p := range r.pipelineCache {
		p.Release()
		delete(r.pipelineCache, key)
	}
	r.mu.Unlock()
	r.backend.Release()
}
