package renderer

import (
	"errors"
	"fmt"
	"log"
	"runtime"
	"sort"
	"sync"

	"github.com/Carmen-Shannon/oxy-examples/common"
	"github.com/Carmen-Shannon/oxy-examples/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-examples/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-examples/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// indirectRecordSize is the byte stride of one indexed indirect draw record.
const indirectRecordSize = 20

type wgpuRendererBackendImpl struct {
	mu     *sync.Mutex
	device *wgpu.Device
	queue  *wgpu.Queue

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	surface  *wgpu.Surface

	surfaceFormat        wgpu.TextureFormat
	surfaceWidth         int
	surfaceHeight        int
	msaaTexture          *wgpu.Texture
	msaaTextureView      *wgpu.TextureView
	depthTexture         *wgpu.Texture
	depthTextureView     *wgpu.TextureView
	renderPassDescriptor *wgpu.RenderPassDescriptor

	presentMode wgpu.PresentMode
	sampleCount MSAASampleCount

	indirectFirstInstance bool

	// Frame state shared by every pass encoded between BeginFrame and EndFrame.
	frameEncoder *wgpu.CommandEncoder
	frameSurface *wgpu.Texture
	frameView    *wgpu.TextureView

	// Pass state. passTarget is nil while a surface pass is open.
	framePass  *wgpu.RenderPassEncoder
	passTarget RenderTarget

	// frameDraws counts draw commands encoded since the last BeginFrame.
	frameDraws int
}

type wgpuRendererBackend interface {
	// ConfigureSurface (re)configures the window surface and its MSAA and depth attachments.
	//
	// Parameters:
	//   - width: the surface width in pixels
	//   - height: the surface height in pixels
	ConfigureSurface(width, height int)

	// SurfaceSize returns the configured surface size.
	SurfaceSize() (int, int)

	// SurfaceFormat returns the texture format of the window surface.
	SurfaceFormat() wgpu.TextureFormat

	SetPresentMode(mode PresentMode)

	// SupportsIndirectFirstInstance reports whether the device was created with the
	// indirect-first-instance feature.
	SupportsIndirectFirstInstance() bool

	// FrameDrawCount returns the number of draw commands encoded in the current or last frame.
	FrameDrawCount() int

	// RegisterRenderPipeline creates the shader modules, bind group layouts and GPU
	// pipeline for p and stores them on it.
	//
	// Parameters:
	//   - p: the pipeline to build
	//
	// Returns:
	//   - error: an error if any GPU object could not be created
	RegisterRenderPipeline(p pipeline.Pipeline) error

	InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, vertexCount, indexCount int, indexFormat wgpu.IndexFormat) error
	InitStorageBuffer(provider bind_group_provider.BindGroupProvider, binding int, data []byte, extraUsage wgpu.BufferUsage) error
	InitIndirectBuffer(provider bind_group_provider.BindGroupProvider, data []byte) error
	InitBindGroup(provider bind_group_provider.BindGroupProvider, p pipeline.Pipeline) error
	InitTextureView(provider bind_group_provider.BindGroupProvider, bindingKey int, stagingData common.TextureStagingData) error
	InitTextureArray(provider bind_group_provider.BindGroupProvider, bindingKey int, layers []common.TextureStagingData) error
	InitSampler(provider bind_group_provider.BindGroupProvider, bindingKey int, samplerStagingData common.SamplerStagingData) error
	CreateRenderTarget(label string, width, height int) (RenderTarget, error)
	WriteBuffers(writes []bind_group_provider.BufferWrite)
	WriteIndirectBuffer(provider bind_group_provider.BindGroupProvider, data []byte)

	BeginFrame() error
	BeginPass(target RenderTarget, clear wgpu.Color) error
	DrawCall(p pipeline.Pipeline, meshProvider bind_group_provider.BindGroupProvider, instanceCount uint32, bindGroups []bind_group_provider.BindGroupProvider) error
	DrawCallIndirect(p pipeline.Pipeline, meshProvider bind_group_provider.BindGroupProvider, indirectProvider bind_group_provider.BindGroupProvider, index int, bindGroups []bind_group_provider.BindGroupProvider) error
	DrawCallMultiIndirect(p pipeline.Pipeline, meshProvider bind_group_provider.BindGroupProvider, indirectProvider bind_group_provider.BindGroupProvider, drawCount int, bindGroups []bind_group_provider.BindGroupProvider) error
	DrawCallIndexedRange(p pipeline.Pipeline, meshProvider bind_group_provider.BindGroupProvider, indexCount, instanceCount, firstIndex uint32, baseVertex int32, firstInstance uint32, bindGroups []bind_group_provider.BindGroupProvider) error
	EndPass()
	EndFrame()
	Present()

	Release()
}

var _ wgpuRendererBackend = &wgpuRendererBackendImpl{}

func newWGPURendererBackend(surfaceDescriptor *wgpu.SurfaceDescriptor, forceFallbackAdapter bool, sampleCount MSAASampleCount, wantFirstInstance bool) wgpuRendererBackend {
	runtime.LockOSThread()
	w := &wgpuRendererBackendImpl{
		mu:          &sync.Mutex{},
		instance:    wgpu.CreateInstance(nil),
		presentMode: wgpu.PresentModeFifo,
		sampleCount: sampleCount,
	}
	w.surface = w.instance.CreateSurface(surfaceDescriptor)

	a, err := w.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: forceFallbackAdapter,
		CompatibleSurface:    w.surface,
	})
	if err != nil {
		panic(err)
	}
	w.adapter = a

	var features []wgpu.FeatureName
	if wantFirstInstance && a.HasFeature(wgpu.FeatureNameIndirectFirstInstance) {
		features = append(features, wgpu.FeatureNameIndirectFirstInstance)
		w.indirectFirstInstance = true
	}
	log.Printf("[Renderer] indirect-first-instance: %v", w.indirectFirstInstance)

	limits := wgpu.DefaultLimits()
	d, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label:            "Main Device",
		RequiredFeatures: features,
		RequiredLimits: &wgpu.RequiredLimits{
			Limits: limits,
		},
	})
	if err != nil {
		panic(err)
	}
	w.device = d
	w.queue = d.GetQueue()

	return w
}

func (b *wgpuRendererBackendImpl) ConfigureSurface(width, height int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if width <= 0 || height <= 0 {
		// Minimized windows report a zero size; keep the previous configuration.
		return
	}

	capabilities := b.surface.GetCapabilities(b.adapter)
	b.surfaceFormat = capabilities.Formats[0]
	b.surfaceWidth, b.surfaceHeight = width, height

	b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      b.surfaceFormat,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: b.presentMode,
		AlphaMode:   capabilities.AlphaModes[0],
	})

	b.releaseSurfaceAttachments()

	count := uint32(b.sampleCount)
	msaaEnabled := count > 1

	if msaaEnabled {
		tex, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
			Label: "MSAA Texture",
			Size: wgpu.Extent3D{
				Width:              uint32(width),
				Height:             uint32(height),
				DepthOrArrayLayers: 1,
			},
			MipLevelCount: 1,
			SampleCount:   count,
			Dimension:     wgpu.TextureDimension2D,
			Format:        b.surfaceFormat,
			Usage:         wgpu.TextureUsageRenderAttachment,
		})
		if err != nil {
			panic(err)
		}
		b.msaaTexture = tex
		b.msaaTextureView, err = tex.CreateView(nil)
		if err != nil {
			panic(err)
		}
	}

	depthTexture, depthView, err := b.createDepthTexture("Depth Texture", width, height, count)
	if err != nil {
		panic(err)
	}
	b.depthTexture, b.depthTextureView = depthTexture, depthView

	// With MSAA the swapchain view becomes the resolve target each frame, otherwise the attachment view.
	storeOp := wgpu.StoreOpStore
	if msaaEnabled {
		storeOp = wgpu.StoreOpDiscard
	}
	b.renderPassDescriptor = &wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:    b.msaaTextureView,
				LoadOp:  wgpu.LoadOpClear,
				StoreOp: storeOp,
			},
		},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            b.depthTextureView,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpDiscard,
			DepthClearValue: 1.0,
		},
	}
}

func (b *wgpuRendererBackendImpl) createDepthTexture(label string, width, height int, sampleCount uint32) (*wgpu.Texture, *wgpu.TextureView, error) {
	tex, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: label,
		Size: wgpu.Extent3D{
			Width:              uint32(width),
			Height:             uint32(height),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   sampleCount,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatDepth24Plus,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		return nil, nil, err
	}
	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return nil, nil, err
	}
	return tex, view, nil
}

func (b *wgpuRendererBackendImpl) releaseSurfaceAttachments() {
	if b.msaaTextureView != nil {
		b.msaaTextureView.Release()
		b.msaaTextureView = nil
	}
	if b.msaaTexture != nil {
		b.msaaTexture.Release()
		b.msaaTexture = nil
	}
	if b.depthTextureView != nil {
		b.depthTextureView.Release()
		b.depthTextureView = nil
	}
	if b.depthTexture != nil {
		b.depthTexture.Release()
		b.depthTexture = nil
	}
}

func (b *wgpuRendererBackendImpl) SurfaceSize() (int, int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.surfaceWidth, b.surfaceHeight
}

func (b *wgpuRendererBackendImpl) SurfaceFormat() wgpu.TextureFormat {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.surfaceFormat
}

func (b *wgpuRendererBackendImpl) SetPresentMode(mode PresentMode) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.presentMode = presentModeToWGPU(mode)
}

func (b *wgpuRendererBackendImpl) SupportsIndirectFirstInstance() bool {
	return b.indirectFirstInstance
}

func (b *wgpuRendererBackendImpl) FrameDrawCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.frameDraws
}

func (b *wgpuRendererBackendImpl) RegisterRenderPipeline(p pipeline.Pipeline) error {
	vertexShader := p.Shader(shader.ShaderTypeVertex)
	fragmentShader := p.Shader(shader.ShaderTypeFragment)
	if vertexShader == nil || fragmentShader == nil {
		return errors.New("both vertex and fragment shaders must be set to create a render pipeline")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	vs, err := b.device.CreateShaderModule(vertexShader.Module())
	if err != nil {
		return fmt.Errorf("vertex shader %s: %w", vertexShader.Key(), err)
	}
	defer vs.Release()
	fs, err := b.device.CreateShaderModule(fragmentShader.Module())
	if err != nil {
		return fmt.Errorf("fragment shader %s: %w", fragmentShader.Key(), err)
	}
	defer fs.Release()

	descs := p.BindGroupLayoutDescriptors()
	groups := make([]int, 0, len(descs))
	maxGroup := -1
	for g := range descs {
		groups = append(groups, g)
		if g > maxGroup {
			maxGroup = g
		}
	}
	sort.Ints(groups)

	// Unused group slots below maxGroup get an empty layout so the pipeline layout stays dense.
	layouts := make(map[int]*wgpu.BindGroupLayout, len(groups))
	ordered := make([]*wgpu.BindGroupLayout, maxGroup+1)
	for g := 0; g <= maxGroup; g++ {
		desc, ok := descs[g]
		if !ok {
			desc = wgpu.BindGroupLayoutDescriptor{Label: fmt.Sprintf("%s empty group %d", p.PipelineKey(), g)}
		}
		layout, layoutErr := b.device.CreateBindGroupLayout(&desc)
		if layoutErr != nil {
			return fmt.Errorf("failed to create bind group layout for group %d: %w", g, layoutErr)
		}
		layouts[g] = layout
		ordered[g] = layout
	}

	pipelineLayout, err := b.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            p.PipelineKey(),
		BindGroupLayouts: ordered,
	})
	if err != nil {
		return err
	}
	defer pipelineLayout.Release()

	targetFormat := b.surfaceFormat
	sampleCount := uint32(b.sampleCount)
	if p.Offscreen() {
		targetFormat = p.TargetFormat()
		sampleCount = 1
	}

	depthCompare := wgpu.CompareFunctionLess
	if !p.DepthTestEnabled() {
		depthCompare = wgpu.CompareFunctionAlways
	}

	created, err := b.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  p.PipelineKey() + " Render Pipeline",
		Layout: pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     vs,
			EntryPoint: vertexShader.EntryPoint(),
			Buffers:    vertexShader.VertexLayouts(),
		},
		Fragment: &wgpu.FragmentState{
			Module:     fs,
			EntryPoint: fragmentShader.EntryPoint(),
			Targets: []wgpu.ColorTargetState{
				{
					Format:    targetFormat,
					WriteMask: p.WriteMask(),
					Blend:     p.BlendState(),
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  p.Topology(),
			FrontFace: p.FrontFace(),
			CullMode:  p.CullMode(),
		},
		Multisample: wgpu.MultisampleState{
			Count: sampleCount,
			Mask:  0xFFFFFFFF,
		},
		DepthStencil: &wgpu.DepthStencilState{
			Format:            wgpu.TextureFormatDepth24Plus,
			DepthWriteEnabled: p.DepthWriteEnabled(),
			DepthCompare:      depthCompare,
			StencilFront: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
			StencilBack: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
		},
	})
	if err != nil {
		for _, l := range layouts {
			l.Release()
		}
		return err
	}

	p.SetRenderPipeline(created, layouts)
	return nil
}

func (b *wgpuRendererBackendImpl) createBufferWithData(label string, data []byte, usage wgpu.BufferUsage) (*wgpu.Buffer, error) {
	buf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label,
		Size:  uint64(len(data)),
		Usage: usage | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, err
	}
	b.queue.WriteBuffer(buf, 0, data)
	return buf, nil
}

func (b *wgpuRendererBackendImpl) InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, vertexCount, indexCount int, indexFormat wgpu.IndexFormat) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	var vertexBuffer, indexBuffer *wgpu.Buffer
	var err error
	if len(vertexData) > 0 {
		vertexBuffer, err = b.createBufferWithData(provider.Label()+" Vertex Buffer", vertexData, wgpu.BufferUsageVertex)
		if err != nil {
			return err
		}
	}
	if len(indexData) > 0 {
		indexBuffer, err = b.createBufferWithData(provider.Label()+" Index Buffer", indexData, wgpu.BufferUsageIndex)
		if err != nil {
			if vertexBuffer != nil {
				vertexBuffer.Release()
			}
			return err
		}
	}

	provider.SetMesh(vertexBuffer, vertexCount, indexBuffer, indexCount, indexFormat)
	return nil
}

func (b *wgpuRendererBackendImpl) InitStorageBuffer(provider bind_group_provider.BindGroupProvider, binding int, data []byte, extraUsage wgpu.BufferUsage) error {
	if len(data) == 0 {
		return fmt.Errorf("storage buffer %s binding %d: no data", provider.Label(), binding)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	buf, err := b.createBufferWithData(fmt.Sprintf("%s Storage Buffer %d", provider.Label(), binding), data, wgpu.BufferUsageStorage|extraUsage)
	if err != nil {
		return err
	}
	if old := provider.Buffer(binding); old != nil {
		old.Release()
	}
	provider.SetBuffer(binding, buf)
	return nil
}

func (b *wgpuRendererBackendImpl) InitIndirectBuffer(provider bind_group_provider.BindGroupProvider, data []byte) error {
	if len(data) == 0 || len(data)%indirectRecordSize != 0 {
		return fmt.Errorf("indirect buffer %s: %d bytes is not a whole number of %d-byte records", provider.Label(), len(data), indirectRecordSize)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	buf, err := b.createBufferWithData(provider.Label()+" Indirect Buffer", data, wgpu.BufferUsageIndirect)
	if err != nil {
		return err
	}
	if old := provider.IndirectBuffer(); old != nil {
		old.Release()
	}
	provider.SetIndirect(buf, len(data)/indirectRecordSize)
	return nil
}

func (b *wgpuRendererBackendImpl) InitBindGroup(provider bind_group_provider.BindGroupProvider, p pipeline.Pipeline) error {
	group := provider.Group()
	layout := p.BindGroupLayout(group)
	if layout == nil {
		return fmt.Errorf("pipeline %s has no layout for group %d; register it first", p.PipelineKey(), group)
	}
	descriptor := p.BindGroupLayoutDescriptor(group)

	b.mu.Lock()
	defer b.mu.Unlock()

	entries := make([]wgpu.BindGroupEntry, len(descriptor.Entries))
	for i, entry := range descriptor.Entries {
		binding := int(entry.Binding)

		switch {
		case entry.Texture.SampleType != wgpu.TextureSampleTypeUndefined:
			tv := provider.TextureView(binding)
			if tv == nil {
				return fmt.Errorf("%s: texture binding %d has no texture view", provider.Label(), binding)
			}
			entries[i] = wgpu.BindGroupEntry{Binding: entry.Binding, TextureView: tv}
		case entry.Sampler.Type != wgpu.SamplerBindingTypeUndefined:
			s := provider.Sampler(binding)
			if s == nil {
				return fmt.Errorf("%s: sampler binding %d has no sampler", provider.Label(), binding)
			}
			entries[i] = wgpu.BindGroupEntry{Binding: entry.Binding, Sampler: s}
		default:
			buf := provider.Buffer(binding)
			if buf == nil {
				if entry.Buffer.MinBindingSize == 0 {
					return fmt.Errorf("%s: buffer binding %d has no fixed size; initialize it first", provider.Label(), binding)
				}
				usage := wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst
				if entry.Buffer.Type != wgpu.BufferBindingTypeUniform {
					usage = wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst
				}
				var err error
				buf, err = b.device.CreateBuffer(&wgpu.BufferDescriptor{
					Label: fmt.Sprintf("%s Buffer %d", provider.Label(), binding),
					Size:  entry.Buffer.MinBindingSize,
					Usage: usage,
				})
				if err != nil {
					return err
				}
				provider.SetBuffer(binding, buf)
			}
			entries[i] = wgpu.BindGroupEntry{
				Binding: entry.Binding,
				Buffer:  buf,
				Offset:  0,
				Size:    wgpu.WholeSize,
			}
		}
	}

	bindGroup, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   provider.Label() + " Bind Group",
		Layout:  layout,
		Entries: entries,
	})
	if err != nil {
		return err
	}
	provider.SetBindGroup(bindGroup)
	return nil
}

func (b *wgpuRendererBackendImpl) writeLayer(tex *wgpu.Texture, layer uint32, data common.TextureStagingData) {
	b.queue.WriteTexture(
		&wgpu.ImageCopyTexture{
			Texture:  tex,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{Z: layer},
			Aspect:   wgpu.TextureAspectAll,
		},
		data.Pixels,
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  data.Width * 4,
			RowsPerImage: data.Height,
		},
		&wgpu.Extent3D{
			Width:              data.Width,
			Height:             data.Height,
			DepthOrArrayLayers: 1,
		},
	)
}

func (b *wgpuRendererBackendImpl) InitTextureView(provider bind_group_provider.BindGroupProvider, bindingKey int, stagingData common.TextureStagingData) error {
	if err := stagingData.Validate(); err != nil {
		return fmt.Errorf("%s texture %d: %w", provider.Label(), bindingKey, err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	tex, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:     provider.Label() + " Texture",
		Usage:     wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		Dimension: wgpu.TextureDimension2D,
		Size: wgpu.Extent3D{
			Width:              stagingData.Width,
			Height:             stagingData.Height,
			DepthOrArrayLayers: 1,
		},
		Format:        wgpu.TextureFormatRGBA8UnormSrgb,
		MipLevelCount: 1,
		SampleCount:   1,
	})
	if err != nil {
		return err
	}
	b.writeLayer(tex, 0, stagingData)

	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return err
	}
	provider.SetTexture(bindingKey, tex, view)
	return nil
}

func (b *wgpuRendererBackendImpl) InitTextureArray(provider bind_group_provider.BindGroupProvider, bindingKey int, layers []common.TextureStagingData) error {
	if len(layers) == 0 {
		return fmt.Errorf("%s texture array %d: no layers", provider.Label(), bindingKey)
	}
	width, height := layers[0].Width, layers[0].Height
	for i, l := range layers {
		if err := l.Validate(); err != nil {
			return fmt.Errorf("%s texture array %d layer %d: %w", provider.Label(), bindingKey, i, err)
		}
		if l.Width != width || l.Height != height {
			return fmt.Errorf("%s texture array %d layer %d: size %dx%d differs from %dx%d", provider.Label(), bindingKey, i, l.Width, l.Height, width, height)
		}
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	count := uint32(len(layers))
	tex, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:     provider.Label() + " Texture Array",
		Usage:     wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		Dimension: wgpu.TextureDimension2D,
		Size: wgpu.Extent3D{
			Width:              width,
			Height:             height,
			DepthOrArrayLayers: count,
		},
		Format:        wgpu.TextureFormatRGBA8UnormSrgb,
		MipLevelCount: 1,
		SampleCount:   1,
	})
	if err != nil {
		return err
	}
	for i, l := range layers {
		b.writeLayer(tex, uint32(i), l)
	}

	view, err := tex.CreateView(&wgpu.TextureViewDescriptor{
		Label:           provider.Label() + " Texture Array View",
		Format:          wgpu.TextureFormatRGBA8UnormSrgb,
		Dimension:       wgpu.TextureViewDimension2DArray,
		BaseMipLevel:    0,
		MipLevelCount:   1,
		BaseArrayLayer:  0,
		ArrayLayerCount: count,
		Aspect:          wgpu.TextureAspectAll,
	})
	if err != nil {
		tex.Release()
		return err
	}
	provider.SetTexture(bindingKey, tex, view)
	return nil
}

func (b *wgpuRendererBackendImpl) InitSampler(provider bind_group_provider.BindGroupProvider, bindingKey int, samplerStagingData common.SamplerStagingData) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	samp, err := b.device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         provider.Label() + " Sampler",
		AddressModeU:  common.Coalesce(samplerStagingData.AddressModeU, wgpu.AddressModeClampToEdge),
		AddressModeV:  common.Coalesce(samplerStagingData.AddressModeV, wgpu.AddressModeClampToEdge),
		AddressModeW:  common.Coalesce(samplerStagingData.AddressModeW, wgpu.AddressModeClampToEdge),
		MagFilter:     common.Coalesce(samplerStagingData.MagFilter, wgpu.FilterModeLinear),
		MinFilter:     common.Coalesce(samplerStagingData.MinFilter, wgpu.FilterModeLinear),
		MipmapFilter:  common.Coalesce(samplerStagingData.MipmapFilter, wgpu.MipmapFilterModeNearest),
		LodMinClamp:   common.Coalesce(samplerStagingData.LodMinClamp, 0.0),
		LodMaxClamp:   common.Coalesce(samplerStagingData.LodMaxClamp, 32.0),
		MaxAnisotropy: common.Coalesce(samplerStagingData.MaxAnisotropy, 1),
	})
	if err != nil {
		return err
	}
	provider.SetSampler(bindingKey, samp)
	return nil
}

func (b *wgpuRendererBackendImpl) CreateRenderTarget(label string, width, height int) (RenderTarget, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("render target %s: invalid size %dx%d", label, width, height)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	colorTexture, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: label + " Color",
		Size: wgpu.Extent3D{
			Width:              uint32(width),
			Height:             uint32(height),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        RenderTargetFormat,
		Usage:         wgpu.TextureUsageRenderAttachment | wgpu.TextureUsageTextureBinding,
	})
	if err != nil {
		return nil, err
	}
	colorView, err := colorTexture.CreateView(nil)
	if err != nil {
		colorTexture.Release()
		return nil, err
	}
	depthTexture, depthView, err := b.createDepthTexture(label+" Depth", width, height, 1)
	if err != nil {
		colorView.Release()
		colorTexture.Release()
		return nil, err
	}

	return &renderTarget{
		label:        label,
		width:        width,
		height:       height,
		colorTexture: colorTexture,
		colorView:    colorView,
		depthTexture: depthTexture,
		depthView:    depthView,
	}, nil
}

func (b *wgpuRendererBackendImpl) WriteBuffers(writes []bind_group_provider.BufferWrite) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, w := range writes {
		buf, err := w.Target()
		if err != nil {
			log.Printf("[Renderer] skipping buffer write: %v", err)
			continue
		}
		b.queue.WriteBuffer(buf, w.Offset, w.Data)
	}
}

func (b *wgpuRendererBackendImpl) WriteIndirectBuffer(provider bind_group_provider.BindGroupProvider, data []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if buf := provider.IndirectBuffer(); buf != nil {
		b.queue.WriteBuffer(buf, 0, data)
	}
}

func (b *wgpuRendererBackendImpl) BeginFrame() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	// Acquiring a second surface image before presenting the first is a validation error.
	if b.frameSurface != nil {
		return fmt.Errorf("previous frame surface not yet presented")
	}

	surfaceTexture, err := b.surface.GetCurrentTexture()
	if err != nil {
		return err
	}

	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		surfaceTexture.Release()
		return err
	}

	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		view.Release()
		surfaceTexture.Release()
		return err
	}

	b.frameEncoder = encoder
	b.frameSurface = surfaceTexture
	b.frameView = view
	b.frameDraws = 0
	return nil
}

func (b *wgpuRendererBackendImpl) BeginPass(target RenderTarget, clear wgpu.Color) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frameEncoder == nil {
		return errors.New("no frame in progress; call BeginFrame first")
	}
	if b.framePass != nil {
		return errors.New("a render pass is already open; call EndPass first")
	}

	var desc *wgpu.RenderPassDescriptor
	if target == nil {
		desc = b.renderPassDescriptor
		if b.sampleCount > 1 {
			desc.ColorAttachments[0].ResolveTarget = b.frameView
		} else {
			desc.ColorAttachments[0].View = b.frameView
		}
		desc.ColorAttachments[0].ClearValue = clear
	} else {
		desc = &wgpu.RenderPassDescriptor{
			Label: target.Label() + " Pass",
			ColorAttachments: []wgpu.RenderPassColorAttachment{
				{
					View:       target.ColorView(),
					LoadOp:     wgpu.LoadOpClear,
					StoreOp:    wgpu.StoreOpStore,
					ClearValue: clear,
				},
			},
			DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
				View:            target.DepthView(),
				DepthLoadOp:     wgpu.LoadOpClear,
				DepthStoreOp:    wgpu.StoreOpDiscard,
				DepthClearValue: 1.0,
			},
		}
	}

	b.framePass = b.frameEncoder.BeginRenderPass(desc)
	b.passTarget = target
	return nil
}

// bindDraw sets the pipeline, bind groups and mesh buffers shared by every draw variant.
// The caller holds b.mu.
func (b *wgpuRendererBackendImpl) bindDraw(p pipeline.Pipeline, meshProvider bind_group_provider.BindGroupProvider, bindGroups []bind_group_provider.BindGroupProvider) error {
	if b.framePass == nil {
		return errors.New("no render pass open; call BeginPass first")
	}
	if p.RenderPipeline() == nil {
		return fmt.Errorf("pipeline %s is not registered", p.PipelineKey())
	}
	if p.Offscreen() != (b.passTarget != nil) {
		return fmt.Errorf("pipeline %s does not match the open pass target", p.PipelineKey())
	}

	b.framePass.SetPipeline(p.RenderPipeline())
	for _, bg := range bindGroups {
		if bg.BindGroup() == nil {
			return fmt.Errorf("%s has no bind group; call InitBindGroup first", bg.Label())
		}
		b.framePass.SetBindGroup(uint32(bg.Group()), bg.BindGroup(), nil)
	}

	if vb := meshProvider.VertexBuffer(); vb != nil {
		b.framePass.SetVertexBuffer(0, vb, 0, wgpu.WholeSize)
	}
	if ib := meshProvider.IndexBuffer(); ib != nil {
		b.framePass.SetIndexBuffer(ib, meshProvider.IndexFormat(), 0, wgpu.WholeSize)
	}
	return nil
}

func (b *wgpuRendererBackendImpl) DrawCall(
	p pipeline.Pipeline,
	meshProvider bind_group_provider.BindGroupProvider,
	instanceCount uint32,
	bindGroups []bind_group_provider.BindGroupProvider,
) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.bindDraw(p, meshProvider, bindGroups); err != nil {
		return err
	}
	if meshProvider.IndexBuffer() != nil {
		b.framePass.DrawIndexed(uint32(meshProvider.IndexCount()), instanceCount, 0, 0, 0)
	} else {
		b.framePass.Draw(uint32(meshProvider.VertexCount()), instanceCount, 0, 0)
	}
	b.frameDraws++
	return nil
}

func (b *wgpuRendererBackendImpl) DrawCallIndirect(
	p pipeline.Pipeline,
	meshProvider bind_group_provider.BindGroupProvider,
	indirectProvider bind_group_provider.BindGroupProvider,
	index int,
	bindGroups []bind_group_provider.BindGroupProvider,
) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	buf := indirectProvider.IndirectBuffer()
	if buf == nil {
		return fmt.Errorf("%s has no indirect buffer", indirectProvider.Label())
	}
	if index < 0 || index >= indirectProvider.IndirectCount() {
		return fmt.Errorf("indirect record %d out of range [0, %d)", index, indirectProvider.IndirectCount())
	}
	if err := b.bindDraw(p, meshProvider, bindGroups); err != nil {
		return err
	}
	b.framePass.DrawIndexedIndirect(buf, uint64(index*indirectRecordSize))
	b.frameDraws++
	return nil
}

func (b *wgpuRendererBackendImpl) DrawCallMultiIndirect(
	p pipeline.Pipeline,
	meshProvider bind_group_provider.BindGroupProvider,
	indirectProvider bind_group_provider.BindGroupProvider,
	drawCount int,
	bindGroups []bind_group_provider.BindGroupProvider,
) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	buf := indirectProvider.IndirectBuffer()
	if buf == nil {
		return fmt.Errorf("%s has no indirect buffer", indirectProvider.Label())
	}
	if drawCount < 0 || drawCount > indirectProvider.IndirectCount() {
		return fmt.Errorf("draw count %d exceeds the %d records in %s", drawCount, indirectProvider.IndirectCount(), indirectProvider.Label())
	}
	if err := b.bindDraw(p, meshProvider, bindGroups); err != nil {
		return err
	}
	// Core WebGPU has no multi-draw; the records are consumed one at a time in buffer order.
	for i := 0; i < drawCount; i++ {
		b.framePass.DrawIndexedIndirect(buf, uint64(i*indirectRecordSize))
	}
	b.frameDraws += drawCount
	return nil
}

func (b *wgpuRendererBackendImpl) DrawCallIndexedRange(
	p pipeline.Pipeline,
	meshProvider bind_group_provider.BindGroupProvider,
	indexCount, instanceCount, firstIndex uint32,
	baseVertex int32,
	firstInstance uint32,
	bindGroups []bind_group_provider.BindGroupProvider,
) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if meshProvider.IndexBuffer() == nil {
		return fmt.Errorf("%s has no index buffer", meshProvider.Label())
	}
	if err := b.bindDraw(p, meshProvider, bindGroups); err != nil {
		return err
	}
	b.framePass.DrawIndexed(indexCount, instanceCount, firstIndex, baseVertex, firstInstance)
	b.frameDraws++
	return nil
}

func (b *wgpuRendererBackendImpl) EndPass() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.framePass == nil {
		return
	}
	b.framePass.End()
	b.framePass = nil
	b.passTarget = nil
}

func (b *wgpuRendererBackendImpl) EndFrame() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frameEncoder == nil {
		return
	}
	if b.framePass != nil {
		b.framePass.End()
		b.framePass = nil
		b.passTarget = nil
	}

	commandBuffer, err := b.frameEncoder.Finish(nil)
	b.frameEncoder.Release()
	b.frameEncoder = nil
	if err != nil {
		log.Printf("[Renderer] failed to finish frame: %v", err)
		b.releaseFrameSurface()
		return
	}

	b.queue.Submit(commandBuffer)
	commandBuffer.Release()
}

func (b *wgpuRendererBackendImpl) releaseFrameSurface() {
	if b.frameView != nil {
		b.frameView.Release()
		b.frameView = nil
	}
	if b.frameSurface != nil {
		b.frameSurface.Release()
		b.frameSurface = nil
	}
}

func (b *wgpuRendererBackendImpl) Present() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frameSurface == nil {
		return
	}
	b.surface.Present()
	b.releaseFrameSurface()
}

func (b *wgpuRendererBackendImpl) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.releaseFrameSurface()
	b.releaseSurfaceAttachments()
	if b.queue != nil {
		b.queue.Release()
		b.queue = nil
	}
	if b.device != nil {
		b.device.Release()
		b.device = nil
	}
	if b.adapter != nil {
		b.adapter.Release()
		b.adapter = nil
	}
	if b.surface != nil {
		b.surface.Release()
		b.surface = nil
	}
	if b.instance != nil {
		b.instance.Release()
		b.instance = nil
	}
}
