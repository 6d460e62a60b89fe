package bind_group_provider

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// bindGroupProvider is the unexported implementation of BindGroupProvider.
type bindGroupProvider struct {
	// label is a debug label prefixed to every GPU object created for this provider.
	label string
	// group is the @group slot the bind group is set at when drawing.
	group int

	// The following fields are GPU allocated resources populated by the Renderer, not by user-creation.

	bindGroup    *wgpu.BindGroup
	buffers      map[int]*wgpu.Buffer
	textures     map[int]*wgpu.Texture
	textureViews map[int]*wgpu.TextureView
	samplers     map[int]*wgpu.Sampler

	// borrowedViews marks texture views owned elsewhere, such as render target views.
	borrowedViews map[int]bool

	// The following fields are only used by mesh providers.

	vertexBuffer *wgpu.Buffer
	indexBuffer  *wgpu.Buffer
	indexFormat  wgpu.IndexFormat
	indexCount   int
	vertexCount  int

	// indirectBuffer holds back-to-back indexed indirect draw records.
	indirectBuffer *wgpu.Buffer
	indirectCount  int
}

// BindGroupProvider holds the GPU resources behind one bind group, and for mesh
// providers the vertex, index and indirect buffers of a draw. The Renderer fills
// the provider during initialization; draw calls read it back.
//
// Usage pattern:
//  1. Create a provider with a label and the @group slot it binds to
//  2. Call the Renderer's Init* methods to create buffers, textures and samplers
//  3. Call Renderer.InitBindGroup(provider, pipelineKey) to create the bind group
//  4. Update buffers with Renderer.WriteBuffers and pass the provider to draw calls
type BindGroupProvider interface {
	// Release releases every GPU resource held by this provider.
	Release()

	// Label returns the debug label for this provider.
	//
	// Returns:
	//   - string: the debug label
	Label() string

	// Group returns the @group index this provider is bound at.
	//
	// Returns:
	//   - int: the bind group slot
	Group() int

	// BindGroup returns the created bind group, or nil before InitBindGroup.
	//
	// Returns:
	//   - *wgpu.BindGroup: the bind group
	BindGroup() *wgpu.BindGroup

	// Buffer returns the buffer at a binding, or nil.
	//
	// Parameters:
	//   - binding: the @binding index
	//
	// Returns:
	//   - *wgpu.Buffer: the buffer
	Buffer(binding int) *wgpu.Buffer

	// TextureView returns the texture view at a binding, or nil.
	//
	// Parameters:
	//   - binding: the @binding index
	//
	// Returns:
	//   - *wgpu.TextureView: the texture view
	TextureView(binding int) *wgpu.TextureView

	// Sampler returns the sampler at a binding, or nil.
	//
	// Parameters:
	//   - binding: the @binding index
	//
	// Returns:
	//   - *wgpu.Sampler: the sampler
	Sampler(binding int) *wgpu.Sampler

	VertexBuffer() *wgpu.Buffer
	IndexBuffer() *wgpu.Buffer

	// IndexFormat returns the format of the index buffer. Defaults to Uint16.
	IndexFormat() wgpu.IndexFormat

	// IndexCount returns the number of indices in the index buffer, 0 for non-indexed meshes.
	IndexCount() int

	// VertexCount returns the number of vertices in the vertex buffer.
	VertexCount() int

	// IndirectBuffer returns the buffer of indirect draw records, or nil.
	IndirectBuffer() *wgpu.Buffer

	// IndirectCount returns the number of records in the indirect buffer.
	IndirectCount() int

	SetBindGroup(bg *wgpu.BindGroup)
	SetBuffer(binding int, buf *wgpu.Buffer)

	// SetTexture stores a texture and its view at a binding. Both are released with the
	// provider unless tex is nil, in which case the view is borrowed and left alone.
	//
	// Parameters:
	//   - binding: the @binding index
	//   - tex: the texture, nil if the view is owned elsewhere
	//   - view: the texture view
	SetTexture(binding int, tex *wgpu.Texture, view *wgpu.TextureView)

	SetSampler(binding int, s *wgpu.Sampler)

	// SetMesh stores the vertex and index buffers of a mesh.
	//
	// Parameters:
	//   - vertexBuffer: the vertex buffer
	//   - vertexCount: the number of vertices
	//   - indexBuffer: the index buffer, nil for non-indexed meshes
	//   - indexCount: the number of indices
	//   - format: the index format
	SetMesh(vertexBuffer *wgpu.Buffer, vertexCount int, indexBuffer *wgpu.Buffer, indexCount int, format wgpu.IndexFormat)

	// SetIndirect stores an indirect draw buffer and the number of records it holds.
	//
	// Parameters:
	//   - buf: the indirect buffer
	//   - count: the number of 20-byte records
	SetIndirect(buf *wgpu.Buffer, count int)
}

var _ BindGroupProvider = &bindGroupProvider{}

// NewBindGroupProvider creates a new BindGroupProvider bound at group 0 unless
// WithGroup says otherwise.
//
// Parameters:
//   - label: debug label used for the provider's GPU objects
//   - options: a variadic list of options to configure the provider
//
// Returns:
//   - BindGroupProvider: a new, empty provider
func NewBindGroupProvider(label string, options ...BindGroupProviderOption) BindGroupProvider {
	p := &bindGroupProvider{
		label:        label,
		buffers:      make(map[int]*wgpu.Buffer),
		textures:     make(map[int]*wgpu.Texture),
		textureViews: make(map[int]*wgpu.TextureView),
		samplers:     make(map[int]*wgpu.Sampler),
		indexFormat:  wgpu.IndexFormatUint16,

		borrowedViews: make(map[int]bool),
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

func (p *bindGroupProvider) Label() string {
	return p.label
}

func (p *bindGroupProvider) Group() int {
	return p.group
}

func (p *bindGroupProvider) BindGroup() *wgpu.BindGroup {
	return p.bindGroup
}

func (p *bindGroupProvider) Buffer(binding int) *wgpu.Buffer {
	return p.buffers[binding]
}

func (p *bindGroupProvider) TextureView(binding int) *wgpu.TextureView {
	return p.textureViews[binding]
}

func (p *bindGroupProvider) Sampler(binding int) *wgpu.Sampler {
	return p.samplers[binding]
}

func (p *bindGroupProvider) VertexBuffer() *wgpu.Buffer {
	return p.vertexBuffer
}

func (p *bindGroupProvider) IndexBuffer() *wgpu.Buffer {
	return p.indexBuffer
}

func (p *bindGroupProvider) IndexFormat() wgpu.IndexFormat {
	return p.indexFormat
}

func (p *bindGroupProvider) IndexCount() int {
	return p.indexCount
}

func (p *bindGroupProvider) VertexCount() int {
	return p.vertexCount
}

func (p *bindGroupProvider) IndirectBuffer() *wgpu.Buffer {
	return p.indirectBuffer
}

func (p *bindGroupProvider) IndirectCount() int {
	return p.indirectCount
}

func (p *bindGroupProvider) SetBindGroup(bg *wgpu.BindGroup) {
	if p.bindGroup != nil && p.bindGroup != bg {
		p.bindGroup.Release()
	}
	p.bindGroup = bg
}

func (p *bindGroupProvider) SetBuffer(binding int, buf *wgpu.Buffer) {
	p.buffers[binding] = buf
}

func (p *bindGroupProvider) SetTexture(binding int, tex *wgpu.Texture, view *wgpu.TextureView) {
	if old, ok := p.textureViews[binding]; ok && old != nil && old != view && !p.borrowedViews[binding] {
		old.Release()
	}
	if tex != nil {
		if old := p.textures[binding]; old != nil && old != tex {
			old.Release()
		}
		p.textures[binding] = tex
	}
	p.textureViews[binding] = view
	p.borrowedViews[binding] = tex == nil
}

func (p *bindGroupProvider) SetSampler(binding int, s *wgpu.Sampler) {
	p.samplers[binding] = s
}

func (p *bindGroupProvider) SetMesh(vertexBuffer *wgpu.Buffer, vertexCount int, indexBuffer *wgpu.Buffer, indexCount int, format wgpu.IndexFormat) {
	p.vertexBuffer = vertexBuffer
	p.vertexCount = vertexCount
	p.indexBuffer = indexBuffer
	p.indexCount = indexCount
	p.indexFormat = format
}

func (p *bindGroupProvider) SetIndirect(buf *wgpu.Buffer, count int) {
	p.indirectBuffer = buf
	p.indirectCount = count
}

func (p *bindGroupProvider) Release() {
	if p.bindGroup != nil {
		p.bindGroup.Release()
		p.bindGroup = nil
	}
	for i, tv := range p.textureViews {
		if tv != nil && !p.borrowedViews[i] {
			tv.Release()
		}
		delete(p.textureViews, i)
		delete(p.borrowedViews, i)
	}
	for i, tex := range p.textures {
		tex.Release()
		delete(p.textures, i)
	}
	for i, s := range p.samplers {
		if s != nil {
			s.Release()
		}
		delete(p.samplers, i)
	}
	for i, buf := range p.buffers {
		if buf != nil {
			buf.Release()
		}
		delete(p.buffers, i)
	}
	for _, buf := range []*wgpu.Buffer{p.vertexBuffer, p.indexBuffer, p.indirectBuffer} {
		if buf != nil {
			buf.Release()
		}
	}
	p.vertexBuffer, p.indexBuffer, p.indirectBuffer = nil, nil, nil
	p.vertexCount, p.indexCount, p.indirectCount = 0, 0, 0
}
