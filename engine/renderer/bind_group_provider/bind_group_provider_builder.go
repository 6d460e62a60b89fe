package bind_group_provider

import (
	"github.com/cogentcore/webgpu/wgpu"
)

type BindGroupProviderOption func(*bindGroupProvider)

// WithGroup sets the @group slot the provider's bind group is set at.
//
// Parameters:
//   - group: the bind group index
//
// Returns:
//   - BindGroupProviderOption: a function that sets the group index
func WithGroup(group int) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.group = group
	}
}

// WithBuffer attaches an existing buffer at a binding so InitBindGroup reuses it
// instead of allocating one.
//
// Parameters:
//   - binding: the @binding index
//   - buf: the buffer to bind
//
// Returns:
//   - BindGroupProviderOption: a function that stores the buffer
func WithBuffer(binding int, buf *wgpu.Buffer) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.buffers[binding] = buf
	}
}

// WithTextureView attaches a texture view owned by someone else, such as an
// offscreen render target, at a binding.
//
// Parameters:
//   - binding: the @binding index
//   - view: the texture view to bind
//
// Returns:
//   - BindGroupProviderOption: a function that stores the texture view
func WithTextureView(binding int, view *wgpu.TextureView) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.textureViews[binding] = view
		p.borrowedViews[binding] = true
	}
}
