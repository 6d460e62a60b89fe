package renderer

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// RenderTargetFormat is the color format of offscreen render targets.
const RenderTargetFormat = wgpu.TextureFormatRGBA8Unorm

// renderTarget is the implementation of the RenderTarget interface.
type renderTarget struct {
	label         string
	width, height int

	colorTexture *wgpu.Texture
	colorView    *wgpu.TextureView
	depthTexture *wgpu.Texture
	depthView    *wgpu.TextureView
}

// RenderTarget is an offscreen, single-sampled color texture with its own depth buffer.
// Passes begun on a RenderTarget can be sampled later through ColorView.
type RenderTarget interface {
	// Label returns the debug label of the target.
	Label() string

	// Size returns the width and height of the target in pixels.
	//
	// Returns:
	//   - int: the width
	//   - int: the height
	Size() (int, int)

	// Format returns the color format of the target.
	Format() wgpu.TextureFormat

	// ColorView returns the view of the color texture, usable both as attachment and as a sampled texture.
	ColorView() *wgpu.TextureView

	// DepthView returns the view of the depth texture.
	DepthView() *wgpu.TextureView

	// Release frees the textures of the target.
	Release()
}

var _ RenderTarget = &renderTarget{}

func (t *renderTarget) Label() string {
	return t.label
}

func (t *renderTarget) Size() (int, int) {
	return t.width, t.height
}

func (t *renderTarget) Format() wgpu.TextureFormat {
	return RenderTargetFormat
}

func (t *renderTarget) ColorView() *wgpu.TextureView {
	return t.colorView
}

func (t *renderTarget) DepthView() *wgpu.TextureView {
	return t.depthView
}

func (t *renderTarget) Release() {
	if t.colorView != nil {
		t.colorView.Release()
		t.colorView = nil
	}
	if t.colorTexture != nil {
		t.colorTexture.Release()
		t.colorTexture = nil
	}
	if t.depthView != nil {
		t.depthView.Release()
		t.depthView = nil
	}
	if t.depthTexture != nil {
		t.depthTexture.Release()
		t.depthTexture = nil
	}
}
