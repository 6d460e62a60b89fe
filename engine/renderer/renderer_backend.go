package renderer

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// RendererBackendType selects the GPU API behind a Renderer. WebGPU is the only one.
type RendererBackendType int

const (
	BackendTypeWGPU RendererBackendType = iota
)

// PresentMode selects how frames reach the display.
type PresentMode int

const (
	// PresentModeVSync presents on vertical blank (FIFO). It is the default.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents immediately and may tear. Useful when profiling
	// draw throughput.
	PresentModeUncapped
)

// MSAASampleCount is the sample count of the window surface's color and depth
// attachments. WebGPU guarantees 1 and 4.
type MSAASampleCount uint32

const (
	MSAAOff MSAASampleCount = 1
	MSAA4x  MSAASampleCount = 4
)

func presentModeToWGPU(mode PresentMode) wgpu.PresentMode {
	if mode == PresentModeVSync {
		return wgpu.PresentModeFifo
	}
	return wgpu.PresentModeImmediate
}

// RendererBackend is the backend a Renderer delegates to.
type RendererBackend interface {
	wgpuRendererBackend
}

// Surface is what the Renderer needs from a window: a surface descriptor and its size
// in pixels.
type Surface interface {
	SurfaceDescriptor() *wgpu.SurfaceDescriptor
	Width() int
	Height() int
}
