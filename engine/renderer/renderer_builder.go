package renderer

// RendererBuilderOption configures a renderer during NewRenderer.
type RendererBuilderOption func(*renderer)

// WithPresentMode sets the surface present mode. Defaults to PresentModeVSync.
//
// Parameters:
//   - mode: PresentModeVSync or PresentModeUncapped
//
// Returns:
//   - RendererBuilderOption: option function to apply
func WithPresentMode(mode PresentMode) RendererBuilderOption {
	return func(r *renderer) {
		r.presentMode = mode
	}
}

// WithMSAA sets the surface sample count. Offscreen targets stay single-sampled
// whatever the value.
func WithMSAA(count MSAASampleCount) RendererBuilderOption {
	return func(r *renderer) {
		r.msaa = count
	}
}

// WithForceSoftwareRenderer requests the fallback adapter, e.g. lavapipe on machines
// without a usable GPU.
func WithForceSoftwareRenderer(force bool) RendererBuilderOption {
	return func(r *renderer) {
		r.forceFallbackAdapter = force
	}
}

// WithIndirectFirstInstance controls whether the device asks for the
// indirect-first-instance feature. Turning it off forces the direct-draw fallback
// for batched geometry even on adapters that offer the feature.
//
// Parameters:
//   - enabled: request the feature when available (default true)
//
// Returns:
//   - RendererBuilderOption: option function to apply
func WithIndirectFirstInstance(enabled bool) RendererBuilderOption {
	return func(r *renderer) {
		r.indirectFirstInstance = enabled
	}
}
