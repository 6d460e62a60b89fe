package engine

import (
	"github.com/Carmen-Shannon/oxy-examples/engine/profiler"
	"github.com/Carmen-Shannon/oxy-examples/engine/scene"
	"github.com/Carmen-Shannon/oxy-examples/engine/window"
)

// EngineBuilderOption configures an engine during NewEngine.
type EngineBuilderOption func(*engine)

// WithProfiling turns frame statistics logging on or off.
//
// Parameters:
//   - enabled: true to log statistics once per second
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profiling.Store(enabled)
	}
}

// WithProfiler replaces the default profiler and enables profiling.
//
// Parameters:
//   - options: profiler options such as profiler.WithInterval
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiler(options ...profiler.ProfilerOption) EngineBuilderOption {
	return func(e *engine) {
		e.profiler = profiler.NewProfiler(options...)
		e.profiling.Store(true)
	}
}

// WithTickRate sets the scene update rate.
//
// Parameters:
//   - hz: updates per second (60 if <= 0)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithTickRate(hz float64) EngineBuilderOption {
	return func(e *engine) {
		e.tickInterval = hzToInterval(hz)
	}
}

// WithWindow sets the window the engine processes events for and presents to.
//
// Parameters:
//   - w: an open window
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindow(w window.Window) EngineBuilderOption {
	return func(e *engine) {
		e.window = w
	}
}

// WithScene registers a scene at a z-index.
//
// Parameters:
//   - key: the z-index (lower draws first)
//   - s: the scene
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithScene(key int, s scene.Scene) EngineBuilderOption {
	return func(e *engine) {
		e.scenes[key] = s
	}
}

// WithRenderFrameLimit caps the frame rate.
//
// Parameters:
//   - fps: maximum frames per second (0 = uncapped)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderFrameLimit(fps float64) EngineBuilderOption {
	return func(e *engine) {
		e.frameBudget = fpsToBudget(fps)
	}
}
