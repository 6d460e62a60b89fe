package scene

import (
	"github.com/Carmen-Shannon/oxy-examples/engine/camera"
)

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithActive sets whether the scene is active for rendering.
//
// Parameters:
//   - active: whether the scene is active
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithActive(active bool) SceneBuilderOption {
	return func(s *scene) {
		s.active = active
	}
}

// WithCamera attaches a camera whose aspect ratio follows the surface size.
//
// Parameters:
//   - cam: the scene camera
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithCamera(cam camera.Camera) SceneBuilderOption {
	return func(s *scene) {
		s.cam = cam
	}
}

// WithDrawFunc sets the function that encodes the scene's passes each frame.
//
// Parameters:
//   - fn: the draw function
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithDrawFunc(fn DrawFunc) SceneBuilderOption {
	return func(s *scene) {
		s.drawFunc = fn
	}
}

// WithUpdateFunc sets the function called on every engine tick.
func WithUpdateFunc(fn UpdateFunc) SceneBuilderOption {
	return func(s *scene) {
		s.updateFunc = fn
	}
}

// WithResizeFunc sets the function called after the surface is resized.
func WithResizeFunc(fn ResizeFunc) SceneBuilderOption {
	return func(s *scene) {
		s.resizeFunc = fn
	}
}
