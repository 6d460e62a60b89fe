package camera

import (
	"github.com/Carmen-Shannon/oxy-examples/common"
	"github.com/Carmen-Shannon/oxy-examples/engine/renderer/bind_group_provider"
)

// CameraBuilderOption is a functional option applied to a camera during NewCamera.
type CameraBuilderOption func(*cameraImpl)

// WithEye sets the camera position.
//
// Parameters:
//   - eye: the world-space position
//
// Returns:
//   - CameraBuilderOption: a function that applies the position
func WithEye(eye [3]float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.eye = eye
	}
}

// WithTarget sets the look-at point.
//
// Parameters:
//   - target: the world-space point the camera faces
//
// Returns:
//   - CameraBuilderOption: a function that applies the target
func WithTarget(target [3]float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.target = target
	}
}

// WithUp sets the up direction used by the view matrix.
//
// Parameters:
//   - up: the up vector, e.g. {0, 0, 1} for Z-up scenes
//
// Returns:
//   - CameraBuilderOption: a function that applies the up vector
func WithUp(up [3]float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.up = up
	}
}

// WithFovDegrees sets the vertical field of view in degrees.
func WithFovDegrees(deg float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.fov = common.Radians(deg)
	}
}

func WithAspect(aspect float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		if aspect > 0 {
			c.aspect = aspect
		}
	}
}

// WithDepthRange sets the near and far clip planes.
//
// Parameters:
//   - near: distance to the near plane, > 0
//   - far: distance to the far plane, > near
//
// Returns:
//   - CameraBuilderOption: a function that applies the depth range
func WithDepthRange(near, far float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.near = near
		c.far = far
	}
}

// WithBindGroupProvider replaces the provider that holds the camera uniform.
func WithBindGroupProvider(provider bind_group_provider.BindGroupProvider) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.bindGroupProvider = provider
	}
}
