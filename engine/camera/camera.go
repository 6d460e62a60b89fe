package camera

import (
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-examples/common"
	"github.com/Carmen-Shannon/oxy-examples/engine/renderer/bind_group_provider"
)

// cameraCount is an atomic counter used to generate unique bind group provider names for each camera instance.
var cameraCount atomic.Uint64

type cameraImpl struct {
	mu *sync.Mutex

	eye    [3]float32
	target [3]float32
	up     [3]float32

	fov    float32
	aspect float32
	near   float32
	far    float32

	viewMatrix           common.Mat4
	projectionMatrix     common.Mat4
	viewProjectionMatrix common.Mat4

	bindGroupProvider bind_group_provider.BindGroupProvider
}

// Camera is a look-at perspective camera. It keeps its view and projection matrices
// current on every change and owns the bind group provider its uniform is uploaded through.
type Camera interface {
	// Eye returns the camera position.
	Eye() [3]float32

	// Target returns the point the camera looks at.
	Target() [3]float32

	// Up returns the up direction.
	Up() [3]float32

	// Fov returns the vertical field of view in radians.
	Fov() float32

	Aspect() float32
	Near() float32
	Far() float32

	// SetEye moves the camera.
	//
	// Parameters:
	//   - eye: the new position
	SetEye(eye [3]float32)

	// SetTarget changes the look-at point.
	//
	// Parameters:
	//   - target: the new look-at point
	SetTarget(target [3]float32)

	// SetAspect updates the aspect ratio, normally after a resize.
	//
	// Parameters:
	//   - aspect: width divided by height
	SetAspect(aspect float32)

	ViewMatrix() common.Mat4
	ProjectionMatrix() common.Mat4

	// ViewProjectionMatrix returns projection * view.
	ViewProjectionMatrix() common.Mat4

	// Uniform returns the GPU uniform for the current state.
	//
	// Returns:
	//   - GPUCameraUniform: the view-projection matrix and eye position
	Uniform() GPUCameraUniform

	// BindGroupProvider returns the provider holding the camera's uniform buffer.
	BindGroupProvider() bind_group_provider.BindGroupProvider
}

var _ Camera = &cameraImpl{}

// NewCamera creates a camera at (0, 0, 1) looking at the origin with Y up, a 45 degree
// field of view, aspect 1 and a 0.1 to 100 depth range unless options override them.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:     &sync.Mutex{},
		eye:    [3]float32{0, 0, 1},
		up:     [3]float32{0, 1, 0},
		fov:    common.Radians(45),
		aspect: 1.0,
		near:   0.1,
		far:    100.0,
	}
	for _, option := range options {
		option(c)
	}
	if c.bindGroupProvider == nil {
		c.bindGroupProvider = bind_group_provider.NewBindGroupProvider("camera_" + strconv.FormatUint(cameraCount.Load(), 10))
	}
	c.updateMatrices()
	cameraCount.Add(1)
	return c
}

func (c *cameraImpl) Eye() [3]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.eye
}

func (c *cameraImpl) Target() [3]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.target
}

func (c *cameraImpl) Up() [3]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.up
}

func (c *cameraImpl) Fov() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fov
}

func (c *cameraImpl) Aspect() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aspect
}

func (c *cameraImpl) Near() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.near
}

func (c *cameraImpl) Far() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.far
}

func (c *cameraImpl) SetEye(eye [3]float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.eye = eye
	c.updateMatrices()
}

func (c *cameraImpl) SetTarget(target [3]float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.target = target
	c.updateMatrices()
}

func (c *cameraImpl) SetAspect(aspect float32) {
	if aspect <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.aspect = aspect
	c.updateMatrices()
}

func (c *cameraImpl) ViewMatrix() common.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewMatrix
}

func (c *cameraImpl) ProjectionMatrix() common.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projectionMatrix
}

func (c *cameraImpl) ViewProjectionMatrix() common.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewProjectionMatrix
}

func (c *cameraImpl) Uniform() GPUCameraUniform {
	c.mu.Lock()
	defer c.mu.Unlock()
	return GPUCameraUniform{
		ViewProj:       c.viewProjectionMatrix,
		CameraPosition: c.eye,
	}
}

func (c *cameraImpl) BindGroupProvider() bind_group_provider.BindGroupProvider {
	return c.bindGroupProvider
}

// updateMatrices recalculates the view, projection and view-projection matrices.
// Caller must hold the mutex.
func (c *cameraImpl) updateMatrices() {
	common.LookAt(c.viewMatrix[:], c.eye, c.target, c.up)
	common.Perspective(c.projectionMatrix[:], c.fov, c.aspect, c.near, c.far)
	common.Mul4(c.viewProjectionMatrix[:], c.projectionMatrix[:], c.viewMatrix[:])
}
