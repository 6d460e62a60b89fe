package scene

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-examples/engine/camera"
	"github.com/Carmen-Shannon/oxy-examples/engine/renderer"
)

// DrawFunc encodes a scene's passes into the frame the engine has begun.
type DrawFunc func(r renderer.Renderer, deltaTime float32) error

// UpdateFunc advances scene state on the engine tick.
type UpdateFunc func(deltaTime float32)

// ResizeFunc reacts to a new surface size, e.g. by recreating render targets.
type ResizeFunc func(width, height int)

type scene struct {
	mu *sync.Mutex

	name   string
	active bool

	r   renderer.Renderer
	cam camera.Camera

	drawFunc   DrawFunc
	updateFunc UpdateFunc
	resizeFunc ResizeFunc
}

// Scene is a drawable unit registered with the Engine. The engine begins the frame on
// the scene's renderer, calls Draw on every active scene in z-order and presents.
// Examples supply the per-frame work through WithDrawFunc and WithUpdateFunc.
type Scene interface {
	// Name returns the scene's identifier.
	Name() string

	// Active returns whether this scene is currently active for rendering.
	Active() bool

	// SetActive sets whether this scene is active for rendering.
	SetActive(active bool)

	// Renderer returns the scene's renderer.
	Renderer() renderer.Renderer

	// Camera returns the scene's camera, or nil for scenes drawn without one.
	Camera() camera.Camera

	// Update advances the scene by one engine tick.
	//
	// Parameters:
	//   - deltaTime: seconds since the previous tick
	Update(deltaTime float32)

	// Draw encodes the scene's render passes into the current frame.
	//
	// Parameters:
	//   - deltaTime: seconds since the previous frame
	//
	// Returns:
	//   - error: the first draw error, wrapped with the scene name
	Draw(deltaTime float32) error

	// Resize propagates a new surface size to the camera aspect and the resize callback.
	//
	// Parameters:
	//   - width, height: the new surface size in pixels
	Resize(width, height int)
}

var _ Scene = &scene{}

// NewScene creates an active scene drawing with r.
//
// Parameters:
//   - name: the scene identifier used in logs and errors
//   - r: the renderer the scene draws with
//   - options: functional options configuring callbacks and camera
//
// Returns:
//   - Scene: the new scene
func NewScene(name string, r renderer.Renderer, options ...SceneBuilderOption) Scene {
	s := &scene{
		mu:     &sync.Mutex{},
		name:   name,
		active: true,
		r:      r,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

func (s *scene) Name() string {
	return s.name
}

func (s *scene) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

func (s *scene) SetActive(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = active
}

func (s *scene) Renderer() renderer.Renderer {
	return s.r
}

func (s *scene) Camera() camera.Camera {
	return s.cam
}

func (s *scene) Update(deltaTime float32) {
	if s.updateFunc != nil {
		s.updateFunc(deltaTime)
	}
}

func (s *scene) Draw(deltaTime float32) error {
	if s.drawFunc == nil {
		return nil
	}
	if err := s.drawFunc(s.r, deltaTime); err != nil {
		return fmt.Errorf("scene %s: %w", s.name, err)
	}
	return nil
}

func (s *scene) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	if s.cam != nil {
		s.cam.SetAspect(float32(width) / float32(height))
	}
	if s.resizeFunc != nil {
		s.resizeFunc(width, height)
	}
}
