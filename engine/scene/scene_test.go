package scene

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-examples/engine/camera"
	"github.com/Carmen-Shannon/oxy-examples/engine/renderer"
	"github.com/stretchr/testify/assert"
)

func TestNewSceneDefaults(t *testing.T) {
	s := NewScene("empty", nil)

	assert.Equal(t, "empty", s.Name())
	assert.True(t, s.Active())
	assert.Nil(t, s.Camera())
	assert.NoError(t, s.Draw(0.016))
	assert.NotPanics(t, func() { s.Update(0.016) })

	s.SetActive(false)
	assert.False(t, s.Active())
}

func TestSceneCallbacks(t *testing.T) {
	var updated, drawn float32
	var resized [2]int

	s := NewScene("callbacks", nil,
		WithActive(false),
		WithUpdateFunc(func(dt float32) { updated += dt }),
		WithDrawFunc(func(_ renderer.Renderer, dt float32) error {
			drawn += dt
			return nil
		}),
		WithResizeFunc(func(w, h int) { resized = [2]int{w, h} }),
	)

	assert.False(t, s.Active())
	s.Update(0.5)
	assert.NoError(t, s.Draw(0.25))
	s.Resize(800, 600)
	s.Resize(0, 600)

	assert.Equal(t, float32(0.5), updated)
	assert.Equal(t, float32(0.25), drawn)
	assert.Equal(t, [2]int{800, 600}, resized)
}

func TestSceneDrawWrapsErrors(t *testing.T) {
	boom := errors.New("boom")
	s := NewScene("broken", nil, WithDrawFunc(func(renderer.Renderer, float32) error { return boom }))

	err := s.Draw(0)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "broken")
}

func TestSceneResizeUpdatesCameraAspect(t *testing.T) {
	cam := camera.NewCamera()
	s := NewScene("camera", nil, WithCamera(cam))

	s.Resize(1600, 800)
	assert.Equal(t, float32(2), cam.Aspect())
}
