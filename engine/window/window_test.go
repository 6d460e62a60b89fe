package window

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewEngineWindowDefaults(t *testing.T) {
	w := newEngineWindow()

	assert.Equal(t, 1280, w.Width())
	assert.Equal(t, 720, w.Height())
	assert.False(t, w.IsRunning())
	assert.Nil(t, w.SurfaceDescriptor())
	assert.Error(t, w.Close())
}

func TestNewEngineWindowClampsSize(t *testing.T) {
	w := newEngineWindow(
		WithTitle("clamped"),
		WithSize(100, 5000),
		WithMinSize(400, 300),
		WithMaxSize(1920, 1080),
	)

	assert.Equal(t, "clamped", w.title)
	assert.Equal(t, 400, w.Width())
	assert.Equal(t, 1080, w.Height())
}

func TestNewEngineWindowUnboundedMax(t *testing.T) {
	w := newEngineWindow(WithSize(5000, 5000), WithMaxSize(0, 0))

	assert.Equal(t, 5000, w.Width())
	assert.Equal(t, 5000, w.Height())
}

func TestSetTitleWithoutPlatformWindow(t *testing.T) {
	w := newEngineWindow()
	assert.NotPanics(t, func() { w.SetTitle("renamed") })
	assert.Equal(t, "renamed", w.title)
}
