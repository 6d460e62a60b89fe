package engine

import (
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-examples/engine/profiler"
	"github.com/Carmen-Shannon/oxy-examples/engine/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEngineDefaults(t *testing.T) {
	e := NewEngine().(*engine)

	assert.Nil(t, e.Window())
	assert.Equal(t, time.Second/60, e.tickInterval)
	assert.Zero(t, e.frameBudget)
	assert.False(t, e.profiling.Load())
	assert.Empty(t, e.Scenes())
}

func TestEngineBuilderOptions(t *testing.T) {
	s := scene.NewScene("main", nil)
	e := NewEngine(
		WithProfiling(true),
		WithTickRate(30),
		WithRenderFrameLimit(120),
		WithScene(2, s),
	).(*engine)

	assert.True(t, e.profiling.Load())
	assert.Equal(t, time.Second/30, e.tickInterval)
	assert.Equal(t, time.Second/120, e.frameBudget)
	assert.Equal(t, s, e.Scene(2))
}

func TestSetTickRateAndFrameLimit(t *testing.T) {
	e := NewEngine().(*engine)

	e.SetTickRate(0)
	assert.Equal(t, time.Second/60, e.tickInterval)
	e.SetTickRate(20)
	assert.Equal(t, time.Second/20, e.tickInterval)

	e.SetRenderFrameLimit(50)
	assert.Equal(t, time.Second/50, e.frameBudget)
	e.SetRenderFrameLimit(-1)
	assert.Zero(t, e.frameBudget)
}

func TestActiveScenesOrderedByKey(t *testing.T) {
	e := NewEngine().(*engine)
	e.AddScene(5, scene.NewScene("overlay", nil))
	e.AddScene(-1, scene.NewScene("background", nil))
	e.AddScene(3, scene.NewScene("hidden", nil, scene.WithActive(false)))
	e.AddScene(0, scene.NewScene("world", nil))

	var names []string
	for _, s := range e.activeScenes() {
		names = append(names, s.Name())
	}
	assert.Equal(t, []string{"background", "world", "overlay"}, names)

	e.RemoveScene(5)
	assert.Nil(t, e.Scene(5))
	assert.Len(t, e.Scenes(), 3)
}

func TestResizeNotifiesEveryScene(t *testing.T) {
	var sizes [][2]int
	record := func(w, h int) { sizes = append(sizes, [2]int{w, h}) }

	e := NewEngine(
		WithScene(0, scene.NewScene("a", nil, scene.WithResizeFunc(record))),
		WithScene(1, scene.NewScene("b", nil, scene.WithActive(false), scene.WithResizeFunc(record))),
	).(*engine)

	e.resize(640, 480)
	assert.Equal(t, [][2]int{{640, 480}, {640, 480}}, sizes)
}

func TestTickUpdatesActiveScenes(t *testing.T) {
	updates := make(chan float32, 16)
	e := NewEngine(
		WithTickRate(200),
		WithScene(0, scene.NewScene("ticking", nil, scene.WithUpdateFunc(func(dt float32) {
			select {
			case updates <- dt:
			default:
			}
		}))),
	).(*engine)

	e.wg.Add(1)
	go e.updateLoop()

	select {
	case dt := <-updates:
		assert.Greater(t, dt, float32(0))
	case <-time.After(2 * time.Second):
		t.Fatal("scene was never updated")
	}

	e.Quit()
	e.Quit()
	e.wg.Wait()
}

func TestRunWithoutWindowReturns(t *testing.T) {
	e := NewEngine()
	require.NotPanics(t, e.Run)
}

func TestWithProfilerEnablesProfiling(t *testing.T) {
	e := NewEngine(WithProfiler(profiler.WithInterval(time.Millisecond))).(*engine)
	assert.True(t, e.profiling.Load())
	require.NotNil(t, e.profiler)

	e.DisableProfiler()
	assert.False(t, e.profiling.Load())
}

func TestSetTickRateWhileRunningKeepsNewest(t *testing.T) {
	e := NewEngine().(*engine)
	e.running.Store(true)

	e.SetTickRate(10)
	e.SetTickRate(40)

	assert.Equal(t, time.Second/40, <-e.tickUpdates)
	assert.Equal(t, time.Second/60, e.tickInterval)
}

func TestQuitConcurrentWithSetTickRate(t *testing.T) {
	e := NewEngine().(*engine)
	e.running.Store(true)

	done := make(chan struct{})
	go func() {
		defer close(done)
		e.Quit()
	}()
	for range 100 {
		e.SetTickRate(30)
	}
	<-done

	assert.False(t, e.running.Load())
	e.SetTickRate(15)
	assert.Equal(t, time.Second/15, e.tickInterval)
}
