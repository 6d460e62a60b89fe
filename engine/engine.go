package engine

import (
	"log"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/oxy-examples/engine/profiler"
	"github.com/Carmen-Shannon/oxy-examples/engine/renderer"
	"github.com/Carmen-Shannon/oxy-examples/engine/scene"
	"github.com/Carmen-Shannon/oxy-examples/engine/window"
)

// defaultTickRate is the update rate used when none, or a non-positive one, is configured.
const defaultTickRate = 60

// engine implements the Engine interface.
type engine struct {
	window window.Window

	// tickInterval is read by the update goroutine only after Run starts; later changes
	// travel through tickUpdates.
	tickInterval time.Duration
	tickUpdates  chan time.Duration
	frameBudget  time.Duration // 0 = uncapped

	onTick  func(deltaTime float32)
	onFrame func(deltaTime float32)

	profiler  *profiler.Profiler
	profiling atomic.Bool

	mu     *sync.Mutex
	scenes map[int]scene.Scene

	running  atomic.Bool
	wg       sync.WaitGroup
	quit     chan struct{}
	quitOnce sync.Once
}

// Engine drives the example programs. It owns the window, runs a fixed-rate update
// goroutine and a frame goroutine, and composites the active scenes into one frame per
// iteration in ascending z-index order.
type Engine interface {
	// Window returns the window the engine presents to, or nil.
	Window() window.Window

	// EnableProfiler turns on frame statistics logging.
	EnableProfiler()

	// DisableProfiler turns off frame statistics logging.
	DisableProfiler()

	// SetTickRate changes the update rate. It takes effect immediately while running.
	//
	// Parameters:
	//   - hz: updates per second (60 if <= 0)
	SetTickRate(hz float64)

	// SetTickCallback registers a function called on every update after all active
	// scenes have been updated.
	//
	// Parameters:
	//   - callback: receives the seconds elapsed since the previous update
	SetTickCallback(callback func(deltaTime float32))

	// SetRenderCallback registers a function called after every presented frame.
	//
	// Parameters:
	//   - callback: receives the seconds elapsed since the previous frame
	SetRenderCallback(callback func(deltaTime float32))

	// SetRenderFrameLimit caps the frame rate.
	//
	// Parameters:
	//   - fps: maximum frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// AddScene registers a scene at a z-index, replacing any scene already there.
	//
	// Parameters:
	//   - key: the z-index (lower draws first)
	//   - s: the scene
	AddScene(key int, s scene.Scene)

	// RemoveScene unregisters the scene at a z-index.
	RemoveScene(key int)

	// Scene returns the scene at a z-index, or nil.
	Scene(key int) scene.Scene

	// Scenes returns a copy of the registered scenes keyed by z-index.
	Scenes() map[int]scene.Scene

	// Run processes window events on the calling goroutine until the window closes,
	// then stops the update and frame goroutines and waits for them.
	Run()

	// Quit stops the update and frame goroutines. Safe to call more than once.
	Quit()
}

// NewEngine creates an Engine. Without WithWindow, Run returns immediately.
//
// Parameters:
//   - options: functional options for window, rates, profiling and initial scenes
//
// Returns:
//   - Engine: the configured engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		tickInterval: hzToInterval(defaultTickRate),
		tickUpdates:  make(chan time.Duration, 1),
		profiler:     profiler.NewProfiler(),
		mu:           &sync.Mutex{},
		scenes:       make(map[int]scene.Scene),
		quit:         make(chan struct{}),
	}

	for _, opt := range options {
		opt(e)
	}

	if e.window != nil {
		e.window.SetResizeCallback(e.resize)
	}
	return e
}

// hzToInterval converts a rate to a period, using defaultTickRate for non-positive rates.
func hzToInterval(hz float64) time.Duration {
	if hz <= 0 {
		hz = defaultTickRate
	}
	return time.Duration(float64(time.Second) / hz)
}

// fpsToBudget converts a frame cap to the minimum frame duration, 0 meaning uncapped.
func fpsToBudget(fps float64) time.Duration {
	if fps <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / fps)
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Run() {
	if e.window == nil {
		log.Printf("[Engine] no window configured, nothing to run")
		return
	}
	e.running.Store(true)
	e.wg.Add(2)
	go e.updateLoop()
	go e.frameLoop()

	e.window.ProcessMessages()

	e.Quit()
	e.wg.Wait()
}

func (e *engine) Quit() {
	e.quitOnce.Do(func() {
		e.running.Store(false)
		close(e.quit)
	})
}

// updateLoop updates the active scenes at the tick rate until Quit.
func (e *engine) updateLoop() {
	defer e.wg.Done()

	ticker := time.NewTicker(e.tickInterval)
	defer ticker.Stop()
	last := time.Now()

	for {
		select {
		case <-e.quit:
			return
		case interval := <-e.tickUpdates:
			e.tickInterval = interval
			ticker.Reset(interval)
		case now := <-ticker.C:
			dt := float32(now.Sub(last).Seconds())
			last = now

			for _, s := range e.activeScenes() {
				s.Update(dt)
			}
			if e.onTick != nil {
				e.onTick(dt)
			}
		}
	}
}

// frameLoop renders frames as fast as presentation and the frame budget allow until
// Quit. A panic while drawing is logged and stops the engine instead of the process.
func (e *engine) frameLoop() {
	defer e.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Engine] frame loop stopped by panic: %v", r)
			e.Quit()
		}
	}()

	last := time.Now()
	for {
		select {
		case <-e.quit:
			return
		default:
		}

		start := time.Now()
		dt := float32(start.Sub(last).Seconds())
		last = start

		if scenes := e.activeScenes(); len(scenes) > 0 {
			e.renderFrame(scenes, dt)
		}
		if e.onFrame != nil {
			e.onFrame(dt)
		}
		if e.profiling.Load() {
			e.profiler.Tick()
		}

		if e.frameBudget > 0 {
			if rest := e.frameBudget - time.Since(start); rest > 0 {
				time.Sleep(rest)
			}
		}
	}
}

// activeScenes returns the active scenes sorted by z-index.
func (e *engine) activeScenes() []scene.Scene {
	e.mu.Lock()
	defer e.mu.Unlock()

	keys := make([]int, 0, len(e.scenes))
	for k, s := range e.scenes {
		if s.Active() {
			keys = append(keys, k)
		}
	}
	sort.Ints(keys)

	active := make([]scene.Scene, len(keys))
	for i, k := range keys {
		active[i] = e.scenes[k]
	}
	return active
}

// renderFrame begins one frame on the renderer of the first scene, lets every scene
// sharing that renderer encode its passes, then submits and presents. Scenes on other
// renderers are skipped.
func (e *engine) renderFrame(scenes []scene.Scene, dt float32) {
	r := scenes[0].Renderer()
	if r == nil {
		return
	}
	if err := r.BeginFrame(); err != nil {
		log.Printf("[Engine] begin frame: %v", err)
		return
	}
	for _, s := range scenes {
		if s.Renderer() != r {
			continue
		}
		if err := s.Draw(dt); err != nil {
			log.Printf("[Engine] %v", err)
		}
	}
	r.EndFrame()
	r.Present()

	if e.profiling.Load() {
		e.profiler.RecordDraws(r.FrameDrawCount())
	}
}

// resize reconfigures every distinct renderer once, then notifies every scene.
func (e *engine) resize(width, height int) {
	seen := make(map[renderer.Renderer]bool)
	for _, s := range e.Scenes() {
		if r := s.Renderer(); r != nil && !seen[r] {
			r.Resize(width, height)
			seen[r] = true
		}
		s.Resize(width, height)
	}
}

func (e *engine) EnableProfiler() {
	e.profiling.Store(true)
}

func (e *engine) DisableProfiler() {
	e.profiling.Store(false)
}

func (e *engine) SetTickRate(hz float64) {
	interval := hzToInterval(hz)
	if !e.running.Load() {
		e.tickInterval = interval
		return
	}
	// Keep only the newest pending interval.
	for {
		select {
		case e.tickUpdates <- interval:
			return
		default:
			select {
			case <-e.tickUpdates:
			default:
			}
		}
	}
}

func (e *engine) SetTickCallback(callback func(deltaTime float32)) {
	e.onTick = callback
}

func (e *engine) SetRenderCallback(callback func(deltaTime float32)) {
	e.onFrame = callback
}

func (e *engine) SetRenderFrameLimit(fps float64) {
	e.frameBudget = fpsToBudget(fps)
}

func (e *engine) AddScene(key int, s scene.Scene) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.scenes[key] = s
}

func (e *engine) RemoveScene(key int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.scenes, key)
}

func (e *engine) Scene(key int) scene.Scene {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.scenes[key]
}

func (e *engine) Scenes() map[int]scene.Scene {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make(map[int]scene.Scene, len(e.scenes))
	for k, s := range e.scenes {
		out[k] = s
	}
	return out
}
