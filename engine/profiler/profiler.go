package profiler

import (
	"log"
	"runtime"
	"sync/atomic"
	"time"
)

// Stats is one reporting window of frame and memory statistics.
type Stats struct {
	FPS           float64
	DrawsPerFrame float64
	FrameTimeMax  time.Duration
	HeapMB        float64
	AllocRateMB   float64
	NumGC         uint32
}

// Profiler tracks frame rate, draw submissions and memory statistics, reporting them to
// the log once per interval. RecordDraws may be called from any goroutine; Tick belongs to
// the render loop.
type Profiler struct {
	frameCount     int
	draws          atomic.Int64
	lastTime       time.Time
	lastFrame      time.Time
	frameTimeMax   time.Duration
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastTotalAlloc uint64

	now    func() time.Time
	report func(Stats)
}

// ProfilerOption configures a Profiler.
type ProfilerOption func(*Profiler)

// WithInterval sets how often statistics are reported. Non-positive values keep the
// default of one second.
func WithInterval(d time.Duration) ProfilerOption {
	return func(p *Profiler) {
		if d > 0 {
			p.updateInterval = d
		}
	}
}

// WithReporter replaces the default log reporter.
func WithReporter(report func(Stats)) ProfilerOption {
	return func(p *Profiler) {
		if report != nil {
			p.report = report
		}
	}
}

// withClock substitutes the time source.
func withClock(now func() time.Time) ProfilerOption {
	return func(p *Profiler) {
		p.now = now
	}
}

// NewProfiler creates a new Profiler reporting once per second to the log.
//
// Parameters:
//   - options: optional interval and reporter overrides
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerOption) *Profiler {
	p := &Profiler{
		updateInterval: time.Second,
		now:            time.Now,
		report:         logStats,
	}
	for _, opt := range options {
		opt(p)
	}
	p.lastTime = p.now()
	p.lastFrame = p.lastTime
	return p
}

// RecordDraws adds n draw submissions to the current frame window.
func (p *Profiler) RecordDraws(n int) {
	p.draws.Add(int64(n))
}

// Tick should be called once per presented frame. Statistics are reported when the
// update interval has elapsed.
//
// Returns:
//   - bool: true if stats were reported this tick
func (p *Profiler) Tick() bool {
	p.frameCount++
	current := p.now()
	if ft := current.Sub(p.lastFrame); ft > p.frameTimeMax {
		p.frameTimeMax = ft
	}
	p.lastFrame = current

	elapsed := current.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}

	runtime.ReadMemStats(&p.memStats)
	allocDelta := p.memStats.TotalAlloc - p.lastTotalAlloc

	stats := Stats{
		FPS:           float64(p.frameCount) / elapsed.Seconds(),
		DrawsPerFrame: float64(p.draws.Swap(0)) / float64(p.frameCount),
		FrameTimeMax:  p.frameTimeMax,
		HeapMB:        float64(p.memStats.Alloc) / 1024 / 1024,
		AllocRateMB:   float64(allocDelta) / 1024 / 1024 / elapsed.Seconds(),
		NumGC:         p.memStats.NumGC,
	}
	p.report(stats)

	p.frameCount = 0
	p.frameTimeMax = 0
	p.lastTime = current
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}

func logStats(s Stats) {
	log.Printf("[Profiler] FPS: %.2f | Draws/frame: %.1f | Worst frame: %s | Heap: %.2f MB | Alloc Rate: %.2f MB/s | GC: %d",
		s.FPS, s.DrawsPerFrame, s.FrameTimeMax, s.HeapMB, s.AllocRateMB, s.NumGC)
}
