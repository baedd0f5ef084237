package profiler

import (
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-shade/common"
)

// PassStats accumulates the timings of one pass label over a reporting interval.
type PassStats struct {
	Label  string
	Count  int
	Errors int
	Total  time.Duration
	Max    time.Duration
}

// Average returns the mean pass duration, or zero when the pass never ran.
func (s PassStats) Average() time.Duration {
	if s.Count == 0 {
		return 0
	}
	return s.Total / time.Duration(s.Count)
}

// Profiler tracks frame rate, memory statistics and per-pass timings. It logs a summary at
// Info level every interval.
type Profiler struct {
	mu *sync.Mutex

	frameCount     int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
	passes         map[string]*PassStats
}

// ProfilerBuilderOption is a functional option used to configure a Profiler during construction.
type ProfilerBuilderOption func(p *Profiler)

// WithInterval sets how often Tick logs statistics.
//
// Parameters:
//   - interval: the reporting interval
//
// Returns:
//   - ProfilerBuilderOption: a function that sets the interval
func WithInterval(interval time.Duration) ProfilerBuilderOption {
	return func(p *Profiler) {
		p.updateInterval = interval
	}
}

// NewProfiler creates a new Profiler. The update interval defaults to 1 second.
//
// Parameters:
//   - options: functional options
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerBuilderOption) *Profiler {
	p := &Profiler{
		mu:             &sync.Mutex{},
		lastTime:       time.Now(),
		updateInterval: time.Second,
		passes:         make(map[string]*PassStats),
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

// ObservePass records one pass execution. Its signature matches pipeline.PassObserver so it
// can be handed to a runner directly.
//
// Parameters:
//   - label: the pass label
//   - elapsed: how long the pass took
//   - err: the pass error, if any
func (p *Profiler) ObservePass(label string, elapsed time.Duration, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	s, ok := p.passes[label]
	if !ok {
		s = &PassStats{Label: label}
		p.passes[label] = s
	}
	s.Count++
	s.Total += elapsed
	s.Max = max(s.Max, elapsed)
	if err != nil {
		s.Errors++
	}
}

// Passes returns the pass statistics gathered since the last report, sorted by label.
//
// Returns:
//   - []PassStats: a snapshot of the per-pass statistics
func (p *Profiler) Passes() []PassStats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshot()
}

// Reset discards the frame count and pass statistics gathered since the last report.
func (p *Profiler) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.frameCount = 0
	p.lastTime = time.Now()
	p.passes = make(map[string]*PassStats)
}

func (p *Profiler) snapshot() []PassStats {
	out := make([]PassStats, 0, len(p.passes))
	for _, s := range p.passes {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out
}

// Tick should be called once per frame to track frame timing.
// Logs performance statistics when the update interval has elapsed.
// Statistics include FPS, heap usage, allocation rate, GC count and pause times, total
// memory, and the average and worst time of every pass.
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.frameCount++
	currentTime := time.Now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}

	fps := float64(p.frameCount) / max(elapsed.Seconds(), 1e-9)

	runtime.ReadMemStats(&p.memStats)
	allocMB := float64(p.memStats.Alloc) / 1024 / 1024
	sysMB := float64(p.memStats.Sys) / 1024 / 1024
	allocDelta := p.memStats.TotalAlloc - p.lastTotalAlloc
	allocRateMB := float64(allocDelta) / 1024 / 1024 / max(elapsed.Seconds(), 1e-9)

	// PauseNs is a circular buffer of the last 256 GC pauses
	gcCount := p.memStats.NumGC
	var lastPauseUs, maxPauseUs uint64
	if gcCount > 0 {
		lastPauseUs = p.memStats.PauseNs[(gcCount-1)%256] / 1000
		startIdx := p.lastGCCount
		if gcCount-startIdx > 256 {
			startIdx = gcCount - 256
		}
		for i := startIdx; i < gcCount; i++ {
			maxPauseUs = max(maxPauseUs, p.memStats.PauseNs[i%256]/1000)
		}
	}

	log := common.Logger()
	log.Info("[Profiler]",
		"fps", fps,
		"heap_mb", allocMB,
		"alloc_rate_mb_s", allocRateMB,
		"gc", gcCount,
		"gc_last_us", lastPauseUs,
		"gc_max_us", maxPauseUs,
		"sys_mb", sysMB,
	)
	for _, s := range p.snapshot() {
		log.Info("[Profiler] pass", "label", s.Label, "runs", s.Count, "avg", s.Average(), "max", s.Max, "errors", s.Errors)
	}

	p.frameCount = 0
	p.lastTime = currentTime
	p.lastGCCount = gcCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	p.passes = make(map[string]*PassStats)
	return true
}
