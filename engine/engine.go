package engine

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/oxy-shade/common"
	"github.com/Carmen-Shannon/oxy-shade/engine/profiler"
	"github.com/Carmen-Shannon/oxy-shade/engine/scene"
	"github.com/Carmen-Shannon/oxy-shade/engine/window"
)

// engine implements the Engine interface.
// Coordinates the tick, render and window threads around one scene runner.
type engine struct {
	tickRateChannel chan time.Duration // Channel for dynamic tick rate updates
	resizeChannel   chan [2]int        // Latest framebuffer size, consumed by the render loop

	running atomic.Bool
	paused  atomic.Bool
	wg      sync.WaitGroup

	quitChannel chan struct{}
	quitOnce    sync.Once // Ensures quitChannel is only closed once
	closeOnce   sync.Once // Ensures the window is only destroyed once

	window window.Window
	runner scene.Runner

	profiler         *profiler.Profiler
	profilingEnabled atomic.Bool

	engineTickRate time.Duration
	tickCallback   func(deltaTime float32)
	renderCallback func(deltaTime float32)

	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped
	pausedPoll       time.Duration
}

// Engine is the main entry point for the engine.
// It orchestrates the tick loop, the render loop and window management for one scene runner.
type Engine interface {
	// Window returns the underlying window, or nil for a headless engine.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// Runner returns the scene runner the render loop drives.
	//
	// Returns:
	//   - scene.Runner: the runner
	Runner() scene.Runner

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetPaused stops or resumes rendering. The tick loop keeps running while paused.
	//
	// Parameters:
	//   - paused: whether rendering is paused
	SetPaused(paused bool)

	// Paused reports whether rendering is paused.
	Paused() bool

	// SetTickRate sets the engine tick rate in frames per second.
	// The tick callback will be called at this rate.
	//
	// Parameters:
	//   - fps: target frames per second (defaults to 60 if <= 0)
	SetTickRate(fps float64)

	// SetTickCallback registers the function called each engine tick.
	//
	// Parameters:
	//   - callback: function to call at the configured tick rate, receiving the delta time in seconds
	SetTickCallback(callback func(deltaTime float32))

	// SetRenderCallback registers the function called after each rendered frame.
	//
	// Parameters:
	//   - callback: function to call each render frame, receiving the delta time in seconds
	SetRenderCallback(callback func(deltaTime float32))

	// SetRenderFrameLimit sets an optional render frame rate cap in frames per second.
	// Pass 0 to uncap the render loop (default).
	//
	// Parameters:
	//   - fps: maximum render frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// Resize queues a new display size for the render loop. Only the latest pending size is
	// kept. The window's resize callback calls this.
	//
	// Parameters:
	//   - width, height: the new framebuffer size in pixels
	Resize(width, height int)

	// Run starts the tick and render loops and blocks until the window closes, or until Quit
	// for a headless engine. The runner is closed before Run returns.
	Run()

	// Quit signals all engine goroutines to stop and shuts down the engine.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()
}

var _ Engine = &engine{}

// NewEngine creates a new Engine driving runner. The runner must already be initialized.
// Options are applied directly to the engine struct via the option-builder pattern.
//
// Parameters:
//   - runner: the initialized scene runner
//   - options: functional options for engine configuration (window, profiling, tick rate, etc.)
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(runner scene.Runner, options ...EngineBuilderOption) Engine {
	e := &engine{
		tickRateChannel: make(chan time.Duration, 1),
		resizeChannel:   make(chan [2]int, 1),
		quitChannel:     make(chan struct{}),
		runner:          runner,
		profiler:        profiler.NewProfiler(),
		engineTickRate:  time.Second / 60,
		pausedPoll:      10 * time.Millisecond,
	}

	for _, opt := range options {
		opt(e)
	}

	if e.window != nil {
		e.window.SetResizeCallback(e.Resize)
		e.window.SetKeyDownCallback(e.handleKey)
		e.window.SetUpdateCallback(e.pollQuit)
	}

	return e
}

func (e *engine) Window() window.Window { return e.window }
func (e *engine) Runner() scene.Runner  { return e.runner }

func (e *engine) Run() {
	e.running.Store(true)
	e.handle()
	if e.window != nil {
		e.window.ProcessMessages()
		e.signalQuit()
	}
	e.wg.Wait()
	e.runner.Close()
	if e.window != nil {
		e.closeWindow()
	}
}

// Quit signals all engine goroutines to stop and shuts down the engine.
// Safe to call multiple times; subsequent calls are no-ops due to sync.Once.
func (e *engine) Quit() {
	e.signalQuit()
}

// pollQuit runs on the window thread each message loop iteration and closes the window once
// quit has been signalled, which ends ProcessMessages.
func (e *engine) pollQuit() {
	select {
	case <-e.quitChannel:
		e.closeWindow()
	default:
	}
}

func (e *engine) closeWindow() {
	e.closeOnce.Do(func() {
		if err := e.window.Close(); err != nil {
			common.Logger().Warn("window close failed", "err", err)
		}
	})
}

// signalQuit closes the quit channel to signal all goroutines to exit.
// Uses sync.Once to ensure the channel is only closed once.
func (e *engine) signalQuit() {
	e.quitOnce.Do(func() {
		e.running.Store(false)
		close(e.quitChannel)
	})
}

// handle launches the engine and render goroutines.
// Each goroutine is tracked by the engine's WaitGroup.
func (e *engine) handle() {
	e.wg.Add(2)
	go e.handleEngine()
	go e.handleRender()
}

// handleKey maps the cookbook's key bindings: Space pauses, P toggles the profiler and R
// discards the statistics gathered so far.
func (e *engine) handleKey(keyCode uint32) {
	switch keyCode {
	case common.KeySpace:
		e.SetPaused(!e.Paused())
	case common.KeyP:
		if e.profilingEnabled.Load() {
			e.DisableProfiler()
		} else {
			e.EnableProfiler()
		}
	case common.KeyR:
		e.profiler.Reset()
	}
}

// handleEngine runs the fixed-rate engine tick loop in its own goroutine.
// Fires the tick callback at the configured tick rate and listens for dynamic rate changes
// via tickRateChannel. Exits when the quit channel is closed.
func (e *engine) handleEngine() {
	defer e.wg.Done()

	ticker := time.NewTicker(e.engineTickRate)
	defer ticker.Stop()

	lastTick := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		case <-ticker.C:
			now := time.Now()
			dt := float32(now.Sub(lastTick).Seconds())
			lastTick = now

			if e.tickCallback != nil {
				e.tickCallback(dt)
			}
		case newRate := <-e.tickRateChannel:
			ticker.Reset(newRate)
			e.engineTickRate = newRate
		}
	}
}

// handleRender runs the uncapped (or frame-limited) render loop in its own goroutine.
// Pending resizes are applied between frames, so the runner never sees a resize mid-frame.
// A dropped frame is logged by the runner and the loop carries on; a closed runner ends it.
// Recovers from panics to avoid crashing the process and signals quit on recovery.
func (e *engine) handleRender() {
	defer e.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			common.Logger().Error("render goroutine recovered from panic", "panic", fmt.Sprint(r))
			e.signalQuit()
		}
	}()

	lastRender := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		case size := <-e.resizeChannel:
			e.runner.Resize(size[0], size[1])
		default:
			if e.paused.Load() {
				time.Sleep(e.pausedPoll)
				lastRender = time.Now()
				continue
			}

			now := time.Now()
			dt := float32(now.Sub(lastRender).Seconds())
			lastRender = now

			if err := e.runner.Frame(); errors.Is(err, scene.ErrClosed) {
				e.signalQuit()
				return
			}

			if e.renderCallback != nil {
				e.renderCallback(dt)
			}

			if e.profilingEnabled.Load() && e.profiler != nil {
				e.profiler.Tick()
			}

			// Frame rate limiting
			if e.renderFrameLimit > 0 {
				elapsed := time.Since(lastRender)
				if remaining := e.renderFrameLimit - elapsed; remaining > 0 {
					time.Sleep(remaining)
				}
			}
		}
	}
}

func (e *engine) Resize(width, height int) {
	size := [2]int{width, height}
	select {
	case e.resizeChannel <- size:
	default:
		// Replace the pending size with the newer one.
		select {
		case <-e.resizeChannel:
		default:
		}
		e.resizeChannel <- size
	}
}

// EnableProfiler enables performance profiling output to the log.
func (e *engine) EnableProfiler() {
	e.profilingEnabled.Store(true)
}

// DisableProfiler disables performance profiling output.
func (e *engine) DisableProfiler() {
	e.profilingEnabled.Store(false)
}

func (e *engine) SetPaused(paused bool) {
	e.paused.Store(paused)
	common.Logger().Debug("render paused", "paused", paused)
}

func (e *engine) Paused() bool {
	return e.paused.Load()
}

// SetTickRate sets the engine tick rate in frames per second.
// If the engine is running, the change takes effect immediately.
func (e *engine) SetTickRate(fps float64) {
	if fps <= 0 {
		fps = 60
	}
	newRate := time.Second / time.Duration(fps)

	if e.running.Load() {
		// Non-blocking send - if channel is full, replace the pending value
		select {
		case e.tickRateChannel <- newRate:
		default:
			select {
			case <-e.tickRateChannel:
			default:
			}
			e.tickRateChannel <- newRate
		}
	} else {
		e.engineTickRate = newRate
	}
}

// SetTickCallback registers the function called each engine tick.
func (e *engine) SetTickCallback(callback func(deltaTime float32)) {
	e.tickCallback = callback
}

// SetRenderCallback registers the function called after each render frame.
func (e *engine) SetRenderCallback(callback func(deltaTime float32)) {
	e.renderCallback = callback
}

// SetRenderFrameLimit sets an optional render frame rate cap.
// Pass 0 to uncap the render loop.
func (e *engine) SetRenderFrameLimit(fps float64) {
	if fps <= 0 {
		e.renderFrameLimit = 0
		return
	}
	e.renderFrameLimit = time.Second / time.Duration(fps)
}
