package scene

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-shade/common"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/attachment"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/device"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/target"
)

// State is the lifecycle state of a Runner.
type State uint8

const (
	StateUninitialized State = iota
	StateReady
	StateRendering
	StateInvalidated
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "Uninitialized"
	case StateReady:
		return "Ready"
	case StateRendering:
		return "Rendering"
	case StateInvalidated:
		return "Invalidated"
	case StateClosed:
		return "Closed"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}

var (
	// ErrNotInitialized is returned by Frame before Init.
	ErrNotInitialized = errors.New("runner not initialized")

	// ErrClosed is returned by any operation after Close.
	ErrClosed = errors.New("runner closed")

	// ErrBadState is returned when an operation is invalid in the current state.
	ErrBadState = errors.New("invalid runner state")
)

type runnerImpl struct {
	mu *sync.Mutex

	scene   Scene
	res     *Resources
	specs   []TargetSpec
	state   State
	width   int
	height  int
	pending [2]int
	frame   uint64
	started time.Time
	last    time.Time
}

// Runner drives one scene through its lifecycle:
//
//	Uninitialized -> Ready -> Rendering -> Ready -> ... -> Invalidated -> Ready
//
// A resize moves the runner to Invalidated; the next frame recreates every render target at
// the new size before any pass runs, so a frame never sees stale sizes.
type Runner interface {
	// State returns the current lifecycle state.
	State() State

	// Size returns the current display size.
	Size() (int, int)

	// Resources returns the resources owned by the runner.
	Resources() *Resources

	// Init sizes the display, allocates every declared target and calls Scene.Setup.
	//
	// Parameters:
	//   - width, height: the initial display size
	//
	// Returns:
	//   - error: an allocation or setup error; the runner stays Uninitialized
	Init(width, height int) error

	// Resize records a new display size and invalidates every target.
	//
	// Parameters:
	//   - width, height: the new display size; zero dimensions suspend rendering
	Resize(width, height int)

	// Frame renders and presents one frame. A failed frame is dropped and its error returned.
	//
	// Returns:
	//   - error: the rebuild or pipeline error, if any
	Frame() error

	// Close releases every target and the scene.
	Close()
}

var _ Runner = &runnerImpl{}

// NewRunner creates a runner for sc on dev.
//
// Parameters:
//   - dev: the device to render with
//   - programs: the program library for dev
//   - sc: the scene
//   - options: functional options
//
// Returns:
//   - Runner: the runner, in StateUninitialized
func NewRunner(dev device.Device, programs device.ProgramLibrary, sc Scene, options ...RunnerBuilderOption) Runner {
	r := &runnerImpl{
		mu:    &sync.Mutex{},
		scene: sc,
		res: &Resources{
			Device:   dev,
			Programs: programs,
			Display:  target.NewDisplay(dev),
			Targets:  make(map[string]*target.RenderTarget),
		},
		specs: sc.Targets(),
		state: StateUninitialized,
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

func (r *runnerImpl) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

func (r *runnerImpl) Size() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.width, r.height
}

func (r *runnerImpl) Resources() *Resources { return r.res }

func (r *runnerImpl) Init(width, height int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != StateUninitialized {
		return fmt.Errorf("init in state %s: %w", r.state, ErrBadState)
	}

	if err := r.res.Display.Resize(width, height); err != nil {
		return err
	}
	for _, spec := range r.specs {
		w, h := spec.Size(width, height)
		rt, err := target.NewWithAttachment(r.res.Device, spec.Kind, w, h, r.attachmentOptions(spec)...)
		if err != nil {
			r.releaseTargets()
			return fmt.Errorf("scene %q: target %q: %w", r.scene.Name(), spec.Name, err)
		}
		r.res.Targets[spec.Name] = rt
	}
	if err := r.scene.Setup(r.res); err != nil {
		r.releaseTargets()
		return fmt.Errorf("scene %q: setup: %w", r.scene.Name(), err)
	}

	r.width, r.height = width, height
	r.pending = [2]int{width, height}
	r.started = time.Now()
	r.last = r.started
	r.state = StateReady
	common.Logger().Debug("scene ready", "scene", r.scene.Name(), "width", width, "height", height, "targets", len(r.specs))
	return nil
}

func (r *runnerImpl) attachmentOptions(spec TargetSpec) []attachment.AttachmentBuilderOption {
	return append([]attachment.AttachmentBuilderOption{attachment.WithLabel(spec.Name)}, spec.Options...)
}

func (r *runnerImpl) Resize(width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == StateUninitialized || r.state == StateClosed {
		return
	}
	if r.state == StateRendering {
		panic(fmt.Errorf("scene %q: resize during frame: %w", r.scene.Name(), ErrBadState))
	}
	r.pending = [2]int{width, height}
	if width == r.width && height == r.height && r.state == StateReady {
		return
	}
	r.state = StateInvalidated
	common.Logger().Debug("scene invalidated", "scene", r.scene.Name(), "width", width, "height", height)
}

// rebuild recreates every target at the pending size. On failure the runner stays Invalidated
// and targets already resized keep their new size; the next frame retries.
func (r *runnerImpl) rebuild() error {
	w, h := r.pending[0], r.pending[1]
	if err := r.res.Display.Resize(w, h); err != nil {
		return err
	}
	for _, spec := range r.specs {
		tw, th := spec.Size(w, h)
		if err := r.res.Targets[spec.Name].Resize(tw, th); err != nil {
			return fmt.Errorf("scene %q: %w", r.scene.Name(), err)
		}
	}
	r.width, r.height = w, h
	r.state = StateReady
	common.Logger().Debug("scene rebuilt", "scene", r.scene.Name(), "width", w, "height", h)
	return nil
}

func (r *runnerImpl) Frame() error {
	r.mu.Lock()
	switch r.state {
	case StateUninitialized:
		r.mu.Unlock()
		return ErrNotInitialized
	case StateClosed:
		r.mu.Unlock()
		return ErrClosed
	case StateInvalidated:
		if r.pending[0] <= 0 || r.pending[1] <= 0 {
			r.mu.Unlock()
			return nil
		}
		if err := r.rebuild(); err != nil {
			r.mu.Unlock()
			return err
		}
	}
	r.state = StateRendering
	now := time.Now()
	info := FrameInfo{
		Index:   r.frame,
		Elapsed: now.Sub(r.started),
		Delta:   now.Sub(r.last),
		Width:   r.width,
		Height:  r.height,
	}
	r.last = now
	r.frame++
	r.mu.Unlock()

	err := r.render(info)

	r.mu.Lock()
	r.state = StateReady
	r.mu.Unlock()
	if err != nil {
		common.Logger().Warn("frame dropped", "scene", r.scene.Name(), "frame", info.Index, "err", err)
	}
	return err
}

func (r *runnerImpl) render(info FrameInfo) (err error) {
	if f, ok := r.scene.(FrameFinisher); ok {
		defer func() { f.FinishFrame(info, err) }()
	}
	pl, frame, err := r.scene.Frame(r.res, info)
	if err != nil {
		return fmt.Errorf("scene %q: frame %d: %w", r.scene.Name(), info.Index, err)
	}
	if err := pl.RunFrame(frame); err != nil {
		return fmt.Errorf("scene %q: frame %d: %w", r.scene.Name(), info.Index, err)
	}
	return r.res.Display.Present()
}

func (r *runnerImpl) releaseTargets() {
	for name, rt := range r.res.Targets {
		rt.Release()
		delete(r.res.Targets, name)
	}
}

func (r *runnerImpl) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == StateClosed {
		return
	}
	if r.state != StateUninitialized {
		r.scene.Release()
	}
	r.releaseTargets()
	r.state = StateClosed
}
