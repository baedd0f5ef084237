package pipeline

import (
	"errors"
	"fmt"
	"time"

	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/device"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/pass"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/target"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/uniform"
)

var (
	// ErrForwardReference is returned when a pass samples a target that only a later pass writes.
	ErrForwardReference = errors.New("pass reads a target written only by a later pass")

	// ErrTargetTexture is returned when a pass binds a component of a target the pipeline writes
	// as an external texture. Such reads must be declared with pass.WithInput.
	ErrTargetTexture = errors.New("external texture belongs to a render target written by the pipeline")
)

// PassObserver is notified after every pass that runs, including the one that failed.
type PassObserver func(label string, elapsed time.Duration, err error)

// pipeline is the implementation of the Pipeline interface.
type pipeline struct {
	label    string
	passes   []pass.Pass
	observer PassObserver
}

// Pipeline is an ordered list of passes run once per frame. The declared order is the whole
// dependency graph: a pass may only sample targets produced by strictly earlier passes, or
// targets no pass in the pipeline writes (external inputs such as the previous frame's
// ping-pong buffer).
type Pipeline interface {
	// Label returns the pipeline label.
	Label() string

	// Passes returns the passes in execution order.
	Passes() []pass.Pass

	// RunFrame runs every pass in order and stops at the first error.
	//
	// Parameters:
	//   - frame: frame-level uniforms shared by every pass
	//
	// Returns:
	//   - error: the first pass error, wrapped with the pass position and label
	RunFrame(frame uniform.Bag) error
}

var _ Pipeline = &pipeline{}

// New validates the pass order and builds a pipeline.
//
// Parameters:
//   - passes: the passes in execution order
//   - options: functional options
//
// Returns:
//   - Pipeline: the pipeline
//   - error: wraps ErrForwardReference, ErrTargetTexture or pass.ErrSelfRead on an invalid order
func New(passes []pass.Pass, options ...PipelineBuilderOption) (Pipeline, error) {
	p := &pipeline{
		label:  "pipeline",
		passes: append([]pass.Pass(nil), passes...),
	}
	for _, opt := range options {
		opt(p)
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *pipeline) validate() error {
	writtenAt := make(map[target.Destination][]int)
	owners := make(map[device.Texture]*target.RenderTarget)
	for i, ps := range p.passes {
		writtenAt[ps.Writes()] = append(writtenAt[ps.Writes()], i)
		if rt, ok := ps.Writes().(*target.RenderTarget); ok {
			att := rt.Attachment()
			for _, c := range att.Components() {
				if tex, ok := att.Component(c); ok {
					owners[tex] = rt
				}
			}
		}
	}

	for i, ps := range p.passes {
		for _, rt := range ps.Reads() {
			dest := target.Destination(rt)
			if dest == ps.Writes() {
				return fmt.Errorf("%s: pass %d (%s) reads %q: %w", p.label, i, ps.Label(), rt.Label(), pass.ErrSelfRead)
			}
			writers, ok := writtenAt[dest]
			if !ok {
				continue
			}
			if writers[0] > i {
				return fmt.Errorf("%s: pass %d (%s) reads %q first written by pass %d: %w",
					p.label, i, ps.Label(), rt.Label(), writers[0], ErrForwardReference)
			}
		}
		for name, tex := range ps.Textures() {
			if rt, ok := owners[tex]; ok {
				return fmt.Errorf("%s: pass %d (%s) texture %q is a component of %q: %w",
					p.label, i, ps.Label(), name, rt.Label(), ErrTargetTexture)
			}
		}
	}
	return nil
}

func (p *pipeline) Label() string       { return p.label }
func (p *pipeline) Passes() []pass.Pass { return p.passes }

func (p *pipeline) RunFrame(frame uniform.Bag) error {
	for i, ps := range p.passes {
		start := time.Now()
		err := ps.Run(frame)
		if p.observer != nil {
			p.observer(ps.Label(), time.Since(start), err)
		}
		if err != nil {
			return fmt.Errorf("%s: pass %d (%s): %w", p.label, i, ps.Label(), err)
		}
	}
	return nil
}
