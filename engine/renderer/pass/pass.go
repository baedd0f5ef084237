package pass

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/attachment"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/device"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/target"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/uniform"
)

var (
	// ErrSelfRead is the panic value when a pass samples its own destination.
	ErrSelfRead = errors.New("pass samples its own destination")

	// ErrNoDestination is returned by New when no destination was configured.
	ErrNoDestination = errors.New("pass has no destination")

	// ErrNoProgram is returned by New when draws are configured without a program.
	ErrNoProgram = errors.New("pass has draws but no program")
)

// Input binds one component of a render target's attachment to a texture uniform.
// It is resolved each time the pass runs, so it always sees the target's current attachment.
type Input struct {
	Name      string
	Target    *target.RenderTarget
	Component attachment.Component
}

// Draw is one geometry drawn by a pass with its per-draw uniforms.
type Draw struct {
	Geometry device.Geometry
	Uniforms uniform.Bag
}

type passImpl struct {
	label    string
	program  device.Program
	dest     target.Destination
	state    device.DrawState
	viewport device.Viewport

	inputs   []Input
	textures map[string]device.Texture
	uniforms uniform.Bag
	draws    []Draw

	clearColor *device.Color
	clearDepth *float32
}

// Pass is one program drawing into one destination while sampling zero or more earlier outputs.
// A Pass holds no device resources of its own.
type Pass interface {
	// Label returns the pass label.
	Label() string

	// Program returns the program, or nil for a clear-only pass.
	Program() device.Program

	// Inputs returns the render-target inputs sampled by the pass.
	Inputs() []Input

	// Reads returns the distinct render targets the pass samples.
	Reads() []*target.RenderTarget

	// Textures returns the external textures bound with WithTexture, by uniform name.
	Textures() map[string]device.Texture

	// Writes returns the destination the pass writes. A pass writes exactly one destination.
	Writes() target.Destination

	// Run binds the destination, applies clears and issues every draw.
	//
	// Parameters:
	//   - frame: frame-level uniforms, lowest precedence
	//
	// Returns:
	//   - error: a *device.DrawError on any rejected draw
	Run(frame uniform.Bag) error
}

var _ Pass = &passImpl{}

// New builds a pass from options. A pass with no draws only applies its clears.
//
// Parameters:
//   - options: functional options
//
// Returns:
//   - Pass: the pass
//   - error: ErrNoDestination or ErrNoProgram on incomplete configuration
func New(options ...PassBuilderOption) (Pass, error) {
	p := &passImpl{
		label:    "pass",
		state:    device.DefaultDrawState(),
		textures: make(map[string]device.Texture),
		uniforms: uniform.Bag{},
	}
	for _, opt := range options {
		opt(p)
	}
	if p.dest == nil {
		return nil, fmt.Errorf("pass %q: %w", p.label, ErrNoDestination)
	}
	if p.program == nil && len(p.draws) > 0 {
		return nil, fmt.Errorf("pass %q: %w", p.label, ErrNoProgram)
	}
	return p, nil
}

func (p *passImpl) Label() string              { return p.label }
func (p *passImpl) Program() device.Program    { return p.program }
func (p *passImpl) Inputs() []Input            { return p.inputs }
func (p *passImpl) Writes() target.Destination { return p.dest }

func (p *passImpl) Textures() map[string]device.Texture {
	out := make(map[string]device.Texture, len(p.textures))
	for name, tex := range p.textures {
		out[name] = tex
	}
	return out
}

func (p *passImpl) Reads() []*target.RenderTarget {
	var out []*target.RenderTarget
	seen := make(map[*target.RenderTarget]bool)
	for _, in := range p.inputs {
		if !seen[in.Target] {
			seen[in.Target] = true
			out = append(out, in.Target)
		}
	}
	return out
}

// resolve builds the pass-level uniform bag: frame values, then the pass's own uniforms,
// then its external textures and render-target inputs.
func (p *passImpl) resolve(frame uniform.Bag) (uniform.Bag, error) {
	bag := uniform.Merge(frame, p.uniforms)
	for name, tex := range p.textures {
		if tex.Released() {
			return nil, fmt.Errorf("texture %q: %w", name, device.ErrReleased)
		}
		bag[name] = uniform.Tex(tex)
	}
	for _, in := range p.inputs {
		if target.Destination(in.Target) == p.dest {
			panic(fmt.Errorf("pass %q: input %q: %w", p.label, in.Name, ErrSelfRead))
		}
		att := in.Target.Attachment()
		tex, ok := att.Component(in.Component)
		if !ok {
			return nil, fmt.Errorf("input %q: %s attachment %q has no %s component: %w",
				in.Name, att.Kind(), att.Label(), in.Component, device.ErrTextureMissing)
		}
		if tex.Released() {
			return nil, fmt.Errorf("input %q: %w", in.Name, device.ErrReleased)
		}
		bag[in.Name] = uniform.Tex(tex)
	}
	return bag, nil
}

func (p *passImpl) Run(frame uniform.Bag) error {
	program := "<none>"
	if p.program != nil {
		program = p.program.Label()
	}

	bag, err := p.resolve(frame)
	if err != nil {
		return device.AsDrawError(err, p.label, program)
	}

	// Validate every draw before binding so a rejected pass leaves its destination untouched.
	calls := make([]device.DrawCall, len(p.draws))
	for i, d := range p.draws {
		merged := uniform.Merge(bag, d.Uniforms)
		if err := p.program.Descriptor().Validate(merged); err != nil {
			return device.AsDrawError(err, p.label, program)
		}
		calls[i] = device.DrawCall{
			Program:  p.program,
			Geometry: d.Geometry,
			State:    p.state,
			Viewport: p.viewport,
			Uniforms: merged,
		}
	}

	err = p.dest.Bind(func(v *target.View) error {
		if p.clearColor != nil {
			v.ClearColor(*p.clearColor)
		}
		if p.clearDepth != nil {
			v.ClearDepth(*p.clearDepth)
		}
		for _, call := range calls {
			if err := v.Draw(call); err != nil {
				return err
			}
		}
		return nil
	})
	return device.AsDrawError(err, p.label, program)
}
