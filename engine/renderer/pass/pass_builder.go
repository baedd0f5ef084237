package pass

import (
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/attachment"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/device"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/target"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/uniform"
)

// PassBuilderOption is a functional option used to configure a Pass during construction.
type PassBuilderOption func(*passImpl)

// WithLabel sets the pass label reported in errors and profiler output.
//
// Parameters:
//   - label: the pass label
//
// Returns:
//   - PassBuilderOption: a function that sets the label
func WithLabel(label string) PassBuilderOption {
	return func(p *passImpl) {
		p.label = label
	}
}

// WithProgram sets the program used for every draw of the pass.
//
// Parameters:
//   - program: the shader program
//
// Returns:
//   - PassBuilderOption: a function that sets the program
func WithProgram(program device.Program) PassBuilderOption {
	return func(p *passImpl) {
		p.program = program
	}
}

// WithDestination sets the render target or display the pass writes.
//
// Parameters:
//   - dest: the write destination
//
// Returns:
//   - PassBuilderOption: a function that sets the destination
func WithDestination(dest target.Destination) PassBuilderOption {
	return func(p *passImpl) {
		p.dest = dest
	}
}

// WithDrawState replaces the whole draw state. The default is device.DefaultDrawState.
//
// Parameters:
//   - state: the draw state
//
// Returns:
//   - PassBuilderOption: a function that sets the draw state
func WithDrawState(state device.DrawState) PassBuilderOption {
	return func(p *passImpl) {
		p.state = state
	}
}

// WithDepthTestEnabled sets whether fragments are depth tested.
//
// Parameters:
//   - enabled: whether depth testing is enabled
//
// Returns:
//   - PassBuilderOption: a function that sets the depth test state
func WithDepthTestEnabled(enabled bool) PassBuilderOption {
	return func(p *passImpl) {
		p.state.DepthTest = enabled
	}
}

// WithDepthWriteEnabled sets whether passing fragments write depth.
//
// Parameters:
//   - enabled: whether depth writes are enabled
//
// Returns:
//   - PassBuilderOption: a function that sets the depth write state
func WithDepthWriteEnabled(enabled bool) PassBuilderOption {
	return func(p *passImpl) {
		p.state.DepthWrite = enabled
	}
}

// WithDepthBias sets the constant depth bias, typically for shadow casters.
//
// Parameters:
//   - bias: the window-space depth offset
//
// Returns:
//   - PassBuilderOption: a function that sets the depth bias
func WithDepthBias(bias float32) PassBuilderOption {
	return func(p *passImpl) {
		p.state.DepthBias = bias
	}
}

// WithBlend sets the blend mode.
//
// Parameters:
//   - mode: the blend mode
//
// Returns:
//   - PassBuilderOption: a function that sets the blend mode
func WithBlend(mode device.BlendMode) PassBuilderOption {
	return func(p *passImpl) {
		p.state.Blend = mode
	}
}

// WithCullMode sets which faces are culled.
//
// Parameters:
//   - mode: the cull mode
//
// Returns:
//   - PassBuilderOption: a function that sets the cull mode
func WithCullMode(mode device.CullMode) PassBuilderOption {
	return func(p *passImpl) {
		p.state.Cull = mode
	}
}

// WithViewport restricts drawing to a pixel rectangle.
//
// Parameters:
//   - vp: the viewport; the zero value covers the whole destination
//
// Returns:
//   - PassBuilderOption: a function that sets the viewport
func WithViewport(vp device.Viewport) PassBuilderOption {
	return func(p *passImpl) {
		p.viewport = vp
	}
}

// WithInput samples a component of rt's attachment under the texture uniform name.
//
// Parameters:
//   - name: the texture uniform name
//   - rt: the render target produced by an earlier pass
//   - component: the attachment component to sample
//
// Returns:
//   - PassBuilderOption: a function that adds the input
func WithInput(name string, rt *target.RenderTarget, component attachment.Component) PassBuilderOption {
	return func(p *passImpl) {
		p.inputs = append(p.inputs, Input{Name: name, Target: rt, Component: component})
	}
}

// WithTexture binds an external texture, such as a decoded image, under a uniform name.
// Components of render targets go through WithInput instead; pipeline.New rejects a texture
// owned by a target the pipeline writes.
//
// Parameters:
//   - name: the texture uniform name
//   - tex: the texture
//
// Returns:
//   - PassBuilderOption: a function that binds the texture
func WithTexture(name string, tex device.Texture) PassBuilderOption {
	return func(p *passImpl) {
		p.textures[name] = tex
	}
}

// WithUniforms adds pass-level uniforms. They override frame uniforms and are overridden by
// per-draw uniforms.
//
// Parameters:
//   - bag: the uniforms
//
// Returns:
//   - PassBuilderOption: a function that merges the uniforms
func WithUniforms(bag uniform.Bag) PassBuilderOption {
	return func(p *passImpl) {
		for k, v := range bag {
			p.uniforms[k] = v
		}
	}
}

// WithDraw appends a draw of geometry with per-draw uniforms.
//
// Parameters:
//   - geometry: the geometry to draw
//   - bag: per-draw uniforms, may be nil
//
// Returns:
//   - PassBuilderOption: a function that appends the draw
func WithDraw(geometry device.Geometry, bag uniform.Bag) PassBuilderOption {
	return func(p *passImpl) {
		p.draws = append(p.draws, Draw{Geometry: geometry, Uniforms: bag})
	}
}

// WithClearColor clears every color output before drawing.
//
// Parameters:
//   - c: the clear color
//
// Returns:
//   - PassBuilderOption: a function that sets the clear color
func WithClearColor(c device.Color) PassBuilderOption {
	return func(p *passImpl) {
		p.clearColor = &c
	}
}

// WithClearDepth clears the depth output before drawing.
//
// Parameters:
//   - d: the clear depth
//
// Returns:
//   - PassBuilderOption: a function that sets the clear depth
func WithClearDepth(d float32) PassBuilderOption {
	return func(p *passImpl) {
		p.clearDepth = &d
	}
}
