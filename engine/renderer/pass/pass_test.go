package pass_test

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/attachment"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/device"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/pass"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/soft"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/soft/softtest"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/target"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/uniform"
)

type fixture struct {
	dev  *soft.Device
	quad device.Geometry
	a, b *target.RenderTarget
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dev := soft.NewDevice()
	quad, err := softtest.Quad(dev)
	require.NoError(t, err)
	a, err := target.NewWithAttachment(dev, attachment.KindColorOnly, 4, 4, attachment.WithLabel("a"))
	require.NoError(t, err)
	b, err := target.NewWithAttachment(dev, attachment.KindColorOnly, 4, 4, attachment.WithLabel("b"))
	require.NoError(t, err)
	return &fixture{dev: dev, quad: quad, a: a, b: b}
}

func (f *fixture) color(rt *target.RenderTarget) mgl32.Vec4 {
	return f.dev.Pixel(rt.Attachment().Color(), 1, 1)
}

func TestUniformPrecedence(t *testing.T) {
	f := newFixture(t)
	frame := softtest.ColorBag(1, 0, 0, 1)

	tests := []struct {
		name string
		pass uniform.Bag
		draw uniform.Bag
		want mgl32.Vec4
	}{
		{"frame only", nil, nil, mgl32.Vec4{1, 0, 0, 1}},
		{"pass over frame", softtest.ColorBag(0, 1, 0, 1), nil, mgl32.Vec4{0, 1, 0, 1}},
		{"draw over pass", softtest.ColorBag(0, 1, 0, 1), softtest.ColorBag(0, 0, 1, 1), mgl32.Vec4{0, 0, 1, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := pass.New(
				pass.WithLabel("fill"),
				pass.WithProgram(softtest.Fill()),
				pass.WithDestination(f.a),
				pass.WithDrawState(device.FullscreenDrawState()),
				pass.WithUniforms(tt.pass),
				pass.WithDraw(f.quad, tt.draw),
			)
			require.NoError(t, err)
			require.NoError(t, p.Run(frame))
			assert.Equal(t, tt.want, f.color(f.a))
		})
	}
}

func TestMissingUniformLeavesDestinationUntouched(t *testing.T) {
	f := newFixture(t)
	prog := softtest.Fill()
	p, err := pass.New(
		pass.WithLabel("fill"),
		pass.WithProgram(prog),
		pass.WithDestination(f.a),
		pass.WithClearColor(device.Color{R: 1, G: 1, B: 1, A: 1}),
		pass.WithDraw(f.quad, nil),
	)
	require.NoError(t, err)

	err = p.Run(nil)
	var drawErr *device.DrawError
	require.True(t, errors.As(err, &drawErr))
	assert.Equal(t, "fill", drawErr.Pass)
	assert.Equal(t, "fill", drawErr.Program)
	assert.ErrorIs(t, err, device.ErrUniformMissing)

	assert.Equal(t, mgl32.Vec4{}, f.color(f.a))
	assert.Zero(t, prog.VertexInvocations())
}

func TestInputSamplesEarlierTarget(t *testing.T) {
	f := newFixture(t)
	fill, err := pass.New(
		pass.WithProgram(softtest.Fill()),
		pass.WithDestination(f.a),
		pass.WithDrawState(device.FullscreenDrawState()),
		pass.WithDraw(f.quad, softtest.ColorBag(0.8, 0.4, 0, 1)),
	)
	require.NoError(t, err)
	cp, err := pass.New(
		pass.WithLabel("copy"),
		pass.WithProgram(softtest.Copy()),
		pass.WithDestination(f.b),
		pass.WithDrawState(device.FullscreenDrawState()),
		pass.WithInput(softtest.Source, f.a, attachment.ComponentColor),
		pass.WithUniforms(uniform.Bag{softtest.Scale: uniform.Float(0.5)}),
		pass.WithDraw(f.quad, nil),
	)
	require.NoError(t, err)
	assert.Equal(t, []*target.RenderTarget{f.a}, cp.Reads())

	require.NoError(t, fill.Run(nil))
	require.NoError(t, cp.Run(nil))
	got := f.color(f.b)
	assert.InDelta(t, 0.4, got[0], 1.0/255)
	assert.InDelta(t, 0.2, got[1], 1.0/255)
	assert.InDelta(t, 0.5, got[3], 1.0/255)
}

func TestInputFollowsResize(t *testing.T) {
	f := newFixture(t)
	cp, err := pass.New(
		pass.WithProgram(softtest.Copy()),
		pass.WithDestination(f.b),
		pass.WithDrawState(device.FullscreenDrawState()),
		pass.WithInput(softtest.Source, f.a, attachment.ComponentColor),
		pass.WithDraw(f.quad, uniform.Bag{softtest.Scale: uniform.Float(1)}),
	)
	require.NoError(t, err)

	require.NoError(t, f.a.Resize(2, 2))
	require.NoError(t, f.a.Bind(func(v *target.View) error {
		v.ClearColor(device.Color{G: 1, A: 1})
		return nil
	}))
	require.NoError(t, cp.Run(nil))
	assert.Equal(t, mgl32.Vec4{0, 1, 0, 1}, f.color(f.b))
}

func TestSelfReadPanics(t *testing.T) {
	f := newFixture(t)
	p, err := pass.New(
		pass.WithProgram(softtest.Copy()),
		pass.WithDestination(f.a),
		pass.WithInput(softtest.Source, f.a, attachment.ComponentColor),
		pass.WithDraw(f.quad, uniform.Bag{softtest.Scale: uniform.Float(1)}),
	)
	require.NoError(t, err)

	var perr error
	func() {
		defer func() { perr, _ = recover().(error) }()
		_ = p.Run(nil)
	}()
	assert.ErrorIs(t, perr, pass.ErrSelfRead)
	assert.False(t, f.a.Bound())
}

func TestMissingComponent(t *testing.T) {
	f := newFixture(t)
	p, err := pass.New(
		pass.WithProgram(softtest.Copy()),
		pass.WithDestination(f.b),
		pass.WithInput(softtest.Source, f.a, attachment.ComponentDepth),
		pass.WithDraw(f.quad, uniform.Bag{softtest.Scale: uniform.Float(1)}),
	)
	require.NoError(t, err)
	assert.ErrorIs(t, p.Run(nil), device.ErrTextureMissing)
}

func TestClearOnlyPass(t *testing.T) {
	f := newFixture(t)
	p, err := pass.New(
		pass.WithLabel("clear"),
		pass.WithDestination(f.a),
		pass.WithClearColor(device.Color{R: 1, A: 1}),
	)
	require.NoError(t, err)
	assert.Nil(t, p.Program())
	require.NoError(t, p.Run(nil))
	assert.Equal(t, mgl32.Vec4{1, 0, 0, 1}, f.color(f.a))
}

func TestNewValidation(t *testing.T) {
	f := newFixture(t)

	_, err := pass.New(pass.WithProgram(softtest.Fill()))
	assert.ErrorIs(t, err, pass.ErrNoDestination)

	_, err = pass.New(pass.WithDestination(f.a), pass.WithDraw(f.quad, nil))
	assert.ErrorIs(t, err, pass.ErrNoProgram)
}
