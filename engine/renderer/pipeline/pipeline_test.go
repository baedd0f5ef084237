package pipeline_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/attachment"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/device"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/pass"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/soft"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/soft/softtest"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/target"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/uniform"
)

type chain struct {
	dev     *soft.Device
	quad    device.Geometry
	a, b, c *target.RenderTarget
}

func newChain(t *testing.T) *chain {
	t.Helper()
	dev := soft.NewDevice()
	quad, err := softtest.Quad(dev)
	require.NoError(t, err)
	ch := &chain{dev: dev, quad: quad}
	for _, p := range []struct {
		rt    **target.RenderTarget
		label string
	}{{&ch.a, "a"}, {&ch.b, "b"}, {&ch.c, "c"}} {
		*p.rt, err = target.NewWithAttachment(dev, attachment.KindColorOnly, 4, 4, attachment.WithLabel(p.label))
		require.NoError(t, err)
	}
	return ch
}

func (ch *chain) fill(t *testing.T, dest *target.RenderTarget) pass.Pass {
	t.Helper()
	p, err := pass.New(
		pass.WithLabel("fill "+dest.Label()),
		pass.WithProgram(softtest.Fill()),
		pass.WithDestination(dest),
		pass.WithDrawState(device.FullscreenDrawState()),
		pass.WithDraw(ch.quad, nil),
	)
	require.NoError(t, err)
	return p
}

func (ch *chain) copy(t *testing.T, prog device.Program, from, to *target.RenderTarget, scale float32) pass.Pass {
	t.Helper()
	p, err := pass.New(
		pass.WithLabel("copy "+from.Label()+" to "+to.Label()),
		pass.WithProgram(prog),
		pass.WithDestination(to),
		pass.WithDrawState(device.FullscreenDrawState()),
		pass.WithInput(softtest.Source, from, attachment.ComponentColor),
		pass.WithUniforms(uniform.Bag{softtest.Scale: uniform.Float(scale)}),
		pass.WithDraw(ch.quad, nil),
	)
	require.NoError(t, err)
	return p
}

func TestRunFrameInOrder(t *testing.T) {
	ch := newChain(t)
	var ran []string
	pl, err := pipeline.New([]pass.Pass{
		ch.fill(t, ch.a),
		ch.copy(t, softtest.Copy(), ch.a, ch.b, 0.5),
		ch.copy(t, softtest.Copy(), ch.b, ch.c, 1),
	}, pipeline.WithLabel("chain"), pipeline.WithPassObserver(func(label string, elapsed time.Duration, err error) {
		assert.NoError(t, err)
		assert.GreaterOrEqual(t, elapsed, time.Duration(0))
		ran = append(ran, label)
	}))
	require.NoError(t, err)
	assert.Equal(t, "chain", pl.Label())
	assert.Len(t, pl.Passes(), 3)

	require.NoError(t, pl.RunFrame(softtest.ColorBag(1, 0, 0, 1)))
	assert.Equal(t, []string{"fill a", "copy a to b", "copy b to c"}, ran)

	got := ch.dev.Pixel(ch.c.Attachment().Color(), 2, 2)
	assert.InDelta(t, 0.5, got[0], 1.0/255)
	assert.InDelta(t, 0, got[1], 1.0/255)
	assert.InDelta(t, 0.5, got[3], 1.0/255)
}

func TestForwardReferenceRejected(t *testing.T) {
	ch := newChain(t)
	_, err := pipeline.New([]pass.Pass{
		ch.copy(t, softtest.Copy(), ch.a, ch.b, 1),
		ch.fill(t, ch.a),
	})
	assert.ErrorIs(t, err, pipeline.ErrForwardReference)
}

func TestSelfReadRejected(t *testing.T) {
	ch := newChain(t)
	_, err := pipeline.New([]pass.Pass{
		ch.fill(t, ch.a),
		ch.copy(t, softtest.Copy(), ch.a, ch.a, 1),
	})
	assert.ErrorIs(t, err, pass.ErrSelfRead)
}

func TestExternalInputAllowed(t *testing.T) {
	ch := newChain(t)
	// a is written by no pass in this pipeline, so it is an external input.
	require.NoError(t, ch.a.Bind(func(v *target.View) error {
		v.ClearColor(device.Color{G: 1, A: 1})
		return nil
	}))
	pl, err := pipeline.New([]pass.Pass{
		ch.copy(t, softtest.Copy(), ch.a, ch.b, 1),
	})
	require.NoError(t, err)
	require.NoError(t, pl.RunFrame(nil))
	assert.Equal(t, float32(1), ch.dev.Pixel(ch.b.Attachment().Color(), 0, 0)[1])
}

func TestRewriteAfterReadAllowed(t *testing.T) {
	ch := newChain(t)
	// a is first written by pass 0, read by pass 1 and written again by pass 2.
	_, err := pipeline.New([]pass.Pass{
		ch.fill(t, ch.a),
		ch.copy(t, softtest.Copy(), ch.a, ch.b, 1),
		ch.copy(t, softtest.Copy(), ch.b, ch.a, 1),
	})
	assert.NoError(t, err)
}

func TestTargetTextureRejected(t *testing.T) {
	ch := newChain(t)
	sampled := func(tex device.Texture) pass.Pass {
		p, err := pass.New(
			pass.WithLabel("sample texture"),
			pass.WithProgram(softtest.Copy()),
			pass.WithDestination(ch.b),
			pass.WithDrawState(device.FullscreenDrawState()),
			pass.WithTexture(softtest.Source, tex),
			pass.WithUniforms(uniform.Bag{softtest.Scale: uniform.Float(1)}),
			pass.WithDraw(ch.quad, nil),
		)
		require.NoError(t, err)
		return p
	}

	// a is written by the pipeline, so its color must be read through WithInput.
	_, err := pipeline.New([]pass.Pass{
		ch.fill(t, ch.a),
		sampled(ch.a.Attachment().Color()),
	})
	assert.ErrorIs(t, err, pipeline.ErrTargetTexture)

	// Its own destination as a texture is rejected too.
	_, err = pipeline.New([]pass.Pass{sampled(ch.b.Attachment().Color())})
	assert.ErrorIs(t, err, pipeline.ErrTargetTexture)

	// c is never written here, so its color is an ordinary external texture.
	_, err = pipeline.New([]pass.Pass{
		ch.fill(t, ch.a),
		sampled(ch.c.Attachment().Color()),
	})
	assert.NoError(t, err)
}

func TestFailureStopsFrame(t *testing.T) {
	ch := newChain(t)
	last := softtest.Copy()

	// The middle pass sets no "scale" uniform, so its draw is rejected.
	broken, err := pass.New(
		pass.WithLabel("copy a to b"),
		pass.WithProgram(softtest.Copy()),
		pass.WithDestination(ch.b),
		pass.WithDrawState(device.FullscreenDrawState()),
		pass.WithInput(softtest.Source, ch.a, attachment.ComponentColor),
		pass.WithDraw(ch.quad, nil),
	)
	require.NoError(t, err)

	var observed []error
	pl, err := pipeline.New([]pass.Pass{
		ch.fill(t, ch.a),
		broken,
		ch.copy(t, last, ch.b, ch.c, 1),
	}, pipeline.WithPassObserver(func(_ string, _ time.Duration, err error) {
		observed = append(observed, err)
	}))
	require.NoError(t, err)

	err = pl.RunFrame(softtest.ColorBag(0, 1, 0, 1))
	var drawErr *device.DrawError
	require.True(t, errors.As(err, &drawErr))
	assert.Equal(t, "copy a to b", drawErr.Pass)
	assert.ErrorIs(t, err, device.ErrUniformMissing)

	require.Len(t, observed, 2)
	assert.NoError(t, observed[0])
	assert.Error(t, observed[1])
	assert.InDelta(t, 1, ch.dev.Pixel(ch.a.Attachment().Color(), 1, 1)[1], 1.0/255)
	assert.Zero(t, last.VertexInvocations())
}

func TestFailureInFirstPass(t *testing.T) {
	ch := newChain(t)
	last := softtest.Copy()
	pl, err := pipeline.New([]pass.Pass{
		ch.fill(t, ch.a),
		ch.copy(t, last, ch.a, ch.b, 1),
	})
	require.NoError(t, err)

	// No "color" uniform: the fill pass is rejected.
	err = pl.RunFrame(nil)
	var drawErr *device.DrawError
	require.True(t, errors.As(err, &drawErr))
	assert.Equal(t, "fill a", drawErr.Pass)
	assert.Zero(t, last.VertexInvocations())
}
