package hdr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/soft"
	"github.com/Carmen-Shannon/oxy-shade/engine/scene"
	"github.com/Carmen-Shannon/oxy-shade/scenes/shaders"
)

func TestFailedFrameForgetsCachedAverage(t *testing.T) {
	s := New(WithObjects(nil), WithLuminanceSize(8), WithCachedLuminance(3)).(*hdrScene)
	r := scene.NewRunner(soft.NewDevice(), shaders.Soft(), s)
	require.NoError(t, r.Init(16, 16))
	defer r.Close()
	res := r.Resources()

	assert.True(t, s.reduce(res, scene.FrameInfo{Index: 0}))
	s.FinishFrame(scene.FrameInfo{Index: 0}, nil)
	assert.False(t, s.reduce(res, scene.FrameInfo{Index: 1}))

	s.FinishFrame(scene.FrameInfo{Index: 1}, errors.New("downsample failed"))
	assert.Nil(t, s.average)
	assert.True(t, s.reduce(res, scene.FrameInfo{Index: 2}))
	s.FinishFrame(scene.FrameInfo{Index: 2}, nil)
	assert.False(t, s.reduce(res, scene.FrameInfo{Index: 4}))
}
