package scenes_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/soft"
	"github.com/Carmen-Shannon/oxy-shade/engine/scene"
	"github.com/Carmen-Shannon/oxy-shade/scenes"
	"github.com/Carmen-Shannon/oxy-shade/scenes/shaders"
)

func TestNames(t *testing.T) {
	assert.Equal(t, []string{"bloom", "blur", "deferred", "edge", "hdr", "shadow", "ssao"}, scenes.Names())
}

func TestLookupUnknown(t *testing.T) {
	_, err := scenes.Lookup("nope")
	assert.ErrorIs(t, err, scenes.ErrUnknownScene)
}

func TestEveryScene(t *testing.T) {
	for _, name := range scenes.Names() {
		t.Run(name, func(t *testing.T) {
			sc, err := scenes.Lookup(name)
			require.NoError(t, err)
			assert.Equal(t, name, sc.Name())

			dev := soft.NewDevice()
			r := scene.NewRunner(dev, shaders.Soft(), sc)
			require.NoError(t, r.Init(24, 16))
			require.NoError(t, r.Frame())

			// The view axis hits the floor; the top corner sees past it.
			assert.NotEqual(t, dev.DisplayPixel(0, 0), dev.DisplayPixel(12, 8))

			r.Resize(20, 12)
			require.NoError(t, r.Frame())
			assert.Equal(t, 20, dev.Display().Width())
			assert.Equal(t, 2, dev.Frames())

			r.Close()
			assert.Equal(t, 0, dev.LiveTextures())
		})
	}
}
