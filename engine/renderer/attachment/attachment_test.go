package attachment_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/attachment"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/device"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/soft"
)

func TestNewKinds(t *testing.T) {
	tests := []struct {
		kind       attachment.Kind
		components []attachment.Component
		colors     int
		hasDepth   bool
	}{
		{attachment.KindColorOnly, []attachment.Component{attachment.ComponentColor}, 1, false},
		{attachment.KindColorDepth, []attachment.Component{attachment.ComponentColor, attachment.ComponentDepth}, 1, true},
		{attachment.KindShadowDepth, []attachment.Component{attachment.ComponentDepth}, 0, true},
		{attachment.KindDeferredGeometry, []attachment.Component{
			attachment.ComponentPosition, attachment.ComponentNormal, attachment.ComponentAlbedo, attachment.ComponentDepth,
		}, 3, true},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			dev := soft.NewDevice()
			att, err := attachment.New(dev, tt.kind, 32, 16, attachment.WithLabel("gbuf"))
			require.NoError(t, err)
			defer att.Release()

			assert.Equal(t, tt.kind, att.Kind())
			assert.Equal(t, tt.components, att.Components())
			assert.Len(t, att.ColorTextures(), tt.colors)
			assert.Equal(t, tt.hasDepth, att.Depth() != nil)
			assert.Equal(t, len(tt.components), dev.LiveTextures())
			for _, c := range tt.components {
				tex, ok := att.Component(c)
				require.True(t, ok, c)
				assert.Equal(t, 32, tex.Width())
				assert.Equal(t, 16, tex.Height())
				assert.Equal(t, "gbuf."+string(c), tex.Label())
			}
		})
	}
}

func TestDefaultFormats(t *testing.T) {
	dev := soft.NewDevice()
	att, err := attachment.New(dev, attachment.KindDeferredGeometry, 4, 4)
	require.NoError(t, err)
	defer att.Release()

	assert.Equal(t, device.FormatRGBA32Float, att.Position().Format())
	assert.Equal(t, device.FormatRGBA16Float, att.Normal().Format())
	assert.Equal(t, device.FormatRGBA8Unorm, att.Albedo().Format())
	assert.Equal(t, device.FormatDepth32Float, att.Depth().Format())

	_, ok := att.Component(attachment.ComponentColor)
	assert.False(t, ok)
	assert.Nil(t, att.Color())
}

func TestNewReleasesOnPartialFailure(t *testing.T) {
	dev := soft.NewDevice(soft.WithUnsupportedFormats(device.FormatDepth32Float))

	_, err := attachment.New(dev, attachment.KindDeferredGeometry, 8, 8)
	require.Error(t, err)

	var allocErr *device.AllocationError
	require.True(t, errors.As(err, &allocErr))
	assert.ErrorIs(t, err, device.ErrFormatUnsupported)
	assert.Equal(t, device.FormatDepth32Float, allocErr.Format)
	assert.Equal(t, 0, dev.LiveTextures())
}

func TestNewInvalidSize(t *testing.T) {
	dev := soft.NewDevice(soft.WithMaxTextureDimension(64))

	_, err := attachment.New(dev, attachment.KindColorDepth, 65, 8)
	assert.ErrorIs(t, err, device.ErrInvalidSize)
	_, err = attachment.New(dev, attachment.KindColorOnly, 0, 8)
	assert.ErrorIs(t, err, device.ErrInvalidSize)
	assert.Equal(t, 0, dev.LiveTextures())
}

func TestNewUnknownKind(t *testing.T) {
	_, err := attachment.New(soft.NewDevice(), attachment.Kind(42), 4, 4)
	assert.ErrorIs(t, err, attachment.ErrUnknownKind)
}

func TestRecreate(t *testing.T) {
	dev := soft.NewDevice()
	att, err := attachment.New(dev, attachment.KindColorDepth, 4, 4,
		attachment.WithLabel("hdr"),
		attachment.WithColorFormat(device.FormatRGBA16Float),
	)
	require.NoError(t, err)

	next, err := att.Recreate(8, 2)
	require.NoError(t, err)
	assert.False(t, att.Released())
	assert.Equal(t, 4, dev.LiveTextures())

	assert.Equal(t, "hdr", next.Label())
	assert.Equal(t, 8, next.Width())
	assert.Equal(t, 2, next.Height())
	assert.Equal(t, device.FormatRGBA16Float, next.Color().Format())

	att.Release()
	next.Release()
	assert.Equal(t, 0, dev.LiveTextures())
}

func TestReleaseIdempotent(t *testing.T) {
	dev := soft.NewDevice()
	att, err := attachment.New(dev, attachment.KindColorDepth, 4, 4)
	require.NoError(t, err)

	att.Release()
	att.Release()
	assert.True(t, att.Released())
	assert.True(t, att.Color().Released())
	assert.Equal(t, 0, dev.LiveTextures())
}
