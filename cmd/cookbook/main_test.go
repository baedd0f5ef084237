package main

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-shade/scenes"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCommand()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append(args, "--log-level", "off"))
	err := root.Execute()
	return out.String(), err
}

func decodeSize(t *testing.T, path string) (int, int) {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	return img.Bounds().Dx(), img.Bounds().Dy()
}

func TestList(t *testing.T) {
	out, err := execute(t, "list")
	require.NoError(t, err)
	for _, name := range scenes.Names() {
		assert.Contains(t, out, name)
	}
	assert.Contains(t, out, "shadowMap(ShadowDepth)")
}

func TestRenderWritesScaledPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blur.png")
	_, err := execute(t, "render", "blur", "--out", path, "--width", "16", "--height", "12", "--scale", "2", "--frames", "2")
	require.NoError(t, err)

	w, h := decodeSize(t, path)
	assert.Equal(t, 32, w)
	assert.Equal(t, 24, h)
}

func TestRenderUsesConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "cookbook.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("[window]\nwidth = 8\nheight = 6\n\n[render]\nbackend = \"soft\"\nscale = 0.5\nworkers = 2\n"), 0o644))
	path := filepath.Join(dir, "edge.png")

	_, err := execute(t, "render", "edge", "--config", cfgPath, "--out", path)
	require.NoError(t, err)

	w, h := decodeSize(t, path)
	assert.Equal(t, 4, w)
	assert.Equal(t, 3, h)
}

func TestRenderErrors(t *testing.T) {
	_, err := execute(t, "render", "nope", "--out", filepath.Join(t.TempDir(), "x.png"))
	assert.ErrorIs(t, err, scenes.ErrUnknownScene)

	_, err = execute(t, "render", "blur", "--frames", "0", "--out", filepath.Join(t.TempDir(), "x.png"))
	assert.Error(t, err)

	_, err = execute(t, "render")
	assert.Error(t, err)
}

func TestRunRejectsSoftBackend(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "cookbook.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("[render]\nbackend = \"soft\"\n"), 0o644))

	_, err := execute(t, "run", "blur", "--config", cfgPath)
	assert.ErrorContains(t, err, "cannot present")
}
