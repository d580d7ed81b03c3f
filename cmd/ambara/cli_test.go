package main

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestPNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestListPrintsSixFilters(t *testing.T) {
	out, err := runCLI(t, "list")
	require.NoError(t, err)
	for _, id := range []string{"load", "save", "grayscale", "brightness", "gaussian_blur", "resize"} {
		assert.Contains(t, out, id)
	}
}

func TestInfoPrintsFilterDetails(t *testing.T) {
	out, err := runCLI(t, "info", "brightness")
	require.NoError(t, err)
	assert.Contains(t, out, "brightness")
	assert.Contains(t, out, "amount")
}

func TestInfoUnknownFilterFails(t *testing.T) {
	_, err := runCLI(t, "info", "not-a-filter")
	assert.Error(t, err)
}

func TestProcessGrayscaleWritesOutput(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	out := filepath.Join(dir, "out.png")
	writeTestPNG(t, in, 8, 8)

	_, err := runCLI(t, "process", in, out, "--grayscale")
	require.NoError(t, err)

	_, statErr := os.Stat(out)
	assert.NoError(t, statErr)
}

func TestProcessInvalidResizeDimsFails(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	out := filepath.Join(dir, "out.png")
	writeTestPNG(t, in, 4, 4)

	_, err := runCLI(t, "process", in, out, "--resize", "nonsense")
	assert.Error(t, err)
}
