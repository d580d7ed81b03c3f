package builtin

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ambarahq/ambara/filter"
	"github.com/ambarahq/ambara/value"
)

func execCtx(inputs, params map[string]value.Value) *filter.ExecutionContext {
	return filter.NewExecutionContext(context.Background(), "n1", inputs, params, 0, false, 0, 0, nil)
}

func writeTestPNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(x * 20), G: uint8(y * 20), B: 100, A: 255})
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
}

func TestLoadExecuteDecodesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "in.png")
	writeTestPNG(t, path, 8, 6)

	l := NewLoad()
	ctx := execCtx(nil, map[string]value.Value{"path": value.NewString(path)})
	require.NoError(t, l.Execute(ctx))

	img, ok := ctx.Outputs()["image"].AsImage()
	require.True(t, ok)
	assert.Equal(t, 8, img.Meta.Width)
	assert.Equal(t, 6, img.Meta.Height)
}

func TestLoadValidateRejectsEmptyPath(t *testing.T) {
	l := NewLoad()
	vctx := &filter.ValidationContext{NodeID: "n1", Parameters: map[string]value.Value{"path": value.NewString("")}}
	assert.Error(t, l.Validate(vctx))
}

func TestSaveExecuteWritesFile(t *testing.T) {
	dir := t.TempDir()
	outPath := filepath.Join(dir, "out.png")

	pix := make([]byte, 4*4*4)
	for i := range pix {
		pix[i] = byte(i % 255)
	}
	img := value.NewImagePixels(value.Metadata{Width: 4, Height: 4, Format: value.FormatRGBA8, HasAlpha: true}, value.Origin{}, pix)

	s := NewSave()
	ctx := execCtx(map[string]value.Value{"image": value.NewImage(img)}, map[string]value.Value{"path": value.NewString(outPath)})
	require.NoError(t, s.Execute(ctx))

	_, err := os.Stat(outPath)
	require.NoError(t, err)
}

func TestGrayscaleProducesEqualChannels(t *testing.T) {
	pix := make([]byte, 4*4*4)
	for i := 0; i < len(pix); i += 4 {
		pix[i], pix[i+1], pix[i+2], pix[i+3] = 10, 200, 50, 255
	}
	img := value.NewImagePixels(value.Metadata{Width: 4, Height: 4, Format: value.FormatRGBA8, HasAlpha: true}, value.Origin{}, pix)

	g := NewGrayscale()
	ctx := execCtx(map[string]value.Value{"image": value.NewImage(img)}, nil)
	require.NoError(t, g.Execute(ctx))

	out, ok := ctx.Outputs()["image"].AsImage()
	require.True(t, ok)
	outPix := out.Pixels()
	for i := 0; i < len(outPix); i += 4 {
		assert.Equal(t, outPix[i], outPix[i+1])
		assert.Equal(t, outPix[i+1], outPix[i+2])
	}
}

func TestBrightnessClampsAtBoundaries(t *testing.T) {
	pix := []byte{250, 5, 128, 255}
	img := value.NewImagePixels(value.Metadata{Width: 1, Height: 1, Format: value.FormatRGBA8, HasAlpha: true}, value.Origin{}, pix)

	b := NewBrightness()
	ctx := execCtx(map[string]value.Value{"image": value.NewImage(img)}, map[string]value.Value{"amount": value.NewFloat(1.0)})
	require.NoError(t, b.Execute(ctx))

	out, ok := ctx.Outputs()["image"].AsImage()
	require.True(t, ok)
	outPix := out.Pixels()
	assert.Equal(t, byte(255), outPix[0])
	assert.Equal(t, byte(255), outPix[1])
	assert.Equal(t, byte(255), outPix[2])
}

func TestGaussianBlurSmoothsACheckerboard(t *testing.T) {
	w, h := 16, 16
	pix := make([]byte, w*h*4)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			off := (y*w + x) * 4
			v := byte(0)
			if (x+y)%2 == 0 {
				v = 255
			}
			pix[off], pix[off+1], pix[off+2], pix[off+3] = v, v, v, 255
		}
	}
	img := value.NewImagePixels(value.Metadata{Width: w, Height: h, Format: value.FormatRGBA8, HasAlpha: true}, value.Origin{}, pix)

	blur := NewGaussianBlur()
	ctx := execCtx(map[string]value.Value{"image": value.NewImage(img)}, map[string]value.Value{"sigma": value.NewFloat(2.0)})
	require.NoError(t, blur.Execute(ctx))

	out, ok := ctx.Outputs()["image"].AsImage()
	require.True(t, ok)
	outPix := out.Pixels()

	// An interior pixel of a high-frequency checkerboard should land far
	// from the 0/255 extremes once blurred.
	off := (8*w + 8) * 4
	assert.Greater(t, int(outPix[off]), 40)
	assert.Less(t, int(outPix[off]), 215)
}

func TestResizeNearestNeighborChangesDimensions(t *testing.T) {
	pix := make([]byte, 4*4*4)
	img := value.NewImagePixels(value.Metadata{Width: 4, Height: 4, Format: value.FormatRGBA8, HasAlpha: true}, value.Origin{}, pix)

	r := NewResize()
	ctx := execCtx(map[string]value.Value{"image": value.NewImage(img)}, map[string]value.Value{
		"width":  value.NewInteger(2),
		"height": value.NewInteger(2),
	})
	require.NoError(t, r.Execute(ctx))

	out, ok := ctx.Outputs()["image"].AsImage()
	require.True(t, ok)
	assert.Equal(t, 2, out.Meta.Width)
	assert.Equal(t, 2, out.Meta.Height)
	assert.Len(t, out.Pixels(), 2*2*4)
}

func TestAllReturnsSixFilters(t *testing.T) {
	all := All()
	assert.Len(t, all, 6)
	ids := make(map[string]bool)
	for _, f := range all {
		ids[f.Metadata().ID] = true
	}
	for _, id := range []string{"load", "save", "grayscale", "brightness", "gaussian_blur", "resize"} {
		assert.True(t, ids[id], "missing filter %q", id)
	}
}
