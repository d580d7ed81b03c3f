package tile

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

	"github.com/ambarahq/ambara/value"
)

func TestRegionExpandAndClamp(t *testing.T) {
	core := Region{X: 10, Y: 10, Width: 20, Height: 20}
	expanded := core.Expand(Symmetric(5))
	assert.Equal(t, Region{X: 5, Y: 5, Width: 30, Height: 30}, expanded)

	bounds := Region{Width: 32, Height: 32}
	clamped := expanded.ClampTo(bounds)
	assert.Equal(t, Region{X: 5, Y: 5, Width: 27, Height: 27}, clamped)
}

func TestRegionClampNegativeOrigin(t *testing.T) {
	r := Region{X: -5, Y: -5, Width: 10, Height: 10}
	bounds := Region{Width: 100, Height: 100}
	clamped := r.ClampTo(bounds)
	assert.Equal(t, Region{X: 0, Y: 0, Width: 5, Height: 5}, clamped)
}

func TestShouldChunkThreshold(t *testing.T) {
	cfg := Config{MemoryLimitBytes: 100 * 100 * 4 * 2} // exactly 2x a 100x100 image
	assert.False(t, ShouldChunk(100, 100, cfg))
	assert.True(t, ShouldChunk(101, 101, cfg))
}

func TestNormalizedTileSizeClamps(t *testing.T) {
	cfg := Config{PreferredTileW: 8, PreferredTileH: 100000}
	w, h := cfg.NormalizedTileSize()
	assert.Equal(t, MinTileDimension, w)
	assert.Equal(t, MaxTileDimension, h)
}

func TestMemoryTrackerRejectsOverLimit(t *testing.T) {
	m := NewMemoryTracker(100)
	assert.True(t, m.TryAllocate(60))
	assert.False(t, m.TryAllocate(60))
	assert.True(t, m.TryAllocate(40))
	assert.Equal(t, int64(100), m.PeakUsage())
	m.Release(100)
	assert.Equal(t, int64(100), m.Available())
	assert.True(t, m.TryAllocate(100))
}

func TestRasterTilesCoverWholeImage(t *testing.T) {
	bounds := Region{Width: 10, Height: 5}
	tiles := rasterTiles(bounds, 4, 4)

	covered := make([][]bool, bounds.Height)
	for i := range covered {
		covered[i] = make([]bool, bounds.Width)
	}
	for _, r := range tiles {
		for y := r.Y; y < r.Bottom(); y++ {
			for x := r.X; x < r.Right(); x++ {
				require.False(t, covered[y][x], "pixel (%d,%d) covered twice", x, y)
				covered[y][x] = true
			}
		}
	}
	for y := 0; y < bounds.Height; y++ {
		for x := 0; x < bounds.Width; x++ {
			require.True(t, covered[y][x], "pixel (%d,%d) never covered", x, y)
		}
	}
}

func TestRunInMemoryRoundTripInvert(t *testing.T) {
	w, h := 6, 6
	pix := make([]byte, w*h*4)
	for i := range pix {
		pix[i] = byte(i % 251)
	}
	meta := value.Metadata{Width: w, Height: h, Format: value.FormatRGBA8, HasAlpha: true}
	img := value.NewImagePixels(meta, value.Origin{}, pix)

	src := NewInMemorySource(img)
	sink := NewInMemorySink()
	cfg := Config{PreferredTileW: 4, PreferredTileH: 4}

	invert := PointWise(func(r, g, b, a uint8) (uint8, uint8, uint8, uint8) {
		return 255 - r, 255 - g, 255 - b, a
	})

	err := Run(context.Background(), src, sink, cfg, NewMemoryTracker(0), invert)
	require.NoError(t, err)

	out := sink.Finished()
	require.Equal(t, meta, out.Meta)
	outPix := out.Pixels()
	for i := 0; i < len(pix); i += 4 {
		assert.Equal(t, byte(255)-pix[i], outPix[i])
		assert.Equal(t, byte(255)-pix[i+1], outPix[i+1])
		assert.Equal(t, byte(255)-pix[i+2], outPix[i+2])
		assert.Equal(t, pix[i+3], outPix[i+3])
	}
}

func TestRunRejectsWhenMemoryExhausted(t *testing.T) {
	w, h := 8, 8
	meta := value.Metadata{Width: w, Height: h, Format: value.FormatRGBA8}
	img := value.NewImagePixels(meta, value.Origin{}, make([]byte, w*h*4))

	src := NewInMemorySource(img)
	sink := NewInMemorySink()
	cfg := Config{PreferredTileW: 4, PreferredTileH: 4}

	identity := PointWise(func(r, g, b, a uint8) (uint8, uint8, uint8, uint8) { return r, g, b, a })

	tracker := NewMemoryTracker(1) // too small for even one tile
	err := Run(context.Background(), src, sink, cfg, tracker, identity)
	require.ErrorIs(t, err, ErrOutOfMemory)
}

func TestFileSourceSinkRoundTripGrayscale(t *testing.T) {
	dir := t.TempDir()
	inPath := filepath.Join(dir, "in.png")
	outPath := filepath.Join(dir, "out.png")

	src := image.NewRGBA(image.Rect(0, 0, 5, 5))
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			src.SetRGBA(x, y, color.RGBA{R: uint8(x * 10), G: uint8(y * 10), B: 50, A: 255})
		}
	}
	f, err := os.Create(inPath)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, src))
	require.NoError(t, f.Close())

	fileSrc, err := OpenFileSource(inPath)
	require.NoError(t, err)
	assert.Equal(t, 5, fileSrc.Metadata().Width)
	assert.Equal(t, 5, fileSrc.Metadata().Height)

	sink := NewFileSink(outPath)
	cfg := Config{}

	grayscale := PointWise(func(r, g, b, a uint8) (uint8, uint8, uint8, uint8) {
		lum := uint8((uint32(r) + uint32(g) + uint32(b)) / 3)
		return lum, lum, lum, a
	})

	require.NoError(t, Run(context.Background(), fileSrc, sink, cfg, NewMemoryTracker(0), grayscale))

	outFile, err := os.Open(outPath)
	require.NoError(t, err)
	defer outFile.Close()
	decoded, _, err := image.Decode(outFile)
	require.NoError(t, err)
	assert.Equal(t, 5, decoded.Bounds().Dx())
	assert.Equal(t, 5, decoded.Bounds().Dy())

	r, g, b, _ := decoded.At(2, 3).RGBA()
	assert.Equal(t, r>>8, g>>8)
	assert.Equal(t, g>>8, b>>8)
}
