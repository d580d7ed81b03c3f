package tile

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/ambarahq/ambara/value"
)

// ErrUnsupportedFormat is returned when a file extension has no matching
// codec.
var ErrUnsupportedFormat = errors.New("tile: unsupported image format")

// Source supplies image metadata and decoded tile rectangles.
type Source interface {
	Metadata() value.Metadata
	ReadTile(ctx context.Context, region Region) (*Buffer, error)
}

// Sink accumulates tiles into a finished image.
type Sink interface {
	Initialize(meta value.Metadata) error
	WriteTile(tile *Buffer) error
	Finalize() error
}

// FileSource decodes an image file once at construction via the standard
// library's image package, then serves sub-rectangles from the decoded
// buffer.
type FileSource struct {
	meta value.Metadata
	img  image.Image
}

// OpenFileSource opens and decodes path. The full decode happens here;
// memory-bounded chunking is still honored because only the requested
// sub-rectangle is ever copied out per ReadTile call.
func OpenFileSource(path string) (*FileSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("tile: decode %s: %w", path, err)
	}
	b := img.Bounds()
	_, hasAlpha := img.(*image.NRGBA)
	return &FileSource{
		img: img,
		meta: value.Metadata{
			Width:    b.Dx(),
			Height:   b.Dy(),
			Format:   value.FormatRGBA8,
			HasAlpha: hasAlpha,
		},
	}, nil
}

// Metadata returns the source image's dimensions and format.
func (s *FileSource) Metadata() value.Metadata { return s.meta }

// ReadTile copies the requested region (clamped to the image bounds)
// into a fresh RGBA8 Buffer.
func (s *FileSource) ReadTile(ctx context.Context, region Region) (*Buffer, error) {
	bounds := Region{Width: s.meta.Width, Height: s.meta.Height}
	region = region.ClampTo(bounds)

	buf := NewBuffer(region, value.FormatRGBA8)
	base := s.img.Bounds().Min
	for y := 0; y < region.Height; y++ {
		for x := 0; x < region.Width; x++ {
			r, g, b, a := s.img.At(base.X+region.X+x, base.Y+region.Y+y).RGBA()
			off := buf.at(x, y)
			buf.Pix[off+0] = byte(r >> 8)
			buf.Pix[off+1] = byte(g >> 8)
			buf.Pix[off+2] = byte(b >> 8)
			buf.Pix[off+3] = byte(a >> 8)
		}
	}
	return buf, nil
}

// FileSink accumulates tiles into an in-memory RGBA canvas and encodes it
// to path on Finalize, using PNG or JPEG depending on the extension.
type FileSink struct {
	path   string
	canvas *image.RGBA
}

// NewFileSink constructs a FileSink that will write to path on Finalize.
func NewFileSink(path string) *FileSink {
	return &FileSink{path: path}
}

// Initialize allocates the output canvas.
func (s *FileSink) Initialize(meta value.Metadata) error {
	s.canvas = image.NewRGBA(image.Rect(0, 0, meta.Width, meta.Height))
	return nil
}

// WriteTile copies tile's core region into the canvas at (Region.X,
// Region.Y).
func (s *FileSink) WriteTile(tile *Buffer) error {
	for y := 0; y < tile.Region.Height; y++ {
		for x := 0; x < tile.Region.Width; x++ {
			off := tile.at(x, y)
			var r, g, b, a uint8
			switch tile.Format {
			case value.FormatGray8:
				r, g, b, a = tile.Pix[off], tile.Pix[off], tile.Pix[off], 255
			case value.FormatRGB8:
				r, g, b, a = tile.Pix[off], tile.Pix[off+1], tile.Pix[off+2], 255
			default:
				r, g, b, a = tile.Pix[off], tile.Pix[off+1], tile.Pix[off+2], tile.Pix[off+3]
			}
			s.canvas.SetRGBA(tile.Region.X+x, tile.Region.Y+y, color.RGBA{R: r, G: g, B: b, A: a})
		}
	}
	return nil
}

// Finalize encodes the canvas to the configured path.
func (s *FileSink) Finalize() error {
	f, err := os.Create(s.path)
	if err != nil {
		return err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(s.path)) {
	case ".png":
		return png.Encode(f, s.canvas)
	case ".jpg", ".jpeg":
		return jpeg.Encode(f, s.canvas, &jpeg.Options{Quality: 90})
	default:
		return ErrUnsupportedFormat
	}
}

// InMemorySource serves tiles directly out of an already-decoded
// *value.Image, for pipeline stages chained without a round-trip to disk.
type InMemorySource struct {
	img *value.Image
}

// NewInMemorySource wraps a decoded image.
func NewInMemorySource(img *value.Image) *InMemorySource {
	return &InMemorySource{img: img}
}

// Metadata returns the wrapped image's metadata.
func (s *InMemorySource) Metadata() value.Metadata { return s.img.Meta }

// ReadTile copies a sub-rectangle out of the wrapped image's pixel
// buffer.
func (s *InMemorySource) ReadTile(ctx context.Context, region Region) (*Buffer, error) {
	bounds := Region{Width: s.img.Meta.Width, Height: s.img.Meta.Height}
	region = region.ClampTo(bounds)

	full := &Buffer{Region: bounds, Format: s.img.Meta.Format, Pix: s.img.Pixels()}
	return full.Sub(region), nil
}

// InMemorySink accumulates tiles into an in-memory canvas and exposes the
// finished *value.Image.
type InMemorySink struct {
	meta   value.Metadata
	canvas *Buffer
}

// NewInMemorySink constructs an empty in-memory sink.
func NewInMemorySink() *InMemorySink { return &InMemorySink{} }

// Initialize allocates the output canvas.
func (s *InMemorySink) Initialize(meta value.Metadata) error {
	s.meta = meta
	s.canvas = NewBuffer(Region{Width: meta.Width, Height: meta.Height}, meta.Format)
	return nil
}

// WriteTile copies tile's core region into the canvas.
func (s *InMemorySink) WriteTile(tile *Buffer) error {
	bpp := value.BytesPerPixel(tile.Format)
	for y := 0; y < tile.Region.Height; y++ {
		srcOff := tile.at(0, y)
		dstOff := s.canvas.at(tile.Region.X, tile.Region.Y+y)
		copy(s.canvas.Pix[dstOff:dstOff+tile.Region.Width*bpp], tile.Pix[srcOff:srcOff+tile.Region.Width*bpp])
	}
	return nil
}

// Finalize is a no-op; Finished returns the assembled image.
func (s *InMemorySink) Finalize() error { return nil }

// Finished returns the finished image after the pipeline has completed.
func (s *InMemorySink) Finished() *value.Image {
	return value.NewImagePixels(s.meta, value.Origin{Kind: value.OriginInMemory}, s.canvas.Pix)
}
