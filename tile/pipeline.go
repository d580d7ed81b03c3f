package tile

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/ambarahq/ambara/value"
)

// ErrOutOfMemory is returned when a tile allocation would exceed the
// configured memory limit.
var ErrOutOfMemory = errors.New("tile: allocation exceeds memory limit")

// Transform processes one expanded tile buffer and returns the
// transformed buffer (same region as its input — the pipeline extracts
// the core sub-rectangle afterward).
type Transform func(ctx context.Context, in *Buffer) (*Buffer, error)

// Run decomposes the source image into tiles per cfg, expands each tile
// by cfg.Overlap, reads it, reserves memory, invokes transform, extracts
// the core region from the result, writes it to sink, and releases
// memory. Tiles run sequentially in raster
// order unless cfg.Parallel, in which case they fan out over an
// errgroup bounded by a semaphore sized to cfg.NumThreads — mirroring
// the scheduler's own batch-dispatch pattern, since both
// are "independent units of work, bounded concurrency" problems.
func Run(ctx context.Context, source Source, sink Sink, cfg Config, tracker *MemoryTracker, transform Transform) error {
	meta := source.Metadata()
	if err := sink.Initialize(meta); err != nil {
		return fmt.Errorf("tile: initialize sink: %w", err)
	}

	tileW, tileH := cfg.NormalizedTileSize()
	if !ShouldChunk(meta.Width, meta.Height, cfg) {
		tileW, tileH = meta.Width, meta.Height
	}

	bounds := Region{Width: meta.Width, Height: meta.Height}
	cores := rasterTiles(bounds, tileW, tileH)

	process := func(core Region) error {
		expanded := core.Expand(cfg.Overlap).ClampTo(bounds)

		if tracker != nil && !tracker.TryAllocate(expanded.ByteSize()) {
			return ErrOutOfMemory
		}
		defer func() {
			if tracker != nil {
				tracker.Release(expanded.ByteSize())
			}
		}()

		in, err := source.ReadTile(ctx, expanded)
		if err != nil {
			return fmt.Errorf("tile: read tile %+v: %w", expanded, err)
		}

		out, err := transform(ctx, in)
		if err != nil {
			return fmt.Errorf("tile: transform tile %+v: %w", core, err)
		}

		coreBuf := out.Sub(core)
		if err := sink.WriteTile(coreBuf); err != nil {
			return fmt.Errorf("tile: write tile %+v: %w", core, err)
		}
		return nil
	}

	if !cfg.Parallel || len(cores) <= 1 {
		for _, core := range cores {
			if err := process(core); err != nil {
				return err
			}
		}
	} else {
		threads := cfg.NumThreads
		if threads <= 0 {
			threads = 1
		}
		sem := semaphore.NewWeighted(int64(threads))
		g, gctx := errgroup.WithContext(ctx)
		for _, core := range cores {
			core := core
			if err := sem.Acquire(gctx, 1); err != nil {
				break
			}
			g.Go(func() error {
				defer sem.Release(1)
				return process(core)
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
	}

	return sink.Finalize()
}

// rasterTiles partitions bounds into tileW x tileH core regions in
// raster (row-major) order, with the final tile in each row/column
// clipped to the image edge.
func rasterTiles(bounds Region, tileW, tileH int) []Region {
	var out []Region
	for y := bounds.Y; y < bounds.Bottom(); y += tileH {
		h := tileH
		if y+h > bounds.Bottom() {
			h = bounds.Bottom() - y
		}
		for x := bounds.X; x < bounds.Right(); x += tileW {
			w := tileW
			if x+w > bounds.Right() {
				w = bounds.Right() - x
			}
			out = append(out, Region{X: x, Y: y, Width: w, Height: h})
		}
	}
	return out
}

// PointWise wraps a per-pixel function as a Transform with zero overlap:
// f receives and returns an RGBA8 pixel.
func PointWise(f func(r, g, b, a uint8) (uint8, uint8, uint8, uint8)) Transform {
	return func(ctx context.Context, in *Buffer) (*Buffer, error) {
		out := NewBuffer(in.Region, in.Format)
		bpp := value.BytesPerPixel(in.Format)
		if bpp != 4 {
			return nil, fmt.Errorf("tile: PointWise requires a 4-channel format, got %s", in.Format)
		}
		for i := 0; i+3 < len(in.Pix); i += bpp {
			r, g, b, a := f(in.Pix[i], in.Pix[i+1], in.Pix[i+2], in.Pix[i+3])
			out.Pix[i], out.Pix[i+1], out.Pix[i+2], out.Pix[i+3] = r, g, b, a
		}
		return out, nil
	}
}
