package builtin

import (
	"context"

	"github.com/ambarahq/ambara/filter"
	"github.com/ambarahq/ambara/tile"
)

// tileConfig builds a tile.Config from an ExecutionContext's chunking
// settings, applying overlap for spatial filters that need neighboring
// pixels to compute a correct boundary value.
func tileConfig(ctx *filter.ExecutionContext, overlap tile.SpatialExtent) tile.Config {
	limit := ctx.MemoryLimitBytes
	if !ctx.AutoChunk {
		limit = 0
	}
	return tile.Config{
		MemoryLimitBytes: limit,
		PreferredTileW:   ctx.PreferredTileW,
		PreferredTileH:   ctx.PreferredTileH,
		Overlap:          overlap,
		Parallel:         false,
	}
}

func memoryTracker(ctx *filter.ExecutionContext) *tile.MemoryTracker {
	return tile.NewMemoryTracker(ctx.MemoryLimitBytes)
}

func identity(_ context.Context, in *tile.Buffer) (*tile.Buffer, error) {
	return in, nil
}
