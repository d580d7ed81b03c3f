package tile

// Tile-dimension clamp bounds.
const (
	MinTileDimension = 64
	MaxTileDimension = 4096
)

// Config parameterizes the tile pipeline.
type Config struct {
	MemoryLimitBytes int64
	PreferredTileW   int
	PreferredTileH   int
	Overlap          SpatialExtent
	Parallel         bool
	NumThreads       int
}

// NormalizedTileSize clamps the configured preferred tile dimensions to
// [MinTileDimension, MaxTileDimension].
func (c Config) NormalizedTileSize() (w, h int) {
	return clampDimension(c.PreferredTileW), clampDimension(c.PreferredTileH)
}

func clampDimension(d int) int {
	if d < MinTileDimension {
		return MinTileDimension
	}
	if d > MaxTileDimension {
		return MaxTileDimension
	}
	return d
}

// ShouldChunk reports whether an image of the given dimensions must be
// decomposed into tiles: its 4-byte-per-pixel footprint exceeds half the
// configured memory limit. A non-positive limit disables
// chunking entirely (treated as unbounded).
func ShouldChunk(width, height int, cfg Config) bool {
	if cfg.MemoryLimitBytes <= 0 {
		return false
	}
	footprint := int64(width) * int64(height) * 4
	return footprint > cfg.MemoryLimitBytes/2
}
