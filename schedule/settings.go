package schedule

// Settings configures one Execute run.
// Defaults come from the caller (engine.Config); neither engine.Config
// nor this package range-checks the values. Tile dimensions are clamped
// later by tile.Config; MemoryLimitBytes is used as given.
type Settings struct {
	MemoryLimitBytes int64
	AutoChunk        bool
	TileW, TileH     int
	Parallel         bool
	NumThreads       int
	UseCache         bool
	StopOnError      bool
	SkipDisabled     bool
}

// DefaultSettings returns the out-of-the-box execution defaults:
// memory_limit_mb=500, tile_size=512, auto_chunk=true, parallel=false,
// use_cache=false, stop-on-error.
func DefaultSettings() Settings {
	return Settings{
		MemoryLimitBytes: 500 * 1024 * 1024,
		AutoChunk:        true,
		TileW:            512,
		TileH:            512,
		Parallel:         false,
		NumThreads:       1,
		UseCache:         false,
		StopOnError:      true,
		SkipDisabled:     true,
	}
}
