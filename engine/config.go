// Package engine is the facade the CLI (and any future embedder) drives:
// filter discovery, graph validation, graph execution, and graph
// save/load, wired together from the validate/schedule/serialize/cache
// packages behind one configuration object.
package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"github.com/ambarahq/ambara/ambaralog"
	"github.com/ambarahq/ambara/schedule"
)

// Config is the engine's full configuration surface, loadable from a
// YAML/JSON/TOML/env source via LoadConfig, or built directly with
// DefaultConfig for library callers who don't need a config file.
type Config struct {
	Execution ExecutionSettings `mapstructure:"execution"`
	Cache     CacheSettings     `mapstructure:"cache"`
	LogLevel  string            `mapstructure:"log_level"`
}

// ExecutionSettings is the on-disk/env mirror of schedule.Settings —
// sizes are expressed in MB/pixels in config the way a human would
// write them, then converted.
type ExecutionSettings struct {
	MemoryLimitMB int  `mapstructure:"memory_limit_mb"`
	TileWidth     int  `mapstructure:"tile_width"`
	TileHeight    int  `mapstructure:"tile_height"`
	AutoChunk     bool `mapstructure:"auto_chunk"`
	Parallel      bool `mapstructure:"parallel"`
	NumThreads    int  `mapstructure:"num_threads"`
	UseCache      bool `mapstructure:"use_cache"`
	StopOnError   bool `mapstructure:"stop_on_error"`
}

// CacheSettings configures the shared result cache.
type CacheSettings struct {
	MaxEntries int           `mapstructure:"max_entries"`
	MaxBytes   int64         `mapstructure:"max_bytes"`
	TTL        time.Duration `mapstructure:"ttl"`
}

// DefaultConfig returns the engine's out-of-the-box configuration,
// matching schedule.DefaultSettings' values.
func DefaultConfig() Config {
	return Config{
		Execution: ExecutionSettings{
			MemoryLimitMB: 500,
			TileWidth:     512,
			TileHeight:    512,
			AutoChunk:     true,
			Parallel:      false,
			NumThreads:    1,
			UseCache:      false,
			StopOnError:   true,
		},
		Cache: CacheSettings{
			MaxEntries: 256,
			MaxBytes:   256 * 1024 * 1024,
			TTL:        time.Hour,
		},
		LogLevel: "info",
	}
}

// ToSettings converts the config's execution block into a
// schedule.Settings.
func (c Config) ToSettings() schedule.Settings {
	return schedule.Settings{
		MemoryLimitBytes: int64(c.Execution.MemoryLimitMB) * 1024 * 1024,
		AutoChunk:        c.Execution.AutoChunk,
		TileW:            c.Execution.TileWidth,
		TileH:            c.Execution.TileHeight,
		Parallel:         c.Execution.Parallel,
		NumThreads:       c.Execution.NumThreads,
		UseCache:         c.Execution.UseCache,
		StopOnError:      c.Execution.StopOnError,
		SkipDisabled:     true,
	}
}

// Logger builds the ambaralog.Logger this config's LogLevel describes.
func (c Config) Logger() ambaralog.Logger {
	return ambaralog.NewDefaultLogger(ambaralog.ParseLevel(strings.ToLower(c.LogLevel)))
}

// LoadConfig reads configuration from path (any format viper supports —
// YAML, JSON, TOML) layered over environment variables prefixed
// AMBARA_ (e.g. AMBARA_EXECUTION_PARALLEL=true), falling back to
// DefaultConfig for anything unset. An empty path skips the file read
// entirely and returns env-overridden defaults.
func LoadConfig(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("ambara")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	def := DefaultConfig()
	v.SetDefault("execution.memory_limit_mb", def.Execution.MemoryLimitMB)
	v.SetDefault("execution.tile_width", def.Execution.TileWidth)
	v.SetDefault("execution.tile_height", def.Execution.TileHeight)
	v.SetDefault("execution.auto_chunk", def.Execution.AutoChunk)
	v.SetDefault("execution.parallel", def.Execution.Parallel)
	v.SetDefault("execution.num_threads", def.Execution.NumThreads)
	v.SetDefault("execution.use_cache", def.Execution.UseCache)
	v.SetDefault("execution.stop_on_error", def.Execution.StopOnError)
	v.SetDefault("cache.max_entries", def.Cache.MaxEntries)
	v.SetDefault("cache.max_bytes", def.Cache.MaxBytes)
	v.SetDefault("cache.ttl", def.Cache.TTL)
	v.SetDefault("log_level", def.LogLevel)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("engine: read config %s: %w", path, err)
		}
	}

	var cfg Config
	decodeHook := mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
	)
	if err := v.Unmarshal(&cfg, viper.DecodeHook(decodeHook)); err != nil {
		return Config{}, fmt.Errorf("engine: decode config: %w", err)
	}
	return cfg, nil
}
