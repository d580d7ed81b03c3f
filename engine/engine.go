package engine

import (
	"context"
	"fmt"

	"github.com/ambarahq/ambara/ambaralog"
	"github.com/ambarahq/ambara/cache"
	"github.com/ambarahq/ambara/filter"
	"github.com/ambarahq/ambara/graphdoc"
	"github.com/ambarahq/ambara/progress"
	"github.com/ambarahq/ambara/schedule"
	"github.com/ambarahq/ambara/serialize"
	"github.com/ambarahq/ambara/validate"
)

// Engine ties the filter registry, result cache, and scheduler together
// behind the handful of operations a caller (CLI or otherwise) actually
// needs: list filters, validate a graph, execute a graph, and
// save/load a graph document.
type Engine struct {
	Config   Config
	Registry *Registry

	cache     *cache.Cache
	scheduler *schedule.Scheduler
	logger    ambaralog.Logger
}

// New builds an Engine from cfg: a populated Registry (built-ins plus
// any extra filters the caller registers before first use), a result
// cache sized per cfg.Cache, and a scheduler wired to both.
func New(cfg Config) (*Engine, error) {
	logger := cfg.Logger()
	c, err := cache.New(cfg.Cache.MaxEntries, cfg.Cache.MaxBytes, cfg.Cache.TTL)
	if err != nil {
		return nil, fmt.Errorf("engine: build cache: %w", err)
	}
	reg := NewRegistry()
	return &Engine{
		Config:    cfg,
		Registry:  reg,
		cache:     c,
		scheduler: schedule.New(c, logger),
		logger:    logger,
	}, nil
}

// GetFilters returns the metadata for every registered filter, for a
// catalog/palette UI or the CLI's "list"/"info" commands.
func (e *Engine) GetFilters() []filter.Metadata {
	return e.Registry.List()
}

// GetExecutionSettings returns the schedule.Settings this Engine would
// use for an ExecuteGraph call right now.
func (e *Engine) GetExecutionSettings() schedule.Settings {
	return e.Config.ToSettings()
}

// ValidateGraph runs the five-stage validation pipeline against g and
// returns its Report.
func (e *Engine) ValidateGraph(g *graphdoc.Graph) *validate.Report {
	return validate.Run(g)
}

// ExecuteGraph validates g and, if the graph passes (no fatal errors),
// executes it via the scheduler. A non-fatal validation (warnings only,
// or non-fatal errors) still executes — only a fatal diagnostic aborts
// before the scheduler ever sees the graph.
func (e *Engine) ExecuteGraph(ctx context.Context, g *graphdoc.Graph, sink progress.Sink) (*schedule.Result, *validate.Report, error) {
	report := e.ValidateGraph(g)
	if !report.Success {
		for _, verr := range report.Errors {
			if validate.IsFatal(verr.Kind) {
				return nil, report, fmt.Errorf("engine: graph failed validation: %s", report.Summary())
			}
		}
	}

	result, err := e.scheduler.Execute(ctx, g, e.Config.ToSettings(), sink)
	if err != nil {
		return nil, report, fmt.Errorf("engine: execute graph: %w", err)
	}
	return result, report, nil
}

// SaveGraph serializes g to indented JSON bytes.
func (e *Engine) SaveGraph(g *graphdoc.Graph) ([]byte, error) {
	return serialize.Marshal(g)
}

// LoadGraph deserializes a graph document, resolving each node's filter
// id against this Engine's Registry.
func (e *Engine) LoadGraph(data []byte) (*graphdoc.Graph, error) {
	return serialize.Unmarshal(data, e.Registry.Resolve)
}

// InvalidateCache drops every cached entry, e.g. after a filter
// implementation changes behind a stable id.
func (e *Engine) InvalidateCache() {
	e.cache.Clear()
}

// CacheStats returns the shared result cache's lifetime statistics.
func (e *Engine) CacheStats() cache.Stats {
	return e.cache.Stats()
}
