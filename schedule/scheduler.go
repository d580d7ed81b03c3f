// Package schedule implements the execution scheduler: given a
// graphdoc.Graph already accepted by validate.Run, it plans a
// topological batch order, dispatches each batch's nodes (sequentially,
// or fanned out over an errgroup bounded by a semaphore when
// settings.Parallel — mirroring the tile package's own dispatch
// pattern), gathers each node's inputs from its upstream connections or
// defaults, probes/fills the result cache, invokes the filter, and
// drives a progress.Tracker throughout.
package schedule

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/ambarahq/ambara/ambaralog"
	"github.com/ambarahq/ambara/batcherr"
	"github.com/ambarahq/ambara/cache"
	"github.com/ambarahq/ambara/filter"
	"github.com/ambarahq/ambara/graphdoc"
	"github.com/ambarahq/ambara/progress"
	"github.com/ambarahq/ambara/topology"
	"github.com/ambarahq/ambara/value"
)

// Scheduler executes graphs against a shared result cache and logger.
// A Scheduler is safe for concurrent use across independent Execute
// calls; each call has its own run-local state.
type Scheduler struct {
	Cache  *cache.Cache
	Logger ambaralog.Logger
}

// New constructs a Scheduler. cache may be nil (caching then disabled
// regardless of Settings.UseCache); logger may be nil (defaults to a
// no-op logger).
func New(c *cache.Cache, logger ambaralog.Logger) *Scheduler {
	if logger == nil {
		logger = ambaralog.NoOpLogger{}
	}
	return &Scheduler{Cache: c, Logger: logger}
}

// runState is the per-Execute-call mutable state shared across batch
// workers.
type runState struct {
	g        *graphdoc.Graph
	settings Settings
	tracker  *progress.Tracker
	collector *batcherr.Collector

	connIndex map[string]map[string]*graphdoc.Connection // nodeID -> portName -> feeding connection

	mu      sync.Mutex
	outputs map[string]map[string]value.Value // nodeID -> outputs, for succeeded nodes
	failed  map[string]struct{}                // nodeIDs that errored or inherited failure
	skipped map[string]struct{}                // nodeIDs skipped (disabled or upstream failure)

	index int64 // next progress event index
	stats Stats
	abort int32 // StopOnError tripped; no further batches are dispatched (atomic flag)
}

// recordCacheHit attributes a cache hit's saved computation time to this
// run's own Stats, rather than reading the shared Cache's lifetime
// totals (which would double-count across every Execute call sharing
// the cache).
func (rs *runState) recordCacheHit(computationTime time.Duration) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.stats.CacheHits++
	rs.stats.TimeSaved += computationTime
}

func (rs *runState) aborted() bool    { return atomic.LoadInt32(&rs.abort) != 0 }
func (rs *runState) setAborted()      { atomic.StoreInt32(&rs.abort, 1) }

func (s *runState) nextIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := int(s.index)
	s.index++
	return i
}

// Execute runs every node of g in topological batch order. g is assumed
// to have already passed validate.Run; Execute does not re-validate.
func (s *Scheduler) Execute(ctx context.Context, g *graphdoc.Graph, settings Settings, sink progress.Sink) (*Result, error) {
	batches, err := topology.Batches(g)
	if err != nil {
		return nil, fmt.Errorf("schedule: plan batches: %w", err)
	}

	total := len(g.NodeIDs())
	rs := &runState{
		g:         g,
		settings:  settings,
		tracker:   progress.NewTracker(total, sink),
		collector: batcherr.NewCollector(),
		connIndex: buildConnIndex(g),
		outputs:   make(map[string]map[string]value.Value, total),
		failed:    make(map[string]struct{}),
		skipped:   make(map[string]struct{}),
	}

	start := time.Now()

batchLoop:
	for _, batch := range batches {
		if rs.aborted() || ctx.Err() != nil || rs.tracker.Cancelled() {
			break
		}
		if err := s.runBatch(ctx, rs, batch); err != nil {
			rs.tracker.Error("", err.Error())
			break batchLoop
		}
	}

	cancelled := ctx.Err() != nil || rs.tracker.Cancelled()
	if cancelled {
		rs.tracker.Cancel()
	}
	rs.tracker.Completed()

	rs.stats.TotalDuration = time.Since(start)

	result := &Result{
		Success:    rs.collector.Len() == 0 && !cancelled,
		Errors:     rs.collector.Failures(),
		Outputs:    terminalOutputs(g, rs.outputs),
		AllOutputs: rs.outputs,
		Stats:      rs.stats,
		Cancelled:  cancelled,
	}
	return result, nil
}

// runBatch dispatches every node in one depth-batch: sequentially, or
// fanned out over an errgroup bounded by a semaphore sized to
// settings.NumThreads when settings.Parallel (mirrors tile.Run's own
// dispatch pattern — both are bounded-concurrency fan-out over
// independent units of work).
func (s *Scheduler) runBatch(ctx context.Context, rs *runState, batch []string) error {
	if !rs.settings.Parallel || len(batch) <= 1 {
		for _, id := range batch {
			if rs.aborted() || ctx.Err() != nil || rs.tracker.Cancelled() {
				return nil
			}
			s.runNode(ctx, rs, id)
		}
		return nil
	}

	threads := rs.settings.NumThreads
	if threads <= 0 {
		threads = 1
	}
	sem := semaphore.NewWeighted(int64(threads))
	eg, egctx := errgroup.WithContext(ctx)
	for _, id := range batch {
		id := id
		if rs.aborted() || egctx.Err() != nil || rs.tracker.Cancelled() {
			break
		}
		if err := sem.Acquire(egctx, 1); err != nil {
			break
		}
		eg.Go(func() error {
			defer sem.Release(1)
			s.runNode(ctx, rs, id)
			return nil
		})
	}
	return eg.Wait()
}

// runNode executes a single node: skip (disabled or upstream failure),
// gather inputs, probe cache, invoke the filter, and record the
// outcome. Errors are accumulated into rs.collector rather than
// returned, so sibling nodes in the same batch still get a chance to
// run.
func (s *Scheduler) runNode(ctx context.Context, rs *runState, id string) {
	node, ok := rs.g.Node(id)
	if !ok {
		return
	}
	idx := rs.nextIndex()
	name := node.Label
	if name == "" {
		name = node.Filter.Metadata().DisplayName
	}

	if node.Disabled && rs.settings.SkipDisabled {
		rs.markSkipped(id)
		rs.tracker.NodeSkipped(id, idx, progress.SkipDisabled)
		return
	}

	inputs, upstreamFailed := s.gatherInputs(rs, node)
	if upstreamFailed {
		rs.markSkipped(id)
		rs.tracker.NodeSkipped(id, idx, progress.SkipUpstreamFailed)
		return
	}

	meta := node.Filter.Metadata()
	params := make(map[string]value.Value, len(meta.Parameters))
	for _, p := range meta.Parameters {
		if v, ok := node.EffectiveParameter(p.Name); ok {
			params[p.Name] = v
		}
	}

	rs.tracker.NodeStarted(id, name, idx)

	var key cache.Key
	useCache := rs.settings.UseCache && s.Cache != nil
	if useCache {
		key = cache.NewKey(id, inputs)
		if cached, computationTime, hit := s.Cache.GetWithComputationTime(key); hit {
			rs.recordSuccess(id, cached)
			rs.recordCacheHit(computationTime)
			rs.tracker.NodeSkipped(id, idx, progress.SkipCached)
			return
		}
	}

	execCtx := filter.NewExecutionContext(
		ctx, id, inputs, params,
		rs.settings.MemoryLimitBytes, rs.settings.AutoChunk,
		rs.settings.TileW, rs.settings.TileH,
		rs.tracker.Cancelled,
	)

	nodeStart := time.Now()
	err := node.Filter.Execute(execCtx)
	elapsed := time.Since(nodeStart)

	if err != nil {
		s.Logger.Warn("node %s failed: %v", id, err)
		rs.markFailed(id)
		rs.collector.Add(id, filter.NewExecutionError(id, err))
		rs.tracker.Error(id, err.Error())
		if rs.settings.StopOnError {
			rs.setAborted()
		}
		return
	}

	outputs := execCtx.Outputs()
	rs.recordSuccess(id, outputs)
	if useCache {
		s.Cache.Put(key, outputs, elapsed)
	}
	rs.mu.Lock()
	rs.stats.NodesExecuted++
	rs.mu.Unlock()
	rs.tracker.NodeCompleted(id, idx, elapsed)
}

// gatherInputs resolves every declared input port for node: the
// upstream node's output value if connected and that upstream node
// succeeded, the port's default if unconnected, or a signal that this
// node must be skipped because its upstream failed.
func (s *Scheduler) gatherInputs(rs *runState, node *graphdoc.Node) (map[string]value.Value, bool) {
	meta := node.Filter.Metadata()
	inputs := make(map[string]value.Value, len(meta.Inputs))

	for _, in := range meta.Inputs {
		conn, connected := rs.connIndex[node.ID][in.Name]
		if !connected {
			if in.HasDefault() {
				inputs[in.Name] = *in.Default
			}
			continue
		}

		rs.mu.Lock()
		_, sourceFailed := rs.failed[conn.Source.NodeID]
		_, sourceSkipped := rs.skipped[conn.Source.NodeID]
		sourceOutputs, sourceRan := rs.outputs[conn.Source.NodeID]
		rs.mu.Unlock()

		if sourceFailed || sourceSkipped {
			return nil, true
		}
		if !sourceRan {
			// Upstream hasn't executed yet (shouldn't happen given batch
			// ordering) — treat conservatively as a propagated failure.
			return nil, true
		}
		v, ok := sourceOutputs[conn.Source.Port]
		if !ok {
			return nil, true
		}
		inputs[in.Name] = v
	}

	return inputs, false
}

func (rs *runState) recordSuccess(id string, outputs map[string]value.Value) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.outputs[id] = outputs
}

func (rs *runState) markFailed(id string) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.failed[id] = struct{}{}
}

func (rs *runState) markSkipped(id string) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.skipped[id] = struct{}{}
	rs.stats.NodesSkipped++
}

// buildConnIndex precomputes nodeID -> inputPortName -> feeding
// Connection, since graphdoc.Graph only exposes per-port connectivity
// as a boolean (IsInputConnected) and the full Connection list is
// otherwise only available as a flat, unindexed slice.
func buildConnIndex(g *graphdoc.Graph) map[string]map[string]*graphdoc.Connection {
	idx := make(map[string]map[string]*graphdoc.Connection)
	for _, c := range g.Connections() {
		m, ok := idx[c.Target.NodeID]
		if !ok {
			m = make(map[string]*graphdoc.Connection)
			idx[c.Target.NodeID] = m
		}
		m[c.Target.Port] = c
	}
	return idx
}

// terminalOutputs narrows the full per-node output map down to the
// graph's sink nodes (no outgoing connections) — what a caller actually
// asked the graph to produce.
func terminalOutputs(g *graphdoc.Graph, all map[string]map[string]value.Value) map[string]map[string]value.Value {
	out := make(map[string]map[string]value.Value)
	for _, id := range g.Sinks() {
		if o, ok := all[id]; ok {
			out[id] = o
		}
	}
	return out
}
