package schedule

import (
	"time"

	"github.com/ambarahq/ambara/batcherr"
	"github.com/ambarahq/ambara/value"
)

// Stats summarizes one Execute run.
type Stats struct {
	TotalDuration time.Duration
	NodesExecuted int
	NodesSkipped  int
	CacheHits     int
	TimeSaved     time.Duration
}

// Result is the outcome of one Execute call: whether every node
// succeeded, the accumulated per-node failures, each node's outputs
// (both the terminal sink outputs and every node's outputs, for
// inspection/debugging), run statistics, and whether the run was
// cancelled before completion.
type Result struct {
	Success bool
	Errors  []*batcherr.NodeFailure

	// Outputs holds only the graph's terminal (zero-outgoing-connection)
	// nodes' outputs — what a caller actually asked the graph to produce.
	Outputs map[string]map[string]value.Value

	// AllOutputs holds every executed node's outputs, keyed by node id,
	// for debugging/inspection.
	AllOutputs map[string]map[string]value.Value

	Stats     Stats
	Cancelled bool
}
