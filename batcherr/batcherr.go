// Package batcherr accumulates per-node execution failures when a run
// continues past the first error. It wraps github.com/hashicorp/go-multierror
// for accumulation; it is additive to, not a replacement for, the plain
// sentinel-error taxonomy the rest of this module uses (graphdoc,
// validate, filter all stay errors.New + %w).
package batcherr

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// NodeFailure pairs one node's execution error with its node id, so a
// Collector can report which nodes failed without the caller re-parsing
// error strings.
type NodeFailure struct {
	NodeID string
	Err    error
}

func (f *NodeFailure) Error() string {
	return fmt.Sprintf("%s: %v", f.NodeID, f.Err)
}

func (f *NodeFailure) Unwrap() error { return f.Err }

// Collector accumulates NodeFailures across a continue-on-error
// execution run.
type Collector struct {
	merr *multierror.Error
}

// NewCollector returns an empty Collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Add records a node's failure.
func (c *Collector) Add(nodeID string, err error) {
	if err == nil {
		return
	}
	c.merr = multierror.Append(c.merr, &NodeFailure{NodeID: nodeID, Err: err})
}

// ErrorOrNil returns the accumulated error, or nil if nothing failed —
// matching go-multierror's own idiom so callers can return a Collector's
// result directly from a function with an `error` return type.
func (c *Collector) ErrorOrNil() error {
	if c.merr == nil {
		return nil
	}
	return c.merr.ErrorOrNil()
}

// Len reports how many failures were recorded.
func (c *Collector) Len() int {
	if c.merr == nil {
		return 0
	}
	return len(c.merr.Errors)
}

// ByNode indexes the recorded failures by node id. A node that failed
// more than once keeps only its first recorded failure.
func (c *Collector) ByNode() map[string]error {
	out := make(map[string]error)
	if c.merr == nil {
		return out
	}
	for _, e := range c.merr.Errors {
		if nf, ok := e.(*NodeFailure); ok {
			if _, seen := out[nf.NodeID]; !seen {
				out[nf.NodeID] = nf.Err
			}
		}
	}
	return out
}

// Failures returns every recorded NodeFailure in the order they were
// added.
func (c *Collector) Failures() []*NodeFailure {
	if c.merr == nil {
		return nil
	}
	out := make([]*NodeFailure, 0, len(c.merr.Errors))
	for _, e := range c.merr.Errors {
		if nf, ok := e.(*NodeFailure); ok {
			out = append(out, nf)
		}
	}
	return out
}
