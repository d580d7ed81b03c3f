package filter

import "errors"

// Filter is the polymorphic capability every node implementation
// satisfies: constant metadata, a pre-execution validity check, and the
// transform itself. Reset is optional — stateful filters
// (accumulators, RNG-seeded effects) implement it to clear state between
// batch runs; stateless filters leave it a no-op.
type Filter interface {
	Metadata() Metadata
	Validate(ctx *ValidationContext) error
	Execute(ctx *ExecutionContext) error
}

// Resettable is implemented by filters that carry state across Execute
// calls and need to clear it between batch runs.
type Resettable interface {
	Reset()
}

// Execution error taxonomy.
var (
	ErrMissingInput     = errors.New("filter: missing required input")
	ErrMissingParameter = errors.New("filter: missing required parameter")
	ErrOutputNotSet     = errors.New("filter: required output was not set")
	ErrOutOfMemory      = errors.New("filter: out of memory")
	ErrCancelled        = errors.New("filter: execution cancelled")
	ErrTimeout          = errors.New("filter: execution timed out")
	ErrImageProcessing  = errors.New("filter: image processing error")
)

// ExecutionError wraps a node-scoped execution failure with its node id.
type ExecutionError struct {
	NodeID string
	Err    error
}

func (e *ExecutionError) Error() string {
	return shortID(e.NodeID) + ": " + e.Err.Error()
}

func (e *ExecutionError) Unwrap() error { return e.Err }

// NewExecutionError wraps err with the node id it occurred on.
func NewExecutionError(nodeID string, err error) *ExecutionError {
	return &ExecutionError{NodeID: nodeID, Err: err}
}

// IsRecoverable reports whether a caller might reasonably retry after this
// error. OOM, Cancelled, and Timeout are never recoverable.
func IsRecoverable(err error) bool {
	switch {
	case errors.Is(err, ErrOutOfMemory), errors.Is(err, ErrCancelled), errors.Is(err, ErrTimeout):
		return false
	default:
		return true
	}
}
