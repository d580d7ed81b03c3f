package filter

import (
	"context"
	"fmt"

	"github.com/ambarahq/ambara/value"
)

// ValidationContext is handed to a filter's Validate method during the
// Custom validation stage. Inputs are populated
// with placeholder values for connected ports — typed zeros for numbers,
// a 1920x1080 PNG-with-alpha placeholder for images, empty containers for
// strings/arrays/maps — so Validate may inspect shape without executing.
type ValidationContext struct {
	NodeID     string
	Inputs     map[string]value.Value
	Parameters map[string]value.Value
}

// InputImage returns the named input as an image placeholder/value.
func (c *ValidationContext) InputImage(name string) (*value.Image, bool) {
	v, ok := c.Inputs[name]
	if !ok {
		return nil, false
	}
	return v.AsImage()
}

// ParamInteger returns the named parameter's integer value.
func (c *ValidationContext) ParamInteger(name string) (int64, bool) {
	v, ok := c.Parameters[name]
	if !ok {
		return 0, false
	}
	return v.AsInteger()
}

// ParamFloat returns the named parameter's float value (widening Integer).
func (c *ValidationContext) ParamFloat(name string) (float64, bool) {
	v, ok := c.Parameters[name]
	if !ok {
		return 0, false
	}
	return v.AsFloat()
}

// ParamString returns the named parameter's string value.
func (c *ValidationContext) ParamString(name string) (string, bool) {
	v, ok := c.Parameters[name]
	if !ok {
		return "", false
	}
	return v.AsString()
}

// ValidationError wraps a filter-reported validation failure with the
// node id it occurred on, for the validation pipeline's Custom stage.
type ValidationError struct {
	NodeID  string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", shortID(e.NodeID), e.Message)
}

// NewValidationError constructs a ValidationError.
func NewValidationError(nodeID, message string) *ValidationError {
	return &ValidationError{NodeID: nodeID, Message: message}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// ExecutionContext carries everything a filter's Execute method reads
// from and writes to: gathered inputs, effective parameters (override or
// default, always by value), an output map the filter populates via
// SetOutput, memory/chunking settings, a progress fraction, and a
// cancellation view.
type ExecutionContext struct {
	ctx    context.Context
	NodeID string

	inputs     map[string]value.Value
	parameters map[string]value.Value
	outputs    map[string]value.Value

	MemoryLimitBytes int64
	AutoChunk        bool
	PreferredTileW   int
	PreferredTileH   int

	progress  float64
	cancelled func() bool
}

// NewExecutionContext constructs an ExecutionContext ready for a single
// filter invocation.
func NewExecutionContext(
	ctx context.Context,
	nodeID string,
	inputs map[string]value.Value,
	parameters map[string]value.Value,
	memoryLimitBytes int64,
	autoChunk bool,
	tileW, tileH int,
	cancelled func() bool,
) *ExecutionContext {
	return &ExecutionContext{
		ctx:              ctx,
		NodeID:           nodeID,
		inputs:           inputs,
		parameters:       parameters,
		outputs:          make(map[string]value.Value, 4),
		MemoryLimitBytes: memoryLimitBytes,
		AutoChunk:        autoChunk,
		PreferredTileW:   tileW,
		PreferredTileH:   tileH,
		cancelled:        cancelled,
	}
}

// Context returns the underlying context.Context, honored by filters that
// call out to blocking operations (file IO, GPU dispatch).
func (c *ExecutionContext) Context() context.Context { return c.ctx }

// SetOutput records an output value under the given port name.
func (c *ExecutionContext) SetOutput(name string, v value.Value) {
	c.outputs[name] = v
}

// Outputs returns the filter-populated output map. Called by the
// scheduler after Execute returns; filters should not call this.
func (c *ExecutionContext) Outputs() map[string]value.Value { return c.outputs }

// SetProgress records this node's own completion fraction in [0, 1],
// used by filters that support fine-grained progress reporting.
func (c *ExecutionContext) SetProgress(fraction float64) {
	if fraction < 0 {
		fraction = 0
	} else if fraction > 1 {
		fraction = 1
	}
	c.progress = fraction
}

// Progress returns the last fraction recorded via SetProgress.
func (c *ExecutionContext) Progress() float64 { return c.progress }

// CheckCancelled reports whether the run has been cancelled. Long
// per-pixel loops are encouraged to poll this every few thousand
// tiles/rows.
func (c *ExecutionContext) CheckCancelled() bool {
	if c.cancelled == nil {
		return false
	}
	return c.cancelled()
}

// TakeInputImage moves ownership of the named image input out of the
// context (the map entry is cleared), letting a filter mutate the buffer
// in place without an extra clone when it is the sole owner.
func (c *ExecutionContext) TakeInputImage(name string) (*value.Image, bool) {
	v, ok := c.inputs[name]
	if !ok {
		return nil, false
	}
	img, ok := v.AsImage()
	if !ok {
		return nil, false
	}
	delete(c.inputs, name)
	return img, true
}

// GetInputImageOptional returns the named image input without removing
// it, or (nil, false) if absent.
func (c *ExecutionContext) GetInputImageOptional(name string) (*value.Image, bool) {
	v, ok := c.inputs[name]
	if !ok {
		return nil, false
	}
	return v.AsImage()
}

// GetInput returns the raw Value for a named input.
func (c *ExecutionContext) GetInput(name string) (value.Value, bool) {
	v, ok := c.inputs[name]
	return v, ok
}

// ParamInteger returns the named parameter as an integer.
func (c *ExecutionContext) ParamInteger(name string) (int64, bool) {
	v, ok := c.parameters[name]
	if !ok {
		return 0, false
	}
	return v.AsInteger()
}

// ParamFloat returns the named parameter as a float (widening Integer).
func (c *ExecutionContext) ParamFloat(name string) (float64, bool) {
	v, ok := c.parameters[name]
	if !ok {
		return 0, false
	}
	return v.AsFloat()
}

// ParamString returns the named parameter as a string.
func (c *ExecutionContext) ParamString(name string) (string, bool) {
	v, ok := c.parameters[name]
	if !ok {
		return "", false
	}
	return v.AsString()
}

// ParamBoolean returns the named parameter as a boolean.
func (c *ExecutionContext) ParamBoolean(name string) (bool, bool) {
	v, ok := c.parameters[name]
	if !ok {
		return false, false
	}
	return v.AsBoolean()
}

// ParamColor returns the named parameter as a color.
func (c *ExecutionContext) ParamColor(name string) (value.Color, bool) {
	v, ok := c.parameters[name]
	if !ok {
		return value.Color{}, false
	}
	return v.AsColor()
}

// ParamVector2 returns the named parameter as a Vector2.
func (c *ExecutionContext) ParamVector2(name string) (value.Vector2, bool) {
	v, ok := c.parameters[name]
	if !ok {
		return value.Vector2{}, false
	}
	return v.AsVector2()
}
