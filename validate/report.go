// Package validate implements the five-stage validation pipeline
// (Structural, Type, Constraint, Custom, Resource) that turns a
// graphdoc.Graph into a pass/fail Report with fixable diagnostics. It
// follows an independent-validator-functions pattern: a fixed slice of
// pure functions run in order, each contributing to a shared report.
package validate

import "fmt"

// Kind is the closed set of validation diagnostic kinds.
type Kind string

const (
	KindTypeMismatch         Kind = "TypeMismatch"
	KindMissingRequiredInput Kind = "MissingRequiredInput"
	KindConstraintViolation  Kind = "ConstraintViolation"
	KindCustomValidation     Kind = "CustomValidation"
	KindResourceNotFound     Kind = "ResourceNotFound"
	KindInsufficientMemory   Kind = "InsufficientMemory"
	KindCycleDetected        Kind = "CycleDetected"
	KindNoOutputNodes        Kind = "NoOutputNodes"
	KindUnreachableNode      Kind = "UnreachableNode"
	KindEmptyGraph           Kind = "EmptyGraph"
	KindDisjointSubgraph     Kind = "DisjointSubgraph"
	KindDisabledNodeFeeding  Kind = "DisabledNodeFeedsActive"
)

// fatalKinds short-circuits the pipeline: cycle, no-output-nodes, and
// insufficient-memory abort immediately rather than accumulating further
// diagnostics. No Stage currently produces KindInsufficientMemory — see
// DESIGN.md for why it stays validation-unreachable.
var fatalKinds = map[Kind]struct{}{
	KindCycleDetected:      {},
	KindNoOutputNodes:      {},
	KindInsufficientMemory: {},
}

// IsFatal reports whether a diagnostic of this kind stops the pipeline.
func IsFatal(k Kind) bool {
	_, ok := fatalKinds[k]
	return ok
}

// ValidationError is a diagnostic severe enough to make the graph
// non-executable.
type ValidationError struct {
	Kind    Kind
	Message string
	Nodes   []string
	Fix     string
	HasFix  bool
}

func (e *ValidationError) Error() string { return fmt.Sprintf("%s: %s", e.Kind, e.Message) }

// AffectedNodes lists the node ids this error concerns.
func (e *ValidationError) AffectedNodes() []string { return e.Nodes }

// SuggestedFix returns a human remediation string, if one applies.
func (e *ValidationError) SuggestedFix() (string, bool) { return e.Fix, e.HasFix }

// ValidationWarning is a non-fatal diagnostic: the graph is still
// executable but something looks off.
type ValidationWarning struct {
	Kind    Kind
	Message string
	Nodes   []string
}

func (w *ValidationWarning) Error() string { return fmt.Sprintf("%s: %s", w.Kind, w.Message) }

// AffectedNodes lists the node ids this warning concerns.
func (w *ValidationWarning) AffectedNodes() []string { return w.Nodes }

// Report is the outcome of running the validation pipeline once.
type Report struct {
	Success    bool
	Errors     []*ValidationError
	Warnings   []*ValidationWarning
	DurationMs int64
}

// Summary renders the one-line human summary the CLI and engine facade
// print: "✓ Graph is valid", "✓ Graph is valid with N warning(s)", or
// "✗ Validation failed with N error(s)".
func (r *Report) Summary() string {
	if !r.Success {
		return fmt.Sprintf("✗ Validation failed with %d error(s)", len(r.Errors))
	}
	if len(r.Warnings) == 0 {
		return "✓ Graph is valid"
	}
	return fmt.Sprintf("✓ Graph is valid with %d warning(s)", len(r.Warnings))
}
