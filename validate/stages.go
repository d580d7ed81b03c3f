package validate

import (
	"fmt"

	"github.com/ambarahq/ambara/filter"
	"github.com/ambarahq/ambara/graphdoc"
	"github.com/ambarahq/ambara/value"
)

// Stage is a single validation pass over the whole graph, returning
// whatever warnings and errors it found. The pipeline runs a fixed slice
// of Stages in order, stopping after any stage that
// contributes a fatal error.
type Stage func(g *graphdoc.Graph) (warnings []*ValidationWarning, errors []*ValidationError)

// Stages is the fixed, ordered pipeline: Structural, Type, Constraint,
// Custom, Resource.
var Stages = []Stage{
	StructuralStage,
	TypeStage,
	ConstraintStage,
	CustomStage,
	ResourceStage,
}

// StructuralStage checks graph shape: emptiness, cycles, unconnected
// required inputs, disjoint components, and disabled nodes feeding live
// ones.
func StructuralStage(g *graphdoc.Graph) ([]*ValidationWarning, []*ValidationError) {
	var warnings []*ValidationWarning
	var errs []*ValidationError

	nodes := g.Nodes()
	if len(nodes) == 0 {
		warnings = append(warnings, &ValidationWarning{Kind: KindEmptyGraph, Message: "graph has no nodes"})
		return warnings, errs
	}

	if cyc := findCycle(g, nodes); cyc != nil {
		errs = append(errs, &ValidationError{
			Kind:    KindCycleDetected,
			Message: "graph contains a cycle",
			Nodes:   cyc,
		})
		return warnings, errs
	}

	hasOutputNode := false
	for _, n := range nodes {
		meta := n.Filter.Metadata()
		if len(meta.Outputs) == 0 {
			hasOutputNode = true
		}
		for _, in := range meta.Inputs {
			if in.Optional || in.HasDefault() {
				continue
			}
			if !g.IsInputConnected(n.ID, in.Name) {
				errs = append(errs, &ValidationError{
					Kind:    KindMissingRequiredInput,
					Message: fmt.Sprintf("required input %q is not connected", in.Name),
					Nodes:   []string{n.ID},
					Fix:     fmt.Sprintf("Connect an output to the '%s' input", in.Name),
					HasFix:  true,
				})
			}
		}
		if n.Disabled && len(g.Downstream(n.ID)) > 0 {
			warnings = append(warnings, &ValidationWarning{
				Kind:    KindDisabledNodeFeeding,
				Message: "disabled node feeds one or more active nodes",
				Nodes:   []string{n.ID},
			})
		}
	}

	if !hasOutputNode {
		errs = append(errs, &ValidationError{Kind: KindNoOutputNodes, Message: "graph has no output (sink) nodes"})
		return warnings, errs
	}

	if comps := weaklyConnectedComponents(g, nodes); comps > 1 {
		warnings = append(warnings, &ValidationWarning{
			Kind:    KindDisjointSubgraph,
			Message: fmt.Sprintf("graph has %d disjoint subgraphs", comps),
		})
	}

	return warnings, errs
}

// TypeStage recomputes, for every connection, source-output vs.
// target-input type compatibility. Connect()
// already enforces this at mutation time; this stage re-verifies it in
// case node wiring changed out from under the graph (e.g. a filter
// implementation swap).
func TypeStage(g *graphdoc.Graph) ([]*ValidationWarning, []*ValidationError) {
	var errs []*ValidationError
	for _, c := range g.Connections() {
		srcNode, ok := g.Node(c.Source.NodeID)
		if !ok {
			continue
		}
		dstNode, ok := g.Node(c.Target.NodeID)
		if !ok {
			continue
		}
		srcPort, ok := srcNode.Filter.Metadata().OutputPort(c.Source.Port)
		if !ok {
			continue
		}
		dstPort, ok := dstNode.Filter.Metadata().InputPort(c.Target.Port)
		if !ok {
			continue
		}
		if !srcPort.Type.CompatibleWith(dstPort.Type) {
			errs = append(errs, &ValidationError{
				Kind:    KindTypeMismatch,
				Message: fmt.Sprintf("%s is not compatible with %s", srcPort.Type, dstPort.Type),
				Nodes:   []string{c.Source.NodeID, c.Target.NodeID},
				Fix:     fmt.Sprintf("Insert a conversion node to convert %s to %s", srcPort.Type, dstPort.Type),
				HasFix:  true,
			})
		}
	}
	return nil, errs
}

// ConstraintStage evaluates every parameter's constraints against its
// effective value.
func ConstraintStage(g *graphdoc.Graph) ([]*ValidationWarning, []*ValidationError) {
	var errs []*ValidationError
	for _, n := range g.Nodes() {
		for _, p := range n.Filter.Metadata().Parameters {
			v, ok := n.EffectiveParameter(p.Name)
			if !ok {
				continue
			}
			for _, c := range p.Constraints {
				if reason := c.Validate(v); reason != "" {
					errs = append(errs, &ValidationError{
						Kind:    KindConstraintViolation,
						Message: fmt.Sprintf("parameter %q: %s", p.Name, reason),
						Nodes:   []string{n.ID},
					})
				}
			}
		}
	}
	return nil, errs
}

// CustomStage builds a placeholder-populated ValidationContext per
// enabled node and calls the filter's own Validate.
func CustomStage(g *graphdoc.Graph) ([]*ValidationWarning, []*ValidationError) {
	var errs []*ValidationError
	for _, n := range g.Nodes() {
		if n.Disabled {
			continue
		}
		meta := n.Filter.Metadata()

		inputs := make(map[string]value.Value, len(meta.Inputs))
		for _, in := range meta.Inputs {
			if g.IsInputConnected(n.ID, in.Name) {
				inputs[in.Name] = placeholderFor(in.Type)
			} else if in.HasDefault() {
				inputs[in.Name] = *in.Default
			}
		}

		params := effectiveParameters(meta.Parameters, n.EffectiveParameter)

		vctx := &filter.ValidationContext{NodeID: n.ID, Inputs: inputs, Parameters: params}
		if err := n.Filter.Validate(vctx); err != nil {
			errs = append(errs, &ValidationError{
				Kind:    KindCustomValidation,
				Message: err.Error(),
				Nodes:   []string{n.ID},
			})
		}
	}
	return nil, errs
}
