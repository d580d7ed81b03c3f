package validate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ambarahq/ambara/filter"
	"github.com/ambarahq/ambara/graphdoc"
	"github.com/ambarahq/ambara/port"
	"github.com/ambarahq/ambara/value"
)

type stubFilter struct {
	meta      filter.Metadata
	validateF func(*filter.ValidationContext) error
}

func (s *stubFilter) Metadata() filter.Metadata { return s.meta }
func (s *stubFilter) Validate(ctx *filter.ValidationContext) error {
	if s.validateF != nil {
		return s.validateF(ctx)
	}
	return nil
}
func (s *stubFilter) Execute(ctx *filter.ExecutionContext) error { return nil }

func loadFilter(id string) *stubFilter {
	return &stubFilter{meta: filter.Metadata{
		ID:      id,
		Outputs: []port.Port{{Name: "image", Type: value.Image, Direction: port.DirectionOutput}},
		Parameters: []port.Parameter{
			{Name: "path", Type: value.String, Default: value.NewString("")},
		},
	}}
}

func saveFilter(id string) *stubFilter {
	return &stubFilter{meta: filter.Metadata{
		ID:     id,
		Inputs: []port.Port{{Name: "image", Type: value.Image, Direction: port.DirectionInput}},
		Parameters: []port.Parameter{
			{Name: "path", Type: value.String, Default: value.NewString("")},
		},
	}}
}

func TestStructuralStageEmptyGraphWarns(t *testing.T) {
	g := graphdoc.NewGraph()
	w, e := StructuralStage(g)
	require.Len(t, w, 1)
	assert.Equal(t, KindEmptyGraph, w[0].Kind)
	assert.Empty(t, e)
}

func TestRunNoOutputNodesIsFatalAndStopsPipeline(t *testing.T) {
	g := graphdoc.NewGraph()
	n1 := g.AddNode(&stubFilter{meta: filter.Metadata{
		ID:      "n1",
		Inputs:  []port.Port{{Name: "in", Type: value.Integer, Direction: port.DirectionInput, Optional: true}},
		Outputs: []port.Port{{Name: "out", Type: value.Integer, Direction: port.DirectionOutput}},
	}})
	n2 := g.AddNode(&stubFilter{meta: filter.Metadata{
		ID:      "n2",
		Inputs:  []port.Port{{Name: "in", Type: value.Integer, Direction: port.DirectionInput}},
		Outputs: []port.Port{{Name: "out", Type: value.Integer, Direction: port.DirectionOutput}},
	}})
	_, err := g.Connect(n1, "out", n2, "in")
	require.NoError(t, err)

	// Connect refuses cycles, so a cycle cannot be built through the
	// public API; this test covers the other fatal kind instead. n1 and
	// n2 both declare outputs, so the graph has no sink, and n1's input
	// is optional so no-output-nodes is the only error reported.
	report := Run(g)
	assert.False(t, report.Success)
	require.NotEmpty(t, report.Errors)
	assert.Equal(t, KindNoOutputNodes, report.Errors[0].Kind)
}

func TestMissingRequiredInputError(t *testing.T) {
	g := graphdoc.NewGraph()
	g.AddNode(saveFilter("save"))
	report := Run(g)
	assert.False(t, report.Success)
	found := false
	for _, e := range report.Errors {
		if e.Kind == KindMissingRequiredInput {
			found = true
			fix, ok := e.SuggestedFix()
			assert.True(t, ok)
			assert.Contains(t, fix, "image")
		}
	}
	assert.True(t, found)
}

func TestConstraintViolationReported(t *testing.T) {
	g := graphdoc.NewGraph()
	id := g.AddNode(&stubFilter{meta: filter.Metadata{
		ID:      "blur",
		Outputs: []port.Port{{Name: "out", Type: value.Image, Direction: port.DirectionOutput}},
		Parameters: []port.Parameter{
			{Name: "sigma", Type: value.Float, Default: value.NewFloat(-1), Constraints: []port.Constraint{port.Positive()}},
		},
	}})
	_ = id
	_, errs := ConstraintStage(g)
	require.Len(t, errs, 1)
	assert.Equal(t, KindConstraintViolation, errs[0].Kind)
}

func TestCustomStageSurfacesFilterValidateError(t *testing.T) {
	g := graphdoc.NewGraph()
	g.AddNode(&stubFilter{
		meta: filter.Metadata{ID: "weird", Outputs: []port.Port{{Name: "out", Type: value.Integer, Direction: port.DirectionOutput}}},
		validateF: func(ctx *filter.ValidationContext) error {
			return errors.New("always invalid")
		},
	})
	_, errs := CustomStage(g)
	require.Len(t, errs, 1)
	assert.Equal(t, KindCustomValidation, errs[0].Kind)
}

func TestResourceStageLoadMustResolve(t *testing.T) {
	g := graphdoc.NewGraph()
	id := g.AddNode(loadFilter("load"))
	require.NoError(t, g.SetParameter(id, "path", value.NewString("/nonexistent/does/not/exist-*.png")))
	w, errs := ResourceStage(g)
	assert.Empty(t, w)
	require.Len(t, errs, 1)
	assert.Equal(t, KindResourceNotFound, errs[0].Kind)
}

func TestResourceStageSaveMissingDirWarns(t *testing.T) {
	g := graphdoc.NewGraph()
	id := g.AddNode(saveFilter("save"))
	require.NoError(t, g.SetParameter(id, "path", value.NewString("/nonexistent/dir/out.png")))
	w, errs := ResourceStage(g)
	assert.Empty(t, errs)
	require.Len(t, w, 1)
	assert.Equal(t, KindResourceNotFound, w[0].Kind)
}

func TestReportSummary(t *testing.T) {
	ok := &Report{Success: true}
	assert.Equal(t, "✓ Graph is valid", ok.Summary())

	okWarn := &Report{Success: true, Warnings: []*ValidationWarning{{Kind: KindEmptyGraph}}}
	assert.Equal(t, "✓ Graph is valid with 1 warning(s)", okWarn.Summary())

	bad := &Report{Success: false, Errors: []*ValidationError{{Kind: KindCycleDetected}}}
	assert.Equal(t, "✗ Validation failed with 1 error(s)", bad.Summary())
}
