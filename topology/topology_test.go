package topology

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ambarahq/ambara/filter"
	"github.com/ambarahq/ambara/graphdoc"
	"github.com/ambarahq/ambara/port"
	"github.com/ambarahq/ambara/value"
)

type stubFilter struct{ meta filter.Metadata }

func (s *stubFilter) Metadata() filter.Metadata                    { return s.meta }
func (s *stubFilter) Validate(ctx *filter.ValidationContext) error { return nil }
func (s *stubFilter) Execute(ctx *filter.ExecutionContext) error   { return nil }

func node(id string) *stubFilter {
	return &stubFilter{meta: filter.Metadata{
		ID:      id,
		Inputs:  []port.Port{{Name: "in", Type: value.Integer, Direction: port.DirectionInput, Optional: true}},
		Outputs: []port.Port{{Name: "out", Type: value.Integer, Direction: port.DirectionOutput}},
	}}
}

func TestTopologicalSortLinearChain(t *testing.T) {
	g := graphdoc.NewGraph()
	a := g.AddNode(node("a"))
	b := g.AddNode(node("b"))
	c := g.AddNode(node("c"))
	_, err := g.Connect(a, "out", b, "in")
	require.NoError(t, err)
	_, err = g.Connect(b, "out", c, "in")
	require.NoError(t, err)

	order, err := TopologicalSort(g)
	require.NoError(t, err)
	assert.Equal(t, []string{a, b, c}, order)
}

func TestBatchesDiamondLongestPath(t *testing.T) {
	// a -> b -> d
	// a -> c -> d
	// d's depth must be 2 (longest path through b or c), not 1.
	g := graphdoc.NewGraph()
	a := g.AddNode(node("a"))
	b := g.AddNode(node("b"))
	c := g.AddNode(node("c"))
	d := g.AddNode(&stubFilter{meta: filter.Metadata{
		ID: "d",
		Inputs: []port.Port{
			{Name: "in1", Type: value.Integer, Direction: port.DirectionInput, Optional: true},
			{Name: "in2", Type: value.Integer, Direction: port.DirectionInput, Optional: true},
		},
	}})

	_, err := g.Connect(a, "out", b, "in")
	require.NoError(t, err)
	_, err = g.Connect(a, "out", c, "in")
	require.NoError(t, err)
	_, err = g.Connect(b, "out", d, "in1")
	require.NoError(t, err)
	_, err = g.Connect(c, "out", d, "in2")
	require.NoError(t, err)

	batches, err := Batches(g)
	require.NoError(t, err)
	require.Len(t, batches, 3)
	assert.Equal(t, []string{a}, batches[0])
	assert.ElementsMatch(t, []string{b, c}, batches[1])
	assert.Equal(t, []string{d}, batches[2])
}

func TestBatchesAsymmetricPathTakesLongest(t *testing.T) {
	// a -> d directly (depth would be 1), and a -> b -> c -> d (depth 3).
	// d's batch must reflect the longer chain, not the direct edge.
	g := graphdoc.NewGraph()
	a := g.AddNode(node("a"))
	b := g.AddNode(node("b"))
	c := g.AddNode(node("c"))
	d := g.AddNode(&stubFilter{meta: filter.Metadata{
		ID: "d",
		Inputs: []port.Port{
			{Name: "direct", Type: value.Integer, Direction: port.DirectionInput, Optional: true},
			{Name: "chained", Type: value.Integer, Direction: port.DirectionInput, Optional: true},
		},
	}})

	_, err := g.Connect(a, "out", d, "direct")
	require.NoError(t, err)
	_, err = g.Connect(a, "out", b, "in")
	require.NoError(t, err)
	_, err = g.Connect(b, "out", c, "in")
	require.NoError(t, err)
	_, err = g.Connect(c, "out", d, "chained")
	require.NoError(t, err)

	batches, err := Batches(g)
	require.NoError(t, err)
	require.Len(t, batches, 4)
	assert.Equal(t, []string{d}, batches[3])
}
