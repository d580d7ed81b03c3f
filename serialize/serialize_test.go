package serialize

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ambarahq/ambara/filter"
	"github.com/ambarahq/ambara/graphdoc"
	"github.com/ambarahq/ambara/port"
	"github.com/ambarahq/ambara/value"
)

// stubFilter is a minimal filter.Filter used only to exercise the
// document round-trip; it never runs.
type stubFilter struct {
	meta filter.Metadata
}

func (s *stubFilter) Metadata() filter.Metadata                    { return s.meta }
func (s *stubFilter) Validate(ctx *filter.ValidationContext) error { return nil }
func (s *stubFilter) Execute(ctx *filter.ExecutionContext) error   { return nil }

func loadFilter(id string) *stubFilter {
	return &stubFilter{meta: filter.Metadata{
		ID:      id,
		Outputs: []port.Port{{Name: "image", Type: value.Image, Direction: port.DirectionOutput}},
	}}
}

func blurFilter(id string) *stubFilter {
	return &stubFilter{meta: filter.Metadata{
		ID:      id,
		Inputs:  []port.Port{{Name: "image", Type: value.Image, Direction: port.DirectionInput}},
		Outputs: []port.Port{{Name: "image", Type: value.Image, Direction: port.DirectionOutput}},
		Parameters: []port.Parameter{
			{Name: "sigma", Type: value.Float, Default: value.NewFloat(1.0)},
		},
	}}
}

func registryOf(filters ...*stubFilter) Resolver {
	byID := make(map[string]*stubFilter, len(filters))
	for _, f := range filters {
		byID[f.meta.ID] = f
	}
	return func(id string) (filter.Filter, error) {
		f, ok := byID[id]
		if !ok {
			return nil, assertUnknown(id)
		}
		return f, nil
	}
}

type unknownFilterErr string

func (e unknownFilterErr) Error() string { return "no such filter: " + string(e) }

func assertUnknown(id string) error { return unknownFilterErr(id) }

func TestSaveThenLoadRoundTripsShape(t *testing.T) {
	g := graphdoc.NewGraph()
	g.Meta = graphdoc.Metadata{Name: "Demo", Tags: []string{"a", "b"}}

	load := g.AddNode(loadFilter("load_image"))
	blur := g.AddNode(blurFilter("gaussian_blur"))
	require.NoError(t, g.SetParameter(blur, "sigma", value.NewFloat(3.5)))
	require.NoError(t, g.SetLabel(blur, "Soft Blur"))
	require.NoError(t, g.SetPosition(load, graphdoc.Position{X: 10, Y: 20}))

	_, err := g.Connect(load, "image", blur, "image")
	require.NoError(t, err)

	doc := Save(g)
	assert.Equal(t, Version, doc.Version)
	assert.Equal(t, "Demo", doc.Metadata.Name)
	assert.Len(t, doc.Nodes, 2)
	assert.Len(t, doc.Connections, 1)

	reg := registryOf(loadFilter("load_image"), blurFilter("gaussian_blur"))
	loaded, err := Load(doc, reg)
	require.NoError(t, err)

	assert.Equal(t, "Demo", loaded.Meta.Name)
	assert.Len(t, loaded.Nodes(), 2)
	assert.Len(t, loaded.Connections(), 1)

	var blurNode *graphdoc.Node
	for _, n := range loaded.Nodes() {
		if n.Filter.Metadata().ID == "gaussian_blur" {
			blurNode = n
		}
	}
	require.NotNil(t, blurNode)
	assert.Equal(t, "Soft Blur", blurNode.Label)
	sigma, ok := blurNode.EffectiveParameter("sigma")
	require.True(t, ok)
	f, _ := sigma.AsFloat()
	assert.Equal(t, 3.5, f)
}

func TestMarshalUnmarshalJSONBytes(t *testing.T) {
	g := graphdoc.NewGraph()
	load := g.AddNode(loadFilter("load_image"))
	blur := g.AddNode(blurFilter("gaussian_blur"))
	_, err := g.Connect(load, "image", blur, "image")
	require.NoError(t, err)

	data, err := Marshal(g)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"version": "1.0.0"`)
	assert.Contains(t, string(data), "gaussian_blur")

	var probe map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &probe))
	_, hasConns := probe["connections"]
	assert.True(t, hasConns)

	reg := registryOf(loadFilter("load_image"), blurFilter("gaussian_blur"))
	loaded, err := Unmarshal(data, reg)
	require.NoError(t, err)
	assert.Len(t, loaded.Nodes(), 2)
}

func TestLoadRejectsUnknownFilterID(t *testing.T) {
	doc := NewDocument()
	doc.Nodes = append(doc.Nodes, Node{ID: "x", FilterID: "nonexistent"})

	_, err := Load(doc, registryOf())
	require.Error(t, err)
	var unk *ErrUnknownFilter
	require.ErrorAs(t, err, &unk)
	assert.Equal(t, "nonexistent", unk.FilterID)
}

func TestLoadRejectsWrongVersion(t *testing.T) {
	doc := NewDocument()
	doc.Version = "0.9.0"
	_, err := Load(doc, registryOf())
	assert.Error(t, err)
}

func TestLoadReplaysInvalidConnectionAsError(t *testing.T) {
	doc := NewDocument()
	doc.Nodes = []Node{
		{ID: "a", FilterID: "load_image"},
		{ID: "b", FilterID: "gaussian_blur"},
	}
	// wrong port name on purpose
	doc.Connections = []Connection{{FromNode: "a", FromPort: "image", ToNode: "b", ToPort: "nope"}}

	reg := registryOf(loadFilter("load_image"), blurFilter("gaussian_blur"))
	_, err := Load(doc, reg)
	require.Error(t, err)
}
