package serialize

import (
	"encoding/json"

	"github.com/ambarahq/ambara/graphdoc"
)

// Save converts a live graph into its Document wire representation.
// It never fails: every field on a *graphdoc.Graph is already
// well-formed by construction.
func Save(g *graphdoc.Graph) *Document {
	meta := g.Meta
	doc := &Document{
		Version: Version,
		Metadata: Metadata{
			Name:        meta.Name,
			Description: meta.Description,
			Author:      meta.Author,
			Version:     meta.Version,
			Tags:        meta.Tags,
			CreatedAt:   meta.CreatedAt,
			ModifiedAt:  meta.ModifiedAt,
		},
	}

	for _, n := range g.Nodes() {
		doc.Nodes = append(doc.Nodes, Node{
			ID:         n.ID,
			FilterID:   n.Filter.Metadata().ID,
			Position:   Position{X: n.Position.X, Y: n.Position.Y},
			Parameters: n.Overrides,
			Label:      n.Label,
			Disabled:   n.Disabled,
		})
	}

	for _, c := range g.Connections() {
		doc.Connections = append(doc.Connections, Connection{
			FromNode: c.Source.NodeID,
			FromPort: c.Source.Port,
			ToNode:   c.Target.NodeID,
			ToPort:   c.Target.Port,
		})
	}

	return doc
}

// Marshal saves g and renders it as indented JSON, a human-editable
// document suitable for version control or manual inspection.
func Marshal(g *graphdoc.Graph) ([]byte, error) {
	return json.MarshalIndent(Save(g), "", "  ")
}
