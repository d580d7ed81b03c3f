package serialize

import (
	"encoding/json"
	"fmt"

	"github.com/ambarahq/ambara/filter"
	"github.com/ambarahq/ambara/graphdoc"
)

// Resolver looks up a live filter implementation by its catalog id
// (e.g. "gaussian_blur"), the same lookup a filter registry performs for
// any caller. Load calls it once per serialized node.
type Resolver func(filterID string) (filter.Filter, error)

// ErrUnknownFilter is wrapped around a Resolver failure so callers can
// distinguish "bad document" from "unknown filter id" with errors.As.
type ErrUnknownFilter struct {
	NodeID   string
	FilterID string
	Cause    error
}

func (e *ErrUnknownFilter) Error() string {
	return fmt.Sprintf("serialize: node %s: unknown filter %q: %v", e.NodeID, e.FilterID, e.Cause)
}

func (e *ErrUnknownFilter) Unwrap() error { return e.Cause }

// Load rebuilds a *graphdoc.Graph from doc, resolving each node's
// filter_id via resolve and replaying every connection through
// Graph.Connect so the five structural invariants are
// re-validated rather than trusted blindly from the file.
//
// graphdoc.AddNode mints a fresh id for every node (ids are never
// caller-supplied), so Load keeps an old-id -> new-id map
// and translates doc.Connections through it; the document's own node
// ids are not preserved across a save/load round-trip, only the graph's
// shape and content are.
func Load(doc *Document, resolve Resolver) (*graphdoc.Graph, error) {
	if doc.Version != Version {
		return nil, fmt.Errorf("serialize: unsupported document version %q (want %q)", doc.Version, Version)
	}

	g := graphdoc.NewGraph()
	g.Meta = graphdoc.Metadata{
		Name:        doc.Metadata.Name,
		Description: doc.Metadata.Description,
		Author:      doc.Metadata.Author,
		Version:     doc.Metadata.Version,
		Tags:        doc.Metadata.Tags,
		CreatedAt:   doc.Metadata.CreatedAt,
		ModifiedAt:  doc.Metadata.ModifiedAt,
	}

	idMap := make(map[string]string, len(doc.Nodes))
	for _, n := range doc.Nodes {
		f, err := resolve(n.FilterID)
		if err != nil {
			return nil, &ErrUnknownFilter{NodeID: n.ID, FilterID: n.FilterID, Cause: err}
		}

		newID := g.AddNode(f)
		idMap[n.ID] = newID

		if err := g.SetPosition(newID, graphdoc.Position{X: n.Position.X, Y: n.Position.Y}); err != nil {
			return nil, err
		}
		if n.Label != "" {
			if err := g.SetLabel(newID, n.Label); err != nil {
				return nil, err
			}
		}
		if n.Disabled {
			if err := g.SetDisabled(newID, true); err != nil {
				return nil, err
			}
		}
		for name, v := range n.Parameters {
			if err := g.SetParameter(newID, name, v); err != nil {
				return nil, err
			}
		}
	}

	for _, c := range doc.Connections {
		fromID, ok := idMap[c.FromNode]
		if !ok {
			return nil, fmt.Errorf("serialize: connection references unknown node %q", c.FromNode)
		}
		toID, ok := idMap[c.ToNode]
		if !ok {
			return nil, fmt.Errorf("serialize: connection references unknown node %q", c.ToNode)
		}
		if _, err := g.Connect(fromID, c.FromPort, toID, c.ToPort); err != nil {
			return nil, fmt.Errorf("serialize: connect %s:%s -> %s:%s: %w", c.FromNode, c.FromPort, c.ToNode, c.ToPort, err)
		}
	}

	return g, nil
}

// Unmarshal parses JSON bytes into a Document and loads it via Load.
func Unmarshal(data []byte, resolve Resolver) (*graphdoc.Graph, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("serialize: parse document: %w", err)
	}
	return Load(&doc, resolve)
}
