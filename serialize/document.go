package serialize

import (
	"time"

	"github.com/ambarahq/ambara/value"
)

// Document is the wire shape of a saved graph. Field names and nesting
// match the schema exactly so that Document round-trips through
// encoding/json with plain struct tags — no custom (Un)MarshalJSON
// needed here; only value.Value (in Node.Parameters) carries its own
// tagged-union codec.
type Document struct {
	Version     string       `json:"version"`
	Metadata    Metadata     `json:"metadata"`
	Nodes       []Node       `json:"nodes"`
	Connections []Connection `json:"connections"`
}

// Metadata mirrors graphdoc.Metadata for the wire format.
type Metadata struct {
	Name        string     `json:"name,omitempty"`
	Description string     `json:"description,omitempty"`
	Author      string     `json:"author,omitempty"`
	Version     string     `json:"version,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
	ModifiedAt  *time.Time `json:"modified_at,omitempty"`
}

// Position mirrors graphdoc.Position for the wire format.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Node is one serialized node instance: a reference to a filter by id
// (resolved against a registry on load), its canvas position, parameter
// overrides, and display state.
type Node struct {
	ID         string                 `json:"id"`
	FilterID   string                 `json:"filter_id"`
	Position   Position               `json:"position"`
	Parameters map[string]value.Value `json:"parameters"`
	Label      string                 `json:"label,omitempty"`
	Disabled   bool                   `json:"disabled"`
}

// Connection is one serialized typed edge.
type Connection struct {
	FromNode string `json:"from_node"`
	FromPort string `json:"from_port"`
	ToNode   string `json:"to_node"`
	ToPort   string `json:"to_port"`
}

// NewDocument returns an empty, current-version Document.
func NewDocument() *Document {
	return &Document{Version: Version}
}
