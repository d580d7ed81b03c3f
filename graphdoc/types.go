package graphdoc

import (
	"sync"
	"time"

	"github.com/ambarahq/ambara/filter"
	"github.com/ambarahq/ambara/value"
)

// Position is the node's location on an authoring canvas. The engine
// never reads it; it round-trips through the JSON document
// purely for the front-end's benefit.
type Position struct {
	X, Y float64
}

// Node is a graph node instance: a reference to an immutable Filter
// implementation plus per-instance overrides. Filters themselves are never mutated — only the instance's
// overrides, position, label, and disabled flag change.
type Node struct {
	ID        string
	Filter    filter.Filter
	Position  Position
	Overrides map[string]value.Value
	Label     string
	Disabled  bool
}

// EffectiveParameter resolves the effective value for a named parameter:
// the instance override if present, else the filter metadata's default.
func (n *Node) EffectiveParameter(name string) (value.Value, bool) {
	if v, ok := n.Overrides[name]; ok {
		return v, true
	}
	if p, ok := n.Filter.Metadata().Parameter(name); ok {
		return p.Default, true
	}
	return value.None(), false
}

// Endpoint names one side of a Connection: a node id and a port name.
type Endpoint struct {
	NodeID string
	Port   string
}

// Connection is a typed, directed edge between one node's output port and
// another node's input port.
type Connection struct {
	ID     string
	Source Endpoint
	Target Endpoint
}

// Metadata is free-form descriptive information about the graph as a
// whole, carried through the JSON document.
type Metadata struct {
	Name        string
	Description string
	Author      string
	Version     string
	Tags        []string
	CreatedAt   *time.Time
	ModifiedAt  *time.Time
}

// Graph is the processing graph: an ordered node mapping, an ordered
// connection list, and graph-level metadata. Two separate locks guard
// nodes and connections/adjacency to minimize contention between node
// bookkeeping and connection traversal.
type Graph struct {
	muNodes sync.RWMutex
	muConn  sync.RWMutex

	nodes     map[string]*Node
	nodeOrder []string // insertion order, for deterministic iteration

	connections []*Connection // insertion-ordered, the canonical edge list
	connByID    map[string]int // connection id -> index into connections

	// adjacency caches: outgoing[nodeID] -> connection ids originating there,
	// incoming[nodeID][port] -> connection id (at most one, invariant 3).
	outgoing map[string]map[string]struct{}
	incoming map[string]map[string]string

	Meta Metadata
}

// NewGraph constructs an empty processing graph.
func NewGraph() *Graph {
	return &Graph{
		nodes:    make(map[string]*Node),
		connByID: make(map[string]int),
		outgoing: make(map[string]map[string]struct{}),
		incoming: make(map[string]map[string]string),
	}
}
