package graphdoc

import (
	"github.com/google/uuid"

	"github.com/ambarahq/ambara/filter"
	"github.com/ambarahq/ambara/value"
)

// AddNode inserts a new node backed by f and returns its freshly minted
// id. Always succeeds.
func (g *Graph) AddNode(f filter.Filter) string {
	id := uuid.NewString()

	g.muNodes.Lock()
	defer g.muNodes.Unlock()

	g.nodes[id] = &Node{ID: id, Filter: f, Overrides: make(map[string]value.Value)}
	g.nodeOrder = append(g.nodeOrder, id)

	g.muConn.Lock()
	g.outgoing[id] = make(map[string]struct{})
	g.incoming[id] = make(map[string]string)
	g.muConn.Unlock()

	return id
}

// Node returns the node with the given id, if present.
func (g *Graph) Node(id string) (*Node, bool) {
	g.muNodes.RLock()
	defer g.muNodes.RUnlock()
	n, ok := g.nodes[id]
	return n, ok
}

// Nodes returns all nodes in insertion order.
func (g *Graph) Nodes() []*Node {
	g.muNodes.RLock()
	defer g.muNodes.RUnlock()
	out := make([]*Node, 0, len(g.nodeOrder))
	for _, id := range g.nodeOrder {
		out = append(out, g.nodes[id])
	}
	return out
}

// NodeIDs returns node ids in insertion order.
func (g *Graph) NodeIDs() []string {
	g.muNodes.RLock()
	defer g.muNodes.RUnlock()
	out := make([]string, len(g.nodeOrder))
	copy(out, g.nodeOrder)
	return out
}

// Connections returns all connections in insertion order.
func (g *Graph) Connections() []*Connection {
	g.muConn.RLock()
	defer g.muConn.RUnlock()
	out := make([]*Connection, len(g.connections))
	copy(out, g.connections)
	return out
}

// RemoveNode deletes the node and cascades: every connection incident to
// id is also removed.
func (g *Graph) RemoveNode(id string) (*Node, error) {
	g.muNodes.Lock()
	defer g.muNodes.Unlock()
	g.muConn.Lock()
	defer g.muConn.Unlock()

	n, ok := g.nodes[id]
	if !ok {
		return nil, ErrNodeNotFound
	}

	// Cascade: drop every connection touching id, iterating a snapshot
	// since removeConnectionLocked mutates g.connections.
	victims := make([]string, 0)
	for _, c := range g.connections {
		if c.Source.NodeID == id || c.Target.NodeID == id {
			victims = append(victims, c.ID)
		}
	}
	for _, cid := range victims {
		g.removeConnectionLocked(cid)
	}

	delete(g.nodes, id)
	delete(g.outgoing, id)
	delete(g.incoming, id)
	for i, nid := range g.nodeOrder {
		if nid == id {
			g.nodeOrder = append(g.nodeOrder[:i], g.nodeOrder[i+1:]...)
			break
		}
	}

	return n, nil
}

// SetLabel sets a node's display label.
func (g *Graph) SetLabel(id, label string) error {
	g.muNodes.Lock()
	defer g.muNodes.Unlock()
	n, ok := g.nodes[id]
	if !ok {
		return ErrNodeNotFound
	}
	n.Label = label
	return nil
}

// SetDisabled sets a node's disabled flag.
func (g *Graph) SetDisabled(id string, disabled bool) error {
	g.muNodes.Lock()
	defer g.muNodes.Unlock()
	n, ok := g.nodes[id]
	if !ok {
		return ErrNodeNotFound
	}
	n.Disabled = disabled
	return nil
}

// SetPosition moves a node on the authoring canvas.
func (g *Graph) SetPosition(id string, pos Position) error {
	g.muNodes.Lock()
	defer g.muNodes.Unlock()
	n, ok := g.nodes[id]
	if !ok {
		return ErrNodeNotFound
	}
	n.Position = pos
	return nil
}

// SetParameter overrides a node's parameter value.
func (g *Graph) SetParameter(id, name string, v value.Value) error {
	g.muNodes.Lock()
	defer g.muNodes.Unlock()
	n, ok := g.nodes[id]
	if !ok {
		return ErrNodeNotFound
	}
	if n.Overrides == nil {
		n.Overrides = make(map[string]value.Value)
	}
	n.Overrides[name] = v
	return nil
}

// IsInputConnected reports whether the given node's named input port has
// an incoming connection.
func (g *Graph) IsInputConnected(node, portName string) bool {
	g.muConn.RLock()
	defer g.muConn.RUnlock()
	_, ok := g.incoming[node][portName]
	return ok
}

// Connect validates and records a new typed connection from
// (srcNode,srcPort) to (dstNode,dstPort), running five checks in a fixed
// order: node existence, port existence (and direction), type
// compatibility, single-incoming-connection, then cycle detection. No
// partial state is ever left behind on failure.
func (g *Graph) Connect(srcNode, srcPort, dstNode, dstPort string) (string, error) {
	g.muNodes.RLock()
	src, srcOK := g.nodes[srcNode]
	dst, dstOK := g.nodes[dstNode]
	g.muNodes.RUnlock()

	// 1) Node existence.
	if !srcOK || !dstOK {
		return "", ErrNodeNotFound
	}

	// 2) Port existence and direction.
	srcPortDef, ok := src.Filter.Metadata().OutputPort(srcPort)
	if !ok {
		return "", ErrPortNotFound
	}
	dstPortDef, ok := dst.Filter.Metadata().InputPort(dstPort)
	if !ok {
		return "", ErrPortNotFound
	}

	// 3) Type compatibility.
	if !srcPortDef.Type.CompatibleWith(dstPortDef.Type) {
		return "", &TypeMismatch{From: srcPortDef.Type.String(), To: dstPortDef.Type.String()}
	}

	g.muConn.Lock()
	defer g.muConn.Unlock()

	// 4) Single incoming connection per input.
	if _, taken := g.incoming[dstNode][dstPort]; taken {
		return "", ErrPortAlreadyConnected
	}

	// 5) Cycle detection: reject if dst can already reach src.
	if g.reachableLocked(dstNode, srcNode) {
		return "", &CycleDetected{Nodes: []string{srcNode, dstNode}}
	}

	id := uuid.NewString()
	conn := &Connection{
		ID:     id,
		Source: Endpoint{NodeID: srcNode, Port: srcPort},
		Target: Endpoint{NodeID: dstNode, Port: dstPort},
	}
	g.connByID[id] = len(g.connections)
	g.connections = append(g.connections, conn)
	g.outgoing[srcNode][id] = struct{}{}
	g.incoming[dstNode][dstPort] = id

	return id, nil
}

// Disconnect removes a connection by id.
func (g *Graph) Disconnect(connID string) error {
	g.muConn.Lock()
	defer g.muConn.Unlock()
	if _, ok := g.connByID[connID]; !ok {
		return ErrConnectionNotFound
	}
	g.removeConnectionLocked(connID)
	return nil
}

// DisconnectInput removes whatever connection feeds the given input port,
// if any. It is a no-op (returns ErrConnectionNotFound) if the port has no
// incoming connection.
func (g *Graph) DisconnectInput(node, portName string) error {
	g.muConn.Lock()
	defer g.muConn.Unlock()
	connID, ok := g.incoming[node][portName]
	if !ok {
		return ErrConnectionNotFound
	}
	g.removeConnectionLocked(connID)
	return nil
}

// removeConnectionLocked deletes a connection from all indices. Caller
// must hold muConn.
func (g *Graph) removeConnectionLocked(connID string) {
	idx, ok := g.connByID[connID]
	if !ok {
		return
	}
	c := g.connections[idx]

	delete(g.outgoing[c.Source.NodeID], connID)
	if g.incoming[c.Target.NodeID][c.Target.Port] == connID {
		delete(g.incoming[c.Target.NodeID], c.Target.Port)
	}

	g.connections = append(g.connections[:idx], g.connections[idx+1:]...)
	delete(g.connByID, connID)
	for id, i := range g.connByID {
		if i > idx {
			g.connByID[id] = i - 1
		}
	}
}
