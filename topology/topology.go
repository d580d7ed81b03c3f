// Package topology computes execution order over a graphdoc.Graph: a
// flat topological order via Kahn's algorithm, and depth-batched groups
// for parallel dispatch. Batch depth is defined as the longest path from
// any source node, computed explicitly as 1+max(parent depth) — a
// BFS-distance notion of depth can underestimate a node's true
// dependency depth on non-tree DAGs, so this package avoids it.
package topology

import "github.com/ambarahq/ambara/graphdoc"

// CycleDetected is returned by TopologicalSort when the graph cannot be
// fully ordered; Remaining lists the node ids that could not be emitted.
type CycleDetected struct {
	Remaining []string
}

func (e *CycleDetected) Error() string {
	return "topology: cycle prevents a full topological order"
}

// TopologicalSort orders the graph's nodes using Kahn's algorithm:
// initialize in-degree from connections, repeatedly emit zero-in-degree
// nodes in insertion order, decrementing their successors' in-degree. If
// a cycle prevents emitting every node, returns CycleDetected naming the
// nodes left over.
func TopologicalSort(g *graphdoc.Graph) ([]string, error) {
	nodes := g.NodeIDs()
	inDegree := make(map[string]int, len(nodes))
	outgoing := make(map[string][]string, len(nodes))
	for _, id := range nodes {
		inDegree[id] = 0
	}
	for _, c := range g.Connections() {
		inDegree[c.Target.NodeID]++
		outgoing[c.Source.NodeID] = append(outgoing[c.Source.NodeID], c.Target.NodeID)
	}

	queue := make([]string, 0, len(nodes))
	for _, id := range nodes {
		if inDegree[id] == 0 {
			queue = append(queue, id)
		}
	}

	order := make([]string, 0, len(nodes))
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		order = append(order, cur)
		for _, next := range outgoing[cur] {
			inDegree[next]--
			if inDegree[next] == 0 {
				queue = append(queue, next)
			}
		}
	}

	if len(order) != len(nodes) {
		remaining := make([]string, 0, len(nodes)-len(order))
		emitted := make(map[string]struct{}, len(order))
		for _, id := range order {
			emitted[id] = struct{}{}
		}
		for _, id := range nodes {
			if _, ok := emitted[id]; !ok {
				remaining = append(remaining, id)
			}
		}
		return nil, &CycleDetected{Remaining: remaining}
	}

	return order, nil
}

// Batches groups the graph's nodes by dependency depth for parallel
// dispatch: depth 0 is every source node (in-degree 0); every other
// node's depth is 1+max(depth of its parents) — the longest path from
// any source. Nodes within a batch are mutually independent and ordered
// deterministically by insertion order on ties.
func Batches(g *graphdoc.Graph) ([][]string, error) {
	order, err := TopologicalSort(g)
	if err != nil {
		return nil, err
	}

	depth := make(map[string]int, len(order))
	maxDepth := 0
	for _, id := range order {
		d := 0
		for _, parent := range g.Upstream(id) {
			if pd, ok := depth[parent]; ok && pd+1 > d {
				d = pd + 1
			}
		}
		depth[id] = d
		if d > maxDepth {
			maxDepth = d
		}
	}

	batches := make([][]string, maxDepth+1)
	for _, id := range order {
		d := depth[id]
		batches[d] = append(batches[d], id)
	}
	return batches, nil
}
