package validate

import "github.com/ambarahq/ambara/graphdoc"

// findCycle detects a cycle among the graph's nodes using Kahn's
// algorithm: repeatedly strip zero-in-degree nodes in insertion order;
// whatever remains once no more can be stripped participates in a cycle.
// Kept independent of the topology package (which computes the full
// topological order and batch depths for execution) so validate's
// structural stage stays a small, self-contained check.
func findCycle(g *graphdoc.Graph, nodes []*graphdoc.Node) []string {
	inDegree := make(map[string]int, len(nodes))
	outgoing := make(map[string][]string, len(nodes))
	for _, n := range nodes {
		inDegree[n.ID] = 0
	}
	for _, c := range g.Connections() {
		inDegree[c.Target.NodeID]++
		outgoing[c.Source.NodeID] = append(outgoing[c.Source.NodeID], c.Target.NodeID)
	}

	queue := make([]string, 0, len(nodes))
	for _, n := range nodes {
		if inDegree[n.ID] == 0 {
			queue = append(queue, n.ID)
		}
	}

	processed := 0
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		processed++
		for _, next := range outgoing[cur] {
			inDegree[next]--
			if inDegree[next] == 0 {
				queue = append(queue, next)
			}
		}
	}

	if processed == len(nodes) {
		return nil
	}

	remaining := make([]string, 0, len(nodes)-processed)
	for _, n := range nodes {
		if inDegree[n.ID] > 0 {
			remaining = append(remaining, n.ID)
		}
	}
	return remaining
}

// weaklyConnectedComponents counts connected components of the graph
// treated as undirected.
func weaklyConnectedComponents(g *graphdoc.Graph, nodes []*graphdoc.Node) int {
	undirected := make(map[string][]string, len(nodes))
	for _, n := range nodes {
		undirected[n.ID] = nil
	}
	for _, c := range g.Connections() {
		undirected[c.Source.NodeID] = append(undirected[c.Source.NodeID], c.Target.NodeID)
		undirected[c.Target.NodeID] = append(undirected[c.Target.NodeID], c.Source.NodeID)
	}

	visited := make(map[string]bool, len(nodes))
	components := 0
	for _, n := range nodes {
		if visited[n.ID] {
			continue
		}
		components++
		queue := []string{n.ID}
		visited[n.ID] = true
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			for _, next := range undirected[cur] {
				if !visited[next] {
					visited[next] = true
					queue = append(queue, next)
				}
			}
		}
	}
	return components
}
