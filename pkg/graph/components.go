package graph

import "slices"

// Components returns the connected components of the graph.
//
// Each component is a maximal set of mutually reachable nodes; the
// components partition the node set exactly, with isolated nodes forming
// singleton components. The result is deterministic: traversal is seeded in
// lexicographic node order, each component's nodes are sorted, and the
// component order is the discovery order of each component's smallest node.
func (g *Graph) Components() [][]string {
	seen := make(map[string]bool, len(g.nodes))
	var components [][]string

	for _, start := range g.Nodes() {
		if seen[start] {
			continue
		}
		component := []string{}
		queue := []string{start}
		seen[start] = true
		for len(queue) > 0 {
			id := queue[0]
			queue = queue[1:]
			component = append(component, id)
			for _, next := range g.Neighbors(id) {
				if !seen[next] {
					seen[next] = true
					queue = append(queue, next)
				}
			}
		}
		slices.Sort(component)
		components = append(components, component)
	}
	return components
}
