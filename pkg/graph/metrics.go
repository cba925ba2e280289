package graph

// Degrees returns the degree of every node.
func (g *Graph) Degrees() map[string]int {
	degrees := make(map[string]int, len(g.nodes))
	for id := range g.nodes {
		degrees[id] = len(g.adj[id])
	}
	return degrees
}

// ClusteringCoefficient returns the local clustering coefficient of the
// node: the fraction of pairs of its neighbors that are themselves
// connected. Nodes with fewer than two neighbors have a coefficient of 0.
// Self-loops are ignored.
func (g *Graph) ClusteringCoefficient(id string) float64 {
	var neighbors []string
	for _, n := range g.adj[id] {
		if n != id {
			neighbors = append(neighbors, n)
		}
	}
	k := len(neighbors)
	if k < 2 {
		return 0
	}
	links := 0
	for i := 0; i < k; i++ {
		for j := i + 1; j < k; j++ {
			if g.HasEdge(neighbors[i], neighbors[j]) {
				links++
			}
		}
	}
	return float64(2*links) / float64(k*(k-1))
}

// ClusteringCoefficients returns the local clustering coefficient of every
// node.
func (g *Graph) ClusteringCoefficients() map[string]float64 {
	coefs := make(map[string]float64, len(g.nodes))
	for id := range g.nodes {
		coefs[id] = g.ClusteringCoefficient(id)
	}
	return coefs
}
