// Package omics holds the correlation-graph stage: per-layer graph
// construction from the bootstrap matrices, the cross-layer intersection
// into a consensus graph, and community detection over the consensus.
package omics

import (
	"fmt"
	"sort"
)

// Edge is one weighted undirected edge with A < B.
type Edge struct {
	A, B   string
	Weight float64
}

// Graph is a weighted undirected graph keyed by stable node identity, so
// intersection and pruning are set operations rather than index
// realignments. Endpoints of an edge are always distinct and each unordered
// pair holds at most one edge.
type Graph struct {
	adj map[string]map[string]float64
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{adj: make(map[string]map[string]float64)}
}

// AddNode ensures a node exists.
func (g *Graph) AddNode(id string) {
	if _, ok := g.adj[id]; !ok {
		g.adj[id] = make(map[string]float64)
	}
}

// AddEdge sets the weight of the undirected edge (a, b), creating the
// endpoints as needed. Self-loops are rejected.
func (g *Graph) AddEdge(a, b string, weight float64) error {
	if a == b {
		return fmt.Errorf("self-loop on %q", a)
	}
	g.AddNode(a)
	g.AddNode(b)
	g.adj[a][b] = weight
	g.adj[b][a] = weight
	return nil
}

// HasNode reports whether a node exists.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.adj[id]
	return ok
}

// HasEdge reports whether the undirected edge (a, b) exists.
func (g *Graph) HasEdge(a, b string) bool {
	_, ok := g.adj[a][b]
	return ok
}

// Weight returns the edge weight and whether the edge exists.
func (g *Graph) Weight(a, b string) (float64, bool) {
	w, ok := g.adj[a][b]
	return w, ok
}

// RemoveNode deletes a node and its incident edges.
func (g *Graph) RemoveNode(id string) {
	for other := range g.adj[id] {
		delete(g.adj[other], id)
	}
	delete(g.adj, id)
}

// Nodes returns all node identifiers in sorted order.
func (g *Graph) Nodes() []string {
	nodes := make([]string, 0, len(g.adj))
	for id := range g.adj {
		nodes = append(nodes, id)
	}
	sort.Strings(nodes)
	return nodes
}

// Neighbors returns the sorted neighbors of a node.
func (g *Graph) Neighbors(id string) []string {
	neighbors := make([]string, 0, len(g.adj[id]))
	for other := range g.adj[id] {
		neighbors = append(neighbors, other)
	}
	sort.Strings(neighbors)
	return neighbors
}

// Degree returns the number of edges incident to a node.
func (g *Graph) Degree(id string) int {
	return len(g.adj[id])
}

// Edges returns all edges with A < B, sorted.
func (g *Graph) Edges() []Edge {
	edges := make([]Edge, 0)
	for a, neighbors := range g.adj {
		for b, w := range neighbors {
			if a < b {
				edges = append(edges, Edge{A: a, B: b, Weight: w})
			}
		}
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].A != edges[j].A {
			return edges[i].A < edges[j].A
		}
		return edges[i].B < edges[j].B
	})
	return edges
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.adj) }

// EdgeCount returns the number of undirected edges.
func (g *Graph) EdgeCount() int {
	n := 0
	for _, neighbors := range g.adj {
		n += len(neighbors)
	}
	return n / 2
}

// Isolates returns the nodes with no incident edges, sorted.
func (g *Graph) Isolates() []string {
	isolates := make([]string, 0)
	for id, neighbors := range g.adj {
		if len(neighbors) == 0 {
			isolates = append(isolates, id)
		}
	}
	sort.Strings(isolates)
	return isolates
}

// RemoveIsolates drops all nodes without edges and returns how many were
// removed.
func (g *Graph) RemoveIsolates() int {
	isolates := g.Isolates()
	for _, id := range isolates {
		g.RemoveNode(id)
	}
	return len(isolates)
}

// RemovePairIsolates drops isolated nodes and node pairs that are connected
// only to one another, returning how many nodes were removed. Such pairs
// carry no community structure of their own.
func (g *Graph) RemovePairIsolates() int {
	remove := make(map[string]bool)
	for _, id := range g.Nodes() {
		if remove[id] {
			continue
		}
		neighbors := g.Neighbors(id)
		switch len(neighbors) {
		case 0:
			remove[id] = true
		case 1:
			other := neighbors[0]
			if g.Degree(other) == 1 {
				remove[id] = true
				remove[other] = true
			}
		}
	}
	for id := range remove {
		g.RemoveNode(id)
	}
	return len(remove)
}

// Clone returns a deep copy of the graph.
func (g *Graph) Clone() *Graph {
	clone := NewGraph()
	for id, neighbors := range g.adj {
		clone.AddNode(id)
		for other, w := range neighbors {
			clone.adj[id][other] = w
		}
	}
	return clone
}
