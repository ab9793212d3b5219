package campus

import (
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/iterator"
)

// Graph adapts a Map to gonum's weighted undirected graph interfaces.
// Node and neighbor iteration follow definition order so that traversals and
// tie-breaks are reproducible.
type Graph struct {
	m *Map
}

var (
	_ graph.Undirected = (*Graph)(nil)
	_ graph.Weighted   = (*Graph)(nil)
)

// Node returns the node with the given ID, or nil
func (g *Graph) Node(id int64) graph.Node {
	return g.m.graph.Node(id)
}

// Nodes returns all nodes in definition order
func (g *Graph) Nodes() graph.Nodes {
	nodes := make([]graph.Node, len(g.m.locations))
	for i := range g.m.locations {
		nodes[i] = g.m.graph.Node(int64(i))
	}
	return iterator.NewOrderedNodes(nodes)
}

// From returns the neighbors of id in edge definition order
func (g *Graph) From(id int64) graph.Nodes {
	if id < 0 || id >= int64(len(g.m.adjacency)) {
		return iterator.NewOrderedNodes(nil)
	}
	adj := g.m.adjacency[id]
	nodes := make([]graph.Node, 0, len(adj))
	for _, n := range adj {
		nodes = append(nodes, g.m.graph.Node(g.m.ids[n.Name]))
	}
	return iterator.NewOrderedNodes(nodes)
}

// HasEdgeBetween reports whether x and y are adjacent
func (g *Graph) HasEdgeBetween(xid, yid int64) bool {
	return g.m.graph.HasEdgeBetween(xid, yid)
}

// Edge returns the edge from u to v, or nil
func (g *Graph) Edge(uid, vid int64) graph.Edge {
	return g.m.graph.Edge(uid, vid)
}

// EdgeBetween returns the edge between x and y, or nil
func (g *Graph) EdgeBetween(xid, yid int64) graph.Edge {
	return g.m.graph.EdgeBetween(xid, yid)
}

// WeightedEdge returns the weighted edge from u to v, or nil
func (g *Graph) WeightedEdge(uid, vid int64) graph.WeightedEdge {
	return g.m.graph.WeightedEdge(uid, vid)
}

// Weight returns the edge weight between x and y. Identical nodes weigh zero.
func (g *Graph) Weight(xid, yid int64) (float64, bool) {
	return g.m.graph.Weight(xid, yid)
}
