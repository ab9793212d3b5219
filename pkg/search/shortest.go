package search

import (
	"context"
	"math"

	"github.com/ritzau/campus-nav/pkg/campus"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/path"
)

// expansionRecorder notes the order in which a shortest-path search asks for
// the neighbors of a node, which is the order nodes are expanded.
type expansionRecorder struct {
	*campus.Graph
	m     *campus.Map
	seen  map[int64]bool
	order []string
}

func newExpansionRecorder(m *campus.Map) *expansionRecorder {
	return &expansionRecorder{
		Graph: m.Graph(),
		m:     m,
		seen:  make(map[int64]bool),
	}
}

func (r *expansionRecorder) From(id int64) graph.Nodes {
	if !r.seen[id] {
		r.seen[id] = true
		r.order = append(r.order, r.m.NameOf(id))
	}
	return r.Graph.From(id)
}

// aStar uses edge weight as cost and a zero heuristic, which makes it exact
func aStar(ctx context.Context, m *campus.Map, from, to string) (Result, error) {
	startID, goalID, err := endpoints(m, from, to)
	if err != nil {
		return Result{}, err
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	g := newExpansionRecorder(m)
	shortest, _ := path.AStar(g.Node(startID), g.Node(goalID), g, path.NullHeuristic)
	return shortestResult(m, g, shortest, goalID)
}

// dijkstra is the weighted shortest-path search AO* falls back to
func dijkstra(ctx context.Context, m *campus.Map, from, to string) (Result, error) {
	startID, goalID, err := endpoints(m, from, to)
	if err != nil {
		return Result{}, err
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	g := newExpansionRecorder(m)
	shortest := path.DijkstraFrom(g.Node(startID), g)
	return shortestResult(m, g, shortest, goalID)
}

func shortestResult(m *campus.Map, g *expansionRecorder, shortest path.Shortest, goalID int64) (Result, error) {
	nodes, weight := shortest.To(goalID)
	if len(nodes) == 0 || math.IsInf(weight, 1) {
		return Result{Visited: g.order}, ErrDisconnected
	}

	names := make([]string, len(nodes))
	for i, n := range nodes {
		names[i] = m.NameOf(n.ID())
	}
	return Result{Path: names, Visited: g.order}, nil
}

// aoStar has no AND-OR formulation on a plain location graph. It answers with
// Dijkstra and reports the substitution, or refuses when strict.
func aoStar(strict bool) SearcherFunc {
	return func(ctx context.Context, m *campus.Map, from, to string) (Result, error) {
		if strict {
			return Result{}, ErrNotImplemented
		}
		res, err := dijkstra(ctx, m, from, to)
		res.Substitute = "Dijkstra"
		return res, err
	}
}
