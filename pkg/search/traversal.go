package search

import (
	"context"

	"github.com/ritzau/campus-nav/pkg/campus"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/iterator"
	"gonum.org/v1/gonum/graph/traverse"
)

// parentTracker records the discovery tree of a gonum traversal so the path
// to the goal can be rebuilt once the goal is reached.
type parentTracker struct {
	m       *campus.Map
	start   int64
	current int64
	parent  map[int64]int64
	seen    map[int64]bool
	order   []string
}

func newParentTracker(m *campus.Map, start int64) *parentTracker {
	return &parentTracker{
		m:       m,
		start:   start,
		current: start,
		parent:  make(map[int64]int64),
		seen:    make(map[int64]bool),
	}
}

func (t *parentTracker) visit(n graph.Node) {
	if t.seen[n.ID()] {
		return
	}
	t.seen[n.ID()] = true
	t.order = append(t.order, t.m.NameOf(n.ID()))
}

// expand marks n as the node whose neighbors are examined next
func (t *parentTracker) expand(n graph.Node) {
	t.current = n.ID()
}

// traverse accepts every edge and points the far end back to the node being expanded.
// A later discovery overwrites an earlier one until the node has been visited,
// which keeps the parent consistent with stack order in depth-first walks.
func (t *parentTracker) traverse(e graph.Edge) bool {
	other := e.To().ID()
	if other == t.current {
		other = e.From().ID()
	}
	if other != t.start && !t.seen[other] {
		t.parent[other] = t.current
	}
	return true
}

func (t *parentTracker) pathTo(goal int64) []string {
	var reversed []string
	for id := goal; ; {
		reversed = append(reversed, t.m.NameOf(id))
		if id == t.start {
			break
		}
		id = t.parent[id]
	}

	path := make([]string, len(reversed))
	for i, name := range reversed {
		path[len(reversed)-1-i] = name
	}
	return path
}

// firstNeighborFirst reverses neighbor order so a stack based walk explores
// neighbors in definition order.
type firstNeighborFirst struct {
	*campus.Graph
}

func (g firstNeighborFirst) From(id int64) graph.Nodes {
	var nodes []graph.Node
	for it := g.Graph.From(id); it.Next(); {
		nodes = append(nodes, it.Node())
	}
	for i, j := 0, len(nodes)-1; i < j; i, j = i+1, j-1 {
		nodes[i], nodes[j] = nodes[j], nodes[i]
	}
	return iterator.NewOrderedNodes(nodes)
}

func depthFirst(ctx context.Context, m *campus.Map, from, to string) (Result, error) {
	startID, goalID, err := endpoints(m, from, to)
	if err != nil {
		return Result{}, err
	}

	g := m.Graph()
	tracker := newParentTracker(m, startID)
	walker := traverse.DepthFirst{
		Visit:    tracker.visit,
		Traverse: tracker.traverse,
	}

	found := walker.Walk(firstNeighborFirst{g}, g.Node(startID), func(n graph.Node) bool {
		tracker.expand(n)
		return n.ID() == goalID || ctx.Err() != nil
	})

	return finishWalk(ctx, tracker, found, goalID)
}

func breadthFirst(ctx context.Context, m *campus.Map, from, to string) (Result, error) {
	startID, goalID, err := endpoints(m, from, to)
	if err != nil {
		return Result{}, err
	}

	g := m.Graph()
	tracker := newParentTracker(m, startID)
	walker := traverse.BreadthFirst{
		Visit:    tracker.visit,
		Traverse: tracker.traverse,
	}

	found := walker.Walk(g, g.Node(startID), func(n graph.Node, _ int) bool {
		tracker.expand(n)
		return n.ID() == goalID || ctx.Err() != nil
	})

	return finishWalk(ctx, tracker, found, goalID)
}

func finishWalk(ctx context.Context, tracker *parentTracker, found graph.Node, goalID int64) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{Visited: tracker.order}, err
	}
	if found == nil || found.ID() != goalID {
		return Result{Visited: tracker.order}, ErrDisconnected
	}
	return Result{
		Path:    tracker.pathTo(goalID),
		Visited: tracker.order,
	}, nil
}

func endpoints(m *campus.Map, from, to string) (int64, int64, error) {
	startID, ok := m.ID(from)
	if !ok {
		return 0, 0, ErrInvalidVertex
	}
	goalID, ok := m.ID(to)
	if !ok {
		return 0, 0, ErrInvalidVertex
	}
	return startID, goalID, nil
}
