// Package search routes between two campus locations with one of several
// textbook strategies and reports the path together with its distance.
package search

import (
	"context"
	"errors"
	"fmt"

	"github.com/ritzau/campus-nav/pkg/campus"
	"github.com/ritzau/campus-nav/pkg/logging"
)

// Result is a computed route
type Result struct {
	Algorithm Algorithm `json:"algorithm"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	Path      []string  `json:"path"`
	Distance  int       `json:"distance"`
	// Visited lists the locations the search reached, in the order it reached them
	Visited []string `json:"visited"`
	// Substitute names the algorithm that actually ran, if it differs from Algorithm
	Substitute string `json:"substitute,omitempty"`
}

// Searcher computes a path between two locations known to be on the map.
// The returned Result only needs Path, Visited and Substitute filled in.
type Searcher interface {
	Search(ctx context.Context, m *campus.Map, from, to string) (Result, error)
}

// SearcherFunc adapts a function to the Searcher interface
type SearcherFunc func(ctx context.Context, m *campus.Map, from, to string) (Result, error)

func (f SearcherFunc) Search(ctx context.Context, m *campus.Map, from, to string) (Result, error) {
	return f(ctx, m, from, to)
}

// Request is a route request as entered by a user. Algorithm accepts any
// spelling ParseAlgorithm understands.
type Request struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Algorithm string `json:"algorithm"`
}

// Navigator dispatches route requests to the searcher registered for the
// requested algorithm.
type Navigator struct {
	searchers map[Algorithm]Searcher
}

// Option configures a Navigator
type Option func(*Navigator)

// WithSearcher registers s for a, replacing any default
func WithSearcher(a Algorithm, s Searcher) Option {
	return func(n *Navigator) {
		n.searchers[a] = s
	}
}

// WithStrictAOStar makes AO* fail with ErrNotImplemented instead of falling back to Dijkstra
func WithStrictAOStar(strict bool) Option {
	return func(n *Navigator) {
		n.searchers[AOStar] = aoStar(strict)
	}
}

// NewNavigator creates a navigator with all algorithms registered
func NewNavigator(opts ...Option) *Navigator {
	n := &Navigator{
		searchers: map[Algorithm]Searcher{
			DFS:          SearcherFunc(depthFirst),
			BFS:          SearcherFunc(breadthFirst),
			AStar:        SearcherFunc(aStar),
			AOStar:       aoStar(false),
			HillClimbing: SearcherFunc(hillClimb),
		},
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Route validates req against m and runs the selected search.
// Input problems are reported before any search starts.
func (n *Navigator) Route(ctx context.Context, m *campus.Map, req Request) (*Result, error) {
	if req.From == "" || req.To == "" || req.Algorithm == "" {
		return nil, ErrMissingInput
	}
	if req.From == req.To {
		return nil, fmt.Errorf("%w: %q", ErrSameLocation, req.From)
	}

	alg, err := ParseAlgorithm(req.Algorithm)
	if err != nil {
		return nil, err
	}
	return n.FindPath(ctx, m, req.From, req.To, alg)
}

// FindPath runs alg from start to goal on m
func (n *Navigator) FindPath(ctx context.Context, m *campus.Map, start, goal string, alg Algorithm) (*Result, error) {
	if start == goal {
		return nil, fmt.Errorf("%w: %q", ErrSameLocation, start)
	}
	for _, name := range []string{start, goal} {
		if !m.Has(name) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidVertex, name)
		}
	}

	searcher, ok := n.searchers[alg]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, string(alg))
	}

	logging.DebugContext(ctx, "searching", "algorithm", string(alg), "from", start, "to", goal)

	res, err := searcher.Search(ctx, m, start, goal)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		logging.DebugContext(ctx, "search failed", "algorithm", string(alg), "error", err)
		return nil, &Error{Algorithm: alg, From: start, To: goal, Trail: res.Visited, Err: err}
	}

	if len(res.Path) == 0 || res.Path[0] != start || res.Path[len(res.Path)-1] != goal {
		return nil, &Error{Algorithm: alg, From: start, To: goal, Trail: res.Path, Err: ErrDisconnected}
	}

	distance, err := m.Distance(res.Path)
	if err != nil {
		return nil, &Error{Algorithm: alg, From: start, To: goal, Trail: res.Path, Err: err}
	}

	res.Algorithm = alg
	res.From = start
	res.To = goal
	res.Distance = distance
	return &res, nil
}

var defaultNavigator = NewNavigator()

// FindPath runs alg from start to goal with the default navigator
func FindPath(ctx context.Context, m *campus.Map, start, goal string, alg Algorithm) (*Result, error) {
	return defaultNavigator.FindPath(ctx, m, start, goal, alg)
}
