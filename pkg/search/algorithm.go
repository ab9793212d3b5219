package search

import (
	"fmt"
	"strings"
)

// Algorithm selects the search strategy used to route between two locations
type Algorithm string

const (
	DFS          Algorithm = "dfs"
	BFS          Algorithm = "bfs"
	AStar        Algorithm = "astar"
	AOStar       Algorithm = "aostar"
	HillClimbing Algorithm = "hill-climbing"
)

var displayNames = map[Algorithm]string{
	DFS:          "DFS",
	BFS:          "BFS",
	AStar:        "A*",
	AOStar:       "AO*",
	HillClimbing: "Hill Climbing",
}

// All returns every algorithm in menu order
func All() []Algorithm {
	return []Algorithm{DFS, BFS, AStar, AOStar, HillClimbing}
}

// DisplayName returns the name shown to users, e.g. "A*"
func (a Algorithm) DisplayName() string {
	if name, ok := displayNames[a]; ok {
		return name
	}
	return string(a)
}

func (a Algorithm) String() string {
	return a.DisplayName()
}

// ParseAlgorithm accepts display names ("Hill Climbing", "A*") as well as
// slugs ("hill-climbing", "astar"), ignoring case and surrounding space.
func ParseAlgorithm(s string) (Algorithm, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	switch key {
	case "dfs", "depth-first", "depth first":
		return DFS, nil
	case "bfs", "breadth-first", "breadth first":
		return BFS, nil
	case "a*", "astar", "a-star":
		return AStar, nil
	case "ao*", "aostar", "ao-star":
		return AOStar, nil
	case "hill climbing", "hill-climbing", "hillclimbing", "hill":
		return HillClimbing, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAlgorithm, s)
}
