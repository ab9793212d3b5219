package search

import (
	"context"

	"github.com/ritzau/campus-nav/pkg/campus"
)

// hillClimb greedily steps to the cheapest unvisited neighbor until it stands
// on the goal. It never backtracks, so it can fail on connected maps.
// Ties go to the neighbor defined first.
func hillClimb(ctx context.Context, m *campus.Map, from, to string) (Result, error) {
	if _, _, err := endpoints(m, from, to); err != nil {
		return Result{}, err
	}

	current := from
	trail := []string{current}
	visited := map[string]bool{}

	for current != to {
		if err := ctx.Err(); err != nil {
			return Result{Visited: trail}, err
		}
		visited[current] = true

		var next *campus.Neighbor
		for _, n := range m.Neighbors(current) {
			if visited[n.Name] {
				continue
			}
			if next == nil || n.Weight < next.Weight {
				next = &n
			}
		}
		if next == nil {
			return Result{Visited: trail}, ErrNeighborsExhausted
		}

		current = next.Name
		trail = append(trail, current)
	}

	return Result{Path: trail, Visited: trail}, nil
}
