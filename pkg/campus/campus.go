package campus

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/graph/simple"
)

var (
	// ErrInvalidMap wraps every validation failure raised while building a Map
	ErrInvalidMap = errors.New("invalid campus map")

	// ErrUnknownLocation is returned when a name is not a location of the map
	ErrUnknownLocation = errors.New("unknown location")

	// ErrNotAdjacent is returned when two consecutive path entries share no edge
	ErrNotAdjacent = errors.New("locations are not adjacent")
)

// Location is a named vertex of the campus graph.
// The position is only used for drawing; HasPosition is false when the map
// source did not provide one.
type Location struct {
	Name        string  `json:"name" koanf:"name"`
	X           float64 `json:"x,omitempty" koanf:"x"`
	Y           float64 `json:"y,omitempty" koanf:"y"`
	HasPosition bool    `json:"hasPosition"`
}

// Edge is an undirected, weighted connection between two locations
type Edge struct {
	From   string `json:"from" koanf:"from"`
	To     string `json:"to" koanf:"to"`
	Weight int    `json:"weight" koanf:"weight"`
}

// Neighbor is an adjacent location together with the weight of the joining edge
type Neighbor struct {
	Name   string
	Weight int
}

// Map is an immutable campus graph. It is safe for concurrent readers.
type Map struct {
	name      string
	locations []Location
	edges     []Edge
	ids       map[string]int64
	adjacency [][]Neighbor // indexed by node ID, in edge definition order
	graph     *simple.WeightedUndirectedGraph
}

// New validates the given locations and edges and builds a Map.
// Edge endpoints that are not listed in locations are appended in the order
// they are first seen.
func New(name string, locations []Location, edges []Edge) (*Map, error) {
	m := &Map{
		name:  name,
		ids:   make(map[string]int64),
		graph: simple.NewWeightedUndirectedGraph(0, math.Inf(1)),
	}

	for i, loc := range locations {
		if loc.Name == "" {
			return nil, fmt.Errorf("%w: location %d has an empty name", ErrInvalidMap, i)
		}
		if _, exists := m.ids[loc.Name]; exists {
			return nil, fmt.Errorf("%w: duplicate location %q", ErrInvalidMap, loc.Name)
		}
		m.addLocation(loc)
	}

	for i, e := range edges {
		if e.From == "" || e.To == "" {
			return nil, fmt.Errorf("%w: edge %d has an empty endpoint", ErrInvalidMap, i)
		}
		if e.From == e.To {
			return nil, fmt.Errorf("%w: edge %d is a self loop on %q", ErrInvalidMap, i, e.From)
		}
		if e.Weight <= 0 {
			return nil, fmt.Errorf("%w: edge %s-%s has non-positive weight %d", ErrInvalidMap, e.From, e.To, e.Weight)
		}

		for _, endpoint := range []string{e.From, e.To} {
			if _, exists := m.ids[endpoint]; !exists {
				m.addLocation(Location{Name: endpoint})
			}
		}

		fromID, toID := m.ids[e.From], m.ids[e.To]
		if m.graph.HasEdgeBetween(fromID, toID) {
			return nil, fmt.Errorf("%w: duplicate edge %s-%s", ErrInvalidMap, e.From, e.To)
		}

		m.graph.SetWeightedEdge(m.graph.NewWeightedEdge(m.graph.Node(fromID), m.graph.Node(toID), float64(e.Weight)))
		m.adjacency[fromID] = append(m.adjacency[fromID], Neighbor{Name: e.To, Weight: e.Weight})
		m.adjacency[toID] = append(m.adjacency[toID], Neighbor{Name: e.From, Weight: e.Weight})
		m.edges = append(m.edges, e)
	}

	if len(m.locations) == 0 {
		return nil, fmt.Errorf("%w: map has no locations", ErrInvalidMap)
	}

	return m, nil
}

func (m *Map) addLocation(loc Location) {
	id := int64(len(m.locations))
	m.ids[loc.Name] = id
	m.locations = append(m.locations, loc)
	m.adjacency = append(m.adjacency, nil)
	m.graph.AddNode(simple.Node(id))
}

// Name returns the display name of the map
func (m *Map) Name() string {
	return m.name
}

// Locations returns a copy of all locations in definition order
func (m *Map) Locations() []Location {
	out := make([]Location, len(m.locations))
	copy(out, m.locations)
	return out
}

// LocationNames returns the location names in definition order
func (m *Map) LocationNames() []string {
	names := make([]string, len(m.locations))
	for i, loc := range m.locations {
		names[i] = loc.Name
	}
	return names
}

// Edges returns a copy of all edges in definition order
func (m *Map) Edges() []Edge {
	out := make([]Edge, len(m.edges))
	copy(out, m.edges)
	return out
}

// Has reports whether name is a location of the map
func (m *Map) Has(name string) bool {
	_, ok := m.ids[name]
	return ok
}

// ID returns the graph node ID of a location
func (m *Map) ID(name string) (int64, bool) {
	id, ok := m.ids[name]
	return id, ok
}

// NameOf returns the location name for a graph node ID, or "" if the ID is unknown
func (m *Map) NameOf(id int64) string {
	if id < 0 || id >= int64(len(m.locations)) {
		return ""
	}
	return m.locations[id].Name
}

// Neighbors returns the locations adjacent to name in edge definition order
func (m *Map) Neighbors(name string) []Neighbor {
	id, ok := m.ids[name]
	if !ok {
		return nil
	}
	out := make([]Neighbor, len(m.adjacency[id]))
	copy(out, m.adjacency[id])
	return out
}

// Weight returns the weight of the edge between a and b
func (m *Map) Weight(a, b string) (int, bool) {
	aID, ok := m.ids[a]
	if !ok {
		return 0, false
	}
	for _, n := range m.adjacency[aID] {
		if n.Name == b {
			return n.Weight, true
		}
	}
	return 0, false
}

// Distance sums the edge weights along path.
// A path with fewer than two entries has distance zero.
func (m *Map) Distance(path []string) (int, error) {
	for _, name := range path {
		if !m.Has(name) {
			return 0, fmt.Errorf("%w: %q", ErrUnknownLocation, name)
		}
	}

	total := 0
	for i := 0; i+1 < len(path); i++ {
		w, ok := m.Weight(path[i], path[i+1])
		if !ok {
			return 0, fmt.Errorf("%w: %q and %q", ErrNotAdjacent, path[i], path[i+1])
		}
		total += w
	}
	return total, nil
}

// Graph returns a read-only gonum view of the map
func (m *Map) Graph() *Graph {
	return &Graph{m: m}
}
