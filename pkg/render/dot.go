package render

import (
	"strconv"

	"github.com/ritzau/campus-nav/pkg/campus"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/encoding"
	"gonum.org/v1/gonum/graph/encoding/dot"
	"gonum.org/v1/gonum/graph/simple"
)

// Colors shared by the DOT and SVG views
const (
	colorNode    = "skyblue"
	colorVisited = "khaki"
	colorPath    = "lime"
	colorEdge    = "gray"
	colorPathRun = "red"
)

type dotNode struct {
	id    int64
	name  string
	color string
}

func (n dotNode) ID() int64 { return n.id }

// DOTID keeps node IDs plain; the location name goes into the label
func (n dotNode) DOTID() string { return "n" + strconv.FormatInt(n.id, 10) }

func (n dotNode) Attributes() []encoding.Attribute {
	return []encoding.Attribute{
		{Key: "label", Value: strconv.Quote(n.name)},
		{Key: "style", Value: "filled"},
		{Key: "fillcolor", Value: strconv.Quote(n.color)},
	}
}

type dotEdge struct {
	from, to dotNode
	weight   int
	onPath   bool
}

func (e dotEdge) From() graph.Node { return e.from }
func (e dotEdge) To() graph.Node   { return e.to }

func (e dotEdge) ReversedEdge() graph.Edge {
	e.from, e.to = e.to, e.from
	return e
}

func (e dotEdge) Attributes() []encoding.Attribute {
	color, width := colorEdge, "1"
	if e.onPath {
		color, width = colorPathRun, "3"
	}
	return []encoding.Attribute{
		{Key: "label", Value: strconv.Quote(strconv.Itoa(e.weight))},
		{Key: "color", Value: strconv.Quote(color)},
		{Key: "penwidth", Value: width},
	}
}

type dotGraph struct {
	*simple.UndirectedGraph
	title string
}

func (g dotGraph) DOTAttributers() (graphAttrs, nodeAttrs, edgeAttrs encoding.Attributer) {
	return attrs{{Key: "label", Value: strconv.Quote(g.title)}, {Key: "labelloc", Value: "t"}},
		attrs{{Key: "shape", Value: "circle"}, {Key: "fontsize", Value: "10"}},
		attrs{}
}

type attrs []encoding.Attribute

func (a attrs) Attributes() []encoding.Attribute { return a }

// DOT renders the whole map in Graphviz DOT syntax with the highlight applied
func DOT(m *campus.Map, hl Highlight) ([]byte, error) {
	onPath := toSet(hl.Path)
	visited := toSet(hl.Visited)
	pathEdges := hl.edgeSet()

	g := dotGraph{UndirectedGraph: simple.NewUndirectedGraph(), title: m.Name() + " Map with Path"}
	nodes := make(map[string]dotNode)
	for _, name := range m.LocationNames() {
		id, _ := m.ID(name)
		n := dotNode{id: id, name: name, color: colorNode}
		switch {
		case onPath[name]:
			n.color = colorPath
		case visited[name]:
			n.color = colorVisited
		}
		nodes[name] = n
		g.AddNode(n)
	}

	for _, e := range m.Edges() {
		g.SetEdge(dotEdge{
			from:   nodes[e.From],
			to:     nodes[e.To],
			weight: e.Weight,
			onPath: pathEdges[[2]string{e.From, e.To}],
		})
	}

	return dot.Marshal(g, "campus", "", "\t")
}
