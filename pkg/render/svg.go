package render

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"math"

	"github.com/ritzau/campus-nav/pkg/campus"
	"gonum.org/v1/gonum/graph/layout"
	"gonum.org/v1/gonum/spatial/r2"
)

const (
	canvasWidth  = 800.0
	canvasHeight = 600.0
	canvasMargin = 70.0
	nodeRadius   = 30.0
)

// Positions returns drawing coordinates for every location. Positions from
// the map are used when every location has one; otherwise a force-directed
// layout is computed.
func Positions(m *campus.Map) map[string]r2.Vec {
	locs := m.Locations()
	raw := make(map[string]r2.Vec, len(locs))

	complete := true
	for _, loc := range locs {
		if !loc.HasPosition {
			complete = false
			break
		}
		raw[loc.Name] = r2.Vec{X: loc.X, Y: loc.Y}
	}

	if !complete {
		eades := layout.EadesR2{Repulsion: 1, Rate: 0.05, Updates: 50, Theta: 0.2}
		optimizer := layout.NewOptimizerR2(m.Graph(), eades.Update)
		for optimizer.Update() {
		}
		for _, loc := range locs {
			id, _ := m.ID(loc.Name)
			raw[loc.Name] = optimizer.Coord2(id)
		}
	}

	return fitToCanvas(raw)
}

// fitToCanvas scales coordinates into the drawable area, flipping Y so that
// larger map coordinates are drawn higher up
func fitToCanvas(raw map[string]r2.Vec) map[string]r2.Vec {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range raw {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}

	spanX, spanY := maxX-minX, maxY-minY
	if spanX == 0 {
		spanX = 1
	}
	if spanY == 0 {
		spanY = 1
	}
	innerW, innerH := canvasWidth-2*canvasMargin, canvasHeight-2*canvasMargin

	out := make(map[string]r2.Vec, len(raw))
	for name, p := range raw {
		x, y := canvasWidth/2, canvasHeight/2
		if maxX > minX {
			x = canvasMargin + (p.X-minX)/spanX*innerW
		}
		if maxY > minY {
			y = canvasMargin + (maxY-p.Y)/spanY*innerH
		}
		out[name] = r2.Vec{X: x, Y: y}
	}
	return out
}

// SVG draws the whole map with the highlight applied
func SVG(w io.Writer, m *campus.Map, hl Highlight) error {
	return svgAt(w, m, hl, Positions(m))
}

func svgAt(w io.Writer, m *campus.Map, hl Highlight, pos map[string]r2.Vec) error {
	onPath := toSet(hl.Path)
	visited := toSet(hl.Visited)
	pathEdges := hl.edgeSet()

	var b bytes.Buffer
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f" font-family="sans-serif">`+"\n",
		canvasWidth, canvasHeight, canvasWidth, canvasHeight)
	fmt.Fprintf(&b, `<title>%s Map with Path</title>`+"\n", html.EscapeString(m.Name()))
	fmt.Fprintf(&b, `<text x="%.0f" y="30" text-anchor="middle" font-size="18">%s Map with Path</text>`+"\n",
		canvasWidth/2, html.EscapeString(m.Name()))

	// Plain edges first so path edges are drawn on top
	for _, highlighted := range []bool{false, true} {
		for _, e := range m.Edges() {
			if pathEdges[[2]string{e.From, e.To}] != highlighted {
				continue
			}
			a, c := pos[e.From], pos[e.To]
			stroke, width := colorEdge, 1.5
			if highlighted {
				stroke, width = colorPathRun, 4
			}
			fmt.Fprintf(&b, `<line class="edge%s" x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="%.1f"/>`+"\n",
				pathClass(highlighted), a.X, a.Y, c.X, c.Y, stroke, width)
			mid := r2.Scale(0.5, r2.Add(a, c))
			fmt.Fprintf(&b, `<text class="weight" x="%.1f" y="%.1f" text-anchor="middle" font-size="12">%d</text>`+"\n",
				mid.X, mid.Y-4, e.Weight)
		}
	}

	for _, name := range m.LocationNames() {
		p := pos[name]
		fill := colorNode
		switch {
		case onPath[name]:
			fill = colorPath
		case visited[name]:
			fill = colorVisited
		}
		fmt.Fprintf(&b, `<circle class="node%s" cx="%.1f" cy="%.1f" r="%.0f" fill="%s" stroke="#333"/>`+"\n",
			pathClass(onPath[name]), p.X, p.Y, nodeRadius, fill)
		fmt.Fprintf(&b, `<text class="label" x="%.1f" y="%.1f" text-anchor="middle" font-size="10">%s</text>`+"\n",
			p.X, p.Y+4, html.EscapeString(name))
	}

	b.WriteString("</svg>\n")
	_, err := w.Write(b.Bytes())
	return err
}

func pathClass(onPath bool) string {
	if onPath {
		return " path"
	}
	return ""
}
