package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ritzau/campus-nav/pkg/campus"
	"github.com/ritzau/campus-nav/pkg/search"
)

func route(t *testing.T, from, to string, alg search.Algorithm) *search.Result {
	t.Helper()
	res, err := search.FindPath(context.Background(), campus.Builtin(), from, to, alg)
	require.NoError(t, err)
	return res
}

func TestSummary(t *testing.T) {
	res := route(t, "E-Block", "Auditorium", search.AStar)
	assert.Equal(t, "Path: E-Block → Admin Block → Hostel → Auditorium\nTotal Distance: 15 units", Summary(res))

	res = route(t, "Library", "Hostel", search.AOStar)
	lines := strings.Split(Summary(res), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Total Distance: 5 units", lines[1])
	assert.Contains(t, lines[2], "AO*")
	assert.Contains(t, lines[2], "Dijkstra")
}

func TestNoticeFor(t *testing.T) {
	m := campus.Builtin()
	ctx := context.Background()

	_, err := search.NewNavigator().Route(ctx, m, search.Request{From: "Library", Algorithm: "BFS"})
	n := NoticeFor(err, "BFS")
	assert.Equal(t, NoticeWarning, n.Kind)
	assert.Equal(t, "Please select all options!", n.Message)

	_, err = search.FindPath(ctx, m, "Library", "Library", search.DFS)
	n = NoticeFor(err, "DFS")
	assert.Equal(t, NoticeInfo, n.Kind)
	assert.Equal(t, "Start and destination are the same!", n.Message)

	_, err = search.FindPath(ctx, m, "Library", "Moon", search.DFS)
	n = NoticeFor(err, "DFS")
	assert.Equal(t, "Invalid Input", n.Title)

	_, err = search.FindPath(ctx, m, "Library", "Auditorium", search.HillClimbing)
	n = NoticeFor(err, "hill-climbing")
	assert.Equal(t, NoticeError, n.Kind)
	assert.Equal(t, "No Path", n.Title)
	assert.Equal(t, "No path found using Hill Climbing algorithm!", n.Message)
	assert.NotEmpty(t, n.Detail)

	n = NoticeFor(fmt.Errorf("wrapped: %w", errors.New("boom")), "BFS")
	assert.Equal(t, "No path found using BFS algorithm!", n.Message)
}

func TestHighlightFor(t *testing.T) {
	assert.Equal(t, Highlight{}, HighlightFor(nil))

	res := route(t, "E-Block", "Auditorium", search.BFS)
	hl := HighlightFor(res)
	assert.Equal(t, res.Path, hl.Path)

	edges := hl.edgeSet()
	assert.True(t, edges[[2]string{"Admin Block", "Hostel"}])
	assert.True(t, edges[[2]string{"Hostel", "Admin Block"}])
	assert.False(t, edges[[2]string{"Library", "Canteen"}])
}

func TestDOT(t *testing.T) {
	res := route(t, "E-Block", "Auditorium", search.BFS)
	out, err := DOT(campus.Builtin(), HighlightFor(res))
	require.NoError(t, err)

	s := string(out)
	assert.Contains(t, s, "graph campus {")
	assert.Contains(t, s, `label="Campus Map with Path"`)
	assert.Contains(t, s, `label="E-Block"`)
	assert.Contains(t, s, `fillcolor="lime"`)
	assert.Contains(t, s, `fillcolor="khaki"`)
	assert.Contains(t, s, `color="red"`)
	assert.Contains(t, s, `label="8"`)
	assert.Equal(t, len(campus.BuiltinEdges), strings.Count(s, " -- "))
}

func TestDOTWithoutHighlight(t *testing.T) {
	out, err := DOT(campus.Builtin(), Highlight{})
	require.NoError(t, err)
	assert.NotContains(t, string(out), "lime")
	assert.NotContains(t, string(out), `color="red"`)
}

func TestSVG(t *testing.T) {
	res := route(t, "E-Block", "Auditorium", search.BFS)

	var buf bytes.Buffer
	require.NoError(t, SVG(&buf, campus.Builtin(), HighlightFor(res)))

	s := buf.String()
	assert.True(t, strings.HasPrefix(s, "<svg "))
	assert.True(t, strings.HasSuffix(s, "</svg>\n"))
	assert.Contains(t, s, "<title>Campus Map with Path</title>")
	assert.Equal(t, 6, strings.Count(s, "<circle "))
	assert.Equal(t, 6, strings.Count(s, "<line "))
	assert.Equal(t, 4, strings.Count(s, `class="node path"`))
	assert.Equal(t, 3, strings.Count(s, `class="edge path"`))
	assert.NotContains(t, s, "NaN")
}

func TestSVGEscapesNames(t *testing.T) {
	m, err := campus.New("R&D <Park>", nil, []campus.Edge{{From: "A&B", To: "C", Weight: 1}})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, SVG(&buf, m, Highlight{}))
	assert.Contains(t, buf.String(), "R&amp;D &lt;Park&gt;")
	assert.Contains(t, buf.String(), ">A&amp;B<")
}

func TestPositionsUseMapCoordinates(t *testing.T) {
	m, err := campus.New("grid", []campus.Location{
		{Name: "A", X: 0, Y: 0, HasPosition: true},
		{Name: "B", X: 10, Y: 10, HasPosition: true},
	}, []campus.Edge{{From: "A", To: "B", Weight: 1}})
	require.NoError(t, err)

	pos := Positions(m)
	assert.InDelta(t, canvasMargin, pos["A"].X, 1e-9)
	assert.InDelta(t, canvasHeight-canvasMargin, pos["A"].Y, 1e-9)
	assert.InDelta(t, canvasWidth-canvasMargin, pos["B"].X, 1e-9)
	assert.InDelta(t, canvasMargin, pos["B"].Y, 1e-9)
}

func TestPositionsStayOnCanvas(t *testing.T) {
	pos := Positions(campus.Builtin())
	require.Len(t, pos, 6)
	for name, p := range pos {
		assert.GreaterOrEqual(t, p.X, canvasMargin-1e-9, name)
		assert.LessOrEqual(t, p.X, canvasWidth-canvasMargin+1e-9, name)
		assert.GreaterOrEqual(t, p.Y, canvasMargin-1e-9, name)
		assert.LessOrEqual(t, p.Y, canvasHeight-canvasMargin+1e-9, name)
	}
}
