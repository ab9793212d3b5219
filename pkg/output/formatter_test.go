package output

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/ritzau/campus-nav/pkg/campus"
	"github.com/ritzau/campus-nav/pkg/render"
	"github.com/ritzau/campus-nav/pkg/search"
)

func init() {
	color.NoColor = true
}

func TestPrintRoute(t *testing.T) {
	m := campus.Builtin()
	res, err := search.FindPath(context.Background(), m, "Library", "Hostel", search.AOStar)
	if err != nil {
		t.Fatalf("FindPath() failed: %v", err)
	}

	var buf bytes.Buffer
	PrintRoute(&buf, m, res)
	out := buf.String()

	for _, want := range []string{
		"Campus Navigator - AO*",
		"Path: Library → Admin Block → Hostel",
		"Total Distance: 5 units",
		"Note: AO* is not implemented, route computed with Dijkstra",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestPrintFailure(t *testing.T) {
	var buf bytes.Buffer
	PrintFailure(&buf, render.Notice{
		Kind:    render.NoticeError,
		Title:   "No Path",
		Message: "No path found using DFS algorithm!",
		Detail:  "dfs: no path",
	})

	want := "No Path: No path found using DFS algorithm!\n  dfs: no path\n"
	if buf.String() != want {
		t.Errorf("PrintFailure() = %q, want %q", buf.String(), want)
	}
}

func TestPrintLocations(t *testing.T) {
	var buf bytes.Buffer
	PrintLocations(&buf, campus.Builtin())
	out := buf.String()

	if !strings.HasPrefix(out, "Campus: 6 locations, 6 paths\n") {
		t.Errorf("Unexpected header:\n%s", out)
	}
	if !strings.Contains(out, "  Hostel\n    → Admin Block (3)\n    → Canteen (6)\n    → Auditorium (8)\n") {
		t.Errorf("Expected Hostel neighbors in edge order, got:\n%s", out)
	}
	if !strings.Contains(out, "hill-climbing") {
		t.Errorf("Expected algorithm list, got:\n%s", out)
	}
}
