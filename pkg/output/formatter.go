// Package output prints routes and notices to the console with colors.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/ritzau/campus-nav/pkg/campus"
	"github.com/ritzau/campus-nav/pkg/render"
	"github.com/ritzau/campus-nav/pkg/search"
)

// PrintRoute prints a nicely formatted route report with colors
func PrintRoute(w io.Writer, m *campus.Map, res *search.Result) {
	bold := color.New(color.Bold)
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)
	cyan := color.New(color.FgCyan)

	bold.Fprintf(w, "%s Navigator - %s\n", m.Name(), res.Algorithm.DisplayName())
	bold.Fprintln(w, strings.Repeat("=", len(m.Name())+len(res.Algorithm.DisplayName())+13))
	fmt.Fprintf(w, "From: %s\n", res.From)
	fmt.Fprintf(w, "To:   %s\n", res.To)
	fmt.Fprintln(w)

	green.Fprintf(w, "Path: %s\n", strings.Join(res.Path, render.PathSeparator))
	green.Fprintf(w, "Total Distance: %d units\n", res.Distance)

	if len(res.Visited) > 0 {
		cyan.Fprintf(w, "Explored: %s\n", strings.Join(res.Visited, ", "))
	}
	if res.Substitute != "" {
		yellow.Fprintf(w, "Note: %s is not implemented, route computed with %s\n",
			res.Algorithm.DisplayName(), res.Substitute)
	}
}

// PrintFailure prints a notice, colored by its severity
func PrintFailure(w io.Writer, n render.Notice) {
	c := color.New(color.FgRed, color.Bold)
	switch n.Kind {
	case render.NoticeInfo:
		c = color.New(color.FgCyan, color.Bold)
	case render.NoticeWarning:
		c = color.New(color.FgYellow, color.Bold)
	}

	c.Fprintf(w, "%s: ", n.Title)
	fmt.Fprintln(w, n.Message)
	if n.Detail != "" && n.Detail != n.Message {
		fmt.Fprintf(w, "  %s\n", n.Detail)
	}
}

// PrintLocations lists the locations of a map with their neighbors
func PrintLocations(w io.Writer, m *campus.Map) {
	bold := color.New(color.Bold)
	cyan := color.New(color.FgCyan)

	bold.Fprintf(w, "%s: %d locations, %d paths\n", m.Name(), len(m.Locations()), len(m.Edges()))
	for _, name := range m.LocationNames() {
		cyan.Fprintf(w, "  %s\n", name)
		for _, n := range m.Neighbors(name) {
			fmt.Fprintf(w, "    → %s (%d)\n", n.Name, n.Weight)
		}
	}

	fmt.Fprintln(w)
	bold.Fprintln(w, "Algorithms:")
	for _, alg := range search.All() {
		fmt.Fprintf(w, "  %-14s %s\n", string(alg), alg.DisplayName())
	}
}
