// Package render turns routes into the text, DOT and SVG views shown to users.
package render

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ritzau/campus-nav/pkg/search"
)

// PathSeparator joins locations in a displayed path
const PathSeparator = " → "

// Summary returns the two line route description, plus a note when the
// algorithm was substituted.
func Summary(res *search.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Path: %s\nTotal Distance: %d units", strings.Join(res.Path, PathSeparator), res.Distance)
	if res.Substitute != "" {
		fmt.Fprintf(&b, "\nNote: %s is not implemented, route computed with %s", res.Algorithm.DisplayName(), res.Substitute)
	}
	return b.String()
}

// Notice kinds, in increasing severity
const (
	NoticeInfo    = "info"
	NoticeWarning = "warning"
	NoticeError   = "error"
)

// Notice is a user-facing report of a failed request
type Notice struct {
	Kind    string `json:"kind"`
	Title   string `json:"title"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// NoticeFor explains err to the user. algorithm is the name as the user
// entered it and is used when err carries none.
func NoticeFor(err error, algorithm string) Notice {
	switch {
	case errors.Is(err, search.ErrMissingInput):
		return Notice{Kind: NoticeWarning, Title: "Input Missing", Message: "Please select all options!"}
	case errors.Is(err, search.ErrSameLocation):
		return Notice{Kind: NoticeInfo, Title: "Same Locations", Message: "Start and destination are the same!"}
	case errors.Is(err, search.ErrInvalidVertex), errors.Is(err, search.ErrUnknownAlgorithm):
		return Notice{Kind: NoticeWarning, Title: "Invalid Input", Message: err.Error()}
	}

	name := algorithm
	var searchErr *search.Error
	if errors.As(err, &searchErr) {
		name = searchErr.Algorithm.DisplayName()
	}
	return Notice{
		Kind:    NoticeError,
		Title:   "No Path",
		Message: fmt.Sprintf("No path found using %s algorithm!", name),
		Detail:  err.Error(),
	}
}

// Highlight marks the parts of the map to emphasize
type Highlight struct {
	Path    []string
	Visited []string
}

// HighlightFor returns the highlight for a route, or none for a nil result
func HighlightFor(res *search.Result) Highlight {
	if res == nil {
		return Highlight{}
	}
	return Highlight{Path: res.Path, Visited: res.Visited}
}

func (h Highlight) edgeSet() map[[2]string]bool {
	edges := make(map[[2]string]bool, len(h.Path))
	for i := 0; i+1 < len(h.Path); i++ {
		edges[[2]string{h.Path[i], h.Path[i+1]}] = true
		edges[[2]string{h.Path[i+1], h.Path[i]}] = true
	}
	return edges
}

func toSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}
