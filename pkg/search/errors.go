package search

import (
	"errors"
	"fmt"
)

// Input errors are raised before any search runs.
var (
	ErrMissingInput     = errors.New("start, destination and algorithm are all required")
	ErrSameLocation     = errors.New("start and destination are the same")
	ErrInvalidVertex    = errors.New("location is not on the map")
	ErrUnknownAlgorithm = errors.New("unknown algorithm")
)

// Search failures.
var (
	ErrDisconnected       = errors.New("destination is not reachable from start")
	ErrNeighborsExhausted = errors.New("no unvisited neighbor left to climb to")
	ErrNotImplemented     = errors.New("algorithm is not implemented")
)

// Error describes a failed search. Trail holds the locations the search
// touched before giving up, in the order they were reached.
type Error struct {
	Algorithm Algorithm
	From      string
	To        string
	Trail     []string
	Err       error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s search from %q to %q: %v", e.Algorithm.DisplayName(), e.From, e.To, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsInputError reports whether err was caused by the request rather than the search
func IsInputError(err error) bool {
	return errors.Is(err, ErrMissingInput) ||
		errors.Is(err, ErrSameLocation) ||
		errors.Is(err, ErrInvalidVertex) ||
		errors.Is(err, ErrUnknownAlgorithm)
}
