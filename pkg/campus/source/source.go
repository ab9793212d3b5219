// Package source loads campus maps from the built-in definition, TOML files
// or a Neo4j database.
package source

import (
	"context"
	"fmt"

	"github.com/ritzau/campus-nav/pkg/campus"
)

// Source produces a validated campus map
type Source interface {
	Load(ctx context.Context) (*campus.Map, error)
	// Describe names the source for logs and the UI
	Describe() string
}

// Builtin serves the built-in campus map
type Builtin struct{}

func (Builtin) Load(context.Context) (*campus.Map, error) {
	return campus.Builtin(), nil
}

func (Builtin) Describe() string {
	return "builtin"
}

// Options selects and configures a source
type Options struct {
	Kind  string // builtin, file or neo4j
	File  string
	Neo4j Neo4jOptions
}

// Open creates the source described by opts. The returned close function
// releases any connection held by the source.
func Open(ctx context.Context, opts Options) (Source, func(context.Context) error, error) {
	noop := func(context.Context) error { return nil }

	switch opts.Kind {
	case "", "builtin":
		return Builtin{}, noop, nil
	case "file":
		if opts.File == "" {
			return nil, nil, fmt.Errorf("file source requires a path")
		}
		return &File{Path: opts.File}, noop, nil
	case "neo4j":
		client, err := NewNeo4jClient(ctx, opts.Neo4j)
		if err != nil {
			return nil, nil, err
		}
		return &Neo4j{Client: client, URI: opts.Neo4j.URI}, client.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown map source %q", opts.Kind)
}
