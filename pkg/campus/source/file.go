package source

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/ritzau/campus-nav/pkg/campus"
)

// File reads a map from a TOML document:
//
//	name = "North Campus"
//
//	[[locations]]
//	name = "Library"
//	x = 0.0
//	y = 1.5
//
//	[[edges]]
//	from = "Library"
//	to = "Canteen"
//	weight = 5
//
// Locations are optional; edge endpoints that are not listed are added
// without a position.
type File struct {
	Path string
}

type fileDocument struct {
	Name      string         `koanf:"name"`
	Locations []fileLocation `koanf:"locations"`
	Edges     []campus.Edge  `koanf:"edges"`
}

type fileLocation struct {
	Name string   `koanf:"name"`
	X    *float64 `koanf:"x"`
	Y    *float64 `koanf:"y"`
}

func (f *File) Describe() string {
	return "file:" + f.Path
}

func (f *File) Load(ctx context.Context) (*campus.Map, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(f.Path), toml.Parser()); err != nil {
		return nil, fmt.Errorf("reading map file %s: %w", f.Path, err)
	}

	var doc fileDocument
	if err := k.Unmarshal("", &doc); err != nil {
		return nil, fmt.Errorf("decoding map file %s: %w", f.Path, err)
	}

	name := doc.Name
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(f.Path), filepath.Ext(f.Path))
	}

	locations := make([]campus.Location, 0, len(doc.Locations))
	for i, loc := range doc.Locations {
		if (loc.X == nil) != (loc.Y == nil) {
			return nil, fmt.Errorf("%w: location %d (%q) needs both x and y or neither", campus.ErrInvalidMap, i, loc.Name)
		}
		l := campus.Location{Name: loc.Name}
		if loc.X != nil {
			l.X, l.Y, l.HasPosition = *loc.X, *loc.Y, true
		}
		locations = append(locations, l)
	}

	m, err := campus.New(name, locations, doc.Edges)
	if err != nil {
		return nil, fmt.Errorf("map file %s: %w", f.Path, err)
	}
	return m, nil
}
