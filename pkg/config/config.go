package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/knadh/koanf/maps"
	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// FileName is the optional config file read from the working directory
const FileName = "campus-nav.toml"

// EnvPrefix prefixes environment overrides, e.g. CAMPUS_NAV_WEB_PORT=9090
const EnvPrefix = "CAMPUS_NAV_"

// Config holds all configuration for the application
type Config struct {
	Route  RouteConfig  `koanf:"route"`
	Map    MapConfig    `koanf:"map"`
	Neo4j  Neo4jConfig  `koanf:"neo4j"`
	Web    WebConfig    `koanf:"web"`
	Search SearchConfig `koanf:"search"`
	Log    LogConfig    `koanf:"log"`
	List   bool         `koanf:"list"`
}

// RouteConfig describes a one-shot route computed from the command line
type RouteConfig struct {
	From      string `koanf:"from"`
	To        string `koanf:"to"`
	Algorithm string `koanf:"algorithm"`
	Format    string `koanf:"format"` // text, dot or svg
	Out       string `koanf:"out"`    // output file, stdout when empty
}

// MapConfig selects where the campus map comes from
type MapConfig struct {
	Source string `koanf:"source"` // builtin, file or neo4j
	File   string `koanf:"file"`
	Watch  bool   `koanf:"watch"`
}

// Neo4jConfig describes the graph database holding the map
type Neo4jConfig struct {
	URI      string `koanf:"uri"`
	Database string `koanf:"database"`
	Username string `koanf:"username"`
	Password string `koanf:"password"`
}

// WebConfig controls the web UI
type WebConfig struct {
	Enabled     bool `koanf:"enabled"`
	Port        int  `koanf:"port"`
	OpenBrowser bool `koanf:"open"`
}

// SearchConfig tunes the search algorithms
type SearchConfig struct {
	StrictAOStar bool `koanf:"strict_aostar"`
}

// LogConfig controls logging output
type LogConfig struct {
	Verbosity  string `koanf:"verbosity"`
	VerboseCnt int    `koanf:"verbose"`
	Format     string `koanf:"format"` // text or json
}

// flagKeys maps command-line flag names to config keys
var flagKeys = map[string]string{
	"from":           "route.from",
	"to":             "route.to",
	"algorithm":      "route.algorithm",
	"format":         "route.format",
	"out":            "route.out",
	"list":           "list",
	"map-source":     "map.source",
	"map-file":       "map.file",
	"watch":          "map.watch",
	"neo4j-uri":      "neo4j.uri",
	"neo4j-database": "neo4j.database",
	"neo4j-username": "neo4j.username",
	"neo4j-password": "neo4j.password",
	"web":            "web.enabled",
	"port":           "web.port",
	"open":           "web.open",
	"strict-aostar":  "search.strict_aostar",
	"verbosity":      "log.verbosity",
	"verbose":        "log.verbose",
	"log-format":     "log.format",
}

// envKeys maps the part of an environment variable after EnvPrefix to config keys
// for names that contain underscores themselves
var envKeys = map[string]string{
	"search_strict_aostar": "search.strict_aostar",
}

// Defaults returns the built-in default values keyed like the config file
func Defaults() map[string]interface{} {
	return map[string]interface{}{
		"route.from":           "",
		"route.to":             "",
		"route.algorithm":      "",
		"route.format":         "text",
		"route.out":            "",
		"list":                 false,
		"map.source":           "builtin",
		"map.file":             "",
		"map.watch":            false,
		"neo4j.uri":            "",
		"neo4j.database":       "",
		"neo4j.username":       "",
		"neo4j.password":       "",
		"web.enabled":          false,
		"web.port":             8080,
		"web.open":             true,
		"search.strict_aostar": false,
		"log.verbosity":        "",
		"log.verbose":          0,
		"log.format":           "text",
	}
}

// RegisterFlags adds every configurable flag to f
func RegisterFlags(f *pflag.FlagSet) {
	f.String("from", "", "Start location")
	f.String("to", "", "Destination location")
	f.StringP("algorithm", "a", "", "Search algorithm: DFS, BFS, A*, AO* or \"Hill Climbing\"")
	f.String("format", "text", "Output format: text, dot or svg")
	f.StringP("out", "o", "", "Write output to file instead of stdout")
	f.Bool("list", false, "List locations and algorithms, then exit")
	f.String("map-source", "builtin", "Map source: builtin, file or neo4j")
	f.String("map-file", "", "TOML map file (implies --map-source=file)")
	f.Bool("watch", false, "Reload the map file when it changes (web mode)")
	f.String("neo4j-uri", "", "Neo4j Bolt URI (implies --map-source=neo4j)")
	f.String("neo4j-database", "", "Neo4j database name")
	f.String("neo4j-username", "", "Neo4j username")
	f.String("neo4j-password", "", "Neo4j password")
	f.Bool("web", false, "Start the web UI instead of printing a route")
	f.Int("port", 8080, "Port for the web UI")
	f.Bool("open", true, "Open a browser when the web UI starts")
	f.Bool("strict-aostar", false, "Fail AO* requests instead of substituting Dijkstra")
	f.String("verbosity", "", "Log level: error, warn, info, debug or trace")
	f.CountP("verbose", "v", "Increase log verbosity (repeatable)")
	f.String("log-format", "text", "Log format: text or json")
}

// Load loads configuration from defaults, config file, environment variables, and flags.
// Priority: Flags > Env > Config File > Defaults
func Load(f *pflag.FlagSet) (*Config, error) {
	return load(f, FileName)
}

func load(f *pflag.FlagSet, path string) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(makeMapProvider(Defaults()), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config File (optional)
	// A missing file is fine; a broken one is not
	if path != "" {
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", path, err)
		}
	}

	// 3. Environment Variables
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags
	if f != nil {
		if err := k.Load(posflag.ProviderWithFlag(f, ".", k, func(fl *pflag.Flag) (string, interface{}) {
			key, ok := flagKeys[fl.Name]
			if !ok {
				return "", nil
			}
			return key, posflag.FlagVal(f, fl)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.inferMapSource(f)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func envKey(s string) string {
	name := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	if key, ok := envKeys[name]; ok {
		return key
	}
	return strings.ReplaceAll(name, "_", ".")
}

// inferMapSource picks the file or neo4j source when only its location was given
func (c *Config) inferMapSource(f *pflag.FlagSet) {
	if f != nil && f.Changed("map-source") {
		return
	}
	if c.Map.Source != "builtin" {
		return
	}
	switch {
	case c.Map.File != "":
		c.Map.Source = "file"
	case c.Neo4j.URI != "":
		c.Map.Source = "neo4j"
	}
}

// Validate checks option values that the loaders cannot
func (c *Config) Validate() error {
	switch c.Map.Source {
	case "builtin":
	case "file":
		if c.Map.File == "" {
			return fmt.Errorf("map source %q requires a map file", c.Map.Source)
		}
	case "neo4j":
		if c.Neo4j.URI == "" {
			return fmt.Errorf("map source %q requires a Neo4j URI", c.Map.Source)
		}
	default:
		return fmt.Errorf("unknown map source %q", c.Map.Source)
	}

	switch c.Route.Format {
	case "text", "dot", "svg":
	default:
		return fmt.Errorf("unknown output format %q", c.Route.Format)
	}

	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}

	if c.Web.Port <= 0 || c.Web.Port > 65535 {
		return fmt.Errorf("port %d is out of range", c.Web.Port)
	}
	return nil
}

// Helper to use a flat, dot-delimited map as a provider
type mapProvider struct {
	m map[string]interface{}
}

func makeMapProvider(m map[string]interface{}) *mapProvider {
	return &mapProvider{m: m}
}

func (p *mapProvider) Read() (map[string]interface{}, error) {
	return maps.Unflatten(p.m, "."), nil
}

func (p *mapProvider) ReadBytes() ([]byte, error) {
	return nil, fmt.Errorf("not implemented")
}
