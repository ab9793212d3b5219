package source

import (
	"context"
	"errors"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/ritzau/campus-nav/pkg/campus"
)

// ErrMissingURI indicates the graph URI is not provided.
var ErrMissingURI = errors.New("neo4j URI is required")

// Record groups key-value pairs returned from the graph engine.
type Record map[string]any

// Querier is the read access the Neo4j source needs from a graph database
type Querier interface {
	ExecuteRead(ctx context.Context, cypher string, params map[string]any) ([]Record, error)
	Close(ctx context.Context) error
}

// Neo4jOptions configures the Bolt connection
type Neo4jOptions struct {
	URI      string
	Database string
	Username string
	Password string
}

const (
	locationsQuery = `MATCH (l:Location) RETURN l.name AS name, l.x AS x, l.y AS y ORDER BY name`
	edgesQuery     = `MATCH (a:Location)-[p:PATH]->(b:Location) RETURN a.name AS from, b.name AS to, p.weight AS weight ORDER BY from, to`
	nameQuery      = `MATCH (c:Campus) RETURN c.name AS name LIMIT 1`
)

// Neo4j reads (:Location {name, x, y})-[:PATH {weight}]->(:Location) from a
// graph database. The direction of PATH relationships is ignored.
type Neo4j struct {
	Client Querier
	URI    string
}

func (n *Neo4j) Describe() string {
	return "neo4j:" + n.URI
}

func (n *Neo4j) Load(ctx context.Context) (*campus.Map, error) {
	name := "Campus"
	rows, err := n.Client.ExecuteRead(ctx, nameQuery, nil)
	if err != nil {
		return nil, fmt.Errorf("query campus name: %w", err)
	}
	if len(rows) > 0 {
		if s, ok := rows[0]["name"].(string); ok && s != "" {
			name = s
		}
	}

	rows, err = n.Client.ExecuteRead(ctx, locationsQuery, nil)
	if err != nil {
		return nil, fmt.Errorf("query locations: %w", err)
	}
	locations := make([]campus.Location, 0, len(rows))
	for i, row := range rows {
		locName, _ := row["name"].(string)
		loc := campus.Location{Name: locName}
		x, xok := toFloat(row["x"])
		y, yok := toFloat(row["y"])
		if xok && yok {
			loc.X, loc.Y, loc.HasPosition = x, y, true
		}
		if locName == "" {
			return nil, fmt.Errorf("%w: location row %d has no name", campus.ErrInvalidMap, i)
		}
		locations = append(locations, loc)
	}

	rows, err = n.Client.ExecuteRead(ctx, edgesQuery, nil)
	if err != nil {
		return nil, fmt.Errorf("query paths: %w", err)
	}
	edges := make([]campus.Edge, 0, len(rows))
	for _, row := range rows {
		from, _ := row["from"].(string)
		to, _ := row["to"].(string)
		weight, ok := row["weight"].(int64)
		if !ok {
			return nil, fmt.Errorf("%w: path %s-%s has no integer weight", campus.ErrInvalidMap, from, to)
		}
		edges = append(edges, campus.Edge{From: from, To: to, Weight: int(weight)})
	}

	return campus.New(name, locations, edges)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int64:
		return float64(n), true
	}
	return 0, false
}

// NewNeo4jClient establishes a Bolt connection using the official Neo4j driver.
func NewNeo4jClient(ctx context.Context, opts Neo4jOptions) (Querier, error) {
	if opts.URI == "" {
		return nil, ErrMissingURI
	}

	auth := neo4j.NoAuth()
	if opts.Username != "" {
		auth = neo4j.BasicAuth(opts.Username, opts.Password, "")
	}

	driver, err := neo4j.NewDriverWithContext(opts.URI, auth)
	if err != nil {
		return nil, fmt.Errorf("create neo4j driver: %w", err)
	}

	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("verify graph connectivity: %w", err)
	}

	return &neo4jClient{
		driver:   driver,
		database: opts.Database,
	}, nil
}

type neo4jClient struct {
	driver   neo4j.DriverWithContext
	database string
}

func (c *neo4jClient) ExecuteRead(ctx context.Context, cypher string, params map[string]any) ([]Record, error) {
	session := c.driver.NewSession(ctx, neo4j.SessionConfig{
		DatabaseName: c.database,
		AccessMode:   neo4j.AccessModeRead,
	})
	defer session.Close(ctx)

	res, err := session.Run(ctx, cypher, params)
	if err != nil {
		return nil, err
	}

	var records []Record
	for res.Next(ctx) {
		rec := res.Record()
		record := make(Record, len(rec.Keys))
		for _, key := range rec.Keys {
			value, _ := rec.Get(key)
			record[key] = value
		}
		records = append(records, record)
	}
	if err := res.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

func (c *neo4jClient) Close(ctx context.Context) error {
	return c.driver.Close(ctx)
}
