// Package pubsub fans out campus map updates to connected browsers.
package pubsub

import (
	"context"
	"encoding/json"
)

// TopicCampusMap carries MapStatus events whenever the served map changes
const TopicCampusMap = "campus_map"

// Event types published on TopicCampusMap
const (
	EventMapLoading = "map_loading"
	EventMapReady   = "map_ready"
	EventMapError   = "map_error"
)

// Event represents a pub/sub event
type Event struct {
	Topic   string          `json:"topic"`
	Type    string          `json:"type"`
	Data    json.RawMessage `json:"data"`
	Version int             `json:"version"` // increases per topic
}

// Subscription represents a client subscription to a topic
type Subscription interface {
	Topic() string

	// Events is closed when the subscription or its publisher closes
	Events() <-chan Event

	Close() error
}

// Publisher manages subscriptions and event publishing
type Publisher interface {
	// Subscribe creates a new subscription to a topic.
	// Context cancellation will close the subscription.
	Subscribe(ctx context.Context, topic string) (Subscription, error)

	// Publish sends an event to all subscribers of a topic
	Publish(topic string, eventType string, data any) error

	Close() error
}

// MapStatus describes the map currently served
type MapStatus struct {
	Source    string `json:"source"`
	Name      string `json:"name,omitempty"`
	Locations int    `json:"locations"`
	Paths     int    `json:"paths"`
	Message   string `json:"message,omitempty"`
}
