package pubsub

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func publishStatuses(t *testing.T, pub *SSEPublisher, n int) {
	t.Helper()
	for i := 1; i <= n; i++ {
		err := pub.Publish(TopicCampusMap, EventMapReady, MapStatus{Source: "builtin", Locations: i})
		if err != nil {
			t.Fatalf("Failed to publish event %d: %v", i, err)
		}
	}
}

func receive(t *testing.T, sub Subscription) Event {
	t.Helper()
	select {
	case event, ok := <-sub.Events():
		if !ok {
			t.Fatal("Subscription closed unexpectedly")
		}
		return event
	case <-time.After(time.Second):
		t.Fatal("Timeout waiting for event")
	}
	return Event{}
}

func expectNothing(t *testing.T, sub Subscription) {
	t.Helper()
	select {
	case event := <-sub.Events():
		t.Errorf("Received unexpected event version %d", event.Version)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestReplayAll(t *testing.T) {
	pub := NewSSEPublisher()
	defer pub.Close()

	pub.ConfigureTopic(TopicCampusMap, TopicConfig{BufferSize: 3, ReplayAll: true})
	publishStatuses(t, pub, 5)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sub, err := pub.Subscribe(ctx, TopicCampusMap)
	if err != nil {
		t.Fatalf("Failed to subscribe: %v", err)
	}

	// Only the last three fit the buffer
	for want := 3; want <= 5; want++ {
		if event := receive(t, sub); event.Version != want {
			t.Errorf("Expected version %d, got %d", want, event.Version)
		}
	}
	expectNothing(t, sub)
}

func TestReplayLastOnly(t *testing.T) {
	pub := NewSSEPublisher()
	defer pub.Close()

	pub.ConfigureTopic(TopicCampusMap, TopicConfig{BufferSize: 5})
	publishStatuses(t, pub, 3)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sub, err := pub.Subscribe(ctx, TopicCampusMap)
	if err != nil {
		t.Fatalf("Failed to subscribe: %v", err)
	}

	event := receive(t, sub)
	if event.Version != 3 || event.Type != EventMapReady || event.Topic != TopicCampusMap {
		t.Errorf("Unexpected replayed event %+v", event)
	}

	var status MapStatus
	if err := json.Unmarshal(event.Data, &status); err != nil {
		t.Fatalf("Failed to decode payload: %v", err)
	}
	if status.Locations != 3 {
		t.Errorf("Expected the last status, got %+v", status)
	}
	expectNothing(t, sub)
}

func TestNoBuffer(t *testing.T) {
	pub := NewSSEPublisher()
	defer pub.Close()

	publishStatuses(t, pub, 3)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sub, err := pub.Subscribe(ctx, TopicCampusMap)
	if err != nil {
		t.Fatalf("Failed to subscribe: %v", err)
	}
	expectNothing(t, sub)

	publishStatuses(t, pub, 1)
	if event := receive(t, sub); event.Version != 4 {
		t.Errorf("Expected version 4, got %d", event.Version)
	}
}

func TestContextCancelClosesSubscription(t *testing.T) {
	pub := NewSSEPublisher()
	defer pub.Close()

	ctx, cancel := context.WithCancel(context.Background())
	sub, err := pub.Subscribe(ctx, TopicCampusMap)
	if err != nil {
		t.Fatalf("Failed to subscribe: %v", err)
	}
	cancel()

	select {
	case _, ok := <-sub.Events():
		if ok {
			t.Error("Expected closed channel, got an event")
		}
	case <-time.After(time.Second):
		t.Fatal("Subscription not closed after cancel")
	}

	// Publishing after the subscriber left must not panic
	publishStatuses(t, pub, 1)
	if err := sub.Close(); err != nil {
		t.Errorf("Second Close() failed: %v", err)
	}
}

func TestClosedPublisher(t *testing.T) {
	pub := NewSSEPublisher()
	sub, err := pub.Subscribe(context.Background(), TopicCampusMap)
	if err != nil {
		t.Fatalf("Failed to subscribe: %v", err)
	}

	pub.Close()
	if _, ok := <-sub.Events(); ok {
		t.Error("Expected subscription channel to be closed")
	}
	sub.Close()

	if err := pub.Publish(TopicCampusMap, EventMapReady, nil); !errors.Is(err, ErrClosed) {
		t.Errorf("Expected ErrClosed from Publish, got %v", err)
	}
	if _, err := pub.Subscribe(context.Background(), TopicCampusMap); !errors.Is(err, ErrClosed) {
		t.Errorf("Expected ErrClosed from Subscribe, got %v", err)
	}
}

func TestWriteSSE(t *testing.T) {
	var buf bytes.Buffer
	event := Event{Topic: TopicCampusMap, Type: EventMapError, Data: json.RawMessage(`{"source":"file"}`), Version: 7}
	if err := WriteSSE(&buf, event); err != nil {
		t.Fatalf("WriteSSE() failed: %v", err)
	}

	out := buf.String()
	if !strings.HasPrefix(out, "data: {") || !strings.HasSuffix(out, "}\n\n") {
		t.Errorf("Unexpected SSE frame %q", out)
	}
	if !strings.Contains(out, `"type":"map_error"`) || !strings.Contains(out, `"version":7`) {
		t.Errorf("Missing event fields in %q", out)
	}
}
