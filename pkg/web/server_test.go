package web

import (
	"bufio"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/brotli"

	"github.com/ritzau/campus-nav/pkg/campus"
	"github.com/ritzau/campus-nav/pkg/pubsub"
	"github.com/ritzau/campus-nav/pkg/search"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	return NewServer(campus.Builtin(), "builtin", search.NewNavigator())
}

func get(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestIndexPage(t *testing.T) {
	rec := get(t, newTestServer(t), "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	doc, err := goquery.NewDocumentFromReader(rec.Body)
	if err != nil {
		t.Fatalf("Failed to parse page: %v", err)
	}

	if got := doc.Find("h1").Text(); got != "Campus Navigator" {
		t.Errorf("Expected title Campus Navigator, got %q", got)
	}

	var from []string
	doc.Find("select#from option").Each(func(_ int, s *goquery.Selection) {
		if v, _ := s.Attr("value"); v != "" {
			from = append(from, v)
		}
	})
	if strings.Join(from, ",") != strings.Join(campus.Builtin().LocationNames(), ",") {
		t.Errorf("Unexpected from options %v", from)
	}

	algs := doc.Find("select#algorithm option")
	if algs.Length() != len(search.All())+1 {
		t.Errorf("Expected %d algorithm options, got %d", len(search.All())+1, algs.Length())
	}
	if doc.Find(`option[value="hill-climbing"]`).Text() != "Hill Climbing" {
		t.Error("Expected Hill Climbing option")
	}
	if doc.Find("button#find").Text() != "Find Path" {
		t.Error("Expected Find Path button")
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("Expected request ID header")
	}
}

func TestMapEndpoint(t *testing.T) {
	rec := get(t, newTestServer(t), "/api/map")

	var data MapData
	if err := json.NewDecoder(rec.Body).Decode(&data); err != nil {
		t.Fatalf("Failed to decode map: %v", err)
	}
	if data.Name != campus.BuiltinName || len(data.Locations) != 6 || len(data.Edges) != 6 {
		t.Errorf("Unexpected map %+v", data)
	}
}

func TestAlgorithmsEndpoint(t *testing.T) {
	rec := get(t, newTestServer(t), "/api/algorithms")

	var infos []AlgorithmInfo
	if err := json.NewDecoder(rec.Body).Decode(&infos); err != nil {
		t.Fatalf("Failed to decode algorithms: %v", err)
	}
	if len(infos) != 5 || infos[2].DisplayName != "A*" {
		t.Errorf("Unexpected algorithms %+v", infos)
	}
}

func TestRouteEndpoint(t *testing.T) {
	rec := get(t, newTestServer(t), "/api/route?from=E-Block&to=Auditorium&algorithm=A*")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body)
	}

	var res struct {
		Path     []string `json:"path"`
		Distance int      `json:"distance"`
		Summary  string   `json:"summary"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
		t.Fatalf("Failed to decode route: %v", err)
	}
	if res.Distance != 15 || len(res.Path) != 4 {
		t.Errorf("Unexpected route %+v", res)
	}
	if !strings.HasPrefix(res.Summary, "Path: E-Block → Admin Block") {
		t.Errorf("Unexpected summary %q", res.Summary)
	}
}

func TestRouteEndpointErrors(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		status  int
		message string
	}{
		{"missing input", "from=Library&algorithm=bfs", http.StatusBadRequest, "Please select all options!"},
		{"same location", "from=Library&to=Library&algorithm=bfs", http.StatusBadRequest, "Start and destination are the same!"},
		{"unknown location", "from=Library&to=Moon&algorithm=bfs", http.StatusBadRequest, ""},
		{"unknown algorithm", "from=Library&to=Hostel&algorithm=dijkstra", http.StatusBadRequest, ""},
		{"no path", "from=Library&to=Auditorium&algorithm=hill-climbing", http.StatusNotFound, "No path found using Hill Climbing algorithm!"},
	}

	s := newTestServer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, s, "/api/route?"+tt.query)
			if rec.Code != tt.status {
				t.Fatalf("Expected %d, got %d", tt.status, rec.Code)
			}

			var body ErrorResponse
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("Failed to decode error: %v", err)
			}
			if body.Error == "" || body.Title == "" || body.Kind == "" {
				t.Errorf("Incomplete error response %+v", body)
			}
			if tt.message != "" && body.Message != tt.message {
				t.Errorf("Expected message %q, got %q", tt.message, body.Message)
			}
		})
	}
}

func TestStrictAOStarIsUnprocessable(t *testing.T) {
	s := NewServer(campus.Builtin(), "builtin", search.NewNavigator(search.WithStrictAOStar(true)))
	rec := get(t, s, "/api/route?from=Library&to=Hostel&algorithm=aostar")
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("Expected 422, got %d", rec.Code)
	}
}

func TestRenderEndpoints(t *testing.T) {
	s := newTestServer(t)

	rec := get(t, s, "/api/render.svg?from=E-Block&to=Auditorium&algorithm=bfs")
	if rec.Code != http.StatusOK || rec.Header().Get("Content-Type") != "image/svg+xml" {
		t.Fatalf("Unexpected svg response %d %q", rec.Code, rec.Header().Get("Content-Type"))
	}
	if n := strings.Count(rec.Body.String(), `class="node path"`); n != 4 {
		t.Errorf("Expected 4 highlighted nodes, got %d", n)
	}

	rec = get(t, s, "/api/render.svg")
	if strings.Contains(rec.Body.String(), `class="node path"`) {
		t.Error("Expected no highlight without a route")
	}

	rec = get(t, s, "/api/render.dot?from=Library&to=Hostel&algorithm=astar")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "graph campus {") {
		t.Errorf("Unexpected dot response %d: %s", rec.Code, rec.Body)
	}

	rec = get(t, s, "/api/render.dot?from=Library")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for incomplete route, got %d", rec.Code)
	}
}

func TestCompression(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/render.svg", nil)
	req.Header.Set("Accept-Encoding", "br")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Header().Get("Content-Encoding") != "br" {
		t.Fatalf("Expected br encoding, got %q", rec.Header().Get("Content-Encoding"))
	}
	body, err := io.ReadAll(brotli.NewReader(rec.Body))
	if err != nil {
		t.Fatalf("Failed to decompress: %v", err)
	}
	if !strings.HasPrefix(string(body), "<svg ") {
		t.Errorf("Unexpected body %q", body[:min(len(body), 40)])
	}

	rec = get(t, s, "/api/render.svg")
	if rec.Header().Get("Content-Encoding") != "" {
		t.Errorf("Expected identity encoding, got %q", rec.Header().Get("Content-Encoding"))
	}
}

func readEvent(t *testing.T, r *bufio.Reader) pubsub.Event {
	t.Helper()
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			t.Fatalf("Stream ended: %v", err)
		}
		if data, ok := strings.CutPrefix(line, "data: "); ok {
			var event pubsub.Event
			if err := json.Unmarshal([]byte(data), &event); err != nil {
				t.Fatalf("Bad event %q: %v", data, err)
			}
			return event
		}
	}
}

func TestSubscribeStreamsMapUpdates(t *testing.T) {
	s := newTestServer(t)
	ts := httptest.NewServer(s)
	defer ts.Close()

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(ts.URL + "/api/subscribe/campus_map")
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("Expected event stream, got %q", ct)
	}
	r := bufio.NewReader(resp.Body)

	// The current map is replayed on connect
	if event := readEvent(t, r); event.Type != pubsub.EventMapReady {
		t.Errorf("Expected map_ready replay, got %+v", event)
	}

	m, err := campus.New("Annex", nil, []campus.Edge{{From: "A", To: "B", Weight: 1}})
	if err != nil {
		t.Fatal(err)
	}
	s.Reloaded(m, nil)

	event := readEvent(t, r)
	var status pubsub.MapStatus
	if err := json.Unmarshal(event.Data, &status); err != nil {
		t.Fatal(err)
	}
	if status.Name != "Annex" || status.Locations != 2 {
		t.Errorf("Unexpected status %+v", status)
	}
	if s.Map().Name() != "Annex" {
		t.Errorf("Expected swapped map, got %q", s.Map().Name())
	}

	s.Reloaded(nil, io.ErrUnexpectedEOF)
	if event := readEvent(t, r); event.Type != pubsub.EventMapError {
		t.Errorf("Expected map_error, got %+v", event)
	}
	if s.Map().Name() != "Annex" {
		t.Error("Failed reload must keep the previous map")
	}
}
