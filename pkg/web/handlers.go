package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/ritzau/campus-nav/pkg/campus"
	"github.com/ritzau/campus-nav/pkg/logging"
	"github.com/ritzau/campus-nav/pkg/pubsub"
	"github.com/ritzau/campus-nav/pkg/render"
	"github.com/ritzau/campus-nav/pkg/search"
)

// MapData is the JSON view of a campus map
type MapData struct {
	Name      string            `json:"name"`
	Locations []campus.Location `json:"locations"`
	Edges     []campus.Edge     `json:"edges"`
}

// AlgorithmInfo describes a selectable algorithm
type AlgorithmInfo struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
}

// ErrorResponse is returned for failed route requests
type ErrorResponse struct {
	Error   string `json:"error"`
	Title   string `json:"title"`
	Message string `json:"message"`
	Kind    string `json:"kind"`
}

// RouteResponse is a computed route with its summary text
type RouteResponse struct {
	*search.Result
	Summary string `json:"summary"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Warn("failed to encode response", "error", err)
	}
}

// writeText is http.Error for handlers behind compressMiddleware
func writeText(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	fmt.Fprintln(w, msg)
}

func algorithms() []AlgorithmInfo {
	all := search.All()
	infos := make([]AlgorithmInfo, 0, len(all))
	for _, a := range all {
		infos = append(infos, AlgorithmInfo{Name: string(a), DisplayName: a.DisplayName()})
	}
	return infos
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	m := s.Map()
	data := struct {
		Name       string
		Locations  []string
		Algorithms []AlgorithmInfo
		Topic      string
	}{m.Name(), m.LocationNames(), algorithms(), pubsub.TopicCampusMap}

	var buf bytes.Buffer
	if err := indexTemplate.Execute(&buf, data); err != nil {
		logging.ErrorContext(r.Context(), "failed to render index", "error", err)
		writeText(w, http.StatusInternalServerError, "failed to render page")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

func (s *Server) handleMap(w http.ResponseWriter, r *http.Request) {
	m := s.Map()
	writeJSON(w, http.StatusOK, MapData{Name: m.Name(), Locations: m.Locations(), Edges: m.Edges()})
}

func (s *Server) handleAlgorithms(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, algorithms())
}

// routeRequest reads from, to and algorithm from the query string
func routeRequest(r *http.Request) search.Request {
	q := r.URL.Query()
	return search.Request{From: q.Get("from"), To: q.Get("to"), Algorithm: q.Get("algorithm")}
}

// statusFor maps a route error to an HTTP status
func statusFor(err error) int {
	switch {
	case search.IsInputError(err):
		return http.StatusBadRequest
	case errors.Is(err, search.ErrDisconnected), errors.Is(err, search.ErrNeighborsExhausted):
		return http.StatusNotFound
	default:
		return http.StatusUnprocessableEntity
	}
}

func writeRouteError(w http.ResponseWriter, r *http.Request, req search.Request, err error) {
	n := render.NoticeFor(err, req.Algorithm)
	status := statusFor(err)
	logging.DebugContext(r.Context(), "route failed", "from", req.From, "to", req.To, "algorithm", req.Algorithm, "status", status, "error", err)
	writeJSON(w, status, ErrorResponse{Error: err.Error(), Title: n.Title, Message: n.Message, Kind: n.Kind})
}

func (s *Server) handleRoute(w http.ResponseWriter, r *http.Request) {
	m := s.Map()
	req := routeRequest(r)

	res, err := s.navigator.Route(r.Context(), m, req)
	if err != nil {
		writeRouteError(w, r, req, err)
		return
	}
	writeJSON(w, http.StatusOK, RouteResponse{Result: res, Summary: render.Summary(res)})
}

// highlight computes the route for a render request. A request without
// any route parameters renders the plain map.
func (s *Server) highlight(w http.ResponseWriter, r *http.Request, m *campus.Map) (render.Highlight, bool) {
	req := routeRequest(r)
	if req == (search.Request{}) {
		return render.Highlight{}, true
	}

	res, err := s.navigator.Route(r.Context(), m, req)
	if err != nil {
		writeRouteError(w, r, req, err)
		return render.Highlight{}, false
	}
	return render.HighlightFor(res), true
}

func (s *Server) handleRenderSVG(w http.ResponseWriter, r *http.Request) {
	m := s.Map()
	hl, ok := s.highlight(w, r, m)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := render.SVG(&buf, m, hl); err != nil {
		logging.ErrorContext(r.Context(), "failed to render svg", "error", err)
		writeText(w, http.StatusInternalServerError, "failed to render map")
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Write(buf.Bytes())
}

func (s *Server) handleRenderDOT(w http.ResponseWriter, r *http.Request) {
	m := s.Map()
	hl, ok := s.highlight(w, r, m)
	if !ok {
		return
	}

	out, err := render.DOT(m, hl)
	if err != nil {
		logging.ErrorContext(r.Context(), "failed to render dot", "error", err)
		writeText(w, http.StatusInternalServerError, "failed to render map")
		return
	}
	w.Header().Set("Content-Type", "text/vnd.graphviz; charset=utf-8")
	w.Write(out)
}

func (s *Server) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	flusher, _ := w.(http.Flusher)
	flush := func() {
		if flusher != nil {
			flusher.Flush()
		}
	}

	sub, err := s.publisher.Subscribe(r.Context(), pubsub.TopicCampusMap)
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	defer sub.Close()

	// Initial comment establishes the stream before the first event
	fmt.Fprint(w, ": connected\n\n")
	flush()

	for event := range sub.Events() {
		if err := pubsub.WriteSSE(w, event); err != nil {
			logging.DebugContext(r.Context(), "event stream closed", "error", err)
			return
		}
		flush()
	}
}
