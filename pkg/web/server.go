// Package web serves the interactive campus navigator and its JSON API.
package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/mux"

	"github.com/ritzau/campus-nav/pkg/campus"
	"github.com/ritzau/campus-nav/pkg/logging"
	"github.com/ritzau/campus-nav/pkg/pubsub"
	"github.com/ritzau/campus-nav/pkg/search"
)

//go:embed static/*
var staticFiles embed.FS

var indexTemplate = template.Must(template.ParseFS(staticFiles, "static/index.html"))

// Server represents the web server
type Server struct {
	router    *mux.Router
	handler   http.Handler
	current   atomic.Pointer[campus.Map]
	source    string
	navigator *search.Navigator
	publisher *pubsub.SSEPublisher
}

// NewServer creates a server for m. source describes where m was loaded from.
func NewServer(m *campus.Map, source string, navigator *search.Navigator) *Server {
	publisher := pubsub.NewSSEPublisher()
	publisher.ConfigureTopic(pubsub.TopicCampusMap, pubsub.TopicConfig{BufferSize: 5})

	s := &Server{
		router:    mux.NewRouter(),
		source:    source,
		navigator: navigator,
		publisher: publisher,
	}
	s.setupRoutes()
	s.handler = logging.RequestIDMiddleware(s.router)
	s.SetMap(m)
	return s
}

func (s *Server) setupRoutes() {
	s.router.HandleFunc("/api/subscribe/"+pubsub.TopicCampusMap, s.handleSubscribe).Methods(http.MethodGet)

	api := s.router.PathPrefix("/api").Subrouter()
	api.Use(compressMiddleware)
	api.HandleFunc("/map", s.handleMap).Methods(http.MethodGet)
	api.HandleFunc("/algorithms", s.handleAlgorithms).Methods(http.MethodGet)
	api.HandleFunc("/route", s.handleRoute).Methods(http.MethodGet)
	api.HandleFunc("/render.svg", s.handleRenderSVG).Methods(http.MethodGet)
	api.HandleFunc("/render.dot", s.handleRenderDOT).Methods(http.MethodGet)

	s.router.Handle("/", compressMiddleware(http.HandlerFunc(s.handleIndex))).Methods(http.MethodGet)
}

// Map returns the map currently served
func (s *Server) Map() *campus.Map {
	return s.current.Load()
}

// SetMap swaps in a new map and announces it to subscribers
func (s *Server) SetMap(m *campus.Map) {
	s.current.Store(m)
	s.publish(pubsub.EventMapReady, pubsub.MapStatus{
		Source:    s.source,
		Name:      m.Name(),
		Locations: len(m.Locations()),
		Paths:     len(m.Edges()),
	})
}

// ReportMapError announces a failed reload. The current map stays in service.
func (s *Server) ReportMapError(err error) {
	m := s.Map()
	s.publish(pubsub.EventMapError, pubsub.MapStatus{
		Source:    s.source,
		Name:      m.Name(),
		Locations: len(m.Locations()),
		Paths:     len(m.Edges()),
		Message:   err.Error(),
	})
}

// Reloaded adapts SetMap and ReportMapError to a reload callback
func (s *Server) Reloaded(m *campus.Map, err error) {
	if err != nil {
		s.ReportMapError(err)
		return
	}
	s.SetMap(m)
}

func (s *Server) publish(eventType string, status pubsub.MapStatus) {
	if err := s.publisher.Publish(pubsub.TopicCampusMap, eventType, status); err != nil {
		logging.Warn("failed to publish map status", "type", eventType, "error", err)
	}
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// Start serves on port until ctx is done, then shuts down gracefully
func (s *Server) Start(ctx context.Context, port int) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logging.Info("starting web server", "url", fmt.Sprintf("http://localhost:%d", port))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		s.publisher.Close()
		return err
	case <-ctx.Done():
	}

	logging.Info("shutting down web server")
	// Open event streams only end once their subscriptions close
	s.publisher.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown web server: %w", err)
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
