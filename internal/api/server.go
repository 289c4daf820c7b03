// File path: internal/api/server.go
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	chi "github.com/go-chi/chi/v5"

	"github.com/sunward/solsite/internal/agent"
	"github.com/sunward/solsite/internal/catalog"
	"github.com/sunward/solsite/internal/common"
	"github.com/sunward/solsite/internal/geocode"
	"github.com/sunward/solsite/internal/llm"
	"github.com/sunward/solsite/internal/retriever"
	"github.com/sunward/solsite/internal/weather"
	"github.com/sunward/solsite/internal/websearch"
)

// Server exposes the analysis pipeline over HTTP. The agent and retriever are
// required; history and the external lookup clients are optional and their
// endpoints return 503 when not configured.
type Server struct {
	router    chi.Router
	agent     *agent.Agent
	provider  llm.Provider
	retriever *retriever.Retriever
	history   *catalog.Store
	geocoder  *geocode.Client
	web       *websearch.Client
	weather   *weather.Client
}

type Option func(*Server)

// WithHistory enables the /v1/history endpoint backed by the analysis catalog.
func WithHistory(store *catalog.Store) Option {
	return func(s *Server) { s.history = store }
}

// WithGeocoder enables the /v1/geocode endpoint.
func WithGeocoder(client *geocode.Client) Option {
	return func(s *Server) { s.geocoder = client }
}

// WithWebSearch enables the /v1/websearch endpoint.
func WithWebSearch(client *websearch.Client) Option {
	return func(s *Server) { s.web = client }
}

// WithWeather enables the /v1/weather endpoint.
func WithWeather(client *weather.Client) Option {
	return func(s *Server) { s.weather = client }
}

func NewServer(runner *agent.Agent, provider llm.Provider, retr *retriever.Retriever, opts ...Option) (*Server, error) {
	logger := common.Logger()
	if runner == nil {
		return nil, fmt.Errorf("agent required")
	}
	if retr == nil {
		return nil, fmt.Errorf("retriever required")
	}
	srv := &Server{
		router:    chi.NewRouter(),
		agent:     runner,
		provider:  provider,
		retriever: retr,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(srv)
		}
	}
	srv.routes()
	logger.Info(
		"api: server ready",
		"history", srv.history != nil,
		"geocoder", srv.geocoder != nil,
		"websearch", srv.web != nil,
		"weather", srv.weather != nil,
	)
	return srv, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	logger := common.Logger()
	s.router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			logger.Debug("request", "method", r.Method, "path", r.URL.Path, "dur", time.Since(start), "remote", r.RemoteAddr)
		})
	})

	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	s.router.Post("/v1/analyze", s.handleAnalyze)
	s.router.Post("/v1/chat", s.handleChat)
	s.router.Get("/v1/search", s.handleSearch)
	s.router.Get("/v1/geocode", s.handleGeocode)
	s.router.Get("/v1/websearch", s.handleWebSearch)
	s.router.Get("/v1/weather", s.handleWeather)
	s.router.Get("/v1/history", s.handleHistory)
	s.router.Get("/v1/logs", s.handleLogs)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err error) {
	logger := common.Logger()
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "status", status, "error", err)
	} else {
		logger.Warn("request failed", "status", status, "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
