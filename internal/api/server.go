// Package api provides the HTTP server for the projection backend.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/atlas-desktop/projection-backend/internal/marketdata"
	"github.com/atlas-desktop/projection-backend/internal/projection"
	"github.com/atlas-desktop/projection-backend/pkg/types"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

// Server is the HTTP API server.
type Server struct {
	logger     *zap.Logger
	config     *types.ServerConfig
	router     *mux.Router
	httpServer *http.Server
	engine     *projection.Engine
	provider   marketdata.Provider
}

// NewServer creates a new API server.
func NewServer(logger *zap.Logger, config *types.ServerConfig, engine *projection.Engine, provider marketdata.Provider) *Server {
	server := &Server{
		logger:   logger,
		config:   config,
		router:   mux.NewRouter(),
		engine:   engine,
		provider: provider,
	}

	server.setupRoutes()
	return server
}

// Router exposes the router for tests and composition.
func (s *Server) Router() *mux.Router {
	return s.router
}

// setupRoutes configures HTTP routes.
func (s *Server) setupRoutes() {
	s.router.HandleFunc("/api/v1/health", s.instrument("health", s.handleHealth)).Methods("GET")
	s.router.HandleFunc("/price/{symbol}", s.instrument("price", s.handlePrice)).Methods("GET")
	s.router.HandleFunc("/fundamentals/{symbol}", s.instrument("fundamentals", s.handleFundamentals)).Methods("GET")
	s.router.HandleFunc("/project", s.instrument("project", s.handleProject)).Methods("POST")

	if s.config.EnableMetrics {
		s.router.Handle("/metrics", promhttp.Handler()).Methods("GET")
	}
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	handler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}).Handler(s.router)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	s.logger.Info("Starting API server", zap.String("addr", addr))

	return s.httpServer.ListenAndServe()
}

// Stop gracefully stops the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// handleHealth handles health check requests.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// handlePrice returns the current and previous close for a symbol. This is
// the one surface allowed to fail outwardly: no history means 404.
func (s *Server) handlePrice(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]

	quote, err := s.provider.Quote(r.Context(), symbol)
	if err != nil {
		if !errors.Is(err, marketdata.ErrNoData) {
			s.logger.Warn("Price lookup failed",
				zap.String("symbol", symbol), zap.Error(err))
		}
		http.Error(w, "Price not found", http.StatusNotFound)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"symbol": quote.Symbol,
		"c":      quote.Current.InexactFloat64(),
		"pc":     quote.PrevClose.InexactFloat64(),
	})
}

// handleFundamentals returns best-effort company ratios; an empty object
// on failure, never an error status.
func (s *Server) handleFundamentals(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]

	fundamentals, err := s.provider.Fundamentals(r.Context(), symbol)
	if err != nil {
		fundamentals = types.Fundamentals{}
	}

	s.writeJSON(w, http.StatusOK, fundamentals)
}

// handleProject runs a projection. Invalid bodies are the only 400; every
// upstream failure is absorbed into the result's isSimulated flag.
func (s *Server) handleProject(w http.ResponseWriter, r *http.Request) {
	var req types.ProjectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := req.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result := s.engine.Project(r.Context(), &req)

	s.writeJSON(w, http.StatusOK, result)
}

// writeJSON writes a JSON response with the given status.
func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("Failed to encode response", zap.Error(err))
	}
}
