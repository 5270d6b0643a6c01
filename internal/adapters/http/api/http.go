// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dugout-io/dugout/internal/adapters/repository"
	"github.com/dugout-io/dugout/internal/domain/constraint"
	"github.com/dugout-io/dugout/internal/domain/result"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Optimize runs the full selection pipeline for one request. An empty
	// mode uses the configured default.
	Optimize(ctx context.Context, req constraint.Request, mode string) (result.Result, error)

	// Refresh reloads the catalog snapshot and returns the new version.
	Refresh(ctx context.Context) (CatalogInfo, error)

	// Catalog describes the active snapshot.
	Catalog(ctx context.Context) CatalogInfo

	// Read operations expose the candidate value index.
	TopN(ctx context.Context, n int) ([]Entry, error)
	Rank(ctx context.Context, candidateID string) (Entry, error)
}

// Entry mirrors the read shape returned by candidate index queries.
type Entry = repository.Entry

// CatalogInfo summarizes the active catalog snapshot.
type CatalogInfo struct {
	Version    string         `json:"version"`
	Candidates int            `json:"candidates"`
	Groups     int            `json:"groups"`
	Positions  map[string]int `json:"positions"`
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler     *HealthHandler
	statsHandler      *StatsHandler
	optimizeHandler   *OptimizeHandler
	catalogHandler    *CatalogHandler
	candidatesHandler *CandidatesHandler
	rankHandler       *RankHandler
}

// ServerConfig carries handler tunables.
type ServerConfig struct {
	// MaxCandidatesLimit bounds GET /candidates?limit=N.
	MaxCandidatesLimit int

	// OptimizePerSecond and OptimizeBurst configure the optimize rate
	// limiter; a non-positive rate disables limiting.
	OptimizePerSecond float64
	OptimizeBurst     int
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, cfg ServerConfig) *Server {
	return &Server{
		healthHandler:     NewHealthHandler(deps),
		statsHandler:      NewStatsHandler(statsProvider),
		optimizeHandler:   NewOptimizeHandler(deps, cfg.OptimizePerSecond, cfg.OptimizeBurst),
		catalogHandler:    NewCatalogHandler(deps),
		candidatesHandler: NewCandidatesHandler(deps, cfg.MaxCandidatesLimit),
		rankHandler:       NewRankHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/optimize", MetricsMiddleware(s.optimizeHandler.HandleOptimize, "optimize"))
	mux.HandleFunc("/catalog", MetricsMiddleware(s.catalogHandler.HandleGetCatalog, "catalog"))
	mux.HandleFunc("/catalog/refresh", MetricsMiddleware(s.catalogHandler.HandleRefresh, "catalog_refresh"))
	mux.HandleFunc("/candidates", MetricsMiddleware(s.candidatesHandler.HandleGetCandidates, "candidates"))
	mux.HandleFunc("/candidates/rank/", MetricsMiddleware(s.rankHandler.HandleGetRank, "candidates_rank"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
