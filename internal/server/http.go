// Package server exposes the pool over HTTP/JSON: match CRUD, manual
// rebuild, and the results/standings reads.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"BetPool/internal/engine"
	"BetPool/internal/observability"
	"BetPool/internal/pool"
	"BetPool/internal/store"
)

// Server is the HTTP/JSON API over the pool service.
type Server struct {
	svc     *pool.Service
	health  *observability.HealthChecker
	metrics *observability.Metrics
	log     zerolog.Logger
}

func New(svc *pool.Service, health *observability.HealthChecker, metrics *observability.Metrics, log zerolog.Logger) *Server {
	return &Server{svc: svc, health: health, metrics: metrics, log: log}
}

// Router builds the chi route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.health.LivenessHandler)
	r.Get("/readyz", s.health.ReadinessHandler)

	r.Route("/v1", func(r chi.Router) {
		r.Route("/matches", func(r chi.Router) {
			r.Post("/", s.handleSubmitMatch)
			r.Get("/", s.handleListMatches)
			r.Get("/{matchID}", s.handleGetMatch)
			r.Put("/{matchID}", s.handleUpdateMatch)
			r.Delete("/{matchID}", s.handleDeleteMatch)
		})
		r.Post("/rebuild", s.handleRebuild)
		r.Get("/results", s.handleResults)
		r.Get("/standings", s.handleStandings)
	})

	return r
}

func (s *Server) handleSubmitMatch(w http.ResponseWriter, r *http.Request) {
	var sub pool.Submission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		s.writeError(w, "POST /v1/matches", http.StatusBadRequest, fmt.Errorf("decode body: %w", err))
		return
	}

	m, records, err := s.svc.SubmitMatch(r.Context(), sub)
	if err != nil {
		s.writeServiceError(w, "POST /v1/matches", err)
		return
	}

	s.writeJSON(w, "POST /v1/matches", http.StatusCreated, map[string]any{
		"match":   m,
		"records": records,
	})
}

func (s *Server) handleListMatches(w http.ResponseWriter, r *http.Request) {
	matches, err := s.svc.Matches(r.Context())
	if err != nil {
		s.writeServiceError(w, "GET /v1/matches", err)
		return
	}
	s.writeJSON(w, "GET /v1/matches", http.StatusOK, map[string]any{"matches": matches})
}

func (s *Server) handleGetMatch(w http.ResponseWriter, r *http.Request) {
	m, err := s.svc.Match(r.Context(), chi.URLParam(r, "matchID"))
	if err != nil {
		s.writeServiceError(w, "GET /v1/matches/{id}", err)
		return
	}
	s.writeJSON(w, "GET /v1/matches/{id}", http.StatusOK, map[string]any{"match": m})
}

func (s *Server) handleUpdateMatch(w http.ResponseWriter, r *http.Request) {
	var sub pool.Submission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		s.writeError(w, "PUT /v1/matches/{id}", http.StatusBadRequest, fmt.Errorf("decode body: %w", err))
		return
	}

	m, err := s.svc.UpdateMatch(r.Context(), chi.URLParam(r, "matchID"), sub)
	if err != nil {
		s.writeServiceError(w, "PUT /v1/matches/{id}", err)
		return
	}
	s.writeJSON(w, "PUT /v1/matches/{id}", http.StatusOK, map[string]any{"match": m})
}

func (s *Server) handleDeleteMatch(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.DeleteMatch(r.Context(), chi.URLParam(r, "matchID")); err != nil {
		s.writeServiceError(w, "DELETE /v1/matches/{id}", err)
		return
	}
	s.writeJSON(w, "DELETE /v1/matches/{id}", http.StatusOK, map[string]any{"deleted": true})
}

func (s *Server) handleRebuild(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Rebuild(r.Context()); err != nil {
		s.writeServiceError(w, "POST /v1/rebuild", err)
		return
	}
	s.writeJSON(w, "POST /v1/rebuild", http.StatusOK, map[string]any{"rebuilt": true})
}

func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	records, err := s.svc.Results(r.Context())
	if err != nil {
		s.writeServiceError(w, "GET /v1/results", err)
		return
	}
	s.writeJSON(w, "GET /v1/results", http.StatusOK, map[string]any{"records": records})
}

func (s *Server) handleStandings(w http.ResponseWriter, r *http.Request) {
	standings, err := s.svc.Standings(r.Context())
	if err != nil {
		s.writeServiceError(w, "GET /v1/standings", err)
		return
	}
	s.writeJSON(w, "GET /v1/standings", http.StatusOK, map[string]any{"standings": standings})
}

// writeServiceError maps service errors onto HTTP statuses: validation
// failures are 400, unknown ids 404, everything else 500.
func (s *Server) writeServiceError(w http.ResponseWriter, route string, err error) {
	switch {
	case errors.Is(err, engine.ErrInvalidWinner), errors.Is(err, pool.ErrMissingTeam):
		s.writeError(w, route, http.StatusBadRequest, err)
	case errors.Is(err, store.ErrMatchNotFound):
		s.writeError(w, route, http.StatusNotFound, err)
	default:
		s.log.Error().Str("route", route).Err(err).Msg("request failed")
		s.writeError(w, route, http.StatusInternalServerError, err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, route string, status int, err error) {
	s.count(route, status)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, route string, status int, body any) {
	s.count(route, status)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.log.Error().Str("route", route).Err(err).Msg("write response failed")
	}
}

func (s *Server) count(route string, status int) {
	if s.metrics == nil {
		return
	}
	class := fmt.Sprintf("%dxx", status/100)
	s.metrics.HTTPRequests.WithLabelValues(route, class).Inc()
}
