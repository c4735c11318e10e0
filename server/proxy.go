package server

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/s0up4200/cinestream/tmdb"
)

func (s *Server) handleTMDB(w http.ResponseWriter, r *http.Request) {
	endpoint := chi.URLParam(r, "*")
	if !tmdb.ValidEndpoint(endpoint) {
		s.logger.Warn().Str("endpoint", endpoint).Msg("Invalid TMDB endpoint")
		upstreamRequests.WithLabelValues("invalid").Inc()
		writeError(w, http.StatusBadRequest, "Invalid endpoint", "A valid TMDB endpoint is required")
		return
	}

	body, err := s.tmdb.Get(r.Context(), endpoint, r.URL.Query())
	switch {
	case err == nil:
		upstreamRequests.WithLabelValues("ok").Inc()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(body)

	case errors.Is(err, tmdb.ErrInvalidEndpoint):
		upstreamRequests.WithLabelValues("invalid").Inc()
		writeError(w, http.StatusBadRequest, "Invalid endpoint", "A valid TMDB endpoint is required")

	case errors.Is(err, tmdb.ErrMissingAPIKey):
		s.logger.Error().Msg("TMDB API key is not configured")
		upstreamRequests.WithLabelValues("unconfigured").Inc()
		writeError(w, http.StatusInternalServerError, "Configuration error", "TMDB API key is not configured")

	default:
		s.logger.Error().Err(err).Str("endpoint", endpoint).Msg("Failed to fetch from TMDB")
		upstreamRequests.WithLabelValues("error").Inc()
		reportError(r, err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch from TMDB", err.Error())
	}
}
