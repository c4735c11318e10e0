package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/s0up4200/cinestream/movies"
	"github.com/s0up4200/cinestream/session"
	"github.com/s0up4200/cinestream/store"
)

// requireIdentity writes 401 when identify found no valid session.
func requireIdentity(w http.ResponseWriter, r *http.Request) (session.Identity, bool) {
	id, ok := session.FromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Unauthorized")
		return session.Identity{}, false
	}
	return id, true
}

func (s *Server) handleListWatchlist(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	entries, err := s.watchlist.ListWatchlist(r.Context(), id.UserID)
	if err != nil {
		s.serverError(w, r, err, "Failed to fetch watchlist")
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleGetWatchlistEntry(w http.ResponseWriter, r *http.Request) {
	movieID, ok := movies.ParseID(chi.URLParam(r, "movieId"))
	if !ok {
		writeMessage(w, http.StatusBadRequest, "Invalid movie id")
		return
	}
	id, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	entry, err := s.watchlist.GetWatchlistEntry(r.Context(), id.UserID, movieID)
	if errors.Is(err, store.ErrNotFound) {
		writeMessage(w, http.StatusNotFound, "Movie not in watchlist")
		return
	}
	if err != nil {
		s.serverError(w, r, err, "Failed to fetch watchlist")
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (s *Server) handleAddToWatchlist(w http.ResponseWriter, r *http.Request) {
	movieID, ok := movies.ParseID(chi.URLParam(r, "movieId"))
	if !ok {
		writeMessage(w, http.StatusBadRequest, "Invalid movie id")
		return
	}
	s.addToWatchlist(w, r, movieID)
}

func (s *Server) handleAddToWatchlistBody(w http.ResponseWriter, r *http.Request) {
	var body struct {
		MovieID json.Number `json:"movieId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid movie id")
		return
	}
	movieID, ok := movies.ParseID(body.MovieID.String())
	if !ok {
		writeMessage(w, http.StatusBadRequest, "Invalid movie id")
		return
	}
	s.addToWatchlist(w, r, movieID)
}

func (s *Server) addToWatchlist(w http.ResponseWriter, r *http.Request, movieID int64) {
	id, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	_, err := s.watchlist.AddToWatchlist(r.Context(), id.UserID, movieID)
	if errors.Is(err, store.ErrDuplicate) {
		writeMessage(w, http.StatusBadRequest, "Movie already in watchlist")
		return
	}
	if err != nil {
		s.serverError(w, r, err, "Failed to add to watchlist")
		return
	}

	s.logger.Debug().Int64("user_id", id.UserID).Int64("movie_id", movieID).Msg("Added to watchlist")
	writeMessage(w, http.StatusOK, "Added to watchlist")
}

func (s *Server) handleRemoveFromWatchlist(w http.ResponseWriter, r *http.Request) {
	movieID, ok := movies.ParseID(chi.URLParam(r, "movieId"))
	if !ok {
		writeMessage(w, http.StatusBadRequest, "Invalid movie id")
		return
	}
	id, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	if err := s.watchlist.RemoveFromWatchlist(r.Context(), id.UserID, movieID); err != nil {
		s.serverError(w, r, err, "Failed to remove from watchlist")
		return
	}
	writeMessage(w, http.StatusOK, "Removed from watchlist")
}

func (s *Server) serverError(w http.ResponseWriter, r *http.Request, err error, message string) {
	s.logger.Error().Err(err).Str("path", r.URL.Path).Msg(message)
	reportError(r, err)
	writeMessage(w, http.StatusInternalServerError, message)
}
