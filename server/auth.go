package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/s0up4200/cinestream/movies"
	"github.com/s0up4200/cinestream/session"
	"github.com/s0up4200/cinestream/store"
)

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authResponse struct {
	Message string      `json:"message"`
	User    movies.User `json:"user"`
}

func publicUser(u *store.User) movies.User {
	return movies.User{ID: u.ID, Username: u.Username, CreatedAt: u.CreatedAt}
}

func decodeCredentials(r *http.Request) (credentials, bool) {
	var c credentials
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		return c, false
	}
	c.Username = strings.TrimSpace(c.Username)
	return c, c.Username != "" && c.Password != ""
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	c, ok := decodeCredentials(r)
	if !ok {
		authEvents.WithLabelValues("register", "invalid").Inc()
		writeMessage(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	hash, err := session.HashPassword(c.Password)
	if err != nil {
		s.serverError(w, r, err, "Registration failed")
		return
	}

	u, err := s.users.CreateUser(r.Context(), c.Username, hash)
	if errors.Is(err, store.ErrDuplicate) {
		authEvents.WithLabelValues("register", "duplicate").Inc()
		writeMessage(w, http.StatusBadRequest, "Username already exists")
		return
	}
	if err != nil {
		s.serverError(w, r, err, "Registration failed")
		return
	}

	if err := s.sessions.Issue(w, session.Identity{UserID: u.ID, Username: u.Username}); err != nil {
		s.serverError(w, r, err, "Registration failed")
		return
	}

	authEvents.WithLabelValues("register", "ok").Inc()
	s.logger.Info().Str("username", u.Username).Msg("User registered")
	writeJSON(w, http.StatusOK, authResponse{Message: "Registration successful", User: publicUser(u)})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	c, ok := decodeCredentials(r)
	if !ok {
		authEvents.WithLabelValues("login", "invalid").Inc()
		writeMessage(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	u, err := s.users.GetUserByUsername(r.Context(), c.Username)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		s.serverError(w, r, err, "Login failed")
		return
	}
	if u == nil || !session.CheckPassword(u.PasswordHash, c.Password) {
		authEvents.WithLabelValues("login", "rejected").Inc()
		writeMessage(w, http.StatusUnauthorized, "Incorrect username or password")
		return
	}

	if err := s.sessions.Issue(w, session.Identity{UserID: u.ID, Username: u.Username}); err != nil {
		s.serverError(w, r, err, "Login failed")
		return
	}

	authEvents.WithLabelValues("login", "ok").Inc()
	writeJSON(w, http.StatusOK, authResponse{Message: "Login successful", User: publicUser(u)})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.sessions.Clear(w)
	writeMessage(w, http.StatusOK, "Logout successful")
}

func (s *Server) handleUser(w http.ResponseWriter, r *http.Request) {
	id, ok := session.FromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Not logged in")
		return
	}

	u, err := s.users.GetUserByID(r.Context(), id.UserID)
	if errors.Is(err, store.ErrNotFound) {
		s.sessions.Clear(w)
		writeMessage(w, http.StatusUnauthorized, "Not logged in")
		return
	}
	if err != nil {
		s.serverError(w, r, err, "Failed to fetch user")
		return
	}
	writeJSON(w, http.StatusOK, publicUser(u))
}
