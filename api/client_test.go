package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/cinestream/query"
	"github.com/s0up4200/cinestream/session"
)

// fakeServer mimics the session behaviour of the real server.
func fakeServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/login", func(w http.ResponseWriter, r *http.Request) {
		var creds map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		if creds["password"] != "hunter2" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"message":"Incorrect username or password"}`))
			return
		}
		http.SetCookie(w, &http.Cookie{Name: session.CookieName, Value: "token-1", Path: "/"})
		w.Write([]byte(`{"message":"Login successful","user":{"id":1,"username":"alice"}}`))
	})
	mux.HandleFunc("/api/logout", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: session.CookieName, Value: "", Path: "/", MaxAge: -1})
		w.Write([]byte(`{"message":"Logout successful"}`))
	})
	mux.HandleFunc("/api/user", func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie(session.CookieName)
		if err != nil || c.Value != "token-1" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"message":"Not logged in"}`))
			return
		}
		w.Write([]byte(`{"id":1,"username":"alice"}`))
	})
	mux.HandleFunc("/api/watchlist/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/watchlist/550" && r.Method == http.MethodPost {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"message":"Movie already in watchlist"}`))
			return
		}
		w.Write([]byte(`{"message":"ok"}`))
	})
	mux.HandleFunc("/api/tmdb/", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "popularity.desc", r.URL.Query().Get("sort_by"))
		w.Write([]byte(`{"page":1}`))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestNewClient(t *testing.T) {
	_, err := NewClient("", zerolog.Nop())
	assert.Error(t, err)

	c, err := NewClient("http://localhost:5000/", zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:5000", c.baseURL)
	assert.False(t, c.SignedIn())
}

func TestClient_Fetch(t *testing.T) {
	srv := fakeServer(t)
	c, err := NewClient(srv.URL, zerolog.Nop())
	require.NoError(t, err)

	body, err := c.Fetch(context.Background(), "/api/tmdb/discover/movie?sort_by=popularity.desc")
	require.NoError(t, err)
	assert.JSONEq(t, `{"page":1}`, string(body))

	_, err = c.Fetch(context.Background(), query.NoKey)
	assert.ErrorIs(t, err, query.ErrNullKey)
}

func TestClient_SessionLifecycle(t *testing.T) {
	srv := fakeServer(t)
	store, err := OpenSessionStore(t.TempDir(), srv.URL)
	require.NoError(t, err)
	defer store.Close()

	c, err := NewClient(srv.URL, zerolog.Nop(), WithSessionStore(store))
	require.NoError(t, err)
	ctx := context.Background()

	_, err = c.Fetch(ctx, "/api/user")
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.True(t, statusErr.IsUnauthorized())
	assert.Equal(t, "Not logged in", statusErr.Error())

	_, err = c.Login(ctx, "alice", "wrong")
	require.ErrorAs(t, err, &statusErr)
	assert.False(t, c.SignedIn())

	user, err := c.Login(ctx, "alice", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.True(t, c.SignedIn())

	body, err := c.Fetch(ctx, "/api/user")
	require.NoError(t, err)
	assert.Contains(t, string(body), "alice")

	require.NoError(t, c.Logout(ctx))
	assert.False(t, c.SignedIn())
}

func TestClient_SessionPersistsAcrossClients(t *testing.T) {
	srv := fakeServer(t)
	dir := t.TempDir()

	store, err := OpenSessionStore(dir, srv.URL)
	require.NoError(t, err)
	c, err := NewClient(srv.URL, zerolog.Nop(), WithSessionStore(store))
	require.NoError(t, err)
	_, err = c.Login(context.Background(), "alice", "hunter2")
	require.NoError(t, err)
	require.NoError(t, store.Close())

	reopened, err := OpenSessionStore(dir, srv.URL)
	require.NoError(t, err)
	defer reopened.Close()

	token, err := reopened.Load()
	require.NoError(t, err)
	assert.Equal(t, "token-1", token)

	other, err := OpenSessionStore(t.TempDir(), "http://other.example")
	require.NoError(t, err)
	defer other.Close()
	token, err = other.Load()
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestClient_WatchlistWrites(t *testing.T) {
	srv := fakeServer(t)
	c, err := NewClient(srv.URL, zerolog.Nop())
	require.NoError(t, err)
	ctx := context.Background()

	assert.NoError(t, c.AddToWatchlist(ctx, 13))
	assert.NoError(t, c.RemoveFromWatchlist(ctx, 13))

	err = c.AddToWatchlist(ctx, 550)
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.True(t, statusErr.IsBadRequest())
	assert.Equal(t, "Movie already in watchlist", statusErr.Message)
}

func TestStatusError(t *testing.T) {
	err := newStatusError(http.StatusInternalServerError, []byte(`{"error":"Configuration error","message":"TMDB API key is not configured"}`))
	assert.Equal(t, "Configuration error: TMDB API key is not configured", err.Error())

	err = newStatusError(http.StatusBadGateway, []byte(`<html>`))
	assert.Equal(t, "request failed with status 502", err.Error())
	assert.True(t, (&StatusError{StatusCode: 404}).IsNotFound())
}
