package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/cinestream/movies"
)

func TestWatchlist_RequiresSession(t *testing.T) {
	env := newTestEnv(t, nil)

	tests := []struct {
		method string
		target string
		body   string
	}{
		{http.MethodGet, "/api/watchlist", ""},
		{http.MethodGet, "/api/watchlist/550", ""},
		{http.MethodPost, "/api/watchlist/550", ""},
		{http.MethodPost, "/api/watchlist", `{"movieId":550}`},
		{http.MethodDelete, "/api/watchlist/550", ""},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.target, func(t *testing.T) {
			rec := env.do(tt.method, tt.target, tt.body, nil)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.JSONEq(t, `{"message":"Unauthorized"}`, rec.Body.String())
		})
	}
}

func TestWatchlist_InvalidMovieIDBeforeSession(t *testing.T) {
	env := newTestEnv(t, nil)
	cookie := env.cookieFor(t, "alice")

	tests := []struct {
		name   string
		method string
		target string
		body   string
		cookie bool
	}{
		{"post without session", http.MethodPost, "/api/watchlist/abc", "", false},
		{"post with session", http.MethodPost, "/api/watchlist/abc", "", true},
		{"delete without session", http.MethodDelete, "/api/watchlist/abc", "", false},
		{"get without session", http.MethodGet, "/api/watchlist/-1", "", false},
		{"body without session", http.MethodPost, "/api/watchlist", `{"movieId":"abc"}`, false},
		{"body zero", http.MethodPost, "/api/watchlist", `{"movieId":0}`, true},
		{"post out of range", http.MethodPost, "/api/watchlist/3000000000", "", true},
		{"body out of range", http.MethodPost, "/api/watchlist", `{"movieId":3000000000}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := cookie
			if !tt.cookie {
				c = nil
			}
			rec := env.do(tt.method, tt.target, tt.body, c)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.JSONEq(t, `{"message":"Invalid movie id"}`, rec.Body.String())
		})
	}
}

func TestWatchlist_Lifecycle(t *testing.T) {
	env := newTestEnv(t, nil)
	alice := env.cookieFor(t, "alice")
	bob := env.cookieFor(t, "bob")

	rec := env.do(http.MethodPost, "/api/watchlist/550", "", alice)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Added to watchlist"}`, rec.Body.String())

	rec = env.do(http.MethodPost, "/api/watchlist", `{"movieId":13}`, alice)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(http.MethodPost, "/api/watchlist/550", "", alice)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"message":"Movie already in watchlist"}`, rec.Body.String())

	env.do(http.MethodPost, "/api/watchlist/603", "", bob)

	rec = env.do(http.MethodGet, "/api/watchlist", "", alice)
	require.Equal(t, http.StatusOK, rec.Code)
	var entries []movies.WatchlistEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, int64(550), entries[0].MovieID)
	assert.Equal(t, int64(13), entries[1].MovieID)
	assert.True(t, entries[0].AddedAt.Before(entries[1].AddedAt))

	rec = env.do(http.MethodGet, "/api/watchlist/550", "", alice)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(550), decodeBody(t, rec)["movieId"])

	rec = env.do(http.MethodDelete, "/api/watchlist/550", "", alice)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Removed from watchlist"}`, rec.Body.String())

	rec = env.do(http.MethodGet, "/api/watchlist/550", "", alice)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"message":"Movie not in watchlist"}`, rec.Body.String())

	rec = env.do(http.MethodGet, "/api/watchlist", "", bob)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, int64(603), entries[0].MovieID)
}

func TestWatchlist_EmptyListIsArray(t *testing.T) {
	env := newTestEnv(t, nil)
	rec := env.do(http.MethodGet, "/api/watchlist", "", env.cookieFor(t, "carol"))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestWatchlist_StoreFailure(t *testing.T) {
	env := newTestEnv(t, nil)
	cookie := env.cookieFor(t, "dave")
	env.store.failWrite = errors.New("connection reset")

	rec := env.do(http.MethodPost, "/api/watchlist/550", "", cookie)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"message":"Failed to add to watchlist"}`, rec.Body.String())

	rec = env.do(http.MethodDelete, "/api/watchlist/550", "", cookie)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"message":"Failed to remove from watchlist"}`, rec.Body.String())
}
