package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/cinestream/tmdb"
)

func TestProxy_ForwardsEndpointAndQuery(t *testing.T) {
	var gotEndpoint string
	var gotParams url.Values

	env := newTestEnv(t, upstreamFunc(func(_ context.Context, endpoint string, params url.Values) ([]byte, error) {
		gotEndpoint = endpoint
		gotParams = params
		return []byte(`{"page":1,"results":[{"id":550}]}`), nil
	}))

	rec := env.do(http.MethodGet, "/api/tmdb/search/movie?query=fight+club&year=1999", "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"page":1,"results":[{"id":550}]}`, rec.Body.String())
	assert.Equal(t, "search/movie", gotEndpoint)
	assert.Equal(t, "fight club", gotParams.Get("query"))
	assert.Equal(t, "1999", gotParams.Get("year"))
}

func TestProxy_InvalidEndpoint(t *testing.T) {
	called := false
	env := newTestEnv(t, upstreamFunc(func(context.Context, string, url.Values) ([]byte, error) {
		called = true
		return []byte(`{}`), nil
	}))

	for _, target := range []string{"/api/tmdb", "/api/tmdb/", "/api/tmdb/null", "/api/tmdb/movie/../../account"} {
		t.Run(target, func(t *testing.T) {
			rec := env.do(http.MethodGet, target, "", nil)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.JSONEq(t, `{"error":"Invalid endpoint","message":"A valid TMDB endpoint is required"}`, rec.Body.String())
		})
	}
	assert.False(t, called)
}

func TestProxy_MissingAPIKey(t *testing.T) {
	env := newTestEnv(t, tmdb.NewClient("", zerolog.Nop()))

	rec := env.do(http.MethodGet, "/api/tmdb/movie/popular", "", nil)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Configuration error","message":"TMDB API key is not configured"}`, rec.Body.String())
}

func TestProxy_UpstreamFailure(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "key", r.URL.Query().Get("api_key"))
		assert.Equal(t, "en-US", r.URL.Query().Get("language"))
		w.WriteHeader(http.StatusNotFound)
	}))
	defer upstream.Close()

	env := newTestEnv(t, tmdb.NewClient("key", zerolog.Nop(), tmdb.WithBaseURL(upstream.URL)))

	rec := env.do(http.MethodGet, "/api/tmdb/movie/0?api_key=mine&language=fr", "", nil)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Failed to fetch from TMDB","message":"TMDB API error: Not Found"}`, rec.Body.String())
}

func TestHealthAndMetrics(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	env.do(http.MethodGet, "/api/tmdb/movie/popular", "", nil)
	rec = env.do(http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "cinestream_http_requests_total")
	assert.Contains(t, rec.Body.String(), "cinestream_tmdb_requests_total")
}

func TestNew_RequiresDeps(t *testing.T) {
	_, err := New(Config{}, Deps{}, zerolog.Nop())
	assert.Error(t, err)
}
