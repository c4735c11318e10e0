package query

import (
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type movie struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
}

func TestNewKey(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		params url.Values
		want   Key
	}{
		{name: "empty path", path: "", want: NoKey},
		{name: "no params", path: "/api/tmdb/movie/popular", want: "/api/tmdb/movie/popular"},
		{
			name:   "sorted params",
			path:   "/api/tmdb/discover/movie",
			params: url.Values{"sort_by": {"popularity.desc"}, "page": {"1"}},
			want:   "/api/tmdb/discover/movie?page=1&sort_by=popularity.desc",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewKey(tt.path, tt.params))
		})
	}
}

func TestDecode(t *testing.T) {
	t.Run("data", func(t *testing.T) {
		got := Decode[movie](Result{Data: []byte(`{"id":550,"title":"Fight Club"}`)})
		require.NotNil(t, got.Data)
		assert.Equal(t, "Fight Club", got.Data.Title)
		assert.NoError(t, got.Err)
	})

	t.Run("invalid json", func(t *testing.T) {
		got := Decode[movie](Result{Data: []byte(`[`)})
		assert.Nil(t, got.Data)
		var decodeErr *DecodeError
		assert.ErrorAs(t, got.Err, &decodeErr)
	})

	t.Run("stale data with error", func(t *testing.T) {
		boom := errors.New("boom")
		got := Decode[movie](Result{Data: []byte(`{"id":1}`), Err: boom})
		require.NotNil(t, got.Data)
		assert.ErrorIs(t, got.Err, boom)
	})

	t.Run("loading", func(t *testing.T) {
		got := Decode[movie](Result{IsLoading: true})
		assert.True(t, got.IsLoading)
		assert.False(t, got.Ready())
	})
}

func TestDependent(t *testing.T) {
	called := false
	compute := func(m *movie) Key {
		called = true
		return NewKey("/api/tmdb/movie/"+m.Title+"/credits", nil)
	}

	assert.Equal(t, NoKey, Dependent(Typed[movie]{IsLoading: true}, compute))
	assert.Equal(t, NoKey, Dependent(Typed[movie]{Err: errors.New("x")}, compute))
	assert.False(t, called, "compute must not run without parent data")

	key := Dependent(Typed[movie]{Data: &movie{Title: "550"}}, compute)
	assert.Equal(t, Key("/api/tmdb/movie/550/credits"), key)
}

func TestMerge(t *testing.T) {
	first := errors.New("first")
	second := errors.New("second")

	tests := []struct {
		name   string
		states []State
		want   State
	}{
		{name: "empty", want: State{}},
		{name: "all settled", states: []State{{}, {}}, want: State{}},
		{name: "any loading", states: []State{{}, {IsLoading: true}}, want: State{IsLoading: true}},
		{
			name:   "first error wins",
			states: []State{{}, {Err: first}, {Err: second}},
			want:   State{Err: first},
		},
		{
			name:   "loading and error",
			states: []State{{IsLoading: true}, {Err: second}},
			want:   State{IsLoading: true, Err: second},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Merge(tt.states...))
		})
	}
}
