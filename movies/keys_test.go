package movies

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/s0up4200/cinestream/query"
)

func TestMovieKey(t *testing.T) {
	tests := []struct {
		id   string
		want query.Key
	}{
		{id: "550", want: "/api/tmdb/movie/550"},
		{id: " 42 ", want: "/api/tmdb/movie/42"},
		{id: "", want: query.NoKey},
		{id: "abc", want: query.NoKey},
		{id: "0", want: query.NoKey},
		{id: "-3", want: query.NoKey},
		{id: "1.5", want: query.NoKey},
		{id: "2147483647", want: "/api/tmdb/movie/2147483647"},
		{id: "3000000000", want: query.NoKey},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			assert.Equal(t, tt.want, MovieKey(tt.id))
		})
	}
}

func TestCreditsKey(t *testing.T) {
	assert.Equal(t, query.NoKey, CreditsKey(nil))
	assert.Equal(t, query.NoKey, CreditsKey(&Movie{}))
	assert.Equal(t, query.Key("/api/tmdb/movie/550/credits"), CreditsKey(&Movie{ID: 550}))
}

func TestWatchlistKey(t *testing.T) {
	assert.Equal(t, query.NoKey, WatchlistKey(nil))
	assert.Equal(t, query.Key("/api/watchlist"), WatchlistKey(&User{ID: 1}))
}

func TestSearchRequestKey(t *testing.T) {
	tests := []struct {
		name string
		req  SearchRequest
		want query.Key
	}{
		{
			name: "discover defaults",
			req:  SearchRequest{},
			want: "/api/tmdb/discover/movie?sort_by=popularity.desc",
		},
		{
			name: "discover with genre and year",
			req:  SearchRequest{Genre: "28", Year: "1999", SortBy: "vote_average.desc"},
			want: "/api/tmdb/discover/movie?sort_by=vote_average.desc&with_genres=28&year=1999",
		},
		{
			name: "search ignores genre and sort",
			req:  SearchRequest{Query: "matrix", Genre: "28", SortBy: "title.asc", Year: "1999"},
			want: "/api/tmdb/search/movie?query=matrix&year=1999",
		},
		{
			name: "search escapes query",
			req:  SearchRequest{Query: "fight club"},
			want: "/api/tmdb/search/movie?query=fight+club",
		},
		{
			name: "page",
			req:  SearchRequest{Page: 3},
			want: "/api/tmdb/discover/movie?page=3&sort_by=popularity.desc",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.req.Key())
		})
	}
}

func TestQuickSearchKey(t *testing.T) {
	assert.Equal(t, query.NoKey, QuickSearchKey("   "))
	assert.Equal(t, query.Key("/api/tmdb/search/movie?query=alien"), QuickSearchKey("alien"))
}

func TestMovieHelpers(t *testing.T) {
	m := Movie{ID: 550, ReleaseDate: "1999-10-15", PosterPath: "/p.jpg", Genres: []Genre{{ID: 18, Name: "Drama"}}}

	assert.Equal(t, 1999, m.Year())
	assert.Equal(t, "https://image.tmdb.org/t/p/w500/p.jpg", m.PosterURL())
	assert.Equal(t, []int{18}, m.AllGenreIDs())
	assert.Equal(t, "https://moviesapi.club/movie/550", PlayerURL(m.ID))
	assert.Equal(t, 0, Movie{}.Year())
	assert.Empty(t, Movie{}.PosterURL())

	cast := CastMember{ProfilePath: "/c.jpg"}
	assert.Equal(t, "https://image.tmdb.org/t/p/w92/c.jpg", cast.ProfileURL())
}
