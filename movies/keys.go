package movies

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/s0up4200/cinestream/query"
)

// Upstream endpoints and local paths the client reads.
const (
	TMDBPrefix = "/api/tmdb/"

	EndpointTrending = "trending/movie/week"
	EndpointPopular  = "movie/popular"
	EndpointGenres   = "genre/movie/list"
	EndpointSearch   = "search/movie"
	EndpointDiscover = "discover/movie"

	PathUser      = "/api/user"
	PathWatchlist = "/api/watchlist"

	DefaultSort = "popularity.desc"
)

// Sort orders accepted by discover/movie.
var SortOrders = []string{
	"popularity.desc",
	"popularity.asc",
	"vote_average.desc",
	"vote_average.asc",
	"primary_release_date.desc",
	"primary_release_date.asc",
	"revenue.desc",
	"title.asc",
}

// TMDBKey returns the cache key of a proxied TMDB endpoint.
func TMDBKey(endpoint string, params url.Values) query.Key {
	endpoint = strings.Trim(endpoint, "/")
	if endpoint == "" {
		return query.NoKey
	}
	return query.NewKey(TMDBPrefix+endpoint, params)
}

// TrendingKey is the weekly trending list.
func TrendingKey() query.Key {
	return TMDBKey(EndpointTrending, nil)
}

// PopularKey is the popular list.
func PopularKey() query.Key {
	return TMDBKey(EndpointPopular, nil)
}

// GenresKey is the movie genre list.
func GenresKey() query.Key {
	return TMDBKey(EndpointGenres, nil)
}

// ParseID parses a route movie id. Only positive integers that fit the
// watchlist table's INTEGER column are valid.
func ParseID(id string) (int64, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(id), 10, 32)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// MovieKey returns the detail key for a route id, or NoKey when the id is
// missing or malformed.
func MovieKey(id string) query.Key {
	n, ok := ParseID(id)
	if !ok {
		return query.NoKey
	}
	return MovieKeyByID(n)
}

// MovieKeyByID returns the detail key for a numeric id.
func MovieKeyByID(id int64) query.Key {
	if id <= 0 {
		return query.NoKey
	}
	return TMDBKey("movie/"+strconv.FormatInt(id, 10), nil)
}

// CreditsKey derives the credits key from a resolved movie.
func CreditsKey(m *Movie) query.Key {
	if m == nil || m.ID <= 0 {
		return query.NoKey
	}
	return TMDBKey("movie/"+strconv.FormatInt(m.ID, 10)+"/credits", nil)
}

// UserKey is the signed-in user.
func UserKey() query.Key {
	return query.Key(PathUser)
}

// WatchlistKey derives the watchlist key from the signed-in user.
func WatchlistKey(u *User) query.Key {
	if u == nil || u.ID <= 0 {
		return query.NoKey
	}
	return query.Key(PathWatchlist)
}

// SearchRequest describes the search page inputs.
type SearchRequest struct {
	Query  string
	Genre  string
	Year   string
	SortBy string
	Page   int
}

// Key returns the search/movie key when a query is set and the discover/movie
// key otherwise.
func (r SearchRequest) Key() query.Key {
	params := url.Values{}
	if r.Year != "" {
		params.Set("year", r.Year)
	}
	if r.Page > 1 {
		params.Set("page", strconv.Itoa(r.Page))
	}

	if q := strings.TrimSpace(r.Query); q != "" {
		params.Set("query", q)
		return TMDBKey(EndpointSearch, params)
	}

	sortBy := r.SortBy
	if sortBy == "" {
		sortBy = DefaultSort
	}
	params.Set("sort_by", sortBy)
	if r.Genre != "" {
		params.Set("with_genres", r.Genre)
	}
	return TMDBKey(EndpointDiscover, params)
}

// QuickSearchKey returns the search bar key, or NoKey for an empty query.
func QuickSearchKey(q string) query.Key {
	q = strings.TrimSpace(q)
	if q == "" {
		return query.NoKey
	}
	return TMDBKey(EndpointSearch, url.Values{"query": {q}})
}
