package pages

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/s0up4200/cinestream/filter"
	"github.com/s0up4200/cinestream/movies"
	"github.com/s0up4200/cinestream/query"
)

// YearChoices is the number of years offered by the year selector.
const YearChoices = 50

// ErrUnknownGenre is reported when a genre name matches no genre.
var ErrUnknownGenre = errors.New("unknown genre")

// SearchInput holds the search form.
type SearchInput struct {
	Query string
	// Genre is a genre id or a (possibly misspelled) genre name.
	Genre  string
	Year   string
	SortBy string
	Page   int
	Filter *filter.Filter
}

// Search shows search or discover results.
type Search struct {
	input    SearchInput
	genreErr error

	genres  *query.Hook[movies.GenreList]
	results *query.Hook[movies.MovieList]
}

// NewSearch mounts the genre list and the results for in.
func NewSearch(s *query.Scope, in SearchInput) *Search {
	p := &Search{
		input:   in,
		genres:  movies.UseGenres(s),
		results: query.NewHook[movies.MovieList](s, query.NoKey),
	}
	p.Render()
	return p
}

// SetInput replaces the form. The next Render switches the results key.
func (p *Search) SetInput(in SearchInput) {
	p.input = in
}

func (p *Search) Render() query.State {
	genres := p.genres.Result()
	p.genreErr = nil

	var key query.Key
	if _, numeric := movies.ParseID(p.input.Genre); p.input.Genre == "" || numeric {
		key = p.request(p.input.Genre).Key()
	} else {
		key = query.Dependent(genres, func(list *movies.GenreList) query.Key {
			g, ok := ResolveGenre(*list, p.input.Genre)
			if !ok {
				p.genreErr = fmt.Errorf("%w: %s", ErrUnknownGenre, p.input.Genre)
				return query.NoKey
			}
			return p.request(strconv.Itoa(g.ID)).Key()
		})
	}
	p.results.SetKey(key)

	return query.Merge(
		p.results.Result().State(),
		genres.State(),
		query.State{Err: p.genreErr},
	)
}

func (p *Search) request(genre string) movies.SearchRequest {
	return movies.SearchRequest{
		Query:  p.input.Query,
		Genre:  genre,
		Year:   p.input.Year,
		SortBy: p.input.SortBy,
		Page:   p.input.Page,
	}
}

// Input returns the current form.
func (p *Search) Input() SearchInput {
	return p.input
}

// Genres returns the genre list, or nil before it loads.
func (p *Search) Genres() []movies.Genre {
	g := p.genres.Result()
	if g.Data == nil {
		return nil
	}
	return g.Data.Genres
}

// Movies returns the results with the client-side filter applied.
func (p *Search) Movies() []movies.Movie {
	r := p.results.Result()
	if r.Data == nil {
		return nil
	}
	return p.input.Filter.Apply(r.Data.Results)
}

// TotalResults returns the upstream result count.
func (p *Search) TotalResults() int {
	r := p.results.Result()
	if r.Data == nil {
		return 0
	}
	return r.Data.TotalResults
}

// Years returns the selectable release years, newest first.
func Years(now time.Time) []int {
	years := make([]int, YearChoices)
	for i := range years {
		years[i] = now.Year() - i
	}
	return years
}

// ResolveGenre finds a genre by name. Exact matches ignoring case win; after
// that the closest fuzzy match is used.
func ResolveGenre(list movies.GenreList, name string) (movies.Genre, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return movies.Genre{}, false
	}

	names := make([]string, len(list.Genres))
	for i, g := range list.Genres {
		if strings.EqualFold(g.Name, name) {
			return g, true
		}
		names[i] = g.Name
	}

	ranks := fuzzy.RankFindNormalizedFold(name, names)
	if len(ranks) == 0 {
		return movies.Genre{}, false
	}
	sort.Sort(ranks)
	return list.Genres[ranks[0].OriginalIndex], true
}

// QuickSearchSize is the number of results shown under the search bar.
const QuickSearchSize = 5

// QuickSearch shows the top results for the search bar.
type QuickSearch struct {
	results *query.Hook[movies.MovieList]
}

// NewQuickSearch mounts the search bar results for q.
func NewQuickSearch(s *query.Scope, q string) *QuickSearch {
	return &QuickSearch{results: movies.UseQuickSearch(s, q)}
}

// SetQuery switches to q. An empty query deactivates the page.
func (p *QuickSearch) SetQuery(q string) {
	p.results.SetKey(movies.QuickSearchKey(q))
}

func (p *QuickSearch) Render() query.State {
	return p.results.Result().State()
}

// Movies returns up to QuickSearchSize results.
func (p *QuickSearch) Movies() []movies.Movie {
	r := p.results.Result()
	if r.Data == nil {
		return nil
	}
	if len(r.Data.Results) > QuickSearchSize {
		return r.Data.Results[:QuickSearchSize]
	}
	return r.Data.Results
}
