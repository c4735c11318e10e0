package pages

import (
	"github.com/s0up4200/cinestream/movies"
	"github.com/s0up4200/cinestream/query"
)

// Tab selects the list shown on the home page.
type Tab int

const (
	TabTrending Tab = iota
	TabPopular
)

func (t Tab) String() string {
	if t == TabPopular {
		return "Popular"
	}
	return "Trending"
}

// Home shows the trending and popular lists.
type Home struct {
	Tab Tab

	trending *query.Hook[movies.MovieList]
	popular  *query.Hook[movies.MovieList]
}

// NewHome mounts both lists so switching tabs never waits.
func NewHome(s *query.Scope, tab Tab) *Home {
	return &Home{
		Tab:      tab,
		trending: movies.UseTrending(s),
		popular:  movies.UsePopular(s),
	}
}

func (h *Home) Render() query.State {
	return query.Merge(h.trending.Result().State(), h.popular.Result().State())
}

// Movies returns the list of the selected tab.
func (h *Home) Movies() []movies.Movie {
	list := h.trending.Result()
	if h.Tab == TabPopular {
		list = h.popular.Result()
	}
	if list.Data == nil {
		return nil
	}
	return list.Data.Results
}
