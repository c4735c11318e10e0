package movies

import "github.com/s0up4200/cinestream/query"

// UseTrending subscribes to the weekly trending list.
func UseTrending(s *query.Scope) *query.Hook[MovieList] {
	return query.NewHook[MovieList](s, TrendingKey())
}

// UsePopular subscribes to the popular list.
func UsePopular(s *query.Scope) *query.Hook[MovieList] {
	return query.NewHook[MovieList](s, PopularKey())
}

// UseMovie subscribes to one movie. Invalid ids give an inactive hook.
func UseMovie(s *query.Scope, id string) *query.Hook[Movie] {
	return query.NewHook[Movie](s, MovieKey(id))
}

// UseCredits subscribes to the credits of movie once it has resolved. Call
// SetKey(query.Dependent(movie, CreditsKey)) on later renders.
func UseCredits(s *query.Scope, movie query.Typed[Movie]) *query.Hook[Credits] {
	return query.NewHook[Credits](s, query.Dependent(movie, CreditsKey))
}

// UseSearch subscribes to search or discover results for req.
func UseSearch(s *query.Scope, req SearchRequest) *query.Hook[MovieList] {
	return query.NewHook[MovieList](s, req.Key())
}

// UseQuickSearch subscribes to the search bar results for q.
func UseQuickSearch(s *query.Scope, q string) *query.Hook[MovieList] {
	return query.NewHook[MovieList](s, QuickSearchKey(q))
}

// UseGenres subscribes to the genre list.
func UseGenres(s *query.Scope) *query.Hook[GenreList] {
	return query.NewHook[GenreList](s, GenresKey())
}

// UseUser subscribes to the signed-in user.
func UseUser(s *query.Scope) *query.Hook[User] {
	return query.NewHook[User](s, UserKey())
}

// UseWatchlist subscribes to the watchlist of user once it has resolved.
func UseWatchlist(s *query.Scope, user query.Typed[User]) *query.Hook[[]WatchlistEntry] {
	return query.NewHook[[]WatchlistEntry](s, query.Dependent(user, WatchlistKey))
}

// WatchlistMovies keeps one detail hook per watchlist entry.
type WatchlistMovies struct {
	scope *query.Scope
	order []int64
	hooks map[int64]*query.Hook[Movie]
}

// NewWatchlistMovies creates an empty set of detail hooks on s.
func NewWatchlistMovies(s *query.Scope) *WatchlistMovies {
	return &WatchlistMovies{
		scope: s,
		hooks: make(map[int64]*query.Hook[Movie]),
	}
}

// Update reconciles the hooks with the current watchlist result. Entries that
// left the watchlist release their hook; new entries subscribe. While the
// watchlist has no data nothing is subscribed.
func (w *WatchlistMovies) Update(list query.Typed[[]WatchlistEntry]) {
	var entries []WatchlistEntry
	if list.Data != nil {
		entries = *list.Data
	}

	keep := make(map[int64]struct{}, len(entries))
	order := make([]int64, 0, len(entries))
	for _, e := range entries {
		if _, dup := keep[e.MovieID]; dup {
			continue
		}
		keep[e.MovieID] = struct{}{}
		order = append(order, e.MovieID)
		if _, ok := w.hooks[e.MovieID]; !ok {
			w.hooks[e.MovieID] = query.NewHook[Movie](w.scope, MovieKeyByID(e.MovieID))
		}
	}

	for id, h := range w.hooks {
		if _, ok := keep[id]; !ok {
			h.Release()
			delete(w.hooks, id)
		}
	}
	w.order = order
}

// Results returns the detail results in watchlist order.
func (w *WatchlistMovies) Results() []query.Typed[Movie] {
	results := make([]query.Typed[Movie], 0, len(w.order))
	for _, id := range w.order {
		results = append(results, w.hooks[id].Result())
	}
	return results
}

// State merges the detail results.
func (w *WatchlistMovies) State() query.State {
	results := w.Results()
	states := make([]query.State, 0, len(results))
	for _, r := range results {
		states = append(states, r.State())
	}
	return query.Merge(states...)
}

// Movies returns the resolved movies in watchlist order.
func (w *WatchlistMovies) Movies() []Movie {
	var out []Movie
	for _, r := range w.Results() {
		if r.Data != nil {
			out = append(out, *r.Data)
		}
	}
	return out
}
