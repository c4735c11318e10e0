package pages

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/s0up4200/cinestream/movies"
	"github.com/s0up4200/cinestream/query"
)

// Profile shows the signed-in user and their watchlist.
type Profile struct {
	scope     *query.Scope
	user      *query.Hook[movies.User]
	watchlist *query.Hook[[]movies.WatchlistEntry]
	details   *movies.WatchlistMovies
	writer    WatchlistWriter
	logger    zerolog.Logger
}

// NewProfile mounts the user and the queries that depend on it.
func NewProfile(s *query.Scope, writer WatchlistWriter, logger zerolog.Logger) *Profile {
	user := movies.UseUser(s)
	return &Profile{
		scope:     s,
		user:      user,
		watchlist: movies.UseWatchlist(s, user.Result()),
		details:   movies.NewWatchlistMovies(s),
		writer:    writer,
		logger:    logger.With().Str("component", "pages").Str("page", "profile").Logger(),
	}
}

// Render reports ErrSignInRequired when there is no session.
func (p *Profile) Render() query.State {
	u := p.user.Result()
	if u.Err != nil && isUnauthorized(u.Err) {
		return query.State{Err: signInError(u.Err)}
	}

	p.watchlist.SetKey(query.Dependent(u, movies.WatchlistKey))
	wl := p.watchlist.Result()
	p.details.Update(wl)

	return query.Merge(u.State(), wl.State(), p.details.State())
}

// User returns the signed-in user or nil.
func (p *Profile) User() *movies.User {
	return p.user.Result().Data
}

// Entries returns the watchlist rows in the order they were added.
func (p *Profile) Entries() []movies.WatchlistEntry {
	wl := p.watchlist.Result()
	if wl.Data == nil {
		return nil
	}
	return *wl.Data
}

// Movies returns the watchlist movies whose details have loaded.
func (p *Profile) Movies() []movies.Movie {
	return p.details.Movies()
}

// Remove deletes movieID from the watchlist and refetches it once the server
// confirms.
func (p *Profile) Remove(ctx context.Context, movieID int64) error {
	if err := p.writer.RemoveFromWatchlist(ctx, movieID); err != nil {
		p.logger.Error().Err(err).Int64("movieId", movieID).Msg("Failed to remove from watchlist")
		return fmt.Errorf("remove movie %d from watchlist: %w", movieID, signInError(err))
	}

	p.scope.Cache().Invalidate(query.Key(movies.PathWatchlist))
	p.logger.Info().Int64("movieId", movieID).Msg("Removed from watchlist")
	return nil
}
