package pages

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/s0up4200/cinestream/movies"
	"github.com/s0up4200/cinestream/query"
)

// CastSize is the number of cast members shown on a movie page.
const CastSize = 5

// ErrMovieNotLoaded is returned by actions on a movie page that has no movie.
var ErrMovieNotLoaded = errors.New("movie not loaded")

// MovieDetail shows one movie with its cast and player.
type MovieDetail struct {
	scope   *query.Scope
	movie   *query.Hook[movies.Movie]
	credits *query.Hook[movies.Credits]
	writer  WatchlistWriter
	logger  zerolog.Logger
}

// NewMovieDetail mounts the movie with the given route id. A malformed id
// leaves the page inactive.
func NewMovieDetail(s *query.Scope, id string, writer WatchlistWriter, logger zerolog.Logger) *MovieDetail {
	movie := movies.UseMovie(s, id)
	return &MovieDetail{
		scope:   s,
		movie:   movie,
		credits: movies.UseCredits(s, movie.Result()),
		writer:  writer,
		logger:  logger.With().Str("component", "pages").Str("page", "movie").Logger(),
	}
}

func (p *MovieDetail) Render() query.State {
	m := p.movie.Result()
	p.credits.SetKey(query.Dependent(m, movies.CreditsKey))
	return query.Merge(m.State(), p.credits.Result().State())
}

// Active reports whether the route id was valid.
func (p *MovieDetail) Active() bool {
	return !p.movie.Key().IsNull()
}

// Movie returns the loaded movie or nil.
func (p *MovieDetail) Movie() *movies.Movie {
	return p.movie.Result().Data
}

// Cast returns the top billed cast.
func (p *MovieDetail) Cast() []movies.CastMember {
	c := p.credits.Result()
	if c.Data == nil {
		return nil
	}
	return c.Data.TopCast(CastSize)
}

// PlayerURL returns the player embed for the movie, or "" before it loads.
func (p *MovieDetail) PlayerURL() string {
	m := p.Movie()
	if m == nil {
		return ""
	}
	return movies.PlayerURL(m.ID)
}

// AddToWatchlist adds the movie for the signed-in user. The watchlist is
// refetched only after the server confirms the write.
func (p *MovieDetail) AddToWatchlist(ctx context.Context) error {
	m := p.Movie()
	if m == nil {
		return ErrMovieNotLoaded
	}

	if err := p.writer.AddToWatchlist(ctx, m.ID); err != nil {
		p.logger.Error().Err(err).Int64("movieId", m.ID).Msg("Failed to add to watchlist")
		return fmt.Errorf("add movie %d to watchlist: %w", m.ID, signInError(err))
	}

	p.scope.Cache().Invalidate(query.Key(movies.PathWatchlist))
	p.logger.Info().Int64("movieId", m.ID).Str("title", m.Title).Msg("Added to watchlist")
	return nil
}
