// Package pages composes query hooks into the views the CLI renders.
//
// A page is created against a mounted scope, settled with Settle and then read
// through its accessors. Every page reports one merged state: loading while
// any of its queries is loading, and the first error of its queries in the
// order the page lists them.
package pages

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/s0up4200/cinestream/movies"
	"github.com/s0up4200/cinestream/query"
)

// ErrSignInRequired is reported by pages and actions that need a user.
var ErrSignInRequired = errors.New("sign in required")

// Page is a view over one or more queries.
type Page interface {
	// Render recomputes dependent keys from the current results and returns
	// the merged state.
	Render() query.State
}

// Settle renders p until its merged state is no longer loading.
func Settle(ctx context.Context, scope *query.Scope, p Page) (query.State, error) {
	return scope.Wait(ctx, p.Render)
}

// WatchlistWriter performs the watchlist mutations.
type WatchlistWriter interface {
	AddToWatchlist(ctx context.Context, movieID int64) error
	RemoveFromWatchlist(ctx context.Context, movieID int64) error
}

type unauthorized interface {
	IsUnauthorized() bool
}

func isUnauthorized(err error) bool {
	var u unauthorized
	return errors.As(err, &u) && u.IsUnauthorized()
}

// signInError maps an authorization failure to ErrSignInRequired.
func signInError(err error) error {
	if isUnauthorized(err) {
		return errors.Join(ErrSignInRequired, err)
	}
	return err
}

// Prefetch loads keys into the cache concurrently, at most limit at a time.
// Null keys are skipped.
func Prefetch(ctx context.Context, cache *query.Cache, limit int, keys ...query.Key) error {
	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for _, key := range keys {
		if key.IsNull() {
			continue
		}
		g.Go(func() error {
			_, err := cache.Fetch(ctx, key)
			return err
		})
	}
	return g.Wait()
}

// PrefetchMovies loads the detail of every movie id.
func PrefetchMovies(ctx context.Context, cache *query.Cache, limit int, ids ...int64) error {
	keys := make([]query.Key, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, movies.MovieKeyByID(id))
	}
	return Prefetch(ctx, cache, limit, keys...)
}

// Func adapts a render function to the Page interface.
type Func func() query.State

// Render calls f.
func (f Func) Render() query.State {
	return f()
}
