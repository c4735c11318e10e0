// Package query implements the client-side data-fetching layer used by the
// cinestream pages.
//
// A page mounts a Scope on a shared Cache and declares the resources it needs
// as Keys. The Cache deduplicates fetches per key, keeps the last known data
// and error for every key, and notifies the scopes that observe a key when its
// entry changes. Pages read tri-state Results and merge them with Merge.
//
// # Keys
//
// A Key identifies a fetchable resource. The zero Key (NoKey) means "do not
// fetch": it never produces network activity and always reads as the inactive
// result. Hooks compute keys from their inputs on every render, so a hook that
// is missing an input simply returns NoKey.
//
// # Dependent queries
//
// Dependent computes a key from the resolved data of another query. While the
// parent has no data the dependent key is NoKey, so the dependent fetch is
// never issued before its parent resolved.
//
// # Usage
//
//	cache := query.New(fetcher, query.WithLogger(logger))
//	defer cache.Close()
//
//	scope := cache.Mount()
//	defer scope.Unmount()
//
//	movie := query.NewHook[Movie](scope, query.NewKey("/api/tmdb/movie/550", nil))
//	credits := query.NewHook[Credits](scope, query.NoKey)
//
//	state, err := scope.Wait(ctx, func() query.State {
//		m := movie.Result()
//		credits.SetKey(query.Dependent(m, creditsKey))
//		return query.Merge(m.State(), credits.Result().State())
//	})
package query
