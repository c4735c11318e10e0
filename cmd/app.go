package cmd

import (
	"fmt"

	"github.com/s0up4200/cinestream/api"
	"github.com/s0up4200/cinestream/query"
)

// app holds the client side of a command: the API client, its persisted
// session and the resource cache pages mount on.
type app struct {
	client   *api.Client
	sessions *api.SessionStore
	cache    *query.Cache
}

func newApp() (*app, error) {
	sessions, err := api.OpenSessionStore(cfg.Client.StateDir, cfg.Client.ServerURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}

	client, err := api.NewClient(cfg.Client.ServerURL, logger,
		api.WithTimeout(cfg.Client.Timeout),
		api.WithSessionStore(sessions),
	)
	if err != nil {
		sessions.Close()
		return nil, err
	}

	cc := cfg.Client.Cache
	cache := query.New(client,
		query.WithLogger(logger),
		query.WithMaxIdle(cc.MaxIdle),
		query.WithFetchTimeout(cc.FetchTimeout),
		query.WithRetryOnError(cc.RetryOnError),
		query.WithErrorRetry(cc.ErrorRetryCount, cc.ErrorRetryInterval),
		query.WithRevalidateOnFocus(cc.RevalidateOnFocus),
	)

	return &app{client: client, sessions: sessions, cache: cache}, nil
}

func (a *app) Close() {
	a.cache.Close()
	if err := a.sessions.Close(); err != nil {
		logger.Warn().Err(err).Msg("Failed to close session store")
	}
}
