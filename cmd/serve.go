package cmd

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/s0up4200/cinestream/server"
	"github.com/s0up4200/cinestream/session"
	"github.com/s0up4200/cinestream/store"
	"github.com/s0up4200/cinestream/tmdb"
)

// serveCmd runs the REST server
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the cinestream server",
	Long: `Run the HTTP server: the TMDB proxy under /api/tmdb, accounts and sessions,
the watchlist API, /healthz and /metrics.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := cfg.ValidateServer(); err != nil {
		return err
	}

	if err := server.InitReporting(cfg.Sentry.DSN, cfg.Sentry.Environment, version); err != nil {
		return err
	}
	defer server.FlushReporting()

	ctx := cmd.Context()

	db, err := store.Open(ctx, cfg.Database.URL, cfg.Database.MaxOpenConns, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.EnsureSchema(ctx); err != nil {
		return err
	}

	secret := cfg.Session.Secret
	if secret == "" {
		secret, err = ephemeralSecret()
		if err != nil {
			return err
		}
		logger.Warn().Msg("session.secret is not set; sessions will not survive a restart")
	}

	sessions, err := session.NewManager(secret, cfg.Session.MaxAge, cfg.Session.Secure)
	if err != nil {
		return fmt.Errorf("invalid session settings: %w", err)
	}

	upstream := tmdb.NewClient(cfg.TMDB.APIKey, logger,
		tmdb.WithBaseURL(cfg.TMDB.BaseURL),
		tmdb.WithLanguage(cfg.TMDB.Language),
		tmdb.WithTimeout(cfg.TMDB.Timeout),
	)
	if !upstream.Configured() {
		logger.Warn().Msg("TMDB API key is not configured; /api/tmdb requests will fail")
	}

	srv, err := server.New(server.Config{
		Addr:            cfg.Server.Addr,
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}, server.Deps{
		TMDB:      upstream,
		Users:     db,
		Watchlist: db,
		Sessions:  sessions,
		Health:    db,
	}, logger)
	if err != nil {
		return err
	}

	return srv.ListenAndServe(ctx)
}

func ephemeralSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate session secret: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
