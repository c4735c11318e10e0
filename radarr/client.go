// Package radarr exports watchlist movies to a Radarr instance.
package radarr

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golift.io/starr"
	"golift.io/starr/radarr"
)

// DefaultTimeout applies to every Radarr request.
const DefaultTimeout = 30 * time.Second

// Client wraps the starr Radarr client
type Client struct {
	api    API
	logger zerolog.Logger
}

// NewClient creates a new Radarr client and checks the connection
func NewClient(url, apiKey string, logger zerolog.Logger) (*Client, error) {
	config := starr.New(apiKey, url, DefaultTimeout)
	radarrClient := radarr.New(config)

	if err := radarrClient.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to Radarr: %w", err)
	}

	return NewClientWithAPI(radarrClient, logger), nil
}

// NewClientWithAPI creates a client over an existing API implementation
func NewClientWithAPI(api API, logger zerolog.Logger) *Client {
	return &Client{
		api:    api,
		logger: logger.With().Str("component", "radarr").Logger(),
	}
}

// ExistingTMDBIDs returns the TMDB ids of every movie already in Radarr
func (c *Client) ExistingTMDBIDs(ctx context.Context) (map[int64]struct{}, error) {
	movies, err := c.api.GetMovieContext(ctx, &radarr.GetMovie{})
	if err != nil {
		return nil, fmt.Errorf("failed to get movies: %w", err)
	}

	ids := make(map[int64]struct{}, len(movies))
	for _, m := range movies {
		ids[m.TmdbID] = struct{}{}
	}

	c.logger.Debug().Msgf("Retrieved %d movies from Radarr", len(movies))
	return ids, nil
}

// AddMovie adds one movie by TMDB id
func (c *Client) AddMovie(ctx context.Context, item ExportItem, opts ExportOptions) error {
	input := &radarr.AddMovieInput{
		Title:            item.Title,
		TmdbID:           item.TMDBID,
		Year:             item.Year,
		QualityProfileID: opts.QualityProfileID,
		RootFolderPath:   opts.RootFolder,
		Monitored:        opts.Monitored,
		AddOptions: &radarr.AddMovieOptions{
			SearchForMovie: opts.Search,
		},
	}

	if _, err := c.api.AddMovieContext(ctx, input); err != nil {
		return fmt.Errorf("failed to add %s (tmdb %d): %w", item.Title, item.TMDBID, err)
	}

	c.logger.Info().
		Int64("tmdb_id", item.TMDBID).
		Str("title", item.Title).
		Msg("Added movie to Radarr")
	return nil
}
