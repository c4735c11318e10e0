package radarr

import (
	"context"

	"golift.io/starr/radarr"
)

// API is the part of the Radarr API the exporter uses
type API interface {
	GetMovieContext(ctx context.Context, params *radarr.GetMovie) ([]*radarr.Movie, error)
	AddMovieContext(ctx context.Context, movie *radarr.AddMovieInput) (*radarr.Movie, error)
	Ping() error
}
