package radarr

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golift.io/starr/radarr"
)

// mockRadarrAPI implements API for testing
type mockRadarrAPI struct {
	mu      sync.Mutex
	movies  []*radarr.Movie
	failFor map[int64]error
	getErr  error

	added []*radarr.AddMovieInput
}

func (m *mockRadarrAPI) GetMovieContext(ctx context.Context, params *radarr.GetMovie) ([]*radarr.Movie, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.movies, nil
}

func (m *mockRadarrAPI) AddMovieContext(ctx context.Context, movie *radarr.AddMovieInput) (*radarr.Movie, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err, ok := m.failFor[movie.TmdbID]; ok {
		return nil, err
	}
	m.added = append(m.added, movie)
	return &radarr.Movie{TmdbID: movie.TmdbID, Title: movie.Title}, nil
}

func (m *mockRadarrAPI) Ping() error {
	return nil
}

func (m *mockRadarrAPI) addedIDs() []int64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := make([]int64, 0, len(m.added))
	for _, in := range m.added {
		ids = append(ids, in.TmdbID)
	}
	return ids
}

var exportOpts = ExportOptions{
	QualityProfileID: 1,
	RootFolder:       "/movies",
	Monitored:        true,
	Search:           true,
}

func TestExport(t *testing.T) {
	api := &mockRadarrAPI{
		movies:  []*radarr.Movie{{TmdbID: 550, Title: "Fight Club"}},
		failFor: map[int64]error{13: errors.New("boom")},
	}
	client := NewClientWithAPI(api, zerolog.Nop())

	items := []ExportItem{
		{TMDBID: 550, Title: "Fight Club"},
		{TMDBID: 603, Title: "The Matrix", Year: 1999},
		{TMDBID: 13, Title: "Forrest Gump"},
		{TMDBID: 603, Title: "The Matrix", Year: 1999},
	}

	result, err := client.Export(context.Background(), items, exportOpts)
	require.NoError(t, err)

	assert.Equal(t, []ExportItem{{TMDBID: 550, Title: "Fight Club"}}, result.Skipped)
	assert.Equal(t, []ExportItem{{TMDBID: 603, Title: "The Matrix", Year: 1999}}, result.Added)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, int64(13), result.Failed[0].Item.TMDBID)

	assert.ElementsMatch(t, []int64{603}, api.addedIDs())
	in := api.added[0]
	assert.Equal(t, "/movies", in.RootFolderPath)
	assert.Equal(t, int64(1), in.QualityProfileID)
	assert.True(t, in.Monitored)
	assert.True(t, in.AddOptions.SearchForMovie)
}

func TestExport_DryRun(t *testing.T) {
	api := &mockRadarrAPI{movies: []*radarr.Movie{{TmdbID: 550}}}
	client := NewClientWithAPI(api, zerolog.Nop())

	result, err := client.Export(context.Background(), []ExportItem{{TMDBID: 550}, {TMDBID: 603}}, ExportOptions{DryRun: true})
	require.NoError(t, err)

	assert.True(t, result.DryRun)
	assert.Equal(t, []ExportItem{{TMDBID: 603}}, result.Added)
	assert.Empty(t, api.addedIDs())
}

func TestExport_Validation(t *testing.T) {
	client := NewClientWithAPI(&mockRadarrAPI{}, zerolog.Nop())

	_, err := client.Export(context.Background(), nil, ExportOptions{QualityProfileID: 1})
	assert.ErrorIs(t, err, ErrMissingRootFolder)

	_, err = client.Export(context.Background(), nil, ExportOptions{RootFolder: "/movies"})
	assert.ErrorIs(t, err, ErrMissingQualityProfile)
}

func TestExport_ListFailure(t *testing.T) {
	client := NewClientWithAPI(&mockRadarrAPI{getErr: errors.New("unreachable")}, zerolog.Nop())

	_, err := client.Export(context.Background(), []ExportItem{{TMDBID: 1}}, exportOpts)
	assert.ErrorContains(t, err, "failed to get movies")
}

func TestFormatExportResult(t *testing.T) {
	f := NewConsoleFormatter()

	assert.Equal(t, "Nothing to export", f.FormatExportResult(&ExportResult{}))

	out := f.FormatExportResult(&ExportResult{
		Added:   []ExportItem{{TMDBID: 603, Title: "The Matrix", Year: 1999}},
		Skipped: []ExportItem{{TMDBID: 550}},
		Failed:  []ExportFailure{{Item: ExportItem{TMDBID: 13, Title: "Forrest Gump"}, Err: errors.New("boom")}},
	})
	assert.Contains(t, out, "Added to Radarr (1):")
	assert.Contains(t, out, "The Matrix (1999)")
	assert.Contains(t, out, "TMDB 550")
	assert.Contains(t, out, "Error: boom")
	assert.Contains(t, out, "Summary: 1 added, 1 skipped, 1 failed")

	dry := f.FormatExportResult(&ExportResult{DryRun: true, Added: []ExportItem{{TMDBID: 1}}})
	assert.Contains(t, dry, "Would add to Radarr (1):")
}
