package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/s0up4200/cinestream/movies"
	"github.com/s0up4200/cinestream/pages"
	"github.com/s0up4200/cinestream/query"
	"github.com/s0up4200/cinestream/radarr"
)

var exportDryRun bool

// watchlistCmd shows the signed-in user's watchlist
var watchlistCmd = &cobra.Command{
	Use:   "watchlist",
	Short: "Show and manage your watchlist",
	Args:  cobra.NoArgs,
	RunE:  runWatchlistList,
}

var watchlistListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show your watchlist",
	Args:  cobra.NoArgs,
	RunE:  runWatchlistList,
}

var watchlistAddCmd = &cobra.Command{
	Use:   "add <id>",
	Short: "Add a movie to your watchlist",
	Args:  cobra.ExactArgs(1),
	RunE:  runWatchlistAdd,
}

var watchlistRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove a movie from your watchlist",
	Args:  cobra.ExactArgs(1),
	RunE:  runWatchlistRemove,
}

var watchlistExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Add your watchlist to Radarr",
	Long: `Add every movie on your watchlist to Radarr by TMDB id. Movies Radarr
already has are skipped. Use --dry-run to see what would be added.`,
	Args: cobra.NoArgs,
	RunE: runWatchlistExport,
}

func init() {
	watchlistExportCmd.Flags().BoolVarP(&exportDryRun, "dry-run", "d", false, "show what would be added without changing Radarr")

	watchlistCmd.AddCommand(watchlistListCmd)
	watchlistCmd.AddCommand(watchlistAddCmd)
	watchlistCmd.AddCommand(watchlistRemoveCmd)
	watchlistCmd.AddCommand(watchlistExportCmd)
}

func runWatchlistList(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	scope := a.cache.Mount()
	defer scope.Unmount()

	page := pages.NewProfile(scope, a.client, logger)
	if err := settle(cmd.Context(), scope, page, "watchlist"); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatUser(*page.User()))
	fmt.Fprint(cmd.OutOrStdout(), formatter.FormatWatchlist(page.Entries(), page.Movies()))
	return nil
}

func runWatchlistAdd(cmd *cobra.Command, args []string) error {
	if _, ok := movies.ParseID(args[0]); !ok {
		return fmt.Errorf("invalid movie id: %s", args[0])
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	scope := a.cache.Mount()
	defer scope.Unmount()

	page := pages.NewMovieDetail(scope, args[0], a.client, logger)
	if err := settle(cmd.Context(), scope, page, "movie"); err != nil {
		return err
	}
	if err := page.AddToWatchlist(cmd.Context()); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatSuccess(fmt.Sprintf("Added %s to your watchlist", page.Movie().Title)))
	return nil
}

func runWatchlistRemove(cmd *cobra.Command, args []string) error {
	id, ok := movies.ParseID(args[0])
	if !ok {
		return fmt.Errorf("invalid movie id: %s", args[0])
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	scope := a.cache.Mount()
	defer scope.Unmount()

	page := pages.NewProfile(scope, a.client, logger)
	if err := settle(cmd.Context(), scope, page, "watchlist"); err != nil {
		return err
	}
	if err := page.Remove(cmd.Context(), id); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatSuccess("Removed from watchlist"))
	return nil
}

func runWatchlistExport(cmd *cobra.Command, args []string) error {
	if !exportDryRun {
		if err := cfg.ValidateRadarr(); err != nil {
			return err
		}
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	scope := a.cache.Mount()
	defer scope.Unmount()

	user := movies.UseUser(scope)
	watchlist := movies.UseWatchlist(scope, user.Result())
	page := pages.Func(func() query.State {
		u := user.Result()
		watchlist.SetKey(query.Dependent(u, movies.WatchlistKey))
		return query.Merge(u.State(), watchlist.Result().State())
	})
	if err := settle(ctx, scope, page, "watchlist"); err != nil {
		return err
	}

	ids, err := watchlistMovieIDs(watchlist.Result())
	if err != nil {
		return err
	}

	// Titles are informational; a movie whose details fail is still exported by id.
	if err := pages.PrefetchMovies(ctx, a.cache, cfg.Radarr.Concurrency, ids...); err != nil {
		logger.Warn().Err(err).Msg("Failed to load some movie details")
	}

	items := make([]radarr.ExportItem, 0, len(ids))
	for _, id := range ids {
		item := radarr.ExportItem{TMDBID: id}
		if m := query.Decode[movies.Movie](a.cache.Peek(movies.MovieKeyByID(id))); m.Data != nil {
			item.Title = m.Data.Title
			item.Year = m.Data.Year()
		}
		items = append(items, item)
	}

	opts := radarr.ExportOptions{
		QualityProfileID: cfg.Radarr.QualityProfileID,
		RootFolder:       cfg.Radarr.RootFolder,
		Monitored:        cfg.Radarr.Monitored,
		Search:           cfg.Radarr.Search,
		DryRun:           exportDryRun,
		Concurrency:      cfg.Radarr.Concurrency,
	}

	var result *radarr.ExportResult
	if exportDryRun && cfg.ValidateRadarr() != nil {
		// Without Radarr nothing can be skipped; everything would be added.
		result = &radarr.ExportResult{DryRun: true, Added: items}
	} else {
		client, err := radarr.NewClient(cfg.Radarr.URL, cfg.Radarr.APIKey, logger)
		if err != nil {
			return err
		}
		result, err = client.Export(ctx, items, opts)
		if err != nil {
			return err
		}
	}

	fmt.Fprint(cmd.OutOrStdout(), radarr.NewConsoleFormatter().FormatExportResult(result))
	if len(result.Failed) > 0 {
		return fmt.Errorf("%d movies could not be added", len(result.Failed))
	}
	return nil
}

// watchlistMovieIDs returns the movie ids of a settled watchlist.
func watchlistMovieIDs(list query.Typed[[]movies.WatchlistEntry]) ([]int64, error) {
	if list.Data == nil {
		return nil, errors.New("watchlist is unavailable")
	}
	ids := make([]int64, 0, len(*list.Data))
	for _, e := range *list.Data {
		ids = append(ids, e.MovieID)
	}
	return ids, nil
}
