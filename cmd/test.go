package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/s0up4200/cinestream/movies"
	"github.com/s0up4200/cinestream/query"
	"github.com/s0up4200/cinestream/radarr"
)

// testCmd checks the configured connections
var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Test the connection to the cinestream server and Radarr",
	Long: `Check that the cinestream server is reachable and healthy, that it can
reach TMDB, and, when Radarr is configured, that Radarr answers.`,
	Args: cobra.NoArgs,
	RunE: runTest,
}

func runTest(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Client.Timeout)
	defer cancel()

	fmt.Fprintf(out, "Testing connection to cinestream at %s...\n", cfg.Client.ServerURL)
	if err := a.client.Health(ctx); err != nil {
		return fmt.Errorf("server health check failed: %w", err)
	}
	fmt.Fprintln(out, "✓ Server is healthy")

	body, err := a.cache.Fetch(ctx, movies.GenresKey())
	if err != nil {
		return fmt.Errorf("TMDB proxy check failed: %w", err)
	}
	genres := query.Decode[movies.GenreList](query.Result{Data: body})
	if genres.Err != nil {
		return fmt.Errorf("TMDB proxy returned an unexpected body: %w", genres.Err)
	}
	fmt.Fprintf(out, "✓ TMDB reachable (%d genres)\n", len(genres.Data.Genres))

	fmt.Fprintf(out, "- Signed in: %s\n", boolToStatus(a.client.SignedIn()))

	if cfg.ValidateRadarr() != nil {
		fmt.Fprintln(out, "\nRadarr integration: Disabled")
		return nil
	}

	fmt.Fprintf(out, "\nTesting connection to Radarr at %s...\n", cfg.Radarr.URL)
	client, err := radarr.NewClient(cfg.Radarr.URL, cfg.Radarr.APIKey, logger)
	if err != nil {
		return err
	}
	existing, err := client.ExistingTMDBIDs(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, "✓ Connection successful!")
	fmt.Fprintf(out, "- Total movies: %d\n", len(existing))
	return nil
}

func boolToStatus(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
