package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/s0up4200/cinestream/movies"
	"github.com/s0up4200/cinestream/pages"
	"github.com/s0up4200/cinestream/query"
)

var (
	searchGenre string
	searchYear  string
	searchSort  string
	searchPage  int
	searchQuick bool
	movieAdd    bool
)

// trendingCmd lists this week's trending movies
var trendingCmd = &cobra.Command{
	Use:   "trending",
	Short: "List trending movies",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runHome(cmd, pages.TabTrending)
	},
}

// popularCmd lists popular movies
var popularCmd = &cobra.Command{
	Use:   "popular",
	Short: "List popular movies",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runHome(cmd, pages.TabPopular)
	},
}

// movieCmd shows a movie page
var movieCmd = &cobra.Command{
	Use:   "movie <id>",
	Short: "Show a movie with its cast and player link",
	Args:  cobra.ExactArgs(1),
	RunE:  runMovie,
}

// searchCmd searches or discovers movies
var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search movies, or discover by genre, year and sort order",
	Long: `Search movies by title. Without a query, discover movies by genre, year
and sort order. --genre accepts an id or a name; names are matched loosely,
so "sci fi" finds Science Fiction.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSearch,
}

// genresCmd lists the movie genres
var genresCmd = &cobra.Command{
	Use:   "genres",
	Short: "List movie genres",
	Args:  cobra.NoArgs,
	RunE:  runGenres,
}

// playCmd prints the player link for a movie
var playCmd = &cobra.Command{
	Use:   "play <id>",
	Short: "Print the player link for a movie",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, ok := movies.ParseID(args[0])
		if !ok {
			return fmt.Errorf("invalid movie id: %s", args[0])
		}
		fmt.Fprintln(cmd.OutOrStdout(), movies.PlayerURL(id))
		return nil
	},
}

func init() {
	addFilterFlags(trendingCmd)
	addFilterFlags(popularCmd)
	addFilterFlags(searchCmd)

	searchCmd.Flags().StringVarP(&searchGenre, "genre", "g", "", "genre id or name")
	searchCmd.Flags().StringVarP(&searchYear, "year", "y", "", "release year")
	searchCmd.Flags().StringVarP(&searchSort, "sort", "s", movies.DefaultSort,
		"sort order: "+strings.Join(movies.SortOrders, ", "))
	searchCmd.Flags().IntVar(&searchPage, "page", 1, "result page")
	searchCmd.Flags().BoolVarP(&searchQuick, "quick", "q", false, "show only the top results, like the search bar")

	movieCmd.Flags().BoolVarP(&movieAdd, "add", "a", false, "add the movie to your watchlist")
}

func runHome(cmd *cobra.Command, tab pages.Tab) error {
	f, err := loadFilter()
	if err != nil {
		return err
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	scope := a.cache.Mount()
	defer scope.Unmount()

	home := pages.NewHome(scope, tab)
	genres := movies.UseGenres(scope)
	page := pages.Func(func() query.State {
		return query.Merge(home.Render(), genres.Result().State())
	})
	if err := settle(cmd.Context(), scope, page, strings.ToLower(tab.String())+" movies"); err != nil {
		return err
	}

	fmt.Fprint(cmd.OutOrStdout(), formatter.FormatMovieList(tab.String(), f.Apply(home.Movies()), genres.Result().Data))
	return nil
}

func runMovie(cmd *cobra.Command, args []string) error {
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

	fmt.Fprint(cmd.OutOrStdout(), formatter.FormatMovie(*page.Movie(), page.Cast()))

	if movieAdd {
		if err := page.AddToWatchlist(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatSuccess("Added to watchlist"))
	}
	return nil
}

func runSearch(cmd *cobra.Command, args []string) error {
	var q string
	if len(args) > 0 {
		q = args[0]
	}

	f, err := loadFilter()
	if err != nil {
		return err
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	scope := a.cache.Mount()
	defer scope.Unmount()

	if searchQuick {
		page := pages.NewQuickSearch(scope, q)
		if err := settle(cmd.Context(), scope, page, "search results"); err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), formatter.FormatMovieList("Top results", f.Apply(page.Movies()), nil))
		return nil
	}

	page := pages.NewSearch(scope, pages.SearchInput{
		Query:  q,
		Genre:  searchGenre,
		Year:   searchYear,
		SortBy: searchSort,
		Page:   searchPage,
		Filter: f,
	})
	if err := settle(cmd.Context(), scope, page, "search results"); err != nil {
		return err
	}

	heading := "Discover"
	if q != "" {
		heading = fmt.Sprintf("Results for %q", q)
	}
	list := page.Movies()
	fmt.Fprint(cmd.OutOrStdout(), formatter.FormatMovieList(heading, list, &movies.GenreList{Genres: page.Genres()}))
	if total := page.TotalResults(); total > len(list) {
		fmt.Fprintf(cmd.OutOrStdout(), "Showing %d of %d results (page %d)\n", len(list), total, searchPage)
	}
	return nil
}

func runGenres(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	scope := a.cache.Mount()
	defer scope.Unmount()

	genres := movies.UseGenres(scope)
	page := pages.Func(func() query.State { return genres.Result().State() })
	if err := settle(cmd.Context(), scope, page, "genres"); err != nil {
		return err
	}

	fmt.Fprint(cmd.OutOrStdout(), formatter.FormatGenres(genres.Result().Data.Genres))
	return nil
}
