package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/s0up4200/cinestream/config"
	"github.com/s0up4200/cinestream/filter"
	"github.com/s0up4200/cinestream/pages"
	"github.com/s0up4200/cinestream/query"
	"github.com/s0up4200/cinestream/render"
)

var (
	cfgFile   string
	cfg       *config.Config
	logger    zerolog.Logger
	formatter *render.ConsoleFormatter
	compiler  *filter.Compiler

	version   = "dev"
	buildTime = "unknown"

	// Command flags
	filterExpr string
	preset     string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "cinestream",
	Short: "Discover movies, keep a watchlist and serve the cinestream API",
	Long: `cinestream lists trending and popular movies, searches and filters the
TMDB catalogue, shows movie pages with cast and a player link, and keeps a
per-user watchlist. The same binary runs the server (cinestream serve).`,
	PersistentPreRunE: initializeApp,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

// SetVersion records the build metadata injected by the linker.
func SetVersion(v, built string) {
	version = v
	buildTime = built
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, describeError(err))
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(trendingCmd)
	rootCmd.AddCommand(popularCmd)
	rootCmd.AddCommand(movieCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(genresCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(watchlistCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(testCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(versionCmd)
}

// initializeApp loads the configuration and sets up logging and output
func initializeApp(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	color := cfg.Logging.Color && isTerminal(os.Stderr)
	logger = setupLogger(cfg.Logging, color)
	formatter = render.NewConsoleFormatter(cfg.Logging.Color && isTerminal(os.Stdout))
	compiler = filter.NewCompiler(cfg.Filter.CacheSize)

	return nil
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig, color bool) zerolog.Logger {
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !color,
	}

	return zerolog.New(output).With().Timestamp().Logger()
}

func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "filter expression")
	cmd.Flags().StringVarP(&preset, "preset", "p", "", "use a preset filter from config")
}

// loadFilter compiles the --filter or --preset expression. No expression
// yields a nil filter, which matches every movie.
func loadFilter() (*filter.Filter, error) {
	expression, err := filter.Resolve(filterExpr, preset, cfg.Filter.Presets)
	if err != nil {
		return nil, err
	}
	if expression == "" {
		return nil, nil
	}

	f, err := compiler.Compile(expression)
	if err != nil {
		return nil, fmt.Errorf("invalid filter expression: %w", err)
	}
	logger.Debug().Str("filter", expression).Msg("Using filter")
	return f, nil
}

// settle waits for p with the client timeout and turns a failed page into an
// error naming what failed to load.
func settle(ctx context.Context, scope *query.Scope, p pages.Page, what string) error {
	ctx, cancel := context.WithTimeout(ctx, cfg.Client.Timeout)
	defer cancel()

	st, err := pages.Settle(ctx, scope, p)
	if err != nil {
		return fmt.Errorf("timed out loading %s: %w", what, err)
	}
	if st.Err != nil {
		return &loadError{what: what, err: st.Err}
	}
	return nil
}

type loadError struct {
	what string
	err  error
}

func (e *loadError) Error() string {
	return formatter.FormatState(query.State{Err: e.err}, e.what)
}

func (e *loadError) Unwrap() error {
	return e.err
}

func describeError(err error) string {
	if errors.Is(err, pages.ErrSignInRequired) {
		return "Not signed in. Run `cinestream login` first."
	}
	return err.Error()
}
