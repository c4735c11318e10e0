package radarr

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds the number of concurrent add requests.
const DefaultConcurrency = 4

var (
	ErrMissingRootFolder     = errors.New("radarr root folder is required")
	ErrMissingQualityProfile = errors.New("radarr quality profile id is required")
)

// ExportItem is one movie to add
type ExportItem struct {
	TMDBID int64
	Title  string
	Year   int
}

// ExportOptions controls how movies are added
type ExportOptions struct {
	QualityProfileID int64
	RootFolder       string
	Monitored        bool
	Search           bool
	DryRun           bool
	Concurrency      int
}

// ExportFailure is a movie that could not be added
type ExportFailure struct {
	Item ExportItem
	Err  error
}

// ExportResult reports the outcome per movie, in input order
type ExportResult struct {
	Added   []ExportItem
	Skipped []ExportItem
	Failed  []ExportFailure
	DryRun  bool
}

func (o ExportOptions) validate() error {
	if o.DryRun {
		return nil
	}
	if o.RootFolder == "" {
		return ErrMissingRootFolder
	}
	if o.QualityProfileID <= 0 {
		return ErrMissingQualityProfile
	}
	return nil
}

// Export adds items that Radarr does not have yet. A failed add does not stop
// the others; it is reported in the result. In dry-run mode nothing is added
// and Added lists what would be.
func (c *Client) Export(ctx context.Context, items []ExportItem, opts ExportOptions) (*ExportResult, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	existing, err := c.ExistingTMDBIDs(ctx)
	if err != nil {
		return nil, err
	}

	result := &ExportResult{DryRun: opts.DryRun}
	var pending []ExportItem
	seen := make(map[int64]struct{}, len(items))
	for _, item := range items {
		if _, dup := seen[item.TMDBID]; dup {
			continue
		}
		seen[item.TMDBID] = struct{}{}

		if _, ok := existing[item.TMDBID]; ok {
			result.Skipped = append(result.Skipped, item)
			continue
		}
		pending = append(pending, item)
	}

	if opts.DryRun {
		result.Added = pending
		return result, nil
	}

	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	errs := make([]error, len(pending))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, item := range pending {
		g.Go(func() error {
			err := c.AddMovie(gctx, item, opts)
			if err != nil {
				c.logger.Warn().Err(err).Int64("tmdb_id", item.TMDBID).Msg("Failed to add movie")
			}
			errs[i] = err
			return nil
		})
	}
	_ = g.Wait()

	for i, item := range pending {
		if errs[i] != nil {
			result.Failed = append(result.Failed, ExportFailure{Item: item, Err: errs[i]})
			continue
		}
		result.Added = append(result.Added, item)
	}

	if err := ctx.Err(); err != nil {
		return result, err
	}
	return result, nil
}
