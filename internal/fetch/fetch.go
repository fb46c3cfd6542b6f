// Package fetch aggregates raw postings from multiple job boards. Sources
// run in parallel; a failing source is reported and skipped, it never takes
// the run down with it.
package fetch

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jobradar/jobradar/internal/job"
)

// Query narrows what the sources look for.
type Query struct {
	Search   string
	Location string
}

// Source fetches source-native postings for one job board.
type Source interface {
	Name() string
	Fetch(ctx context.Context, query Query) ([]job.RawPosting, error)
}

// Progress is invoked once per source as it completes, successful or not.
type Progress func(source string, count int, err error)

// Fetcher runs all configured sources for one query.
type Fetcher struct {
	sources []Source
	logger  *zap.Logger
}

func New(logger *zap.Logger, sources ...Source) *Fetcher {
	return &Fetcher{sources: sources, logger: logger}
}

// FetchAll collects postings from every source in parallel. Per-source
// failures are logged and surfaced through the progress callback; the
// combined batch contains whatever the healthy sources returned.
func (f *Fetcher) FetchAll(ctx context.Context, query Query, progress Progress) []job.RawPosting {
	var (
		mu      sync.Mutex
		results []job.RawPosting
	)

	g, ctx := errgroup.WithContext(ctx)

	for _, source := range f.sources {
		g.Go(func() error {
			postings, err := source.Fetch(ctx, query)
			if err != nil {
				if f.logger != nil {
					f.logger.Warn("source fetch failed",
						zap.String("source", source.Name()),
						zap.Error(err),
					)
				}
				if progress != nil {
					progress(source.Name(), 0, err)
				}
				return nil
			}

			mu.Lock()
			results = append(results, postings...)
			mu.Unlock()

			if f.logger != nil {
				f.logger.Info("source fetch completed",
					zap.String("source", source.Name()),
					zap.Int("count", len(postings)),
				)
			}
			if progress != nil {
				progress(source.Name(), len(postings), nil)
			}
			return nil
		})
	}

	// Source errors are swallowed above; Wait only synchronizes.
	g.Wait()

	return results
}
