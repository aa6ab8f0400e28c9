// Package service runs the batch snapshot pipeline: one independent
// fetch-parse-build computation per case, fanned out under a concurrency cap.
package service

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"rx-solvency-snapshot/internal/edgar"
	"rx-solvency-snapshot/internal/snapshot"
	"rx-solvency-snapshot/internal/xbrl"
)

// Case identifies one unit of work: a company and the external event date
// its snapshot is anchored to.
type Case struct {
	CIK       string
	EventDate string // ISO YYYY-MM-DD
}

// Result is the complete output record for one case. Err is reserved for
// fetch-layer failures; thin data (missing anchors, absent concepts) is a
// normal all-null outcome, never an error.
type Result struct {
	CIK        string            `json:"cik"`
	EntityName string            `json:"entity_name"`
	EventDate  string            `json:"event_date"`
	HasFacts   bool              `json:"has_companyfacts"`
	Err        string            `json:"error,omitempty"`
	Snapshot   snapshot.Snapshot `json:"snapshot"`
}

// Options tune the batch runner.
type Options struct {
	Taxonomy    string
	Concurrency int
}

// Runner fans case processing out over the fetcher and the snapshot builder.
type Runner struct {
	fetcher edgar.FactsFetcher
	builder *snapshot.Builder
	opts    Options
	logger  zerolog.Logger

	done     atomic.Int64
	ok       atomic.Int64
	notFound atomic.Int64
	failed   atomic.Int64
}

// NewRunner constructs a batch runner.
func NewRunner(fetcher edgar.FactsFetcher, builder *snapshot.Builder, opts Options, logger zerolog.Logger) *Runner {
	if opts.Taxonomy == "" {
		opts.Taxonomy = "us-gaap"
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	return &Runner{
		fetcher: fetcher,
		builder: builder,
		opts:    opts,
		logger:  logger.With().Str("component", "service").Logger(),
	}
}

// Run processes all cases and returns one result per case, in input order.
// Per-case failures land in the result's error field; only context
// cancellation aborts the batch.
func (r *Runner) Run(ctx context.Context, cases []Case) ([]Result, error) {
	results := make([]Result, len(cases))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Concurrency)

	start := time.Now()
	for i, c := range cases {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			results[i] = r.processCase(ctx, c)
			r.logProgress(len(cases), start)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}

	r.logger.Info().
		Int("cases", len(cases)).
		Int64("ok", r.ok.Load()).
		Int64("not_found", r.notFound.Load()).
		Int64("failed", r.failed.Load()).
		Dur("elapsed", time.Since(start)).
		Msg("batch complete")

	return results, nil
}

func (r *Runner) processCase(ctx context.Context, c Case) Result {
	result := Result{CIK: c.CIK, EventDate: c.EventDate}

	eventDate, err := time.Parse("2006-01-02", c.EventDate)
	if err != nil {
		r.failed.Add(1)
		result.Err = "invalid event date: " + c.EventDate
		return result
	}

	data, err := r.fetcher.CompanyFacts(ctx, c.CIK)
	if err != nil {
		if errors.Is(err, edgar.ErrNotFound) {
			r.notFound.Add(1)
			result.Err = "404 companyfacts"
		} else {
			r.failed.Add(1)
			result.Err = err.Error()
			r.logger.Error().Err(err).Str("cik", c.CIK).Msg("companyfacts fetch failed")
		}
		return result
	}

	store, err := xbrl.ParseCompanyFacts(data, r.opts.Taxonomy)
	if err != nil {
		r.failed.Add(1)
		result.Err = err.Error()
		r.logger.Error().Err(err).Str("cik", c.CIK).Msg("companyfacts parse failed")
		return result
	}

	result.HasFacts = true
	result.EntityName = store.EntityName
	result.Snapshot = r.builder.Build(store, eventDate)

	r.ok.Add(1)
	return result
}

func (r *Runner) logProgress(total int, start time.Time) {
	done := r.done.Add(1)
	if done%25 != 0 && done != int64(total) {
		return
	}
	r.logger.Info().
		Int64("done", done).
		Int("total", total).
		Int64("ok", r.ok.Load()).
		Int64("not_found", r.notFound.Load()).
		Int64("failed", r.failed.Load()).
		Dur("elapsed", time.Since(start)).
		Msg("batch progress")
}
