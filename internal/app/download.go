package app

import (
	"context"
	"errors"
	"os/signal"
	"sync/atomic"
	"syscall"

	"golang.org/x/sync/errgroup"

	"rx-solvency-snapshot/internal/edgar"
	"rx-solvency-snapshot/internal/service"
	"rx-solvency-snapshot/internal/xlsxio"
)

// Download prefetches companyfacts documents for every CIK in the input
// sheet into the local cache, so subsequent runs work offline.
func (a *App) Download(ctx context.Context, opts DownloadOptions) error {
	if a.Config.Edgar.CacheDir == "" {
		return errors.New("edgar.cache_dir must be configured for download")
	}

	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	inputPath := opts.InputPath
	if inputPath == "" {
		inputPath = a.Config.Input.Path
	}
	sheet := opts.Sheet
	if sheet == "" {
		sheet = a.Config.Input.Sheet
	}

	cases, err := xlsxio.LoadCases(inputPath, sheet, a.Logger)
	if err != nil {
		return err
	}

	ciks := uniqueCIKs(cases)
	if len(ciks) == 0 {
		a.Logger.Warn().Str("path", inputPath).Msg("no CIKs to download")
		return nil
	}

	client := a.newEdgarClient()

	workers := opts.Workers
	if workers <= 0 {
		workers = a.Config.Edgar.MaxConcurrency
	}

	var fetched, cached, notFound, failed atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, cik := range ciks {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			if !opts.Force && client.Cached(cik) {
				cached.Add(1)
				return nil
			}

			_, err := client.CompanyFacts(ctx, cik)
			switch {
			case err == nil:
				fetched.Add(1)
			case errors.Is(err, edgar.ErrNotFound):
				notFound.Add(1)
			case errors.Is(err, context.Canceled):
				return err
			default:
				failed.Add(1)
				a.Logger.Error().Err(err).Str("cik", cik).Msg("download failed")
			}
			return nil
		})
	}

	runErr := g.Wait()

	a.Logger.Info().
		Int("ciks", len(ciks)).
		Int64("fetched", fetched.Load()).
		Int64("cached", cached.Load()).
		Int64("not_found", notFound.Load()).
		Int64("failed", failed.Load()).
		Msg("download complete")

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}
	return nil
}

// uniqueCIKs deduplicates by canonical 10-digit form, preserving first-seen
// order. CIKs that fail normalization pass through unchanged so the fetch
// layer reports them.
func uniqueCIKs(cases []service.Case) []string {
	seen := make(map[string]struct{}, len(cases))
	out := make([]string, 0, len(cases))
	for _, c := range cases {
		key := c.CIK
		if cik10, err := edgar.NormalizeCIK(c.CIK); err == nil {
			key = cik10
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, c.CIK)
	}
	return out
}
