package app

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"rx-solvency-snapshot/internal/service"
	"rx-solvency-snapshot/internal/xlsxio"
)

// Run executes the full batch: load cases from the input sheet, build a
// snapshot per case, write the result workbook, and persist to the database
// when one is configured.
func (a *App) Run(ctx context.Context, opts RunOptions) error {
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
	outputPath := opts.OutputPath
	if outputPath == "" {
		outputPath = a.Config.Output.Path
	}

	cases, err := xlsxio.LoadCases(inputPath, sheet, a.Logger)
	if err != nil {
		return err
	}
	if len(cases) == 0 {
		a.Logger.Warn().Str("path", inputPath).Msg("input sheet has no usable cases")
		return nil
	}

	runner, err := a.newRunner(a.newEdgarClient(), opts.Concurrency)
	if err != nil {
		return err
	}

	results, err := runner.Run(ctx, cases)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	if errors.Is(err, context.Canceled) {
		a.Logger.Warn().Msg("batch interrupted; writing partial results")
	}

	if writeErr := xlsxio.WriteSnapshots(outputPath, results); writeErr != nil {
		return writeErr
	}
	a.Logger.Info().Str("path", outputPath).Int("rows", len(results)).Msg("result workbook written")

	if !opts.NoStore {
		// Persistence still runs after an interrupt so partial results land.
		if storeErr := a.persistResults(context.WithoutCancel(ctx), results); storeErr != nil {
			return storeErr
		}
	}

	return err
}

func (a *App) persistResults(ctx context.Context, results []service.Result) error {
	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	if store == nil {
		a.Logger.Warn().Msg("database.dsn not configured; persistence disabled")
		return nil
	}
	defer closeStore()

	if err := store.EnsureSchema(ctx); err != nil {
		return err
	}
	if err := store.UpsertResults(ctx, results); err != nil {
		return err
	}

	a.Logger.Info().Int("rows", len(results)).Msg("snapshots persisted")
	return nil
}
