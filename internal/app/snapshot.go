package app

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"rx-solvency-snapshot/internal/service"
)

// Snapshot computes one case and prints the full result as indented JSON.
func (a *App) Snapshot(ctx context.Context, opts SnapshotOptions) error {
	runner, err := a.newRunner(a.newEdgarClient(), 1)
	if err != nil {
		return err
	}

	results, err := runner.Run(ctx, []service.Case{{CIK: opts.CIK, EventDate: opts.EventDate}})
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(results[0], "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, string(out))
	return nil
}
