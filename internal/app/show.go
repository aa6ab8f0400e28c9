package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"rx-solvency-snapshot/internal/storage"
)

// Show prints stored snapshots, either the most recent across all companies
// or the full event history of one CIK.
func (a *App) Show(ctx context.Context, opts ShowOptions) error {
	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	if store == nil {
		return errors.New("database not configured; cannot show snapshots")
	}
	defer closeStore()

	var records []storage.SnapshotRecord
	if opts.CIK != "" {
		records, err = store.ListByCIK(ctx, opts.CIK)
	} else {
		records, err = store.ListRecent(ctx, opts.Limit)
	}
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Fprintln(os.Stdout, "no snapshots found")
		return nil
	}

	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "CIK\tEvent\tEntity\tFacts\tQ End\tQ Cov\tA End\tA Cov\tA CurRatio\tA D/A\tError")

	for _, rec := range records {
		fmt.Fprintf(
			writer,
			"%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			rec.CIK,
			rec.EventDate,
			rec.EntityName,
			yesNo(rec.HasFacts),
			orDash(rec.QuarterlyEnd),
			coverageText(rec.QuarterlyCoverage),
			orDash(rec.AnnualEnd),
			coverageText(rec.AnnualCoverage),
			ratioText(rec.AnnualRatios.CurrentRatio),
			ratioText(rec.AnnualRatios.DebtToAssets),
			errorText(rec.Error),
		)
	}

	return writer.Flush()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func orDash(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

func coverageText(n *int) string {
	if n == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *n)
}

func ratioText(d *decimal.Decimal) string {
	if d == nil {
		return "-"
	}
	return d.StringFixed(3)
}

func errorText(msg *string) string {
	if msg == nil {
		return ""
	}
	cleaned := strings.ReplaceAll(*msg, "\n", " ")
	return strings.ReplaceAll(cleaned, "\r", " ")
}
