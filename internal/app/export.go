package app

import (
	"context"
	"encoding/csv"
	"errors"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
	chart "github.com/wcharczuk/go-chart/v2"

	"rx-solvency-snapshot/internal/storage"
)

// Export renders one company's ratio history as CSV and/or PNG.
func (a *App) Export(ctx context.Context, opts ExportOptions) error {
	if opts.CSVPath == "" && opts.PNGPath == "" {
		return errors.New("at least one of --csv or --png must be provided")
	}

	opts.MaxPoints = a.Config.ResolveMaxPoints(opts.MaxPoints)

	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	if store == nil {
		return errors.New("database not configured; cannot export")
	}
	defer closeStore()

	records, err := store.ListByCIK(ctx, opts.CIK)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		a.Logger.Info().Str("cik", opts.CIK).Msg("no snapshots found for export")
		return nil
	}

	downsampled := downsampleRecords(records, opts.MaxPoints)
	a.Logger.Info().Int("total", len(records)).Int("exported", len(downsampled)).Msg("exporting snapshots")

	if opts.CSVPath != "" {
		if err := writeRatiosCSV(opts.CSVPath, downsampled); err != nil {
			return err
		}
	}

	if opts.PNGPath != "" {
		if err := writeRatiosPNG(opts.PNGPath, downsampled); err != nil {
			return err
		}
	}

	return nil
}

func downsampleRecords(records []storage.SnapshotRecord, max int) []storage.SnapshotRecord {
	if max <= 0 || len(records) <= max {
		return records
	}

	result := make([]storage.SnapshotRecord, 0, max)
	step := float64(len(records)-1) / float64(max-1)
	for i := 0; i < max; i++ {
		idx := int(math.Round(step * float64(i)))
		if idx >= len(records) {
			idx = len(records) - 1
		}
		result = append(result, records[idx])
	}
	return result
}

func writeRatiosCSV(path string, records []storage.SnapshotRecord) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{
		"event_date", "entity_name", "has_companyfacts",
		"q_report_end", "q_cash_to_liab", "q_current_ratio", "q_quick_ratio",
		"q_debt_to_assets", "q_interest_coverage", "q_ocf_to_debt",
		"a_report_end", "a_cash_to_liab", "a_current_ratio", "a_quick_ratio",
		"a_debt_to_assets", "a_interest_coverage", "a_ocf_to_debt",
	}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, rec := range records {
		record := []string{
			rec.EventDate,
			rec.EntityName,
			yesNo(rec.HasFacts),
			emptyIfNil(rec.QuarterlyEnd),
		}
		record = append(record, ratioCSVFields(rec.QuarterlyRatios)...)
		record = append(record, emptyIfNil(rec.AnnualEnd))
		record = append(record, ratioCSVFields(rec.AnnualRatios)...)
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	return writer.Error()
}

func ratioCSVFields(r storage.RatioColumns) []string {
	fields := make([]string, 0, 6)
	for _, d := range []*decimal.Decimal{
		r.CashToLiabilities, r.CurrentRatio, r.QuickRatio,
		r.DebtToAssets, r.InterestCoverage, r.CashFlowToDebt,
	} {
		if d == nil {
			fields = append(fields, "")
		} else {
			fields = append(fields, d.String())
		}
	}
	return fields
}

func writeRatiosPNG(path string, records []storage.SnapshotRecord) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	series := []chart.Series{}
	add := func(name string, pick func(storage.SnapshotRecord) *decimal.Decimal) {
		var xs []time.Time
		var ys []float64
		for _, rec := range records {
			d := pick(rec)
			if d == nil {
				continue
			}
			when, err := time.Parse("2006-01-02", rec.EventDate)
			if err != nil {
				continue
			}
			xs = append(xs, when)
			ys = append(ys, d.InexactFloat64())
		}
		// go-chart cannot render single-point series.
		if len(xs) < 2 {
			return
		}
		series = append(series, chart.TimeSeries{Name: name, XValues: xs, YValues: ys})
	}

	add("Current ratio (A)", func(r storage.SnapshotRecord) *decimal.Decimal { return r.AnnualRatios.CurrentRatio })
	add("Debt/assets (A)", func(r storage.SnapshotRecord) *decimal.Decimal { return r.AnnualRatios.DebtToAssets })
	add("Cash/liabilities (A)", func(r storage.SnapshotRecord) *decimal.Decimal { return r.AnnualRatios.CashToLiabilities })
	add("Current ratio (Q)", func(r storage.SnapshotRecord) *decimal.Decimal { return r.QuarterlyRatios.CurrentRatio })

	if len(series) == 0 {
		return errors.New("not enough ratio points to chart")
	}

	ratioFormatter := func(v interface{}) string {
		return chart.FloatValueFormatterWithFormat(v, "%.3f")
	}
	graph := chart.Chart{
		Width:  1280,
		Height: 720,
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeValueFormatter,
		},
		YAxis: chart.YAxis{
			Name:           "Ratio",
			ValueFormatter: ratioFormatter,
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return graph.Render(chart.PNG, file)
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func emptyIfNil(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
