// Package xlsxio reads case sheets and writes snapshot workbooks.
package xlsxio

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"rx-solvency-snapshot/internal/service"
)

var (
	cikHeaders  = map[string]struct{}{"cik": {}, "cik10": {}, "company_cik": {}}
	dateHeaders = map[string]struct{}{"start": {}, "start_date": {}, "from": {}, "from_date": {}, "event_date": {}}
)

// LoadCases reads (CIK, event date) rows from an .xlsx sheet. Column
// positions are detected from the header row with sensible fallbacks; rows
// with a missing CIK or an unparseable date are skipped and counted, since
// research input sheets are routinely messy.
func LoadCases(path, sheet string, logger zerolog.Logger) ([]service.Case, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open input workbook: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(f.GetActiveSheetIndex())
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	cikCol, dateCol := detectColumns(rows[0])

	var (
		cases   []service.Case
		skipped int
	)
	for _, row := range rows[1:] {
		cik := cellAt(row, cikCol)
		rawDate := cellAt(row, dateCol)
		if cik == "" || rawDate == "" {
			skipped++
			continue
		}

		eventDate, ok := coerceDate(rawDate)
		if !ok {
			skipped++
			continue
		}

		cases = append(cases, service.Case{CIK: cik, EventDate: eventDate})
	}

	logger.Info().
		Str("path", path).
		Int("cases", len(cases)).
		Int("skipped", skipped).
		Msg("loaded input sheet")

	return cases, nil
}

func detectColumns(header []string) (cikCol, dateCol int) {
	cikCol, dateCol = 0, 1
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(h))
		if _, ok := cikHeaders[name]; ok {
			cikCol = i
		}
		if _, ok := dateHeaders[name]; ok {
			dateCol = i
		}
	}
	return cikCol, dateCol
}

func cellAt(row []string, col int) string {
	if col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}

// dateLayouts are the formats case sheets arrive in besides ISO.
var dateLayouts = []string{
	"02/01/2006",
	"01/02/2006",
	"02-01-2006",
	"01-02-2006",
	"2006/01/02",
}

func coerceDate(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", false
	}

	// Already ISO (possibly with a time suffix).
	if len(s) >= 10 && s[4] == '-' && s[7] == '-' {
		if _, err := time.Parse("2006-01-02", s[:10]); err == nil {
			return s[:10], true
		}
		return "", false
	}

	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return d.Format("2006-01-02"), true
		}
	}
	return "", false
}
