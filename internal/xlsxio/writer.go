package xlsxio

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"rx-solvency-snapshot/internal/service"
)

const snapshotSheet = "snapshots"

// WriteSnapshots writes one row per result to an .xlsx workbook, using the
// fixed schema from Headers. Results land in input order.
func WriteSnapshots(path string, results []service.Result) error {
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(snapshotSheet)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("drop default sheet: %w", err)
	}

	cols := schema()
	// Column styles first: SetColStyle replaces existing cell styles, so the
	// header style must land after it.
	if err := applyColumnFormats(f, cols); err != nil {
		return err
	}
	if err := writeHeader(f, cols); err != nil {
		return err
	}

	for i, res := range results {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := rowValues(res)
		if err := f.SetSheetRow(snapshotSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := f.SetPanes(snapshotSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return err
	}

	lastCol, err := excelize.ColumnNumberToName(len(cols))
	if err != nil {
		return err
	}
	rangeRef := fmt.Sprintf("A1:%s%d", lastCol, len(results)+1)
	if err := f.AutoFilter(snapshotSheet, rangeRef, nil); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func writeHeader(f *excelize.File, cols []column) error {
	style, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"F2F2F2"}},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return err
	}

	names := make([]any, len(cols))
	for i, c := range cols {
		names[i] = c.name
	}
	if err := f.SetSheetRow(snapshotSheet, "A1", &names); err != nil {
		return err
	}

	lastCol, err := excelize.ColumnNumberToName(len(cols))
	if err != nil {
		return err
	}
	return f.SetCellStyle(snapshotSheet, "A1", lastCol+"1", style)
}

func applyColumnFormats(f *excelize.File, cols []column) error {
	amountFmt := "#,##0"
	intFmt := "0"
	ratioFmt := "0.000"

	amountStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &amountFmt})
	if err != nil {
		return err
	}
	intStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &intFmt})
	if err != nil {
		return err
	}
	ratioStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &ratioFmt})
	if err != nil {
		return err
	}

	for i, c := range cols {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}

		if err := f.SetColWidth(snapshotSheet, name, name, columnWidth(c.name)); err != nil {
			return err
		}

		var style int
		switch c.kind {
		case colAmount:
			style = amountStyle
		case colInt:
			style = intStyle
		case colRatio:
			style = ratioStyle
		default:
			continue
		}
		if err := f.SetColStyle(snapshotSheet, name, style); err != nil {
			return err
		}
	}
	return nil
}

func columnWidth(name string) float64 {
	switch {
	case name == "entity_name" || name == "error":
		return 40
	case name == "cik":
		return 12
	case strings.HasSuffix(name, "_tag"), strings.HasSuffix(name, "report_form"),
		strings.HasSuffix(name, "report_fp"), strings.HasSuffix(name, "report_filed"):
		return 22
	case strings.HasSuffix(name, "report_end"):
		return 14
	default:
		return 16
	}
}
