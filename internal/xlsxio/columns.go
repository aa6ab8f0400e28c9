package xlsxio

import (
	"github.com/shopspring/decimal"

	"rx-solvency-snapshot/internal/service"
	"rx-solvency-snapshot/internal/snapshot"
)

// The output schema is fixed: every row carries the full column set and
// absent values stay empty, so downstream analysis sees a uniform shape
// regardless of how thin an entity's data is.

type colKind int

const (
	colText colKind = iota
	colInt
	colAmount
	colRatio
)

type column struct {
	name string
	kind colKind
}

var baseColumns = []column{
	{"cik", colText},
	{"entity_name", colText},
	{"event_date", colText},
	{"has_companyfacts", colInt},
	{"error", colText},
}

var reportColumns = []column{
	{"report_end", colText},
	{"age_days", colInt},
	{"report_form", colText},
	{"report_fp", colText},
	{"report_filed", colText},
	{"coverage", colInt},
	{"cash_val", colAmount},
	{"cash_tag", colText},
	{"liab_val", colAmount},
	{"liab_tag", colText},
	{"assets_val", colAmount},
	{"assets_tag", colText},
	{"assets_cur_val", colAmount},
	{"assets_cur_tag", colText},
	{"liab_cur_val", colAmount},
	{"liab_cur_tag", colText},
	{"ar_val", colAmount},
	{"ar_tag", colText},
	{"inv_val", colAmount},
	{"inv_tag", colText},
	{"debt_val", colAmount},
	{"debt_tag", colText},
	{"oi_val", colAmount},
	{"oi_tag", colText},
	{"int_val", colAmount},
	{"int_tag", colText},
	{"ocf_val", colAmount},
	{"ocf_tag", colText},
	{"cash_to_liab", colRatio},
	{"current_ratio", colRatio},
	{"quick_ratio", colRatio},
	{"debt_to_assets", colRatio},
	{"interest_coverage", colRatio},
	{"ocf_to_debt", colRatio},
}

func schema() []column {
	cols := make([]column, 0, len(baseColumns)+2*len(reportColumns))
	cols = append(cols, baseColumns...)
	for _, c := range reportColumns {
		cols = append(cols, column{"q_" + c.name, c.kind})
	}
	for _, c := range reportColumns {
		cols = append(cols, column{"a_" + c.name, c.kind})
	}
	return cols
}

// Headers lists the output column names in order.
func Headers() []string {
	cols := schema()
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.name
	}
	return names
}

func rowValues(res service.Result) []any {
	hasFacts := 0
	if res.HasFacts {
		hasFacts = 1
	}

	row := []any{res.CIK, res.EntityName, res.EventDate, hasFacts, res.Err}
	row = append(row, reportValues(res.Snapshot.Quarterly)...)
	row = append(row, reportValues(res.Snapshot.Annual)...)
	return row
}

func reportValues(r snapshot.Report) []any {
	row := make([]any, 0, len(reportColumns))

	if r.Anchor != nil {
		row = append(row, r.Anchor.End, r.Anchor.AgeDays, r.Anchor.Form, r.Anchor.FiscalPeriod, r.Anchor.Filed, r.Anchor.Coverage)
	} else {
		row = append(row, nil, nil, nil, nil, nil, nil)
	}

	for _, v := range []*snapshot.ResolvedValue{
		r.Cash, r.TotalLiabilities, r.TotalAssets, r.CurrentAssets,
		r.CurrentLiabilities, r.Receivables, r.Inventory, r.TotalDebt,
		r.OperatingIncome, r.InterestExpense, r.OperatingCashFlow,
	} {
		if v != nil {
			row = append(row, v.Value.InexactFloat64(), v.Tag)
		} else {
			row = append(row, nil, nil)
		}
	}

	for _, ratio := range []*decimal.Decimal{
		r.CashToLiabilities, r.CurrentRatio, r.QuickRatio,
		r.DebtToAssets, r.InterestCoverage, r.CashFlowToDebt,
	} {
		if ratio != nil {
			row = append(row, ratio.InexactFloat64())
		} else {
			row = append(row, nil)
		}
	}

	return row
}
