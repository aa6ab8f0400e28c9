// Package snapshot reduces a sparse multi-tagged XBRL fact store to one
// canonical quarterly + annual solvency snapshot anchored to an event date.
package snapshot

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"rx-solvency-snapshot/internal/xbrl"
)

// Config parameterizes the engine. Tag chains, form sets, the staleness
// window, and the preferred unit are all inputs, never package state, so the
// engine runs the same against real filings and synthetic test stores.
type Config struct {
	PreferredUnit    string
	MaxReportAgeDays int
	QuarterlyForms   []string
	AnnualForms      []string
	Chains           ChainSet
}

// Report is the resolved snapshot for a single form class. All fields are
// optional: a company with a valid anchor can still miss any number of
// concepts, and a missing anchor leaves the whole report empty.
type Report struct {
	Anchor *Anchor `json:"anchor,omitempty"`

	Cash               *ResolvedValue `json:"cash,omitempty"`
	TotalLiabilities   *ResolvedValue `json:"liab,omitempty"`
	TotalAssets        *ResolvedValue `json:"assets,omitempty"`
	CurrentAssets      *ResolvedValue `json:"assets_cur,omitempty"`
	CurrentLiabilities *ResolvedValue `json:"liab_cur,omitempty"`
	Receivables        *ResolvedValue `json:"ar,omitempty"`
	Inventory          *ResolvedValue `json:"inv,omitempty"`
	TotalDebt          *ResolvedValue `json:"debt,omitempty"`
	OperatingIncome    *ResolvedValue `json:"oi,omitempty"`
	InterestExpense    *ResolvedValue `json:"int,omitempty"`
	OperatingCashFlow  *ResolvedValue `json:"ocf,omitempty"`

	CashToLiabilities *decimal.Decimal `json:"cash_to_liab,omitempty"`
	CurrentRatio      *decimal.Decimal `json:"current_ratio,omitempty"`
	QuickRatio        *decimal.Decimal `json:"quick_ratio,omitempty"`
	DebtToAssets      *decimal.Decimal `json:"debt_to_assets,omitempty"`
	InterestCoverage  *decimal.Decimal `json:"interest_coverage,omitempty"`
	CashFlowToDebt    *decimal.Decimal `json:"ocf_to_debt,omitempty"`
}

// Snapshot merges the independent quarterly and annual reports for one
// entity. Either side may be empty; that is a normal outcome, not an error.
type Snapshot struct {
	Quarterly Report `json:"quarterly"`
	Annual    Report `json:"annual"`
}

// Builder runs the anchor selection and ratio computation for both form
// classes. It is stateless across entities and safe for concurrent use.
type Builder struct {
	cfg       Config
	quarterly map[string]struct{}
	annual    map[string]struct{}
}

// NewBuilder validates the configuration. Invalid configuration is a
// programming bug, the only condition under which this package reports an
// error; data-quality problems never do.
func NewBuilder(cfg Config) (*Builder, error) {
	if cfg.PreferredUnit == "" {
		cfg.PreferredUnit = "USD"
	}
	if cfg.MaxReportAgeDays <= 0 {
		return nil, fmt.Errorf("snapshot: max report age must be positive, got %d", cfg.MaxReportAgeDays)
	}
	if len(cfg.QuarterlyForms) == 0 || len(cfg.AnnualForms) == 0 {
		return nil, fmt.Errorf("snapshot: quarterly and annual form sets must not be empty")
	}
	for name, chain := range cfg.Chains.all() {
		if len(chain) == 0 {
			return nil, fmt.Errorf("snapshot: tag chain %q is empty", name)
		}
		for _, tag := range chain {
			if tag == "" {
				return nil, fmt.Errorf("snapshot: tag chain %q contains an empty concept name", name)
			}
		}
	}

	return &Builder{
		cfg:       cfg,
		quarterly: formSet(cfg.QuarterlyForms),
		annual:    formSet(cfg.AnnualForms),
	}, nil
}

// Build produces the dual snapshot for one entity's fact store at an event
// date. Both sub-reports are computed independently; a missing anchor on one
// side never affects the other.
func (b *Builder) Build(store *xbrl.FactStore, eventDate time.Time) Snapshot {
	day := time.Date(eventDate.Year(), eventDate.Month(), eventDate.Day(), 0, 0, 0, 0, time.UTC)

	return Snapshot{
		Quarterly: b.buildReport(store, day, b.quarterly),
		Annual:    b.buildReport(store, day, b.annual),
	}
}

func (b *Builder) buildReport(store *xbrl.FactStore, eventDate time.Time, allowedForms map[string]struct{}) Report {
	anchor := b.selectAnchor(store, eventDate, allowedForms)
	if anchor == nil {
		return Report{}
	}

	chains := b.cfg.Chains
	end := anchor.End

	r := Report{
		Anchor:             anchor,
		Cash:               b.resolve(store, chains.Cash, end),
		TotalLiabilities:   b.totalLiabilities(store, end),
		TotalAssets:        b.resolve(store, chains.TotalAssets, end),
		CurrentAssets:      b.resolve(store, chains.CurrentAssets, end),
		CurrentLiabilities: b.resolve(store, chains.CurrentLiabilities, end),
		Receivables:        b.resolve(store, chains.Receivables, end),
		Inventory:          b.resolve(store, chains.Inventory, end),
		TotalDebt:          b.totalDebt(store, end),
		OperatingIncome:    b.resolve(store, chains.OperatingIncome, end),
		InterestExpense:    b.interestExpense(store, end),
		OperatingCashFlow:  b.resolve(store, chains.OperatingCashFlow, end),
	}
	r.computeRatios()
	return r
}

func formSet(forms []string) map[string]struct{} {
	set := make(map[string]struct{}, len(forms))
	for _, form := range forms {
		set[normalizeForm(form)] = struct{}{}
	}
	return set
}

func normalizeForm(form string) string {
	return strings.ToUpper(strings.TrimSpace(form))
}
