package snapshot

import (
	"time"

	"rx-solvency-snapshot/internal/xbrl"
)

// Anchor is the single period end chosen to represent the reporting snapshot
// for one form class, plus the filing metadata recorded when the end date was
// first seen.
type Anchor struct {
	End          string `json:"report_end"`
	Form         string `json:"report_form,omitempty"`
	FiscalPeriod string `json:"report_fp,omitempty"`
	Filed        string `json:"report_filed,omitempty"`
	AgeDays      int    `json:"age_days"`
	Coverage     int    `json:"coverage"`
}

// selectAnchor finds the report end date to use for all metrics of one form
// class: at or before the event date, no older than the staleness window, and
// filed under an allowed form (points without a form tag stay compatible).
// Among the surviving end dates it picks the one resolving the most base
// concepts, breaking ties toward the latest date. "Most recent" alone is
// unreliable because some periods only update a single line item, so the
// richest period wins even when it is not the newest in the window.
func (b *Builder) selectAnchor(store *xbrl.FactStore, eventDate time.Time, allowedForms map[string]struct{}) *Anchor {
	candidates := b.collectCandidates(store, eventDate, allowedForms)
	if len(candidates) == 0 {
		return nil
	}

	var best *Anchor
	for _, cand := range candidates {
		cand.Coverage = b.coverageAt(store, cand.End)
		if best == nil ||
			cand.Coverage > best.Coverage ||
			(cand.Coverage == best.Coverage && cand.End > best.End) {
			pick := cand
			best = &pick
		}
	}
	return best
}

func (b *Builder) collectCandidates(store *xbrl.FactStore, eventDate time.Time, allowedForms map[string]struct{}) map[string]Anchor {
	seen := make(map[string]Anchor)

	for _, chain := range b.cfg.Chains.anchorChains() {
		for _, tag := range chain {
			for _, pt := range store.Points(tag) {
				if pt.Form != "" {
					if _, ok := allowedForms[normalizeForm(pt.Form)]; !ok {
						continue
					}
				}

				endDate, err := time.Parse("2006-01-02", pt.End)
				if err != nil {
					continue
				}
				age := int(eventDate.Sub(endDate).Hours() / 24)
				if age < 0 || age > b.cfg.MaxReportAgeDays {
					continue
				}

				// First point seen for an end date owns its metadata;
				// later points never overwrite it.
				if _, ok := seen[pt.End]; ok {
					continue
				}
				seen[pt.End] = Anchor{
					End:          pt.End,
					Form:         pt.Form,
					FiscalPeriod: pt.FiscalPeriod,
					Filed:        pt.Filed,
					AgeDays:      age,
				}
			}
		}
	}

	return seen
}

// coverageAt counts the base concepts resolvable at an end date. Total
// liabilities counts when the direct tag or both of its components resolve;
// total debt counts when either debt component resolves; everything else
// counts on its own chain.
func (b *Builder) coverageAt(store *xbrl.FactStore, end string) int {
	chains := b.cfg.Chains
	cov := 0

	if b.resolve(store, chains.TotalLiabilities, end) != nil {
		cov++
	} else if b.resolve(store, chains.CurrentLiabilities, end) != nil &&
		b.resolve(store, chains.NoncurrentLiabilities, end) != nil {
		cov++
	}

	if b.resolve(store, chains.CurrentDebt, end) != nil ||
		b.resolve(store, chains.LongTermDebt, end) != nil {
		cov++
	}

	plain := []TagChain{
		chains.Cash,
		chains.TotalAssets,
		chains.CurrentAssets,
		chains.CurrentLiabilities,
		chains.Receivables,
		chains.Inventory,
		chains.OperatingIncome,
		chains.InterestExpense,
		chains.OperatingCashFlow,
	}
	for _, chain := range plain {
		if b.resolve(store, chain, end) != nil {
			cov++
		}
	}

	return cov
}
