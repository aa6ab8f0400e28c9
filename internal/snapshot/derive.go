package snapshot

import (
	"github.com/shopspring/decimal"

	"rx-solvency-snapshot/internal/xbrl"
)

// ResolvedValue pairs a resolved amount with the concept name that produced
// it. For derived values the tag is synthetic, e.g. "A+B".
type ResolvedValue struct {
	Value decimal.Decimal `json:"val"`
	Tag   string          `json:"tag"`
}

// resolve runs the point resolver and lifts the hit into a ResolvedValue.
func (b *Builder) resolve(store *xbrl.FactStore, chain TagChain, end string) *ResolvedValue {
	pt := resolvePoint(store, chain, end, b.cfg.PreferredUnit)
	if pt == nil {
		return nil
	}
	return &ResolvedValue{Value: pt.Value, Tag: pt.Tag}
}

// totalLiabilities prefers the direct concept and otherwise requires BOTH the
// current and noncurrent components. A lone component is never extrapolated
// into a total.
func (b *Builder) totalLiabilities(store *xbrl.FactStore, end string) *ResolvedValue {
	if direct := b.resolve(store, b.cfg.Chains.TotalLiabilities, end); direct != nil {
		return direct
	}

	cur := b.resolve(store, b.cfg.Chains.CurrentLiabilities, end)
	noncur := b.resolve(store, b.cfg.Chains.NoncurrentLiabilities, end)
	if cur == nil || noncur == nil {
		return nil
	}

	return &ResolvedValue{
		Value: cur.Value.Add(noncur.Value),
		Tag:   cur.Tag + "+" + noncur.Tag,
	}
}

// totalDebt sums whichever of the current and long-term components exist.
// Unlike liabilities, a partial debt figure is still meaningful on its own.
func (b *Builder) totalDebt(store *xbrl.FactStore, end string) *ResolvedValue {
	cur := b.resolve(store, b.cfg.Chains.CurrentDebt, end)
	long := b.resolve(store, b.cfg.Chains.LongTermDebt, end)
	if cur == nil && long == nil {
		return nil
	}

	total := decimal.Zero
	tag := ""
	if cur != nil {
		total = total.Add(cur.Value)
		tag = cur.Tag
	}
	if long != nil {
		total = total.Add(long.Value)
		if tag != "" {
			tag += "+"
		}
		tag += long.Tag
	}

	return &ResolvedValue{Value: total, Tag: tag}
}

// interestExpense normalizes the reported figure to its absolute magnitude;
// sign conventions vary by filer.
func (b *Builder) interestExpense(store *xbrl.FactStore, end string) *ResolvedValue {
	v := b.resolve(store, b.cfg.Chains.InterestExpense, end)
	if v == nil {
		return nil
	}
	return &ResolvedValue{Value: v.Value.Abs(), Tag: v.Tag}
}
