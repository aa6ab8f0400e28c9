package snapshot

import (
	"github.com/shopspring/decimal"
)

// safeDiv divides a by b with null propagation: the result is absent when
// either operand is absent or the divisor is zero. Ratio arithmetic never
// raises for data-quality reasons.
func safeDiv(a, b *decimal.Decimal) *decimal.Decimal {
	if a == nil || b == nil || b.IsZero() {
		return nil
	}
	q := a.Div(*b)
	return &q
}

func amount(v *ResolvedValue) *decimal.Decimal {
	if v == nil {
		return nil
	}
	return &v.Value
}

// computeRatios fills the six solvency/liquidity ratios from the resolved
// values already attached to the report.
func (r *Report) computeRatios() {
	cash := amount(r.Cash)
	liab := amount(r.TotalLiabilities)
	assets := amount(r.TotalAssets)
	assetsCur := amount(r.CurrentAssets)
	liabCur := amount(r.CurrentLiabilities)
	ar := amount(r.Receivables)
	inv := amount(r.Inventory)
	debt := amount(r.TotalDebt)
	oi := amount(r.OperatingIncome)
	interest := amount(r.InterestExpense)
	ocf := amount(r.OperatingCashFlow)

	r.CashToLiabilities = safeDiv(cash, liab)
	r.CurrentRatio = safeDiv(assetsCur, liabCur)
	r.QuickRatio = quickRatio(cash, ar, assetsCur, inv, liabCur)
	r.DebtToAssets = safeDiv(debt, assets)
	r.InterestCoverage = safeDiv(oi, interest)
	r.CashFlowToDebt = safeDiv(ocf, debt)
}

// quickRatio prefers (cash + receivables) / current liabilities and falls
// back to (current assets − inventory) / current liabilities when either
// primary operand is missing. Without a usable current-liabilities figure the
// ratio is absent regardless of the numerator.
func quickRatio(cash, ar, assetsCur, inv, liabCur *decimal.Decimal) *decimal.Decimal {
	if liabCur == nil || liabCur.IsZero() {
		return nil
	}
	if cash != nil && ar != nil {
		num := cash.Add(*ar)
		return safeDiv(&num, liabCur)
	}
	if assetsCur != nil && inv != nil {
		num := assetsCur.Sub(*inv)
		return safeDiv(&num, liabCur)
	}
	return nil
}
