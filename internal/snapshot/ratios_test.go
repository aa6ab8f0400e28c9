package snapshot

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(v float64) *decimal.Decimal {
	d := decimal.NewFromFloat(v)
	return &d
}

func TestSafeDiv(t *testing.T) {
	cases := []struct {
		name string
		a, b *decimal.Decimal
		want *decimal.Decimal
	}{
		{"both present", dec(10), dec(4), dec(2.5)},
		{"numerator absent", nil, dec(4), nil},
		{"divisor absent", dec(10), nil, nil},
		{"divisor zero", dec(10), dec(0), nil},
		{"negative numerator", dec(-10), dec(4), dec(-2.5)},
		{"zero numerator", dec(0), dec(4), dec(0)},
	}

	for _, tc := range cases {
		got := safeDiv(tc.a, tc.b)
		if (got == nil) != (tc.want == nil) {
			t.Fatalf("%s: got %v, want %v", tc.name, got, tc.want)
		}
		if got != nil && !got.Equal(*tc.want) {
			t.Fatalf("%s: got %s, want %s", tc.name, got, tc.want)
		}
	}
}

func TestQuickRatioPrimaryFormula(t *testing.T) {
	qr := quickRatio(dec(100), dec(50), dec(500), dec(200), dec(300))
	if qr == nil || !qr.Equal(decimal.NewFromFloat(0.5)) {
		t.Fatalf("quick ratio = %v, want 0.5", qr)
	}
}

func TestQuickRatioFallbackFormula(t *testing.T) {
	// Receivables absent: (current assets − inventory) / current liabilities.
	qr := quickRatio(dec(100), nil, dec(500), dec(200), dec(300))
	if qr == nil || !qr.Equal(decimal.NewFromInt(1)) {
		t.Fatalf("fallback quick ratio = %v, want 1.0", qr)
	}
}

func TestQuickRatioAbsentWithoutFallbackOperands(t *testing.T) {
	if qr := quickRatio(dec(100), nil, dec(500), nil, dec(300)); qr != nil {
		t.Fatalf("fallback requires both operands, got %v", qr)
	}
}

func TestQuickRatioAbsentWithoutCurrentLiabilities(t *testing.T) {
	if qr := quickRatio(dec(100), dec(50), dec(500), dec(200), nil); qr != nil {
		t.Fatalf("missing divisor means absent, got %v", qr)
	}
	if qr := quickRatio(dec(100), dec(50), dec(500), dec(200), dec(0)); qr != nil {
		t.Fatalf("zero divisor means absent, got %v", qr)
	}
}

func TestComputeRatios(t *testing.T) {
	r := Report{
		Cash:               &ResolvedValue{Value: decimal.NewFromInt(100)},
		TotalLiabilities:   &ResolvedValue{Value: decimal.NewFromInt(400)},
		TotalAssets:        &ResolvedValue{Value: decimal.NewFromInt(1000)},
		CurrentAssets:      &ResolvedValue{Value: decimal.NewFromInt(500)},
		CurrentLiabilities: &ResolvedValue{Value: decimal.NewFromInt(250)},
		Receivables:        &ResolvedValue{Value: decimal.NewFromInt(150)},
		Inventory:          &ResolvedValue{Value: decimal.NewFromInt(200)},
		TotalDebt:          &ResolvedValue{Value: decimal.NewFromInt(200)},
		OperatingIncome:    &ResolvedValue{Value: decimal.NewFromInt(80)},
		InterestExpense:    &ResolvedValue{Value: decimal.NewFromInt(20)},
		OperatingCashFlow:  &ResolvedValue{Value: decimal.NewFromInt(60)},
	}
	r.computeRatios()

	ratioEquals(t, r.CashToLiabilities, 0.25, "cash_to_liab")
	ratioEquals(t, r.CurrentRatio, 2.0, "current_ratio")
	ratioEquals(t, r.QuickRatio, 1.0, "quick_ratio")
	ratioEquals(t, r.DebtToAssets, 0.2, "debt_to_assets")
	ratioEquals(t, r.InterestCoverage, 4.0, "interest_coverage")
	ratioEquals(t, r.CashFlowToDebt, 0.3, "ocf_to_debt")
}

func TestComputeRatiosAllAbsent(t *testing.T) {
	r := Report{}
	r.computeRatios()

	for name, ratio := range map[string]*decimal.Decimal{
		"cash_to_liab":      r.CashToLiabilities,
		"current_ratio":     r.CurrentRatio,
		"quick_ratio":       r.QuickRatio,
		"debt_to_assets":    r.DebtToAssets,
		"interest_coverage": r.InterestCoverage,
		"ocf_to_debt":       r.CashFlowToDebt,
	} {
		if ratio != nil {
			t.Fatalf("%s should be absent with no inputs, got %s", name, ratio)
		}
	}
}
