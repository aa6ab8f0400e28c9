package snapshot

import (
	"testing"

	"github.com/shopspring/decimal"

	"rx-solvency-snapshot/internal/xbrl"
)

func TestTotalLiabilitiesDirectTagPreferred(t *testing.T) {
	b := testBuilder(t)
	store := xbrl.NewFactStore("X")
	store.Add("Liabilities", usd(t, 600, "2020-12-31", "10-K"))
	store.Add("LiabilitiesCurrent", usd(t, 100, "2020-12-31", "10-K"))
	store.Add("LiabilitiesNoncurrent", usd(t, 200, "2020-12-31", "10-K"))

	v := b.totalLiabilities(store, "2020-12-31")
	if v == nil || !v.Value.Equal(decimal.NewFromInt(600)) || v.Tag != "Liabilities" {
		t.Fatalf("direct tag must win, got %+v", v)
	}
}

func TestTotalLiabilitiesComponentSum(t *testing.T) {
	b := testBuilder(t)
	store := xbrl.NewFactStore("X")
	store.Add("LiabilitiesCurrent", usd(t, 100, "2020-12-31", "10-K"))
	store.Add("LiabilitiesNoncurrent", usd(t, 200, "2020-12-31", "10-K"))

	v := b.totalLiabilities(store, "2020-12-31")
	if v == nil || !v.Value.Equal(decimal.NewFromInt(300)) {
		t.Fatalf("component sum = %+v, want 300", v)
	}
	if v.Tag != "LiabilitiesCurrent+LiabilitiesNoncurrent" {
		t.Fatalf("synthetic tag must identify the sum, got %q", v.Tag)
	}
}

func TestTotalLiabilitiesPartialSumRejected(t *testing.T) {
	b := testBuilder(t)
	store := xbrl.NewFactStore("X")
	store.Add("LiabilitiesCurrent", usd(t, 100, "2020-12-31", "10-K"))

	if v := b.totalLiabilities(store, "2020-12-31"); v != nil {
		t.Fatalf("one component alone must never become a total, got %+v", v)
	}
}

func TestTotalDebtAcceptsPartialSum(t *testing.T) {
	b := testBuilder(t)
	store := xbrl.NewFactStore("X")
	store.Add("DebtCurrent", usd(t, 50, "2020-12-31", "10-K"))

	v := b.totalDebt(store, "2020-12-31")
	if v == nil || !v.Value.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("lone debt component is accepted, got %+v", v)
	}
	if v.Tag != "DebtCurrent" {
		t.Fatalf("tag = %q, want DebtCurrent", v.Tag)
	}
}

func TestTotalDebtSumsBothComponents(t *testing.T) {
	b := testBuilder(t)
	store := xbrl.NewFactStore("X")
	store.Add("DebtCurrent", usd(t, 50, "2020-12-31", "10-K"))
	store.Add("LongTermDebtNoncurrent", usd(t, 150, "2020-12-31", "10-K"))

	v := b.totalDebt(store, "2020-12-31")
	if v == nil || !v.Value.Equal(decimal.NewFromInt(200)) {
		t.Fatalf("debt sum = %+v, want 200", v)
	}
	if v.Tag != "DebtCurrent+LongTermDebtNoncurrent" {
		t.Fatalf("tag = %q", v.Tag)
	}
}

func TestTotalDebtAbsentWhenNoComponents(t *testing.T) {
	b := testBuilder(t)
	store := xbrl.NewFactStore("X")

	if v := b.totalDebt(store, "2020-12-31"); v != nil {
		t.Fatalf("no debt tags means absent, got %+v", v)
	}
}

func TestInterestExpenseNormalizedToMagnitude(t *testing.T) {
	b := testBuilder(t)
	store := xbrl.NewFactStore("X")
	store.Add("InterestExpense", usd(t, -42, "2020-12-31", "10-K"))

	v := b.interestExpense(store, "2020-12-31")
	if v == nil || !v.Value.Equal(decimal.NewFromInt(42)) {
		t.Fatalf("interest expense must be absolute, got %+v", v)
	}
}
