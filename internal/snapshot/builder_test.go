package snapshot

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"rx-solvency-snapshot/internal/xbrl"
)

func testConfig() Config {
	return Config{
		PreferredUnit:    "USD",
		MaxReportAgeDays: 160,
		QuarterlyForms:   []string{"10-Q"},
		AnnualForms:      []string{"10-K", "20-F", "40-F"},
		Chains:           DefaultChains(),
	}
}

func testBuilder(t *testing.T) *Builder {
	t.Helper()
	b, err := NewBuilder(testConfig())
	if err != nil {
		t.Fatalf("builder construction failed: %v", err)
	}
	return b
}

func usd(t *testing.T, val float64, end, form string) xbrl.FactPoint {
	t.Helper()
	return xbrl.FactPoint{
		Unit:  "USD",
		Value: decimal.NewFromFloat(val),
		End:   end,
		Form:  form,
	}
}

func day(t *testing.T, iso string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", iso)
	if err != nil {
		t.Fatalf("bad test date %q: %v", iso, err)
	}
	return d
}

func ratioEquals(t *testing.T, got *decimal.Decimal, want float64, name string) {
	t.Helper()
	if got == nil {
		t.Fatalf("%s should be present", name)
	}
	if !got.Equal(decimal.NewFromFloat(want)) {
		t.Fatalf("%s = %s, want %v", name, got, want)
	}
}

func TestBuildAnnualSnapshotPartialCoverage(t *testing.T) {
	store := xbrl.NewFactStore("EXAMPLE CORP")
	store.Add("Assets", usd(t, 1000, "2020-12-31", "10-K"))
	store.Add("Liabilities", usd(t, 600, "2020-12-31", "10-K"))

	snap := testBuilder(t).Build(store, day(t, "2021-02-01"))

	annual := snap.Annual
	if annual.Anchor == nil {
		t.Fatal("annual anchor should exist")
	}
	if annual.Anchor.End != "2020-12-31" {
		t.Fatalf("annual anchor end = %q, want 2020-12-31", annual.Anchor.End)
	}
	if annual.Anchor.AgeDays != 32 {
		t.Fatalf("annual anchor age = %d, want 32", annual.Anchor.AgeDays)
	}
	if annual.Anchor.Form != "10-K" {
		t.Fatalf("annual anchor form = %q, want 10-K", annual.Anchor.Form)
	}

	if annual.TotalAssets == nil || !annual.TotalAssets.Value.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("assets should resolve to 1000, got %+v", annual.TotalAssets)
	}
	if annual.TotalLiabilities == nil || annual.TotalLiabilities.Tag != "Liabilities" {
		t.Fatalf("liabilities should resolve via the direct tag, got %+v", annual.TotalLiabilities)
	}

	// No debt or cash tags: those ratios degrade to absent, nothing fails.
	if annual.DebtToAssets != nil {
		t.Fatalf("debt_to_assets should be absent, got %s", annual.DebtToAssets)
	}
	if annual.CashToLiabilities != nil {
		t.Fatalf("cash_to_liab should be absent, got %s", annual.CashToLiabilities)
	}

	// No 10-Q points at all: the quarterly side is empty but still present.
	if snap.Quarterly.Anchor != nil {
		t.Fatalf("quarterly anchor should be absent, got %+v", snap.Quarterly.Anchor)
	}
	if snap.Quarterly.TotalAssets != nil {
		t.Fatal("quarterly metrics should all be absent")
	}
}

func TestBuildQuarterlyAndAnnualAreIndependent(t *testing.T) {
	store := xbrl.NewFactStore("X")
	store.Add("Assets",
		usd(t, 900, "2021-03-31", "10-Q"),
		usd(t, 1000, "2020-12-31", "10-K"),
	)
	store.Add("AssetsCurrent",
		usd(t, 400, "2021-03-31", "10-Q"),
		usd(t, 450, "2020-12-31", "10-K"),
	)
	store.Add("LiabilitiesCurrent",
		usd(t, 200, "2021-03-31", "10-Q"),
		usd(t, 150, "2020-12-31", "10-K"),
	)

	snap := testBuilder(t).Build(store, day(t, "2021-05-01"))

	if snap.Quarterly.Anchor == nil || snap.Quarterly.Anchor.End != "2021-03-31" {
		t.Fatalf("quarterly anchor = %+v, want end 2021-03-31", snap.Quarterly.Anchor)
	}
	if snap.Annual.Anchor == nil || snap.Annual.Anchor.End != "2020-12-31" {
		t.Fatalf("annual anchor = %+v, want end 2020-12-31", snap.Annual.Anchor)
	}

	ratioEquals(t, snap.Quarterly.CurrentRatio, 2.0, "quarterly current_ratio")
	ratioEquals(t, snap.Annual.CurrentRatio, 3.0, "annual current_ratio")
}

func TestNewBuilderRejectsBadConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Chains.Cash = TagChain{}
	if _, err := NewBuilder(cfg); err == nil {
		t.Fatal("empty tag chain must be rejected")
	}

	cfg = testConfig()
	cfg.MaxReportAgeDays = 0
	if _, err := NewBuilder(cfg); err == nil {
		t.Fatal("non-positive staleness window must be rejected")
	}

	cfg = testConfig()
	cfg.AnnualForms = nil
	if _, err := NewBuilder(cfg); err == nil {
		t.Fatal("empty form set must be rejected")
	}
}

func TestChainSetMerged(t *testing.T) {
	custom := ChainSet{Cash: TagChain{"MyCashTag"}}.Merged(DefaultChains())

	if len(custom.Cash) != 1 || custom.Cash[0] != "MyCashTag" {
		t.Fatalf("override lost: %v", custom.Cash)
	}
	if len(custom.TotalAssets) == 0 {
		t.Fatal("unset chains must fall back to defaults")
	}
}
