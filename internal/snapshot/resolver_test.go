package snapshot

import (
	"testing"

	"github.com/shopspring/decimal"

	"rx-solvency-snapshot/internal/xbrl"
)

func TestResolvePointChainPrecedence(t *testing.T) {
	chain := TagChain{
		"CashAndCashEquivalentsAtCarryingValue",
		"CashCashEquivalentsRestrictedCashAndRestrictedCashEquivalents",
	}

	store := xbrl.NewFactStore("X")
	store.Add("CashCashEquivalentsRestrictedCashAndRestrictedCashEquivalents", usd(t, 120, "2020-12-31", "10-K"))
	store.Add("CashAndCashEquivalentsAtCarryingValue", usd(t, 100, "2020-12-31", "10-K"))

	pt := resolvePoint(store, chain, "2020-12-31", "USD")
	if pt == nil {
		t.Fatal("point should resolve")
	}
	if pt.Tag != "CashAndCashEquivalentsAtCarryingValue" {
		t.Fatalf("earlier chain position must win, got %q", pt.Tag)
	}
}

func TestResolvePointPrefersUnitOverChainPosition(t *testing.T) {
	chain := TagChain{"First", "Second"}

	store := xbrl.NewFactStore("X")
	store.Add("First", xbrl.FactPoint{Unit: "EUR", Value: decimal.NewFromInt(1), End: "2020-12-31"})
	store.Add("Second", xbrl.FactPoint{Unit: "USD", Value: decimal.NewFromInt(2), End: "2020-12-31"})

	pt := resolvePoint(store, chain, "2020-12-31", "USD")
	if pt == nil || pt.Tag != "Second" {
		t.Fatalf("preferred unit beats chain position, got %+v", pt)
	}
}

func TestResolvePointExactEndMatchOnly(t *testing.T) {
	store := xbrl.NewFactStore("X")
	store.Add("Assets", usd(t, 1000, "2020-12-30", "10-K"))

	if pt := resolvePoint(store, TagChain{"Assets"}, "2020-12-31", "USD"); pt != nil {
		t.Fatalf("no fuzzy date matching at this layer, got %+v", pt)
	}
}

func TestResolvePointAbsentConcept(t *testing.T) {
	store := xbrl.NewFactStore("X")
	if pt := resolvePoint(store, TagChain{"Assets"}, "2020-12-31", "USD"); pt != nil {
		t.Fatalf("absent concept must yield nil, got %+v", pt)
	}
}

func TestResolvePointDuplicatesPickOne(t *testing.T) {
	// Amended filings duplicate points; the resolver just picks one
	// deterministically (first encountered among equals).
	store := xbrl.NewFactStore("X")
	store.Add("Assets",
		usd(t, 1000, "2020-12-31", "10-K"),
		usd(t, 1000, "2020-12-31", "10-K"),
	)

	pt := resolvePoint(store, TagChain{"Assets"}, "2020-12-31", "USD")
	if pt == nil || !pt.Value.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("duplicate points must resolve to a single point, got %+v", pt)
	}
}
