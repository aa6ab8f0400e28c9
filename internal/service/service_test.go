package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"

	"rx-solvency-snapshot/internal/edgar"
	"rx-solvency-snapshot/internal/snapshot"
)

func noopLogger() zerolog.Logger {
	return zerolog.New(nil).Level(zerolog.Disabled)
}

type fakeFetcher struct {
	docs map[string][]byte
	errs map[string]error
}

func (f *fakeFetcher) CompanyFacts(ctx context.Context, cik string) ([]byte, error) {
	if err, ok := f.errs[cik]; ok {
		return nil, err
	}
	if doc, ok := f.docs[cik]; ok {
		return doc, nil
	}
	return nil, fmt.Errorf("cik %s: %w", cik, edgar.ErrNotFound)
}

func testBuilder(t *testing.T) *snapshot.Builder {
	t.Helper()
	b, err := snapshot.NewBuilder(snapshot.Config{
		PreferredUnit:    "USD",
		MaxReportAgeDays: 160,
		QuarterlyForms:   []string{"10-Q"},
		AnnualForms:      []string{"10-K"},
		Chains:           snapshot.DefaultChains(),
	})
	if err != nil {
		t.Fatalf("builder construction failed: %v", err)
	}
	return b
}

const factsDoc = `{
  "cik": 1,
  "entityName": "ACME CORP",
  "facts": {
    "us-gaap": {
      "Assets": {"units": {"USD": [{"end": "2020-12-31", "val": 1000, "form": "10-K"}]}},
      "Liabilities": {"units": {"USD": [{"end": "2020-12-31", "val": 600, "form": "10-K"}]}}
    }
  }
}`

func TestRunnerMixedBatch(t *testing.T) {
	fetcher := &fakeFetcher{
		docs: map[string][]byte{
			"1": []byte(factsDoc),
			"3": []byte(`{invalid json`),
		},
		errs: map[string]error{
			"4": errors.New("connection reset"),
		},
	}

	runner := NewRunner(fetcher, testBuilder(t), Options{Concurrency: 4}, noopLogger())

	cases := []Case{
		{CIK: "1", EventDate: "2021-02-01"},
		{CIK: "2", EventDate: "2021-02-01"}, // not found
		{CIK: "3", EventDate: "2021-02-01"}, // parse failure
		{CIK: "4", EventDate: "2021-02-01"}, // transport failure
		{CIK: "1", EventDate: "bogus"},      // bad event date
	}

	results, err := runner.Run(context.Background(), cases)
	if err != nil {
		t.Fatalf("batch must not abort on per-case failures: %v", err)
	}
	if len(results) != len(cases) {
		t.Fatalf("expected %d results, got %d", len(cases), len(results))
	}

	good := results[0]
	if !good.HasFacts || good.Err != "" {
		t.Fatalf("first case should succeed, got %+v", good)
	}
	if good.EntityName != "ACME CORP" {
		t.Fatalf("entity name = %q", good.EntityName)
	}
	if good.Snapshot.Annual.Anchor == nil || good.Snapshot.Annual.Anchor.End != "2020-12-31" {
		t.Fatalf("annual anchor missing: %+v", good.Snapshot.Annual.Anchor)
	}

	if results[1].HasFacts || results[1].Err != "404 companyfacts" {
		t.Fatalf("not-found case: %+v", results[1])
	}
	if results[2].HasFacts || results[2].Err == "" {
		t.Fatalf("parse failure must populate error: %+v", results[2])
	}
	if results[3].HasFacts || results[3].Err == "" {
		t.Fatalf("transport failure must populate error: %+v", results[3])
	}
	if results[4].Err == "" {
		t.Fatalf("invalid event date must populate error: %+v", results[4])
	}
}

func TestRunnerResultsKeepInputOrder(t *testing.T) {
	fetcher := &fakeFetcher{docs: map[string][]byte{"1": []byte(factsDoc)}}
	runner := NewRunner(fetcher, testBuilder(t), Options{Concurrency: 8}, noopLogger())

	var cases []Case
	for i := 0; i < 40; i++ {
		cases = append(cases, Case{CIK: "1", EventDate: "2021-02-01"})
	}

	results, err := runner.Run(context.Background(), cases)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	for i, res := range results {
		if res.CIK != cases[i].CIK || !res.HasFacts {
			t.Fatalf("result %d out of order or incomplete: %+v", i, res)
		}
	}
}

func TestRunnerCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fetcher := &fakeFetcher{docs: map[string][]byte{"1": []byte(factsDoc)}}
	runner := NewRunner(fetcher, testBuilder(t), Options{Concurrency: 1}, noopLogger())

	_, err := runner.Run(ctx, []Case{{CIK: "1", EventDate: "2021-02-01"}})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("cancelled batch must report cancellation, got %v", err)
	}
}
