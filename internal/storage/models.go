package storage

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"rx-solvency-snapshot/internal/service"
	"rx-solvency-snapshot/internal/snapshot"
)

// SnapshotRecord is the persisted form of one case result. The headline
// ratios are flattened into columns so they can be queried directly; the
// complete snapshot, tags and anchors included, rides along as JSON.
type SnapshotRecord struct {
	CIK        string
	EventDate  string
	EntityName string
	HasFacts   bool
	Error      *string

	QuarterlyEnd      *string
	QuarterlyCoverage *int

	AnnualEnd      *string
	AnnualCoverage *int

	QuarterlyRatios RatioColumns
	AnnualRatios    RatioColumns

	Payload   json.RawMessage
	CreatedAt time.Time
}

// RatioColumns holds the six solvency ratios for one form class.
type RatioColumns struct {
	CashToLiabilities *decimal.Decimal
	CurrentRatio      *decimal.Decimal
	QuickRatio        *decimal.Decimal
	DebtToAssets      *decimal.Decimal
	InterestCoverage  *decimal.Decimal
	CashFlowToDebt    *decimal.Decimal
}

// RecordFromResult flattens a batch result into its storable form.
func RecordFromResult(res service.Result) (SnapshotRecord, error) {
	payload, err := json.Marshal(res.Snapshot)
	if err != nil {
		return SnapshotRecord{}, err
	}

	rec := SnapshotRecord{
		CIK:             res.CIK,
		EventDate:       res.EventDate,
		EntityName:      res.EntityName,
		HasFacts:        res.HasFacts,
		QuarterlyRatios: ratioColumns(res.Snapshot.Quarterly),
		AnnualRatios:    ratioColumns(res.Snapshot.Annual),
		Payload:         payload,
	}
	if res.Err != "" {
		msg := res.Err
		rec.Error = &msg
	}
	if a := res.Snapshot.Quarterly.Anchor; a != nil {
		end, cov := a.End, a.Coverage
		rec.QuarterlyEnd, rec.QuarterlyCoverage = &end, &cov
	}
	if a := res.Snapshot.Annual.Anchor; a != nil {
		end, cov := a.End, a.Coverage
		rec.AnnualEnd, rec.AnnualCoverage = &end, &cov
	}
	return rec, nil
}

func ratioColumns(r snapshot.Report) RatioColumns {
	return RatioColumns{
		CashToLiabilities: r.CashToLiabilities,
		CurrentRatio:      r.CurrentRatio,
		QuickRatio:        r.QuickRatio,
		DebtToAssets:      r.DebtToAssets,
		InterestCoverage:  r.InterestCoverage,
		CashFlowToDebt:    r.CashFlowToDebt,
	}
}
