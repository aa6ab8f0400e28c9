package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"rx-solvency-snapshot/internal/service"
)

var (
	// ErrNotConfigured indicates the storage pool was not initialised.
	ErrNotConfigured = errors.New("storage: pool not configured")
)

const (
	createSnapshotsTableSQL = `CREATE TABLE IF NOT EXISTS solvency_snapshots (
        cik                 TEXT        NOT NULL,
        event_date          DATE        NOT NULL,
        entity_name         TEXT        NOT NULL DEFAULT '',
        has_companyfacts    BOOLEAN     NOT NULL DEFAULT FALSE,
        error               TEXT,
        q_report_end        DATE,
        q_coverage          INTEGER,
        q_cash_to_liab      NUMERIC,
        q_current_ratio     NUMERIC,
        q_quick_ratio       NUMERIC,
        q_debt_to_assets    NUMERIC,
        q_interest_coverage NUMERIC,
        q_ocf_to_debt       NUMERIC,
        a_report_end        DATE,
        a_coverage          INTEGER,
        a_cash_to_liab      NUMERIC,
        a_current_ratio     NUMERIC,
        a_quick_ratio       NUMERIC,
        a_debt_to_assets    NUMERIC,
        a_interest_coverage NUMERIC,
        a_ocf_to_debt       NUMERIC,
        payload             JSONB       NOT NULL,
        created_at          TIMESTAMPTZ NOT NULL DEFAULT now(),
        PRIMARY KEY (cik, event_date)
    );`

	snapshotColumns = `cik,
        event_date,
        entity_name,
        has_companyfacts,
        error,
        q_report_end,
        q_coverage,
        q_cash_to_liab,
        q_current_ratio,
        q_quick_ratio,
        q_debt_to_assets,
        q_interest_coverage,
        q_ocf_to_debt,
        a_report_end,
        a_coverage,
        a_cash_to_liab,
        a_current_ratio,
        a_quick_ratio,
        a_debt_to_assets,
        a_interest_coverage,
        a_ocf_to_debt,
        payload,
        created_at`

	upsertSnapshotSQL = `INSERT INTO solvency_snapshots (
        cik,
        event_date,
        entity_name,
        has_companyfacts,
        error,
        q_report_end,
        q_coverage,
        q_cash_to_liab,
        q_current_ratio,
        q_quick_ratio,
        q_debt_to_assets,
        q_interest_coverage,
        q_ocf_to_debt,
        a_report_end,
        a_coverage,
        a_cash_to_liab,
        a_current_ratio,
        a_quick_ratio,
        a_debt_to_assets,
        a_interest_coverage,
        a_ocf_to_debt,
        payload
    ) VALUES (
        $1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22
    )
    ON CONFLICT (cik, event_date) DO UPDATE
    SET
        entity_name         = EXCLUDED.entity_name,
        has_companyfacts    = EXCLUDED.has_companyfacts,
        error               = EXCLUDED.error,
        q_report_end        = EXCLUDED.q_report_end,
        q_coverage          = EXCLUDED.q_coverage,
        q_cash_to_liab      = EXCLUDED.q_cash_to_liab,
        q_current_ratio     = EXCLUDED.q_current_ratio,
        q_quick_ratio       = EXCLUDED.q_quick_ratio,
        q_debt_to_assets    = EXCLUDED.q_debt_to_assets,
        q_interest_coverage = EXCLUDED.q_interest_coverage,
        q_ocf_to_debt       = EXCLUDED.q_ocf_to_debt,
        a_report_end        = EXCLUDED.a_report_end,
        a_coverage          = EXCLUDED.a_coverage,
        a_cash_to_liab      = EXCLUDED.a_cash_to_liab,
        a_current_ratio     = EXCLUDED.a_current_ratio,
        a_quick_ratio       = EXCLUDED.a_quick_ratio,
        a_debt_to_assets    = EXCLUDED.a_debt_to_assets,
        a_interest_coverage = EXCLUDED.a_interest_coverage,
        a_ocf_to_debt       = EXCLUDED.a_ocf_to_debt,
        payload             = EXCLUDED.payload;`

	listSnapshotsByCIKSQL = `SELECT ` + snapshotColumns + `
    FROM solvency_snapshots
    WHERE cik = $1
    ORDER BY event_date;`

	listRecentSnapshotsSQL = `SELECT ` + snapshotColumns + `
    FROM solvency_snapshots
    ORDER BY created_at DESC
    LIMIT $1;`

	countSnapshotsSQL = `SELECT COUNT(*) FROM solvency_snapshots;`
)

// SnapshotStore defines operations for snapshot persistence.
type SnapshotStore interface {
	EnsureSchema(ctx context.Context) error
	UpsertSnapshot(ctx context.Context, rec SnapshotRecord) error
	UpsertResults(ctx context.Context, results []service.Result) error
	ListByCIK(ctx context.Context, cik string) ([]SnapshotRecord, error)
	ListRecent(ctx context.Context, limit int) ([]SnapshotRecord, error)
	CountSnapshots(ctx context.Context) (int64, error)
}

// Store provides PostgreSQL-backed snapshot persistence.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore wires a pgx pool into a Store.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Close releases the underlying pool resources.
func (s *Store) Close() {
	if s == nil || s.pool == nil {
		return
	}
	s.pool.Close()
}

func (s *Store) getPool() (*pgxpool.Pool, error) {
	if s == nil || s.pool == nil {
		return nil, ErrNotConfigured
	}
	return s.pool, nil
}

// EnsureSchema creates the snapshots table if it does not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	pool, err := s.getPool()
	if err != nil {
		return err
	}
	if _, execErr := pool.Exec(ctx, createSnapshotsTableSQL); execErr != nil {
		return fmt.Errorf("ensure schema: %w", execErr)
	}
	return nil
}

// UpsertSnapshot persists or replaces the record for one (cik, event date).
func (s *Store) UpsertSnapshot(ctx context.Context, rec SnapshotRecord) error {
	pool, err := s.getPool()
	if err != nil {
		return err
	}

	_, execErr := pool.Exec(ctx, upsertSnapshotSQL,
		rec.CIK,
		rec.EventDate,
		rec.EntityName,
		rec.HasFacts,
		rec.Error,
		rec.QuarterlyEnd,
		rec.QuarterlyCoverage,
		ratioArg(rec.QuarterlyRatios.CashToLiabilities),
		ratioArg(rec.QuarterlyRatios.CurrentRatio),
		ratioArg(rec.QuarterlyRatios.QuickRatio),
		ratioArg(rec.QuarterlyRatios.DebtToAssets),
		ratioArg(rec.QuarterlyRatios.InterestCoverage),
		ratioArg(rec.QuarterlyRatios.CashFlowToDebt),
		rec.AnnualEnd,
		rec.AnnualCoverage,
		ratioArg(rec.AnnualRatios.CashToLiabilities),
		ratioArg(rec.AnnualRatios.CurrentRatio),
		ratioArg(rec.AnnualRatios.QuickRatio),
		ratioArg(rec.AnnualRatios.DebtToAssets),
		ratioArg(rec.AnnualRatios.InterestCoverage),
		ratioArg(rec.AnnualRatios.CashFlowToDebt),
		[]byte(rec.Payload),
	)
	if execErr != nil {
		return fmt.Errorf("upsert snapshot: %w", execErr)
	}
	return nil
}

// UpsertResults flattens and persists a whole batch.
func (s *Store) UpsertResults(ctx context.Context, results []service.Result) error {
	for _, res := range results {
		rec, err := RecordFromResult(res)
		if err != nil {
			return fmt.Errorf("flatten result for cik %s: %w", res.CIK, err)
		}
		if err := s.UpsertSnapshot(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}

// ListByCIK lists the stored snapshots for one company in event-date order.
func (s *Store) ListByCIK(ctx context.Context, cik string) ([]SnapshotRecord, error) {
	pool, err := s.getPool()
	if err != nil {
		return nil, err
	}

	rows, queryErr := pool.Query(ctx, listSnapshotsByCIKSQL, cik)
	if queryErr != nil {
		return nil, fmt.Errorf("list snapshots by cik: %w", queryErr)
	}
	defer rows.Close()

	return collectRecords(rows)
}

// ListRecent lists the most recently written snapshots.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]SnapshotRecord, error) {
	pool, err := s.getPool()
	if err != nil {
		return nil, err
	}

	rows, queryErr := pool.Query(ctx, listRecentSnapshotsSQL, limit)
	if queryErr != nil {
		return nil, fmt.Errorf("list recent snapshots: %w", queryErr)
	}
	defer rows.Close()

	return collectRecords(rows)
}

// CountSnapshots counts stored snapshots.
func (s *Store) CountSnapshots(ctx context.Context) (int64, error) {
	pool, err := s.getPool()
	if err != nil {
		return 0, err
	}
	var count int64
	if scanErr := pool.QueryRow(ctx, countSnapshotsSQL).Scan(&count); scanErr != nil {
		return 0, fmt.Errorf("count snapshots: %w", scanErr)
	}
	return count, nil
}

func collectRecords(rows pgx.Rows) ([]SnapshotRecord, error) {
	records := make([]SnapshotRecord, 0)
	for rows.Next() {
		rec, scanErr := scanSnapshotRecord(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		records = append(records, rec)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return records, nil
}

func scanSnapshotRecord(rows pgx.Rows) (SnapshotRecord, error) {
	var (
		eventDate  time.Time
		errMsg     sql.NullString
		qEnd, aEnd sql.NullTime
		qCov, aCov sql.NullInt64
		qRatios    [6]sql.NullString
		aRatios    [6]sql.NullString
		payload    json.RawMessage
		rec        SnapshotRecord
	)

	if err := rows.Scan(
		&rec.CIK,
		&eventDate,
		&rec.EntityName,
		&rec.HasFacts,
		&errMsg,
		&qEnd,
		&qCov,
		&qRatios[0], &qRatios[1], &qRatios[2], &qRatios[3], &qRatios[4], &qRatios[5],
		&aEnd,
		&aCov,
		&aRatios[0], &aRatios[1], &aRatios[2], &aRatios[3], &aRatios[4], &aRatios[5],
		&payload,
		&rec.CreatedAt,
	); err != nil {
		return SnapshotRecord{}, err
	}

	rec.EventDate = eventDate.Format("2006-01-02")
	rec.Payload = payload

	if errMsg.Valid {
		msg := errMsg.String
		rec.Error = &msg
	}
	if qEnd.Valid {
		end := qEnd.Time.Format("2006-01-02")
		rec.QuarterlyEnd = &end
	}
	if aEnd.Valid {
		end := aEnd.Time.Format("2006-01-02")
		rec.AnnualEnd = &end
	}
	if qCov.Valid {
		cov := int(qCov.Int64)
		rec.QuarterlyCoverage = &cov
	}
	if aCov.Valid {
		cov := int(aCov.Int64)
		rec.AnnualCoverage = &cov
	}

	var err error
	if rec.QuarterlyRatios, err = parseRatios(qRatios); err != nil {
		return SnapshotRecord{}, err
	}
	if rec.AnnualRatios, err = parseRatios(aRatios); err != nil {
		return SnapshotRecord{}, err
	}
	return rec, nil
}

func parseRatios(raw [6]sql.NullString) (RatioColumns, error) {
	out := [6]*decimal.Decimal{}
	for i, s := range raw {
		if !s.Valid {
			continue
		}
		d, err := decimal.NewFromString(s.String)
		if err != nil {
			return RatioColumns{}, fmt.Errorf("parse ratio column: %w", err)
		}
		out[i] = &d
	}
	return RatioColumns{
		CashToLiabilities: out[0],
		CurrentRatio:      out[1],
		QuickRatio:        out[2],
		DebtToAssets:      out[3],
		InterestCoverage:  out[4],
		CashFlowToDebt:    out[5],
	}, nil
}

func ratioArg(d *decimal.Decimal) interface{} {
	if d == nil {
		return nil
	}
	return d.String()
}
