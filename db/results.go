package db

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"time"

	"shakeup-scraper/models"
)

// ResultRecord is a stored shakeup result
type ResultRecord struct {
	ID              int
	RunID           int
	CompetitionName string
	ShakeupAll      sql.NullFloat64
	ShakeupTop10Pct sql.NullFloat64
	RankCorrelation sql.NullFloat64
	Entries         int
	CreatedAt       time.Time
}

// nullFloat stores NaN as SQL NULL
func nullFloat(v float64) sql.NullFloat64 {
	if math.IsNaN(v) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: v, Valid: true}
}

// floatOrNaN reverses nullFloat
func floatOrNaN(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}

// ToResult converts the record back into a ShakeupResult
func (r ResultRecord) ToResult() models.ShakeupResult {
	return models.ShakeupResult{
		CompetitionName: r.CompetitionName,
		ShakeupAll:      floatOrNaN(r.ShakeupAll),
		ShakeupTop10Pct: floatOrNaN(r.ShakeupTop10Pct),
		RankCorrelation: floatOrNaN(r.RankCorrelation),
		Entries:         r.Entries,
	}
}

// SaveResults stores results as one run in a single transaction and returns the run id
func (db *DB) SaveResults(ctx context.Context, source string, results []models.ShakeupResult) (int, error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var runID int
	err = tx.QueryRowContext(ctx,
		`INSERT INTO runs (source, results_count) VALUES ($1, $2) RETURNING id`,
		source, len(results),
	).Scan(&runID)
	if err != nil {
		return 0, fmt.Errorf("failed to create run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO shakeup_results (run_id, competition_name, shakeup_all, shakeup_top10pct, rank_correlation, entries)
		VALUES ($1, $2, $3, $4, $5, $6)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range results {
		_, err := stmt.ExecContext(ctx, runID, r.CompetitionName,
			nullFloat(r.ShakeupAll), nullFloat(r.ShakeupTop10Pct), nullFloat(r.RankCorrelation), r.Entries)
		if err != nil {
			return 0, fmt.Errorf("failed to insert result for %s: %w", r.CompetitionName, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit results: %w", err)
	}

	db.logger.Info().Int("run_id", runID).Int("results", len(results)).Msg("saved results")
	return runID, nil
}

// GetRunResults returns the results stored for a run, in insertion order
func (db *DB) GetRunResults(ctx context.Context, runID int) ([]ResultRecord, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, run_id, competition_name, shakeup_all, shakeup_top10pct, rank_correlation, entries, created_at
		FROM shakeup_results
		WHERE run_id = $1
		ORDER BY id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query results: %w", err)
	}
	defer rows.Close()

	var records []ResultRecord
	for rows.Next() {
		var r ResultRecord
		if err := rows.Scan(&r.ID, &r.RunID, &r.CompetitionName, &r.ShakeupAll, &r.ShakeupTop10Pct,
			&r.RankCorrelation, &r.Entries, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
