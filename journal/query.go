package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/gridrecon/recon"
)

// ResultRecord is a stored output row plus the parsed breach level, if any.
type ResultRecord struct {
	recon.PortfolioResult
	BreachValue decimal.NullDecimal
}

const runColumns = `run_id, created_at, gridlog_name, summary_name, min_users, output_name,
	event_rows, qualified, fully_completed, results, warnings`

// GetRun returns a single run by ID. Rows is left empty; see ListResults.
func (j *SQLite) GetRun(ctx context.Context, runID string) (RunRecord, error) {
	row := j.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE run_id = ?`, runID)

	rec, err := scanRun(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return RunRecord{}, fmt.Errorf("run %q not found", runID)
		}
		return RunRecord{}, err
	}
	return rec, nil
}

// ListRuns returns the most recent runs, newest first.
func (j *SQLite) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT `+runColumns+`
		FROM runs
		ORDER BY created_at DESC, run_id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		rec, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListResults returns the stored rows of a run ordered by portfolio.
func (j *SQLite) ListResults(ctx context.Context, runID string) ([]ResultRecord, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT portfolio, reason, time, breach_value
		FROM results
		WHERE run_id = ?
		ORDER BY portfolio ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ResultRecord
	for rows.Next() {
		var rec ResultRecord
		if err := rows.Scan(
			&rec.Portfolio,
			&rec.Reason,
			&rec.Time,
			&rec.BreachValue,
		); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (RunRecord, error) {
	var (
		rec      RunRecord
		warnings string
	)
	err := s.Scan(
		&rec.RunID,
		&rec.Created,
		&rec.GridLogName,
		&rec.SummaryName,
		&rec.MinUsers,
		&rec.OutputName,
		&rec.Stats.EventRows,
		&rec.Stats.QualifiedPortfolios,
		&rec.Stats.FullyCompleted,
		&rec.Stats.Results,
		&warnings,
	)
	if err != nil {
		return RunRecord{}, err
	}
	if warnings != "" {
		rec.Warnings = strings.Split(warnings, "\n")
	}
	return rec, nil
}
