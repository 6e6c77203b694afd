package journal

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/rustyeddy/gridrecon/recon"
)

type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLite{db: db}, nil
}

// RecordRun stores the run and its rows in one transaction.
func (j *SQLite) RecordRun(ctx context.Context, run RunRecord) error {
	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs
		(run_id, created_at, gridlog_name, summary_name, min_users, output_name,
		 event_rows, qualified, fully_completed, results, warnings)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.RunID, run.Created.UTC(), run.GridLogName, run.SummaryName, run.MinUsers, run.OutputName,
		run.Stats.EventRows, run.Stats.QualifiedPortfolios, run.Stats.FullyCompleted, run.Stats.Results,
		strings.Join(run.Warnings, "\n"),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for _, r := range run.Rows {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO results (run_id, portfolio, reason, time, breach_value)
			VALUES (?, ?, ?, ?, ?)`,
			run.RunID, r.Portfolio, r.Reason, r.Time, breachValue(r.Reason),
		); err != nil {
			return fmt.Errorf("insert result %q: %w", r.Portfolio, err)
		}
	}

	return tx.Commit()
}

func (j *SQLite) Close() error {
	return j.db.Close()
}

// breachValue is the numeric level of a breach reason, or NULL.
func breachValue(reason string) sql.NullString {
	b, ok := recon.ParseBreach(reason)
	if !ok || !b.HasValue {
		return sql.NullString{}
	}
	return sql.NullString{String: b.Value.String(), Valid: true}
}
