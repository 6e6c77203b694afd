// Package pipeline runs one reconciliation end to end and journals it. It
// is shared by the CLI and the HTTP server.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/rustyeddy/gridrecon/gridlog"
	"github.com/rustyeddy/gridrecon/journal"
	"github.com/rustyeddy/gridrecon/pkg/id"
	"github.com/rustyeddy/gridrecon/recon"
)

// Processor turns loaded inputs into a journaled result. It holds no
// per-run state and may be shared by concurrent callers as long as the
// Journal is safe for concurrent use.
type Processor struct {
	Journal journal.Journal
	NewID   func() string
	Now     func() time.Time
}

// New returns a Processor recording to j. A nil j records nothing.
func New(j journal.Journal) *Processor {
	if j == nil {
		j = journal.Nop{}
	}
	return &Processor{Journal: j, NewID: id.New, Now: time.Now}
}

// Outcome is a finished run.
type Outcome struct {
	RunID  string
	Result recon.Result
}

// Process reconciles events against wb and records the run.
func (p *Processor) Process(ctx context.Context, events *gridlog.EventLog, wb *gridlog.Workbook, cfg recon.Config) (Outcome, error) {
	runID := p.NewID()
	logger := log.With().Str("run_id", runID).Logger()

	res, err := recon.Run(events, wb, cfg)
	if err != nil {
		return Outcome{}, err
	}

	err = p.Journal.RecordRun(ctx, journal.RunRecord{
		RunID:       runID,
		Created:     p.Now(),
		GridLogName: events.Name,
		SummaryName: wb.Name,
		MinUsers:    cfg.MinUsers,
		OutputName:  res.OutputName,
		Stats:       res.Stats,
		Warnings:    res.Warnings,
		Rows:        res.Rows,
	})
	if err != nil {
		return Outcome{}, fmt.Errorf("journal run: %w", err)
	}

	logger.Info().
		Str("gridlog", events.Name).
		Str("summary", wb.Name).
		Str("output", res.OutputName).
		Int("rows", len(res.Rows)).
		Msg("run processed")

	return Outcome{RunID: runID, Result: res}, nil
}

// OpenJournal opens the journal named by kind ("none" or "sqlite").
func OpenJournal(kind, dbPath string) (journal.Journal, error) {
	switch kind {
	case "", "none":
		return journal.Nop{}, nil
	case "sqlite":
		j, err := journal.NewSQLite(dbPath)
		if err != nil {
			return nil, fmt.Errorf("open journal %s: %w", dbPath, err)
		}
		return j, nil
	}
	return nil, fmt.Errorf("unknown journal type %q", kind)
}
