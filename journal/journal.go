// Package journal writes reconciliation results: the output CSV and an
// optional SQLite history of runs.
package journal

import (
	"context"
	"time"

	"github.com/rustyeddy/gridrecon/recon"
)

// RunRecord is one journaled reconciliation run.
type RunRecord struct {
	RunID       string
	Created     time.Time
	GridLogName string
	SummaryName string
	MinUsers    int
	OutputName  string
	Stats       recon.Stats
	Warnings    []string
	Rows        []recon.PortfolioResult
}

// Journal records completed runs.
type Journal interface {
	RecordRun(ctx context.Context, run RunRecord) error
	Close() error
}

// Nop is a Journal that records nothing.
type Nop struct{}

func (Nop) RecordRun(context.Context, RunRecord) error { return nil }
func (Nop) Close() error                               { return nil }
