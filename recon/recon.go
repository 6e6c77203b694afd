// Package recon reconciles GridLog events and SUMMARY workbook legs into
// one finishing reason and time per portfolio.
//
// The pipeline is a pure function of its inputs: Run builds all of its
// state per call and never touches package-level mutable data, so
// concurrent runs are independent.
package recon

import (
	"errors"
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/rustyeddy/gridrecon/gridlog"
)

// Reason markers produced by the workbook side of the reconciliation.
const (
	SquareOff        = "OnSqOffTime"
	AllLegsCompleted = "AllLegsCompleted"
)

// Bounds for Config.MinUsers.
const (
	MinUsersFloor   = 1
	MinUsersCeiling = 50
)

// Config holds the single user-facing parameter of a run.
type Config struct {
	MinUsers int
}

// Validate checks the threshold bounds.
func (c Config) Validate() error {
	if c.MinUsers < MinUsersFloor || c.MinUsers > MinUsersCeiling {
		return fmt.Errorf("min users must be between %d and %d, got %d", MinUsersFloor, MinUsersCeiling, c.MinUsers)
	}
	return nil
}

// PortfolioResult is one output row.
type PortfolioResult struct {
	Portfolio string
	Reason    string
	Time      string
}

// Stats summarizes a run.
type Stats struct {
	EventRows           int // GridLog rows left after qualification
	EventPortfolios     int // distinct portfolios before qualification
	QualifiedPortfolios int
	FullyCompleted      int
	Results             int
}

// Result is the output of Run. Rows are sorted by portfolio.
type Result struct {
	Rows       []PortfolioResult
	Warnings   []string
	Stats      Stats
	OutputName string
}

// Run executes the whole reconciliation for one pair of inputs.
func Run(events *gridlog.EventLog, wb *gridlog.Workbook, cfg Config) (Result, error) {
	if events == nil {
		return Result{}, errors.New("recon: nil event log")
	}
	if wb == nil {
		return Result{}, errors.New("recon: nil workbook")
	}
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}

	var res Result

	qualified, warn := Qualify(events.Records, events.HasUserID, cfg.MinUsers)
	res.Warnings = append(res.Warnings, warn...)
	records := qualified.Filter(events.Records)

	breaches := ExtractBreaches(records)

	legs := AggregateLegs(wb.Legs, qualified)

	rows := Reconcile(legs.SquareOffs, legs.FullyCompleted, breaches)
	for i := range rows {
		rows[i].Reason = CleanReason(rows[i].Reason)
	}
	Refine(rows, legs.CompletedLegs, observedTimes(records))
	for i := range rows {
		rows[i].Time = RenderTime(rows[i].Time)
	}

	res.Rows = rows
	res.OutputName = OutputName(events.Name)
	res.Stats = Stats{
		EventRows:           len(records),
		EventPortfolios:     len(events.Portfolios()),
		QualifiedPortfolios: len(qualified),
		FullyCompleted:      len(legs.FullyCompleted),
		Results:             len(rows),
	}

	for _, w := range res.Warnings {
		log.Warn().Msg(w)
	}
	log.Info().
		Int("event_rows", res.Stats.EventRows).
		Int("portfolios", res.Stats.EventPortfolios).
		Int("qualified", res.Stats.QualifiedPortfolios).
		Int("fully_completed", res.Stats.FullyCompleted).
		Int("results", res.Stats.Results).
		Msg("reconciliation complete")

	return res, nil
}

// observedTimes maps each portfolio to the normalized timestamps seen for
// it in the event log.
func observedTimes(records []gridlog.EventRecord) map[string]map[string]struct{} {
	out := map[string]map[string]struct{}{}
	for _, r := range records {
		if r.Portfolio == "" || r.NormalizedTimestamp == "" {
			continue
		}
		set, ok := out[r.Portfolio]
		if !ok {
			set = map[string]struct{}{}
			out[r.Portfolio] = set
		}
		set[r.NormalizedTimestamp] = struct{}{}
	}
	return out
}

// PortfolioSet is a set of portfolio names.
type PortfolioSet map[string]struct{}

func (s PortfolioSet) Has(p string) bool {
	_, ok := s[p]
	return ok
}

func (s PortfolioSet) Add(p string) {
	s[p] = struct{}{}
}

// Sorted returns the members in ascending order.
func (s PortfolioSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for p := range s {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Filter keeps the records whose portfolio is in the set.
func (s PortfolioSet) Filter(records []gridlog.EventRecord) []gridlog.EventRecord {
	out := make([]gridlog.EventRecord, 0, len(records))
	for _, r := range records {
		if s.Has(r.Portfolio) {
			out = append(out, r)
		}
	}
	return out
}
