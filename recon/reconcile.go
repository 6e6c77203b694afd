package recon

import (
	"sort"
	"strings"
)

// entry accumulates the reasons of one portfolio and the time of each row
// seeded for it. Several sheets can each seed a row.
type entry struct {
	reasons []string
	times   []string
}

// builder is the portfolio-keyed table the Reconciler fills in precedence
// order.
type builder struct {
	entries map[string]*entry
}

func newBuilder() *builder {
	return &builder{entries: map[string]*entry{}}
}

func (b *builder) has(portfolio string) bool {
	_, ok := b.entries[portfolio]
	return ok
}

// insert seeds a new row for the portfolio.
func (b *builder) insert(portfolio, time string, reasons ...string) {
	e, ok := b.entries[portfolio]
	if !ok {
		e = &entry{}
		b.entries[portfolio] = e
	}
	e.reasons = append(e.reasons, reasons...)
	e.times = append(e.times, time)
}

// upsert creates the entry or merges into its first row. A non-empty time
// replaces the one the first row recorded.
func (b *builder) upsert(portfolio, time string, reasons ...string) {
	e, ok := b.entries[portfolio]
	if !ok {
		b.insert(portfolio, time, reasons...)
		return
	}
	e.reasons = append(e.reasons, reasons...)
	if time != "" {
		e.times[0] = time
	}
}

// results merges every entry into one row: the distinct reasons sorted and
// comma-joined, and the last non-empty time across its rows.
func (b *builder) results() []PortfolioResult {
	out := make([]PortfolioResult, 0, len(b.entries))
	for p, e := range b.entries {
		out = append(out, PortfolioResult{
			Portfolio: p,
			Reason:    strings.Join(dedupe(e.reasons), ", "),
			Time:      lastNonEmpty(e.times),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Portfolio < out[j].Portfolio })
	return out
}

func lastNonEmpty(times []string) string {
	for i := len(times) - 1; i >= 0; i-- {
		if times[i] != "" {
			return times[i]
		}
	}
	return ""
}

// Reconcile merges the workbook and event-log signals into one row per
// portfolio. Square-off exits are seeded first, one row per sheet, then
// fully completed portfolios without an entry get AllLegsCompleted, then
// confirmed breaches are merged into the first row, but only for fully
// completed portfolios. Reasons are returned uncleaned; see CleanReason.
func Reconcile(squareOffs []Exit, fullyCompleted PortfolioSet, breaches map[string]Candidate) []PortfolioResult {
	b := newBuilder()

	for _, x := range squareOffs {
		b.insert(x.Portfolio, x.Time, SquareOff)
	}

	for _, p := range fullyCompleted.Sorted() {
		if !b.has(p) {
			b.insert(p, "", AllLegsCompleted)
		}
	}

	portfolios := make([]string, 0, len(breaches))
	for p := range breaches {
		portfolios = append(portfolios, p)
	}
	sort.Strings(portfolios)
	for _, p := range portfolios {
		if !fullyCompleted.Has(p) {
			continue
		}
		c := breaches[p]
		b.upsert(p, c.Time, c.Messages...)
	}

	return b.results()
}

func dedupe(in []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
