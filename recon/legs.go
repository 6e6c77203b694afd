package recon

import (
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/rustyeddy/gridrecon/gridlog"
)

// Exit is a square-off exit: the latest OnSqOffTime exit time of one
// portfolio on one sheet.
type Exit struct {
	Portfolio string
	Time      string
}

// CompletedLeg is a completed leg with a usable exit. ExitTime is
// normalized with gridlog.NormalizeTime.
type CompletedLeg struct {
	ExitTime string
	ExitType string
}

// LegSummary is the output of AggregateLegs.
type LegSummary struct {
	SquareOffs     []Exit
	FullyCompleted PortfolioSet
	CompletedLegs  map[string][]CompletedLeg
}

const (
	statusCompleted = "completed"
	statusRejected  = "rejected"
)

// AggregateLegs scans every legs sheet for square-off exits and fully
// completed portfolios. Only portfolios in qualified are considered. A
// sheet missing the columns for one of the two scans is skipped for that
// scan; the skip is logged but not surfaced to the caller.
func AggregateLegs(sheets []gridlog.LegSheet, qualified PortfolioSet) LegSummary {
	sum := LegSummary{
		FullyCompleted: PortfolioSet{},
		CompletedLegs:  map[string][]CompletedLeg{},
	}

	for _, sheet := range sheets {
		if sheet.CanDetectSquareOff() {
			sum.SquareOffs = append(sum.SquareOffs, squareOffs(sheet, qualified)...)
		} else {
			log.Warn().Str("sheet", sheet.Name).Msg("legs sheet lacks exit columns; skipping square-off detection")
		}

		if sheet.CanDetectCompletion() {
			completions(sheet, qualified, &sum)
		} else {
			log.Warn().Str("sheet", sheet.Name).Msg("legs sheet lacks status columns; skipping completion detection")
		}
	}

	log.Debug().
		Int("sheets", len(sheets)).
		Int("square_offs", len(sum.SquareOffs)).
		Int("fully_completed", len(sum.FullyCompleted)).
		Msg("aggregated legs")

	return sum
}

func squareOffs(sheet gridlog.LegSheet, qualified PortfolioSet) []Exit {
	latest := map[string]string{}
	for _, leg := range sheet.Records {
		if leg.PortfolioName == "" || !qualified.Has(leg.PortfolioName) {
			continue
		}
		if strings.TrimSpace(leg.ExitType) != SquareOff {
			continue
		}
		if t, ok := latest[leg.PortfolioName]; !ok || leg.ExitTime > t {
			latest[leg.PortfolioName] = leg.ExitTime
		}
	}

	out := make([]Exit, 0, len(latest))
	for p, t := range latest {
		out = append(out, Exit{Portfolio: p, Time: t})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Portfolio < out[j].Portfolio })
	return out
}

func completions(sheet gridlog.LegSheet, qualified PortfolioSet, sum *LegSummary) {
	var order []string
	legs := map[string][]gridlog.LegRecord{}
	for _, leg := range sheet.Records {
		if leg.PortfolioName == "" || !qualified.Has(leg.PortfolioName) {
			continue
		}
		if _, ok := legs[leg.PortfolioName]; !ok {
			order = append(order, leg.PortfolioName)
		}
		legs[leg.PortfolioName] = append(legs[leg.PortfolioName], leg)
	}

	for _, p := range order {
		if !fullyCompleted(legs[p]) {
			continue
		}
		sum.FullyCompleted.Add(p)

		for _, leg := range legs[p] {
			if normalizeStatus(leg.Status) != statusCompleted {
				continue
			}
			exitTime := gridlog.NormalizeTime(leg.ExitTime)
			exitType := strings.TrimSpace(leg.ExitType)
			if exitTime == "" || exitType == "" || strings.EqualFold(exitType, "nan") {
				continue
			}
			sum.CompletedLegs[p] = append(sum.CompletedLegs[p], CompletedLeg{ExitTime: exitTime, ExitType: exitType})
		}
	}
}

// fullyCompleted reports whether every recognized status is terminal.
// Blank statuses are ignored but at least one recognized status is needed.
func fullyCompleted(legs []gridlog.LegRecord) bool {
	seen := false
	for _, leg := range legs {
		s := normalizeStatus(leg.Status)
		if s == "" {
			continue
		}
		if s != statusCompleted && s != statusRejected {
			return false
		}
		seen = true
	}
	return seen
}

func normalizeStatus(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "nan" || s == "none" {
		return ""
	}
	return s
}
