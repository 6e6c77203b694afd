package recon

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

const reasonSep = ", "

// CleanReason reduces a merged reason to its output form. A breach phrase
// wins over the AllLegsCompleted marker and over raw message text; an
// OnSqOffTime marker is kept next to it. Without a breach the
// AllLegsCompleted marker is stripped and only used as the fallback when
// nothing else remains.
func CleanReason(reason string) string {
	tokens := strings.Split(reason, reasonSep)

	if b, ok := ParseBreach(reason); ok {
		out := []string{b.Phrase}
		for _, t := range tokens {
			if strings.TrimSpace(t) == SquareOff {
				out = append(out, SquareOff)
				break
			}
		}
		return strings.Join(out, reasonSep)
	}

	var kept []string
	for _, t := range tokens {
		t = strings.Trim(t, ", ")
		if t == "" || t == AllLegsCompleted {
			continue
		}
		kept = append(kept, t)
	}
	if len(kept) == 0 {
		return AllLegsCompleted
	}
	return strings.Join(kept, reasonSep)
}

// Refine upgrades rows whose reason is exactly AllLegsCompleted to the exit
// type of their latest completed leg, provided that leg's exit time was
// also observed in the event log for the same portfolio.
func Refine(rows []PortfolioResult, legs map[string][]CompletedLeg, observed map[string]map[string]struct{}) {
	for i := range rows {
		if rows[i].Reason != AllLegsCompleted {
			continue
		}
		times := observed[rows[i].Portfolio]
		if len(times) == 0 {
			continue
		}

		var best *CompletedLeg
		var bestAt time.Duration
		for j, leg := range legs[rows[i].Portfolio] {
			if _, ok := times[leg.ExitTime]; !ok {
				continue
			}
			at := clock(leg.ExitTime)
			if best == nil || at > bestAt {
				best = &legs[rows[i].Portfolio][j]
				bestAt = at
			}
		}
		if best != nil {
			rows[i].Reason = best.ExitType
			rows[i].Time = best.ExitTime
		}
	}
}

// clock parses a time of day into its offset from midnight. Unparseable
// text sorts before every valid time.
func clock(s string) time.Duration {
	for _, layout := range []string{"15:04:05.999999999", "15:04:05"} {
		t, err := time.Parse(layout, s)
		if err == nil {
			return time.Duration(t.Hour())*time.Hour +
				time.Duration(t.Minute())*time.Minute +
				time.Duration(t.Second())*time.Second +
				time.Duration(t.Nanosecond())
		}
	}
	return -1
}

// RenderTime is the final form of the Time column.
func RenderTime(s string) string {
	s = strings.TrimSpace(s)
	if s == "nan" || s == "None" {
		return ""
	}
	return s
}

var fileDate = regexp.MustCompile(`(\d{1,2})\s+([A-Za-z]{3})\s+\d{4}`)

// UnknownDate stands in for the date when the GridLog file name has none.
const UnknownDate = "unknown_date"

// OutputName derives the result file name from the GridLog file name,
// e.g. "gridlog 5 Jan 2024.csv" gives "completed portfolio of 5 jan.csv".
func OutputName(gridlogName string) string {
	date := UnknownDate
	if m := fileDate.FindStringSubmatch(gridlogName); m != nil {
		date = m[1] + " " + strings.ToLower(m[2])
	}
	return fmt.Sprintf("completed portfolio of %s.csv", date)
}
