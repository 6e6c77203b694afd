package recon

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/rustyeddy/gridrecon/gridlog"
)

// Qualify returns the portfolios with at least minUsers distinct user ids.
// When the event log has no UserID column every named portfolio qualifies
// and a warning is returned instead.
func Qualify(records []gridlog.EventRecord, hasUserID bool, minUsers int) (PortfolioSet, []string) {
	qualified := PortfolioSet{}

	if !hasUserID {
		for _, r := range records {
			if r.Portfolio != "" {
				qualified.Add(r.Portfolio)
			}
		}
		return qualified, []string{
			fmt.Sprintf("'%s' column not found; skipping unique-user filtering", gridlog.ColUserID),
		}
	}

	users := map[string]map[string]struct{}{}
	for _, r := range records {
		if r.Portfolio == "" || r.UserID == "" {
			continue
		}
		set, ok := users[r.Portfolio]
		if !ok {
			set = map[string]struct{}{}
			users[r.Portfolio] = set
		}
		set[r.UserID] = struct{}{}
	}

	for p, set := range users {
		if len(set) >= minUsers {
			qualified.Add(p)
		}
	}

	log.Debug().
		Int("min_users", minUsers).
		Int("portfolios", len(users)).
		Int("qualified", len(qualified)).
		Msg("qualified portfolios")

	return qualified, nil
}
