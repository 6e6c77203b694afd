package recon

import (
	"regexp"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/rustyeddy/gridrecon/gridlog"
)

// BreachConfirmations is how many times the same breach message type must
// appear for a portfolio before the breach is trusted. A single message is
// treated as transient.
const BreachConfirmations = 2

// MessageType classifies a breach message.
type MessageType int

const (
	CombinedSL MessageType = iota + 1
	CombinedTrailTarget
)

func (t MessageType) String() string {
	switch t {
	case CombinedSL:
		return "CombinedSL"
	case CombinedTrailTarget:
		return "CombinedTrailTarget"
	}
	return "Unknown"
}

var (
	breachMessage = regexp.MustCompile(`(?i)combined (sl|trail(?:ing)? target):`)
	breachPhrase  = regexp.MustCompile(`(?i)combined (sl|trail(?:ing)? target): ([^ ]+) hit`)
)

// ClassifyMessage reports whether msg is a combined SL or combined trailing
// target message, and which.
func ClassifyMessage(msg string) (MessageType, bool) {
	m := breachMessage.FindStringSubmatch(msg)
	if m == nil {
		return 0, false
	}
	return classify(m[1]), true
}

func classify(kind string) MessageType {
	if strings.EqualFold(kind, "sl") {
		return CombinedSL
	}
	return CombinedTrailTarget
}

// Breach is a parsed "Combined ...: <value> hit" phrase.
type Breach struct {
	Type     MessageType
	Phrase   string // the matched text, casing as logged
	Value    decimal.Decimal
	HasValue bool
}

// ParseBreach finds the first breach phrase in text.
func ParseBreach(text string) (Breach, bool) {
	m := breachPhrase.FindStringSubmatch(text)
	if m == nil {
		return Breach{}, false
	}
	b := Breach{Type: classify(m[1]), Phrase: m[0]}
	if v, err := decimal.NewFromString(strings.ReplaceAll(m[2], ",", "")); err == nil {
		b.Value = v
		b.HasValue = true
	}
	return b, true
}

// Candidate is a confirmed breach for one portfolio: the distinct breach
// messages, in first-seen order, and the latest raw timestamp among them.
type Candidate struct {
	Messages []string
	Time     string
}

// Reason joins the messages the way they appear in the output.
func (c Candidate) Reason() string {
	return strings.Join(c.Messages, ", ")
}

// ExtractBreaches scans qualified records for confirmed breaches. Only
// (portfolio, type) groups with at least BreachConfirmations messages
// survive; survivors are then reduced to one Candidate per portfolio.
func ExtractBreaches(records []gridlog.EventRecord) map[string]Candidate {
	type groupKey struct {
		portfolio string
		kind      MessageType
	}

	var hits []gridlog.EventRecord
	var kinds []MessageType
	counts := map[groupKey]int{}
	for _, r := range records {
		if r.Portfolio == "" {
			continue
		}
		kind, ok := ClassifyMessage(r.Message)
		if !ok {
			continue
		}
		hits = append(hits, r)
		kinds = append(kinds, kind)
		counts[groupKey{r.Portfolio, kind}]++
	}

	out := map[string]Candidate{}
	for i, r := range hits {
		if counts[groupKey{r.Portfolio, kinds[i]}] < BreachConfirmations {
			continue
		}
		c := out[r.Portfolio]
		if !slices.Contains(c.Messages, r.Message) {
			c.Messages = append(c.Messages, r.Message)
		}
		if r.Timestamp > c.Time {
			c.Time = r.Timestamp
		}
		out[r.Portfolio] = c
	}

	log.Debug().
		Int("breach_messages", len(hits)).
		Int("confirmed_portfolios", len(out)).
		Msg("extracted breaches")

	return out
}
