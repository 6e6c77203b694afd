package gridlog

import (
	"io"
	"os"
	"path/filepath"
	"strings"
)

const eventLogInput = "GridLog"

// LoadEventLog reads a GridLog export from disk. Files ending in .xlsx are
// read as spreadsheets (first sheet); everything else as comma-separated
// text.
func LoadEventLog(path string) (*EventLog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, unreadable(eventLogInput, filepath.Base(path), err)
	}
	defer f.Close()

	return ReadEventLog(filepath.Base(path), f)
}

// ReadEventLog parses a GridLog from r. name is the uploaded file name and
// selects the format by extension.
func ReadEventLog(name string, r io.Reader) (*EventLog, error) {
	var (
		raw [][]string
		err error
	)
	if isSpreadsheet(name) {
		raw, err = readFirstSheet(r)
	} else {
		raw, err = readCSV(r)
	}
	if err != nil {
		return nil, unreadable(eventLogInput, name, err)
	}

	t := newTable(raw)
	if missing := t.missing(ColMessage, ColPortfolio, ColTimestamp); len(missing) > 0 {
		return nil, &MissingColumnsError{Input: eventLogInput, Columns: missing}
	}

	log := &EventLog{
		Name:      name,
		HasUserID: t.has(ColUserID),
		Records:   make([]EventRecord, 0, len(t.rows)),
	}
	for _, row := range t.rows {
		ts := t.get(row, ColTimestamp)
		log.Records = append(log.Records, EventRecord{
			Portfolio:           t.get(row, ColPortfolio),
			UserID:              t.get(row, ColUserID),
			Message:             t.get(row, ColMessage),
			Timestamp:           ts,
			NormalizedTimestamp: NormalizeTime(ts),
		})
	}
	return log, nil
}

// Portfolios returns the distinct non-empty portfolio names in first-seen
// order.
func (l *EventLog) Portfolios() []string {
	seen := map[string]struct{}{}
	var out []string
	for _, r := range l.Records {
		if r.Portfolio == "" {
			continue
		}
		if _, ok := seen[r.Portfolio]; ok {
			continue
		}
		seen[r.Portfolio] = struct{}{}
		out = append(out, r.Portfolio)
	}
	return out
}

func isSpreadsheet(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".xlsx" || ext == ".xlsm"
}
