// Package gridlog loads the two trading-activity exports consumed by the
// reconciler: the GridLog event log and the execution SUMMARY workbook.
// Column names are trimmed and required columns are validated here, once,
// so the rest of the pipeline works on typed records.
package gridlog

// Event log columns.
const (
	ColMessage   = "Message"
	ColPortfolio = "Option Portfolio"
	ColTimestamp = "Timestamp"
	ColUserID    = "UserID"
)

// Leg sheet columns.
const (
	ColPortfolioName = "Portfolio Name"
	ColStatus        = "Status"
	ColExitType      = "Exit Type"
	ColExitTime      = "Exit Time"
)

// EventRecord is one row of the GridLog.
type EventRecord struct {
	Portfolio           string
	UserID              string
	Message             string
	Timestamp           string
	NormalizedTimestamp string // empty when Timestamp is empty
}

// EventLog is a loaded GridLog. HasUserID is false when the export carried
// no UserID column at all.
type EventLog struct {
	Name      string
	HasUserID bool
	Records   []EventRecord
}

// LegRecord is one row of a "legs" sheet.
type LegRecord struct {
	PortfolioName string
	Status        string
	ExitType      string
	ExitTime      string
}

// LegColumns records which leg columns a sheet carried.
type LegColumns struct {
	PortfolioName bool
	Status        bool
	ExitType      bool
	ExitTime      bool
}

// LegSheet is a parsed "legs" sheet of the SUMMARY workbook.
type LegSheet struct {
	Name    string
	Columns LegColumns
	Records []LegRecord
}

// CanDetectSquareOff reports whether the sheet has the columns needed to
// find OnSqOffTime exits.
func (s LegSheet) CanDetectSquareOff() bool {
	return s.Columns.PortfolioName && s.Columns.ExitType && s.Columns.ExitTime
}

// CanDetectCompletion reports whether the sheet has the columns needed to
// decide whether a portfolio is fully completed.
func (s LegSheet) CanDetectCompletion() bool {
	return s.Columns.PortfolioName && s.Columns.Status
}

// Workbook is a loaded SUMMARY workbook. Sheets lists every sheet name;
// Legs holds only the parsed "legs" sheets, in workbook order.
type Workbook struct {
	Name   string
	Sheets []string
	Legs   []LegSheet
}
