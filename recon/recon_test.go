package recon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/gridrecon/gridlog"
)

func sampleInputs() (*gridlog.EventLog, *gridlog.Workbook) {
	events := &gridlog.EventLog{
		Name:      "gridlog 5 Jan 2024.csv",
		HasUserID: true,
		Records: []gridlog.EventRecord{
			// P1: confirmed SL breach plus square-off.
			ev("P1", "U1", "Combined SL: 100 hit", "14:30:45"),
			ev("P1", "U2", "Combined SL: 100 hit", "14:30:46"),
			// P2: single transient trail target, completed legs corroborated by the log.
			ev("P2", "U1", "Combined trail target: 40 hit", "13:00:00"),
			ev("P2", "U2", "Order exited", "14:10:00:250"),
			// P3: only one user.
			ev("P3", "U1", "Order exited", "10:00:00"),
			// P4: completed, nothing corroborated.
			ev("P4", "U1", "Order placed", "09:00:00"),
			ev("P4", "U3", "Order placed", "09:00:01"),
		},
	}
	wb := &gridlog.Workbook{
		Name:   "SUMMARY.xlsx",
		Sheets: []string{"Portfolios", "Legs"},
		Legs: []gridlog.LegSheet{
			fullSheet("Legs",
				leg("P1", "completed", "OnSqOffTime", "15:20:00"),
				leg("P1", "completed", "OnSqOffTime", "15:19:59"),
				leg("P2", "completed", "SL", "14:10:00:250"),
				leg("P2", "rejected", "", ""),
				leg("P3", "completed", "Target", "10:00:00"),
				leg("P4", "completed", "Target", "11:11:11"),
				leg("P4", "Rejected", "nan", ""),
				leg("P6", "completed", "OnSqOffTime", "15:20:00"),
			),
		},
	}
	return events, wb
}

func TestRun(t *testing.T) {
	events, wb := sampleInputs()

	res, err := Run(events, wb, Config{MinUsers: 2})
	require.NoError(t, err)

	assert.Equal(t, []PortfolioResult{
		{Portfolio: "P1", Reason: "Combined SL: 100 hit, OnSqOffTime", Time: "14:30:46"},
		{Portfolio: "P2", Reason: "SL", Time: "14:10:00.250"},
		{Portfolio: "P4", Reason: "AllLegsCompleted", Time: ""},
	}, res.Rows)
	assert.Empty(t, res.Warnings)
	assert.Equal(t, "completed portfolio of 5 jan.csv", res.OutputName)
	assert.Equal(t, Stats{EventRows: 6, EventPortfolios: 4, QualifiedPortfolios: 3, FullyCompleted: 3, Results: 3}, res.Stats)
}

func TestRunProperties(t *testing.T) {
	events, wb := sampleInputs()

	first, err := Run(events, wb, Config{MinUsers: 1})
	require.NoError(t, err)
	again, err := Run(events, wb, Config{MinUsers: 1})
	require.NoError(t, err)
	assert.Equal(t, first, again, "runs must be idempotent")

	for _, row := range first.Rows {
		assert.NotEmpty(t, row.Portfolio)
		assert.NotEmpty(t, row.Reason)
		// P2's trail target message appears once and must not leak in.
		assert.NotContains(t, row.Reason, "trail target")
	}

	prev := len(first.Rows)
	for n := 2; n <= 5; n++ {
		res, err := Run(events, wb, Config{MinUsers: n})
		require.NoError(t, err)
		assert.LessOrEqual(t, len(res.Rows), prev, "min users %d", n)
		prev = len(res.Rows)
	}
}

func TestRunExcludesPortfoliosMissingFromEventLog(t *testing.T) {
	events, wb := sampleInputs()

	res, err := Run(events, wb, Config{MinUsers: 1})
	require.NoError(t, err)
	for _, row := range res.Rows {
		assert.NotEqual(t, "P6", row.Portfolio)
	}
}

func TestRunScenarioBreachConfirmed(t *testing.T) {
	events := &gridlog.EventLog{
		Name:      "gridlog.csv",
		HasUserID: true,
		Records: []gridlog.EventRecord{
			ev("P1", "U1", "Combined SL: 100 hit", "14:30:45"),
			ev("P1", "U2", "Combined SL: 100 hit", "14:30:50"),
		},
	}
	wb := &gridlog.Workbook{Legs: []gridlog.LegSheet{
		fullSheet("Legs", leg("P1", "completed", "", ""), leg("P1", "rejected", "", "")),
	}}

	res, err := Run(events, wb, Config{MinUsers: 2})
	require.NoError(t, err)
	assert.Equal(t, []PortfolioResult{{Portfolio: "P1", Reason: "Combined SL: 100 hit", Time: "14:30:50"}}, res.Rows)
	assert.Equal(t, "completed portfolio of unknown_date.csv", res.OutputName)
}

func TestRunWithoutUserIDWarns(t *testing.T) {
	events, wb := sampleInputs()
	events.HasUserID = false

	res, err := Run(events, wb, Config{MinUsers: 50})
	require.NoError(t, err)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "UserID")
	assert.Len(t, res.Rows, 4)
}

func TestRunEmptyResult(t *testing.T) {
	events, wb := sampleInputs()

	res, err := Run(events, wb, Config{MinUsers: 50})
	require.NoError(t, err)
	assert.Empty(t, res.Rows)
	assert.Equal(t, 0, res.Stats.Results)
}

func TestRunRejectsBadInput(t *testing.T) {
	events, wb := sampleInputs()

	_, err := Run(events, wb, Config{MinUsers: 0})
	assert.Error(t, err)
	_, err = Run(events, wb, Config{MinUsers: 51})
	assert.Error(t, err)
	_, err = Run(nil, wb, Config{MinUsers: 1})
	assert.Error(t, err)
	_, err = Run(events, nil, Config{MinUsers: 1})
	assert.Error(t, err)
}

func TestRunRefinesFromLegsOnEverySheet(t *testing.T) {
	events := &gridlog.EventLog{
		Name:      "gridlog 6 Jan 2024.csv",
		HasUserID: true,
		Records: []gridlog.EventRecord{
			ev("P1", "U1", "Order exited", "10:00:00"),
			ev("P1", "U1", "Order exited", "11:00:00"),
		},
	}
	wb := &gridlog.Workbook{
		Name: "SUMMARY.xlsx",
		Legs: []gridlog.LegSheet{
			fullSheet("Legs A", leg("P1", "completed", "Target", "11:00:00")),
			fullSheet("Legs B", leg("P1", "completed", "SL", "10:00:00")),
		},
	}

	res, err := Run(events, wb, Config{MinUsers: 1})
	require.NoError(t, err)
	assert.Equal(t, []PortfolioResult{{Portfolio: "P1", Reason: "Target", Time: "11:00:00"}}, res.Rows)
}
