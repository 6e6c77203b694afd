package journal

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"time"
)

var runOrgFuncs = template.FuncMap{
	"short": shortID,
	"stamp": func(t time.Time) string {
		if t.IsZero() {
			return "-"
		}
		return "[" + t.Format("2006-01-02 Mon 15:04") + "]"
	},
	"orDash": func(s string) string {
		if s == "" {
			return "-"
		}
		return s
	},
}

var runOrg = template.Must(template.New("run").Funcs(runOrgFuncs).Parse(RunOrgTemplate))

type runOrgView struct {
	RunRecord
	Results []ResultRecord
}

// FormatRunOrg renders a run and its rows as an Org-mode block.
func FormatRunOrg(run RunRecord, results []ResultRecord) (string, error) {
	var buf bytes.Buffer
	if err := runOrg.Execute(&buf, runOrgView{RunRecord: run, Results: results}); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// FormatRunsOrg renders a run list as an Org table.
func FormatRunsOrg(runs []RunRecord) string {
	var b strings.Builder
	b.WriteString("| Run | Created | GridLog | Min users | Results |\n")
	b.WriteString("|-----+---------+---------+-----------+---------|\n")
	for _, r := range runs {
		fmt.Fprintf(&b, "| %s | %s | %s | %d | %d |\n",
			shortID(r.RunID), r.Created.UTC().Format("2006-01-02 15:04"), r.GridLogName, r.MinUsers, r.Stats.Results)
	}
	return b.String()
}

func shortID(full string) string {
	if len(full) <= 8 {
		return full
	}
	return full[:8]
}

const RunOrgTemplate = `* RUN: {{.OutputName}} ({{short .RunID}})
:PROPERTIES:
:RUN_ID:          {{.RunID}}
:GRIDLOG:         {{.GridLogName}}
:SUMMARY:         {{.SummaryName}}
:MIN_USERS:       {{.MinUsers}}
:EVENT_ROWS:      {{.Stats.EventRows}}
:QUALIFIED:       {{.Stats.QualifiedPortfolios}}
:FULLY_COMPLETED: {{.Stats.FullyCompleted}}
:RESULTS:         {{.Stats.Results}}
:CREATED:         {{stamp .Created}}
:END:

** Portfolios
| Option Portfolio | Reason | Time | Breach |
|------------------+--------+------+--------|
{{- range .Results }}
| {{.Portfolio}} | {{.Reason}} | {{orDash .Time}} | {{if .BreachValue.Valid}}{{.BreachValue.Decimal.String}}{{else}}-{{end}} |
{{- end }}

{{- if .Warnings }}

** Warnings
{{- range .Warnings }}
- {{.}}
{{- end }}
{{- end }}
`
