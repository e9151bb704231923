package journal

import (
	"bytes"
	"text/template"
	"time"
)

var runOrgFuncs = template.FuncMap{
	"orTime": func(t time.Time) time.Time {
		if t.IsZero() {
			return time.Now()
		}
		return t
	},
}

var runOrgTmpl = template.Must(template.New("run").Funcs(runOrgFuncs).Parse(runOrgTemplate))

// FormatRunOrg renders one run as an org-mode heading with a properties
// drawer, suitable for appending to a trading journal file.
func FormatRunOrg(r Run) (string, error) {
	buf := new(bytes.Buffer)
	if err := runOrgTmpl.Execute(buf, r); err != nil {
		return "", err
	}
	return buf.String(), nil
}

const runOrgTemplate = `
* BACKTEST: {{.Strategy}} {{.Start.Format "2006-01-02"}}..{{.End.Format "2006-01-02"}}
:PROPERTIES:
:RUN_ID:      {{.RunID}}
:STRATEGY:    {{.Strategy}}
:START_DATE:  {{.Start.Format "2006-01-02"}}
:END_DATE:    {{.End.Format "2006-01-02"}}
:SESSIONS:    {{.Sessions}}
:TRADES:      {{.Trades}}
:GAINS:       {{.Gains}}
:START_CASH:  {{printf "%.2f" .StartCash}}
:END_CASH:    {{printf "%.2f" .EndCash}}
:REALIZED:    {{printf "%.4f" .RealizedGain}}
:COMMISSIONS: {{printf "%.4f" .Commissions}}
:CREATED:     [{{(orTime .Created).Format "2006-01-02 Mon 15:04"}}]
:END:

** Review

** Next Actions
`
