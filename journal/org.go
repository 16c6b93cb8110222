package journal

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"text/template"
	"time"
)

var orgFuncs = template.FuncMap{
	"mul100": func(x float64) float64 { return x * 100.0 },
	"num": func(format string, x float64) string {
		if math.IsNaN(x) {
			return "n/a"
		}
		return fmt.Sprintf(format, x)
	},
	"orTime": func(t time.Time) time.Time {
		if t.IsZero() {
			return time.Now()
		}
		return t
	},
}

var orgTemplate = template.Must(template.New("run").Funcs(orgFuncs).Parse(RunOrgTemplate))

// Org renders the run as an Org-mode entry.
func (r *Run) Org() (string, error) {
	var buf bytes.Buffer
	if err := orgTemplate.Execute(&buf, r); err != nil {
		return "", fmt.Errorf("render org: %w", err)
	}
	return buf.String(), nil
}

// WriteOrg writes the Org-mode entry to path, or to r.OrgPath when path
// is empty.
func (r *Run) WriteOrg(path string) error {
	if path == "" {
		path = r.OrgPath
	}
	if path == "" {
		return fmt.Errorf("run %s: no org path", r.RunID)
	}
	s, err := r.Org()
	if err != nil {
		return err
	}
	return os.WriteFile(path, []byte(s), 0o644)
}

const RunOrgTemplate = `
* PERFORMANCE: {{if .System}}{{.System}}{{else}}(system?){{end}} on {{.Universe}} {{.TimeFrame}}
:PROPERTIES:
:RUN_ID:      {{if .RunID}}{{.RunID}}{{else}}(run-id?){{end}}
:SYSTEM:      {{.System}}
:UNIVERSE:    {{.Universe}}
:TIMEFRAME:   {{.TimeFrame}}
:START_DATE:  {{if not .Start.IsZero}}{{.Start.Format "2006-01-02"}}{{end}}
:END_DATE:    {{if not .End.IsZero}}{{.End.Format "2006-01-02"}}{{end}}
:INSTRUMENTS: {{.Instruments}}
:SKIPPED:     {{.Skipped}}
:TRADES:      {{.Trades}}
:WINS:        {{.Wins}}
:LOSSES:      {{.Losses}}
:RUNNING:     {{.Running}}
:PROFIT:      {{printf "%.0f" .Profit}}
:BUDGET:      {{printf "%.0f" .Budget}}
:CREATED:     [{{(orTime .Created).Format "2006-01-02 Mon 15:04"}}]
:END:

** Performance Summary
- Profit:           *{{printf "%.0f" .Profit}}*
- Win Rate:         *{{num "%.2f" (mul100 .WinRate)}}%*
- Profit Factor:    *{{num "%.2f" .ProfitFactor}}*
- Annual Return:    *{{num "%.2f" (mul100 .AnnualReturn)}}%*
- Max Drawdown:     *{{printf "%.0f" .MaxDrawdown}}* (market {{printf "%.0f" .MaxMarketDrawdown}})

** Trade Distribution
| Outcome | Count |
|---------+-------|
| Wins    | {{.Wins}} |
| Losses  | {{.Losses}} |
| Total   | {{.Trades}} |
| Running | {{.Running}} |

{{- if .Notes }}
** Observations
{{- range .Notes }}
- {{.}}
{{- end }}
{{- end }}
`
