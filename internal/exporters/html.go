package exporters

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/signal-watch/signalwatch-core/internal/core/domain"
)

var reportTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"fmtDate": func(t *time.Time) string {
		if t == nil {
			return ""
		}
		return t.Format("2006-01-02")
	},
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Company Scan Report</title>
<style>
body { font-family: sans-serif; margin: 2em; color: #1a1a1a; }
h1 { font-size: 1.5em; }
h2 { font-size: 1.2em; border-bottom: 1px solid #ccc; padding-bottom: 0.2em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
th, td { border: 1px solid #ccc; padding: 0.4em 0.6em; text-align: left; font-size: 0.9em; }
th { background: #f0f0f0; }
.severity-high { color: #a40000; font-weight: bold; }
.severity-medium { color: #b26b00; }
.severity-low { color: #555; }
.error { color: #a40000; }
.summary { background: #f7f7f7; padding: 0.8em 1em; border-radius: 4px; }
</style>
</head>
<body>
<h1>Company Scan Report</h1>
<p>Generated {{.GeneratedAt.Format "2006-01-02 15:04 MST"}}</p>
<div class="summary">
<p>{{.Summary.TotalCompanies}} companies scanned,
{{.Summary.TotalMismatches}} mismatches found{{if .Summary.FailedCompanies}},
{{.Summary.FailedCompanies}} failed{{end}}.</p>
</div>

{{range .Result.Results}}
<h2>{{if .CompanyName}}{{.CompanyName}} ({{.CompanyNumber}}){{else}}{{.CompanyNumber}}{{end}}</h2>
{{if .Failed}}
<p class="error">Scan failed: {{.Error}}</p>
{{else}}
<p>{{.Documents}} documents scanned, {{len .Mismatches.Mismatches}} mismatches.</p>
{{if .Mismatches.Mismatches}}
<table>
<tr><th>Type</th><th>Severity</th><th>Context</th><th>Expected</th><th>Found</th><th>Document</th><th>Detail</th></tr>
{{range .Mismatches.Mismatches}}
<tr>
<td>{{.Kind}}</td>
<td class="severity-{{.Severity}}">{{.Severity}}</td>
<td>{{.Context}}</td>
<td>{{if .ExpectedDate}}{{fmtDate .ExpectedDate}}{{else}}{{.Expected}}{{end}}</td>
<td>{{if .FoundDate}}{{fmtDate .FoundDate}}{{else}}{{.Found}}{{end}}</td>
<td>{{.SourceDocumentID}}</td>
<td>{{.Message}}</td>
</tr>
{{end}}
</table>
{{end}}
{{end}}
{{end}}

{{if .Result.Network}}
<h2>Director Network</h2>
<div class="summary">
<p>{{.Result.Network.Statistics.TotalCompanies}} companies,
{{.Result.Network.Statistics.TotalDirectors}} directors,
{{.Result.Network.Statistics.TotalConnections}} connections
(depth {{.Result.Network.Statistics.DepthReached}}).</p>
</div>
<table>
<tr><th>Company</th><th>Director</th><th>Role</th><th>Active</th><th>Depth</th></tr>
{{range .Result.Network.Connections}}
<tr>
<td>{{.CompanyNumber}}</td>
<td>{{.DirectorName}}</td>
<td>{{.Role}}</td>
<td>{{.Active}}</td>
<td>{{.Depth}}</td>
</tr>
{{end}}
</table>
{{range .Result.Network.Statistics.Warnings}}
<p class="error">Warning: {{.}}</p>
{{end}}
{{end}}
</body>
</html>
`))

// WriteHTML renders the batch result as a standalone HTML report with
// per-company sections, severity styling and network statistics.
func WriteHTML(w io.Writer, batch *domain.BatchResult) error {
	data := struct {
		GeneratedAt time.Time
		Summary     domain.ScanSummary
		Result      *domain.BatchResult
	}{
		GeneratedAt: time.Now().UTC(),
		Summary:     batch.Summary(),
		Result:      batch,
	}

	if err := reportTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	return nil
}
