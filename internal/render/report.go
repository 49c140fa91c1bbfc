package render

import (
	"encoding/base64"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/couchcryptid/firerisk-etl/internal/domain"
)

// ReportTitle is the page title of the generated report.
const ReportTitle = "Diagramas de Risco de Incêndio"

const displayDateLayout = "02-01-2006"

// NoticeLevel classifies a section notice.
type NoticeLevel string

const (
	NoticeError   NoticeLevel = "error"
	NoticeWarning NoticeLevel = "warning"
)

// Report is the rendered page: one section per location, in configured order.
type Report struct {
	Title       string
	GeneratedAt time.Time
	RunID       string
	Sections    []Section
}

// Section holds a location's chart and point table, or a notice explaining
// why there is none.
type Section struct {
	Location    string
	Place       string
	Notice      string
	NoticeLevel NoticeLevel
	ChartPNG    []byte
	Points      []domain.TrajectoryPoint
}

// MissingSection reports a location whose tabular file could not be read.
func MissingSection(location string, err error) Section {
	return Section{
		Location:    location,
		Notice:      fmt.Sprintf("Arquivo de dados não encontrado para %s: %v", location, err),
		NoticeLevel: NoticeError,
	}
}

// EmptySection reports a location with no plottable points.
func EmptySection(location string) Section {
	return Section{
		Location:    location,
		Notice:      fmt.Sprintf("Dados insuficientes para %s (not enough data).", location),
		NoticeLevel: NoticeWarning,
	}
}

// HasChart reports whether the section carries a rendered chart.
func (s Section) HasChart() bool { return len(s.ChartPNG) > 0 }

// ChartURI returns the chart as an inline data URI.
func (s Section) ChartURI() template.URL {
	//nolint:gosec // base64 PNG produced by the renderer
	return template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(s.ChartPNG))
}

var reportTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"date":    func(t time.Time) string { return t.Format(displayDateLayout) },
	"reading": func(r domain.Reading) string { return r.String() },
	"risk":    func(v float64) string { return fmt.Sprintf("%.2f", v) },
}).Parse(`<!DOCTYPE html>
<html lang="pt-BR">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; margin: 2rem; }
section { margin-bottom: 3rem; }
.notice { padding: .75rem 1rem; border-radius: 4px; }
.notice.error { background: #fdecea; color: #b71c1c; }
.notice.warning { background: #fff8e1; color: #8d6e00; }
table { border-collapse: collapse; }
th, td { border: 1px solid #ccc; padding: .25rem .6rem; text-align: right; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<p>Gerado em {{.GeneratedAt.Format "02-01-2006 15:04:05 MST"}}{{if .RunID}} · execução {{.RunID}}{{end}}</p>
{{range .Sections}}
<section id="{{.Location}}">
<h2>{{.Location}}</h2>
{{if .Place}}<p>{{.Place}}</p>{{end}}
{{if .Notice}}<p class="notice {{.NoticeLevel}}">{{.Notice}}</p>{{end}}
{{if .HasChart}}
<img src="{{.ChartURI}}" alt="Diagrama de risco: {{.Location}}" width="800" height="500">
<table>
<thead><tr><th>Data</th><th>RF</th><th>VR7</th><th>TTR</th><th>Nível</th></tr></thead>
<tbody>
{{range .Points}}<tr><td>{{date .Date}}</td><td>{{risk .Risk}}</td><td>{{reading .VR7}}</td><td>{{reading .Indicator}}</td><td>{{.Tier}}</td></tr>
{{end}}</tbody>
</table>
{{end}}
</section>
{{end}}
</body>
</html>
`))

// WriteHTML renders the report page.
func (r *Report) WriteHTML(w io.Writer) error {
	if err := reportTemplate.Execute(w, r); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	return nil
}
