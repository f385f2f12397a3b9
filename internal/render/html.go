package render

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/joshsymonds/mailview/internal/fetch"
)

// Page describes a standalone HTML rendering.
type Page struct {
	Title       string
	Folder      fetch.Folder
	ShowTable   bool
	GeneratedAt time.Time
}

type htmlCard struct {
	Placement
	Subject string
	Sender  string
	Date    string
	Preview string
}

type htmlRow struct {
	Sender  string
	Subject string
	Date    string
	Preview string
}

type htmlView struct {
	Page
	Empty   string
	Cards   []htmlCard
	Headers []string
	Rows    []htmlRow
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; margin: 2rem; }
.grid { display: grid; grid-template-columns: 1fr 1fr; gap: 1rem; }
.card { background: #f8f9fa; padding: 1rem; border-radius: 10px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
.card h4 { margin: 0 0 0.5rem 0; }
.meta { font-size: 0.9rem; color: gray; }
.col-0 { grid-column: 1; }
.col-1 { grid-column: 2; }
table { border-collapse: collapse; margin-top: 2rem; width: 100%; }
th, td { border: 1px solid #ddd; padding: 0.4rem; text-align: left; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<p class="meta">Folder {{.Folder}}{{if not .GeneratedAt.IsZero}}, generated {{.GeneratedAt.UTC.Format "2006-01-02 15:04:05"}} UTC{{end}}</p>
{{if .Empty}}<p class="notice">{{.Empty}}</p>{{else}}
<div class="grid">
{{range .Cards}}<article class="card col-{{.Column}}" data-index="{{.Index}}" data-row="{{.Row}}" data-column="{{.Column}}">
<h4>{{.Subject}}</h4>
<p class="meta from"><b>From:</b> {{.Sender}}</p>
<p class="meta date"><b>Date:</b> {{.Date}}</p>
<p class="preview">{{.Preview}}</p>
</article>
{{end}}</div>
{{if .ShowTable}}<table>
<thead><tr>{{range .Headers}}<th>{{.}}</th>{{end}}</tr></thead>
<tbody>
{{range .Rows}}<tr><td>{{.Sender}}</td><td>{{.Subject}}</td><td class="date">{{.Date}}</td><td>{{.Preview}}</td></tr>
{{end}}</tbody>
</table>{{end}}
{{end}}
</body>
</html>
`))

// WriteHTML renders a self-contained page of cards and, optionally, the
// table. Provider text is escaped by html/template.
func WriteHTML(w io.Writer, list []fetch.Summary, page Page) error {
	if page.Title == "" {
		page.Title = "Gmail Email Viewer"
	}
	view := htmlView{Page: page, Headers: TableHeaders()}
	if len(list) == 0 {
		view.Empty = EmptyNotice
	}
	for _, p := range Layout(len(list)) {
		s := list[p.Index]
		view.Cards = append(view.Cards, htmlCard{
			Placement: p,
			Subject:   Sanitize(s.Subject),
			Sender:    Sanitize(s.Sender),
			Date:      Sanitize(s.Date),
			Preview:   Preview(s.Preview),
		})
	}
	for _, r := range Rows(list) {
		view.Rows = append(view.Rows, htmlRow{
			Sender:  Sanitize(r.Sender),
			Subject: Sanitize(r.Subject),
			Date:    FormatDate(r.Date),
			Preview: Preview(r.Preview),
		})
	}
	if err := pageTemplate.Execute(w, view); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	return nil
}
