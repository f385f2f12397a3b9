package render

import (
	"net/mail"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/x/ansi"

	"github.com/joshsymonds/mailview/internal/fetch"
	"github.com/joshsymonds/mailview/internal/theme"
)

// UnsetDate marks a Date header that could not be coerced.
const UnsetDate = "-"

// TableDateLayout formats coerced dates, always in UTC.
const TableDateLayout = "2006-01-02 15:04:05"

const previewColumnLimit = 60

// Row is one tabular record. Date is nil when the header did not parse.
type Row struct {
	Sender  string     `json:"sender"`
	Subject string     `json:"subject"`
	Date    *time.Time `json:"date"`
	RawDate string     `json:"raw_date"`
	Preview string     `json:"preview"`
}

// TableHeaders are the column titles in display order.
func TableHeaders() []string {
	return []string{"From", "Subject", "Date", "Preview"}
}

// Rows converts summaries to table rows, coercing dates where possible.
func Rows(list []fetch.Summary) []Row {
	out := make([]Row, len(list))
	for i, s := range list {
		out[i] = Row{Sender: s.Sender, Subject: s.Subject, RawDate: s.Date, Preview: s.Preview}
		if t, ok := ParseDate(s.Date); ok {
			out[i].Date = &t
		}
	}
	return out
}

// Fallback layouts for Date headers that net/mail rejects.
var dateLayouts = []string{
	time.RFC1123Z,
	time.RFC1123,
	"Mon, 2 Jan 2006 15:04:05 -0700 (MST)",
	"Mon, 2 Jan 2006 15:04:05 MST",
	"2 Jan 2006 15:04:05 -0700",
	time.RFC3339,
	time.DateTime,
	time.DateOnly,
}

// ParseDate coerces a Date header value into a time. It never panics and
// reports false for anything it cannot read.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := mail.ParseDate(s); err == nil {
		return t, true
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatDate renders a coerced date or the unset marker.
func FormatDate(t *time.Time) string {
	if t == nil {
		return UnsetDate
	}
	return t.UTC().Format(TableDateLayout)
}

// Cells flattens a row to display strings in TableHeaders order.
func (r Row) Cells() []string {
	return []string{
		Sanitize(r.Sender),
		Sanitize(r.Subject),
		FormatDate(r.Date),
		ansi.Truncate(Preview(r.Preview), previewColumnLimit, "…"),
	}
}

// Table renders the summaries as a static bordered table.
func Table(list []fetch.Summary, width int) string {
	if len(list) == 0 {
		return theme.NoticeStyle.Render(EmptyNotice)
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(theme.TableBorderStyle).
		Headers(TableHeaders()...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return theme.TableHeaderStyle
			}
			return theme.TableCellStyle
		})
	if width > 0 {
		t = t.Width(width)
	}
	for _, r := range Rows(list) {
		t = t.Row(r.Cells()...)
	}
	return t.String()
}
