package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/joshsymonds/mailview/internal/fetch"
	"github.com/joshsymonds/mailview/internal/theme"
)

// EmptyNotice is shown instead of a grid when there is nothing to render.
const EmptyNotice = "No emails found."

// GridColumns is the fixed width of the card grid.
const GridColumns = 2

const (
	minCardWidth = 24
	columnGap    = 2
)

// Placement locates one card in the grid.
type Placement struct {
	Index  int
	Row    int
	Column int
}

// Layout assigns cards round-robin by index: column 0, 1, 0, 1, ...
func Layout(n int) []Placement {
	out := make([]Placement, n)
	for i := range out {
		out[i] = Placement{Index: i, Row: i / GridColumns, Column: i % GridColumns}
	}
	return out
}

// RowCount is the number of grid rows needed for n cards.
func RowCount(n int) int {
	return (n + GridColumns - 1) / GridColumns
}

// Cards renders the summaries as a two-column grid fitted to width.
func Cards(list []fetch.Summary, width int) string {
	if len(list) == 0 {
		return theme.NoticeStyle.Render(EmptyNotice)
	}
	cw := CardWidth(width)
	rows := make([][]string, RowCount(len(list)))
	for _, p := range Layout(len(list)) {
		cell := card(list[p.Index], cw)
		if p.Column > 0 {
			cell = lipgloss.NewStyle().PaddingLeft(columnGap).Render(cell)
		}
		rows[p.Row] = append(rows[p.Row], cell)
	}
	lines := make([]string, len(rows))
	for i, cells := range rows {
		lines[i] = lipgloss.JoinHorizontal(lipgloss.Top, cells...)
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// CardWidth is the outer width of one card for a given screen width.
func CardWidth(width int) int {
	w := (width - columnGap) / GridColumns
	if w < minCardWidth {
		return minCardWidth
	}
	return w
}

func card(s fetch.Summary, width int) string {
	inner := width - theme.CardStyle.GetHorizontalFrameSize()
	if inner < 1 {
		inner = 1
	}
	body := lipgloss.JoinVertical(
		lipgloss.Left,
		theme.CardTitleStyle.Width(inner).Render(Sanitize(s.Subject)),
		theme.CardMetaStyle.Width(inner).Render("From: "+Sanitize(s.Sender)),
		theme.CardMetaStyle.Width(inner).Render("Date: "+Sanitize(s.Date)),
		theme.CardPreviewStyle.Width(inner).Render(Preview(s.Preview)),
	)
	return theme.CardStyle.Width(width - theme.CardStyle.GetHorizontalBorderSize()).Render(strings.TrimRight(body, "\n"))
}
