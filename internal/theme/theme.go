package theme

import "github.com/charmbracelet/lipgloss"

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorBlue   = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorRed    = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorYellow = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorGray   = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite  = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorSubtle = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#CBD5E0"}
	ColorBorder = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
	ColorCard   = lipgloss.AdaptiveColor{Dark: "#212529", Light: "#F8F9FA"}
)

// HeaderStyle is the application title bar.
var HeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorBlue).
	Padding(0, 1)

// StatusBarStyle is used for the bottom status bar.
var StatusBarStyle = lipgloss.NewStyle().
	Foreground(ColorWhite).
	Background(ColorSubtle).
	Padding(0, 1)

// CardStyle frames one message card.
var CardStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder).
	Background(ColorCard).
	Padding(0, 1).
	MarginBottom(1)

var CardTitleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	MarginBottom(1)

var CardMetaStyle = lipgloss.NewStyle().
	Foreground(ColorGray)

var CardPreviewStyle = lipgloss.NewStyle().
	MarginTop(1)

// NoticeStyle renders informational notices such as the empty state.
var NoticeStyle = lipgloss.NewStyle().
	Foreground(ColorYellow).
	Padding(1, 2)

// ErrorStyle renders the single-line error message.
var ErrorStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorRed).
	Padding(1, 2)

// HelpStyle is used for keyboard shortcut hints and help text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Italic(true)

// TabStyle and ActiveTabStyle render the folder selector.
var TabStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Padding(0, 1)

var ActiveTabStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorBlue).
	Underline(true).
	Padding(0, 1)

// TableHeaderStyle and TableCellStyle style static tables.
var TableHeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorBlue).
	Padding(0, 1)

var TableCellStyle = lipgloss.NewStyle().
	Padding(0, 1)

var TableBorderStyle = lipgloss.NewStyle().
	Foreground(ColorBorder)
