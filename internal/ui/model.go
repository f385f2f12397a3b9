package ui

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/joshsymonds/mailview/internal/credential"
	"github.com/joshsymonds/mailview/internal/fetch"
	"github.com/joshsymonds/mailview/internal/render"
	"github.com/joshsymonds/mailview/internal/shell"
	"github.com/joshsymonds/mailview/internal/theme"
)

const (
	title        = "Gmail Viewer"
	fetchTimeout = 90 * time.Second
	pickerPrompt = "Select a service-account key file (esc to cancel)"
	// PromptNotice is shown until a key document is supplied.
	PromptNotice = "Press u to load a service-account key file (.json)."
)

// Runner executes one fetch cycle. shell.Pipeline satisfies it.
type Runner interface {
	Run(ctx context.Context, raw []byte, req fetch.Request) ([]fetch.Summary, error)
}

// credentialReadMsg carries the bytes of a chosen key file.
type credentialReadMsg struct {
	name string
	data []byte
	err  error
}

// fetchDoneMsg reports the outcome of one pipeline run.
type fetchDoneMsg struct {
	cycle     int
	summaries []fetch.Summary
	err       error
}

// Options configures a Model.
type Options struct {
	Runner  Runner
	Subject string
	Folder  fetch.Folder
	Limit   int
	Bounds  fetch.Bounds
	// CredentialPath is read at startup when set.
	CredentialPath string
	// StartDir is where the key file picker opens.
	StartDir string
	Context  context.Context
	Logger   *slog.Logger
}

// Model is the root Bubble Tea model. All interaction state lives in
// shell.State; the model only drives effects and draws.
type Model struct {
	state   shell.State
	runner  Runner
	subject string
	ctx     context.Context
	logger  *slog.Logger
	initial string

	keys     *KeyMap
	help     help.Model
	spinner  spinner.Model
	viewport viewport.Model
	picker   filepicker.Model
	picking  bool

	width  int
	height int
	ready  bool
}

// New creates the root model.
func New(opts Options) Model {
	bounds := opts.Bounds
	if bounds == (fetch.Bounds{}) {
		bounds = fetch.DefaultBounds
	}
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.ColorBlue)

	fp := filepicker.New()
	fp.AllowedTypes = []string{".json"}
	if opts.StartDir != "" {
		fp.CurrentDirectory = opts.StartDir
	}

	return Model{
		state:    shell.NewState(opts.Folder, opts.Limit, bounds),
		runner:   opts.Runner,
		subject:  opts.Subject,
		ctx:      ctx,
		logger:   logger,
		initial:  opts.CredentialPath,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		spinner:  sp,
		viewport: viewport.New(80, 20),
		picker:   fp,
	}
}

// State exposes the current interaction state.
func (m Model) State() shell.State { return m.state }

// Init loads a preconfigured key file, if any.
func (m Model) Init() tea.Cmd {
	if m.initial == "" {
		return nil
	}
	return readCredential(m.initial)
}

// Update handles messages and feeds interaction events through shell.Step.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.ready = true
		m.help.Width = msg.Width
		m.resize()
		m.refresh()
		return m, nil

	case credentialReadMsg:
		if msg.err != nil {
			m.logger.Warn("credential unreadable", "file", msg.name, "err", msg.err)
			return m.apply(shell.CredentialUnreadable{Name: msg.name, Err: msg.err})
		}
		m.logger.Info("credential loaded", "file", msg.name)
		return m.apply(shell.CredentialLoaded{Name: msg.name, Data: msg.data})

	case fetchDoneMsg:
		if msg.err != nil {
			m.logger.Warn("fetch failed", "cycle", msg.cycle, "err", msg.err)
		}
		return m.apply(shell.FetchCompleted{Cycle: msg.cycle, Summaries: msg.summaries, Err: msg.err})

	case spinner.TickMsg:
		if !m.state.Loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.picking {
			return m.updatePicker(msg)
		}
		return m.handleKey(msg)
	}

	if m.picking {
		return m.updatePicker(msg)
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.resize()
		return m, nil
	case key.Matches(msg, m.keys.Upload):
		m.picking = true
		m.resize()
		return m, m.picker.Init()
	case key.Matches(msg, m.keys.Inbox):
		return m.apply(shell.FolderSelected{Folder: fetch.FolderInbox})
	case key.Matches(msg, m.keys.Draft):
		return m.apply(shell.FolderSelected{Folder: fetch.FolderDraft})
	case key.Matches(msg, m.keys.Spam):
		return m.apply(shell.FolderSelected{Folder: fetch.FolderSpam})
	case key.Matches(msg, m.keys.NextFolder):
		return m.apply(shell.FolderCycled{})
	case key.Matches(msg, m.keys.More):
		return m.apply(shell.LimitAdjusted{Delta: 1})
	case key.Matches(msg, m.keys.Less):
		return m.apply(shell.LimitAdjusted{Delta: -1})
	case key.Matches(msg, m.keys.Table):
		return m.apply(shell.TableToggled{})
	case key.Matches(msg, m.keys.Refresh):
		return m.apply(shell.Refreshed{})
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) updatePicker(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch {
		case k.Type == tea.KeyCtrlC:
			return m, tea.Quit
		case key.Matches(k, m.keys.Cancel):
			m.picking = false
			m.resize()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	if ok, path := m.picker.DidSelectFile(msg); ok {
		m.picking = false
		m.resize()
		return m, readCredential(path)
	}
	return m, cmd
}

// apply runs one event through the reducer and turns its effect into a
// command.
func (m Model) apply(ev shell.Event) (tea.Model, tea.Cmd) {
	var eff shell.Effect
	m.state, eff = shell.Step(m.state, ev)
	m.refresh()
	if eff != shell.EffectFetch {
		return m, nil
	}
	m.logger.Debug("fetch requested", "cycle", m.state.Cycle, "folder", string(m.state.Folder), "limit", m.state.Limit)
	return m, tea.Batch(m.fetch(), m.spinner.Tick)
}

func (m Model) fetch() tea.Cmd {
	ctx, runner := m.ctx, m.runner
	cycle, raw, req := m.state.Cycle, m.state.Credential, m.state.Request()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
		defer cancel()
		summaries, err := runner.Run(ctx, raw, req)
		return fetchDoneMsg{cycle: cycle, summaries: summaries, err: err}
	}
}

func readCredential(path string) tea.Cmd {
	return func() tea.Msg {
		data, err := credential.ReadFile(path)
		return credentialReadMsg{name: filepath.Base(path), data: data, err: err}
	}
}

func (m *Model) resize() {
	if !m.ready {
		return
	}
	header := lipgloss.Height(m.renderHeader())
	footer := lipgloss.Height(m.renderFooter())
	h := m.height - header - footer
	if h < 1 {
		h = 1
	}
	m.viewport.Width = m.width
	m.viewport.Height = h
	// the picker sizes its listing from WindowSizeMsg only
	m.picker, _ = m.picker.Update(tea.WindowSizeMsg{Width: m.width, Height: h - lipgloss.Height(pickerPrompt)})
}

// refresh re-renders the content area from state.
func (m *Model) refresh() {
	m.viewport.SetContent(m.renderContent())
}

func (m Model) renderContent() string {
	s := m.state
	switch {
	case !s.HasCredential() && s.Message == "":
		return theme.NoticeStyle.Render(PromptNotice)
	case s.Message != "":
		return theme.ErrorStyle.Render(s.Message)
	case !s.Fetched:
		return ""
	case s.TableView:
		return render.Table(s.Summaries, m.width)
	default:
		return render.Cards(s.Summaries, m.width)
	}
}

// View renders the full terminal UI.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	body := m.viewport.View()
	if m.picking {
		body = lipgloss.JoinVertical(lipgloss.Left,
			theme.HelpStyle.Render(pickerPrompt),
			m.picker.View(),
		)
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.renderHeader(), body, m.renderFooter())
}

func (m Model) renderHeader() string {
	head := title
	if m.subject != "" {
		head += " · " + m.subject
	}
	tabs := make([]string, 0, len(fetch.Folders()))
	for i, f := range fetch.Folders() {
		label := fmt.Sprintf("%d %s", i+1, f)
		if f == m.state.Folder {
			tabs = append(tabs, theme.ActiveTabStyle.Render(label))
			continue
		}
		tabs = append(tabs, theme.TabStyle.Render(label))
	}
	controls := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.JoinHorizontal(lipgloss.Top, tabs...),
		theme.TabStyle.Render(fmt.Sprintf("limit %d (%d-%d)", m.state.Limit, m.state.Bounds.Min, m.state.Bounds.Max)),
		theme.TabStyle.Render(m.viewName()),
	)
	return lipgloss.JoinVertical(lipgloss.Left,
		theme.HeaderStyle.Width(m.width).Render(head),
		controls,
	)
}

func (m Model) viewName() string {
	if m.state.TableView {
		return "table"
	}
	return "cards"
}

func (m Model) renderFooter() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		theme.StatusBarStyle.Width(m.width).Render(m.status()),
		m.help.View(m.keys),
	)
}

func (m Model) status() string {
	s := m.state
	var parts []string
	if s.CredentialName != "" {
		parts = append(parts, "key: "+s.CredentialName)
	} else {
		parts = append(parts, "no key loaded")
	}
	switch {
	case s.Loading:
		parts = append(parts, m.spinner.View()+" Loading emails...")
	case s.Fetched && s.Message == "":
		parts = append(parts, fmt.Sprintf("%d messages", len(s.Summaries)))
	}
	return strings.Join(parts, " | ")
}
