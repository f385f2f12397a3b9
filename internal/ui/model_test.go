package ui

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/joshsymonds/mailview/internal/fetch"
	"github.com/joshsymonds/mailview/internal/render"
	"github.com/joshsymonds/mailview/internal/runtime"
)

const testKey = `{"type":"service_account","client_email":"viewer@demo.iam.gserviceaccount.com"}`

type fakeRunner struct {
	mu      sync.Mutex
	calls   []fetch.Request
	results []fetch.Summary
	err     error
}

func (f *fakeRunner) Run(ctx context.Context, raw []byte, req fetch.Request) ([]fetch.Summary, error) {
	_ = ctx
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, req)
	if f.err != nil {
		return nil, f.err
	}
	n := req.Limit
	if n > len(f.results) {
		n = len(f.results)
	}
	return f.results[:n], nil
}

func summaries(n int) []fetch.Summary {
	out := make([]fetch.Summary, n)
	for i := range out {
		out[i] = fetch.Summary{Sender: "a@example.com", Subject: "Subject " + string(rune('A'+i)), Date: "Mon, 2 Jan 2006 15:04:05 -0700", Preview: "hi"}
	}
	return out
}

func newModel(t *testing.T, runner Runner) Model {
	t.Helper()
	m := New(Options{Runner: runner, Subject: "reader@example.com", Folder: fetch.FolderInbox, Limit: 5})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return next.(Model)
}

// drain executes cmd and feeds every resulting message other than spinner
// ticks back into the model until nothing is left.
func drain(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		switch msg := c().(type) {
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case credentialReadMsg, fetchDoneMsg:
			next, follow := m.Update(msg)
			m = next.(Model)
			queue = append(queue, follow)
		}
	}
	return m
}

func press(t *testing.T, m Model, k tea.KeyMsg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(k)
	return next.(Model), cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestPromptBeforeCredential(t *testing.T) {
	m := newModel(t, &fakeRunner{})
	if !strings.Contains(m.View(), PromptNotice) {
		t.Fatalf("prompt missing from view")
	}
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if cmd != nil || m.State().Loading {
		t.Fatalf("no fetch may start without a credential")
	}
}

func TestLoadCredentialFetchesAndRendersCards(t *testing.T) {
	runner := &fakeRunner{results: summaries(8)}
	m := newModel(t, runner)

	next, cmd := m.Update(credentialReadMsg{name: "key.json", data: []byte(testKey)})
	m = next.(Model)
	if !m.State().Loading || cmd == nil {
		t.Fatalf("loading a credential should start a fetch")
	}
	m = drain(t, m, cmd)

	if len(runner.calls) != 1 || runner.calls[0] != (fetch.Request{Folder: fetch.FolderInbox, Limit: 5}) {
		t.Fatalf("unexpected calls %+v", runner.calls)
	}
	st := m.State()
	if st.Loading || len(st.Summaries) != 5 {
		t.Fatalf("unexpected state %+v", st)
	}
	view := m.View()
	if !strings.Contains(view, "Subject A") || !strings.Contains(view, "key.json") {
		t.Fatalf("cards missing from view:\n%s", view)
	}
}

func TestTableToggleDoesNotFetch(t *testing.T) {
	runner := &fakeRunner{results: summaries(3)}
	m := newModel(t, runner)
	next, cmd := m.Update(credentialReadMsg{name: "key.json", data: []byte(testKey)})
	m = drain(t, next.(Model), cmd)

	m, cmd = press(t, m, runes("t"))
	if cmd != nil {
		t.Fatalf("table toggle must not issue commands")
	}
	if len(runner.calls) != 1 || !m.State().TableView {
		t.Fatalf("calls=%d table=%v", len(runner.calls), m.State().TableView)
	}
	if !strings.Contains(m.renderContent(), render.TableHeaders()[0]) {
		t.Fatalf("table header missing")
	}
}

func TestControlsRefetch(t *testing.T) {
	runner := &fakeRunner{results: summaries(10)}
	m := newModel(t, runner)
	next, cmd := m.Update(credentialReadMsg{name: "key.json", data: []byte(testKey)})
	m = drain(t, next.(Model), cmd)

	m, cmd = press(t, m, runes("3"))
	m = drain(t, m, cmd)
	m, cmd = press(t, m, runes("+"))
	m = drain(t, m, cmd)

	want := []fetch.Request{
		{Folder: fetch.FolderInbox, Limit: 5},
		{Folder: fetch.FolderSpam, Limit: 5},
		{Folder: fetch.FolderSpam, Limit: 6},
	}
	if len(runner.calls) != len(want) {
		t.Fatalf("calls %+v", runner.calls)
	}
	for i := range want {
		if runner.calls[i] != want[i] {
			t.Fatalf("call %d = %+v want %+v", i, runner.calls[i], want[i])
		}
	}
	if len(m.State().Summaries) != 6 {
		t.Fatalf("expected 6 summaries, got %d", len(m.State().Summaries))
	}
}

func TestFetchErrorShowsMessage(t *testing.T) {
	runner := &fakeRunner{err: &runtime.AuthError{Subject: "reader@example.com", Err: errors.New("unauthorized_client")}}
	m := newModel(t, runner)
	next, cmd := m.Update(credentialReadMsg{name: "key.json", data: []byte(testKey)})
	m = drain(t, next.(Model), cmd)

	if m.State().Summaries != nil {
		t.Fatalf("summaries should be cleared")
	}
	if !strings.Contains(m.renderContent(), "Authorization failed") {
		t.Fatalf("error not rendered: %q", m.renderContent())
	}
}

func TestInitReadsConfiguredCredential(t *testing.T) {
	path := filepath.Join(t.TempDir(), "svc.json")
	if err := os.WriteFile(path, []byte(testKey), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	runner := &fakeRunner{results: summaries(2)}
	m := New(Options{Runner: runner, Folder: fetch.FolderDraft, Limit: 5, CredentialPath: path})
	m = drain(t, m, m.Init())
	if m.State().CredentialName != "svc.json" || len(runner.calls) != 1 || runner.calls[0].Folder != fetch.FolderDraft {
		t.Fatalf("state %+v calls %+v", m.State(), runner.calls)
	}
}

func TestMissingCredentialFile(t *testing.T) {
	runner := &fakeRunner{}
	m := New(Options{Runner: runner, CredentialPath: filepath.Join(t.TempDir(), "gone.json")})
	m = drain(t, m, m.Init())
	if len(runner.calls) != 0 {
		t.Fatalf("no fetch expected")
	}
	if !strings.HasPrefix(m.State().Message, "Invalid credential file") {
		t.Fatalf("message = %q", m.State().Message)
	}
}

func TestUploadOpensPicker(t *testing.T) {
	m := newModel(t, &fakeRunner{})
	m, cmd := press(t, m, runes("u"))
	if !m.picking || cmd == nil {
		t.Fatalf("picker should open")
	}
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.picking {
		t.Fatalf("esc should close picker")
	}
}

func TestPickerListsEveryKeyFile(t *testing.T) {
	dir := t.TempDir()
	names := []string{"alpha.json", "bravo.json", "charlie.json", "delta.json", "echo.json"}
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(testKey), 0o600); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	m := New(Options{Runner: &fakeRunner{}, StartDir: dir})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = next.(Model)

	m, cmd := press(t, m, runes("u"))
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		msg := c()
		if batch, ok := msg.(tea.BatchMsg); ok {
			queue = append(queue, batch...)
			continue
		}
		next, _ := m.Update(msg)
		m = next.(Model)
	}

	view := m.View()
	for _, name := range names {
		if !strings.Contains(view, name) {
			t.Fatalf("%s missing from picker view:\n%s", name, view)
		}
	}
}

func TestCtrlCQuitsFromPicker(t *testing.T) {
	m := newModel(t, &fakeRunner{})
	m, _ = press(t, m, runes("u"))
	_, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected QuitMsg")
	}
}

func TestQuit(t *testing.T) {
	m := newModel(t, &fakeRunner{})
	_, cmd := press(t, m, runes("q"))
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected QuitMsg")
	}
}
