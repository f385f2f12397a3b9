package shell

import (
	"github.com/joshsymonds/mailview/internal/fetch"
)

// Effect tells the driver what to do after a Step.
type Effect int

const (
	EffectNone Effect = iota
	// EffectFetch asks the driver to run one Pipeline cycle for
	// State.Request() and report back with FetchCompleted{Cycle: State.Cycle}.
	EffectFetch
)

// State is the viewer's interaction state. The credential bytes live here
// only for the lifetime of the process.
type State struct {
	CredentialName string
	Credential     []byte

	Folder    fetch.Folder
	Limit     int
	Bounds    fetch.Bounds
	TableView bool

	Loading bool
	Cycle   int
	pending bool

	Fetched   bool
	Summaries []fetch.Summary
	Message   string
}

// NewState builds the initial state. The limit is clamped into bounds.
func NewState(folder fetch.Folder, limit int, bounds fetch.Bounds) State {
	if !folder.Valid() {
		folder = fetch.FolderInbox
	}
	return State{Folder: folder, Limit: bounds.Clamp(limit), Bounds: bounds}
}

// Request is the fetch the current controls describe.
func (s State) Request() fetch.Request {
	return fetch.Request{Folder: s.Folder, Limit: s.Limit}
}

// HasCredential reports whether a document has been supplied.
func (s State) HasCredential() bool { return len(s.Credential) > 0 }

// Pending reports whether a fetch was requested while another ran.
func (s State) Pending() bool { return s.pending }

type Event interface{ isEvent() }

type (
	CredentialLoaded struct {
		Name string
		Data []byte
	}
	// CredentialUnreadable reports a file that could not be read at all.
	CredentialUnreadable struct {
		Name string
		Err  error
	}
	FolderSelected struct{ Folder fetch.Folder }
	FolderCycled   struct{}
	LimitAdjusted  struct{ Delta int }
	TableToggled   struct{}
	Refreshed      struct{}
	FetchCompleted struct {
		Cycle     int
		Summaries []fetch.Summary
		Err       error
	}
)

func (CredentialLoaded) isEvent()     {}
func (CredentialUnreadable) isEvent() {}
func (FolderSelected) isEvent()       {}
func (FolderCycled) isEvent()         {}
func (LimitAdjusted) isEvent()        {}
func (TableToggled) isEvent()         {}
func (Refreshed) isEvent()            {}
func (FetchCompleted) isEvent()       {}

// Step is the pure transition function. It never performs I/O; when the
// returned effect is EffectFetch the caller runs the pipeline and feeds the
// outcome back as FetchCompleted.
func Step(s State, ev Event) (State, Effect) {
	switch ev := ev.(type) {
	case CredentialLoaded:
		s.CredentialName = ev.Name
		s.Credential = ev.Data
		return s.requestFetch()

	case CredentialUnreadable:
		s.CredentialName = ev.Name
		s.Credential = nil
		s.Summaries = nil
		s.Fetched = false
		s.Message = Describe(ev.Err)
		return s, EffectNone

	case FolderSelected:
		if !ev.Folder.Valid() || ev.Folder == s.Folder {
			return s, EffectNone
		}
		s.Folder = ev.Folder
		return s.requestFetch()

	case FolderCycled:
		s.Folder = s.Folder.Next()
		return s.requestFetch()

	case LimitAdjusted:
		n := s.Bounds.Clamp(s.Limit + ev.Delta)
		if n == s.Limit {
			return s, EffectNone
		}
		s.Limit = n
		return s.requestFetch()

	case TableToggled:
		s.TableView = !s.TableView
		return s, EffectNone

	case Refreshed:
		return s.requestFetch()

	case FetchCompleted:
		if !s.Loading || ev.Cycle != s.Cycle {
			return s, EffectNone
		}
		s.Loading = false
		if s.pending {
			// controls changed mid-flight; this result is stale
			s.pending = false
			return s.requestFetch()
		}
		s.Fetched = true
		if ev.Err != nil {
			s.Summaries = nil
			s.Message = Describe(ev.Err)
			return s, EffectNone
		}
		s.Summaries = ev.Summaries
		s.Message = ""
		return s, EffectNone
	}
	return s, EffectNone
}

func (s State) requestFetch() (State, Effect) {
	if !s.HasCredential() {
		return s, EffectNone
	}
	if s.Loading {
		s.pending = true
		return s, EffectNone
	}
	s.Loading = true
	s.Cycle++
	return s, EffectFetch
}
