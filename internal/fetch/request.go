package fetch

import (
	"fmt"
	"strings"

	"github.com/joshsymonds/mailview/internal/gmail"
)

// Folder is one of the fixed set of mailbox folders the viewer can show.
type Folder string

const (
	FolderInbox Folder = "INBOX"
	FolderDraft Folder = "DRAFT"
	FolderSpam  Folder = "SPAM"
)

// Folders lists the selectable folders in display order.
func Folders() []Folder {
	return []Folder{FolderInbox, FolderDraft, FolderSpam}
}

// ParseFolder accepts a folder name in any case.
func ParseFolder(s string) (Folder, error) {
	f := Folder(strings.ToUpper(strings.TrimSpace(s)))
	if !f.Valid() {
		return "", fmt.Errorf("unknown folder %q (want one of INBOX, DRAFT, SPAM)", s)
	}
	return f, nil
}

func (f Folder) Valid() bool {
	switch f {
	case FolderInbox, FolderDraft, FolderSpam:
		return true
	}
	return false
}

// Labels maps the folder to the Gmail label ids it lists.
func (f Folder) Labels() []gmail.LabelID {
	switch f {
	case FolderInbox:
		return []gmail.LabelID{gmail.LabelInbox}
	case FolderDraft:
		return []gmail.LabelID{gmail.LabelDraft}
	case FolderSpam:
		return []gmail.LabelID{gmail.LabelSpam}
	}
	return nil
}

// Next cycles through Folders.
func (f Folder) Next() Folder {
	all := Folders()
	for i, candidate := range all {
		if candidate == f {
			return all[(i+1)%len(all)]
		}
	}
	return all[0]
}

// Bounds is the inclusive range a result count may take.
type Bounds struct {
	Min int
	Max int
}

// DefaultBounds matches the viewer's slider: 5 to 50.
var DefaultBounds = Bounds{Min: 5, Max: 50}

// DefaultLimit is the slider's starting value.
const DefaultLimit = 10

func (b Bounds) Clamp(n int) int {
	if n < b.Min {
		return b.Min
	}
	if n > b.Max {
		return b.Max
	}
	return n
}

func (b Bounds) Contains(n int) bool { return n >= b.Min && n <= b.Max }

func (b Bounds) Validate() error {
	if b.Min < 1 {
		return fmt.Errorf("minimum limit must be at least 1, got %d", b.Min)
	}
	if b.Max < b.Min {
		return fmt.Errorf("maximum limit %d is below minimum %d", b.Max, b.Min)
	}
	return nil
}

// Request selects a folder and caps how many summaries come back.
type Request struct {
	Folder Folder
	Limit  int
}

func (r Request) Validate() error {
	if !r.Folder.Valid() {
		return fmt.Errorf("unknown folder %q", r.Folder)
	}
	if r.Limit < 1 {
		return fmt.Errorf("limit must be positive, got %d", r.Limit)
	}
	return nil
}
