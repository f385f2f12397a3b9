// internal/gmail/types.go
package gmail

type MessageID string
type LabelID string

// System labels backing the viewer's folders.
const (
	LabelInbox LabelID = "INBOX"
	LabelDraft LabelID = "DRAFT"
	LabelSpam  LabelID = "SPAM"
)

// Header names requested for every metadata fetch.
const (
	HeaderFrom    = "From"
	HeaderSubject = "Subject"
	HeaderDate    = "Date"
)

// SummaryHeaders returns the metadata headers the viewer asks Gmail for.
func SummaryHeaders() []string {
	return []string{HeaderFrom, HeaderSubject, HeaderDate}
}

type MessageMeta struct {
	ID      MessageID
	Labels  []LabelID
	Headers map[string]string // canonical MIME keys: From, Subject, Date
	Snippet string
}

// Header looks up a header by canonical name. ok is false when the message
// did not carry it at all, which is distinct from an empty value.
func (m MessageMeta) Header(name string) (string, bool) {
	v, ok := m.Headers[name]
	return v, ok
}
