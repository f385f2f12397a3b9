// internal/fetch/service.go
package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/joshsymonds/mailview/internal/gmail"
	"github.com/joshsymonds/mailview/internal/rate"
)

// NoSubject stands in for a message without a Subject header.
const NoSubject = "(No Subject)"

// Summary is the display record for one message.
type Summary struct {
	Sender  string `json:"sender"`
	Subject string `json:"subject"`
	Date    string `json:"date"`
	Preview string `json:"preview"`
}

// FetchError reports a list or per-message failure. Any such failure aborts
// the whole fetch.
type FetchError struct {
	Op  string // "list" or "get"
	ID  gmail.MessageID
	Err error
}

func (e *FetchError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s message %s: %v", e.Op, e.ID, e.Err)
	}
	return fmt.Sprintf("%s messages: %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Service retrieves message summaries through a gmail.Client.
type Service struct {
	Client  gmail.Client
	Limiter rate.Limiter
	Logger  *slog.Logger
}

// NewService constructs a Service; a nil limiter disables pacing.
func NewService(client gmail.Client, limiter rate.Limiter, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}
	if limiter == nil {
		limiter = rate.Unlimited{}
	}
	return &Service{Client: client, Limiter: limiter, Logger: logger}
}

// Fetch lists up to req.Limit messages in req.Folder and returns their
// summaries in provider order.
func (s *Service) Fetch(ctx context.Context, req Request) ([]Summary, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}
	s.Logger.DebugContext(ctx, "fetching", "folder", string(req.Folder), "limit", req.Limit)

	if err := s.Limiter.Wait(ctx); err != nil {
		return nil, &FetchError{Op: "list", Err: err}
	}
	ids, err := s.Client.ListMessages(ctx, req.Folder.Labels(), req.Limit)
	if err != nil {
		return nil, &FetchError{Op: "list", Err: err}
	}
	if len(ids) > req.Limit {
		ids = ids[:req.Limit]
	}

	headers := gmail.SummaryHeaders()
	out := make([]Summary, 0, len(ids))
	for _, id := range ids {
		if err := s.Limiter.Wait(ctx); err != nil {
			return nil, &FetchError{Op: "get", ID: id, Err: err}
		}
		meta, err := s.Client.GetMetadata(ctx, id, headers)
		if err != nil {
			return nil, &FetchError{Op: "get", ID: id, Err: err}
		}
		out = append(out, Summarize(meta))
	}
	s.Logger.InfoContext(ctx, "fetched", "folder", string(req.Folder), "count", len(out))
	return out, nil
}

// Summarize maps message metadata onto a Summary, defaulting absent fields.
func Summarize(meta gmail.MessageMeta) Summary {
	subject, ok := meta.Header(gmail.HeaderSubject)
	if !ok {
		subject = NoSubject
	}
	sender, _ := meta.Header(gmail.HeaderFrom)
	date, _ := meta.Header(gmail.HeaderDate)
	return Summary{
		Sender:  sender,
		Subject: subject,
		Date:    date,
		Preview: meta.Snippet,
	}
}
