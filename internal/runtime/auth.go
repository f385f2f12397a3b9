// internal/runtime/auth.go
package runtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/joshsymonds/mailview/internal/credential"
)

// ScopeReadonly is the only scope mailview ever requests.
const ScopeReadonly = gmail.GmailReadonlyScope

// AuthError reports a credential, scope or impersonation target rejected
// during the authorization exchange.
type AuthError struct {
	Subject string
	Err     error
}

func (e *AuthError) Error() string {
	if e.Subject == "" {
		return fmt.Sprintf("authorize: %v", e.Err)
	}
	return fmt.Sprintf("authorize as %s: %v", e.Subject, e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

// Authenticator exchanges service-account credentials for Gmail handles that
// impersonate Subject.
type Authenticator struct {
	Subject   string
	Endpoint  string            // optional Gmail API base URL override
	Transport http.RoundTripper // base transport; nil uses http.DefaultTransport
	Logger    *slog.Logger
}

// Authenticate performs the token exchange eagerly so that a rejected key or
// impersonation target surfaces here rather than on the first Gmail call.
func (a Authenticator) Authenticate(ctx context.Context, cred credential.Credential) (*Handle, error) {
	subject := strings.TrimSpace(a.Subject)
	if subject == "" {
		return nil, &AuthError{Err: errors.New("impersonation subject is not configured")}
	}
	logger := a.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	conf, err := google.JWTConfigFromJSON(cred.JSON(), ScopeReadonly)
	if err != nil {
		return nil, &AuthError{Subject: subject, Err: err}
	}
	conf.Subject = subject

	base := &http.Client{Transport: newLoggingTransport(a.Transport, logger)}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, base)

	ts := conf.TokenSource(ctx)
	if _, err := ts.Token(); err != nil {
		return nil, &AuthError{Subject: subject, Err: err}
	}
	logger.DebugContext(ctx, "authorized", "account", cred.ClientEmail, "subject", subject)

	opts := []option.ClientOption{option.WithHTTPClient(oauth2.NewClient(ctx, ts))}
	if a.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(a.Endpoint))
	}
	svc, err := gmail.NewService(ctx, opts...)
	if err != nil {
		return nil, &AuthError{Subject: subject, Err: fmt.Errorf("create gmail service: %w", err)}
	}
	return &Handle{googleClient: NewGoogleAPIClient(svc), subject: subject, account: cred.ClientEmail}, nil
}

// Handle is an authorized, read-only Gmail client bound to one credential
// and one impersonation subject. It lives for a single fetch cycle.
type Handle struct {
	*googleClient
	subject string
	account string
}

func (h *Handle) Subject() string  { return h.subject }
func (h *Handle) Account() string  { return h.account }
func (h *Handle) Scopes() []string { return []string{ScopeReadonly} }
