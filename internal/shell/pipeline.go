package shell

import (
	"context"
	"log/slog"

	"github.com/joshsymonds/mailview/internal/credential"
	"github.com/joshsymonds/mailview/internal/fetch"
	"github.com/joshsymonds/mailview/internal/gmail"
	"github.com/joshsymonds/mailview/internal/rate"
	"github.com/joshsymonds/mailview/internal/runtime"
)

// Authenticator turns a parsed credential into an authorized Gmail client.
type Authenticator interface {
	Authenticate(ctx context.Context, cred credential.Credential) (gmail.Client, error)
}

// RuntimeAuthenticator adapts runtime.Authenticator to Authenticator.
type RuntimeAuthenticator struct {
	runtime.Authenticator
}

func (a RuntimeAuthenticator) Authenticate(ctx context.Context, cred credential.Credential) (gmail.Client, error) {
	h, err := a.Authenticator.Authenticate(ctx, cred)
	if err != nil {
		return nil, err
	}
	return h, nil
}

// Pipeline runs one fetch cycle: parse the credential, authorize, fetch.
// Nothing is reused between runs.
type Pipeline struct {
	Auth    Authenticator
	Limiter rate.Limiter
	Logger  *slog.Logger
}

// Run executes the cycle for raw credential bytes and a request.
func (p Pipeline) Run(ctx context.Context, raw []byte, req fetch.Request) ([]fetch.Summary, error) {
	cred, err := credential.Parse(raw)
	if err != nil {
		return nil, err
	}
	client, err := p.Auth.Authenticate(ctx, cred)
	if err != nil {
		return nil, err
	}
	return fetch.NewService(client, p.Limiter, p.logger()).Fetch(ctx, req)
}

func (p Pipeline) logger() *slog.Logger {
	if p.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return p.Logger
}
