package shell

import (
	"errors"
	"strings"

	"github.com/joshsymonds/mailview/internal/credential"
	"github.com/joshsymonds/mailview/internal/fetch"
	"github.com/joshsymonds/mailview/internal/runtime"
)

// Describe is the single error boundary: it turns any fetch-cycle error into
// a one-line message for the user. A nil error yields "".
func Describe(err error) string {
	if err == nil {
		return ""
	}
	var (
		perr *credential.ParseError
		aerr *runtime.AuthError
		ferr *fetch.FetchError
	)
	var prefix string
	switch {
	case errors.As(err, &perr):
		prefix = "Invalid credential file"
	case errors.As(err, &aerr):
		prefix = "Authorization failed"
	case errors.As(err, &ferr):
		prefix = "Could not fetch messages"
	default:
		prefix = "Error"
	}
	return prefix + ": " + oneLine(err.Error())
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
