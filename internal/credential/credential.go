package credential

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

// maxDocumentSize bounds how much of an uploaded key document is read.
const maxDocumentSize = 1 << 20

// Credential is a parsed service-account key document. The raw bytes are
// kept for the authorization exchange and never leave process memory.
type Credential struct {
	Type         string `json:"type"`
	ProjectID    string `json:"project_id"`
	PrivateKeyID string `json:"private_key_id"`
	ClientEmail  string `json:"client_email"`
	ClientID     string `json:"client_id"`
	TokenURI     string `json:"token_uri"`

	raw []byte
}

// ParseError reports an uploaded document that is not valid JSON.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse credential: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Parse decodes a key document. It only checks that the bytes form a JSON
// object; whether the key is usable is decided by the authorization step.
func Parse(data []byte) (Credential, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return Credential{}, &ParseError{Err: errors.New("document is empty")}
	}
	if !json.Valid(trimmed) {
		// Unmarshal gives a positioned syntax error; Valid alone does not.
		var probe any
		err := json.Unmarshal(trimmed, &probe)
		if err == nil {
			err = errors.New("invalid JSON")
		}
		return Credential{}, &ParseError{Err: err}
	}
	if trimmed[0] != '{' {
		return Credential{}, &ParseError{Err: errors.New("document is not a JSON object")}
	}
	var cred Credential
	if err := json.Unmarshal(trimmed, &cred); err != nil {
		return Credential{}, &ParseError{Err: err}
	}
	cred.raw = append([]byte(nil), trimmed...)
	return cred, nil
}

// Read returns the raw bytes of a key document without parsing them.
func Read(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxDocumentSize+1))
	if err != nil {
		return nil, &ParseError{Err: fmt.Errorf("read document: %w", err)}
	}
	if len(data) > maxDocumentSize {
		return nil, &ParseError{Err: fmt.Errorf("document exceeds %d bytes", maxDocumentSize)}
	}
	return data, nil
}

// ReadFile reads a key document from disk.
func ReadFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ParseError{Err: err}
	}
	defer f.Close()
	return Read(f)
}

// JSON returns a copy of the document as uploaded.
func (c Credential) JSON() []byte {
	return append([]byte(nil), c.raw...)
}

// String identifies the credential without exposing key material.
func (c Credential) String() string {
	if c.ClientEmail == "" {
		return "credential(unknown account)"
	}
	return fmt.Sprintf("credential(%s)", c.ClientEmail)
}
