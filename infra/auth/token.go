package auth

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrNoToken is returned when no provider in a chain yields a token.
var ErrNoToken = errors.New("no access token configured")

// TokenProvider supplies an access token for API authentication.
type TokenProvider interface {
	AccessToken() (string, error)
}

// FileTokenProvider reads a bearer token from a file on disk.
type FileTokenProvider struct {
	path string
}

// NewFileTokenProvider creates a TokenProvider that reads from the given file path.
func NewFileTokenProvider(path string) *FileTokenProvider {
	return &FileTokenProvider{path: path}
}

// Path returns the token file location.
func (f *FileTokenProvider) Path() string {
	return f.path
}

// AccessToken reads and returns the token, trimming whitespace.
func (f *FileTokenProvider) AccessToken() (string, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return "", fmt.Errorf("reading token from %s: %w", f.path, err)
	}

	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", fmt.Errorf("token file %s is empty", f.path)
	}

	return token, nil
}

// EnvTokenProvider reads the token from an environment variable on every call.
type EnvTokenProvider struct {
	name string
}

// NewEnvTokenProvider creates a TokenProvider backed by the named variable.
func NewEnvTokenProvider(name string) EnvTokenProvider {
	return EnvTokenProvider{name: name}
}

func (e EnvTokenProvider) AccessToken() (string, error) {
	tok := strings.TrimSpace(os.Getenv(e.name))
	if tok == "" {
		return "", fmt.Errorf("%s is empty", e.name)
	}
	return tok, nil
}

// Chain tries each provider in order and returns the first token found.
type Chain []TokenProvider

func (c Chain) AccessToken() (string, error) {
	var errs []error
	for _, p := range c {
		tok, err := p.AccessToken()
		if err == nil {
			return tok, nil
		}
		errs = append(errs, err)
	}
	return "", fmt.Errorf("%w: %w", ErrNoToken, errors.Join(errs...))
}
