package gist

import (
	"errors"
	"fmt"
)

var (
	ErrFileNotFound     = errors.New("gist file not found")
	ErrUnexpectedStatus = errors.New("GitHub API returned non-OK status")
)

// AuthError reports a token that could not be verified against the GitHub API.
type AuthError struct {
	// StatusCode is 0 when no response was received.
	StatusCode int
	Reason     string
	Err        error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("authentication error: %s: %v", e.Reason, e.Err)
	}
	return "authentication error: " + e.Reason
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}
