package errs

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrValidation is the sentinel for structured, field-addressable
	// upstream validation failures. These are user-correctable and are
	// never retried blindly.
	ErrValidation = errors.New("validation failed")

	// ErrTransient is the sentinel for network errors, timeouts and
	// 5xx-class responses. Transient errors are retry-eligible per the
	// owning component's policy.
	ErrTransient = errors.New("transient failure")

	// ErrAuth is the sentinel for authentication failures against an
	// external API. Callers perform one silent re-login before
	// surfacing it.
	ErrAuth = errors.New("authentication failed")

	// ErrRateLimited is the sentinel for rate-limit responses.
	// Retry-eligible with backoff; surfaced as "service busy" once the
	// retry budget is exhausted.
	ErrRateLimited = errors.New("rate limited")
)

// ValidationError carries the upstream field-path to message mapping so the
// caller can offer targeted remediation (for example substituting a
// placeholder email) instead of a blanket failure.
type ValidationError struct {
	Fields map[string]string
	Cause  error
}

// NewValidationError creates a ValidationError from a field-path to
// message mapping.
func NewValidationError(fields map[string]string) *ValidationError {
	return &ValidationError{Fields: fields}
}

// NewValidationErrorWithCause creates a ValidationError wrapping the
// underlying cause.
func NewValidationErrorWithCause(fields map[string]string, cause error) *ValidationError {
	return &ValidationError{Fields: fields, Cause: cause}
}

func (e *ValidationError) Error() string {
	paths := make([]string, 0, len(e.Fields))
	for path := range e.Fields {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	parts := make([]string, 0, len(paths))
	for _, path := range paths {
		parts = append(parts, fmt.Sprintf("%s: %s", path, sanitize(e.Fields[path])))
	}

	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %s)", ErrValidation, strings.Join(parts, "; "), e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// Field returns the message for a field path and whether one is present.
func (e *ValidationError) Field(path string) (string, bool) {
	msg, ok := e.Fields[path]
	return msg, ok
}

// TransientError reports a retry-eligible failure of an external call.
// StatusCode is zero when the failure never produced an HTTP response.
type TransientError struct {
	Op         string
	StatusCode int
	Cause      error
}

// NewTransientError creates a TransientError for the named operation.
func NewTransientError(op string, statusCode int, cause error) *TransientError {
	return &TransientError{Op: op, StatusCode: statusCode, Cause: cause}
}

func (e *TransientError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: %s returned status %d (cause: %s)", ErrTransient, e.Op, e.StatusCode, e.Cause)
	}
	return fmt.Sprintf("%s: %s (cause: %s)", ErrTransient, e.Op, e.Cause)
}

func (e *TransientError) Unwrap() error {
	return ErrTransient
}

// AuthError reports an authentication failure against an external API.
type AuthError struct {
	Op    string
	Cause error
}

// NewAuthError creates an AuthError for the named operation.
func NewAuthError(op string, cause error) *AuthError {
	return &AuthError{Op: op, Cause: cause}
}

func (e *AuthError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %s)", ErrAuth, e.Op, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrAuth, e.Op)
}

func (e *AuthError) Unwrap() error {
	return ErrAuth
}

// RateLimitError reports that an external API rejected the call under load.
// Attempts records how many calls were made before giving up.
type RateLimitError struct {
	Op       string
	Attempts int
}

// NewRateLimitError creates a RateLimitError for the named operation.
func NewRateLimitError(op string, attempts int) *RateLimitError {
	return &RateLimitError{Op: op, Attempts: attempts}
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%s: %s gave up after %d attempts", ErrRateLimited, e.Op, e.Attempts)
}

func (e *RateLimitError) Unwrap() error {
	return ErrRateLimited
}
