package source

import (
	"errors"
	"fmt"
	"strings"
	"time"

	goerrors "github.com/go-errors/errors"
)

// ErrorKind separates provider failures the retry executor may repeat from
// those it must propagate immediately.
type ErrorKind string

const (
	KindTransient ErrorKind = "TRANSIENT"
	KindFatal     ErrorKind = "FATAL"
)

// ProviderError is a failure from a single external source.
type ProviderError struct {
	Source  string
	Kind    ErrorKind
	Message string
	Err     error
	Stack   []byte
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %s: %v", e.Source, e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s: %s", e.Source, e.Kind, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

func (e *ProviderError) StackTrace() []byte {
	return e.Stack
}

func newProviderError(source string, kind ErrorKind, message string, err error) *ProviderError {
	var stack []byte
	if stackErr, ok := err.(*goerrors.Error); ok {
		stack = stackErr.Stack()
	} else if err != nil {
		stack = goerrors.Wrap(err, 2).Stack()
	} else {
		stack = goerrors.New(message).Stack()
	}

	return &ProviderError{
		Source:  source,
		Kind:    kind,
		Message: message,
		Err:     err,
		Stack:   stack,
	}
}

// Transient marks a failure worth retrying: network errors, timeouts, 5xx.
func Transient(source, message string, err error) *ProviderError {
	return newProviderError(source, KindTransient, message, err)
}

// Fatal marks a failure that retrying cannot fix: 4xx other than 429,
// malformed payloads, bad credentials.
func Fatal(source, message string, err error) *ProviderError {
	return newProviderError(source, KindFatal, message, err)
}

// RateLimitError reports an exhausted quota, either from the local sliding
// window or a provider 429. Reset hints when the next call may succeed.
type RateLimitError struct {
	Source string
	Reset  time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%s: rate limit exceeded, resets in %s", e.Source, e.Reset)
}

// IsTransient reports whether err should be retried by the executor.
// Rate-limit denials are never retried here; backoff is the caller's job.
func IsTransient(err error) bool {
	var rle *RateLimitError
	if errors.As(err, &rle) {
		return false
	}
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Kind == KindTransient
	}
	// Unclassified errors (raw network failures) are worth one more try.
	return true
}

// SourceFailure pairs a source tag with the error it produced.
type SourceFailure struct {
	Source string
	Err    error
}

// AllFailedError is raised only when every enabled source fails. Partial
// success is the normal success path and never produces this error.
type AllFailedError struct {
	Failures []SourceFailure
}

func (e *AllFailedError) Error() string {
	reasons := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		reasons = append(reasons, fmt.Sprintf("%s: %v", f.Source, f.Err))
	}
	return fmt.Sprintf("all %d sources failed: %s", len(e.Failures), strings.Join(reasons, "; "))
}
