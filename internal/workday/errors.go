package workday

import (
	"errors"
	"fmt"
)

var (
	// ErrNoReportEntries is the cause when the current-user report is empty.
	ErrNoReportEntries = errors.New("workday: current-user report returned no entries")
	// ErrMissingIdentifiers is the cause when the report entry lacks an identifier.
	ErrMissingIdentifiers = errors.New("workday: current-user report entry is missing identifiers")
	// ErrWorkerNotFound is the cause when the worker search returns no records.
	ErrWorkerNotFound = errors.New("workday: worker search returned no results")
)

// BackendError is any failure talking to the HR backend: transport faults
// (StatusCode == 0), non-2xx responses, and replies that lack data the
// gateway cannot proceed without.
type BackendError struct {
	Message    string
	StatusCode int
	// Payload is the decoded response body: a JSON value, raw text, or nil.
	Payload any
	Cause   error
}

func (e *BackendError) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

func (e *BackendError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// HasStatus reports whether the backend produced an HTTP response.
func (e *BackendError) HasStatus() bool {
	return e != nil && e.StatusCode > 0
}

func transportError(err error) *BackendError {
	return &BackendError{
		Message: fmt.Sprintf("Failed to reach Workday: %v", err),
		Cause:   err,
	}
}

func statusError(status int, payload any) *BackendError {
	return &BackendError{
		Message:    fmt.Sprintf("Workday request failed (%d)", status),
		StatusCode: status,
		Payload:    payload,
	}
}
