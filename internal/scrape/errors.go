package scrape

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"syscall"
)

// ErrNoQueries is returned when a run is started with an empty query list.
var ErrNoQueries = errors.New("no search queries provided; nothing to do")

// ErrRunAborted wraps conditions that make the whole run meaningless, such
// as failing to start the shared browser. Per-job failures never use it.
var ErrRunAborted = errors.New("run aborted")

// JobError records a failure caught at a job boundary. It is attached to
// the failing job's slot and never propagates to sibling jobs.
type JobError struct {
	Job string
	Err error
}

func (e *JobError) Error() string {
	return fmt.Sprintf("job %s: %v", e.Job, e.Err)
}

func (e *JobError) Unwrap() error { return e.Err }

// NavCause classifies a navigation failure.
type NavCause string

// Navigation failure causes surfaced in status lines.
const (
	CauseUnknown    NavCause = "unknown"
	CauseNoSuchHost NavCause = "no_such_host"
	CauseConnReset  NavCause = "connection_reset"
	CauseTimeout    NavCause = "timeout"
)

// NavError wraps a failed navigation with its classified cause. These are
// warnings against a specific job, never run-wide failures.
type NavError struct {
	URL   string
	Cause NavCause
	Err   error
}

func (e *NavError) Error() string {
	return fmt.Sprintf("navigate %s (%s): %v", e.URL, e.Cause, e.Err)
}

func (e *NavError) Unwrap() error { return e.Err }

// NewNavError classifies err and wraps it for the given URL.
func NewNavError(url string, err error) *NavError {
	return &NavError{URL: url, Cause: classify(err), Err: err}
}

func classify(err error) NavCause {
	if err == nil {
		return CauseUnknown
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return CauseNoSuchHost
	}
	if errors.Is(err, syscall.ECONNRESET) {
		return CauseConnReset
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return CauseTimeout
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return CauseTimeout
	}
	// Browser engines surface their net stack errors as plain strings.
	msg := err.Error()
	switch {
	case strings.Contains(msg, "ERR_NAME_NOT_RESOLVED"):
		return CauseNoSuchHost
	case strings.Contains(msg, "ERR_CONNECTION_RESET"):
		return CauseConnReset
	case strings.Contains(msg, "ERR_TIMED_OUT"):
		return CauseTimeout
	}
	return CauseUnknown
}

// Describe renders a user-facing status line for a navigation failure.
func (e *NavError) Describe() string {
	switch e.Cause {
	case CauseNoSuchHost:
		return fmt.Sprintf("Error accessing %s: link is not accessible.", e.URL)
	case CauseConnReset:
		return fmt.Sprintf("Error accessing %s: connection reset.", e.URL)
	case CauseTimeout:
		return fmt.Sprintf("Error accessing %s: connection timed out.", e.URL)
	default:
		return fmt.Sprintf("Error accessing %s: %v", e.URL, e.Err)
	}
}
