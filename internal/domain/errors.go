package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrAuthRequired means an operation needing a session was invoked
	// with none active; the caller should prompt for login.
	ErrAuthRequired = errors.New("not logged in")
	// ErrLoginFailed means credentials were rejected or the platform
	// returned an empty token.
	ErrLoginFailed = errors.New("login failed")
	// ErrRobotCheck means the platform presented an anti-automation
	// challenge that needs human intervention.
	ErrRobotCheck = errors.New("robot check required")
	// ErrConnection is a transient network failure; safe to retry.
	ErrConnection = errors.New("connection failed")
	// ErrParse means expected structure was missing from a response.
	ErrParse = errors.New("unexpected page structure")
	// ErrNotFound covers unknown platform, contest, task or submission IDs.
	ErrNotFound = errors.New("not found")
	// ErrNotSupported marks an operation a platform adapter does not
	// implement.
	ErrNotSupported = errors.New("not supported by this platform")
)

// PartialRefreshError aggregates per-child failures from a bulk refresh.
// The successfully fetched children were still merged; callers decide
// whether to surface the partial data or the error.
type PartialRefreshError struct {
	// Failed holds the IDs of the children whose fetch failed.
	Failed []string
	// DeadlineExceeded is set when the refresh stopped waiting before
	// every child finished.
	DeadlineExceeded bool
}

func (e *PartialRefreshError) Error() string {
	if e.DeadlineExceeded && len(e.Failed) == 0 {
		return "refresh deadline exceeded"
	}
	msg := fmt.Sprintf("refresh failed for %d of the requested items", len(e.Failed))
	if len(e.Failed) > 0 {
		msg += ": " + strings.Join(e.Failed, ", ")
	}
	if e.DeadlineExceeded {
		msg += " (deadline exceeded)"
	}
	return msg
}
