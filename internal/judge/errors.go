package judge

import (
	"errors"
	"fmt"
)

// ErrUnreachable marks transport-level submit failures: the request never
// produced a usable backend answer (network error, timeout, non-2xx).
var ErrUnreachable = errors.New("judge backend unreachable")

// SubmitRejected is a logical rejection reported by the backend itself
// (success=false). The draft was delivered but no submission was created.
type SubmitRejected struct {
	Reason string
}

func (e *SubmitRejected) Error() string { return e.Reason }

// FetchError wraps a failed listing fetch. The caller decides whether to
// re-invoke; the client never retries on its own.
type FetchError struct {
	Cause error
}

func (e *FetchError) Error() string { return fmt.Sprintf("failed to fetch submissions: %v", e.Cause) }

func (e *FetchError) Unwrap() error { return e.Cause }

// UnavailableError covers status-check and run-trigger failures. The judge
// could not be asked; the message is meant for the user, not for matching.
type UnavailableError struct {
	Op    string
	Cause error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("judge busy or submission limit exceeded (%s: %v)", e.Op, e.Cause)
}

func (e *UnavailableError) Unwrap() error { return e.Cause }
