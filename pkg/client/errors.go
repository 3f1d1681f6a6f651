package client

import (
	"errors"
	"fmt"
)

// Kind classifies a failed client operation. UIs key their error copy and
// recovery behavior off the kind rather than the raw error text.
type Kind string

const (
	KindSessionCreation Kind = "session_creation"
	KindSessionResume   Kind = "session_resume"
	KindActivityFetch   Kind = "activity_fetch"
	KindSubmitAnswer    Kind = "submit_answer"
	KindRevealAnswer    Kind = "reveal_answer"
	KindReadinessFetch  Kind = "readiness_fetch"
	KindFlashcardFetch  Kind = "flashcard_fetch"
)

// Error wraps a failed protocol call with its kind and, when the server
// answered, the HTTP status and server-provided message.
type Error struct {
	Kind    Kind
	Op      string
	Status  int
	Message string
	Wrapped error
}

func (e *Error) Error() string {
	switch {
	case e.Message != "":
		return fmt.Sprintf("%s: %s (status %d)", e.Op, e.Message, e.Status)
	case e.Status != 0:
		return fmt.Sprintf("%s: status %d", e.Op, e.Status)
	case e.Wrapped != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Wrapped)
	default:
		return e.Op + ": request failed"
	}
}

func (e *Error) Unwrap() error {
	return e.Wrapped
}

// Soft reports whether callers should degrade gracefully instead of
// surfacing a hard failure. A failed resume falls back to a fresh start, a
// failed readiness fetch leaves the previous score on screen, and a failed
// referral fetch just skips the overlay.
func (e *Error) Soft() bool {
	return e.Kind == KindSessionResume || e.Kind == KindReadinessFetch || e.Kind == KindFlashcardFetch
}

// IsKind reports whether err is (or wraps) a client Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var ce *Error
	return errors.As(err, &ce) && ce.Kind == kind
}

// Controller guard errors. These are returned without hitting the network
// when a call arrives in a state that cannot serve it.
var (
	ErrNoActiveSession   = errors.New("no active session")
	ErrNotAwaitingAnswer = errors.New("no question awaiting an answer")
	ErrStartInFlight     = errors.New("a session start is already in flight")
	ErrFetchInFlight     = errors.New("an activity fetch is already in flight")
	ErrSubmitInFlight    = errors.New("an answer submission is already in flight")
	ErrRevealInFlight    = errors.New("a reveal request is already in flight")
	ErrReferralInFlight  = errors.New("a flashcard referral is already in flight")
)
