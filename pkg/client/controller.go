package client

import (
	"context"
	"log"
	"sync"

	"mix-service/pkg/mix"
)

// State is the controller's lifecycle tag. All view-facing booleans derive
// from this single tag, so impossible combinations (feedback and reveal
// shown at once) cannot be represented.
type State string

const (
	StateIdle            State = "idle"
	StateStarting        State = "starting"
	StateActive          State = "active"
	StateAwaitingAnswer  State = "awaiting_answer"
	StateShowingFeedback State = "showing_feedback"
	StateShowingReveal   State = "showing_reveal"
	StateCompleted       State = "completed"
	StateError           State = "error"
)

// SessionController owns one Mix-Mode study run: session lifecycle, the
// current activity, feedback or reveal for that activity, progress, and the
// readiness score shown alongside. It is the only owner of that state;
// callers read it through the accessors and drive it through the actions.
//
// Every action validates against the state tag before touching the network,
// and long calls run outside the lock behind an in-flight latch, so a
// re-entrant call is rejected immediately instead of queued. StateError
// keeps the session id when one exists; FetchNext from there is the retry
// path.
type SessionController struct {
	api      *Client
	pointers *PointerStore // nil disables resume across restarts

	mu        sync.Mutex
	state     State
	lastErr   error
	sessionID string
	courseID  string
	deckIDs   []string

	current  *mix.Activity
	feedback *mix.AnswerFeedback
	revealed *mix.RevealedAnswer
	progress mix.Progress
	points   int

	isFetching         bool
	isSubmitting       bool
	isRevealing        bool
	isFetchingReferral bool

	readiness           *mix.ReadinessScore
	readinessKey        string
	isFetchingReadiness bool
	readinessFetchKey   string

	referrals map[string]*mix.FlashcardContent
}

// NewSessionController creates a controller over the given protocol client.
// pointers may be nil; sessions then live only as long as the process.
func NewSessionController(api *Client, pointers *PointerStore) *SessionController {
	return &SessionController{
		api:       api,
		pointers:  pointers,
		state:     StateIdle,
		referrals: make(map[string]*mix.FlashcardContent),
	}
}

// Start creates a fresh session over the given decks and saves its pointer.
func (c *SessionController) Start(ctx context.Context, courseID string, deckIDs []string) error {
	c.mu.Lock()
	if c.state == StateStarting {
		c.mu.Unlock()
		return ErrStartInFlight
	}
	c.clearSessionLocked()
	c.state = StateStarting
	c.mu.Unlock()

	result, err := c.api.StartSession(ctx, courseID, deckIDs)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.state = StateError
		c.lastErr = err
		return err
	}
	c.sessionID = result.SessionID
	c.courseID = courseID
	c.deckIDs = append([]string(nil), deckIDs...)
	c.progress = mix.Progress{TotalFlashcards: result.TotalFlashcards}
	c.state = StateActive
	c.savePointerLocked()
	return nil
}

// Resume rehydrates the session saved for this deck selection, if any. It
// reports whether a session was adopted; a missing pointer is not an error,
// and a stale or mismatched one is discarded so the caller starts fresh.
// Resume is only meaningful before a session is running; calling it with one
// in progress returns false without touching state.
func (c *SessionController) Resume(ctx context.Context, courseID string, deckIDs []string) (bool, error) {
	c.mu.Lock()
	if c.state != StateIdle && c.state != StateError {
		c.mu.Unlock()
		return false, nil
	}
	pointers := c.pointers
	c.mu.Unlock()

	if pointers == nil {
		return false, nil
	}
	sessionID, err := pointers.Get(courseID, deckIDs)
	if err != nil {
		return false, &Error{Kind: KindSessionResume, Op: "read session pointer", Wrapped: err}
	}
	if sessionID == "" {
		return false, nil
	}

	info, err := c.api.GetSession(ctx, sessionID)
	if err != nil {
		// Soft failure: drop the pointer and report no session so the
		// caller falls back to a fresh start.
		c.discardPointer(courseID, deckIDs)
		return false, err
	}
	if info.Status != mix.SessionActive || DeckKey(info.DeckIDs) != DeckKey(deckIDs) {
		c.discardPointer(courseID, deckIDs)
		return false, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.clearSessionLocked()
	c.sessionID = info.SessionID
	c.courseID = info.CourseID
	c.deckIDs = append([]string(nil), info.DeckIDs...)
	c.progress = info.Progress
	c.state = StateActive
	return true, nil
}

// FetchNext advances to the next activity. Fetching while a question is
// unanswered discards that question without penalty. A nil activity from
// the server completes the session and drops its saved pointer.
func (c *SessionController) FetchNext(ctx context.Context) error {
	c.mu.Lock()
	if err := c.busyLocked(); err != nil {
		c.mu.Unlock()
		return err
	}
	if c.sessionID == "" || c.state == StateCompleted {
		c.mu.Unlock()
		return ErrNoActiveSession
	}
	sessionID := c.sessionID
	c.isFetching = true
	c.mu.Unlock()

	activity, err := c.api.NextActivity(ctx, sessionID)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.isFetching = false
	if err != nil {
		c.state = StateError
		c.lastErr = err
		return err
	}
	c.lastErr = nil
	c.current = activity
	c.feedback = nil
	c.revealed = nil
	switch {
	case activity == nil:
		c.state = StateCompleted
		c.discardPointer(c.courseID, c.deckIDs)
	case activity.ActivityType == mix.ActivityQuestion:
		c.state = StateAwaitingAnswer
	case activity.ActivityType == mix.ActivityFlashcard:
		c.state = StateActive
	default:
		// A tag outside the union means client and server disagree on the
		// protocol version.
		unknownErr := &Error{Kind: KindActivityFetch, Op: "fetch next activity", Message: "unknown activity type " + activity.ActivityType}
		c.current = nil
		c.state = StateError
		c.lastErr = unknownErr
		return unknownErr
	}
	return nil
}

// Submit grades the learner's answer to the current question. The answer
// must already have the shape the question type dictates; the controller
// passes it through untouched.
func (c *SessionController) Submit(ctx context.Context, userAnswer interface{}) (*mix.AnswerFeedback, error) {
	c.mu.Lock()
	if err := c.busyLocked(); err != nil {
		c.mu.Unlock()
		return nil, err
	}
	if c.sessionID == "" {
		c.mu.Unlock()
		return nil, ErrNoActiveSession
	}
	if c.state != StateAwaitingAnswer || c.current == nil || c.current.Question == nil {
		c.mu.Unlock()
		return nil, ErrNotAwaitingAnswer
	}
	req := &mix.SubmitAnswerRequest{
		FlashcardID:  c.current.FlashcardID,
		QuestionHash: c.current.Question.QuestionHash,
		Level:        c.current.Level,
		IsFollowUp:   c.current.IsFollowUp,
		UserAnswer:   userAnswer,
	}
	sessionID := c.sessionID
	c.isSubmitting = true
	c.mu.Unlock()

	feedback, err := c.api.SubmitAnswer(ctx, sessionID, req)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.isSubmitting = false
	if err != nil {
		c.state = StateError
		c.lastErr = err
		return nil, err
	}
	c.lastErr = nil
	c.feedback = feedback
	c.revealed = nil
	c.state = StateShowingFeedback
	if feedback.IsCorrect {
		c.points += feedback.PointsEarned
	}
	return feedback, nil
}

// Reveal gives up on the current question without grading. Once revealed,
// the question can no longer be submitted.
func (c *SessionController) Reveal(ctx context.Context) (*mix.RevealedAnswer, error) {
	c.mu.Lock()
	if err := c.busyLocked(); err != nil {
		c.mu.Unlock()
		return nil, err
	}
	if c.sessionID == "" {
		c.mu.Unlock()
		return nil, ErrNoActiveSession
	}
	if c.state != StateAwaitingAnswer || c.current == nil || c.current.Question == nil {
		c.mu.Unlock()
		return nil, ErrNotAwaitingAnswer
	}
	req := &mix.RevealAnswerRequest{
		FlashcardID:  c.current.FlashcardID,
		QuestionHash: c.current.Question.QuestionHash,
		Level:        c.current.Level,
		IsFollowUp:   c.current.IsFollowUp,
	}
	sessionID := c.sessionID
	c.isRevealing = true
	c.mu.Unlock()

	revealed, err := c.api.RevealAnswer(ctx, sessionID, req)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.isRevealing = false
	if err != nil {
		c.state = StateError
		c.lastErr = err
		return nil, err
	}
	c.lastErr = nil
	c.revealed = revealed
	c.feedback = nil
	c.state = StateShowingReveal
	return revealed, nil
}

// HideFeedback dismisses the feedback panel. The caller then advances with
// FetchNext; dismissal and advancement stay decoupled so feedback can be
// held on screen as long as the learner wants.
func (c *SessionController) HideFeedback() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.feedback = nil
	if c.state == StateShowingFeedback {
		c.state = StateActive
	}
}

// HideReveal dismisses the reveal panel.
func (c *SessionController) HideReveal() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.revealed = nil
	if c.state == StateShowingReveal {
		c.state = StateActive
	}
}

// ReferFlashcard fetches the full content of the flashcard behind the
// current question, for a reference overlay. It never touches session
// state, caches per flashcard, and coalesces concurrent requests.
func (c *SessionController) ReferFlashcard(ctx context.Context) (*mix.FlashcardContent, error) {
	c.mu.Lock()
	if c.current == nil || c.current.Question == nil {
		c.mu.Unlock()
		return nil, ErrNotAwaitingAnswer
	}
	if c.isFetchingReferral {
		c.mu.Unlock()
		return nil, ErrReferralInFlight
	}
	courseID, flashcardID := c.courseID, c.current.FlashcardID
	if cached, ok := c.referrals[courseID+"|"+flashcardID]; ok {
		c.mu.Unlock()
		return cached, nil
	}
	c.isFetchingReferral = true
	c.mu.Unlock()

	content, err := c.api.FlashcardContent(ctx, courseID, flashcardID)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.isFetchingReferral = false
	if err != nil {
		return nil, err
	}
	c.referrals[courseID+"|"+flashcardID] = content
	return content, nil
}

// RefreshReadiness fetches the Trinity blend for a deck selection. With
// force false, a repeat call for the key already fetched (or in flight)
// returns the held score without touching the network; force true always
// refetches and asks the server to bypass its cache.
func (c *SessionController) RefreshReadiness(ctx context.Context, courseID string, deckIDs []string, force bool) (*mix.ReadinessScore, error) {
	key := courseID + "|" + DeckKey(deckIDs)

	c.mu.Lock()
	if !force {
		if c.readiness != nil && c.readinessKey == key {
			score := c.readiness
			c.mu.Unlock()
			return score, nil
		}
		if c.isFetchingReadiness && c.readinessFetchKey == key {
			score := c.readiness
			c.mu.Unlock()
			return score, nil
		}
	}
	if c.isFetchingReadiness {
		score := c.readiness
		c.mu.Unlock()
		return score, nil
	}
	c.isFetchingReadiness = true
	c.readinessFetchKey = key
	c.mu.Unlock()

	score, err := c.api.DeckReadiness(ctx, &mix.DeckReadinessRequest{
		CourseID:     courseID,
		DeckIDs:      deckIDs,
		ForceRefresh: force,
	})

	c.mu.Lock()
	defer c.mu.Unlock()
	c.isFetchingReadiness = false
	if err != nil {
		return nil, err
	}
	c.readiness = score
	c.readinessKey = key
	return score, nil
}

// RefreshProgress pulls live progress and points from the status endpoint.
// A failure leaves the last known progress in place.
func (c *SessionController) RefreshProgress(ctx context.Context) error {
	c.mu.Lock()
	if c.sessionID == "" {
		c.mu.Unlock()
		return ErrNoActiveSession
	}
	sessionID := c.sessionID
	c.mu.Unlock()

	status, err := c.api.SessionStatus(ctx, sessionID)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.progress = status.Progress
	c.points = status.Points
	if status.Status == mix.SessionCompleted && c.state != StateCompleted {
		c.state = StateCompleted
		c.current = nil
		c.feedback = nil
		c.revealed = nil
		c.discardPointer(c.courseID, c.deckIDs)
	}
	return nil
}

// Reset clears the saved pointer and all in-memory session state, returning
// the controller to idle. The server-side session is left alone.
func (c *SessionController) Reset() error {
	c.mu.Lock()
	courseID, deckIDs := c.courseID, c.deckIDs
	c.clearSessionLocked()
	c.state = StateIdle
	c.mu.Unlock()

	if c.pointers != nil && courseID != "" {
		if err := c.pointers.Delete(courseID, deckIDs); err != nil {
			return &Error{Kind: KindSessionResume, Op: "clear session pointer", Wrapped: err}
		}
	}
	return nil
}

func (c *SessionController) clearSessionLocked() {
	c.sessionID = ""
	c.courseID = ""
	c.deckIDs = nil
	c.current = nil
	c.feedback = nil
	c.revealed = nil
	c.progress = mix.Progress{}
	c.points = 0
	c.lastErr = nil
}

// busyLocked rejects a session action while another is still in flight.
func (c *SessionController) busyLocked() error {
	switch {
	case c.isFetching:
		return ErrFetchInFlight
	case c.isSubmitting:
		return ErrSubmitInFlight
	case c.isRevealing:
		return ErrRevealInFlight
	}
	return nil
}

func (c *SessionController) savePointerLocked() {
	if c.pointers == nil {
		return
	}
	if err := c.pointers.Put(c.courseID, c.deckIDs, c.sessionID); err != nil {
		log.Printf("Warning: failed to save session pointer: %v", err)
	}
}

func (c *SessionController) discardPointer(courseID string, deckIDs []string) {
	if c.pointers == nil {
		return
	}
	if err := c.pointers.Delete(courseID, deckIDs); err != nil {
		log.Printf("Warning: failed to clear session pointer: %v", err)
	}
}

// ============================================================================
// Accessors
// ============================================================================

func (c *SessionController) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *SessionController) SessionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionID
}

// CurrentActivity returns the one activity the controller holds, or nil
// between activities and after completion.
func (c *SessionController) CurrentActivity() *mix.Activity {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

func (c *SessionController) Feedback() *mix.AnswerFeedback {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.feedback
}

func (c *SessionController) Revealed() *mix.RevealedAnswer {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.revealed
}

func (c *SessionController) Progress() mix.Progress {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.progress
}

func (c *SessionController) Points() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.points
}

// Readiness returns the last fetched score, which may be stale after a
// failed refresh. Nil until the first successful fetch.
func (c *SessionController) Readiness() *mix.ReadinessScore {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.readiness
}

// Err returns the error that moved the controller into StateError, nil
// otherwise.
func (c *SessionController) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// IsLoading reports whether a session start or activity fetch is running.
func (c *SessionController) IsLoading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == StateStarting || c.isFetching
}

func (c *SessionController) IsAwaitingAnswer() bool { return c.State() == StateAwaitingAnswer }

func (c *SessionController) IsShowingFeedback() bool { return c.State() == StateShowingFeedback }

func (c *SessionController) IsShowingReveal() bool { return c.State() == StateShowingReveal }

func (c *SessionController) IsCompleted() bool { return c.State() == StateCompleted }

func (c *SessionController) IsSubmitting() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.isSubmitting
}

func (c *SessionController) IsRevealing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.isRevealing
}

func (c *SessionController) IsFetchingReferral() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.isFetchingReferral
}
