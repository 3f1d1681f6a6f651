package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"mix-service/pkg/mix"
)

// fakeMixServer scripts the service side of the protocol and counts the
// requests it receives, so tests can assert how often the controller
// actually touched the network.
type fakeMixServer struct {
	mu         sync.Mutex
	activities []*mix.Activity
	session    *mix.SessionInfo
	failNext   bool

	answerStarted chan struct{}
	answerGate    chan struct{}

	startCalls     int
	sessionCalls   int
	nextCalls      int
	answerCalls    int
	revealCalls    int
	readinessCalls int
	flashcardCalls int
}

func (f *fakeMixServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	switch {
	case path == "/mix/start":
		f.mu.Lock()
		f.startCalls++
		f.mu.Unlock()
		writeJSON(w, http.StatusCreated, &mix.StartSessionResult{SessionID: "sess-1", TotalFlashcards: 3})
	case path == "/mix/deck-readiness":
		f.mu.Lock()
		f.readinessCalls++
		f.mu.Unlock()
		writeJSON(w, http.StatusOK, &mix.ReadinessScore{OverallReadinessScore: 55, CoverageFactor: 0.4, AccuracyFactor: 0.7, MomentumFactor: 0.5})
	case strings.HasPrefix(path, "/mix/flashcard/"):
		f.mu.Lock()
		f.flashcardCalls++
		f.mu.Unlock()
		writeJSON(w, http.StatusOK, &mix.FlashcardContent{FlashcardID: "card-1", Question: "What is a goroutine?"})
	case strings.HasSuffix(path, "/next"):
		f.mu.Lock()
		f.nextCalls++
		fail := f.failNext
		var activity *mix.Activity
		if !fail && len(f.activities) > 0 {
			activity = f.activities[0]
			f.activities = f.activities[1:]
		}
		f.mu.Unlock()
		if fail {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "engine unavailable"})
			return
		}
		writeJSON(w, http.StatusOK, activity)
	case strings.HasSuffix(path, "/answer"):
		f.mu.Lock()
		f.answerCalls++
		started, gate := f.answerStarted, f.answerGate
		f.mu.Unlock()
		if started != nil {
			started <- struct{}{}
		}
		if gate != nil {
			<-gate
		}
		writeJSON(w, http.StatusOK, &mix.AnswerFeedback{IsCorrect: true, CorrectAnswer: "A", Explanation: "explained", PointsEarned: 10})
	case strings.HasSuffix(path, "/reveal"):
		f.mu.Lock()
		f.revealCalls++
		f.mu.Unlock()
		writeJSON(w, http.StatusOK, &mix.RevealedAnswer{CorrectAnswer: "A", Explanation: "explained", RemediationInjected: true})
	case strings.HasSuffix(path, "/status"):
		writeJSON(w, http.StatusOK, &mix.SessionStatus{
			Status:   mix.SessionActive,
			Progress: mix.Progress{TotalFlashcards: 3, CurrentRound: 2},
			Points:   25,
		})
	case strings.HasPrefix(path, "/mix/session/"):
		f.mu.Lock()
		f.sessionCalls++
		session := f.session
		f.mu.Unlock()
		if session == nil {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Session not found"})
			return
		}
		writeJSON(w, http.StatusOK, session)
	default:
		http.NotFound(w, r)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (f *fakeMixServer) pushActivities(activities ...*mix.Activity) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.activities = append(f.activities, activities...)
}

func (f *fakeMixServer) counts() (start, next, answer, reveal int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.startCalls, f.nextCalls, f.answerCalls, f.revealCalls
}

func questionActivity(flashcardID, hash string, level int) *mix.Activity {
	return &mix.Activity{
		ActivityType: mix.ActivityQuestion,
		FlashcardID:  flashcardID,
		Level:        level,
		Question: &mix.DeliveredQuestion{
			QuestionHash: hash,
			Type:         mix.TypeMCQ,
			Content:      "Which option is right?",
			Options:      []mix.Option{{Key: "A", Text: "this one"}, {Key: "B", Text: "not this one"}},
			Level:        level,
		},
	}
}

func flashcardActivity(flashcardID string) *mix.Activity {
	return &mix.Activity{
		ActivityType: mix.ActivityFlashcard,
		FlashcardID:  flashcardID,
		FlashcardContent: &mix.FlashcardContent{
			FlashcardID: flashcardID,
			Question:    "What is a mutex?",
		},
	}
}

func newTestController(t *testing.T, fake *fakeMixServer) *SessionController {
	t.Helper()
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)
	api := New(server.URL, WithUserID("user-1"))
	return NewSessionController(api, nil)
}

func newTestStore(t *testing.T) *PointerStore {
	t.Helper()
	store, err := OpenPointerStore(filepath.Join(t.TempDir(), "pointers.db"))
	if err != nil {
		t.Fatalf("open pointer store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStartFetchSubmitFlow(t *testing.T) {
	fake := &fakeMixServer{}
	fake.pushActivities(flashcardActivity("card-1"), questionActivity("card-1", "card-1-L1", 1))
	c := newTestController(t, fake)
	ctx := context.Background()

	if err := c.Start(ctx, "course-1", []string{"deck-1"}); err != nil {
		t.Fatalf("start: %v", err)
	}
	if c.State() != StateActive {
		t.Fatalf("expected active after start, got %s", c.State())
	}
	if c.Progress().TotalFlashcards != 3 {
		t.Fatalf("expected 3 total flashcards, got %d", c.Progress().TotalFlashcards)
	}

	if err := c.FetchNext(ctx); err != nil {
		t.Fatalf("fetch flashcard: %v", err)
	}
	if got := c.CurrentActivity(); got == nil || got.ActivityType != mix.ActivityFlashcard {
		t.Fatalf("expected flashcard activity, got %+v", got)
	}
	if c.State() != StateActive {
		t.Fatalf("flashcard should keep state active, got %s", c.State())
	}

	if err := c.FetchNext(ctx); err != nil {
		t.Fatalf("fetch question: %v", err)
	}
	if !c.IsAwaitingAnswer() {
		t.Fatalf("expected awaiting_answer, got %s", c.State())
	}

	feedback, err := c.Submit(ctx, "A")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !feedback.IsCorrect || feedback.PointsEarned != 10 {
		t.Fatalf("unexpected feedback %+v", feedback)
	}
	if !c.IsShowingFeedback() {
		t.Fatalf("expected showing_feedback, got %s", c.State())
	}
	if c.Points() != 10 {
		t.Fatalf("expected 10 points, got %d", c.Points())
	}

	c.HideFeedback()
	if c.State() != StateActive || c.Feedback() != nil {
		t.Fatalf("hide feedback should return to active with no feedback")
	}

	if err := c.FetchNext(ctx); err != nil {
		t.Fatalf("fetch completion: %v", err)
	}
	if !c.IsCompleted() || c.CurrentActivity() != nil {
		t.Fatalf("expected completed with no activity, got %s", c.State())
	}
	if err := c.FetchNext(ctx); err != ErrNoActiveSession {
		t.Fatalf("fetch after completion should report no active session, got %v", err)
	}
}

func TestSubmitTwiceRejected(t *testing.T) {
	fake := &fakeMixServer{}
	fake.pushActivities(questionActivity("card-1", "card-1-L1", 1))
	c := newTestController(t, fake)
	ctx := context.Background()

	if err := c.Start(ctx, "course-1", []string{"deck-1"}); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := c.FetchNext(ctx); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if _, err := c.Submit(ctx, "A"); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if _, err := c.Submit(ctx, "A"); err != ErrNotAwaitingAnswer {
		t.Fatalf("second submit should be rejected, got %v", err)
	}
	if _, _, answers, _ := fake.counts(); answers != 1 {
		t.Fatalf("expected exactly one answer request, got %d", answers)
	}
}

func TestConcurrentSubmitRejected(t *testing.T) {
	fake := &fakeMixServer{
		answerStarted: make(chan struct{}, 1),
		answerGate:    make(chan struct{}),
	}
	fake.pushActivities(questionActivity("card-1", "card-1-L1", 1))
	c := newTestController(t, fake)
	ctx := context.Background()

	if err := c.Start(ctx, "course-1", []string{"deck-1"}); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := c.FetchNext(ctx); err != nil {
		t.Fatalf("fetch: %v", err)
	}

	done := make(chan error, 1)
	go func() {
		_, err := c.Submit(ctx, "A")
		done <- err
	}()

	<-fake.answerStarted
	if !c.IsSubmitting() {
		t.Fatalf("expected isSubmitting while the request is in flight")
	}
	if _, err := c.Submit(ctx, "A"); err != ErrSubmitInFlight {
		t.Fatalf("re-entrant submit should be rejected, got %v", err)
	}
	close(fake.answerGate)
	if err := <-done; err != nil {
		t.Fatalf("in-flight submit: %v", err)
	}
	if _, _, answers, _ := fake.counts(); answers != 1 {
		t.Fatalf("expected exactly one answer request, got %d", answers)
	}
}

func TestRevealThenSubmitRejected(t *testing.T) {
	fake := &fakeMixServer{}
	fake.pushActivities(questionActivity("card-1", "card-1-L1", 1))
	c := newTestController(t, fake)
	ctx := context.Background()

	if err := c.Start(ctx, "course-1", []string{"deck-1"}); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := c.FetchNext(ctx); err != nil {
		t.Fatalf("fetch: %v", err)
	}

	revealed, err := c.Reveal(ctx)
	if err != nil {
		t.Fatalf("reveal: %v", err)
	}
	if !revealed.RemediationInjected {
		t.Fatalf("expected remediation to be reported")
	}
	if !c.IsShowingReveal() {
		t.Fatalf("expected showing_reveal, got %s", c.State())
	}

	if _, err := c.Submit(ctx, "A"); err != ErrNotAwaitingAnswer {
		t.Fatalf("submit after reveal should be rejected, got %v", err)
	}
	if _, _, answers, reveals := fake.counts(); answers != 0 || reveals != 1 {
		t.Fatalf("expected 0 answer and 1 reveal request, got %d and %d", answers, reveals)
	}
}

func TestResetThenResumeIsFresh(t *testing.T) {
	fake := &fakeMixServer{}
	store := newTestStore(t)
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)
	c := NewSessionController(New(server.URL, WithUserID("user-1")), store)
	ctx := context.Background()

	if err := c.Start(ctx, "course-1", []string{"deck-1"}); err != nil {
		t.Fatalf("start: %v", err)
	}
	if saved, _ := store.Get("course-1", []string{"deck-1"}); saved != "sess-1" {
		t.Fatalf("expected pointer saved after start, got %q", saved)
	}

	if err := c.Reset(); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if c.State() != StateIdle || c.SessionID() != "" || c.CurrentActivity() != nil {
		t.Fatalf("reset should return to a clean idle state")
	}

	resumed, err := c.Resume(ctx, "course-1", []string{"deck-1"})
	if err != nil {
		t.Fatalf("resume: %v", err)
	}
	if resumed {
		t.Fatalf("resume after reset should find no session")
	}
	if c.State() != StateIdle {
		t.Fatalf("expected idle after empty resume, got %s", c.State())
	}
	if fake.sessionCalls != 0 {
		t.Fatalf("resume without a pointer should not call the server, got %d calls", fake.sessionCalls)
	}
}

func TestCompletionClearsPointer(t *testing.T) {
	fake := &fakeMixServer{}
	store := newTestStore(t)
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)
	c := NewSessionController(New(server.URL, WithUserID("user-1")), store)
	ctx := context.Background()

	if err := c.Start(ctx, "course-1", []string{"deck-1"}); err != nil {
		t.Fatalf("start: %v", err)
	}
	if saved, _ := store.Get("course-1", []string{"deck-1"}); saved != "sess-1" {
		t.Fatalf("expected pointer saved after start, got %q", saved)
	}

	// No activities queued, so the first fetch completes the session.
	if err := c.FetchNext(ctx); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if !c.IsCompleted() {
		t.Fatalf("expected completed, got %s", c.State())
	}
	if saved, _ := store.Get("course-1", []string{"deck-1"}); saved != "" {
		t.Fatalf("completed session should drop its pointer, still have %q", saved)
	}
}

func TestResumeAdoptsSavedSession(t *testing.T) {
	fake := &fakeMixServer{
		session: &mix.SessionInfo{
			SessionID: "sess-9",
			CourseID:  "course-1",
			DeckIDs:   []string{"deck-1", "deck-2"},
			Status:    mix.SessionActive,
			Progress:  mix.Progress{TotalFlashcards: 5, CurrentRound: 3},
		},
	}
	store := newTestStore(t)
	if err := store.Put("course-1", []string{"deck-2", "deck-1"}, "sess-9"); err != nil {
		t.Fatalf("put pointer: %v", err)
	}
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)
	c := NewSessionController(New(server.URL, WithUserID("user-1")), store)

	resumed, err := c.Resume(context.Background(), "course-1", []string{"deck-1", "deck-2"})
	if err != nil {
		t.Fatalf("resume: %v", err)
	}
	if !resumed {
		t.Fatalf("expected resume to adopt the saved session")
	}
	if c.SessionID() != "sess-9" || c.State() != StateActive {
		t.Fatalf("unexpected resumed state: id=%q state=%s", c.SessionID(), c.State())
	}
	if c.Progress().CurrentRound != 3 {
		t.Fatalf("expected round 3 from resumed progress, got %d", c.Progress().CurrentRound)
	}
}

func TestResumeDiscardsMismatchedDecks(t *testing.T) {
	fake := &fakeMixServer{
		session: &mix.SessionInfo{
			SessionID: "sess-9",
			CourseID:  "course-1",
			DeckIDs:   []string{"deck-other"},
			Status:    mix.SessionActive,
		},
	}
	store := newTestStore(t)
	if err := store.Put("course-1", []string{"deck-1"}, "sess-9"); err != nil {
		t.Fatalf("put pointer: %v", err)
	}
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)
	c := NewSessionController(New(server.URL, WithUserID("user-1")), store)
	ctx := context.Background()

	resumed, err := c.Resume(ctx, "course-1", []string{"deck-1"})
	if err != nil {
		t.Fatalf("resume: %v", err)
	}
	if resumed {
		t.Fatalf("mismatched deck set must not be resumed")
	}

	// The stale pointer is discarded, so the next resume stays local.
	if resumed, _ := c.Resume(ctx, "course-1", []string{"deck-1"}); resumed {
		t.Fatalf("second resume should find nothing")
	}
	if fake.sessionCalls != 1 {
		t.Fatalf("expected a single session lookup, got %d", fake.sessionCalls)
	}
}

func TestResumeSkipsCompletedSession(t *testing.T) {
	fake := &fakeMixServer{
		session: &mix.SessionInfo{
			SessionID: "sess-9",
			CourseID:  "course-1",
			DeckIDs:   []string{"deck-1"},
			Status:    mix.SessionCompleted,
		},
	}
	store := newTestStore(t)
	if err := store.Put("course-1", []string{"deck-1"}, "sess-9"); err != nil {
		t.Fatalf("put pointer: %v", err)
	}
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)
	c := NewSessionController(New(server.URL, WithUserID("user-1")), store)

	resumed, err := c.Resume(context.Background(), "course-1", []string{"deck-1"})
	if err != nil {
		t.Fatalf("resume: %v", err)
	}
	if resumed {
		t.Fatalf("completed session must not be resumed")
	}
}

func TestReadinessMemoSkipsRepeatFetch(t *testing.T) {
	fake := &fakeMixServer{}
	c := newTestController(t, fake)
	ctx := context.Background()

	score, err := c.RefreshReadiness(ctx, "course-1", []string{"deck-1", "deck-2"}, false)
	if err != nil {
		t.Fatalf("first refresh: %v", err)
	}
	if score.OverallReadinessScore != 55 {
		t.Fatalf("unexpected score %+v", score)
	}

	// Same key again, unforced: served from the memo.
	if _, err := c.RefreshReadiness(ctx, "course-1", []string{"deck-2", "deck-1"}, false); err != nil {
		t.Fatalf("repeat refresh: %v", err)
	}
	if fake.readinessCalls != 1 {
		t.Fatalf("repeat refresh for the same key should not hit the network, got %d calls", fake.readinessCalls)
	}

	if _, err := c.RefreshReadiness(ctx, "course-1", []string{"deck-1", "deck-2"}, true); err != nil {
		t.Fatalf("forced refresh: %v", err)
	}
	if fake.readinessCalls != 2 {
		t.Fatalf("forced refresh must refetch, got %d calls", fake.readinessCalls)
	}

	if _, err := c.RefreshReadiness(ctx, "course-1", []string{"deck-3"}, false); err != nil {
		t.Fatalf("new key refresh: %v", err)
	}
	if fake.readinessCalls != 3 {
		t.Fatalf("a new key must refetch, got %d calls", fake.readinessCalls)
	}
}

func TestReferFlashcardCachesContent(t *testing.T) {
	fake := &fakeMixServer{}
	fake.pushActivities(questionActivity("card-1", "card-1-L1", 1))
	c := newTestController(t, fake)
	ctx := context.Background()

	if err := c.Start(ctx, "course-1", []string{"deck-1"}); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := c.FetchNext(ctx); err != nil {
		t.Fatalf("fetch: %v", err)
	}

	content, err := c.ReferFlashcard(ctx)
	if err != nil {
		t.Fatalf("refer: %v", err)
	}
	if content == nil || content.Question == "" {
		t.Fatalf("expected flashcard content, got %+v", content)
	}
	if !c.IsAwaitingAnswer() {
		t.Fatalf("referral must not disturb session state, got %s", c.State())
	}

	if _, err := c.ReferFlashcard(ctx); err != nil {
		t.Fatalf("second refer: %v", err)
	}
	if fake.flashcardCalls != 1 {
		t.Fatalf("repeat referral should be served from cache, got %d calls", fake.flashcardCalls)
	}
}

func TestFetchErrorEntersErrorStateAndRecovers(t *testing.T) {
	fake := &fakeMixServer{failNext: true}
	c := newTestController(t, fake)
	ctx := context.Background()

	if err := c.Start(ctx, "course-1", []string{"deck-1"}); err != nil {
		t.Fatalf("start: %v", err)
	}
	err := c.FetchNext(ctx)
	if err == nil {
		t.Fatalf("expected fetch error")
	}
	if !IsKind(err, KindActivityFetch) {
		t.Fatalf("expected activity_fetch kind, got %v", err)
	}
	if c.State() != StateError || c.Err() == nil {
		t.Fatalf("expected error state, got %s", c.State())
	}

	// FetchNext doubles as the retry affordance from the error state.
	fake.mu.Lock()
	fake.failNext = false
	fake.mu.Unlock()
	fake.pushActivities(questionActivity("card-1", "card-1-L1", 1))
	if err := c.FetchNext(ctx); err != nil {
		t.Fatalf("retry fetch: %v", err)
	}
	if !c.IsAwaitingAnswer() || c.Err() != nil {
		t.Fatalf("expected recovery into awaiting_answer, got %s", c.State())
	}
}

func TestUnknownActivityTypeIsError(t *testing.T) {
	fake := &fakeMixServer{}
	fake.pushActivities(&mix.Activity{ActivityType: "video", FlashcardID: "card-1"})
	c := newTestController(t, fake)
	ctx := context.Background()

	if err := c.Start(ctx, "course-1", []string{"deck-1"}); err != nil {
		t.Fatalf("start: %v", err)
	}
	err := c.FetchNext(ctx)
	if err == nil {
		t.Fatalf("expected an error for an activity type outside the union")
	}
	if !IsKind(err, KindActivityFetch) {
		t.Fatalf("expected activity_fetch kind, got %v", err)
	}
	if c.State() != StateError || c.CurrentActivity() != nil {
		t.Fatalf("expected error state with no activity, got %s", c.State())
	}
}

func TestRefreshProgressUpdatesCounters(t *testing.T) {
	fake := &fakeMixServer{}
	c := newTestController(t, fake)
	ctx := context.Background()

	if err := c.Start(ctx, "course-1", []string{"deck-1"}); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := c.RefreshProgress(ctx); err != nil {
		t.Fatalf("refresh progress: %v", err)
	}
	if c.Progress().CurrentRound != 2 || c.Points() != 25 {
		t.Fatalf("unexpected progress %+v points %d", c.Progress(), c.Points())
	}
}
