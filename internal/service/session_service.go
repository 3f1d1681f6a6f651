package service

import (
	"context"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"mix-service/internal/engine"
	"mix-service/internal/event"
	"mix-service/internal/repository"
	"mix-service/pkg/grading"
	"mix-service/pkg/mix"
)

// SessionService orchestrates Mix-Mode sessions: it loads documents, runs
// the scheduler, grades answers, records attempts, and publishes lifecycle
// events.
type SessionService struct {
	sessions   *repository.SessionRepository
	flashcards *repository.FlashcardRepository
	attempts   *repository.AttemptRepository
	engine     *engine.Engine
	publisher  *event.EventPublisher
}

func NewSessionService(
	sessions *repository.SessionRepository,
	flashcards *repository.FlashcardRepository,
	attempts *repository.AttemptRepository,
	eng *engine.Engine,
	publisher *event.EventPublisher,
) *SessionService {
	return &SessionService{
		sessions:   sessions,
		flashcards: flashcards,
		attempts:   attempts,
		engine:     eng,
		publisher:  publisher,
	}
}

func (s *SessionService) StartSession(ctx context.Context, userID string, req *mix.StartSessionRequest) (*mix.StartSessionResult, error) {
	deckIDs := append([]string(nil), req.DeckIDs...)
	sort.Strings(deckIDs)

	cards, err := s.flashcards.FindByDecks(ctx, req.CourseID, deckIDs)
	if err != nil {
		return nil, err
	}
	if len(cards) == 0 {
		return nil, ErrEmptyDecks
	}

	now := time.Now()
	session := &mix.Session{
		UserID:    userID,
		CourseID:  req.CourseID,
		DeckIDs:   deckIDs,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.engine.InitSession(session, cards)

	id, err := s.sessions.Create(ctx, session)
	if err != nil {
		return nil, err
	}
	session.ID = id

	s.publisher.Publish(event.SessionStarted, map[string]interface{}{
		"session_id":       id,
		"user_id":          userID,
		"course_id":        req.CourseID,
		"deck_ids":         deckIDs,
		"total_flashcards": session.Progress.TotalFlashcards,
	})

	return &mix.StartSessionResult{
		SessionID:       id,
		TotalFlashcards: session.Progress.TotalFlashcards,
	}, nil
}

func (s *SessionService) GetSession(ctx context.Context, userID, sessionID string) (*mix.SessionInfo, error) {
	session, err := s.load(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	return session.Info(), nil
}

func (s *SessionService) Status(ctx context.Context, userID, sessionID string) (*mix.SessionStatus, error) {
	session, err := s.load(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	return &mix.SessionStatus{
		Status:         session.Status,
		Progress:       session.Progress,
		Points:         session.Points,
		QuestionsAsked: session.QuestionsAsked,
		CorrectAnswers: session.CorrectAnswers,
	}, nil
}

// NextActivity advances the session and returns the next activity, or nil
// when the session is (or just became) complete.
func (s *SessionService) NextActivity(ctx context.Context, userID, sessionID string) (*mix.Activity, error) {
	session, err := s.load(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status == mix.SessionCompleted {
		return nil, nil
	}

	cards, err := s.loadCards(ctx, session)
	if err != nil {
		return nil, err
	}

	activity := s.engine.NextActivity(session, cards)
	if err := s.persist(ctx, session); err != nil {
		return nil, err
	}

	if activity == nil {
		s.publisher.Publish(event.SessionCompleted, map[string]interface{}{
			"session_id":      session.ID,
			"user_id":         session.UserID,
			"points":          session.Points,
			"questions_asked": session.QuestionsAsked,
			"correct_answers": session.CorrectAnswers,
		})
	}
	return activity, nil
}

// SubmitAnswer grades the outstanding question, applies the result to the
// schedule, and records the attempt. Submitting a resolved or mismatched
// activity fails without side effects.
func (s *SessionService) SubmitAnswer(ctx context.Context, userID, sessionID string, req *mix.SubmitAnswerRequest) (*mix.AnswerFeedback, error) {
	session, err := s.load(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if err := checkPending(session, req.FlashcardID, req.QuestionHash); err != nil {
		return nil, err
	}

	card, err := s.flashcards.FindByID(ctx, req.FlashcardID)
	if err != nil {
		return nil, err
	}
	question := card.FindQuestion(req.QuestionHash)
	if question == nil {
		return nil, ErrQuestionNotFound
	}
	state := session.FlashcardStates[req.FlashcardID]
	if state == nil {
		return nil, ErrActivityMismatch
	}

	isFollowUp := session.Pending.IsFollowUp
	isCorrect := grading.IsCorrect(question.Type, question.CorrectAnswer, req.UserAnswer)
	points := s.engine.ProcessAnswer(session, state, question, isFollowUp, isCorrect)
	session.Pending.Resolution = mix.ResolutionAnswered

	if err := s.persist(ctx, session); err != nil {
		return nil, err
	}
	if err := s.attempts.Insert(ctx, s.attemptFor(session, card, question, isFollowUp, false, isCorrect, points)); err != nil {
		return nil, err
	}

	s.publisher.Publish(event.AnswerSubmitted, map[string]interface{}{
		"session_id":    session.ID,
		"user_id":       session.UserID,
		"flashcard_id":  card.ID,
		"question_hash": question.QuestionHash,
		"level":         question.Level,
		"is_correct":    isCorrect,
		"points_earned": points,
	})

	return &mix.AnswerFeedback{
		IsCorrect:     isCorrect,
		CorrectAnswer: question.CorrectAnswer,
		Explanation:   question.Explanation,
		PointsEarned:  points,
	}, nil
}

// RevealAnswer resolves the outstanding question without grading it: no
// points, and a remediation review of the card is queued when possible.
func (s *SessionService) RevealAnswer(ctx context.Context, userID, sessionID string, req *mix.RevealAnswerRequest) (*mix.RevealedAnswer, error) {
	session, err := s.load(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if err := checkPending(session, req.FlashcardID, req.QuestionHash); err != nil {
		return nil, err
	}

	card, err := s.flashcards.FindByID(ctx, req.FlashcardID)
	if err != nil {
		return nil, err
	}
	question := card.FindQuestion(req.QuestionHash)
	if question == nil {
		return nil, ErrQuestionNotFound
	}

	isFollowUp := session.Pending.IsFollowUp
	injected := s.engine.QueueRemediation(session, req.FlashcardID)
	session.Pending.Resolution = mix.ResolutionRevealed

	if err := s.persist(ctx, session); err != nil {
		return nil, err
	}
	if err := s.attempts.Insert(ctx, s.attemptFor(session, card, question, isFollowUp, true, false, 0)); err != nil {
		return nil, err
	}

	s.publisher.Publish(event.AnswerRevealed, map[string]interface{}{
		"session_id":           session.ID,
		"user_id":              session.UserID,
		"flashcard_id":         card.ID,
		"question_hash":        question.QuestionHash,
		"remediation_injected": injected,
	})

	return &mix.RevealedAnswer{
		CorrectAnswer:       question.CorrectAnswer,
		Explanation:         question.Explanation,
		RemediationInjected: injected,
	}, nil
}

// checkPending enforces submit/reveal mutual exclusivity against the
// session's outstanding question activity.
func checkPending(session *mix.Session, flashcardID, questionHash string) error {
	if session.Status == mix.SessionCompleted {
		return ErrSessionCompleted
	}
	pending := session.Pending
	if pending == nil {
		return ErrNoPendingActivity
	}
	switch pending.Resolution {
	case mix.ResolutionAnswered:
		return ErrAlreadyAnswered
	case mix.ResolutionRevealed:
		return ErrAlreadyRevealed
	}
	if pending.FlashcardID != flashcardID || pending.QuestionHash != questionHash {
		return ErrActivityMismatch
	}
	return nil
}

func (s *SessionService) load(ctx context.Context, userID, sessionID string) (*mix.Session, error) {
	session, err := s.sessions.FindByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.UserID != userID {
		return nil, ErrForbidden
	}
	return session, nil
}

func (s *SessionService) loadCards(ctx context.Context, session *mix.Session) (map[string]*mix.Flashcard, error) {
	cards, err := s.flashcards.FindByDecks(ctx, session.CourseID, session.DeckIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*mix.Flashcard, len(cards))
	for i := range cards {
		byID[cards[i].ID] = &cards[i]
	}
	return byID, nil
}

func (s *SessionService) persist(ctx context.Context, session *mix.Session) error {
	return s.sessions.Update(ctx, session.ID, bson.M{
		"status":            session.Status,
		"progress":          session.Progress,
		"flashcard_states":  session.FlashcardStates,
		"remediation_queue": session.RemediationQueue,
		"cursor":            session.Cursor,
		"pending":           session.Pending,
		"points":            session.Points,
		"questions_asked":   session.QuestionsAsked,
		"correct_answers":   session.CorrectAnswers,
		"updated_at":        time.Now(),
	})
}

func (s *SessionService) attemptFor(session *mix.Session, card *mix.Flashcard, q *mix.Question, isFollowUp, revealed, isCorrect bool, points int) *mix.Attempt {
	return &mix.Attempt{
		SessionID:    session.ID,
		UserID:       session.UserID,
		CourseID:     session.CourseID,
		DeckID:       card.DeckID,
		LectureID:    card.LectureID,
		FlashcardID:  card.ID,
		QuestionHash: q.QuestionHash,
		Level:        q.Level,
		IsFollowUp:   isFollowUp,
		Revealed:     revealed,
		IsCorrect:    isCorrect,
		PointsEarned: points,
	}
}
