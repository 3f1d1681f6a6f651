// Package engine schedules Mix-Mode activities. It interleaves flashcard
// reviews with level-graded questions, promotes cards through levels 1-4 as
// the learner answers, queues same-level follow-ups after misses, injects
// remediation reviews after reveals, and decides when a session is complete.
package engine

import (
	"math/rand"
	"time"

	"mix-service/pkg/mix"
)

type Engine struct {
	config *Config
	rand   *rand.Rand
}

func New(config *Config) *Engine {
	if config == nil {
		config = DefaultConfig()
	}
	return &Engine{
		config: config,
		rand:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// InitSession seeds the scheduling state for a fresh session over the given
// cards. Card order follows the deck load order and stays fixed for the
// session's lifetime.
func (e *Engine) InitSession(session *mix.Session, cards []mix.Flashcard) {
	order := make([]string, 0, len(cards))
	states := make(map[string]*mix.FlashcardState, len(cards))
	for i := range cards {
		id := cards[i].ID
		order = append(order, id)
		states[id] = &mix.FlashcardState{
			FlashcardID: id,
			Level:       MinLevel,
		}
	}

	session.FlashcardOrder = order
	session.FlashcardStates = states
	session.Status = mix.SessionActive
	session.Cursor = 0
	session.Progress = mix.Progress{
		TotalFlashcards: len(cards),
		CurrentRound:    1,
	}
}

// NextActivity advances the schedule and returns the next activity, or nil
// when the session is complete. Remediation reviews preempt the round, then
// pending follow-ups, then the regular cursor walk. Question activities
// record themselves as the session's pending activity; flashcard activities
// expect no answer.
func (e *Engine) NextActivity(session *mix.Session, cards map[string]*mix.Flashcard) *mix.Activity {
	if session.Status == mix.SessionCompleted {
		return nil
	}

	for len(session.RemediationQueue) > 0 {
		id := session.RemediationQueue[0]
		session.RemediationQueue = session.RemediationQueue[1:]
		if card, ok := cards[id]; ok {
			session.Pending = nil
			return e.flashcardActivity(card)
		}
	}

	for _, id := range session.FlashcardOrder {
		state := session.FlashcardStates[id]
		if state == nil || state.Retired || !state.PendingFollowUp {
			continue
		}
		card, ok := cards[id]
		if !ok {
			state.PendingFollowUp = false
			continue
		}
		state.PendingFollowUp = false
		if q := e.pickQuestion(state, card); q != nil {
			return e.questionActivity(session, card, state, q, true)
		}
	}

	order := session.FlashcardOrder
	for scanned := 0; scanned < len(order); scanned++ {
		if session.Cursor >= len(order) {
			session.Cursor = 0
			session.Progress.CurrentRound++
			if e.config.MaxRounds > 0 && session.Progress.CurrentRound > e.config.MaxRounds {
				e.complete(session)
				return nil
			}
		}

		id := order[session.Cursor]
		state := session.FlashcardStates[id]
		card, ok := cards[id]
		if state == nil || !ok || state.Retired {
			session.Cursor++
			continue
		}

		if !state.Introduced {
			state.Introduced = true
			session.Pending = nil
			// The cursor stays put so the card's first question follows
			// its introduction.
			return e.flashcardActivity(card)
		}

		q := e.pickQuestion(state, card)
		session.Cursor++
		if q == nil {
			continue
		}
		return e.questionActivity(session, card, state, q, false)
	}

	e.complete(session)
	return nil
}

// ProcessAnswer applies one graded answer to the card's state and returns
// the points earned. A correct answer promotes the card, retiring it past
// the top level; a miss queues a same-level follow-up and marks the question
// for prioritized re-asking.
func (e *Engine) ProcessAnswer(session *mix.Session, state *mix.FlashcardState, question *mix.Question, isFollowUp, isCorrect bool) int {
	state.Attempts++
	session.QuestionsAsked++

	points := 0
	if isCorrect {
		state.Correct++
		session.CorrectAnswers++
		points = e.config.pointsForLevel(question.Level)
		if isFollowUp {
			points = int(float64(points) * e.config.FollowUpMultiplier)
		}
		state.WrongHashes = removeString(state.WrongHashes, question.QuestionHash)
		if state.Level >= e.config.MaxLevel {
			state.Retired = true
			state.PendingFollowUp = false
		} else {
			state.Level++
		}
	} else {
		// A missed follow-up waits for the next round instead of chaining,
		// so one hard card cannot stall the session.
		if !isFollowUp {
			state.PendingFollowUp = true
		}
		state.WrongHashes = appendUnique(state.WrongHashes, question.QuestionHash)
	}

	session.Points += points
	return points
}

// QueueRemediation schedules a review of the card ahead of the round.
// Returns false when the card is unknown, retired, or already queued.
func (e *Engine) QueueRemediation(session *mix.Session, flashcardID string) bool {
	state := session.FlashcardStates[flashcardID]
	if state == nil || state.Retired {
		return false
	}
	for _, id := range session.RemediationQueue {
		if id == flashcardID {
			return false
		}
	}
	session.RemediationQueue = append(session.RemediationQueue, flashcardID)
	return true
}

func (e *Engine) complete(session *mix.Session) {
	session.Status = mix.SessionCompleted
	session.Pending = nil
}

func (e *Engine) flashcardActivity(card *mix.Flashcard) *mix.Activity {
	return &mix.Activity{
		ActivityType:     mix.ActivityFlashcard,
		FlashcardID:      card.ID,
		FlashcardContent: card.DeliverContent(),
	}
}

func (e *Engine) questionActivity(session *mix.Session, card *mix.Flashcard, state *mix.FlashcardState, q *mix.Question, isFollowUp bool) *mix.Activity {
	session.Pending = &mix.PendingActivity{
		FlashcardID:  card.ID,
		QuestionHash: q.QuestionHash,
		Level:        q.Level,
		IsFollowUp:   isFollowUp,
	}
	return &mix.Activity{
		ActivityType:          mix.ActivityQuestion,
		FlashcardID:           card.ID,
		Question:              q.Deliver(),
		Level:                 q.Level,
		IsFollowUp:            isFollowUp,
		IsPreviouslyIncorrect: containsString(state.WrongHashes, q.QuestionHash),
	}
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func removeString(list []string, s string) []string {
	out := list[:0]
	for _, v := range list {
		if v != s {
			out = append(out, v)
		}
	}
	return out
}

func appendUnique(list []string, s string) []string {
	if containsString(list, s) {
		return list
	}
	return append(list, s)
}
