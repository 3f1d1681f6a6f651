package mix

import "time"

type StartSessionRequest struct {
	CourseID string   `json:"course_id" binding:"required"`
	DeckIDs  []string `json:"deck_ids" binding:"required"`
}

type StartSessionResult struct {
	SessionID       string `json:"session_id"`
	TotalFlashcards int    `json:"total_flashcards"`
}

// SubmitAnswerRequest identifies the outstanding question activity and
// carries the learner's answer. UserAnswer keeps the shape the question type
// dictates (see Question.CorrectAnswer); the server never coerces between
// shapes.
type SubmitAnswerRequest struct {
	FlashcardID  string      `json:"flashcard_id" binding:"required"`
	QuestionHash string      `json:"question_hash" binding:"required"`
	Level        int         `json:"level"`
	IsFollowUp   bool        `json:"is_follow_up"`
	UserAnswer   interface{} `json:"user_answer"`
}

// AnswerFeedback is the graded result of a submit. Explanation may be a
// plain string or a structured payload.
type AnswerFeedback struct {
	IsCorrect     bool        `json:"is_correct"`
	CorrectAnswer interface{} `json:"correct_answer"`
	Explanation   interface{} `json:"explanation"`
	PointsEarned  int         `json:"points_earned"`
}

type RevealAnswerRequest struct {
	FlashcardID  string `json:"flashcard_id" binding:"required"`
	QuestionHash string `json:"question_hash" binding:"required"`
	Level        int    `json:"level"`
	IsFollowUp   bool   `json:"is_follow_up"`
}

// RevealedAnswer is the no-penalty reveal result. RemediationInjected
// reports whether a review of the card was queued into the session.
type RevealedAnswer struct {
	CorrectAnswer       interface{} `json:"correct_answer"`
	Explanation         interface{} `json:"explanation"`
	RemediationInjected bool        `json:"remediation_injected"`
}

// SessionInfo is the session metadata served for resume validation.
type SessionInfo struct {
	SessionID string    `json:"session_id"`
	CourseID  string    `json:"course_id"`
	DeckIDs   []string  `json:"deck_ids"`
	Status    string    `json:"status"`
	Progress  Progress  `json:"progress"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type SessionStatus struct {
	Status         string   `json:"status"`
	Progress       Progress `json:"progress"`
	Points         int      `json:"points"`
	QuestionsAsked int      `json:"questions_asked"`
	CorrectAnswers int      `json:"correct_answers"`
}

// Info projects the stored session onto its resume metadata.
func (s *Session) Info() *SessionInfo {
	return &SessionInfo{
		SessionID: s.ID,
		CourseID:  s.CourseID,
		DeckIDs:   s.DeckIDs,
		Status:    s.Status,
		Progress:  s.Progress,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}
