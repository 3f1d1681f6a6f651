package mix

import "time"

const (
	SessionActive    = "active"
	SessionCompleted = "completed"
)

// Resolutions of a pending question activity. Submit and reveal are mutually
// exclusive: once either resolution is recorded the other is rejected.
const (
	ResolutionAnswered = "answered"
	ResolutionRevealed = "revealed"
)

// Progress is the client-visible session progress. TotalFlashcards is fixed
// at session start; CurrentRound never decreases.
type Progress struct {
	TotalFlashcards int `bson:"total_flashcards" json:"total_flashcards"`
	CurrentRound    int `bson:"current_round" json:"current_round"`
}

// FlashcardState is the scheduler's per-card state. Level runs 1 through 4;
// a card retires after a correct answer at the top level.
type FlashcardState struct {
	FlashcardID     string   `bson:"flashcard_id" json:"flashcard_id"`
	Level           int      `bson:"level" json:"level"`
	Introduced      bool     `bson:"introduced" json:"introduced"`
	Retired         bool     `bson:"retired" json:"retired"`
	Attempts        int      `bson:"attempts" json:"attempts"`
	Correct         int      `bson:"correct" json:"correct"`
	PendingFollowUp bool     `bson:"pending_follow_up" json:"pending_follow_up"`
	WrongHashes     []string `bson:"wrong_hashes,omitempty" json:"wrong_hashes,omitempty"`
	ServedHashes    []string `bson:"served_hashes,omitempty" json:"served_hashes,omitempty"`
}

// PendingActivity identifies the one question activity currently awaiting a
// submit or reveal, and how it was resolved.
type PendingActivity struct {
	FlashcardID  string `bson:"flashcard_id" json:"flashcard_id"`
	QuestionHash string `bson:"question_hash" json:"question_hash"`
	Level        int    `bson:"level" json:"level"`
	IsFollowUp   bool   `bson:"is_follow_up" json:"is_follow_up"`
	Resolution   string `bson:"resolution,omitempty" json:"resolution,omitempty"`
}

type Session struct {
	ID               string                     `bson:"_id,omitempty" json:"id"`
	UserID           string                     `bson:"user_id" json:"user_id"`
	CourseID         string                     `bson:"course_id" json:"course_id"`
	DeckIDs          []string                   `bson:"deck_ids" json:"deck_ids"`
	Status           string                     `bson:"status" json:"status"`
	Progress         Progress                   `bson:"progress" json:"progress"`
	FlashcardOrder   []string                   `bson:"flashcard_order" json:"flashcard_order"`
	FlashcardStates  map[string]*FlashcardState `bson:"flashcard_states" json:"flashcard_states"`
	RemediationQueue []string                   `bson:"remediation_queue,omitempty" json:"remediation_queue,omitempty"`
	Cursor           int                        `bson:"cursor" json:"cursor"`
	Pending          *PendingActivity           `bson:"pending,omitempty" json:"pending,omitempty"`
	Points           int                        `bson:"points" json:"points"`
	QuestionsAsked   int                        `bson:"questions_asked" json:"questions_asked"`
	CorrectAnswers   int                        `bson:"correct_answers" json:"correct_answers"`
	CreatedAt        time.Time                  `bson:"created_at" json:"created_at"`
	UpdatedAt        time.Time                  `bson:"updated_at" json:"updated_at"`
}
