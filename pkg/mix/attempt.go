package mix

import "time"

// Attempt is one recorded submit or reveal. The readiness scorers read these:
// revealed attempts count toward coverage but are excluded from accuracy.
type Attempt struct {
	ID           string    `bson:"_id,omitempty" json:"id"`
	SessionID    string    `bson:"session_id" json:"session_id"`
	UserID       string    `bson:"user_id" json:"user_id"`
	CourseID     string    `bson:"course_id" json:"course_id"`
	DeckID       string    `bson:"deck_id" json:"deck_id"`
	LectureID    string    `bson:"lecture_id" json:"lecture_id"`
	FlashcardID  string    `bson:"flashcard_id" json:"flashcard_id"`
	QuestionHash string    `bson:"question_hash" json:"question_hash"`
	Level        int       `bson:"level" json:"level"`
	IsFollowUp   bool      `bson:"is_follow_up" json:"is_follow_up"`
	Revealed     bool      `bson:"revealed" json:"revealed"`
	IsCorrect    bool      `bson:"is_correct" json:"is_correct"`
	PointsEarned int       `bson:"points_earned" json:"points_earned"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
}
