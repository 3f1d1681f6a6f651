package mix

import "time"

// Diagram is an optional visual payload attached to flashcard content.
type Diagram struct {
	Type    string `bson:"type" json:"type"`
	Payload string `bson:"payload" json:"payload"`
}

// FlashcardContent is the study side of a flashcard as served to clients:
// the prompt plus one answer per teaching perspective.
type FlashcardContent struct {
	FlashcardID          string            `bson:"flashcard_id,omitempty" json:"flashcard_id"`
	LectureID            string            `bson:"lecture_id,omitempty" json:"lecture_id"`
	Question             string            `bson:"question" json:"question"`
	AnswersByPerspective map[string]string `bson:"answers_by_perspective" json:"answers_by_perspective"`
	Diagrams             []Diagram         `bson:"diagrams,omitempty" json:"diagrams,omitempty"`
}

type Flashcard struct {
	ID        string           `bson:"_id,omitempty" json:"id"`
	CourseID  string           `bson:"course_id" json:"course_id"`
	DeckID    string           `bson:"deck_id" json:"deck_id"`
	LectureID string           `bson:"lecture_id" json:"lecture_id"`
	Content   FlashcardContent `bson:"content" json:"content"`
	Questions []Question       `bson:"questions" json:"questions"`
	CreatedAt time.Time        `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time        `bson:"updated_at" json:"updated_at"`
}

// DeliverContent returns the card's content with its identifiers filled in,
// ready to embed in a flashcard activity or serve standalone.
func (f *Flashcard) DeliverContent() *FlashcardContent {
	content := f.Content
	content.FlashcardID = f.ID
	content.LectureID = f.LectureID
	return &content
}

// QuestionsAtLevel returns the card's questions generated for one level.
func (f *Flashcard) QuestionsAtLevel(level int) []Question {
	var out []Question
	for _, q := range f.Questions {
		if q.Level == level {
			out = append(out, q)
		}
	}
	return out
}

// FindQuestion looks a question up by its content hash.
func (f *Flashcard) FindQuestion(hash string) *Question {
	for i := range f.Questions {
		if f.Questions[i].QuestionHash == hash {
			return &f.Questions[i]
		}
	}
	return nil
}
