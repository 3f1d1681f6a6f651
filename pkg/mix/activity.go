// Package mix defines the wire and storage types of the Mix-Mode study
// contract, shared by the service handlers and the Go client.
package mix

const (
	ActivityQuestion  = "question"
	ActivityFlashcard = "flashcard"
)

// Activity is the discriminated union served by the next-activity endpoint.
// ActivityType selects the populated half: a question activity carries
// Question plus its level and follow-up flags, a flashcard activity carries
// FlashcardContent. A JSON null body instead of an Activity signals that the
// session is complete.
type Activity struct {
	ActivityType string `json:"activity_type"`
	FlashcardID  string `json:"flashcard_id"`

	Question   *DeliveredQuestion `json:"question,omitempty"`
	Level      int                `json:"level,omitempty"`
	IsFollowUp bool               `json:"is_follow_up,omitempty"`
	// Camel casing is the casing existing clients already parse.
	IsPreviouslyIncorrect bool `json:"isPreviouslyIncorrect,omitempty"`

	FlashcardContent *FlashcardContent `json:"flashcard_content,omitempty"`
}
