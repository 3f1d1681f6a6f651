package mix

const (
	TypeMCQ            = "mcq"
	TypeMCA            = "mca"
	TypeScenarioMCQ    = "scenario_mcq"
	TypeSequencing     = "sequencing"
	TypeCategorization = "categorization"
	TypeMatching       = "matching"
	TypeFillInTheBlank = "fill_in_the_blank"
	TypeTrueFalse      = "true_false"
)

// ValidQuestionTypes lists every question type the grader understands.
var ValidQuestionTypes = map[string]bool{
	TypeMCQ:            true,
	TypeMCA:            true,
	TypeScenarioMCQ:    true,
	TypeSequencing:     true,
	TypeCategorization: true,
	TypeMatching:       true,
	TypeFillInTheBlank: true,
	TypeTrueFalse:      true,
}

// Option is one selectable choice, sequence item, or matching column entry.
type Option struct {
	Key  string `bson:"key" json:"key"`
	Text string `bson:"text" json:"text"`
}

// Question is a generated practice question embedded in a flashcard document.
// CorrectAnswer shape depends on Type: a one-element key array for mcq and
// scenario_mcq, a key array for mca, an ordered key array for sequencing, a
// category-to-keys map for categorization, an array of "premise-response"
// pair strings for matching, and a bare string for true_false and
// fill_in_the_blank.
type Question struct {
	QuestionHash  string      `bson:"question_hash" json:"question_hash"`
	Type          string      `bson:"type" json:"type"`
	Content       string      `bson:"content" json:"content"`
	Options       []Option    `bson:"options,omitempty" json:"options,omitempty"`
	Categories    []string    `bson:"categories,omitempty" json:"categories,omitempty"`
	Premises      []Option    `bson:"premises,omitempty" json:"premises,omitempty"`
	Responses     []Option    `bson:"responses,omitempty" json:"responses,omitempty"`
	CorrectAnswer interface{} `bson:"correct_answer" json:"correct_answer,omitempty"`
	Explanation   string      `bson:"explanation" json:"explanation,omitempty"`
	Level         int         `bson:"level" json:"level"`
}

// DeliveredQuestion is a question as served inside an activity, with the
// grading fields stripped.
type DeliveredQuestion struct {
	QuestionHash string   `json:"question_hash"`
	Type         string   `json:"type"`
	Content      string   `json:"content"`
	Options      []Option `json:"options,omitempty"`
	Categories   []string `json:"categories,omitempty"`
	Premises     []Option `json:"premises,omitempty"`
	Responses    []Option `json:"responses,omitempty"`
	Level        int      `json:"level"`
}

// Deliver strips the grading fields for transport.
func (q *Question) Deliver() *DeliveredQuestion {
	return &DeliveredQuestion{
		QuestionHash: q.QuestionHash,
		Type:         q.Type,
		Content:      q.Content,
		Options:      q.Options,
		Categories:   q.Categories,
		Premises:     q.Premises,
		Responses:    q.Responses,
		Level:        q.Level,
	}
}
