package models

type QuestionType string

const (
	SingleChoice    QuestionType = "single_choice"
	MultiSelect     QuestionType = "multi_select"
	Boolean         QuestionType = "boolean"
	OrderedSequence QuestionType = "ordered_sequence"
	FreeText        QuestionType = "free_text"
)

type Option struct {
	ID   string `bson:"id" json:"id"`
	Text string `bson:"text" json:"text"`
}

// AnswerKey holds the grading ground truth for a question. Only the field
// matching the question's type is meaningful; the evaluator switches on
// Question.Type to pick it.
type AnswerKey struct {
	OptionID  string   `bson:"option_id,omitempty" json:"option_id,omitempty"`
	OptionIDs []string `bson:"option_ids,omitempty" json:"option_ids,omitempty"`
	Boolean   bool     `bson:"boolean,omitempty" json:"boolean,omitempty"`
	Sequence  []string `bson:"sequence,omitempty" json:"sequence,omitempty"`
	Text      string   `bson:"text,omitempty" json:"text,omitempty"`
}

type Question struct {
	ID          string       `bson:"_id,omitempty" json:"id"`
	OrderIndex  int          `bson:"order_index" json:"order_index"`
	Content     string       `bson:"content" json:"content"`
	Type        QuestionType `bson:"type" json:"type"`
	Options     []Option     `bson:"options,omitempty" json:"options,omitempty"`
	Points      int          `bson:"points" json:"points"`
	Key         AnswerKey    `bson:"answer_key" json:"answer_key,omitempty"`
	Explanation string       `bson:"explanation,omitempty" json:"explanation,omitempty"`
}

// OptionLabel resolves an option id to its display text, falling back to the
// raw id for stale references.
func (q *Question) OptionLabel(optionID string) string {
	for _, opt := range q.Options {
		if opt.ID == optionID {
			return opt.Text
		}
	}
	return optionID
}

// Sanitized returns a copy safe to expose to learners: answer key and
// explanation stripped.
func (q Question) Sanitized() Question {
	q.Key = AnswerKey{}
	q.Explanation = ""
	return q
}
