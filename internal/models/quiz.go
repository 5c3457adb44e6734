package models

const DefaultPassingScore = 60.0

// DifficultyMultipliers maps a quiz difficulty tier to its XP multiplier.
var DifficultyMultipliers = map[string]float64{
	"easy":   1.0,
	"medium": 1.5,
	"hard":   2.0,
}

type Quiz struct {
	ID           string     `bson:"_id,omitempty" json:"id"`
	Title        string     `bson:"title" json:"title"`
	Description  string     `bson:"description,omitempty" json:"description,omitempty"`
	Published    bool       `bson:"published" json:"published"`
	Difficulty   string     `bson:"difficulty" json:"difficulty"`
	PassingScore *float64   `bson:"passing_score,omitempty" json:"passing_score,omitempty"`
	AllowRetries bool       `bson:"allow_retries" json:"allow_retries"`
	MaxAttempts  int        `bson:"max_attempts,omitempty" json:"max_attempts,omitempty"`
	Questions    []Question `bson:"questions" json:"questions"`
}

// TotalPoints sums the point values of every question in the quiz. This is
// the value snapshotted into an attempt's MaxScore at start.
func (q *Quiz) TotalPoints() int {
	total := 0
	for i := range q.Questions {
		total += q.Questions[i].Points
	}
	return total
}

// PassingThreshold returns the configured passing percentage, or the
// platform default when the quiz does not set one.
func (q *Quiz) PassingThreshold() float64 {
	if q.PassingScore != nil {
		return *q.PassingScore
	}
	return DefaultPassingScore
}

// QuestionByID looks up a question in the quiz's question set. Returns nil
// when the id is unknown, which callers treat as a stale client reference.
func (q *Quiz) QuestionByID(id string) *Question {
	for i := range q.Questions {
		if q.Questions[i].ID == id {
			return &q.Questions[i]
		}
	}
	return nil
}

// DifficultyMultiplier returns the XP multiplier for the quiz's tier,
// defaulting to easy for unknown tiers.
func (q *Quiz) DifficultyMultiplier() float64 {
	if m, ok := DifficultyMultipliers[q.Difficulty]; ok {
		return m
	}
	return 1.0
}

// Sanitized returns a copy of the quiz with every question's answer key
// stripped, for learner-facing responses.
func (q Quiz) Sanitized() Quiz {
	questions := make([]Question, len(q.Questions))
	for i, question := range q.Questions {
		questions[i] = question.Sanitized()
	}
	q.Questions = questions
	return q
}
