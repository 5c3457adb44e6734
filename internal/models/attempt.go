package models

import "time"

type AttemptStatus string

const (
	AttemptInProgress AttemptStatus = "in_progress"
	AttemptCompleted  AttemptStatus = "completed"
	AttemptAbandoned  AttemptStatus = "abandoned"
)

// AnswerPayload is a learner's raw answer to one question. Its shape is
// polymorphic on the referenced question's type: only the matching field is
// read during evaluation, the rest stay empty.
type AnswerPayload struct {
	QuestionID       string   `bson:"question_id" json:"question_id"`
	OptionID         string   `bson:"option_id,omitempty" json:"option_id,omitempty"`
	OptionIDs        []string `bson:"option_ids,omitempty" json:"option_ids,omitempty"`
	Boolean          string   `bson:"boolean,omitempty" json:"boolean,omitempty"`
	Sequence         []string `bson:"sequence,omitempty" json:"sequence,omitempty"`
	Text             string   `bson:"text,omitempty" json:"text,omitempty"`
	TimeSpentSeconds int      `bson:"time_spent_seconds,omitempty" json:"time_spent_seconds,omitempty"`
}

// ScoredAnswer is the evaluated form of one answer. Only the grading path
// produces these; nothing else constructs them by hand.
type ScoredAnswer struct {
	QuestionID       string        `bson:"question_id" json:"question_id"`
	Answer           AnswerPayload `bson:"answer" json:"answer"`
	IsCorrect        bool          `bson:"is_correct" json:"is_correct"`
	PointsEarned     int           `bson:"points_earned" json:"points_earned"`
	TimeSpentSeconds int           `bson:"time_spent_seconds,omitempty" json:"time_spent_seconds,omitempty"`
}

type QuizAttempt struct {
	ID               string          `bson:"_id,omitempty" json:"id"`
	UserID           string          `bson:"user_id" json:"user_id"`
	QuizID           string          `bson:"quiz_id" json:"quiz_id"`
	AccessToken      string          `bson:"access_token" json:"access_token"`
	Status           AttemptStatus   `bson:"status" json:"status"`
	MaxScore         int             `bson:"max_score" json:"max_score"`
	Score            int             `bson:"score" json:"score"`
	Percentage       float64         `bson:"percentage" json:"percentage"`
	Passed           bool            `bson:"passed" json:"passed"`
	TimeSpentSeconds int             `bson:"time_spent_seconds" json:"time_spent_seconds"`
	Answers          []ScoredAnswer  `bson:"answers" json:"answers"`
	SavedAnswers     []AnswerPayload `bson:"saved_answers,omitempty" json:"saved_answers,omitempty"`
	XPAwarded        *int            `bson:"xp_awarded,omitempty" json:"xp_awarded,omitempty"`
	StartedAt        time.Time       `bson:"started_at" json:"started_at"`
	CompletedAt      *time.Time      `bson:"completed_at,omitempty" json:"completed_at,omitempty"`
}

// SubmitResult is what the caller gets back from a successful submission.
type SubmitResult struct {
	AttemptID  string  `json:"attempt_id"`
	Score      int     `json:"score"`
	MaxScore   int     `json:"max_score"`
	Percentage float64 `json:"percentage"`
	Passed     bool    `json:"passed"`
	XPAwarded  int     `json:"xp_awarded"`
}
