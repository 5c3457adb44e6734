package models

import "time"

// QuestionReport is the per-question slice of a quiz report.
type QuestionReport struct {
	QuestionID         string         `json:"question_id"`
	Content            string         `json:"content"`
	Type               QuestionType   `json:"type"`
	CorrectCount       int            `json:"correct_count"`
	IncorrectCount     int            `json:"incorrect_count"`
	SkippedCount       int            `json:"skipped_count"`
	AccuracyPercentage float64        `json:"accuracy_percentage"`
	AnswerDistribution map[string]int `json:"answer_distribution"`
}

// ScoreBucket is one bar of the fixed five-bucket score histogram.
type ScoreBucket struct {
	Label string `json:"label"`
	Min   int    `json:"min"`
	Max   int    `json:"max"`
	Count int    `json:"count"`
}

type QuizReport struct {
	QuizID            string           `json:"quiz_id"`
	Title             string           `json:"title"`
	AttemptCount      int              `json:"attempt_count"`
	PassedCount       int              `json:"passed_count"`
	FailedCount       int              `json:"failed_count"`
	AveragePercentage float64          `json:"average_percentage"`
	ScoreHistogram    []ScoreBucket    `json:"score_histogram"`
	Questions         []QuestionReport `json:"questions"`
	GeneratedAt       time.Time        `json:"generated_at"`
}
