// Package grading scores individual answers and computes attempt XP awards.
package grading

import (
	"strconv"
	"strings"

	"quiz-service/internal/matching"
	"quiz-service/internal/models"
)

// Evaluator grades a raw answer against its question's answer key. Scoring
// is all-or-nothing: the question's full point value when correct, zero
// otherwise.
type Evaluator struct {
	// TextThreshold is the similarity acceptance threshold for free-text
	// questions.
	TextThreshold float64
}

func NewEvaluator() *Evaluator {
	return &Evaluator{TextThreshold: matching.DefaultThreshold}
}

// Evaluate returns whether the answer is correct and the points earned.
// It is pure: no side effects, no persistence.
func (e *Evaluator) Evaluate(q *models.Question, answer models.AnswerPayload) (bool, int) {
	correct := false
	switch q.Type {
	case models.SingleChoice:
		correct = answer.OptionID != "" && answer.OptionID == q.Key.OptionID
	case models.MultiSelect:
		correct = equalSets(answer.OptionIDs, q.Key.OptionIDs)
	case models.Boolean:
		if v, err := strconv.ParseBool(strings.TrimSpace(answer.Boolean)); err == nil {
			correct = v == q.Key.Boolean
		}
	case models.OrderedSequence:
		correct = equalSequences(answer.Sequence, q.Key.Sequence)
	case models.FreeText:
		correct = answer.Text != "" && matching.IsMatch(answer.Text, q.Key.Text, e.TextThreshold)
	}

	if correct {
		return true, q.Points
	}
	return false, 0
}

// Score produces the ScoredAnswer record for one evaluated answer.
func (e *Evaluator) Score(q *models.Question, answer models.AnswerPayload) models.ScoredAnswer {
	correct, points := e.Evaluate(q, answer)
	return models.ScoredAnswer{
		QuestionID:       q.ID,
		Answer:           answer,
		IsCorrect:        correct,
		PointsEarned:     points,
		TimeSpentSeconds: answer.TimeSpentSeconds,
	}
}

// equalSets compares two option-id lists as unordered sets. Duplicates on
// either side break equality.
func equalSets(a, b []string) bool {
	if len(a) != len(b) || len(a) == 0 {
		return false
	}
	seen := make(map[string]bool, len(a))
	for _, id := range a {
		if seen[id] {
			return false
		}
		seen[id] = true
	}
	for _, id := range b {
		if !seen[id] {
			return false
		}
		delete(seen, id)
	}
	return len(seen) == 0
}

// equalSequences compares two item-id lists element by element, same order,
// same length.
func equalSequences(a, b []string) bool {
	if len(a) != len(b) || len(a) == 0 {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
