package service

import (
	"context"
	"strings"
	"time"

	"quiz-service/internal/matching"
	"quiz-service/internal/models"
)

// ReportService builds read-only analytics over a quiz's completed
// attempts. Nothing here mutates attempts.
type ReportService struct {
	Attempts AttemptStore
	Quizzes  QuizStore
}

func NewReportService(attempts AttemptStore, quizzes QuizStore) *ReportService {
	return &ReportService{Attempts: attempts, Quizzes: quizzes}
}

// scoreBuckets is the fixed histogram layout; upper bounds are inclusive.
var scoreBuckets = []models.ScoreBucket{
	{Label: "0-20", Min: 0, Max: 20},
	{Label: "21-40", Min: 21, Max: 40},
	{Label: "41-60", Min: 41, Max: 60},
	{Label: "61-80", Min: 61, Max: 80},
	{Label: "81-100", Min: 81, Max: 100},
}

// GetQuizReport loads the quiz and its completed attempts and builds the
// report.
func (s *ReportService) GetQuizReport(ctx context.Context, quizID string) (*models.QuizReport, error) {
	quiz, err := s.Quizzes.FindByID(ctx, quizID)
	if err != nil {
		return nil, mapNotFound(err, "quiz")
	}
	attempts, err := s.Attempts.FindCompletedByQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}
	return BuildReport(quiz, attempts), nil
}

// BuildReport computes per-question accuracy and answer distributions plus
// quiz-level pass/fail counts, average percentage and the score histogram.
func BuildReport(quiz *models.Quiz, attempts []models.QuizAttempt) *models.QuizReport {
	report := &models.QuizReport{
		QuizID:         quiz.ID,
		Title:          quiz.Title,
		AttemptCount:   len(attempts),
		ScoreHistogram: make([]models.ScoreBucket, len(scoreBuckets)),
		GeneratedAt:    time.Now(),
	}
	copy(report.ScoreHistogram, scoreBuckets)

	totalPercentage := 0.0
	for i := range attempts {
		a := &attempts[i]
		if a.Passed {
			report.PassedCount++
		} else {
			report.FailedCount++
		}
		totalPercentage += a.Percentage
		report.ScoreHistogram[bucketIndex(a.Percentage)].Count++
	}
	if len(attempts) > 0 {
		report.AveragePercentage = totalPercentage / float64(len(attempts))
	}

	// Index scored answers by question for one pass over the attempts.
	// Within an attempt only the first row per question counts, so each
	// question collects at most one answer per attempt and the skipped
	// count below cannot go negative on malformed stored rows.
	byQuestion := map[string][]*models.ScoredAnswer{}
	for i := range attempts {
		counted := map[string]bool{}
		for j := range attempts[i].Answers {
			sa := &attempts[i].Answers[j]
			if counted[sa.QuestionID] {
				continue
			}
			counted[sa.QuestionID] = true
			byQuestion[sa.QuestionID] = append(byQuestion[sa.QuestionID], sa)
		}
	}

	for i := range quiz.Questions {
		q := &quiz.Questions[i]
		qr := models.QuestionReport{
			QuestionID:         q.ID,
			Content:            q.Content,
			Type:               q.Type,
			AnswerDistribution: map[string]int{},
		}
		answers := byQuestion[q.ID]
		for _, sa := range answers {
			if sa.IsCorrect {
				qr.CorrectCount++
			} else {
				qr.IncorrectCount++
			}
			for _, key := range distributionKeys(q, sa.Answer) {
				qr.AnswerDistribution[key]++
			}
		}
		qr.SkippedCount = len(attempts) - len(answers)
		if answered := qr.CorrectCount + qr.IncorrectCount; answered > 0 {
			qr.AccuracyPercentage = float64(qr.CorrectCount) / float64(answered) * 100
		}
		report.Questions = append(report.Questions, qr)
	}

	return report
}

// bucketIndex places a percentage into the fixed histogram. Upper bounds
// are inclusive, so 20.0 lands in the first bucket and anything above it in
// the second.
func bucketIndex(percentage float64) int {
	for i, b := range scoreBuckets {
		if percentage <= float64(b.Max) {
			return i
		}
	}
	return len(scoreBuckets) - 1
}

// distributionKeys renders an answer into its histogram labels: option
// labels for choice types, the literal boolean, the joined sequence, or
// normalized text for free-text answers.
func distributionKeys(q *models.Question, ans models.AnswerPayload) []string {
	switch q.Type {
	case models.SingleChoice:
		if ans.OptionID == "" {
			return nil
		}
		return []string{q.OptionLabel(ans.OptionID)}
	case models.MultiSelect:
		keys := make([]string, 0, len(ans.OptionIDs))
		for _, id := range ans.OptionIDs {
			keys = append(keys, q.OptionLabel(id))
		}
		return keys
	case models.Boolean:
		if ans.Boolean == "" {
			return nil
		}
		return []string{strings.ToLower(strings.TrimSpace(ans.Boolean))}
	case models.OrderedSequence:
		if len(ans.Sequence) == 0 {
			return nil
		}
		return []string{strings.Join(ans.Sequence, " > ")}
	case models.FreeText:
		if ans.Text == "" {
			return nil
		}
		return []string{matching.Normalize(ans.Text)}
	}
	return nil
}
