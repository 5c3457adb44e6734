package service

import (
	"context"
	"errors"
	"testing"

	"quiz-service/internal/models"
)

func reportQuiz() *models.Quiz {
	return &models.Quiz{
		ID:         "quiz-r",
		Title:      "Water Cycle",
		Published:  true,
		Difficulty: "easy",
		Questions: []models.Question{
			{
				ID:     "q1",
				Type:   models.SingleChoice,
				Points: 1,
				Options: []models.Option{
					{ID: "a", Text: "Evaporation"},
					{ID: "b", Text: "Condensation"},
				},
				Key: models.AnswerKey{OptionID: "a"},
			},
			{
				ID:     "q2",
				Type:   models.FreeText,
				Points: 1,
				Key:    models.AnswerKey{Text: "precipitation"},
			},
		},
	}
}

func completedAttempt(userID string, percentage float64, passed bool, answers []models.ScoredAnswer) models.QuizAttempt {
	return models.QuizAttempt{
		UserID:     userID,
		QuizID:     "quiz-r",
		Status:     models.AttemptCompleted,
		Percentage: percentage,
		Passed:     passed,
		Answers:    answers,
	}
}

func TestBuildReport(t *testing.T) {
	quiz := reportQuiz()
	attempts := []models.QuizAttempt{
		completedAttempt("u1", 100, true, []models.ScoredAnswer{
			{QuestionID: "q1", Answer: models.AnswerPayload{QuestionID: "q1", OptionID: "a"}, IsCorrect: true, PointsEarned: 1},
			{QuestionID: "q2", Answer: models.AnswerPayload{QuestionID: "q2", Text: "Precipitation!"}, IsCorrect: true, PointsEarned: 1},
		}),
		completedAttempt("u2", 50, false, []models.ScoredAnswer{
			{QuestionID: "q1", Answer: models.AnswerPayload{QuestionID: "q1", OptionID: "b"}, IsCorrect: false},
			{QuestionID: "q2", Answer: models.AnswerPayload{QuestionID: "q2", Text: "rainfall"}, IsCorrect: false},
		}),
		// u3 skipped q2 entirely.
		completedAttempt("u3", 50, false, []models.ScoredAnswer{
			{QuestionID: "q1", Answer: models.AnswerPayload{QuestionID: "q1", OptionID: "a"}, IsCorrect: true, PointsEarned: 1},
		}),
	}

	report := BuildReport(quiz, attempts)

	if report.AttemptCount != 3 || report.PassedCount != 1 || report.FailedCount != 2 {
		t.Errorf("counts = %d/%d/%d, expected 3 attempts, 1 passed, 2 failed",
			report.AttemptCount, report.PassedCount, report.FailedCount)
	}
	wantAvg := (100.0 + 50 + 50) / 3
	if report.AveragePercentage != wantAvg {
		t.Errorf("average = %.2f, expected %.2f", report.AveragePercentage, wantAvg)
	}

	if len(report.Questions) != 2 {
		t.Fatalf("question reports = %d, expected 2", len(report.Questions))
	}

	q1 := report.Questions[0]
	if q1.CorrectCount != 2 || q1.IncorrectCount != 1 || q1.SkippedCount != 0 {
		t.Errorf("q1 counts = %d/%d/%d, expected 2/1/0", q1.CorrectCount, q1.IncorrectCount, q1.SkippedCount)
	}
	if q1.AccuracyPercentage != 100.0*2/3 {
		t.Errorf("q1 accuracy = %.2f, expected %.2f", q1.AccuracyPercentage, 100.0*2/3)
	}
	// Choice answers are bucketed by option label.
	if q1.AnswerDistribution["Evaporation"] != 2 || q1.AnswerDistribution["Condensation"] != 1 {
		t.Errorf("q1 distribution = %v", q1.AnswerDistribution)
	}

	q2 := report.Questions[1]
	if q2.CorrectCount != 1 || q2.IncorrectCount != 1 || q2.SkippedCount != 1 {
		t.Errorf("q2 counts = %d/%d/%d, expected 1/1/1", q2.CorrectCount, q2.IncorrectCount, q2.SkippedCount)
	}
	if q2.AccuracyPercentage != 50 {
		t.Errorf("q2 accuracy = %.2f, expected 50", q2.AccuracyPercentage)
	}
	// Free-text answers are bucketed by normalized text.
	if q2.AnswerDistribution["precipitation"] != 1 || q2.AnswerDistribution["rainfall"] != 1 {
		t.Errorf("q2 distribution = %v", q2.AnswerDistribution)
	}
}

func TestScoreHistogramBuckets(t *testing.T) {
	quiz := reportQuiz()

	testCases := []struct {
		percentage float64
		bucket     string
	}{
		{0, "0-20"},
		{20, "0-20"},
		{20.5, "21-40"},
		{40, "21-40"},
		{60, "41-60"},
		{61, "61-80"},
		{80, "61-80"},
		{81, "81-100"},
		{100, "81-100"},
	}

	var attempts []models.QuizAttempt
	for _, tc := range testCases {
		attempts = append(attempts, completedAttempt("u", tc.percentage, false, nil))
	}

	report := BuildReport(quiz, attempts)

	counts := map[string]int{}
	for _, b := range report.ScoreHistogram {
		counts[b.Label] = b.Count
	}
	want := map[string]int{"0-20": 2, "21-40": 2, "41-60": 1, "61-80": 2, "81-100": 2}
	for label, n := range want {
		if counts[label] != n {
			t.Errorf("bucket %s = %d, expected %d", label, counts[label], n)
		}
	}
	if len(report.ScoreHistogram) != 5 {
		t.Errorf("buckets = %d, expected 5", len(report.ScoreHistogram))
	}
}

func TestBuildReportCountsDuplicateRowsOnce(t *testing.T) {
	quiz := reportQuiz()
	// A malformed stored attempt carrying the same question twice must
	// count as a single answer, never push the skipped count negative.
	attempts := []models.QuizAttempt{
		completedAttempt("u1", 100, true, []models.ScoredAnswer{
			{QuestionID: "q1", Answer: models.AnswerPayload{QuestionID: "q1", OptionID: "a"}, IsCorrect: true, PointsEarned: 1},
			{QuestionID: "q1", Answer: models.AnswerPayload{QuestionID: "q1", OptionID: "a"}, IsCorrect: true, PointsEarned: 1},
			{QuestionID: "q1", Answer: models.AnswerPayload{QuestionID: "q1", OptionID: "b"}, IsCorrect: false},
		}),
	}

	report := BuildReport(quiz, attempts)

	q1 := report.Questions[0]
	if q1.CorrectCount != 1 || q1.IncorrectCount != 0 {
		t.Errorf("q1 counts = %d/%d, expected 1/0 (duplicates dropped)", q1.CorrectCount, q1.IncorrectCount)
	}
	if q1.SkippedCount != 0 {
		t.Errorf("q1 skipped = %d, expected 0", q1.SkippedCount)
	}
	if q1.AnswerDistribution["Evaporation"] != 1 {
		t.Errorf("q1 distribution = %v, expected one Evaporation", q1.AnswerDistribution)
	}

	q2 := report.Questions[1]
	if q2.SkippedCount != 1 {
		t.Errorf("q2 skipped = %d, expected 1 (never negative)", q2.SkippedCount)
	}
}

func TestGetQuizReportLoadsFromStores(t *testing.T) {
	quiz := reportQuiz()
	attemptStore := newFakeAttemptStore()
	svc := NewReportService(attemptStore, &fakeQuizStore{quizzes: map[string]*models.Quiz{"quiz-r": quiz}})
	ctx := context.Background()

	a := completedAttempt("u1", 100, true, nil)
	if err := attemptStore.Create(ctx, &a); err != nil {
		t.Fatal(err)
	}
	// In-progress attempts never appear in reports.
	open := models.QuizAttempt{UserID: "u2", QuizID: "quiz-r", Status: models.AttemptInProgress}
	if err := attemptStore.Create(ctx, &open); err != nil {
		t.Fatal(err)
	}

	report, err := svc.GetQuizReport(ctx, "quiz-r")
	if err != nil {
		t.Fatalf("GetQuizReport failed: %v", err)
	}
	if report.AttemptCount != 1 {
		t.Errorf("attempt count = %d, expected 1 (open attempt excluded)", report.AttemptCount)
	}

	if _, err := svc.GetQuizReport(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing quiz: err = %v, expected ErrNotFound", err)
	}
}

func TestBuildReportEmptyAttempts(t *testing.T) {
	report := BuildReport(reportQuiz(), nil)
	if report.AttemptCount != 0 || report.AveragePercentage != 0 {
		t.Errorf("empty report = %+v", report)
	}
	for _, q := range report.Questions {
		if q.SkippedCount != 0 || q.AccuracyPercentage != 0 {
			t.Errorf("question report for no attempts = %+v", q)
		}
	}
}
