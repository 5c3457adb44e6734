package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"quiz-service/internal/grading"
	"quiz-service/internal/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// AttemptService owns the attempt lifecycle:
//
//	in_progress -> completed   (submit)
//	in_progress -> abandoned   (stale sweep)
//	completed   -> in_progress (administrative reset)
//
// No other transition is legal. There is no per-attempt lock: concurrent
// saves are pure overwrites and concurrent submits are resolved by the
// store's compare-and-swap on the status field, so a double submit yields
// exactly one winner.
type AttemptService struct {
	Attempts    AttemptStore
	Quizzes     QuizStore
	Assignments AssignmentStore
	Stats       *StatsService
	Evaluator   *grading.Evaluator
}

func NewAttemptService(attempts AttemptStore, quizzes QuizStore, assignments AssignmentStore, stats *StatsService) *AttemptService {
	return &AttemptService{
		Attempts:    attempts,
		Quizzes:     quizzes,
		Assignments: assignments,
		Stats:       stats,
		Evaluator:   grading.NewEvaluator(),
	}
}

// Start opens an attempt for (user, quiz). Starting is idempotent: if the
// user already has an in_progress attempt for this quiz, that attempt is
// returned unchanged, so a double-clicked start button never forks two
// concurrent attempts.
func (s *AttemptService) Start(ctx context.Context, p Principal, quizID string) (*models.QuizAttempt, error) {
	if p.UserID == "" {
		return nil, ErrUnauthorized
	}

	quiz, err := s.Quizzes.FindByID(ctx, quizID)
	if err != nil {
		return nil, mapNotFound(err, "quiz")
	}
	if !quiz.Published {
		return nil, fmt.Errorf("quiz %s is not published: %w", quizID, ErrInvalidState)
	}

	completed, err := s.Attempts.CountCompleted(ctx, p.UserID, quizID)
	if err != nil {
		return nil, fmt.Errorf("failed to count completed attempts: %w", err)
	}
	if !quiz.AllowRetries && completed > 0 {
		return nil, ErrRetryNotAllowed
	}
	if quiz.MaxAttempts > 0 && completed >= int64(quiz.MaxAttempts) {
		return nil, ErrMaxAttemptsReached
	}

	if existing, err := s.Attempts.FindInProgress(ctx, p.UserID, quizID); err == nil {
		return existing, nil
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("failed to look up open attempt: %w", err)
	}

	attempt := &models.QuizAttempt{
		UserID:      p.UserID,
		QuizID:      quizID,
		AccessToken: uuid.NewString(),
		Status:      models.AttemptInProgress,
		MaxScore:    quiz.TotalPoints(),
		Answers:     []models.ScoredAnswer{},
		StartedAt:   time.Now(),
	}
	if err := s.Attempts.Create(ctx, attempt); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			// Lost a concurrent start race: the unique open-attempt index
			// rejected the insert, so the winner's attempt is the one.
			return s.Attempts.FindInProgress(ctx, p.UserID, quizID)
		}
		return nil, fmt.Errorf("failed to create attempt: %w", err)
	}
	return attempt, nil
}

// Save replaces the attempt's raw-answer snapshot. Safe to call repeatedly
// with partial answer sets (client auto-save); last write wins, there are
// no merge semantics, and nothing is scored.
func (s *AttemptService) Save(ctx context.Context, p Principal, attemptID string, answers []models.AnswerPayload) error {
	attempt, err := s.loadOwned(ctx, p, attemptID)
	if err != nil {
		return err
	}
	if attempt.Status != models.AttemptInProgress {
		return ErrInvalidState
	}

	if answers == nil {
		answers = []models.AnswerPayload{}
	}
	ok, err := s.Attempts.UpdateIfStatus(ctx, attemptID, models.AttemptInProgress, bson.M{
		"saved_answers": answers,
	})
	if err != nil {
		return fmt.Errorf("failed to save progress: %w", err)
	}
	if !ok {
		return ErrInvalidState
	}
	return nil
}

// Submit is the authoritative terminal action for an attempt: it scores the
// submitted answer set (whatever auto-save last wrote is irrelevant),
// transitions to completed, awards XP and updates the derived records.
// Answers referencing question ids not in the quiz are skipped rather than
// rejected, tolerating stale client state. Each question is scored at most
// once: repeated answers for the same question id are dropped after the
// first, so the total can never exceed the max-score snapshot.
func (s *AttemptService) Submit(ctx context.Context, p Principal, attemptID string, answers []models.AnswerPayload, timeSpentSeconds int) (*models.SubmitResult, error) {
	attempt, err := s.loadOwned(ctx, p, attemptID)
	if err != nil {
		return nil, err
	}
	if attempt.Status != models.AttemptInProgress {
		return nil, ErrInvalidState
	}

	quiz, err := s.Quizzes.FindByID(ctx, attempt.QuizID)
	if err != nil {
		return nil, mapNotFound(err, "quiz")
	}

	scored := make([]models.ScoredAnswer, 0, len(answers))
	scoredIDs := make(map[string]bool, len(answers))
	totalScore := 0
	for _, ans := range answers {
		q := quiz.QuestionByID(ans.QuestionID)
		if q == nil || scoredIDs[ans.QuestionID] {
			continue
		}
		scoredIDs[ans.QuestionID] = true
		sa := s.Evaluator.Score(q, ans)
		totalScore += sa.PointsEarned
		scored = append(scored, sa)
	}

	maxScore := attempt.MaxScore
	if maxScore == 0 {
		maxScore = quiz.TotalPoints()
	}
	percentage := 0.0
	if maxScore > 0 {
		percentage = float64(totalScore) / float64(maxScore) * 100
	}
	passed := percentage >= quiz.PassingThreshold()

	priorCompleted, err := s.Attempts.CountCompleted(ctx, attempt.UserID, attempt.QuizID)
	if err != nil {
		return nil, fmt.Errorf("failed to count completed attempts: %w", err)
	}
	xp := grading.AwardXP(len(quiz.Questions), quiz.Difficulty, passed, percentage, priorCompleted == 0)

	now := time.Now()
	ok, err := s.Attempts.UpdateIfStatus(ctx, attemptID, models.AttemptInProgress, bson.M{
		"status":             models.AttemptCompleted,
		"score":              totalScore,
		"percentage":         percentage,
		"passed":             passed,
		"time_spent_seconds": timeSpentSeconds,
		"answers":            scored,
		"xp_awarded":         xp,
		"completed_at":       now,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to complete attempt: %w", err)
	}
	if !ok {
		// Lost the submit race, or the attempt was swept meanwhile.
		return nil, ErrInvalidState
	}

	// The attempt is completed from here on. Derived-record updates must
	// not undo that: failures are logged and reconciled by a later
	// recompute.
	if s.Assignments != nil {
		if err := s.Assignments.MarkCompleted(ctx, attempt.UserID, attempt.QuizID, percentage); err != nil {
			log.Printf("assignment completion failed for attempt %s: %v", attemptID, err)
		}
	}
	if s.Stats != nil {
		if _, err := s.Stats.Recompute(ctx, attempt.UserID); err != nil {
			log.Printf("stats recompute failed for user %s: %v", attempt.UserID, err)
		}
	}

	return &models.SubmitResult{
		AttemptID:  attemptID,
		Score:      totalScore,
		MaxScore:   maxScore,
		Percentage: percentage,
		Passed:     passed,
		XPAwarded:  xp,
	}, nil
}

// Reset reopens a completed attempt: scoring fields are cleared, the linked
// assignment reverts to pending and the user's aggregates are recomputed.
// Admin only.
func (s *AttemptService) Reset(ctx context.Context, p Principal, attemptID string) (*models.QuizAttempt, error) {
	if err := requireAdmin(p); err != nil {
		return nil, err
	}
	attempt, err := s.Attempts.FindByID(ctx, attemptID)
	if err != nil {
		return nil, mapNotFound(err, "attempt")
	}

	ok, err := s.Attempts.UpdateIfStatus(ctx, attemptID, models.AttemptCompleted, bson.M{
		"status":             models.AttemptInProgress,
		"score":              0,
		"percentage":         0.0,
		"passed":             false,
		"time_spent_seconds": 0,
		"answers":            []models.ScoredAnswer{},
		"saved_answers":      nil,
		"xp_awarded":         nil,
		"completed_at":       nil,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to reset attempt: %w", err)
	}
	if !ok {
		return nil, ErrInvalidState
	}

	if s.Assignments != nil {
		if err := s.Assignments.Revert(ctx, attempt.UserID, attempt.QuizID); err != nil {
			log.Printf("assignment revert failed for attempt %s: %v", attemptID, err)
		}
	}
	if s.Stats != nil {
		if _, err := s.Stats.Recompute(ctx, attempt.UserID); err != nil {
			log.Printf("stats recompute failed for user %s: %v", attempt.UserID, err)
		}
	}

	return s.Attempts.FindByID(ctx, attemptID)
}

// Delete permanently removes an attempt. Admin only. If the attempt was
// completed its XP may have counted toward the user's totals, so the
// aggregates are recomputed.
func (s *AttemptService) Delete(ctx context.Context, p Principal, attemptID string) error {
	if err := requireAdmin(p); err != nil {
		return err
	}
	attempt, err := s.Attempts.FindByID(ctx, attemptID)
	if err != nil {
		return mapNotFound(err, "attempt")
	}

	if err := s.Attempts.Delete(ctx, attemptID); err != nil {
		return mapNotFound(err, "attempt")
	}

	if attempt.Status == models.AttemptCompleted && s.Stats != nil {
		if _, err := s.Stats.Recompute(ctx, attempt.UserID); err != nil {
			log.Printf("stats recompute failed for user %s: %v", attempt.UserID, err)
		}
	}
	return nil
}

// AbandonStale sweeps in_progress attempts older than maxAge into the
// abandoned state. Admin only; driven by an operational endpoint rather
// than an in-process timer.
func (s *AttemptService) AbandonStale(ctx context.Context, p Principal, maxAge time.Duration) (int64, error) {
	if err := requireAdmin(p); err != nil {
		return 0, err
	}
	return s.Attempts.MarkAbandonedBefore(ctx, time.Now().Add(-maxAge))
}

// Get returns an attempt to its owner or an admin.
func (s *AttemptService) Get(ctx context.Context, p Principal, attemptID string) (*models.QuizAttempt, error) {
	return s.loadOwned(ctx, p, attemptID)
}

// ListForUser returns a user's attempts, own or admin access.
func (s *AttemptService) ListForUser(ctx context.Context, p Principal, userID string) ([]models.QuizAttempt, error) {
	if p.UserID == "" {
		return nil, ErrUnauthorized
	}
	if p.UserID != userID && !p.IsAdmin() {
		return nil, ErrForbidden
	}
	return s.Attempts.FindByUser(ctx, userID)
}

func (s *AttemptService) loadOwned(ctx context.Context, p Principal, attemptID string) (*models.QuizAttempt, error) {
	if p.UserID == "" {
		return nil, ErrUnauthorized
	}
	attempt, err := s.Attempts.FindByID(ctx, attemptID)
	if err != nil {
		return nil, mapNotFound(err, "attempt")
	}
	if attempt.UserID != p.UserID && !p.IsAdmin() {
		return nil, ErrForbidden
	}
	return attempt, nil
}

func requireAdmin(p Principal) error {
	if p.UserID == "" {
		return ErrUnauthorized
	}
	if !p.IsAdmin() {
		return ErrForbidden
	}
	return nil
}

func mapNotFound(err error, what string) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return err
}
