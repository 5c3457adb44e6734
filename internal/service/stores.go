package service

import (
	"context"
	"time"

	"quiz-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
)

// Collaborator interfaces implemented by the mongo repositories in
// production and by in-memory fakes in tests.

type AttemptStore interface {
	Create(ctx context.Context, attempt *models.QuizAttempt) error
	FindByID(ctx context.Context, id string) (*models.QuizAttempt, error)
	FindInProgress(ctx context.Context, userID, quizID string) (*models.QuizAttempt, error)
	CountCompleted(ctx context.Context, userID, quizID string) (int64, error)
	UpdateIfStatus(ctx context.Context, id string, required models.AttemptStatus, update bson.M) (bool, error)
	FindCompletedByUser(ctx context.Context, userID string) ([]models.QuizAttempt, error)
	FindCompletedByQuiz(ctx context.Context, quizID string) ([]models.QuizAttempt, error)
	FindByUser(ctx context.Context, userID string) ([]models.QuizAttempt, error)
	Delete(ctx context.Context, id string) error
	MarkAbandonedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type QuizStore interface {
	FindByID(ctx context.Context, id string) (*models.Quiz, error)
}

type AssignmentStore interface {
	MarkCompleted(ctx context.Context, userID, quizID string, score float64) error
	Revert(ctx context.Context, userID, quizID string) error
}

type StatsStore interface {
	Replace(ctx context.Context, stats *models.UserStats) error
	FindByUser(ctx context.Context, userID string) (*models.UserStats, error)
}

// Leaderboard is the derived XP ranking view kept alongside user stats.
type Leaderboard interface {
	SetScore(ctx context.Context, userID string, totalXP int) error
	Top(ctx context.Context, n int) ([]models.LeaderboardEntry, error)
}
