package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"quiz-service/internal/models"
)

// StatsService owns the user's derived aggregates. There is a single code
// path for maintaining them: Recompute fully rebuilds the totals from the
// completed-attempt set, so it is idempotent and self-heals after submits,
// deletions and resets alike.
type StatsService struct {
	Attempts AttemptStore
	Stats    StatsStore
	Board    Leaderboard
}

func NewStatsService(attempts AttemptStore, stats StatsStore, board Leaderboard) *StatsService {
	return &StatsService{Attempts: attempts, Stats: stats, Board: board}
}

// Recompute rebuilds the user's totals: among completed attempts, only the
// most recently completed attempt per quiz contributes XP, so retries
// replace rather than add a quiz's contribution. QuizzesCompleted counts
// distinct quiz ids with at least one completed attempt.
func (s *StatsService) Recompute(ctx context.Context, userID string) (*models.UserStats, error) {
	attempts, err := s.Attempts.FindCompletedByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load completed attempts: %w", err)
	}

	// Attempts arrive newest-first, so the first one seen per quiz wins.
	seen := map[string]bool{}
	totalXP := 0
	for i := range attempts {
		a := &attempts[i]
		if seen[a.QuizID] {
			continue
		}
		seen[a.QuizID] = true
		if a.XPAwarded != nil {
			totalXP += *a.XPAwarded
		}
	}

	stats := &models.UserStats{
		UserID:           userID,
		TotalXP:          totalXP,
		QuizzesCompleted: len(seen),
		UpdatedAt:        time.Now(),
	}
	if err := s.Stats.Replace(ctx, stats); err != nil {
		return nil, fmt.Errorf("failed to store user stats: %w", err)
	}

	if s.Board != nil {
		if err := s.Board.SetScore(ctx, userID, totalXP); err != nil {
			log.Printf("leaderboard update failed for user %s: %v", userID, err)
		}
	}

	return stats, nil
}

// GetUserStats returns the stored aggregates, recomputing on a cache miss
// so a user who has never been aggregated still gets zeros.
func (s *StatsService) GetUserStats(ctx context.Context, userID string) (*models.UserStats, error) {
	stats, err := s.Stats.FindByUser(ctx, userID)
	if err != nil {
		return s.Recompute(ctx, userID)
	}
	return stats, nil
}

func (s *StatsService) TopLeaderboard(ctx context.Context, n int) ([]models.LeaderboardEntry, error) {
	if s.Board == nil {
		return nil, nil
	}
	return s.Board.Top(ctx, n)
}
