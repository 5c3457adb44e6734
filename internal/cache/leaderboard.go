// Package cache holds the Redis-backed derived views: the XP leaderboard
// sorted set.
package cache

import (
	"context"

	"quiz-service/internal/models"

	"github.com/redis/go-redis/v9"
)

const leaderboardKey = "quiz:leaderboard:xp"

// XPLeaderboard mirrors each user's total XP into a Redis sorted set. It is
// a derived view of user stats: the stats recompute overwrites the member
// score on every run, so the set self-heals along with the aggregates.
type XPLeaderboard struct {
	client *redis.Client
}

func NewXPLeaderboard(client *redis.Client) *XPLeaderboard {
	return &XPLeaderboard{client: client}
}

func (l *XPLeaderboard) SetScore(ctx context.Context, userID string, totalXP int) error {
	return l.client.ZAdd(ctx, leaderboardKey, redis.Z{
		Score:  float64(totalXP),
		Member: userID,
	}).Err()
}

func (l *XPLeaderboard) Top(ctx context.Context, n int) ([]models.LeaderboardEntry, error) {
	if n <= 0 {
		n = 10
	}
	rows, err := l.client.ZRevRangeWithScores(ctx, leaderboardKey, 0, int64(n-1)).Result()
	if err != nil {
		return nil, err
	}
	entries := make([]models.LeaderboardEntry, 0, len(rows))
	for i, row := range rows {
		userID, _ := row.Member.(string)
		entries = append(entries, models.LeaderboardEntry{
			UserID:  userID,
			TotalXP: int(row.Score),
			Rank:    i + 1,
		})
	}
	return entries, nil
}

func (l *XPLeaderboard) Remove(ctx context.Context, userID string) error {
	return l.client.ZRem(ctx, leaderboardKey, userID).Err()
}
