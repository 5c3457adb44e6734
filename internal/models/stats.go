package models

import "time"

// UserStats are derived aggregates, never authored directly: the stats
// service fully recomputes them from the user's completed attempts whenever
// that set changes. TotalXP counts only the most recently completed attempt
// per quiz, so a retry replaces a quiz's XP contribution instead of adding
// to it.
type UserStats struct {
	UserID           string    `bson:"_id" json:"user_id"`
	TotalXP          int       `bson:"total_xp" json:"total_xp"`
	QuizzesCompleted int       `bson:"quizzes_completed" json:"quizzes_completed"`
	UpdatedAt        time.Time `bson:"updated_at" json:"updated_at"`
}

// LeaderboardEntry is one row of the XP leaderboard view.
type LeaderboardEntry struct {
	UserID  string `json:"user_id"`
	TotalXP int    `json:"total_xp"`
	Rank    int    `json:"rank"`
}
