package repository

import (
	"context"

	"quiz-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type StatsRepository struct {
	Col *mongo.Collection
}

func NewStatsRepository(db *mongo.Database) *StatsRepository {
	return &StatsRepository{Col: db.Collection("user_stats")}
}

// Replace fully overwrites the user's stored aggregates. The aggregator
// always writes complete totals, never increments, so upsert-replace is the
// whole contract.
func (r *StatsRepository) Replace(ctx context.Context, stats *models.UserStats) error {
	opts := options.Replace().SetUpsert(true)
	_, err := r.Col.ReplaceOne(ctx, bson.M{"_id": stats.UserID}, stats, opts)
	return err
}

func (r *StatsRepository) FindByUser(ctx context.Context, userID string) (*models.UserStats, error) {
	var stats models.UserStats
	if err := r.Col.FindOne(ctx, bson.M{"_id": userID}).Decode(&stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
