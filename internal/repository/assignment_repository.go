package repository

import (
	"context"

	"quiz-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// AssignmentRepository touches assignments only as a side effect of the
// attempt lifecycle: submits complete them, resets revert them. Assignment
// authoring belongs to another service.
type AssignmentRepository struct {
	Col *mongo.Collection
}

func NewAssignmentRepository(db *mongo.Database) *AssignmentRepository {
	return &AssignmentRepository{Col: db.Collection("assignments")}
}

// MarkCompleted flips a pending assignment to completed, recording the
// attempt's percentage as its score. A no-op when no pending assignment
// exists for the pair.
func (r *AssignmentRepository) MarkCompleted(ctx context.Context, userID, quizID string, score float64) error {
	_, err := r.Col.UpdateOne(ctx,
		bson.M{"user_id": userID, "quiz_id": quizID, "status": models.AssignmentPending},
		bson.M{"$set": bson.M{"status": models.AssignmentCompleted, "score": score}},
	)
	return err
}

// Revert returns a completed assignment to pending, clearing its recorded
// score. Used when an attempt is administratively reset.
func (r *AssignmentRepository) Revert(ctx context.Context, userID, quizID string) error {
	_, err := r.Col.UpdateOne(ctx,
		bson.M{"user_id": userID, "quiz_id": quizID, "status": models.AssignmentCompleted},
		bson.M{
			"$set":   bson.M{"status": models.AssignmentPending},
			"$unset": bson.M{"score": ""},
		},
	)
	return err
}
