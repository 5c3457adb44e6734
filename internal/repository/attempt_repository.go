package repository

import (
	"context"
	"log"
	"time"

	"quiz-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type AttemptRepository struct {
	Col *mongo.Collection
}

func NewAttemptRepository(db *mongo.Database) *AttemptRepository {
	col := db.Collection("attempts")
	// At most one open attempt per (user, quiz). Two concurrent starts that
	// both miss the in-progress lookup race on this index instead of
	// forking a second attempt; the loser gets a duplicate-key error.
	_, err := col.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "quiz_id", Value: 1}},
		Options: options.Index().
			SetUnique(true).
			SetPartialFilterExpression(bson.M{"status": models.AttemptInProgress}),
	})
	if err != nil {
		log.Printf("attempt index creation failed: %v", err)
	}
	return &AttemptRepository{Col: col}
}

func (r *AttemptRepository) Create(ctx context.Context, attempt *models.QuizAttempt) error {
	res, err := r.Col.InsertOne(ctx, attempt)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		attempt.ID = oid.Hex()
	}
	return nil
}

func (r *AttemptRepository) FindByID(ctx context.Context, id string) (*models.QuizAttempt, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, mongo.ErrNoDocuments
	}
	var attempt models.QuizAttempt
	if err := r.Col.FindOne(ctx, bson.M{"_id": objID}).Decode(&attempt); err != nil {
		return nil, err
	}
	return &attempt, nil
}

// FindInProgress returns the user's open attempt for a quiz, if any. At most
// one exists per (user, quiz) pair; idempotent start depends on this lookup.
func (r *AttemptRepository) FindInProgress(ctx context.Context, userID, quizID string) (*models.QuizAttempt, error) {
	var attempt models.QuizAttempt
	err := r.Col.FindOne(ctx, bson.M{
		"user_id": userID,
		"quiz_id": quizID,
		"status":  models.AttemptInProgress,
	}).Decode(&attempt)
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *AttemptRepository) CountCompleted(ctx context.Context, userID, quizID string) (int64, error) {
	return r.Col.CountDocuments(ctx, bson.M{
		"user_id": userID,
		"quiz_id": quizID,
		"status":  models.AttemptCompleted,
	})
}

// UpdateIfStatus applies update only when the attempt is currently in the
// required status, in a single filtered UpdateOne. The store's atomic
// compare-and-swap on the status field is what makes a double submit race
// resolve to exactly one winner; the loser sees matched=false.
func (r *AttemptRepository) UpdateIfStatus(ctx context.Context, id string, required models.AttemptStatus, update bson.M) (bool, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, mongo.ErrNoDocuments
	}
	res, err := r.Col.UpdateOne(ctx,
		bson.M{"_id": objID, "status": required},
		bson.M{"$set": update},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

// FindCompletedByUser returns the user's completed attempts, most recently
// completed first. The stats aggregator relies on this ordering to keep
// only the newest attempt per quiz.
func (r *AttemptRepository) FindCompletedByUser(ctx context.Context, userID string) ([]models.QuizAttempt, error) {
	opts := options.Find().SetSort(bson.D{{Key: "completed_at", Value: -1}})
	cur, err := r.Col.Find(ctx, bson.M{
		"user_id": userID,
		"status":  models.AttemptCompleted,
	}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var attempts []models.QuizAttempt
	for cur.Next(ctx) {
		var a models.QuizAttempt
		if err := cur.Decode(&a); err != nil {
			return nil, err
		}
		attempts = append(attempts, a)
	}
	return attempts, nil
}

func (r *AttemptRepository) FindCompletedByQuiz(ctx context.Context, quizID string) ([]models.QuizAttempt, error) {
	cur, err := r.Col.Find(ctx, bson.M{
		"quiz_id": quizID,
		"status":  models.AttemptCompleted,
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var attempts []models.QuizAttempt
	for cur.Next(ctx) {
		var a models.QuizAttempt
		if err := cur.Decode(&a); err != nil {
			return nil, err
		}
		attempts = append(attempts, a)
	}
	return attempts, nil
}

func (r *AttemptRepository) FindByUser(ctx context.Context, userID string) ([]models.QuizAttempt, error) {
	opts := options.Find().SetSort(bson.D{{Key: "started_at", Value: -1}})
	cur, err := r.Col.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var attempts []models.QuizAttempt
	for cur.Next(ctx) {
		var a models.QuizAttempt
		if err := cur.Decode(&a); err != nil {
			return nil, err
		}
		attempts = append(attempts, a)
	}
	return attempts, nil
}

func (r *AttemptRepository) Delete(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return mongo.ErrNoDocuments
	}
	res, err := r.Col.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// MarkAbandonedBefore flips every in_progress attempt started before the
// cutoff to abandoned, returning how many were swept.
func (r *AttemptRepository) MarkAbandonedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.Col.UpdateMany(ctx,
		bson.M{
			"status":     models.AttemptInProgress,
			"started_at": bson.M{"$lt": cutoff},
		},
		bson.M{"$set": bson.M{"status": models.AttemptAbandoned}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}
