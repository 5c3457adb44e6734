package repository

import (
	"context"

	"quiz-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// QuizRepository is read-only access to the quiz catalog. Authoring lives in
// a separate service; this one only needs the question set, point totals,
// retry policy and passing threshold at start and submit time.
type QuizRepository struct {
	Col *mongo.Collection
}

func NewQuizRepository(db *mongo.Database) *QuizRepository {
	return &QuizRepository{Col: db.Collection("quizzes")}
}

func (r *QuizRepository) FindByID(ctx context.Context, id string) (*models.Quiz, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, mongo.ErrNoDocuments
	}
	var quiz models.Quiz
	if err := r.Col.FindOne(ctx, bson.M{"_id": objID}).Decode(&quiz); err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (r *QuizRepository) FindPublished(ctx context.Context) ([]models.Quiz, error) {
	cur, err := r.Col.Find(ctx, bson.M{"published": true})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var quizzes []models.Quiz
	for cur.Next(ctx) {
		var q models.Quiz
		if err := cur.Decode(&q); err != nil {
			return nil, err
		}
		quizzes = append(quizzes, q)
	}
	return quizzes, nil
}
