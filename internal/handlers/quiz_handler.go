package handlers

import (
	"context"
	"net/http"

	"quiz-service/internal/models"
	"quiz-service/internal/repository"

	"github.com/gin-gonic/gin"
)

// QuizHandler exposes read-only catalog views. Answer keys are stripped
// from everything a learner can fetch.
type QuizHandler struct {
	Repo *repository.QuizRepository
}

func NewQuizHandler(repo *repository.QuizRepository) *QuizHandler {
	return &QuizHandler{Repo: repo}
}

func (h *QuizHandler) GetQuiz(c *gin.Context) {
	quiz, err := h.Repo.FindByID(context.Background(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Quiz not found"})
		return
	}
	c.JSON(http.StatusOK, quiz.Sanitized())
}

func (h *QuizHandler) ListPublished(c *gin.Context) {
	quizzes, err := h.Repo.FindPublished(context.Background())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	sanitized := make([]models.Quiz, 0, len(quizzes))
	for _, q := range quizzes {
		sanitized = append(sanitized, q.Sanitized())
	}
	c.JSON(http.StatusOK, sanitized)
}
