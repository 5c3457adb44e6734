package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"quiz-service/internal/models"
	"quiz-service/internal/service"

	"github.com/gin-gonic/gin"
)

type AttemptHandler struct {
	Service *service.AttemptService
}

func NewAttemptHandler(s *service.AttemptService) *AttemptHandler {
	return &AttemptHandler{Service: s}
}

// principal reads the identity the gateway middleware attached as headers.
func principal(c *gin.Context) service.Principal {
	return service.Principal{
		UserID: c.GetHeader("X-User-ID"),
		Role:   c.GetHeader("X-User-Role"),
	}
}

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidState):
		return http.StatusConflict
	case errors.Is(err, service.ErrRetryNotAllowed),
		errors.Is(err, service.ErrMaxAttemptsReached):
		return http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func fail(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}

// StartAttempt opens (or idempotently returns) the caller's attempt for a
// quiz.
func (h *AttemptHandler) StartAttempt(c *gin.Context) {
	var req struct {
		QuizID string `json:"quiz_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request format",
			"details": err.Error(),
		})
		return
	}

	attempt, err := h.Service.Start(context.Background(), principal(c), req.QuizID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, attempt)
}

// SaveProgress replaces the attempt's raw-answer snapshot (client
// auto-save).
func (h *AttemptHandler) SaveProgress(c *gin.Context) {
	attemptID := c.Param("id")

	var req struct {
		Answers []models.AnswerPayload `json:"answers"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid answer format",
			"details": err.Error(),
		})
		return
	}

	if err := h.Service.Save(context.Background(), principal(c), attemptID, req.Answers); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Progress saved"})
}

// SubmitAttempt scores the submitted answers and completes the attempt.
func (h *AttemptHandler) SubmitAttempt(c *gin.Context) {
	attemptID := c.Param("id")

	var req struct {
		Answers          []models.AnswerPayload `json:"answers"`
		TimeSpentSeconds int                    `json:"time_spent_seconds"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid answer format",
			"details": err.Error(),
		})
		return
	}

	result, err := h.Service.Submit(context.Background(), principal(c), attemptID, req.Answers, req.TimeSpentSeconds)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ResetAttempt reopens a completed attempt. Admin only.
func (h *AttemptHandler) ResetAttempt(c *gin.Context) {
	attemptID := c.Param("id")
	attempt, err := h.Service.Reset(context.Background(), principal(c), attemptID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, attempt)
}

// DeleteAttempt permanently removes an attempt. Admin only.
func (h *AttemptHandler) DeleteAttempt(c *gin.Context) {
	attemptID := c.Param("id")
	if err := h.Service.Delete(context.Background(), principal(c), attemptID); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Attempt deleted"})
}

// GetAttempt returns one attempt to its owner or an admin.
func (h *AttemptHandler) GetAttempt(c *gin.Context) {
	attempt, err := h.Service.Get(context.Background(), principal(c), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, attempt)
}

// GetUserAttempts lists a user's attempts.
func (h *AttemptHandler) GetUserAttempts(c *gin.Context) {
	attempts, err := h.Service.ListForUser(context.Background(), principal(c), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, attempts)
}

// AbandonStale sweeps in_progress attempts older than max_age_minutes
// (default 120) into the abandoned state. Admin only.
func (h *AttemptHandler) AbandonStale(c *gin.Context) {
	maxAgeMinutes := 120
	if raw := c.Query("max_age_minutes"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			maxAgeMinutes = v
		}
	}

	swept, err := h.Service.AbandonStale(context.Background(), principal(c), time.Duration(maxAgeMinutes)*time.Minute)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"abandoned": swept})
}
