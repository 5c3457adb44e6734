package grading

import (
	"math"

	"quiz-service/internal/models"
)

const (
	baseXPPerQuestion  = 10
	passedMultiplier   = 1.5
	perfectMultiplier  = 1.25
	firstTryMultiplier = 1.1
	perfectPercentage  = 100.0
)

// AwardXP maps an attempt outcome to its experience-point award:
// base of 10 per question, scaled by difficulty tier, passing, a perfect
// score and a first-completed-attempt bonus, rounded to nearest integer.
// Deterministic and pure.
func AwardXP(questionCount int, difficulty string, passed bool, percentage float64, firstAttempt bool) int {
	xp := float64(questionCount * baseXPPerQuestion)

	if m, ok := models.DifficultyMultipliers[difficulty]; ok {
		xp *= m
	}
	if passed {
		xp *= passedMultiplier
	}
	if percentage == perfectPercentage {
		xp *= perfectMultiplier
	}
	if firstAttempt {
		xp *= firstTryMultiplier
	}

	return int(math.Round(xp))
}
