package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"quiz-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// In-memory stand-ins for the mongo repositories.

type fakeAttemptStore struct {
	mu       sync.Mutex
	seq      int
	attempts map[string]*models.QuizAttempt
}

func newFakeAttemptStore() *fakeAttemptStore {
	return &fakeAttemptStore{attempts: map[string]*models.QuizAttempt{}}
}

func (f *fakeAttemptStore) Create(_ context.Context, attempt *models.QuizAttempt) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	// Mirror the unique open-attempt index: a second in_progress insert
	// for the same (user, quiz) fails with a duplicate-key error.
	if attempt.Status == models.AttemptInProgress {
		for _, a := range f.attempts {
			if a.UserID == attempt.UserID && a.QuizID == attempt.QuizID && a.Status == models.AttemptInProgress {
				return mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000}}}
			}
		}
	}
	f.seq++
	attempt.ID = fmt.Sprintf("attempt-%d", f.seq)
	stored := *attempt
	f.attempts[attempt.ID] = &stored
	return nil
}

func (f *fakeAttemptStore) FindByID(_ context.Context, id string) (*models.QuizAttempt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.attempts[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	cp := *a
	return &cp, nil
}

func (f *fakeAttemptStore) FindInProgress(_ context.Context, userID, quizID string) (*models.QuizAttempt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.attempts {
		if a.UserID == userID && a.QuizID == quizID && a.Status == models.AttemptInProgress {
			cp := *a
			return &cp, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakeAttemptStore) CountCompleted(_ context.Context, userID, quizID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, a := range f.attempts {
		if a.UserID == userID && a.QuizID == quizID && a.Status == models.AttemptCompleted {
			n++
		}
	}
	return n, nil
}

func (f *fakeAttemptStore) UpdateIfStatus(_ context.Context, id string, required models.AttemptStatus, update bson.M) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.attempts[id]
	if !ok || a.Status != required {
		return false, nil
	}
	applyAttemptUpdate(a, update)
	return true, nil
}

func (f *fakeAttemptStore) FindCompletedByUser(_ context.Context, userID string) ([]models.QuizAttempt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.QuizAttempt
	for _, a := range f.attempts {
		if a.UserID == userID && a.Status == models.AttemptCompleted {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		ti, tj := time.Time{}, time.Time{}
		if out[i].CompletedAt != nil {
			ti = *out[i].CompletedAt
		}
		if out[j].CompletedAt != nil {
			tj = *out[j].CompletedAt
		}
		return ti.After(tj)
	})
	return out, nil
}

func (f *fakeAttemptStore) FindCompletedByQuiz(_ context.Context, quizID string) ([]models.QuizAttempt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.QuizAttempt
	for _, a := range f.attempts {
		if a.QuizID == quizID && a.Status == models.AttemptCompleted {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeAttemptStore) FindByUser(_ context.Context, userID string) ([]models.QuizAttempt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.QuizAttempt
	for _, a := range f.attempts {
		if a.UserID == userID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeAttemptStore) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.attempts[id]; !ok {
		return mongo.ErrNoDocuments
	}
	delete(f.attempts, id)
	return nil
}

func (f *fakeAttemptStore) MarkAbandonedBefore(_ context.Context, cutoff time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, a := range f.attempts {
		if a.Status == models.AttemptInProgress && a.StartedAt.Before(cutoff) {
			a.Status = models.AttemptAbandoned
			n++
		}
	}
	return n, nil
}

// applyAttemptUpdate mirrors the $set document the service sends to mongo.
func applyAttemptUpdate(a *models.QuizAttempt, update bson.M) {
	for k, v := range update {
		switch k {
		case "status":
			a.Status = v.(models.AttemptStatus)
		case "score":
			a.Score = v.(int)
		case "percentage":
			a.Percentage = v.(float64)
		case "passed":
			a.Passed = v.(bool)
		case "time_spent_seconds":
			a.TimeSpentSeconds = v.(int)
		case "answers":
			a.Answers = v.([]models.ScoredAnswer)
		case "saved_answers":
			if v == nil {
				a.SavedAnswers = nil
			} else {
				a.SavedAnswers = v.([]models.AnswerPayload)
			}
		case "xp_awarded":
			if v == nil {
				a.XPAwarded = nil
			} else {
				xp := v.(int)
				a.XPAwarded = &xp
			}
		case "completed_at":
			if v == nil {
				a.CompletedAt = nil
			} else {
				t := v.(time.Time)
				a.CompletedAt = &t
			}
		}
	}
}

type fakeQuizStore struct {
	quizzes map[string]*models.Quiz
}

func (f *fakeQuizStore) FindByID(_ context.Context, id string) (*models.Quiz, error) {
	q, ok := f.quizzes[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return q, nil
}

type fakeAssignmentStore struct {
	assignments map[string]*models.Assignment // keyed by userID+"/"+quizID
}

func newFakeAssignmentStore() *fakeAssignmentStore {
	return &fakeAssignmentStore{assignments: map[string]*models.Assignment{}}
}

func (f *fakeAssignmentStore) put(a *models.Assignment) {
	f.assignments[a.UserID+"/"+a.QuizID] = a
}

func (f *fakeAssignmentStore) get(userID, quizID string) *models.Assignment {
	return f.assignments[userID+"/"+quizID]
}

func (f *fakeAssignmentStore) MarkCompleted(_ context.Context, userID, quizID string, score float64) error {
	if a := f.get(userID, quizID); a != nil && a.Status == models.AssignmentPending {
		a.Status = models.AssignmentCompleted
		a.Score = &score
	}
	return nil
}

func (f *fakeAssignmentStore) Revert(_ context.Context, userID, quizID string) error {
	if a := f.get(userID, quizID); a != nil && a.Status == models.AssignmentCompleted {
		a.Status = models.AssignmentPending
		a.Score = nil
	}
	return nil
}

type fakeStatsStore struct {
	stats map[string]*models.UserStats
}

func newFakeStatsStore() *fakeStatsStore {
	return &fakeStatsStore{stats: map[string]*models.UserStats{}}
}

func (f *fakeStatsStore) Replace(_ context.Context, stats *models.UserStats) error {
	cp := *stats
	f.stats[stats.UserID] = &cp
	return nil
}

func (f *fakeStatsStore) FindByUser(_ context.Context, userID string) (*models.UserStats, error) {
	s, ok := f.stats[userID]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	cp := *s
	return &cp, nil
}

type fakeLeaderboard struct {
	scores map[string]int
}

func newFakeLeaderboard() *fakeLeaderboard {
	return &fakeLeaderboard{scores: map[string]int{}}
}

func (f *fakeLeaderboard) SetScore(_ context.Context, userID string, totalXP int) error {
	f.scores[userID] = totalXP
	return nil
}

func (f *fakeLeaderboard) Top(_ context.Context, n int) ([]models.LeaderboardEntry, error) {
	var entries []models.LeaderboardEntry
	for userID, xp := range f.scores {
		entries = append(entries, models.LeaderboardEntry{UserID: userID, TotalXP: xp})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].TotalXP > entries[j].TotalXP })
	if len(entries) > n {
		entries = entries[:n]
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries, nil
}
