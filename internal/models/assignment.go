package models

import "time"

type AssignmentStatus string

const (
	AssignmentPending   AssignmentStatus = "pending"
	AssignmentCompleted AssignmentStatus = "completed"
	AssignmentOverdue   AssignmentStatus = "overdue"
)

// Assignment links a user to a quiz they are expected to take. Submitting an
// attempt flips a pending assignment to completed; an administrative reset
// reverts it.
type Assignment struct {
	ID      string           `bson:"_id,omitempty" json:"id"`
	UserID  string           `bson:"user_id" json:"user_id"`
	QuizID  string           `bson:"quiz_id" json:"quiz_id"`
	DueDate time.Time        `bson:"due_date" json:"due_date"`
	Status  AssignmentStatus `bson:"status" json:"status"`
	Score   *float64         `bson:"score,omitempty" json:"score,omitempty"`
}
