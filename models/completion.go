package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TaskCompletion records that one specific assignee has finished their
// portion of a task. At most one active record exists per (taskId, userId)
// pair; records are never updated in place — remove and recreate to change
// the note.
type TaskCompletion struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	TaskID      primitive.ObjectID `json:"taskId" bson:"taskId"`
	UserID      string             `json:"userId" bson:"userId"`
	CompletedAt time.Time          `json:"completedAt" bson:"completedAt"`
	Notes       string             `json:"notes,omitempty" bson:"notes,omitempty"`
}

// AssigneeProgress is one row of the per-assignee progress view. Entries
// are positional: a duplicated assignee id yields duplicated rows.
type AssigneeProgress struct {
	UserID      string     `json:"userId"`
	Name        string     `json:"name"`
	IsCompleted bool       `json:"isCompleted"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// TaskProgress is the aggregate view computed from a task's assignee list
// and its completion records. IsFullyCompleted is the aggregator's own
// verdict and deliberately ignores the task's stored status.
type TaskProgress struct {
	CompletedCount   int                `json:"completedCount"`
	Total            int                `json:"total"`
	IsFullyCompleted bool               `json:"isFullyCompleted"`
	PerAssignee      []AssigneeProgress `json:"perAssignee"`
}
