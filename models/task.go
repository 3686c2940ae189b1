package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TaskStatus string

const (
	StatusAvailable  TaskStatus = "available"
	StatusInProgress TaskStatus = "in_progress"
	StatusWaiting    TaskStatus = "waiting"
	StatusCompleted  TaskStatus = "completed"
)

// ValidStatus reports whether s is one of the known coarse statuses.
func ValidStatus(s TaskStatus) bool {
	switch s {
	case StatusAvailable, StatusInProgress, StatusWaiting, StatusCompleted:
		return true
	}
	return false
}

// Task is a unit of volunteer work that may have several simultaneous
// assignees. AssigneeNames is positionally aligned with AssigneeIDs and
// carries no referential guarantee; duplicates in AssigneeIDs are tolerated.
type Task struct {
	ID            primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	ProjectID     string             `json:"projectId" bson:"projectId"`
	Title         string             `json:"title" bson:"title"`
	Description   string             `json:"description" bson:"description"`
	Status        TaskStatus         `json:"status" bson:"status"`
	AssigneeIDs   []string           `json:"assigneeIds" bson:"assigneeIds"`
	AssigneeNames []string           `json:"assigneeNames" bson:"assigneeNames"`
	CreatedAt     time.Time          `json:"createdAt" bson:"createdAt"`
}

// Assignee is an id/display-name pair as sent by the client when
// assigning volunteers to a task.
type Assignee struct {
	ID   string `json:"id" bson:"id"`
	Name string `json:"name" bson:"name"`
}
