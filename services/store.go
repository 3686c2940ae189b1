package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/nicunursekatie/sandwichsync-sub004/models"
)

// TaskStore defines the persistence methods the services need for tasks.
// The MongoDB implementation lives in the repositories package.
type TaskStore interface {
	GetTask(ctx context.Context, taskID primitive.ObjectID) (*models.Task, error)
	GetAllTasks(ctx context.Context) ([]models.Task, error)
	GetTasksByProject(ctx context.Context, projectID string) ([]models.Task, error)
	InsertTask(ctx context.Context, task *models.Task) error
	UpdateStatus(ctx context.Context, taskID primitive.ObjectID, status models.TaskStatus) error
	UpdateAssignees(ctx context.Context, taskID primitive.ObjectID, ids, names []string) error
	DeleteTask(ctx context.Context, taskID primitive.ObjectID) error
}

// CompletionStore defines the persistence methods for completion records.
type CompletionStore interface {
	ListByTask(ctx context.Context, taskID primitive.ObjectID) ([]models.TaskCompletion, error)
	FindByTaskAndUser(ctx context.Context, taskID primitive.ObjectID, userID string) (*models.TaskCompletion, error)
	Insert(ctx context.Context, completion *models.TaskCompletion) error
	DeleteByTaskAndUser(ctx context.Context, taskID primitive.ObjectID, userID string) error
	DeleteByTask(ctx context.Context, taskID primitive.ObjectID) (int64, error)
}
