package repositories

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/nicunursekatie/sandwichsync-sub004/models"
	"github.com/nicunursekatie/sandwichsync-sub004/services"
)

// TaskRepository is the MongoDB implementation of services.TaskStore.
type TaskRepository struct {
	collection *mongo.Collection
}

func NewTaskRepository(collection *mongo.Collection) *TaskRepository {
	return &TaskRepository{collection: collection}
}

func (r *TaskRepository) GetTask(ctx context.Context, taskID primitive.ObjectID) (*models.Task, error) {
	var task models.Task
	err := r.collection.FindOne(ctx, bson.M{"_id": taskID}).Decode(&task)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%w: task %s", services.ErrNotFound, taskID.Hex())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve task: %w", err)
	}
	return &task, nil
}

func (r *TaskRepository) GetAllTasks(ctx context.Context) ([]models.Task, error) {
	return r.find(ctx, bson.M{})
}

func (r *TaskRepository) GetTasksByProject(ctx context.Context, projectID string) ([]models.Task, error) {
	return r.find(ctx, bson.M{"projectId": projectID})
}

func (r *TaskRepository) find(ctx context.Context, filter bson.M) ([]models.Task, error) {
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve tasks: %w", err)
	}
	defer cursor.Close(ctx)

	var tasks []models.Task
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, fmt.Errorf("failed to decode tasks: %w", err)
	}
	return tasks, nil
}

func (r *TaskRepository) InsertTask(ctx context.Context, task *models.Task) error {
	result, err := r.collection.InsertOne(ctx, task)
	if err != nil {
		return fmt.Errorf("failed to insert task: %w", err)
	}
	task.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *TaskRepository) UpdateStatus(ctx context.Context, taskID primitive.ObjectID, status models.TaskStatus) error {
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": taskID}, bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		return fmt.Errorf("failed to update task status: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: task %s", services.ErrNotFound, taskID.Hex())
	}
	return nil
}

func (r *TaskRepository) UpdateAssignees(ctx context.Context, taskID primitive.ObjectID, ids, names []string) error {
	update := bson.M{"$set": bson.M{"assigneeIds": ids, "assigneeNames": names}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": taskID}, update)
	if err != nil {
		return fmt.Errorf("failed to update assignees: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: task %s", services.ErrNotFound, taskID.Hex())
	}
	return nil
}

func (r *TaskRepository) DeleteTask(ctx context.Context, taskID primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": taskID})
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("%w: task %s", services.ErrNotFound, taskID.Hex())
	}
	return nil
}
