package repositories

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/nicunursekatie/sandwichsync-sub004/models"
	"github.com/nicunursekatie/sandwichsync-sub004/services"
)

// CompletionRepository is the MongoDB implementation of
// services.CompletionStore. A unique compound index on (taskId, userId)
// backs the at-most-one-active-record invariant, closing the race between
// two concurrent completes by the same user.
type CompletionRepository struct {
	collection *mongo.Collection
}

func NewCompletionRepository(collection *mongo.Collection) *CompletionRepository {
	return &CompletionRepository{collection: collection}
}

// EnsureIndexes creates the unique (taskId, userId) index. Called once at
// startup.
func (r *CompletionRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "taskId", Value: 1}, {Key: "userId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create completions index: %w", err)
	}
	return nil
}

func (r *CompletionRepository) ListByTask(ctx context.Context, taskID primitive.ObjectID) ([]models.TaskCompletion, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"taskId": taskID})
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve completions: %w", err)
	}
	defer cursor.Close(ctx)

	completions := []models.TaskCompletion{}
	if err := cursor.All(ctx, &completions); err != nil {
		return nil, fmt.Errorf("failed to decode completions: %w", err)
	}
	return completions, nil
}

// FindByTaskAndUser returns nil without error when no record exists.
func (r *CompletionRepository) FindByTaskAndUser(ctx context.Context, taskID primitive.ObjectID, userID string) (*models.TaskCompletion, error) {
	var completion models.TaskCompletion
	err := r.collection.FindOne(ctx, bson.M{"taskId": taskID, "userId": userID}).Decode(&completion)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve completion: %w", err)
	}
	return &completion, nil
}

func (r *CompletionRepository) Insert(ctx context.Context, completion *models.TaskCompletion) error {
	result, err := r.collection.InsertOne(ctx, completion)
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w for user %s on task %s", services.ErrConflict, completion.UserID, completion.TaskID.Hex())
	}
	if err != nil {
		return fmt.Errorf("failed to insert completion: %w", err)
	}
	completion.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *CompletionRepository) DeleteByTaskAndUser(ctx context.Context, taskID primitive.ObjectID, userID string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"taskId": taskID, "userId": userID})
	if err != nil {
		return fmt.Errorf("failed to delete completion: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("%w: no completion for user %s on task %s", services.ErrNotFound, userID, taskID.Hex())
	}
	return nil
}

func (r *CompletionRepository) DeleteByTask(ctx context.Context, taskID primitive.ObjectID) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{"taskId": taskID})
	if err != nil {
		return 0, fmt.Errorf("failed to delete completions: %w", err)
	}
	return result.DeletedCount, nil
}
