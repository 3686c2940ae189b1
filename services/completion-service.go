package services

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/nicunursekatie/sandwichsync-sub004/logging"
	"github.com/nicunursekatie/sandwichsync-sub004/models"
)

// CompletionService owns the completion records of a task and keeps the
// task's coarse status reconciled with the aggregate: the final completion
// promotes the task to "completed", and removing a completion from a
// completed task demotes it to "waiting".
type CompletionService struct {
	tasks       TaskStore
	completions CompletionStore
}

func NewCompletionService(tasks TaskStore, completions CompletionStore) *CompletionService {
	return &CompletionService{tasks: tasks, completions: completions}
}

// ListCompletions returns every completion record of the task, including
// records whose user id no longer appears in the assignee list.
func (s *CompletionService) ListCompletions(ctx context.Context, taskID primitive.ObjectID) ([]models.TaskCompletion, error) {
	if _, err := s.tasks.GetTask(ctx, taskID); err != nil {
		return nil, err
	}
	return s.completions.ListByTask(ctx, taskID)
}

// Complete records that userID has finished their portion of the task and
// reconciles the task status. Returns the created record and whether the
// aggregate is now fully complete.
func (s *CompletionService) Complete(ctx context.Context, taskID primitive.ObjectID, userID, notes string) (*models.TaskCompletion, bool, error) {
	if userID == "" {
		return nil, false, fmt.Errorf("%w: user id is required", ErrValidation)
	}

	task, err := s.tasks.GetTask(ctx, taskID)
	if err != nil {
		return nil, false, err
	}

	existing, err := s.completions.FindByTaskAndUser(ctx, taskID, userID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to check existing completion: %w", err)
	}
	if existing != nil {
		return nil, false, fmt.Errorf("%w for user %s on task %s", ErrConflict, userID, taskID.Hex())
	}

	completion := &models.TaskCompletion{
		TaskID:      taskID,
		UserID:      userID,
		CompletedAt: time.Now().UTC(),
		Notes:       notes,
	}
	if err := s.completions.Insert(ctx, completion); err != nil {
		return nil, false, err
	}

	completions, err := s.completions.ListByTask(ctx, taskID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to reload completions: %w", err)
	}
	progress := ComputeProgress(task.AssigneeIDs, task.AssigneeNames, completions)

	if progress.IsFullyCompleted && task.Status != models.StatusCompleted {
		// A failure here is a data-integrity problem, not caller input;
		// deliberately not classified so it surfaces as a 500.
		if err := s.tasks.UpdateStatus(ctx, taskID, models.StatusCompleted); err != nil {
			return nil, false, fmt.Errorf("failed to reconcile task status: %v", err)
		}
		logging.Logger.Infof("Event ID: TASK_FULLY_COMPLETED, Description: Task %s promoted to completed (%d/%d assignees done)", taskID.Hex(), progress.CompletedCount, progress.Total)
	}

	return completion, progress.IsFullyCompleted, nil
}

// Uncomplete removes userID's completion record and, if the task was
// completed, demotes it to "waiting" — someone still owes work, no matter
// how many records remain.
func (s *CompletionService) Uncomplete(ctx context.Context, taskID primitive.ObjectID, userID string) error {
	if userID == "" {
		return fmt.Errorf("%w: user id is required", ErrValidation)
	}

	existing, err := s.completions.FindByTaskAndUser(ctx, taskID, userID)
	if err != nil {
		return fmt.Errorf("failed to check existing completion: %w", err)
	}
	if existing == nil {
		return fmt.Errorf("%w: no completion for user %s on task %s", ErrNotFound, userID, taskID.Hex())
	}

	if err := s.completions.DeleteByTaskAndUser(ctx, taskID, userID); err != nil {
		return err
	}

	task, err := s.tasks.GetTask(ctx, taskID)
	if err != nil {
		// The record is already gone; a missing task row at this point
		// is a data-integrity problem and surfaces as a 500.
		return fmt.Errorf("failed to reconcile task status: %v", err)
	}
	if task.Status == models.StatusCompleted {
		if err := s.tasks.UpdateStatus(ctx, taskID, models.StatusWaiting); err != nil {
			return fmt.Errorf("failed to reconcile task status: %v", err)
		}
		logging.Logger.Infof("Event ID: TASK_COMPLETION_REVOKED, Description: Task %s demoted to waiting after user %s removed their completion", taskID.Hex(), userID)
	}

	return nil
}

// Progress returns the task together with its aggregate completion view.
// The view carries both the aggregator's verdict and the stored status so
// the two can be compared when they disagree.
func (s *CompletionService) Progress(ctx context.Context, taskID primitive.ObjectID) (*models.Task, models.TaskProgress, error) {
	task, err := s.tasks.GetTask(ctx, taskID)
	if err != nil {
		return nil, models.TaskProgress{}, err
	}
	completions, err := s.completions.ListByTask(ctx, taskID)
	if err != nil {
		return nil, models.TaskProgress{}, err
	}
	return task, ComputeProgress(task.AssigneeIDs, task.AssigneeNames, completions), nil
}
