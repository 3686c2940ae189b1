package services

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/nicunursekatie/sandwichsync-sub004/logging"
	"github.com/nicunursekatie/sandwichsync-sub004/models"
)

// TaskService handles task CRUD and assignment changes. Assignment changes
// are one of the two reconciliation triggers: growing the assignee list of
// a completed task can reopen it.
type TaskService struct {
	tasks       TaskStore
	completions CompletionStore
}

func NewTaskService(tasks TaskStore, completions CompletionStore) *TaskService {
	return &TaskService{tasks: tasks, completions: completions}
}

func (s *TaskService) CreateTask(ctx context.Context, projectID, title, description string, assignees []models.Assignee) (*models.Task, error) {
	if projectID == "" {
		return nil, fmt.Errorf("%w: project id is required", ErrValidation)
	}
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}

	ids := make([]string, 0, len(assignees))
	names := make([]string, 0, len(assignees))
	for _, a := range assignees {
		ids = append(ids, a.ID)
		names = append(names, a.Name)
	}

	task := &models.Task{
		ProjectID:     projectID,
		Title:         title,
		Description:   description,
		Status:        models.StatusAvailable,
		AssigneeIDs:   ids,
		AssigneeNames: names,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.tasks.InsertTask(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return task, nil
}

func (s *TaskService) GetTaskByID(ctx context.Context, taskID primitive.ObjectID) (*models.Task, error) {
	return s.tasks.GetTask(ctx, taskID)
}

func (s *TaskService) GetAllTasks(ctx context.Context) ([]models.Task, error) {
	return s.tasks.GetAllTasks(ctx)
}

func (s *TaskService) GetTasksByProject(ctx context.Context, projectID string) ([]models.Task, error) {
	if projectID == "" {
		return nil, fmt.Errorf("%w: project id is required", ErrValidation)
	}
	return s.tasks.GetTasksByProject(ctx, projectID)
}

// AddAssignees appends id/name pairs to the task's assignee list. A task
// that was completed but whose grown list is no longer fully done is
// demoted to "waiting".
func (s *TaskService) AddAssignees(ctx context.Context, taskID primitive.ObjectID, assignees []models.Assignee) (*models.Task, error) {
	if len(assignees) == 0 {
		return nil, fmt.Errorf("%w: at least one assignee is required", ErrValidation)
	}
	task, err := s.tasks.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	ids := append([]string{}, task.AssigneeIDs...)
	names := append([]string{}, task.AssigneeNames...)
	for _, a := range assignees {
		if a.ID == "" {
			return nil, fmt.Errorf("%w: assignee id is required", ErrValidation)
		}
		ids = append(ids, a.ID)
		names = append(names, a.Name)
	}
	if err := s.tasks.UpdateAssignees(ctx, taskID, ids, names); err != nil {
		return nil, fmt.Errorf("failed to update assignees: %w", err)
	}

	if task.Status == models.StatusCompleted {
		completions, err := s.completions.ListByTask(ctx, taskID)
		if err != nil {
			return nil, fmt.Errorf("failed to reconcile task status: %v", err)
		}
		if !ComputeProgress(ids, names, completions).IsFullyCompleted {
			if err := s.tasks.UpdateStatus(ctx, taskID, models.StatusWaiting); err != nil {
				return nil, fmt.Errorf("failed to reconcile task status: %v", err)
			}
			task.Status = models.StatusWaiting
			logging.Logger.Infof("Event ID: TASK_REOPENED, Description: Task %s demoted to waiting after new assignees were added", taskID.Hex())
		}
	}

	task.AssigneeIDs = ids
	task.AssigneeNames = names
	return task, nil
}

// RemoveAssignee removes every position held by userID from the assignee
// list. The user's completion record, if any, is retained: it becomes an
// orphan that ListCompletions still returns but ComputeProgress no longer
// counts.
func (s *TaskService) RemoveAssignee(ctx context.Context, taskID primitive.ObjectID, userID string) (*models.Task, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrValidation)
	}
	task, err := s.tasks.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(task.AssigneeIDs))
	names := make([]string, 0, len(task.AssigneeNames))
	removed := false
	for i, id := range task.AssigneeIDs {
		if id == userID {
			removed = true
			continue
		}
		ids = append(ids, id)
		if i < len(task.AssigneeNames) {
			names = append(names, task.AssigneeNames[i])
		}
	}
	if !removed {
		return nil, fmt.Errorf("%w: user %s is not assigned to task %s", ErrNotFound, userID, taskID.Hex())
	}

	if err := s.tasks.UpdateAssignees(ctx, taskID, ids, names); err != nil {
		return nil, fmt.Errorf("failed to update assignees: %w", err)
	}
	logging.Logger.Infof("Event ID: ASSIGNEE_REMOVED, Description: User %s removed from task %s, completion records retained", userID, taskID.Hex())

	task.AssigneeIDs = ids
	task.AssigneeNames = names
	return task, nil
}

// ChangeTaskStatus sets the coarse status directly. The status field stays
// independent of the aggregate; the progress view exposes both so a direct
// edit that disagrees with the completion records is visible, not hidden.
func (s *TaskService) ChangeTaskStatus(ctx context.Context, taskID primitive.ObjectID, status models.TaskStatus) (*models.Task, error) {
	if !models.ValidStatus(status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}
	task, err := s.tasks.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if err := s.tasks.UpdateStatus(ctx, taskID, status); err != nil {
		return nil, fmt.Errorf("failed to update task status: %w", err)
	}
	task.Status = status
	return task, nil
}

// DeleteTask removes the task and explicitly cascades its completion
// records. Nothing cascades automatically; this is the one call site that
// cleans them up.
func (s *TaskService) DeleteTask(ctx context.Context, taskID primitive.ObjectID) error {
	if _, err := s.tasks.GetTask(ctx, taskID); err != nil {
		return err
	}
	if err := s.tasks.DeleteTask(ctx, taskID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	deleted, err := s.completions.DeleteByTask(ctx, taskID)
	if err != nil {
		return fmt.Errorf("failed to delete completions for task: %w", err)
	}
	logging.Logger.Infof("Event ID: TASK_DELETED, Description: Task %s deleted along with %d completion records", taskID.Hex(), deleted)
	return nil
}
