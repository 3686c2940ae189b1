package services

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/nicunursekatie/sandwichsync-sub004/models"
)

type fakeTaskStore struct {
	tasks            map[primitive.ObjectID]models.Task
	failStatusUpdate bool
	statusUpdates    []models.TaskStatus
}

func newFakeTaskStore(tasks ...models.Task) *fakeTaskStore {
	f := &fakeTaskStore{tasks: map[primitive.ObjectID]models.Task{}}
	for _, t := range tasks {
		f.tasks[t.ID] = t
	}
	return f
}

func (f *fakeTaskStore) GetTask(ctx context.Context, taskID primitive.ObjectID) (*models.Task, error) {
	task, ok := f.tasks[taskID]
	if !ok {
		return nil, fmt.Errorf("%w: task %s", ErrNotFound, taskID.Hex())
	}
	copied := task
	return &copied, nil
}

func (f *fakeTaskStore) GetAllTasks(ctx context.Context) ([]models.Task, error) {
	out := []models.Task{}
	for _, t := range f.tasks {
		out = append(out, t)
	}
	return out, nil
}

func (f *fakeTaskStore) GetTasksByProject(ctx context.Context, projectID string) ([]models.Task, error) {
	out := []models.Task{}
	for _, t := range f.tasks {
		if t.ProjectID == projectID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeTaskStore) InsertTask(ctx context.Context, task *models.Task) error {
	if task.ID.IsZero() {
		task.ID = primitive.NewObjectID()
	}
	f.tasks[task.ID] = *task
	return nil
}

func (f *fakeTaskStore) UpdateStatus(ctx context.Context, taskID primitive.ObjectID, status models.TaskStatus) error {
	if f.failStatusUpdate {
		return errors.New("status update failed")
	}
	task, ok := f.tasks[taskID]
	if !ok {
		return fmt.Errorf("%w: task %s", ErrNotFound, taskID.Hex())
	}
	task.Status = status
	f.tasks[taskID] = task
	f.statusUpdates = append(f.statusUpdates, status)
	return nil
}

func (f *fakeTaskStore) UpdateAssignees(ctx context.Context, taskID primitive.ObjectID, ids, names []string) error {
	task, ok := f.tasks[taskID]
	if !ok {
		return fmt.Errorf("%w: task %s", ErrNotFound, taskID.Hex())
	}
	task.AssigneeIDs = ids
	task.AssigneeNames = names
	f.tasks[taskID] = task
	return nil
}

func (f *fakeTaskStore) DeleteTask(ctx context.Context, taskID primitive.ObjectID) error {
	if _, ok := f.tasks[taskID]; !ok {
		return fmt.Errorf("%w: task %s", ErrNotFound, taskID.Hex())
	}
	delete(f.tasks, taskID)
	return nil
}

type fakeCompletionStore struct {
	completions []models.TaskCompletion
}

func (f *fakeCompletionStore) ListByTask(ctx context.Context, taskID primitive.ObjectID) ([]models.TaskCompletion, error) {
	out := []models.TaskCompletion{}
	for _, c := range f.completions {
		if c.TaskID == taskID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCompletionStore) FindByTaskAndUser(ctx context.Context, taskID primitive.ObjectID, userID string) (*models.TaskCompletion, error) {
	for _, c := range f.completions {
		if c.TaskID == taskID && c.UserID == userID {
			copied := c
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeCompletionStore) Insert(ctx context.Context, completion *models.TaskCompletion) error {
	for _, c := range f.completions {
		if c.TaskID == completion.TaskID && c.UserID == completion.UserID {
			return fmt.Errorf("%w for user %s on task %s", ErrConflict, completion.UserID, completion.TaskID.Hex())
		}
	}
	completion.ID = primitive.NewObjectID()
	f.completions = append(f.completions, *completion)
	return nil
}

func (f *fakeCompletionStore) DeleteByTaskAndUser(ctx context.Context, taskID primitive.ObjectID, userID string) error {
	for i, c := range f.completions {
		if c.TaskID == taskID && c.UserID == userID {
			f.completions = append(f.completions[:i], f.completions[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: no completion for user %s on task %s", ErrNotFound, userID, taskID.Hex())
}

func (f *fakeCompletionStore) DeleteByTask(ctx context.Context, taskID primitive.ObjectID) (int64, error) {
	kept := f.completions[:0]
	var deleted int64
	for _, c := range f.completions {
		if c.TaskID == taskID {
			deleted++
			continue
		}
		kept = append(kept, c)
	}
	f.completions = kept
	return deleted, nil
}
