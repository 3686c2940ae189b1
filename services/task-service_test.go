package services

import (
	"context"
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/nicunursekatie/sandwichsync-sub004/models"
)

func TestCreateTaskDefaults(t *testing.T) {
	tasks := newFakeTaskStore()
	svc := NewTaskService(tasks, &fakeCompletionStore{})

	task, err := svc.CreateTask(context.Background(), "friday-run", "Pack lunches", "200 sandwiches", []models.Assignee{
		{ID: "u1", Name: "Ada"},
		{ID: "u2", Name: "Ben"},
	})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if task.Status != models.StatusAvailable {
		t.Errorf("Status = %q, want available", task.Status)
	}
	if len(task.AssigneeIDs) != 2 || task.AssigneeIDs[0] != "u1" {
		t.Errorf("AssigneeIDs = %v", task.AssigneeIDs)
	}
	if len(task.AssigneeNames) != 2 || task.AssigneeNames[1] != "Ben" {
		t.Errorf("AssigneeNames = %v", task.AssigneeNames)
	}
	if task.CreatedAt.IsZero() {
		t.Errorf("expected CreatedAt to be set")
	}
}

func TestCreateTaskValidation(t *testing.T) {
	svc := NewTaskService(newFakeTaskStore(), &fakeCompletionStore{})

	if _, err := svc.CreateTask(context.Background(), "", "Pack lunches", "", nil); !errors.Is(err, ErrValidation) {
		t.Errorf("missing project: got %v", err)
	}
	if _, err := svc.CreateTask(context.Background(), "friday-run", "", "", nil); !errors.Is(err, ErrValidation) {
		t.Errorf("missing title: got %v", err)
	}
}

func TestAddAssigneesReopensCompletedTask(t *testing.T) {
	task := models.Task{
		ID:            primitive.NewObjectID(),
		ProjectID:     "friday-run",
		Title:         "Pack lunches",
		Status:        models.StatusCompleted,
		AssigneeIDs:   []string{"u1"},
		AssigneeNames: []string{"Ada"},
	}
	tasks := newFakeTaskStore(task)
	completions := &fakeCompletionStore{completions: []models.TaskCompletion{{
		ID:     primitive.NewObjectID(),
		TaskID: task.ID,
		UserID: "u1",
	}}}
	svc := NewTaskService(tasks, completions)

	updated, err := svc.AddAssignees(context.Background(), task.ID, []models.Assignee{{ID: "u2", Name: "Ben"}})
	if err != nil {
		t.Fatalf("AddAssignees: %v", err)
	}
	if updated.Status != models.StatusWaiting {
		t.Errorf("Status = %q, want waiting", updated.Status)
	}
	if len(updated.AssigneeIDs) != 2 {
		t.Errorf("AssigneeIDs = %v", updated.AssigneeIDs)
	}
}

func TestAddAssigneesKeepsCompletedWhenStillFull(t *testing.T) {
	task := models.Task{
		ID:            primitive.NewObjectID(),
		ProjectID:     "friday-run",
		Title:         "Pack lunches",
		Status:        models.StatusCompleted,
		AssigneeIDs:   []string{"u1"},
		AssigneeNames: []string{"Ada"},
	}
	tasks := newFakeTaskStore(task)
	completions := &fakeCompletionStore{completions: []models.TaskCompletion{
		{ID: primitive.NewObjectID(), TaskID: task.ID, UserID: "u1"},
		{ID: primitive.NewObjectID(), TaskID: task.ID, UserID: "u2"},
	}}
	svc := NewTaskService(tasks, completions)

	updated, err := svc.AddAssignees(context.Background(), task.ID, []models.Assignee{{ID: "u2", Name: "Ben"}})
	if err != nil {
		t.Fatalf("AddAssignees: %v", err)
	}
	if updated.Status != models.StatusCompleted {
		t.Errorf("Status = %q, want completed to stick", updated.Status)
	}
}

func TestRemoveAssigneeRetainsCompletion(t *testing.T) {
	task := models.Task{
		ID:            primitive.NewObjectID(),
		ProjectID:     "friday-run",
		Title:         "Pack lunches",
		Status:        models.StatusInProgress,
		AssigneeIDs:   []string{"u1", "u2"},
		AssigneeNames: []string{"Ada", "Ben"},
	}
	tasks := newFakeTaskStore(task)
	completions := &fakeCompletionStore{completions: []models.TaskCompletion{{
		ID:     primitive.NewObjectID(),
		TaskID: task.ID,
		UserID: "u1",
	}}}
	svc := NewTaskService(tasks, completions)

	updated, err := svc.RemoveAssignee(context.Background(), task.ID, "u1")
	if err != nil {
		t.Fatalf("RemoveAssignee: %v", err)
	}
	if len(updated.AssigneeIDs) != 1 || updated.AssigneeIDs[0] != "u2" {
		t.Errorf("AssigneeIDs = %v", updated.AssigneeIDs)
	}

	// The record survives as an orphan.
	remaining, _ := completions.ListByTask(context.Background(), task.ID)
	if len(remaining) != 1 || remaining[0].UserID != "u1" {
		t.Fatalf("expected u1's completion to be retained, got %+v", remaining)
	}
}

func TestRemoveAssigneeUnknownUser(t *testing.T) {
	task := models.Task{
		ID:          primitive.NewObjectID(),
		ProjectID:   "friday-run",
		Title:       "Pack lunches",
		Status:      models.StatusAvailable,
		AssigneeIDs: []string{"u1"},
	}
	svc := NewTaskService(newFakeTaskStore(task), &fakeCompletionStore{})

	if _, err := svc.RemoveAssignee(context.Background(), task.ID, "u9"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestChangeTaskStatusValidatesEnum(t *testing.T) {
	task := models.Task{
		ID:        primitive.NewObjectID(),
		ProjectID: "friday-run",
		Title:     "Pack lunches",
		Status:    models.StatusAvailable,
	}
	svc := NewTaskService(newFakeTaskStore(task), &fakeCompletionStore{})

	if _, err := svc.ChangeTaskStatus(context.Background(), task.ID, "done"); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}

	updated, err := svc.ChangeTaskStatus(context.Background(), task.ID, models.StatusWaiting)
	if err != nil {
		t.Fatalf("ChangeTaskStatus: %v", err)
	}
	if updated.Status != models.StatusWaiting {
		t.Errorf("Status = %q, want waiting", updated.Status)
	}
}

func TestDeleteTaskCascadesCompletions(t *testing.T) {
	task := models.Task{
		ID:          primitive.NewObjectID(),
		ProjectID:   "friday-run",
		Title:       "Pack lunches",
		Status:      models.StatusCompleted,
		AssigneeIDs: []string{"u1", "u2"},
	}
	other := models.Task{
		ID:        primitive.NewObjectID(),
		ProjectID: "friday-run",
		Title:     "Drive route B",
		Status:    models.StatusAvailable,
	}
	tasks := newFakeTaskStore(task, other)
	completions := &fakeCompletionStore{completions: []models.TaskCompletion{
		{ID: primitive.NewObjectID(), TaskID: task.ID, UserID: "u1"},
		{ID: primitive.NewObjectID(), TaskID: task.ID, UserID: "u2"},
		{ID: primitive.NewObjectID(), TaskID: other.ID, UserID: "u3"},
	}}
	svc := NewTaskService(tasks, completions)

	if err := svc.DeleteTask(context.Background(), task.ID); err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}

	if _, err := tasks.GetTask(context.Background(), task.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("task should be gone, got %v", err)
	}
	left, _ := completions.ListByTask(context.Background(), other.ID)
	if len(left) != 1 {
		t.Errorf("other task's completions must survive, got %d", len(left))
	}
	gone, _ := completions.ListByTask(context.Background(), task.ID)
	if len(gone) != 0 {
		t.Errorf("deleted task's completions must be cascaded, got %d", len(gone))
	}
}
