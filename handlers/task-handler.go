package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/nicunursekatie/sandwichsync-sub004/logging"
	"github.com/nicunursekatie/sandwichsync-sub004/middleware"
	"github.com/nicunursekatie/sandwichsync-sub004/models"
	"github.com/nicunursekatie/sandwichsync-sub004/services"
)

type TaskHandler struct {
	service *services.TaskService
}

func NewTaskHandler(service *services.TaskService) *TaskHandler {
	return &TaskHandler{service: service}
}

func checkRole(r *http.Request, allowedRoles []string) error {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil || claims.Role == "" {
		return fmt.Errorf("%w: role is missing from token", services.ErrPermission)
	}
	for _, role := range allowedRoles {
		if role == claims.Role {
			return nil
		}
	}
	return fmt.Errorf("%w: user does not have the required role", services.ErrPermission)
}

func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{"coordinator"}); err != nil {
		writeServiceError(w, err)
		return
	}

	var body struct {
		ProjectID   string            `json:"projectId"`
		Title       string            `json:"title"`
		Description string            `json:"description"`
		Assignees   []models.Assignee `json:"assignees"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request payload"})
		return
	}

	task, err := h.service.CreateTask(r.Context(), body.ProjectID, body.Title, body.Description, body.Assignees)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	logging.Logger.Infof("Event ID: TASK_CREATED, Description: Task %s created in project %s", task.ID.Hex(), task.ProjectID)
	writeJSON(w, http.StatusCreated, task)
}

func (h *TaskHandler) GetAllTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.service.GetAllTasks(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (h *TaskHandler) GetTaskByID(w http.ResponseWriter, r *http.Request) {
	taskID, err := taskIDFromRequest(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	task, err := h.service.GetTaskByID(r.Context(), taskID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) GetTasksByProjectID(w http.ResponseWriter, r *http.Request) {
	projectID := mux.Vars(r)["projectID"]

	tasks, err := h.service.GetTasksByProject(r.Context(), projectID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (h *TaskHandler) AddAssignees(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{"coordinator"}); err != nil {
		writeServiceError(w, err)
		return
	}

	taskID, err := taskIDFromRequest(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	var assignees []models.Assignee
	if err := json.NewDecoder(r.Body).Decode(&assignees); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request payload"})
		return
	}

	task, err := h.service.AddAssignees(r.Context(), taskID, assignees)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) RemoveAssignee(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{"coordinator"}); err != nil {
		writeServiceError(w, err)
		return
	}

	taskID, err := taskIDFromRequest(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	userID := mux.Vars(r)["userID"]

	task, err := h.service.RemoveAssignee(r.Context(), taskID, userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) ChangeTaskStatus(w http.ResponseWriter, r *http.Request) {
	var body struct {
		TaskID string            `json:"taskId"`
		Status models.TaskStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request payload"})
		return
	}

	taskID, err := primitive.ObjectIDFromHex(body.TaskID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid task ID format"})
		return
	}

	task, err := h.service.ChangeTaskStatus(r.Context(), taskID, body.Status)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{"coordinator"}); err != nil {
		writeServiceError(w, err)
		return
	}

	taskID, err := taskIDFromRequest(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	if err := h.service.DeleteTask(r.Context(), taskID); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
