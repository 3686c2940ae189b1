package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/nicunursekatie/sandwichsync-sub004/logging"
	"github.com/nicunursekatie/sandwichsync-sub004/middleware"
	"github.com/nicunursekatie/sandwichsync-sub004/services"
)

// CompletionHandler exposes the completion records and the aggregate
// progress view of a task. All mutations act on the caller's own identity,
// taken from the JWT claims, never from the body.
type CompletionHandler struct {
	service   *services.CompletionService
	directory *services.UserDirectoryClient
}

func NewCompletionHandler(service *services.CompletionService, directory *services.UserDirectoryClient) *CompletionHandler {
	return &CompletionHandler{service: service, directory: directory}
}

func taskIDFromRequest(r *http.Request) (primitive.ObjectID, error) {
	taskID, err := primitive.ObjectIDFromHex(mux.Vars(r)["taskID"])
	if err != nil {
		return primitive.NilObjectID, errors.New("invalid task ID format")
	}
	return taskID, nil
}

func (h *CompletionHandler) GetCompletions(w http.ResponseWriter, r *http.Request) {
	taskID, err := taskIDFromRequest(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	completions, err := h.service.ListCompletions(r.Context(), taskID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, completions)
}

func (h *CompletionHandler) CompleteTask(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	taskID, err := taskIDFromRequest(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	// An empty body means "no note".
	var body struct {
		Notes string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request payload"})
		return
	}

	completion, fullyCompleted, err := h.service.Complete(r.Context(), taskID, claims.UserID, body.Notes)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	logging.Logger.Infof("Event ID: COMPLETION_CREATED, Description: User %s completed their portion of task %s", claims.UserID, taskID.Hex())
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"completion":       completion,
		"isFullyCompleted": fullyCompleted,
	})
}

func (h *CompletionHandler) UncompleteTask(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	taskID, err := taskIDFromRequest(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	if err := h.service.Uncomplete(r.Context(), taskID, claims.UserID); err != nil {
		writeServiceError(w, err)
		return
	}

	logging.Logger.Infof("Event ID: COMPLETION_REMOVED, Description: User %s removed their completion on task %s", claims.UserID, taskID.Hex())
	w.WriteHeader(http.StatusNoContent)
}

// GetTaskProgress serves the view model the client polls: per-assignee
// rows with display names, the aggregate count, the aggregator's
// fully-complete verdict, and the stored status alongside it.
func (h *CompletionHandler) GetTaskProgress(w http.ResponseWriter, r *http.Request) {
	taskID, err := taskIDFromRequest(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	task, progress, err := h.service.Progress(r.Context(), taskID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	// Directory names win; the task's positional names are the fallback
	// when the lookup fails or a user is unknown to the directory.
	if h.directory != nil && len(task.AssigneeIDs) > 0 {
		if names, err := h.directory.ResolveNames(r.Context(), task.AssigneeIDs); err == nil {
			for i := range progress.PerAssignee {
				if name, ok := names[progress.PerAssignee[i].UserID]; ok {
					progress.PerAssignee[i].Name = name
				}
			}
		}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"taskId":           task.ID,
		"status":           task.Status,
		"completedCount":   progress.CompletedCount,
		"total":            progress.Total,
		"isFullyCompleted": progress.IsFullyCompleted,
		"perAssignee":      progress.PerAssignee,
	})
}
