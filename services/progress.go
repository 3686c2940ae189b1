package services

import (
	"github.com/nicunursekatie/sandwichsync-sub004/models"
)

// ComputeProgress derives per-assignee done/pending state and the overall
// ratio from a task's assignee list and its completion records. Matching is
// exact string equality on the user id, no normalization. Completion
// records whose user id does not appear in assigneeIDs are never counted.
//
// Entries in the result are positional: a duplicated assignee id produces
// one row per position, and a single completion record satisfies all of
// them. An empty assignee list yields 0/0 with IsFullyCompleted false —
// "not applicable", not "fully complete".
func ComputeProgress(assigneeIDs, assigneeNames []string, completions []models.TaskCompletion) models.TaskProgress {
	byUser := make(map[string]*models.TaskCompletion, len(completions))
	for i := range completions {
		c := &completions[i]
		if _, seen := byUser[c.UserID]; !seen {
			byUser[c.UserID] = c
		}
	}

	progress := models.TaskProgress{
		Total:       len(assigneeIDs),
		PerAssignee: make([]models.AssigneeProgress, 0, len(assigneeIDs)),
	}

	for i, id := range assigneeIDs {
		row := models.AssigneeProgress{UserID: id}
		if i < len(assigneeNames) {
			row.Name = assigneeNames[i]
		}
		if c, ok := byUser[id]; ok {
			row.IsCompleted = true
			at := c.CompletedAt
			row.CompletedAt = &at
			progress.CompletedCount++
		}
		progress.PerAssignee = append(progress.PerAssignee, row)
	}

	progress.IsFullyCompleted = progress.Total > 0 && progress.CompletedCount >= progress.Total
	return progress
}
