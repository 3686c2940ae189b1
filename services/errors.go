package services

import "errors"

// Errors recognized at the API boundary and translated into HTTP statuses.
var (
	// ErrNotFound indicates the task or completion record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict indicates an active completion already exists for the
	// same (taskId, userId) pair.
	ErrConflict = errors.New("completion already exists")
	// ErrValidation indicates malformed caller input.
	ErrValidation = errors.New("invalid input")
	// ErrPermission indicates the caller lacks the role required for the
	// operation.
	ErrPermission = errors.New("permission denied")
)
