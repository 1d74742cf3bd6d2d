package task

import "errors"

var (
	// ErrTaskNotFound indicates the task doesn't exist.
	ErrTaskNotFound = errors.New("task not found")
	// ErrInvalidInput indicates invalid task input.
	ErrInvalidInput = errors.New("invalid task input")
	// ErrNoAssignees indicates an attempt to leave a task with an empty
	// assignee set; every task keeps at least one assignee.
	ErrNoAssignees = errors.New("task must keep at least one assignee")
)
