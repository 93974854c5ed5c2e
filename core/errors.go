package core

import (
	"errors"
	"fmt"
)

var (
	// ErrMemoryUnavailable indicates the memory backend could not be
	// reached or failed mid-operation. Callers may retry.
	ErrMemoryUnavailable = errors.New("memory backend unavailable")

	// ErrInvalidFilter indicates a malformed marker filter (e.g. a value
	// constraint without a marker type).
	ErrInvalidFilter = errors.New("invalid marker filter")

	// ErrNoAgent indicates no registered agent handles the task type.
	ErrNoAgent = errors.New("no agent registered for task type")
)

// TaskError wraps a handler-level business failure with task and agent
// identity so callers can attribute it without parsing messages.
type TaskError struct {
	TaskID  string
	AgentID string
	Err     error
}

// Error implements the error interface.
func (e *TaskError) Error() string {
	return fmt.Sprintf("task %s failed (agent %s): %v", e.TaskID, e.AgentID, e.Err)
}

// Unwrap exposes the underlying handler error for errors.Is/As.
func (e *TaskError) Unwrap() error { return e.Err }

// NewTaskError wraps err with task/agent identity. Returns nil for nil err.
func NewTaskError(taskID, agentID string, err error) error {
	if err == nil {
		return nil
	}
	return &TaskError{TaskID: taskID, AgentID: agentID, Err: err}
}
