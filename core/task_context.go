package core

import (
	"context"
	"fmt"

	"github.com/storyloom/storyloom/logging"
)

// TaskContext carries execution state & helpers for a single task run. It
// encapsulates the per-run scope passed to an Agent's HandleTask:
//
//   - The ambient cancellation Context
//   - Identifiers (RunID, Task, owning Agent config)
//   - The Memory service handle, wrapped so shard scoping and ownership
//     stamping are applied centrally
//
// All memory traffic from handlers goes through QueryMemory/WriteMemory;
// the passthrough preserves the invariant that persisted entries receive a
// generated id and creation timestamp from the Memory service.
type TaskContext struct {
	Context context.Context
	RunID   string
	Task    Task
	Agent   AgentConfig
	Memory  Memory

	*loggerAdapter
}

// NewTaskContext constructs a TaskContext for one task run.
func NewTaskContext(
	ctx context.Context,
	runID string,
	task Task,
	agent AgentConfig,
	mem Memory,
	logger logging.Logger,
) *TaskContext {
	return &TaskContext{
		Context:       ctx,
		RunID:         runID,
		Task:          task,
		Agent:         agent,
		Memory:        mem,
		loggerAdapter: newLoggerAdapter(logger),
	}
}

// Done returns a channel closed when the underlying context is cancelled.
func (tc *TaskContext) Done() <-chan struct{} { return tc.Context.Done() }

// Err returns the cancellation error (if any) from the underlying context.
func (tc *TaskContext) Err() error { return tc.Context.Err() }

// QueryMemory queries the Memory service scoped to the owning agent's shard.
func (tc *TaskContext) QueryMemory(filters []MarkerFilter) ([]Entry, error) {
	if tc.Memory == nil {
		return nil, fmt.Errorf("query memory: %w", ErrMemoryUnavailable)
	}
	if err := ValidateFilters(filters); err != nil {
		return nil, err
	}
	return tc.Memory.Query(tc.Context, filters, tc.Agent.Shard)
}

// WriteMemory persists an entry through the Memory service, stamping the
// owning agent's shard and tagging markers that lack an owner with the
// agent's id. The caller-supplied entry is not mutated.
func (tc *TaskContext) WriteMemory(entry Entry) (Entry, error) {
	if tc.Memory == nil {
		return Entry{}, fmt.Errorf("write memory: %w", ErrMemoryUnavailable)
	}
	e := entry.Clone()
	e.Shard = tc.Agent.Shard
	for i := range e.Markers {
		if e.Markers[i].AgentID == "" {
			e.Markers[i].AgentID = tc.Agent.ID
		}
	}
	return tc.Memory.Write(tc.Context, e)
}
