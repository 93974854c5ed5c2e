package core

// Agent is the capability every task-processing unit implements. Concrete
// variants (persona-driven model agents, plain function agents, custom
// implementations) are independent types; there is no base class to inherit.
//
// HandleTask receives the task plus a context slice already bounded by the
// agent's configured window (most recent entries last). Implementations must:
//   - Respect cancellation via tc.Context
//   - Persist memory only through tc.WriteMemory, never a backend directly
//   - Return business failures as errors (they are wrapped in TaskError)
type Agent interface {
	// Config returns the agent's immutable identity and memory budget.
	Config() AgentConfig

	// HandleTask processes the task with the resolved memory context and
	// returns the result.
	HandleTask(tc *TaskContext, task Task, context []Entry) (Result, error)
}

// Optional lifecycle hooks. They are observers invoked around task execution
// for logging/telemetry only: no return value is consumed and they must not
// alter control flow or the result. The Runner discovers them by type
// assertion on the registered agent.

// StartHook is invoked after context resolution, before HandleTask.
type StartHook interface {
	OnStart(tc *TaskContext, task Task)
}

// FinishHook is invoked after HandleTask returns successfully.
type FinishHook interface {
	OnFinish(tc *TaskContext, task Task, result Result)
}

// ErrorHook is invoked with any failure (memory, handler, timeout) before
// the error is surfaced to the caller.
type ErrorHook interface {
	OnError(tc *TaskContext, task Task, err error)
}
