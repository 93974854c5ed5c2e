package core

// Task is a unit of work routed to an agent. Type selects the handling agent
// (e.g. "draft_scene" routes to the writer); Markers narrow the memory
// context supplied to the handler.
type Task struct {
	ID string `json:"id"`
	// Type tags the kind of work; the Runner routes on it.
	Type string `json:"type"`
	// Input is the task payload handed to the agent verbatim.
	Input string `json:"input"`
	// Meta carries arbitrary structured extras alongside the input.
	Meta map[string]any `json:"meta,omitempty"`
	// Markers filters the memory context resolved for this task. Nil means
	// no filtering: the agent sees its full (window-bounded) shard.
	Markers []MarkerFilter `json:"markers,omitempty"`
	// UserID optionally identifies the requesting user.
	UserID string `json:"user_id,omitempty"`
}

// Result is the outcome of a handled task.
type Result struct {
	TaskID  string `json:"task_id"`
	AgentID string `json:"agent_id"`
	Output  string `json:"output"`
	// WrittenIDs lists ids of memory entries persisted while handling the
	// task. Handlers populate it from the entries TaskContext.WriteMemory
	// returns; nothing records writes centrally.
	WrittenIDs []string       `json:"written_ids,omitempty"`
	Meta       map[string]any `json:"meta,omitempty"`
}
