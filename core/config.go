package core

// AgentConfig carries the immutable identity and memory budget of an agent.
// Construct it once and pass it by value; nothing in the framework mutates it.
type AgentConfig struct {
	// ID uniquely identifies the agent across the system.
	ID string
	// Name is the human-readable agent name (e.g. "writer", "world_builder").
	Name string
	// Persona is the instruction label describing how the agent behaves.
	Persona string
	// ContextWindow bounds how many memory entries may be supplied to a
	// single task. Zero means the agent receives no context.
	ContextWindow int
	// Shard optionally partitions memory per agent (or agent group). An
	// empty shard means the agent reads and writes unscoped memory.
	Shard string
}
