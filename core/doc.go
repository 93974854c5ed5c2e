// Package core provides the foundational domain types, interfaces and execution
// contexts used by Storyloom. It defines the core abstractions for:
//
//   - Agents (persona-driven units of task processing)
//   - Tasks and Results (units of work routed to agents)
//   - Entries and Markers (tagged memory content with recency ordering)
//   - TaskContext (scoped execution state passed to an agent's handler)
//   - The pluggable Memory service for context recall and persistence
//
// The package intentionally keeps implementation concerns (persistence
// backends, task routing, concrete agents, model providers) out of scope,
// exposing small interfaces to enable custom backends and extensions.
package core
