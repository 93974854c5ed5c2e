// Package runner coordinates task execution: it routes tasks to registered
// agents, resolves window-bounded memory context, applies the retry and
// timeout policy, invokes lifecycle hooks, and surfaces errors with task and
// agent identity attached. Public methods are safe for concurrent use.
package runner
