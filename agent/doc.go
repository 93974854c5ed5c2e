// Package agent contains first-class agent implementations for Storyloom.
// The package focuses on three concerns:
//
//  1. Shared identity plumbing (BaseAgent)
//  2. A plain function adapter (FuncAgent) for custom handlers and tests
//  3. A persona-driven, model-backed agent (PersonaAgent)
//
// Design principles:
//   - No inheritance hierarchies: core.Agent is an interface; variants are
//     independent types that may embed BaseAgent for identity only
//   - Explicit wiring: memory access flows through the TaskContext supplied
//     by the runner, never through globals
//   - Observability: lifecycle hooks are optional, side-effect-only observers
package agent
