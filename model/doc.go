// Package model defines the minimal language model interface persona agents
// drive, plus a deterministic MockModel for tests and examples. Concrete
// provider adapters live in the anthropic and openai subpackages; they adapt
// the normalized Request/Response structures into each vendor SDK and back so
// agents never branch per provider.
package model
