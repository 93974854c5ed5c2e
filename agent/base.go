package agent

import (
	"fmt"

	"github.com/storyloom/storyloom/core"
)

// BaseAgent bundles the immutable identity shared by concrete agent
// implementations. Embed it and supply a HandleTask method to satisfy
// core.Agent. It carries no mutable state, so embedding values are safe to
// copy and use concurrently.
type BaseAgent struct {
	cfg core.AgentConfig
}

// NewBaseAgent constructs a BaseAgent, generating an id when none is given.
func NewBaseAgent(cfg core.AgentConfig) BaseAgent {
	if cfg.ID == "" {
		cfg.ID = core.NewID()
	}
	if cfg.Name == "" {
		cfg.Name = fmt.Sprintf("agent-%s", cfg.ID[:8])
	}
	if cfg.ContextWindow < 0 {
		cfg.ContextWindow = 0
	}
	return BaseAgent{cfg: cfg}
}

// Config returns the agent's immutable configuration.
func (b *BaseAgent) Config() core.AgentConfig { return b.cfg }

// Name returns the human-readable agent name.
func (b *BaseAgent) Name() string { return b.cfg.Name }
