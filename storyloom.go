// Package storyloom provides a high-level façade over the runner and service
// abstractions (memory, logging, configuration) enabling rapid construction
// of memory-backed persona agent systems. Most applications interact with
// this package by:
//  1. Creating a Loom via New() (optionally overriding the default in-memory
//     memory service) or NewFromConfig() for roster-driven wiring
//  2. Registering one or more agents (persona, func, custom)
//  3. Running tasks (Run), which resolves window-bounded memory context and
//     dispatches to the routed agent
//
// The façade delegates execution to runner.Runner while keeping setup and
// usage ergonomics concise. All defaults are safe for local development and
// testing; production deployments typically supply the Redis memory backend
// and a structured logger.
package storyloom

import (
	"context"
	"fmt"
	"time"

	"github.com/storyloom/storyloom/agent"
	"github.com/storyloom/storyloom/config"
	"github.com/storyloom/storyloom/core"
	"github.com/storyloom/storyloom/logging"
	"github.com/storyloom/storyloom/manuscript"
	"github.com/storyloom/storyloom/memory"
	redismem "github.com/storyloom/storyloom/memory/redis"
	"github.com/storyloom/storyloom/model"
	"github.com/storyloom/storyloom/runner"
)

// Options configures the Loom instance.
type Options struct {
	// Memory service (defaults to an in-memory implementation if not provided)
	Memory core.Memory
	// Drafts stores compiled manuscripts (defaults to an in-memory
	// implementation if not provided)
	Drafts manuscript.Store
	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
	// HandlerTimeout bounds one task run end to end. Zero disables it.
	HandlerTimeout time.Duration
	// QueryRetries / RetryBackoff tune the memory retry policy.
	QueryRetries int
	RetryBackoff time.Duration
}

// Loom is the high-level façade aggregating the runner and its services.
type Loom struct {
	opts   Options
	runner *runner.Runner
}

// New creates a new Loom instance with optional overrides. Any unset service
// is initialized with an in-memory implementation.
func New(optFns ...func(o *Options)) *Loom {
	opts := Options{
		Memory:         memory.NewInMemoryStore(),
		Drafts:         manuscript.NewInMemoryStore(),
		Logger:         logging.NoOpLogger{},
		HandlerTimeout: 30 * time.Second,
		QueryRetries:   2,
		RetryBackoff:   100 * time.Millisecond,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	r := runner.New(func(o *runner.Options) {
		o.Memory = opts.Memory
		o.Logger = opts.Logger
		o.HandlerTimeout = opts.HandlerTimeout
		o.QueryRetries = opts.QueryRetries
		o.RetryBackoff = opts.RetryBackoff
	})

	return &Loom{opts: opts, runner: r}
}

// NewFromConfig wires a Loom from a roster: memory backend, runner tuning,
// one persona agent per roster entry (all driven by llm) and the declared
// routes. llm may be nil only when the roster declares no agents.
func NewFromConfig(cfg *config.Config, llm model.Model, optFns ...func(o *Options)) (*Loom, error) {
	if len(cfg.Agents) > 0 && llm == nil {
		return nil, fmt.Errorf("roster declares agents but no model was supplied")
	}

	mem, err := buildMemory(cfg.Memory)
	if err != nil {
		return nil, err
	}

	loom := New(append([]func(o *Options){func(o *Options) {
		o.Memory = mem
		if cfg.Runner.HandlerTimeout > 0 {
			o.HandlerTimeout = cfg.Runner.HandlerTimeout.Std()
		}
		if cfg.Runner.QueryRetries > 0 {
			o.QueryRetries = cfg.Runner.QueryRetries
		}
		if cfg.Runner.RetryBackoff > 0 {
			o.RetryBackoff = cfg.Runner.RetryBackoff.Std()
		}
	}}, optFns...)...)

	for _, ac := range cfg.Agents {
		if err := loom.RegisterAgent(agent.NewPersonaAgent(ac.Core(), llm)); err != nil {
			return nil, err
		}
	}
	for taskType, agentName := range cfg.Routes {
		if err := loom.Route(taskType, agentName); err != nil {
			return nil, err
		}
	}

	return loom, nil
}

func buildMemory(mc config.MemoryConfig) (core.Memory, error) {
	switch mc.Backend {
	case "", config.BackendInMemory:
		return memory.NewInMemoryStore(), nil
	case config.BackendRedis:
		return redismem.New(func(o *redismem.Options) {
			o.Addr = mc.Redis.Addr
			o.Password = mc.Redis.Password
			o.DB = mc.Redis.DB
			o.KeyPrefix = mc.Redis.KeyPrefix
		}), nil
	default:
		return nil, fmt.Errorf("unknown memory backend %q", mc.Backend)
	}
}

// RegisterAgent adds an agent to the underlying runner.
func (l *Loom) RegisterAgent(a core.Agent) error { return l.runner.Register(a) }

// Route maps a task type to a registered agent.
func (l *Loom) Route(taskType, agentName string) error { return l.runner.Route(taskType, agentName) }

// Run executes a single task through the routed agent.
func (l *Loom) Run(ctx context.Context, task core.Task) (core.Result, error) {
	return l.runner.Run(ctx, task)
}

// Memory exposes the wired memory service, e.g. for seeding context.
func (l *Loom) Memory() core.Memory { return l.opts.Memory }

// Drafts exposes the wired draft store.
func (l *Loom) Drafts() manuscript.Store { return l.opts.Drafts }

// CompileDraft assembles the shard's matching entries into a manuscript
// draft. The draft is returned unpersisted; use SaveDraft to keep it.
func (l *Loom) CompileDraft(ctx context.Context, shard, title string, filters []core.MarkerFilter) (manuscript.Draft, error) {
	return manuscript.Compile(ctx, l.opts.Memory, shard, title, filters)
}

// SaveDraft compiles the shard's matching entries and persists the result in
// the draft store, returning the stored draft with its assigned id.
func (l *Loom) SaveDraft(ctx context.Context, shard, title string, filters []core.MarkerFilter) (manuscript.Draft, error) {
	draft, err := l.CompileDraft(ctx, shard, title, filters)
	if err != nil {
		return manuscript.Draft{}, err
	}
	return l.opts.Drafts.Save(ctx, draft)
}

// Runner exposes the underlying runner for advanced wiring.
func (l *Loom) Runner() *runner.Runner { return l.runner }
