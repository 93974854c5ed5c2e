package runner

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/storyloom/storyloom/core"
	"github.com/storyloom/storyloom/logging"
	"github.com/storyloom/storyloom/memory"
)

// Options holds dependency + configuration overrides passed to New().
type Options struct {
	// Memory is the shared memory service agents read context from and
	// persist results to. Defaults to an in-memory store.
	Memory core.Memory
	// Logger receives structured run/telemetry output.
	Logger logging.Logger
	// HandlerTimeout bounds one task run end to end (context resolution
	// plus handler execution). Zero disables the timeout.
	HandlerTimeout time.Duration
	// QueryRetries is how many times a memory query failing with
	// ErrMemoryUnavailable is retried before the run is abandoned.
	QueryRetries int
	// RetryBackoff is the pause between memory query retries; it doubles
	// after every attempt.
	RetryBackoff time.Duration
}

// Runner routes tasks to agents and drives the run pipeline:
// resolve context → OnStart → HandleTask → OnFinish/OnError.
type Runner struct {
	mu     sync.RWMutex
	agents map[string]core.Agent // keyed by agent name
	routes map[string]string     // task type -> agent name

	memory         core.Memory
	logger         logging.Logger
	handlerTimeout time.Duration
	queryRetries   int
	retryBackoff   time.Duration
}

// New constructs a Runner with optional overrides.
func New(optFns ...func(o *Options)) *Runner {
	opts := Options{
		Memory:         memory.NewInMemoryStore(),
		Logger:         logging.NoOpLogger{},
		HandlerTimeout: 30 * time.Second,
		QueryRetries:   2,
		RetryBackoff:   100 * time.Millisecond,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	return &Runner{
		agents:         make(map[string]core.Agent),
		routes:         make(map[string]string),
		memory:         opts.Memory,
		logger:         opts.Logger,
		handlerTimeout: opts.HandlerTimeout,
		queryRetries:   opts.QueryRetries,
		retryBackoff:   opts.RetryBackoff,
	}
}

// Memory returns the memory service the runner wires into task contexts.
func (r *Runner) Memory() core.Memory { return r.memory }

// Register adds an agent. Agent names must be unique.
func (r *Runner) Register(a core.Agent) error {
	name := a.Config().Name
	if name == "" {
		return fmt.Errorf("agent name must not be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.agents[name]; exists {
		return fmt.Errorf("agent %q already registered", name)
	}
	r.agents[name] = a
	return nil
}

// Route maps a task type to a registered agent so tasks of that type are
// dispatched to it. A task type without an explicit route falls back to the
// agent whose name equals the type.
func (r *Runner) Route(taskType, agentName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.agents[agentName]; !exists {
		return fmt.Errorf("route %q: agent %q not registered", taskType, agentName)
	}
	r.routes[taskType] = agentName
	return nil
}

func (r *Runner) resolveAgent(taskType string) (core.Agent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	name, ok := r.routes[taskType]
	if !ok {
		name = taskType
	}
	a, ok := r.agents[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", core.ErrNoAgent, taskType)
	}
	return a, nil
}

// Run executes a single task synchronously: it routes the task to an agent,
// resolves memory context bounded by the agent's window, then invokes the
// handler under the configured timeout. Lifecycle hooks implemented by the
// agent are invoked as observers; all failures pass through OnError before
// being returned.
func (r *Runner) Run(ctx context.Context, task core.Task) (core.Result, error) {
	a, err := r.resolveAgent(task.Type)
	if err != nil {
		return core.Result{}, err
	}
	if task.ID == "" {
		task.ID = core.NewID()
	}
	cfg := a.Config()

	if r.handlerTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.handlerTimeout)
		defer cancel()
	}

	runID := core.NewID()
	tc := core.NewTaskContext(ctx, runID, task, cfg, r.memory, r.logger)
	start := time.Now()

	entries, err := r.resolveContext(tc, task, cfg)
	if err != nil {
		r.fireError(a, tc, task, err)
		r.logger.Error("context resolution failed", "run_id", runID, "agent", cfg.Name, "task_type", task.Type, "error", err)
		return core.Result{}, err
	}

	r.fireStart(a, tc, task)

	result, err := r.invokeHandler(ctx, a, tc, task, entries)
	if err != nil {
		wrapped := err
		if !isFrameworkError(err) {
			wrapped = core.NewTaskError(task.ID, cfg.ID, err)
		}
		r.fireError(a, tc, task, wrapped)
		r.logger.Error("task run failed", "run_id", runID, "agent", cfg.Name, "task_type", task.Type, "duration", time.Since(start), "error", wrapped)
		return core.Result{}, wrapped
	}

	if result.TaskID == "" {
		result.TaskID = task.ID
	}
	if result.AgentID == "" {
		result.AgentID = cfg.ID
	}

	r.fireFinish(a, tc, task, result)
	r.logger.Info("task run completed", "run_id", runID, "agent", cfg.Name, "task_type", task.Type, "context_size", len(entries), "duration", time.Since(start))
	return result, nil
}

// resolveContext queries the memory service scoped to the agent's shard and
// truncates the result to the context window, keeping the most recent
// entries. ErrMemoryUnavailable triggers the retry policy; other errors
// (including ErrInvalidFilter) fail immediately.
func (r *Runner) resolveContext(tc *core.TaskContext, task core.Task, cfg core.AgentConfig) ([]core.Entry, error) {
	if err := core.ValidateFilters(task.Markers); err != nil {
		return nil, err
	}

	start := time.Now()
	backoff := r.retryBackoff
	var entries []core.Entry
	var err error
	for attempt := 0; ; attempt++ {
		entries, err = tc.QueryMemory(task.Markers)
		if err == nil {
			break
		}
		if !errors.Is(err, core.ErrMemoryUnavailable) || attempt >= r.queryRetries {
			return nil, fmt.Errorf("resolve context: %w", err)
		}
		r.logger.Warn("memory query retry", "agent", cfg.Name, "attempt", attempt+1, "error", err)
		select {
		case <-tc.Done():
			return nil, tc.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}

	kept := core.TruncateWindow(entries, cfg.ContextWindow)
	r.logger.Debug("context resolved",
		"agent", cfg.Name,
		"shard", cfg.Shard,
		"hits", len(entries),
		"kept", len(kept),
		"duration", time.Since(start),
	)
	return kept, nil
}

// invokeHandler runs HandleTask in its own goroutine so a stalled handler
// cannot outlive the run deadline.
func (r *Runner) invokeHandler(ctx context.Context, a core.Agent, tc *core.TaskContext, task core.Task, entries []core.Entry) (core.Result, error) {
	type outcome struct {
		result core.Result
		err    error
	}
	done := make(chan outcome, 1)

	go func() {
		res, err := a.HandleTask(tc, task, entries)
		done <- outcome{result: res, err: err}
	}()

	select {
	case <-ctx.Done():
		return core.Result{}, fmt.Errorf("handler aborted: %w", ctx.Err())
	case o := <-done:
		return o.result, o.err
	}
}

// isFrameworkError reports whether err already carries framework identity
// (memory or routing sentinels, or an existing TaskError) and must not be
// re-wrapped as a handler failure.
func isFrameworkError(err error) bool {
	var te *core.TaskError
	return errors.Is(err, core.ErrMemoryUnavailable) ||
		errors.Is(err, core.ErrInvalidFilter) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled) ||
		errors.As(err, &te)
}

// Hooks are observers only: a panicking hook is logged and swallowed so it
// can never alter the run outcome.

func (r *Runner) fireStart(a core.Agent, tc *core.TaskContext, task core.Task) {
	if h, ok := a.(core.StartHook); ok {
		r.safeHook("OnStart", func() { h.OnStart(tc, task) })
	}
}

func (r *Runner) fireFinish(a core.Agent, tc *core.TaskContext, task core.Task, result core.Result) {
	if h, ok := a.(core.FinishHook); ok {
		r.safeHook("OnFinish", func() { h.OnFinish(tc, task, result) })
	}
}

func (r *Runner) fireError(a core.Agent, tc *core.TaskContext, task core.Task, err error) {
	if h, ok := a.(core.ErrorHook); ok {
		r.safeHook("OnError", func() { h.OnError(tc, task, err) })
	}
}

func (r *Runner) safeHook(name string, fn func()) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("lifecycle hook panicked", "hook", name, "panic", rec)
		}
	}()
	fn()
}
