package agent

import "github.com/storyloom/storyloom/core"

// HandlerFunc is the signature of a task handler usable with FuncAgent.
type HandlerFunc func(tc *core.TaskContext, task core.Task, context []core.Entry) (core.Result, error)

// FuncAgentOptions configures the optional lifecycle observers of a FuncAgent.
type FuncAgentOptions struct {
	OnStart  func(tc *core.TaskContext, task core.Task)
	OnFinish func(tc *core.TaskContext, task core.Task, result core.Result)
	OnError  func(tc *core.TaskContext, task core.Task, err error)
}

// FuncAgent adapts a plain function into a core.Agent. It is the simplest
// concrete variant and the one tests and custom integrations reach for.
type FuncAgent struct {
	BaseAgent
	handler HandlerFunc
	opts    FuncAgentOptions
}

// NewFuncAgent wraps handler as an agent with the given configuration.
func NewFuncAgent(cfg core.AgentConfig, handler HandlerFunc, optFns ...func(o *FuncAgentOptions)) *FuncAgent {
	opts := FuncAgentOptions{}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &FuncAgent{BaseAgent: NewBaseAgent(cfg), handler: handler, opts: opts}
}

// HandleTask implements core.Agent.
func (a *FuncAgent) HandleTask(tc *core.TaskContext, task core.Task, context []core.Entry) (core.Result, error) {
	res, err := a.handler(tc, task, context)
	if err != nil {
		return core.Result{}, err
	}
	if res.TaskID == "" {
		res.TaskID = task.ID
	}
	if res.AgentID == "" {
		res.AgentID = a.Config().ID
	}
	return res, nil
}

// OnStart implements core.StartHook.
func (a *FuncAgent) OnStart(tc *core.TaskContext, task core.Task) {
	if a.opts.OnStart != nil {
		a.opts.OnStart(tc, task)
	}
}

// OnFinish implements core.FinishHook.
func (a *FuncAgent) OnFinish(tc *core.TaskContext, task core.Task, result core.Result) {
	if a.opts.OnFinish != nil {
		a.opts.OnFinish(tc, task, result)
	}
}

// OnError implements core.ErrorHook.
func (a *FuncAgent) OnError(tc *core.TaskContext, task core.Task, err error) {
	if a.opts.OnError != nil {
		a.opts.OnError(tc, task, err)
	}
}
