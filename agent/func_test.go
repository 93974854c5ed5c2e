package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storyloom/storyloom/core"
)

// Interface compliance (compile-time assertions)
var (
	_ core.Agent      = (*FuncAgent)(nil)
	_ core.StartHook  = (*FuncAgent)(nil)
	_ core.FinishHook = (*FuncAgent)(nil)
	_ core.ErrorHook  = (*FuncAgent)(nil)
)

func TestFuncAgent_FillsResultIdentity(t *testing.T) {
	a := NewFuncAgent(core.AgentConfig{ID: "fn-1", Name: "fn"}, func(_ *core.TaskContext, task core.Task, _ []core.Entry) (core.Result, error) {
		return core.Result{Output: "ok"}, nil
	})

	task := core.Task{ID: "t9", Type: "noop"}
	tc := core.NewTaskContext(context.Background(), core.NewID(), task, a.Config(), nil, nil)
	res, err := a.HandleTask(tc, task, nil)
	require.NoError(t, err)
	assert.Equal(t, "t9", res.TaskID)
	assert.Equal(t, "fn-1", res.AgentID)
	assert.Equal(t, "ok", res.Output)
}

func TestFuncAgent_HooksInvoked(t *testing.T) {
	var started, finished bool
	var hookErr error

	a := NewFuncAgent(core.AgentConfig{Name: "fn"}, func(_ *core.TaskContext, _ core.Task, _ []core.Entry) (core.Result, error) {
		return core.Result{}, nil
	}, func(o *FuncAgentOptions) {
		o.OnStart = func(_ *core.TaskContext, _ core.Task) { started = true }
		o.OnFinish = func(_ *core.TaskContext, _ core.Task, _ core.Result) { finished = true }
		o.OnError = func(_ *core.TaskContext, _ core.Task, err error) { hookErr = err }
	})

	tc := core.NewTaskContext(context.Background(), core.NewID(), core.Task{}, a.Config(), nil, nil)
	a.OnStart(tc, core.Task{})
	a.OnFinish(tc, core.Task{}, core.Result{})
	a.OnError(tc, core.Task{}, errors.New("boom"))

	assert.True(t, started)
	assert.True(t, finished)
	assert.EqualError(t, hookErr, "boom")
}

func TestNewBaseAgent_Defaults(t *testing.T) {
	b := NewBaseAgent(core.AgentConfig{ContextWindow: -3})
	cfg := b.Config()
	assert.NotEmpty(t, cfg.ID)
	assert.NotEmpty(t, cfg.Name)
	assert.Equal(t, 0, cfg.ContextWindow, "negative windows clamp to zero")
}
