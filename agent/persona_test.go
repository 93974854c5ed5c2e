package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storyloom/storyloom/core"
	"github.com/storyloom/storyloom/memory"
	"github.com/storyloom/storyloom/model"
)

// Interface compliance (compile-time assertions)
var (
	_ core.Agent     = (*PersonaAgent)(nil)
	_ core.ErrorHook = (*PersonaAgent)(nil)
)

func newPersonaFixture(t *testing.T, optFns ...func(o *PersonaAgentOptions)) (*PersonaAgent, *model.MockModel, *memory.InMemoryStore, *core.TaskContext) {
	t.Helper()
	llm := model.NewMockModel("mock-1")
	store := memory.NewInMemoryStore()
	cfg := core.AgentConfig{
		ID:            "writer-1",
		Name:          "writer",
		Persona:       "You are the Writer, drafting vivid prose.",
		ContextWindow: 2,
		Shard:         "project-7",
	}
	a := NewPersonaAgent(cfg, llm, optFns...)
	task := core.Task{ID: "t1", Type: "draft_scene", Input: "Draft the ridge crossing."}
	tc := core.NewTaskContext(context.Background(), core.NewID(), task, cfg, store, nil)
	return a, llm, store, tc
}

func TestPersonaAgent_HandleTask(t *testing.T) {
	a, llm, store, tc := newPersonaFixture(t)
	llm.AddResponse("Draft the ridge crossing.", "Mira crossed the ridge as thunder rolled.")

	res, err := a.HandleTask(tc, tc.Task, nil)
	require.NoError(t, err)
	assert.Equal(t, "t1", res.TaskID)
	assert.Equal(t, "writer-1", res.AgentID)
	assert.Equal(t, "Mira crossed the ridge as thunder rolled.", res.Output)
	require.Len(t, res.WrittenIDs, 1)

	// Output persisted through the passthrough: shard + ownership stamped,
	// result marker carries the task type.
	entries, err := store.Query(context.Background(), []core.MarkerFilter{{Type: "task_result"}}, "project-7")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, res.WrittenIDs[0], entries[0].ID)
	assert.Equal(t, "draft_scene", entries[0].Markers[0].Value)
	assert.Equal(t, "writer-1", entries[0].Markers[0].AgentID)
}

func TestPersonaAgent_WriteResultsDisabled(t *testing.T) {
	a, _, store, tc := newPersonaFixture(t, func(o *PersonaAgentOptions) { o.WriteResults = false })

	res, err := a.HandleTask(tc, tc.Task, nil)
	require.NoError(t, err)
	assert.Empty(t, res.WrittenIDs)
	assert.Equal(t, 0, store.Len())
}

func TestPersonaAgent_ContextRendering(t *testing.T) {
	a, _, _, tc := newPersonaFixture(t)

	ctxEntries := []core.Entry{
		{Content: "The keeper guards the lamp.", Markers: []core.Marker{{Type: "character"}}},
		{Content: "Storm due at nightfall.", Markers: []core.Marker{{Type: "scene"}}},
	}
	messages := a.buildMessages(tc.Task, ctxEntries)
	require.Len(t, messages, 2)
	assert.Contains(t, messages[0].Text, "[character] The keeper guards the lamp.")
	assert.Contains(t, messages[0].Text, "[scene] Storm due at nightfall.")
	assert.Equal(t, "Draft the ridge crossing.", messages[1].Text)
}

func TestPersonaAgent_SystemPromptFallback(t *testing.T) {
	llm := model.NewMockModel("mock-1")
	a := NewPersonaAgent(core.AgentConfig{Name: "editor"}, llm)
	assert.Equal(t, "You are editor.", a.systemPrompt())
}
