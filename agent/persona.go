package agent

import (
	"fmt"
	"strings"
	"time"

	"github.com/storyloom/storyloom/core"
	"github.com/storyloom/storyloom/model"
)

// PersonaAgentOptions configures a PersonaAgent instance.
//
// Use functional options with NewPersonaAgent to override defaults.
type PersonaAgentOptions struct {
	// WriteResults persists the model output back to memory after each
	// task, tagged with ResultMarkerType. Enabled by default so later
	// tasks can recall earlier outputs as context.
	WriteResults bool
	// ResultMarkerType is the marker type stamped on persisted outputs.
	ResultMarkerType string
	// ContextHeader prefixes the rendered memory context block.
	ContextHeader string
}

// PersonaAgent integrates with a language model to process tasks in the voice
// of a configured persona (writer, world builder, plotter, editor, ...).
//
// For each task it renders the resolved memory context and the task input
// into a model request, generates a completion, and optionally writes the
// output back to memory through the TaskContext passthrough so the entry
// receives its id and timestamps centrally.
type PersonaAgent struct {
	BaseAgent
	llm  model.Model
	opts PersonaAgentOptions
}

// NewPersonaAgent creates a model-backed agent with sensible defaults:
// result persistence enabled under the "task_result" marker type.
func NewPersonaAgent(cfg core.AgentConfig, llm model.Model, optFns ...func(o *PersonaAgentOptions)) *PersonaAgent {
	opts := PersonaAgentOptions{
		WriteResults:     true,
		ResultMarkerType: "task_result",
		ContextHeader:    "Relevant story memory, oldest first:",
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &PersonaAgent{BaseAgent: NewBaseAgent(cfg), llm: llm, opts: opts}
}

// HandleTask implements core.Agent.
func (a *PersonaAgent) HandleTask(tc *core.TaskContext, task core.Task, context []core.Entry) (core.Result, error) {
	req := model.Request{
		System:   a.systemPrompt(),
		Messages: a.buildMessages(task, context),
	}

	start := time.Now()
	resp, err := a.llm.Generate(tc.Context, req)
	if err != nil {
		tc.LogError("model generation failed", "agent", a.Name(), "model", a.llm.Info().Name, "error", err)
		return core.Result{}, fmt.Errorf("generate (%s): %w", a.llm.Info().Name, err)
	}
	tc.LogDebug("model generation completed",
		"agent", a.Name(),
		"model", a.llm.Info().Name,
		"tokens", resp.Usage.TotalTokens,
		"duration", time.Since(start),
	)

	result := core.Result{
		TaskID:  task.ID,
		AgentID: a.Config().ID,
		Output:  resp.Text,
		Meta: map[string]any{
			"model":  a.llm.Info().Name,
			"tokens": resp.Usage.TotalTokens,
		},
	}

	if a.opts.WriteResults && resp.Text != "" {
		written, err := tc.WriteMemory(core.Entry{
			Content: resp.Text,
			Markers: []core.Marker{{Type: a.opts.ResultMarkerType, Value: task.Type}},
		})
		if err != nil {
			return core.Result{}, fmt.Errorf("persist result: %w", err)
		}
		result.WrittenIDs = append(result.WrittenIDs, written.ID)
	}

	return result, nil
}

// systemPrompt renders the persona instruction for the model.
func (a *PersonaAgent) systemPrompt() string {
	cfg := a.Config()
	if cfg.Persona == "" {
		return fmt.Sprintf("You are %s.", cfg.Name)
	}
	return cfg.Persona
}

// buildMessages renders the context entries followed by the task input. The
// context arrives already truncated to the agent's window, most recent last,
// and that ordering is preserved in the prompt.
func (a *PersonaAgent) buildMessages(task core.Task, context []core.Entry) []model.Message {
	var messages []model.Message

	if len(context) > 0 {
		var b strings.Builder
		b.WriteString(a.opts.ContextHeader)
		for _, e := range context {
			b.WriteString("\n- ")
			if label := primaryMarkerType(e); label != "" {
				fmt.Fprintf(&b, "[%s] ", label)
			}
			b.WriteString(e.Content)
		}
		messages = append(messages, model.Message{Role: "user", Text: b.String()})
	}

	messages = append(messages, model.Message{Role: "user", Text: task.Input})
	return messages
}

// primaryMarkerType returns the first marker type of an entry, used as a
// context label in prompts.
func primaryMarkerType(e core.Entry) string {
	if len(e.Markers) == 0 {
		return ""
	}
	return e.Markers[0].Type
}

// OnError implements core.ErrorHook, logging failures in the agent's voice.
func (a *PersonaAgent) OnError(tc *core.TaskContext, task core.Task, err error) {
	tc.LogError("persona agent task failed", "agent", a.Name(), "task_type", task.Type, "error", err)
}
