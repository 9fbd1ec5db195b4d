package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astra-agents/astra/core"
	"github.com/astra-agents/astra/model"
	"github.com/astra-agents/astra/structured"
	"github.com/astra-agents/astra/tool"
)

type addArgs struct {
	A float64 `json:"a"`
	B float64 `json:"b"`
}

func addTool() tool.Tool {
	return tool.New("add", "Adds two numbers.", func(_ context.Context, args addArgs) (any, error) {
		return args.A + args.B, nil
	})
}

func userSession(prompt string) *core.Session {
	sess := core.NewSession("s1")
	sess.AddMessage(core.NewMessage(core.RoleUser, prompt))
	return sess
}

func TestReAct_Execute_FinalTextAnswer(t *testing.T) {
	m := model.NewMockModel(model.TextResponse("The answer is 5."))
	agent := NewReAct("solver", m, NewInstructionFromText("You solve math."), nil)

	sess := userSession("compute 2+3")
	resp := agent.Execute(context.Background(), sess)

	require.NotNil(t, resp)
	assert.Equal(t, core.StatusSuccess, resp.Status)
	assert.Equal(t, "The answer is 5.", resp.Content)

	last, ok := sess.LastMessage()
	require.True(t, ok)
	assert.Equal(t, core.RoleAssistant, last.Role)
	assert.Equal(t, "The answer is 5.", last.Content)

	stored, ok := sess.Get(LastAgentResponseKey)
	require.True(t, ok)
	assert.Equal(t, "The answer is 5.", stored)
}

func TestReAct_Execute_ToolRoundTrip(t *testing.T) {
	registry := tool.NewRegistry()
	registry.Register(addTool())

	m := model.NewMockModel(
		model.ToolCallResponse("add", `{"a": 2, "b": 3}`),
		model.TextResponse("5"),
	)
	agent := NewReAct("solver", m, NewInstructionFromText("You solve math."), registry)

	sess := userSession("compute 2+3")
	resp := agent.Execute(context.Background(), sess)

	require.NotNil(t, resp)
	assert.Equal(t, core.StatusSuccess, resp.Status)
	assert.Equal(t, "5", resp.Content)
	assert.Equal(t, 2, m.CallCount())

	stored, ok := sess.Get(LastToolResultKey)
	require.True(t, ok)
	assert.Equal(t, "5", stored)

	// The shared history gained the call, the observation and the answer.
	history := sess.History()
	require.Len(t, history, 4)
	assert.Equal(t, core.RoleAssistant, history[1].Role)
	require.Len(t, history[1].ToolCalls, 1)
	assert.Equal(t, "add", history[1].ToolCalls[0].Function.Name)
	assert.Equal(t, core.RoleTool, history[2].Role)
	assert.Equal(t, "5", history[2].Content)
	assert.Equal(t, core.RoleAssistant, history[3].Role)
}

func TestReAct_Execute_ToolErrorFedBackAsObservation(t *testing.T) {
	registry := tool.NewRegistry()

	m := model.NewMockModel(
		model.ToolCallResponse("missing", `{}`),
		model.TextResponse("I could not find that tool."),
	)
	agent := NewReAct("solver", m, NewInstructionFromText("instr"), registry)

	sess := userSession("go")
	resp := agent.Execute(context.Background(), sess)

	require.NotNil(t, resp)
	assert.Equal(t, core.StatusSuccess, resp.Status)

	history := sess.History()
	require.Len(t, history, 4)
	assert.Equal(t, core.RoleTool, history[2].Role)
	assert.Equal(t, "Error: Tool 'missing' not found.", history[2].Content)
}

func TestReAct_Execute_StructuredOutputTool(t *testing.T) {
	type verdict struct {
		Approved bool   `json:"approved"`
		Feedback string `json:"feedback,omitempty"`
	}
	outputType := structured.NewType[verdict]("verdict")

	m := model.NewMockModel(
		model.ToolCallResponse("structured_output", `{"approved": true, "feedback": "looks good"}`),
	)
	agent := NewReAct("critic", m, NewInstructionFromText("You review."), nil,
		WithOutputType(outputType))

	sess := userSession("review this")
	resp := agent.Execute(context.Background(), sess)

	require.NotNil(t, resp)
	assert.Equal(t, core.StatusSuccess, resp.Status)
	assert.True(t, resp.IsStructured())

	v, ok := resp.Content.(*verdict)
	require.True(t, ok)
	assert.True(t, v.Approved)
	assert.Equal(t, "looks good", v.Feedback)

	stored, ok := sess.Get(LastAgentResponseKey)
	require.True(t, ok)
	assert.Equal(t, v, stored)
}

func TestReAct_Execute_StructuredOutputOffersSyntheticTool(t *testing.T) {
	type verdict struct {
		Approved bool `json:"approved"`
	}
	m := model.NewMockModel(model.ToolCallResponse("structured_output", `{"approved": true}`))
	agent := NewReAct("critic", m, NewInstructionFromText("You review."), nil,
		WithOutputType(structured.NewType[verdict]("verdict")))

	agent.Execute(context.Background(), userSession("review"))

	require.Len(t, m.Requests, 1)
	req := m.Requests[0]

	names := make([]string, 0, len(req.Tools))
	for _, def := range req.Tools {
		names = append(names, def.Function.Name)
	}
	assert.Contains(t, names, "structured_output")
	assert.Contains(t, req.Instructions, "'structured_output' tool")
}

func TestReAct_Execute_PlainTextValidatedAgainstOutputType(t *testing.T) {
	type verdict struct {
		Approved bool `json:"approved"`
	}
	outputType := structured.NewType[verdict]("verdict")

	m := model.NewMockModel(model.TextResponse(`{"approved": true}`))
	agent := NewReAct("critic", m, NewInstructionFromText("instr"), nil,
		WithOutputType(outputType))

	resp := agent.Execute(context.Background(), userSession("review"))

	require.NotNil(t, resp)
	assert.Equal(t, core.StatusSuccess, resp.Status)

	v, ok := resp.Content.(*verdict)
	require.True(t, ok)
	assert.True(t, v.Approved)
}

func TestReAct_Execute_ValidationFailureIsError(t *testing.T) {
	type verdict struct {
		Approved bool `json:"approved"`
	}
	m := model.NewMockModel(model.TextResponse("not json at all"))
	agent := NewReAct("critic", m, NewInstructionFromText("instr"), nil,
		WithOutputType(structured.NewType[verdict]("verdict")))

	resp := agent.Execute(context.Background(), userSession("review"))

	require.NotNil(t, resp)
	assert.Equal(t, core.StatusError, resp.Status)
	assert.Contains(t, resp.Text(), "validation failed")
}

func TestReAct_Execute_ThinkingStripped(t *testing.T) {
	m := model.NewMockModel(model.TextResponse("<think>2 plus 3 is 5</think>The answer is 5."))
	agent := NewReAct("solver", m, NewInstructionFromText("instr"), nil)

	sess := userSession("compute 2+3")
	resp := agent.Execute(context.Background(), sess)

	require.NotNil(t, resp)
	assert.Equal(t, "The answer is 5.", resp.Content)

	for _, msg := range sess.History() {
		assert.NotContains(t, msg.Content, "<think>")
	}
}

func TestReAct_Execute_AmbiguityCheckRequestsClarification(t *testing.T) {
	m := model.NewMockModel(
		model.TextResponse("Let me look into that."),
		model.TextResponse("The answer is 5."),
	)
	agent := NewReAct("solver", m, NewInstructionFromText("instr"), nil,
		WithAmbiguityCheck())

	sess := userSession("compute 2+3")
	resp := agent.Execute(context.Background(), sess)

	require.NotNil(t, resp)
	assert.Equal(t, core.StatusSuccess, resp.Status)
	assert.Equal(t, "The answer is 5.", resp.Content)
	assert.Equal(t, 2, m.CallCount())

	// The clarification exchange is copied back with the final answer.
	var sawClarification bool
	for _, msg := range sess.History() {
		if msg.Role == core.RoleUser && msg.Content == clarificationPrompt {
			sawClarification = true
		}
	}
	assert.True(t, sawClarification)
}

func TestReAct_Execute_AmbiguityCheckOffByDefault(t *testing.T) {
	m := model.NewMockModel(model.TextResponse("5"))
	agent := NewReAct("solver", m, NewInstructionFromText("instr"), nil)

	resp := agent.Execute(context.Background(), userSession("compute 2+3"))

	require.NotNil(t, resp)
	assert.Equal(t, core.StatusSuccess, resp.Status)
	assert.Equal(t, "5", resp.Content)
	assert.Equal(t, 1, m.CallCount())
}

func TestReAct_Execute_MaxIterationsReached(t *testing.T) {
	registry := tool.NewRegistry()
	registry.Register(addTool())

	m := model.NewMockModel(
		model.ToolCallResponse("add", `{"a": 1, "b": 1}`),
		model.ToolCallResponse("add", `{"a": 2, "b": 2}`),
	)
	agent := NewReAct("solver", m, NewInstructionFromText("instr"), registry,
		WithMaxIterations(2))

	sess := userSession("keep adding")
	resp := agent.Execute(context.Background(), sess)

	require.NotNil(t, resp)
	assert.Equal(t, core.StatusMaxIterations, resp.Status)
	// The summary comes from the transcript tail, here the last tool
	// observation.
	assert.Equal(t, "4", resp.Content)
	assert.Equal(t, 2, m.CallCount())
}

func TestReAct_Execute_ModelFailureIsErrorResponse(t *testing.T) {
	m := model.NewMockModel()
	m.FailWith(errors.New("connection refused"))

	agent := NewReAct("solver", m, NewInstructionFromText("instr"), nil)

	resp := agent.Execute(context.Background(), userSession("go"))

	require.NotNil(t, resp)
	assert.Equal(t, core.StatusError, resp.Status)
	assert.Contains(t, resp.Text(), "model call failed")
	assert.Contains(t, resp.Text(), "connection refused")
}

func TestReAct_Execute_DynamicInstruction(t *testing.T) {
	m := model.NewMockModel(model.TextResponse("done"))
	instruction := NewInstructionFromFunc(func(sess *core.Session) (string, error) {
		topic, _ := sess.Get("topic")
		return "You research " + topic.(string) + ".", nil
	})

	agent := NewReAct("researcher", m, instruction, nil)

	sess := userSession("go")
	sess.Set("topic", "oncology")
	agent.Execute(context.Background(), sess)

	require.Len(t, m.Requests, 1)
	assert.Equal(t, "You research oncology.", m.Requests[0].Instructions)
}
