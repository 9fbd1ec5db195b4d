package model

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astra-agents/astra/core"
)

func TestMockModel_ScriptFIFO(t *testing.T) {
	m := NewMockModel(
		TextResponse("first"),
		TextResponse("second"),
	)

	resp, err := m.Generate(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, "first", resp.Content)

	resp, err = m.Generate(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, "second", resp.Content)

	assert.Equal(t, 2, m.CallCount())
}

func TestMockModel_EchoesWhenExhausted(t *testing.T) {
	m := NewMockModel()

	resp, err := m.Generate(context.Background(), Request{
		Messages: []core.Message{core.NewMessage(core.RoleUser, "hello")},
	})

	require.NoError(t, err)
	assert.Equal(t, "Mock response to: hello", resp.Content)
}

func TestMockModel_FailWith(t *testing.T) {
	m := NewMockModel(TextResponse("unreachable"))
	m.FailWith(errors.New("transport down"))

	_, err := m.Generate(context.Background(), Request{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "transport down")
}

func TestMockModel_RecordsRequests(t *testing.T) {
	m := NewMockModel(TextResponse("ok"))

	req := Request{
		Instructions: "be brief",
		Tools:        []ToolDefinition{NewToolDefinition("add", "Adds.", nil)},
	}
	_, err := m.Generate(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, m.Requests, 1)
	assert.Equal(t, "be brief", m.Requests[0].Instructions)
	require.Len(t, m.Requests[0].Tools, 1)
	assert.Equal(t, "add", m.Requests[0].Tools[0].Function.Name)
}

func TestToolCallResponse(t *testing.T) {
	resp := ToolCallResponse("add", `{"a": 1}`)

	require.True(t, resp.HasToolCalls())
	assert.Equal(t, "add", resp.ToolCalls[0].Function.Name)

	args, err := resp.ToolCalls[0].Function.ArgumentMap()
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": float64(1)}, args)
}

func TestResponse_HasToolCalls(t *testing.T) {
	empty := Response{}
	assert.False(t, empty.HasToolCalls())
	assert.False(t, (*Response)(nil).HasToolCalls())

	withCalls := ToolCallResponse("x", `{}`)
	assert.True(t, withCalls.HasToolCalls())
}
