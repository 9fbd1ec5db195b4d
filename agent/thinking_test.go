package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestThinkingExtractor_Extract(t *testing.T) {
	e := newThinkingExtractor([]string{"think", "thinking", "reasoning"})

	thinking, visible := e.Extract("<think>step one</think>The answer is 5.")

	assert.Equal(t, "step one", thinking)
	assert.Equal(t, "The answer is 5.", visible)
}

func TestThinkingExtractor_ConcatenatesAllSpans(t *testing.T) {
	e := newThinkingExtractor([]string{"think"})

	thinking, visible := e.Extract("<think>one</think>middle<think>two</think>end")

	assert.Equal(t, "one\n\ntwo", thinking)
	assert.Equal(t, "middleend", visible)
}

func TestThinkingExtractor_FirstMatchingTagWins(t *testing.T) {
	e := newThinkingExtractor([]string{"think", "reasoning"})

	// Both tag kinds are present; only the first configured one is
	// extracted.
	thinking, visible := e.Extract("<think>a</think><reasoning>b</reasoning>done")

	assert.Equal(t, "a", thinking)
	assert.Equal(t, "<reasoning>b</reasoning>done", visible)
}

func TestThinkingExtractor_FallsThroughTagOrder(t *testing.T) {
	e := newThinkingExtractor([]string{"think", "reasoning"})

	thinking, visible := e.Extract("<reasoning>b</reasoning>done")

	assert.Equal(t, "b", thinking)
	assert.Equal(t, "done", visible)
}

func TestThinkingExtractor_NoMatch(t *testing.T) {
	e := newThinkingExtractor([]string{"think"})

	thinking, visible := e.Extract("plain answer")

	assert.Empty(t, thinking)
	assert.Equal(t, "plain answer", visible)
}

func TestThinkingExtractor_MultilineSpan(t *testing.T) {
	e := newThinkingExtractor([]string{"think"})

	thinking, visible := e.Extract("<think>line one\nline two</think>answer")

	assert.Equal(t, "line one\nline two", thinking)
	assert.Equal(t, "answer", visible)
}
