package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/astra-agents/astra/core"
	"github.com/astra-agents/astra/model"
	"github.com/astra-agents/astra/tool"
)

// Blackboard keys maintained by the ReAct executor.
const (
	// LastAgentResponseKey holds the most recent final answer produced by a
	// ReAct agent, structured or plain.
	LastAgentResponseKey = "last_agent_response"

	// LastToolResultKey holds the stringified result of the most recent
	// tool invocation.
	LastToolResultKey = "last_tool_result"
)

// structuredOutputToolName is the synthetic tool offered to the model when
// an output type is configured. Invoking it is the model's way of emitting
// its final structured answer.
const structuredOutputToolName = "structured_output"

const structuredOutputDescription = "Your final response MUST be in this structured format."

const structuredOutputSuffix = "\n\nYour final answer MUST be in the format of the 'structured_output' tool."

// clarificationPrompt is injected when the ambiguity heuristic judges a
// plain-text reply inconclusive.
const clarificationPrompt = "Is this your final answer? If so, please restate it clearly and completely. If not, continue working on the task."

// ReAct drives a model through a bounded reason, act, observe cycle. Each
// iteration calls the model with the instruction, the running transcript
// and the registry's tool definitions; requested tool calls are executed
// and their observations fed back until the model produces a final answer
// or the iteration budget runs out.
//
// The transcript is private to the invocation. Messages accumulated beyond
// the shared history present at entry are copied back into the session on
// every terminal path, so composite executors observe the same context
// regardless of how the run ended. Extracted thinking spans are logged but
// never reach the shared history.
type ReAct struct {
	Base
	model          model.Model
	instruction    Instruction
	tools          *tool.Registry
	maxIterations  int
	extractor      *thinkingExtractor
	ambiguityCheck bool
}

// NewReAct creates a reasoning-acting leaf agent. A nil registry is valid
// and leaves the agent without callable tools.
func NewReAct(name string, m model.Model, instruction Instruction, tools *tool.Registry, optFns ...Option) *ReAct {
	opts := newOptions(optFns)

	if tools == nil {
		tools = tool.NewRegistry()
	}

	var extractor *thinkingExtractor
	if !opts.DisableThinking {
		extractor = newThinkingExtractor(opts.ThinkingTags)
	}

	return &ReAct{
		Base:           newBase(name, opts),
		model:          m,
		instruction:    instruction,
		tools:          tools,
		maxIterations:  opts.MaxIterations,
		extractor:      extractor,
		ambiguityCheck: opts.AmbiguityCheck,
	}
}

// Execute runs the reason, act, observe cycle against the shared session.
func (a *ReAct) Execute(ctx context.Context, sess *core.Session) *core.Response {
	logger := a.Logger()

	instructions, err := a.instruction.Resolve(sess)
	if err != nil {
		return core.Errorf("resolving instruction for agent %q: %v", a.Name(), err)
	}

	defs := a.tools.Definitions()
	if a.OutputType() != nil {
		defs = append(defs, model.NewToolDefinition(
			structuredOutputToolName,
			structuredOutputDescription,
			a.OutputType().Schema(),
		))
		instructions += structuredOutputSuffix
	}

	transcript := sess.History()
	base := len(transcript)

	for i := 0; i < a.maxIterations; i++ {
		if err := ctx.Err(); err != nil {
			a.copyBack(sess, transcript, base)
			return core.Errorf("agent %q cancelled: %v", a.Name(), err)
		}

		logger.Debug("reasoning iteration", "agent", a.Name(), "iteration", i+1, "max_iterations", a.maxIterations)

		resp, err := a.model.Generate(ctx, model.Request{
			Instructions: instructions,
			Messages:     transcript,
			Tools:        defs,
		})
		if err != nil {
			a.copyBack(sess, transcript, base)
			return core.Errorf("model call failed: %v", err)
		}

		content := resp.Content
		if a.extractor != nil {
			thinking, visible := a.extractor.Extract(content)
			if thinking != "" {
				logger.Debug("model thinking", "agent", a.Name(), "thinking", thinking)
				content = visible
			}
		}

		if !resp.HasToolCalls() {
			if strings.TrimSpace(content) == "" {
				logger.Warn("model returned neither content nor tool calls", "agent", a.Name())
				continue
			}

			if a.ambiguityCheck && looksAmbiguous(content) {
				logger.Debug("content judged ambiguous, requesting clarification", "agent", a.Name())
				transcript = append(transcript,
					core.NewMessage(core.RoleAssistant, content),
					core.NewMessage(core.RoleUser, clarificationPrompt),
				)
				continue
			}

			transcript = append(transcript, core.NewMessage(core.RoleAssistant, content))
			a.copyBack(sess, transcript, base)
			return a.finalize(sess, content)
		}

		transcript = append(transcript, core.Message{
			Role:      core.RoleAssistant,
			Content:   content,
			ToolCalls: resp.ToolCalls,
		})

		for _, call := range resp.ToolCalls {
			name := call.Function.Name
			if name == "" {
				logger.Warn("model requested a tool call without a name, skipping", "agent", a.Name())
				continue
			}

			if a.OutputType() != nil && name == structuredOutputToolName {
				value, rerr := a.hydrateStructured(call)
				if rerr != nil {
					a.copyBack(sess, transcript, base)
					return core.Errorf("structured output validation failed: %v", rerr)
				}
				serialized, _ := json.Marshal(value)
				transcript = append(transcript, core.NewToolMessage(call.ID, name,
					fmt.Sprintf("Structured output generated: %s", serialized)))
				a.copyBack(sess, transcript, base)
				sess.Set(LastAgentResponseKey, value)
				return core.Success(value)
			}

			args, aerr := call.Function.ArgumentMap()
			var result string
			if aerr != nil {
				result = fmt.Sprintf("Error executing tool: %v", aerr)
			} else {
				logger.Info("executing tool", "agent", a.Name(), "tool", name)
				result = a.tools.Execute(ctx, name, args)
			}

			transcript = append(transcript, core.NewToolMessage(call.ID, name, result))
			sess.Set(LastToolResultKey, result)
		}
	}

	logger.Warn("max iterations reached", "agent", a.Name(), "max_iterations", a.maxIterations)
	summary := tailSummary(transcript, base)
	transcript = append(transcript, core.NewMessage(core.RoleAssistant, summary))
	a.copyBack(sess, transcript, base)
	sess.Set(LastAgentResponseKey, summary)
	return core.MaxIterations(summary)
}

// finalize validates a plain-text final answer against the configured
// output type, if any, and records it on the blackboard.
func (a *ReAct) finalize(sess *core.Session, content string) *core.Response {
	if a.OutputType() == nil {
		sess.Set(LastAgentResponseKey, content)
		return core.Success(content)
	}

	value, err := a.OutputType().HydrateJSON([]byte(content))
	if err != nil {
		return core.Errorf("structured output validation failed: %v", err)
	}
	sess.Set(LastAgentResponseKey, value)
	return core.Success(value)
}

func (a *ReAct) hydrateStructured(call core.ToolCall) (any, error) {
	args, err := call.Function.ArgumentMap()
	if err != nil {
		return nil, err
	}
	return a.OutputType().Hydrate(args)
}

// copyBack appends the messages accumulated beyond the entry history to
// the shared session, keeping composite-level context management working
// the same on every terminal path.
func (a *ReAct) copyBack(sess *core.Session, transcript []core.Message, base int) {
	for _, msg := range transcript[base:] {
		sess.AddMessage(msg)
	}
}

// tailSummary derives the exhaustion result from the end of the
// transcript: the content of the last message added during this run, or a
// generic notice when none carries text.
func tailSummary(transcript []core.Message, base int) string {
	for i := len(transcript) - 1; i >= base; i-- {
		if content := strings.TrimSpace(transcript[i].Content); content != "" {
			return content
		}
	}
	return "Maximum iterations reached without a final answer."
}

// ambiguousLengthFloor is the length below which a plain-text reply is
// treated as inconclusive by the opt-in heuristic.
const ambiguousLengthFloor = 40

var workingPhrases = []string{
	"let me",
	"i will",
	"i need to",
	"i should",
	"next, i",
}

var conclusionPhrases = []string{
	"final answer",
	"in conclusion",
	"the answer is",
	"in summary",
	"here is the",
}

// looksAmbiguous judges whether plain content reads like an intermediate
// status report rather than a final answer. Conclusion phrasing always
// wins; otherwise very short content or work-in-progress phrasing counts
// as ambiguous.
func looksAmbiguous(content string) bool {
	lower := strings.ToLower(content)
	for _, phrase := range conclusionPhrases {
		if strings.Contains(lower, phrase) {
			return false
		}
	}
	if len(strings.TrimSpace(content)) < ambiguousLengthFloor {
		return true
	}
	for _, phrase := range workingPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}
