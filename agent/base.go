package agent

import (
	"github.com/astra-agents/astra/core"
	"github.com/astra-agents/astra/logging"
	"github.com/astra-agents/astra/structured"
)

// Options bundles the knobs shared across agent constructors. Use the
// functional option helpers with the New* constructors to override
// defaults; fields irrelevant to a given agent kind are ignored by it.
type Options struct {
	// KeepAliveState controls transcript pruning in composites: false (the
	// default) clears the shared history between steps and reseeds it with
	// the previous output, bounding context growth; true appends instead.
	KeepAliveState bool

	// OutputType, when set, forces the agent's final answer to validate
	// against the named structure.
	OutputType *structured.Type

	// Logger receives structured diagnostics. Defaults to NoOp.
	Logger logging.Logger

	// MaxLoops bounds Loop executors. Defaults to 3.
	MaxLoops int

	// ExitCondition is the Loop termination predicate, checked against the
	// session after each child run. Nil means the loop always runs
	// MaxLoops times.
	ExitCondition func(*core.Session) bool

	// MaxIterations bounds the ReAct reason/act cycle. Defaults to 10.
	MaxIterations int

	// ThinkingTags lists the tag names scanned for private reasoning
	// spans, tried in order. Defaults to think, thinking, reasoning.
	// Set DisableThinking to skip extraction entirely.
	ThinkingTags    []string
	DisableThinking bool

	// AmbiguityCheck enables the ReAct final-answer heuristic: content
	// judged ambiguous triggers a clarification request instead of
	// terminating the run.
	AmbiguityCheck bool
}

// Option mutates Options.
type Option func(*Options)

// WithKeepAliveState toggles transcript pruning between steps.
func WithKeepAliveState(keep bool) Option {
	return func(o *Options) { o.KeepAliveState = keep }
}

// WithOutputType declares the structure the final answer must conform to.
func WithOutputType(t *structured.Type) Option {
	return func(o *Options) { o.OutputType = t }
}

// WithLogger injects a logger.
func WithLogger(l logging.Logger) Option {
	return func(o *Options) { o.Logger = l }
}

// WithMaxLoops bounds a Loop executor.
func WithMaxLoops(n int) Option {
	return func(o *Options) { o.MaxLoops = n }
}

// WithExitCondition sets the Loop termination predicate.
func WithExitCondition(fn func(*core.Session) bool) Option {
	return func(o *Options) { o.ExitCondition = fn }
}

// WithMaxIterations bounds the ReAct reason/act cycle.
func WithMaxIterations(n int) Option {
	return func(o *Options) { o.MaxIterations = n }
}

// WithThinkingTags overrides the tag names scanned for private reasoning.
func WithThinkingTags(tags ...string) Option {
	return func(o *Options) { o.ThinkingTags = tags }
}

// WithoutThinkingExtraction disables private reasoning extraction.
func WithoutThinkingExtraction() Option {
	return func(o *Options) { o.DisableThinking = true }
}

// WithAmbiguityCheck enables the final-answer clarification heuristic.
func WithAmbiguityCheck() Option {
	return func(o *Options) { o.AmbiguityCheck = true }
}

func newOptions(optFns []Option) Options {
	opts := Options{
		Logger:        logging.NoOpLogger{},
		MaxLoops:      3,
		MaxIterations: 10,
		ThinkingTags:  []string{"think", "thinking", "reasoning"},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	opts.Logger = logging.OrNoOp(opts.Logger)
	return opts
}

// Base bundles the identity and shared configuration every concrete agent
// carries. Embed it and supply an Execute method to satisfy core.Agent.
type Base struct {
	name      string
	keepAlive bool
	output    *structured.Type
	logger    logging.Logger
}

func newBase(name string, opts Options) Base {
	return Base{
		name:      name,
		keepAlive: opts.KeepAliveState,
		output:    opts.OutputType,
		logger:    opts.Logger,
	}
}

// Name returns the agent's name.
func (b *Base) Name() string { return b.name }

// KeepAliveState reports whether the agent preserves the shared transcript
// after producing output instead of pruning it.
func (b *Base) KeepAliveState() bool { return b.keepAlive }

// OutputType returns the declared result structure, or nil.
func (b *Base) OutputType() *structured.Type { return b.output }

// Logger returns the configured logger (never nil).
func (b *Base) Logger() logging.Logger { return b.logger }
