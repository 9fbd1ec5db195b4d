package core

import "context"

// Agent is the polymorphic unit of execution. Composite executors and leaf
// reasoning agents implement the same contract so heterogeneous kinds nest
// arbitrarily in one tree.
//
// Implementations must:
//   - Return a non-nil Response for every expected outcome; Go errors and
//     panics never cross an agent boundary for expected failures.
//   - Respect ctx cancellation at their suspension points (model and tool
//     calls).
//   - Mutate the session only under the isolation rules of their position
//     in the tree (see Session).
type Agent interface {
	Name() string
	Execute(ctx context.Context, session *Session) *Response
}
