// Package agent provides the concrete agent implementations of the Astra
// engine: the Sequential, Parallel and Loop composite executors plus the
// ReAct leaf agent that drives a model through a bounded reason/act/observe
// cycle. All of them satisfy core.Agent so heterogeneous kinds nest
// arbitrarily inside one tree sharing a single session blackboard.
package agent
