// Package logging provides a tiny abstraction over slog so the engine can
// depend on a minimal interface (Logger) while letting users plug in any
// structured logger. A NoOpLogger keeps tests and defaults silent, and
// EngineLogger adds contextual helpers (component, session) plus domain
// helpers for tool and model calls.
package logging
