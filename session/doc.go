// Package session provides stores for core.Session blackboards. Only an
// in-memory implementation ships with the engine; sessions are
// caller-managed and never persist across process restarts.
package session
