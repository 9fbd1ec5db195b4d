// Package model abstracts the language-model collaborator behind a single
// Generate capability: ordered transcript plus tool definitions in, text
// and/or tool calls out. Provider adapters live in the subpackages; the
// engine itself never talks to a provider SDK directly.
package model
