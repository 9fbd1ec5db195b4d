// Package workflow turns workflow plans into live agent trees and fronts
// the engine with a registration/run facade.
//
// A Plan is untrusted input, typically produced by a model. The Builder
// validates every node against its registries before instantiating
// anything; no agent executes until the whole tree is built. The Manager
// is the entry point applications use: register a composed root agent
// under a name, create sessions, and run prompts against them.
package workflow
