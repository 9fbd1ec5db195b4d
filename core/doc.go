// Package core defines the shared contracts of the Astra engine: the
// Message transcript types, the Session blackboard mutated by one workflow
// run, the Response envelope every agent returns, and the Agent interface
// itself.
//
// Everything else in the module is built on these types. The package
// deliberately knows nothing about models, tools or composites so concrete
// agents and collaborators can depend on it without cycles.
package core
