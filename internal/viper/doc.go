// Package viper models the abstract syntax of the verification backend
// that consumes encoded programs.
//
// The real solving service is an external collaborator; this package
// supplies the node set and the construction capability the encoder needs,
// plus a deterministic pretty printer (used by the CLI, the cache, and
// golden tests) and the backend's expression simplifier.
//
// ARCHITECTURE:
//
//	[vir.Program] → [encoder] → [viper.Program] → [solving service]
//
// All nodes are built exclusively through an AstFactory handle. The factory
// is a read-only capability: it holds no state, and multiple encodings may
// run in parallel as long as each uses its own handle. Nodes are immutable
// once constructed.
//
// SEALED INTERFACES:
//
// Expr, Stmt, and Type are sealed interfaces using the marker method
// pattern. Only types in this package implement them, which keeps type
// switches in the printer and simplifier exhaustive.
package viper
