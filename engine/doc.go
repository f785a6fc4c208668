// Package engine executes parsed chain expressions.
//
// The Executor walks a tree produced by the parser package and dispatches
// each node to the matching handler: leaf commands go to the injected
// command Handler, sequential and parallel groups run under the ordering and
// concurrency rules of their sub-executors, and conditional, pipe, and
// background nodes are handled inline. Execution is bounded by a recursion
// depth limit and a global wall-clock timeout, both enforced through
// cancellable contexts. Progress is published as typed events through an
// optional Emitter.
package engine
