package engine

import (
	"fmt"
	"time"
)

// DepthExceededError is returned when the recursion ceiling is hit before a
// node is dispatched. No command handler call happens past the ceiling.
type DepthExceededError struct {
	Depth int
	Max   int
}

func (e *DepthExceededError) Error() string {
	return fmt.Sprintf("chain depth %d exceeds maximum %d", e.Depth, e.Max)
}

// TimeoutError is returned when the global chain budget or a per-node budget
// inside a parallel batch is exceeded. The expired context cancels all
// in-flight work under it.
type TimeoutError struct {
	// Timeout is the budget that expired.
	Timeout time.Duration
	// Node is the canonical text of the timed-out node, empty for the
	// global budget.
	Node  string
	Cause error
}

func (e *TimeoutError) Error() string {
	if e.Node != "" {
		return fmt.Sprintf("node %q timed out after %s", e.Node, e.Timeout)
	}
	return fmt.Sprintf("chain execution timed out after %s", e.Timeout)
}

func (e *TimeoutError) Unwrap() error { return e.Cause }

// ChainAbortedError is returned when a sequential step fails and
// ContinueOnError is false. It names the 1-based failing step and carries
// the partial group result up to and including that step.
type ChainAbortedError struct {
	Step   int
	Node   string
	Cause  error
	Result *GroupResult
}

func (e *ChainAbortedError) Error() string {
	return fmt.Sprintf("chain aborted at step %d (%s): %v", e.Step, e.Node, e.Cause)
}

func (e *ChainAbortedError) Unwrap() error { return e.Cause }

// CommandError surfaces a command handler failure. The handler's error is
// kept unchanged as the cause and remains matchable through errors.Is/As.
type CommandError struct {
	Command string
	Cause   error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command %s failed: %v", e.Command, e.Cause)
}

func (e *CommandError) Unwrap() error { return e.Cause }
