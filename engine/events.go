package engine

import "time"

// EventType is one entry of the uniform notification vocabulary published
// during execution.
type EventType string

const (
	EventChainStart    EventType = "chain-start"
	EventChainComplete EventType = "chain-complete"
	EventChainError    EventType = "chain-error"

	// node-* events are published per child of a parallel batch.
	EventNodeStart    EventType = "node-start"
	EventNodeComplete EventType = "node-complete"
	EventNodeError    EventType = "node-error"

	EventParallelStart    EventType = "parallel-start"
	EventParallelComplete EventType = "parallel-complete"

	// step-* events are published per child of a sequential group.
	EventStepStart    EventType = "step-start"
	EventStepComplete EventType = "step-complete"
	EventStepError    EventType = "step-error"
)

// Event carries one execution notification: the node it concerns, which
// executor published it, a context snapshot, and the error for *-error
// events.
type Event struct {
	Type EventType
	// Source tags the publisher: "chain", "sequential", or "parallel".
	Source string
	// Node is the canonical text of the node the event concerns.
	Node string
	// Step is the 1-based declaration index within a group, 0 otherwise.
	Step    int
	Context map[string]any
	Err     error
	Time    time.Time
}

// Emitter receives execution events. It is called synchronously from the
// executing goroutine and must not block.
type Emitter func(Event)

func (e *Executor) emit(ev Event) {
	if e.emitter == nil {
		return
	}
	ev.Time = time.Now()
	e.emitter(ev)
}
