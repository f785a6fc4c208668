package engine

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Context is the state bag threaded through one top-level execution call
// tree. Sequential steps mutate it in order; parallel branches each receive
// an isolated Clone whose changes are merged back into the parent in
// declaration order after every branch has settled. Background task handles
// go through a shared, mutex-guarded set so a task started inside any branch
// is visible to the caller.
type Context struct {
	// ContinueOnError selects the sequential failure policy: record the
	// error and proceed instead of aborting the chain.
	ContinueOnError bool
	// StepDelay is an optional pause inserted between sequential steps.
	StepDelay time.Duration
	// IsChained is set before every leaf command invocation.
	IsChained bool

	// PreviousResult and PreviousCommand track the last settled sequential
	// step. PreviousError is only set under ContinueOnError.
	PreviousResult  Result
	PreviousCommand string
	PreviousError   error

	// PipeInput carries the upstream result inside a pipe's right side.
	PipeInput Result

	// ChainData accumulates "data" payloads surfaced by step results.
	ChainData map[string]any
	// Values holds free-form caller state plus "context" payloads surfaced
	// by step results.
	Values map[string]any

	depth      int
	background *taskSet
}

// NewContext returns an empty execution context.
func NewContext() *Context {
	return &Context{
		ChainData:  make(map[string]any),
		Values:     make(map[string]any),
		background: &taskSet{},
	}
}

// Clone returns an isolated snapshot for a branch: maps are copied, scalar
// state is carried over, and the background task set stays shared.
func (c *Context) Clone() *Context {
	clone := &Context{
		ContinueOnError: c.ContinueOnError,
		StepDelay:       c.StepDelay,
		IsChained:       c.IsChained,
		PreviousResult:  c.PreviousResult,
		PreviousCommand: c.PreviousCommand,
		PreviousError:   c.PreviousError,
		PipeInput:       c.PipeInput,
		ChainData:       make(map[string]any, len(c.ChainData)),
		Values:          make(map[string]any, len(c.Values)),
		depth:           c.depth,
		background:      c.background,
	}
	for k, v := range c.ChainData {
		clone.ChainData[k] = v
	}
	for k, v := range c.Values {
		clone.Values[k] = v
	}
	return clone
}

// MergeBranches folds settled branch snapshots back into the receiver in
// declaration order: later branches overwrite earlier ones key by key, and
// the last branch that set PreviousResult wins.
func (c *Context) MergeBranches(branches []*Context) {
	for _, b := range branches {
		if b == nil {
			continue
		}
		for k, v := range b.ChainData {
			c.ChainData[k] = v
		}
		for k, v := range b.Values {
			c.Values[k] = v
		}
		if b.PreviousResult != nil {
			c.PreviousResult = b.PreviousResult
			c.PreviousCommand = b.PreviousCommand
		}
		if b.PreviousError != nil {
			c.PreviousError = b.PreviousError
		}
		if b.IsChained {
			c.IsChained = true
		}
	}
}

// Snapshot returns a point-in-time view of the context for events and
// results. Mutating the snapshot does not affect the context.
func (c *Context) Snapshot() map[string]any {
	snap := map[string]any{
		"continueOnError": c.ContinueOnError,
		"isChained":       c.IsChained,
		"depth":           c.depth,
	}
	if c.StepDelay > 0 {
		snap["stepDelay"] = c.StepDelay
	}
	if c.PreviousCommand != "" {
		snap["previousCommand"] = c.PreviousCommand
	}
	if c.PreviousResult != nil {
		snap["previousResult"] = c.PreviousResult
	}
	if c.PreviousError != nil {
		snap["previousError"] = c.PreviousError.Error()
	}
	if len(c.ChainData) > 0 {
		data := make(map[string]any, len(c.ChainData))
		for k, v := range c.ChainData {
			data[k] = v
		}
		snap["chainData"] = data
	}
	for k, v := range c.Values {
		snap[k] = v
	}
	return snap
}

// BackgroundTasks returns the handles of every background task started so
// far in this call tree, in start order.
func (c *Context) BackgroundTasks() []*TaskHandle {
	return c.background.all()
}

func (c *Context) addTask(h *TaskHandle) {
	c.background.add(h)
}

// taskSet is the synchronized list of pending background task handles.
// It is shared by reference across clones so concurrent branches append to
// the same set.
type taskSet struct {
	mu    sync.Mutex
	tasks []*TaskHandle
}

func (s *taskSet) add(h *TaskHandle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = append(s.tasks, h)
}

func (s *taskSet) all() []*TaskHandle {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*TaskHandle, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// TaskHandle tracks one background subtree. Its outcome is never surfaced at
// the chain boundary; callers that care can Wait on the handle after the
// chain returns.
type TaskHandle struct {
	// ID uniquely identifies the task.
	ID string
	// Node is the canonical text of the background subtree.
	Node string

	done   chan struct{}
	result Result
	err    error
}

func newTaskHandle(node string) *TaskHandle {
	return &TaskHandle{
		ID:   uuid.NewString(),
		Node: node,
		done: make(chan struct{}),
	}
}

func (h *TaskHandle) complete(res Result, err error) {
	h.result = res
	h.err = err
	close(h.done)
}

// Done is closed when the background subtree settles.
func (h *TaskHandle) Done() <-chan struct{} {
	return h.done
}

// Wait blocks until the task settles or ctx is cancelled, then returns the
// task's outcome.
func (h *TaskHandle) Wait(ctx context.Context) (Result, error) {
	select {
	case <-h.done:
		return h.result, h.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
