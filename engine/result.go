package engine

import "time"

// Result is the tagged outcome of executing one chain node. The envelope is
// shared (Kind, Success); the payload varies by variant.
type Result interface {
	// Kind identifies the result variant: "command", "sequential",
	// "parallel", or "background".
	Kind() string
	// Success reports whether the node as a whole succeeded.
	Success() bool
}

// CommandResult wraps one command handler invocation. A failed invocation
// never produces a CommandResult; the handler's error propagates instead.
type CommandResult struct {
	Command   string    `json:"command"`
	Args      []string  `json:"args,omitempty"`
	Output    any       `json:"output"`
	Timestamp time.Time `json:"timestamp"`
}

func (r *CommandResult) Kind() string { return "command" }

func (r *CommandResult) Success() bool { return true }

// StepResult records one child of a sequential or parallel group. Exactly
// one of Result and Err is set.
type StepResult struct {
	// Step is the 1-based declaration index of the child.
	Step    int    `json:"step"`
	Node    string `json:"node"`
	Result  Result `json:"result,omitempty"`
	Err     string `json:"error,omitempty"`
	Success bool   `json:"success"`
}

// Summary counts the children of a group result.
type Summary struct {
	Total      int `json:"total"`
	Successful int `json:"successful"`
	Failed     int `json:"failed"`
}

// GroupResult is the outcome of a sequential or parallel node. Steps are
// always in declaration order, irrespective of completion order.
type GroupResult struct {
	Group   string         `json:"kind"`
	OK      bool           `json:"success"`
	Steps   []StepResult   `json:"results"`
	Context map[string]any `json:"context,omitempty"`
	Summary Summary        `json:"summary"`
}

func (r *GroupResult) Kind() string { return r.Group }

func (r *GroupResult) Success() bool { return r.OK }

// BackgroundResult is the outcome of a background node: only the foreground
// branch's result is surfaced, plus the handle of the detached subtree.
type BackgroundResult struct {
	Foreground        Result `json:"foreground"`
	BackgroundStarted bool   `json:"backgroundStarted"`
	// Task lets callers optionally collect the background outcome later.
	Task *TaskHandle `json:"-"`
}

func (r *BackgroundResult) Kind() string { return "background" }

func (r *BackgroundResult) Success() bool {
	return r.Foreground == nil || r.Foreground.Success()
}

func summarize(steps []StepResult) Summary {
	s := Summary{Total: len(steps)}
	for _, st := range steps {
		if st.Success {
			s.Successful++
		} else {
			s.Failed++
		}
	}
	return s
}
