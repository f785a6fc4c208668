package engine

import (
	"time"

	"golang.org/x/time/rate"
)

// Options configures an Executor.
type Options struct {
	// MaxDepth is the recursion ceiling for nested node execution.
	MaxDepth int `json:"max_depth"`
	// Timeout is the global wall-clock budget for one Execute call. The
	// expired budget cancels in-flight work through context propagation.
	Timeout time.Duration `json:"timeout"`
	// NodeTimeout is the per-node budget inside a parallel batch.
	NodeTimeout time.Duration `json:"node_timeout"`
	// MaxConcurrent bounds parallel fan-out. The command handler may itself
	// be rate-limited, so fan-out is never unbounded.
	MaxConcurrent int `json:"max_concurrent"`
	// CommandRate optionally paces command handler invocations across the
	// whole executor. Zero means unlimited.
	CommandRate rate.Limit `json:"command_rate"`
	// CommandBurst is the burst size for CommandRate.
	CommandBurst int `json:"command_burst"`
}

// DefaultOptions returns the engine defaults: depth 10, 10-minute global
// budget, 5-minute node budget, fan-out of 4, unlimited command rate.
func DefaultOptions() Options {
	return Options{
		MaxDepth:      10,
		Timeout:       10 * time.Minute,
		NodeTimeout:   5 * time.Minute,
		MaxConcurrent: 4,
		CommandRate:   rate.Inf,
		CommandBurst:  1,
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.MaxDepth <= 0 {
		o.MaxDepth = def.MaxDepth
	}
	if o.Timeout <= 0 {
		o.Timeout = def.Timeout
	}
	if o.NodeTimeout <= 0 {
		o.NodeTimeout = def.NodeTimeout
	}
	if o.MaxConcurrent <= 0 {
		o.MaxConcurrent = def.MaxConcurrent
	}
	if o.CommandRate <= 0 {
		o.CommandRate = rate.Inf
	}
	if o.CommandBurst <= 0 {
		o.CommandBurst = def.CommandBurst
	}
	return o
}
