// Package chainflow provides a top-level convenience entry point for
// compiling and running chain expressions with minimal boilerplate.
//
// Usage:
//
//	import "github.com/chainflow-io/chainflow"
//
//	chain, err := chainflow.Compile("/sc:analyze >> /sc:fix >> /sc:test")
//	result, err := chainflow.Run(ctx, "/sc:a || /sc:b", handler)
//
// This is a thin wrapper around the parser and engine packages; both produce
// identical results. Use those packages directly when you need events,
// metrics, or non-default options.
package chainflow

import (
	"context"

	"github.com/chainflow-io/chainflow/config"
	"github.com/chainflow-io/chainflow/engine"
	"github.com/chainflow-io/chainflow/parser"
	"golang.org/x/time/rate"
)

// Compile parses a chain expression into a validated, immutable tree. The
// tree may be executed any number of times.
func Compile(expr string) (*parser.Chain, error) {
	return parser.Parse(expr)
}

// Run compiles and executes a chain expression with default options.
func Run(ctx context.Context, expr string, handler engine.Handler) (engine.Result, error) {
	chain, err := parser.Parse(expr)
	if err != nil {
		return nil, err
	}
	exec := engine.NewExecutor(handler, nil, engine.DefaultOptions())
	return exec.Execute(ctx, chain, engine.NewContext())
}

// EngineOptions converts an engine configuration section into executor
// options.
func EngineOptions(cfg config.EngineConfig) engine.Options {
	opts := engine.Options{
		MaxDepth:      cfg.MaxDepth,
		Timeout:       cfg.Timeout,
		NodeTimeout:   cfg.NodeTimeout,
		MaxConcurrent: cfg.MaxConcurrent,
	}
	if cfg.CommandRate > 0 {
		opts.CommandRate = rate.Limit(cfg.CommandRate)
	}
	return opts
}

// ExecutionContext builds an execution context from an engine configuration
// section.
func ExecutionContext(cfg config.EngineConfig) *engine.Context {
	execCtx := engine.NewContext()
	execCtx.ContinueOnError = cfg.ContinueOnError
	execCtx.StepDelay = cfg.StepDelay
	return execCtx
}
