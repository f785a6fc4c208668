package engine

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/chainflow-io/chainflow/internal/metrics"
	"github.com/chainflow-io/chainflow/parser"
)

// Executor is the scheduling entry point: it walks a parsed chain and
// dispatches every node to the matching handler under a recursion-depth
// limit and a global timeout.
type Executor struct {
	handler    Handler
	logger     *zap.Logger
	opts       Options
	emitter    Emitter
	collector  *metrics.Collector
	limiter    *rate.Limiter
	sequential *sequentialExecutor
	parallel   *parallelExecutor
}

// NewExecutor creates an Executor around the injected command handler.
// A nil logger falls back to a no-op logger; zero option fields take their
// defaults.
func NewExecutor(handler Handler, logger *zap.Logger, opts Options) *Executor {
	if logger == nil {
		logger = zap.NewNop()
	}
	opts = opts.withDefaults()
	e := &Executor{
		handler: handler,
		logger:  logger.With(zap.String("component", "chain_executor")),
		opts:    opts,
		limiter: rate.NewLimiter(opts.CommandRate, opts.CommandBurst),
	}
	e.sequential = newSequentialExecutor(e, logger)
	e.parallel = newParallelExecutor(e, logger)
	return e
}

// SetEmitter subscribes a callback to the execution event stream. Must be
// called before Execute.
func (e *Executor) SetEmitter(emitter Emitter) {
	e.emitter = emitter
}

// SetMetrics attaches a Prometheus collector. Must be called before Execute.
func (e *Executor) SetMetrics(c *metrics.Collector) {
	e.collector = c
}

// Options returns the effective executor options.
func (e *Executor) Options() Options {
	return e.opts
}

// Execute runs a parsed chain to completion. execCtx may be nil, in which
// case a fresh context is used. The global timeout is enforced through
// context cancellation, so in-flight work is actually stopped when the
// budget expires and a *TimeoutError is returned.
func (e *Executor) Execute(ctx context.Context, chain *parser.Chain, execCtx *Context) (Result, error) {
	if chain == nil || chain.Root == nil {
		return nil, &parser.ValidationError{NodeKind: parser.KindChain, Msg: "chain has no root"}
	}
	if execCtx == nil {
		execCtx = NewContext()
	}
	if execCtx.background == nil {
		execCtx.background = &taskSet{}
	}
	if execCtx.ChainData == nil {
		execCtx.ChainData = make(map[string]any)
	}
	if execCtx.Values == nil {
		execCtx.Values = make(map[string]any)
	}

	runID := uuid.NewString()
	logger := e.logger.With(zap.String("run_id", runID))

	ctx, cancel := context.WithTimeout(ctx, e.opts.Timeout)
	defer cancel()

	logger.Info("starting chain execution",
		zap.String("chain", chain.String()),
		zap.Duration("timeout", e.opts.Timeout),
	)
	e.emit(Event{Type: EventChainStart, Source: "chain", Node: chain.String(), Context: execCtx.Snapshot()})

	start := time.Now()
	result, err := e.executeNode(ctx, chain.Root, execCtx)
	duration := time.Since(start)
	e.collector.RecordChain(duration, err)

	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = &TimeoutError{Timeout: e.opts.Timeout, Cause: err}
		}
		logger.Error("chain execution failed",
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		e.emit(Event{Type: EventChainError, Source: "chain", Node: chain.String(), Context: execCtx.Snapshot(), Err: err})
		return result, err
	}

	logger.Info("chain execution completed",
		zap.Duration("duration", duration),
		zap.Int("background_tasks", len(execCtx.BackgroundTasks())),
	)
	e.emit(Event{Type: EventChainComplete, Source: "chain", Node: chain.String(), Context: execCtx.Snapshot()})
	return result, nil
}

// executeNode dispatches one node by kind. The depth counter is restored on
// every exit path.
func (e *Executor) executeNode(ctx context.Context, node parser.Node, execCtx *Context) (Result, error) {
	if execCtx.depth >= e.opts.MaxDepth {
		return nil, &DepthExceededError{Depth: execCtx.depth + 1, Max: e.opts.MaxDepth}
	}
	execCtx.depth++
	defer func() { execCtx.depth-- }()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	var (
		result Result
		err    error
	)
	switch n := node.(type) {
	case *parser.Command:
		result, err = e.executeCommand(ctx, n, execCtx)
	case *parser.Sequential:
		result, err = e.sequential.execute(ctx, n, execCtx)
	case *parser.Parallel:
		result, err = e.parallel.execute(ctx, n, execCtx)
	case *parser.Conditional:
		result, err = e.executeConditional(ctx, n, execCtx)
	case *parser.Pipe:
		result, err = e.executePipe(ctx, n, execCtx)
	case *parser.Background:
		result, err = e.executeBackground(ctx, n, execCtx)
	default:
		err = &parser.ValidationError{NodeKind: node.Kind(), Msg: "unknown node kind"}
	}
	e.collector.RecordNode(string(node.Kind()), time.Since(start), err)
	return result, err
}

// executeCommand invokes the external handler for a leaf command and wraps
// its return value. Handler errors propagate unchanged as the cause of a
// *CommandError.
func (e *Executor) executeCommand(ctx context.Context, cmd *parser.Command, execCtx *Context) (Result, error) {
	if e.handler == nil {
		return nil, &CommandError{Command: cmd.Name, Cause: errors.New("no command handler configured")}
	}
	if err := e.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	execCtx.IsChained = true
	e.logger.Debug("executing command",
		zap.String("command", cmd.Name),
		zap.Strings("args", cmd.Args),
	)

	output, err := e.handler.Execute(ctx, Invocation{
		Command: cmd.Name,
		Args:    cmd.Args,
		Context: execCtx,
	})
	if err != nil {
		return nil, &CommandError{Command: cmd.Name, Cause: err}
	}

	return &CommandResult{
		Command:   cmd.Name,
		Args:      cmd.Args,
		Output:    output,
		Timestamp: time.Now(),
	}, nil
}

// executeConditional evaluates the condition subtree fully, derives a
// boolean from its outcome, and executes exactly one branch. The untaken
// branch is never evaluated.
func (e *Executor) executeConditional(ctx context.Context, cond *parser.Conditional, execCtx *Context) (Result, error) {
	condResult, condErr := e.executeNode(ctx, cond.Condition, execCtx)
	if condErr != nil && ctx.Err() != nil {
		// Cancellation is not a falsy condition.
		return nil, condErr
	}

	truthy := evaluateCondition(condResult, condErr)
	e.logger.Debug("condition evaluated",
		zap.String("condition", cond.Condition.String()),
		zap.Bool("result", truthy),
	)

	if truthy {
		return e.executeNode(ctx, cond.True, execCtx)
	}
	return e.executeNode(ctx, cond.False, execCtx)
}

// executePipe runs the left side, threads its result into a fresh context as
// PipeInput/PreviousResult, runs the right side with it, and returns only
// the right side's result.
func (e *Executor) executePipe(ctx context.Context, pipe *parser.Pipe, execCtx *Context) (Result, error) {
	fromResult, err := e.executeNode(ctx, pipe.From, execCtx)
	if err != nil {
		return nil, err
	}

	pipeCtx := execCtx.Clone()
	pipeCtx.PipeInput = fromResult
	pipeCtx.PreviousResult = fromResult
	return e.executeNode(ctx, pipe.To, pipeCtx)
}

// executeBackground starts the background subtree without waiting for it,
// registers its handle on the context, and awaits only the foreground. The
// background outcome is never surfaced here; the handle stays collectable
// through Context.BackgroundTasks.
func (e *Executor) executeBackground(ctx context.Context, bg *parser.Background, execCtx *Context) (Result, error) {
	handle := newTaskHandle(bg.Background.String())
	execCtx.addTask(handle)

	// The background subtree must outlive this Execute call, so it is
	// detached from the per-call cancel but keeps the global deadline.
	bgCtx := context.WithoutCancel(ctx)
	bgCancel := context.CancelFunc(func() {})
	if deadline, ok := ctx.Deadline(); ok {
		bgCtx, bgCancel = context.WithDeadline(bgCtx, deadline)
	}

	branch := execCtx.Clone()
	go func() {
		defer bgCancel()
		res, err := e.executeNode(bgCtx, bg.Background, branch)
		if err != nil {
			e.logger.Warn("background task failed",
				zap.String("task_id", handle.ID),
				zap.String("node", handle.Node),
				zap.Error(err),
			)
		}
		handle.complete(res, err)
	}()

	e.logger.Debug("background task started",
		zap.String("task_id", handle.ID),
		zap.String("node", handle.Node),
	)

	fgResult, err := e.executeNode(ctx, bg.Foreground, execCtx)
	if err != nil {
		return nil, err
	}
	return &BackgroundResult{
		Foreground:        fgResult,
		BackgroundStarted: true,
		Task:              handle,
	}, nil
}
