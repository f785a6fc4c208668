package engine

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/chainflow-io/chainflow/parser"
)

// sequentialExecutor runs the children of a sequential node one at a time in
// declaration order, threading the accumulated context forward. Each step
// settles fully, including its context side effects, before the next begins.
type sequentialExecutor struct {
	engine *Executor
	logger *zap.Logger
}

func newSequentialExecutor(engine *Executor, logger *zap.Logger) *sequentialExecutor {
	return &sequentialExecutor{
		engine: engine,
		logger: logger.With(zap.String("component", "sequential_executor")),
	}
}

func (s *sequentialExecutor) execute(ctx context.Context, node *parser.Sequential, execCtx *Context) (Result, error) {
	steps := make([]StepResult, 0, len(node.Nodes))

	for i, child := range node.Nodes {
		if i > 0 && execCtx.StepDelay > 0 {
			if err := sleepCtx(ctx, execCtx.StepDelay); err != nil {
				return s.finish(steps, execCtx), err
			}
		}

		stepNum := i + 1
		nodeText := child.String()
		s.engine.emit(Event{
			Type:    EventStepStart,
			Source:  "sequential",
			Node:    nodeText,
			Step:    stepNum,
			Context: execCtx.Snapshot(),
		})

		result, err := s.engine.executeNode(ctx, child, execCtx)
		if err != nil {
			steps = append(steps, StepResult{
				Step:    stepNum,
				Node:    nodeText,
				Err:     err.Error(),
				Success: false,
			})
			s.engine.emit(Event{
				Type:    EventStepError,
				Source:  "sequential",
				Node:    nodeText,
				Step:    stepNum,
				Context: execCtx.Snapshot(),
				Err:     err,
			})
			s.logger.Warn("step failed",
				zap.Int("step", stepNum),
				zap.String("node", nodeText),
				zap.Bool("continue_on_error", execCtx.ContinueOnError),
				zap.Error(err),
			)

			if execCtx.ContinueOnError {
				execCtx.PreviousError = err
				continue
			}
			partial := s.finish(steps, execCtx)
			return partial, &ChainAbortedError{
				Step:   stepNum,
				Node:   nodeText,
				Cause:  err,
				Result: partial,
			}
		}

		steps = append(steps, StepResult{
			Step:    stepNum,
			Node:    nodeText,
			Result:  result,
			Success: true,
		})
		execCtx.PreviousResult = result
		execCtx.PreviousCommand = commandName(child)
		absorbResultContext(execCtx, result)

		s.engine.emit(Event{
			Type:    EventStepComplete,
			Source:  "sequential",
			Node:    nodeText,
			Step:    stepNum,
			Context: execCtx.Snapshot(),
		})
	}

	return s.finish(steps, execCtx), nil
}

func (s *sequentialExecutor) finish(steps []StepResult, execCtx *Context) *GroupResult {
	summary := summarize(steps)
	return &GroupResult{
		Group:   "sequential",
		OK:      summary.Failed == 0,
		Steps:   steps,
		Context: execCtx.Snapshot(),
		Summary: summary,
	}
}

// absorbResultContext merges "context" and "data" payloads carried by a
// step's command output into the running context; "data" lands in
// ChainData.
func absorbResultContext(execCtx *Context, result Result) {
	cmd, ok := result.(*CommandResult)
	if !ok {
		return
	}
	out, ok := cmd.Output.(map[string]any)
	if !ok {
		return
	}
	if ctxVal, ok := out["context"].(map[string]any); ok {
		for k, v := range ctxVal {
			execCtx.Values[k] = v
		}
	}
	if data, ok := out["data"].(map[string]any); ok {
		for k, v := range data {
			execCtx.ChainData[k] = v
		}
	}
}

// commandName reports what PreviousCommand should record for a settled
// child: the command reference for leaves, the canonical text otherwise.
func commandName(n parser.Node) string {
	if cmd, ok := n.(*parser.Command); ok {
		return cmd.Name
	}
	return n.String()
}

// sleepCtx pauses for d or until ctx is cancelled.
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
