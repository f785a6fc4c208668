package engine

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/chainflow-io/chainflow/parser"
)

// parallelExecutor runs the children of a parallel node concurrently under
// the MaxConcurrent bound. Each child gets an isolated context snapshot and
// a per-node timeout; one child's failure never cancels its siblings.
// Results are collected by declaration index, not by arrival.
type parallelExecutor struct {
	engine *Executor
	logger *zap.Logger
}

func newParallelExecutor(engine *Executor, logger *zap.Logger) *parallelExecutor {
	return &parallelExecutor{
		engine: engine,
		logger: logger.With(zap.String("component", "parallel_executor")),
	}
}

func (p *parallelExecutor) execute(ctx context.Context, node *parser.Parallel, execCtx *Context) (Result, error) {
	count := len(node.Nodes)
	p.engine.emit(Event{
		Type:    EventParallelStart,
		Source:  "parallel",
		Node:    node.String(),
		Context: execCtx.Snapshot(),
	})
	p.engine.collector.ObserveParallelBatch(count)
	p.logger.Debug("starting parallel batch",
		zap.Int("children", count),
		zap.Int("max_concurrent", p.engine.opts.MaxConcurrent),
	)

	steps := make([]StepResult, count)
	branches := make([]*Context, count)

	// Plain errgroup, not WithContext: sibling failures must not cancel the
	// rest of the batch.
	var g errgroup.Group
	g.SetLimit(p.engine.opts.MaxConcurrent)

	for i, child := range node.Nodes {
		i, child := i, child
		branch := execCtx.Clone()
		branches[i] = branch

		g.Go(func() error {
			stepNum := i + 1
			nodeText := child.String()
			p.engine.emit(Event{
				Type:    EventNodeStart,
				Source:  "parallel",
				Node:    nodeText,
				Step:    stepNum,
				Context: branch.Snapshot(),
			})

			nodeCtx, cancel := context.WithTimeout(ctx, p.engine.opts.NodeTimeout)
			defer cancel()

			result, err := p.engine.executeNode(nodeCtx, child, branch)
			if err != nil {
				if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
					err = &TimeoutError{
						Timeout: p.engine.opts.NodeTimeout,
						Node:    nodeText,
						Cause:   err,
					}
				}
				steps[i] = StepResult{
					Step:    stepNum,
					Node:    nodeText,
					Err:     err.Error(),
					Success: false,
				}
				p.engine.emit(Event{
					Type:    EventNodeError,
					Source:  "parallel",
					Node:    nodeText,
					Step:    stepNum,
					Context: branch.Snapshot(),
					Err:     err,
				})
				return nil
			}

			steps[i] = StepResult{
				Step:    stepNum,
				Node:    nodeText,
				Result:  result,
				Success: true,
			}
			branch.PreviousResult = result
			branch.PreviousCommand = commandName(child)
			absorbResultContext(branch, result)
			p.engine.emit(Event{
				Type:    EventNodeComplete,
				Source:  "parallel",
				Node:    nodeText,
				Step:    stepNum,
				Context: branch.Snapshot(),
			})
			return nil
		})
	}

	// All children settle before any branch state merges back.
	_ = g.Wait()
	execCtx.MergeBranches(branches)

	summary := summarize(steps)
	result := &GroupResult{
		Group:   "parallel",
		OK:      summary.Failed == 0,
		Steps:   steps,
		Context: execCtx.Snapshot(),
		Summary: summary,
	}
	p.engine.emit(Event{
		Type:    EventParallelComplete,
		Source:  "parallel",
		Node:    node.String(),
		Context: execCtx.Snapshot(),
	})
	return result, nil
}
