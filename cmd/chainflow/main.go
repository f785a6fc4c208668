// Command chainflow compiles and runs chain expressions from the command
// line.
//
// Usage:
//
//	chainflow -expr "/sc:analyze >> /sc:fix" -plan     # print the execution plan
//	chainflow -expr "/sc:a || /sc:b" -run              # execute with the echo handler
//	chainflow -expr "..." -run -config chainflow.yaml  # with a config file
//
// The built-in echo handler reports each command's name; it stands in for a
// real injected handler and exists so chains can be exercised end to end.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/chainflow-io/chainflow"
	"github.com/chainflow-io/chainflow/config"
	"github.com/chainflow-io/chainflow/engine"
	"github.com/chainflow-io/chainflow/internal/metrics"
	"github.com/chainflow-io/chainflow/parser"
)

func main() {
	var (
		expr       = flag.String("expr", "", "chain expression to compile")
		run        = flag.Bool("run", false, "execute the chain with the built-in echo handler")
		plan       = flag.Bool("plan", false, "print the execution plan without running")
		events     = flag.Bool("events", false, "print execution events while running")
		configPath = flag.String("config", "", "path to a YAML config file")
	)
	flag.Parse()

	if *expr == "" {
		fmt.Fprintln(os.Stderr, "chainflow: -expr is required")
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.NewLoader().WithConfigPath(*configPath).Load()
	if err != nil {
		fatal(err)
	}
	logger, err := cfg.Log.BuildLogger()
	if err != nil {
		fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	chain, err := chainflow.Compile(*expr)
	if err != nil {
		fatal(err)
	}
	fmt.Printf("chain: %s\n", chain)

	if _, diags := parser.Tokenize(*expr); len(diags) > 0 {
		for _, d := range diags {
			fmt.Fprintf(os.Stderr, "warning: %s\n", d)
		}
	}

	exec := engine.NewExecutor(echoHandler{}, logger, chainflow.EngineOptions(cfg.Engine))
	if cfg.Metrics.Enabled {
		exec.SetMetrics(metrics.NewCollector(cfg.Metrics.Namespace, prometheus.DefaultRegisterer, logger))
	}

	if *plan {
		for _, step := range exec.DryRun(chain) {
			fmt.Printf("%s%s: %s\n", strings.Repeat("  ", step.Depth), step.Kind, step.Node)
		}
	}
	if !*run {
		return
	}

	if *events {
		exec.SetEmitter(func(ev engine.Event) {
			if ev.Err != nil {
				fmt.Printf("[%s] %s (%v)\n", ev.Type, ev.Node, ev.Err)
				return
			}
			fmt.Printf("[%s] %s\n", ev.Type, ev.Node)
		})
	}

	execCtx := chainflow.ExecutionContext(cfg.Engine)
	result, err := exec.Execute(context.Background(), chain, execCtx)
	if err != nil {
		logger.Error("execution failed", zap.Error(err))
		fatal(err)
	}
	printResult(result, 0)

	for _, task := range execCtx.BackgroundTasks() {
		fmt.Printf("background task %s still running: %s\n", task.ID, task.Node)
	}
}

// echoHandler is the demo command handler: it returns the command reference
// as its output.
type echoHandler struct{}

func (echoHandler) Execute(_ context.Context, inv engine.Invocation) (any, error) {
	return map[string]any{"output": inv.Command}, nil
}

func printResult(result engine.Result, indent int) {
	pad := strings.Repeat("  ", indent)
	switch r := result.(type) {
	case *engine.GroupResult:
		fmt.Printf("%s%s: success=%v total=%d ok=%d failed=%d\n",
			pad, r.Group, r.OK, r.Summary.Total, r.Summary.Successful, r.Summary.Failed)
		for _, step := range r.Steps {
			if step.Success {
				fmt.Printf("%s  step %d %s\n", pad, step.Step, step.Node)
				if step.Result != nil {
					printResult(step.Result, indent+2)
				}
			} else {
				fmt.Printf("%s  step %d %s FAILED: %s\n", pad, step.Step, step.Node, step.Err)
			}
		}
	case *engine.CommandResult:
		fmt.Printf("%scommand %s -> %v\n", pad, r.Command, r.Output)
	case *engine.BackgroundResult:
		fmt.Printf("%sbackground started\n", pad)
		if r.Foreground != nil {
			printResult(r.Foreground, indent+1)
		}
	default:
		fmt.Printf("%s%v\n", pad, result)
	}
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "chainflow: %v\n", err)
	os.Exit(1)
}
