package engine

import "github.com/chainflow-io/chainflow/parser"

// PlanStep is one entry of a dry-run execution plan.
type PlanStep struct {
	// Depth is the nesting level of the node, root at 0.
	Depth int
	Kind  parser.NodeKind
	Node  string
}

// DryRun walks the chain in execution order and returns the plan without
// invoking the command handler. Both conditional branches appear in the
// plan, since which one runs is only known at execution time.
func (e *Executor) DryRun(chain *parser.Chain) []PlanStep {
	if chain == nil || chain.Root == nil {
		return nil
	}
	var plan []PlanStep
	appendPlan(&plan, chain.Root, 0)
	return plan
}

func appendPlan(plan *[]PlanStep, node parser.Node, depth int) {
	*plan = append(*plan, PlanStep{Depth: depth, Kind: node.Kind(), Node: node.String()})
	switch n := node.(type) {
	case *parser.Sequential:
		for _, c := range n.Nodes {
			appendPlan(plan, c, depth+1)
		}
	case *parser.Parallel:
		for _, c := range n.Nodes {
			appendPlan(plan, c, depth+1)
		}
	case *parser.Conditional:
		appendPlan(plan, n.Condition, depth+1)
		appendPlan(plan, n.True, depth+1)
		appendPlan(plan, n.False, depth+1)
	case *parser.Pipe:
		appendPlan(plan, n.From, depth+1)
		appendPlan(plan, n.To, depth+1)
	case *parser.Background:
		appendPlan(plan, n.Background, depth+1)
		appendPlan(plan, n.Foreground, depth+1)
	}
}
