package parser

import "strings"

// NodeKind identifies the variant of an AST node.
type NodeKind string

const (
	KindCommand     NodeKind = "command"
	KindSequential  NodeKind = "sequential"
	KindParallel    NodeKind = "parallel"
	KindConditional NodeKind = "conditional"
	KindPipe        NodeKind = "pipe"
	KindBackground  NodeKind = "background"
	KindChain       NodeKind = "chain"
)

// Node is one element of a parsed chain. Nodes are immutable after parsing.
// String returns a canonical textual form: reparsing it yields a tree of
// identical shape.
type Node interface {
	Kind() NodeKind
	String() string
}

// Command is a leaf invocation of the external command handler.
type Command struct {
	Name string
	Args []string
}

func (n *Command) Kind() NodeKind { return KindCommand }

func (n *Command) String() string {
	if len(n.Args) == 0 {
		return n.Name
	}
	return n.Name + " " + strings.Join(n.Args, " ")
}

// Sequential runs its children in order, one at a time. Always ≥2 children;
// consecutive ">>" chains are flattened into a single node.
type Sequential struct {
	Nodes []Node
}

func (n *Sequential) Kind() NodeKind { return KindSequential }

func (n *Sequential) String() string { return joinChildren(n.Nodes, " >> ") }

// Parallel runs its children concurrently. Always ≥2 children; consecutive
// "||" chains are flattened into a single node.
type Parallel struct {
	Nodes []Node
}

func (n *Parallel) Kind() NodeKind { return KindParallel }

func (n *Parallel) String() string { return joinChildren(n.Nodes, " || ") }

// Conditional evaluates Condition and then executes exactly one of True or
// False.
type Conditional struct {
	Condition Node
	True      Node
	False     Node
}

func (n *Conditional) Kind() NodeKind { return KindConditional }

func (n *Conditional) String() string {
	return wrap(n.Condition) + " ? " + wrap(n.True) + " : " + wrap(n.False)
}

// Pipe executes From and threads its result into To's execution context.
type Pipe struct {
	From Node
	To   Node
}

func (n *Pipe) Kind() NodeKind { return KindPipe }

func (n *Pipe) String() string { return wrap(n.From) + " |> " + wrap(n.To) }

// Background starts Background without waiting for it, then executes
// Foreground.
type Background struct {
	Background Node
	Foreground Node
}

func (n *Background) Kind() NodeKind { return KindBackground }

func (n *Background) String() string {
	return wrap(n.Background) + " & " + wrap(n.Foreground)
}

// Chain wraps the single root of a parse result.
type Chain struct {
	Root Node
}

func (n *Chain) Kind() NodeKind { return KindChain }

func (n *Chain) String() string { return n.Root.String() }

// Walk visits every node of the chain depth-first, parent before children.
// The visit function returning false prunes the subtree.
func (n *Chain) Walk(visit func(Node) bool) {
	walk(n.Root, visit)
}

func walk(n Node, visit func(Node) bool) {
	if n == nil || !visit(n) {
		return
	}
	switch v := n.(type) {
	case *Sequential:
		for _, c := range v.Nodes {
			walk(c, visit)
		}
	case *Parallel:
		for _, c := range v.Nodes {
			walk(c, visit)
		}
	case *Conditional:
		walk(v.Condition, visit)
		walk(v.True, visit)
		walk(v.False, visit)
	case *Pipe:
		walk(v.From, visit)
		walk(v.To, visit)
	case *Background:
		walk(v.Background, visit)
		walk(v.Foreground, visit)
	}
}

// wrap parenthesizes every non-leaf child so the canonical form reparses to
// an identical shape regardless of operator precedence.
func wrap(n Node) string {
	if n.Kind() == KindCommand {
		return n.String()
	}
	return "(" + n.String() + ")"
}

func joinChildren(nodes []Node, sep string) string {
	parts := make([]string, len(nodes))
	for i, n := range nodes {
		parts[i] = wrap(n)
	}
	return strings.Join(parts, sep)
}
