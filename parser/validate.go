package parser

import "fmt"

// Validate checks the structural invariants of a parsed chain: sequential and
// parallel nodes carry at least two children, conditionals have all three
// fields, pipe and background have both sides, and the chain has exactly one
// root. Parse runs this automatically; it is exported for trees assembled by
// hand.
func Validate(chain *Chain) error {
	if chain == nil || chain.Root == nil {
		return &ValidationError{NodeKind: KindChain, Msg: "chain has no root"}
	}
	return validateNode(chain.Root)
}

func validateNode(n Node) error {
	switch v := n.(type) {
	case *Command:
		if v.Name == "" {
			return &ValidationError{NodeKind: KindCommand, Msg: "command has no name"}
		}
		return nil

	case *Sequential:
		if len(v.Nodes) < 2 {
			return &ValidationError{
				NodeKind: KindSequential,
				Msg:      fmt.Sprintf("requires at least 2 children, got %d", len(v.Nodes)),
			}
		}
		return validateChildren(v.Nodes)

	case *Parallel:
		if len(v.Nodes) < 2 {
			return &ValidationError{
				NodeKind: KindParallel,
				Msg:      fmt.Sprintf("requires at least 2 children, got %d", len(v.Nodes)),
			}
		}
		return validateChildren(v.Nodes)

	case *Conditional:
		if v.Condition == nil || v.True == nil || v.False == nil {
			return &ValidationError{NodeKind: KindConditional, Msg: "requires condition, true, and false branches"}
		}
		return validateChildren([]Node{v.Condition, v.True, v.False})

	case *Pipe:
		if v.From == nil || v.To == nil {
			return &ValidationError{NodeKind: KindPipe, Msg: "requires both from and to"}
		}
		return validateChildren([]Node{v.From, v.To})

	case *Background:
		if v.Background == nil || v.Foreground == nil {
			return &ValidationError{NodeKind: KindBackground, Msg: "requires both background and foreground"}
		}
		return validateChildren([]Node{v.Background, v.Foreground})

	default:
		return &ValidationError{NodeKind: n.Kind(), Msg: "unknown node kind"}
	}
}

func validateChildren(nodes []Node) error {
	for _, c := range nodes {
		if c == nil {
			return &ValidationError{NodeKind: KindChain, Msg: "nil child node"}
		}
		if err := validateNode(c); err != nil {
			return err
		}
	}
	return nil
}
