package parser

import "fmt"

// ParseError reports malformed chain syntax: unbalanced groups, a missing ":"
// after "?", trailing tokens, or empty input. Pos is the rune offset of the
// offending token, or -1 when the input ended early.
type ParseError struct {
	Pos int
	Msg string
}

func (e *ParseError) Error() string {
	if e.Pos < 0 {
		return fmt.Sprintf("parse error: %s", e.Msg)
	}
	return fmt.Sprintf("parse error at position %d: %s", e.Pos, e.Msg)
}

func parseErrorf(pos int, format string, args ...any) *ParseError {
	return &ParseError{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

// ValidationError reports an AST that violates a structural invariant, such
// as a sequential node with fewer than two children.
type ValidationError struct {
	NodeKind NodeKind
	Msg      string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s node: %s", e.NodeKind, e.Msg)
}
