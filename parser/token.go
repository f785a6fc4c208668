package parser

import "fmt"

// TokenKind classifies a lexed token.
type TokenKind int

const (
	// TokenCommand is a leaf command reference such as "/sc:analyze",
	// carrying any trailing arguments.
	TokenCommand TokenKind = iota
	// TokenOperator is one of >>, ||, &, |>, ?, :.
	TokenOperator
	// TokenGroupOpen is "(".
	TokenGroupOpen
	// TokenGroupClose is ")".
	TokenGroupClose
)

func (k TokenKind) String() string {
	switch k {
	case TokenCommand:
		return "command"
	case TokenOperator:
		return "operator"
	case TokenGroupOpen:
		return "group-open"
	case TokenGroupClose:
		return "group-close"
	default:
		return fmt.Sprintf("TokenKind(%d)", int(k))
	}
}

// Token is a single lexed unit of a chain expression. Tokens are produced by
// Tokenize, consumed once by the parser, and discarded.
type Token struct {
	Kind  TokenKind
	Value string
	// Pos is the rune offset of the token in the original input.
	Pos int
	// Args holds the whitespace-separated arguments attached to a command
	// token. Empty for all other kinds.
	Args []string
}

func (t Token) String() string {
	if t.Kind == TokenCommand && len(t.Args) > 0 {
		return fmt.Sprintf("%s%v@%d", t.Value, t.Args, t.Pos)
	}
	return fmt.Sprintf("%s@%d", t.Value, t.Pos)
}
