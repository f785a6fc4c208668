package parser

// Operator binding strength, tightest to loosest: ?: binds tightest, then
// |>, ||, >>, and & binds loosest.
const (
	precBackground  = 1 // &
	precSequential  = 2 // >>
	precParallel    = 3 // ||
	precPipe        = 4 // |>
	precConditional = 5 // ? :
)

var precedence = map[string]int{
	"&":  precBackground,
	">>": precSequential,
	"||": precParallel,
	"|>": precPipe,
	"?":  precConditional,
}

// Parse tokenizes and parses a chain expression into a validated Chain.
// Lexer diagnostics for skipped input are discarded here; use Tokenize
// directly when they matter.
func Parse(input string) (*Chain, error) {
	tokens, _ := Tokenize(input)
	return ParseTokens(tokens)
}

// ParseTokens parses a token stream into a validated Chain. It returns a
// *ParseError on malformed input and a *ValidationError when the resulting
// tree violates a structural invariant. There is no partial result: any
// error means compilation stopped entirely.
func ParseTokens(tokens []Token) (*Chain, error) {
	if len(tokens) == 0 {
		return nil, parseErrorf(-1, "empty chain expression")
	}
	p := &treeParser{tokens: tokens}
	root, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t != nil {
		return nil, parseErrorf(t.Pos, "unexpected trailing token %q", t.Value)
	}
	chain := &Chain{Root: root}
	if err := Validate(chain); err != nil {
		return nil, err
	}
	return chain, nil
}

type treeParser struct {
	tokens []Token
	pos    int
}

func (p *treeParser) peek() *Token {
	if p.pos < len(p.tokens) {
		return &p.tokens[p.pos]
	}
	return nil
}

func (p *treeParser) advance() Token {
	t := p.tokens[p.pos]
	p.pos++
	return t
}

// parseExpression consumes operators whose precedence is at least minPrec,
// building nodes left to right.
func (p *treeParser) parseExpression(minPrec int) (Node, error) {
	left, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	for {
		t := p.peek()
		if t == nil || t.Kind != TokenOperator {
			return left, nil
		}
		prec, ok := precedence[t.Value]
		if !ok || prec < minPrec {
			return left, nil
		}
		op := p.advance()

		if op.Value == "?" {
			left, err = p.parseConditional(left)
		} else {
			left, err = p.parseBinary(left, op, prec)
		}
		if err != nil {
			return nil, err
		}
	}
}

// parseConditional handles "cond ? true : false". The "?" has already been
// consumed; a literal ":" must separate the branches.
func (p *treeParser) parseConditional(cond Node) (Node, error) {
	trueBranch, err := p.parseExpression(precConditional)
	if err != nil {
		return nil, err
	}
	t := p.peek()
	if t == nil || t.Kind != TokenOperator || t.Value != ":" {
		pos := -1
		if t != nil {
			pos = t.Pos
		}
		return nil, parseErrorf(pos, `missing ":" after "?" true branch`)
	}
	p.advance()
	falseBranch, err := p.parseExpression(precConditional)
	if err != nil {
		return nil, err
	}
	return &Conditional{Condition: cond, True: trueBranch, False: falseBranch}, nil
}

func (p *treeParser) parseBinary(left Node, op Token, prec int) (Node, error) {
	right, err := p.parseExpression(prec + 1)
	if err != nil {
		return nil, err
	}

	switch op.Value {
	case ">>":
		return &Sequential{Nodes: flatten(KindSequential, left, right)}, nil
	case "||":
		return &Parallel{Nodes: flatten(KindParallel, left, right)}, nil
	case "|>":
		return &Pipe{From: left, To: right}, nil
	case "&":
		return &Background{Background: left, Foreground: right}, nil
	default:
		return nil, parseErrorf(op.Pos, "unexpected operator %q", op.Value)
	}
}

func (p *treeParser) parsePrimary() (Node, error) {
	t := p.peek()
	if t == nil {
		return nil, parseErrorf(-1, "unexpected end of chain expression")
	}

	switch t.Kind {
	case TokenCommand:
		p.advance()
		return &Command{Name: t.Value, Args: t.Args}, nil

	case TokenGroupOpen:
		open := p.advance()
		inner, err := p.parseExpression(0)
		if err != nil {
			return nil, err
		}
		c := p.peek()
		if c == nil || c.Kind != TokenGroupClose {
			return nil, parseErrorf(open.Pos, "unbalanced group: missing closing parenthesis")
		}
		p.advance()
		return inner, nil

	case TokenGroupClose:
		return nil, parseErrorf(t.Pos, "unbalanced group: unexpected closing parenthesis")

	default:
		return nil, parseErrorf(t.Pos, "unexpected token %q", t.Value)
	}
}

// flatten splices same-kind children so "a >> b >> c" stays one n-ary node
// instead of nesting binary nodes. Both sides are spliced, so parenthesized
// same-operator groups collapse too.
func flatten(kind NodeKind, left, right Node) []Node {
	var nodes []Node
	nodes = append(nodes, splice(kind, left)...)
	nodes = append(nodes, splice(kind, right)...)
	return nodes
}

func splice(kind NodeKind, n Node) []Node {
	switch v := n.(type) {
	case *Sequential:
		if kind == KindSequential {
			return v.Nodes
		}
	case *Parallel:
		if kind == KindParallel {
			return v.Nodes
		}
	}
	return []Node{n}
}
