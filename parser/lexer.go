package parser

import (
	"fmt"
	"unicode"
)

// Diagnostic reports input that the lexer skipped. Tokenize never fails;
// characters that match nothing are dropped, but each dropped run is recorded
// so callers can surface malformed input instead of losing it silently.
type Diagnostic struct {
	Pos  int
	Text string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("skipped %q at position %d", d.Text, d.Pos)
}

// operators ordered longest-first so two-character matches win.
var operators = []string{">>", "||", "|>", "&", "?", ":"}

// Tokenize converts a chain expression into a flat token stream. It never
// returns an error: anything that is not a command, operator, or group
// delimiter is skipped and reported as a Diagnostic.
func Tokenize(input string) ([]Token, []Diagnostic) {
	var (
		tokens []Token
		diags  []Diagnostic
	)
	runes := []rune(input)
	i := 0

	for i < len(runes) {
		if unicode.IsSpace(runes[i]) {
			i++
			continue
		}

		if name, n := matchCommand(runes, i); n > 0 {
			tok := Token{Kind: TokenCommand, Value: name, Pos: i}
			i += n
			// Greedily attach whitespace-delimited words as arguments until
			// the next operator, command, or group delimiter.
			for {
				j := skipSpace(runes, i)
				if j >= len(runes) || isBoundary(runes, j) {
					i = j
					break
				}
				word, n := readWord(runes, j)
				tok.Args = append(tok.Args, word)
				i = j + n
			}
			tokens = append(tokens, tok)
			continue
		}

		if op, n := matchOperator(runes, i); n > 0 {
			tokens = append(tokens, Token{Kind: TokenOperator, Value: op, Pos: i})
			i += n
			continue
		}

		if runes[i] == '(' {
			tokens = append(tokens, Token{Kind: TokenGroupOpen, Value: "(", Pos: i})
			i++
			continue
		}
		if runes[i] == ')' {
			tokens = append(tokens, Token{Kind: TokenGroupClose, Value: ")", Pos: i})
			i++
			continue
		}

		// Unmatched input: coalesce the run up to the next recognizable
		// token into a single diagnostic.
		start := i
		for i < len(runes) && !unicode.IsSpace(runes[i]) && !isBoundary(runes, i) {
			if _, n := matchCommand(runes, i); n > 0 {
				break
			}
			i++
		}
		if i == start {
			i++
		}
		diags = append(diags, Diagnostic{Pos: start, Text: string(runes[start:i])})
	}

	return tokens, diags
}

// matchCommand matches "/namespace:identifier" at position i and returns the
// matched text and its rune length, or 0 when there is no match.
func matchCommand(runes []rune, i int) (string, int) {
	start := i
	if i >= len(runes) || runes[i] != '/' {
		return "", 0
	}
	i++
	ns := i
	for i < len(runes) && isIdentRune(runes[i]) {
		i++
	}
	if i == ns || i >= len(runes) || runes[i] != ':' {
		return "", 0
	}
	i++
	id := i
	for i < len(runes) && isIdentRune(runes[i]) {
		i++
	}
	if i == id {
		return "", 0
	}
	return string(runes[start:i]), i - start
}

func matchOperator(runes []rune, i int) (string, int) {
	rest := string(runes[i:])
	for _, op := range operators {
		if len(rest) >= len(op) && rest[:len(op)] == op {
			return op, len(op)
		}
	}
	return "", 0
}

// isBoundary reports whether position i starts an operator, a command, or a
// group delimiter. Argument collection stops at boundaries.
func isBoundary(runes []rune, i int) bool {
	if i >= len(runes) {
		return true
	}
	if runes[i] == '(' || runes[i] == ')' {
		return true
	}
	if _, n := matchOperator(runes, i); n > 0 {
		return true
	}
	if _, n := matchCommand(runes, i); n > 0 {
		return true
	}
	return false
}

func skipSpace(runes []rune, i int) int {
	for i < len(runes) && unicode.IsSpace(runes[i]) {
		i++
	}
	return i
}

// readWord reads one whitespace-delimited argument word. Per the grammar an
// argument is any word that does not *start* an operator, command, or group;
// operator characters inside a word (e.g. "key:value") belong to the word.
func readWord(runes []rune, i int) (string, int) {
	start := i
	for i < len(runes) && !unicode.IsSpace(runes[i]) && runes[i] != '(' && runes[i] != ')' {
		i++
	}
	return string(runes[start:i]), i - start
}

func isIdentRune(ch rune) bool {
	return unicode.IsLetter(ch) || unicode.IsDigit(ch) || ch == '_' || ch == '-'
}
