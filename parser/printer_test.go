package parser

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestString_Canonical(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"/sc:a>>/sc:b", "/sc:a >> /sc:b"},
		{"/sc:a --deep >> /sc:b", "/sc:a --deep >> /sc:b"},
		{"(/sc:a || /sc:b) >> /sc:c", "(/sc:a || /sc:b) >> /sc:c"},
		{"/sc:a ? /sc:b : /sc:c", "/sc:a ? /sc:b : /sc:c"},
		{"/sc:a & /sc:b", "/sc:a & /sc:b"},
		{"/sc:a |> /sc:b", "/sc:a |> /sc:b"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			chain, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, chain.String())
		})
	}
}

// TestString_ReparseIdempotent checks that parsing the canonical form of any
// parsed input yields an identical tree.
func TestString_ReparseIdempotent(t *testing.T) {
	inputs := []string{
		"/sc:a >> /sc:b >> /sc:c >> /sc:d",
		"/sc:a || /sc:b || /sc:c",
		"/sc:a --x v1 >> (/sc:b || /sc:c --y) & /sc:d",
		"(/sc:a ? /sc:b : /sc:c) |> /sc:d",
		"/sc:a |> /sc:b ? /sc:c : /sc:d >> /sc:e",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			first, err := Parse(input)
			require.NoError(t, err)
			second, err := Parse(first.String())
			require.NoError(t, err)
			assert.Equal(t, first, second)
			assert.Equal(t, first.String(), second.String())
		})
	}
}

// TestProperty_RoundTrip generates random well-formed trees, prints them,
// and reparses: the result must be structurally identical.
func TestProperty_RoundTrip(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		root := genNode(rt, 0, KindChain)
		chain := &Chain{Root: root}
		require.NoError(rt, Validate(chain))

		reparsed, err := Parse(chain.String())
		require.NoError(rt, err, "canonical form %q must reparse", chain.String())
		assert.Equal(rt, chain, reparsed)
	})
}

// TestProperty_SequentialFlattening checks that chains built only from ">>"
// always collapse into a single n-ary node, and symmetrically for "||".
func TestProperty_SequentialFlattening(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(2, 8).Draw(rt, "children")
		op := rapid.SampledFrom([]string{">>", "||"}).Draw(rt, "op")

		input := ""
		for i := 0; i < n; i++ {
			if i > 0 {
				input += " " + op + " "
			}
			input += fmt.Sprintf("/ns:c%d", i)
		}

		chain, err := Parse(input)
		require.NoError(rt, err)

		switch op {
		case ">>":
			seq, ok := chain.Root.(*Sequential)
			require.True(rt, ok)
			assert.Len(rt, seq.Nodes, n)
		case "||":
			par, ok := chain.Root.(*Parallel)
			require.True(rt, ok)
			assert.Len(rt, par.Nodes, n)
		}
	})
}

// genNode draws a random canonical tree. parentKind prevents generating a
// sequential directly under a sequential (or parallel under parallel), which
// the parser would flatten away.
func genNode(rt *rapid.T, depth int, parentKind NodeKind) Node {
	if depth >= 3 {
		return genCommand(rt)
	}

	kinds := []NodeKind{KindCommand, KindCommand, KindConditional, KindPipe, KindBackground}
	if parentKind != KindSequential {
		kinds = append(kinds, KindSequential)
	}
	if parentKind != KindParallel {
		kinds = append(kinds, KindParallel)
	}

	switch rapid.SampledFrom(kinds).Draw(rt, "kind") {
	case KindSequential:
		return &Sequential{Nodes: genChildren(rt, depth, KindSequential)}
	case KindParallel:
		return &Parallel{Nodes: genChildren(rt, depth, KindParallel)}
	case KindConditional:
		return &Conditional{
			Condition: genNode(rt, depth+1, KindConditional),
			True:      genNode(rt, depth+1, KindConditional),
			False:     genNode(rt, depth+1, KindConditional),
		}
	case KindPipe:
		return &Pipe{
			From: genNode(rt, depth+1, KindPipe),
			To:   genNode(rt, depth+1, KindPipe),
		}
	case KindBackground:
		return &Background{
			Background: genNode(rt, depth+1, KindBackground),
			Foreground: genNode(rt, depth+1, KindBackground),
		}
	default:
		return genCommand(rt)
	}
}

func genChildren(rt *rapid.T, depth int, kind NodeKind) []Node {
	n := rapid.IntRange(2, 4).Draw(rt, "n")
	nodes := make([]Node, n)
	for i := range nodes {
		nodes[i] = genNode(rt, depth+1, kind)
	}
	return nodes
}

func genCommand(rt *rapid.T) *Command {
	name := "/" + rapid.StringMatching(`[a-z]{2,4}`).Draw(rt, "ns") +
		":" + rapid.StringMatching(`[a-z]{2,8}`).Draw(rt, "id")
	cmd := &Command{Name: name}
	nargs := rapid.IntRange(0, 3).Draw(rt, "nargs")
	for i := 0; i < nargs; i++ {
		cmd.Args = append(cmd.Args, rapid.StringMatching(`--?[a-z0-9]{1,6}`).Draw(rt, "arg"))
	}
	return cmd
}
