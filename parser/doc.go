// Package parser compiles chain expressions into executable syntax trees.
//
// A chain expression describes a multi-step workflow as text, for example
// "/sc:analyze >> /sc:fix >> /sc:test" or "/sc:backend || /sc:frontend".
// The package provides a lexer, an operator-precedence parser, a post-parse
// validator, and a canonical printer. Parsed trees are immutable and may be
// executed any number of times.
//
// Operator precedence, tightest to loosest: ?: > |> > || > >> > &.
package parser
