// Package tokenstream holds the finite ordered sequence of tokens a lexer
// produces (specification §3.6) and the random-access Source view the
// parser runtime drives over that sequence (specification §4.4). It is
// grounded on internal/ictiobus/parse/lr.go's token-index bookkeeping in the
// teacher repository, generalized from an LR parser's single linear scan to
// the backtrackable indexed access Oak's checkpoint/restore model needs.
package tokenstream

import "github.com/dekarrin/oak/lang"

// Token is a single lexed unit: a kind and a half-open byte span within the
// source. Trivia tokens (TokenType.IsIgnored) are included in the stream
// like any other token.
type Token[T lang.TokenType] struct {
	Kind  T
	Start int
	End   int
}

// Len returns the number of bytes this token covers.
func (t Token[T]) Len() int {
	return t.End - t.Start
}

// Tokens is the ordered, finite token sequence a lexer produces for one
// source. Spans are non-decreasing in Start, non-overlapping, and
// collectively cover [0, length) exactly; an EOF sentinel (a zero-length
// token at length) is always the last entry.
type Tokens[T lang.TokenType] []Token[T]

// Get returns the token at i and true, or the zero value and false if i is
// out of range.
func (ts Tokens[T]) Get(i int) (Token[T], bool) {
	if i < 0 || i >= len(ts) {
		var zero Token[T]
		return zero, false
	}
	return ts[i], true
}

// Source is a random-access, backtrackable cursor over a Tokens sequence.
// It is the TokenSource a parser.State drives: Current/PeekAt never move
// the cursor, Advance/SetIndex do, matching the checkpoint/restore model in
// package parser.
type Source[T lang.TokenType] struct {
	tokens Tokens[T]
	index  int
}

// NewSource creates a Source positioned at the first token.
func NewSource[T lang.TokenType](tokens Tokens[T]) *Source[T] {
	return &Source[T]{tokens: tokens}
}

// Current returns the token at the cursor's position, or false if IsEnd.
func (s *Source[T]) Current() (Token[T], bool) {
	return s.tokens.Get(s.index)
}

// PeekAt returns the token offset tokens ahead of the cursor without moving
// it.
func (s *Source[T]) PeekAt(offset int) (Token[T], bool) {
	return s.tokens.Get(s.index + offset)
}

// Advance moves the cursor to the next token.
func (s *Source[T]) Advance() {
	s.index++
}

// Index returns the cursor's current position.
func (s *Source[T]) Index() int {
	return s.index
}

// SetIndex moves the cursor directly to i, used by checkpoint restore.
func (s *Source[T]) SetIndex(i int) {
	s.index = i
}

// IsEnd reports whether the cursor has advanced past the last token
// (including the EOF sentinel).
func (s *Source[T]) IsEnd() bool {
	return s.index >= len(s.tokens)
}

// Len returns the total number of tokens, including the EOF sentinel.
func (s *Source[T]) Len() int {
	return len(s.tokens)
}

// All returns the full underlying token sequence.
func (s *Source[T]) All() Tokens[T] {
	return s.tokens
}
