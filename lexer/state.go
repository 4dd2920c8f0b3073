// Package lexer implements Oak's lexer runtime: a streaming, cache-friendly
// tokenizer state object that a grammar adaptor drives (specification
// §4.3). It is grounded on internal/ictiobus/lex's lazyLex/regexReader
// design in the teacher repository, re-expressed over an in-memory
// source.Source for random-access peeking rather than a buffered io.Reader,
// and generalized from the teacher's single concrete lexer to a runtime any
// grammar's token alphabet can drive.
package lexer

import (
	"fmt"

	"github.com/dekarrin/oak/diag"
	"github.com/dekarrin/oak/lang"
	"github.com/dekarrin/oak/source"
	"github.com/dekarrin/oak/tokenstream"
)

// Cache is an opaque, reusable scratch container a caller may pass across
// parses of the same language to avoid reallocating internal buffers. Its
// only observable effect is performance: two lexes of the same input with
// and without a warm Cache produce identical Tokens and Diagnostics.
type Cache struct {
	tokenCapHint int
}

// NewCache creates an empty Cache.
func NewCache() *Cache {
	return &Cache{tokenCapHint: 64}
}

// State is the tokenizer cursor a grammar's lexer function drives. It holds
// a byte cursor over a source.Source, accumulates emitted tokens, and
// collects diagnostics without ever aborting the scan outright (the dead
// lock guard in AdvanceIfDeadlock is what guarantees this).
type State[T lang.TokenType] struct {
	src         source.Source
	pos         int
	eof         T
	cfg         lang.Config
	tokens      tokenstream.Tokens[T]
	diagnostics []diag.Diagnostic
	lastEnd     int
}

// NewState creates a State positioned at the start of src. eof is the token
// kind AddEOF will use for the sentinel it appends.
func NewState[T lang.TokenType](src source.Source, eof T, cfg lang.Config, cache *Cache) *State[T] {
	capHint := 64
	if cache != nil && cache.tokenCapHint > 0 {
		capHint = cache.tokenCapHint
	}
	return &State[T]{
		src:    src,
		eof:    eof,
		cfg:    cfg.WithDefaults(),
		tokens: make(tokenstream.Tokens[T], 0, capHint),
	}
}

// Peek returns the rune at the cursor without consuming it.
func (s *State[T]) Peek() (rune, bool) {
	r, _, ok := s.src.PeekCharAt(s.pos)
	return r, ok
}

// PeekAt returns the rune at the absolute byte offset i without moving the
// cursor.
func (s *State[T]) PeekAt(i int) (rune, bool) {
	r, _, ok := s.src.PeekCharAt(i)
	return r, ok
}

// PeekNextN returns the next n runes as a string without consuming them. If
// fewer than n runes remain, it returns however many are available.
func (s *State[T]) PeekNextN(n int) string {
	p := s.pos
	for i := 0; i < n; i++ {
		_, size, ok := s.src.PeekCharAt(p)
		if !ok {
			break
		}
		p += size
	}
	return s.src.Slice(s.pos, p)
}

// Advance moves the cursor forward nBytes, clamped to the end of the
// source.
func (s *State[T]) Advance(nBytes int) {
	s.pos += nBytes
	if s.pos > s.src.Length() {
		s.pos = s.src.Length()
	}
}

// StartsWith reports whether the text at the cursor begins with literal,
// without consuming it.
func (s *State[T]) StartsWith(literal string) bool {
	end := s.pos + len(literal)
	if end > s.src.Length() {
		return false
	}
	return s.src.Slice(s.pos, end) == literal
}

// ConsumeIfStartsWith advances past literal and returns true if the text at
// the cursor begins with it, else leaves the cursor unchanged and returns
// false.
func (s *State[T]) ConsumeIfStartsWith(literal string) bool {
	if s.StartsWith(literal) {
		s.Advance(len(literal))
		return true
	}
	return false
}

// TakeWhile greedily consumes runes satisfying predicate and returns the
// consumed text.
func (s *State[T]) TakeWhile(predicate func(rune) bool) string {
	start := s.pos
	for {
		r, size, ok := s.src.PeekCharAt(s.pos)
		if !ok || !predicate(r) {
			break
		}
		s.pos += size
	}
	return s.src.Slice(start, s.pos)
}

// GetPosition returns the cursor's current byte offset.
func (s *State[T]) GetPosition() int {
	return s.pos
}

// SetPosition moves the cursor directly to p.
func (s *State[T]) SetPosition(p int) {
	s.pos = p
}

// GetTextIn returns the source text in the half-open byte range [start,
// end).
func (s *State[T]) GetTextIn(start, end int) string {
	return s.src.Slice(start, end)
}

// Length returns the total number of bytes in the source being lexed.
func (s *State[T]) Length() int {
	return s.src.Length()
}

// SourceID returns the identifier of the source being lexed, for tagging
// diagnostics.
func (s *State[T]) SourceID() string {
	return s.src.SourceID()
}

// AddToken emits a token covering [start, end). Per the contract in
// specification §4.3, start must equal either 0 or the previous token's
// end; per the redesign decision recorded for Open Question 2, a violation
// is not mirrored as undefined behavior but is instead corrected (the span
// is clamped to the expected start) and surfaced as a LexicalError
// diagnostic, so the token stream's non-overlapping-cover invariant always
// holds even when a grammar adaptor's helper misbehaves.
func (s *State[T]) AddToken(kind T, start, end int) {
	expected := s.lastEnd
	if start != expected {
		s.diagnostics = append(s.diagnostics, diag.NewLexicalError(
			start, s.src.SourceID(),
			fmt.Sprintf("non-monotonic token span: expected start %d, got %d", expected, start),
		))
		start = expected
	}
	if end < start {
		end = start
	}
	if end > s.src.Length() {
		end = s.src.Length()
	}
	s.tokens = append(s.tokens, tokenstream.Token[T]{Kind: kind, Start: start, End: end})
	s.lastEnd = end
}

// AddEOF appends the zero-length EOF sentinel token at the end of the
// source.
func (s *State[T]) AddEOF() {
	s.AddToken(s.eof, s.src.Length(), s.src.Length())
}

// AdvanceIfDeadlock enforces forward progress: if the cursor has not moved
// since safePoint, it advances exactly one character and emits a token of
// kind errKind covering it, recording a LexicalError. It returns whether it
// had to intervene.
func (s *State[T]) AdvanceIfDeadlock(safePoint int, errKind T) bool {
	if s.pos != safePoint {
		return false
	}

	start := s.pos
	_, size, ok := s.src.PeekCharAt(s.pos)
	if !ok {
		size = 1
	}
	end := start + size
	if end > s.src.Length() {
		end = s.src.Length()
	}
	s.Advance(size)
	s.AddToken(errKind, start, end)
	s.diagnostics = append(s.diagnostics, diag.NewLexicalError(
		start, s.src.SourceID(), "unrecognized input",
	))
	return true
}

// RecordDiagnostic appends a diagnostic without affecting the cursor or the
// emitted token list, for grammar helpers that detect a problem but can
// still keep scanning (e.g. ScanString on an unterminated literal).
func (s *State[T]) RecordDiagnostic(d diag.Diagnostic) {
	s.diagnostics = append(s.diagnostics, d)
}

// Output is the result of a complete lex: every token produced (including
// the EOF sentinel) and every diagnostic recorded, in encounter order.
type Output[T lang.TokenType] struct {
	Tokens      tokenstream.Tokens[T]
	Diagnostics []diag.Diagnostic
}

// FinishWithCache finalizes the lex. If result is non-nil, it is recorded
// as one final LexicalError at the cursor's current position (used for
// fatal conditions the grammar's driver detects itself, e.g. input that
// isn't valid UTF-8). If cache is non-nil, State deposits a capacity hint
// for the next lex of the same language to reuse.
func (s *State[T]) FinishWithCache(result error, cache *Cache) Output[T] {
	if result != nil {
		s.diagnostics = append(s.diagnostics, diag.NewLexicalError(s.pos, s.src.SourceID(), result.Error()))
	}
	if cache != nil {
		cache.tokenCapHint = len(s.tokens)
	}
	return Output[T]{Tokens: s.tokens, Diagnostics: s.diagnostics}
}
