package parser

import (
	"github.com/dekarrin/oak/arena"
	"github.com/dekarrin/oak/diag"
	"github.com/dekarrin/oak/incremental"
	"github.com/dekarrin/oak/lang"
	"github.com/dekarrin/oak/source"
	"github.com/dekarrin/oak/tokenstream"
	"github.com/dekarrin/oak/tree"
)

// Checkpoint marks a position in both the token source and the sink that
// Restore or FinishAt can later return to. It is opaque; grammar code should
// only ever obtain one from State.Checkpoint and pass it back to
// State.Restore or State.FinishAt.
type Checkpoint struct {
	tokenIdx int
	sinkIdx  int
}

// State is the aggregate a grammar's recursive descent production functions
// drive: a backtrackable token source, a tree sink, an optional incremental
// reuse context, and the diagnostics accumulated so far. It is grounded on
// original_source/projects/oak-core/src/parser/state.rs's ParserState and on
// internal/ictiobus/parse/ll1.go's parser loop in the teacher repository,
// generalized to the checkpoint/restore/incremental-reuse model specification
// §4.6 requires.
type State[T lang.TokenType, E lang.ElementType] struct {
	tokens      *tokenstream.Source[T]
	sink        *Sink[T, E]
	src         source.Source
	incr        *incremental.Context[T, E]
	diagnostics []diag.Diagnostic
}

// NewState creates a State over tokens, with green output allocated in a.
// lexDiagnostics (typically lexer.Output.Diagnostics) seed the returned
// State's diagnostics, per the constructor contract in specification §4.6.
// incr may be nil, disabling incremental reuse for this parse. Per that same
// contract, NewState immediately materializes any leading trivia into the
// sink before returning, so a grammar's first production function always
// sees a significant token (or EOF) at the cursor.
func NewState[T lang.TokenType, E lang.ElementType](
	tokens tokenstream.Tokens[T],
	a *arena.Arena,
	src source.Source,
	lexDiagnostics []diag.Diagnostic,
	incr *incremental.Context[T, E],
) *State[T, E] {
	s := &State[T, E]{
		tokens:      tokenstream.NewSource(tokens),
		sink:        NewSink[T, E](a, len(tokens)),
		src:         src,
		incr:        incr,
		diagnostics: append([]diag.Diagnostic(nil), lexDiagnostics...),
	}
	s.skipTrivia()
	return s
}

// Arena returns the arena backing this state's sink.
func (s *State[T, E]) Arena() *arena.Arena {
	return s.sink.Arena()
}

// Source returns the source text being parsed.
func (s *State[T, E]) Source() source.Source {
	return s.src
}

// Diagnostics returns every diagnostic recorded so far, in encounter order.
func (s *State[T, E]) Diagnostics() []diag.Diagnostic {
	return s.diagnostics
}

func (s *State[T, E]) skipTrivia() {
	for {
		tok, ok := s.tokens.Current()
		if !ok || !tok.Kind.IsIgnored() {
			return
		}
		s.sink.PushLeaf(tok.Kind, tok.Len())
		s.tokens.Advance()
	}
}

func (s *State[T, E]) currentOffset() int {
	if tok, ok := s.tokens.Current(); ok {
		return tok.Start
	}
	return s.src.Length()
}

// CurrentOffset returns the byte offset of the current (always significant)
// token, or the source length at end of stream. Grammar code uses it to
// capture a precise diagnostic location before bumping past the token in
// question, e.g. a trailing comma whose own offset must be reported rather
// than the offset of whatever follows it.
func (s *State[T, E]) CurrentOffset() int {
	return s.currentOffset()
}

// PeekKind returns the kind of the current (always significant, per the
// trivia-skipping invariant) token, or false at end of stream.
func (s *State[T, E]) PeekKind() (T, bool) {
	tok, ok := s.tokens.Current()
	if !ok {
		var zero T
		return zero, false
	}
	return tok.Kind, true
}

// At reports whether the current token has the given kind.
func (s *State[T, E]) At(kind T) bool {
	k, ok := s.PeekKind()
	return ok && k == kind
}

// NotAt is the negation of At.
func (s *State[T, E]) NotAt(kind T) bool {
	return !s.At(kind)
}

// PeekKindAt returns the kind of the token n positions ahead of the cursor in
// the raw (trivia-inclusive) token stream, or false if that position does
// not exist.
func (s *State[T, E]) PeekKindAt(n int) (T, bool) {
	tok, ok := s.tokens.PeekAt(n)
	if !ok {
		var zero T
		return zero, false
	}
	return tok.Kind, true
}

// PeekNonTriviaKindAt returns the kind of the nth significant (non-trivia)
// token at or after the cursor, counting the current token as index 0, or
// false if the stream ends first. It does not move the cursor.
func (s *State[T, E]) PeekNonTriviaKindAt(n int) (T, bool) {
	seen := 0
	for i := 0; ; i++ {
		tok, ok := s.tokens.PeekAt(i)
		if !ok {
			var zero T
			return zero, false
		}
		if tok.Kind.IsIgnored() {
			continue
		}
		if seen == n {
			return tok.Kind, true
		}
		seen++
	}
}

// Bump consumes the current token into the sink as a leaf and advances past
// any trivia that follows, restoring the invariant that the cursor always
// sits on a significant token or EOF. It is a no-op at end of stream.
func (s *State[T, E]) Bump() {
	tok, ok := s.tokens.Current()
	if !ok {
		return
	}
	s.sink.PushLeaf(tok.Kind, tok.Len())
	s.tokens.Advance()
	s.skipTrivia()
}

// BumpWithMetadata is Bump but records provenance for the consumed token,
// for leaves a grammar wants to recover the exact source text of later (e.g.
// a numeric literal's original spelling).
func (s *State[T, E]) BumpWithMetadata(provenance arena.TokenProvenance) {
	tok, ok := s.tokens.Current()
	if !ok {
		return
	}
	s.sink.PushLeafWithMetadata(tok.Kind, tok.Len(), provenance)
	s.tokens.Advance()
	s.skipTrivia()
}

// Eat bumps and returns true if the current token has the given kind, else
// leaves the cursor untouched and returns false.
func (s *State[T, E]) Eat(kind T) bool {
	if s.At(kind) {
		s.Bump()
		return true
	}
	return false
}

// Expect is Eat, additionally recording an ExpectedToken diagnostic at the
// current offset (using expectedName as the human-readable description) on
// failure.
func (s *State[T, E]) Expect(kind T, expectedName string) bool {
	if s.Eat(kind) {
		return true
	}
	s.diagnostics = append(s.diagnostics, diag.NewExpectedToken(s.currentOffset(), s.src.SourceID(), expectedName))
	return false
}

// AdvanceUntil bumps tokens until the cursor reaches kind or end of stream,
// the standard error-recovery idiom for resynchronizing to a known
// delimiter.
func (s *State[T, E]) AdvanceUntil(kind T) {
	for !s.tokens.IsEnd() && s.NotAt(kind) {
		s.Bump()
	}
}

// AdvanceUntilAny is AdvanceUntil generalized to a set of resynchronization
// points.
func (s *State[T, E]) AdvanceUntilAny(kinds []T) {
	for !s.tokens.IsEnd() {
		cur, ok := s.PeekKind()
		if !ok {
			return
		}
		for _, k := range kinds {
			if cur == k {
				return
			}
		}
		s.Bump()
	}
}

// Checkpoint captures the current position so a later Restore or FinishAt
// can return to it.
func (s *State[T, E]) Checkpoint() Checkpoint {
	return Checkpoint{tokenIdx: s.tokens.Index(), sinkIdx: s.sink.Checkpoint()}
}

// Restore rewinds both the token cursor and the sink to cp, discarding any
// tokens consumed and nodes built since. Used to abandon a speculative
// parse.
func (s *State[T, E]) Restore(cp Checkpoint) {
	s.tokens.SetIndex(cp.tokenIdx)
	s.sink.Restore(cp.sinkIdx)
}

// FinishAt slices every sink entry pushed since cp into a new node of the
// given kind, per Sink.FinishNode. Unlike Restore it does not touch the
// token cursor: the tokens already consumed remain consumed, now covered by
// the finished node.
func (s *State[T, E]) FinishAt(cp Checkpoint, kind E) *tree.GreenNode[T, E] {
	return s.sink.FinishNode(cp.sinkIdx, kind)
}

// TryParse runs f speculatively: if f returns a non-nil error, State is
// restored to its position before the call and the error is returned
// unchanged; otherwise the call's effects on tokens and sink stand.
func (s *State[T, E]) TryParse(f func(*State[T, E]) error) error {
	cp := s.Checkpoint()
	if err := f(s); err != nil {
		s.Restore(cp)
		return err
	}
	return nil
}

// Nested creates a fresh State over a different token stream (e.g. one
// produced by re-lexing a string literal's contents as an embedded
// sub-language) that shares this State's arena and source text but has its
// own independent cursor, sink, and diagnostics. Incremental reuse is never
// attempted inside a nested parse: specification §4.8 scopes the reuse
// protocol to a single top-level generation.
func (s *State[T, E]) Nested(tokens tokenstream.Tokens[T]) *State[T, E] {
	nested := &State[T, E]{
		tokens: tokenstream.NewSource(tokens),
		sink:   NewSink[T, E](s.sink.Arena(), len(tokens)),
		src:    s.src,
	}
	nested.skipTrivia()
	return nested
}

// TryReuseNode asks this State's incremental context (if any) to graft an
// old subtree of the given kind at the cursor's current position. On
// success it pushes the reused node directly onto the sink, advances the
// token cursor past the tokens it covers, skips any trivia that follows, and
// returns true; the caller's production function should treat this as
// having fully produced the node and return without a Checkpoint/FinishAt
// pair of its own. On failure (no incremental context, or the reuse
// protocol declines) it leaves all state untouched and returns false, and
// the caller should fall back to its normal parse.
func (s *State[T, E]) TryReuseNode(kind E) bool {
	if s.incr == nil {
		return false
	}
	tok, ok := s.tokens.Current()
	if !ok {
		return false
	}
	node, count, ok := s.incr.TryReuse(tok.Start, kind, s.tokens, s.sink.Arena())
	if !ok {
		return false
	}
	s.sink.PushNode(node)
	for i := 0; i < count; i++ {
		s.tokens.Advance()
	}
	s.skipTrivia()
	return true
}

// RecordUnexpectedToken records an UnexpectedToken diagnostic at the current
// offset describing what was found.
func (s *State[T, E]) RecordUnexpectedToken(found string) {
	s.diagnostics = append(s.diagnostics, diag.NewUnexpectedToken(s.currentOffset(), s.src.SourceID(), found))
}

// RecordExpectedName records an ExpectedName diagnostic at the current
// offset for the given name class (e.g. "identifier").
func (s *State[T, E]) RecordExpectedName(nameClass string) {
	s.diagnostics = append(s.diagnostics, diag.NewExpectedName(s.currentOffset(), s.src.SourceID(), nameClass))
}

// RecordTrailingComma records a TrailingCommaNotAllowed diagnostic at the
// current offset (the comma a grammar that forbids trailing commas just
// rejected).
func (s *State[T, E]) RecordTrailingComma() {
	s.diagnostics = append(s.diagnostics, diag.NewTrailingComma(s.currentOffset(), s.src.SourceID()))
}

// RecordTrailingCommaAt records a TrailingCommaNotAllowed diagnostic at the
// given offset, for grammars that must report the comma's own position
// rather than wherever the cursor has since moved to.
func (s *State[T, E]) RecordTrailingCommaAt(offset int) {
	s.diagnostics = append(s.diagnostics, diag.NewTrailingComma(offset, s.src.SourceID()))
}

// RecordUnexpectedEof records an UnexpectedEof diagnostic at the current
// offset.
func (s *State[T, E]) RecordUnexpectedEof() {
	s.diagnostics = append(s.diagnostics, diag.NewUnexpectedEof(s.currentOffset(), s.src.SourceID()))
}

// RecordSyntaxError records a catch-all SyntaxError diagnostic at the
// current offset.
func (s *State[T, E]) RecordSyntaxError(message string) {
	s.diagnostics = append(s.diagnostics, diag.NewSyntaxError(s.currentOffset(), s.src.SourceID(), message))
}

// Finish packages a completed (possibly partial) parse into a
// diag.ParseOutput, attaching every diagnostic State has accumulated. root
// should be nil only when the grammar's entry production genuinely produced
// nothing, e.g. empty input a language treats as an error rather than an
// empty valid tree.
func Finish[T lang.TokenType, E lang.ElementType](s *State[T, E], root *tree.GreenNode[T, E]) diag.ParseOutput[T, E] {
	if root == nil {
		return diag.ParseOutput[T, E]{
			Err:         diag.NewSyntaxError(0, s.src.SourceID(), "parser produced no tree"),
			Diagnostics: s.diagnostics,
		}
	}
	return diag.ParseOutput[T, E]{Root: root, Diagnostics: s.diagnostics}
}
