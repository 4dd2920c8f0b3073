package parser

import (
	"testing"

	"github.com/dekarrin/oak/arena"
	"github.com/dekarrin/oak/diag"
	"github.com/dekarrin/oak/incremental"
	"github.com/dekarrin/oak/lang"
	"github.com/dekarrin/oak/source"
	"github.com/dekarrin/oak/tokenstream"
	"github.com/dekarrin/oak/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testTok int

const (
	tokIdent testTok = iota
	tokSpace
	tokPlus
	tokLParen
	tokRParen
	tokComma
	tokEOF
)

func (t testTok) String() string {
	switch t {
	case tokIdent:
		return "Ident"
	case tokSpace:
		return "Space"
	case tokPlus:
		return "Plus"
	case tokLParen:
		return "LParen"
	case tokRParen:
		return "RParen"
	case tokComma:
		return "Comma"
	case tokEOF:
		return "EOF"
	default:
		return "?"
	}
}

func (t testTok) IsIgnored() bool { return t == tokSpace }

type testElem int

const (
	elemCall testElem = iota
	elemExpr
)

func (e testElem) String() string { return "elem" }

func toks(ts ...tokenstream.Token[testTok]) tokenstream.Tokens[testTok] {
	return tokenstream.Tokens[testTok](ts)
}

func tk(kind testTok, start, end int) tokenstream.Token[testTok] {
	return tokenstream.Token[testTok]{Kind: kind, Start: start, End: end}
}

// "a + b", then EOF.
func simpleTokens() tokenstream.Tokens[testTok] {
	return toks(
		tk(tokIdent, 0, 1),
		tk(tokSpace, 1, 2),
		tk(tokPlus, 2, 3),
		tk(tokSpace, 3, 4),
		tk(tokIdent, 4, 5),
		tk(tokEOF, 5, 5),
	)
}

func newTestState(tokens tokenstream.Tokens[testTok], text string) *State[testTok, testElem] {
	a := arena.New()
	src := source.NewText("t", text)
	return NewState[testTok, testElem](tokens, a, src, nil, nil)
}

func Test_NewState_skipsLeadingTrivia(t *testing.T) {
	assert := assert.New(t)

	tokens := toks(
		tk(tokSpace, 0, 1),
		tk(tokIdent, 1, 2),
		tk(tokEOF, 2, 2),
	)
	s := newTestState(tokens, " a")

	// The constructor should have already materialized the leading space
	// into the sink, so the cursor sits on the first significant token.
	kind, ok := s.PeekKind()
	assert.True(ok)
	assert.Equal(tokIdent, kind)
	assert.Equal(1, s.CurrentOffset())
}

func Test_State_Bump_skipsTrailingTriviaAfterConsuming(t *testing.T) {
	assert := assert.New(t)

	s := newTestState(simpleTokens(), "a + b")

	assert.True(s.At(tokIdent))
	s.Bump()

	// Bump should have consumed "a" and then the following space, landing
	// on "+".
	assert.True(s.At(tokPlus))
	assert.Equal(2, s.CurrentOffset())
}

func Test_State_Eat_onlyAdvancesOnMatch(t *testing.T) {
	assert := assert.New(t)

	s := newTestState(simpleTokens(), "a + b")

	assert.False(s.Eat(tokPlus))
	assert.True(s.At(tokIdent)) // untouched

	assert.True(s.Eat(tokIdent))
	assert.True(s.At(tokPlus))
}

func Test_State_Expect_recordsDiagnosticOnMismatch(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	s := newTestState(simpleTokens(), "a + b")

	assert.False(s.Expect(tokComma, "','"))
	require.Len(s.Diagnostics(), 1)
	assert.ErrorIs(s.Diagnostics()[0], diag.ErrExpectedToken)

	// A failed Expect does not consume the mismatched token.
	assert.True(s.At(tokIdent))
}

func Test_State_CheckpointFinishAt_wrapsConsumedChildrenIntoOneNode(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	s := newTestState(simpleTokens(), "a + b")

	cp := s.Checkpoint()
	s.Bump() // "a" + trailing space
	s.Bump() // "+" + trailing space
	s.Bump() // "b"
	node := s.FinishAt(cp, elemExpr)

	require.NotNil(node)
	assert.Equal(elemExpr, node.Kind)
	assert.Equal(uint32(5), node.TextLen())

	// The sink's stack should now hold exactly the one finished node: the
	// invariant that FinishNode leaves stack length at checkpoint+1.
	assert.Equal(1, s.sink.Checkpoint())
}

func Test_State_Restore_undoesSpeculativeConsumption(t *testing.T) {
	assert := assert.New(t)

	s := newTestState(simpleTokens(), "a + b")

	cp := s.Checkpoint()
	s.Bump()
	s.Bump()
	assert.True(s.At(tokIdent)) // now on "b"

	s.Restore(cp)

	assert.True(s.At(tokIdent)) // back on "a"
	assert.Equal(0, s.CurrentOffset())
	assert.Equal(0, s.sink.Checkpoint()) // nothing left in the sink either
}

func Test_State_TryParse_restoresOnError(t *testing.T) {
	assert := assert.New(t)

	s := newTestState(simpleTokens(), "a + b")

	err := s.TryParse(func(inner *State[testTok, testElem]) error {
		inner.Bump()
		inner.Bump()
		return assert.AnError
	})

	assert.Error(err)
	assert.True(s.At(tokIdent)) // fully restored
	assert.Equal(0, s.sink.Checkpoint())
}

func Test_State_TryParse_keepsEffectsOnSuccess(t *testing.T) {
	assert := assert.New(t)

	s := newTestState(simpleTokens(), "a + b")

	err := s.TryParse(func(inner *State[testTok, testElem]) error {
		inner.Bump()
		return nil
	})

	assert.NoError(err)
	assert.True(s.At(tokPlus))
}

func Test_State_AdvanceUntil_stopsAtTargetOrEnd(t *testing.T) {
	assert := assert.New(t)

	s := newTestState(simpleTokens(), "a + b")
	s.AdvanceUntil(tokPlus)
	assert.True(s.At(tokPlus))

	// Advancing toward a kind that never appears, including one the EOF
	// sentinel itself never matches, consumes the rest of the stream
	// (the EOF token included) without panicking.
	s.AdvanceUntil(tokComma)
	assert.True(s.tokens.IsEnd())
	_, ok := s.PeekKind()
	assert.False(ok)
}

func Test_State_AdvanceUntilAny_stopsAtFirstMatch(t *testing.T) {
	assert := assert.New(t)

	s := newTestState(simpleTokens(), "a + b")
	s.AdvanceUntilAny([]testTok{tokPlus, tokComma})
	assert.True(s.At(tokPlus))
}

func Test_State_PeekNonTriviaKindAt_skipsIgnoredTokens(t *testing.T) {
	assert := assert.New(t)

	s := newTestState(simpleTokens(), "a + b")

	// index 0 is the current token itself ("a"); index 1 should be "+",
	// skipping the intervening space.
	k0, ok0 := s.PeekNonTriviaKindAt(0)
	k1, ok1 := s.PeekNonTriviaKindAt(1)
	require := require.New(t)
	require.True(ok0)
	require.True(ok1)
	assert.Equal(tokIdent, k0)
	assert.Equal(tokPlus, k1)
}

func Test_State_Nested_hasIndependentCursorAndSink(t *testing.T) {
	assert := assert.New(t)

	s := newTestState(simpleTokens(), "a + b")
	s.Bump() // advance the outer state past "a"

	innerTokens := toks(tk(tokIdent, 0, 1), tk(tokEOF, 1, 1))
	inner := s.Nested(innerTokens)

	assert.True(inner.At(tokIdent))
	assert.True(s.At(tokPlus)) // outer cursor unaffected by building inner

	inner.Bump()
	assert.True(s.At(tokPlus)) // still unaffected
}

func Test_State_RecordTrailingCommaAt_usesGivenOffsetNotCursor(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	tokens := toks(
		tk(tokComma, 4, 5),
		tk(tokRParen, 5, 6),
		tk(tokEOF, 6, 6),
	)
	s := newTestState(tokens, "f(1,)")

	commaOffset := s.CurrentOffset() // 4
	s.Bump()                         // consume the comma, cursor now on ')'
	s.RecordTrailingCommaAt(commaOffset)

	require.Len(s.Diagnostics(), 1)
	assert.ErrorIs(s.Diagnostics()[0], diag.ErrTrailingCommaNotAllowed)

	var d diag.Diagnostic
	for _, diagnostic := range s.Diagnostics() {
		d = diagnostic
	}
	assert.Equal(commaOffset, d.Offset)
}

func Test_Finish_nilRootProducesSyntaxErrorOutput(t *testing.T) {
	assert := assert.New(t)

	s := newTestState(simpleTokens(), "a + b")
	out := Finish[testTok, testElem](s, nil)

	assert.Nil(out.Root)
	assert.Error(out.Err)
}

func Test_Finish_nonNilRootCarriesDiagnostics(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	s := newTestState(simpleTokens(), "a + b")
	s.RecordSyntaxError("bad thing")

	cp := s.Checkpoint()
	s.Bump()
	node := s.FinishAt(cp, elemExpr)

	out := Finish[testTok, testElem](s, node)
	require.NotNil(out.Root)
	assert.NoError(out.Err)
	require.Len(out.Diagnostics, 1)
}

func Test_State_TryReuseNode_falseWithoutIncrementalContext(t *testing.T) {
	assert := assert.New(t)

	s := newTestState(simpleTokens(), "a + b")
	assert.False(s.TryReuseNode(elemExpr))
}

func buildLeafNode(a *arena.Arena, kind testElem, tokKind testTok, length int) *tree.GreenNode[testTok, testElem] {
	children := []tree.GreenChild[testTok, testElem]{
		tree.ChildLeaf[testTok, testElem](tree.NewLeaf(tokKind, uint32(length))),
	}
	return arena.Alloc(a, tree.New(kind, children))
}

func Test_State_TryReuseNode_pushesReusedNodeAndAdvancesCursor(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	oldArena := arena.New()
	oldRoot := buildLeafNode(oldArena, elemExpr, tokIdent, 1)

	ctx := incremental.NewContext[testTok, testElem](oldRoot, nil, lang.Config{})

	tokens := toks(tk(tokIdent, 0, 1), tk(tokEOF, 1, 1))
	a := arena.New()
	src := source.NewText("t", "a")
	s := NewState[testTok, testElem](tokens, a, src, nil, ctx)

	ok := s.TryReuseNode(elemExpr)
	require.True(ok)

	// The cursor should have advanced past the reused token onto EOF.
	kind, peekOk := s.PeekKind()
	require.True(peekOk)
	assert.Equal(tokEOF, kind)
}
