package incremental

import (
	"testing"

	"github.com/dekarrin/oak/arena"
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
	tokLParen
	tokRParen
	tokLBrace
	tokRBrace
	tokDigit
	tokEOF
)

func (t testTok) String() string { return "tok" }
func (t testTok) IsIgnored() bool {
	return t == tokSpace
}

type testElem int

const (
	elemFnDecl testElem = iota
	elemProgram
)

func (e testElem) String() string { return "elem" }

func leaf(a *arena.Arena, kind testTok, length int) tree.GreenChild[testTok, testElem] {
	return tree.ChildLeaf[testTok, testElem](tree.NewLeaf(kind, uint32(length)))
}

// buildFnDecl builds a green node "fn NAME(){BODY}" whose name and digit
// body are nameLen and bodyLen bytes wide, used by the offset-mapping,
// Dirty and S4-style tests below.
func buildFnDecl(a *arena.Arena, nameLen, bodyLen int) *tree.GreenNode[testTok, testElem] {
	children := []tree.GreenChild[testTok, testElem]{
		leaf(a, tokIdent, 2),      // "fn"
		leaf(a, tokSpace, 1),      // " "
		leaf(a, tokIdent, nameLen), // name
		leaf(a, tokLParen, 1),
		leaf(a, tokRParen, 1),
		leaf(a, tokLBrace, 1),
		leaf(a, tokDigit, bodyLen), // body
		leaf(a, tokRBrace, 1),
	}
	return arena.Alloc(a, tree.New(elemFnDecl, children))
}

func Test_NewContext_OldToNew_NewToOld_roundTrip(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	a := arena.New()
	root := buildFnDecl(a, 1, 1) // "fn a(){0}" length 9

	edits := []source.Edit{{Start: 8, End: 9, Replacement: "99"}} // the closing brace
	ctx := NewContext[testTok, testElem](root, edits, lang.Config{})

	// Everything before the edit maps identically.
	assert.Equal(0, ctx.OldToNew(0))
	assert.Equal(8, ctx.OldToNew(8))

	// Everything at or after the edit's old end shifts by the edit's delta
	// (+1, since the one-byte "}" became "99").
	assert.Equal(10, ctx.OldToNew(9))

	oldPos, ok := ctx.NewToOld(0)
	require.True(ok)
	assert.Equal(0, oldPos)

	// A new-text position inside the replacement has no old counterpart.
	_, ok = ctx.NewToOld(8)
	assert.False(ok)

	oldPos, ok = ctx.NewToOld(10)
	require.True(ok)
	assert.Equal(9, oldPos)
}

func Test_Dirty_detectsOverlapWithEditSpan(t *testing.T) {
	assert := assert.New(t)

	a := arena.New()
	root := buildFnDecl(a, 1, 1)
	edits := []source.Edit{{Start: 8, End: 9, Replacement: "9"}}
	ctx := NewContext[testTok, testElem](root, edits, lang.Config{})

	assert.True(ctx.Dirty(7, 9))    // overlaps the edit
	assert.False(ctx.Dirty(0, 8))   // strictly before the edit
	assert.False(ctx.Dirty(9, 10))  // strictly after the edit
	assert.True(ctx.Dirty(8, 9))    // exactly the edit's own span
}

// Test_TryReuse_reusesUnaffectedSibling models scenario S4: two top-level
// FnDecl subtrees under a Program node; an edit entirely inside the second
// one must not prevent the first from being reused unchanged.
func Test_TryReuse_reusesUnaffectedSibling(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	oldArena := arena.New()
	fnA := buildFnDecl(oldArena, 1, 1) // "fn a(){0}", length 9
	fnB := buildFnDecl(oldArena, 1, 1) // "fn b(){0}", length 9
	program := arena.Alloc(oldArena, tree.New(elemProgram, []tree.GreenChild[testTok, testElem]{
		tree.ChildNode[testTok, testElem](fnA),
		leaf(oldArena, tokSpace, 1),
		tree.ChildNode[testTok, testElem](fnB),
	}))

	// Edit: replace fnB's closing brace (old offset 18; fnB spans [10,19))
	// with "9" (same width, for simplicity of constructing the new token
	// stream below).
	edits := []source.Edit{{Start: 18, End: 19, Replacement: "9"}}
	ctx := NewContext[testTok, testElem](program, edits, lang.Config{})

	// The new token stream for fnA is untouched; fnB's last token changes
	// text but not width in this scenario, so the new stream's spans
	// line up with the old ones exactly (only fnA needs to reuse; fnB is
	// reparsed fresh by the caller, not exercised via TryReuse here).
	newTokens := tokenstream.NewSource(tokenstream.Tokens[testTok]{
		{Kind: tokIdent, Start: 0, End: 2},
		{Kind: tokSpace, Start: 2, End: 3},
		{Kind: tokIdent, Start: 3, End: 4},
		{Kind: tokLParen, Start: 4, End: 5},
		{Kind: tokRParen, Start: 5, End: 6},
		{Kind: tokLBrace, Start: 6, End: 7},
		{Kind: tokDigit, Start: 7, End: 8},
		{Kind: tokRBrace, Start: 8, End: 9},
	})

	dst := arena.New()
	reused, count, ok := ctx.TryReuse(0, elemFnDecl, newTokens, dst)

	require.True(ok)
	assert.Equal(8, count)
	assert.True(fnA.Equal(reused))
	assert.NotSame(fnA, reused)
}

// Test_TryReuse_declinesAcrossDirtyRegion models scenario S5: no subtree
// that crosses an edit may be reused.
func Test_TryReuse_declinesAcrossDirtyRegion(t *testing.T) {
	assert := assert.New(t)

	oldArena := arena.New()
	// "ab": two single-char leaves under one node, old length 2.
	root := arena.Alloc(oldArena, tree.New(elemFnDecl, []tree.GreenChild[testTok, testElem]{
		leaf(oldArena, tokIdent, 1),
		leaf(oldArena, tokIdent, 1),
	}))

	// Insert "c" at old offset 1: new text "acb", length 3.
	edits := []source.Edit{{Start: 1, End: 1, Replacement: "c"}}
	ctx := NewContext[testTok, testElem](root, edits, lang.Config{})

	newTokens := tokenstream.NewSource(tokenstream.Tokens[testTok]{
		{Kind: tokIdent, Start: 0, End: 1},
		{Kind: tokIdent, Start: 1, End: 2},
		{Kind: tokIdent, Start: 2, End: 3},
	})

	dst := arena.New()
	_, _, ok := ctx.TryReuse(0, elemFnDecl, newTokens, dst)

	assert.False(ok)
}

func Test_TryReuse_declinesOnKindMismatch(t *testing.T) {
	assert := assert.New(t)

	oldArena := arena.New()
	root := arena.Alloc(oldArena, tree.New(elemFnDecl, []tree.GreenChild[testTok, testElem]{
		leaf(oldArena, tokIdent, 2),
	}))

	ctx := NewContext[testTok, testElem](root, nil, lang.Config{})
	newTokens := tokenstream.NewSource(tokenstream.Tokens[testTok]{{Kind: tokIdent, Start: 0, End: 2}})

	dst := arena.New()
	_, _, ok := ctx.TryReuse(0, elemProgram, newTokens, dst) // asking for the wrong kind

	assert.False(ok)
}
