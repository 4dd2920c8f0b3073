package tree

import (
	"testing"

	"github.com/dekarrin/oak/arena"
	"github.com/stretchr/testify/assert"
)

func Test_GreenNode_TextLen_sumsChildren(t *testing.T) {
	assert := assert.New(t)

	children := []GreenChild[testTok, testElem]{
		ChildLeaf[testTok, testElem](NewLeaf(tokLeafA, 3)),
		ChildLeaf[testTok, testElem](NewLeaf(tokLeafB, 5)),
	}
	n := New(elemRoot, children)

	assert.EqualValues(8, n.TextLen())
}

func Test_GreenNode_Equal_ignoresMetadata(t *testing.T) {
	assert := assert.New(t)

	a := arena.New()
	withMeta := NewLeafWithMetadata(tokLeafA, 3, a.AddMetadata(arena.TokenProvenance{RawText: "1_00"}))
	plain := NewLeaf(tokLeafA, 3)

	n1 := New[testTok, testElem](elemRoot, []GreenChild[testTok, testElem]{ChildLeaf[testTok, testElem](withMeta)})
	n2 := New[testTok, testElem](elemRoot, []GreenChild[testTok, testElem]{ChildLeaf[testTok, testElem](plain)})

	assert.True(n1.Equal(&n2))
}

func Test_GreenNode_Equal_differsOnKind(t *testing.T) {
	assert := assert.New(t)

	n1 := New[testTok, testElem](elemRoot, nil)
	n2 := New[testTok, testElem](elemBranch, nil)

	assert.False(n1.Equal(&n2))
}

func Test_GreenNode_Equal_differsOnChildCount(t *testing.T) {
	assert := assert.New(t)

	n1 := New(elemRoot, []GreenChild[testTok, testElem]{ChildLeaf[testTok, testElem](NewLeaf(tokLeafA, 1))})
	n2 := New[testTok, testElem](elemRoot, nil)

	assert.False(n1.Equal(&n2))
}

func Test_GreenNode_Equal_recursesIntoNodeChildren(t *testing.T) {
	assert := assert.New(t)

	leaf := ChildLeaf[testTok, testElem](NewLeaf(tokLeafA, 2))
	inner1 := New(elemBranch, []GreenChild[testTok, testElem]{leaf})
	inner2 := New(elemBranch, []GreenChild[testTok, testElem]{leaf})

	a := arena.New()
	outer1 := New(elemRoot, []GreenChild[testTok, testElem]{ChildNode[testTok, testElem](arena.Alloc(a, inner1))})
	outer2 := New(elemRoot, []GreenChild[testTok, testElem]{ChildNode[testTok, testElem](arena.Alloc(a, inner2))})

	assert.True(outer1.Equal(&outer2))
}

func Test_DeepClone_producesStructurallyEqualButDistinctTree(t *testing.T) {
	assert := assert.New(t)

	srcArena := arena.New()
	leaf := ChildLeaf[testTok, testElem](NewLeaf(tokLeafA, 4))
	inner := arena.Alloc(srcArena, New(elemBranch, []GreenChild[testTok, testElem]{leaf}))
	root := arena.Alloc(srcArena, New(elemRoot, []GreenChild[testTok, testElem]{ChildNode[testTok, testElem](inner)}))

	dstArena := arena.New()
	clone := DeepClone(root, dstArena)

	assert.True(root.Equal(clone))
	assert.NotSame(root, clone)

	cloneInner, ok := clone.Children[0].AsNode()
	assert.True(ok)
	assert.NotSame(inner, cloneInner)
}
