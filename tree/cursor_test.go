package tree

import (
	"testing"

	"github.com/dekarrin/oak/arena"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildNested constructs:
//
//	Root
//	  Branch
//	    A (len 2)
//	    B (len 3)
//	  A (len 1)
func buildNested(a *arena.Arena) *GreenNode[testTok, testElem] {
	branch := arena.Alloc(a, New(elemBranch, []GreenChild[testTok, testElem]{
		ChildLeaf[testTok, testElem](NewLeaf(tokLeafA, 2)),
		ChildLeaf[testTok, testElem](NewLeaf(tokLeafB, 3)),
	}))
	return arena.Alloc(a, New(elemRoot, []GreenChild[testTok, testElem]{
		ChildNode[testTok, testElem](branch),
		ChildLeaf[testTok, testElem](NewLeaf(tokLeafA, 1)),
	}))
}

func Test_Cursor_StepIntoAndStepOver(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	a := arena.New()
	root := buildNested(a)
	c := NewCursor(root)

	assert.Equal(0, c.Offset())
	node, ok := c.AsNode()
	require.True(ok)
	assert.Equal(elemRoot, node.Kind)

	require.True(c.StepInto())
	node, ok = c.AsNode()
	require.True(ok)
	assert.Equal(elemBranch, node.Kind)
	assert.Equal(0, c.Offset())

	require.True(c.StepInto())
	leaf, ok := c.AsLeaf()
	require.True(ok)
	assert.Equal(tokLeafA, leaf.Kind)
	assert.Equal(0, c.Offset())

	require.True(c.StepOver())
	leaf, ok = c.AsLeaf()
	require.True(ok)
	assert.Equal(tokLeafB, leaf.Kind)
	assert.Equal(2, c.Offset())

	// Stepping over the last child of Branch climbs back to Root's second
	// child.
	require.True(c.StepOver())
	leaf, ok = c.AsLeaf()
	require.True(ok)
	assert.Equal(tokLeafA, leaf.Kind)
	assert.Equal(5, c.Offset())
	assert.Equal(1, int(leaf.Length))

	assert.False(c.StepOver())
	assert.True(c.Done())
}

func Test_Cursor_StepNext_depthFirst(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	a := arena.New()
	root := buildNested(a)
	c := NewCursor(root)

	var kinds []string
	for {
		if node, ok := c.AsNode(); ok {
			kinds = append(kinds, node.Kind.String())
		} else if leaf, ok := c.AsLeaf(); ok {
			kinds = append(kinds, leaf.Kind.String())
		}
		if !c.StepNext() {
			break
		}
	}

	assert.Equal([]string{"Root", "Branch", "A", "B", "A"}, kinds)
	require.True(c.Done())
}

func Test_Cursor_StepInto_leafReturnsFalse(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	a := arena.New()
	leafOnly := arena.Alloc(a, New[testTok, testElem](elemRoot, []GreenChild[testTok, testElem]{
		ChildLeaf[testTok, testElem](NewLeaf(tokLeafA, 1)),
	}))
	c := NewCursor(leafOnly)
	require.True(c.StepInto())

	assert.False(c.StepInto())
}
