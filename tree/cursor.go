package tree

import "github.com/dekarrin/oak/lang"

// Cursor is a mutable, read-only traversal position over a green tree,
// tracking the absolute offset of the element it currently points to. It is
// the primitive package incremental walks while deciding which old subtrees
// to graft into a new parse (specification §4.2, §4.8). Cursors never
// mutate the tree; stepping only moves the cursor's own position.
type Cursor[T lang.TokenType, E lang.ElementType] struct {
	current GreenChild[T, E]
	offset  int
	stack   []cursorFrame[T, E]
	done    bool
}

type cursorFrame[T lang.TokenType, E lang.ElementType] struct {
	children []GreenChild[T, E]
	index    int
	base     int // offset of children[0]
}

// NewCursor creates a cursor positioned at root, offset 0.
func NewCursor[T lang.TokenType, E lang.ElementType](root *GreenNode[T, E]) *Cursor[T, E] {
	return &Cursor[T, E]{current: ChildNode[T, E](root)}
}

// Done reports whether the cursor has been stepped past the end of the
// tree; once Done, AsNode/Offset/EndOffset are meaningless.
func (c *Cursor[T, E]) Done() bool {
	return c.done
}

// Offset returns the absolute byte offset of the cursor's current element.
func (c *Cursor[T, E]) Offset() int {
	return c.offset
}

// EndOffset returns Offset() + the text length of the current element.
func (c *Cursor[T, E]) EndOffset() int {
	return c.offset + int(c.current.TextLen())
}

// AsNode returns the current element as a *GreenNode and true, or the zero
// value and false if the cursor is on a leaf (or done).
func (c *Cursor[T, E]) AsNode() (*GreenNode[T, E], bool) {
	if c.done {
		return nil, false
	}
	return c.current.AsNode()
}

// AsLeaf returns the current element as a GreenLeaf and true, or the zero
// value and false if the cursor is on a node (or done).
func (c *Cursor[T, E]) AsLeaf() (GreenLeaf[T], bool) {
	if c.done {
		return GreenLeaf[T]{}, false
	}
	return c.current.AsLeaf()
}

// StepInto descends into the current node's first child. It returns false,
// leaving the cursor unchanged, if the current element is a leaf or has no
// children.
func (c *Cursor[T, E]) StepInto() bool {
	if c.done {
		return false
	}
	node, ok := c.current.AsNode()
	if !ok || len(node.Children) == 0 {
		return false
	}
	c.stack = append(c.stack, cursorFrame[T, E]{children: node.Children, index: 0, base: c.offset})
	c.current = node.Children[0]
	return true
}

// StepOver skips the current element's entire subtree and moves to the
// element immediately following it at the nearest enclosing level, climbing
// the ancestor stack as needed when the current element was the last
// sibling. It returns false and marks the cursor Done if there is no such
// element (the cursor was at the last element of the whole tree).
func (c *Cursor[T, E]) StepOver() bool {
	if c.done {
		return false
	}
	nextOffset := c.EndOffset()
	for len(c.stack) > 0 {
		top := &c.stack[len(c.stack)-1]
		top.index++
		if top.index < len(top.children) {
			c.current = top.children[top.index]
			c.offset = nextOffset
			return true
		}
		c.stack = c.stack[:len(c.stack)-1]
	}
	c.done = true
	return false
}

// StepNext moves to the depth-first successor of the current element: into
// its first child if it has one, else to the next sibling at the nearest
// enclosing level (via the same climb StepOver performs). It returns false
// and marks the cursor Done if the current element was the last in the
// tree.
func (c *Cursor[T, E]) StepNext() bool {
	if c.StepInto() {
		return true
	}
	return c.StepOver()
}
