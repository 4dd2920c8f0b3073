package tree

import "github.com/dekarrin/oak/lang"

// RedNode is a lazy, positional view of a GreenNode: the same green data,
// plus the absolute byte offset it occupies and a link to its parent red
// view. Red nodes are never stored in an arena; they are ephemeral and
// recomputed on demand, bounded by the lifetime of the green root they were
// derived from.
type RedNode[T lang.TokenType, E lang.ElementType] struct {
	Green  *GreenNode[T, E]
	Parent *RedNode[T, E]
	Offset int
}

// RedLeaf is the leaf counterpart of RedNode.
type RedLeaf[T lang.TokenType, E lang.ElementType] struct {
	Green  GreenLeaf[T]
	Parent *RedNode[T, E]
	Offset int
}

// RedTree is the red-side sum type mirroring GreenChild: exactly one of
// Node and the leaf fields is meaningful, distinguished by IsNode.
type RedTree[T lang.TokenType, E lang.ElementType] struct {
	node *RedNode[T, E]
	leaf *RedLeaf[T, E]
}

// IsNode reports whether this red view wraps a node rather than a leaf.
func (r RedTree[T, E]) IsNode() bool {
	return r.node != nil
}

// AsNode returns the wrapped RedNode and true, or the zero value and false.
func (r RedTree[T, E]) AsNode() (*RedNode[T, E], bool) {
	return r.node, r.node != nil
}

// AsLeaf returns the wrapped RedLeaf and true, or the zero value and false.
func (r RedTree[T, E]) AsLeaf() (*RedLeaf[T, E], bool) {
	return r.leaf, r.leaf != nil
}

// Span returns the half-open byte range [start, end) this element covers.
func (r RedTree[T, E]) Span() (start, end int) {
	if r.node != nil {
		return r.node.Span()
	}
	return r.leaf.Span()
}

// FromGreenRoot creates the root red view over green: offset 0, no parent.
func FromGreenRoot[T lang.TokenType, E lang.ElementType](green *GreenNode[T, E]) *RedNode[T, E] {
	return &RedNode[T, E]{Green: green, Offset: 0}
}

// Span returns the half-open byte range [Offset, Offset+TextLen) this node
// covers.
func (n *RedNode[T, E]) Span() (start, end int) {
	return n.Offset, n.Offset + int(n.Green.TextLen())
}

// Children computes the red views of n's children in order. Each child's
// offset is n's offset plus the cumulative text length of earlier siblings.
// The result is freshly computed on every call; red views are not cached.
func (n *RedNode[T, E]) Children() []RedTree[T, E] {
	out := make([]RedTree[T, E], len(n.Green.Children))
	offset := n.Offset
	for i, gc := range n.Green.Children {
		if gn, ok := gc.AsNode(); ok {
			out[i] = RedTree[T, E]{node: &RedNode[T, E]{Green: gn, Parent: n, Offset: offset}}
		} else {
			gl, _ := gc.AsLeaf()
			out[i] = RedTree[T, E]{leaf: &RedLeaf[T, E]{Green: gl, Parent: n, Offset: offset}}
		}
		offset += int(gc.TextLen())
	}
	return out
}

// SignificantChildren filters Children to exclude trivia leaves (those
// whose TokenType.IsIgnored is true), giving a view suitable for grammar
// code that walks meaningful structure only. All-children traversal
// (Children) remains necessary for lossless fidelity printing.
func (n *RedNode[T, E]) SignificantChildren() []RedTree[T, E] {
	all := n.Children()
	out := all[:0:0]
	for _, c := range all {
		if leaf, ok := c.AsLeaf(); ok && leaf.Green.Kind.IsIgnored() {
			continue
		}
		out = append(out, c)
	}
	return out
}

// Span returns the half-open byte range [Offset, Offset+TextLen) this leaf
// covers.
func (l *RedLeaf[T, E]) Span() (start, end int) {
	return l.Offset, l.Offset + int(l.Green.TextLen())
}
