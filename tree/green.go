// Package tree implements Oak's Green/Red syntax tree duality (specification
// §3.4, §3.5): immutable, position-independent green nodes produced by the
// parser, and lazy, position-aware red views computed on demand from a green
// root. It is grounded on internal/ictiobus/types.ParseTree from the teacher
// repository, split into the two-tree model the specification requires and
// parameterized over a grammar's token/element alphabets.
package tree

import (
	"github.com/dekarrin/oak/arena"
	"github.com/dekarrin/oak/lang"
)

// GreenLeaf is a structural token: a kind and a byte length, with no
// absolute offset. Two leaves of the same kind and length are
// interchangeable wherever tree structure is compared.
type GreenLeaf[T lang.TokenType] struct {
	Kind     T
	Length   uint32
	Metadata arena.MetadataIndex
}

// NewLeaf creates a GreenLeaf with no provenance metadata.
func NewLeaf[T lang.TokenType](kind T, length uint32) GreenLeaf[T] {
	return GreenLeaf[T]{Kind: kind, Length: length, Metadata: arena.NoMetadata}
}

// NewLeafWithMetadata creates a GreenLeaf carrying a metadata index into the
// arena that produced it.
func NewLeafWithMetadata[T lang.TokenType](kind T, length uint32, md arena.MetadataIndex) GreenLeaf[T] {
	return GreenLeaf[T]{Kind: kind, Length: length, Metadata: md}
}

// TextLen returns the number of source bytes this leaf covers.
func (l GreenLeaf[T]) TextLen() uint32 {
	return l.Length
}

// GreenChild is the sum type `Node(&GreenNode) | Leaf(GreenLeaf)` from the
// specification, expressed as a tagged union since Go has no native sum
// types. Exactly one of Node and IsNode-false-Leaf is meaningful at a time.
type GreenChild[T lang.TokenType, E lang.ElementType] struct {
	node *GreenNode[T, E]
	leaf GreenLeaf[T]
}

// ChildNode wraps a node reference as a GreenChild.
func ChildNode[T lang.TokenType, E lang.ElementType](n *GreenNode[T, E]) GreenChild[T, E] {
	return GreenChild[T, E]{node: n}
}

// ChildLeaf wraps a leaf as a GreenChild.
func ChildLeaf[T lang.TokenType, E lang.ElementType](l GreenLeaf[T]) GreenChild[T, E] {
	return GreenChild[T, E]{leaf: l}
}

// IsNode reports whether this child is an internal node rather than a leaf.
func (c GreenChild[T, E]) IsNode() bool {
	return c.node != nil
}

// AsNode returns the child's node and true if IsNode, else the zero value
// and false.
func (c GreenChild[T, E]) AsNode() (*GreenNode[T, E], bool) {
	return c.node, c.node != nil
}

// AsLeaf returns the child's leaf and true if it is not a node, else the
// zero value and false.
func (c GreenChild[T, E]) AsLeaf() (GreenLeaf[T], bool) {
	if c.node != nil {
		return GreenLeaf[T]{}, false
	}
	return c.leaf, true
}

// TextLen returns the number of source bytes this child covers.
func (c GreenChild[T, E]) TextLen() uint32 {
	if c.node != nil {
		return c.node.textLen
	}
	return c.leaf.Length
}

// GreenNode is an immutable, structurally shareable internal syntax node: a
// kind and an ordered list of children, with a precomputed text length.
// Structural equality (same kind, pairwise-equal children) implies identical
// text content coverage — see Equal.
type GreenNode[T lang.TokenType, E lang.ElementType] struct {
	Kind     E
	Children []GreenChild[T, E]
	textLen  uint32
}

// New constructs a GreenNode value from its children in constant time with
// respect to any existing subtree sizes: textLen is the sum of the
// children's already-known lengths. The caller is responsible for placing
// the result in an Arena (see arena.Alloc) to obtain the stable *GreenNode
// reference that the rest of the tree stores as a child.
func New[T lang.TokenType, E lang.ElementType](kind E, children []GreenChild[T, E]) GreenNode[T, E] {
	var total uint32
	for _, c := range children {
		total += c.TextLen()
	}
	return GreenNode[T, E]{Kind: kind, Children: children, textLen: total}
}

// TextLen returns the number of source bytes this node covers: the sum of
// its children's text lengths.
func (n *GreenNode[T, E]) TextLen() uint32 {
	return n.textLen
}

// Equal reports whether n and o have the same kind and pairwise structurally
// equal children (same kind and length for leaves, recursively equal for
// nodes). It ignores metadata indices, since provenance is sidecar data, not
// structure: two leaves with the same kind and length are structurally
// equal even if their raw text differs only in, say, numeric-literal
// underscore placement.
func (n *GreenNode[T, E]) Equal(o *GreenNode[T, E]) bool {
	if n == o {
		return true
	}
	if n == nil || o == nil {
		return false
	}
	if n.Kind != o.Kind || len(n.Children) != len(o.Children) {
		return false
	}
	for i := range n.Children {
		a, b := n.Children[i], o.Children[i]
		if a.IsNode() != b.IsNode() {
			return false
		}
		if a.IsNode() {
			an, _ := a.AsNode()
			bn, _ := b.AsNode()
			if !an.Equal(bn) {
				return false
			}
		} else {
			al, _ := a.AsLeaf()
			bl, _ := b.AsLeaf()
			if al.Kind != bl.Kind || al.Length != bl.Length {
				return false
			}
		}
	}
	return true
}

// DeepClone recursively copies n (and all its descendants) into a fresh
// value graph and returns the clone. It is the operation the incremental
// engine (package incremental) uses to graft a subtree reused from a
// previous generation's arena into the current one, so that the new
// generation's tree is self-contained once the old arena is dropped.
//
// The clone is allocated via dst so that the resulting nodes register in
// dst's allocation accounting; metadata indices are copied as-is, since
// TokenProvenance entries are immutable and both arenas' tables only ever
// grow.
func DeepClone[T lang.TokenType, E lang.ElementType](n *GreenNode[T, E], dst *arena.Arena) *GreenNode[T, E] {
	children := arena.AllocSliceFillIter(dst, len(n.Children), func(i int) GreenChild[T, E] {
		c := n.Children[i]
		if cn, ok := c.AsNode(); ok {
			return ChildNode[T, E](DeepClone(cn, dst))
		}
		leaf, _ := c.AsLeaf()
		return ChildLeaf[T, E](leaf)
	})
	clone := New(n.Kind, children)
	return arena.Alloc(dst, clone)
}
