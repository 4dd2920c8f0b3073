// Package parser implements Oak's token-driven tree-construction engine
// (specification §4.5, §4.6): a backtrackable accumulator of green children
// (Sink) and the coordinating ParserState that a grammar's recursive
// descent production functions drive. It is grounded on
// original_source/projects/oak-core/src/parser/state.rs's TreeSink and
// ParserState, and on internal/ictiobus/parse/ll1.go's
// expect/eat/advance-on-mismatch shape in the teacher repository.
package parser

import (
	"github.com/dekarrin/oak/arena"
	"github.com/dekarrin/oak/lang"
	"github.com/dekarrin/oak/tree"
)

// Sink accumulates GreenTree children on a backtrackable stack as a grammar
// production runs, and slices them off into arena-allocated GreenNodes at
// Checkpoint boundaries.
type Sink[T lang.TokenType, E lang.ElementType] struct {
	arena    *arena.Arena
	children []tree.GreenChild[T, E]
}

// NewSink creates a Sink backed by a. capacityHint pre-sizes the backing
// slice to reduce reallocation; it is typically the token count for the
// parse.
func NewSink[T lang.TokenType, E lang.ElementType](a *arena.Arena, capacityHint int) *Sink[T, E] {
	return &Sink[T, E]{arena: a, children: make([]tree.GreenChild[T, E], 0, capacityHint)}
}

// Arena returns the arena backing this sink.
func (s *Sink[T, E]) Arena() *arena.Arena {
	return s.arena
}

// PushLeaf appends a leaf token with no provenance metadata.
func (s *Sink[T, E]) PushLeaf(kind T, length int) {
	s.children = append(s.children, tree.ChildLeaf[T, E](tree.NewLeaf[T](kind, uint32(length))))
}

// PushLeafWithMetadata appends a leaf token carrying provenance metadata,
// recording the metadata in the sink's arena and storing its index.
func (s *Sink[T, E]) PushLeafWithMetadata(kind T, length int, provenance arena.TokenProvenance) {
	idx := s.arena.AddMetadata(provenance)
	s.children = append(s.children, tree.ChildLeaf[T, E](tree.NewLeafWithMetadata[T](kind, uint32(length), idx)))
}

// PushNode appends an already-finished node (e.g. one grafted in by the
// incremental engine) as a child.
func (s *Sink[T, E]) PushNode(n *tree.GreenNode[T, E]) {
	s.children = append(s.children, tree.ChildNode[T, E](n))
}

// Checkpoint captures the current child-stack length, to be passed to
// FinishNode or Restore later.
func (s *Sink[T, E]) Checkpoint() int {
	return len(s.children)
}

// Restore discards every child appended since checkpoint, undoing
// speculative work.
func (s *Sink[T, E]) Restore(checkpoint int) {
	s.children = s.children[:checkpoint]
}

// FinishNode slices children[checkpoint:] into an arena-allocated child
// array, builds a GreenNode of the given kind from it, truncates the stack
// back to checkpoint, and pushes the new node in their place. After
// FinishNode, the stack length is checkpoint+1, matching the invariant in
// specification §4.5.
func (s *Sink[T, E]) FinishNode(checkpoint int, kind E) *tree.GreenNode[T, E] {
	slice := arena.AllocSlice(s.arena, s.children[checkpoint:])
	s.children = s.children[:checkpoint]
	node := tree.New(kind, slice)
	ref := arena.Alloc(s.arena, node)
	s.children = append(s.children, tree.ChildNode[T, E](ref))
	return ref
}
