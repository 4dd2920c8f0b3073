package incremental

import (
	"github.com/dekarrin/oak/arena"
	"github.com/dekarrin/oak/lang"
	"github.com/dekarrin/oak/source"
	"github.com/dekarrin/oak/tokenstream"
	"github.com/dekarrin/oak/tree"
)

// DefaultCursorBudget is the cursor-step budget used when a language's
// Config does not specify one. It bounds the worst case of TryReuse's walk
// from the cursor's current position toward a target old-tree offset
// (specification §4.8 step 4).
const DefaultCursorBudget = 4096

// Context holds everything the incremental engine needs across a single
// parse: a cursor walking the previous generation's green tree, and the
// normalized edit list mapping old and new offsets onto each other.
type Context[T lang.TokenType, E lang.ElementType] struct {
	cursor     *tree.Cursor[T, E]
	edits      []editInfo
	stepBudget int
}

// NewContext creates an incremental Context over oldRoot for the given
// edits, which need not already be sorted or validated (NewContext sorts
// them stably by start offset, as specification §4.8 requires).
func NewContext[T lang.TokenType, E lang.ElementType](oldRoot *tree.GreenNode[T, E], edits []source.Edit, cfg lang.Config) *Context[T, E] {
	cfg = cfg.WithDefaults()
	budget := cfg.IncrementalCursorBudget
	if budget <= 0 {
		budget = DefaultCursorBudget
	}
	return &Context[T, E]{
		cursor:     tree.NewCursor(oldRoot),
		edits:      normalizeEdits(edits),
		stepBudget: budget,
	}
}

// OldToNew maps an old-text byte offset to the corresponding new-text
// offset by adding the cumulative delta of every edit whose old span ends
// at or before p.
func (c *Context[T, E]) OldToNew(p int) int {
	delta := 0
	for _, e := range c.edits {
		if e.oldEnd <= p {
			delta = e.deltaAfter
		}
	}
	return p + delta
}

// NewToOld inverts OldToNew. ok is false if newPos falls inside the
// replacement text of some edit, in which case there is no corresponding
// old-text position at all.
func (c *Context[T, E]) NewToOld(newPos int) (oldPos int, ok bool) {
	delta := 0
	for _, e := range c.edits {
		if newPos >= e.newStart && newPos < e.newEnd {
			return 0, false
		}
		if e.newEnd <= newPos {
			delta = e.deltaAfter
		}
	}
	return newPos - delta, true
}

// Dirty reports whether the old-text span [a, b) overlaps any edit's old
// span: some edit's old span [x, y) satisfies a < y && b > x.
func (c *Context[T, E]) Dirty(a, b int) bool {
	for _, e := range c.edits {
		if a < e.oldEnd && b > e.oldStart {
			return true
		}
	}
	return false
}

// verifyTokenSpan walks forward from the new token stream's current
// position (count tokens ahead of it) confirming that the tokens from
// newPos span exactly textLen bytes with no gap or overshoot, per
// specification §4.8's "verification detail". It returns the number of
// tokens that must be consumed to match exactly.
//
// TODO(reuse-index): this walk is linear in the reused node's token count;
// specification §9 Open Question 1 notes a span-index on the token stream
// would make it O(1). Left unimplemented — the specification marks the
// optimization as optional.
func verifyTokenSpan[T lang.TokenType](tokens *tokenstream.Source[T], newPos, textLen int) (count int, ok bool) {
	target := newPos + textLen
	covered := 0
	for {
		tok, exists := tokens.PeekAt(count)
		if !exists {
			return 0, false
		}
		if tok.Start != newPos+covered {
			return 0, false
		}
		covered += tok.Len()
		count++
		if newPos+covered == target {
			return count, true
		}
		if newPos+covered > target {
			return 0, false
		}
	}
}

// TryReuse attempts to graft an old subtree of kind requestedKind at
// position newPos in the new token stream, implementing the four-step
// reuse protocol of specification §4.8. On success it returns the
// deep-cloned node (allocated in dst), the number of new tokens it
// consumes, and true; the caller (package parser) is responsible for
// pushing the node onto its sink and advancing its token source by the
// returned count. On failure it returns nil, 0, false and the caller falls
// back to a normal parse at that position.
func (c *Context[T, E]) TryReuse(newPos int, requestedKind E, newTokens *tokenstream.Source[T], dst *arena.Arena) (*tree.GreenNode[T, E], int, bool) {
	targetOld, ok := c.NewToOld(newPos)
	if !ok {
		return nil, 0, false
	}

	for steps := 0; steps < c.stepBudget; steps++ {
		if c.cursor.Done() {
			return nil, 0, false
		}

		curOff := c.cursor.Offset()
		curEnd := c.cursor.EndOffset()

		switch {
		case curOff == targetOld:
			if node, isNode := c.cursor.AsNode(); isNode && node.Kind == requestedKind && !c.Dirty(curOff, curEnd) {
				if count, matched := verifyTokenSpan(newTokens, newPos, int(node.TextLen())); matched {
					cloned := tree.DeepClone(node, dst)
					c.cursor.StepOver()
					return cloned, count, true
				}
			}
			// Either this element's kind doesn't match, its span is dirty, or
			// the new token stream no longer agrees with its width. The
			// target may still live among this element's children, since the
			// first child shares the same start offset as its parent.
			if !c.cursor.StepInto() {
				return nil, 0, false
			}

		case curOff < targetOld && targetOld < curEnd:
			if !c.cursor.StepInto() {
				if !c.cursor.StepOver() {
					return nil, 0, false
				}
			}

		case curEnd <= targetOld:
			if !c.cursor.StepOver() {
				return nil, 0, false
			}

		default: // curOff > targetOld: the cursor has already passed the target
			return nil, 0, false
		}
	}

	return nil, 0, false
}
