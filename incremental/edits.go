// Package incremental implements Oak's edit-aware reparse engine
// (specification §4.8): given a previous generation's green tree and a set
// of text edits, it decides which old subtrees can be grafted unchanged
// into the new parse. It is grounded on
// original_source/projects/oak-core/src/parser/state.rs's
// IncrementalContext and deep_clone_node, re-expressed in Go with explicit
// cumulative-delta bookkeeping in place of Rust's core::range::Range.
package incremental

import (
	"sort"

	"github.com/dekarrin/oak/source"
)

// editInfo is one normalized edit: its span in both the old and new text,
// plus the cumulative length delta of every edit up to and including it.
type editInfo struct {
	oldStart, oldEnd int
	newStart, newEnd int
	deltaAfter       int
}

func normalizeEdits(edits []source.Edit) []editInfo {
	sorted := make([]source.Edit, len(edits))
	copy(sorted, edits)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	out := make([]editInfo, len(sorted))
	cumulative := 0
	for i, e := range sorted {
		newStart := e.Start + cumulative
		cumulative += e.Delta()
		out[i] = editInfo{
			oldStart:   e.Start,
			oldEnd:     e.End,
			newStart:   newStart,
			newEnd:     newStart + len(e.Replacement),
			deltaAfter: cumulative,
		}
	}
	return out
}
