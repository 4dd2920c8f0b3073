// Package source holds the abstract byte-indexed text that Oak lexers and
// parsers read from, along with the text-edit records that describe how one
// generation of source text becomes the next.
package source

import (
	"fmt"
	"sort"
	"unicode/utf8"
)

// Source is an abstract byte-indexed text. Every offset referenced by a span
// elsewhere in Oak is a valid byte boundary within [0, Length()).
type Source interface {
	// PeekCharAt decodes the rune starting at the given byte offset without
	// moving any cursor. ok is false if offset is out of range or not a rune
	// boundary.
	PeekCharAt(offset int) (r rune, size int, ok bool)

	// Slice returns the text in the half-open byte range [start, end).
	Slice(start, end int) string

	// Length returns the number of bytes in the source.
	Length() int

	// SourceID identifies the source for diagnostics, e.g. a file name. It
	// may be empty.
	SourceID() string
}

// Text is an in-memory Source backed by a Go string. It is the concrete
// Source implementation used throughout Oak's core and test suite; a host
// application may supply its own Source (e.g. a rope) as long as it honors
// the interface contract above.
type Text struct {
	id   string
	text string
}

// NewText wraps s as a Source identified by id. id may be empty.
func NewText(id, s string) Text {
	return Text{id: id, text: s}
}

func (t Text) PeekCharAt(offset int) (rune, int, bool) {
	if offset < 0 || offset >= len(t.text) {
		return 0, 0, false
	}
	r, size := utf8.DecodeRuneInString(t.text[offset:])
	if r == utf8.RuneError && size <= 1 {
		return 0, 0, false
	}
	return r, size, true
}

func (t Text) Slice(start, end int) string {
	if start < 0 || end > len(t.text) || start > end {
		panic(fmt.Sprintf("source: invalid slice [%d,%d) of length %d", start, end, len(t.text)))
	}
	return t.text[start:end]
}

func (t Text) Length() int {
	return len(t.text)
}

func (t Text) SourceID() string {
	return t.id
}

// String returns the full underlying text.
func (t Text) String() string {
	return t.text
}

// Edit describes replacing the half-open byte span [Start, End) of the old
// text with Replacement. A set of edits is valid iff their old-spans are
// pairwise non-overlapping; see ValidateEdits.
type Edit struct {
	Start       int
	End         int
	Replacement string
}

// Len returns the length in bytes of the text being removed by this edit.
func (e Edit) Len() int {
	return e.End - e.Start
}

// Delta returns the signed change in length this edit introduces:
// len(Replacement) - (End-Start).
func (e Edit) Delta() int {
	return len(e.Replacement) - e.Len()
}

// ValidateEdits reports whether edits are pairwise non-overlapping and
// internally well-formed (Start <= End, both within [0, length]).
func ValidateEdits(edits []Edit, length int) error {
	sorted := make([]Edit, len(edits))
	copy(sorted, edits)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	for i, e := range sorted {
		if e.Start < 0 || e.End < e.Start || e.End > length {
			return fmt.Errorf("source: edit %d has invalid span [%d,%d) for length %d", i, e.Start, e.End, length)
		}
		if i > 0 && sorted[i-1].End > e.Start {
			return fmt.Errorf("source: edit %d span [%d,%d) overlaps preceding edit [%d,%d)", i, e.Start, e.End, sorted[i-1].Start, sorted[i-1].End)
		}
	}
	return nil
}

// Apply applies edits (which must already be valid per ValidateEdits) to old
// and returns the resulting new text. Edits are applied in ascending order
// of Start.
func Apply(old Text, edits []Edit) (Text, error) {
	if err := ValidateEdits(edits, old.Length()); err != nil {
		return Text{}, err
	}

	sorted := make([]Edit, len(edits))
	copy(sorted, edits)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	var out []byte
	cursor := 0
	for _, e := range sorted {
		out = append(out, old.text[cursor:e.Start]...)
		out = append(out, e.Replacement...)
		cursor = e.End
	}
	out = append(out, old.text[cursor:]...)

	return NewText(old.id, string(out)), nil
}
