package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Text_PeekCharAt(t *testing.T) {
	testCases := []struct {
		name       string
		text       string
		offset     int
		expectR    rune
		expectSize int
		expectOk   bool
	}{
		{name: "ascii", text: "abc", offset: 1, expectR: 'b', expectSize: 1, expectOk: true},
		{name: "multibyte", text: "aéb", offset: 1, expectR: 'é', expectSize: 2, expectOk: true},
		{name: "at end", text: "abc", offset: 3, expectOk: false},
		{name: "negative", text: "abc", offset: -1, expectOk: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			src := NewText("t", tc.text)
			r, size, ok := src.PeekCharAt(tc.offset)

			assert.Equal(tc.expectOk, ok)
			if tc.expectOk {
				assert.Equal(tc.expectR, r)
				assert.Equal(tc.expectSize, size)
			}
		})
	}
}

func Test_Text_Slice(t *testing.T) {
	assert := assert.New(t)

	src := NewText("t", "hello world")
	assert.Equal("hello", src.Slice(0, 5))
	assert.Equal("world", src.Slice(6, 11))
}

func Test_Text_Slice_panicsOnInvalidRange(t *testing.T) {
	assert := assert.New(t)

	src := NewText("t", "hello")
	assert.Panics(func() { src.Slice(3, 1) })
	assert.Panics(func() { src.Slice(0, 99) })
}

func Test_Edit_LenAndDelta(t *testing.T) {
	assert := assert.New(t)

	e := Edit{Start: 2, End: 5, Replacement: "ab"}
	assert.Equal(3, e.Len())
	assert.Equal(-1, e.Delta())

	insert := Edit{Start: 2, End: 2, Replacement: "xyz"}
	assert.Equal(0, insert.Len())
	assert.Equal(3, insert.Delta())
}

func Test_ValidateEdits(t *testing.T) {
	testCases := []struct {
		name      string
		edits     []Edit
		length    int
		expectErr bool
	}{
		{name: "no edits", edits: nil, length: 10},
		{name: "single valid edit", edits: []Edit{{Start: 1, End: 3}}, length: 10},
		{name: "adjacent edits are fine", edits: []Edit{{Start: 0, End: 2}, {Start: 2, End: 4}}, length: 10},
		{name: "overlapping edits", edits: []Edit{{Start: 0, End: 3}, {Start: 2, End: 4}}, length: 10, expectErr: true},
		{name: "end before start", edits: []Edit{{Start: 5, End: 2}}, length: 10, expectErr: true},
		{name: "end past length", edits: []Edit{{Start: 0, End: 20}}, length: 10, expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			err := ValidateEdits(tc.edits, tc.length)

			if tc.expectErr {
				assert.Error(err)
			} else {
				assert.NoError(err)
			}
		})
	}
}

func Test_Apply(t *testing.T) {
	assert := assert.New(t)

	old := NewText("t", "fn a(){0} fn b(){1}")
	newText, err := Apply(old, []Edit{{Start: 17, End: 18, Replacement: "9"}})

	assert.NoError(err)
	assert.Equal("fn a(){0} fn b(){9}", newText.String())
}

func Test_Apply_multipleOutOfOrderEdits(t *testing.T) {
	assert := assert.New(t)

	old := NewText("t", "ab")
	newText, err := Apply(old, []Edit{{Start: 2, End: 2, Replacement: "d"}, {Start: 1, End: 1, Replacement: "c"}})

	assert.NoError(err)
	assert.Equal("acbd", newText.String())
}

func Test_Apply_rejectsOverlappingEdits(t *testing.T) {
	assert := assert.New(t)

	old := NewText("t", "abcdef")
	_, err := Apply(old, []Edit{{Start: 0, End: 3}, {Start: 2, End: 4}})

	assert.Error(err)
}
