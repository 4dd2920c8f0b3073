package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_FoldIdentifierRune_fullwidthToAscii(t *testing.T) {
	assert := assert.New(t)

	// U+FF21 FULLWIDTH LATIN CAPITAL LETTER A folds to ASCII 'A'.
	assert.Equal('A', FoldIdentifierRune('Ａ'))
}

func Test_FoldIdentifierRune_asciiUnchanged(t *testing.T) {
	assert := assert.New(t)

	assert.Equal('x', FoldIdentifierRune('x'))
}
