package diag

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Diagnostic_Error_formatsByKind(t *testing.T) {
	testCases := []struct {
		name   string
		d      Diagnostic
		expect string
	}{
		{
			name:   "unexpected token",
			d:      NewUnexpectedToken(5, "f.jl", "RBrace"),
			expect: "f.jl:5: unexpected token RBrace",
		},
		{
			name:   "expected token",
			d:      NewExpectedToken(5, "f.jl", "')'"),
			expect: "f.jl:5: expected ')'",
		},
		{
			name:   "expected name",
			d:      NewExpectedName(5, "f.jl", "field"),
			expect: "f.jl:5: expected a field name",
		},
		{
			name:   "trailing comma",
			d:      NewTrailingComma(9, "f.jl"),
			expect: "f.jl:9: trailing comma not allowed",
		},
		{
			name:   "unexpected eof",
			d:      NewUnexpectedEof(12, "f.jl"),
			expect: "f.jl:12: unexpected end of file",
		},
		{
			name:   "syntax error",
			d:      NewSyntaxError(3, "f.jl", "bad thing"),
			expect: "f.jl:3: bad thing",
		},
		{
			name:   "lexical error, no source id",
			d:      NewLexicalError(0, "", "unrecognized input"),
			expect: "offset 0: unrecognized input",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			assert.Equal(tc.expect, tc.d.Error())
		})
	}
}

func Test_Diagnostic_Is_matchesSentinelByKindRegardlessOfDetails(t *testing.T) {
	assert := assert.New(t)

	d1 := NewExpectedToken(1, "a", "')'")
	d2 := NewExpectedToken(99, "b", "'}'")

	assert.True(errors.Is(d1, ErrExpectedToken))
	assert.True(errors.Is(d2, ErrExpectedToken))
	assert.False(errors.Is(d1, ErrUnexpectedEof))
}

func Test_Kind_String(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("ExpectedToken", ExpectedToken.String())
	assert.Equal("LexicalError", LexicalError.String())
}
