// Package jsonlang is a small worked grammar adaptor built on top of Oak's
// core packages: a JSON-flavored expression language with top-level function
// declarations, used both to exercise the core end to end and as the test
// fixture for the concrete scenarios the core's own test suites reference.
// It plays the role tunascript plays over internal/ictiobus in the teacher
// repository, generalized down to a language small enough to read in one
// sitting.
package jsonlang

import "fmt"

// TokenKind is jsonlang's lexer alphabet.
type TokenKind int

const (
	EOF TokenKind = iota
	Whitespace
	Ident
	Number
	String
	True
	False
	Null
	Fn
	LBrace
	RBrace
	LBracket
	RBracket
	LParen
	RParen
	Colon
	Comma
	Plus
	Star
	Error
)

var tokenNames = map[TokenKind]string{
	EOF:        "EOF",
	Whitespace: "Whitespace",
	Ident:      "Ident",
	Number:     "Number",
	String:     "String",
	True:       "True",
	False:      "False",
	Null:       "Null",
	Fn:         "Fn",
	LBrace:     "LBrace",
	RBrace:     "RBrace",
	LBracket:   "LBracket",
	RBracket:   "RBracket",
	LParen:     "LParen",
	RParen:     "RParen",
	Colon:      "Colon",
	Comma:      "Comma",
	Plus:       "Plus",
	Star:       "Star",
	Error:      "Error",
}

func (k TokenKind) String() string {
	if name, ok := tokenNames[k]; ok {
		return name
	}
	return fmt.Sprintf("TokenKind(%d)", int(k))
}

// IsIgnored reports whether tokens of this kind are trivia. jsonlang treats
// only whitespace as trivia; it has no comment syntax.
func (k TokenKind) IsIgnored() bool {
	return k == Whitespace
}

var keywords = map[string]TokenKind{
	"true":  True,
	"false": False,
	"null":  Null,
	"fn":    Fn,
}
