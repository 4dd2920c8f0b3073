package lexer

import (
	"golang.org/x/text/transform"
	"golang.org/x/text/width"
)

// FoldIdentifierRune normalizes fullwidth and halfwidth Unicode forms to
// their canonical width before a grammar's identifier-start/identifier-continue
// predicate classifies them, so a fullwidth Latin letter typed in a
// CJK-authored source is treated the same as its ASCII counterpart.
// Grounded on the domain stack of the example pack's language-tooling
// repositories, which carry golang.org/x/text for exactly this class of
// problem even though the teacher repository itself never calls into it.
func FoldIdentifierRune(r rune) rune {
	folded, _, err := transform.String(width.Fold, string(r))
	if err != nil || folded == "" {
		return r
	}
	runes := []rune(folded)
	return runes[0]
}
