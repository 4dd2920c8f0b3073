// Package diag implements Oak's diagnostics taxonomy (specification §3.7,
// §7): a closed set of error kinds, each offset-tagged, that flow out of
// the lexer and parser without aborting either. It is grounded on
// server/serr from the teacher repository: a struct-based error type
// supporting errors.Is/errors.Unwrap against package-level sentinel values,
// used here so a caller can write errors.Is(d, diag.ErrUnexpectedEof)
// without type-asserting Diagnostic.
package diag

import (
	"errors"
	"fmt"

	"github.com/dekarrin/oak/lang"
	"github.com/dekarrin/oak/tree"
)

// Kind discriminates the closed set of diagnostic shapes Oak produces.
type Kind int

const (
	// UnexpectedToken is recorded when the parser encounters a token that
	// cannot start or continue the current production.
	UnexpectedToken Kind = iota
	// ExpectedToken is recorded when parser.State.Expect fails to find the
	// required token kind.
	ExpectedToken
	// ExpectedName is recorded when a production requires an identifier (or
	// other "name" token class) and does not find one.
	ExpectedName
	// TrailingCommaNotAllowed is recorded when a grammar that disallows
	// trailing commas in a list finds one anyway (see scenario S2).
	TrailingCommaNotAllowed
	// UnexpectedEof is recorded when input ends where more tokens were
	// required.
	UnexpectedEof
	// SyntaxError is a catch-all for grammar-specific structural errors
	// that don't fit the other kinds.
	SyntaxError
	// LexicalError is recorded by the lexer runtime, e.g. for unrecognized
	// bytes consumed by the dead-lock guard.
	LexicalError
)

func (k Kind) String() string {
	switch k {
	case UnexpectedToken:
		return "UnexpectedToken"
	case ExpectedToken:
		return "ExpectedToken"
	case ExpectedName:
		return "ExpectedName"
	case TrailingCommaNotAllowed:
		return "TrailingCommaNotAllowed"
	case UnexpectedEof:
		return "UnexpectedEof"
	case SyntaxError:
		return "SyntaxError"
	case LexicalError:
		return "LexicalError"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Sentinel errors usable with errors.Is against any Diagnostic of the
// matching Kind, regardless of its offset, source, or message text.
var (
	ErrUnexpectedToken       = errors.New("unexpected token")
	ErrExpectedToken         = errors.New("expected token")
	ErrExpectedName          = errors.New("expected name")
	ErrTrailingCommaNotAllowed = errors.New("trailing comma not allowed")
	ErrUnexpectedEof         = errors.New("unexpected end of file")
	ErrSyntaxError           = errors.New("syntax error")
	ErrLexicalError          = errors.New("lexical error")
)

func sentinelFor(k Kind) error {
	switch k {
	case UnexpectedToken:
		return ErrUnexpectedToken
	case ExpectedToken:
		return ErrExpectedToken
	case ExpectedName:
		return ErrExpectedName
	case TrailingCommaNotAllowed:
		return ErrTrailingCommaNotAllowed
	case UnexpectedEof:
		return ErrUnexpectedEof
	case SyntaxError:
		return ErrSyntaxError
	case LexicalError:
		return ErrLexicalError
	default:
		return nil
	}
}

// Diagnostic is a single, offset-tagged parse or lex error. It implements
// error and supports errors.Is against the package's sentinel values.
type Diagnostic struct {
	Kind     Kind
	Offset   int
	SourceID string

	// Expected holds the human-readable name of what was wanted, for
	// ExpectedToken and ExpectedName.
	Expected string

	// Found holds the human-readable name of what was actually present, for
	// UnexpectedToken.
	Found string

	// Message holds the free-form text for SyntaxError and LexicalError.
	Message string
}

// Error implements the error interface.
func (d Diagnostic) Error() string {
	loc := fmt.Sprintf("offset %d", d.Offset)
	if d.SourceID != "" {
		loc = fmt.Sprintf("%s:%d", d.SourceID, d.Offset)
	}

	switch d.Kind {
	case UnexpectedToken:
		return fmt.Sprintf("%s: unexpected token %s", loc, d.Found)
	case ExpectedToken:
		return fmt.Sprintf("%s: expected %s", loc, d.Expected)
	case ExpectedName:
		return fmt.Sprintf("%s: expected a %s name", loc, d.Expected)
	case TrailingCommaNotAllowed:
		return fmt.Sprintf("%s: trailing comma not allowed", loc)
	case UnexpectedEof:
		return fmt.Sprintf("%s: unexpected end of file", loc)
	case SyntaxError:
		return fmt.Sprintf("%s: %s", loc, d.Message)
	case LexicalError:
		return fmt.Sprintf("%s: %s", loc, d.Message)
	default:
		return fmt.Sprintf("%s: %s", loc, d.Kind)
	}
}

// Is reports whether target is the sentinel error for d.Kind, so that
// errors.Is(d, diag.ErrExpectedToken) works regardless of d's offset or
// message text.
func (d Diagnostic) Is(target error) bool {
	return target == sentinelFor(d.Kind)
}

func NewUnexpectedToken(offset int, sourceID, found string) Diagnostic {
	return Diagnostic{Kind: UnexpectedToken, Offset: offset, SourceID: sourceID, Found: found}
}

func NewExpectedToken(offset int, sourceID, expected string) Diagnostic {
	return Diagnostic{Kind: ExpectedToken, Offset: offset, SourceID: sourceID, Expected: expected}
}

func NewExpectedName(offset int, sourceID, kind string) Diagnostic {
	return Diagnostic{Kind: ExpectedName, Offset: offset, SourceID: sourceID, Expected: kind}
}

func NewTrailingComma(offset int, sourceID string) Diagnostic {
	return Diagnostic{Kind: TrailingCommaNotAllowed, Offset: offset, SourceID: sourceID}
}

func NewUnexpectedEof(offset int, sourceID string) Diagnostic {
	return Diagnostic{Kind: UnexpectedEof, Offset: offset, SourceID: sourceID}
}

func NewSyntaxError(offset int, sourceID, message string) Diagnostic {
	return Diagnostic{Kind: SyntaxError, Offset: offset, SourceID: sourceID, Message: message}
}

func NewLexicalError(offset int, sourceID, message string) Diagnostic {
	return Diagnostic{Kind: LexicalError, Offset: offset, SourceID: sourceID, Message: message}
}

// ParseOutput is the result of running a parser: always a (possibly
// partial) tree when the parser made any progress at all, plus every
// diagnostic recorded along the way. Err is set only when the parser made
// no progress whatsoever (empty input or a catastrophic allocator
// failure), per specification §4.9; callers should inspect Diagnostics
// rather than rely on "no tree means errors".
type ParseOutput[T lang.TokenType, E lang.ElementType] struct {
	Root        *tree.GreenNode[T, E]
	Err         error
	Diagnostics []Diagnostic
}
