// Package lang defines the contract a concrete grammar adaptor implements to
// plug into the Oak runtime: the token and element alphabets, and a closed
// per-language configuration object. It is grounded on
// internal/ictiobus/types.TokenClass from the teacher repository, generalized
// from a single open string-keyed class into the two disjoint, statically
// typed enumerations the specification requires.
package lang

import "fmt"

// TokenType is the alphabet produced by a language's lexer. Concrete
// grammars define their own type (typically a small integer enum) and
// implement this interface on it.
type TokenType interface {
	fmt.Stringer

	// IsIgnored reports whether tokens of this kind are trivia: whitespace,
	// comments, or other text carrying no grammatical weight. Trivia is
	// still emitted as a token and still stored as a tree leaf (see
	// package tree), but parser lookahead skips over it.
	IsIgnored() bool
}

// ElementType is the set of internal node kinds a language's parser
// produces.
type ElementType interface {
	fmt.Stringer
}

// Language binds a TokenType alphabet and an ElementType alphabet together
// with a Config. Grammar adaptors provide exactly one Language value; the
// core packages are generic over it.
type Language[T TokenType, E ElementType] interface {
	// Name identifies the language by a human-readable name.
	Name() string

	// Config returns the language's configuration object, as loaded from
	// defaults or from a TOML file (see LoadConfig).
	Config() Config
}

// Config is a closed, per-language configuration object (specification
// §3.1). It governs cross-cutting runtime behavior that is otherwise
// identical across grammars: how many dead-lock-guard retries the lexer
// tolerates before giving up on a generation, and how large a cursor-step
// budget the incremental engine is given before it aborts a reuse attempt
// and falls back to a full parse (specification §4.8 step 4).
type Config struct {
	// MaxDeadlockRetries bounds how many times lexer.RunUntilEOF will invoke
	// the dead-lock guard consecutively before it gives up and returns a
	// LexicalError covering the remainder of the input, rather than looping
	// forever on a pathological adaptor. Zero means "use the default of 1",
	// i.e. a single stuck iteration is tolerated once per loop (the dead-lock
	// guard's entire purpose is to force exactly one byte of progress each
	// time it fires).
	MaxDeadlockRetries int

	// IncrementalCursorBudget bounds how many cursor steps (StepInto,
	// StepNext, StepOver combined) incremental.TryReuse will spend walking
	// toward a target position before aborting the reuse attempt for that
	// position. Zero means "use the package default" (see
	// incremental.DefaultCursorBudget).
	IncrementalCursorBudget int
}

// WithDefaults returns a copy of c with zero-valued fields replaced by
// package defaults.
func (c Config) WithDefaults() Config {
	if c.MaxDeadlockRetries <= 0 {
		c.MaxDeadlockRetries = 1
	}
	if c.IncrementalCursorBudget <= 0 {
		c.IncrementalCursorBudget = 4096
	}
	return c
}
