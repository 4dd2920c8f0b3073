package parser

import (
	"fmt"

	"github.com/dekarrin/oak/arena"
	"github.com/dekarrin/oak/diag"
	"github.com/dekarrin/oak/incremental"
	"github.com/dekarrin/oak/lang"
	"github.com/dekarrin/oak/lexer"
	"github.com/dekarrin/oak/source"
	"github.com/dekarrin/oak/tree"
)

// LexFunc is the shape a grammar adaptor's lexer entry point takes: given the
// source text and a reusable Cache, produce every token plus whatever
// lexical diagnostics it recorded. Grammar adaptors typically implement this
// as a thin wrapper around lexer.RunUntilEOF driving their own step
// function.
type LexFunc[T lang.TokenType] func(src source.Source, cache *lexer.Cache) lexer.Output[T]

// RootFunc is a grammar's entry production: given a ready State, parse the
// entire input and return the root GreenNode (or nil if parsing produced
// nothing at all).
type RootFunc[T lang.TokenType, E lang.ElementType] func(*State[T, E]) *tree.GreenNode[T, E]

// Parse runs lexFn then root over src from scratch, with no incremental
// reuse. It is the non-incremental entry point: specification §4.9's "first
// parse of a generation" path.
func Parse[T lang.TokenType, E lang.ElementType](
	src source.Source,
	cache *lexer.Cache,
	lexFn LexFunc[T],
	root RootFunc[T, E],
) diag.ParseOutput[T, E] {
	return ParseIncremental[T, E](src, cache, nil, nil, lang.Config{}, lexFn, root)
}

// ParseIncremental runs lexFn then root over src, attempting incremental
// reuse against oldRoot (which may be nil, disabling reuse) for the given
// edits. It is the single entry point specification §4.9 describes as
// "parse_with_lexer": grammar adaptors call it with their own LexFunc and
// RootFunc rather than wiring the lexer, arena, and incremental context
// together by hand each time.
func ParseIncremental[T lang.TokenType, E lang.ElementType](
	src source.Source,
	cache *lexer.Cache,
	oldRoot *tree.GreenNode[T, E],
	edits []source.Edit,
	cfg lang.Config,
	lexFn LexFunc[T],
	root RootFunc[T, E],
) (result diag.ParseOutput[T, E]) {
	// A panic during lexing or parsing is reported as a single SyntaxError
	// diagnostic with no tree rather than escaping the call.
	defer func() {
		if r := recover(); r != nil {
			d := diag.NewSyntaxError(0, src.SourceID(), fmt.Sprintf("parse aborted: %v", r))
			result = diag.ParseOutput[T, E]{Err: d, Diagnostics: []diag.Diagnostic{d}}
		}
	}()

	out := lexFn(src, cache)

	a := arena.New()

	var incr *incremental.Context[T, E]
	if oldRoot != nil {
		incr = incremental.NewContext(oldRoot, edits, cfg)
	}

	st := NewState[T, E](out.Tokens, a, src, out.Diagnostics, incr)
	node := root(st)
	return Finish(st, node)
}
