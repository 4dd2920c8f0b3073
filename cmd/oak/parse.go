package main

import (
	"fmt"
	"os"

	"github.com/dekarrin/oak/diag"
	"github.com/dekarrin/oak/example/jsonlang"
	"github.com/dekarrin/oak/lang"
	"github.com/dekarrin/oak/lexer"
	"github.com/dekarrin/oak/parser"
	"github.com/dekarrin/oak/source"
	"github.com/dekarrin/oak/tree"
)

// runParse reads path and performs a single non-incremental parse against
// the bundled jsonlang grammar, printing the resulting red tree and every
// diagnostic to stdout and stderr respectively.
func runParse(path string, cfg lang.Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	src := source.NewText(path, string(data))
	out := parser.ParseIncremental[jsonlang.TokenKind, jsonlang.NodeKind](
		src, &lexer.Cache{}, nil, nil, cfg, jsonlang.Lex, jsonlang.ParseProgram,
	)

	printParseOutput(out, src)
	if out.Err != nil {
		return out.Err
	}
	return nil
}

func printParseOutput(out diag.ParseOutput[jsonlang.TokenKind, jsonlang.NodeKind], src source.Text) {
	if out.Root != nil {
		red := tree.FromGreenRoot(out.Root)
		fmt.Println(tree.Dump(red, src))
	}
	for _, d := range out.Diagnostics {
		fmt.Fprintln(os.Stderr, d.Error())
	}
}
