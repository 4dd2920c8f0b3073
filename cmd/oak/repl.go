package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/chzyer/readline"
	"github.com/dekarrin/oak/diag"
	"github.com/dekarrin/oak/example/jsonlang"
	"github.com/dekarrin/oak/lang"
	"github.com/dekarrin/oak/lexer"
	"github.com/dekarrin/oak/parser"
	"github.com/dekarrin/oak/source"
	"github.com/dekarrin/oak/tree"
)

// runRepl starts an interactive session using GNU-readline-style input,
// grounded on internal/input.InteractiveCommandReader's readline wiring.
// Each submitted line is appended to a running source buffer as a single
// insertion edit, then the whole buffer is reparsed incrementally against
// the previous green tree, reporting how many top-level declarations came
// through the edit structurally unchanged.
func runRepl(cfg lang.Config) error {
	rl, err := readline.NewEx(&readline.Config{Prompt: "oak> "})
	if err != nil {
		return fmt.Errorf("starting readline: %w", err)
	}
	defer rl.Close()

	cache := &lexer.Cache{}
	text := source.NewText("<repl>", "")
	var root *tree.GreenNode[jsonlang.TokenKind, jsonlang.NodeKind]

	for {
		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, readline.ErrInterrupt) {
				return nil
			}
			return err
		}

		edit := source.Edit{Start: text.Length(), End: text.Length(), Replacement: line + "\n"}
		newText, err := source.Apply(text, []source.Edit{edit})
		if err != nil {
			fmt.Fprintln(rl.Stderr(), err.Error())
			continue
		}

		out := parser.ParseIncremental[jsonlang.TokenKind, jsonlang.NodeKind](
			newText, cache, root, []source.Edit{edit}, cfg, jsonlang.Lex, jsonlang.ParseProgram,
		)

		printReplResult(root, out, newText)

		text = newText
		root = out.Root
	}
}

func printReplResult(oldRoot *tree.GreenNode[jsonlang.TokenKind, jsonlang.NodeKind], out diag.ParseOutput[jsonlang.TokenKind, jsonlang.NodeKind], src source.Text) {
	if out.Root != nil {
		red := tree.FromGreenRoot(out.Root)
		fmt.Println(tree.Dump(red, src))

		unchanged, total := unchangedTopLevelDecls(oldRoot, out.Root)
		fmt.Printf("(%d of %d top-level items unchanged by incremental reuse)\n", unchanged, total)
	}
	for _, d := range out.Diagnostics {
		fmt.Println(d.Error())
	}
}

// unchangedTopLevelDecls compares oldRoot's and newRoot's top-level children
// pairwise by structural equality (tree.GreenNode.Equal). Equality holds when
// TryReuseNode grafted the old subtree in place, and equally when the item
// was reparsed fresh into an identical structure; the count does not tell
// the two apart.
func unchangedTopLevelDecls(oldRoot, newRoot *tree.GreenNode[jsonlang.TokenKind, jsonlang.NodeKind]) (unchanged, total int) {
	if newRoot == nil {
		return 0, 0
	}
	total = len(newRoot.Children)
	if oldRoot == nil {
		return 0, total
	}
	for i, nc := range newRoot.Children {
		if i >= len(oldRoot.Children) {
			break
		}
		nn, nIsNode := nc.AsNode()
		on, oIsNode := oldRoot.Children[i].AsNode()
		if nIsNode && oIsNode && nn.Equal(on) {
			unchanged++
		}
	}
	return unchanged, total
}
