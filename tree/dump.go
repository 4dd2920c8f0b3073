package tree

import (
	"fmt"
	"strings"

	"github.com/dekarrin/oak/lang"
	"github.com/dekarrin/rosed"
)

// dumpWrapWidth is the column at which long leaf-text previews are wrapped
// in Dump output, grounded on internal/ictiobus/types.ParseTree's dialog-text
// wrapping width (60) in tunascript/syntax/ast.go.
const dumpWrapWidth = 60

const (
	dumpLevelEmpty      = "        "
	dumpLevelOngoing    = "  |     "
	dumpLevelPrefix     = "  |-- "
	dumpLevelPrefixLast = `  \-- `
)

// Dump renders a red tree as a human-readable, indented listing suitable
// for eyeballing in `oak parse` output and for line-by-line comparisons in
// tests, grounded on internal/ictiobus/types.ParseTree.leveledStr.
func Dump[T lang.TokenType, E lang.ElementType](root *RedNode[T, E], src interface{ Slice(int, int) string }) string {
	var sb strings.Builder
	dumpNode[T, E](&sb, RedTree[T, E]{node: root}, "", "", src)
	return sb.String()
}

func dumpNode[T lang.TokenType, E lang.ElementType](sb *strings.Builder, rt RedTree[T, E], firstPrefix, contPrefix string, src interface{ Slice(int, int) string }) {
	sb.WriteString(firstPrefix)

	if node, ok := rt.AsNode(); ok {
		start, end := node.Span()
		fmt.Fprintf(sb, "(%s %d..%d)", node.Green.Kind, start, end)

		children := node.Children()
		for i, child := range children {
			sb.WriteRune('\n')
			var childFirst, childCont string
			if i+1 < len(children) {
				childFirst = contPrefix + dumpLevelPrefix
				childCont = contPrefix + dumpLevelOngoing
			} else {
				childFirst = contPrefix + dumpLevelPrefixLast
				childCont = contPrefix + dumpLevelEmpty
			}
			dumpNode(sb, child, childFirst, childCont, src)
		}
		return
	}

	leaf, _ := rt.AsLeaf()
	start, end := leaf.Span()
	text := src.Slice(start, end)
	if len(text) > dumpWrapWidth {
		text = rosed.Edit(text).Wrap(dumpWrapWidth).String()
	}
	fmt.Fprintf(sb, "(%s %d..%d %q)", leaf.Green.Kind, start, end, text)
}
