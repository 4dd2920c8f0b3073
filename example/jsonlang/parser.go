package jsonlang

import (
	"github.com/dekarrin/oak/parser"
	"github.com/dekarrin/oak/pratt"
	"github.com/dekarrin/oak/tree"
)

var operatorTable = pratt.OperatorTable[TokenKind]{
	Plus: pratt.Binary(10, pratt.LeftAssoc),
	Star: pratt.Binary(20, pratt.LeftAssoc),
}

func exprGrammar() pratt.Grammar[TokenKind, NodeKind] {
	return pratt.Grammar[TokenKind, NodeKind]{
		Primary: parsePrimary,
		Table:   operatorTable,
		Kind:    Binary,
	}
}

// ParseProgram is jsonlang's entry production: satisfies
// parser.RootFunc[TokenKind, NodeKind]. A program is a sequence of top-level
// items, each either a function declaration or a bare expression statement
// (so a JSON value is itself a valid one-item program). Function
// declarations are offered to the incremental engine before falling back to
// a normal parse, which is what lets an untouched `fn a(){}` get grafted in
// unchanged across a reparse.
func ParseProgram(s *parser.State[TokenKind, NodeKind]) *tree.GreenNode[TokenKind, NodeKind] {
	cp := s.Checkpoint()

	for s.NotAt(EOF) {
		if s.TryReuseNode(FnDecl) {
			continue
		}
		if s.At(Fn) {
			parseFnDecl(s)
			continue
		}
		parseStmt(s)
	}

	return s.FinishAt(cp, Program)
}

func parseFnDecl(s *parser.State[TokenKind, NodeKind]) {
	cp := s.Checkpoint()
	s.Bump() // 'fn', the caller has already confirmed s.At(Fn)

	if !s.Expect(Ident, "function name") {
		s.AdvanceUntilAny([]TokenKind{LBrace, Fn, EOF})
	}
	s.Expect(LParen, "'('")
	s.Expect(RParen, "')'")
	parseBlock(s)

	s.FinishAt(cp, FnDecl)
}

func parseBlock(s *parser.State[TokenKind, NodeKind]) {
	cp := s.Checkpoint()
	if !s.Expect(LBrace, "'{'") {
		s.FinishAt(cp, Block)
		return
	}

	for s.NotAt(RBrace) && s.NotAt(EOF) {
		parseStmt(s)
	}
	s.Expect(RBrace, "'}'")

	s.FinishAt(cp, Block)
}

func parseStmt(s *parser.State[TokenKind, NodeKind]) {
	cp := s.Checkpoint()
	if parseExpr(s) == nil {
		s.Bump() // forced progress past a token no production recognized
	}
	s.FinishAt(cp, ExprStmt)
}

func parseExpr(s *parser.State[TokenKind, NodeKind]) *tree.GreenNode[TokenKind, NodeKind] {
	return pratt.Parse(s, 0, exprGrammar())
}

func parsePrimary(s *parser.State[TokenKind, NodeKind]) *tree.GreenNode[TokenKind, NodeKind] {
	cp := s.Checkpoint()
	kind, ok := s.PeekKind()
	if !ok {
		s.RecordUnexpectedEof()
		return nil
	}

	switch kind {
	case Number:
		s.Bump()
		return s.FinishAt(cp, NumberLit)

	case String:
		s.Bump()
		return s.FinishAt(cp, StringLit)

	case True, False:
		s.Bump()
		return s.FinishAt(cp, BoolLit)

	case Null:
		s.Bump()
		return s.FinishAt(cp, NullLit)

	case LParen:
		s.Bump()
		parseExpr(s)
		s.Expect(RParen, "')'")
		return s.FinishAt(cp, ParenExpr)

	case LBracket:
		return parseArray(s, cp)

	case LBrace:
		return parseObject(s, cp)

	case Ident:
		if next, hasNext := s.PeekNonTriviaKindAt(1); hasNext && next == LParen {
			return parseCall(s, cp)
		}
		s.Bump()
		return s.FinishAt(cp, IdentExpr)

	default:
		s.RecordUnexpectedToken(kind.String())
		return nil
	}
}

func parseCall(s *parser.State[TokenKind, NodeKind], cp parser.Checkpoint) *tree.GreenNode[TokenKind, NodeKind] {
	s.Bump() // function name
	s.Expect(LParen, "'('")
	parseArgList(s)
	s.Expect(RParen, "')'")
	return s.FinishAt(cp, Call)
}

func parseArgList(s *parser.State[TokenKind, NodeKind]) {
	cp := s.Checkpoint()
	parseCommaList(s, RParen, func() { parseExpr(s) })
	s.FinishAt(cp, ArgList)
}

func parseArray(s *parser.State[TokenKind, NodeKind], cp parser.Checkpoint) *tree.GreenNode[TokenKind, NodeKind] {
	s.Bump() // '['
	parseCommaList(s, RBracket, func() { parseExpr(s) })
	s.Expect(RBracket, "']'")
	return s.FinishAt(cp, Array)
}

func parseObject(s *parser.State[TokenKind, NodeKind], cp parser.Checkpoint) *tree.GreenNode[TokenKind, NodeKind] {
	s.Bump() // '{'
	parseCommaList(s, RBrace, func() { parseField(s) })
	s.Expect(RBrace, "'}'")
	return s.FinishAt(cp, Object)
}

func parseField(s *parser.State[TokenKind, NodeKind]) {
	cp := s.Checkpoint()
	if !s.Expect(String, "field name") {
		s.RecordExpectedName("field")
	}
	s.Expect(Colon, "':'")
	parseExpr(s)
	s.FinishAt(cp, Field)
}

// parseCommaList drives the closer-terminated, comma-separated shared shape
// behind argument lists, arrays, and objects. jsonlang disallows a trailing
// comma in all three positions; the diagnostic is anchored at the comma's
// own offset (scenario S2), not wherever the cursor ends up after the
// closer.
func parseCommaList(s *parser.State[TokenKind, NodeKind], closer TokenKind, parseElem func()) {
	if s.At(closer) {
		return
	}
	for {
		parseElem()
		if !s.At(Comma) {
			return
		}
		commaOffset := s.CurrentOffset()
		s.Bump()
		if s.At(closer) {
			s.RecordTrailingCommaAt(commaOffset)
			return
		}
	}
}
