package jsonlang

import (
	"unicode"

	"github.com/dekarrin/oak/diag"
	"github.com/dekarrin/oak/lang"
	"github.com/dekarrin/oak/lexer"
	"github.com/dekarrin/oak/source"
)

func unterminatedStringDiagnostic(offset int, sourceID string) diag.Diagnostic {
	return diag.NewLexicalError(offset, sourceID, "unterminated string literal")
}

// Lex tokenizes src into jsonlang's token alphabet. It satisfies
// parser.LexFunc[TokenKind], so a driver calls it as
// parser.ParseIncremental(src, cache, oldRoot, edits, cfg, jsonlang.Lex,
// jsonlang.ParseProgram).
func Lex(src source.Source, cache *lexer.Cache) lexer.Output[TokenKind] {
	s := lexer.NewState[TokenKind](src, EOF, lang.Config{}.WithDefaults(), cache)
	lexer.RunUntilEOF(s, Error, step)
	return s.FinishWithCache(nil, cache)
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isIdentStart(r rune) bool {
	r = lexer.FoldIdentifierRune(r)
	return r == '_' || unicode.IsLetter(r)
}

func isIdentCont(r rune) bool {
	r = lexer.FoldIdentifierRune(r)
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

var singleCharTokens = map[rune]TokenKind{
	'{': LBrace,
	'}': RBrace,
	'[': LBracket,
	']': RBracket,
	'(': LParen,
	')': RParen,
	':': Colon,
	',': Comma,
	'+': Plus,
	'*': Star,
}

func step(s *lexer.State[TokenKind]) {
	start := s.GetPosition()
	r, ok := s.Peek()
	if !ok {
		return
	}

	if r <= ' ' {
		s.SkipWhitespace()
		if s.GetPosition() > start {
			s.AddToken(Whitespace, start, s.GetPosition())
		}
		return
	}

	if kind, ok := singleCharTokens[r]; ok {
		s.Advance(1)
		s.AddToken(kind, start, s.GetPosition())
		return
	}

	if r == '"' {
		terminated := s.ScanString(lexer.StringConfig{Quotes: []rune{'"'}, Escape: '\\'})
		s.AddToken(String, start, s.GetPosition())
		if !terminated {
			s.RecordDiagnostic(unterminatedStringDiagnostic(start, s.SourceID()))
		}
		return
	}

	if isDigit(r) {
		s.TakeWhile(isDigit)
		if s.ConsumeIfStartsWith(".") {
			s.TakeWhile(isDigit)
		}
		s.AddToken(Number, start, s.GetPosition())
		return
	}

	if isIdentStart(r) {
		s.TakeWhile(isIdentCont)
		text := s.GetTextIn(start, s.GetPosition())
		kind, isKeyword := keywords[text]
		if !isKeyword {
			kind = Ident
		}
		s.AddToken(kind, start, s.GetPosition())
		return
	}

	// Unrecognized input: leave the cursor where it is. RunUntilEOF's
	// dead-lock guard advances exactly one rune and emits an Error token.
}
