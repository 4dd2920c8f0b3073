package lexer

import (
	"github.com/dekarrin/oak/diag"
	"github.com/dekarrin/oak/lang"
)

func diagGiveUp(offset int, sourceID string) diag.Diagnostic {
	return diag.NewLexicalError(offset, sourceID, "giving up after repeated unrecognized input")
}

// StringConfig configures ScanString for a grammar's string-literal syntax:
// which characters may open/close a literal, and which character (if any)
// escapes the next one. Grounded on the teacher's per-grammar handling
// scattered across original_source's lexer/mod.rs files, generalized into
// one reusable helper per specification §4.3.
type StringConfig struct {
	Quotes []rune
	Escape rune // zero rune means "no escape character"
}

func (c StringConfig) isQuote(r rune) bool {
	for _, q := range c.Quotes {
		if q == r {
			return true
		}
	}
	return false
}

// ScanString scans a single string literal starting at the cursor, which
// must be positioned on one of cfg.Quotes. It consumes through the matching
// closing quote (respecting cfg.Escape) and returns true. If the literal is
// unterminated — cut off by a line terminator or end of input — it consumes
// up to, but not including, the line terminator (or through end of input)
// and returns false;
// the caller is expected to still emit a string-literal token for the
// consumed span (scenario S6) and may additionally record a diagnostic via
// State.RecordDiagnostic.
func (s *State[T]) ScanString(cfg StringConfig) (terminated bool) {
	openRune, openSize, ok := s.src.PeekCharAt(s.pos)
	if !ok || !cfg.isQuote(openRune) {
		return false
	}
	s.Advance(openSize)

	for {
		r, size, ok := s.src.PeekCharAt(s.pos)
		if !ok {
			return false
		}
		if r == '\n' {
			return false
		}
		if cfg.Escape != 0 && r == cfg.Escape {
			s.Advance(size)
			_, escSize, ok2 := s.src.PeekCharAt(s.pos)
			if !ok2 {
				return false
			}
			s.Advance(escSize)
			continue
		}
		if r == openRune {
			s.Advance(size)
			return true
		}
		s.Advance(size)
	}
}

// SkipWhitespace advances the cursor past every byte <= 0x20, the
// observable behavior the specification requires of the whitespace
// skipper; Oak's implementation is the scalar loop the specification notes
// is an acceptable substitute for a SIMD-accelerated one.
func (s *State[T]) SkipWhitespace() {
	for {
		r, size, ok := s.src.PeekCharAt(s.pos)
		if !ok || r > 0x20 {
			break
		}
		s.Advance(size)
	}
}

// RunUntilEOF drives the standard top-level lexer loop: call step once per
// iteration, automatically invoking the dead-lock guard so that every
// iteration makes forward progress, and finish by appending the EOF
// sentinel. If step fails to make progress more than
// Config.MaxDeadlockRetries times in a row, the remainder of the input is
// consumed as a single errKind token with one final LexicalError, rather
// than emitting one error token per remaining byte.
func RunUntilEOF[T lang.TokenType](s *State[T], errKind T, step func(*State[T])) {
	consecutiveDeadlocks := 0
	for s.GetPosition() < s.Length() {
		safePoint := s.GetPosition()
		step(s)
		if s.AdvanceIfDeadlock(safePoint, errKind) {
			consecutiveDeadlocks++
			if consecutiveDeadlocks > s.cfg.MaxDeadlockRetries {
				remainderStart := s.GetPosition()
				s.RecordDiagnostic(diagGiveUp(remainderStart, s.SourceID()))
				s.AddToken(errKind, remainderStart, s.Length())
				s.SetPosition(s.Length())
				break
			}
		} else {
			consecutiveDeadlocks = 0
		}
	}
	s.AddEOF()
}
