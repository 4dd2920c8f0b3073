// Package pratt implements Oak's expression-parsing engine (specification
// §4.7): precedence-climbing over a grammar-supplied operator table, built
// on top of package parser's checkpoint/finish primitives. It is grounded on
// original_source/projects/oak-core/src/parser/pratt.rs's led/nud driver,
// re-expressed with an explicit OperatorTable in place of trait-object
// dispatch, since Go grammars are expected to describe their operators
// declaratively rather than implement a per-operator interface.
package pratt

import (
	"github.com/dekarrin/oak/lang"
	"github.com/dekarrin/oak/parser"
	"github.com/dekarrin/oak/tree"
)

// Assoc is an operator's associativity, determining the minimum precedence
// passed to the recursive call that parses its right-hand operand.
type Assoc int

const (
	// LeftAssoc means a OP b OP c parses as (a OP b) OP c: the recursive
	// call for the right operand requires precedence strictly greater than
	// the operator's own.
	LeftAssoc Assoc = iota
	// RightAssoc means a OP b OP c parses as a OP (b OP c): the recursive
	// call accepts precedence equal to the operator's own.
	RightAssoc
	// NonAssoc means a OP b OP c is a syntax error: the right operand must
	// bind strictly tighter (as for LeftAssoc), and after one application
	// Parse returns, recording a SyntaxError if the next token is an
	// operator of the same precedence and leaving that operator unconsumed.
	NonAssoc
)

// OperatorInfo is one entry of an OperatorTable: an infix operator's binding
// power and associativity.
type OperatorInfo struct {
	Precedence int
	Assoc      Assoc
}

// OperatorTable maps an infix operator's token kind to its OperatorInfo. It
// is the declarative alternative to hand-writing infix precedence logic, per specification §4.7's note that most grammars need nothing more
// than a flat table.
type OperatorTable[T lang.TokenType] map[T]OperatorInfo

// NextMinPrecedence returns the minimum precedence the recursive call for an
// operator's right-hand operand must satisfy, given the operator's own
// OperatorInfo.
func (info OperatorInfo) NextMinPrecedence() int {
	switch info.Assoc {
	case RightAssoc:
		return info.Precedence
	default: // LeftAssoc, NonAssoc
		return info.Precedence + 1
	}
}

// Grammar supplies the three hooks the Pratt driver needs from a concrete
// language: how to parse a primary (operand) expression, and how to extend
// an already-parsed left-hand side with an infix operator at or above a
// minimum precedence. Unary prefix operators are expected to be handled
// inside Primary, recursing into Parse themselves at their own precedence
// (specification §4.7 treats prefix operators as part of nud, not led).
type Grammar[T lang.TokenType, E lang.ElementType] struct {
	// Primary parses one operand: a literal, a parenthesized sub-expression,
	// or a prefix-operator application. It is responsible for its own
	// Checkpoint/FinishAt pair.
	Primary func(s *parser.State[T, E]) *tree.GreenNode[T, E]

	// Table is consulted to decide whether the current token is an infix
	// operator, and if so at what precedence and associativity.
	Table OperatorTable[T]

	// Kind is the element kind FinishAt uses when wrapping a left-hand side
	// and its right-hand operand into a binary expression node.
	Kind E
}

// Binary constructs an OperatorInfo, for populating an OperatorTable
// declaratively:
//
//	table := pratt.OperatorTable[tok.Kind]{
//	    tok.Plus:  pratt.Binary(10, pratt.LeftAssoc),
//	    tok.Caret: pratt.Binary(20, pratt.RightAssoc),
//	}
func Binary(precedence int, assoc Assoc) OperatorInfo {
	return OperatorInfo{Precedence: precedence, Assoc: assoc}
}

// Unary parses a single prefix-operator application: the current token
// (which must be a prefix operator the caller has already recognized) is
// consumed, then Parse recurses at operandPrecedence to parse the operand,
// and the two are wrapped into a node of kind. It is meant to be called from
// within a Grammar's Primary hook, since prefix operators are nud-position
// per specification §4.7, not led-position like Grammar.Table's entries.
func Unary[T lang.TokenType, E lang.ElementType](s *parser.State[T, E], kind E, operandPrecedence int, grammar Grammar[T, E]) *tree.GreenNode[T, E] {
	cp := s.Checkpoint()
	s.Bump() // consume the prefix operator

	operand := Parse(s, operandPrecedence, grammar)
	if operand == nil {
		s.Restore(cp)
		return nil
	}
	return s.FinishAt(cp, kind)
}

// Parse runs precedence climbing starting from minPrecedence (pass 0 for a
// top-level expression): parses one primary via grammar.Primary, then
// repeatedly extends it with infix operators from grammar.Table whose
// precedence is at least minPrecedence, recursing for each operator's
// right-hand operand with that operator's NextMinPrecedence.
func Parse[T lang.TokenType, E lang.ElementType](s *parser.State[T, E], minPrecedence int, grammar Grammar[T, E]) *tree.GreenNode[T, E] {
	cp := s.Checkpoint()

	left := grammar.Primary(s)
	if left == nil {
		return nil
	}

	for {
		kind, ok := s.PeekKind()
		if !ok {
			return left
		}
		info, isOperator := grammar.Table[kind]
		if !isOperator || info.Precedence < minPrecedence {
			return left
		}

		opCp := s.Checkpoint()
		s.Bump() // consume the operator token

		right := Parse(s, info.NextMinPrecedence(), grammar)
		if right == nil {
			s.Restore(opCp)
			return left
		}

		left = s.FinishAt(cp, grammar.Kind)

		if info.Assoc == NonAssoc {
			if next, ok := s.PeekKind(); ok {
				if nextInfo, isOp := grammar.Table[next]; isOp && nextInfo.Precedence == info.Precedence {
					s.RecordSyntaxError("non-associative operator cannot be chained")
				}
			}
			return left
		}
	}
}
