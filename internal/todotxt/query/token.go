// Package query filters todo.txt tasks with boolean expressions such as
// "(pri:A | pri:B) & !+work & due<".
//
// Evaluation happens in two steps. ParseQuery substitutes every predicate
// with T or F for a given task, producing a truth expression like "(T|F)&!T".
// ShuntingYard then evaluates that expression.
package query

import "strings"

// TokenType represents the type of lexical token.
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenIllegal

	// Operands
	TokenElement // predicate such as +work, pri:A, due<
	TokenTrue    // T
	TokenFalse   // F

	// Delimiters
	TokenLParen // (
	TokenRParen // )

	// Operators
	TokenNot // !, not
	TokenAnd // &, &&, and
	TokenOr  // |, ||, or
)

// String returns the string representation of the token type.
func (t TokenType) String() string {
	switch t {
	case TokenEOF:
		return "EOF"
	case TokenIllegal:
		return "ILLEGAL"
	case TokenElement:
		return "ELEMENT"
	case TokenTrue:
		return "T"
	case TokenFalse:
		return "F"
	case TokenLParen:
		return "("
	case TokenRParen:
		return ")"
	case TokenNot:
		return "!"
	case TokenAnd:
		return "&"
	case TokenOr:
		return "|"
	default:
		return "UNKNOWN"
	}
}

// Token represents a lexical token.
type Token struct {
	Type    TokenType
	Literal string
	Pos     int // Position in input for error reporting
}

// keywords maps word operators to their token types.
var keywords = map[string]TokenType{
	"and": TokenAnd,
	"or":  TokenOr,
	"not": TokenNot,
}

// LookupKeyword returns the operator token for a word operator, or
// TokenElement for anything else.
func LookupKeyword(word string) TokenType {
	if tok, ok := keywords[strings.ToLower(word)]; ok {
		return tok
	}
	return TokenElement
}

// IsOperator returns true for !, & and |.
func (t TokenType) IsOperator() bool {
	return t == TokenNot || t == TokenAnd || t == TokenOr
}

// IsOperand returns true for T, F and predicates.
func (t TokenType) IsOperand() bool {
	return t == TokenElement || t == TokenTrue || t == TokenFalse
}

// precedence orders operators: ! binds tighter than &, which binds tighter
// than |.
func (t TokenType) precedence() int {
	switch t {
	case TokenNot:
		return 3
	case TokenAnd:
		return 2
	case TokenOr:
		return 1
	}
	return 0
}

// symbol is the single-character form used in truth expressions.
func (t TokenType) symbol() string {
	switch t {
	case TokenTrue:
		return "T"
	case TokenFalse:
		return "F"
	case TokenLParen:
		return "("
	case TokenRParen:
		return ")"
	case TokenNot:
		return "!"
	case TokenAnd:
		return "&"
	case TokenOr:
		return "|"
	}
	return ""
}
