package query

import (
	"errors"
	"fmt"
)

// ErrMalformedExpression is wrapped by every ParseError.
var ErrMalformedExpression = errors.New("malformed expression")

// ParseError reports where a truth expression stopped making sense.
type ParseError struct {
	Pos     int
	Literal string
	Msg     string
}

func (e *ParseError) Error() string {
	if e.Literal == "" {
		return fmt.Sprintf("%s at position %d: %s", ErrMalformedExpression, e.Pos, e.Msg)
	}
	return fmt.Sprintf("%s at position %d near %q: %s", ErrMalformedExpression, e.Pos, e.Literal, e.Msg)
}

func (e *ParseError) Unwrap() error {
	return ErrMalformedExpression
}

func malformed(tok Token, msg string) error {
	return &ParseError{Pos: tok.Pos, Literal: tok.Literal, Msg: msg}
}

// ShuntingYard evaluates a truth expression over T, F, !, &, | and
// parentheses. ! binds tighter than &, & tighter than |, and binary
// operators are left-associative.
func ShuntingYard(expr string) (bool, error) {
	rpn, err := toPostfix(NewTruthLexer(expr).Tokens(), len(expr))
	if err != nil {
		return false, err
	}
	return evalPostfix(rpn)
}

// toPostfix converts infix tokens to reverse polish notation. It tracks
// whether an operand is expected next so misplaced operators and
// parentheses are reported instead of silently evaluated.
func toPostfix(tokens []Token, end int) ([]Token, error) {
	if len(tokens) == 0 {
		return nil, &ParseError{Pos: 1, Msg: "empty expression"}
	}

	var out, ops []Token
	expectOperand := true
	for _, tok := range tokens {
		switch {
		case tok.Type == TokenIllegal:
			return nil, malformed(tok, "unexpected character")

		case tok.Type.IsOperand():
			if tok.Type == TokenElement {
				return nil, malformed(tok, "unresolved predicate")
			}
			if !expectOperand {
				return nil, malformed(tok, "missing operator")
			}
			out = append(out, tok)
			expectOperand = false

		case tok.Type == TokenNot:
			if !expectOperand {
				return nil, malformed(tok, "negation after operand")
			}
			// Unary and right-associative: never pops.
			ops = append(ops, tok)

		case tok.Type == TokenAnd || tok.Type == TokenOr:
			if expectOperand {
				return nil, malformed(tok, "missing operand")
			}
			for len(ops) > 0 {
				top := ops[len(ops)-1]
				if top.Type == TokenLParen || top.Type.precedence() < tok.Type.precedence() {
					break
				}
				out = append(out, top)
				ops = ops[:len(ops)-1]
			}
			ops = append(ops, tok)
			expectOperand = true

		case tok.Type == TokenLParen:
			if !expectOperand {
				return nil, malformed(tok, "missing operator")
			}
			ops = append(ops, tok)

		case tok.Type == TokenRParen:
			if expectOperand {
				return nil, malformed(tok, "missing operand")
			}
			matched := false
			for len(ops) > 0 {
				top := ops[len(ops)-1]
				ops = ops[:len(ops)-1]
				if top.Type == TokenLParen {
					matched = true
					break
				}
				out = append(out, top)
			}
			if !matched {
				return nil, malformed(tok, "unbalanced parenthesis")
			}

		default:
			return nil, malformed(tok, "unexpected token")
		}
	}

	if expectOperand {
		return nil, &ParseError{Pos: end + 1, Msg: "missing operand at end"}
	}
	for len(ops) > 0 {
		top := ops[len(ops)-1]
		ops = ops[:len(ops)-1]
		if top.Type == TokenLParen {
			return nil, malformed(top, "unbalanced parenthesis")
		}
		out = append(out, top)
	}
	return out, nil
}

func evalPostfix(rpn []Token) (bool, error) {
	var stack []bool
	pop := func(tok Token) (bool, error) {
		if len(stack) == 0 {
			return false, malformed(tok, "missing operand")
		}
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		return v, nil
	}

	for _, tok := range rpn {
		if !tok.Type.IsOperator() && tok.Type != TokenTrue && tok.Type != TokenFalse {
			return false, malformed(tok, "unexpected token")
		}
		switch tok.Type {
		case TokenTrue:
			stack = append(stack, true)
		case TokenFalse:
			stack = append(stack, false)
		case TokenNot:
			v, err := pop(tok)
			if err != nil {
				return false, err
			}
			stack = append(stack, !v)
		case TokenAnd, TokenOr:
			right, err := pop(tok)
			if err != nil {
				return false, err
			}
			left, err := pop(tok)
			if err != nil {
				return false, err
			}
			if tok.Type == TokenAnd {
				stack = append(stack, left && right)
			} else {
				stack = append(stack, left || right)
			}
		}
	}
	if len(stack) != 1 {
		return false, &ParseError{Pos: 1, Msg: "dangling operands"}
	}
	return stack[0], nil
}
