package query

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestShuntingYard(t *testing.T) {
	tests := []struct {
		expr     string
		expected bool
	}{
		{"T", true},
		{"F", false},
		{"!T", false},
		{"!!T", true},
		{"T&F", false},
		{"T|F", true},
		{"F|T&F", false},
		{"T|F&F", true},
		{"(T|F)&F", false},
		{"!F&T", true},
		{"!(T&F)", true},
		{"T|T|T&F", true},
		{"F&F|T", true},
		{" T | F ", true},
		{"((T))", true},
		{"(T|F)&!T&F&F|!T|F", false},
		{"(F|T|F)&!F&T&F|!F|T", true},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := ShuntingYard(tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestShuntingYard_Malformed(t *testing.T) {
	for _, expr := range []string{"", "&", "T&", "T F", "(T", "T)", "()", "T!", "!", "T&&F", "x", "T|(F&)"} {
		t.Run(expr, func(t *testing.T) {
			_, err := ShuntingYard(expr)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformedExpression)

			var perr *ParseError
			require.True(t, errors.As(err, &perr))
			assert.Positive(t, perr.Pos)
		})
	}
}

func TestShuntingYard_RejectsUnresolvedPredicates(t *testing.T) {
	tokens := NewLexer("+work").Tokens()
	_, err := toPostfix(tokens, 5)
	require.ErrorIs(t, err, ErrMalformedExpression)
	assert.Contains(t, err.Error(), "unresolved predicate")

	_, err = evalPostfix([]Token{{Type: TokenTrue, Pos: 1}, {Type: TokenLParen, Literal: "(", Pos: 2}})
	require.ErrorIs(t, err, ErrMalformedExpression)
	assert.Contains(t, err.Error(), "unexpected token")
}

func TestParseError_Message(t *testing.T) {
	_, err := ShuntingYard("T)")
	require.Error(t, err)
	assert.Equal(t, `malformed expression at position 2 near ")": unbalanced parenthesis`, err.Error())
}

// refParser is a recursive-descent evaluator of the same grammar used to
// cross-check ShuntingYard.
//
//	or   := and ('|' and)*
//	and  := not ('&' not)*
//	not  := '!' not | atom
//	atom := 'T' | 'F' | '(' or ')'
type refParser struct {
	s   string
	pos int
}

func (p *refParser) or() bool {
	v := p.and()
	for p.pos < len(p.s) && p.s[p.pos] == '|' {
		p.pos++
		r := p.and()
		v = v || r
	}
	return v
}

func (p *refParser) and() bool {
	v := p.not()
	for p.pos < len(p.s) && p.s[p.pos] == '&' {
		p.pos++
		r := p.not()
		v = v && r
	}
	return v
}

func (p *refParser) not() bool {
	if p.s[p.pos] == '!' {
		p.pos++
		return !p.not()
	}
	return p.atom()
}

func (p *refParser) atom() bool {
	c := p.s[p.pos]
	p.pos++
	if c == '(' {
		v := p.or()
		p.pos++ // ')'
		return v
	}
	return c == 'T'
}

func genExpr(t *rapid.T, depth int) string {
	if depth <= 0 {
		return rapid.SampledFrom([]string{"T", "F"}).Draw(t, "atom")
	}
	switch rapid.IntRange(0, 4).Draw(t, "shape") {
	case 0:
		return rapid.SampledFrom([]string{"T", "F"}).Draw(t, "atom")
	case 1:
		return "!" + genExpr(t, depth-1)
	case 2:
		return "(" + genExpr(t, depth-1) + ")"
	case 3:
		return genExpr(t, depth-1) + "&" + genExpr(t, depth-1)
	default:
		return genExpr(t, depth-1) + "|" + genExpr(t, depth-1)
	}
}

func TestShuntingYard_MatchesReference(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		expr := genExpr(t, rapid.IntRange(0, 5).Draw(t, "depth"))

		got, err := ShuntingYard(expr)
		require.NoError(t, err, expr)

		ref := &refParser{s: expr}
		want := ref.or()
		require.Equal(t, len(expr), ref.pos, "reference parser consumed %q", expr)
		assert.Equal(t, want, got, expr)
	})
}

func TestShuntingYard_RejectsTruncated(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		expr := genExpr(t, 3)
		cut := strings.TrimRight(expr, ")TF")
		if cut == "" || cut == expr {
			return
		}
		// Cutting trailing operands always leaves a dangling operator or
		// an unclosed parenthesis.
		_, err := ShuntingYard(cut)
		assert.ErrorIs(t, err, ErrMalformedExpression, cut)
	})
}
