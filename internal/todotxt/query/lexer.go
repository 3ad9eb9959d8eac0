package query

// Mode selects what the lexer accepts.
type Mode int

const (
	// ModeQuery reads user queries: predicates, word operators and the
	// symbolic operators (&&, || are accepted as & and |).
	ModeQuery Mode = iota
	// ModeTruth reads substituted truth expressions made only of
	// T F ! & | ( ). Anything else is illegal.
	ModeTruth
)

// Lexer tokenizes queries and truth expressions.
type Lexer struct {
	input string
	mode  Mode
	pos   int  // current position in input
	ch    byte // current character under examination
}

// NewLexer creates a query-mode lexer for the input string.
func NewLexer(input string) *Lexer {
	return newLexer(input, ModeQuery)
}

// NewTruthLexer creates a truth-mode lexer for the input string.
func NewTruthLexer(input string) *Lexer {
	return newLexer(input, ModeTruth)
}

func newLexer(input string, mode Mode) *Lexer {
	l := &Lexer{input: input, mode: mode}
	l.readChar()
	return l
}

// NextToken returns the next token from the input.
func (l *Lexer) NextToken() Token {
	l.skipWhitespace()

	tok := Token{Pos: l.pos}

	switch l.ch {
	case '(':
		tok.Type = TokenLParen
		tok.Literal = "("
	case ')':
		tok.Type = TokenRParen
		tok.Literal = ")"
	case '!':
		tok.Type = TokenNot
		tok.Literal = "!"
	case '&', '|':
		tok.Type = TokenAnd
		if l.ch == '|' {
			tok.Type = TokenOr
		}
		tok.Literal = string(l.ch)
		if l.mode == ModeQuery && l.peekChar() == l.ch {
			l.readChar()
			tok.Literal += string(l.ch)
		}
	case 0:
		tok.Type = TokenEOF
		tok.Literal = ""
		return tok
	default:
		if l.mode == ModeTruth {
			tok.Literal = string(l.ch)
			switch l.ch {
			case 'T':
				tok.Type = TokenTrue
			case 'F':
				tok.Type = TokenFalse
			default:
				tok.Type = TokenIllegal
			}
			break
		}
		tok.Literal = l.readElement()
		tok.Type = LookupKeyword(tok.Literal)
		return tok
	}

	l.readChar()
	return tok
}

// Tokens returns every token before EOF.
func (l *Lexer) Tokens() []Token {
	var out []Token
	for tok := l.NextToken(); tok.Type != TokenEOF; tok = l.NextToken() {
		out = append(out, tok)
	}
	return out
}

// readChar reads the next character and advances position.
func (l *Lexer) readChar() {
	if l.pos >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.pos]
	}
	l.pos++
}

// peekChar returns the next character without advancing.
func (l *Lexer) peekChar() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

// skipWhitespace advances past whitespace characters.
func (l *Lexer) skipWhitespace() {
	for isSpace(l.ch) {
		l.readChar()
	}
}

// readElement reads a predicate up to the next whitespace or syntax
// character.
func (l *Lexer) readElement() string {
	start := l.pos - 1
	for l.ch != 0 && !isSpace(l.ch) && !isSyntax(l.ch) {
		l.readChar()
	}
	return l.input[start : l.pos-1]
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isSyntax(c byte) bool {
	switch c {
	case '(', ')', '!', '&', '|':
		return true
	}
	return false
}
