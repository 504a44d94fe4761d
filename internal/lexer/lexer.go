package lexer

import (
	"fmt"

	"mscript/internal/token"
)

// Lexer produces tokens on demand; it never rewinds. Lookahead belongs to
// the parser, which buffers the tokens it needs.
type Lexer struct {
	input        string
	position     int  // current byte position in input
	readPosition int  // next byte position in input
	ch           byte // current character under examination; 0 means EOF

	line   int // 1-based line of the current character
	column int // 1-based column of the current character
}

// Error is a lexical error with its source position.
type Error struct {
	Msg    string
	Line   int
	Column int
}

func (e *Error) Error() string {
	return fmt.Sprintf("lex error at %d:%d: %s", e.Line, e.Column, e.Msg)
}

func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1, column: 0}
	l.readChar()
	return l
}

func (l *Lexer) NextToken() token.Token {
	if bad, ok := l.skipWhitespace(); !ok {
		return bad
	}

	line, col := l.line, l.column

	switch l.ch {
	case '=':
		if l.peekChar() == '=' {
			if l.peekTwoChars() == '=' {
				l.readChar()
				l.readChar()
				l.readChar()
				return token.Token{Type: token.STRICT_EQ, Literal: "===", Line: line, Column: col}
			}
			l.readChar()
			l.readChar()
			return token.Token{Type: token.EQ, Literal: "==", Line: line, Column: col}
		}
		return l.single(token.ASSIGN, line, col)
	case '!':
		if l.peekChar() == '=' {
			if l.peekTwoChars() == '=' {
				l.readChar()
				l.readChar()
				l.readChar()
				return token.Token{Type: token.STRICT_NEQ, Literal: "!==", Line: line, Column: col}
			}
			l.readChar()
			l.readChar()
			return token.Token{Type: token.NOT_EQ, Literal: "!=", Line: line, Column: col}
		}
		return l.single(token.BANG, line, col)
	case '+':
		return l.compound2(token.PLUS, '+', token.INCREMENT, '=', token.PLUS_ASSIGN, line, col)
	case '-':
		return l.compound2(token.MINUS, '-', token.DECREMENT, '=', token.MINUS_ASSIGN, line, col)
	case '*':
		return l.compound(token.ASTERISK, '=', token.ASTERISK_ASSIGN, line, col)
	case '/':
		// comments were consumed by skipWhitespace, so this is an operator
		return l.compound(token.SLASH, '=', token.SLASH_ASSIGN, line, col)
	case '%':
		return l.single(token.PERCENT, line, col)
	case '<':
		return l.compound(token.LT, '=', token.LT_EQ, line, col)
	case '>':
		return l.compound(token.GT, '=', token.GT_EQ, line, col)
	case '&':
		return l.compound(token.BITWISE_AND, '&', token.LOGICAL_AND, line, col)
	case '|':
		return l.compound(token.BITWISE_OR, '|', token.LOGICAL_OR, line, col)
	case '^':
		return l.single(token.BITWISE_XOR, line, col)
	case '~':
		return l.single(token.COMPLEMENT, line, col)
	case '.':
		return l.single(token.PERIOD, line, col)
	case ',':
		return l.single(token.COMMA, line, col)
	case ';':
		return l.single(token.SEMICOLON, line, col)
	case ':':
		return l.single(token.COLON, line, col)
	case '{':
		return l.single(token.LBRACE, line, col)
	case '}':
		return l.single(token.RBRACE, line, col)
	case '(':
		return l.single(token.LPAREN, line, col)
	case ')':
		return l.single(token.RPAREN, line, col)
	case '[':
		return l.single(token.LBRACKET, line, col)
	case ']':
		return l.single(token.RBRACKET, line, col)
	case '\'', '"':
		return l.readString(l.ch, line, col)
	case 0:
		return token.Token{Type: token.EOF, Literal: "", Line: line, Column: col}
	default:
		if isLetter(l.ch) {
			literal := l.readIdentifier()
			// `m{` introduces a module; the `{` is left for the parser.
			if literal == "m" && l.ch == '{' {
				return token.Token{Type: token.MODULE, Literal: literal, Line: line, Column: col}
			}
			return token.Token{Type: token.LookupIdent(literal), Literal: literal, Line: line, Column: col}
		}
		if isDigit(l.ch) {
			literal, isFloat := l.readNumber()
			kind := token.TokenType(token.INT)
			if isFloat {
				kind = token.FLOAT
			}
			return token.Token{Type: kind, Literal: literal, Line: line, Column: col}
		}
		bad := l.illegal(fmt.Sprintf("unexpected character %q", string(l.ch)), line, col)
		l.readChar()
		return bad
	}
}

// skipWhitespace discards whitespace, line comments and block comments.
// An unterminated block comment yields an ILLEGAL token instead of silently
// stopping at end of input.
func (l *Lexer) skipWhitespace() (token.Token, bool) {
	for {
		switch l.ch {
		case ' ', '\t', '\r', '\n':
			l.readChar()
		case '/':
			switch l.peekChar() {
			case '/':
				for l.ch != '\n' && l.ch != 0 {
					l.readChar()
				}
			case '*':
				line, col := l.line, l.column
				l.readChar() // consume '/'
				l.readChar() // consume '*'
				for {
					if l.ch == 0 {
						return l.illegal("unterminated block comment", line, col), false
					}
					if l.ch == '*' && l.peekChar() == '/' {
						l.readChar()
						l.readChar()
						break
					}
					l.readChar()
				}
			default:
				return token.Token{}, true
			}
		default:
			return token.Token{}, true
		}
	}
}

func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
		l.position = l.readPosition
		l.column++
		return
	}
	if l.ch == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	l.ch = l.input[l.readPosition]
	l.position = l.readPosition
	l.readPosition++
}

func (l *Lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

func (l *Lexer) peekTwoChars() byte {
	if l.readPosition+1 >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition+1]
}

func (l *Lexer) single(t token.TokenType, line, col int) token.Token {
	tok := token.Token{Type: t, Literal: string(l.ch), Line: line, Column: col}
	l.readChar()
	return tok
}

func (l *Lexer) compound(t token.TokenType, ch1 byte, t1 token.TokenType, line, col int) token.Token {
	if l.peekChar() == ch1 {
		first := l.ch
		l.readChar()
		literal := string(first) + string(l.ch)
		l.readChar()
		return token.Token{Type: t1, Literal: literal, Line: line, Column: col}
	}
	return l.single(t, line, col)
}

func (l *Lexer) compound2(
	t token.TokenType,
	ch1 byte, t1 token.TokenType,
	ch2 byte, t2 token.TokenType,
	line, col int,
) token.Token {
	switch l.peekChar() {
	case ch1:
		first := l.ch
		l.readChar()
		literal := string(first) + string(l.ch)
		l.readChar()
		return token.Token{Type: t1, Literal: literal, Line: line, Column: col}
	case ch2:
		first := l.ch
		l.readChar()
		literal := string(first) + string(l.ch)
		l.readChar()
		return token.Token{Type: t2, Literal: literal, Line: line, Column: col}
	default:
		return l.single(t, line, col)
	}
}

func (l *Lexer) readIdentifier() string {
	start := l.position
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return l.input[start:l.position]
}

// readNumber consumes digits, an optional single '.', and an optional
// exponent. The second return value reports whether the literal is a float.
func (l *Lexer) readNumber() (string, bool) {
	start := l.position
	isFloat := false
	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' {
		// the dot may trail the digits, as in `1.`
		isFloat = true
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	if l.ch == 'e' || l.ch == 'E' {
		peek := l.peekChar()
		if isDigit(peek) || ((peek == '+' || peek == '-') && isDigit(l.peekTwoChars())) {
			isFloat = true
			l.readChar()
			if l.ch == '+' || l.ch == '-' {
				l.readChar()
			}
			for isDigit(l.ch) {
				l.readChar()
			}
		}
	}
	return l.input[start:l.position], isFloat
}

// readString consumes a string literal delimited by the given quote. The
// opening quote determines the closing one. Escapes \n \t \r \\ and \" are
// processed; unknown escapes pass through literally.
func (l *Lexer) readString(quote byte, line, col int) token.Token {
	var out []byte
	l.readChar() // consume the opening quote
	for l.ch != quote {
		if l.ch == 0 {
			return l.illegal("unterminated string literal", line, col)
		}
		if l.ch == '\\' {
			switch l.peekChar() {
			case 'n':
				out = append(out, '\n')
				l.readChar()
			case 't':
				out = append(out, '\t')
				l.readChar()
			case 'r':
				out = append(out, '\r')
				l.readChar()
			case '\\':
				out = append(out, '\\')
				l.readChar()
			case '"':
				out = append(out, '"')
				l.readChar()
			default:
				out = append(out, l.ch)
			}
		} else {
			out = append(out, l.ch)
		}
		l.readChar()
	}
	l.readChar() // consume the closing quote
	return token.Token{Type: token.STRING, Literal: string(out), Line: line, Column: col}
}

func (l *Lexer) illegal(msg string, line, col int) token.Token {
	return token.Token{Type: token.ILLEGAL, Literal: msg, Line: line, Column: col}
}

func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}
