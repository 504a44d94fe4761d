package lexer

import (
	"testing"

	"mscript/internal/token"
)

func TestNextToken(t *testing.T) {
	input := `m{
	main() {
		x = 1 + 2.5;
		if (x >= 3 && x !== null) {
			x += 1;
		}
		return x;
	}
}`

	expected := []struct {
		tokenType token.TokenType
		literal   string
	}{
		{token.MODULE, "m"},
		{token.LBRACE, "{"},
		{token.IDENT, "main"},
		{token.LPAREN, "("},
		{token.RPAREN, ")"},
		{token.LBRACE, "{"},
		{token.IDENT, "x"},
		{token.ASSIGN, "="},
		{token.INT, "1"},
		{token.PLUS, "+"},
		{token.FLOAT, "2.5"},
		{token.SEMICOLON, ";"},
		{token.IF, "if"},
		{token.LPAREN, "("},
		{token.IDENT, "x"},
		{token.GT_EQ, ">="},
		{token.INT, "3"},
		{token.LOGICAL_AND, "&&"},
		{token.IDENT, "x"},
		{token.STRICT_NEQ, "!=="},
		{token.NULL, "null"},
		{token.RPAREN, ")"},
		{token.LBRACE, "{"},
		{token.IDENT, "x"},
		{token.PLUS_ASSIGN, "+="},
		{token.INT, "1"},
		{token.SEMICOLON, ";"},
		{token.RBRACE, "}"},
		{token.RETURN, "return"},
		{token.IDENT, "x"},
		{token.SEMICOLON, ";"},
		{token.RBRACE, "}"},
		{token.RBRACE, "}"},
		{token.EOF, ""},
	}

	l := New(input)
	for i, e := range expected {
		tok := l.NextToken()
		if tok.Type != e.tokenType {
			t.Fatalf("token %d: expected type %s, got %s (%q)", i, e.tokenType, tok.Type, tok.Literal)
		}
		if tok.Literal != e.literal {
			t.Fatalf("token %d: expected literal %q, got %q", i, e.literal, tok.Literal)
		}
	}
}

func TestCompoundOperators(t *testing.T) {
	cases := []struct {
		name      string
		input     string
		tokenType token.TokenType
	}{
		{"equals", "==", token.EQ},
		{"strict equals", "===", token.STRICT_EQ},
		{"not equals", "!=", token.NOT_EQ},
		{"strict not equals", "!==", token.STRICT_NEQ},
		{"less or equal", "<=", token.LT_EQ},
		{"greater or equal", ">=", token.GT_EQ},
		{"and", "&&", token.LOGICAL_AND},
		{"or", "||", token.LOGICAL_OR},
		{"increment", "++", token.INCREMENT},
		{"decrement", "--", token.DECREMENT},
		{"plus assign", "+=", token.PLUS_ASSIGN},
		{"minus assign", "-=", token.MINUS_ASSIGN},
		{"times assign", "*=", token.ASTERISK_ASSIGN},
		{"divide assign", "/=", token.SLASH_ASSIGN},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			l := New(c.input)
			tok := l.NextToken()
			if tok.Type != c.tokenType {
				t.Errorf("expected %s, got %s", c.tokenType, tok.Type)
			}
			if tok.Literal != c.input {
				t.Errorf("expected literal %q, got %q", c.input, tok.Literal)
			}
			if next := l.NextToken(); next.Type != token.EOF {
				t.Errorf("expected EOF after operator, got %s", next.Type)
			}
		})
	}
}

func TestStringLiterals(t *testing.T) {
	cases := []struct {
		name     string
		input    string
		expected string
	}{
		{"double quoted", `"hello"`, "hello"},
		{"single quoted", `'hello'`, "hello"},
		{"newline escape", `"a\nb"`, "a\nb"},
		{"tab escape", `"a\tb"`, "a\tb"},
		{"carriage return escape", `"a\rb"`, "a\rb"},
		{"backslash escape", `"a\\b"`, `a\b`},
		{"quote escape", `"a\"b"`, `a"b`},
		{"unknown escape passes through", `"a\qb"`, `a\qb`},
		{"double quote inside single quotes", `'say "hi"'`, `say "hi"`},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			l := New(c.input)
			tok := l.NextToken()
			if tok.Type != token.STRING {
				t.Fatalf("expected STRING, got %s (%q)", tok.Type, tok.Literal)
			}
			if tok.Literal != c.expected {
				t.Errorf("expected %q, got %q", c.expected, tok.Literal)
			}
		})
	}
}

func TestUnterminatedString(t *testing.T) {
	l := New(`"never closed`)
	tok := l.NextToken()
	if tok.Type != token.ILLEGAL {
		t.Fatalf("expected ILLEGAL, got %s", tok.Type)
	}
	if tok.Literal != "unterminated string literal" {
		t.Errorf("unexpected message %q", tok.Literal)
	}
}

func TestComments(t *testing.T) {
	input := `x // line comment
/* block
comment */ y`

	l := New(input)
	first := l.NextToken()
	if first.Type != token.IDENT || first.Literal != "x" {
		t.Fatalf("expected ident x, got %s (%q)", first.Type, first.Literal)
	}
	second := l.NextToken()
	if second.Type != token.IDENT || second.Literal != "y" {
		t.Fatalf("expected ident y, got %s (%q)", second.Type, second.Literal)
	}
}

func TestUnterminatedBlockComment(t *testing.T) {
	l := New("/* never closed")
	tok := l.NextToken()
	if tok.Type != token.ILLEGAL {
		t.Fatalf("expected ILLEGAL, got %s", tok.Type)
	}
}

func TestPositions(t *testing.T) {
	input := "a\n  b"
	l := New(input)

	a := l.NextToken()
	if a.Line != 1 || a.Column != 1 {
		t.Errorf("a: expected 1:1, got %d:%d", a.Line, a.Column)
	}
	b := l.NextToken()
	if b.Line != 2 || b.Column != 3 {
		t.Errorf("b: expected 2:3, got %d:%d", b.Line, b.Column)
	}
}

func TestModuleMarker(t *testing.T) {
	l := New("m{}")
	if tok := l.NextToken(); tok.Type != token.MODULE {
		t.Fatalf("expected MODULE, got %s", tok.Type)
	}
	if tok := l.NextToken(); tok.Type != token.LBRACE {
		t.Fatalf("expected LBRACE, got %s", tok.Type)
	}

	// a plain identifier m is not a module marker
	l = New("m + 1")
	if tok := l.NextToken(); tok.Type != token.IDENT || tok.Literal != "m" {
		t.Fatalf("expected IDENT m, got %s (%q)", tok.Type, tok.Literal)
	}
}

func TestNumbers(t *testing.T) {
	cases := []struct {
		name      string
		input     string
		tokenType token.TokenType
		literal   string
	}{
		{"integer", "42", token.INT, "42"},
		{"float", "3.14", token.FLOAT, "3.14"},
		{"exponent", "1e3", token.FLOAT, "1e3"},
		{"signed exponent", "2.5e-2", token.FLOAT, "2.5e-2"},
		{"trailing dot", "1.", token.FLOAT, "1."},
		{"trailing dot then exponent", "1.e2", token.FLOAT, "1.e2"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			l := New(c.input)
			tok := l.NextToken()
			if tok.Type != c.tokenType {
				t.Errorf("expected %s, got %s", c.tokenType, tok.Type)
			}
			if tok.Literal != c.literal {
				t.Errorf("expected literal %q, got %q", c.literal, tok.Literal)
			}
		})
	}
}

func TestIllegalCharacter(t *testing.T) {
	l := New("a # b")
	if tok := l.NextToken(); tok.Type != token.IDENT {
		t.Fatalf("expected IDENT, got %s", tok.Type)
	}
	tok := l.NextToken()
	if tok.Type != token.ILLEGAL {
		t.Fatalf("expected ILLEGAL, got %s", tok.Type)
	}
	if tok.Column != 3 {
		t.Errorf("expected column 3, got %d", tok.Column)
	}
}
