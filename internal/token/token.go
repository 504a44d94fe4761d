package token

type TokenType string

const (
	ILLEGAL = "ILLEGAL"
	EOF     = "EOF"

	// The module marker: the `m` of an `m{ ... }` block.
	MODULE = "MODULE"

	// Identifiers + literals
	IDENT  = "IDENT"  // main, total, x, y, ...
	INT    = "INT"    // 1343456
	FLOAT  = "FLOAT"  // 3.14, 1e9
	STRING = "STRING" // "foobar"

	// Operators
	ASSIGN   = "="
	PLUS     = "+"
	MINUS    = "-"
	BANG     = "!"
	ASTERISK = "*"
	SLASH    = "/"
	PERCENT  = "%"

	PLUS_ASSIGN     = "+="
	MINUS_ASSIGN    = "-="
	ASTERISK_ASSIGN = "*="
	SLASH_ASSIGN    = "/="

	INCREMENT = "++"
	DECREMENT = "--"

	LT    = "<"
	LT_EQ = "<="
	GT    = ">"
	GT_EQ = ">="

	COMPLEMENT  = "~"
	BITWISE_AND = "&"
	BITWISE_OR  = "|"
	BITWISE_XOR = "^"

	LOGICAL_AND = "&&"
	LOGICAL_OR  = "||"

	EQ         = "=="
	NOT_EQ     = "!="
	STRICT_EQ  = "==="
	STRICT_NEQ = "!=="

	// Delimiters
	PERIOD    = "."
	COMMA     = ","
	SEMICOLON = ";"
	COLON     = ":"

	LPAREN   = "("
	RPAREN   = ")"
	LBRACE   = "{"
	RBRACE   = "}"
	LBRACKET = "["
	RBRACKET = "]"

	// Keywords
	IF        = "IF"
	ELSE      = "ELSE"
	FOR       = "FOR"
	WHILE     = "WHILE"
	RETURN    = "RETURN"
	TRY       = "TRY"
	CATCH     = "CATCH"
	FUNCTION  = "FUNCTION"
	VAR       = "VAR"
	LET       = "LET"
	CONST     = "CONST"
	TRUE      = "TRUE"
	FALSE     = "FALSE"
	NULL      = "NULL"
	UNDEFINED = "UNDEFINED"
	IN        = "IN"
	OF        = "OF"
)

type Token struct {
	Type    TokenType
	Literal string
	Line    int // 1-based source line
	Column  int // 1-based source column
}

var keywords = map[string]TokenType{
	// constants
	"true":      TRUE,
	"false":     FALSE,
	"null":      NULL,
	"undefined": UNDEFINED,

	// declarations
	"function": FUNCTION,
	"var":      VAR,
	"let":      LET,
	"const":    CONST,

	// flow control
	"if":     IF,
	"else":   ELSE,
	"for":    FOR,
	"while":  WHILE,
	"return": RETURN,

	// error handling
	"try":   TRY,
	"catch": CATCH,

	// loop qualifiers
	"in": IN,
	"of": OF,
}

func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}
