package parser

import (
	"fmt"
	"strconv"

	"mscript/internal/ast"
	"mscript/internal/lexer"
	"mscript/internal/token"
)

const (
	_           int = iota
	LOWEST          // entry point
	LOGICAL_OR      // ||
	LOGICAL_AND     // &&
	EQUALS          // == != === !==
	COMPARISON      // < > <= >=
	SUM             // + -
	PRODUCT         // * / %
	PREFIX          // -x or !x
	CALL            // fn(x) and obj.prop
	INDEX           // array[index]
)

var precedences = map[token.TokenType]int{
	token.LOGICAL_OR:  LOGICAL_OR,
	token.LOGICAL_AND: LOGICAL_AND,
	token.EQ:          EQUALS,
	token.NOT_EQ:      EQUALS,
	token.STRICT_EQ:   EQUALS,
	token.STRICT_NEQ:  EQUALS,
	token.LT:          COMPARISON,
	token.LT_EQ:       COMPARISON,
	token.GT:          COMPARISON,
	token.GT_EQ:       COMPARISON,
	token.PLUS:        SUM,
	token.MINUS:       SUM,
	token.SLASH:       PRODUCT,
	token.ASTERISK:    PRODUCT,
	token.PERCENT:     PRODUCT,
	token.PERIOD:      CALL,
	token.LPAREN:      CALL,
	token.LBRACKET:    INDEX,
}

var compoundOps = map[token.TokenType]string{
	token.PLUS_ASSIGN:     "+",
	token.MINUS_ASSIGN:    "-",
	token.ASTERISK_ASSIGN: "*",
	token.SLASH_ASSIGN:    "/",
}

type (
	prefixParseFn func() ast.Expression
	infixParseFn  func(ast.Expression) ast.Expression
)

// Error is a syntactic error with its source position. The parser is
// fail-fast: the first mismatch aborts the parse and no partial AST is
// returned.
type Error struct {
	Msg    string
	Line   int
	Column int
}

func (e *Error) Error() string {
	return fmt.Sprintf("parse error at %d:%d: %s", e.Line, e.Column, e.Msg)
}

type Parser struct {
	l   *lexer.Lexer
	err error // first lex or parse error; everything bails once set

	curToken  token.Token
	peekToken token.Token

	prefixParseFns map[token.TokenType]prefixParseFn
	infixParseFns  map[token.TokenType]infixParseFn
}

func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}

	p.prefixParseFns = make(map[token.TokenType]prefixParseFn)
	p.registerPrefix(token.IDENT, p.parseIdentifier)
	p.registerPrefix(token.INT, p.parseNumberLiteral)
	p.registerPrefix(token.FLOAT, p.parseNumberLiteral)
	p.registerPrefix(token.STRING, p.parseStringLiteral)
	p.registerPrefix(token.TRUE, p.parseBoolean)
	p.registerPrefix(token.FALSE, p.parseBoolean)
	p.registerPrefix(token.NULL, p.parseNull)
	p.registerPrefix(token.UNDEFINED, p.parseNull)
	p.registerPrefix(token.BANG, p.parsePrefixExpression)
	p.registerPrefix(token.MINUS, p.parsePrefixExpression)
	p.registerPrefix(token.PLUS, p.parsePrefixExpression)
	p.registerPrefix(token.LPAREN, p.parseGroupedExpression)
	p.registerPrefix(token.LBRACKET, p.parseArrayLiteral)
	p.registerPrefix(token.LBRACE, p.parseObjectLiteral)

	p.infixParseFns = make(map[token.TokenType]infixParseFn)
	for tt := range precedences {
		switch tt {
		case token.PERIOD:
			p.registerInfix(tt, p.parsePropertyExpression)
		case token.LPAREN:
			p.registerInfix(tt, p.parseCallExpression)
		case token.LBRACKET:
			p.registerInfix(tt, p.parseIndexExpression)
		default:
			p.registerInfix(tt, p.parseInfixExpression)
		}
	}

	// Read two tokens, so curToken and peekToken are both set
	p.nextToken()
	p.nextToken()

	return p
}

// Parse consumes the whole token stream and returns the module, or the
// first lexical or syntactic error encountered.
func (p *Parser) Parse() (*ast.Module, error) {
	mod := &ast.Module{Token: p.curToken, Functions: map[string]*ast.Function{}}

	if !p.curTokenIs(token.MODULE) {
		p.errorf("expected module marker 'm', got %s", p.curToken.Type)
		return nil, p.err
	}
	if !p.expectPeek(token.LBRACE) {
		return nil, p.err
	}

	for !p.peekTokenIs(token.RBRACE) && !p.peekTokenIs(token.EOF) && p.err == nil {
		p.nextToken()
		fn := p.parseFunction()
		if fn == nil {
			break
		}
		if _, seen := mod.Functions[fn.Name]; !seen {
			mod.Names = append(mod.Names, fn.Name)
		}
		// duplicate names: last one wins
		mod.Functions[fn.Name] = fn
	}

	if !p.expectPeek(token.RBRACE) {
		return nil, p.err
	}
	if p.err != nil {
		return nil, p.err
	}
	return mod, nil
}

func (p *Parser) parseFunction() *ast.Function {
	if !p.curTokenIs(token.IDENT) {
		p.errorf("expected function name, got %s", p.curToken.Type)
		return nil
	}
	fn := &ast.Function{Token: p.curToken, Name: p.curToken.Literal}

	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	fn.Parameters = p.parseFunctionParameters()
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	fn.Body = p.parseBlockStatement()
	return fn
}

func (p *Parser) parseFunctionParameters() []*ast.Identifier {
	params := []*ast.Identifier{}

	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return params
	}

	p.nextToken()
	for {
		if !p.curTokenIs(token.IDENT) {
			p.errorf("expected parameter name, got %s", p.curToken.Type)
			return nil
		}
		params = append(params, &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal})
		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken() // consume comma
		p.nextToken() // move to the next parameter
	}

	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return params
}

func (p *Parser) parseBlockStatement() *ast.BlockStatement {
	block := &ast.BlockStatement{Token: p.curToken}
	block.Statements = []ast.Statement{}

	p.nextToken()
	for !p.curTokenIs(token.RBRACE) && !p.curTokenIs(token.EOF) && p.err == nil {
		stmt := p.parseStatement()
		if stmt != nil {
			block.Statements = append(block.Statements, stmt)
		}
		p.nextToken()
	}

	if p.err == nil && !p.curTokenIs(token.RBRACE) {
		p.errorf("unexpected end of input, expected }")
	}
	return block
}

func (p *Parser) parseStatement() ast.Statement {
	switch p.curToken.Type {
	case token.IF:
		return p.parseIfStatement()
	case token.FOR:
		return p.parseForStatement()
	case token.WHILE:
		return p.parseWhileStatement()
	case token.RETURN:
		return p.parseReturnStatement()
	case token.TRY:
		return p.parseTryCatchStatement()
	case token.IDENT:
		stmt := p.parseSimpleStatement()
		if !p.expectPeek(token.SEMICOLON) {
			return nil
		}
		return stmt
	default:
		p.errorf("unexpected token %s in statement position", p.curToken.Type)
		return nil
	}
}

// parseSimpleStatement handles the identifier-led statement forms:
// assignment, compound assignment, call, and property/method access. It
// leaves curToken on the last token of the statement; the caller consumes
// the terminator.
func (p *Parser) parseSimpleStatement() ast.Statement {
	ident := &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}

	switch {
	case p.peekTokenIs(token.ASSIGN):
		stmt := &ast.AssignStatement{Token: p.curToken, Name: ident}
		p.nextToken() // consume '='
		p.nextToken()
		stmt.Value = p.parseExpression(LOWEST)
		return stmt

	case compoundOps[p.peekToken.Type] != "":
		stmt := &ast.CompoundAssignStatement{
			Token:    p.curToken,
			Name:     ident,
			Operator: compoundOps[p.peekToken.Type],
		}
		p.nextToken() // consume the operator
		p.nextToken()
		stmt.Value = p.parseExpression(LOWEST)
		return stmt

	case p.peekTokenIs(token.INCREMENT), p.peekTokenIs(token.DECREMENT):
		// x++ and x-- desugar to compound assignment by one
		op := "+"
		if p.peekTokenIs(token.DECREMENT) {
			op = "-"
		}
		p.nextToken()
		return &ast.CompoundAssignStatement{
			Token:    ident.Token,
			Name:     ident,
			Operator: op,
			Value:    &ast.NumberLiteral{Token: p.curToken, Value: 1},
		}

	case p.peekTokenIs(token.LPAREN), p.peekTokenIs(token.PERIOD), p.peekTokenIs(token.LBRACKET):
		stmt := &ast.ExpressionStatement{Token: p.curToken}
		stmt.Expression = p.parseExpression(LOWEST)
		return stmt

	default:
		p.errorf("unexpected token %s after identifier %q", p.peekToken.Type, ident.Value)
		return nil
	}
}

func (p *Parser) parseReturnStatement() ast.Statement {
	stmt := &ast.ReturnStatement{Token: p.curToken}

	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
		return stmt
	}

	p.nextToken()
	stmt.ReturnValue = p.parseExpression(LOWEST)
	if !p.expectPeek(token.SEMICOLON) {
		return nil
	}
	return stmt
}

func (p *Parser) parseIfStatement() ast.Statement {
	stmt := &ast.IfStatement{Token: p.curToken}

	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	p.nextToken()
	stmt.Condition = p.parseExpression(LOWEST)
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	stmt.Consequence = p.parseBlockStatement()

	if p.peekTokenIs(token.ELSE) {
		p.nextToken()
		if p.peekTokenIs(token.IF) {
			// else-if chains recurse into a nested if statement
			p.nextToken()
			stmt.Alternative = p.parseIfStatement()
		} else {
			if !p.expectPeek(token.LBRACE) {
				return nil
			}
			stmt.Alternative = p.parseBlockStatement()
		}
	}
	return stmt
}

// parseForStatement disambiguates the three for forms with the parser's
// two-token window: when curToken is the loop identifier, peekToken already
// tells us whether an `in` or `of` follows. No lexer rewind is needed.
func (p *Parser) parseForStatement() ast.Statement {
	forTok := p.curToken

	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	p.nextToken()

	if p.curTokenIs(token.IDENT) && p.peekTokenIs(token.IN) {
		stmt := &ast.ForInStatement{Token: forTok}
		stmt.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
		p.nextToken() // consume 'in'
		p.nextToken()
		stmt.Subject = p.parseExpression(LOWEST)
		if !p.expectPeek(token.RPAREN) || !p.expectPeek(token.LBRACE) {
			return nil
		}
		stmt.Body = p.parseBlockStatement()
		return stmt
	}

	if p.curTokenIs(token.IDENT) && p.peekTokenIs(token.OF) {
		stmt := &ast.ForOfStatement{Token: forTok}
		stmt.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
		p.nextToken() // consume 'of'
		p.nextToken()
		stmt.Subject = p.parseExpression(LOWEST)
		if !p.expectPeek(token.RPAREN) || !p.expectPeek(token.LBRACE) {
			return nil
		}
		stmt.Body = p.parseBlockStatement()
		return stmt
	}

	// classic C-style for(init; cond; update)
	stmt := &ast.ForStatement{Token: forTok}
	if !p.curTokenIs(token.SEMICOLON) {
		stmt.Init = p.parseSimpleStatement()
		if !p.expectPeek(token.SEMICOLON) {
			return nil
		}
	}
	if !p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
		stmt.Condition = p.parseExpression(LOWEST)
	}
	if !p.expectPeek(token.SEMICOLON) {
		return nil
	}
	if !p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		stmt.Update = p.parseSimpleStatement()
	}
	if !p.expectPeek(token.RPAREN) || !p.expectPeek(token.LBRACE) {
		return nil
	}
	stmt.Body = p.parseBlockStatement()
	return stmt
}

func (p *Parser) parseWhileStatement() ast.Statement {
	stmt := &ast.WhileStatement{Token: p.curToken}

	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	p.nextToken()
	stmt.Condition = p.parseExpression(LOWEST)
	if !p.expectPeek(token.RPAREN) || !p.expectPeek(token.LBRACE) {
		return nil
	}
	stmt.Body = p.parseBlockStatement()
	return stmt
}

func (p *Parser) parseTryCatchStatement() ast.Statement {
	stmt := &ast.TryCatchStatement{Token: p.curToken}

	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	stmt.TryBlock = p.parseBlockStatement()

	if !p.expectPeek(token.CATCH) {
		return nil
	}
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	// the catch parameter is optional
	if p.peekTokenIs(token.IDENT) {
		p.nextToken()
		stmt.CatchParam = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
	}
	if !p.expectPeek(token.RPAREN) || !p.expectPeek(token.LBRACE) {
		return nil
	}
	stmt.CatchBlock = p.parseBlockStatement()
	return stmt
}

func (p *Parser) parseExpression(precedence int) ast.Expression {
	if p.err != nil {
		return nil
	}
	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.errorf("unexpected token %s in expression position", p.curToken.Type)
		return nil
	}
	leftExp := prefix()

	for p.err == nil && !p.peekTokenIs(token.SEMICOLON) && precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return leftExp
		}
		p.nextToken()
		leftExp = infix(leftExp)
	}

	return leftExp
}

func (p *Parser) parseIdentifier() ast.Expression {
	return &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
}

func (p *Parser) parseNumberLiteral() ast.Expression {
	lit := &ast.NumberLiteral{Token: p.curToken}

	value, err := strconv.ParseFloat(p.curToken.Literal, 64)
	if err != nil {
		p.errorf("could not parse %q as number", p.curToken.Literal)
		return nil
	}
	lit.Value = value
	return lit
}

func (p *Parser) parseStringLiteral() ast.Expression {
	return &ast.StringLiteral{Token: p.curToken, Value: p.curToken.Literal}
}

func (p *Parser) parseBoolean() ast.Expression {
	return &ast.Boolean{Token: p.curToken, Value: p.curTokenIs(token.TRUE)}
}

func (p *Parser) parseNull() ast.Expression {
	return &ast.NullLiteral{Token: p.curToken}
}

func (p *Parser) parsePrefixExpression() ast.Expression {
	expression := &ast.PrefixExpression{
		Token:    p.curToken,
		Operator: p.curToken.Literal,
	}
	p.nextToken()
	expression.Right = p.parseExpression(PREFIX)
	return expression
}

func (p *Parser) parseInfixExpression(left ast.Expression) ast.Expression {
	expression := &ast.InfixExpression{
		Token:    p.curToken,
		Operator: p.curToken.Literal,
		Left:     left,
	}
	precedence := p.curPrecedence()
	p.nextToken()
	expression.Right = p.parseExpression(precedence)
	return expression
}

func (p *Parser) parseGroupedExpression() ast.Expression {
	p.nextToken()
	exp := p.parseExpression(LOWEST)
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return exp
}

func (p *Parser) parseArrayLiteral() ast.Expression {
	array := &ast.ArrayLiteral{Token: p.curToken}
	array.Elements = p.parseExpressionList(token.RBRACKET)
	return array
}

func (p *Parser) parseObjectLiteral() ast.Expression {
	obj := &ast.ObjectLiteral{Token: p.curToken, Pairs: make(map[string]ast.Expression)}

	for !p.peekTokenIs(token.RBRACE) && p.err == nil {
		p.nextToken()

		var key string
		switch p.curToken.Type {
		case token.IDENT, token.STRING:
			key = p.curToken.Literal
		default:
			p.errorf("expected identifier or string as object key, got %s", p.curToken.Type)
			return nil
		}

		if !p.expectPeek(token.COLON) {
			return nil
		}
		p.nextToken()
		value := p.parseExpression(LOWEST)

		if _, seen := obj.Pairs[key]; !seen {
			obj.Keys = append(obj.Keys, key)
		}
		obj.Pairs[key] = value

		if !p.peekTokenIs(token.RBRACE) && !p.expectPeek(token.COMMA) {
			return nil
		}
	}

	if !p.expectPeek(token.RBRACE) {
		return nil
	}
	return obj
}

func (p *Parser) parseCallExpression(function ast.Expression) ast.Expression {
	ident, ok := function.(*ast.Identifier)
	if !ok {
		p.errorf("call target must be an identifier")
		return nil
	}
	exp := &ast.CallExpression{Token: ident.Token, Function: ident}
	exp.Arguments = p.parseExpressionList(token.RPAREN)
	return exp
}

// parsePropertyExpression handles both `obj.prop` and `obj.method(args)`.
func (p *Parser) parsePropertyExpression(left ast.Expression) ast.Expression {
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	name := p.curToken

	if p.peekTokenIs(token.LPAREN) {
		p.nextToken()
		call := &ast.MethodCallExpression{Token: name, Object: left, Method: name.Literal}
		call.Arguments = p.parseExpressionList(token.RPAREN)
		return call
	}
	return &ast.PropertyAccessExpression{Token: name, Object: left, Property: name.Literal}
}

func (p *Parser) parseIndexExpression(left ast.Expression) ast.Expression {
	exp := &ast.IndexExpression{Token: p.curToken, Left: left}

	p.nextToken()
	exp.Index = p.parseExpression(LOWEST)
	if !p.expectPeek(token.RBRACKET) {
		return nil
	}
	return exp
}

func (p *Parser) parseExpressionList(end token.TokenType) []ast.Expression {
	list := []ast.Expression{}

	if p.peekTokenIs(end) {
		p.nextToken()
		return list
	}

	p.nextToken()
	list = append(list, p.parseExpression(LOWEST))

	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		list = append(list, p.parseExpression(LOWEST))
	}

	if !p.expectPeek(end) {
		return nil
	}
	return list
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
	if p.peekToken.Type == token.ILLEGAL && p.err == nil {
		p.err = &lexer.Error{
			Msg:    p.peekToken.Literal,
			Line:   p.peekToken.Line,
			Column: p.peekToken.Column,
		}
	}
}

func (p *Parser) curTokenIs(t token.TokenType) bool {
	return p.curToken.Type == t
}

func (p *Parser) peekTokenIs(t token.TokenType) bool {
	return p.peekToken.Type == t
}

func (p *Parser) expectPeek(t token.TokenType) bool {
	if p.err != nil {
		return false
	}
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.errorf("expected next token to be %s, got %s instead", t, p.peekToken.Type)
	return false
}

func (p *Parser) errorf(format string, args ...interface{}) {
	if p.err != nil {
		return
	}
	p.err = &Error{
		Msg:    fmt.Sprintf(format, args...),
		Line:   p.curToken.Line,
		Column: p.curToken.Column,
	}
}

func (p *Parser) peekPrecedence() int {
	if pr, ok := precedences[p.peekToken.Type]; ok {
		return pr
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if pr, ok := precedences[p.curToken.Type]; ok {
		return pr
	}
	return LOWEST
}

func (p *Parser) registerPrefix(tokenType token.TokenType, fn prefixParseFn) {
	p.prefixParseFns[tokenType] = fn
}

func (p *Parser) registerInfix(tokenType token.TokenType, fn infixParseFn) {
	p.infixParseFns[tokenType] = fn
}
