package ast

import (
	"bytes"
	"strconv"
	"strings"

	"mscript/internal/token"
)

// The base Node interface
type Node interface {
	TokenLiteral() string
	String() string
}

type Statement interface {
	Node
	statementNode()
}

type Expression interface {
	Node
	expressionNode()
}

// Module is the root of every parse: `m { function* }`. Functions are keyed
// by name; a duplicate name overwrites the earlier one. Names preserves
// first-appearance order for rendering.
type Module struct {
	Token     token.Token // the `m` token
	Names     []string
	Functions map[string]*Function
}

func (m *Module) TokenLiteral() string { return m.Token.Literal }
func (m *Module) String() string {
	var out bytes.Buffer
	out.WriteString("m {\n")
	for _, name := range m.Names {
		if fn, ok := m.Functions[name]; ok {
			out.WriteString(fn.String())
			out.WriteString("\n")
		}
	}
	out.WriteString("}")
	return out.String()
}

type Function struct {
	Token      token.Token // the function-name token
	Name       string
	Parameters []*Identifier
	Body       *BlockStatement
}

func (f *Function) TokenLiteral() string { return f.Token.Literal }
func (f *Function) String() string {
	var out bytes.Buffer
	params := []string{}
	for _, p := range f.Parameters {
		params = append(params, p.String())
	}
	out.WriteString(f.Name)
	out.WriteString("(")
	out.WriteString(strings.Join(params, ", "))
	out.WriteString(") ")
	out.WriteString(f.Body.String())
	return out.String()
}

type BlockStatement struct {
	Token      token.Token // the { token
	Statements []Statement
}

func (bs *BlockStatement) statementNode()       {}
func (bs *BlockStatement) TokenLiteral() string { return bs.Token.Literal }
func (bs *BlockStatement) String() string {
	var out bytes.Buffer
	out.WriteString("{ ")
	for _, s := range bs.Statements {
		out.WriteString(s.String())
		out.WriteString(" ")
	}
	out.WriteString("}")
	return out.String()
}

// AssignStatement binds `name = expression` in the current scope, creating
// the name if absent.
type AssignStatement struct {
	Token token.Token // the identifier token
	Name  *Identifier
	Value Expression
}

func (as *AssignStatement) statementNode()       {}
func (as *AssignStatement) TokenLiteral() string { return as.Token.Literal }
func (as *AssignStatement) String() string {
	return as.Name.String() + " = " + as.Value.String() + ";"
}

// CompoundAssignStatement is `name op= expression`; the name must already be
// defined.
type CompoundAssignStatement struct {
	Token    token.Token // the identifier token
	Name     *Identifier
	Operator string // "+", "-", "*" or "/"
	Value    Expression
}

func (cs *CompoundAssignStatement) statementNode()       {}
func (cs *CompoundAssignStatement) TokenLiteral() string { return cs.Token.Literal }
func (cs *CompoundAssignStatement) String() string {
	return cs.Name.String() + " " + cs.Operator + "= " + cs.Value.String() + ";"
}

// ExpressionStatement carries a call or method call in statement position.
type ExpressionStatement struct {
	Token      token.Token // the first token of the expression
	Expression Expression
}

func (es *ExpressionStatement) statementNode()       {}
func (es *ExpressionStatement) TokenLiteral() string { return es.Token.Literal }
func (es *ExpressionStatement) String() string {
	if es.Expression != nil {
		return es.Expression.String() + ";"
	}
	return ""
}

type ReturnStatement struct {
	Token       token.Token // the 'return' token
	ReturnValue Expression
}

func (rs *ReturnStatement) statementNode()       {}
func (rs *ReturnStatement) TokenLiteral() string { return rs.Token.Literal }
func (rs *ReturnStatement) String() string {
	var out bytes.Buffer
	out.WriteString("return")
	if rs.ReturnValue != nil {
		out.WriteString(" ")
		out.WriteString(rs.ReturnValue.String())
	}
	out.WriteString(";")
	return out.String()
}

// IfStatement: Alternative is nil, a *BlockStatement for a plain else, or a
// nested *IfStatement for an else-if chain.
type IfStatement struct {
	Token       token.Token // the 'if' token
	Condition   Expression
	Consequence *BlockStatement
	Alternative Statement
}

func (is *IfStatement) statementNode()       {}
func (is *IfStatement) TokenLiteral() string { return is.Token.Literal }
func (is *IfStatement) String() string {
	var out bytes.Buffer
	out.WriteString("if (")
	out.WriteString(is.Condition.String())
	out.WriteString(") ")
	out.WriteString(is.Consequence.String())
	if is.Alternative != nil {
		out.WriteString(" else ")
		out.WriteString(is.Alternative.String())
	}
	return out.String()
}

// ForStatement is the classic `for (init; cond; update)` loop.
type ForStatement struct {
	Token     token.Token // the 'for' token
	Init      Statement
	Condition Expression
	Update    Statement
	Body      *BlockStatement
}

func (fs *ForStatement) statementNode()       {}
func (fs *ForStatement) TokenLiteral() string { return fs.Token.Literal }
func (fs *ForStatement) String() string {
	var out bytes.Buffer
	out.WriteString("for (")
	if fs.Init != nil {
		out.WriteString(strings.TrimSuffix(fs.Init.String(), ";"))
	}
	out.WriteString("; ")
	if fs.Condition != nil {
		out.WriteString(fs.Condition.String())
	}
	out.WriteString("; ")
	if fs.Update != nil {
		out.WriteString(strings.TrimSuffix(fs.Update.String(), ";"))
	}
	out.WriteString(") ")
	out.WriteString(fs.Body.String())
	return out.String()
}

// ForInStatement iterates the keys of an object in insertion order.
type ForInStatement struct {
	Token   token.Token // the 'for' token
	Name    *Identifier
	Subject Expression
	Body    *BlockStatement
}

func (fi *ForInStatement) statementNode()       {}
func (fi *ForInStatement) TokenLiteral() string { return fi.Token.Literal }
func (fi *ForInStatement) String() string {
	return "for (" + fi.Name.String() + " in " + fi.Subject.String() + ") " + fi.Body.String()
}

// ForOfStatement iterates the elements of an array in index order.
type ForOfStatement struct {
	Token   token.Token // the 'for' token
	Name    *Identifier
	Subject Expression
	Body    *BlockStatement
}

func (fo *ForOfStatement) statementNode()       {}
func (fo *ForOfStatement) TokenLiteral() string { return fo.Token.Literal }
func (fo *ForOfStatement) String() string {
	return "for (" + fo.Name.String() + " of " + fo.Subject.String() + ") " + fo.Body.String()
}

type WhileStatement struct {
	Token     token.Token // the 'while' token
	Condition Expression
	Body      *BlockStatement
}

func (ws *WhileStatement) statementNode()       {}
func (ws *WhileStatement) TokenLiteral() string { return ws.Token.Literal }
func (ws *WhileStatement) String() string {
	return "while (" + ws.Condition.String() + ") " + ws.Body.String()
}

// TryCatchStatement: CatchParam is nil when the catch clause names no
// parameter.
type TryCatchStatement struct {
	Token      token.Token // the 'try' token
	TryBlock   *BlockStatement
	CatchParam *Identifier
	CatchBlock *BlockStatement
}

func (tc *TryCatchStatement) statementNode()       {}
func (tc *TryCatchStatement) TokenLiteral() string { return tc.Token.Literal }
func (tc *TryCatchStatement) String() string {
	var out bytes.Buffer
	out.WriteString("try ")
	out.WriteString(tc.TryBlock.String())
	out.WriteString(" catch (")
	if tc.CatchParam != nil {
		out.WriteString(tc.CatchParam.String())
	}
	out.WriteString(") ")
	out.WriteString(tc.CatchBlock.String())
	return out.String()
}

type Identifier struct {
	Token token.Token // the token.IDENT token
	Value string
}

func (i *Identifier) expressionNode()      {}
func (i *Identifier) TokenLiteral() string { return i.Token.Literal }
func (i *Identifier) String() string       { return i.Value }

// NumberLiteral holds both integer and float literals; the runtime value
// model has a single number representation.
type NumberLiteral struct {
	Token token.Token
	Value float64
}

func (nl *NumberLiteral) expressionNode()      {}
func (nl *NumberLiteral) TokenLiteral() string { return nl.Token.Literal }
func (nl *NumberLiteral) String() string       { return nl.Token.Literal }

type StringLiteral struct {
	Token token.Token
	Value string
}

func (sl *StringLiteral) expressionNode()      {}
func (sl *StringLiteral) TokenLiteral() string { return sl.Token.Literal }
func (sl *StringLiteral) String() string       { return strconv.Quote(sl.Value) }

type Boolean struct {
	Token token.Token
	Value bool
}

func (b *Boolean) expressionNode()      {}
func (b *Boolean) TokenLiteral() string { return b.Token.Literal }
func (b *Boolean) String() string       { return b.Token.Literal }

// NullLiteral covers both `null` and `undefined` source spellings.
type NullLiteral struct {
	Token token.Token
}

func (nl *NullLiteral) expressionNode()      {}
func (nl *NullLiteral) TokenLiteral() string { return nl.Token.Literal }
func (nl *NullLiteral) String() string       { return "null" }

type PrefixExpression struct {
	Token    token.Token // the prefix token, e.g. !
	Operator string
	Right    Expression
}

func (pe *PrefixExpression) expressionNode()      {}
func (pe *PrefixExpression) TokenLiteral() string { return pe.Token.Literal }
func (pe *PrefixExpression) String() string {
	return "(" + pe.Operator + pe.Right.String() + ")"
}

type InfixExpression struct {
	Token    token.Token // the operator token
	Left     Expression
	Operator string
	Right    Expression
}

func (ie *InfixExpression) expressionNode()      {}
func (ie *InfixExpression) TokenLiteral() string { return ie.Token.Literal }
func (ie *InfixExpression) String() string {
	return "(" + ie.Left.String() + " " + ie.Operator + " " + ie.Right.String() + ")"
}

type ArrayLiteral struct {
	Token    token.Token // the [ token
	Elements []Expression
}

func (al *ArrayLiteral) expressionNode()      {}
func (al *ArrayLiteral) TokenLiteral() string { return al.Token.Literal }
func (al *ArrayLiteral) String() string {
	var out bytes.Buffer
	elements := []string{}
	for _, el := range al.Elements {
		elements = append(elements, el.String())
	}
	out.WriteString("[")
	out.WriteString(strings.Join(elements, ", "))
	out.WriteString("]")
	return out.String()
}

// ObjectLiteral keeps Keys in source order so evaluation produces objects
// with stable insertion order.
type ObjectLiteral struct {
	Token token.Token // the { token
	Keys  []string
	Pairs map[string]Expression
}

func (ol *ObjectLiteral) expressionNode()      {}
func (ol *ObjectLiteral) TokenLiteral() string { return ol.Token.Literal }
func (ol *ObjectLiteral) String() string {
	var out bytes.Buffer
	pairs := []string{}
	for _, key := range ol.Keys {
		pairs = append(pairs, strconv.Quote(key)+": "+ol.Pairs[key].String())
	}
	out.WriteString("{")
	out.WriteString(strings.Join(pairs, ", "))
	out.WriteString("}")
	return out.String()
}

type CallExpression struct {
	Token     token.Token // the function-name token
	Function  *Identifier
	Arguments []Expression
}

func (ce *CallExpression) expressionNode()      {}
func (ce *CallExpression) TokenLiteral() string { return ce.Token.Literal }
func (ce *CallExpression) String() string {
	var out bytes.Buffer
	args := []string{}
	for _, a := range ce.Arguments {
		args = append(args, a.String())
	}
	out.WriteString(ce.Function.String())
	out.WriteString("(")
	out.WriteString(strings.Join(args, ", "))
	out.WriteString(")")
	return out.String()
}

// MethodCallExpression is `object.method(args...)`; the resolved property
// must be callable.
type MethodCallExpression struct {
	Token     token.Token // the method-name token
	Object    Expression
	Method    string
	Arguments []Expression
}

func (mc *MethodCallExpression) expressionNode()      {}
func (mc *MethodCallExpression) TokenLiteral() string { return mc.Token.Literal }
func (mc *MethodCallExpression) String() string {
	var out bytes.Buffer
	args := []string{}
	for _, a := range mc.Arguments {
		args = append(args, a.String())
	}
	out.WriteString(mc.Object.String())
	out.WriteString(".")
	out.WriteString(mc.Method)
	out.WriteString("(")
	out.WriteString(strings.Join(args, ", "))
	out.WriteString(")")
	return out.String()
}

// PropertyAccessExpression is `object.property`.
type PropertyAccessExpression struct {
	Token    token.Token // the property-name token
	Object   Expression
	Property string
}

func (pa *PropertyAccessExpression) expressionNode()      {}
func (pa *PropertyAccessExpression) TokenLiteral() string { return pa.Token.Literal }
func (pa *PropertyAccessExpression) String() string {
	return pa.Object.String() + "." + pa.Property
}

// IndexExpression is `array[index]` or `object[key]`.
type IndexExpression struct {
	Token token.Token // the [ token
	Left  Expression
	Index Expression
}

func (ix *IndexExpression) expressionNode()      {}
func (ix *IndexExpression) TokenLiteral() string { return ix.Token.Literal }
func (ix *IndexExpression) String() string {
	return "(" + ix.Left.String() + "[" + ix.Index.String() + "])"
}
