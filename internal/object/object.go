package object

import (
	"bytes"
	"strconv"
	"strings"

	"mscript/internal/ast"
)

const (
	NULL_OBJ    = "NULL"
	BOOLEAN_OBJ = "BOOLEAN"
	NUMBER_OBJ  = "NUMBER"
	STRING_OBJ  = "STRING"

	ARRAY_OBJ = "ARRAY"
	MAP_OBJ   = "OBJECT"

	FUNCTION_OBJ = "FUNCTION"
	BUILTIN_OBJ  = "BUILTIN"

	RETURN_VALUE_OBJ = "RETURN_VALUE"
	ERROR_OBJ        = "ERROR"
)

// ErrorKind classifies runtime errors so hosts and tests can assert the
// failure mode instead of matching message text.
type ErrorKind string

const (
	ErrUndefinedVariable ErrorKind = "UndefinedVariable"
	ErrUndefinedFunction ErrorKind = "UndefinedFunction"
	ErrNotCallable       ErrorKind = "NotCallable"
	ErrUndefinedProperty ErrorKind = "UndefinedProperty"
	ErrNotAnObject       ErrorKind = "NotAnObject"
	ErrNotAnArray        ErrorKind = "NotAnArray"
	ErrNoMainFunction    ErrorKind = "NoMainFunction"
	ErrType              ErrorKind = "TypeError"
	ErrRuntime           ErrorKind = "RuntimeError"
)

var (
	NULL  = &Null{}
	TRUE  = &Boolean{Value: true}
	FALSE = &Boolean{Value: false}
)

type ObjectType string

type Object interface {
	Type() ObjectType
	Inspect() string
}

// BuiltinFunction is the uniform dispatch boundary for host capabilities.
type BuiltinFunction func(args ...Object) Object

type Number struct {
	Value float64
}

func (n *Number) Type() ObjectType { return NUMBER_OBJ }
func (n *Number) Inspect() string  { return strconv.FormatFloat(n.Value, 'f', -1, 64) }

type String struct {
	Value string
}

func (s *String) Type() ObjectType { return STRING_OBJ }
func (s *String) Inspect() string  { return s.Value }

type Boolean struct {
	Value bool
}

func (b *Boolean) Type() ObjectType { return BOOLEAN_OBJ }
func (b *Boolean) Inspect() string {
	if b.Value {
		return "true"
	}
	return "false"
}

type Null struct{}

func (n *Null) Type() ObjectType { return NULL_OBJ }
func (n *Null) Inspect() string  { return "null" }

type Array struct {
	Elements []Object
}

func (a *Array) Type() ObjectType { return ARRAY_OBJ }
func (a *Array) Inspect() string {
	var out bytes.Buffer
	elements := []string{}
	for _, e := range a.Elements {
		elements = append(elements, e.Inspect())
	}
	out.WriteString("[")
	out.WriteString(strings.Join(elements, ", "))
	out.WriteString("]")
	return out.String()
}

// Map is the language's object value. Keys preserves insertion order, which
// for..in relies on.
type Map struct {
	Keys  []string
	Pairs map[string]Object
}

func NewMap() *Map {
	return &Map{Pairs: make(map[string]Object)}
}

// Set binds key to val, appending to the key order on first insertion.
func (m *Map) Set(key string, val Object) *Map {
	if m.Pairs == nil {
		m.Pairs = make(map[string]Object)
	}
	if _, seen := m.Pairs[key]; !seen {
		m.Keys = append(m.Keys, key)
	}
	m.Pairs[key] = val
	return m
}

func (m *Map) Get(key string) (Object, bool) {
	val, ok := m.Pairs[key]
	return val, ok
}

func (m *Map) Type() ObjectType { return MAP_OBJ }
func (m *Map) Inspect() string {
	var out bytes.Buffer
	pairs := []string{}
	for _, key := range m.Keys {
		pairs = append(pairs, key+": "+m.Pairs[key].Inspect())
	}
	out.WriteString("{")
	out.WriteString(strings.Join(pairs, ", "))
	out.WriteString("}")
	return out.String()
}

// Function is a user-defined function. It carries no captured environment:
// each invocation snapshots the caller's visible bindings instead (see
// Environment.ChildForCall).
type Function struct {
	Name       string
	Parameters []*ast.Identifier
	Body       *ast.BlockStatement
}

func (f *Function) Type() ObjectType { return FUNCTION_OBJ }
func (f *Function) Inspect() string {
	var out bytes.Buffer
	params := []string{}
	for _, p := range f.Parameters {
		params = append(params, p.String())
	}
	out.WriteString(f.Name)
	out.WriteString("(")
	out.WriteString(strings.Join(params, ", "))
	out.WriteString(") { ... }")
	return out.String()
}

// Builtin is a host capability exposed to the language under a fixed name.
type Builtin struct {
	Name string
	Fn   BuiltinFunction
}

func (b *Builtin) Type() ObjectType { return BUILTIN_OBJ }
func (b *Builtin) Inspect() string  { return "builtin " + b.Name + "() { <native> }" }

// ReturnValue wraps the operand of a `return` statement while it unwinds
// enclosing blocks. It is a distinct Go type, so scripts cannot forge it.
type ReturnValue struct {
	Value Object
}

func (rv *ReturnValue) Type() ObjectType { return RETURN_VALUE_OBJ }
func (rv *ReturnValue) Inspect() string  { return rv.Value.Inspect() }

// Error is a runtime error propagating up the evaluator's call stack until
// a try/catch converts it to its message string.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Type() ObjectType { return ERROR_OBJ }
func (e *Error) Inspect() string  { return e.Message }
