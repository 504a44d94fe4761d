package object

import (
	"log/slog"
)

// Environment is a single variable scope: a binding map plus an optional
// outer scope consulted on lookup misses. One environment exists for the
// module globals; each function invocation gets its own via ChildForCall.
type Environment struct {
	Bindings map[string]Object
	Outer    *Environment
}

func NewEnvironment() *Environment {
	return &Environment{Bindings: make(map[string]Object)}
}

func NewEnclosedEnvironment(outer *Environment) *Environment {
	env := NewEnvironment()
	env.Outer = outer
	return env
}

func (e *Environment) Get(name string) (Object, bool) {
	if val, ok := e.Bindings[name]; ok {
		return val, true
	}
	if e.Outer != nil {
		return e.Outer.Get(name)
	}
	return nil, false
}

// Define binds a name in this scope, creating or rebinding it.
func (e *Environment) Define(name string, val Object) Object {
	e.Bindings[name] = val
	slog.Debug("binding value",
		slog.Any("name", name),
		slog.Any("type", val.Type()))
	return val
}

// Has reports whether the name resolves in this scope or any outer one.
func (e *Environment) Has(name string) bool {
	_, ok := e.Get(name)
	return ok
}

// ChildForCall builds the scope for a function invocation: a flat snapshot
// of every binding visible from the caller. The callee can read caller
// locals, but its writes land in the snapshot and never propagate back, and
// no closure over enclosing function scopes exists.
func (e *Environment) ChildForCall() *Environment {
	child := NewEnvironment()
	e.copyInto(child)
	slog.Debug("call scope snapshot",
		slog.Int("bindings", len(child.Bindings)))
	return child
}

// copyInto flattens the scope chain outermost-first so inner bindings
// shadow outer ones.
func (e *Environment) copyInto(dst *Environment) {
	if e.Outer != nil {
		e.Outer.copyInto(dst)
	}
	for name, val := range e.Bindings {
		dst.Bindings[name] = val
	}
}
