// Package interp ties the front end and the evaluator together behind a
// small run-a-script API used by the command line entry point and by
// embedding hosts.
package interp

import (
	"fmt"
	"log/slog"
	"os"

	"mscript/internal/ast"
	"mscript/internal/evaluator"
	"mscript/internal/foreign"
	"mscript/internal/lexer"
	"mscript/internal/object"
	"mscript/internal/parser"
)

// RunFile loads and runs a script, returning the value main returned.
func RunFile(path string) (object.Object, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return RunSource(string(src))
}

// RunSource runs a script with the standard builtin registry.
func RunSource(src string) (object.Object, error) {
	return RunSourceWith(src, foreign.Registry())
}

// RunSourceWith runs a script against an explicit builtin registry.
// Hosts and tests use this to substitute capabilities.
func RunSourceWith(src string, builtins map[string]object.Object) (object.Object, error) {
	mod, err := Parse(src)
	if err != nil {
		return nil, err
	}

	slog.Debug("module parsed", slog.Int("functions", len(mod.Functions)))

	result := evaluator.New(builtins).Interpret(mod)
	if runtimeErr, ok := result.(*object.Error); ok {
		return nil, fmt.Errorf("%s: %s", runtimeErr.Kind, runtimeErr.Message)
	}
	return result, nil
}

// Parse runs only the front end, for tooling that wants the AST.
func Parse(src string) (*ast.Module, error) {
	p := parser.New(lexer.New(src))
	return p.Parse()
}
