package parser

import (
	"encoding/json"
	"fmt"
	"os"

	"mscript/internal/ast"
)

// WalkAST recursively traverses an AST and serializes it into a map structure for JSON output.
func WalkAST(node ast.Node) interface{} {
	switch n := node.(type) {
	case *ast.Module:
		functions := make([]interface{}, len(n.Names))
		for i, name := range n.Names {
			functions[i] = WalkAST(n.Functions[name])
		}
		return map[string]interface{}{
			"0.type":      "Module",
			"1.functions": functions,
		}

	case *ast.Function:
		parameters := make([]interface{}, len(n.Parameters))
		for i, param := range n.Parameters {
			parameters[i] = param.Value
		}
		return map[string]interface{}{
			"0.type":       "Function",
			"1.line":       n.Token.Line,
			"2.name":       n.Name,
			"3.parameters": parameters,
			"4.body":       WalkAST(n.Body),
		}

	case *ast.BlockStatement:
		statements := make([]interface{}, len(n.Statements))
		for i, s := range n.Statements {
			statements[i] = WalkAST(s)
		}
		return map[string]interface{}{
			"0.type":       "BlockStatement",
			"1.line":       n.Token.Line,
			"2.statements": statements,
		}

	case *ast.AssignStatement:
		return map[string]interface{}{
			"0.type":  "AssignStatement",
			"1.line":  n.Token.Line,
			"2.name":  n.Name.Value,
			"3.value": WalkAST(n.Value),
		}

	case *ast.CompoundAssignStatement:
		return map[string]interface{}{
			"0.type":     "CompoundAssignStatement",
			"1.line":     n.Token.Line,
			"2.name":     n.Name.Value,
			"3.operator": n.Operator,
			"4.value":    WalkAST(n.Value),
		}

	case *ast.ExpressionStatement:
		return map[string]interface{}{
			"0.type":       "ExpressionStatement",
			"1.line":       n.Token.Line,
			"2.expression": WalkAST(n.Expression),
		}

	case *ast.ReturnStatement:
		var value interface{}
		if n.ReturnValue != nil {
			value = WalkAST(n.ReturnValue)
		}
		return map[string]interface{}{
			"0.type":        "ReturnStatement",
			"1.line":        n.Token.Line,
			"2.returnValue": value,
		}

	case *ast.IfStatement:
		var alternative interface{}
		if n.Alternative != nil {
			alternative = WalkAST(n.Alternative)
		}
		return map[string]interface{}{
			"0.type":        "IfStatement",
			"1.line":        n.Token.Line,
			"2.condition":   WalkAST(n.Condition),
			"3.consequence": WalkAST(n.Consequence),
			"4.alternative": alternative,
		}

	case *ast.ForStatement:
		out := map[string]interface{}{
			"0.type": "ForStatement",
			"1.line": n.Token.Line,
			"5.body": WalkAST(n.Body),
		}
		if n.Init != nil {
			out["2.init"] = WalkAST(n.Init)
		}
		if n.Condition != nil {
			out["3.condition"] = WalkAST(n.Condition)
		}
		if n.Update != nil {
			out["4.update"] = WalkAST(n.Update)
		}
		return out

	case *ast.ForInStatement:
		return map[string]interface{}{
			"0.type":    "ForInStatement",
			"1.line":    n.Token.Line,
			"2.name":    n.Name.Value,
			"3.subject": WalkAST(n.Subject),
			"4.body":    WalkAST(n.Body),
		}

	case *ast.ForOfStatement:
		return map[string]interface{}{
			"0.type":    "ForOfStatement",
			"1.line":    n.Token.Line,
			"2.name":    n.Name.Value,
			"3.subject": WalkAST(n.Subject),
			"4.body":    WalkAST(n.Body),
		}

	case *ast.WhileStatement:
		return map[string]interface{}{
			"0.type":      "WhileStatement",
			"1.line":      n.Token.Line,
			"2.condition": WalkAST(n.Condition),
			"3.body":      WalkAST(n.Body),
		}

	case *ast.TryCatchStatement:
		var param interface{}
		if n.CatchParam != nil {
			param = n.CatchParam.Value
		}
		return map[string]interface{}{
			"0.type":       "TryCatchStatement",
			"1.line":       n.Token.Line,
			"2.try":        WalkAST(n.TryBlock),
			"3.catchParam": param,
			"4.catch":      WalkAST(n.CatchBlock),
		}

	case *ast.Identifier:
		return map[string]interface{}{
			"0.type":  "Identifier",
			"1.line":  n.Token.Line,
			"2.value": n.Value,
		}

	case *ast.NumberLiteral:
		return map[string]interface{}{
			"0.type":  "NumberLiteral",
			"1.line":  n.Token.Line,
			"2.value": n.Value,
		}

	case *ast.StringLiteral:
		return map[string]interface{}{
			"0.type":  "StringLiteral",
			"1.line":  n.Token.Line,
			"2.value": n.Value,
		}

	case *ast.Boolean:
		return map[string]interface{}{
			"0.type":  "Boolean",
			"1.line":  n.Token.Line,
			"2.value": n.Value,
		}

	case *ast.NullLiteral:
		return map[string]interface{}{
			"0.type": "NullLiteral",
			"1.line": n.Token.Line,
		}

	case *ast.PrefixExpression:
		return map[string]interface{}{
			"0.type":     "PrefixExpression",
			"1.line":     n.Token.Line,
			"2.operator": n.Operator,
			"3.right":    WalkAST(n.Right),
		}

	case *ast.InfixExpression:
		return map[string]interface{}{
			"0.type":     "InfixExpression",
			"1.line":     n.Token.Line,
			"2.left":     WalkAST(n.Left),
			"3.operator": n.Operator,
			"4.right":    WalkAST(n.Right),
		}

	case *ast.ArrayLiteral:
		elements := make([]interface{}, len(n.Elements))
		for i, el := range n.Elements {
			elements[i] = WalkAST(el)
		}
		return map[string]interface{}{
			"0.type":     "ArrayLiteral",
			"1.line":     n.Token.Line,
			"2.elements": elements,
		}

	case *ast.ObjectLiteral:
		pairs := make([]interface{}, len(n.Keys))
		for i, key := range n.Keys {
			pairs[i] = map[string]interface{}{
				"0.key":   key,
				"1.value": WalkAST(n.Pairs[key]),
			}
		}
		return map[string]interface{}{
			"0.type":  "ObjectLiteral",
			"1.line":  n.Token.Line,
			"2.pairs": pairs,
		}

	case *ast.CallExpression:
		args := make([]interface{}, len(n.Arguments))
		for i, arg := range n.Arguments {
			args[i] = WalkAST(arg)
		}
		return map[string]interface{}{
			"0.type":      "CallExpression",
			"1.line":      n.Token.Line,
			"2.function":  n.Function.Value,
			"3.arguments": args,
		}

	case *ast.MethodCallExpression:
		args := make([]interface{}, len(n.Arguments))
		for i, arg := range n.Arguments {
			args[i] = WalkAST(arg)
		}
		return map[string]interface{}{
			"0.type":      "MethodCallExpression",
			"1.line":      n.Token.Line,
			"2.object":    WalkAST(n.Object),
			"3.method":    n.Method,
			"4.arguments": args,
		}

	case *ast.PropertyAccessExpression:
		return map[string]interface{}{
			"0.type":     "PropertyAccessExpression",
			"1.line":     n.Token.Line,
			"2.object":   WalkAST(n.Object),
			"3.property": n.Property,
		}

	case *ast.IndexExpression:
		return map[string]interface{}{
			"0.type":  "IndexExpression",
			"1.line":  n.Token.Line,
			"2.left":  WalkAST(n.Left),
			"3.index": WalkAST(n.Index),
		}
	}

	return fmt.Sprintf("unhandled node %T", node)
}

// WriteASTDebug renders a module's AST as indented JSON.
func WriteASTDebug(mod *ast.Module, path string) error {
	data, err := json.MarshalIndent(WalkAST(mod), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
