package evaluator

import (
	"fmt"
	"log/slog"
	"math"
	"strconv"

	"mscript/internal/ast"
	"mscript/internal/object"
)

var (
	NULL  = object.NULL
	TRUE  = object.TRUE
	FALSE = object.FALSE
)

// Evaluator walks the AST against an environment chain. The builtin
// registry is injected so hosts and tests can swap capabilities for
// doubles; the evaluator itself holds no global state.
type Evaluator struct {
	builtins map[string]object.Object
}

func New(builtins map[string]object.Object) *Evaluator {
	return &Evaluator{builtins: builtins}
}

// Interpret seeds the global scope with the builtins and every declared
// function, then invokes main with zero arguments.
func (e *Evaluator) Interpret(mod *ast.Module) object.Object {
	global := object.NewEnvironment()
	for name, capability := range e.builtins {
		global.Define(name, capability)
	}
	for name, fn := range mod.Functions {
		global.Define(name, &object.Function{
			Name:       fn.Name,
			Parameters: fn.Parameters,
			Body:       fn.Body,
		})
	}

	mainFn, ok := global.Get("main")
	if !ok {
		return newError(object.ErrNoMainFunction, "no main function defined")
	}

	slog.Debug("interpreting module",
		slog.Int("functions", len(mod.Functions)))

	return e.applyFunction("main", mainFn, nil, global)
}

func (e *Evaluator) Eval(node ast.Node, env *object.Environment) object.Object {
	switch node := node.(type) {

	// Statements
	case *ast.BlockStatement:
		return e.evalBlockStatement(node, env)

	case *ast.ExpressionStatement:
		return e.Eval(node.Expression, env)

	case *ast.AssignStatement:
		val := e.Eval(node.Value, env)
		if isError(val) {
			return val
		}
		env.Define(node.Name.Value, val)
		return nil

	case *ast.CompoundAssignStatement:
		return e.evalCompoundAssign(node, env)

	case *ast.ReturnStatement:
		if node.ReturnValue == nil {
			return &object.ReturnValue{Value: NULL}
		}
		val := e.Eval(node.ReturnValue, env)
		if isError(val) {
			return val
		}
		return &object.ReturnValue{Value: val}

	case *ast.IfStatement:
		return e.evalIfStatement(node, env)

	case *ast.ForStatement:
		return e.evalForStatement(node, env)

	case *ast.ForInStatement:
		return e.evalForInStatement(node, env)

	case *ast.ForOfStatement:
		return e.evalForOfStatement(node, env)

	case *ast.WhileStatement:
		return e.evalWhileStatement(node, env)

	case *ast.TryCatchStatement:
		return e.evalTryCatchStatement(node, env)

	// Expressions
	case *ast.NumberLiteral:
		return &object.Number{Value: node.Value}

	case *ast.StringLiteral:
		return &object.String{Value: node.Value}

	case *ast.Boolean:
		return nativeBoolToBooleanObject(node.Value)

	case *ast.NullLiteral:
		return NULL

	case *ast.Identifier:
		return e.evalIdentifier(node, env)

	case *ast.PrefixExpression:
		right := e.Eval(node.Right, env)
		if isError(right) {
			return right
		}
		return e.evalPrefixExpression(node.Operator, right)

	case *ast.InfixExpression:
		// && and || evaluate both operands eagerly; there is no
		// short-circuiting in this language.
		left := e.Eval(node.Left, env)
		if isError(left) {
			return left
		}
		right := e.Eval(node.Right, env)
		if isError(right) {
			return right
		}
		return e.evalInfixExpression(node.Operator, left, right)

	case *ast.ArrayLiteral:
		elements := e.evalExpressions(node.Elements, env)
		if len(elements) == 1 && isError(elements[0]) {
			return elements[0]
		}
		return &object.Array{Elements: elements}

	case *ast.ObjectLiteral:
		return e.evalObjectLiteral(node, env)

	case *ast.CallExpression:
		return e.evalCallExpression(node, env)

	case *ast.MethodCallExpression:
		return e.evalMethodCall(node, env)

	case *ast.PropertyAccessExpression:
		return e.evalPropertyAccess(node, env)

	case *ast.IndexExpression:
		left := e.Eval(node.Left, env)
		if isError(left) {
			return left
		}
		index := e.Eval(node.Index, env)
		if isError(index) {
			return index
		}
		return e.evalIndexExpression(left, index)
	}

	return nil
}

func (e *Evaluator) evalBlockStatement(block *ast.BlockStatement, env *object.Environment) object.Object {
	var result object.Object

	for _, statement := range block.Statements {
		result = e.Eval(statement, env)

		if result != nil {
			rt := result.Type()
			if rt == object.RETURN_VALUE_OBJ || rt == object.ERROR_OBJ {
				return result
			}
		}
	}

	return result
}

func (e *Evaluator) evalCompoundAssign(node *ast.CompoundAssignStatement, env *object.Environment) object.Object {
	current, ok := env.Get(node.Name.Value)
	if !ok {
		return newError(object.ErrUndefinedVariable, "undefined variable: %s", node.Name.Value)
	}

	val := e.Eval(node.Value, env)
	if isError(val) {
		return val
	}

	result := e.evalInfixExpression(node.Operator, current, val)
	if isError(result) {
		return result
	}
	env.Define(node.Name.Value, result)
	return nil
}

func (e *Evaluator) evalIfStatement(node *ast.IfStatement, env *object.Environment) object.Object {
	condition := e.Eval(node.Condition, env)
	if isError(condition) {
		return condition
	}

	if isTruthy(condition) {
		return e.evalBlockStatement(node.Consequence, env)
	}
	if node.Alternative != nil {
		return e.Eval(node.Alternative, env)
	}
	return nil
}

func (e *Evaluator) evalForStatement(node *ast.ForStatement, env *object.Environment) object.Object {
	if node.Init != nil {
		if result := e.Eval(node.Init, env); isError(result) {
			return result
		}
	}

	for {
		if node.Condition != nil {
			condition := e.Eval(node.Condition, env)
			if isError(condition) {
				return condition
			}
			if !isTruthy(condition) {
				break
			}
		}

		result := e.evalBlockStatement(node.Body, env)
		if result != nil {
			rt := result.Type()
			if rt == object.RETURN_VALUE_OBJ || rt == object.ERROR_OBJ {
				return result
			}
		}

		if node.Update != nil {
			if result := e.Eval(node.Update, env); isError(result) {
				return result
			}
		}
	}

	return nil
}

func (e *Evaluator) evalForInStatement(node *ast.ForInStatement, env *object.Environment) object.Object {
	subject := e.Eval(node.Subject, env)
	if isError(subject) {
		return subject
	}

	m, ok := subject.(*object.Map)
	if !ok {
		return newError(object.ErrNotAnObject, "for..in subject must be an object, got %s", subject.Type())
	}

	// keys iterate in insertion order
	for _, key := range m.Keys {
		env.Define(node.Name.Value, &object.String{Value: key})

		result := e.evalBlockStatement(node.Body, env)
		if result != nil {
			rt := result.Type()
			if rt == object.RETURN_VALUE_OBJ || rt == object.ERROR_OBJ {
				return result
			}
		}
	}

	return nil
}

func (e *Evaluator) evalForOfStatement(node *ast.ForOfStatement, env *object.Environment) object.Object {
	subject := e.Eval(node.Subject, env)
	if isError(subject) {
		return subject
	}

	arr, ok := subject.(*object.Array)
	if !ok {
		return newError(object.ErrNotAnArray, "for..of subject must be an array, got %s", subject.Type())
	}

	for _, element := range arr.Elements {
		env.Define(node.Name.Value, element)

		result := e.evalBlockStatement(node.Body, env)
		if result != nil {
			rt := result.Type()
			if rt == object.RETURN_VALUE_OBJ || rt == object.ERROR_OBJ {
				return result
			}
		}
	}

	return nil
}

func (e *Evaluator) evalWhileStatement(node *ast.WhileStatement, env *object.Environment) object.Object {
	for {
		condition := e.Eval(node.Condition, env)
		if isError(condition) {
			return condition
		}
		if !isTruthy(condition) {
			break
		}

		result := e.evalBlockStatement(node.Body, env)
		if result != nil {
			rt := result.Type()
			if rt == object.RETURN_VALUE_OBJ || rt == object.ERROR_OBJ {
				return result
			}
		}
	}

	return nil
}

// evalTryCatchStatement runs the try block; a runtime error is converted to
// its message string, bound to the catch parameter when one is named, and
// the catch block runs. A return from either block propagates normally.
func (e *Evaluator) evalTryCatchStatement(node *ast.TryCatchStatement, env *object.Environment) object.Object {
	result := e.evalBlockStatement(node.TryBlock, env)

	err, caught := result.(*object.Error)
	if !caught {
		return result
	}

	slog.Debug("caught runtime error",
		slog.String("kind", string(err.Kind)),
		slog.String("message", err.Message))

	if node.CatchParam != nil {
		env.Define(node.CatchParam.Value, &object.String{Value: err.Message})
	}
	return e.evalBlockStatement(node.CatchBlock, env)
}

func (e *Evaluator) evalIdentifier(node *ast.Identifier, env *object.Environment) object.Object {
	if val, ok := env.Get(node.Value); ok {
		return val
	}
	return newError(object.ErrUndefinedVariable, "undefined variable: %s", node.Value)
}

func (e *Evaluator) evalCallExpression(node *ast.CallExpression, env *object.Environment) object.Object {
	name := node.Function.Value

	fnObj, ok := env.Get(name)
	if !ok {
		return newError(object.ErrUndefinedFunction, "undefined function: %s", name)
	}

	args := e.evalExpressions(node.Arguments, env)
	if len(args) == 1 && isError(args[0]) {
		return args[0]
	}

	return e.applyFunction(name, fnObj, args, env)
}

// applyFunction dispatches either to a builtin capability or to a
// user-defined function. User calls bind parameters positionally (missing
// trailing arguments bind to null) and run in a snapshot of the caller's
// scope; the first return unwinds the body, otherwise the call yields null.
func (e *Evaluator) applyFunction(name string, fnObj object.Object, args []object.Object, env *object.Environment) object.Object {
	switch fn := fnObj.(type) {
	case *object.Builtin:
		return fn.Fn(args...)

	case *object.Function:
		callEnv := env.ChildForCall()
		for i, param := range fn.Parameters {
			if i < len(args) {
				callEnv.Define(param.Value, args[i])
			} else {
				callEnv.Define(param.Value, NULL)
			}
		}

		result := e.evalBlockStatement(fn.Body, callEnv)
		if returnValue, ok := result.(*object.ReturnValue); ok {
			return returnValue.Value
		}
		if isError(result) {
			return result
		}
		return NULL

	default:
		return newError(object.ErrNotCallable, "%s is not a function: %s", name, fnObj.Type())
	}
}

func (e *Evaluator) evalMethodCall(node *ast.MethodCallExpression, env *object.Environment) object.Object {
	receiver := e.Eval(node.Object, env)
	if isError(receiver) {
		return receiver
	}

	m, ok := receiver.(*object.Map)
	if !ok {
		return newError(object.ErrNotAnObject, "method call on non-object value: %s", receiver.Type())
	}

	member, ok := m.Get(node.Method)
	if !ok {
		return newError(object.ErrNotCallable, "undefined method: %s", node.Method)
	}

	args := e.evalExpressions(node.Arguments, env)
	if len(args) == 1 && isError(args[0]) {
		return args[0]
	}

	switch member.(type) {
	case *object.Builtin, *object.Function:
		return e.applyFunction(node.Method, member, args, env)
	default:
		return newError(object.ErrNotCallable, "property %s is not callable: %s", node.Method, member.Type())
	}
}

func (e *Evaluator) evalPropertyAccess(node *ast.PropertyAccessExpression, env *object.Environment) object.Object {
	receiver := e.Eval(node.Object, env)
	if isError(receiver) {
		return receiver
	}

	m, ok := receiver.(*object.Map)
	if !ok {
		return newError(object.ErrNotAnObject, "property access on non-object value: %s", receiver.Type())
	}

	val, ok := m.Get(node.Property)
	if !ok {
		return newError(object.ErrUndefinedProperty, "undefined property: %s", node.Property)
	}
	return val
}

func (e *Evaluator) evalIndexExpression(left, index object.Object) object.Object {
	switch {
	case left.Type() == object.ARRAY_OBJ && index.Type() == object.NUMBER_OBJ:
		return evalArrayIndexExpression(left, index)
	case left.Type() == object.MAP_OBJ && index.Type() == object.STRING_OBJ:
		m := left.(*object.Map)
		if val, ok := m.Get(index.(*object.String).Value); ok {
			return val
		}
		return NULL
	default:
		return newError(object.ErrType, "index operator not supported: %s[%s]", left.Type(), index.Type())
	}
}

func evalArrayIndexExpression(arr, index object.Object) object.Object {
	arrayObject := arr.(*object.Array)
	idx := int(index.(*object.Number).Value)
	max := len(arrayObject.Elements) - 1

	if idx < 0 || idx > max {
		return NULL
	}
	return arrayObject.Elements[idx]
}

func (e *Evaluator) evalObjectLiteral(node *ast.ObjectLiteral, env *object.Environment) object.Object {
	m := object.NewMap()

	for _, key := range node.Keys {
		value := e.Eval(node.Pairs[key], env)
		if isError(value) {
			return value
		}
		m.Set(key, value)
	}

	return m
}

func (e *Evaluator) evalExpressions(exps []ast.Expression, env *object.Environment) []object.Object {
	var result []object.Object

	for _, exp := range exps {
		evaluated := e.Eval(exp, env)
		if isError(evaluated) {
			return []object.Object{evaluated}
		}
		result = append(result, evaluated)
	}

	return result
}

func (e *Evaluator) evalPrefixExpression(operator string, right object.Object) object.Object {
	switch operator {
	case "!":
		return nativeBoolToBooleanObject(!isTruthy(right))
	case "-":
		if right.Type() != object.NUMBER_OBJ {
			return newError(object.ErrType, "unknown operator: -%s", right.Type())
		}
		return &object.Number{Value: -right.(*object.Number).Value}
	case "+":
		if right.Type() != object.NUMBER_OBJ {
			return newError(object.ErrType, "unknown operator: +%s", right.Type())
		}
		return right
	default:
		return newError(object.ErrType, "unknown operator: %s%s", operator, right.Type())
	}
}

func (e *Evaluator) evalInfixExpression(operator string, left, right object.Object) object.Object {
	switch operator {
	case "&&":
		return nativeBoolToBooleanObject(isTruthy(left) && isTruthy(right))
	case "||":
		return nativeBoolToBooleanObject(isTruthy(left) || isTruthy(right))
	case "==":
		return nativeBoolToBooleanObject(looseEquals(left, right))
	case "!=":
		return nativeBoolToBooleanObject(!looseEquals(left, right))
	case "===":
		return nativeBoolToBooleanObject(strictEquals(left, right))
	case "!==":
		return nativeBoolToBooleanObject(!strictEquals(left, right))
	}

	switch {
	case left.Type() == object.NUMBER_OBJ && right.Type() == object.NUMBER_OBJ:
		return evalNumberInfixExpression(operator, left, right)
	case operator == "+" && (left.Type() == object.STRING_OBJ || right.Type() == object.STRING_OBJ):
		// a string operand turns + into concatenation
		return &object.String{Value: left.Inspect() + right.Inspect()}
	case left.Type() == object.STRING_OBJ && right.Type() == object.STRING_OBJ:
		return evalStringInfixExpression(operator, left, right)
	case left.Type() != right.Type():
		return newError(object.ErrType, "type mismatch: %s %s %s", left.Type(), operator, right.Type())
	default:
		return newError(object.ErrType, "unknown operator: %s %s %s", left.Type(), operator, right.Type())
	}
}

func evalNumberInfixExpression(operator string, left, right object.Object) object.Object {
	leftVal := left.(*object.Number).Value
	rightVal := right.(*object.Number).Value

	switch operator {
	case "+":
		return &object.Number{Value: leftVal + rightVal}
	case "-":
		return &object.Number{Value: leftVal - rightVal}
	case "*":
		return &object.Number{Value: leftVal * rightVal}
	case "/":
		if rightVal == 0 {
			return newError(object.ErrRuntime, "division by zero")
		}
		return &object.Number{Value: leftVal / rightVal}
	case "%":
		if rightVal == 0 {
			return newError(object.ErrRuntime, "division by zero")
		}
		return &object.Number{Value: math.Mod(leftVal, rightVal)}
	case "<":
		return nativeBoolToBooleanObject(leftVal < rightVal)
	case "<=":
		return nativeBoolToBooleanObject(leftVal <= rightVal)
	case ">":
		return nativeBoolToBooleanObject(leftVal > rightVal)
	case ">=":
		return nativeBoolToBooleanObject(leftVal >= rightVal)
	default:
		return newError(object.ErrType, "unknown operator: %s %s %s", left.Type(), operator, right.Type())
	}
}

func evalStringInfixExpression(operator string, left, right object.Object) object.Object {
	leftVal := left.(*object.String).Value
	rightVal := right.(*object.String).Value

	switch operator {
	case "<":
		return nativeBoolToBooleanObject(leftVal < rightVal)
	case "<=":
		return nativeBoolToBooleanObject(leftVal <= rightVal)
	case ">":
		return nativeBoolToBooleanObject(leftVal > rightVal)
	case ">=":
		return nativeBoolToBooleanObject(leftVal >= rightVal)
	default:
		return newError(object.ErrType, "unknown operator: %s %s %s", left.Type(), operator, right.Type())
	}
}

// looseEquals compares structurally, ignoring the runtime type where a
// numeric comparison is possible (a Number and a numeric String compare by
// value).
func looseEquals(a, b object.Object) bool {
	if a.Type() == b.Type() {
		return structuralEquals(a, b)
	}

	if an, ok := a.(*object.Number); ok {
		if bs, ok := b.(*object.String); ok {
			if parsed, err := strconv.ParseFloat(bs.Value, 64); err == nil {
				return an.Value == parsed
			}
		}
	}
	if as, ok := a.(*object.String); ok {
		if bn, ok := b.(*object.Number); ok {
			if parsed, err := strconv.ParseFloat(as.Value, 64); err == nil {
				return parsed == bn.Value
			}
		}
	}

	return false
}

// strictEquals requires identical runtime types on top of structural
// equality.
func strictEquals(a, b object.Object) bool {
	if a.Type() != b.Type() {
		return false
	}
	return structuralEquals(a, b)
}

func structuralEquals(a, b object.Object) bool {
	switch aVal := a.(type) {
	case *object.Number:
		return aVal.Value == b.(*object.Number).Value
	case *object.String:
		return aVal.Value == b.(*object.String).Value
	case *object.Boolean:
		return aVal.Value == b.(*object.Boolean).Value
	case *object.Null:
		return true
	case *object.Array:
		bArr := b.(*object.Array)
		if len(aVal.Elements) != len(bArr.Elements) {
			return false
		}
		for i, elem := range aVal.Elements {
			if !structuralEquals(elem, bArr.Elements[i]) {
				return false
			}
		}
		return true
	case *object.Map:
		bMap := b.(*object.Map)
		if len(aVal.Pairs) != len(bMap.Pairs) {
			return false
		}
		for key, val := range aVal.Pairs {
			other, ok := bMap.Pairs[key]
			if !ok || !structuralEquals(val, other) {
				return false
			}
		}
		return true
	}
	return a == b
}

// isTruthy: null, false, 0 and "" are falsy, everything else is truthy.
func isTruthy(obj object.Object) bool {
	switch obj := obj.(type) {
	case *object.Null:
		return false
	case *object.Boolean:
		return obj.Value
	case *object.Number:
		return obj.Value != 0
	case *object.String:
		return obj.Value != ""
	default:
		return true
	}
}

func nativeBoolToBooleanObject(input bool) *object.Boolean {
	if input {
		return TRUE
	}
	return FALSE
}

func newError(kind object.ErrorKind, format string, a ...interface{}) *object.Error {
	return &object.Error{Kind: kind, Message: fmt.Sprintf(format, a...)}
}

func isError(obj object.Object) bool {
	if obj != nil {
		return obj.Type() == object.ERROR_OBJ
	}
	return false
}
