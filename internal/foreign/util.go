package foreign

import (
	"fmt"

	"mscript/internal/object"
)

func errorf(format string, a ...interface{}) *object.Error {
	return &object.Error{Kind: object.ErrRuntime, Message: fmt.Sprintf(format, a...)}
}

func typeErrorf(format string, a ...interface{}) *object.Error {
	return &object.Error{Kind: object.ErrType, Message: fmt.Sprintf(format, a...)}
}

func unpackString(name string, args []object.Object, pos int) (string, *object.Error) {
	if pos >= len(args) {
		return "", typeErrorf("%s: missing argument %d", name, pos+1)
	}
	s, ok := args[pos].(*object.String)
	if !ok {
		return "", typeErrorf("%s: argument %d must be a string, got %s", name, pos+1, args[pos].Type())
	}
	return s.Value, nil
}

func unpackNumber(name string, args []object.Object, pos int) (float64, *object.Error) {
	if pos >= len(args) {
		return 0, typeErrorf("%s: missing argument %d", name, pos+1)
	}
	n, ok := args[pos].(*object.Number)
	if !ok {
		return 0, typeErrorf("%s: argument %d must be a number, got %s", name, pos+1, args[pos].Type())
	}
	return n.Value, nil
}

func unpackMap(name string, args []object.Object, pos int) (*object.Map, *object.Error) {
	if pos >= len(args) {
		return nil, typeErrorf("%s: missing argument %d", name, pos+1)
	}
	m, ok := args[pos].(*object.Map)
	if !ok {
		return nil, typeErrorf("%s: argument %d must be an object, got %s", name, pos+1, args[pos].Type())
	}
	return m, nil
}
