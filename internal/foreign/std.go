package foreign

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"mscript/internal/object"
)

// Stdout is where print writes. Tests point it at a buffer.
var Stdout io.Writer = os.Stdout

func builtinPrint() *object.Builtin {
	return &object.Builtin{
		Name: "print",
		Fn: func(args ...object.Object) object.Object {
			parts := make([]string, len(args))
			for i, arg := range args {
				parts[i] = arg.Inspect()
			}
			fmt.Fprintln(Stdout, strings.Join(parts, " "))
			return object.NULL
		},
	}
}

func builtinLen() *object.Builtin {
	return &object.Builtin{
		Name: "len",
		Fn: func(args ...object.Object) object.Object {
			if len(args) != 1 {
				return typeErrorf("len: wrong number of arguments, got %d, want 1", len(args))
			}
			switch arg := args[0].(type) {
			case *object.String:
				return &object.Number{Value: float64(len(arg.Value))}
			case *object.Array:
				return &object.Number{Value: float64(len(arg.Elements))}
			case *object.Map:
				return &object.Number{Value: float64(len(arg.Keys))}
			default:
				return typeErrorf("len: unsupported argument type %s", args[0].Type())
			}
		},
	}
}

func builtinNumber() *object.Builtin {
	return &object.Builtin{
		Name: "Number",
		Fn: func(args ...object.Object) object.Object {
			if len(args) != 1 {
				return typeErrorf("Number: wrong number of arguments, got %d, want 1", len(args))
			}
			switch arg := args[0].(type) {
			case *object.Number:
				return arg
			case *object.Boolean:
				if arg.Value {
					return &object.Number{Value: 1}
				}
				return &object.Number{Value: 0}
			case *object.Null:
				return &object.Number{Value: 0}
			case *object.String:
				trimmed := strings.TrimSpace(arg.Value)
				if trimmed == "" {
					return &object.Number{Value: 0}
				}
				v, err := strconv.ParseFloat(trimmed, 64)
				if err != nil {
					return errorf("Number: cannot convert %q", arg.Value)
				}
				return &object.Number{Value: v}
			default:
				return errorf("Number: cannot convert %s", args[0].Type())
			}
		},
	}
}

func builtinString() *object.Builtin {
	return &object.Builtin{
		Name: "String",
		Fn: func(args ...object.Object) object.Object {
			if len(args) != 1 {
				return typeErrorf("String: wrong number of arguments, got %d, want 1", len(args))
			}
			return &object.String{Value: args[0].Inspect()}
		},
	}
}
