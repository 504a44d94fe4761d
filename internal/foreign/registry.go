package foreign

import (
	"mscript/internal/object"
)

// Registry returns a fresh map of every builtin capability the evaluator
// injects into the global scope. Namespaces such as JSON and db are plain
// objects whose members are builtins, so scripts reach them through the
// usual method call path.
func Registry() map[string]object.Object {
	return map[string]object.Object{
		"print":   builtinPrint(),
		"len":     builtinLen(),
		"Number":  builtinNumber(),
		"String":  builtinString(),
		"read":    builtinRead(),
		"write":   builtinWrite(),
		"append":  builtinAppend(),
		"exists":  builtinExists(),
		"readdir": builtinReaddir(),
		"get":     builtinGet(),
		"regex":   builtinRegex(),
		"JSON":    jsonNamespace(),
		"db":      dbNamespace(),
	}
}
