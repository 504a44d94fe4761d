package foreign

import (
	"os"

	"mscript/internal/object"
)

func builtinRead() *object.Builtin {
	return &object.Builtin{
		Name: "read",
		Fn: func(args ...object.Object) object.Object {
			path, err := unpackString("read", args, 0)
			if err != nil {
				return err
			}
			data, ioErr := os.ReadFile(path)
			if ioErr != nil {
				return errorf("read: %v", ioErr)
			}
			return &object.String{Value: string(data)}
		},
	}
}

func builtinWrite() *object.Builtin {
	return &object.Builtin{
		Name: "write",
		Fn: func(args ...object.Object) object.Object {
			path, err := unpackString("write", args, 0)
			if err != nil {
				return err
			}
			content, err := unpackString("write", args, 1)
			if err != nil {
				return err
			}
			if ioErr := os.WriteFile(path, []byte(content), 0o644); ioErr != nil {
				return errorf("write: %v", ioErr)
			}
			return object.TRUE
		},
	}
}

func builtinAppend() *object.Builtin {
	return &object.Builtin{
		Name: "append",
		Fn: func(args ...object.Object) object.Object {
			path, err := unpackString("append", args, 0)
			if err != nil {
				return err
			}
			content, err := unpackString("append", args, 1)
			if err != nil {
				return err
			}
			f, ioErr := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
			if ioErr != nil {
				return errorf("append: %v", ioErr)
			}
			defer f.Close()
			if _, ioErr := f.WriteString(content); ioErr != nil {
				return errorf("append: %v", ioErr)
			}
			return object.TRUE
		},
	}
}

func builtinExists() *object.Builtin {
	return &object.Builtin{
		Name: "exists",
		Fn: func(args ...object.Object) object.Object {
			path, err := unpackString("exists", args, 0)
			if err != nil {
				return err
			}
			if _, statErr := os.Stat(path); statErr != nil {
				return object.FALSE
			}
			return object.TRUE
		},
	}
}

func builtinReaddir() *object.Builtin {
	return &object.Builtin{
		Name: "readdir",
		Fn: func(args ...object.Object) object.Object {
			path, err := unpackString("readdir", args, 0)
			if err != nil {
				return err
			}
			entries, ioErr := os.ReadDir(path)
			if ioErr != nil {
				return errorf("readdir: %v", ioErr)
			}
			names := make([]object.Object, len(entries))
			for i, entry := range entries {
				names[i] = &object.String{Value: entry.Name()}
			}
			return &object.Array{Elements: names}
		},
	}
}
