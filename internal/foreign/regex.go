package foreign

import (
	"regexp"
	"strings"

	"mscript/internal/object"
)

// regex(input, pattern) and regex(input, pattern, flags) where flags is a
// string of i, m and s characters. The result is an array of all matches.
func builtinRegex() *object.Builtin {
	return &object.Builtin{
		Name: "regex",
		Fn: func(args ...object.Object) object.Object {
			input, err := unpackString("regex", args, 0)
			if err != nil {
				return err
			}
			pattern, err := unpackString("regex", args, 1)
			if err != nil {
				return err
			}

			if len(args) > 2 {
				flags, err := unpackString("regex", args, 2)
				if err != nil {
					return err
				}
				prefix, flagErr := regexFlagPrefix(flags)
				if flagErr != nil {
					return flagErr
				}
				pattern = prefix + pattern
			}

			re, compileErr := regexp.Compile(pattern)
			if compileErr != nil {
				return errorf("regex: invalid pattern: %v", compileErr)
			}

			matches := re.FindAllString(input, -1)
			elements := make([]object.Object, len(matches))
			for i, match := range matches {
				elements[i] = &object.String{Value: match}
			}
			return &object.Array{Elements: elements}
		},
	}
}

func regexFlagPrefix(flags string) (string, *object.Error) {
	if flags == "" {
		return "", nil
	}
	var sb strings.Builder
	for _, flag := range flags {
		switch flag {
		case 'i', 'm', 's':
			sb.WriteRune(flag)
		default:
			return "", errorf("regex: unknown flag %q", string(flag))
		}
	}
	return "(?" + sb.String() + ")", nil
}
