package interp

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mscript/internal/object"
)

func TestRunSource(t *testing.T) {
	result, err := RunSource(`m{
	main() {
		total = 0;
		for (v of [1, 2, 3, 4]) {
			total += v;
		}
		return total;
	}
}`)
	if err != nil {
		t.Fatal(err)
	}
	if result.Inspect() != "10" {
		t.Errorf("expected 10, got %s", result.Inspect())
	}
}

func TestRunSourceParseError(t *testing.T) {
	_, err := RunSource("m{ main() { x = } }")
	if err == nil {
		t.Fatal("expected a parse error")
	}
	if !strings.Contains(err.Error(), "parse error") {
		t.Errorf("unexpected error %v", err)
	}
}

func TestRunSourceRuntimeError(t *testing.T) {
	_, err := RunSource("m{ main() { return boom; } }")
	if err == nil {
		t.Fatal("expected a runtime error")
	}
	if !strings.Contains(err.Error(), "UndefinedVariable") {
		t.Errorf("error should carry the kind, got %v", err)
	}
}

func TestRunSourceWithCustomRegistry(t *testing.T) {
	var lines []string
	builtins := map[string]object.Object{
		"print": &object.Builtin{
			Name: "print",
			Fn: func(args ...object.Object) object.Object {
				parts := make([]string, len(args))
				for i, arg := range args {
					parts[i] = arg.Inspect()
				}
				lines = append(lines, strings.Join(parts, " "))
				return object.NULL
			},
		},
	}

	_, err := RunSourceWith(`m{
	main() {
		print("hello", 1 + 1);
		return 0;
	}
}`, builtins)
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != 1 || lines[0] != "hello 2" {
		t.Errorf("unexpected captured output %v", lines)
	}
}

func TestRunFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "script.ms")
	src := `m{
	main() {
		return "from file";
	}
}`
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	result, err := RunFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if result.Inspect() != "from file" {
		t.Errorf("unexpected result %s", result.Inspect())
	}
}

func TestRunFileMissing(t *testing.T) {
	_, err := RunFile(filepath.Join(t.TempDir(), "absent.ms"))
	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestWriteResultDrivesConditionals(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")

	result, err := RunSource(`m{
	main() {
		if (write("` + path + `", "data")) {
			if (append("` + path + `", "!")) {
				return read("` + path + `");
			}
		}
		return "not written";
	}
}`)
	if err != nil {
		t.Fatal(err)
	}
	if result.Inspect() != "data!" {
		t.Errorf("expected the written content, got %s", result.Inspect())
	}
}

func TestScriptsCanUseTheStandardRegistry(t *testing.T) {
	dir := t.TempDir()
	dataPath := filepath.Join(dir, "data.json")

	result, err := RunSource(`m{
	main() {
		doc = JSON.parse("{\"count\": 2}");
		write("` + dataPath + `", JSON.stringify(doc));
		if (exists("` + dataPath + `")) {
			return doc.count + len(readdir("` + dir + `"));
		}
		return -1;
	}
}`)
	if err != nil {
		t.Fatal(err)
	}
	if result.Inspect() != "3" {
		t.Errorf("expected 3, got %s", result.Inspect())
	}
}
