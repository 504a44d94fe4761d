package foreign

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mscript/internal/object"
)

func str(s string) *object.String  { return &object.String{Value: s} }
func num(v float64) *object.Number { return &object.Number{Value: v} }
func call(b *object.Builtin, args ...object.Object) object.Object {
	return b.Fn(args...)
}

func expectErrorContains(t *testing.T, result object.Object, fragment string) {
	t.Helper()
	err, ok := result.(*object.Error)
	if !ok {
		t.Fatalf("expected Error, got %T (%s)", result, result.Inspect())
	}
	if !strings.Contains(err.Message, fragment) {
		t.Errorf("expected message containing %q, got %q", fragment, err.Message)
	}
}

func TestRegistryCoversAllCapabilities(t *testing.T) {
	reg := Registry()
	names := []string{
		"print", "len", "Number", "String",
		"read", "write", "append", "exists", "readdir",
		"get", "regex", "JSON", "db",
	}
	for _, name := range names {
		if _, ok := reg[name]; !ok {
			t.Errorf("registry is missing %s", name)
		}
	}
}

func TestPrint(t *testing.T) {
	var buf bytes.Buffer
	old := Stdout
	Stdout = &buf
	defer func() { Stdout = old }()

	result := call(builtinPrint(), str("hello"), num(42), object.TRUE)
	if result != object.NULL {
		t.Errorf("print should return null, got %s", result.Inspect())
	}
	if got := buf.String(); got != "hello 42 true\n" {
		t.Errorf("unexpected output %q", got)
	}
}

func TestLen(t *testing.T) {
	cases := []struct {
		name     string
		arg      object.Object
		expected float64
	}{
		{"string", str("abc"), 3},
		{"array", &object.Array{Elements: []object.Object{num(1), num(2)}}, 2},
		{"object", object.NewMap().Set("a", num(1)), 1},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			result := call(builtinLen(), c.arg)
			n, ok := result.(*object.Number)
			if !ok {
				t.Fatalf("expected Number, got %T", result)
			}
			if n.Value != c.expected {
				t.Errorf("expected %v, got %v", c.expected, n.Value)
			}
		})
	}

	expectErrorContains(t, call(builtinLen(), num(5)), "unsupported")
}

func TestNumberConversion(t *testing.T) {
	cases := []struct {
		name     string
		arg      object.Object
		expected float64
	}{
		{"numeric string", str("42"), 42},
		{"float string", str(" 2.5 "), 2.5},
		{"empty string", str(""), 0},
		{"true", object.TRUE, 1},
		{"false", object.FALSE, 0},
		{"null", object.NULL, 0},
		{"number passthrough", num(7), 7},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			result := call(builtinNumber(), c.arg)
			n, ok := result.(*object.Number)
			if !ok {
				t.Fatalf("expected Number, got %T (%s)", result, result.Inspect())
			}
			if n.Value != c.expected {
				t.Errorf("expected %v, got %v", c.expected, n.Value)
			}
		})
	}

	expectErrorContains(t, call(builtinNumber(), str("nope")), "cannot convert")
}

func TestStringConversion(t *testing.T) {
	cases := []struct {
		name     string
		arg      object.Object
		expected string
	}{
		{"integral number", num(3), "3"},
		{"fractional number", num(2.5), "2.5"},
		{"boolean", object.TRUE, "true"},
		{"null", object.NULL, "null"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			result := call(builtinString(), c.arg)
			s, ok := result.(*object.String)
			if !ok {
				t.Fatalf("expected String, got %T", result)
			}
			if s.Value != c.expected {
				t.Errorf("expected %q, got %q", c.expected, s.Value)
			}
		})
	}
}

func TestFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.txt")

	if result := call(builtinWrite(), str(path), str("one\n")); result != object.TRUE {
		t.Fatalf("write should return true, got %s", result.Inspect())
	}
	if result := call(builtinAppend(), str(path), str("two\n")); result != object.TRUE {
		t.Fatalf("append should return true, got %s", result.Inspect())
	}

	result := call(builtinRead(), str(path))
	s, ok := result.(*object.String)
	if !ok {
		t.Fatalf("read failed: %s", result.Inspect())
	}
	if s.Value != "one\ntwo\n" {
		t.Errorf("unexpected content %q", s.Value)
	}
}

func TestWriteAndAppendReturnBooleans(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "flag.txt")

	result := call(builtinWrite(), str(path), str("x"))
	b, ok := result.(*object.Boolean)
	if !ok {
		t.Fatalf("write returned %T (%s), want Boolean", result, result.Inspect())
	}
	if !b.Value {
		t.Error("write should return true on success")
	}

	result = call(builtinAppend(), str(path), str("y"))
	b, ok = result.(*object.Boolean)
	if !ok {
		t.Fatalf("append returned %T (%s), want Boolean", result, result.Inspect())
	}
	if !b.Value {
		t.Error("append should return true on success")
	}

	// a failed write surfaces as a catchable runtime error
	expectErrorContains(t, call(builtinWrite(), str(filepath.Join(dir, "no", "such", "dir")), str("x")), "write")
}

func TestExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "present")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	if result := call(builtinExists(), str(path)); result != object.TRUE {
		t.Errorf("expected true for existing file, got %s", result.Inspect())
	}
	if result := call(builtinExists(), str(filepath.Join(dir, "absent"))); result != object.FALSE {
		t.Errorf("expected false for missing file, got %s", result.Inspect())
	}
}

func TestReaddir(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.txt", "b.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	result := call(builtinReaddir(), str(dir))
	arr, ok := result.(*object.Array)
	if !ok {
		t.Fatalf("expected Array, got %s", result.Inspect())
	}
	if len(arr.Elements) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(arr.Elements))
	}
}

func TestReadMissingFile(t *testing.T) {
	result := call(builtinRead(), str(filepath.Join(t.TempDir(), "missing")))
	expectErrorContains(t, result, "read")
}

func TestHTTPGet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Token") != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("payload"))
	}))
	defer srv.Close()

	options := object.NewMap()
	options.Set("headers", object.NewMap().Set("X-Token", str("secret")))

	result := call(builtinGet(), str(srv.URL), options)
	resp, ok := result.(*object.Map)
	if !ok {
		t.Fatalf("expected Map, got %s", result.Inspect())
	}

	code, _ := resp.Get("code")
	if code.(*object.Number).Value != 200 {
		t.Errorf("expected 200, got %s", code.Inspect())
	}
	body, _ := resp.Get("body")
	if body.(*object.String).Value != "payload" {
		t.Errorf("unexpected body %q", body.Inspect())
	}
	headers, _ := resp.Get("headers")
	ct, ok := headers.(*object.Map).Get("Content-Type")
	if !ok || !strings.Contains(ct.Inspect(), "text/plain") {
		t.Errorf("unexpected content type %v", ct)
	}

	// without the header the server rejects us, but the call still succeeds
	result = call(builtinGet(), str(srv.URL))
	resp = result.(*object.Map)
	code, _ = resp.Get("code")
	if code.(*object.Number).Value != 401 {
		t.Errorf("expected 401, got %s", code.Inspect())
	}
}

func TestHTTPGetConnectionError(t *testing.T) {
	result := call(builtinGet(), str("http://127.0.0.1:0/"))
	if _, ok := result.(*object.Error); !ok {
		t.Fatalf("expected Error, got %s", result.Inspect())
	}
}

func TestRegex(t *testing.T) {
	result := call(builtinRegex(), str("a1 b22 c333"), str(`[0-9]+`))
	arr, ok := result.(*object.Array)
	if !ok {
		t.Fatalf("expected Array, got %s", result.Inspect())
	}
	want := []string{"1", "22", "333"}
	if len(arr.Elements) != len(want) {
		t.Fatalf("expected %d matches, got %d", len(want), len(arr.Elements))
	}
	for i, w := range want {
		if arr.Elements[i].Inspect() != w {
			t.Errorf("match %d: expected %q, got %q", i, w, arr.Elements[i].Inspect())
		}
	}
}

func TestRegexFlags(t *testing.T) {
	result := call(builtinRegex(), str("Cat cat CAT"), str("cat"), str("i"))
	arr := result.(*object.Array)
	if len(arr.Elements) != 3 {
		t.Errorf("case-insensitive match should find 3, got %d", len(arr.Elements))
	}

	expectErrorContains(t, call(builtinRegex(), str("x"), str("x"), str("g")), "unknown flag")
	expectErrorContains(t, call(builtinRegex(), str("x"), str("[")), "invalid pattern")
}

func TestJSONParse(t *testing.T) {
	ns := jsonNamespace()
	parse, _ := ns.Get("parse")

	result := call(parse.(*object.Builtin), str(`{"z": 1, "a": [true, null, "s"], "n": 2.5}`))
	m, ok := result.(*object.Map)
	if !ok {
		t.Fatalf("expected Map, got %s", result.Inspect())
	}

	// document order survives parsing
	want := []string{"z", "a", "n"}
	for i, key := range want {
		if m.Keys[i] != key {
			t.Errorf("key %d: expected %s, got %s", i, key, m.Keys[i])
		}
	}

	arr, _ := m.Get("a")
	elements := arr.(*object.Array).Elements
	if elements[0] != object.TRUE || elements[1] != object.NULL {
		t.Errorf("unexpected array values %s", arr.Inspect())
	}

	expectErrorContains(t, call(parse.(*object.Builtin), str(`{"bad"`)), "JSON.parse")
	expectErrorContains(t, call(parse.(*object.Builtin), str(`1 2`)), "unexpected data")
}

func TestJSONStringify(t *testing.T) {
	ns := jsonNamespace()
	stringify, _ := ns.Get("stringify")

	value := object.NewMap().
		Set("b", num(1)).
		Set("a", &object.Array{Elements: []object.Object{str("x"), object.NULL}})

	result := call(stringify.(*object.Builtin), value)
	s, ok := result.(*object.String)
	if !ok {
		t.Fatalf("expected String, got %s", result.Inspect())
	}
	if s.Value != `{"b":1,"a":["x",null]}` {
		t.Errorf("unexpected output %s", s.Value)
	}

	// indented form
	result = call(stringify.(*object.Builtin), object.NewMap().Set("a", num(1)), num(2))
	s = result.(*object.String)
	want := "{\n  \"a\": 1\n}"
	if s.Value != want {
		t.Errorf("expected %q, got %q", want, s.Value)
	}
}

func TestJSONRoundTripKeepsOrder(t *testing.T) {
	ns := jsonNamespace()
	parse, _ := ns.Get("parse")
	stringify, _ := ns.Get("stringify")

	doc := `{"one":1,"two":{"nested":true},"three":[1,2]}`
	parsed := call(parse.(*object.Builtin), str(doc))
	rendered := call(stringify.(*object.Builtin), parsed)
	if rendered.(*object.String).Value != doc {
		t.Errorf("round trip changed the document: %s", rendered.Inspect())
	}
}

func TestDBInvalidHandle(t *testing.T) {
	ns := dbNamespace()
	query, _ := ns.Get("query")
	expectErrorContains(t, call(query.(*object.Builtin), num(999), str("select 1")), "invalid connection handle")

	exec, _ := ns.Get("exec")
	expectErrorContains(t, call(exec.(*object.Builtin), num(999), str("select 1")), "invalid connection handle")

	// closing an unknown handle is a no-op
	closeFn, _ := ns.Get("close")
	if result := call(closeFn.(*object.Builtin), num(999)); result != object.NULL {
		t.Errorf("close should return null, got %s", result.Inspect())
	}
}

func TestDBOpenUnknownDriver(t *testing.T) {
	ns := dbNamespace()
	open, _ := ns.Get("open")
	expectErrorContains(t, call(open.(*object.Builtin), str("no-such-driver"), str("dsn")), "db.open")
}
