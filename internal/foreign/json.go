package foreign

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"mscript/internal/object"
)

// jsonNamespace builds the JSON object with its parse and stringify
// members. Parsing goes through the decoder token stream rather than
// unmarshalling into a Go map so that object keys keep their document
// order.
func jsonNamespace() *object.Map {
	ns := object.NewMap()
	ns.Set("parse", &object.Builtin{
		Name: "JSON.parse",
		Fn: func(args ...object.Object) object.Object {
			text, err := unpackString("JSON.parse", args, 0)
			if err != nil {
				return err
			}
			dec := json.NewDecoder(strings.NewReader(text))
			dec.UseNumber()
			value, parseErr := decodeJSONValue(dec)
			if parseErr != nil {
				return errorf("JSON.parse: %v", parseErr)
			}
			// trailing garbage after the document is an error
			if _, trailErr := dec.Token(); trailErr == nil {
				return errorf("JSON.parse: unexpected data after document")
			}
			return value
		},
	})
	ns.Set("stringify", &object.Builtin{
		Name: "JSON.stringify",
		Fn: func(args ...object.Object) object.Object {
			if len(args) < 1 {
				return typeErrorf("JSON.stringify: missing argument 1")
			}
			indent := ""
			if len(args) > 1 {
				n, err := unpackNumber("JSON.stringify", args, 1)
				if err != nil {
					return err
				}
				indent = strings.Repeat(" ", int(n))
			}
			var buf bytes.Buffer
			if err := encodeJSONValue(&buf, args[0], indent, ""); err != nil {
				return err
			}
			return &object.String{Value: buf.String()}
		},
	})
	return ns
}

func decodeJSONValue(dec *json.Decoder) (object.Object, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	return decodeJSONToken(dec, tok)
}

func decodeJSONToken(dec *json.Decoder, tok json.Token) (object.Object, error) {
	switch tok := tok.(type) {
	case json.Delim:
		switch tok {
		case '{':
			m := object.NewMap()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("expected object key, got %v", keyTok)
				}
				value, err := decodeJSONValue(dec)
				if err != nil {
					return nil, err
				}
				m.Set(key, value)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return m, nil
		case '[':
			arr := &object.Array{}
			for dec.More() {
				value, err := decodeJSONValue(dec)
				if err != nil {
					return nil, err
				}
				arr.Elements = append(arr.Elements, value)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return arr, nil
		}
		return nil, fmt.Errorf("unexpected delimiter %v", tok)
	case string:
		return &object.String{Value: tok}, nil
	case json.Number:
		v, err := tok.Float64()
		if err != nil {
			return nil, err
		}
		return &object.Number{Value: v}, nil
	case bool:
		if tok {
			return object.TRUE, nil
		}
		return object.FALSE, nil
	case nil:
		return object.NULL, nil
	}
	return nil, fmt.Errorf("unexpected token %v", tok)
}

func encodeJSONValue(buf *bytes.Buffer, value object.Object, indent, prefix string) *object.Error {
	switch value := value.(type) {
	case *object.Null:
		buf.WriteString("null")
	case *object.Boolean:
		buf.WriteString(strconv.FormatBool(value.Value))
	case *object.Number:
		buf.WriteString(strconv.FormatFloat(value.Value, 'f', -1, 64))
	case *object.String:
		encoded, err := json.Marshal(value.Value)
		if err != nil {
			return errorf("JSON.stringify: %v", err)
		}
		buf.Write(encoded)
	case *object.Array:
		if len(value.Elements) == 0 {
			buf.WriteString("[]")
			return nil
		}
		inner := prefix + indent
		buf.WriteByte('[')
		for i, element := range value.Elements {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeNewlineIndent(buf, indent, inner)
			if err := encodeJSONValue(buf, element, indent, inner); err != nil {
				return err
			}
		}
		writeNewlineIndent(buf, indent, prefix)
		buf.WriteByte(']')
	case *object.Map:
		if len(value.Keys) == 0 {
			buf.WriteString("{}")
			return nil
		}
		inner := prefix + indent
		buf.WriteByte('{')
		for i, key := range value.Keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeNewlineIndent(buf, indent, inner)
			encoded, err := json.Marshal(key)
			if err != nil {
				return errorf("JSON.stringify: %v", err)
			}
			buf.Write(encoded)
			buf.WriteByte(':')
			if indent != "" {
				buf.WriteByte(' ')
			}
			if err := encodeJSONValue(buf, value.Pairs[key], indent, inner); err != nil {
				return err
			}
		}
		writeNewlineIndent(buf, indent, prefix)
		buf.WriteByte('}')
	default:
		return errorf("JSON.stringify: cannot serialize %s", value.Type())
	}
	return nil
}

func writeNewlineIndent(buf *bytes.Buffer, indent, prefix string) {
	if indent == "" {
		return
	}
	buf.WriteByte('\n')
	buf.WriteString(prefix)
}
