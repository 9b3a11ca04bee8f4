package ir

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// MarshalCanonical produces the canonical JSON form of a term.
//
// The shape mirrors FromValue:
//
//	atom      "a"
//	variable  {"var":"X"}
//	compound  {"args":[...],"functor":"f"}
//
// Keys are emitted in sorted order, strings are NFC-normalized, and only
// quote, backslash and control characters are escaped (no HTML escaping).
func MarshalCanonical(t Term) ([]byte, error) {
	var buf bytes.Buffer
	if err := marshalTerm(&buf, t); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalBindings produces canonical JSON for a variable-to-term map, keys
// sorted by name.
func MarshalBindings(bindings map[string]Term) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range sortedKeys(bindings) {
		if i > 0 {
			buf.WriteByte(',')
		}
		writeCanonicalString(&buf, name)
		buf.WriteByte(':')
		if err := marshalTerm(&buf, bindings[name]); err != nil {
			return nil, fmt.Errorf("binding %q: %w", name, err)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func marshalTerm(buf *bytes.Buffer, t Term) error {
	switch t := t.(type) {
	case Var:
		buf.WriteString(`{"var":`)
		writeCanonicalString(buf, t.Name)
		buf.WriteByte('}')
	case Compound:
		if len(t.Args) == 0 {
			writeCanonicalString(buf, t.Functor)
			return nil
		}
		buf.WriteString(`{"args":[`)
		for i, arg := range t.Args {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := marshalTerm(buf, arg); err != nil {
				return fmt.Errorf("%s.args[%d]: %w", t.Functor, i, err)
			}
		}
		buf.WriteString(`],"functor":`)
		writeCanonicalString(buf, t.Functor)
		buf.WriteByte('}')
	case nil:
		return fmt.Errorf("nil term")
	default:
		return fmt.Errorf("unsupported term type: %T", t)
	}
	return nil
}

const hexDigits = "0123456789abcdef"

// writeCanonicalString writes s as a JSON string after NFC normalization.
func writeCanonicalString(buf *bytes.Buffer, s string) {
	s = norm.NFC.String(s)
	buf.WriteByte('"')
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		switch {
		case r == '"':
			buf.WriteString(`\"`)
		case r == '\\':
			buf.WriteString(`\\`)
		case r == '\n':
			buf.WriteString(`\n`)
		case r == '\r':
			buf.WriteString(`\r`)
		case r == '\t':
			buf.WriteString(`\t`)
		case r < 0x20:
			buf.WriteString(`\u00`)
			buf.WriteByte(hexDigits[r>>4])
			buf.WriteByte(hexDigits[r&0xf])
		default:
			buf.WriteString(s[i : i+size])
		}
		i += size
	}
	buf.WriteByte('"')
}
