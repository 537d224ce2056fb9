package fingerprint

import (
	"bytes"
	"fmt"
	"slices"
	"unicode/utf16"

	"golang.org/x/text/unicode/norm"
)

// Value is the closed set of shapes that may appear in canonical JSON.
// Floats and null are excluded by construction, so a Value can always be
// marshaled.
type Value interface {
	canonicalValue()
}

type Str string
type Int int64
type Bool bool
type Arr []Value
type Obj map[string]Value

func (Str) canonicalValue()  {}
func (Int) canonicalValue()  {}
func (Bool) canonicalValue() {}
func (Arr) canonicalValue()  {}
func (Obj) canonicalValue()  {}

// MarshalCanonical produces RFC 8785 canonical JSON.
// CRITICAL: this is the ONLY serialization that may feed identity hashes.
//
// Key differences from standard json.Marshal:
//  1. Object keys sorted by UTF-16 code units (not UTF-8 bytes)
//  2. No HTML escaping (< > & are NOT escaped)
//  3. Strings are NFC normalized
//  4. No floats, no null (excluded by the Value type)
func MarshalCanonical(v Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := marshalCanonical(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func marshalCanonical(buf *bytes.Buffer, v Value) error {
	switch val := v.(type) {
	case nil:
		return fmt.Errorf("null is forbidden in canonical JSON")
	case Str:
		marshalCanonicalString(buf, string(val))
		return nil
	case Int:
		fmt.Fprintf(buf, "%d", int64(val))
		return nil
	case Bool:
		if val {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
		return nil
	case Arr:
		buf.WriteByte('[')
		for i, elem := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := marshalCanonical(buf, elem); err != nil {
				return fmt.Errorf("array[%d]: %w", i, err)
			}
		}
		buf.WriteByte(']')
		return nil
	case Obj:
		buf.WriteByte('{')
		for i, k := range val.SortedKeys() {
			if i > 0 {
				buf.WriteByte(',')
			}
			marshalCanonicalString(buf, k)
			buf.WriteByte(':')
			if err := marshalCanonical(buf, val[k]); err != nil {
				return fmt.Errorf("value for key %q: %w", k, err)
			}
		}
		buf.WriteByte('}')
		return nil
	default:
		return fmt.Errorf("unsupported type for canonical JSON: %T", v)
	}
}

// marshalCanonicalString writes the canonical JSON form of a string.
// CRITICAL: RFC 8785 compliance:
//   - strings are NFC normalized at the serialization boundary
//   - no HTML escaping (<, >, & are written literally)
//   - U+2028 and U+2029 are written literally
//   - only control characters (U+0000-U+001F), backslash, and quote
//     are escaped, using the shortest form
func marshalCanonicalString(buf *bytes.Buffer, s string) {
	normalized := norm.NFC.String(s)
	buf.WriteByte('"')
	for _, r := range normalized {
		switch r {
		case '"':
			buf.WriteString(`\"`)
		case '\\':
			buf.WriteString(`\\`)
		case '\b':
			buf.WriteString(`\b`)
		case '\f':
			buf.WriteString(`\f`)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		case '\t':
			buf.WriteString(`\t`)
		default:
			if r < 0x20 {
				fmt.Fprintf(buf, `\u%04x`, r)
			} else {
				buf.WriteRune(r)
			}
		}
	}
	buf.WriteByte('"')
}

// SortedKeys returns keys in RFC 8785 canonical order (UTF-16 code units).
// CRITICAL: Go's sort.Strings orders by UTF-8 bytes, which differs for
// characters outside the basic multilingual plane.
func (obj Obj) SortedKeys() []string {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareKeysRFC8785)
	return keys
}

// compareKeysRFC8785 compares strings by UTF-16 code units. Surrogate
// pairs make supplementary-plane characters sort BEFORE U+E000..U+FFFF,
// the opposite of byte order.
func compareKeysRFC8785(a, b string) int {
	a16 := utf16.Encode([]rune(a))
	b16 := utf16.Encode([]rune(b))

	minLen := min(len(a16), len(b16))
	for i := 0; i < minLen; i++ {
		if a16[i] != b16[i] {
			if a16[i] < b16[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(a16) < len(b16):
		return -1
	case len(a16) > len(b16):
		return 1
	default:
		return 0
	}
}
