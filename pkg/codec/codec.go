// Package codec implements the flat, JSON-like text format used for record files
// and for the aggregate snapshot.
//
// The format is a closed grammar: one brace-delimited object of "key": value
// pairs, where a value is either a double-quoted text or a base-10 integer.
// There is no nesting and no escaping. Text containing '"', ',' or ':' will not
// survive a round trip; callers are responsible for keeping such characters out
// of stored values.
package codec

import (
	"errors"
	"fmt"
	"strings"
)

// Indent is the per-level indentation used by Encode and EncodeList.
const Indent = "    "

var (
	// ErrMalformedRecord is returned when text cannot be parsed into a flat mapping.
	ErrMalformedRecord = errors.New("malformed record")

	// ErrInvalidInteger is returned when an unquoted value is not a base-10 integer.
	// Errors carrying it also match ErrMalformedRecord.
	ErrInvalidInteger = errors.New("invalid integer")

	// ErrUnsafeText is returned by Validate for keys or text values that would
	// not survive a round trip.
	ErrUnsafeText = errors.New("text cannot be stored")
)

// UnsafeValueChars are the characters a text value may not contain.
const UnsafeValueChars = `",`

// unsafeKeyChars are the characters a key may not contain.
const unsafeKeyChars = `",:`

// Field is a single named value of a record.
type Field struct {
	Key   string
	Value any
}

// Fields is an ordered mapping of field names to values.
// Order is preserved on encode; decode returns an unordered map.
type Fields []Field

// Get returns the value stored under key.
func (f Fields) Get(key string) (any, bool) {
	for _, field := range f {
		if field.Key == key {
			return field.Value, true
		}
	}
	return nil, false
}

// Map converts the ordered fields into a map. Later duplicates win.
func (f Fields) Map() map[string]any {
	m := make(map[string]any, len(f))
	for _, field := range f {
		m[field.Key] = field.Value
	}
	return m
}

// CheckText reports ErrUnsafeText when s contains a character listed in
// UnsafeValueChars.
func CheckText(s string) error {
	if i := strings.IndexAny(s, UnsafeValueChars); i >= 0 {
		return fmt.Errorf("%w: %q contains %q", ErrUnsafeText, s, s[i])
	}
	return nil
}

// Validate reports whether Decode(Encode(fields)) would reproduce fields.
// Keys must be non-empty and free of '"', ',' and ':'. Values must be string
// or an integer type; strings must pass CheckText.
func Validate(fields Fields) error {
	for _, field := range fields {
		if field.Key == "" || strings.ContainsAny(field.Key, unsafeKeyChars) || strings.TrimSpace(field.Key) != field.Key {
			return fmt.Errorf("%w: key %q", ErrUnsafeText, field.Key)
		}
		switch v := field.Value.(type) {
		case string:
			if err := CheckText(v); err != nil {
				return fmt.Errorf("field %q: %w", field.Key, err)
			}
		case int, int8, int16, int32, int64, uint8, uint16, uint32:
		default:
			return fmt.Errorf("%w: field %q has unsupported value %v (%T)", ErrUnsafeText, field.Key, v, v)
		}
	}
	return nil
}

// Encode renders fields as a brace-delimited object, one pair per line:
//
//	{
//	    "id": 1,
//	    "content": "text"
//	}
//
// Text values are wrapped in double quotes verbatim. Encode does not check its
// input; run Validate first when the fields come from user text.
func Encode(fields Fields) string {
	lines := make([]string, 0, len(fields))
	for _, field := range fields {
		lines = append(lines, fmt.Sprintf("%s\"%s\": %s", Indent, field.Key, formatValue(field.Value)))
	}
	return "{\n" + strings.Join(lines, ",\n") + "\n}"
}

// EncodeList renders several objects as a bracketed, comma-separated array,
// indenting every line of every object by one level.
func EncodeList(items []Fields) string {
	objs := make([]string, 0, len(items))
	for _, item := range items {
		objs = append(objs, indentLines(Encode(item), Indent))
	}
	return "[\n" + strings.Join(objs, ",\n") + "\n]"
}

// Decode parses the text of a single object into a map.
// Quoted values decode as string, unquoted values as int64.
func Decode(text string) (map[string]any, error) {
	tokens, err := Lex(text)
	if err != nil {
		return nil, err
	}
	return parse(tokens)
}

func parse(tokens []Token) (map[string]any, error) {
	out := make(map[string]any)
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		if tok.Kind == TokenComma {
			continue
		}
		if tok.Kind != TokenKey || i+2 >= len(tokens) ||
			tokens[i+1].Kind != TokenColon || tokens[i+2].Kind != TokenValue {
			return nil, fmt.Errorf("%w: unexpected %s token %q", ErrMalformedRecord, tok.Kind, tok.Text)
		}

		val, err := tokens[i+2].value()
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", tok.Text, err)
		}
		out[tok.Text] = val
		i += 2
	}
	return out, nil
}

func formatValue(v any) string {
	switch val := v.(type) {
	case string:
		return `"` + val + `"`
	default:
		return fmt.Sprint(val)
	}
}

func indentLines(s, indent string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = indent + line
	}
	return strings.Join(lines, "\n")
}

// removeSurrounding strips delim from both ends of s only when it is present at both ends.
func removeSurrounding(s, delim string) string {
	if len(s) >= 2*len(delim) && strings.HasPrefix(s, delim) && strings.HasSuffix(s, delim) {
		return s[len(delim) : len(s)-len(delim)]
	}
	return s
}
