package toml

import (
	"bytes"
	"encoding"
	"errors"
	"fmt"
	"math"
	"reflect"
	"slices"
	"strconv"
	"strings"
)

// Marshal returns the TOML encoding of v
//
// The root must be a struct or a map with string keys
//   - Struct fields keep declaration order; map keys are sorted
//   - Tags take a key name plus the options omitempty and inline
//   - inline writes a struct as { k = v } and a slice of structs as an array of
//     inline tables instead of [[header]] sections
//   - encoding.TextMarshaler values are written as strings
//   - Nil pointers and unexported fields are skipped
//   - Comments, dates, NaN and infinities are not supported
func Marshal(v any) ([]byte, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, errors.New("marshal: cannot marshal nil pointer")
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct && rv.Kind() != reflect.Map {
		return nil, fmt.Errorf("marshal: root must be struct or map, got %v", rv.Kind())
	}

	var e encoder
	if err := e.table(rv, nil); err != nil {
		return nil, err
	}
	return e.buf.Bytes(), nil
}

type encoder struct {
	buf bytes.Buffer
}

// member is one key of a table about to be written
type member struct {
	key    string
	value  reflect.Value
	inline bool
}

var textMarshalerType = reflect.TypeFor[encoding.TextMarshaler]()

// table writes a table body: plain keys first, then sub-tables and arrays of tables,
// since a key after a [header] would land in that header's table
func (e *encoder) table(rv reflect.Value, path []string) error {
	ms, err := members(rv)
	if err != nil {
		return err
	}

	var nested []member
	for _, m := range ms {
		if !m.inline && isTable(m.value) {
			nested = append(nested, m)
			continue
		}
		if err := e.keyValue(m); err != nil {
			return err
		}
		e.buf.WriteByte('\n')
	}

	for _, m := range nested {
		sub := append(slices.Clip(path), m.key)
		if k := m.value.Kind(); k == reflect.Struct || k == reflect.Map {
			e.header(sub, false)
			if err := e.table(m.value, sub); err != nil {
				return err
			}
			continue
		}
		for i := 0; i < m.value.Len(); i++ {
			elem := indirect(m.value.Index(i))
			if !elem.IsValid() {
				continue
			}
			e.header(sub, true)
			if err := e.table(elem, sub); err != nil {
				return err
			}
		}
	}
	return nil
}

func (e *encoder) header(path []string, array bool) {
	if array {
		e.buf.WriteString("\n[[")
	} else {
		e.buf.WriteString("\n[")
	}
	for i, k := range path {
		if i > 0 {
			e.buf.WriteByte('.')
		}
		e.key(k)
	}
	if array {
		e.buf.WriteString("]]\n")
	} else {
		e.buf.WriteString("]\n")
	}
}

func (e *encoder) keyValue(m member) error {
	e.key(m.key)
	e.buf.WriteString(" = ")
	if err := e.value(m.value); err != nil {
		return fmt.Errorf("key %q: %w", m.key, err)
	}
	return nil
}

// value writes a scalar or an inline array; tables reaching here are written inline
func (e *encoder) value(v reflect.Value) error {
	v = indirect(v)
	if !v.IsValid() {
		return errors.New("cannot encode nil")
	}
	if text, ok, err := marshalText(v); ok {
		if err != nil {
			return err
		}
		e.str(text)
		return nil
	}

	switch v.Kind() {
	case reflect.Bool:
		e.buf.WriteString(strconv.FormatBool(v.Bool()))

	case reflect.String:
		e.str(v.String())

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		e.buf.WriteString(strconv.FormatInt(v.Int(), 10))

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		e.buf.WriteString(strconv.FormatUint(v.Uint(), 10))

	case reflect.Float32, reflect.Float64:
		f := v.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("cannot encode %v", f)
		}
		s := strconv.FormatFloat(f, 'f', -1, 64)
		if !strings.ContainsAny(s, ".eE") {
			s += ".0"
		}
		e.buf.WriteString(s)

	case reflect.Slice, reflect.Array:
		e.buf.WriteByte('[')
		for i := 0; i < v.Len(); i++ {
			if i > 0 {
				e.buf.WriteString(", ")
			}
			if err := e.value(v.Index(i)); err != nil {
				return err
			}
		}
		e.buf.WriteByte(']')

	case reflect.Struct, reflect.Map:
		ms, err := members(v)
		if err != nil {
			return err
		}
		e.buf.WriteByte('{')
		for i, m := range ms {
			if i > 0 {
				e.buf.WriteByte(',')
			}
			e.buf.WriteByte(' ')
			if err := e.keyValue(m); err != nil {
				return err
			}
		}
		if len(ms) > 0 {
			e.buf.WriteByte(' ')
		}
		e.buf.WriteByte('}')

	default:
		return fmt.Errorf("unsupported type: %v", v.Type())
	}
	return nil
}

// members lists the keys of a struct or map with nil and omitted values dropped
func members(rv reflect.Value) ([]member, error) {
	var ms []member
	switch rv.Kind() {
	case reflect.Map:
		if k := rv.Type().Key().Kind(); k != reflect.String {
			return nil, fmt.Errorf("map key must be string, got %v", k)
		}
		it := rv.MapRange()
		for it.Next() {
			v := indirect(it.Value())
			if !v.IsValid() {
				continue
			}
			ms = append(ms, member{key: it.Key().String(), value: v})
		}
		slices.SortFunc(ms, func(a, b member) int { return strings.Compare(a.key, b.key) })

	case reflect.Struct:
		for _, f := range fieldsOf(rv.Type()) {
			v := indirect(rv.Field(f.index))
			if !v.IsValid() || (f.omitEmpty && isEmptyValue(v)) {
				continue
			}
			ms = append(ms, member{key: f.name, value: v, inline: f.inline})
		}
	}
	return ms, nil
}

// indirect unwraps interfaces and pointers; nil yields the invalid Value
func indirect(v reflect.Value) reflect.Value {
	for v.Kind() == reflect.Interface || v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}

func marshalText(v reflect.Value) (string, bool, error) {
	var tm encoding.TextMarshaler
	switch {
	case v.Type().Implements(textMarshalerType):
		tm = v.Interface().(encoding.TextMarshaler)
	case v.CanAddr() && reflect.PointerTo(v.Type()).Implements(textMarshalerType):
		tm = v.Addr().Interface().(encoding.TextMarshaler)
	default:
		return "", false, nil
	}
	text, err := tm.MarshalText()
	return string(text), true, err
}

func isText(v reflect.Value) bool {
	t := v.Type()
	return t.Implements(textMarshalerType) || reflect.PointerTo(t).Implements(textMarshalerType)
}

// isTable reports whether v is written as a [table] or as [[array of tables]]
func isTable(v reflect.Value) bool {
	if isText(v) {
		return false
	}
	switch v.Kind() {
	case reflect.Struct, reflect.Map:
		return true
	case reflect.Slice, reflect.Array:
		if v.Len() == 0 {
			return false
		}
		// The first element decides between tables and an inline array
		elem := indirect(v.Index(0))
		if !elem.IsValid() || isText(elem) {
			return false
		}
		return elem.Kind() == reflect.Struct || elem.Kind() == reflect.Map
	}
	return false
}

func isEmptyValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	}
	return false
}

func (e *encoder) key(s string) {
	if isBareKey(s) {
		e.buf.WriteString(s)
		return
	}
	e.str(s)
}

var stringEscapes = map[rune]string{
	'"':  `\"`,
	'\\': `\\`,
	'\n': `\n`,
	'\r': `\r`,
	'\t': `\t`,
	'\b': `\b`,
	'\f': `\f`,
}

func (e *encoder) str(s string) {
	e.buf.WriteByte('"')
	for _, r := range s {
		if esc, ok := stringEscapes[r]; ok {
			e.buf.WriteString(esc)
		} else if r < 0x20 || r == 0x7F {
			fmt.Fprintf(&e.buf, `\u%04X`, r)
		} else {
			e.buf.WriteRune(r)
		}
	}
	e.buf.WriteByte('"')
}

// isBareKey reports whether s lexes back as an identifier when written unquoted
// Words starting with a digit or sign may lex as numbers, and true/false as booleans
func isBareKey(s string) bool {
	if s == "" || s == "true" || s == "false" {
		return false
	}
	if !isAlpha(rune(s[0])) && s[0] != '_' {
		return false
	}
	for _, r := range s {
		if !isAlpha(r) && !isDigit(r) && r != '_' && r != '-' {
			return false
		}
	}
	return true
}
