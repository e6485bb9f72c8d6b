package toml

import (
	"encoding"
	"fmt"
	"math"
	"reflect"
)

var textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()

// Unmarshal parses TOML data and stores the result in the value pointed to by v.
func Unmarshal(data []byte, v any) error {
	p := NewParser(data)
	parsedMap, err := p.Parse()
	if err != nil {
		return err
	}
	return Decode(parsedMap, v)
}

// Decode maps a generic map[string]any to a struct/slice/etc using reflection.
// It prioritizes `toml` tags and falls back to field names.
// Types implementing encoding.TextUnmarshaler are decoded from strings.
func Decode(data any, v any) error {
	val := reflect.ValueOf(v)
	if val.Kind() != reflect.Ptr || val.IsNil() {
		return fmt.Errorf("target must be a non-nil pointer")
	}

	return decodeValue(data, val.Elem())
}

func decodeValue(data any, val reflect.Value) error {
	if data == nil {
		return nil
	}

	if val.CanAddr() && val.Kind() != reflect.Ptr && val.Addr().Type().Implements(textUnmarshalerType) {
		str, ok := data.(string)
		if !ok {
			return fmt.Errorf("expected string for %s, got %T", val.Type(), data)
		}
		return val.Addr().Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(str))
	}

	switch val.Kind() {
	case reflect.Ptr:
		if val.IsNil() {
			val.Set(reflect.New(val.Type().Elem()))
		}
		return decodeValue(data, val.Elem())

	case reflect.Struct:
		dataMap, ok := data.(map[string]any)
		if !ok {
			return fmt.Errorf("expected map for struct, got %T", data)
		}
		return decodeStruct(dataMap, val)

	case reflect.Slice:
		dataSlice, ok := data.([]any)
		// TOML parser returns []any for arrays.
		// If it was an array of tables, the parser constructs it as []map[string]any inside the interface{}.
		// We handle the conversion if the underlying type is []map...
		if !ok {
			if mapSlice, ok := data.([]map[string]any); ok {
				// Convert []map[string]any to []any for uniform handling
				dataSlice = make([]any, len(mapSlice))
				for i, m := range mapSlice {
					dataSlice[i] = m
				}
			} else {
				return fmt.Errorf("expected slice, got %T", data)
			}
		}

		newSlice := reflect.MakeSlice(val.Type(), len(dataSlice), len(dataSlice))
		for i := 0; i < len(dataSlice); i++ {
			if err := decodeValue(dataSlice[i], newSlice.Index(i)); err != nil {
				return err
			}
		}
		val.Set(newSlice)

	case reflect.Map:
		// Map[string]T
		if val.Type().Key().Kind() != reflect.String {
			return fmt.Errorf("only map[string]T is supported")
		}

		dataMap, ok := data.(map[string]any)
		if !ok {
			return fmt.Errorf("expected map, got %T", data)
		}

		newMap := reflect.MakeMap(val.Type())
		elemType := val.Type().Elem()

		for k, vData := range dataMap {
			newVal := reflect.New(elemType).Elem()
			if err := decodeValue(vData, newVal); err != nil {
				return fmt.Errorf("map key %s: %w", k, err)
			}
			newMap.SetMapIndex(reflect.ValueOf(k), newVal)
		}
		val.Set(newMap)

	case reflect.Interface:
		// Assign directly if type matches, or minimal conversion
		// This handles 'any' fields (e.g., dynamic payloads)
		val.Set(reflect.ValueOf(data))

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := toInt64(data, val.Type())
		if err != nil {
			return err
		}
		if val.OverflowInt(n) {
			return fmt.Errorf("%d does not fit %s", n, val.Type())
		}
		val.SetInt(n)

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := toInt64(data, val.Type())
		if err != nil {
			return err
		}
		if n < 0 || val.OverflowUint(uint64(n)) {
			return fmt.Errorf("%d does not fit %s", n, val.Type())
		}
		val.SetUint(uint64(n))

	case reflect.Float32, reflect.Float64:
		switch x := data.(type) {
		case float64:
			val.SetFloat(x)
		case int:
			val.SetFloat(float64(x))
		case int64:
			val.SetFloat(float64(x))
		default:
			return fmt.Errorf("cannot convert %T to float", data)
		}

	case reflect.String:
		str, ok := data.(string)
		if !ok {
			return fmt.Errorf("cannot convert %T to string", data)
		}
		val.SetString(str)

	case reflect.Bool:
		b, ok := data.(bool)
		if !ok {
			return fmt.Errorf("cannot convert %T to bool", data)
		}
		val.SetBool(b)

	default:
		return fmt.Errorf("unsupported kind %s", val.Kind())
	}

	return nil
}

func decodeStruct(data map[string]any, val reflect.Value) error {
	typ := val.Type()
	for _, f := range fieldsOf(typ) {
		vData, ok := data[f.name]
		if !ok {
			continue
		}
		if err := decodeValue(vData, val.Field(f.index)); err != nil {
			return fmt.Errorf("%s.%s: %w", typ.Name(), typ.Field(f.index).Name, err)
		}
	}
	return nil
}

// toInt64 accepts parsed integers and floats without a fractional part
func toInt64(data any, typ reflect.Type) (int64, error) {
	switch x := data.(type) {
	case int:
		return int64(x), nil
	case int64:
		return x, nil
	case float64:
		if x == math.Trunc(x) && x >= math.MinInt64 && x < math.MaxInt64 {
			return int64(x), nil
		}
		return 0, fmt.Errorf("%v does not fit %s", x, typ)
	}
	return 0, fmt.Errorf("cannot convert %T to %s", data, typ)
}
