package toml

import (
	"reflect"
	"strings"
	"sync"
)

// field is the encoding plan for one exported struct field
type field struct {
	index     int
	name      string
	omitEmpty bool
	inline    bool
}

var fieldCache sync.Map // reflect.Type -> []field

// fieldsOf parses the toml tags of t once; fields tagged "-" are left out
// An empty tag name falls back to the Go field name
func fieldsOf(t reflect.Type) []field {
	if cached, ok := fieldCache.Load(t); ok {
		return cached.([]field)
	}

	var fields []field
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		name, opts, _ := strings.Cut(sf.Tag.Get("toml"), ",")
		if name == "-" {
			continue
		}
		if name == "" {
			name = sf.Name
		}
		f := field{index: i, name: name}
		for _, opt := range strings.Split(opts, ",") {
			switch opt {
			case "omitempty":
				f.omitEmpty = true
			case "inline":
				f.inline = true
			}
		}
		fields = append(fields, f)
	}

	actual, _ := fieldCache.LoadOrStore(t, fields)
	return actual.([]field)
}
