package hydrate

import (
	"encoding"
	"reflect"
	"sort"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Record is a key/value view over a map, struct or ordered map. Keys keep a
// deterministic order: insertion order for ordered maps, declaration order for
// structs and lexical order for plain Go maps.
type Record struct {
	Keys   []string
	Values map[string]any
}

// Get returns the value stored under key and whether the key is present.
func (r Record) Get(key string) (any, bool) {
	value, ok := r.Values[key]
	return value, ok
}

// Has reports whether key is present, regardless of its value.
func (r Record) Has(key string) bool {
	_, ok := r.Values[key]
	return ok
}

// Len returns the number of keys.
func (r Record) Len() int {
	return len(r.Keys)
}

func (r *Record) set(key string, value any) {
	if r.Values == nil {
		r.Values = map[string]any{}
	}
	if _, exists := r.Values[key]; !exists {
		r.Keys = append(r.Keys, key)
	}
	r.Values[key] = value
}

var textMarshalerType = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()

// ToRecord converts value into a Record when it has a keyed shape. Values that
// marshal themselves as text (time.Time, net.IP, uuid.UUID...) are scalars and
// never records.
func ToRecord(value any) (Record, bool) {
	switch typed := value.(type) {
	case nil:
		return Record{}, false
	case Record:
		return typed, true
	case map[string]any:
		return fromStringMap(typed), true
	case *orderedmap.OrderedMap[string, any]:
		if typed == nil {
			return Record{}, false
		}
		rec := Record{Values: make(map[string]any, typed.Len())}
		for pair := typed.Oldest(); pair != nil; pair = pair.Next() {
			rec.set(pair.Key, pair.Value)
		}
		return rec, true
	}

	rv := reflect.ValueOf(value)
	if rv.Type().Implements(textMarshalerType) {
		return Record{}, false
	}
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return Record{}, false
		}
		rv = rv.Elem()
	}
	if rv.Type().Implements(textMarshalerType) {
		return Record{}, false
	}

	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String || rv.IsNil() {
			return Record{}, false
		}
		keys := make([]string, 0, rv.Len())
		values := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			key := iter.Key().String()
			keys = append(keys, key)
			values[key] = iter.Value().Interface()
		}
		sort.Strings(keys)
		return Record{Keys: keys, Values: values}, true
	case reflect.Struct:
		rec := Record{Values: map[string]any{}}
		collectFields(rv, &rec)
		return rec, true
	default:
		return Record{}, false
	}
}

// ToSequence returns the elements of a slice or array. Byte slices are
// treated as scalars.
func ToSequence(value any) ([]any, bool) {
	if value == nil {
		return nil, false
	}
	if items, ok := value.([]any); ok {
		return items, true
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return nil, false
		}
		out := make([]any, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out[i] = rv.Index(i).Interface()
		}
		return out, true
	default:
		return nil, false
	}
}

func fromStringMap(values map[string]any) Record {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return Record{Keys: keys, Values: values}
}

func collectFields(rv reflect.Value, rec *Record) {
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			collectFields(rv.Field(i), rec)
			continue
		}
		if !field.IsExported() {
			continue
		}
		name, skip := fieldName(field)
		if skip {
			continue
		}
		rec.set(name, rv.Field(i).Interface())
	}
}

func fieldName(field reflect.StructField) (string, bool) {
	tag := field.Tag.Get("json")
	if tag == "-" {
		return "", true
	}
	if name, _, _ := strings.Cut(tag, ","); name != "" {
		return name, false
	}
	return strings.ToLower(field.Name[:1]) + field.Name[1:], false
}
