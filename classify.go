package sel

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/goliatone/go-select/internal/hydrate"
)

// Shape is the closed set of option source shapes.
type Shape int

const (
	// ShapeEmpty covers nil, empty strings and nil references.
	ShapeEmpty Shape = iota
	// ShapeInvalid covers values with no presentable form (funcs, channels).
	ShapeInvalid
	// ShapePrimitive covers scalars and nested sequences.
	ShapePrimitive
	// ShapeGroup is a record with an options collection, or a group key and no
	// label key.
	ShapeGroup
	// ShapeAnonymousMap is a record without label, disabled or group keys;
	// every entry becomes an option.
	ShapeAnonymousMap
	// ShapeRecord is a single labeled option record.
	ShapeRecord
)

func (s Shape) String() string {
	switch s {
	case ShapeEmpty:
		return "empty"
	case ShapeInvalid:
		return "invalid"
	case ShapePrimitive:
		return "primitive"
	case ShapeGroup:
		return "group"
	case ShapeAnonymousMap:
		return "anonymous_map"
	case ShapeRecord:
		return "record"
	default:
		return "unknown"
	}
}

var (
	labelKeys  = []string{"name", "label", "id", "value"}
	systemKeys = []string{"group", "disabled", "options", "items", "children"}
)

// Classify reports the shape of value. The record view is returned for the
// keyed shapes.
func Classify(value any) (Shape, hydrate.Record) {
	if isNil(value) {
		if value != nil && reflect.TypeOf(value).Kind() == reflect.Func {
			return ShapeInvalid, hydrate.Record{}
		}
		return ShapeEmpty, hydrate.Record{}
	}
	if s, ok := value.(string); ok {
		if s == "" {
			return ShapeEmpty, hydrate.Record{}
		}
		return ShapePrimitive, hydrate.Record{}
	}

	switch reflect.TypeOf(value).Kind() {
	case reflect.Func, reflect.Chan, reflect.UnsafePointer, reflect.Complex64, reflect.Complex128:
		return ShapeInvalid, hydrate.Record{}
	}

	if _, ok := hydrate.ToSequence(value); ok {
		return ShapePrimitive, hydrate.Record{}
	}
	rec, ok := hydrate.ToRecord(value)
	if !ok {
		return ShapePrimitive, hydrate.Record{}
	}

	hasLabelKey := false
	for _, key := range labelKeys {
		if rec.Has(key) {
			hasLabelKey = true
			break
		}
	}
	switch {
	case rec.Has("options"), rec.Has("group") && !hasLabelKey:
		return ShapeGroup, rec
	case !hasLabelKey && !rec.Has("disabled"):
		return ShapeAnonymousMap, rec
	default:
		return ShapeRecord, rec
	}
}

// recordLabel resolves the display label of a record: the group key for
// groups, then the label keys in priority order, then the first non-system
// non-empty entry.
func recordLabel(rec hydrate.Record, group bool) (string, bool) {
	if group {
		if name, ok := rec.Values["group"].(string); ok {
			return name, name != ""
		}
	}
	for _, key := range labelKeys {
		if value, ok := rec.Get(key); ok && !blank(value) {
			return stringify(value), true
		}
	}
	for _, key := range rec.Keys {
		if isSystemKey(key) {
			continue
		}
		if value := rec.Values[key]; !blank(value) {
			return stringify(value), true
		}
	}
	return "", false
}

// recordUserID returns the first non-nil of id, value, name, label.
func recordUserID(rec hydrate.Record) any {
	for _, key := range []string{"id", "value", "name", "label"} {
		if value, ok := rec.Get(key); ok && !isNil(value) {
			return value
		}
	}
	return nil
}

func isSystemKey(key string) bool {
	for _, system := range systemKeys {
		if key == system {
			return true
		}
	}
	return false
}

func isNil(value any) bool {
	if value == nil {
		return true
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

func blank(value any) bool {
	if isNil(value) {
		return true
	}
	s, ok := value.(string)
	return ok && s == ""
}

func truthy(value any) bool {
	switch typed := value.(type) {
	case nil:
		return false
	case bool:
		return typed
	case string:
		return typed != ""
	}
	if isNil(value) {
		return false
	}
	if f, ok := toFloat(value); ok {
		return f != 0
	}
	return true
}

// objectText stands in for records and structs rendered as a label.
const objectText = "[object Object]"

// stringify renders value the way it is shown as an option label. A sequence
// that contains itself renders that element as empty.
func stringify(value any) string {
	return stringifyRef(value, nil)
}

func stringifyRef(value any, seen map[uintptr]bool) string {
	switch typed := value.(type) {
	case nil:
		return ""
	case string:
		return typed
	case bool:
		return strconv.FormatBool(typed)
	case float32:
		return strconv.FormatFloat(float64(typed), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	case json.Number:
		return typed.String()
	case fmt.Stringer:
		return typed.String()
	case error:
		return typed.Error()
	}
	if ref, ok := refID(value); ok {
		if seen[ref] {
			return ""
		}
		if seen == nil {
			seen = map[uintptr]bool{}
		}
		seen[ref] = true
		defer delete(seen, ref)
	}
	if items, ok := hydrate.ToSequence(value); ok {
		parts := make([]string, len(items))
		for i, item := range items {
			parts[i] = stringifyRef(item, seen)
		}
		return strings.Join(parts, ",")
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			return ""
		}
		return stringifyRef(rv.Elem().Interface(), seen)
	case reflect.Map, reflect.Struct:
		return objectText
	}
	return fmt.Sprint(value)
}

// refID identifies the backing storage of maps, pointers and non-empty
// slices so walks over caller data can detect cycles.
func refID(value any) (uintptr, bool) {
	if value == nil {
		return 0, false
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Map, reflect.Pointer:
		if !rv.IsNil() {
			return rv.Pointer(), true
		}
	case reflect.Slice:
		if rv.Len() > 0 {
			return rv.Pointer(), true
		}
	}
	return 0, false
}

func toFloat(value any) (float64, bool) {
	switch typed := value.(type) {
	case json.Number:
		f, err := typed.Float64()
		return f, err == nil
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}
