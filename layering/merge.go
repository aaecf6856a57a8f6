// Package layering fills unset settings from weaker layers.
package layering

import "reflect"

// MergeLayers composes values ordered from strongest to weakest. A field set in
// a stronger layer wins; zero strings, numbers, nil pointers, nil maps, nil
// slices and nil funcs are treated as "unset" and taken from the next layer
// that sets them. Struct fields merge recursively and maps merge per key.
func MergeLayers[T any](layers ...T) T {
	var zero T
	if len(layers) == 0 {
		return zero
	}

	merged := reflect.ValueOf(&layers[len(layers)-1]).Elem()
	for i := len(layers) - 2; i >= 0; i-- {
		merged = fill(reflect.ValueOf(&layers[i]).Elem(), merged)
	}

	out := reflect.New(reflect.TypeOf(&zero).Elem()).Elem()
	if merged.IsValid() {
		out.Set(merged)
	}
	return out.Interface().(T)
}

// Merge is MergeLayers for the common two-layer case.
func Merge[T any](strong, weak T) T {
	return MergeLayers(strong, weak)
}

func fill(strong, weak reflect.Value) reflect.Value {
	if !weak.IsValid() {
		return strong
	}
	switch strong.Kind() {
	case reflect.Struct:
		result := reflect.New(strong.Type()).Elem()
		result.Set(strong)
		for i := 0; i < strong.NumField(); i++ {
			field := result.Field(i)
			if !field.CanSet() {
				continue
			}
			field.Set(fill(strong.Field(i), weak.Field(i)))
		}
		return result
	case reflect.Map:
		if strong.IsNil() {
			return weak
		}
		if weak.IsNil() {
			return strong
		}
		result := reflect.MakeMapWithSize(strong.Type(), strong.Len()+weak.Len())
		iter := weak.MapRange()
		for iter.Next() {
			result.SetMapIndex(iter.Key(), iter.Value())
		}
		iter = strong.MapRange()
		for iter.Next() {
			result.SetMapIndex(iter.Key(), iter.Value())
		}
		return result
	case reflect.Pointer:
		if strong.IsNil() {
			return weak
		}
		if weak.IsNil() || strong.Elem().Kind() != reflect.Struct {
			return strong
		}
		result := reflect.New(strong.Type().Elem())
		result.Elem().Set(fill(strong.Elem(), weak.Elem()))
		return result
	default:
		if strong.IsZero() {
			return weak
		}
		return strong
	}
}
