package tmpl

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"reflect"
	"time"
)

// FromNative converts a plain Go value into a [Value].
//
// It accepts the shapes produced by the JSON, YAML and TOML decoders and by
// expression evaluation: strings, booleans, every integer and float width,
// [json.Number], [time.Time] (formatted as RFC 3339), slices and arrays, and
// maps with any key type (keys are formatted with fmt). Functions of type
// func(string) string and [Lambda] implementations become lambdas.
//
// Nil map entries are omitted so the key resolves as absent. Nil list
// elements become false. A nil top-level value or an unsupported type
// returns an error matching [ErrDataFormat].
func FromNative(x any) (Value, error) {
	switch v := x.(type) {
	case nil:
		return Value{}, ErrDataFormat.With(slog.String("type", "nil"))
	case Value:
		return v, nil
	case Lambda:
		return Func(v), nil
	case func(string) string:
		return Func(LambdaFunc(v)), nil
	case string:
		return String(v), nil
	case bool:
		return Bool(v), nil
	case int:
		return Int(int64(v)), nil
	case int8:
		return Int(int64(v)), nil
	case int16:
		return Int(int64(v)), nil
	case int32:
		return Int(int64(v)), nil
	case int64:
		return Int(v), nil
	case uint:
		return fromUint(uint64(v)), nil
	case uint8:
		return Int(int64(v)), nil
	case uint16:
		return Int(int64(v)), nil
	case uint32:
		return Int(int64(v)), nil
	case uint64:
		return fromUint(v), nil
	case float32:
		return Float(float64(v)), nil
	case float64:
		return Float(v), nil
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return Int(i), nil
		}

		f, err := v.Float64()
		if err != nil {
			return Value{}, ErrDataFormat.Wrap(err).
				With(slog.String("number", v.String()))
		}

		return Float(f), nil
	case time.Time:
		return String(v.Format(time.RFC3339)), nil
	case []any:
		return listFromNative(len(v), func(i int) any { return v[i] })
	case []map[string]any:
		return listFromNative(len(v), func(i int) any { return v[i] })
	case map[string]any:
		m, err := MapFromNative(v)
		if err != nil {
			return Value{}, err
		}

		return Map(m), nil
	}

	return fromReflect(reflect.ValueOf(x))
}

// MapFromNative converts every entry of m with [FromNative].
func MapFromNative(m map[string]any) (map[string]Value, error) {
	out := make(map[string]Value, len(m))

	for k, item := range m {
		if item == nil {
			continue
		}

		v, err := FromNative(item)
		if err != nil {
			return nil, WrapError(err).With(slog.String("key", k))
		}

		out[k] = v
	}

	return out, nil
}

func fromUint(u uint64) Value {
	if u > math.MaxInt64 {
		return Float(float64(u))
	}

	return Int(int64(u))
}

func listFromNative(n int, at func(int) any) (Value, error) {
	items := make([]Value, n)

	for i := range n {
		item := at(i)
		if item == nil {
			items[i] = Bool(false)

			continue
		}

		v, err := FromNative(item)
		if err != nil {
			return Value{}, WrapError(err).With(slog.Int("index", i))
		}

		items[i] = v
	}

	return List(items...), nil
}

func fromReflect(rv reflect.Value) (Value, error) {
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return listFromNative(rv.Len(), func(i int) any {
			return rv.Index(i).Interface()
		})

	case reflect.Map:
		m := make(map[string]any, rv.Len())

		iter := rv.MapRange()
		for iter.Next() {
			m[fmt.Sprint(iter.Key().Interface())] = iter.Value().Interface()
		}

		return FromNative(m)

	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return Value{}, ErrDataFormat.With(slog.String("type", "nil"))
		}

		return FromNative(rv.Elem().Interface())
	}

	return Value{}, ErrDataFormat.With(
		slog.String("type", fmt.Sprintf("%T", rv.Interface())),
	)
}
