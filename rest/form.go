package rest

import (
	"encoding"
	"fmt"
	"net/url"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/exp/maps"
)

// EncodeForm serializes a request payload as application/x-www-form-urlencoded.
//
// Strings and byte slices are taken as already encoded. url.Values is encoded
// as-is. Maps with string keys and structs (fields named by their `form` tag)
// are flattened: slices become "k[]=v", nested maps become "k[sub]=v" and nil
// becomes an empty value. Keys are emitted in sorted order. Values that
// implement encoding.TextMarshaler, such as time.Time, are sent as their text
// form. Scalar map keys of interface type are formatted like values.
func EncodeForm(data any) (string, error) {
	switch v := data.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	case url.Values:
		return v.Encode(), nil
	}

	n, err := normalize(data)
	if err != nil {
		return "", err
	}
	m, ok := n.(map[string]any)
	if !ok {
		return "", fmt.Errorf("payload must be key/value data, got %T", data)
	}

	var parts []string
	add := func(k, v string) {
		parts = append(parts, url.QueryEscape(k)+"="+url.QueryEscape(v))
	}
	for _, k := range sortedKeys(m) {
		buildParams(k, m[k], add)
	}
	return strings.Join(parts, "&"), nil
}

func buildParams(prefix string, v any, add func(k, v string)) {
	switch x := v.(type) {
	case []any:
		for i, e := range x {
			if strings.HasSuffix(prefix, "[]") {
				add(prefix, formatScalar(e))
				continue
			}
			idx := ""
			if isComposite(e) {
				idx = strconv.Itoa(i)
			}
			buildParams(prefix+"["+idx+"]", e, add)
		}
	case map[string]any:
		for _, k := range sortedKeys(x) {
			buildParams(prefix+"["+k+"]", x[k], add)
		}
	default:
		add(prefix, formatScalar(x))
	}
}

// normalize reduces v to scalars, []any and map[string]any.
func normalize(v any) (any, error) {
	switch x := v.(type) {
	case nil, string, bool:
		return x, nil
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			n, err := normalize(e)
			if err != nil {
				return nil, err
			}
			out[k] = n
		}
		return out, nil
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			n, err := normalize(e)
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil
	}

	rv := reflect.ValueOf(v)
	for {
		isRef := rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface
		if isRef && rv.IsNil() {
			return nil, nil
		}
		// Values like time.Time encode as their text form.
		if tm, ok := rv.Interface().(encoding.TextMarshaler); ok {
			b, err := tm.MarshalText()
			if err != nil {
				return nil, fmt.Errorf("failed to encode %s: %w", rv.Type(), err)
			}
			return string(b), nil
		}
		if !isRef {
			break
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Struct:
		if s, ok := rv.Interface().(fmt.Stringer); ok {
			return s.String(), nil
		}
		if !hasExportedField(rv.Type()) {
			return nil, fmt.Errorf("unsupported payload value of type %s: no exported fields", rv.Type())
		}
		return normalize(structFields(rv))
	case reflect.Map:
		keyKind := rv.Type().Key().Kind()
		if keyKind != reflect.String && keyKind != reflect.Interface {
			return nil, fmt.Errorf("unsupported map key type %s", rv.Type().Key())
		}
		m := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			k, err := mapKey(iter.Key())
			if err != nil {
				return nil, err
			}
			m[k] = iter.Value().Interface()
		}
		return normalize(m)
	case reflect.Slice, reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 && rv.Kind() == reflect.Slice {
			return string(rv.Bytes()), nil
		}
		s := make([]any, rv.Len())
		for i := range s {
			s[i] = rv.Index(i).Interface()
		}
		return normalize(s)
	case reflect.String:
		return rv.String(), nil
	case reflect.Bool:
		return rv.Bool(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint(), nil
	case reflect.Float32, reflect.Float64:
		return rv.Float(), nil
	default:
		return nil, fmt.Errorf("unsupported payload value of type %s", rv.Type())
	}
}

// mapKey returns the form key for a map key. Interface keys, as decoded from
// YAML documents, must hold a scalar.
func mapKey(k reflect.Value) (string, error) {
	if k.Kind() == reflect.String {
		return k.String(), nil
	}
	n, err := normalize(k.Interface())
	if err != nil {
		return "", err
	}
	if isComposite(n) {
		return "", fmt.Errorf("unsupported map key %v", k.Interface())
	}
	return formatScalar(n), nil
}

// structFields maps the exported fields of a struct by their `form` tag name,
// or by field name when untagged. Field values are kept as-is so that nested
// structs and text marshalers are normalized like any other value.
func structFields(rv reflect.Value) map[string]any {
	t := rv.Type()
	m := make(map[string]any, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name, opts, _ := strings.Cut(f.Tag.Get("form"), ",")
		if name == "-" && opts == "" {
			continue
		}
		if name == "" {
			name = f.Name
		}
		fv := rv.Field(i)
		if strings.Contains(opts, "omitempty") && fv.IsZero() {
			continue
		}
		m[name] = fv.Interface()
	}
	return m
}

func hasExportedField(t reflect.Type) bool {
	for i := 0; i < t.NumField(); i++ {
		if t.Field(i).IsExported() {
			return true
		}
	}
	return false
}

func isComposite(v any) bool {
	switch v.(type) {
	case []any, map[string]any:
		return true
	}
	return false
}

func formatScalar(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}

func sortedKeys(m map[string]any) []string {
	keys := maps.Keys(m)
	sort.Strings(keys)
	return keys
}
