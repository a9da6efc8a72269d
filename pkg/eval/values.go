package eval

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
)

// UndefinedValue is the type of Undefined
type UndefinedValue struct{}

// Undefined is the value of a path that resolved to nothing
var Undefined = UndefinedValue{}

// String implements fmt.Stringer
func (UndefinedValue) String() string {
	return "undefined"
}

// IsUndefined reports whether v is Undefined
func IsUndefined(v any) bool {
	_, ok := v.(UndefinedValue)
	return ok
}

// Truthy reports the truthiness of v: undefined, null, false, 0, NaN and ""
// are false, everything else (including empty sequences and mappings) is true.
func Truthy(v any) bool {
	switch x := v.(type) {
	case nil, UndefinedValue:
		return false
	case bool:
		return x
	case string:
		return x != ""
	}
	if f, ok := asNumber(v); ok {
		return f != 0 && !math.IsNaN(f)
	}
	return true
}

// ToNumber converts v to a number using loose rules. NaN signals failure.
func ToNumber(v any) float64 {
	switch x := v.(type) {
	case nil:
		return 0
	case UndefinedValue:
		return math.NaN()
	case bool:
		if x {
			return 1
		}
		return 0
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0
		}
		if f, ok := parseNumber(s); ok {
			return f
		}
		return math.NaN()
	}
	if f, ok := asNumber(v); ok {
		return f
	}
	return math.NaN()
}

// ToString renders v the way it appears in attribute values and content
func ToString(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case UndefinedValue:
		return "undefined"
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	}
	if f, ok := asNumber(v); ok {
		return formatNumber(f)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		parts := make([]string, rv.Len())
		for i := range parts {
			elem := rv.Index(i).Interface()
			if elem == nil || IsUndefined(elem) {
				continue
			}
			parts[i] = ToString(elem)
		}
		return strings.Join(parts, ",")
	case reflect.Map, reflect.Struct:
		return "[object Object]"
	}
	return fmt.Sprint(v)
}

// ToJSON serializes v. Undefined stays Undefined.
func ToJSON(v any) (any, error) {
	if IsUndefined(v) {
		return Undefined, nil
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("failed to serialize value: %w", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// LooseEqual compares a and b with loose equality: null equals undefined,
// numbers compare numerically against numeric strings and booleans, strings
// compare by content and composite values compare structurally.
func LooseEqual(a, b any) bool {
	aNil := a == nil || IsUndefined(a)
	bNil := b == nil || IsUndefined(b)
	if aNil || bNil {
		return aNil && bNil
	}

	as, aStr := a.(string)
	bs, bStr := b.(string)
	if aStr && bStr {
		return as == bs
	}

	_, aBool := a.(bool)
	_, bBool := b.(bool)
	_, aNum := asNumber(a)
	_, bNum := asNumber(b)
	if (aNum || aBool || aStr) && (bNum || bBool || bStr) {
		x, y := ToNumber(a), ToNumber(b)
		return !math.IsNaN(x) && !math.IsNaN(y) && x == y
	}

	return reflect.DeepEqual(a, b)
}

// StrictEqual compares a and b without type coercion. Numbers of any Go
// numeric type compare by value.
func StrictEqual(a, b any) bool {
	if x, ok := asNumber(a); ok {
		y, ok := asNumber(b)
		return ok && x == y
	}
	if IsUndefined(a) || IsUndefined(b) {
		return IsUndefined(a) && IsUndefined(b)
	}
	return reflect.DeepEqual(a, b)
}

// Less orders a before b: strings compare lexically, everything else
// numerically. Incomparable values are never less.
func Less(a, b any) bool {
	as, aStr := a.(string)
	bs, bStr := b.(string)
	if aStr && bStr {
		return as < bs
	}
	x, y := ToNumber(a), ToNumber(b)
	if math.IsNaN(x) || math.IsNaN(y) {
		return false
	}
	return x < y
}

// Comparable reports whether a and b can be ordered at all
func Comparable(a, b any) bool {
	_, aStr := a.(string)
	_, bStr := b.(string)
	if aStr && bStr {
		return true
	}
	return !math.IsNaN(ToNumber(a)) && !math.IsNaN(ToNumber(b))
}

// Contains reports whether item occurs in container: a substring for
// strings, an element for sequences.
func Contains(container, item any) (bool, error) {
	if s, ok := container.(string); ok {
		return strings.Contains(s, ToString(item)), nil
	}
	elems, ok := Sequence(container)
	if !ok {
		return false, NewTypeKindError("containment target", KindOf(container))
	}
	for _, e := range elems {
		if StrictEqual(e, item) {
			return true, nil
		}
	}
	return false, nil
}

// Sequence returns the elements of a slice or array
func Sequence(v any) ([]any, bool) {
	if s, ok := v.([]any); ok {
		return s, true
	}
	if v == nil || IsUndefined(v) {
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// Len returns the length of strings, sequences and mappings
func Len(v any) (int, bool) {
	switch x := v.(type) {
	case string:
		return len([]rune(x)), true
	case []any:
		return len(x), true
	case map[string]any:
		return len(x), true
	case nil, UndefinedValue:
		return 0, false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len(), true
	}
	return 0, false
}

// KindOf names the value kind used in error messages
func KindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case UndefinedValue:
		return "undefined"
	case bool:
		return "boolean"
	case string:
		return "string"
	}
	if _, ok := asNumber(v); ok {
		return "number"
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Slice, reflect.Array:
		return "sequence"
	case reflect.Map, reflect.Struct:
		return "mapping"
	case reflect.Func:
		return "function"
	}
	return reflect.TypeOf(v).String()
}

// member returns the value stored under key in container
func member(container any, key string) (any, bool) {
	switch c := container.(type) {
	case map[string]any:
		v, ok := c[key]
		return v, ok
	case []any:
		return index(len(c), key, func(i int) any { return c[i] })
	case string:
		if key == "length" {
			return len([]rune(c)), true
		}
		return nil, false
	case nil, UndefinedValue:
		return nil, false
	}

	rv := reflect.ValueOf(container)
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		mv := rv.MapIndex(reflect.ValueOf(key).Convert(rv.Type().Key()))
		if !mv.IsValid() {
			return nil, false
		}
		return mv.Interface(), true
	case reflect.Slice, reflect.Array:
		return index(rv.Len(), key, func(i int) any { return rv.Index(i).Interface() })
	}
	return nil, false
}

func index(n int, key string, at func(int) any) (any, bool) {
	if key == "length" {
		return n, true
	}
	i, err := strconv.Atoi(key)
	if err != nil || i < 0 || i >= n {
		return nil, false
	}
	return at(i), true
}

func asNumber(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case float32:
		return float64(x), true
	case int32:
		return float64(x), true
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	}
	rv := reflect.ValueOf(v)
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

// parseNumber accepts decimal, exponent and hex literals plus "Infinity".
// NaN and the Go-only spellings "inf"/"nan" are rejected.
func parseNumber(s string) (float64, bool) {
	switch strings.TrimLeft(s, "+-") {
	case "Infinity":
		if strings.HasPrefix(s, "-") {
			return math.Inf(-1), true
		}
		return math.Inf(1), true
	}
	if strings.ContainsRune(s, '_') {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		if i, ierr := strconv.ParseInt(s, 0, 64); ierr == nil {
			return float64(i), true
		}
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func formatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case math.Abs(f) >= 1e21 || (f != 0 && math.Abs(f) < 1e-6):
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
