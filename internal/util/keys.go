package util

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// Key returns the storage key for one call: name(arg0, arg1, ...).
// Arguments are rendered by Repr; map keys are printed sorted, which keeps
// map arguments deterministic. Pointers render as addresses and must not be
// used as key arguments.
func Key(name string, args []any) string {
	var b strings.Builder
	b.WriteString(Prefix(name))
	for i, a := range args {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(Repr(a))
	}
	b.WriteByte(')')
	return b.String()
}

// Prefix is the part of Key shared by every call of name.
func Prefix(name string) string { return name + "(" }

// Repr is the textual form of a single argument. Values of different types
// never share a form: int, bool and string print bare (1, true, "1"),
// float64 always carries a fraction or exponent (1.0), and every other
// scalar type is wrapped in its type name (int64(1), uint8(1), pkg.ID("x")).
func Repr(a any) string {
	if a == nil {
		return "nil"
	}
	switch v := a.(type) {
	case int:
		return strconv.Itoa(v)
	case float64:
		return formatFloat(v, 64)
	case string:
		return strconv.Quote(v)
	case bool:
		return strconv.FormatBool(v)
	case []any:
		parts := make([]string, len(v))
		for i, e := range v {
			parts[i] = Repr(e)
		}
		return "[]interface {}{" + strings.Join(parts, ", ") + "}"
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = strconv.Quote(k) + ":" + Repr(v[k])
		}
		return "map[string]interface {}{" + strings.Join(parts, ", ") + "}"
	}

	rv := reflect.ValueOf(a)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return fmt.Sprintf("%T(%d)", a, rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return fmt.Sprintf("%T(%d)", a, rv.Uint())
	case reflect.Float32:
		return fmt.Sprintf("%T(%s)", a, formatFloat(rv.Float(), 32))
	case reflect.Float64:
		return fmt.Sprintf("%T(%s)", a, formatFloat(rv.Float(), 64))
	case reflect.Complex64, reflect.Complex128:
		return fmt.Sprintf("%T%v", a, rv.Complex())
	case reflect.String:
		return fmt.Sprintf("%T(%q)", a, rv.String())
	case reflect.Bool:
		return fmt.Sprintf("%T(%t)", a, rv.Bool())
	}
	return fmt.Sprintf("%#v", a)
}

// formatFloat is the shortest exact form, with ".0" added to whole numbers.
func formatFloat(f float64, bits int) string {
	s := strconv.FormatFloat(f, 'g', -1, bits)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}

// ValidName reports whether name can be used as an operation identity.
// A '(' in the name would let one operation's prefix match another's keys.
func ValidName(name string) bool {
	return name != "" && !strings.ContainsAny(name, "()")
}
