package util

import "testing"

func TestKeyDeterministic(t *testing.T) {
	a := Key("get", []any{1, 2})
	b := Key("get", []any{1, 2})
	if a != b {
		t.Fatalf("same args produced %q and %q", a, b)
	}
	if a != "get(1, 2)" {
		t.Fatalf("unexpected key %q", a)
	}
}

func TestKeyOrderSensitive(t *testing.T) {
	if Key("get", []any{1, 2}) == Key("get", []any{2, 1}) {
		t.Fatalf("argument order must change the key")
	}
}

func TestKeyDistinguishesTypes(t *testing.T) {
	cases := [][2][]any{
		{{1}, {"1"}},
		{{"a, b"}, {"a", "b"}},
		{{nil}, {"nil"}},
		{{}, {""}},
		{{1}, {int64(1)}},
		{{1}, {1.0}},
		{{int64(1)}, {1.0}},
		{{int32(1)}, {int64(1)}},
		{{uint8(1)}, {1}},
		{{float32(1)}, {1.0}},
		{{ID(1)}, {1}},
		{{Name("x")}, {"x"}},
		{{true}, {"true"}},
		{{[]any{1}}, {[]any{1.0}}},
		{{map[string]any{"a": 1}}, {map[string]any{"a": int64(1)}}},
	}
	for _, c := range cases {
		if Key("f", c[0]) == Key("f", c[1]) {
			t.Fatalf("args %#v and %#v collide: %q", c[0], c[1], Key("f", c[0]))
		}
	}
}

type (
	ID   int
	Name string
)

func TestReprScalars(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{1, "1"},
		{-3, "-3"},
		{"hsa:10458", `"hsa:10458"`},
		{true, "true"},
		{nil, "nil"},
		{1.0, "1.0"},
		{2.5, "2.5"},
		{1e21, "1e+21"},
		{int64(1), "int64(1)"},
		{uint8(1), "uint8(1)"},
		{float32(0.5), "float32(0.5)"},
		{ID(7), "util.ID(7)"},
		{Name("x"), `util.Name("x")`},
		{[]any{1, 1.0, "a"}, `[]interface {}{1, 1.0, "a"}`},
		{map[string]any{"b": 2.0, "a": 1}, `map[string]interface {}{"a":1, "b":2.0}`},
	}
	for _, tc := range cases {
		if got := Repr(tc.in); got != tc.want {
			t.Fatalf("Repr(%#v)=%q want %q", tc.in, got, tc.want)
		}
	}
}

func TestKeyMapArgumentsStable(t *testing.T) {
	m1 := map[string]int{"b": 2, "a": 1, "c": 3}
	m2 := map[string]int{"c": 3, "a": 1, "b": 2}
	if Key("f", []any{m1}) != Key("f", []any{m2}) {
		t.Fatalf("equal maps must produce equal keys")
	}
}

func TestPrefixMatchesOnlyOwnKeys(t *testing.T) {
	p := Prefix("get")
	own := Key("get", []any{"hsa:10458"})
	other := Key("get_all", []any{"hsa:10458"})
	if own[:len(p)] != p {
		t.Fatalf("key %q does not start with prefix %q", own, p)
	}
	if len(other) >= len(p) && other[:len(p)] == p {
		t.Fatalf("prefix %q matches foreign key %q", p, other)
	}
}

func TestValidName(t *testing.T) {
	for name, want := range map[string]bool{
		"":          false,
		"get":       true,
		"list_info": true,
		"f(":        false,
		"a)b":       false,
	} {
		if got := ValidName(name); got != want {
			t.Fatalf("ValidName(%q)=%v want %v", name, got, want)
		}
	}
}
