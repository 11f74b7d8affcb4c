package treemask

import (
	"testing"
)

// Foo is a struct that behaves like a map with a single key
type Foo struct {
	A interface{}
}

func (f Foo) Keys() []string { return []string{"a"} }
func (f Foo) Get(key string) (interface{}, bool) {
	if key == "a" {
		return f.A, true
	}
	return nil, false
}

// Entity is an empty map-like type. Animal & Dog build a type hierarchy on
// top of it by embedding
type Entity struct{}

func (Entity) Keys() []string                  { return nil }
func (Entity) Get(string) (interface{}, bool) { return nil, false }

type Animal struct{ Entity }
type Dog struct{ Animal }

// Numbers is a sequence of the integers 1..N
type Numbers struct{ N int }

func (n Numbers) Len() int                { return n.N }
func (n Numbers) Index(i int) interface{} { return i + 1 }

func TestTypeComparers(t *testing.T) {
	t.Run("map for struct, none", func(t *testing.T) {
		RunTestCases(t, []TestCase{
			{"", obj{"x": obj{"a": 1}}, obj{"x": Foo{A: 1}}, nil},
		}, OptionPolicy(PolicyNone))
	})

	t.Run("map for struct, exact", func(t *testing.T) {
		RunTestCases(t, []TestCase{
			{"", obj{"x": obj{"a": 1}}, obj{"x": Foo{A: 1}},
				Diffs{{Path: "x", Tree: obj{"a": 1}, Mask: Foo{A: 1}}}},
		}, OptionPolicy(PolicyExact))
	})

	t.Run("sequence for custom sequence, none", func(t *testing.T) {
		RunTestCases(t, []TestCase{
			{"", obj{"x": arr{1, 2, 3}}, obj{"x": Numbers{N: 3}}, nil},
		})
	})

	t.Run("sequence for custom sequence, exact", func(t *testing.T) {
		RunTestCases(t, []TestCase{
			{"", obj{"x": arr{1, 2, 3}}, obj{"x": Numbers{N: 3}},
				Diffs{{Path: "x", Tree: arr{1, 2, 3}, Mask: Numbers{N: 3}}}},
		}, OptionTypeComparer(Exact))
	})

	t.Run("subtype", func(t *testing.T) {
		RunTestCases(t, []TestCase{
			{"subtype for supertype", obj{"x": Dog{}}, obj{"x": Animal{}}, nil},
			{"pointer to subtype for supertype", obj{"x": &Dog{}}, obj{"x": Animal{}}, nil},
			{"supertype for subtype", obj{"x": Animal{}}, obj{"x": Dog{}},
				Diffs{{Path: "x", Tree: Animal{}, Mask: Dog{}}}},
			{"map-like for map", obj{"x": Animal{}}, obj{"x": obj{}}, nil},
			{"typed map for map", obj{"x": map[string]int{"a": 1}}, obj{"x": obj{"a": 1}}, nil},
		}, OptionPolicy(PolicySubtype))
	})

	t.Run("map-like for map, exact", func(t *testing.T) {
		RunTestCases(t, []TestCase{
			{"", obj{"x": Animal{}}, obj{"x": obj{}},
				Diffs{{Path: "x", Tree: Animal{}, Mask: obj{}}}},
		}, OptionPolicy(PolicyExact))
	})

	t.Run("map-like for map, none", func(t *testing.T) {
		RunTestCases(t, []TestCase{
			{"", obj{"x": Animal{}}, obj{"x": obj{}}, nil},
		})
	})

	t.Run("scalars are never gated", func(t *testing.T) {
		type status string
		RunTestCases(t, []TestCase{
			{"", obj{"s": status("ok"), "n": int32(4)}, obj{"s": "ok", "n": 4.0}, nil},
		}, OptionPolicy(PolicyExact))
	})
}

func TestSubtype(t *testing.T) {
	type loop struct{ *loop }
	cases := []struct {
		tree, mask interface{}
		expect     bool
	}{
		{Dog{}, Animal{}, true},
		{Dog{}, Entity{}, true},
		{Animal{}, Dog{}, false},
		{Animal{}, Animal{}, true},
		{nil, nil, true},
		{nil, obj{}, false},
		{obj{}, nil, false},
		{Foo{}, obj{}, true},
		{obj{}, Foo{}, false},
		{arr{}, []int{}, false},
		{loop{}, Dog{}, false},
	}

	for i, c := range cases {
		if got := Subtype(c.tree, c.mask); got != c.expect {
			t.Errorf("%d: Subtype(%T, %T) = %t, want %t", i, c.tree, c.mask, got, c.expect)
		}
	}
}

func TestParsePolicy(t *testing.T) {
	for _, p := range []Policy{PolicyNone, PolicyExact, PolicySubtype} {
		got, err := ParsePolicy(p.String())
		if err != nil {
			t.Fatal(err)
		}
		if got != p {
			t.Errorf("ParsePolicy(%q) = %s", p.String(), got)
		}
	}

	if p, err := ParsePolicy(" Exact "); err != nil || p != PolicyExact {
		t.Errorf("expected case-insensitive parse, got %s, %v", p, err)
	}
	if p, err := ParsePolicy(""); err != nil || p != PolicyNone {
		t.Errorf("expected empty name to be none, got %s, %v", p, err)
	}
	if _, err := ParsePolicy("strict"); !IsConfigError(err) {
		t.Errorf("expected config error, got %v", err)
	}
	if s := Policy(9).String(); s != "Policy(9)" {
		t.Errorf("unexpected string for unknown policy: %s", s)
	}
}
