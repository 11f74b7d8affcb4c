package treemask

import (
	"fmt"
	"sort"

	"github.com/cockroachdb/apd"
)

// Marker is a sentinel spelling. Markers are a distinct type so they never
// collide with ordinary strings in a tree
type Marker string

const (
	// PresentMarker in a mask requires the tree value to exist
	PresentMarker = Marker(":+")
	// AbsentMarker in a mask requires the tree value to not exist
	AbsentMarker = Marker(":-")
	// WildcardMarker as the last element of a sequence mask accepts any
	// remaining tree elements. In a set mask's items it allows tree elements
	// the mask doesn't list. []interface{}{WildcardMarker} matches any sequence
	WildcardMarker = Marker(":*")

	// Missing stands in for a tree value that does not exist
	Missing = Marker("__missing__")
	// Absent stands in for a mask that requires the value to not exist
	Absent = Marker("__absent__")
	// PredicateMarker stands in for a predicate mask in diff output
	PredicateMarker = Marker("__predicate__")
	// DuplicateKeys heads the value reported when a set mask's key function
	// maps two elements to the same key
	DuplicateKeys = Marker("__duplicate_keys__")
)

// Mask describes how to interpret one position of a tree. Mask is a closed
// set of types: Literal, Predicate, Marker, Tail, *SetMask, MapMask and SeqMask
type Mask interface {
	mask()
}

// Literal requires the tree value to equal Value. Map and sequence literals
// are compared the same way as the MapMask or SeqMask built from them
type Literal struct {
	Value interface{}
}

// Predicate requires the function to return true for the tree value. The
// predicate is called with Missing when the value does not exist
type Predicate func(tree interface{}) bool

// Tail matches any sequence
type Tail struct{}

// MapMask requires a map-like tree value and compares each named field.
// Tree keys the mask doesn't name are ignored
type MapMask struct {
	Fields map[string]Mask
	// Proto is the value the mask was built from, if it has a type of its
	// own. Type comparers inspect it. nil means map[string]interface{}
	Proto interface{}
}

// SeqMask requires a sequence-like tree value and compares elements pairwise
// by position
type SeqMask struct {
	Items []Mask
	// Proto is the value the mask was built from, if it has a type of its
	// own. nil means []interface{}
	Proto interface{}
}

func (Literal) mask()   {}
func (Predicate) mask() {}
func (Marker) mask()    {}
func (Tail) mask()      {}
func (MapMask) mask()   {}
func (SeqMask) mask()   {}
func (*SetMask) mask()  {}

func (m MapMask) prototype() interface{} {
	if m.Proto != nil {
		return m.Proto
	}
	return map[string]interface{}{}
}

func (m SeqMask) prototype() interface{} {
	if m.Proto != nil {
		return m.Proto
	}
	return []interface{}{}
}

// MaskOf converts literal data into a Mask. Maps become MapMasks, sequences
// become SeqMasks, a sequence holding only WildcardMarker becomes Tail and a
// func(interface{}) bool becomes a Predicate. Masks pass through unchanged,
// anything else is a Literal
func MaskOf(v interface{}) Mask {
	switch x := v.(type) {
	case Mask:
		return x
	case func(interface{}) bool:
		return Predicate(x)
	}

	switch typeOf(v) {
	case ntMap:
		m := MapMask{Fields: map[string]Mask{}}
		if _, plain := v.(map[string]interface{}); !plain {
			m.Proto = v
		}
		for _, k := range mapKeys(v) {
			val, _ := mapGet(v, k)
			m.Fields[k] = MaskOf(val)
		}
		return m
	case ntSeq:
		items := seqItems(v)
		if len(items) == 1 && isWildcard(items[0]) {
			return Tail{}
		}
		m := SeqMask{Items: make([]Mask, len(items))}
		if _, plain := v.([]interface{}); !plain {
			m.Proto = v
		}
		for i, item := range items {
			m.Items[i] = MaskOf(item)
		}
		return m
	}
	return Literal{Value: v}
}

func isWildcard(v interface{}) bool {
	m, ok := v.(Marker)
	return ok && m == WildcardMarker
}

// render turns a mask back into plain data for diff output. predicates
// render as PredicateMarker so diffs can be compared with ==
func render(m Mask) interface{} {
	switch x := m.(type) {
	case Literal:
		if t := typeOf(x.Value); t == ntMap || t == ntSeq {
			return render(MaskOf(x.Value))
		}
		return x.Value
	case Predicate:
		return PredicateMarker
	case Marker:
		return x
	case Tail:
		return []interface{}{WildcardMarker}
	case *SetMask:
		return renderValues(x.Items)
	case MapMask:
		if x.Proto != nil {
			return x.Proto
		}
		fields := make(map[string]interface{}, len(x.Fields))
		for k, f := range x.Fields {
			fields[k] = render(f)
		}
		return fields
	case SeqMask:
		if x.Proto != nil {
			return x.Proto
		}
		return renderAll(x.Items)
	}
	return nil
}

func renderAll(ms []Mask) []interface{} {
	vals := make([]interface{}, len(ms))
	for i, m := range ms {
		vals[i] = render(m)
	}
	return vals
}

func renderValues(vs []interface{}) []interface{} {
	vals := make([]interface{}, len(vs))
	for i, v := range vs {
		vals[i] = render(MaskOf(v))
	}
	return vals
}

// KeyFunc derives the identity of a set element. A returned error aborts
// the comparison
type KeyFunc func(item interface{}) (string, error)

// SetMask compares a sequence without regard to order, pairing tree and mask
// elements that share a key. Unless Items contains WildcardMarker, tree
// elements whose key the mask doesn't list are reported
type SetMask struct {
	Items []interface{}
	Key   KeyFunc
}

// NewSetMask creates a set mask
func NewSetMask(items []interface{}, key KeyFunc) *SetMask {
	return &SetMask{Items: items, Key: key}
}

// Validate checks the mask is well formed: it needs a key function and at
// most one WildcardMarker
func (s *SetMask) Validate() error {
	_, _, err := s.split()
	return err
}

// split separates the wildcard marker from the items. strict is true if
// there was no marker
func (s *SetMask) split() (items []interface{}, strict bool, err error) {
	if s.Key == nil {
		return nil, false, &Error{Code: ErrKeyFunc, Message: "set mask has no key function"}
	}
	wildcards := 0
	items = make([]interface{}, 0, len(s.Items))
	for _, item := range s.Items {
		if isWildcard(item) {
			wildcards++
			continue
		}
		items = append(items, item)
	}
	if wildcards > 1 {
		return nil, false, &Error{Code: ErrWildcards, Message: fmt.Sprintf("set mask has %d wildcards, at most one is allowed", wildcards)}
	}
	return items, wildcards == 0, nil
}

// NoKey is the key ByField gives elements that aren't maps or lack the field.
// Keyless tree elements are reported like any other element: as extras, as
// duplicates, or paired with a keyless mask element
const NoKey = "__no_key__"

// ByField returns a KeyFunc that identifies map-like elements by the value of
// one field. Numbers that compare equal yield the same key
func ByField(name string) KeyFunc {
	return func(item interface{}) (string, error) {
		var (
			val interface{}
			ok  bool
		)
		switch x := item.(type) {
		case MapMask:
			var f Mask
			if f, ok = x.Fields[name]; ok {
				val = render(f)
			}
		default:
			if typeOf(item) == ntMap {
				val, ok = mapGet(item, name)
			}
		}
		if !ok {
			return NoKey, nil
		}
		return keyString(val), nil
	}
}

// keyString formats a key field value. numbers are reduced to their shortest
// exact decimal form so 1, 1.0 & json.Number("1.00") share a key
func keyString(v interface{}) string {
	switch x := v.(type) {
	case string:
		return x
	case Marker:
		return string(x)
	}
	if typeOf(v) == ntNumber {
		if d, ok := decimalOf(v); ok {
			if d.Form != apd.Finite {
				return d.Text('f')
			}
			if d.Sign() == 0 {
				return "0"
			}
			d.Reduce(d)
			return d.Text('f')
		}
	}
	return fmt.Sprint(v)
}

// duplicates returns the sorted keys that occur more than once
func duplicates(keys []string) []string {
	counts := map[string]int{}
	for _, k := range keys {
		counts[k]++
	}
	var dups []string
	for k, n := range counts {
		if n > 1 {
			dups = append(dups, k)
		}
	}
	sort.Strings(dups)
	return dups
}
