package treemask

import (
	"fmt"
	"reflect"
	"strings"
)

// TypeComparer decides whether a map or sequence mask may recurse into a tree
// value. mask is the value the mask was built from
type TypeComparer func(tree, mask interface{}) bool

var (
	// None accepts every tree value. Shape mismatches still surface as diffs
	None TypeComparer = func(tree, mask interface{}) bool { return true }

	// Exact requires tree and mask to have the same Go type
	Exact TypeComparer = func(tree, mask interface{}) bool {
		return reflect.TypeOf(tree) == reflect.TypeOf(mask)
	}

	// Subtype requires the tree's type to be the mask's type, assignable to
	// it, or a struct embedding it. Any map-like tree is accepted by a mask
	// built from a Go map
	Subtype TypeComparer = func(tree, mask interface{}) bool {
		tt, mt := reflect.TypeOf(tree), reflect.TypeOf(mask)
		if tt == nil || mt == nil {
			return tt == mt
		}
		if tt == mt || tt.AssignableTo(mt) || embeds(tt, mt, map[reflect.Type]bool{}) {
			return true
		}
		return mt.Kind() == reflect.Map && typeOf(tree) == ntMap
	}
)

// embeds reports whether struct type t embeds target, directly or through
// other embedded fields
func embeds(t, target reflect.Type, seen map[reflect.Type]bool) bool {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct || seen[t] {
		return false
	}
	seen[t] = true

	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.Anonymous {
			continue
		}
		if f.Type == target || embeds(f.Type, target, seen) {
			return true
		}
	}
	return false
}

// Policy names one of the predefined type comparers
type Policy uint8

const (
	// PolicyNone selects None
	PolicyNone Policy = iota
	// PolicyExact selects Exact
	PolicyExact
	// PolicySubtype selects Subtype
	PolicySubtype
)

func (p Policy) String() string {
	switch p {
	case PolicyNone:
		return "none"
	case PolicyExact:
		return "exact"
	case PolicySubtype:
		return "subtype"
	default:
		return fmt.Sprintf("Policy(%d)", uint8(p))
	}
}

// Comparer returns the type comparer p names. Unknown policies fall back to
// None
func (p Policy) Comparer() TypeComparer {
	switch p {
	case PolicyExact:
		return Exact
	case PolicySubtype:
		return Subtype
	default:
		return None
	}
}

// ParsePolicy looks up a policy by name, ignoring case. The empty string is
// PolicyNone
func ParsePolicy(name string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "none":
		return PolicyNone, nil
	case "exact":
		return PolicyExact, nil
	case "subtype":
		return PolicySubtype, nil
	}
	return PolicyNone, &Error{Code: ErrUnknownPolicy, Message: fmt.Sprintf("unknown type comparer policy %q", name)}
}
