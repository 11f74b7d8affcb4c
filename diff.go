package treemask

import (
	"encoding/json"
	"fmt"
)

// Kind classifies a Diff
type Kind string

const (
	// KindMismatch means the tree value doesn't match the mask
	KindMismatch = Kind("~")
	// KindMissing means the mask expects a value the tree doesn't have
	KindMissing = Kind("-")
	// KindUnexpected means the tree has a value the mask says must be absent
	KindUnexpected = Kind("+")
	// KindPredicate means a predicate mask rejected the tree value
	KindPredicate = Kind("?")
	// KindDuplicateKeys means a set mask's key function is ambiguous for
	// the tree or the mask
	KindDuplicateKeys = Kind("!")
)

// Diff is one place where a tree deviates from a mask
type Diff struct {
	// Path joins the map keys and sequence indices leading from the root to
	// the deviation. The root itself is ""
	Path string `json:"path"`
	// Tree is the offending tree value, or Missing
	Tree interface{} `json:"tree"`
	// Mask is the offending mask as plain data, or one of Absent,
	// PredicateMarker or a DuplicateKeys report
	Mask interface{} `json:"mask"`
}

// Kind classifies d by the sentinels it carries
func (d Diff) Kind() Kind {
	switch {
	case isDuplicateReport(d.Tree) || isDuplicateReport(d.Mask):
		return KindDuplicateKeys
	case d.Mask == interface{}(PredicateMarker):
		return KindPredicate
	case isMissing(d.Tree):
		return KindMissing
	case d.Mask == interface{}(Absent):
		return KindUnexpected
	}
	return KindMismatch
}

// MarshalJSON implements a custom JSON Marshaller. values JSON can't encode,
// like NaN, are written as their fmt string
func (d Diff) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Path string          `json:"path"`
		Tree json.RawMessage `json:"tree"`
		Mask json.RawMessage `json:"mask"`
	}{d.Path, jsonValue(d.Tree), jsonValue(d.Mask)})
}

func jsonValue(v interface{}) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		data, _ = json.Marshal(fmt.Sprint(v))
	}
	return data
}

func isDuplicateReport(v interface{}) bool {
	report, ok := v.([]interface{})
	return ok && len(report) == 2 && report[0] == interface{}(DuplicateKeys)
}

// Diffs is the ordered result of a comparison. An empty Diffs means the tree
// matches the mask
type Diffs []Diff

// Match is true if there are no diffs
func (ds Diffs) Match() bool {
	return len(ds) == 0
}

// Filter returns the diffs of kind k, in order
func (ds Diffs) Filter(k Kind) Diffs {
	var filtered Diffs
	for _, d := range ds {
		if d.Kind() == k {
			filtered = append(filtered, d)
		}
	}
	return filtered
}
