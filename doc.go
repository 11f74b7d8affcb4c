// Package treemask compares a data tree against a mask describing the shape
// the tree is expected to have, and reports where the two disagree.
//
// Trees are the go types created by unmarshaling JSON or YAML, which are two
// complex types:
//   map[string]interface{}
//   []interface{}
// and the scalar types:
//   string, int, float64, bool, nil
// Any map with string keys, any slice or array, and custom types implementing
// Mapper or Sequencer are treated the same way, so documents decoded from
// other formats can be compared too. Numbers are one kind: int64(2),
// float64(2) and json.Number("2.0") are equal.
//
// A mask is a partial description of a tree. Keys the mask does not name are
// ignored. Besides literal values a mask may hold:
//   PresentMarker   the key must exist, any value will do
//   AbsentMarker    the key must not exist
//   [WildcardMarker] any sequence; as the last element of a sequence mask it
//                    accepts any tail
//   Predicate       a func(interface{}) bool the tree value must satisfy
//   *SetMask        an unordered sequence whose elements are matched by key
//
// Compare walks tree and mask depth-first, left to right, and returns a flat
// list of Diffs. An empty list means the tree matches:
//
//   diffs, err := treemask.Compare(tree, map[string]interface{}{
//     "id":    treemask.PresentMarker,
//     "owner": treemask.AbsentMarker,
//     "tags":  []interface{}{"a", treemask.WildcardMarker},
//   })
//
// Where a Diff refers to something that does not exist, sentinel markers
// stand in for the value: Missing for a tree value that isn't there, Absent
// for a mask that demands absence, PredicateMarker for a failed predicate
// and DuplicateKeys for set masks whose key function is ambiguous.
//
// Map and sequence masks only recurse when the configured TypeComparer
// accepts the tree value's runtime type. The default, None, accepts anything.
package treemask
