package treemask

import (
	"encoding/json"
	"math"
	"reflect"
	"sort"
	"strconv"

	"github.com/cockroachdb/apd"
	"github.com/google/go-cmp/cmp"
)

// nodeType defines all of the atoms in our universe, or the types of data we
// will encounter while comparing a tree
type nodeType uint8

const (
	// ntUnknown is an opaque leaf, compared with cmp.Equal
	ntUnknown nodeType = iota
	ntMap
	ntSeq
	ntString
	ntNumber
	ntBool
	ntNull
	ntMarker
)

func (nt nodeType) String() string {
	switch nt {
	case ntMap:
		return "Map"
	case ntSeq:
		return "Sequence"
	case ntString:
		return "String"
	case ntNumber:
		return "Number"
	case ntBool:
		return "Bool"
	case ntNull:
		return "Null"
	case ntMarker:
		return "Marker"
	default:
		return "Unknown"
	}
}

// Mapper is implemented by custom tree values that should be compared like a
// map. Keys lists every key, Get looks one up
type Mapper interface {
	Keys() []string
	Get(key string) (interface{}, bool)
}

// Sequencer is implemented by custom tree values that should be compared like
// a sequence
type Sequencer interface {
	Len() int
	Index(i int) interface{}
}

func typeOf(v interface{}) nodeType {
	switch v.(type) {
	case nil:
		return ntNull
	case Marker:
		return ntMarker
	case map[string]interface{}, Mapper:
		return ntMap
	case []interface{}, Sequencer:
		return ntSeq
	case string:
		return ntString
	case bool:
		return ntBool
	case json.Number, float64, float32, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64:
		return ntNumber
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() == reflect.String {
			return ntMap
		}
	case reflect.Slice, reflect.Array:
		return ntSeq
	case reflect.String:
		return ntString
	case reflect.Bool:
		return ntBool
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return ntNumber
	}
	return ntUnknown
}

func isMissing(v interface{}) bool {
	m, ok := v.(Marker)
	return ok && m == Missing
}

// mapKeys lists the keys of a map-like value in sorted order
func mapKeys(v interface{}) []string {
	var keys []string
	switch x := v.(type) {
	case map[string]interface{}:
		keys = make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
	case Mapper:
		keys = append(keys, x.Keys()...)
	default:
		iter := reflect.ValueOf(v).MapRange()
		for iter.Next() {
			keys = append(keys, iter.Key().String())
		}
	}
	sort.Strings(keys)
	return keys
}

// mapGet looks up key in a map-like value
func mapGet(v interface{}, key string) (interface{}, bool) {
	switch x := v.(type) {
	case map[string]interface{}:
		val, ok := x[key]
		return val, ok
	case Mapper:
		return x.Get(key)
	}

	rv := reflect.ValueOf(v)
	val := rv.MapIndex(reflect.ValueOf(key).Convert(rv.Type().Key()))
	if !val.IsValid() {
		return nil, false
	}
	return val.Interface(), true
}

// seqItems flattens a sequence-like value. The returned slice may share
// storage with v and must not be written to
func seqItems(v interface{}) []interface{} {
	switch x := v.(type) {
	case []interface{}:
		return x
	case Sequencer:
		items := make([]interface{}, x.Len())
		for i := range items {
			items[i] = x.Index(i)
		}
		return items
	}

	rv := reflect.ValueOf(v)
	items := make([]interface{}, rv.Len())
	for i := range items {
		items[i] = rv.Index(i).Interface()
	}
	return items
}

// scalarEqual reports whether a tree value equals a scalar mask value.
// markers only ever equal themselves, numbers compare by value
func scalarEqual(tree, mask interface{}) bool {
	tt, mt := typeOf(tree), typeOf(mask)
	if tt != mt {
		return false
	}

	switch tt {
	case ntNull:
		return true
	case ntMarker:
		return tree.(Marker) == mask.(Marker)
	case ntBool:
		return reflect.ValueOf(tree).Bool() == reflect.ValueOf(mask).Bool()
	case ntString:
		return reflect.ValueOf(tree).String() == reflect.ValueOf(mask).String()
	case ntNumber:
		return numberEqual(tree, mask)
	default:
		return cmp.Equal(tree, mask, exportAll)
	}
}

// exportAll lets cmp.Equal look at unexported fields of opaque leaves
// instead of panicking on them
var exportAll = cmp.Exporter(func(reflect.Type) bool { return true })

// numberEqual compares two numeric values by exact decimal value, so
// int64(1), float64(1) and json.Number("1.0") are all equal
func numberEqual(a, b interface{}) bool {
	af, aIsFloat := floatOf(a)
	bf, bIsFloat := floatOf(b)
	if (aIsFloat && nonFinite(af)) || (bIsFloat && nonFinite(bf)) {
		// NaN and ±Inf have no decimal form
		return aIsFloat && bIsFloat && af == bf
	}

	ad, ok := decimalOf(a)
	if !ok {
		return false
	}
	bd, ok := decimalOf(b)
	if !ok {
		return false
	}
	return ad.Cmp(bd) == 0
}

func nonFinite(f float64) bool {
	return math.IsNaN(f) || math.IsInf(f, 0)
}

func floatOf(v interface{}) (float64, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}

// decimalOf converts any numeric value to an apd decimal
func decimalOf(v interface{}) (*apd.Decimal, bool) {
	d := new(apd.Decimal)
	var s string

	switch x := v.(type) {
	case json.Number:
		s = string(x)
	default:
		rv := reflect.ValueOf(v)
		switch rv.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return d.SetInt64(rv.Int()), true
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
			s = strconv.FormatUint(rv.Uint(), 10)
		case reflect.Float32:
			s = strconv.FormatFloat(rv.Float(), 'g', -1, 32)
		case reflect.Float64:
			s = strconv.FormatFloat(rv.Float(), 'g', -1, 64)
		default:
			return nil, false
		}
	}

	if _, _, err := d.SetString(s); err != nil {
		return nil, false
	}
	return d, true
}
