// Package fixture decodes YAML or JSON documents into trees and masks for
// treemask, so expectations can live in fixture files next to the data they
// check.
//
// In a mask document the strings ":+", ":-" and ":*" become
// treemask.PresentMarker, AbsentMarker and WildcardMarker. Tag a string with
// !!str to keep it literal. Two local tags extend the vocabulary:
//
//   parts: !set         # unordered, elements paired by the "sku" field
//     key: sku
//     items:
//       - {sku: x1, qty: 2}
//       - ":*"
//   name: !regexp ^wid  # any string matching the expression
//
// JSON is valid YAML, so JSON fixtures work unchanged, without the tags.
package fixture

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"regexp"
	"strings"

	"github.com/qri-io/treemask"
	yaml "gopkg.in/yaml.v3"
)

const (
	setTag    = "!set"
	regexpTag = "!regexp"
)

var bigInt = regexp.MustCompile(`^[-+]?[0-9]+$`)

// DecodeTree decodes a YAML or JSON document into a tree of
// map[string]interface{}, []interface{} and scalars. Integers too large for
// int64 are kept exactly as json.Number
func DecodeTree(data []byte) (interface{}, error) {
	return decode(data, false)
}

// DecodeMask decodes a YAML or JSON document into a mask
func DecodeMask(data []byte) (treemask.Mask, error) {
	v, err := decode(data, true)
	if err != nil {
		return nil, err
	}
	return treemask.MaskOf(v), nil
}

// ReadTree reads & decodes a tree file
func ReadTree(path string) (interface{}, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	tree, err := DecodeTree(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return tree, nil
}

// ReadMask reads & decodes a mask file
func ReadMask(path string) (treemask.Mask, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	mask, err := DecodeMask(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return mask, nil
}

func decode(data []byte, mask bool) (interface{}, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("fixture: %w", err)
	}
	if doc.Kind == 0 {
		return nil, fmt.Errorf("fixture: empty document")
	}
	d := &decoder{mask: mask}
	return d.node(&doc)
}

// decoder converts yaml nodes to tree values. when mask is true marker
// spellings & local tags are interpreted
type decoder struct {
	mask bool
}

func (d *decoder) node(n *yaml.Node) (interface{}, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return d.node(n.Content[0])
	case yaml.AliasNode:
		return d.node(n.Alias)
	case yaml.MappingNode:
		if d.mask && n.Tag == setTag {
			return d.set(n)
		}
		return d.mapping(n)
	case yaml.SequenceNode:
		items := make([]interface{}, len(n.Content))
		for i, ch := range n.Content {
			v, err := d.node(ch)
			if err != nil {
				return nil, err
			}
			items[i] = v
		}
		return items, nil
	case yaml.ScalarNode:
		return d.scalar(n)
	}
	return nil, posErr(n, "unexpected node kind %d", n.Kind)
}

func (d *decoder) mapping(n *yaml.Node) (map[string]interface{}, error) {
	m := make(map[string]interface{}, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		if k.Kind != yaml.ScalarNode {
			return nil, posErr(k, "map keys must be scalars")
		}
		if _, dup := m[k.Value]; dup {
			return nil, posErr(k, "duplicate key %q", k.Value)
		}
		val, err := d.node(v)
		if err != nil {
			return nil, err
		}
		m[k.Value] = val
	}
	return m, nil
}

// set decodes a !set mapping with "key" & "items" fields into a set mask
func (d *decoder) set(n *yaml.Node) (interface{}, error) {
	fields, err := d.mapping(n)
	if err != nil {
		return nil, err
	}
	key, ok := fields["key"].(string)
	if !ok || key == "" {
		return nil, posErr(n, "%s needs a string \"key\" field", setTag)
	}
	items, ok := fields["items"].([]interface{})
	if !ok {
		if fields["items"] != nil {
			return nil, posErr(n, "%s \"items\" must be a sequence", setTag)
		}
		items = []interface{}{}
	}

	for _, it := range items {
		if it == treemask.WildcardMarker {
			continue
		}
		m, ok := it.(map[string]interface{})
		if !ok {
			return nil, posErr(n, "%s items must be maps", setTag)
		}
		if _, ok := m[key]; !ok {
			return nil, posErr(n, "%s item has no %q field", setTag, key)
		}
	}

	set := treemask.NewSetMask(items, treemask.ByField(key))
	if err := set.Validate(); err != nil {
		return nil, posErr(n, "%s", err)
	}
	return set, nil
}

func (d *decoder) scalar(n *yaml.Node) (interface{}, error) {
	if d.mask {
		if n.Tag == regexpTag {
			re, err := regexp.Compile(n.Value)
			if err != nil {
				return nil, posErr(n, "%s", err)
			}
			return treemask.Predicate(func(v interface{}) bool {
				s, ok := v.(string)
				return ok && re.MatchString(s)
			}), nil
		}
		if n.Style&yaml.TaggedStyle == 0 && n.ShortTag() == "!!str" {
			switch m := treemask.Marker(n.Value); m {
			case treemask.PresentMarker, treemask.AbsentMarker, treemask.WildcardMarker:
				return m, nil
			}
		}
	}

	switch n.ShortTag() {
	case "!!null":
		return nil, nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, posErr(n, "%s", err)
		}
		return b, nil
	case "!!int", "!!float":
		if n.ShortTag() == "!!int" {
			var i int64
			if err := n.Decode(&i); err == nil {
				return i, nil
			}
		}
		// integers past int64 keep every digit
		if bigInt.MatchString(n.Value) {
			return json.Number(strings.TrimPrefix(n.Value, "+")), nil
		}
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, posErr(n, "%s", err)
		}
		return f, nil
	}
	return n.Value, nil
}

func posErr(n *yaml.Node, format string, args ...interface{}) error {
	return fmt.Errorf("fixture: line %d column %d: %s", n.Line, n.Column, fmt.Sprintf(format, args...))
}
