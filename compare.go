package treemask

import (
	"sort"
	"strconv"
	"strings"
)

// Compare reports where tree deviates from mask. mask may be a Mask or
// literal data, which is converted with MaskOf. The error return is reserved
// for malformed masks: mismatches are always Diffs
func Compare(tree, mask interface{}, opts ...Option) (Diffs, error) {
	return New(opts...).Compare(tree, mask)
}

// Config are any possible configuration parameters for comparing trees
type Config struct {
	// TypeComparer gates recursion of map & sequence masks. default None
	TypeComparer TypeComparer
	// Separator joins diff path segments. default "/"
	Separator string
	// Provide a non-nil stats pointer & Compare will add data from each
	// comparison to it
	Stats *Stats
}

// Option is a function that adjusts a config, zero or more Options can be
// passed to New or Compare
type Option func(cfg *Config)

// OptionTypeComparer sets the type comparer
func OptionTypeComparer(tc TypeComparer) Option {
	return func(cfg *Config) {
		cfg.TypeComparer = tc
	}
}

// OptionPolicy sets the type comparer to a predefined policy
func OptionPolicy(p Policy) Option {
	return func(cfg *Config) {
		cfg.TypeComparer = p.Comparer()
	}
}

// OptionPathSeparator sets the string diff paths are joined with
func OptionPathSeparator(sep string) Option {
	return func(cfg *Config) {
		cfg.Separator = sep
	}
}

// OptionSetStats will populate the passed-in stats pointer when Compare is
// called. A Comparer holding stats must not be shared between goroutines
func OptionSetStats(st *Stats) Option {
	return func(cfg *Config) {
		cfg.Stats = st
	}
}

// Comparer compares trees to masks. A Comparer holds no state between calls
// and, unless it collects Stats, is safe for concurrent use
type Comparer struct {
	cfg *Config
}

// New creates a Comparer
func New(opts ...Option) *Comparer {
	cfg := &Config{
		TypeComparer: None,
		Separator:    "/",
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.TypeComparer == nil {
		cfg.TypeComparer = None
	}
	return &Comparer{cfg: cfg}
}

// Compare reports where tree deviates from mask
func (c *Comparer) Compare(tree, mask interface{}) (Diffs, error) {
	if mask == nil {
		return nil, &Error{Code: ErrNilMask, Message: "no mask given"}
	}

	w := &walker{cfg: c.cfg, stats: c.cfg.Stats, diffs: Diffs{}}
	if err := w.compare(tree, MaskOf(mask), nil); err != nil {
		return nil, err
	}
	return w.diffs, nil
}

// walker carries the output of a single comparison
type walker struct {
	cfg   *Config
	stats *Stats
	diffs Diffs
}

// compare applies mask m to the tree value at path. The first case that
// applies wins
func (w *walker) compare(tree interface{}, m Mask, path []string) error {
	if w.stats != nil {
		w.stats.Positions++
	}
	return w.apply(tree, m, path)
}

// apply dispatches on the mask variant without counting a position
func (w *walker) apply(tree interface{}, m Mask, path []string) error {
	switch x := m.(type) {
	case Tail:
		if typeOf(tree) != ntSeq {
			w.emit(path, tree, render(x))
		}
	case Marker:
		switch x {
		case PresentMarker:
			if isMissing(tree) {
				w.emit(path, tree, x)
			}
		case AbsentMarker:
			if !isMissing(tree) {
				w.emit(path, tree, Absent)
			}
		default:
			if !scalarEqual(tree, x) {
				w.emit(path, tree, x)
			}
		}
	case Predicate:
		if w.stats != nil {
			w.stats.Predicates++
		}
		if !x(tree) {
			w.emit(path, tree, PredicateMarker)
		}
	case *SetMask:
		return w.compareSet(tree, x, path)
	case MapMask:
		return w.compareMap(tree, x, path)
	case SeqMask:
		return w.compareSeq(tree, x, path)
	case Literal:
		switch typeOf(x.Value) {
		case ntMap, ntSeq:
			return w.apply(tree, MaskOf(x.Value), path)
		}
		if !scalarEqual(tree, x.Value) {
			w.emit(path, tree, x.Value)
		}
	case nil:
		return &Error{Code: ErrNilMask, Path: w.join(path), Message: "nil mask"}
	}
	return nil
}

// compareMap compares every field the mask names, in sorted key order. tree
// keys the mask doesn't name are never visited
func (w *walker) compareMap(tree interface{}, m MapMask, path []string) error {
	if typeOf(tree) != ntMap || !w.cfg.TypeComparer(tree, m.prototype()) {
		w.emit(path, tree, render(m))
		return nil
	}

	for _, k := range sortedFields(m.Fields) {
		sub, ok := mapGet(tree, k)
		if !ok {
			sub = Missing
		}
		if err := w.compare(sub, m.Fields[k], pushPath(path, k)); err != nil {
			return err
		}
	}
	return nil
}

// compareSeq compares sequences pairwise by position. whichever side runs
// out first has the rest of the other side reported as a single diff, unless
// the mask ends in WildcardMarker
func (w *walker) compareSeq(tree interface{}, m SeqMask, path []string) error {
	if typeOf(tree) != ntSeq || !w.cfg.TypeComparer(tree, m.prototype()) {
		w.emit(path, tree, render(m))
		return nil
	}

	items := seqItems(tree)
	for i := 0; ; i++ {
		if i == len(m.Items)-1 && isWildcard(m.Items[i]) {
			return nil
		}

		idx := pushPath(path, strconv.Itoa(i))
		switch {
		case i >= len(items) && i >= len(m.Items):
			return nil
		case i >= len(items):
			w.emit(idx, Missing, renderAll(m.Items[i:]))
			return nil
		case i >= len(m.Items):
			w.emit(idx, append([]interface{}{}, items[i:]...), Absent)
			return nil
		}

		if err := w.compare(items[i], m.Items[i], idx); err != nil {
			return err
		}
	}
}

// compareSet pairs tree & mask elements by key, then compares them as if
// they were maps from key to element
func (w *walker) compareSet(tree interface{}, m *SetMask, path []string) error {
	if typeOf(tree) != ntSeq {
		w.emit(path, tree, render(m))
		return nil
	}

	maskItems, strict, err := m.split()
	if err != nil {
		err.(*Error).Path = w.join(path)
		return err
	}
	if w.stats != nil {
		w.stats.Sets++
	}

	treeItems := seqItems(tree)
	treeKeys, err := w.keys(treeItems, m.Key, path)
	if err != nil {
		return err
	}
	maskKeys, err := w.keys(maskItems, m.Key, path)
	if err != nil {
		return err
	}

	// duplicate keys make pairing ambiguous, report them & nothing else
	if dups := duplicates(treeKeys); len(dups) > 0 {
		w.emit(path, []interface{}{DuplicateKeys, dups}, nil)
		return nil
	}
	if dups := duplicates(maskKeys); len(dups) > 0 {
		w.emit(path, nil, []interface{}{DuplicateKeys, dups})
		return nil
	}

	treeByKey := make(map[string]interface{}, len(treeItems))
	for i, k := range treeKeys {
		treeByKey[k] = treeItems[i]
	}
	inMask := make(map[string]bool, len(maskKeys))
	for _, k := range maskKeys {
		inMask[k] = true
	}

	if strict {
		extra := false
		for i, k := range treeKeys {
			if !inMask[k] {
				w.emit(pushPath(path, k), treeItems[i], Absent)
				extra = true
			}
		}
		if extra {
			return nil
		}
	}

	for i, k := range maskKeys {
		sub, ok := treeByKey[k]
		if !ok {
			sub = Missing
		}
		if err := w.compare(sub, MaskOf(maskItems[i]), pushPath(path, k)); err != nil {
			return err
		}
	}
	return nil
}

func (w *walker) keys(items []interface{}, key KeyFunc, path []string) ([]string, error) {
	keys := make([]string, len(items))
	for i, item := range items {
		k, err := key(item)
		if err != nil {
			return nil, &Error{Code: ErrKeyFunc, Path: w.join(path), Message: "set mask key function failed", Cause: err}
		}
		keys[i] = k
	}
	return keys, nil
}

func (w *walker) emit(path []string, tree, mask interface{}) {
	d := Diff{Path: w.join(path), Tree: tree, Mask: mask}
	w.diffs = append(w.diffs, d)
	if w.stats != nil {
		w.stats.count(d)
	}
}

func (w *walker) join(path []string) string {
	return strings.Join(path, w.cfg.Separator)
}

// pushPath returns a copy of path with name appended, so sibling branches
// never share a backing array
func pushPath(path []string, name string) []string {
	p := make([]string, len(path)+1)
	copy(p, path)
	p[len(path)] = name
	return p
}

func sortedFields(fields map[string]Mask) []string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
