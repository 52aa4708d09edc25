package treepatch

import (
	"fmt"
)

// DefaultMaxDepth is the nesting depth Diff & DiffOfPartialUpdate will
// descend to before giving up with ErrMaxDepth
const DefaultMaxDepth = 1000

// IgnoreFunc reports whether a mapping key should be left out of a diff.
// path is the RFC 6901 pointer of the mapping that holds key, "" for the root
type IgnoreFunc func(path, key string) bool

// DiffConfig are any possible configuration parameters for calculating diffs
type DiffConfig struct {
	// IgnoreKeys are skipped in mappings at every depth. Matching is on the
	// key name alone, not on its path
	IgnoreKeys map[string]bool
	// Ignore, if non-nil, is consulted for every mapping key not already in
	// IgnoreKeys
	Ignore IgnoreFunc
	// MaxDepth bounds recursion into nested values. Zero means DefaultMaxDepth
	MaxDepth int
	// Provide a non-nil stats pointer & diff will populate it with data from
	// the diff process
	Stats *Stats
}

// DiffOption is a function that adjust a config, zero or more DiffOptions
// can be passed to the Diff function
type DiffOption func(cfg *DiffConfig)

// OptionIgnoreKeys skips the named mapping keys at every depth
func OptionIgnoreKeys(keys ...string) DiffOption {
	return func(cfg *DiffConfig) {
		if cfg.IgnoreKeys == nil {
			cfg.IgnoreKeys = map[string]bool{}
		}
		for _, k := range keys {
			cfg.IgnoreKeys[k] = true
		}
	}
}

// OptionIgnore installs a path-aware ignore predicate
func OptionIgnore(fn IgnoreFunc) DiffOption {
	return func(cfg *DiffConfig) {
		cfg.Ignore = fn
	}
}

// OptionMaxDepth sets the maximum nesting depth
func OptionMaxDepth(depth int) DiffOption {
	return func(cfg *DiffConfig) {
		cfg.MaxDepth = depth
	}
}

// OptionSetStats will set the passed-in stats pointer when Diff is called
func OptionSetStats(st *Stats) DiffOption {
	return func(cfg *DiffConfig) {
		cfg.Stats = st
	}
}

func newConfig(opts []DiffOption) *DiffConfig {
	cfg := &DiffConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = DefaultMaxDepth
	}
	return cfg
}

func (cfg *DiffConfig) ignored(path, key string) bool {
	if cfg.IgnoreKeys[key] {
		return true
	}
	return cfg.Ignore != nil && cfg.Ignore(path, key)
}

func (cfg *DiffConfig) checkDepth(path string, depth int) error {
	if depth > cfg.MaxDepth {
		return fmt.Errorf("%w at %s (limit %d)", ErrMaxDepth, path, cfg.MaxDepth)
	}
	return nil
}

// Diff computes the Difference that turns source into target, or nil if the
// two are equal.
//
// A nil source produces Insert(target), a nil target produces Remove(source).
// Two mappings are compared key by key, two sequences position by position
// with any length difference reported as a tail of Inserts or Removes. Numbers
// compare as 64-bit floats if either side is floating point, as 64-bit
// integers otherwise. Any other inequality, including values of different
// shapes, is an Update.
//
// Diff returns a TypeMismatchError for values that aren't one of the
// supported tree types
func Diff(source, target interface{}, opts ...DiffOption) (Difference, error) {
	cfg := newConfig(opts)
	d := &differ{cfg: cfg}

	dt, err := d.diff(source, target, "", 0, true)
	if err != nil {
		return nil, err
	}

	if cfg.Stats != nil {
		cfg.Stats.Left += countNodes(source)
		cfg.Stats.Right += countNodes(target)
		cfg.Stats.add(dt)
	}
	return dt, nil
}

// differ holds state for calculating a diff
type differ struct {
	cfg *DiffConfig
}

func (d *differ) diff(source, target interface{}, path string, depth int, root bool) (Difference, error) {
	if err := d.cfg.checkDepth(path, depth); err != nil {
		return nil, err
	}

	sk, tk := KindOf(source), KindOf(target)
	if sk == KindUnknown {
		return nil, mismatch(path, source, nil, "unsupported source value")
	}
	if tk == KindUnknown {
		return nil, mismatch(path, target, nil, "unsupported target value")
	}

	// only a missing root is an insert or remove. nested nulls are present
	// values, handled as scalars below
	if root {
		switch {
		case sk == KindNull && tk == KindNull:
			return nil, nil
		case sk == KindNull:
			return Insert{Value: target}, nil
		case tk == KindNull:
			return Remove{Value: source}, nil
		}
	}

	switch {
	case sk == KindMapping && tk == KindMapping:
		return d.diffMap(source.(map[string]interface{}), target.(map[string]interface{}), path, depth)
	case sk == KindSequence && tk == KindSequence:
		return d.diffList(source.([]interface{}), target.([]interface{}), path, depth)
	case sk == KindNumber && tk == KindNumber:
		if source == target || numbersEqual(source, target) {
			return nil, nil
		}
	case sk == tk && sk != KindMapping && sk != KindSequence:
		if source == target {
			return nil, nil
		}
	}

	return Update{Old: source, New: target}, nil
}

func (d *differ) diffMap(source, target map[string]interface{}, path string, depth int) (Difference, error) {
	dm := DiffMap{}

	for key, sv := range source {
		if d.cfg.ignored(path, key) {
			continue
		}
		tv, ok := target[key]
		if !ok {
			dm[key] = Remove{Value: sv}
			continue
		}
		ch, err := d.diff(sv, tv, AppendPointer(path, key), depth+1, false)
		if err != nil {
			return nil, err
		}
		if ch != nil {
			dm[key] = ch
		}
	}

	for key, tv := range target {
		if _, ok := source[key]; ok || d.cfg.ignored(path, key) {
			continue
		}
		dm[key] = Insert{Value: tv}
	}

	if len(dm) == 0 {
		return nil, nil
	}
	return dm, nil
}

func (d *differ) diffList(source, target []interface{}, path string, depth int) (Difference, error) {
	minLen, maxLen := len(source), len(target)
	if minLen > maxLen {
		minLen, maxLen = maxLen, minLen
	}

	entries := make([]Difference, 0, maxLen)
	modified := false

	// the items we find in both lists
	for i := 0; i < minLen; i++ {
		ch, err := d.diff(source[i], target[i], appendIndex(path, i), depth+1, false)
		if err != nil {
			return nil, err
		}
		if ch != nil {
			modified = true
		}
		entries = append(entries, ch)
	}

	if len(source) > len(target) {
		for i := minLen; i < maxLen; i++ {
			entries = append(entries, Remove{Value: source[i]})
		}
		modified = true
	} else if len(target) > len(source) {
		for i := minLen; i < maxLen; i++ {
			entries = append(entries, Insert{Value: target[i]})
		}
		modified = true
	}

	if !modified {
		return nil, nil
	}
	return DiffList{Entries: entries, OriginalLength: len(source), NewLength: len(target)}, nil
}
