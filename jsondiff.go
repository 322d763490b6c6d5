package jsondiff

import (
	"bytes"
	"context"
	"fmt"
	"reflect"
)

const (
	// DefaultMaxDepth is the container nesting depth past which Diff stops
	// recursing and compares remaining subtrees whole
	DefaultMaxDepth = 1000
	// CircularMarker stands in for a value that refers back to one of its
	// own ancestors
	CircularMarker = "[Circular]"
	// UnsupportedMarker stands in for a Go value that has no JSON equivalent
	UnsupportedMarker = "[Unsupported]"
	// TruncatedMarker stands in for a reported value nested too deeply to
	// carry in a change
	TruncatedMarker = "[Truncated]"
)

// Config are any possible configuration parameters for calculating diffs
type Config struct {
	// MaxDepth bounds recursion. zero means DefaultMaxDepth
	MaxDepth int
	// If true Diff emits ChangeUnchanged entries for equal leaves
	Unchanged bool
	// Provide a non-nil stats pointer & diff will populate it with data from
	// the diff process
	Stats *Stats
}

// DiffOption is a function that adjust a config, zero or more DiffOptions
// can be passed to New
type DiffOption func(cfg *Config)

// OptionSetStats will set the passed-in stats pointer when Diff is called
func OptionSetStats(st *Stats) DiffOption {
	return func(cfg *Config) {
		cfg.Stats = st
	}
}

// OptionMaxDepth sets the recursion bound
func OptionMaxDepth(depth int) DiffOption {
	return func(cfg *Config) {
		cfg.MaxDepth = depth
	}
}

// OptionUnchanged turns on verbose output, reporting equal leaves as
// ChangeUnchanged entries
func OptionUnchanged() DiffOption {
	return func(cfg *Config) {
		cfg.Unchanged = true
	}
}

// Differ compares JSON documents. A Differ holds only configuration and is
// safe for concurrent use, unless it was built with OptionSetStats
type Differ struct {
	cfg *Config
}

// New creates a Differ
func New(opts ...DiffOption) *Differ {
	cfg := &Config{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = DefaultMaxDepth
	}
	return &Differ{cfg: cfg}
}

// Config returns a copy of the differ's configuration
func (dd *Differ) Config() Config {
	return *dd.cfg
}

// Diff compares two parsed JSON values and returns the ordered list of
// changes that turn a into b. ctx is consulted once before traversal
// begins; a diff in progress runs to completion
func (dd *Differ) Diff(ctx context.Context, a, b interface{}) (*Result, error) {
	res, st, err := dd.diff(ctx, a, b)
	if err != nil {
		return nil, err
	}
	if dd.cfg.Stats != nil {
		*dd.cfg.Stats = *st
	}
	return res, nil
}

// StatDiff calculates a diff script and diff stats
func (dd *Differ) StatDiff(ctx context.Context, a, b interface{}) (*Result, *Stats, error) {
	res, st, err := dd.diff(ctx, a, b)
	if err != nil {
		return nil, nil, err
	}
	if dd.cfg.Stats != nil {
		*dd.cfg.Stats = *st
	}
	return res, st, nil
}

// Compare parses two raw documents and diffs them. Blank input yields
// ErrEmptyInput before anything is parsed; invalid JSON yields a *ParseError
// naming the offending document
func (dd *Differ) Compare(ctx context.Context, base, comparison []byte) (*Result, error) {
	if len(bytes.TrimSpace(base)) == 0 || len(bytes.TrimSpace(comparison)) == 0 {
		return nil, ErrEmptyInput
	}
	a, err := Parse(base)
	if err != nil {
		return nil, &ParseError{Doc: Base, Err: err}
	}
	b, err := Parse(comparison)
	if err != nil {
		return nil, &ParseError{Doc: Comparison, Err: err}
	}
	return dd.Diff(ctx, a, b)
}

// Diff compares two parsed JSON values using a one-off Differ
func Diff(a, b interface{}, opts ...DiffOption) (*Result, error) {
	return New(opts...).Diff(context.Background(), a, b)
}

// Compare parses and diffs two raw documents using a one-off Differ
func Compare(base, comparison []byte, opts ...DiffOption) (*Result, error) {
	return New(opts...).Compare(context.Background(), base, comparison)
}

func (dd *Differ) diff(ctx context.Context, a, b interface{}) (res *Result, st *Stats, err error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	defer func() {
		if r := recover(); r != nil {
			res, st = nil, nil
			err = fmt.Errorf("%w: %v", ErrTraversal, r)
		}
	}()

	d := &diff{
		cfg:   dd.cfg,
		stats: &Stats{},
		ancA:  map[uintptr]bool{},
		ancB:  map[uintptr]bool{},
	}
	d.walk("", a, b, true, true, 0)

	if dd.cfg.Stats != nil {
		d.stats.Left = countNodes(a)
		d.stats.Right = countNodes(b)
	}
	return newResult(d.changes), d.stats, nil
}

// diff is the state of a single comparison pass
type diff struct {
	cfg     *Config
	changes []*Change
	stats   *Stats
	// containers currently being walked on each side, keyed by identity
	ancA, ancB map[uintptr]bool
}

func (d *diff) emit(c *Change) {
	c.OldValue = d.clip(c.OldValue)
	c.NewValue = d.clip(c.NewValue)
	d.changes = append(d.changes, c)
	d.stats.count(c)
}

// clip replaces a value nested deeper than the larger of MaxDepth and
// DefaultMaxDepth with TruncatedMarker
func (d *diff) clip(v interface{}) interface{} {
	if !typeOf(v).container() {
		return v
	}
	limit := d.cfg.MaxDepth
	if limit < DefaultMaxDepth {
		limit = DefaultMaxDepth
	}
	if deeperThan(v, limit) {
		return TruncatedMarker
	}
	return v
}

func (d *diff) unchanged(path string, a, b interface{}) {
	if d.cfg.Unchanged {
		d.emit(&Change{Path: path, Type: ChangeUnchanged, OldValue: a, NewValue: b})
	}
}

// walk compares a and b at path. hasA and hasB distinguish an absent value
// from an explicit null
func (d *diff) walk(path string, a, b interface{}, hasA, hasB bool, depth int) {
	switch {
	case !hasA && !hasB:
		return
	case !hasA:
		// report the whole subtree once rather than descending into it
		d.emit(&Change{Path: path, Type: ChangeAdded, NewValue: b})
		return
	case !hasB:
		d.emit(&Change{Path: path, Type: ChangeRemoved, OldValue: a})
		return
	}

	ta, tb := typeOf(a), typeOf(b)
	if ta == ntUnknown || tb == ntUnknown {
		if reflect.DeepEqual(a, b) {
			d.unchanged(path, a, b)
			return
		}
		if ta == ntUnknown {
			a = UnsupportedMarker
		}
		if tb == ntUnknown {
			b = UnsupportedMarker
		}
		d.emit(&Change{Path: path, Type: ChangeModified, OldValue: a, NewValue: b})
		return
	}

	if !ta.container() && !tb.container() {
		if Equal(a, b) {
			d.unchanged(path, a, b)
			return
		}
		d.emit(&Change{Path: path, Type: ChangeModified, OldValue: a, NewValue: b})
		return
	}

	if ta != tb {
		// a change of kind is an atomic replacement
		d.emit(&Change{Path: path, Type: ChangeModified, OldValue: a, NewValue: b})
		return
	}

	if depth >= d.cfg.MaxDepth {
		// past the bound subtrees compare whole, without recursion
		d.stats.Truncated++
		if !Equal(a, b) {
			d.emit(&Change{Path: path, Type: ChangeModified, OldValue: a, NewValue: b})
		}
		return
	}

	ida, oka := identity(a)
	idb, okb := identity(b)
	cycA, cycB := oka && d.ancA[ida], okb && d.ancB[idb]
	if cycA || cycB {
		d.stats.Cycles++
		if cycA && cycB && ida == idb {
			return
		}
		if cycA {
			a = CircularMarker
		}
		if cycB {
			b = CircularMarker
		}
		d.emit(&Change{Path: path, Type: ChangeModified, OldValue: a, NewValue: b})
		return
	}
	if oka {
		d.ancA[ida] = true
		defer delete(d.ancA, ida)
	}
	if okb {
		d.ancB[idb] = true
		defer delete(d.ancB, idb)
	}

	switch ta {
	case ntObject:
		if objectLen(a) == 0 && objectLen(b) == 0 {
			d.unchanged(path, a, b)
			return
		}
		for _, key := range keys(a) {
			av, _ := member(a, key)
			bv, inB := member(b, key)
			d.walk(joinKey(path, key), av, bv, true, inB, depth+1)
		}
		for _, key := range keys(b) {
			if _, inA := member(a, key); inA {
				continue
			}
			bv, _ := member(b, key)
			d.walk(joinKey(path, key), nil, bv, false, true, depth+1)
		}
	case ntArray:
		aa, ba := a.([]interface{}), b.([]interface{})
		if len(aa) == 0 && len(ba) == 0 {
			d.unchanged(path, a, b)
			return
		}
		n := len(aa)
		if len(ba) > n {
			n = len(ba)
		}
		for i := 0; i < n; i++ {
			var av, bv interface{}
			if i < len(aa) {
				av = aa[i]
			}
			if i < len(ba) {
				bv = ba[i]
			}
			d.walk(joinIndex(path, i), av, bv, i < len(aa), i < len(ba), depth+1)
		}
	}
}
