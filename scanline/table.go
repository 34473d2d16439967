// Package scanline drives per-row pixel functions over tile iterators.
//
// Point operations do not touch graph or region code at all: they register
// one Func per (color space, channel type) pair in a Table, the engine picks
// the Func once when the node is prepared and then calls Run, which feeds it
// one scanline of every operand at a time.
package scanline

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"github.com/gogpu/pixflow/tile"
)

// ErrUnsupported is wrapped by UnsupportedError.
var ErrUnsupported = errors.New("scanline: unsupported color model")

// Func processes one scanline of width pixels. its holds the operand
// iterators in pad order, inputs first and the output last; an operand
// whose tile is absent is nil.
type Func func(o any, its []*tile.Iterator, width int)

// Key selects a Func.
type Key struct {
	Space tile.ColorSpace
	Type  tile.ChannelType
}

func (k Key) String() string {
	return k.Space.String() + "/" + k.Type.String()
}

// UnsupportedError reports a model with no registered Func.
type UnsupportedError struct {
	Key Key
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("scanline: no function for %s", e.Key)
}

func (e *UnsupportedError) Unwrap() error { return ErrUnsupported }

// Table maps (space, type) pairs to functions. A Table is filled once at
// registration time and only read afterwards.
type Table struct {
	fns map[Key]Func
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{fns: make(map[Key]Func)}
}

// Register sets the function for (space, typ) and returns t for chaining.
func (t *Table) Register(space tile.ColorSpace, typ tile.ChannelType, fn Func) *Table {
	t.fns[Key{Space: space, Type: typ}] = fn
	return t
}

// Lookup returns the function for (space, typ).
func (t *Table) Lookup(space tile.ColorSpace, typ tile.ChannelType) (Func, error) {
	k := Key{Space: space, Type: typ}
	if t != nil {
		if fn, ok := t.fns[k]; ok {
			return fn, nil
		}
	}
	return nil, &UnsupportedError{Key: k}
}

// Keys returns the registered pairs in a stable order.
func (t *Table) Keys() []Key {
	if t == nil {
		return nil
	}
	keys := make([]Key, 0, len(t.fns))
	for k := range t.fns {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b Key) int {
		return cmp.Or(cmp.Compare(a.Space, b.Space), cmp.Compare(a.Type, b.Type))
	})
	return keys
}
