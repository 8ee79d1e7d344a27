package mdpath

import (
	"iter"
	"sync/atomic"

	"github.com/gubarz/mdpath/internal/codec"
)

// Entry is one encoded path: exactly Len() bytes, each a heading level 1..6,
// root first, no terminator.
//
// An Entry returned inside a Collection belongs to that collection and is
// released with it. Entries built by Encode or Clone are standalone and are
// released on their own.
type Entry struct {
	data     []byte
	owner    *Collection
	released atomic.Bool
}

// Encode builds a standalone entry for path
func Encode(path Path) (*Entry, error) {
	buf, err := codec.Encode(path)
	if err != nil {
		return nil, err
	}
	return &Entry{data: buf}, nil
}

// Len returns the number of encoded bytes, 0 after release
func (e *Entry) Len() uint32 {
	if e.released.Load() {
		return 0
	}
	return uint32(len(e.data))
}

// Bytes returns a copy of the encoded buffer
func (e *Entry) Bytes() ([]byte, error) {
	if e.released.Load() {
		return nil, entryReleased("bytes")
	}
	out := make([]byte, len(e.data))
	copy(out, e.data)
	return out, nil
}

// Path decodes the entry
func (e *Entry) Path() (Path, error) {
	if e.released.Load() {
		return nil, entryReleased("path")
	}
	return codec.Decode(e.data)
}

// Hex renders the encoded bytes as lowercase hex
func (e *Entry) Hex() string {
	if e.released.Load() {
		return ""
	}
	return codec.Hex(e.data)
}

// Owned reports whether the entry belongs to a collection that is still live
func (e *Entry) Owned() bool {
	return e.owner != nil && !e.owner.Released()
}

// Clone copies the entry into a standalone entry the caller releases itself
func (e *Entry) Clone() (*Entry, error) {
	buf, err := e.Bytes()
	if err != nil {
		return nil, err
	}
	return &Entry{data: buf}, nil
}

// Release frees a standalone entry. Entries owned by a live collection cannot
// be released individually, and an entry can only be released once.
func (e *Entry) Release() error {
	if e.Owned() {
		return entryOwned()
	}
	if !e.released.CompareAndSwap(false, true) {
		return entryReleased("release entry")
	}
	e.data = nil
	return nil
}

// Collection is the ordered set of entries produced by one Generate call.
// The caller owns it exclusively until Release.
type Collection struct {
	entries  []*Entry
	released atomic.Bool
}

func newCollection(bufs [][]byte) *Collection {
	c := &Collection{entries: make([]*Entry, len(bufs))}
	for i, buf := range bufs {
		c.entries[i] = &Entry{data: buf, owner: c}
	}
	return c
}

// Len returns the number of entries, 0 after release
func (c *Collection) Len() int {
	if c.released.Load() {
		return 0
	}
	return len(c.entries)
}

// At returns entry i, or nil when i is out of range or the collection was released
func (c *Collection) At(i int) *Entry {
	if c.released.Load() || i < 0 || i >= len(c.entries) {
		return nil
	}
	return c.entries[i]
}

// All yields entries in document order
func (c *Collection) All() iter.Seq2[int, *Entry] {
	return func(yield func(int, *Entry) bool) {
		if c.released.Load() {
			return
		}
		for i, e := range c.entries {
			if !yield(i, e) {
				return
			}
		}
	}
}

// Paths decodes every entry in order
func (c *Collection) Paths() ([]Path, error) {
	if c.released.Load() {
		return nil, collectionReleased("paths")
	}
	paths := make([]Path, 0, len(c.entries))
	for _, e := range c.entries {
		p, err := e.Path()
		if err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}
	return paths, nil
}

// Released reports whether Release has been called
func (c *Collection) Released() bool {
	return c.released.Load()
}

// Release frees the collection and every entry it owns. A second call
// returns an error and has no effect.
func (c *Collection) Release() error {
	if !c.released.CompareAndSwap(false, true) {
		return collectionReleased("release collection")
	}
	for _, e := range c.entries {
		e.released.Store(true)
		e.data = nil
	}
	c.entries = nil
	return nil
}
