// Package page defines the fixed-size in-memory page buffer shared by the
// disk manager, the buffer pool, and the B+Tree's leaf/non-leaf node views.
package page

// Size is the fixed byte size of every page on disk, large enough to hold
// either a leaf node, a non-leaf node, or the index meta record, plus a
// small header.
const Size = 4096

// ID identifies a page within an index file. The zero value denotes "no
// page" everywhere in this module (empty child pointer, empty right-sibling
// pointer) per spec.md's PageId sentinel.
type ID uint32

// InvalidID is the "no page" sentinel. Kept at 0 so a freshly
// zero-initialized page (and a freshly zero-initialized child-pointer
// slot) reads as "absent" without any extra bookkeeping.
const InvalidID ID = 0

// MetaPageID is the well-known location of the persisted IndexMeta record.
const MetaPageID ID = 1

// Page is one fixed-size buffer as tracked by the buffer pool: an on-disk
// image plus the pool's own bookkeeping (identity, pin count, dirty bit).
// Leaf/non-leaf/meta views are decoded from Data by sibling types in this
// package; a decoded view is a copy, and changes to it reach Data only
// through the matching WriteBack function.
type Page struct {
	id       ID
	pinCount int32
	dirty    bool
	Data     [Size]byte
}

func (p *Page) ID() ID          { return p.id }
func (p *Page) SetID(id ID)     { p.id = id }
func (p *Page) PinCount() int32 { return p.pinCount }
func (p *Page) IsDirty() bool   { return p.dirty }
func (p *Page) SetDirty(d bool) { p.dirty = d }

func (p *Page) SetPinCount(n int32) { p.pinCount = n }

// Reset clears a page's contents and identity so a reused frame never
// leaks a previous page's bytes into a new one.
func (p *Page) Reset() {
	p.id = InvalidID
	p.pinCount = 0
	p.dirty = false
	p.Data = [Size]byte{}
}
