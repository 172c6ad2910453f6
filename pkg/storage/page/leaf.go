package page

import "encoding/binary"

// LeafCapacity is INTARRAYLEAFSIZE: the number of (key, rid) entries a leaf
// page can hold. Sized so header + LeafCapacity*leafEntrySize fits in one
// Size-byte page (see SPEC_FULL.md §3).
const LeafCapacity = 340

const (
	leafOffsetDiscriminant = 0
	leafOffsetRightSib     = 4
	leafHeaderSize         = 8
	leafEntrySize          = 12 // int32 key + RecordID{uint32, uint32}
)

// LeafNode is a decoded image of a leaf page: keyArray/ridArray kept
// contiguous from index 0 (spec.md invariants 2-3) plus the right-sibling
// chain pointer used to walk the leaf chain during a scan.
type LeafNode struct {
	Keys     [LeafCapacity]int32
	Rids     [LeafCapacity]RecordID
	RightSib ID
}

// ParseLeaf decodes a page already known to hold a leaf (IsLeaf(p) is
// true) into a mutable in-memory image. Mutate the returned node, then
// call WriteBackLeaf to persist it — mutation and persistence are
// separate steps so the dirty-bit discipline at each call site stays
// visible (spec.md §4.1).
func ParseLeaf(p *Page) *LeafNode {
	n := &LeafNode{RightSib: ID(binary.LittleEndian.Uint32(p.Data[leafOffsetRightSib:]))}
	for i := 0; i < LeafCapacity; i++ {
		off := leafHeaderSize + i*leafEntrySize
		n.Keys[i] = int32(binary.LittleEndian.Uint32(p.Data[off:]))
		n.Rids[i].PageNumber = binary.LittleEndian.Uint32(p.Data[off+4:])
		n.Rids[i].Slot = binary.LittleEndian.Uint32(p.Data[off+8:])
	}
	return n
}

// InitLeaf overwrites p in place as an empty leaf page and returns the
// (empty) decoded view.
func InitLeaf(p *Page) *LeafNode {
	n := &LeafNode{}
	WriteBackLeaf(p, n)
	return n
}

// WriteBackLeaf overwrites the page buffer from the node image (spec.md
// §4.1 write_back). The caller is responsible for marking the page dirty
// with the buffer manager afterwards.
func WriteBackLeaf(p *Page, n *LeafNode) {
	ld := leafDiscriminant
	binary.LittleEndian.PutUint32(p.Data[leafOffsetDiscriminant:], uint32(ld))
	binary.LittleEndian.PutUint32(p.Data[leafOffsetRightSib:], uint32(n.RightSib))
	for i := 0; i < LeafCapacity; i++ {
		off := leafHeaderSize + i*leafEntrySize
		binary.LittleEndian.PutUint32(p.Data[off:], uint32(n.Keys[i]))
		binary.LittleEndian.PutUint32(p.Data[off+4:], n.Rids[i].PageNumber)
		binary.LittleEndian.PutUint32(p.Data[off+8:], n.Rids[i].Slot)
	}
}

// Length returns the first index with an empty rid, i.e. the node's
// occupied length (spec.md leaf_length), or LeafCapacity if full.
func (n *LeafNode) Length() int {
	for i := 0; i < LeafCapacity; i++ {
		if n.Rids[i].IsEmpty() {
			return i
		}
	}
	return LeafCapacity
}

// IsFull reports spec.md's is_leaf_full: the last slot is occupied.
func (n *LeafNode) IsFull() bool {
	return !n.Rids[LeafCapacity-1].IsEmpty()
}
