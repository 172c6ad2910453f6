package page

import "encoding/binary"

// NonLeafCapacity is INTARRAYNONLEAFSIZE: the number of router keys a
// non-leaf page can hold; it routes NonLeafCapacity+1 children.
const NonLeafCapacity = 250

const (
	nonLeafOffsetDiscriminant = 0
	nonLeafHeaderSize         = 4
)

func nonLeafKeysOffset() int { return nonLeafHeaderSize }
func nonLeafChildrenOffset() int {
	return nonLeafHeaderSize + NonLeafCapacity*4
}

// NonLeafNode is a decoded image of a non-leaf page. For an occupancy of
// k keys, Children[0..k] are populated (spec.md §3): Children[i] routes
// keys < Keys[i] for i < k, and Children[k] routes keys >= Keys[k-1].
type NonLeafNode struct {
	Keys     [NonLeafCapacity]int32
	Children [NonLeafCapacity + 1]ID
}

// ParseNonLeaf decodes a page already known to hold a non-leaf
// (!IsLeaf(p)) into a mutable in-memory image.
func ParseNonLeaf(p *Page) *NonLeafNode {
	n := &NonLeafNode{}
	ko, co := nonLeafKeysOffset(), nonLeafChildrenOffset()
	for i := 0; i < NonLeafCapacity; i++ {
		n.Keys[i] = int32(binary.LittleEndian.Uint32(p.Data[ko+i*4:]))
	}
	for i := 0; i < NonLeafCapacity+1; i++ {
		n.Children[i] = ID(binary.LittleEndian.Uint32(p.Data[co+i*4:]))
	}
	return n
}

// InitNonLeaf overwrites p in place as an empty non-leaf page, explicitly
// stamping the non-leaf discriminant (spec.md §9), and returns the
// (empty) decoded view.
func InitNonLeaf(p *Page) *NonLeafNode {
	n := &NonLeafNode{}
	WriteBackNonLeaf(p, n)
	return n
}

// WriteBackNonLeaf overwrites the page buffer from the node image.
func WriteBackNonLeaf(p *Page, n *NonLeafNode) {
	binary.LittleEndian.PutUint32(p.Data[nonLeafOffsetDiscriminant:], uint32(nonLeafDiscriminant))
	ko, co := nonLeafKeysOffset(), nonLeafChildrenOffset()
	for i := 0; i < NonLeafCapacity; i++ {
		binary.LittleEndian.PutUint32(p.Data[ko+i*4:], uint32(n.Keys[i]))
	}
	for i := 0; i < NonLeafCapacity+1; i++ {
		binary.LittleEndian.PutUint32(p.Data[co+i*4:], uint32(n.Children[i]))
	}
}

// Length is spec.md's non_leaf_length: the smallest i in [1, N+1] with
// Children[i] == InvalidID, else N+1.
func (n *NonLeafNode) Length() int {
	for i := 1; i <= NonLeafCapacity; i++ {
		if n.Children[i] == InvalidID {
			return i
		}
	}
	return NonLeafCapacity + 1
}

// IsFull reports spec.md's is_non_leaf_full: the last child slot is
// occupied.
func (n *NonLeafNode) IsFull() bool {
	return n.Children[NonLeafCapacity] != InvalidID
}
