package index

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"btreeidx/pkg/storage/page"
)

func TestLowerBound(t *testing.T) {
	arr := []int32{10, 20, 30, 40}
	assert.Equal(t, 0, lowerBound(arr, 4, 10, true))
	assert.Equal(t, 1, lowerBound(arr, 4, 10, false))
	assert.Equal(t, 2, lowerBound(arr, 4, 25, true))
	assert.Equal(t, -1, lowerBound(arr, 4, 41, true))
}

func TestFindInsertionIndexLeaf(t *testing.T) {
	leaf := &page.LeafNode{}
	leaf.Keys[0] = 10
	leaf.Rids[0] = page.RecordID{PageNumber: 1, Slot: 1}
	leaf.Keys[1] = 30
	leaf.Rids[1] = page.RecordID{PageNumber: 1, Slot: 2}

	assert.Equal(t, 1, findInsertionIndexLeaf(leaf, 20))
	assert.Equal(t, 0, findInsertionIndexLeaf(leaf, 5))
	assert.Equal(t, 2, findInsertionIndexLeaf(leaf, 40))
}

func TestInsertIntoLeafShiftsRight(t *testing.T) {
	leaf := &page.LeafNode{}
	leaf.Keys[0] = 10
	leaf.Rids[0] = page.RecordID{PageNumber: 1, Slot: 1}
	leaf.Keys[1] = 30
	leaf.Rids[1] = page.RecordID{PageNumber: 1, Slot: 2}

	insertIntoLeaf(leaf, 1, 20, page.RecordID{PageNumber: 1, Slot: 3})

	assert.Equal(t, int32(10), leaf.Keys[0])
	assert.Equal(t, int32(20), leaf.Keys[1])
	assert.Equal(t, int32(30), leaf.Keys[2])
	assert.Equal(t, uint32(3), leaf.Rids[1].Slot)
}

func TestSplitLeafMovesUpperHalf(t *testing.T) {
	leaf := &page.LeafNode{}
	for i := 0; i < 6; i++ {
		leaf.Keys[i] = int32(i * 10)
		leaf.Rids[i] = page.RecordID{PageNumber: 1, Slot: uint32(i + 1)}
	}

	right := splitLeaf(leaf, 3)

	assert.Equal(t, 3, leaf.Length())
	assert.Equal(t, int32(30), right.Keys[0])
	assert.Equal(t, int32(50), right.Keys[2])
	assert.True(t, leaf.Rids[3].IsEmpty(), "moved region must be zeroed in the original")
}

func TestFindChildIndex(t *testing.T) {
	node := &page.NonLeafNode{}
	node.Keys[0] = 10
	node.Keys[1] = 20
	node.Children[0] = 1
	node.Children[1] = 2
	node.Children[2] = 3

	assert.Equal(t, 0, findChildIndex(node, 5))
	assert.Equal(t, 1, findChildIndex(node, 15))
	assert.Equal(t, 2, findChildIndex(node, 25))
	assert.Equal(t, 0, findChildIndex(node, 10), "lower bound is inclusive at the router key")
}

func TestSplitNonLeafMoveKeyUp(t *testing.T) {
	node := &page.NonLeafNode{}
	for i := 0; i < 5; i++ {
		node.Keys[i] = int32(i * 10)
	}
	for i := 0; i < 6; i++ {
		node.Children[i] = page.ID(i + 1)
	}

	right := splitNonLeaf(node, 2, true)

	assert.Equal(t, int32(20), right.Keys[0], "with moveKeyUp the key at splitIndex is copied into the new node")
	assert.Equal(t, page.ID(4), right.Children[0])
	assert.Equal(t, page.ID(0), node.Children[3], "moved child slots are zeroed in the original")
}
